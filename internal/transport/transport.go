// Package transport defines the interface for the long-running front ends
// started by `podcaster serve`.
//
// Each transport (HTTP, gRPC health) implements this interface. The serve
// command starts every enabled transport and stops them together on shutdown.
package transport

import (
	"context"

	"github.com/nadzzz/podcaster/internal/podcast"
)

// Generator runs one podcast generation. *pipeline.Pipeline implements it.
type Generator interface {
	Generate(ctx context.Context, req podcast.Request) (*podcast.Result, error)
}

// Transport is the interface that every transport adapter must implement.
type Transport interface {
	// Name returns the transport identifier (e.g., "http", "grpc").
	Name() string

	// Listen starts serving. It blocks until the context is cancelled.
	Listen(ctx context.Context) error

	// Close gracefully shuts down the transport, draining in-flight work.
	Close() error
}
