// Package grpc implements the gRPC transport for podcaster.
//
// The server exposes the standard grpc.health.v1.Health service so gRPC-aware
// orchestrators can check the service. Its serving status follows the
// readiness of the health.Server it is attached to.
package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/nadzzz/podcaster/internal/health"
)

// Service is the name the podcast generator reports its status under.
const Service = "podcaster.Generator"

// Transport implements transport.Transport over gRPC.
type Transport struct {
	port   int
	server *grpc.Server
	health *grpchealth.Server
}

// New creates a new gRPC transport on the given port. Serving status is
// mirrored from readiness.
func New(port int, readiness *health.Server) *Transport {
	t := &Transport{
		port:   port,
		server: grpc.NewServer(),
		health: grpchealth.NewServer(),
	}
	healthpb.RegisterHealthServer(t.server, t.health)
	reflection.Register(t.server)

	readiness.Watch(t.setServing)
	return t
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "grpc" }

func (t *Transport) setServing(ready bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ready {
		status = healthpb.HealthCheckResponse_SERVING
	}
	t.health.SetServingStatus("", status)
	t.health.SetServingStatus(Service, status)
}

// Listen starts the gRPC server. It blocks until the context is cancelled.
func (t *Transport) Listen(ctx context.Context) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", t.port))
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	return t.Serve(ctx, lis)
}

// Serve accepts connections on lis until the context is cancelled.
func (t *Transport) Serve(ctx context.Context, lis net.Listener) error {
	slog.Info("grpc transport listening", "addr", lis.Addr().String())

	go func() {
		<-ctx.Done()
		slog.Info("grpc transport shutting down")
		t.health.Shutdown()
		t.server.GracefulStop()
	}()

	return t.server.Serve(lis)
}

// Close gracefully stops the gRPC server.
func (t *Transport) Close() error {
	t.health.Shutdown()
	t.server.GracefulStop()
	return nil
}
