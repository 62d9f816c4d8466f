// Package health provides a simple HTTP health check endpoint.
//
// Docker and Kubernetes use these endpoints to monitor the service's
// liveness. When podcaster is serving and ready to accept generation
// requests, /healthz and /readyz return 200 OK.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Server is a lightweight HTTP server that exposes /healthz and /readyz.
type Server struct {
	port   int
	ready  atomic.Bool
	server *http.Server

	mu       sync.Mutex
	watchers []func(ready bool)
}

// New creates a new health check server.
func New(port int) *Server {
	return &Server{port: port}
}

// SetReady marks the service as ready to accept traffic and notifies watchers.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)

	s.mu.Lock()
	watchers := append([]func(bool){}, s.watchers...)
	s.mu.Unlock()
	for _, fn := range watchers {
		fn(ready)
	}
}

// Ready reports the current readiness.
func (s *Server) Ready() bool { return s.ready.Load() }

// Watch registers fn to be called with every readiness change. fn is called
// once immediately with the current state.
func (s *Server) Watch(fn func(ready bool)) {
	s.mu.Lock()
	s.watchers = append(s.watchers, fn)
	s.mu.Unlock()
	fn(s.ready.Load())
}

// Handler returns the health routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.status)
	mux.HandleFunc("GET /readyz", s.status)
	return mux
}

func (s *Server) status(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !s.ready.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "not_ready"})
		return
	}
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// ListenAndServe starts the health check HTTP server.
// It blocks until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("health server listening", "port", s.port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}
