package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nadzzz/podcaster/internal/health"
	"github.com/nadzzz/podcaster/internal/transport"
	grpctransport "github.com/nadzzz/podcaster/internal/transport/grpc"
	httptransport "github.com/nadzzz/podcaster/internal/transport/http"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with health checks",
		Long: `Serve exposes POST /generate_podcast on server.port and /healthz, /readyz
on server.health_port. When transports.grpc.enabled is set, the standard gRPC
health service is served on transports.grpc.port as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	slog.Info("podcaster starting", "version", version)
	if err := cfg.CheckCredentials(); err != nil {
		// Requests are refused with 503 until the keys are configured.
		slog.Warn("credentials incomplete", "error", err)
	}

	// Create root context with signal handling for graceful shutdown.
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	healthServer := health.New(cfg.Server.HealthPort)

	httpTransport, err := httptransport.New(c.pipeline, httptransport.Options{
		Port:             cfg.Server.Port,
		OutputDir:        cfg.Server.OutputDir,
		MaxConcurrent:    cfg.Server.MaxConcurrent,
		CheckCredentials: cfg.CheckCredentials,
		Ready:            healthServer.Ready,
	})
	if err != nil {
		return err
	}

	transports := []transport.Transport{httpTransport}
	if cfg.Transports.GRPC.Enabled {
		transports = append(transports, grpctransport.New(cfg.Transports.GRPC.Port, healthServer))
	}

	go func() {
		if err := healthServer.ListenAndServe(ctx); err != nil {
			slog.Error("health server failed", "error", err)
		}
	}()

	var wg sync.WaitGroup
	errCh := make(chan error, len(transports))
	for _, t := range transports {
		wg.Add(1)
		go func(t transport.Transport) {
			defer wg.Done()
			slog.Info("starting transport", "name", t.Name())
			if err := t.Listen(ctx); err != nil {
				slog.Error("transport failed", "name", t.Name(), "error", err)
				errCh <- fmt.Errorf("%s transport: %w", t.Name(), err)
				cancel()
			}
		}(t)
	}

	healthServer.SetReady(true)
	slog.Info("podcaster ready",
		"transports", len(transports),
		"port", cfg.Server.Port,
		"health_port", cfg.Server.HealthPort)

	// Block until shutdown signal.
	<-ctx.Done()
	healthServer.SetReady(false)
	slog.Info("shutdown signal received, draining...")

	for _, t := range transports {
		if err := t.Close(); err != nil {
			slog.Error("transport close error", "name", t.Name(), "error", err)
		}
	}

	wg.Wait()
	slog.Info("podcaster stopped")

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}
