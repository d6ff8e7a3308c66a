package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/formflow/pkg/adapters/http"
	"github.com/aretw0/formflow/pkg/adapters/mcp"
)

// Serve runs the REST/SSE API until ctx ends or a signal arrives.
func Serve(ctx context.Context, opts Options) error {
	logger := createLogger(opts)
	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	b, err := createBackend(sigCtx, opts, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	handler := httpAdapter.NewHandler(b.Sessions, b.Catalog.List(),
		httpAdapter.WithLogger(logger),
		httpAdapter.WithGatherer(b.Registry),
	)

	srv := &http.Server{
		Addr:              opts.Config.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting formflow server", "addr", srv.Addr, "flows", len(b.Catalog.List()))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case <-sigCtx.Done():
		logger.Info("shutdown started", "signal", fmt.Sprint(sigCtx.Signal()))

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// Open SSE streams never finish on their own; Close ends them after the deadline.
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		logger.Info("formflow server stopped")
		return nil
	}
}

// ServeMCP runs the MCP server on the requested transport.
func ServeMCP(ctx context.Context, opts Options) error {
	logger := createLogger(opts)
	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	b, err := createBackend(sigCtx, opts, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	srv := mcp.NewServer(b.Sessions, b.Catalog.List(), logger)

	switch opts.Transport {
	case "", "stdio":
		logger.Info("starting formflow MCP server (stdio)")
		return srv.ServeStdio()
	case "sse":
		logger.Info("starting formflow MCP server (SSE)", "port", opts.Port)
		if err := srv.ServeSSE(sigCtx, opts.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		logger.Info("MCP server stopped")
		return nil
	default:
		return fmt.Errorf("unknown transport %q, supported: stdio, sse", opts.Transport)
	}
}
