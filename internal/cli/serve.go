package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/aretw0/weatherbot/internal/config"
	httpAdapter "github.com/aretw0/weatherbot/pkg/adapters/http"
)

// ShutdownTimeout bounds how long in-flight requests may run after a stop signal.
const ShutdownTimeout = 5 * time.Second

// Serve runs the HTTP server until ctx is cancelled, then shuts it down gracefully.
func Serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	stack, err := createStack(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stack.Close()

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("listen on port %s: %w", cfg.Port, err)
	}
	return serveOn(ctx, ln, stack, logger)
}

func serveOn(ctx context.Context, ln net.Listener, stack *Stack, logger *slog.Logger) error {
	handler, err := httpAdapter.NewHandler(stack.Bot,
		httpAdapter.WithMetrics(stack.Collector),
		httpAdapter.WithHealth(stack.Collector),
		httpAdapter.WithWeather(stack.Bot.Lookup),
		httpAdapter.WithGatherer(stack.Registry),
		httpAdapter.WithMaxInputBytes(stack.MaxInputBytes),
		httpAdapter.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Weather bot listening", "addr", ln.Addr().String())
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown did not complete", "timeout", ShutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("could not stop server: %w", err)
			}
		}
		logger.Info("Server stopped gracefully")
		return nil
	}
}
