package cli

import (
	"context"
	"log/slog"

	"github.com/aretw0/weatherbot/internal/config"
	"github.com/aretw0/weatherbot/pkg/adapters/mcp"
)

// ServeMCP exposes the bot over MCP using the stdio or sse transport.
func ServeMCP(ctx context.Context, cfg config.Config, transport string, port int, logger *slog.Logger) error {
	stack, err := createStack(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stack.Close()

	srv := mcp.NewServer(stack.Bot, stack.Collector, logger, mcp.WithMaxInputBytes(stack.MaxInputBytes))
	if transport == "sse" {
		return srv.ServeSSE(ctx, port)
	}
	logger.Info("Starting weatherbot MCP server (stdio)")
	return srv.ServeStdio()
}
