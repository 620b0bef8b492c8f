package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/weatherbot"
	"github.com/aretw0/weatherbot/internal/config"
	"github.com/aretw0/weatherbot/internal/presentation/tui"
	httpAdapter "github.com/aretw0/weatherbot/pkg/adapters/http"
	"github.com/aretw0/weatherbot/pkg/ports"
	"github.com/google/uuid"
)

// ChatOptions configures the chat REPL.
type ChatOptions struct {
	// Remote is the base URL of a running server. Empty runs the engine in-process.
	Remote    string
	SessionID string
	// Plain disables markdown rendering and the banner.
	Plain bool
}

// Chat runs an interactive conversation on in/out until exit, EOF or cancellation.
func Chat(ctx context.Context, cfg config.Config, opts ChatOptions, in io.Reader, out io.Writer, logger *slog.Logger) error {
	return chat(ctx, cfg, opts, in, out, logger)
}

func chat(ctx context.Context, cfg config.Config, opts ChatOptions, in io.Reader, out io.Writer, logger *slog.Logger, extra ...stackOption) error {
	var engine ports.DialogEngine
	if opts.Remote != "" {
		engine = httpAdapter.NewClient(opts.Remote)
	} else {
		stack, err := createStack(ctx, cfg, logger, extra...)
		if err != nil {
			return err
		}
		defer stack.Close()
		engine = stack.Bot
	}

	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}
	logger.Info("Chat session started", "session_id", opts.SessionID, "remote", opts.Remote)

	r := weatherbot.NewRunner(NewInterruptibleReader(in, ctx.Done()), out, opts.SessionID)
	if !opts.Plain {
		tui.PrintBanner(out, weatherbot.Version)
		r.Renderer = tui.NewRenderer()
	}

	_, err := r.Run(ctx, engine, nil)
	if err = handleExecutionError(err); err != nil {
		return err
	}
	if ctx.Err() != nil {
		printSystemMessage(out, "Interrupted.")
	}
	return nil
}
