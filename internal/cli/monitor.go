package cli

import (
	"context"
	"io"
	"time"

	"github.com/aretw0/weatherbot/internal/presentation/tui"
	httpAdapter "github.com/aretw0/weatherbot/pkg/adapters/http"
)

// MonitorOptions configures the status board.
type MonitorOptions struct {
	Target   string
	Interval time.Duration
	// Frames stops after that many redraws. Zero runs until ctx is cancelled.
	Frames int
}

// Monitor polls the server health endpoint and redraws the board on out.
func Monitor(ctx context.Context, opts MonitorOptions, out io.Writer) error {
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Second
	}
	client := httpAdapter.NewClient(opts.Target)
	board := tui.NewBoard(out, isTerminal(out))

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for frame := 1; ; frame++ {
		fetchCtx, cancel := context.WithTimeout(ctx, opts.Interval)
		report, err := client.Health(fetchCtx)
		cancel()
		board.Draw(opts.Target, report, err, time.Now())

		if opts.Frames > 0 && frame >= opts.Frames {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
