package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/aretw0/weatherbot/pkg/observability"
	"github.com/muesli/termenv"
)

// Board draws the monitor status screen.
type Board struct {
	out   *termenv.Output
	clear bool
}

// NewBoard creates a board on w. clearScreen should only be set for interactive terminals.
func NewBoard(w io.Writer, clearScreen bool) *Board {
	return &Board{out: termenv.NewOutput(w), clear: clearScreen}
}

// Draw renders one frame. fetchErr, when set, replaces the counters with an offline notice.
func (b *Board) Draw(target string, report observability.HealthReport, fetchErr error, at time.Time) {
	if b.clear {
		b.out.ClearScreen()
		b.out.MoveCursor(1, 1)
	}
	p := b.out.ColorProfile()

	fmt.Fprintln(b.out, termenv.String("Weather Bot Monitor").Bold())
	fmt.Fprintf(b.out, "%s  %s\n\n", target, termenv.String(at.Format("15:04:05")).Faint())

	if fetchErr != nil {
		fmt.Fprintln(b.out, termenv.String("● offline").Foreground(p.Color("#ef4444")))
		fmt.Fprintf(b.out, "  %v\n", fetchErr)
		return
	}

	status := termenv.String("● " + report.Status)
	if report.Status == observability.StatusHealthy {
		status = status.Foreground(p.Color("#22c55e"))
	} else {
		status = status.Foreground(p.Color("#ef4444"))
	}
	fmt.Fprintln(b.out, status)

	m := report.Metrics
	errRate := termenv.String(fmt.Sprintf("%.2f%%", m.ErrorRate))
	if m.ErrorRate >= observability.UnhealthyErrorRate {
		errRate = errRate.Foreground(p.Color("#ef4444"))
	}

	fmt.Fprintf(b.out, "  %-18s %s\n", "uptime", m.Uptime)
	fmt.Fprintf(b.out, "  %-18s %d\n", "requests", m.Requests)
	fmt.Fprintf(b.out, "  %-18s %.2f\n", "requests/min", m.RequestsPerMinute)
	fmt.Fprintf(b.out, "  %-18s %d\n", "weather queries", m.WeatherQueries)
	fmt.Fprintf(b.out, "  %-18s %d\n", "errors", m.Errors)
	fmt.Fprintf(b.out, "  %-18s %s\n", "error rate", errRate)
}
