package observability

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/weatherbot/pkg/domain"
)

// NewLogHooks returns lifecycle hooks that write every engine event as a structured record.
func NewLogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(ctx context.Context, e *domain.TurnEvent) {
			logger.InfoContext(ctx, "turn",
				"session_id", e.SessionID,
				"state", e.PriorState,
				"next_state", e.NextState,
				"input", e.Input,
				"timestamp", e.Timestamp,
			)
		},
		OnLookup: func(ctx context.Context, e *domain.LookupEvent) {
			attrs := []any{
				"session_id", e.SessionID,
				"city", e.City,
				"success", e.Success,
				"duration", e.Duration,
			}
			var le *domain.LookupError
			if errors.As(e.Err, &le) {
				logger.WarnContext(ctx, "weather query", append(attrs, "reason", le.Reason, "error", e.Err)...)
				return
			}
			if e.Err != nil {
				logger.WarnContext(ctx, "weather query", append(attrs, "error", e.Err)...)
				return
			}
			logger.InfoContext(ctx, "weather query", attrs...)
		},
		OnAnomaly: func(ctx context.Context, e *domain.AnomalyEvent) {
			logger.InfoContext(ctx, "state reset", "session_id", e.SessionID, "received_state", e.ReceivedState)
		},
	}
}

// MergeHooks calls every non-nil callback of each hooks value, in order.
func MergeHooks(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(ctx context.Context, e *domain.TurnEvent) {
			for _, h := range all {
				if h.OnTurn != nil {
					h.OnTurn(ctx, e)
				}
			}
		},
		OnLookup: func(ctx context.Context, e *domain.LookupEvent) {
			for _, h := range all {
				if h.OnLookup != nil {
					h.OnLookup(ctx, e)
				}
			}
		},
		OnAnomaly: func(ctx context.Context, e *domain.AnomalyEvent) {
			for _, h := range all {
				if h.OnAnomaly != nil {
					h.OnAnomaly(ctx, e)
				}
			}
		},
	}
}
