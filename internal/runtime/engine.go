package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/weatherbot/pkg/domain"
	"github.com/aretw0/weatherbot/pkg/ports"
)

// DefaultLookupTimeout bounds a single weather lookup when the caller sets no deadline.
const DefaultLookupTimeout = 10 * time.Second

// Engine is the stateless dialog transition engine.
// It holds no conversation data between calls: every turn is computed from its request alone.
type Engine struct {
	provider      ports.WeatherProvider
	metrics       ports.Metrics
	hooks         domain.LifecycleHooks
	logger        *slog.Logger
	lookupTimeout time.Duration
	now           func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithMetrics injects the counters collaborator.
func WithMetrics(m ports.Metrics) EngineOption {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLookupTimeout overrides DefaultLookupTimeout. Zero or negative disables the engine deadline.
func WithLookupTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.lookupTimeout = d
	}
}

// WithClock replaces time.Now, used for durations and event timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates a new engine backed by the given weather provider.
func NewEngine(provider ports.WeatherProvider, opts ...EngineOption) *Engine {
	e := &Engine{
		provider:      provider,
		metrics:       ports.NopMetrics{},
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		lookupTimeout: DefaultLookupTimeout,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ ports.DialogEngine = (*Engine)(nil)

// Transition computes the next state and reply for a single turn.
//
// The incoming state is untrusted: an unknown state tag restarts the conversation and
// the caller's Context is copied, never mutated. Lookup failures come back as a retry
// prompt. The only error returned wraps domain.ErrInternal and signals a defect.
func (e *Engine) Transition(ctx context.Context, req domain.TransitionRequest) (res domain.TransitionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.metrics.IncErrors()
			e.logger.Error("transition panicked", "session_id", req.SessionID, "panic", r)
			res = domain.TransitionResult{}
			err = fmt.Errorf("%w: %v", domain.ErrInternal, r)
		}
	}()

	state := req.State
	if state == nil {
		state = domain.NewConversationState()
	}
	current := state.CurrentState
	if current == "" {
		current = domain.InitialState
	}
	convCtx := state.Context.Clone()

	e.metrics.IncTurns()
	e.logger.Debug("processing transition",
		"session_id", req.SessionID,
		"current_state", current,
		"input", req.Input,
		"city", convCtx.City,
	)

	t := turn{sessionID: req.SessionID, input: req.Input, ctx: convCtx}
	if current.Valid() {
		res = e.dispatch(ctx, current, t)
	} else {
		res = e.handleUnknown(ctx, string(current), t)
	}
	res.ExpectsConfirmation = res.NextState.ExpectsConfirmation()

	e.emitTurn(ctx, req, current, res.NextState)
	return res, nil
}

func (e *Engine) emitTurn(ctx context.Context, req domain.TransitionRequest, prior, next domain.StateName) {
	if e.hooks.OnTurn == nil {
		return
	}
	e.hooks.OnTurn(ctx, &domain.TurnEvent{
		EventBase: domain.EventBase{
			Timestamp: e.now(),
			Type:      domain.EventTurn,
			SessionID: req.SessionID,
		},
		PriorState: prior,
		NextState:  next,
		Input:      req.Input,
	})
}

func (e *Engine) emitLookup(ctx context.Context, sessionID, city string, d time.Duration, err error) {
	if e.hooks.OnLookup == nil {
		return
	}
	e.hooks.OnLookup(ctx, &domain.LookupEvent{
		EventBase: domain.EventBase{
			Timestamp: e.now(),
			Type:      domain.EventLookup,
			SessionID: sessionID,
		},
		City:     city,
		Success:  err == nil,
		Duration: d,
		Err:      err,
	})
}

func (e *Engine) emitAnomaly(ctx context.Context, sessionID, received string) {
	if e.hooks.OnAnomaly == nil {
		return
	}
	e.hooks.OnAnomaly(ctx, &domain.AnomalyEvent{
		EventBase: domain.EventBase{
			Timestamp: e.now(),
			Type:      domain.EventAnomaly,
			SessionID: sessionID,
		},
		ReceivedState: received,
	})
}
