package runtime

import (
	"context"
	"errors"

	"github.com/aretw0/weatherbot/pkg/domain"
)

// lookupAndShow is the single lookup routine behind both CONFIRM_CITY and FETCHING.
// Success or failure, the conversation lands on SHOW_RESULTS.
func (e *Engine) lookupAndShow(ctx context.Context, t turn) domain.TransitionResult {
	if !t.ctx.HasCity() {
		return reply(domain.StateAskCity, replyNeedCity, t.ctx)
	}
	city := t.ctx.City

	start := e.now()
	snapshot, err := e.fetch(ctx, city)
	elapsed := e.now().Sub(start)

	e.metrics.IncWeatherQueries()
	e.metrics.ObserveLookup(err == nil, elapsed)
	e.emitLookup(ctx, t.sessionID, city, elapsed, err)

	if err != nil {
		e.metrics.IncErrors()
		e.logger.Error("weather lookup failed",
			"session_id", t.sessionID,
			"city", city,
			"duration", elapsed,
			"reason", lookupReason(err),
			"error", err,
		)
		t.ctx.Weather = nil
		return reply(domain.StateShowResults, replyLookupFailed, t.ctx)
	}

	e.logger.Debug("weather lookup succeeded", "session_id", t.sessionID, "city", city, "duration", elapsed)
	t.ctx.Weather = &snapshot
	return reply(domain.StateShowResults, summaryReply(city, snapshot), t.ctx)
}

// fetch calls the provider under the engine deadline and normalizes every failure into a LookupError.
func (e *Engine) fetch(ctx context.Context, city string) (domain.WeatherSnapshot, error) {
	if e.provider == nil {
		return domain.WeatherSnapshot{}, &domain.LookupError{
			City:   city,
			Reason: domain.ReasonMissingCredential,
			Err:    domain.ErrMissingCredential,
		}
	}
	if e.lookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.lookupTimeout)
		defer cancel()
	}

	snapshot, err := e.provider.Lookup(ctx, city)
	if err == nil {
		return snapshot, nil
	}
	reason := domain.ReasonNetwork
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		reason = domain.ReasonTimeout
	}
	return domain.WeatherSnapshot{}, domain.AsLookupError(city, err, reason)
}

func lookupReason(err error) domain.LookupReason {
	var le *domain.LookupError
	if errors.As(err, &le) {
		return le.Reason
	}
	return domain.ReasonNetwork
}
