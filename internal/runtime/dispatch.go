package runtime

import (
	"context"
	"strings"

	"github.com/aretw0/weatherbot/pkg/domain"
)

// turn bundles the per-call data the state handlers work on.
// ctx is a private copy of the client's Context.
type turn struct {
	sessionID string
	input     string
	ctx       domain.Context
}

func reply(next domain.StateName, text string, c domain.Context) domain.TransitionResult {
	return domain.TransitionResult{
		NextState: next,
		Reply:     text,
		Data:      &domain.ResultData{Context: c},
	}
}

// replyWithoutData is used when the conversation restarts and nothing is carried forward.
func replyWithoutData(next domain.StateName, text string) domain.TransitionResult {
	return domain.TransitionResult{NextState: next, Reply: text}
}

func (e *Engine) dispatch(ctx context.Context, current domain.StateName, t turn) domain.TransitionResult {
	switch current {
	case domain.StateGreeting:
		return reply(domain.StateAskCity, replyGreeting, t.ctx)
	case domain.StateAskCity:
		return e.handleAskCity(t)
	case domain.StateConfirmCity:
		return e.handleConfirmCity(ctx, t)
	case domain.StateFetching:
		return e.lookupAndShow(ctx, t)
	case domain.StateShowResults:
		return e.handleShowResults(t)
	case domain.StateEnd:
		return replyWithoutData(domain.StateGreeting, replyRestart)
	}
	return e.handleUnknown(ctx, string(current), t)
}

func (e *Engine) handleAskCity(t turn) domain.TransitionResult {
	city := strings.TrimSpace(t.input)
	if city == "" {
		return reply(domain.StateAskCity, replyAskCityAgain, t.ctx)
	}
	t.ctx.City = city
	return reply(domain.StateConfirmCity, confirmCityReply(city), t.ctx)
}

func (e *Engine) handleConfirmCity(ctx context.Context, t turn) domain.TransitionResult {
	switch parseAnswer(t.input) {
	case answerYes:
		return e.lookupAndShow(ctx, t)
	case answerNo:
		t.ctx.City = ""
		t.ctx.Weather = nil
		return reply(domain.StateAskCity, replyOtherCity, t.ctx)
	default:
		return reply(domain.StateConfirmCity, replyYesOrNo, t.ctx)
	}
}

func (e *Engine) handleShowResults(t turn) domain.TransitionResult {
	switch parseAnswer(t.input) {
	case answerYes:
		return reply(domain.StateAskCity, replyNextCity, domain.Context{})
	case answerNo:
		return reply(domain.StateEnd, replyFarewell, domain.Context{})
	default:
		return reply(domain.StateShowResults, replyContinueYesNo, t.ctx)
	}
}

func (e *Engine) handleUnknown(ctx context.Context, received string, t turn) domain.TransitionResult {
	e.logger.Info("unknown conversation state, restarting", "session_id", t.sessionID, "received_state", received)
	e.emitAnomaly(ctx, t.sessionID, received)
	return replyWithoutData(domain.StateGreeting, replyUnknownState)
}
