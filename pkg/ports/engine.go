package ports

import (
	"context"

	"github.com/aretw0/weatherbot/pkg/domain"
)

// DialogEngine defines the interface for the stateless conversation core.
// This is the primary interface used by adapters (e.g., HTTP, MCP, CLI) that keep the
// conversation state on the client side and resend it every turn.
type DialogEngine interface {
	// Transition computes the next state and reply for a single turn.
	// Anticipated failures (such as a failed weather lookup) are returned as an in-character
	// reply, never as an error.
	Transition(ctx context.Context, req domain.TransitionRequest) (domain.TransitionResult, error)
}
