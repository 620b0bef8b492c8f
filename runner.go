package weatherbot

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/weatherbot/pkg/domain"
	"github.com/aretw0/weatherbot/pkg/ports"
)

// Runner drives a conversation over line-based IO, holding the state on the client
// side the same way a browser would: the state returned by one turn is resent on the next.
// This allows for easy testing and integration with different frontends (CLI, TUI, etc).
type Runner struct {
	Input     io.Reader
	Output    io.Writer
	SessionID string
	Renderer  ContentRenderer
	// Prompt is printed before reading each line. Defaults to "> ".
	Prompt string
}

// ContentRenderer is a function that transforms a reply before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner bound to the given IO.
func NewRunner(in io.Reader, out io.Writer, sessionID string) *Runner {
	return &Runner{
		Input:     in,
		Output:    out,
		SessionID: sessionID,
		Prompt:    "> ",
	}
}

// Run executes the conversation loop until the input ends, the user types exit/quit,
// or the context is cancelled. It returns the last state so callers can resume.
func (r *Runner) Run(ctx context.Context, engine ports.DialogEngine, state *domain.ConversationState) (*domain.ConversationState, error) {
	if r.Input == nil {
		return state, errors.New("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return state, errors.New("output writer must be set (use os.Stdout)")
	}
	lines := bufio.NewReader(r.Input)

	// The first turn is sent with empty input, like a page load.
	input := ""
	for {
		if err := ctx.Err(); err != nil {
			return state, err
		}

		res, err := engine.Transition(ctx, domain.TransitionRequest{
			SessionID: r.SessionID,
			Input:     input,
			State:     state,
		})
		if err != nil {
			return state, fmt.Errorf("transition error: %w", err)
		}
		state = res.NextConversationState()
		r.show(res)

		fmt.Fprint(r.Output, r.Prompt)
		text, err := lines.ReadString('\n')
		if err != nil && (text == "" || !errors.Is(err, io.EOF)) {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.Output)
				return state, nil
			}
			return state, fmt.Errorf("input error: %w", err)
		}
		input = strings.TrimSpace(text)

		if input == "exit" || input == "quit" {
			fmt.Fprintln(r.Output, "Até logo!")
			return state, nil
		}
	}
}

func (r *Runner) show(res domain.TransitionResult) {
	output := res.Reply
	if r.Renderer != nil {
		if rendered, err := r.Renderer(res.Reply); err == nil {
			output = rendered
		}
	}
	fmt.Fprintln(r.Output, strings.TrimSpace(output))
	if res.ExpectsConfirmation {
		fmt.Fprintln(r.Output, "[sim] [não]")
	}
}
