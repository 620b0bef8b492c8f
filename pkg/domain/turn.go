package domain

// TransitionRequest is the input of a single turn.
type TransitionRequest struct {
	// SessionID is an opaque client-generated key, used only to correlate logs and metrics.
	SessionID string `json:"sessionId" mapstructure:"session_id"`

	// Input is the free text typed by the user. It may be empty.
	Input string `json:"input" mapstructure:"input"`

	// State is the state returned by the previous turn. Nil means a new conversation.
	State *ConversationState `json:"state,omitempty" mapstructure:"state"`
}

// ResultData carries the context the client must send back on the next turn.
type ResultData struct {
	Context Context `json:"context"`
}

// TransitionResult is the output of a single turn.
type TransitionResult struct {
	NextState StateName   `json:"nextState"`
	Reply     string      `json:"reply"`
	Data      *ResultData `json:"data,omitempty"`

	// ExpectsConfirmation tells the presentation layer to offer yes/no affordances.
	ExpectsConfirmation bool `json:"expectsConfirmation"`
}

// NextConversationState builds the state a client should send on the following turn.
func (r TransitionResult) NextConversationState() *ConversationState {
	s := &ConversationState{CurrentState: r.NextState}
	if r.Data != nil {
		s.Context = r.Data.Context.Clone()
	}
	return s
}
