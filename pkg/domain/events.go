package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTurn    EventType = "turn"
	EventLookup  EventType = "lookup"
	EventAnomaly EventType = "anomaly"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// TurnEvent is emitted once per transition.
type TurnEvent struct {
	EventBase
	PriorState StateName `json:"prior_state"`
	NextState  StateName `json:"next_state"`
	Input      string    `json:"input"`
}

// LookupEvent is emitted once per weather lookup attempt.
type LookupEvent struct {
	EventBase
	City     string        `json:"city"`
	Success  bool          `json:"success"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// AnomalyEvent is emitted when the client sends a state tag the engine does not know.
type AnomalyEvent struct {
	EventBase
	ReceivedState string `json:"received_state"`
}

// LifecycleHooks defines callbacks for engine observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnTurn    func(context.Context, *TurnEvent)
	OnLookup  func(context.Context, *LookupEvent)
	OnAnomaly func(context.Context, *AnomalyEvent)
}
