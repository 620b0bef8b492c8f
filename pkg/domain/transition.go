package domain

// Edge describes one row of the dialog transition table.
// It is descriptive only: the engine does not read it to decide a turn.
type Edge struct {
	From StateName `json:"from"`
	To   StateName `json:"to"`

	// When is a short human description of the input that selects this edge.
	When string `json:"when,omitempty"`

	// Lookup marks edges that call the weather provider.
	Lookup bool `json:"lookup,omitempty"`
}
