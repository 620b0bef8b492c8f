package domain

// StateName identifies the step of the conversation the client is currently at.
type StateName string

const (
	StateGreeting    StateName = "GREETING"
	StateAskCity     StateName = "ASK_CITY"
	StateConfirmCity StateName = "CONFIRM_CITY"
	StateFetching    StateName = "FETCHING"
	StateShowResults StateName = "SHOW_RESULTS"
	StateEnd         StateName = "END"
)

// InitialState is the state a conversation starts in when the client sends none.
const InitialState = StateGreeting

// AllStates lists every known state, in conversation order.
var AllStates = []StateName{
	StateGreeting,
	StateAskCity,
	StateConfirmCity,
	StateFetching,
	StateShowResults,
	StateEnd,
}

// Valid reports whether s is one of the known states.
func (s StateName) Valid() bool {
	switch s {
	case StateGreeting, StateAskCity, StateConfirmCity, StateFetching, StateShowResults, StateEnd:
		return true
	}
	return false
}

// ExpectsConfirmation reports whether the state is answered with yes/no.
func (s StateName) ExpectsConfirmation() bool {
	return s == StateConfirmCity || s == StateShowResults
}

// WeatherSnapshot is the provider-independent view of the current weather for a city.
// It is produced only by a WeatherProvider and never modified afterwards.
type WeatherSnapshot struct {
	TemperatureC         float64 `json:"temperatureC"`
	FeelsLikeC           float64 `json:"feelsLikeC"`
	ConditionDescription string  `json:"conditionDescription"`

	// Optional fields, filled when the provider reports them.
	City        string `json:"city,omitempty"`
	HumidityPct int    `json:"humidityPct,omitempty"`
}

// Context holds the data accumulated across turns.
type Context struct {
	City    string           `json:"city,omitempty"`
	Weather *WeatherSnapshot `json:"weather,omitempty"`
}

// HasCity reports whether a city has been collected.
func (c Context) HasCity() bool {
	return c.City != ""
}

// Clone returns a copy that shares nothing mutable with c.
func (c Context) Clone() Context {
	out := Context{City: c.City}
	if c.Weather != nil {
		w := *c.Weather
		out.Weather = &w
	}
	return out
}

// ConversationState is the full state of a conversation.
// It lives on the client between turns and is resent with every request.
type ConversationState struct {
	CurrentState StateName `json:"currentState,omitempty"`
	Context      Context   `json:"context"`
}

// NewConversationState creates a clean state at the initial step.
func NewConversationState() *ConversationState {
	return &ConversationState{CurrentState: InitialState}
}
