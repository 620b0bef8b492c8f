package ports

import "time"

// Metrics receives the process-wide counters.
// Implementations must be safe for concurrent use.
type Metrics interface {
	IncTurns()
	IncErrors()
	IncWeatherQueries()
	ObserveLookup(success bool, d time.Duration)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) IncTurns() {}
func (NopMetrics) IncErrors() {}
func (NopMetrics) IncWeatherQueries() {}
func (NopMetrics) ObserveLookup(bool, time.Duration) {}
