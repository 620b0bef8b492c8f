package observability

// UnhealthyErrorRate is the error rate, in percent, from which the process reports unhealthy.
const UnhealthyErrorRate = 10.0

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthReport is returned by the health endpoint.
type HealthReport struct {
	Status  string   `json:"status"`
	Metrics Snapshot `json:"metrics"`
}

// Healthy reports whether the error rate is below UnhealthyErrorRate.
func (s Snapshot) Healthy() bool {
	return s.ErrorRate < UnhealthyErrorRate
}

// Health evaluates the current counters.
func (c *Collector) Health() HealthReport {
	snap := c.Snapshot()
	status := StatusHealthy
	if !snap.Healthy() {
		status = StatusUnhealthy
	}
	return HealthReport{Status: status, Metrics: snap}
}
