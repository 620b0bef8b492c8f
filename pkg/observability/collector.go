package observability

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/aretw0/weatherbot/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector keeps the process-wide counters.
// Increments are atomic, so overlapping turns may complete concurrently.
type Collector struct {
	turns          atomic.Int64
	errors         atomic.Int64
	weatherQueries atomic.Int64
	startTime      time.Time
	now            func() time.Time

	promTurns   prometheus.Counter
	promErrors  prometheus.Counter
	promQueries prometheus.Counter
	promLookup  *prometheus.HistogramVec
}

var _ ports.Metrics = (*Collector)(nil)

// CollectorOption configures the Collector.
type CollectorOption func(*Collector)

// WithClock replaces time.Now for uptime computation.
func WithClock(now func() time.Time) CollectorOption {
	return func(c *Collector) {
		c.now = now
	}
}

// NewCollector creates a collector and registers its Prometheus series on reg.
// A nil reg keeps the series unregistered, which is what tests want.
func NewCollector(reg prometheus.Registerer, opts ...CollectorOption) *Collector {
	c := &Collector{
		now: time.Now,
		promTurns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "weatherbot_turns_total",
			Help: "Total number of dialog turns processed",
		}),
		promErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "weatherbot_errors_total",
			Help: "Total number of errors (failed lookups and failed requests)",
		}),
		promQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "weatherbot_weather_queries_total",
			Help: "Total number of weather lookups attempted",
		}),
		promLookup: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "weatherbot_lookup_duration_seconds",
			Help:    "Duration of weather lookups",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.startTime = c.now()

	if reg != nil {
		reg.MustRegister(c.promTurns, c.promErrors, c.promQueries, c.promLookup)
	}
	return c
}

func (c *Collector) IncTurns() {
	c.turns.Add(1)
	c.promTurns.Inc()
}

func (c *Collector) IncErrors() {
	c.errors.Add(1)
	c.promErrors.Inc()
}

func (c *Collector) IncWeatherQueries() {
	c.weatherQueries.Add(1)
	c.promQueries.Inc()
}

func (c *Collector) ObserveLookup(success bool, d time.Duration) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	c.promLookup.WithLabelValues(outcome).Observe(d.Seconds())
}

// Snapshot is the JSON view of the counters.
type Snapshot struct {
	Requests          int64   `json:"requests"`
	Errors            int64   `json:"errors"`
	WeatherQueries    int64   `json:"weatherQueries"`
	StartTime         int64   `json:"startTime"`
	Uptime            string  `json:"uptime"`
	UptimeSeconds     int64   `json:"uptimeSeconds"`
	RequestsPerMinute float64 `json:"requestsPerMinute"`
	ErrorRate         float64 `json:"errorRate"` // percent, 0-100+
}

// Snapshot reads the counters. Each counter is read atomically; the set is not a single transaction.
func (c *Collector) Snapshot() Snapshot {
	uptime := c.now().Sub(c.startTime)
	turns := c.turns.Load()
	errs := c.errors.Load()

	s := Snapshot{
		Requests:       turns,
		Errors:         errs,
		WeatherQueries: c.weatherQueries.Load(),
		StartTime:      c.startTime.UnixMilli(),
		UptimeSeconds:  int64(uptime / time.Second),
	}
	s.Uptime = time.Duration(s.UptimeSeconds * int64(time.Second)).String()
	if uptime > 0 {
		s.RequestsPerMinute = round2(float64(turns) / uptime.Minutes())
	}
	if turns > 0 {
		s.ErrorRate = round2(float64(errs) / float64(turns) * 100)
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
