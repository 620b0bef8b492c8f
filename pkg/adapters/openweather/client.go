package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/weatherbot/pkg/domain"
	"github.com/aretw0/weatherbot/pkg/ports"
)

const (
	// DefaultBaseURL is the public OpenWeatherMap API.
	DefaultBaseURL = "https://api.openweathermap.org"
	// DefaultTimeout bounds a single request, including reading the body.
	DefaultTimeout = 5 * time.Second
	// DefaultLanguage makes the provider describe conditions in Portuguese.
	DefaultLanguage = "pt_br"

	currentWeatherPath = "/data/2.5/weather"
	maxBodySize        = 1 << 20
)

// Client implements ports.WeatherProvider against the OpenWeatherMap current weather API.
type Client struct {
	apiKey   string
	baseURL  string
	language string
	http     *http.Client
	timeout  time.Duration
	logger   *slog.Logger
}

var _ ports.WeatherProvider = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithBaseURL points the client at another endpoint (tests, proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client. The client is copied, never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request deadline, whatever HTTP client is in use.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLanguage sets the language of condition descriptions.
func WithLanguage(lang string) Option {
	return func(c *Client) {
		c.language = lang
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client. An empty apiKey is accepted: every Lookup then fails with
// a missing_credential LookupError instead of crashing at startup.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   strings.TrimSpace(apiKey),
		baseURL:  DefaultBaseURL,
		language: DefaultLanguage,
		http:     http.DefaultClient,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := *c.http
	switch {
	case c.timeout > 0:
		hc.Timeout = c.timeout
	case hc.Timeout == 0:
		hc.Timeout = DefaultTimeout
	}
	c.http = &hc
	return c
}

// currentWeather is the subset of the provider payload the bot uses.
type currentWeather struct {
	Name string `json:"name"`
	Main *struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// Lookup fetches the current weather for city in metric units.
func (c *Client) Lookup(ctx context.Context, city string) (domain.WeatherSnapshot, error) {
	if c.apiKey == "" {
		return domain.WeatherSnapshot{}, &domain.LookupError{City: city, Reason: domain.ReasonMissingCredential, Err: domain.ErrMissingCredential}
	}
	if strings.TrimSpace(city) == "" {
		return domain.WeatherSnapshot{}, &domain.LookupError{City: city, Reason: domain.ReasonInvalidCity, Err: errors.New("empty city")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(city), nil)
	if err != nil {
		return domain.WeatherSnapshot{}, &domain.LookupError{City: city, Reason: domain.ReasonNetwork, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.WeatherSnapshot{}, &domain.LookupError{City: city, Reason: transportReason(err), Err: redact(err, c.apiKey)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return domain.WeatherSnapshot{}, &domain.LookupError{City: city, Reason: transportReason(err), Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.WeatherSnapshot{}, &domain.LookupError{City: city, Reason: domain.ReasonNotFound, StatusCode: resp.StatusCode, Err: domain.ErrCityNotFound}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.logger.Debug("weather provider rejected request", "city", city, "status", resp.StatusCode, "body", truncate(string(body), 200))
		return domain.WeatherSnapshot{}, &domain.LookupError{City: city, Reason: domain.ReasonUpstreamStatus, StatusCode: resp.StatusCode}
	}

	var payload currentWeather
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.WeatherSnapshot{}, &domain.LookupError{City: city, Reason: domain.ReasonDecode, Err: err}
	}
	if payload.Main == nil || len(payload.Weather) == 0 {
		return domain.WeatherSnapshot{}, &domain.LookupError{City: city, Reason: domain.ReasonDecode, Err: errors.New("payload missing main or weather fields")}
	}

	return domain.WeatherSnapshot{
		TemperatureC:         payload.Main.Temp,
		FeelsLikeC:           payload.Main.FeelsLike,
		ConditionDescription: payload.Weather[0].Description,
		City:                 payload.Name,
		HumidityPct:          payload.Main.Humidity,
	}, nil
}

func (c *Client) endpoint(city string) string {
	q := url.Values{}
	q.Set("q", city)
	q.Set("units", "metric")
	if c.language != "" {
		q.Set("lang", c.language)
	}
	q.Set("appid", c.apiKey)
	return c.baseURL + currentWeatherPath + "?" + q.Encode()
}

func transportReason(err error) domain.LookupReason {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.ReasonTimeout
	}
	return domain.ReasonNetwork
}

// redact strips the API key from transport errors, which embed the full request URL.
func redact(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(err.Error(), key, "REDACTED"))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
