package openweather_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/weatherbot/pkg/adapters/openweather"
	"github.com/aretw0/weatherbot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lisbonPayload = `{
	"name": "Lisbon",
	"main": {"temp": 18, "feels_like": 17.2, "humidity": 60},
	"weather": [{"id": 800, "main": "Clear", "description": "céu limpo"}]
}`

func TestClient_Lookup_Success(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		gotQuery = map[string]string{
			"q":     r.URL.Query().Get("q"),
			"units": r.URL.Query().Get("units"),
			"lang":  r.URL.Query().Get("lang"),
			"appid": r.URL.Query().Get("appid"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(lisbonPayload))
	}))
	defer srv.Close()

	client := openweather.New("secret", openweather.WithBaseURL(srv.URL))
	snapshot, err := client.Lookup(context.Background(), "São Paulo & Co")
	require.NoError(t, err)

	assert.Equal(t, 18.0, snapshot.TemperatureC)
	assert.Equal(t, 17.2, snapshot.FeelsLikeC)
	assert.Equal(t, "céu limpo", snapshot.ConditionDescription)
	assert.Equal(t, "Lisbon", snapshot.City)
	assert.Equal(t, 60, snapshot.HumidityPct)

	assert.Equal(t, "São Paulo & Co", gotQuery["q"])
	assert.Equal(t, "metric", gotQuery["units"])
	assert.Equal(t, "pt_br", gotQuery["lang"])
	assert.Equal(t, "secret", gotQuery["appid"])
}

func TestClient_Lookup_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantReason domain.LookupReason
		wantStatus int
	}{
		{"not found", http.StatusNotFound, `{"cod":"404","message":"city not found"}`, domain.ReasonNotFound, http.StatusNotFound},
		{"unauthorized", http.StatusUnauthorized, `{"cod":401}`, domain.ReasonUpstreamStatus, http.StatusUnauthorized},
		{"server error", http.StatusBadGateway, ``, domain.ReasonUpstreamStatus, http.StatusBadGateway},
		{"malformed body", http.StatusOK, `{"main":`, domain.ReasonDecode, 0},
		{"missing weather list", http.StatusOK, `{"main":{"temp":1},"weather":[]}`, domain.ReasonDecode, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := openweather.New("secret", openweather.WithBaseURL(srv.URL))
			_, err := client.Lookup(context.Background(), "Atlantis")

			var le *domain.LookupError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.wantReason, le.Reason)
			assert.Equal(t, tt.wantStatus, le.StatusCode)
			assert.Equal(t, "Atlantis", le.City)
		})
	}
}

func TestClient_Lookup_NotFoundIsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := openweather.New("secret", openweather.WithBaseURL(srv.URL)).Lookup(context.Background(), "Nowhere")
	assert.ErrorIs(t, err, domain.ErrCityNotFound)
}

func TestClient_Lookup_MissingCredential(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := openweather.New("  ", openweather.WithBaseURL(srv.URL))
	_, err := client.Lookup(context.Background(), "Lisbon")

	assert.ErrorIs(t, err, domain.ErrMissingCredential)
	var le *domain.LookupError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, domain.ReasonMissingCredential, le.Reason)
	assert.False(t, called, "no request must be sent without a key")
}

func TestClient_Lookup_EmptyCity(t *testing.T) {
	_, err := openweather.New("secret").Lookup(context.Background(), "   ")
	var le *domain.LookupError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, domain.ReasonInvalidCity, le.Reason)
}

func TestClient_Lookup_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := openweather.New("secret", openweather.WithBaseURL(srv.URL), openweather.WithTimeout(50*time.Millisecond))
	start := time.Now()
	_, err := client.Lookup(context.Background(), "Lisbon")

	var le *domain.LookupError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, domain.ReasonTimeout, le.Reason)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.False(t, strings.Contains(err.Error(), "secret"), "api key must not leak into errors")
}

func TestClient_Lookup_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := openweather.New("secret", openweather.WithBaseURL(url)).Lookup(context.Background(), "Lisbon")
	var le *domain.LookupError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, domain.ReasonNetwork, le.Reason)
}

func TestClient_TimeoutDoesNotTouchSharedClient(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	shared := &http.Client{Timeout: time.Minute}

	// The timeout is given before the client and must still win.
	client := openweather.New("secret",
		openweather.WithTimeout(50*time.Millisecond),
		openweather.WithHTTPClient(shared),
		openweather.WithBaseURL(srv.URL),
	)
	start := time.Now()
	_, err := client.Lookup(context.Background(), "Lisbon")

	var le *domain.LookupError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, domain.ReasonTimeout, le.Reason)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, time.Minute, shared.Timeout)
	assert.Zero(t, http.DefaultClient.Timeout)
}
