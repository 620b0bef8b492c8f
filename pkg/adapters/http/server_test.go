package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/weatherbot"
	"github.com/aretw0/weatherbot/pkg/domain"
	"github.com/aretw0/weatherbot/pkg/observability"
	"github.com/aretw0/weatherbot/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sunny = domain.WeatherSnapshot{TemperatureC: 25, FeelsLikeC: 26, ConditionDescription: "céu limpo"}

func newTestServer(t *testing.T, provider ports.WeatherProvider) (*httptest.Server, *observability.Collector, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	collector := observability.NewCollector(reg)
	bot := weatherbot.New(weatherbot.WithProvider(provider), weatherbot.WithMetrics(collector))

	handler, err := NewHandler(bot,
		WithMetrics(collector),
		WithHealth(collector),
		WithWeather(bot.Lookup),
		WithGatherer(reg),
	)
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, collector, reg
}

func sunnyProvider() ports.WeatherProvider {
	return ports.WeatherProviderFunc(func(ctx context.Context, city string) (domain.WeatherSnapshot, error) {
		s := sunny
		s.City = city
		return s, nil
	})
}

func postChat(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/chat", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestChat_Greeting(t *testing.T) {
	srv, collector, _ := newTestServer(t, sunnyProvider())

	resp := postChat(t, srv, `{"sessionId":"s1","input":""}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var result domain.TransitionResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, domain.StateAskCity, result.NextState)
	assert.False(t, result.ExpectsConfirmation)
	assert.Equal(t, int64(1), collector.Snapshot().Requests)
}

func TestChat_RemoteConversation(t *testing.T) {
	srv, collector, _ := newTestServer(t, sunnyProvider())
	client := NewClient(srv.URL)
	ctx := context.Background()

	var state *domain.ConversationState
	turn := func(input string) domain.TransitionResult {
		res, err := client.Transition(ctx, domain.TransitionRequest{SessionID: "s2", Input: input, State: state})
		require.NoError(t, err)
		state = res.NextConversationState()
		return res
	}

	assert.Equal(t, domain.StateAskCity, turn("").NextState)
	confirm := turn("Recife")
	assert.Equal(t, domain.StateConfirmCity, confirm.NextState)
	assert.True(t, confirm.ExpectsConfirmation)

	show := turn("sim")
	assert.Equal(t, domain.StateShowResults, show.NextState)
	assert.Contains(t, show.Reply, "Recife")
	require.NotNil(t, show.Data)
	require.NotNil(t, show.Data.Context.Weather)
	assert.Equal(t, 25.0, show.Data.Context.Weather.TemperatureC)

	assert.Equal(t, domain.StateEnd, turn("não").NextState)

	snap, err := client.Metrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), snap.Requests)
	assert.Equal(t, int64(1), snap.WeatherQueries)
	assert.Equal(t, collector.Snapshot().Requests, snap.Requests)
}

func TestChat_MalformedRequestsNeverReachEngine(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", `{oops`},
		{"missing session", `{"input":"oi"}`},
		{"empty session", `{"sessionId":"","input":"oi"}`},
		{"wrong input type", `{"sessionId":"s","input":42}`},
		{"state not an object", `{"sessionId":"s","state":"GREETING"}`},
		{"input too large", `{"sessionId":"s","input":"` + strings.Repeat("a", 5000) + `"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, collector, _ := newTestServer(t, sunnyProvider())

			resp := postChat(t, srv, tc.body)
			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

			var body errorBody
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, ErrChatInternal, body.Error)

			snap := collector.Snapshot()
			assert.Equal(t, int64(0), snap.Requests, "engine must not run")
			assert.Equal(t, int64(1), snap.Errors)
		})
	}
}

func TestChat_PanicCountsOneError(t *testing.T) {
	panicky := ports.WeatherProviderFunc(func(ctx context.Context, city string) (domain.WeatherSnapshot, error) {
		panic("provider exploded")
	})
	srv, collector, _ := newTestServer(t, panicky)

	resp := postChat(t, srv, `{"sessionId":"s","input":"sim","state":{"currentState":"CONFIRM_CITY","context":{"city":"Recife"}}}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body errorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, ErrChatInternal, body.Error)

	snap := collector.Snapshot()
	assert.Equal(t, int64(1), snap.Requests)
	assert.Equal(t, int64(1), snap.Errors)
}

type recordingEngine struct {
	input string
}

func (e *recordingEngine) Transition(ctx context.Context, req domain.TransitionRequest) (domain.TransitionResult, error) {
	e.input = req.Input
	return domain.TransitionResult{NextState: domain.StateConfirmCity}, nil
}

func TestChat_InputLimitAndCleanup(t *testing.T) {
	collector := observability.NewCollector(prometheus.NewRegistry())
	engine := &recordingEngine{}
	handler, err := NewHandler(engine, WithMetrics(collector), WithMaxInputBytes(20))
	require.NoError(t, err)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	resp := postChat(t, srv, `{"sessionId":"s","input":"  Rio \t de\nJaneiro "}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Rio de Janeiro", engine.input)

	resp = postChat(t, srv, `{"sessionId":"s","input":"Vila Velha do Norte de Cima"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int64(1), collector.Snapshot().Errors)
}

func TestChat_UnknownStateRestarts(t *testing.T) {
	srv, _, _ := newTestServer(t, sunnyProvider())

	resp := postChat(t, srv, `{"sessionId":"s","input":"x","state":{"currentState":"BOGUS","context":{}}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result domain.TransitionResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, domain.StateGreeting, result.NextState)
	assert.Nil(t, result.Data)
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _, _ := newTestServer(t, sunnyProvider())
	client := NewClient(srv.URL)

	report, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, observability.StatusHealthy, report.Status)

	resp, err := http.Get(srv.URL + "/metrics/prometheus")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealth_UnhealthyAfterErrors(t *testing.T) {
	srv, _, _ := newTestServer(t, sunnyProvider())
	postChat(t, srv, `{"sessionId":"s"}`)
	postChat(t, srv, `{oops`)

	report, err := NewClient(srv.URL).Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, observability.StatusUnhealthy, report.Status)
}

func TestGetWeather(t *testing.T) {
	missing := ports.WeatherProviderFunc(func(ctx context.Context, city string) (domain.WeatherSnapshot, error) {
		return domain.WeatherSnapshot{}, &domain.LookupError{City: city, Reason: domain.ReasonNotFound, StatusCode: 404, Err: domain.ErrCityNotFound}
	})

	t.Run("found", func(t *testing.T) {
		srv, _, _ := newTestServer(t, sunnyProvider())
		resp, err := http.Get(srv.URL + "/weather?city=Natal")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var snap domain.WeatherSnapshot
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
		assert.Equal(t, "Natal", snap.City)
	})

	t.Run("missing city", func(t *testing.T) {
		srv, _, _ := newTestServer(t, sunnyProvider())
		resp, err := http.Get(srv.URL + "/weather")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		srv, _, _ := newTestServer(t, missing)
		resp, err := http.Get(srv.URL + "/weather?city=Nowhere")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestOpenAPIAndCORS(t *testing.T) {
	srv, _, _ := newTestServer(t, sunnyProvider())

	resp, err := http.Get(srv.URL + "/openapi.yaml")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/chat", nil)
	require.NoError(t, err)
	pre, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer pre.Body.Close()
	assert.Equal(t, http.StatusOK, pre.StatusCode)
}

func TestNewHandler_RequiresEngine(t *testing.T) {
	_, err := NewHandler(nil)
	assert.Error(t, err)
}
