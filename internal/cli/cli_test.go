package cli

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/weatherbot/internal/config"
	"github.com/aretw0/weatherbot/internal/logging"
	httpAdapter "github.com/aretw0/weatherbot/pkg/adapters/http"
	"github.com/aretw0/weatherbot/pkg/domain"
	"github.com/aretw0/weatherbot/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeProvider() ports.WeatherProvider {
	return ports.WeatherProviderFunc(func(ctx context.Context, city string) (domain.WeatherSnapshot, error) {
		return domain.WeatherSnapshot{TemperatureC: 21, FeelsLikeC: 20, ConditionDescription: "garoa", City: city}, nil
	})
}

func TestChat_InProcess(t *testing.T) {
	in := strings.NewReader("Santos\nsim\nnão\n")
	var out bytes.Buffer

	err := chat(context.Background(), config.Default(), ChatOptions{Plain: true, SessionID: "t"}, in, &out, logging.NewNop(), withProvider(fakeProvider()))
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Em Santos, a temperatura atual é 21°C")
	assert.Contains(t, text, "[sim] [não]")
}

func TestChat_Remote(t *testing.T) {
	stack, err := createStack(context.Background(), config.Default(), logging.NewNop(), withProvider(fakeProvider()))
	require.NoError(t, err)
	handler, err := httpAdapter.NewHandler(stack.Bot)
	require.NoError(t, err)
	srv := httptest.NewServer(handler)
	defer srv.Close()

	var out bytes.Buffer
	err = Chat(context.Background(), config.Default(), ChatOptions{Remote: srv.URL, Plain: true}, strings.NewReader("Manaus\nsim\nexit\n"), &out, logging.NewNop())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Em Manaus")
	assert.Contains(t, out.String(), "Até logo!")
	assert.Equal(t, int64(3), stack.Collector.Snapshot().Requests)
}

func TestCreateStack_Caches(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		stack, err := createStack(context.Background(), config.Default(), logging.NewNop())
		require.NoError(t, err)
		assert.NoError(t, stack.Close())
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := config.Default()
		cfg.Cache.RedisAddr = mr.Addr()

		stack, err := createStack(context.Background(), cfg, logging.NewNop(), withProvider(fakeProvider()))
		require.NoError(t, err)
		defer stack.Close()

		_, err = stack.Bot.Lookup(context.Background(), "Olinda")
		require.NoError(t, err)
		assert.Len(t, mr.Keys(), 1)
	})

	t.Run("redis unreachable", func(t *testing.T) {
		cfg := config.Default()
		cfg.Cache.RedisAddr = "127.0.0.1:1"
		_, err := createStack(context.Background(), cfg, logging.NewNop())
		assert.Error(t, err)
	})

	t.Run("disabled", func(t *testing.T) {
		cfg := config.Default()
		cfg.Cache.TTL = 0
		_, err := createStack(context.Background(), cfg, logging.NewNop())
		assert.NoError(t, err)
	})
}

func TestCreateStack_LookupDeadlineFollowsConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Weather.Timeout = config.Duration(50 * time.Millisecond)
	cfg.Cache.TTL = 0
	hanging := ports.WeatherProviderFunc(func(ctx context.Context, city string) (domain.WeatherSnapshot, error) {
		<-ctx.Done()
		return domain.WeatherSnapshot{}, ctx.Err()
	})

	stack, err := createStack(context.Background(), cfg, logging.NewNop(), withProvider(hanging))
	require.NoError(t, err)
	defer stack.Close()

	start := time.Now()
	res, err := stack.Bot.Transition(context.Background(), domain.TransitionRequest{
		SessionID: "deadline",
		Input:     "sim",
		State: &domain.ConversationState{
			CurrentState: domain.StateConfirmCity,
			Context:      domain.Context{City: "Recife"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StateShowResults, res.NextState)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, int64(1), stack.Collector.Snapshot().Errors)
}

func TestServeOn_InputLimitFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Chat.MaxInputBytes = 8
	stack, err := createStack(context.Background(), cfg, logging.NewNop(), withProvider(fakeProvider()))
	require.NoError(t, err)
	defer stack.Close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = serveOn(ctx, ln, stack, logging.NewNop()) }()

	post := func(input string) int {
		var code int
		require.Eventually(t, func() bool {
			resp, err := http.Post("http://"+ln.Addr().String()+"/chat", "application/json",
				strings.NewReader(`{"sessionId":"lim","input":"`+input+`"}`))
			if err != nil {
				return false
			}
			resp.Body.Close()
			code = resp.StatusCode
			return true
		}, 2*time.Second, 20*time.Millisecond)
		return code
	}

	assert.Equal(t, http.StatusOK, post("Natal"))
	assert.Equal(t, http.StatusInternalServerError, post("Florianópolis"))
}

func TestServeOn_ShutsDownOnCancel(t *testing.T) {
	stack, err := createStack(context.Background(), config.Default(), logging.NewNop(), withProvider(fakeProvider()))
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serveOn(ctx, ln, stack, logging.NewNop()) }()

	base := "http://" + ln.Addr().String()
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	resp, err := http.Get(base + "/metrics/prometheus")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}

func TestMonitor_SingleFrame(t *testing.T) {
	stack, err := createStack(context.Background(), config.Default(), logging.NewNop(), withProvider(fakeProvider()))
	require.NoError(t, err)
	handler, err := httpAdapter.NewHandler(stack.Bot, httpAdapter.WithHealth(stack.Collector))
	require.NoError(t, err)
	srv := httptest.NewServer(handler)
	defer srv.Close()

	var out bytes.Buffer
	require.NoError(t, Monitor(context.Background(), MonitorOptions{Target: srv.URL, Interval: time.Second, Frames: 1}, &out))
	assert.Contains(t, out.String(), "healthy")
}

func TestMonitor_Offline(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Monitor(context.Background(), MonitorOptions{Target: "http://127.0.0.1:1", Interval: time.Second, Frames: 1}, &out))
	assert.Contains(t, out.String(), "offline")
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, handleExecutionError(context.Canceled))
	assert.NoError(t, handleExecutionError(errInterrupted))
	assert.Error(t, handleExecutionError(assert.AnError))
}
