package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/weatherbot"
	"github.com/aretw0/weatherbot/internal/sanitize"
	"github.com/aretw0/weatherbot/pkg/domain"
	"github.com/aretw0/weatherbot/pkg/observability"
	"github.com/aretw0/weatherbot/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ErrChatInternal is the only error body /chat ever returns.
const ErrChatInternal = "Erro interno do chatbot"

// MaxBodyBytes bounds the /chat request body.
const MaxBodyBytes int64 = 64 << 10

// HealthSource reports process health and counters.
type HealthSource interface {
	Health() observability.HealthReport
	Snapshot() observability.Snapshot
}

// WeatherLookup performs a direct lookup outside a conversation.
type WeatherLookup func(ctx context.Context, city string) (domain.WeatherSnapshot, error)

// Server serves the turn endpoint and the operational endpoints.
type Server struct {
	Engine  ports.DialogEngine
	Metrics ports.Metrics
	Health  HealthSource
	Lookup  WeatherLookup

	gatherer  prometheus.Gatherer
	logger    *slog.Logger
	turnBody  *bodyValidator
	sanitizer *sanitize.Sanitizer
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics sets the counters incremented on request failures.
func WithMetrics(m ports.Metrics) Option {
	return func(s *Server) {
		if m != nil {
			s.Metrics = m
		}
	}
}

// WithHealth enables GET /health and GET /metrics.
func WithHealth(h HealthSource) Option {
	return func(s *Server) {
		s.Health = h
	}
}

// WithWeather enables GET /weather.
func WithWeather(lookup WeatherLookup) Option {
	return func(s *Server) {
		s.Lookup = lookup
	}
}

// WithGatherer enables GET /metrics/prometheus.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithMaxInputBytes bounds the sanitized "input" field. Zero keeps the default.
func WithMaxInputBytes(n int) Option {
	return func(s *Server) {
		s.sanitizer = sanitize.New(n)
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer builds a Server around the engine.
func NewServer(engine ports.DialogEngine, opts ...Option) (*Server, error) {
	if engine == nil {
		return nil, errors.New("http: engine is required")
	}
	v, err := newBodyValidator("TurnRequest")
	if err != nil {
		return nil, err
	}
	s := &Server{
		Engine:    engine,
		Metrics:   ports.NopMetrics{},
		logger:    slog.New(slog.DiscardHandler),
		turnBody:  v,
		sanitizer: sanitize.New(sanitize.DefaultMaxInputBytes),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.DialogEngine, opts ...Option) (http.Handler, error) {
	s, err := NewServer(engine, opts...)
	if err != nil {
		return nil, err
	}
	return s.Routes(), nil
}

// Routes mounts every endpoint on a chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.requestLog)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Post("/chat", s.Chat)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/info", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"name": "weatherbot", "version": weatherbot.Version})
	})

	if s.Health != nil {
		r.Get("/health", s.GetHealth)
		r.Get("/metrics", s.GetMetrics)
	}
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics/prometheus", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	if s.Lookup != nil {
		r.Get("/weather", s.GetWeather)
	}
	return r
}

// Chat handles POST /chat. Every failure, malformed input included, yields the same generic error.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeTurn(w, r)
	if err != nil {
		s.chatFailed(w, r, "Chat: request rejected", err)
		return
	}

	result, err := s.Engine.Transition(r.Context(), req)
	if err != nil {
		s.chatFailed(w, r, "Chat: transition failed", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) decodeTurn(w http.ResponseWriter, r *http.Request) (domain.TransitionRequest, error) {
	var req domain.TransitionRequest

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return req, fmt.Errorf("read body: %w", err)
	}
	if err := s.turnBody.Validate(body); err != nil {
		return req, err
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, fmt.Errorf("decode body: %w", err)
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return req, errors.New("sessionId is required")
	}
	clean, err := s.sanitizer.Clean(req.Input)
	if err != nil {
		return req, err
	}
	req.Input = clean
	return req, nil
}

func (s *Server) chatFailed(w http.ResponseWriter, r *http.Request, msg string, err error) {
	// The engine counts its own internal failures.
	if !errors.Is(err, domain.ErrInternal) {
		s.Metrics.IncErrors()
	}
	s.logger.Error(msg, "err", err, "request_id", r.Header.Get(requestIDHeader))
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: ErrChatInternal})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Health.Health())
}

// GetMetrics handles GET /metrics.
func (s *Server) GetMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Health.Snapshot())
}

// GetWeather handles GET /weather?city=.
func (s *Server) GetWeather(w http.ResponseWriter, r *http.Request) {
	var city string
	if err := runtime.BindQueryParameter("form", true, true, "city", r.URL.Query(), &city); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	if strings.TrimSpace(city) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "city is required"})
		return
	}

	snap, err := s.Lookup(r.Context(), city)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, domain.ErrCityNotFound) {
			status = http.StatusNotFound
		}
		s.logger.Warn("Weather lookup failed", "city", city, "err", err)
		writeJSON(w, status, errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

const requestIDHeader = "X-Request-ID"

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = newRequestID()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", r.Header.Get(requestIDHeader),
		)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
