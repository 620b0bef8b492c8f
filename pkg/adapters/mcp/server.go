package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/aretw0/weatherbot"
	"github.com/aretw0/weatherbot/internal/sanitize"
	"github.com/aretw0/weatherbot/pkg/domain"
	"github.com/aretw0/weatherbot/pkg/observability"
	"github.com/aretw0/weatherbot/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

const MetricsURI = "weatherbot://metrics"

// MetricsSource provides the counters exposed as a resource.
type MetricsSource interface {
	Snapshot() observability.Snapshot
}

// Server wraps the dialog engine and exposes it as an MCP Server.
type Server struct {
	engine    ports.DialogEngine
	metrics   MetricsSource
	logger    *slog.Logger
	sanitizer *sanitize.Sanitizer
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithMaxInputBytes bounds the sanitized "input" argument. Zero keeps the default.
func WithMaxInputBytes(n int) Option {
	return func(s *Server) {
		s.sanitizer = sanitize.New(n)
	}
}

// NewServer creates a new MCP Server instance. metrics may be nil, in which case
// the metrics resource is not registered.
func NewServer(engine ports.DialogEngine, metrics MetricsSource, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		engine:    engine,
		metrics:   metrics,
		logger:    logger,
		sanitizer: sanitize.New(sanitize.DefaultMaxInputBytes),
		mcpServer: server.NewMCPServer("weatherbot-mcp", strings.TrimSpace(weatherbot.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	if metrics != nil {
		s.registerResources()
	}
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	chatTool := mcp.NewTool("chat_turn",
		mcp.WithDescription("Run one turn of the weather conversation. Send back the state returned by the previous turn."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Opaque conversation id")),
		mcp.WithString("input", mcp.Description("User text; empty on the first turn")),
		mcp.WithString("state", mcp.Description("JSON object {currentState, context} returned by the previous turn (optional)")),
		mcp.WithOutputSchema[domain.TransitionResult](),
	)
	s.mcpServer.AddTool(chatTool, mcp.NewStructuredToolHandler(s.handleChatTurn))
}

func (s *Server) handleChatTurn(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.TransitionResult, error) {
	req, err := DecodeTurn(args)
	if err != nil {
		return domain.TransitionResult{}, err
	}

	clean, err := s.sanitizer.Clean(req.Input)
	if err != nil {
		s.logger.Warn("MCP chat_turn: input rejected", "err", err, "size", len(req.Input))
		return domain.TransitionResult{}, fmt.Errorf("input rejected: %w", err)
	}
	req.Input = clean

	result, err := s.engine.Transition(ctx, req)
	if err != nil {
		s.logger.Error("MCP chat_turn: transition failed", "err", err, "session_id", req.SessionID)
		return domain.TransitionResult{}, fmt.Errorf("chat turn failed: %w", err)
	}
	return result, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(MetricsURI, "Weather bot counters",
		mcp.WithMIMEType("application/json"),
	), s.readMetrics)
}

func (s *Server) readMetrics(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.metrics.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("failed to encode metrics: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      MetricsURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

var stateType = reflect.TypeOf(domain.ConversationState{})

// stateHook accepts the state either as a JSON string or as an object.
func stateHook(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
	if f.Kind() != reflect.String || (t != stateType && t != reflect.PointerTo(stateType)) {
		return data, nil
	}
	raw := strings.TrimSpace(data.(string))
	if raw == "" {
		return nil, nil
	}
	var state domain.ConversationState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("state is not valid JSON: %w", err)
	}
	return state, nil
}

// DecodeTurn maps raw tool arguments onto a TransitionRequest.
func DecodeTurn(args map[string]interface{}) (domain.TransitionRequest, error) {
	var req domain.TransitionRequest
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.DecodeHookFuncType(stateHook),
		Result:     &req,
	})
	if err != nil {
		return req, err
	}
	if err := dec.Decode(args); err != nil {
		return req, fmt.Errorf("invalid arguments: %w", err)
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return req, errors.New("session_id is required")
	}
	return req, nil
}
