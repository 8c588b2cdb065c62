// Package server exposes the runner over HTTP: session management endpoints
// plus a server-sent-events stream for each submitted message.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/finchat/finchat/core"
	"github.com/finchat/finchat/logging"
	"github.com/finchat/finchat/runner"
	"github.com/finchat/finchat/session"
)

// Options holds optional Server dependencies.
type Options struct {
	// Logger receives request-level log lines.
	Logger logging.Logger
	// MetricsHandler, when set, is mounted at GET /metrics.
	MetricsHandler http.Handler
}

// Server adapts a Runner to HTTP.
type Server struct {
	runner         *runner.Runner
	logger         logging.Logger
	metricsHandler http.Handler
}

// New constructs a Server around the runner.
func New(r *runner.Runner, optFns ...func(o *Options)) *Server {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Server{
		runner:         r,
		logger:         opts.Logger,
		metricsHandler: opts.MetricsHandler,
	}
}

// Handler builds the HTTP routing table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", s.metricsHandler)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Post("/messages", s.handleSubmitMessage)
			r.Post("/cancel", s.handleCancelTurn)
			r.Post("/clear", s.handleClearSession)
			r.Get("/history", s.handleHistory)
			r.Delete("/", s.handleDeleteSession)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type createSessionRequest struct {
	SystemPrompt string `json:"system_prompt"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var body createSessionRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	id, err := s.runner.StartSession(body.SystemPrompt)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"session_id": id})
}

type submitMessageRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleSubmitMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var body submitMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.Text == "" {
		http.Error(w, "text must not be empty", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	events, err := s.runner.SubmitMessage(r.Context(), sessionID, body.Text)
	if err != nil {
		s.writeRunnerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			name, payload := encodeEvent(ev)
			data, err := json.Marshal(payload)
			if err != nil {
				s.logger.Error("server.sse.encode", "error", err.Error())
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
			flusher.Flush()
		}
	}
}

func (s *Server) handleCancelTurn(w http.ResponseWriter, r *http.Request) {
	if err := s.runner.CancelTurn(chi.URLParam(r, "sessionID")); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	if err := s.runner.ClearSession(chi.URLParam(r, "sessionID")); err != nil {
		s.writeRunnerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.runner.CloseSession(chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.runner.History(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeRunnerError(w, err)
		return
	}

	msgs := make([]messageJSON, 0, len(history))
	for _, m := range history {
		msgs = append(msgs, toMessageJSON(m))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"messages": msgs})
}

func (s *Server) writeRunnerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, session.ErrTurnInFlight):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type messageJSON struct {
	Role       string          `json:"role"`
	Content    string          `json:"content,omitempty"`
	ToolCalls  []core.ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string          `json:"tool_call_id,omitempty"`
}

func toMessageJSON(m core.Message) messageJSON {
	return messageJSON{
		Role:       string(m.Role),
		Content:    m.Content,
		ToolCalls:  m.ToolCalls,
		ToolCallID: m.ToolCallID,
	}
}

// SSE event names.
const (
	eventContent        = "content"
	eventToolInvocation = "tool_invocation"
	eventToolResult     = "tool_result"
	eventCompleted      = "completed"
	eventFailed         = "failed"
)

// encodeEvent maps a loop event to its SSE name and JSON payload.
func encodeEvent(ev core.Event) (string, any) {
	switch e := ev.(type) {
	case core.ContentFragment:
		return eventContent, map[string]any{"text": e.Text}
	case core.ToolInvocationAnnounced:
		return eventToolInvocation, map[string]any{"name": e.Name, "arguments": e.Arguments}
	case core.ToolResultProduced:
		payload := map[string]any{
			"tool_call_id": e.Result.ToolCallID,
			"name":         e.Result.Name,
			"output":       e.Result.Text(),
		}
		if e.Result.Err != nil {
			payload["error"] = e.Result.Err.Error()
		}
		return eventToolResult, payload
	case core.Completed:
		return eventCompleted, map[string]any{"final_text": e.FinalText}
	case core.Failed:
		payload := map[string]any{"reason": string(e.Reason)}
		if e.Err != nil {
			payload["error"] = e.Err.Error()
		}
		return eventFailed, payload
	default:
		return "unknown", map[string]any{}
	}
}
