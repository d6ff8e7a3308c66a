package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/formflow"
	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/runner"
	"github.com/aretw0/formflow/pkg/session"
)

// Sessions is the live session registry served by the API.
type Sessions = *session.Manager[*formflow.Engine]

// Server exposes formflow sessions over REST and Server-Sent Events.
type Server struct {
	Sessions Sessions
	Flows    []domain.Flow

	logger   *slog.Logger
	gatherer prometheus.Gatherer
	buffer   int
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer serves the metrics of g on /metrics (default: the global registry).
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithEventBuffer sets the per-client SSE buffer.
func WithEventBuffer(n int) Option {
	return func(s *Server) {
		s.buffer = n
	}
}

// NewHandler creates a new HTTP handler serving sessions.
// flows is the catalog listed by GET /flows.
func NewHandler(sessions Sessions, flows []domain.Flow, opts ...Option) http.Handler {
	server := &Server{
		Sessions: sessions,
		Flows:    flows,
		logger:   logging.NewNop(),
		gatherer: prometheus.DefaultGatherer,
		buffer:   16,
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/flows", server.ListFlows)
	r.Handle("/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", server.ListSessions)
		r.Post("/", server.CreateSession)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", server.GetSession)
			r.Delete("/", server.DeleteSession)
			r.Get("/graph", server.GetGraph)
			r.Get("/events", server.SubscribeEvents)

			r.Post("/start", server.Start)
			r.Post("/advance", server.Advance)
			r.Put("/forms/{form}", server.SetInput)
			r.Post("/forms/{form}/submit", server.Submit)

			r.Post("/back", server.navigation(func(e *formflow.Engine) bool { return e.Back() }))
			r.Post("/root", server.navigation(func(e *formflow.Engine) bool { e.ToRoot(); return true }))
			r.Post("/redo", server.navigation(func(e *formflow.Engine) bool { return e.Redo() }))
			r.Post("/first-form", server.navigation(func(e *formflow.Engine) bool { return e.BackToFirstForm() }))
			r.Post("/back-to", server.BackTo)
			r.Post("/fail", server.Fail)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// -- Payloads --

// StartRequest is the body of POST /sessions/{id}/start.
type StartRequest struct {
	FlowID string `json:"flow_id"`
}

// AdvanceRequest is the body of POST /sessions/{id}/advance.
// An empty route advances to the first allowed one.
type AdvanceRequest struct {
	Route *domain.Route `json:"route,omitempty"`
}

// InputRequest is the body of PUT /sessions/{id}/forms/{form}.
type InputRequest struct {
	TextInput *string `json:"text_input,omitempty"`
	Selection *int    `json:"selection,omitempty"`
}

// BackToRequest is the body of POST /sessions/{id}/back-to.
type BackToRequest struct {
	Route domain.Route `json:"route"`
}

// FailRequest is the body of POST /sessions/{id}/fail.
type FailRequest struct {
	Message string `json:"message,omitempty"`
}

// SubmitResponse is returned by POST /sessions/{id}/forms/{form}/submit.
type SubmitResponse struct {
	Outcome domain.OutcomeView `json:"outcome"`
	View    formflow.View      `json:"view"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// -- Service endpoints --

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"app":      "formflow-http",
		"version":  strings.TrimSpace(formflow.Version),
		"sessions": s.Sessions.Len(),
	})
}

// ListFlows handles the GET /flows request.
func (s *Server) ListFlows(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Flows)
}

// -- Sessions --

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sessions.List())
}

// CreateSession handles the POST /sessions request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	_, eng, err := s.Sessions.Create(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, eng.Snapshot())
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	eng, ok := s.engine(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, eng.Snapshot())
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetGraph handles the GET /sessions/{id}/graph request.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	eng, ok := s.engine(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, eng.Graph())
}

// -- Navigation --

// Start handles the POST /sessions/{id}/start request.
func (s *Server) Start(w http.ResponseWriter, r *http.Request) {
	var body StartRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.navigation(func(e *formflow.Engine) bool { return e.Start(body.FlowID) })(w, r)
}

// Advance handles the POST /sessions/{id}/advance request.
func (s *Server) Advance(w http.ResponseWriter, r *http.Request) {
	var body AdvanceRequest
	if r.ContentLength != 0 && !s.decode(w, r, &body) {
		return
	}
	s.navigation(func(e *formflow.Engine) bool {
		if body.Route == nil {
			return e.Next()
		}
		return e.Advance(*body.Route)
	})(w, r)
}

// BackTo handles the POST /sessions/{id}/back-to request.
func (s *Server) BackTo(w http.ResponseWriter, r *http.Request) {
	var body BackToRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.navigation(func(e *formflow.Engine) bool { return e.BackTo(body.Route) })(w, r)
}

// Fail handles the POST /sessions/{id}/fail request.
func (s *Server) Fail(w http.ResponseWriter, r *http.Request) {
	var body FailRequest
	if r.ContentLength != 0 && !s.decode(w, r, &body) {
		return
	}
	msg, err := runner.SanitizeInput(body.Message)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid message: %w", err))
		return
	}
	s.navigation(func(e *formflow.Engine) bool { return e.Fail(msg) })(w, r)
}

// navigation runs op under the session lock. A false result is a no-op and maps to 409.
func (s *Server) navigation(op func(*formflow.Engine) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var view formflow.View
		err := s.Sessions.Do(r.Context(), id, func(_ context.Context, eng *formflow.Engine) error {
			if !op(eng) {
				return errNoop
			}
			view = eng.Snapshot()
			return nil
		})
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// -- Forms --

// SetInput handles the PUT /sessions/{id}/forms/{form} request.
func (s *Server) SetInput(w http.ResponseWriter, r *http.Request) {
	form, ok := s.form(w, r)
	if !ok {
		return
	}
	var body InputRequest
	if !s.decode(w, r, &body) {
		return
	}

	if body.TextInput != nil {
		clean, err := runner.SanitizeInput(*body.TextInput)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid input: %w", err))
			s.logger.Warn("SetInput: Input rejected", "err", err, "size", len(*body.TextInput))
			return
		}
		body.TextInput = &clean
	}

	var view formflow.View
	err := s.Sessions.Do(r.Context(), chi.URLParam(r, "id"), func(_ context.Context, eng *formflow.Engine) error {
		if body.TextInput != nil {
			if err := eng.SetInput(form, *body.TextInput); err != nil {
				return err
			}
		}
		if body.Selection != nil {
			if err := eng.SetSelection(form, *body.Selection); err != nil {
				return err
			}
		}
		view = eng.Snapshot()
		return nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Submit handles the POST /sessions/{id}/forms/{form}/submit request.
// It does not hold the session lock while validating, so the client can
// still navigate away (which cancels the validation) or poll the session.
func (s *Server) Submit(w http.ResponseWriter, r *http.Request) {
	form, ok := s.form(w, r)
	if !ok {
		return
	}
	eng, ok := s.engine(w, r)
	if !ok {
		return
	}

	outcome, err := eng.Submit(r.Context(), form)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SubmitResponse{
		Outcome: domain.ViewOutcome(outcome),
		View:    eng.Snapshot(),
	})
}

// -- Events --

// SubscribeEvents handles the GET /sessions/{id}/events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, errors.New("streaming not supported"))
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}
	eng, ok := s.engine(w, r)
	if !ok {
		return
	}

	events, cancel := eng.Subscribe(s.buffer)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("SSE: Subscribing to session updates", "session_id", eng.ID())
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: Client disconnected", "session_id", eng.ID())
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(evt)
			if err != nil {
				s.logger.Error("SSE: Event encode failed", "err", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Type, payload)
			flusher.Flush()
		}
	}
}

// -- Helpers --

var errNoop = errors.New("operation not allowed on the current screen")

func (s *Server) engine(w http.ResponseWriter, r *http.Request) (*formflow.Engine, bool) {
	eng, err := s.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return nil, false
	}
	return eng, true
}

func (s *Server) form(w http.ResponseWriter, r *http.Request) (domain.Form, bool) {
	form, err := domain.ParseForm(chi.URLParam(r, "form"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return form, false
	}
	return form, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "err", err)
		return false
	}
	return true
}

// fail maps engine and session errors to status codes.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrValidationInFlight),
		errors.Is(err, formflow.ErrNavigatedAway),
		errors.Is(err, errNoop):
		status = http.StatusConflict
	case errors.Is(err, formflow.ErrFormNotActive):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrSessionLimit):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusRequestTimeout
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "err", err)
	}
	s.writeError(w, status, err)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}
