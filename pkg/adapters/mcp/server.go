package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/formflow"
	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/internal/presentation/graph"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/runner"
	"github.com/aretw0/formflow/pkg/session"
)

// SessionResponse provides a unified structure across tools.
type SessionResponse struct {
	View    formflow.View       `json:"view" jsonschema_description:"The current screen of the session"`
	Outcome *domain.OutcomeView `json:"outcome,omitempty" jsonschema_description:"Validation outcome, set by submit_form"`
}

// Navigation actions accepted by the navigate tool.
const (
	ActionNext      = "next"
	ActionAdvance   = "advance"
	ActionBack      = "back"
	ActionRoot      = "root"
	ActionRedo      = "redo"
	ActionFirstForm = "first_form"
	ActionBackTo    = "back_to"
	ActionFail      = "fail"
)

var errNoop = errors.New("action not allowed on the current screen")

// Server exposes formflow sessions as an MCP Server.
type Server struct {
	sessions  *session.Manager[*formflow.Engine]
	flows     []domain.Flow
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(sessions *session.Manager[*formflow.Engine], flows []domain.Flow, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		sessions:  sessions,
		flows:     flows,
		logger:    logger,
		mcpServer: server.NewMCPServer("formflow-mcp", strings.TrimSpace(formflow.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_flows
	s.mcpServer.AddTool(mcp.NewTool("list_flows",
		mcp.WithDescription("List the flows a session can start, with their allowed transitions."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(s.flows)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: start_session
	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Create a session (or reuse session_id) and start a flow from Home."),
		mcp.WithString("flow_id", mcp.Required(), mcp.Description("ID of the flow to start, see list_flows")),
		mcp.WithString("session_id", mcp.Description("Existing or desired session ID (optional)")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleStartSession))

	// TOOL: get_session
	s.mcpServer.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Get the current screen of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetSession))

	// TOOL: set_input
	s.mcpServer.AddTool(mcp.NewTool("set_input",
		mcp.WithDescription("Type text into the form shown on the current screen."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("form", mcp.Required(), mcp.Enum("form_a", "form_b"), mcp.Description("Form to edit")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Full text of the input")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleSetInput))

	// TOOL: submit_form
	s.mcpServer.AddTool(mcp.NewTool("submit_form",
		mcp.WithDescription("Validate the form on the current screen and act on the outcome."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("form", mcp.Required(), mcp.Enum("form_a", "form_b"), mcp.Description("Form to submit")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleSubmitForm))

	// TOOL: navigate
	s.mcpServer.AddTool(mcp.NewTool("navigate",
		mcp.WithDescription("Move between screens. Actions that are not allowed on the current screen fail."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("action", mcp.Required(),
			mcp.Enum(ActionNext, ActionAdvance, ActionBack, ActionRoot, ActionRedo, ActionFirstForm, ActionBackTo, ActionFail),
			mcp.Description("Navigation action")),
		mcp.WithString("route", mcp.Description("Target route for advance and back_to")),
		mcp.WithString("message", mcp.Description("Error message for fail (optional)")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleNavigate))

	// TOOL: get_graph
	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get a Mermaid diagram of a session's flow, or of any flow by ID."),
		mcp.WithString("session_id", mcp.Description("Session ID (highlights the visited screens)")),
		mcp.WithString("flow_id", mcp.Description("Flow ID, used when no session is given")),
	), s.handleGetGraph)
}

// Handler methods for structured tools

func (s *Server) handleStartSession(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	flowID, _ := args["flow_id"].(string)
	sessionID, _ := args["session_id"].(string)

	var err error
	if sessionID == "" {
		sessionID, _, err = s.sessions.Create(ctx)
	} else {
		_, _, err = s.sessions.CreateWithID(ctx, sessionID)
	}
	if err != nil {
		return SessionResponse{}, fmt.Errorf("create session failed: %w", err)
	}

	return s.apply(ctx, sessionID, func(eng *formflow.Engine) error {
		if !eng.Start(flowID) {
			return fmt.Errorf("cannot start flow %q: %w", flowID, errNoop)
		}
		return nil
	})
}

func (s *Server) handleGetSession(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	sessionID, _ := args["session_id"].(string)
	eng, err := s.sessions.Get(sessionID)
	if err != nil {
		return SessionResponse{}, err
	}
	return SessionResponse{View: eng.Snapshot()}, nil
}

func (s *Server) handleSetInput(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	sessionID, _ := args["session_id"].(string)
	text, _ := args["text"].(string)
	form, err := parseForm(args)
	if err != nil {
		return SessionResponse{}, err
	}

	clean, err := runner.SanitizeInput(text)
	if err != nil {
		s.logger.Warn("MCP SetInput: Input rejected", "err", err, "size", len(text))
		return SessionResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	return s.apply(ctx, sessionID, func(eng *formflow.Engine) error {
		return eng.SetInput(form, clean)
	})
}

func (s *Server) handleSubmitForm(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	sessionID, _ := args["session_id"].(string)
	form, err := parseForm(args)
	if err != nil {
		return SessionResponse{}, err
	}
	eng, err := s.sessions.Get(sessionID)
	if err != nil {
		return SessionResponse{}, err
	}

	outcome, err := eng.Submit(ctx, form)
	if err != nil {
		return SessionResponse{}, fmt.Errorf("submit failed: %w", err)
	}
	view := domain.ViewOutcome(outcome)
	return SessionResponse{View: eng.Snapshot(), Outcome: &view}, nil
}

func (s *Server) handleNavigate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	sessionID, _ := args["session_id"].(string)
	action, _ := args["action"].(string)
	message, _ := args["message"].(string)

	var route domain.Route
	if raw, ok := args["route"].(string); ok && raw != "" {
		r, err := domain.ParseRoute(raw)
		if err != nil {
			return SessionResponse{}, err
		}
		route = r
	}

	var op func(*formflow.Engine) bool
	switch action {
	case ActionNext:
		op = (*formflow.Engine).Next
	case ActionAdvance:
		op = func(e *formflow.Engine) bool { return e.Advance(route) }
	case ActionBack:
		op = (*formflow.Engine).Back
	case ActionRoot:
		op = func(e *formflow.Engine) bool { e.ToRoot(); return true }
	case ActionRedo:
		op = (*formflow.Engine).Redo
	case ActionFirstForm:
		op = (*formflow.Engine).BackToFirstForm
	case ActionBackTo:
		op = func(e *formflow.Engine) bool { return e.BackTo(route) }
	case ActionFail:
		clean, err := runner.SanitizeInput(message)
		if err != nil {
			return SessionResponse{}, fmt.Errorf("message rejected: %w", err)
		}
		op = func(e *formflow.Engine) bool { return e.Fail(clean) }
	default:
		return SessionResponse{}, fmt.Errorf("unknown action %q", action)
	}

	return s.apply(ctx, sessionID, func(eng *formflow.Engine) error {
		if !op(eng) {
			return fmt.Errorf("%s: %w", action, errNoop)
		}
		return nil
	})
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if sessionID, _ := args["session_id"].(string); sessionID != "" {
		eng, err := s.sessions.Get(sessionID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(eng.Graph()), nil
	}

	flowID, _ := args["flow_id"].(string)
	for _, f := range s.flows {
		if f.ID == flowID {
			return mcp.NewToolResultText(graph.GenerateMermaid(f, nil, nil)), nil
		}
	}
	return mcp.NewToolResultError(fmt.Sprintf("unknown flow %q", flowID)), nil
}

// apply runs fn under the session lock and returns the resulting view.
func (s *Server) apply(ctx context.Context, sessionID string, fn func(*formflow.Engine) error) (SessionResponse, error) {
	var resp SessionResponse
	err := s.sessions.Do(ctx, sessionID, func(_ context.Context, eng *formflow.Engine) error {
		if err := fn(eng); err != nil {
			return err
		}
		resp.View = eng.Snapshot()
		return nil
	})
	return resp, err
}

func parseForm(args map[string]interface{}) (domain.Form, error) {
	raw, _ := args["form"].(string)
	return domain.ParseForm(raw)
}

func (s *Server) registerResources() {
	// EXPOSE: formflow://flows
	s.mcpServer.AddResource(mcp.NewResource("formflow://flows", "Flow Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.flows)
		if err != nil {
			return nil, fmt.Errorf("failed to encode flows: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "formflow://flows",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
