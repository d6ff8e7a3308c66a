package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/formflow"
	"github.com/aretw0/formflow/pkg/catalog"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/session"
	"github.com/aretw0/formflow/pkg/validation"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	sessions := session.NewManager(func(_ context.Context, id string) (*formflow.Engine, error) {
		return formflow.New(
			formflow.WithValidators(validation.Registry(validation.Latencies{})),
			formflow.WithSessionID(id),
		)
	})
	sessions.OnClose(func(_ string, eng *formflow.Engine) { eng.Close() })
	return NewServer(sessions, catalog.Default().List(), nil)
}

func toolText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func callGraph(s *Server, args map[string]any) (*mcp.CallToolResult, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = "get_graph"
	req.Params.Arguments = args
	return s.handleGetGraph(context.Background(), req)
}

func TestServer_Journey(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	resp, err := s.handleStartSession(ctx, req, map[string]interface{}{"flow_id": "routeC", "session_id": "s1"})
	require.NoError(t, err)
	assert.Equal(t, "s1", resp.View.SessionID)
	assert.Equal(t, domain.RouteTutorial, resp.View.Route)

	resp, err = s.handleNavigate(ctx, req, map[string]interface{}{"session_id": "s1", "action": ActionNext})
	require.NoError(t, err)
	assert.Equal(t, domain.RouteFormA, resp.View.Route)

	resp, err = s.handleSetInput(ctx, req, map[string]interface{}{"session_id": "s1", "form": "form_a", "text": "ABC\x1b123"})
	require.NoError(t, err)
	assert.Equal(t, "ABC123", resp.View.Forms[domain.FormA].TextInput)

	resp, err = s.handleSubmitForm(ctx, req, map[string]interface{}{"session_id": "s1", "form": "form_a"})
	require.NoError(t, err)
	require.NotNil(t, resp.Outcome)
	assert.Equal(t, domain.OutcomeValid, resp.Outcome.Kind)
	assert.Equal(t, domain.RouteFormB, resp.View.Route)

	resp, err = s.handleNavigate(ctx, req, map[string]interface{}{"session_id": "s1", "action": ActionBackTo, "route": "tutorial"})
	require.NoError(t, err)
	assert.Equal(t, domain.RouteTutorial, resp.View.Route)

	resp, err = s.handleGetSession(ctx, req, map[string]interface{}{"session_id": "s1"})
	require.NoError(t, err)
	assert.Equal(t, domain.DirectionBackward, resp.View.Direction)

	resp, err = s.handleNavigate(ctx, req, map[string]interface{}{"session_id": "s1", "action": ActionRoot})
	require.NoError(t, err)
	assert.Equal(t, domain.RouteHome, resp.View.Route)
}

func TestServer_Errors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	_, err := s.handleGetSession(ctx, req, map[string]interface{}{"session_id": "missing"})
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	_, err = s.handleStartSession(ctx, req, map[string]interface{}{"flow_id": "nope", "session_id": "s1"})
	assert.ErrorIs(t, err, errNoop)

	_, err = s.handleNavigate(ctx, req, map[string]interface{}{"session_id": "s1", "action": "jump"})
	assert.Error(t, err)

	_, err = s.handleNavigate(ctx, req, map[string]interface{}{"session_id": "s1", "action": ActionBack})
	assert.ErrorIs(t, err, errNoop)

	_, err = s.handleSetInput(ctx, req, map[string]interface{}{"session_id": "s1", "form": "form_c", "text": "x"})
	assert.Error(t, err)

	_, err = s.handleSetInput(ctx, req, map[string]interface{}{"session_id": "s1", "form": "form_a", "text": "x"})
	assert.ErrorIs(t, err, formflow.ErrFormNotActive)
}

func TestServer_FailAndFatal(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	_, err := s.handleStartSession(ctx, req, map[string]interface{}{"flow_id": "routeA", "session_id": "s1"})
	require.NoError(t, err)

	resp, err := s.handleNavigate(ctx, req, map[string]interface{}{"session_id": "s1", "action": ActionFail, "message": "boom"})
	require.NoError(t, err)
	assert.Equal(t, domain.RouteError, resp.View.Route)
	assert.Equal(t, "boom", resp.View.ErrorMessage)

	_, err = s.handleNavigate(ctx, req, map[string]interface{}{"session_id": "s1", "action": ActionBack})
	assert.ErrorIs(t, err, errNoop)

	resp, err = s.handleNavigate(ctx, req, map[string]interface{}{"session_id": "s1", "action": ActionRoot})
	require.NoError(t, err)
	assert.Equal(t, domain.RouteHome, resp.View.Route)
}

func TestServer_Graph(t *testing.T) {
	s := newTestServer(t)

	res, err := callGraph(s, map[string]any{"flow_id": "routeB"})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, toolText(t, res), "form_a --> preview")

	res, err = callGraph(s, map[string]any{"flow_id": "nope"})
	require.NoError(t, err)
	assert.True(t, res.IsError)

	_, err = s.handleStartSession(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"flow_id": "routeB", "session_id": "s1"})
	require.NoError(t, err)
	res, err = callGraph(s, map[string]any{"session_id": "s1"})
	require.NoError(t, err)
	assert.Contains(t, toolText(t, res), "class tutorial current;")
}

func TestServer_FlowsEncode(t *testing.T) {
	s := newTestServer(t)
	data, err := json.Marshal(s.flows)
	require.NoError(t, err)

	var flows []domain.Flow
	require.NoError(t, json.Unmarshal(data, &flows))
	assert.Len(t, flows, 4)
}
