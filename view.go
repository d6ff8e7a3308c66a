package formflow

import (
	"github.com/aretw0/formflow/internal/presentation/graph"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/i18n"
	"github.com/aretw0/formflow/pkg/navigation"
)

// Button is a navigation choice offered by the current screen.
type Button struct {
	Route domain.Route `json:"route"`
	Title string       `json:"title"`
}

// View is a consistent snapshot of everything a screen needs to render.
type View struct {
	SessionID string `json:"session_id"`
	FlowID    string `json:"flow_id"`
	FlowTitle string `json:"flow_title"`

	Route     domain.Route               `json:"route"`
	Title     string                     `json:"title"`
	Direction domain.TransitionDirection `json:"direction"`
	Depth     int                        `json:"depth"`
	Frames    []navigation.Frame         `json:"frames"`

	NextRoutes []domain.Route `json:"next_routes"`
	Buttons    []Button       `json:"buttons"`
	Terminal   bool           `json:"terminal"`

	// Forms holds the live data of the forms visited in the current journey.
	Forms map[domain.Form]domain.FormState `json:"forms"`
	// PreviousData is the snapshot carried into the current screen, if any.
	PreviousData *domain.FormState `json:"previous_data,omitempty"`

	InlineError  string `json:"inline_error,omitempty"`
	Loading      bool   `json:"loading"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Snapshot returns the current view.
func (e *Engine) Snapshot() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	flow := e.flows.CurrentFlow()
	route := e.router.CurrentRoute()

	v := View{
		SessionID:   e.id,
		FlowID:      flow.ID,
		FlowTitle:   e.tr.FlowTitle(flow),
		Route:       route,
		Title:       e.tr.RouteTitle(route),
		Direction:   e.router.TransitionDirection(),
		Depth:       e.router.Depth(),
		Frames:      e.router.Frames(),
		Forms:       make(map[domain.Form]domain.FormState),
		InlineError: e.session.ErrorMessage(),
		Loading:     e.session.IsLoading(),
	}

	if route != domain.RouteHome {
		v.NextRoutes = flow.NextRoutes(route)
		v.Terminal = len(v.NextRoutes) == 0
		for _, r := range v.NextRoutes {
			v.Buttons = append(v.Buttons, Button{Route: r, Title: e.tr.ButtonTitle(r)})
		}
	}

	for _, f := range domain.AllForms {
		if e.router.Contains(f.Route()) {
			v.Forms[f] = e.session.Form(f)
		}
	}

	if d, ok := e.router.CurrentData(); ok {
		v.PreviousData = &d
	}

	if route == domain.RouteError {
		v.ErrorMessage = e.tr.Message(i18n.MsgErrorDefault)
		if v.PreviousData != nil && v.PreviousData.ErrorMessage != "" {
			v.ErrorMessage = v.PreviousData.ErrorMessage
		}
	}

	return v
}

// Graph renders the current flow as a Mermaid flowchart, highlighting the
// visited screens and the current one.
func (e *Engine) Graph() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	overlay := &graph.GraphOverlay{CurrentRoute: e.router.CurrentRoute()}
	for _, f := range e.router.Frames() {
		overlay.VisitedRoutes = append(overlay.VisitedRoutes, f.Route)
	}
	return graph.GenerateMermaid(e.flows.CurrentFlow(), overlay, e.tr.RouteTitle)
}
