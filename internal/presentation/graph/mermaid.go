package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/formflow/pkg/domain"
)

// GraphOverlay contains dynamic session data to visualize on the graph.
type GraphOverlay struct {
	// VisitedRoutes are the routes present in the navigation stack.
	VisitedRoutes []domain.Route
	CurrentRoute  domain.Route
}

// Labeler returns the display label of a route.
type Labeler func(domain.Route) string

// GenerateMermaid produces a Mermaid flowchart of a flow.
// It applies semantic styling:
// - Home: ((Circle)), with an edge to the start route
// - Form: [/Parallelogram/]
// - Terminal route: ([Stadium])
// - Default: [Rectangle]
// Error is only drawn when the overlay shows it as current.
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(flow domain.Flow, overlay *GraphOverlay, label Labeler) string {
	if label == nil {
		label = domain.Route.Title
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if flow.ID != "" {
		sb.WriteString(fmt.Sprintf("    %%%% flow: %s\n", flow.ID))
	}

	routes := append([]domain.Route{domain.RouteHome}, flow.Routes()...)
	showError := overlay != nil && overlay.CurrentRoute == domain.RouteError
	if showError {
		routes = append(routes, domain.RouteError)
	}

	for _, r := range routes {
		opener, closer := "[", "]"
		switch {
		case r == domain.RouteHome:
			opener, closer = "((", "))"
		case r.IsForm():
			opener, closer = "[/", "/]"
		case r == domain.RouteError:
			opener, closer = "{{", "}}"
		case flow.IsTerminal(r):
			opener, closer = "([", "])"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", r, opener, escapeLabel(label(r)), closer))
	}

	sb.WriteString(fmt.Sprintf("    %s --> %s\n", domain.RouteHome, flow.StartRoute))
	for _, from := range flow.Routes() {
		for _, to := range flow.NextRoutes(from) {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", from, to))
		}
	}

	// Apply Overlay Styles
	if overlay != nil {
		if showError {
			for _, r := range overlay.VisitedRoutes {
				if r.IsForm() {
					sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", r, domain.RouteError))
				}
			}
		}

		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[domain.Route]bool)
		for _, r := range overlay.VisitedRoutes {
			if !seen[r] && r != overlay.CurrentRoute {
				seen[r] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", r))
			}
		}
		sb.WriteString(fmt.Sprintf("    class %s current;\n", overlay.CurrentRoute))
	}

	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
