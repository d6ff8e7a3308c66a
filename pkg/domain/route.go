package domain

import (
	"fmt"
	"strings"
)

// Route identifies a single screen of the navigation graph.
// The set is closed: values outside the declared constants are never produced by this package.
type Route int

const (
	RouteHome Route = iota
	RouteTutorial
	RouteFormA
	RouteFormB
	RoutePreview
	RouteResult
	RouteError
)

// AllRoutes lists every route in declaration order.
var AllRoutes = []Route{
	RouteHome,
	RouteTutorial,
	RouteFormA,
	RouteFormB,
	RoutePreview,
	RouteResult,
	RouteError,
}

var routeNames = map[Route]string{
	RouteHome:     "home",
	RouteTutorial: "tutorial",
	RouteFormA:    "form_a",
	RouteFormB:    "form_b",
	RoutePreview:  "preview",
	RouteResult:   "result",
	RouteError:    "error",
}

var routeTitles = map[Route]string{
	RouteHome:     "Home",
	RouteTutorial: "Tutorial",
	RouteFormA:    "Form A",
	RouteFormB:    "Form B",
	RoutePreview:  "Preview",
	RouteResult:   "Result",
	RouteError:    "Error",
}

var buttonTitles = map[Route]string{
	RouteHome:     "Go to Home",
	RouteTutorial: "Go to Tutorial",
	RouteFormA:    "Go to Form A",
	RouteFormB:    "Go to Form B",
	RoutePreview:  "Go to Preview",
	RouteResult:   "Go to Result",
	RouteError:    "Error",
}

// String returns the stable identifier used in catalogs and APIs (e.g. "form_a").
func (r Route) String() string {
	if name, ok := routeNames[r]; ok {
		return name
	}
	return fmt.Sprintf("route(%d)", int(r))
}

// Title is the default (English) navigation title of the screen.
func (r Route) Title() string {
	return routeTitles[r]
}

// ButtonTitle is the label used by screens offering this route as a destination.
func (r Route) ButtonTitle() string {
	return buttonTitles[r]
}

// Valid reports whether r is one of the declared routes.
func (r Route) Valid() bool {
	_, ok := routeNames[r]
	return ok
}

// IsForm reports whether the route hosts a form (FormA or FormB).
func (r Route) IsForm() bool {
	return r == RouteFormA || r == RouteFormB
}

// ParseRoute resolves a route identifier. Matching is case-insensitive and accepts
// both "form_a" and "forma"/"form-a" spellings.
func ParseRoute(s string) (Route, error) {
	clean := strings.ToLower(strings.TrimSpace(s))
	clean = strings.NewReplacer("-", "_", " ", "_").Replace(clean)
	for r, name := range routeNames {
		if clean == name || clean == strings.ReplaceAll(name, "_", "") {
			return r, nil
		}
	}
	return RouteHome, fmt.Errorf("%w: %q", ErrUnknownRoute, s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Route) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRoute, int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Route) UnmarshalText(text []byte) error {
	parsed, err := ParseRoute(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
