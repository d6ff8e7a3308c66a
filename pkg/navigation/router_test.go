package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/formflow/pkg/domain"
)

func data(text string) *domain.FormState {
	return &domain.FormState{TextInput: text}
}

func routesOf(frames []Frame) []domain.Route {
	out := make([]domain.Route, len(frames))
	for i, f := range frames {
		out[i] = f.Route
	}
	return out
}

func TestRouter_Initial(t *testing.T) {
	r := NewRouter()
	assert.Equal(t, domain.RouteHome, r.CurrentRoute())
	assert.Equal(t, 0, r.Depth())
	assert.Equal(t, domain.DirectionNone, r.TransitionDirection())
}

func TestRouter_NavigateDirection(t *testing.T) {
	r := NewRouter()

	require.True(t, r.Navigate(domain.RouteTutorial, nil))
	assert.Equal(t, domain.DirectionForward, r.TransitionDirection())

	require.True(t, r.Navigate(domain.RouteError, nil))
	assert.Equal(t, domain.RouteError, r.CurrentRoute())
	assert.Equal(t, domain.DirectionModal, r.TransitionDirection())

	// Leaving Error is modal as well.
	_, ok := r.Back()
	require.True(t, ok)
	assert.Equal(t, domain.RouteTutorial, r.CurrentRoute())
	assert.Equal(t, domain.DirectionModal, r.TransitionDirection())
}

func TestRouter_NavigateRejectsHome(t *testing.T) {
	r := NewRouter()
	assert.False(t, r.Navigate(domain.RouteHome, nil))
	assert.False(t, r.Navigate(domain.Route(42), nil))
	assert.Equal(t, 0, r.Depth())
	assert.Equal(t, domain.DirectionNone, r.TransitionDirection())
}

func TestRouter_NavigateThenBackRestores(t *testing.T) {
	routes := []domain.Route{
		domain.RouteTutorial, domain.RouteFormA, domain.RouteFormB,
		domain.RoutePreview, domain.RouteResult,
	}
	prefixes := [][]domain.Route{
		{},
		{domain.RouteTutorial},
		{domain.RouteTutorial, domain.RouteFormA},
	}

	for _, prefix := range prefixes {
		for _, next := range routes {
			r := NewRouter()
			for _, p := range prefix {
				require.True(t, r.Navigate(p, nil))
			}
			beforeRoute, beforeDepth := r.CurrentRoute(), r.Depth()

			require.True(t, r.Navigate(next, data("x")))
			popped, ok := r.Back()
			require.True(t, ok)

			assert.Equal(t, next, popped.Route)
			assert.Equal(t, beforeRoute, r.CurrentRoute(), "prefix %v next %v", prefix, next)
			assert.Equal(t, beforeDepth, r.Depth())
			assert.Equal(t, domain.DirectionBackward, r.TransitionDirection())
		}
	}
}

func TestRouter_BackOnEmptyIsNoop(t *testing.T) {
	r := NewRouter()
	_, ok := r.Back()
	assert.False(t, ok)
	assert.Equal(t, domain.RouteHome, r.CurrentRoute())
	assert.Equal(t, domain.DirectionNone, r.TransitionDirection())
}

func TestRouter_ToRootAndCleanup(t *testing.T) {
	build := func() *Router {
		r := NewRouter()
		r.Navigate(domain.RouteTutorial, nil)
		r.Navigate(domain.RouteFormA, data("Ab1234"))
		r.Navigate(domain.RouteError, data(""))
		return r
	}

	r := build()
	r.ToRoot()
	assert.Equal(t, domain.RouteHome, r.CurrentRoute())
	assert.Equal(t, 0, r.Depth())
	assert.Equal(t, domain.DirectionNone, r.TransitionDirection())

	r = build()
	r.Cleanup()
	assert.Equal(t, domain.RouteHome, r.CurrentRoute())
	assert.Empty(t, r.Frames())
	_, ok := r.CurrentData()
	assert.False(t, ok)

	// Both are safe on a fresh router.
	fresh := NewRouter()
	fresh.ToRoot()
	fresh.Cleanup()
	assert.Equal(t, domain.RouteHome, fresh.CurrentRoute())
}

func TestRouter_BackToFirstFormUsesLastOccurrence(t *testing.T) {
	r := NewRouter()
	r.Navigate(domain.RouteTutorial, nil)
	r.Navigate(domain.RouteFormA, data("a"))
	r.Navigate(domain.RouteFormB, data("b"))
	r.Navigate(domain.RoutePreview, data("p"))
	r.SetTransitionDirection(domain.DirectionModal)

	require.True(t, r.BackToFirstForm())
	assert.Equal(t, domain.RouteFormB, r.CurrentRoute())
	assert.Equal(t, []domain.Route{domain.RouteTutorial, domain.RouteFormA, domain.RouteFormB}, routesOf(r.Frames()))
	assert.Equal(t, domain.DirectionModal, r.TransitionDirection(), "direction is left to the caller")
}

func TestRouter_BackToFirstFormWithoutFormIsNoop(t *testing.T) {
	r := NewRouter()
	r.Navigate(domain.RouteTutorial, nil)
	r.Navigate(domain.RoutePreview, nil)

	assert.False(t, r.BackToFirstForm())
	assert.Equal(t, domain.RoutePreview, r.CurrentRoute())
	assert.Equal(t, 2, r.Depth())
}

func TestRouter_BackToEarliestForm(t *testing.T) {
	r := NewRouter()
	r.Navigate(domain.RouteTutorial, nil)
	r.Navigate(domain.RouteFormA, data("a"))
	r.Navigate(domain.RouteFormB, data("b"))
	r.Navigate(domain.RoutePreview, data("p"))

	removed, ok := r.BackToEarliestForm()
	require.True(t, ok)
	assert.Equal(t, domain.RouteFormA, r.CurrentRoute())
	assert.Equal(t, []domain.Route{domain.RouteFormB, domain.RoutePreview}, routesOf(removed))
	assert.Equal(t, domain.DirectionBackward, r.TransitionDirection())
	assert.Equal(t, 2, r.Depth())
}

func TestRouter_BackTo(t *testing.T) {
	r := NewRouter()
	r.Navigate(domain.RouteTutorial, nil)
	r.Navigate(domain.RouteFormA, data("1"))
	r.Navigate(domain.RoutePreview, nil)
	r.Navigate(domain.RouteFormA, data("2"))
	r.Navigate(domain.RouteResult, nil)

	require.True(t, r.BackTo(domain.RouteFormA))
	assert.Equal(t, domain.RouteFormA, r.CurrentRoute())
	assert.Equal(t, 4, r.Depth(), "last occurrence is kept")
	got, _ := r.CurrentData()
	assert.Equal(t, "2", got.TextInput)
	assert.Equal(t, domain.DirectionBackward, r.TransitionDirection())

	// Idempotent.
	before := r.Frames()
	require.True(t, r.BackTo(domain.RouteFormA))
	assert.Equal(t, before, r.Frames())
	assert.Equal(t, domain.RouteFormA, r.CurrentRoute())
	assert.Equal(t, domain.DirectionBackward, r.TransitionDirection())

	// Absent target.
	assert.False(t, r.BackTo(domain.RouteFormB))
	assert.False(t, r.BackTo(domain.RouteHome))
	assert.Equal(t, 4, r.Depth())
}

func TestRouter_CopyOnPush(t *testing.T) {
	r := NewRouter()
	live := domain.FormState{TextInput: "Ab1234"}
	r.Navigate(domain.RouteFormA, &live)

	live.TextInput = "changed"
	live.ErrorMessage = "boom"

	got, ok := r.CurrentData()
	require.True(t, ok)
	assert.Equal(t, "Ab1234", got.TextInput)
	assert.Empty(t, got.ErrorMessage)

	// Copies handed out are private as well.
	frames := r.Frames()
	frames[0].Data.TextInput = "mutated"
	got, _ = r.CurrentData()
	assert.Equal(t, "Ab1234", got.TextInput)
}

func TestRouter_RouteCScenario(t *testing.T) {
	fm, err := NewFlowManager(testFlows()...)
	require.NoError(t, err)
	r := NewRouter()

	require.True(t, fm.SelectFlow("routeC"))
	require.True(t, r.Navigate(domain.RouteTutorial, nil))
	form := domain.FormState{TextInput: "Ab1234"}

	for r.CurrentRoute() != domain.RouteResult {
		next := fm.NextRoutes(r.CurrentRoute())
		require.NotEmpty(t, next, "stuck at %s", r.CurrentRoute())
		require.True(t, r.Navigate(next[0], &form))
	}

	// Four data-carrying frames sit above the start screen.
	assert.Equal(t, 5, r.Depth())
	withData := 0
	for _, f := range r.Frames() {
		if f.Data != nil {
			withData++
		}
	}
	assert.Equal(t, 4, withData)
	assert.Equal(t, domain.RouteResult, r.CurrentRoute())
	assert.Equal(t, []domain.Route{
		domain.RouteTutorial, domain.RouteFormA, domain.RouteFormB, domain.RoutePreview, domain.RouteResult,
	}, routesOf(r.Frames()))
}
