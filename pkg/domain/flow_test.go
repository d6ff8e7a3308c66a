package domain

import (
	"context"
	"reflect"
	"testing"
)

func TestFlow_NextRoutes(t *testing.T) {
	f := NewFlow("routeB", "Route B", "", RouteTutorial, map[Route][]Route{
		RouteTutorial: {RouteFormA},
		RouteFormA:    {RoutePreview},
		RoutePreview:  {RouteResult},
		RouteResult:   {},
	})

	if got := f.NextRoutes(RouteFormA); !reflect.DeepEqual(got, []Route{RoutePreview}) {
		t.Errorf("NextRoutes(FormA) = %v, want [preview]", got)
	}

	// Absent key and empty list are both terminal.
	if got := f.NextRoutes(RouteResult); len(got) != 0 {
		t.Errorf("NextRoutes(Result) = %v, want empty", got)
	}
	if got := f.NextRoutes(RouteFormB); got == nil || len(got) != 0 {
		t.Errorf("NextRoutes(FormB) = %#v, want empty non-nil slice", got)
	}
	if !f.IsTerminal(RouteResult) || !f.IsTerminal(RouteFormB) {
		t.Error("expected Result and FormB to be terminal")
	}
	if !f.Allows(RouteFormA, RoutePreview) || f.Allows(RouteFormA, RouteResult) {
		t.Error("Allows() disagrees with transitions")
	}
}

func TestFlow_IsolatedFromCaller(t *testing.T) {
	transitions := map[Route][]Route{RouteTutorial: {RouteFormA}}
	f := NewFlow("x", "", "", RouteTutorial, transitions)

	transitions[RouteTutorial][0] = RouteFormB
	if f.NextRoutes(RouteTutorial)[0] != RouteFormA {
		t.Fatal("flow shares storage with the caller's map")
	}

	next := f.NextRoutes(RouteTutorial)
	next[0] = RouteResult
	if f.NextRoutes(RouteTutorial)[0] != RouteFormA {
		t.Fatal("NextRoutes result aliases flow storage")
	}
}

func TestFlow_Routes(t *testing.T) {
	f := NewFlow("routeC", "", "", RouteTutorial, map[Route][]Route{
		RouteTutorial: {RouteFormA},
		RouteFormA:    {RouteFormB},
		RouteFormB:    {RoutePreview},
		RoutePreview:  {RouteResult},
	})
	want := []Route{RouteTutorial, RouteFormA, RouteFormB, RoutePreview, RouteResult}
	if got := f.Routes(); !reflect.DeepEqual(got, want) {
		t.Errorf("Routes() = %v, want %v", got, want)
	}
}

func TestMergeHooks(t *testing.T) {
	var calls []string
	a := LifecycleHooks{OnRouteEnter: func(context.Context, *RouteEvent) { calls = append(calls, "a") }}
	b := LifecycleHooks{
		OnRouteEnter:    func(context.Context, *RouteEvent) { calls = append(calls, "b") },
		OnValidationEnd: func(context.Context, *ValidationEvent) { calls = append(calls, "b-end") },
	}

	merged := MergeHooks(a, LifecycleHooks{}, b)
	merged.OnRouteEnter(context.Background(), &RouteEvent{})
	merged.OnValidationEnd(context.Background(), &ValidationEvent{})

	if merged.OnRouteLeave != nil {
		t.Error("expected OnRouteLeave to stay nil")
	}
	if !reflect.DeepEqual(calls, []string{"a", "b", "b-end"}) {
		t.Errorf("calls = %v", calls)
	}
}
