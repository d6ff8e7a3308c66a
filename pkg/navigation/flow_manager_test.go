package navigation

import (
	"testing"

	"github.com/aretw0/formflow/pkg/domain"
)

func testFlows() []domain.Flow {
	return []domain.Flow{
		domain.NewFlow("routeA", "Route A", "", domain.RouteTutorial, map[domain.Route][]domain.Route{
			domain.RouteTutorial: {domain.RouteFormA},
			domain.RouteFormA:    {domain.RouteResult},
		}),
		domain.NewFlow("routeC", "Route C", "", domain.RouteTutorial, map[domain.Route][]domain.Route{
			domain.RouteTutorial: {domain.RouteFormA},
			domain.RouteFormA:    {domain.RouteFormB},
			domain.RouteFormB:    {domain.RoutePreview},
			domain.RoutePreview:  {domain.RouteResult},
		}),
	}
}

func TestNewFlowManager_Empty(t *testing.T) {
	if _, err := NewFlowManager(); err != ErrNoFlows {
		t.Errorf("NewFlowManager() error = %v, want ErrNoFlows", err)
	}
}

func TestFlowManager_DefaultsToFirst(t *testing.T) {
	m, err := NewFlowManager(testFlows()...)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.CurrentFlow().ID; got != "routeA" {
		t.Errorf("CurrentFlow() = %q, want routeA", got)
	}
	if got := m.NextRoutes(domain.RouteFormA); len(got) != 1 || got[0] != domain.RouteResult {
		t.Errorf("NextRoutes(FormA) = %v, want [result]", got)
	}
}

func TestFlowManager_SelectFlow(t *testing.T) {
	m, _ := NewFlowManager(testFlows()...)

	if !m.SelectFlow("routeC") {
		t.Fatal("SelectFlow(routeC) = false")
	}
	if got := m.NextRoutes(domain.RouteFormA); len(got) != 1 || got[0] != domain.RouteFormB {
		t.Errorf("NextRoutes(FormA) = %v, want [form_b]", got)
	}

	// Unknown id keeps the selection.
	if m.SelectFlow("routeZ") {
		t.Error("SelectFlow(routeZ) = true, want false")
	}
	if got := m.CurrentFlow().ID; got != "routeC" {
		t.Errorf("CurrentFlow() = %q after unknown id, want routeC", got)
	}
}

func TestFlowManager_DuplicateFirstWins(t *testing.T) {
	dup := domain.NewFlow("routeA", "Shadow", "", domain.RouteTutorial, nil)
	m, _ := NewFlowManager(append(testFlows(), dup)...)

	if n := len(m.AvailableFlows()); n != 2 {
		t.Fatalf("AvailableFlows() = %d flows, want 2", n)
	}
	f, ok := m.Flow("routeA")
	if !ok || f.Title != "Route A" {
		t.Errorf("Flow(routeA) = %+v, %v", f, ok)
	}
}

func TestFlowManager_TerminalRoutes(t *testing.T) {
	m, _ := NewFlowManager(testFlows()...)
	for _, r := range []domain.Route{domain.RouteResult, domain.RouteFormB, domain.RouteError, domain.RouteHome} {
		if got := m.NextRoutes(r); len(got) != 0 {
			t.Errorf("NextRoutes(%s) = %v, want empty", r, got)
		}
	}
}
