package navigation

import (
	"errors"

	"github.com/aretw0/formflow/pkg/domain"
)

// ErrNoFlows is returned when a FlowManager is built from an empty catalog.
var ErrNoFlows = errors.New("flow catalog is empty")

// FlowManager holds the catalog of flows and the current selection.
type FlowManager struct {
	flows   []domain.Flow
	index   map[string]int
	current int
}

// NewFlowManager creates a manager over flows, selecting the first one.
// Duplicate ids are ignored after their first occurrence.
func NewFlowManager(flows ...domain.Flow) (*FlowManager, error) {
	m := &FlowManager{index: make(map[string]int, len(flows))}
	for _, f := range flows {
		if _, dup := m.index[f.ID]; dup {
			continue
		}
		m.index[f.ID] = len(m.flows)
		m.flows = append(m.flows, f.Clone())
	}
	if len(m.flows) == 0 {
		return nil, ErrNoFlows
	}
	return m, nil
}

// SelectFlow makes the flow with id current.
// An unknown id leaves the selection untouched and returns false.
func (m *FlowManager) SelectFlow(id string) bool {
	i, ok := m.index[id]
	if !ok {
		return false
	}
	m.current = i
	return true
}

// CurrentFlow returns the selected flow.
func (m *FlowManager) CurrentFlow() domain.Flow {
	return m.flows[m.current].Clone()
}

// NextRoutes returns the routes the current flow allows after from.
func (m *FlowManager) NextRoutes(from domain.Route) []domain.Route {
	return m.flows[m.current].NextRoutes(from)
}

// AvailableFlows returns the catalog in its original order.
func (m *FlowManager) AvailableFlows() []domain.Flow {
	out := make([]domain.Flow, len(m.flows))
	for i, f := range m.flows {
		out[i] = f.Clone()
	}
	return out
}

// Flow looks up a flow by id.
func (m *FlowManager) Flow(id string) (domain.Flow, bool) {
	i, ok := m.index[id]
	if !ok {
		return domain.Flow{}, false
	}
	return m.flows[i].Clone(), true
}
