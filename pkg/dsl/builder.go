package dsl

import (
	"fmt"

	"github.com/aretw0/formflow/pkg/adapters/memory"
	"github.com/aretw0/formflow/pkg/catalog"
	"github.com/aretw0/formflow/pkg/domain"
)

// Builder manages the catalog construction.
type Builder struct {
	order []string
	flows map[string]*FlowBuilder
}

// New creates a new catalog builder.
func New() *Builder {
	return &Builder{
		flows: make(map[string]*FlowBuilder),
	}
}

// Flow starts a new flow in the catalog.
// If the flow already exists, it returns the existing builder.
func (b *Builder) Flow(id string) *FlowBuilder {
	if fb, ok := b.flows[id]; ok {
		return fb
	}
	fb := &FlowBuilder{
		flow: domain.Flow{
			ID:          id,
			Title:       id,
			StartRoute:  domain.RouteTutorial,
			Transitions: make(map[domain.Route][]domain.Route),
		},
		builder: b,
	}
	b.order = append(b.order, id)
	b.flows[id] = fb
	return fb
}

// Flows returns the flows in declaration order, without validating them.
func (b *Builder) Flows() []domain.Flow {
	flows := make([]domain.Flow, 0, len(b.order))
	for _, id := range b.order {
		flows = append(flows, b.flows[id].Build())
	}
	return flows
}

// Build validates the catalog and compiles it into a memory Loader.
func (b *Builder) Build() (*memory.Loader, error) {
	flows := b.Flows()
	if err := catalog.Validate(flows); err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}
	return memory.NewLoader(flows...), nil
}
