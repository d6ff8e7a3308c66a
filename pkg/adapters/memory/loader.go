package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/formflow/pkg/domain"
)

// Loader implements ports.FlowSource using an in-memory list.
type Loader struct {
	flows []domain.Flow
}

// NewLoader creates a new in-memory flow source.
// Flows are copied so later changes by the caller do not leak in.
func NewLoader(flows ...domain.Flow) *Loader {
	l := &Loader{flows: make([]domain.Flow, 0, len(flows))}
	for _, f := range flows {
		l.flows = append(l.flows, f.Clone())
	}
	return l
}

// Flows returns a copy of the stored flows in insertion order.
func (l *Loader) Flows(ctx context.Context) ([]domain.Flow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(l.flows) == 0 {
		return nil, fmt.Errorf("memory loader: no flows registered")
	}
	out := make([]domain.Flow, len(l.flows))
	for i, f := range l.flows {
		out[i] = f.Clone()
	}
	return out, nil
}
