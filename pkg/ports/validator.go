package ports

import (
	"context"

	"github.com/aretw0/formflow/pkg/domain"
)

// Validator checks the raw input of one form.
// Implementations must not mutate shared state: the outcome depends only on the
// trimmed input. The returned error is non-nil only when ctx ends before a result
// is available; user-facing failures are expressed as domain.Invalid or domain.Fatal.
type Validator interface {
	Validate(ctx context.Context, raw string) (domain.ValidationOutcome, error)
}

// FlowSource provides the static catalog of flows.
type FlowSource interface {
	Flows(ctx context.Context) ([]domain.Flow, error)
}
