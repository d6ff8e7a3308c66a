package validation

import (
	"context"
	"strings"
	"time"

	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/ports"
)

// Validator evaluates an ordered rule chain followed by a sentinel table.
type Validator struct {
	rules     []Rule
	sentinels map[string]domain.ValidationOutcome
	latency   time.Duration
}

// Option configures a Validator.
type Option func(*Validator)

// WithLatency sets the fixed delay applied before every result.
// It simulates a slow scan and is not a timeout: the result never depends on it.
func WithLatency(d time.Duration) Option {
	return func(v *Validator) {
		if d < 0 {
			d = 0
		}
		v.latency = d
	}
}

// New creates a validator from rules evaluated in order and a sentinel table.
// Later sentinels with the same input override earlier ones.
func New(rules []Rule, sentinels []Sentinel, opts ...Option) *Validator {
	v := &Validator{
		rules:     append([]Rule(nil), rules...),
		sentinels: make(map[string]domain.ValidationOutcome, len(sentinels)),
	}
	for _, s := range sentinels {
		v.sentinels[s.Input] = s.Outcome
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Latency returns the configured delay.
func (v *Validator) Latency() time.Duration {
	return v.latency
}

// Validate implements ports.Validator.
func (v *Validator) Validate(ctx context.Context, raw string) (domain.ValidationOutcome, error) {
	if err := wait(ctx, v.latency); err != nil {
		return nil, err
	}
	return v.Evaluate(raw), nil
}

// Evaluate runs the checks without the simulated latency.
func (v *Validator) Evaluate(raw string) domain.ValidationOutcome {
	input := strings.TrimSpace(raw)

	for _, r := range v.rules {
		if invalid := r.Apply(input); invalid != nil {
			return *invalid
		}
	}

	if outcome, ok := v.sentinels[input]; ok {
		return outcome
	}
	return domain.Valid{}
}

// Func adapts a plain function to ports.Validator.
type Func func(ctx context.Context, raw string) (domain.ValidationOutcome, error)

// Validate implements ports.Validator.
func (f Func) Validate(ctx context.Context, raw string) (domain.ValidationOutcome, error) {
	return f(ctx, raw)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var (
	_ ports.Validator = (*Validator)(nil)
	_ ports.Validator = Func(nil)
)
