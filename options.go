package formflow

import (
	"log/slog"
	"time"

	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/i18n"
	"github.com/aretw0/formflow/pkg/ports"
)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithCatalog sets the source of flows (default: the embedded catalog).
func WithCatalog(src ports.FlowSource) Option {
	return func(e *Engine) {
		e.source = src
	}
}

// WithFlows uses flows directly instead of a catalog. They are validated like a catalog.
func WithFlows(flows ...domain.Flow) Option {
	return func(e *Engine) {
		e.inlineFlows = append(e.inlineFlows, flows...)
	}
}

// WithValidators replaces the validator of each form present in v.
func WithValidators(v map[domain.Form]ports.Validator) Option {
	return func(e *Engine) {
		for f, val := range v {
			e.validators[f] = val
		}
	}
}

// WithFormLocker sets the in-flight validation guard (default: in-process).
func WithFormLocker(l ports.FormLocker) Option {
	return func(e *Engine) {
		e.locker = l
	}
}

// WithValidationLease sets how long the in-flight guard survives a vanished holder.
func WithValidationLease(d time.Duration) Option {
	return func(e *Engine) {
		e.lease = d
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
// Calling it more than once merges the hook sets.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = domain.MergeHooks(e.hooks, hooks)
	}
}

// WithSessionID names the session in events, logs and lock keys.
func WithSessionID(id string) Option {
	return func(e *Engine) {
		e.id = id
	}
}

// WithTranslator localizes titles and messages (default: English).
func WithTranslator(tr *i18n.Translator) Option {
	return func(e *Engine) {
		e.tr = tr
	}
}
