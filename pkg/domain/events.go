package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRouteEnter      EventType = "route_enter"
	EventRouteLeave      EventType = "route_leave"
	EventValidationStart EventType = "validation_start"
	EventValidationEnd   EventType = "validation_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// RouteEvent represents entry into or exit from a route.
type RouteEvent struct {
	EventBase
	Route     Route               `json:"route"`
	Direction TransitionDirection `json:"direction"`
	Depth     int                 `json:"depth"`
}

// ValidationEvent represents a validation run for a form.
type ValidationEvent struct {
	EventBase
	Form     Form          `json:"form"`
	Outcome  OutcomeKind   `json:"outcome,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnRouteEnter      func(context.Context, *RouteEvent)
	OnRouteLeave      func(context.Context, *RouteEvent)
	OnValidationStart func(context.Context, *ValidationEvent)
	OnValidationEnd   func(context.Context, *ValidationEvent)
	// OnEventDropped fires once per subscriber whose buffer was full.
	OnEventDropped    func(context.Context, *RouteEvent)
}

// MergeHooks combines several hook sets; each callback fans out in argument order.
func MergeHooks(sets ...LifecycleHooks) LifecycleHooks {
	var out LifecycleHooks
	for _, s := range sets {
		out.OnRouteEnter = chainRoute(out.OnRouteEnter, s.OnRouteEnter)
		out.OnRouteLeave = chainRoute(out.OnRouteLeave, s.OnRouteLeave)
		out.OnValidationStart = chainValidation(out.OnValidationStart, s.OnValidationStart)
		out.OnValidationEnd = chainValidation(out.OnValidationEnd, s.OnValidationEnd)
		out.OnEventDropped = chainRoute(out.OnEventDropped, s.OnEventDropped)
	}
	return out
}

func chainRoute(a, b func(context.Context, *RouteEvent)) func(context.Context, *RouteEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *RouteEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainValidation(a, b func(context.Context, *ValidationEvent)) func(context.Context, *ValidationEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *ValidationEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
