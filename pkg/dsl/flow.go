package dsl

import "github.com/aretw0/formflow/pkg/domain"

// FlowBuilder provides a fluent API for configuring a flow.
type FlowBuilder struct {
	flow    domain.Flow
	builder *Builder
}

// Title sets the display title of the flow.
func (f *FlowBuilder) Title(title string) *FlowBuilder {
	f.flow.Title = title
	return f
}

// Describe sets the description of the flow.
func (f *FlowBuilder) Describe(description string) *FlowBuilder {
	f.flow.Description = description
	return f
}

// Start sets the first route after Home. Defaults to the tutorial.
func (f *FlowBuilder) Start(route domain.Route) *FlowBuilder {
	f.flow.StartRoute = route
	return f
}

// Go allows from to be followed by each of targets, in order.
// The first target is the one taken by Next and by a valid form.
func (f *FlowBuilder) Go(from domain.Route, targets ...domain.Route) *FlowBuilder {
	for _, to := range targets {
		if !containsRoute(f.flow.Transitions[from], to) {
			f.flow.Transitions[from] = append(f.flow.Transitions[from], to)
		}
	}
	return f
}

// Path chains routes: each one may be followed by the next.
// The first route becomes the start when no transition was declared yet.
func (f *FlowBuilder) Path(routes ...domain.Route) *FlowBuilder {
	if len(routes) == 0 {
		return f
	}
	if len(f.flow.Transitions) == 0 {
		f.flow.StartRoute = routes[0]
	}
	for i := 0; i+1 < len(routes); i++ {
		f.Go(routes[i], routes[i+1])
	}
	return f
}

// Terminal marks a route as the end of the flow.
func (f *FlowBuilder) Terminal(route domain.Route) *FlowBuilder {
	f.flow.Transitions[route] = nil
	return f
}

// Flow continues with another flow of the same catalog.
func (f *FlowBuilder) Flow(id string) *FlowBuilder {
	return f.builder.Flow(id)
}

// Build returns a copy of the underlying domain.Flow.
func (f *FlowBuilder) Build() domain.Flow {
	return f.flow.Clone()
}

func containsRoute(routes []domain.Route, r domain.Route) bool {
	for _, x := range routes {
		if x == r {
			return true
		}
	}
	return false
}
