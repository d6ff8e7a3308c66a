package domain

// Flow is a named directed graph restricting which routes may follow which.
// A route mapped to an empty list and a route absent from Transitions are both terminal.
type Flow struct {
	ID          string            `json:"id" yaml:"id"`
	Title       string            `json:"title" yaml:"title"`
	Description string            `json:"description" yaml:"description"`
	StartRoute  Route             `json:"start_route" yaml:"start"`
	Transitions map[Route][]Route `json:"transitions" yaml:"transitions"`
}

// NewFlow builds a flow, copying the transition map so later changes by the caller
// cannot leak into it.
func NewFlow(id, title, description string, start Route, transitions map[Route][]Route) Flow {
	return Flow{
		ID:          id,
		Title:       title,
		Description: description,
		StartRoute:  start,
		Transitions: copyTransitions(transitions),
	}
}

// NextRoutes returns the ordered routes allowed after from.
// The result is a fresh slice; an absent mapping yields an empty one.
func (f Flow) NextRoutes(from Route) []Route {
	next := f.Transitions[from]
	out := make([]Route, len(next))
	copy(out, next)
	return out
}

// IsTerminal reports whether no route may follow from.
func (f Flow) IsTerminal(from Route) bool {
	return len(f.Transitions[from]) == 0
}

// Allows reports whether to is one of the routes allowed after from.
func (f Flow) Allows(from, to Route) bool {
	for _, r := range f.Transitions[from] {
		if r == to {
			return true
		}
	}
	return false
}

// Routes returns every route mentioned by the flow, start first, in discovery order.
func (f Flow) Routes() []Route {
	seen := map[Route]bool{f.StartRoute: true}
	out := []Route{f.StartRoute}
	queue := []Route{f.StartRoute}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range f.Transitions[cur] {
			if !seen[next] {
				seen[next] = true
				out = append(out, next)
				queue = append(queue, next)
			}
		}
	}
	return out
}

// Clone returns a deep copy of the flow.
func (f Flow) Clone() Flow {
	f.Transitions = copyTransitions(f.Transitions)
	return f
}

func copyTransitions(src map[Route][]Route) map[Route][]Route {
	dst := make(map[Route][]Route, len(src))
	for from, to := range src {
		list := make([]Route, len(to))
		copy(list, to)
		dst[from] = list
	}
	return dst
}
