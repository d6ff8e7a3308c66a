package navigation

import "github.com/aretw0/formflow/pkg/domain"

// Router is the stack machine driving the current screen.
//
// Home is the implicit root: it is never pushed, and an empty stack always
// means the current route is Home.
type Router struct {
	stack     *Stack
	current   domain.Route
	direction domain.TransitionDirection
}

// NewRouter creates a router positioned on Home with an empty stack.
func NewRouter() *Router {
	return &Router{
		stack:     NewStack(),
		current:   domain.RouteHome,
		direction: domain.DirectionNone,
	}
}

// Navigate pushes route with a private copy of data and makes it current.
// Entering Error is a modal transition; anything else moves forward.
// Home and unknown routes are rejected.
func (r *Router) Navigate(route domain.Route, data *domain.FormState) bool {
	if route == domain.RouteHome || !route.Valid() {
		return false
	}
	r.stack.Push(route, data)
	r.current = route
	if route == domain.RouteError {
		r.direction = domain.DirectionModal
	} else {
		r.direction = domain.DirectionForward
	}
	return true
}

// Back pops the top frame and returns it.
// The router does not own form data: the caller resets the popped form.
// On an empty stack Back is a no-op and returns false.
func (r *Router) Back() (Frame, bool) {
	leaving := r.current
	popped, ok := r.stack.Pop()
	if !ok {
		return Frame{}, false
	}

	r.current = domain.RouteHome
	if top, ok := r.stack.Peek(); ok {
		r.current = top.Route
	}

	if leaving == domain.RouteError {
		r.direction = domain.DirectionModal
	} else {
		r.direction = domain.DirectionBackward
	}
	return popped, true
}

// ToRoot clears the stack and returns Home. It is the user-facing close action.
func (r *Router) ToRoot() {
	r.reset()
	r.direction = domain.DirectionNone
}

// Cleanup clears the stack and returns Home without touching the direction.
// It is the guard run whenever Home is (re)entered, so no snapshot outlives it.
func (r *Router) Cleanup() {
	r.reset()
}

// BackToFirstForm drops every frame after the most recent FormA/FormB frame.
// The direction is left to the caller. Without a form frame it is a no-op.
func (r *Router) BackToFirstForm() bool {
	idx := r.stack.LastIndex(isFormFrame)
	if idx < 0 {
		return false
	}
	r.truncateTo(idx)
	return true
}

// BackToEarliestForm drops every frame after the oldest FormA/FormB frame and
// returns the removed frames. It backs the "redo from the start of data entry" action.
func (r *Router) BackToEarliestForm() ([]Frame, bool) {
	idx := r.stack.FirstIndex(isFormFrame)
	if idx < 0 {
		return nil, false
	}
	removed := r.truncateTo(idx)
	r.direction = domain.DirectionBackward
	return removed, true
}

// BackTo drops every frame after the most recent occurrence of route.
// It is idempotent; when route is not in the stack it is a no-op.
func (r *Router) BackTo(route domain.Route) bool {
	idx := r.stack.LastIndex(routeIs(route))
	if idx < 0 {
		return false
	}
	r.truncateTo(idx)
	r.direction = domain.DirectionBackward
	return true
}

// CurrentRoute returns the route being displayed.
func (r *Router) CurrentRoute() domain.Route {
	return r.current
}

// TransitionDirection returns the direction of the last transition.
func (r *Router) TransitionDirection() domain.TransitionDirection {
	return r.direction
}

// SetTransitionDirection overrides the direction of the last transition.
func (r *Router) SetTransitionDirection(d domain.TransitionDirection) {
	r.direction = d
}

// CurrentData returns a copy of the data attached to the top frame.
func (r *Router) CurrentData() (domain.FormState, bool) {
	top, ok := r.stack.Peek()
	if !ok || top.Data == nil {
		return domain.FormState{}, false
	}
	return *top.Data, true
}

// Frames returns a deep copy of the stack, bottom first.
func (r *Router) Frames() []Frame {
	return r.stack.Frames()
}

// Depth returns the number of frames. Home is not counted.
func (r *Router) Depth() int {
	return r.stack.Len()
}

// Contains reports whether route has a frame in the stack.
func (r *Router) Contains(route domain.Route) bool {
	return r.stack.LastIndex(routeIs(route)) >= 0
}

func (r *Router) reset() {
	r.stack.Clear()
	r.current = domain.RouteHome
}

func (r *Router) truncateTo(idx int) []Frame {
	removed := r.stack.Truncate(idx + 1)
	top, _ := r.stack.Peek()
	r.current = top.Route
	return removed
}
