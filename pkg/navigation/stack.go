package navigation

import "github.com/aretw0/formflow/pkg/domain"

// Frame is a single entry in the navigation stack.
// Data is nil when the screen was entered without form data.
type Frame struct {
	Route domain.Route      `json:"route"`
	Data  *domain.FormState `json:"data,omitempty"`
}

// clone returns a frame that shares no storage with f.
func (f Frame) clone() Frame {
	if f.Data != nil {
		d := *f.Data
		f.Data = &d
	}
	return f
}

// Stack manages the visited frames in visitation order.
type Stack struct {
	entries []Frame
}

// NewStack creates a new empty navigation stack.
func NewStack() *Stack {
	return &Stack{
		entries: make([]Frame, 0),
	}
}

// Push adds a frame holding a copy of data.
func (s *Stack) Push(route domain.Route, data *domain.FormState) {
	s.entries = append(s.entries, Frame{Route: route, Data: data}.clone())
}

// Pop removes and returns the top frame.
// Returns false if the stack is empty.
func (s *Stack) Pop() (Frame, bool) {
	if len(s.entries) == 0 {
		return Frame{}, false
	}
	top := s.entries[len(s.entries)-1]
	s.entries[len(s.entries)-1] = Frame{}
	s.entries = s.entries[:len(s.entries)-1]
	return top, true
}

// Peek returns a copy of the top frame without removing it.
func (s *Stack) Peek() (Frame, bool) {
	if len(s.entries) == 0 {
		return Frame{}, false
	}
	return s.entries[len(s.entries)-1].clone(), true
}

// Len returns the number of frames in the stack.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Clear removes all frames and releases their snapshots.
func (s *Stack) Clear() {
	clear(s.entries)
	s.entries = s.entries[:0]
}

// LastIndex returns the position of the most recent frame matching pred, or -1.
func (s *Stack) LastIndex(pred func(Frame) bool) int {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if pred(s.entries[i]) {
			return i
		}
	}
	return -1
}

// FirstIndex returns the position of the oldest frame matching pred, or -1.
func (s *Stack) FirstIndex(pred func(Frame) bool) int {
	for i, f := range s.entries {
		if pred(f) {
			return i
		}
	}
	return -1
}

// Truncate keeps the first n frames and returns the removed ones.
func (s *Stack) Truncate(n int) []Frame {
	if n < 0 {
		n = 0
	}
	if n >= len(s.entries) {
		return nil
	}
	removed := make([]Frame, len(s.entries)-n)
	copy(removed, s.entries[n:])
	clear(s.entries[n:])
	s.entries = s.entries[:n]
	return removed
}

// Frames returns a deep copy of the stack, bottom first.
func (s *Stack) Frames() []Frame {
	out := make([]Frame, len(s.entries))
	for i, f := range s.entries {
		out[i] = f.clone()
	}
	return out
}

func isFormFrame(f Frame) bool {
	return f.Route.IsForm()
}

func routeIs(r domain.Route) func(Frame) bool {
	return func(f Frame) bool { return f.Route == r }
}
