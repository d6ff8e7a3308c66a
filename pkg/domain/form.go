package domain

import (
	"fmt"
	"strings"
)

// Form identifies one of the data-entry steps.
type Form int

const (
	FormA Form = iota
	FormB
)

// AllForms lists the forms owned by a session.
var AllForms = []Form{FormA, FormB}

// String returns the identifier shared with the form's route ("form_a", "form_b").
func (f Form) String() string {
	return f.Route().String()
}

// Route returns the screen hosting the form.
func (f Form) Route() Route {
	if f == FormB {
		return RouteFormB
	}
	return RouteFormA
}

// FormForRoute returns the form hosted by route, if any.
func FormForRoute(r Route) (Form, bool) {
	switch r {
	case RouteFormA:
		return FormA, true
	case RouteFormB:
		return FormB, true
	}
	return FormA, false
}

// ParseForm resolves "form_a"/"a"/"form_b"/"b".
func ParseForm(s string) (Form, error) {
	clean := strings.ToLower(strings.TrimSpace(s))
	switch clean {
	case "a", "form_a", "forma", "form-a":
		return FormA, nil
	case "b", "form_b", "formb", "form-b":
		return FormB, nil
	}
	return FormA, fmt.Errorf("%w: %q", ErrUnknownForm, s)
}

// MarshalText implements encoding.TextMarshaler.
func (f Form) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Form) UnmarshalText(text []byte) error {
	parsed, err := ParseForm(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// FormState is the data entered on a form.
// It is a plain value: copies never share storage, so a snapshot taken when a
// stack frame is pushed cannot be changed by later edits to the live form.
type FormState struct {
	TextInput string `json:"text_input"`
	Selection int    `json:"selection"`

	// ErrorMessage is carried onward when routing to the Error screen.
	// It is distinct from the transient inline validation message.
	ErrorMessage string `json:"error_message,omitempty"`
}

// IsZero reports whether the state is a fresh, empty form.
func (s FormState) IsZero() bool {
	return s == FormState{}
}
