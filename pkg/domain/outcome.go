package domain

// OutcomeKind names the active variant of a ValidationOutcome.
type OutcomeKind string

const (
	OutcomeValid   OutcomeKind = "valid"
	OutcomeInvalid OutcomeKind = "invalid"
	OutcomeFatal   OutcomeKind = "fatal"
)

// ValidationOutcome is the tri-state result of a validation/scan step.
// The set of implementations is closed (Valid, Invalid, Fatal); consume it with a type switch.
type ValidationOutcome interface {
	Kind() OutcomeKind
	sealed()
}

// Valid means the input passed every check; navigation may advance.
type Valid struct{}

// Invalid is a user-correctable failure. Message must be shown inline and
// navigation does not advance. Code is a stable identifier used for localization.
type Invalid struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Fatal means the current attempt cannot continue; navigation must redirect to the Error route.
type Fatal struct {
	Code string `json:"code,omitempty"`
}

func (Valid) Kind() OutcomeKind   { return OutcomeValid }
func (Invalid) Kind() OutcomeKind { return OutcomeInvalid }
func (Fatal) Kind() OutcomeKind   { return OutcomeFatal }

func (Valid) sealed()   {}
func (Invalid) sealed() {}
func (Fatal) sealed()   {}

// OutcomeView is the wire representation of a ValidationOutcome.
type OutcomeView struct {
	Kind    OutcomeKind `json:"kind"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ViewOutcome flattens an outcome for JSON responses. A nil outcome yields an empty view.
func ViewOutcome(o ValidationOutcome) OutcomeView {
	switch v := o.(type) {
	case Valid:
		return OutcomeView{Kind: OutcomeValid}
	case Invalid:
		return OutcomeView{Kind: OutcomeInvalid, Code: v.Code, Message: v.Message}
	case Fatal:
		return OutcomeView{Kind: OutcomeFatal, Code: v.Code}
	}
	return OutcomeView{}
}
