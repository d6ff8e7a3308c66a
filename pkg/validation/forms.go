package validation

import (
	"regexp"
	"time"

	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/ports"
)

// Default latencies of the shipped validators.
const (
	DefaultFormALatency = 500 * time.Millisecond
	DefaultFormBLatency = time.Second
)

// MessageIncorrect is the sentinel message shared by both forms.
const MessageIncorrect = "The password is incorrect"

var (
	alphanumeric = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	fourDigits   = regexp.MustCompile(`^[0-9]{4}$`)
)

// FormARules returns the structural checks of Form A in evaluation order.
func FormARules() []Rule {
	return []Rule{
		LengthBetween(6, 16, "Enter between 6 and 16 characters"),
		Matches(alphanumeric, CodeCharset, "Only letters and digits are allowed"),
		ContainsAny(isASCIILetter, CodeLetter, "Include at least one letter"),
		ContainsAny(isASCIIDigit, CodeDigit, "Include at least one digit"),
	}
}

// FormASentinels returns the reserved inputs of Form A.
func FormASentinels() []Sentinel {
	return []Sentinel{
		{Input: "111AAA", Outcome: domain.Invalid{Code: CodeIncorrect, Message: MessageIncorrect}},
		{Input: "222BBB", Outcome: domain.Fatal{Code: CodeRejected}},
	}
}

// FormBRules returns the structural checks of Form B.
func FormBRules() []Rule {
	return []Rule{
		Matches(fourDigits, CodePattern, "Enter exactly 4 digits"),
	}
}

// FormBSentinels returns the reserved inputs of Form B.
func FormBSentinels() []Sentinel {
	return []Sentinel{
		{Input: "0000", Outcome: domain.Invalid{Code: CodeIncorrect, Message: MessageIncorrect}},
		{Input: "9999", Outcome: domain.Fatal{Code: CodeRejected}},
	}
}

// NewFormA creates the Form-A password validator.
func NewFormA(opts ...Option) *Validator {
	return New(FormARules(), FormASentinels(), append([]Option{WithLatency(DefaultFormALatency)}, opts...)...)
}

// NewFormB creates the Form-B PIN validator.
func NewFormB(opts ...Option) *Validator {
	return New(FormBRules(), FormBSentinels(), append([]Option{WithLatency(DefaultFormBLatency)}, opts...)...)
}

// Latencies overrides the default delay per form.
type Latencies struct {
	FormA time.Duration
	FormB time.Duration
}

// DefaultLatencies returns the delays used when nothing is configured.
func DefaultLatencies() Latencies {
	return Latencies{FormA: DefaultFormALatency, FormB: DefaultFormBLatency}
}

// Registry returns the validator for every form.
func Registry(l Latencies) map[domain.Form]ports.Validator {
	return map[domain.Form]ports.Validator{
		domain.FormA: NewFormA(WithLatency(l.FormA)),
		domain.FormB: NewFormB(WithLatency(l.FormB)),
	}
}
