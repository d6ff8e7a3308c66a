package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/formflow/pkg/domain"
)

// Stable codes attached to domain.Invalid. Localized catalogs key on them.
const (
	CodeLength    = "length"
	CodeCharset   = "charset"
	CodeLetter    = "letter"
	CodeDigit     = "digit"
	CodePattern   = "pattern"
	CodeIncorrect = "incorrect"
	CodeRejected  = "rejected"
)

// Rule is a single structural check.
type Rule struct {
	Code    string
	Message string
	Check   func(input string) bool
}

// Apply returns the Invalid outcome for input, or nil when the rule passes.
func (r Rule) Apply(input string) *domain.Invalid {
	if r.Check == nil || r.Check(input) {
		return nil
	}
	return &domain.Invalid{Code: r.Code, Message: r.Message}
}

// --- Built-in rules ---

// LengthBetween requires the rune count of the input to be within [min, max].
func LengthBetween(min, max int, message string) Rule {
	return Rule{
		Code:    CodeLength,
		Message: message,
		Check: func(s string) bool {
			n := utf8.RuneCountInString(s)
			return n >= min && n <= max
		},
	}
}

// Matches requires the whole input to match re.
func Matches(re *regexp.Regexp, code, message string) Rule {
	return Rule{Code: code, Message: message, Check: re.MatchString}
}

// ContainsAny requires at least one rune satisfying pred.
func ContainsAny(pred func(rune) bool, code, message string) Rule {
	return Rule{
		Code:    code,
		Message: message,
		Check: func(s string) bool {
			return strings.IndexFunc(s, pred) >= 0
		},
	}
}

// Sentinel maps a reserved literal input to a fixed outcome.
type Sentinel struct {
	Input   string
	Outcome domain.ValidationOutcome
}

func isASCIILetter(r rune) bool {
	return r < unicode.MaxASCII && unicode.IsLetter(r)
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
