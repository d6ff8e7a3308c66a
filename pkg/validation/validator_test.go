package validation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/formflow/pkg/domain"
)

func TestFormA(t *testing.T) {
	v := NewFormA(WithLatency(0))

	tests := []struct {
		name  string
		input string
		want  domain.ValidationOutcome
	}{
		{"valid", "Ab1234", domain.Valid{}},
		{"valid with surrounding space", "  Ab1234\n", domain.Valid{}},
		{"too short", "abc", domain.Invalid{Code: CodeLength, Message: "Enter between 6 and 16 characters"}},
		{"too long", "abcdefgh123456789", domain.Invalid{Code: CodeLength, Message: "Enter between 6 and 16 characters"}},
		{"symbols", "abc-123", domain.Invalid{Code: CodeCharset, Message: "Only letters and digits are allowed"}},
		{"non ascii", "ｐａｓｓ１２", domain.Invalid{Code: CodeCharset, Message: "Only letters and digits are allowed"}},
		{"no letter", "123456", domain.Invalid{Code: CodeLetter, Message: "Include at least one letter"}},
		{"no digit", "abcdef", domain.Invalid{Code: CodeDigit, Message: "Include at least one digit"}},
		{"sentinel invalid", "111AAA", domain.Invalid{Code: CodeIncorrect, Message: MessageIncorrect}},
		{"sentinel fatal", "222BBB", domain.Fatal{Code: CodeRejected}},
		{"sentinel after trim", " 222BBB ", domain.Fatal{Code: CodeRejected}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Validate(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormA_FirstFailingCheckWins(t *testing.T) {
	v := NewFormA(WithLatency(0))

	// Short and containing a symbol: only the length message is reported.
	got := v.Evaluate("a-1")
	assert.Equal(t, domain.Invalid{Code: CodeLength, Message: "Enter between 6 and 16 characters"}, got)
}

func TestFormB(t *testing.T) {
	v := NewFormB(WithLatency(0))

	tests := []struct {
		input string
		want  domain.OutcomeKind
		code  string
	}{
		{"1234", domain.OutcomeValid, ""},
		{"12a4", domain.OutcomeInvalid, CodePattern},
		{"123", domain.OutcomeInvalid, CodePattern},
		{"12345", domain.OutcomeInvalid, CodePattern},
		{"0000", domain.OutcomeInvalid, CodeIncorrect},
		{"9999", domain.OutcomeFatal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := v.Validate(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Kind())
			if inv, ok := got.(domain.Invalid); ok {
				assert.Equal(t, tt.code, inv.Code)
				assert.NotEmpty(t, inv.Message)
			}
		})
	}
}

func TestValidator_Latency(t *testing.T) {
	v := NewFormB(WithLatency(30 * time.Millisecond))

	start := time.Now()
	got, err := v.Validate(context.Background(), "1234")
	require.NoError(t, err)
	assert.Equal(t, domain.Valid{}, got)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestValidator_CancelledDuringLatency(t *testing.T) {
	v := NewFormA(WithLatency(time.Minute))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	got, err := v.Validate(ctx, "Ab1234")
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, DefaultFormALatency, NewFormA().Latency())
	assert.Equal(t, DefaultFormBLatency, NewFormB().Latency())

	reg := Registry(Latencies{})
	require.Len(t, reg, 2)
	for _, f := range domain.AllForms {
		assert.NotNil(t, reg[f], f.String())
	}
}

func TestFunc(t *testing.T) {
	var seen string
	f := Func(func(_ context.Context, raw string) (domain.ValidationOutcome, error) {
		seen = raw
		return domain.Fatal{}, nil
	})

	got, err := f.Validate(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, domain.Fatal{}, got)
	assert.Equal(t, "x", seen)
}
