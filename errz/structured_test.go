package errz

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/wonton/assert"
)

func TestEmitErrorMessage(t *testing.T) {
	err := New(ErrUnsupportedConversion, E4001, "cannot convert %s to %s", "bool", "int32")
	assert.Equal(t, err.Error(), "unsupported conversion: cannot convert bool to int32")

	err.WithMethod("Calc.Add").WithLocation(SourceLocation{Filename: "calc.cs", Line: 3, Column: 9})
	assert.Equal(t, err.Error(), "unsupported conversion: cannot convert bool to int32 in Calc.Add (calc.cs:3:9)")
}

func TestEmitErrorIs(t *testing.T) {
	err := New(ErrDanglingLabel, E4003, "label L1 never placed")
	wrapped := fmt.Errorf("emit: %w", err)
	assert.True(t, errors.Is(wrapped, ErrDanglingLabel))
	assert.False(t, errors.Is(wrapped, ErrNotLowered))

	var target *EmitError
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, target.Code, E4003)
	assert.True(t, target.IsFatal())
}

func TestWithLocationKeepsFirst(t *testing.T) {
	err := Newf(ErrInvariant, E4006, SourceLocation{Line: 1, Column: 2}, "unknown local %q", "x")
	err.WithLocation(SourceLocation{Line: 9, Column: 9})
	assert.Equal(t, err.Location.Line, 1)
	err.WithMethod("A").WithMethod("B")
	assert.Equal(t, err.Method, "A")
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := New(ErrInvariant, E4010, "bad operand").WithCause(cause)
	assert.True(t, errors.Is(err, cause))
}

func TestErrorKindStrings(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{ErrUnsupportedConversion, "unsupported conversion"},
		{ErrUnresolvedOperation, "unresolved operation"},
		{ErrDanglingLabel, "dangling label"},
		{ErrNotLowered, "not lowered"},
		{ErrInvariant, "invariant violation"},
		{ErrorKind(99), "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.kind.String(), tt.want)
	}
}

func TestCodeDescriptions(t *testing.T) {
	assert.Equal(t, E4002.Description(), "unresolved operation")
	assert.Equal(t, ErrorCode("E9999").Description(), "unknown error")
	assert.Equal(t, E4004.String(), "E4004")
}

func TestFriendlyErrorMessage(t *testing.T) {
	err := Newf(ErrNotLowered, E4005, SourceLocation{Line: 2, Column: 5, Source: "x = y ?? z;"}, "no emission rule for %s", "coalesce")
	err.WithMethod("M")
	msg := err.FriendlyErrorMessage()
	assert.Contains(t, msg, "not lowered[E4005]: no emission rule for coalesce")
	assert.Contains(t, msg, " --> 2:5")
	assert.Contains(t, msg, " |     ^")
	assert.Contains(t, msg, "while emitting M")
}

func TestFormatter(t *testing.T) {
	f := NewFormatter(false)
	err := Newf(ErrDanglingLabel, E4003, SourceLocation{Filename: "m.yaml", Line: 4, Column: 1}, "label %q never placed", "done")
	out := f.Format(err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, lines[0], `error[E4003]: dangling label: label "done" never placed`)
	assert.Equal(t, lines[1], "  --> m.yaml:4:1")

	plain := f.Format(errors.New("plain"))
	assert.Equal(t, plain, "error: plain\n")

	all := f.FormatAll([]error{err, errors.New("second")})
	assert.Contains(t, all, "[1/2] error[E4003]")
	assert.Contains(t, all, "[2/2] error: second")
}
