// Package errz defines the errors reported while lowering a bound tree.
package errz

import (
	"bytes"
	"fmt"
	"strings"
)

// ErrorKind represents the category of an emission error. An ErrorKind is
// itself an error so callers can match with errors.Is(err, errz.ErrDanglingLabel).
type ErrorKind int

const (
	// ErrUnsupportedConversion indicates a conversion pair present in
	// neither conversion table.
	ErrUnsupportedConversion ErrorKind = iota + 1
	// ErrUnresolvedOperation indicates an operator/type combination with no
	// operator table entry.
	ErrUnresolvedOperation
	// ErrDanglingLabel indicates a label that was referenced but never
	// placed, or placed more than once.
	ErrDanglingLabel
	// ErrNotLowered indicates a bound node kind with no emission rule.
	ErrNotLowered
	// ErrInvariant indicates any other violation of the binder contract.
	ErrInvariant
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrUnsupportedConversion:
		return "unsupported conversion"
	case ErrUnresolvedOperation:
		return "unresolved operation"
	case ErrDanglingLabel:
		return "dangling label"
	case ErrNotLowered:
		return "not lowered"
	case ErrInvariant:
		return "invariant violation"
	default:
		return "error"
	}
}

func (k ErrorKind) Error() string {
	return k.String()
}

// EmitError is the error type produced by the emitter and the label fix-up
// pass. Every EmitError is fatal to the unit being emitted.
type EmitError struct {
	Kind     ErrorKind
	Code     ErrorCode
	Message  string
	Method   string
	Location SourceLocation
	Cause    error
}

// Error implements the error interface.
func (e *EmitError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Method != "" {
		fmt.Fprintf(&b, " in %s", e.Method)
	}
	if !e.Location.IsZero() {
		fmt.Fprintf(&b, " (%s)", e.Location)
	}
	return b.String()
}

// Unwrap returns the underlying cause of the error.
func (e *EmitError) Unwrap() error {
	return e.Cause
}

// Is matches the error against its kind.
func (e *EmitError) Is(target error) bool {
	kind, ok := target.(ErrorKind)
	return ok && kind == e.Kind
}

// IsFatal reports whether the error aborts emission of the unit. Every
// emission error does.
func (e *EmitError) IsFatal() bool {
	return true
}

// FriendlyErrorMessage returns a human-friendly error message with the
// source snippet when one is available.
func (e *EmitError) FriendlyErrorMessage() string {
	var msg bytes.Buffer
	if e.Code != "" {
		msg.WriteString(fmt.Sprintf("%s[%s]: %s\n", e.Kind, e.Code, e.Message))
	} else {
		msg.WriteString(fmt.Sprintf("%s: %s\n", e.Kind, e.Message))
	}
	if !e.Location.IsZero() {
		msg.WriteString(fmt.Sprintf(" --> %s\n", e.Location))
	}
	if e.Location.Source != "" {
		msg.WriteString(" | ")
		msg.WriteString(e.Location.Source)
		msg.WriteString("\n")
		if e.Location.Column > 0 {
			msg.WriteString(" | ")
			msg.WriteString(strings.Repeat(" ", e.Location.Column-1))
			msg.WriteString("^\n")
		}
	}
	if e.Method != "" {
		msg.WriteString(fmt.Sprintf(" = note: while emitting %s\n", e.Method))
	}
	return msg.String()
}

// WithCause wraps the error with a cause.
func (e *EmitError) WithCause(cause error) *EmitError {
	e.Cause = cause
	return e
}

// WithMethod records the method being emitted when the error occurred.
func (e *EmitError) WithMethod(name string) *EmitError {
	if e.Method == "" {
		e.Method = name
	}
	return e
}

// WithLocation sets the source location unless one is already present.
func (e *EmitError) WithLocation(loc SourceLocation) *EmitError {
	if e.Location.IsZero() {
		e.Location = loc
	}
	return e
}

// New creates an EmitError with a formatted message.
func New(kind ErrorKind, code ErrorCode, format string, args ...any) *EmitError {
	return &EmitError{
		Kind:    kind,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Newf creates an EmitError at the given location.
func Newf(kind ErrorKind, code ErrorCode, loc SourceLocation, format string, args ...any) *EmitError {
	return &EmitError{
		Kind:     kind,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	}
}
