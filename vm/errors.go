package vm

import (
	"errors"
	"fmt"
)

var (
	ErrOverflow          = errors.New("arithmetic overflow")
	ErrDivideByZero      = errors.New("divide by zero")
	ErrNullReference     = errors.New("null reference")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrStackOverflow     = errors.New("call depth exceeded")
	ErrInvalidProgram    = errors.New("invalid program")
	ErrUnresolvedMethod  = errors.New("unresolved method")
	ErrUnsupportedOpcode = errors.New("unsupported opcode")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidProgram, fmt.Sprintf(format, args...))
}

// Exception is the error returned when a body executes throw.
type Exception struct {
	Value Value
}

func (e *Exception) Error() string {
	return "exception: " + e.Value.String()
}

// RuntimeError locates a failure at an instruction of a method body.
type RuntimeError struct {
	Method string
	Offset int
	Opcode string
	Err    error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s at IL_%04x (%s): %v", e.Method, e.Offset, e.Opcode, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}
