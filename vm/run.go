package vm

import (
	"context"
	"fmt"

	"github.com/deepnoodle-ai/ilemit/il"
)

// Run executes a body on a new Virtual Machine and returns the result.
func Run(ctx context.Context, body *il.Body, args []Value, options ...Option) (Value, error) {
	return New(options...).Call(ctx, body, args...)
}

// RunMethod executes the named method of a module. Calls between the
// module's methods resolve against the module unless the options supply
// another resolver.
func RunMethod(ctx context.Context, m *il.Module, name string, args []Value, options ...Option) (Value, error) {
	body, ok := m.Body(name)
	if !ok {
		return Void, fmt.Errorf("%w: %s", ErrUnresolvedMethod, name)
	}
	opts := append([]Option{WithResolver(NewModuleResolver(m))}, options...)
	return New(opts...).Call(ctx, body, args...)
}
