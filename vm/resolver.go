package vm

import (
	"context"
	"fmt"

	"github.com/deepnoodle-ai/ilemit/il"
	"github.com/deepnoodle-ai/ilemit/types"
)

// HostFunc implements a method outside the executing module.
type HostFunc func(ctx context.Context, args []Value) (Value, error)

// Target is the implementation a call token resolves to: either an
// emitted body or a host function.
type Target struct {
	Body     *il.Body
	Host     HostFunc
	ArgCount int
	Returns  bool
}

// Resolver maps the member name of a call token ("Demo.Calc::Add") to its
// implementation.
type Resolver interface {
	Resolve(name string) (Target, error)
}

// ModuleResolver resolves calls to the bodies of a module, with host
// functions taking precedence.
type ModuleResolver struct {
	module *il.Module
	host   map[string]Target
}

// NewModuleResolver returns a resolver over m, which may be nil when only
// host functions are needed.
func NewModuleResolver(m *il.Module) *ModuleResolver {
	return &ModuleResolver{module: m, host: map[string]Target{}}
}

// Define registers a host function under a member name.
func (r *ModuleResolver) Define(name string, argCount int, returns bool, fn HostFunc) *ModuleResolver {
	r.host[name] = Target{Host: fn, ArgCount: argCount, Returns: returns}
	return r
}

func (r *ModuleResolver) Resolve(name string) (Target, error) {
	if t, ok := r.host[name]; ok {
		return t, nil
	}
	if r.module != nil {
		if b, ok := r.module.Body(name); ok {
			return Target{Body: b, ArgCount: b.ArgCount(), Returns: b.ReturnType() != types.None}, nil
		}
	}
	return Target{}, fmt.Errorf("%w: %s", ErrUnresolvedMethod, name)
}
