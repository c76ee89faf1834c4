package vm

import (
	"testing"

	"github.com/deepnoodle-ai/wonton/assert"

	"github.com/deepnoodle-ai/ilemit/bound"
	"github.com/deepnoodle-ai/ilemit/emit"
	"github.com/deepnoodle-ai/ilemit/il"
	"github.com/deepnoodle-ai/ilemit/operator"
	"github.com/deepnoodle-ai/ilemit/types"
)

var (
	calcType = &bound.Type{Name: "Calc", Namespace: "Demo"}
	hostType = &bound.Type{Name: "Host", Namespace: "Demo"}
)

func param(name string, kind types.Kind) *bound.Parameter {
	return &bound.Parameter{Name: name, ParamType: kind}
}

func method(name string, ret types.Kind, params []*bound.Parameter, body *bound.Block) *bound.Method {
	return &bound.Method{Name: name, Owner: calcType, Static: true, ReturnType: ret, Params: params, Body: body}
}

func stmts(s ...bound.Statement) *bound.Block {
	return &bound.Block{Statements: s}
}

func ref(p *bound.Parameter) bound.Expression { return &bound.ParameterRef{Parameter: p} }
func local(l *bound.Local) bound.Expression   { return &bound.LocalRef{Local: l} }
func ret(x bound.Expression) bound.Statement  { return &bound.Return{Value: x} }

func binary(t *testing.T, b operator.Binary, left, right bound.Expression) bound.Expression {
	t.Helper()
	x, err := bound.NewBinary(b, left, right)
	assert.Nil(t, err)
	return x
}

func assign(target, value bound.Expression) bound.Statement {
	return &bound.ExpressionStatement{Expr: &bound.Assignment{Target: target, Value: value}}
}

func compile(t *testing.T, m *bound.Method, opts ...emit.Option) *il.Body {
	t.Helper()
	body, err := emit.EmitMethod(m, opts...)
	assert.Nil(t, err)
	return body
}

func module(t *testing.T, methods ...*bound.Method) *il.Module {
	t.Helper()
	bodies := make([]*il.Body, len(methods))
	for i, m := range methods {
		bodies[i] = compile(t, m)
	}
	mod, err := il.NewModule("Demo", bodies)
	assert.Nil(t, err)
	return mod
}
