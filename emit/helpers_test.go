package emit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/ilemit/bound"
	"github.com/deepnoodle-ai/ilemit/il"
	"github.com/deepnoodle-ai/ilemit/op"
	"github.com/deepnoodle-ai/ilemit/operator"
	"github.com/deepnoodle-ai/ilemit/types"
)

var calcType = &bound.Type{Name: "Calc", Namespace: "Demo"}

func param(name string, kind types.Kind) *bound.Parameter {
	return &bound.Parameter{Name: name, ParamType: kind}
}

func staticMethod(name string, ret types.Kind, params []*bound.Parameter, stmts ...bound.Statement) *bound.Method {
	return &bound.Method{
		Name:       name,
		Owner:      calcType,
		Params:     params,
		ReturnType: ret,
		Static:     true,
		Body:       &bound.Block{Statements: stmts},
	}
}

func ref(p *bound.Parameter) *bound.ParameterRef {
	return &bound.ParameterRef{Parameter: p}
}

func local(l *bound.Local) *bound.LocalRef {
	return &bound.LocalRef{Local: l}
}

func binary(t *testing.T, b operator.Binary, left, right bound.Expression) *bound.Binary {
	t.Helper()
	x, err := bound.NewBinary(b, left, right)
	require.NoError(t, err)
	return x
}

func unary(t *testing.T, u operator.Unary, operand bound.Expression) *bound.Unary {
	t.Helper()
	x, err := bound.NewUnary(u, operand)
	require.NoError(t, err)
	return x
}

func ret(x bound.Expression) *bound.Return {
	return &bound.Return{Value: x}
}

func exprStmt(x bound.Expression) *bound.ExpressionStatement {
	return &bound.ExpressionStatement{Expr: x}
}

func assign(target, value bound.Expression) *bound.Assignment {
	return &bound.Assignment{Target: target, Value: value}
}

// emitSymbolic emits a method without the fix-up pass so branches still
// reference labels.
func emitSymbolic(t *testing.T, m *bound.Method, opts ...Option) *il.Body {
	t.Helper()
	body, err := EmitMethod(m, append(opts, WithoutFixup())...)
	require.NoError(t, err)
	return body
}

func opcodes(body *il.Body) []op.Code {
	codes := make([]op.Code, body.InstructionCount())
	for i := range codes {
		codes[i] = body.InstructionAt(i).Opcode
	}
	return codes
}
