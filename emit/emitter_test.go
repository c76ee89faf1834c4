package emit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/ilemit/bound"
	"github.com/deepnoodle-ai/ilemit/errz"
	"github.com/deepnoodle-ai/ilemit/il"
	"github.com/deepnoodle-ai/ilemit/internal/token"
	"github.com/deepnoodle-ai/ilemit/op"
	"github.com/deepnoodle-ai/ilemit/operator"
	"github.com/deepnoodle-ai/ilemit/types"
)

func TestIntegerWidening(t *testing.T) {
	a, b := param("a", types.Int8), param("b", types.Int32)
	sum := binary(t, operator.Addition, ref(a), ref(b))
	require.Equal(t, types.Int32, sum.ResultType)

	m := staticMethod("Add", types.Int32, []*bound.Parameter{a, b}, ret(sum))
	body := emitSymbolic(t, m)
	require.Equal(t, []op.Code{op.Ldarg_0, op.Conv_I4, op.Ldarg_1, op.Add, op.Ret}, opcodes(body))
	require.Equal(t, 2, body.MaxStack())
	require.Equal(t, 2, body.ArgCount())
}

func TestUnsignedComparison(t *testing.T) {
	tests := []struct {
		kind types.Kind
		want op.Code
	}{
		{types.UInt32, op.Clt_Un},
		{types.UInt64, op.Clt_Un},
		{types.Int32, op.Clt},
		{types.Float64, op.Clt},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			a, b := param("a", tt.kind), param("b", tt.kind)
			m := staticMethod("Less", types.Bool, []*bound.Parameter{a, b},
				ret(binary(t, operator.LessThan, ref(a), ref(b))))
			body := emitSymbolic(t, m)
			require.Equal(t, []op.Code{op.Ldarg_0, op.Ldarg_1, tt.want, op.Ret}, opcodes(body))
		})
	}
}

func TestCheckedOpcodeSelection(t *testing.T) {
	tests := []struct {
		op       operator.Binary
		kind     types.Kind
		checked  bool
		expected op.Code
	}{
		{operator.Addition, types.Int32, true, op.Add_Ovf},
		{operator.Addition, types.UInt32, true, op.Add_Ovf_Un},
		{operator.Addition, types.Int32, false, op.Add},
		{operator.Subtraction, types.Int64, true, op.Sub_Ovf},
		{operator.Subtraction, types.UInt64, true, op.Sub_Ovf_Un},
		{operator.Subtraction, types.UInt64, false, op.Sub},
		{operator.Multiplication, types.Int32, true, op.Mul_Ovf},
		{operator.Multiplication, types.UInt32, true, op.Mul_Ovf_Un},
		{operator.Multiplication, types.Int32, false, op.Mul},
		{operator.Addition, types.Float64, true, op.Add},
		{operator.Division, types.Int32, true, op.Div},
		{operator.Division, types.UInt32, true, op.Div_Un},
		{operator.Remainder, types.Int32, true, op.Rem},
		{operator.Remainder, types.UInt32, true, op.Rem_Un},
	}
	for _, tt := range tests {
		name := tt.op.String() + "/" + tt.kind.String()
		t.Run(name, func(t *testing.T) {
			a, b := param("a", tt.kind), param("b", tt.kind)
			x := binary(t, tt.op, ref(a), ref(b))
			m := staticMethod("Op", tt.kind, []*bound.Parameter{a, b}, ret(x))
			body := emitSymbolic(t, m, WithChecked(tt.checked))
			require.Equal(t, []op.Code{op.Ldarg_0, op.Ldarg_1, tt.expected, op.Ret}, opcodes(body))
		})
	}
}

func TestCheckedRegions(t *testing.T) {
	a, b := param("a", types.Int32), param("b", types.Int32)
	region := func(mode bound.CheckMode) *bound.Method {
		sum := binary(t, operator.Addition, ref(a), ref(b))
		return staticMethod("Add", types.Int32, []*bound.Parameter{a, b},
			&bound.Checked{Mode: mode, Body: &bound.Block{Statements: []bound.Statement{ret(sum)}}})
	}

	body := emitSymbolic(t, region(bound.ModeChecked))
	require.Equal(t, op.Add_Ovf, body.InstructionAt(2).Opcode)
	require.True(t, body.BlockAt(0).Checked)

	// unchecked overrides a checked default
	body = emitSymbolic(t, region(bound.ModeUnchecked), WithChecked(true))
	require.Equal(t, op.Add, body.InstructionAt(2).Opcode)
	require.True(t, body.BlockAt(0).Unchecked)

	// a method-level checked flag applies to the whole body
	m := region(bound.ModeUnsafe)
	m.Checked = true
	body = emitSymbolic(t, m)
	require.Equal(t, op.Add_Ovf, body.InstructionAt(2).Opcode)
	require.True(t, body.BlockAt(0).Unsafe)
}

func TestEmptyBlockWithLocals(t *testing.T) {
	x := &bound.Local{Name: "x", LocalType: types.Int32}
	m := staticMethod("Empty", types.None, nil,
		&bound.Checked{Mode: bound.ModeChecked, Body: &bound.Block{Locals: []*bound.Local{x}}})
	body := emitSymbolic(t, m)

	require.Equal(t, []op.Code{op.ScopeOpen, op.ScopeClose, op.Ret}, opcodes(body))
	require.Equal(t, 0, body.InstructionAt(0).Index())
	require.Equal(t, 1, body.ScopeCount())
	require.Equal(t, il.Scope{ID: 0, Start: 0, End: 1, Locals: []int{0}}, body.ScopeAt(0))

	require.Equal(t, 2, body.BlockCount())
	require.True(t, body.BlockAt(0).Checked)
	require.Equal(t, 2, body.BlockAt(0).End)
	require.False(t, body.BlockAt(1).Checked)
	require.Equal(t, il.Exit, body.BlockAt(1).Branch)
	require.Equal(t, -1, body.BlockAt(1).Next)
}

func TestBlockWithoutLocalsHasNoScope(t *testing.T) {
	m := staticMethod("Empty", types.None, nil, &bound.Block{})
	body := emitSymbolic(t, m)
	require.Equal(t, []op.Code{op.Ret}, opcodes(body))
	require.Equal(t, 0, body.ScopeCount())
}

func TestNestedScopes(t *testing.T) {
	x := &bound.Local{Name: "x", LocalType: types.Int32}
	y := &bound.Local{Name: "y", LocalType: types.Int64}
	inner := &bound.Block{
		Locals:     []*bound.Local{y},
		Statements: []bound.Statement{&bound.LocalDeclaration{Local: y, Init: bound.NewInt(types.Int64, 2)}},
	}
	m := staticMethod("Nested", types.None, nil, &bound.Block{
		Locals: []*bound.Local{x},
		Statements: []bound.Statement{
			&bound.LocalDeclaration{Local: x, Init: bound.NewInt(types.Int32, 1)},
			inner,
		},
	})
	body := emitSymbolic(t, m)
	require.Equal(t, []op.Code{
		op.ScopeOpen, op.Ldc_I4_1, op.Stloc_0,
		op.ScopeOpen, op.Ldc_I8, op.Stloc_1, op.ScopeClose,
		op.ScopeClose, op.Ret,
	}, opcodes(body))
	require.Equal(t, 0, body.InstructionAt(0).Index())
	require.Equal(t, 1, body.InstructionAt(3).Index())
	require.Equal(t, 1, body.InstructionAt(6).Index())
	require.Equal(t, 0, body.InstructionAt(7).Index())
	require.Equal(t, types.Int64, body.LocalAt(1).Kind)
}

func TestLogicalAndLayout(t *testing.T) {
	a, b := param("a", types.Bool), param("b", types.Bool)
	m := staticMethod("And", types.Bool, []*bound.Parameter{a, b},
		ret(binary(t, operator.LogicalAnd, ref(a), ref(b))))
	body := emitSymbolic(t, m)

	require.Equal(t, []op.Code{op.Ldarg_0, op.Brfalse, op.Ldarg_1, op.Br, op.Ldc_I4_0, op.Ret}, opcodes(body))
	short, end := body.InstructionAt(1).Target, body.InstructionAt(3).Target
	require.NotEqual(t, short, end)
	require.Equal(t, 4, body.LabelAt(short).Index)
	require.Equal(t, 5, body.LabelAt(end).Index)
	require.Equal(t, 1, body.MaxStack())

	resolved, err := EmitMethod(m)
	require.NoError(t, err)
	require.Equal(t, op.Brfalse_S, resolved.InstructionAt(1).Opcode)
	require.Equal(t, 3, resolved.InstructionAt(1).Offset())
	require.Equal(t, op.Br_S, resolved.InstructionAt(3).Opcode)
	require.Equal(t, 1, resolved.InstructionAt(3).Offset())
}

func TestLogicalOrLayout(t *testing.T) {
	a, b := param("a", types.Bool), param("b", types.Bool)
	m := staticMethod("Or", types.Bool, []*bound.Parameter{a, b},
		ret(binary(t, operator.LogicalOr, ref(a), ref(b))))
	body := emitSymbolic(t, m)
	require.Equal(t, []op.Code{op.Ldarg_0, op.Brtrue, op.Ldarg_1, op.Br, op.Ldc_I4_1, op.Ret}, opcodes(body))

	resolved, err := EmitMethod(m, WithShortBranches(false))
	require.NoError(t, err)
	require.Equal(t, op.Brtrue, resolved.InstructionAt(1).Opcode)
	require.Equal(t, 6, resolved.InstructionAt(1).Offset())
}

func TestComparisonComplement(t *testing.T) {
	tests := []struct {
		kind types.Kind
		want op.Code
	}{
		{types.Int32, op.Cgt},
		{types.Int64, op.Cgt},
		// unsigned and float operands use the unordered compare
		{types.UInt32, op.Cgt_Un},
		{types.Float32, op.Cgt_Un},
		{types.Float64, op.Cgt_Un},
	}
	for _, tt := range tests {
		kind := tt.kind
		t.Run(kind.String(), func(t *testing.T) {
			a, b := param("a", kind), param("b", kind)
			le := staticMethod("Le", types.Bool, []*bound.Parameter{a, b},
				ret(binary(t, operator.LessThanOrEqual, ref(a), ref(b))))
			notGt := staticMethod("NotGt", types.Bool, []*bound.Parameter{a, b},
				ret(unary(t, operator.LogicalNegation, binary(t, operator.GreaterThan, ref(a), ref(b)))))
			leBody := emitSymbolic(t, le)
			notGtBody := emitSymbolic(t, notGt)
			require.Equal(t, leBody.InstructionCount(), notGtBody.InstructionCount())
			require.Equal(t, op.Ldc_I4_0, leBody.InstructionAt(3).Opcode)
			require.Equal(t, op.Ceq, leBody.InstructionAt(4).Opcode)

			require.Equal(t, tt.want, leBody.InstructionAt(2).Opcode)
		})
	}
}

func TestInequality(t *testing.T) {
	a, b := param("a", types.Int32), param("b", types.Int32)
	m := staticMethod("Ne", types.Bool, []*bound.Parameter{a, b},
		ret(binary(t, operator.Inequality, ref(a), ref(b))))
	body := emitSymbolic(t, m)
	require.Equal(t, []op.Code{op.Ldarg_0, op.Ldarg_1, op.Ceq, op.Ldc_I4_0, op.Ceq, op.Ret}, opcodes(body))
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		name string
		lit  *bound.Literal
		want op.Code
	}{
		{"minus one", bound.NewInt(types.Int32, -1), op.Ldc_I4_M1},
		{"zero", bound.NewInt(types.Int32, 0), op.Ldc_I4_0},
		{"eight", bound.NewInt(types.Int32, 8), op.Ldc_I4_8},
		{"short", bound.NewInt(types.Int32, -100), op.Ldc_I4_S},
		{"long form", bound.NewInt(types.Int32, 1000), op.Ldc_I4},
		{"int64", bound.NewInt(types.Int64, 3), op.Ldc_I8},
		{"uint32 max", bound.NewUint(types.UInt32, 0xFFFFFFFF), op.Ldc_I4_M1},
		{"float32", bound.NewFloat(types.Float32, 1.5), op.Ldc_R4},
		{"float64", bound.NewFloat(types.Float64, 1.5), op.Ldc_R8},
		{"true", bound.NewBool(true), op.Ldc_I4_1},
		{"false", bound.NewBool(false), op.Ldc_I4_0},
		{"null", bound.NewNull(types.Object), op.Ldnull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := staticMethod("Lit", tt.lit.LitType, nil, ret(tt.lit))
			body := emitSymbolic(t, m)
			require.Equal(t, []op.Code{tt.want, op.Ret}, opcodes(body))
		})
	}
}

func TestStringLiteral(t *testing.T) {
	m := staticMethod("Greet", types.String, nil, ret(bound.NewString("hi")))
	body := emitSymbolic(t, m)
	require.Equal(t, []op.Code{op.Ldstr, op.Ret}, opcodes(body))
	require.Equal(t, uint32(0x70000001), body.InstructionAt(0).Uint32())
	require.Equal(t, "hi", body.StringAt(0))
}

func TestLocalsAndPostfixIncrement(t *testing.T) {
	x := &bound.Local{Name: "x", LocalType: types.Int32}
	y := &bound.Local{Name: "y", LocalType: types.Int32}
	m := staticMethod("Post", types.Int32, nil, &bound.Block{
		Locals: []*bound.Local{x, y},
		Statements: []bound.Statement{
			&bound.LocalDeclaration{Local: x, Init: bound.NewInt(types.Int32, 1)},
			exprStmt(assign(local(y), unary(t, operator.PostIncrement, local(x)))),
			ret(local(y)),
		},
	})
	body := emitSymbolic(t, m)
	require.Equal(t, []op.Code{
		op.ScopeOpen,
		op.Ldc_I4_1, op.Stloc_0,
		op.Ldloc_0, op.Dup, op.Ldc_I4_1, op.Add, op.Stloc_0, op.Stloc_1,
		op.Ldloc_1, op.Ret,
		op.ScopeClose,
	}, opcodes(body))
	require.Equal(t, 2, body.LocalCount())
}

func TestSmallIntegerIncrement(t *testing.T) {
	a := param("a", types.Int8)
	stmt := func() bound.Statement { return exprStmt(unary(t, operator.PreIncrement, ref(a))) }

	body := emitSymbolic(t, staticMethod("Inc", types.None, []*bound.Parameter{a}, stmt()))
	require.Equal(t, []op.Code{op.Ldarg_0, op.Ldc_I4_1, op.Add, op.Conv_I1, op.Starg_S, op.Ret}, opcodes(body))

	body = emitSymbolic(t, staticMethod("Inc", types.None, []*bound.Parameter{a}, stmt()), WithChecked(true))
	require.Equal(t, []op.Code{op.Ldarg_0, op.Ldc_I4_1, op.Add_Ovf, op.Conv_Ovf_I1, op.Starg_S, op.Ret}, opcodes(body))
}

func TestSmallIntegerNarrowing(t *testing.T) {
	a, b := param("a", types.UInt8), param("b", types.UInt8)
	add := func() *bound.Method {
		return staticMethod("Add", types.UInt8, []*bound.Parameter{a, b}, ret(binary(t, operator.Addition, ref(a), ref(b))))
	}
	body := emitSymbolic(t, add())
	require.Equal(t, []op.Code{op.Ldarg_0, op.Ldarg_1, op.Add, op.Conv_U1, op.Ret}, opcodes(body))

	body = emitSymbolic(t, add(), WithChecked(true))
	require.Equal(t, []op.Code{op.Ldarg_0, op.Ldarg_1, op.Add_Ovf_Un, op.Conv_Ovf_U1_Un, op.Ret}, opcodes(body))

	// bitwise results narrow without an overflow check
	x := param("x", types.Int16)
	body = emitSymbolic(t, staticMethod("Not", types.Int16, []*bound.Parameter{x},
		ret(unary(t, operator.BitwiseNegation, ref(x)))), WithChecked(true))
	require.Equal(t, []op.Code{op.Ldarg_0, op.Not, op.Conv_I2, op.Ret}, opcodes(body))

	// comparisons yield bool and are left alone
	body = emitSymbolic(t, staticMethod("Less", types.Bool, []*bound.Parameter{a, b},
		ret(binary(t, operator.LessThan, ref(a), ref(b)))))
	require.Equal(t, []op.Code{op.Ldarg_0, op.Ldarg_1, op.Clt_Un, op.Ret}, opcodes(body))
}

func TestBackwardGotoLabelReachable(t *testing.T) {
	n := param("n", types.Int32)
	top := &bound.Label{Name: "top"}
	check := &bound.Label{Name: "check"}
	m := staticMethod("Countdown", types.Int32, []*bound.Parameter{n},
		&bound.Goto{Label: check},
		&bound.Labeled{Label: top, Statement: exprStmt(assign(ref(n),
			binary(t, operator.Subtraction, ref(n), bound.NewInt(types.Int32, 1))))},
		&bound.Labeled{Label: check, Statement: &bound.If{
			Condition: binary(t, operator.GreaterThan, ref(n), bound.NewInt(types.Int32, 0)),
			Then:      &bound.Goto{Label: top},
		}},
		ret(ref(n)),
	)
	body := emitSymbolic(t, m)
	require.Empty(t, body.Warnings())
	for i := 0; i < body.BlockCount(); i++ {
		require.True(t, body.BlockAt(i).Reachable, "block %d", i)
	}
}

func TestArrayElementIncrement(t *testing.T) {
	arr, i := param("arr", types.Array), param("i", types.Int32)
	elem := &bound.ArrayElement{Array: ref(arr), Index: ref(i), ElementType: types.Int32}
	m := staticMethod("Bump", types.None, []*bound.Parameter{arr, i},
		exprStmt(unary(t, operator.PostIncrement, elem)))
	body := emitSymbolic(t, m)
	require.Equal(t, []op.Code{
		op.Ldarg_0, op.Ldarg_1,
		op.Stloc_0, op.Stloc_1, op.Ldloc_1, op.Ldloc_0, op.Ldloc_1, op.Ldloc_0,
		op.Ldelem_I4, op.Ldc_I4_1, op.Add, op.Stelem_I4,
		op.Ret,
	}, opcodes(body))
	require.True(t, body.LocalAt(0).Hidden)
	require.Equal(t, types.Array, body.LocalAt(1).Kind)
}

func TestFieldsAndCalls(t *testing.T) {
	typ := &bound.Type{Name: "Counter", Namespace: "Demo"}
	total := &bound.Field{Name: "total", Owner: typ, FieldType: types.Int32, Static: true}
	count := &bound.Field{Name: "count", Owner: typ, FieldType: types.Int32}
	helper := &bound.Method{Name: "Helper", Owner: typ, Static: true, ReturnType: types.Int32,
		Params: []*bound.Parameter{param("v", types.Int32)}}
	typ.Fields = []*bound.Field{total, count}

	v := param("v", types.Int8)
	static := &bound.Method{Name: "Bump", Owner: typ, Static: true, Params: []*bound.Parameter{v},
		Body: &bound.Block{Statements: []bound.Statement{
			exprStmt(assign(&bound.FieldAccess{Field: total},
				binary(t, operator.Addition, &bound.FieldAccess{Field: total}, bound.NewInt(types.Int32, 1)))),
			exprStmt(&bound.Call{Method: helper, Args: []bound.Expression{ref(v)}}),
		}}}
	body := emitSymbolic(t, static)
	require.Equal(t, []op.Code{
		op.Ldsfld, op.Ldc_I4_1, op.Add, op.Stsfld,
		op.Ldarg_0, op.Conv_I4, op.Call, op.Pop,
		op.Ret,
	}, opcodes(body))
	require.Equal(t, uint32(0x04000001), body.InstructionAt(0).Uint32())
	require.Equal(t, uint32(0x04000001), body.InstructionAt(3).Uint32())
	require.Equal(t, uint32(0x06000001), body.InstructionAt(6).Uint32())
	require.Equal(t, 2, body.MemberCount())
	require.Equal(t, "Demo.Counter::total", body.MemberAt(0).Name)

	instance := &bound.Method{Name: "Set", Owner: typ, ReturnType: types.Int32,
		Body: &bound.Block{Statements: []bound.Statement{
			ret(assign(&bound.FieldAccess{Receiver: &bound.This{}, Field: count}, bound.NewInt(types.Int32, 5))),
		}}}
	body = emitSymbolic(t, instance)
	require.Equal(t, []op.Code{op.Ldarg_0, op.Ldc_I4_5, op.Dup, op.Stloc_0, op.Stfld, op.Ldloc_0, op.Ret}, opcodes(body))
	require.True(t, body.LocalAt(0).Hidden)
	require.Equal(t, 1, body.ArgCount())
}

func TestProperties(t *testing.T) {
	typ := &bound.Type{Name: "Box", Namespace: "Demo"}
	getter := &bound.Method{Name: "get_Value", Owner: typ, ReturnType: types.Int32, Virtual: true}
	setter := &bound.Method{Name: "set_Value", Owner: typ, Params: []*bound.Parameter{param("value", types.Int32)}}
	prop := &bound.Property{Name: "Value", Owner: typ, PropertyType: types.Int32, Getter: getter, Setter: setter}

	m := &bound.Method{Name: "Double", Owner: typ, Body: &bound.Block{Statements: []bound.Statement{
		exprStmt(assign(&bound.PropertyAccess{Receiver: &bound.This{}, Property: prop},
			binary(t, operator.Multiplication,
				&bound.PropertyAccess{Receiver: &bound.This{}, Property: prop},
				bound.NewInt(types.Int32, 2)))),
	}}}
	body := emitSymbolic(t, m)
	require.Equal(t, []op.Code{
		op.Ldarg_0, op.Ldarg_0, op.Callvirt, op.Ldc_I4_2, op.Mul, op.Call, op.Ret,
	}, opcodes(body))
	require.Equal(t, 3, body.MaxStack())
}

func TestByRefParameters(t *testing.T) {
	a := &bound.Parameter{Name: "a", ParamType: types.Int32, RefKind: bound.RefRef}
	set := staticMethod("Set", types.None, []*bound.Parameter{a},
		exprStmt(assign(ref(a), bound.NewInt(types.Int32, 7))))
	body := emitSymbolic(t, set)
	require.Equal(t, []op.Code{op.Ldarg_0, op.Ldc_I4_7, op.Stind_I4, op.Ret}, opcodes(body))

	get := staticMethod("Get", types.Int32, []*bound.Parameter{a}, ret(ref(a)))
	body = emitSymbolic(t, get)
	require.Equal(t, []op.Code{op.Ldarg_0, op.Ldind_I4, op.Ret}, opcodes(body))

	x := &bound.Local{Name: "x", LocalType: types.Int32}
	caller := staticMethod("Caller", types.None, nil, &bound.Block{
		Locals:     []*bound.Local{x},
		Statements: []bound.Statement{exprStmt(&bound.Call{Method: set, Args: []bound.Expression{local(x)}})},
	})
	body = emitSymbolic(t, caller)
	require.Equal(t, []op.Code{op.ScopeOpen, op.Ldloca_S, op.Call, op.ScopeClose, op.Ret}, opcodes(body))
}

func TestPointerArithmetic(t *testing.T) {
	p, n := param("p", types.Reference), param("n", types.Int32)
	build := func() *bound.Method {
		return staticMethod("Offset", types.Reference, []*bound.Parameter{p, n},
			ret(binary(t, operator.Addition, ref(p), ref(n))))
	}

	_, err := EmitMethod(build())
	require.Error(t, err)
	var emitErr *errz.EmitError
	require.True(t, errors.As(err, &emitErr))
	require.Equal(t, errz.E4011, emitErr.Code)

	body := emitSymbolic(t, build(), WithUnsafe(true))
	require.Equal(t, []op.Code{op.Ldarg_0, op.Ldarg_1, op.Add, op.Ret}, opcodes(body))

	body = emitSymbolic(t, build(), WithUnsafe(true), WithChecked(true))
	require.Equal(t, op.Add_Ovf_Un, body.InstructionAt(2).Opcode)
}

func TestControlFlow(t *testing.T) {
	c := param("c", types.Bool)
	ifElse := staticMethod("Pick", types.Int32, []*bound.Parameter{c}, &bound.If{
		Condition: ref(c),
		Then:      ret(bound.NewInt(types.Int32, 1)),
		Else:      ret(bound.NewInt(types.Int32, 2)),
	})
	body := emitSymbolic(t, ifElse)
	require.Equal(t, []op.Code{op.Ldarg_0, op.Brfalse, op.Ldc_I4_1, op.Ret, op.Ldc_I4_2, op.Ret}, opcodes(body))
	require.Equal(t, 4, body.LabelAt(body.InstructionAt(1).Target).Index)
	require.Empty(t, body.Warnings())

	loop := staticMethod("Spin", types.None, nil, &bound.While{
		Condition: bound.NewBool(true),
		Body:      &bound.Break{},
	})
	body = emitSymbolic(t, loop)
	require.Equal(t, []op.Code{op.Br, op.Ret}, opcodes(body))
	require.Equal(t, 1, body.LabelAt(body.InstructionAt(0).Target).Index)
}

func TestWhileLoop(t *testing.T) {
	n := param("n", types.Int32)
	i := &bound.Local{Name: "i", LocalType: types.Int32}
	m := staticMethod("Count", types.Int32, []*bound.Parameter{n}, &bound.Block{
		Locals: []*bound.Local{i},
		Statements: []bound.Statement{
			&bound.LocalDeclaration{Local: i, Init: bound.NewInt(types.Int32, 0)},
			&bound.While{
				Condition: binary(t, operator.LessThan, local(i), ref(n)),
				Body:      exprStmt(unary(t, operator.PreIncrement, local(i))),
			},
			ret(local(i)),
		},
	})
	body := emitSymbolic(t, m)
	require.Equal(t, []op.Code{
		op.ScopeOpen, op.Ldc_I4_0, op.Stloc_0,
		op.Ldloc_0, op.Ldarg_0, op.Clt, op.Brfalse,
		op.Ldloc_0, op.Ldc_I4_1, op.Add, op.Stloc_0, op.Br,
		op.Ldloc_0, op.Ret, op.ScopeClose,
	}, opcodes(body))
	head := body.LabelAt(body.InstructionAt(11).Target)
	exit := body.LabelAt(body.InstructionAt(6).Target)
	require.Equal(t, 3, head.Index)
	require.Equal(t, 12, exit.Index)

	resolved, err := EmitMethod(m)
	require.NoError(t, err)
	require.Equal(t, op.Br_S, resolved.InstructionAt(11).Opcode)
	require.Less(t, resolved.InstructionAt(11).Offset(), 0)
}

func TestUnreachableWarning(t *testing.T) {
	m := staticMethod("Twice", types.Int32, nil,
		ret(bound.NewInt(types.Int32, 1)),
		&bound.Return{Value: bound.NewInt(types.Int32, 2), Position: token.Position{Line: 2, Column: 4}},
	)
	body := emitSymbolic(t, m)
	require.Equal(t, []op.Code{op.Ldc_I4_1, op.Ret, op.Ldc_I4_2, op.Ret}, opcodes(body))
	warnings := body.Warnings()
	require.Len(t, warnings, 1)
	require.Equal(t, 3, warnings[0].Location.Line)
	require.False(t, body.BlockAt(1).Reachable)
}

func TestEmitErrors(t *testing.T) {
	i32, u32, i64 := param("a", types.Int32), param("b", types.UInt32), param("c", types.Int64)
	missing := &bound.Label{Name: "nowhere"}
	twice := &bound.Label{Name: "twice"}

	tests := []struct {
		name   string
		method *bound.Method
		kind   errz.ErrorKind
		code   errz.ErrorCode
	}{
		{
			name: "unresolved operation",
			method: staticMethod("Mixed", types.Int32, []*bound.Parameter{i32, u32},
				ret(&bound.Binary{Op: operator.Addition, Left: ref(i32), Right: ref(u32), ResultType: types.Int32})),
			kind: errz.ErrUnresolvedOperation,
			code: errz.E4002,
		},
		{
			name: "unsupported conversion",
			method: staticMethod("Narrow", types.Int32, []*bound.Parameter{i64},
				ret(&bound.Conversion{Operand: ref(i64), Target: types.Int32})),
			kind: errz.ErrUnsupportedConversion,
			code: errz.E4001,
		},
		{
			name:   "no body",
			method: &bound.Method{Name: "Abstract", Owner: calcType},
			kind:   errz.ErrNotLowered,
			code:   errz.E4005,
		},
		{
			name:   "dangling label",
			method: staticMethod("Jump", types.None, nil, &bound.Goto{Label: missing}),
			kind:   errz.ErrDanglingLabel,
			code:   errz.E4003,
		},
		{
			name: "label placed twice",
			method: staticMethod("Twice", types.None, nil,
				&bound.Labeled{Label: twice}, &bound.Labeled{Label: twice}),
			kind: errz.ErrDanglingLabel,
			code: errz.E4004,
		},
		{
			name:   "break outside loop",
			method: staticMethod("Break", types.None, nil, &bound.Break{}),
			kind:   errz.ErrInvariant,
			code:   errz.E4007,
		},
		{
			name:   "continue outside loop",
			method: staticMethod("Continue", types.None, nil, &bound.Continue{}),
			kind:   errz.ErrInvariant,
			code:   errz.E4008,
		},
		{
			name:   "missing return",
			method: staticMethod("Missing", types.Int32, nil),
			kind:   errz.ErrInvariant,
			code:   errz.E4013,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EmitMethod(tt.method)
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.kind), "got %v", err)
			var emitErr *errz.EmitError
			require.True(t, errors.As(err, &emitErr))
			require.Equal(t, tt.code, emitErr.Code)
			require.Equal(t, tt.method.FullName(), emitErr.Method)
		})
	}
}

func TestErrorLocation(t *testing.T) {
	m := staticMethod("Break", types.None, nil, &bound.Break{Position: token.Position{Line: 4, Column: 2}})
	_, err := EmitMethod(m, WithFilename("calc.cs"))
	var emitErr *errz.EmitError
	require.True(t, errors.As(err, &emitErr))
	require.Equal(t, errz.SourceLocation{Filename: "calc.cs", Line: 5, Column: 3}, emitErr.Location)
	require.Equal(t, "Demo.Calc::Break", emitErr.Method)
}
