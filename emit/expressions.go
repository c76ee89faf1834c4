package emit

import (
	"math"

	"github.com/deepnoodle-ai/ilemit/bound"
	"github.com/deepnoodle-ai/ilemit/errz"
	"github.com/deepnoodle-ai/ilemit/il"
	"github.com/deepnoodle-ai/ilemit/op"
	"github.com/deepnoodle-ai/ilemit/operator"
	"github.com/deepnoodle-ai/ilemit/types"
)

// expression pushes the value of x onto the evaluation stack.
func (e *emitter) expression(r Region, x bound.Expression) error {
	switch x := x.(type) {
	case *bound.Literal:
		return e.literal(x)
	case *bound.LocalRef, *bound.ParameterRef, *bound.FieldAccess,
		*bound.PropertyAccess, *bound.ArrayElement:
		loc, err := e.location(r, x)
		if err != nil {
			return err
		}
		if err := loc.prepare(); err != nil {
			return err
		}
		return loc.load()
	case *bound.This:
		if e.method.Static {
			return e.errorf(errz.ErrInvariant, errz.E4010, x, "this used in static method %s", e.method.FullName())
		}
		e.emit(op.Ldarg_0)
	case *bound.ArrayLength:
		if err := e.expression(r, x.Array); err != nil {
			return err
		}
		e.emit(op.Ldlen)
		e.emit(op.Conv_I4)
	case *bound.Call:
		return e.call(r, x)
	case *bound.Unary:
		return e.unary(r, x)
	case *bound.Binary:
		return e.binary(r, x)
	case *bound.Assignment:
		return e.assignment(r, x, true)
	case *bound.Conversion:
		return e.conversion(r, x)
	default:
		return e.errorf(errz.ErrNotLowered, errz.E4005, x, "expression %s is not lowered", x.Kind())
	}
	return nil
}

// value pushes x converted to want.
func (e *emitter) value(r Region, x bound.Expression, want types.Kind) error {
	if err := e.expression(r, x); err != nil {
		return err
	}
	return e.coerce(x.Type(), want, x)
}

// coerce converts the value on top of the stack with a lossless widening.
// References widen to object without an instruction.
func (e *emitter) coerce(from, to types.Kind, node bound.Node) error {
	if from == to || (types.IsReference(from) && to == types.Object) {
		return nil
	}
	code, err := types.ImplicitConversionOpcode(from, to)
	if err != nil {
		return e.located(err, node)
	}
	e.emit(code)
	return nil
}

func (e *emitter) literal(x *bound.Literal) error {
	k := x.LitType
	switch v := x.Value.(type) {
	case nil:
		if types.IsReference(k) || k == types.Reference {
			e.emit(op.Ldnull)
			return nil
		}
	case bool:
		if k == types.Bool {
			if v {
				e.emit(op.Ldc_I4_1)
			} else {
				e.emit(op.Ldc_I4_0)
			}
			return nil
		}
	case int:
		return e.integerLiteral(x, int64(v))
	case int64:
		return e.integerLiteral(x, v)
	case uint64:
		return e.integerLiteral(x, int64(v))
	case float64:
		switch k {
		case types.Float32:
			e.emit(op.Ldc_R4, float32(v))
			return nil
		case types.Float64:
			e.emit(op.Ldc_R8, v)
			return nil
		}
	case string:
		if k == types.String {
			e.emit(op.Ldstr, e.stringToken(v))
			return nil
		}
	}
	return e.errorf(errz.ErrInvariant, errz.E4010, x, "literal %v cannot have type %s", x.Value, k)
}

func (e *emitter) integerLiteral(x *bound.Literal, n int64) error {
	switch k := x.LitType; {
	case types.Is64(k):
		e.emit(op.Ldc_I8, n)
	case types.IsIntegral(k) || k == types.Bool:
		e.loadInt(int32(n))
	case types.IsFloat(k):
		if k == types.Float32 {
			e.emit(op.Ldc_R4, float32(n))
		} else {
			e.emit(op.Ldc_R8, float64(n))
		}
	default:
		return e.errorf(errz.ErrInvariant, errz.E4010, x, "integer literal cannot have type %s", k)
	}
	return nil
}

// loadInt pushes a 32-bit constant using the shortest form.
func (e *emitter) loadInt(n int32) {
	switch {
	case n == -1:
		e.emit(op.Ldc_I4_M1)
	case n >= 0 && n <= 8:
		e.emit(op.Ldc_I4_0 + op.Code(n))
	case n >= math.MinInt8 && n <= math.MaxInt8:
		e.emit(op.Ldc_I4_S, int8(n))
	default:
		e.emit(op.Ldc_I4, n)
	}
}

// one pushes the constant one in the stack representation of k.
func (e *emitter) one(k types.Kind) {
	switch {
	case k == types.Float32:
		e.emit(op.Ldc_R4, float32(1))
	case k == types.Float64:
		e.emit(op.Ldc_R8, float64(1))
	case types.Is64(k):
		e.emit(op.Ldc_I8, int64(1))
	default:
		e.emit(op.Ldc_I4_1)
	}
}

func (e *emitter) conversion(r Region, x *bound.Conversion) error {
	if err := e.expression(r, x.Operand); err != nil {
		return err
	}
	from := x.Operand.Type()
	if !x.Explicit {
		return e.coerce(from, x.Target, x)
	}
	codes, err := types.ExplicitConversion(from, x.Target, r.Checked)
	if err != nil {
		return e.located(err, x)
	}
	e.emitAll(codes)
	return nil
}

func (e *emitter) unary(r Region, x *bound.Unary) error {
	switch {
	case x.Op.IsIncrement() || x.Op.IsDecrement():
		return e.increment(r, x, true)
	case x.Op == operator.Conversion:
		return e.conversion(r, &bound.Conversion{
			Operand:  x.Operand,
			Target:   x.ResultType,
			Explicit: true,
			Position: x.Position,
		})
	}
	k := x.Operand.Type()
	lowering, err := operator.UnaryOpcodeFor(x.Op, k, r.Checked)
	if err != nil {
		return e.located(err, x)
	}
	if err := e.expression(r, x.Operand); err != nil {
		return err
	}
	e.emitAll(lowering.Opcodes())
	if x.Op.IsLogical() || x.Op == operator.Identity {
		return nil
	}
	return e.narrow(x.ResultType, r.Checked && x.Op == operator.Negation, x)
}

// narrow truncates a small integer computed on the 32-bit stack back to its
// declared kind. A checked narrowing traps on values outside the kind.
func (e *emitter) narrow(k types.Kind, checked bool, x bound.Node) error {
	stack := types.StackKind(k)
	if stack == k || !types.IsIntegral(k) {
		return nil
	}
	code, err := types.ExplicitConversionOpcode(stack, k, checked)
	if err != nil {
		return e.located(err, x)
	}
	e.emit(code)
	return nil
}

// binary evaluates the left operand, then the right, each converted to the
// operation's operand type, and emits the operator's lowering. Logical
// operators expand to control flow.
func (e *emitter) binary(r Region, x *bound.Binary) error {
	lt, rt := x.Left.Type(), x.Right.Type()
	result, err := operator.ResultType(x.Op, lt, rt)
	if err != nil {
		return e.located(err, x)
	}
	if result != x.ResultType {
		return e.errorf(errz.ErrUnresolvedOperation, errz.E4002, x,
			"operator %s on %s and %s yields %s, not %s", x.Op.Symbol(), lt, rt, result, x.ResultType)
	}
	switch x.Op {
	case operator.LogicalAnd:
		return e.shortCircuit(r, x, op.Brfalse, op.Ldc_I4_0)
	case operator.LogicalOr:
		return e.shortCircuit(r, x, op.Brtrue, op.Ldc_I4_1)
	}

	operand := operator.OperandType(x.Op, lt, rt)
	if pointerArithmetic(x.Op, operand) && !r.Unsafe {
		return e.errorf(errz.ErrInvariant, errz.E4011, x,
			"pointer arithmetic on %s requires an unsafe context", operand)
	}
	lowering, err := operator.OpcodeFor(x.Op, operand, r.Checked)
	if err != nil {
		return e.located(err, x)
	}
	if err := e.value(r, x.Left, operand); err != nil {
		return err
	}
	rightType := operand
	if x.Op.IsShift() {
		rightType = types.StackKind(rt)
	} else if types.IsPointer(operand) && types.IsIntegral(rt) {
		rightType = rt
	}
	if err := e.value(r, x.Right, rightType); err != nil {
		return err
	}
	e.emitAll(lowering.Opcodes())
	if x.Op.IsComparison() {
		return nil
	}
	return e.narrow(result, r.Checked && x.Op.IsArithmetic(), x)
}

// shortCircuit lowers && and ||:
//
//	left
//	brfalse short   (brtrue for ||)
//	right
//	br end
//	short: ldc.i4.0 (ldc.i4.1 for ||)
//	end:
func (e *emitter) shortCircuit(r Region, x *bound.Binary, test, constant op.Code) error {
	short := e.newLabel("")
	end := e.newLabel("")
	if err := e.value(r, x.Left, types.Bool); err != nil {
		return err
	}
	e.branch(test, short)
	if err := e.value(r, x.Right, types.Bool); err != nil {
		return err
	}
	e.branch(op.Br, end)
	e.placeLabel(short)
	e.emit(constant)
	e.placeLabel(end)
	return nil
}

// call pushes the receiver, then each argument converted to its
// parameter's type, or its address for by-reference parameters.
func (e *emitter) call(r Region, x *bound.Call) error {
	m := x.Method
	if len(x.Args) != len(m.Params) {
		return e.errorf(errz.ErrInvariant, errz.E4010, x,
			"%s takes %d arguments, got %d", m.FullName(), len(m.Params), len(x.Args))
	}
	pop := len(x.Args)
	if !m.Static {
		if x.Receiver == nil {
			return e.errorf(errz.ErrInvariant, errz.E4010, x, "instance method %s called without a receiver", m.FullName())
		}
		if err := e.expression(r, x.Receiver); err != nil {
			return err
		}
		pop++
	}
	for i, arg := range x.Args {
		param := m.Params[i]
		if param.RefKind.ByRef() {
			if err := e.address(r, arg); err != nil {
				return err
			}
			continue
		}
		if err := e.value(r, arg, param.ParamType); err != nil {
			return err
		}
	}
	e.invoke(m, pop)
	return nil
}

// invoke emits call or callvirt with the method's stack effect.
func (e *emitter) invoke(m *bound.Method, pop int) {
	code := op.Call
	if m.Virtual && !m.Static {
		code = op.Callvirt
	}
	push := 0
	if m.ReturnType != types.None {
		push = 1
	}
	e.append(il.Make(code, e.methodToken(m)), pop, push)
}
