package operator

import (
	"github.com/deepnoodle-ai/ilemit/errz"
	"github.com/deepnoodle-ai/ilemit/op"
	"github.com/deepnoodle-ai/ilemit/types"
)

// Lowering is the instruction sequence implementing an operator once its
// operands are on the stack. Identity lowers to no instructions.
type Lowering struct {
	codes [3]op.Code
	n     uint8
}

func lower(codes ...op.Code) Lowering {
	var l Lowering
	l.n = uint8(copy(l.codes[:], codes))
	return l
}

// Opcodes returns the instructions in emission order.
func (l Lowering) Opcodes() []op.Code {
	return l.codes[:l.n]
}

// Len returns the number of instructions.
func (l Lowering) Len() int {
	return int(l.n)
}

type resultEntry struct {
	kind types.Kind
	ok   bool
}

type loweringEntry struct {
	lowering Lowering
	ok       bool
}

var (
	binaryResults  [binaryKeySpace]resultEntry
	binaryLowering [2][binaryKeySpace]loweringEntry
	unaryResults   [unaryKeySpace]resultEntry
	unaryLowering  [2][unaryKeySpace]loweringEntry
)

// ResultType resolves the type produced by applying op to operands of the
// given types. Pairs the operator does not accept are an unresolved
// operation.
func ResultType(b Binary, left, right types.Kind) (types.Kind, error) {
	if int(b) < binaryCount && left.Valid() && right.Valid() {
		if e := binaryResults[BinaryKey(b, left, right)]; e.ok {
			return e.kind, nil
		}
	}
	return types.None, errz.New(errz.ErrUnresolvedOperation, errz.E4002,
		"operator %s is not defined for %s and %s", b.Symbol(), left, right)
}

// OperandType returns the type both operands are converted to before the
// operator is applied: the promoted type for arithmetic and comparisons,
// the left type for shifts, bool for logical operators.
func OperandType(b Binary, left, right types.Kind) types.Kind {
	switch {
	case b.IsShift():
		return left
	case b.IsLogical():
		return types.Bool
	default:
		return types.Promote(left, right)
	}
}

// OpcodeFor returns the instructions implementing op on operands of the
// given type (the promoted operand type, which for comparisons differs from
// the bool result). The checked flag selects overflow-checked arithmetic.
// Logical operators lower to control flow and have no entry.
func OpcodeFor(b Binary, operand types.Kind, checked bool) (Lowering, error) {
	if int(b) < binaryCount && operand.Valid() {
		if e := binaryLowering[checkedIndex(checked)][BinaryKey(b, operand, operand)]; e.ok {
			return e.lowering, nil
		}
	}
	return Lowering{}, errz.New(errz.ErrUnresolvedOperation, errz.E4002,
		"no instruction for %s on %s", b.Symbol(), operand)
}

// UnaryResultType resolves the type produced by a unary operator. The
// result of a conversion is its target type, which the operand alone does
// not determine, so Conversion has no entry.
func UnaryResultType(u Unary, operand types.Kind) (types.Kind, error) {
	if int(u) < unaryCount && operand.Valid() {
		if e := unaryResults[UnaryKey(u, operand)]; e.ok {
			return e.kind, nil
		}
	}
	return types.None, errz.New(errz.ErrUnresolvedOperation, errz.E4002,
		"operator %s is not defined for %s", u, operand)
}

// UnaryOpcodeFor returns the instructions implementing a unary operator.
// Increment and decrement lower to the add or sub applied after the
// constant one has been pushed.
func UnaryOpcodeFor(u Unary, operand types.Kind, checked bool) (Lowering, error) {
	if int(u) < unaryCount && operand.Valid() {
		if e := unaryLowering[checkedIndex(checked)][UnaryKey(u, operand)]; e.ok {
			return e.lowering, nil
		}
	}
	return Lowering{}, errz.New(errz.ErrUnresolvedOperation, errz.E4002,
		"no instruction for %s on %s", u, operand)
}

func checkedIndex(checked bool) int {
	if checked {
		return 1
	}
	return 0
}

func allKinds() []types.Kind {
	kinds := make([]types.Kind, types.Count)
	for i := range kinds {
		kinds[i] = types.Kind(i)
	}
	return kinds
}

func init() {
	kinds := allKinds()
	for b := Binary(1); int(b) < binaryCount; b++ {
		for _, l := range kinds {
			for _, r := range kinds {
				if kind, ok := binaryResult(b, l, r); ok {
					binaryResults[BinaryKey(b, l, r)] = resultEntry{kind: kind, ok: true}
				}
			}
			for c, checked := range []bool{false, true} {
				if lw, ok := binaryOpcodes(b, l, checked); ok {
					binaryLowering[c][BinaryKey(b, l, l)] = loweringEntry{lowering: lw, ok: true}
				}
			}
		}
	}
	for u := Unary(1); int(u) < unaryCount; u++ {
		for _, k := range kinds {
			if kind, ok := unaryResult(u, k); ok {
				unaryResults[UnaryKey(u, k)] = resultEntry{kind: kind, ok: true}
			}
			for c, checked := range []bool{false, true} {
				if lw, ok := unaryOpcodes(u, k, checked); ok {
					unaryLowering[c][UnaryKey(u, k)] = loweringEntry{lowering: lw, ok: true}
				}
			}
		}
	}
}

func mixedSign(l, r types.Kind) bool {
	return (types.IsSigned(l) && types.IsUnsigned(r)) || (types.IsUnsigned(l) && types.IsSigned(r))
}

func binaryResult(b Binary, l, r types.Kind) (types.Kind, bool) {
	numeric := types.IsNumeric(l) && types.IsNumeric(r) && !mixedSign(l, r)
	switch {
	case b.IsArithmetic():
		if numeric {
			return types.Promote(l, r), true
		}
		if b == Addition || b == Subtraction {
			if types.IsPointer(l) && types.IsIntegral(r) {
				return l, true
			}
			if b == Addition && types.IsIntegral(l) && types.IsPointer(r) {
				return r, true
			}
		}
	case b.IsLogical():
		if l == types.Bool && r == types.Bool {
			return types.Bool, true
		}
	case b.IsBitwise():
		if l == types.Bool && r == types.Bool {
			return types.Bool, true
		}
		if types.IsIntegral(l) && types.IsIntegral(r) && !mixedSign(l, r) {
			return types.Promote(l, r), true
		}
	case b.IsShift():
		if types.IsIntegral(l) && types.IsIntegral(r) && types.Size(r) <= 4 {
			return l, true
		}
	case b.IsEquality():
		if numeric || (l == r && l != types.None) {
			return types.Bool, true
		}
	case b.IsComparison():
		if numeric || (l == types.Reference && r == types.Reference) {
			return types.Bool, true
		}
	}
	return types.None, false
}

func binaryOpcodes(b Binary, k types.Kind, checked bool) (Lowering, bool) {
	signed := types.IsSigned(k)
	unsigned := types.IsUnsigned(k)
	float := types.IsFloat(k)
	pointer := types.IsPointer(k)
	numeric := signed || unsigned || float

	switch b {
	case Addition, Subtraction, Multiplication:
		if !numeric && !(pointer && b != Multiplication) {
			return Lowering{}, false
		}
		plain, ovf, ovfUn := arithmeticFamily(b)
		switch {
		case !checked || float:
			return lower(plain), true
		case signed:
			return lower(ovf), true
		default:
			return lower(ovfUn), true
		}
	case Division, Remainder:
		if !numeric {
			return Lowering{}, false
		}
		code := op.Div
		if b == Remainder {
			code = op.Rem
		}
		if unsigned {
			code++
		}
		return lower(code), true
	case BitwiseAnd, BitwiseOr, BitwiseXor:
		if !signed && !unsigned && k != types.Bool {
			return Lowering{}, false
		}
		switch b {
		case BitwiseAnd:
			return lower(op.And), true
		case BitwiseOr:
			return lower(op.Or), true
		default:
			return lower(op.Xor), true
		}
	case ShiftLeft:
		if signed || unsigned {
			return lower(op.Shl), true
		}
	case ShiftRight:
		if signed {
			return lower(op.Shr), true
		}
		if unsigned {
			return lower(op.Shr_Un), true
		}
	case Equality:
		if numeric || k == types.Bool || pointer || k == types.Array {
			return lower(op.Ceq), true
		}
	case Inequality:
		if numeric || k == types.Bool || pointer || k == types.Array {
			return lower(op.Ceq, op.Ldc_I4_0, op.Ceq), true
		}
	case LessThan, GreaterThan, LessThanOrEqual, GreaterThanOrEqual:
		if !numeric && k != types.Reference {
			return Lowering{}, false
		}
		return comparison(b, signed, float), true
	}
	return Lowering{}, false
}

func arithmeticFamily(b Binary) (plain, ovf, ovfUn op.Code) {
	switch b {
	case Addition:
		return op.Add, op.Add_Ovf, op.Add_Ovf_Un
	case Subtraction:
		return op.Sub, op.Sub_Ovf, op.Sub_Ovf_Un
	default:
		return op.Mul, op.Mul_Ovf, op.Mul_Ovf_Un
	}
}

// comparison lowers the relational operators. < and > map to one compare;
// <= and >= are the complement of the opposite strict compare. For floats
// the complement uses the unordered compare, so a NaN operand makes both
// <= and >= false.
func comparison(b Binary, signed, float bool) Lowering {
	ordered := signed || float
	switch b {
	case LessThan:
		if ordered {
			return lower(op.Clt)
		}
		return lower(op.Clt_Un)
	case GreaterThan:
		if ordered {
			return lower(op.Cgt)
		}
		return lower(op.Cgt_Un)
	case LessThanOrEqual:
		if signed {
			return lower(op.Cgt, op.Ldc_I4_0, op.Ceq)
		}
		return lower(op.Cgt_Un, op.Ldc_I4_0, op.Ceq)
	default:
		if signed {
			return lower(op.Clt, op.Ldc_I4_0, op.Ceq)
		}
		return lower(op.Clt_Un, op.Ldc_I4_0, op.Ceq)
	}
}

func unaryResult(u Unary, k types.Kind) (types.Kind, bool) {
	switch u {
	case Identity:
		if types.IsNumeric(k) {
			return k, true
		}
	case Negation:
		if types.IsSigned(k) || types.IsFloat(k) {
			return k, true
		}
	case LogicalNegation:
		if k == types.Bool {
			return types.Bool, true
		}
	case BitwiseNegation:
		if types.IsIntegral(k) {
			return k, true
		}
	case PreIncrement, PreDecrement, PostIncrement, PostDecrement:
		if types.IsNumeric(k) || k == types.Reference {
			return k, true
		}
	}
	return types.None, false
}

func unaryOpcodes(u Unary, k types.Kind, checked bool) (Lowering, bool) {
	if _, ok := unaryResult(u, k); !ok {
		return Lowering{}, false
	}
	switch u {
	case Identity:
		return lower(), true
	case Negation:
		return lower(op.Neg), true
	case LogicalNegation:
		return lower(op.Ldc_I4_0, op.Ceq), true
	case BitwiseNegation:
		return lower(op.Not), true
	case PreIncrement, PostIncrement:
		return binaryOpcodes(Addition, k, checked)
	case PreDecrement, PostDecrement:
		return binaryOpcodes(Subtraction, k, checked)
	}
	return Lowering{}, false
}
