package vm

import (
	"math"
	"math/bits"

	"github.com/deepnoodle-ai/ilemit/op"
	"github.com/deepnoodle-ai/ilemit/types"
)

func arithmetic(code op.Code, a, b Value) (Value, error) {
	a, b = zeroed(a, b)
	if a.kind != b.kind {
		return Void, invalidf("%s on %s and %s", op.GetInfo(code).Name, a.kind, b.kind)
	}
	switch a.kind {
	case KindFloat:
		return floatArithmetic(code, a.f, b.f)
	case KindInt32:
		return int32Arithmetic(code, int32(a.Int()), int32(b.Int()))
	case KindInt64:
		return int64Arithmetic(code, a.Int(), b.Int())
	}
	return Void, invalidf("%s on %s", op.GetInfo(code).Name, a.kind)
}

// zeroed gives never-written storage the zero value of the operand it is
// combined with.
func zeroed(a, b Value) (Value, Value) {
	switch {
	case a.kind == KindVoid && b.kind != KindVoid:
		a = Value{kind: b.kind}
	case b.kind == KindVoid && a.kind != KindVoid:
		b = Value{kind: a.kind}
	}
	return a, b
}

func floatArithmetic(code op.Code, a, b float64) (Value, error) {
	switch code {
	case op.Add, op.Add_Ovf, op.Add_Ovf_Un:
		return Float(a + b), nil
	case op.Sub, op.Sub_Ovf, op.Sub_Ovf_Un:
		return Float(a - b), nil
	case op.Mul, op.Mul_Ovf, op.Mul_Ovf_Un:
		return Float(a * b), nil
	case op.Div:
		return Float(a / b), nil
	case op.Rem:
		return Float(math.Mod(a, b)), nil
	}
	return Void, invalidf("%s on float operands", op.GetInfo(code).Name)
}

func int32Arithmetic(code op.Code, a, b int32) (Value, error) {
	ua, ub := uint32(a), uint32(b)
	wide := func(n int64) (Value, error) {
		if n < math.MinInt32 || n > math.MaxInt32 {
			return Void, ErrOverflow
		}
		return Int32(int32(n)), nil
	}
	wideUn := func(n uint64) (Value, error) {
		if n > math.MaxUint32 {
			return Void, ErrOverflow
		}
		return Uint32(uint32(n)), nil
	}
	switch code {
	case op.Add:
		return Int32(a + b), nil
	case op.Add_Ovf:
		return wide(int64(a) + int64(b))
	case op.Add_Ovf_Un:
		return wideUn(uint64(ua) + uint64(ub))
	case op.Sub:
		return Int32(a - b), nil
	case op.Sub_Ovf:
		return wide(int64(a) - int64(b))
	case op.Sub_Ovf_Un:
		if ua < ub {
			return Void, ErrOverflow
		}
		return Uint32(ua - ub), nil
	case op.Mul:
		return Int32(a * b), nil
	case op.Mul_Ovf:
		return wide(int64(a) * int64(b))
	case op.Mul_Ovf_Un:
		return wideUn(uint64(ua) * uint64(ub))
	case op.Div, op.Rem:
		if b == 0 {
			return Void, ErrDivideByZero
		}
		if a == math.MinInt32 && b == -1 {
			return Void, ErrOverflow
		}
		if code == op.Div {
			return Int32(a / b), nil
		}
		return Int32(a % b), nil
	case op.Div_Un, op.Rem_Un:
		if ub == 0 {
			return Void, ErrDivideByZero
		}
		if code == op.Div_Un {
			return Uint32(ua / ub), nil
		}
		return Uint32(ua % ub), nil
	case op.And:
		return Int32(a & b), nil
	case op.Or:
		return Int32(a | b), nil
	case op.Xor:
		return Int32(a ^ b), nil
	}
	return Void, invalidf("%s on int32 operands", op.GetInfo(code).Name)
}

func int64Arithmetic(code op.Code, a, b int64) (Value, error) {
	ua, ub := uint64(a), uint64(b)
	switch code {
	case op.Add:
		return Int64(a + b), nil
	case op.Add_Ovf:
		c := a + b
		if (a^c)&(b^c) < 0 {
			return Void, ErrOverflow
		}
		return Int64(c), nil
	case op.Add_Ovf_Un:
		c, carry := bits.Add64(ua, ub, 0)
		if carry != 0 {
			return Void, ErrOverflow
		}
		return Uint64(c), nil
	case op.Sub:
		return Int64(a - b), nil
	case op.Sub_Ovf:
		c := a - b
		if (a^b)&(a^c) < 0 {
			return Void, ErrOverflow
		}
		return Int64(c), nil
	case op.Sub_Ovf_Un:
		c, borrow := bits.Sub64(ua, ub, 0)
		if borrow != 0 {
			return Void, ErrOverflow
		}
		return Uint64(c), nil
	case op.Mul:
		return Int64(a * b), nil
	case op.Mul_Ovf:
		if a == 0 || b == 0 {
			return Int64(0), nil
		}
		c := a * b
		if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
			return Void, ErrOverflow
		}
		return Int64(c), nil
	case op.Mul_Ovf_Un:
		hi, lo := bits.Mul64(ua, ub)
		if hi != 0 {
			return Void, ErrOverflow
		}
		return Uint64(lo), nil
	case op.Div, op.Rem:
		if b == 0 {
			return Void, ErrDivideByZero
		}
		if a == math.MinInt64 && b == -1 {
			return Void, ErrOverflow
		}
		if code == op.Div {
			return Int64(a / b), nil
		}
		return Int64(a % b), nil
	case op.Div_Un, op.Rem_Un:
		if ub == 0 {
			return Void, ErrDivideByZero
		}
		if code == op.Div_Un {
			return Uint64(ua / ub), nil
		}
		return Uint64(ua % ub), nil
	case op.And:
		return Int64(a & b), nil
	case op.Or:
		return Int64(a | b), nil
	case op.Xor:
		return Int64(a ^ b), nil
	}
	return Void, invalidf("%s on int64 operands", op.GetInfo(code).Name)
}

func shift(code op.Code, v, amount Value) (Value, error) {
	if amount.kind != KindInt32 {
		return Void, invalidf("shift amount is %s", amount.kind)
	}
	n := uint(amount.Uint())
	switch v.kind {
	case KindInt32:
		n &= 31
		switch code {
		case op.Shl:
			return Int32(int32(v.Int()) << n), nil
		case op.Shr:
			return Int32(int32(v.Int()) >> n), nil
		default:
			return Uint32(uint32(v.Uint()) >> n), nil
		}
	case KindInt64:
		n &= 63
		switch code {
		case op.Shl:
			return Int64(v.Int() << n), nil
		case op.Shr:
			return Int64(v.Int() >> n), nil
		default:
			return Uint64(v.Uint() >> n), nil
		}
	}
	return Void, invalidf("shift of %s", v.kind)
}

func negate(v Value) (Value, error) {
	switch v.kind {
	case KindInt32:
		return Int32(-int32(v.Int())), nil
	case KindInt64:
		return Int64(-v.Int()), nil
	case KindFloat:
		return Float(-v.f), nil
	}
	return Void, invalidf("neg on %s", v.kind)
}

func complement(v Value) (Value, error) {
	switch v.kind {
	case KindInt32:
		return Int32(^int32(v.Int())), nil
	case KindInt64:
		return Int64(^v.Int()), nil
	}
	return Void, invalidf("not on %s", v.kind)
}

// compare evaluates ceq, cgt, clt and their unsigned/unordered forms.
func compare(code op.Code, a, b Value) (bool, error) {
	a, b = zeroed(a, b)
	if a.kind != b.kind {
		return false, invalidf("%s on %s and %s", op.GetInfo(code).Name, a.kind, b.kind)
	}
	switch a.kind {
	case KindFloat:
		x, y := a.f, b.f
		unordered := math.IsNaN(x) || math.IsNaN(y)
		switch code {
		case op.Ceq:
			return x == y, nil
		case op.Cgt:
			return x > y, nil
		case op.Clt:
			return x < y, nil
		case op.Cgt_Un:
			return unordered || x > y, nil
		case op.Clt_Un:
			return unordered || x < y, nil
		}
	case KindInt32, KindInt64:
		switch code {
		case op.Ceq:
			return a.bits == b.bits, nil
		case op.Cgt:
			return a.Int() > b.Int(), nil
		case op.Clt:
			return a.Int() < b.Int(), nil
		case op.Cgt_Un:
			return a.Uint() > b.Uint(), nil
		case op.Clt_Un:
			return a.Uint() < b.Uint(), nil
		}
	case KindRef:
		switch code {
		case op.Ceq:
			return a.ref == b.ref, nil
		case op.Cgt_Un:
			return a.ref != b.ref, nil
		}
	}
	return false, invalidf("%s on %s operands", op.GetInfo(code).Name, a.kind)
}

// branchCondition maps a compare-and-branch opcode to the comparison it
// performs and whether the branch is taken on a false result.
func branchCondition(code op.Code) (cmp op.Code, invert bool) {
	switch code {
	case op.Beq, op.Beq_S:
		return op.Ceq, false
	case op.Bne_Un, op.Bne_Un_S:
		return op.Ceq, true
	case op.Bgt, op.Bgt_S:
		return op.Cgt, false
	case op.Bgt_Un, op.Bgt_Un_S:
		return op.Cgt_Un, false
	case op.Blt, op.Blt_S:
		return op.Clt, false
	case op.Blt_Un, op.Blt_Un_S:
		return op.Clt_Un, false
	case op.Bge, op.Bge_S:
		return op.Clt_Un, true
	case op.Bge_Un, op.Bge_Un_S:
		return op.Clt, true
	case op.Ble, op.Ble_S:
		return op.Cgt_Un, true
	default:
		return op.Cgt, true
	}
}

type conversion struct {
	to      types.Kind
	checked bool
	un      bool
}

var conversions = map[op.Code]conversion{
	op.Conv_I1:        {types.Int8, false, false},
	op.Conv_I2:        {types.Int16, false, false},
	op.Conv_I4:        {types.Int32, false, false},
	op.Conv_I8:        {types.Int64, false, false},
	op.Conv_U1:        {types.UInt8, false, false},
	op.Conv_U2:        {types.UInt16, false, false},
	op.Conv_U4:        {types.UInt32, false, false},
	op.Conv_U8:        {types.UInt64, false, true},
	op.Conv_I:         {types.Int64, false, false},
	op.Conv_U:         {types.UInt64, false, true},
	op.Conv_R4:        {types.Float32, false, false},
	op.Conv_R8:        {types.Float64, false, false},
	op.Conv_R_Un:      {types.Float64, false, true},
	op.Conv_Ovf_I1:    {types.Int8, true, false},
	op.Conv_Ovf_I2:    {types.Int16, true, false},
	op.Conv_Ovf_I4:    {types.Int32, true, false},
	op.Conv_Ovf_I8:    {types.Int64, true, false},
	op.Conv_Ovf_U1:    {types.UInt8, true, false},
	op.Conv_Ovf_U2:    {types.UInt16, true, false},
	op.Conv_Ovf_U4:    {types.UInt32, true, false},
	op.Conv_Ovf_U8:    {types.UInt64, true, false},
	op.Conv_Ovf_I:     {types.Int64, true, false},
	op.Conv_Ovf_U:     {types.UInt64, true, false},
	op.Conv_Ovf_I1_Un: {types.Int8, true, true},
	op.Conv_Ovf_I2_Un: {types.Int16, true, true},
	op.Conv_Ovf_I4_Un: {types.Int32, true, true},
	op.Conv_Ovf_I8_Un: {types.Int64, true, true},
	op.Conv_Ovf_U1_Un: {types.UInt8, true, true},
	op.Conv_Ovf_U2_Un: {types.UInt16, true, true},
	op.Conv_Ovf_U4_Un: {types.UInt32, true, true},
	op.Conv_Ovf_U8_Un: {types.UInt64, true, true},
	op.Conv_Ovf_I_Un:  {types.Int64, true, true},
	op.Conv_Ovf_U_Un:  {types.UInt64, true, true},
}

// convert applies a conversion opcode. Unchecked integer conversions
// truncate; checked ones fail with ErrOverflow when the source, read as
// signed or, for the .un forms, unsigned, is out of the target's range.
// conv.u8 zero-extends a 32-bit source.
func convert(c conversion, v Value) (Value, error) {
	if v.kind == KindRef || v.kind == KindVoid {
		return Void, invalidf("conversion of %s", v.kind)
	}
	if types.IsFloat(c.to) {
		var f float64
		switch {
		case v.kind == KindFloat:
			f = v.f
		case c.un:
			f = float64(v.Uint())
		default:
			f = float64(v.Int())
		}
		if c.to == types.Float32 {
			f = float64(float32(f))
		}
		return Float(f), nil
	}

	if v.kind == KindFloat {
		t := math.Trunc(v.f)
		lo, hi := intRange(c.to)
		if math.IsNaN(t) || t < lo || t >= hi {
			if c.checked {
				return Void, ErrOverflow
			}
			return truncate(c.to, 0), nil
		}
		if t < 0 {
			return truncate(c.to, uint64(int64(t))), nil
		}
		return truncate(c.to, uint64(t)), nil
	}

	if c.checked {
		fits := fitsSigned(c.to, v.Int())
		if c.un {
			fits = fitsUnsigned(c.to, v.Uint())
		}
		if !fits {
			return Void, ErrOverflow
		}
	}
	if c.un {
		return truncate(c.to, v.Uint()), nil
	}
	return truncate(c.to, uint64(v.Int())), nil
}

func fitsSigned(k types.Kind, n int64) bool {
	if types.IsUnsigned(k) {
		return n >= 0 && (types.Size(k) == 8 || uint64(n) < 1<<(types.Size(k)*8))
	}
	size := types.Size(k) * 8
	if size == 64 {
		return true
	}
	return n >= -(1<<(size-1)) && n < 1<<(size-1)
}

func fitsUnsigned(k types.Kind, u uint64) bool {
	size := types.Size(k) * 8
	if types.IsSigned(k) {
		return u < 1<<(size-1)
	}
	return size == 64 || u < 1<<size
}
