package types

import (
	"github.com/deepnoodle-ai/ilemit/errz"
	"github.com/deepnoodle-ai/ilemit/op"
)

type conversion struct {
	code op.Code
	ok   bool
}

var (
	implicitTable [Count][Count]conversion
	// explicitTable is indexed by [from][to][checked].
	explicitTable [Count][Count][2]conversion
)

func init() {
	implicit := []struct {
		from, to Kind
		code     op.Code
	}{
		{Int8, Int16, op.Conv_I2},
		{Int8, Int32, op.Conv_I4},
		{Int8, Int64, op.Conv_I8},
		{Int16, Int32, op.Conv_I4},
		{Int16, Int64, op.Conv_I8},
		{Int32, Int64, op.Conv_I8},

		{UInt8, UInt16, op.Conv_U2},
		{UInt8, UInt32, op.Conv_U4},
		{UInt8, UInt64, op.Conv_U8},
		{UInt16, UInt32, op.Conv_U4},
		{UInt16, UInt64, op.Conv_U8},
		{UInt32, UInt64, op.Conv_U8},

		{Int8, Float32, op.Conv_R4},
		{Int16, Float32, op.Conv_R4},
		{UInt8, Float32, op.Conv_R4},
		{UInt16, Float32, op.Conv_R4},
		{Int8, Float64, op.Conv_R8},
		{Int16, Float64, op.Conv_R8},
		{Int32, Float64, op.Conv_R8},
		{UInt8, Float64, op.Conv_R8},
		{UInt16, Float64, op.Conv_R8},
		{UInt32, Float64, op.Conv_R_Un},
		{Float32, Float64, op.Conv_R8},

		// signed values sign-extend to native width
		{Int32, Reference, op.Conv_I},
		{UInt32, Reference, op.Conv_U},
	}
	for _, c := range implicit {
		implicitTable[c.from][c.to] = conversion{code: c.code, ok: true}
	}

	for from := Kind(0); int(from) < Count; from++ {
		for to := Kind(0); int(to) < Count; to++ {
			if from == to {
				continue
			}
			for i, checked := range []bool{false, true} {
				if code, ok := explicitRule(from, to, checked); ok {
					explicitTable[from][to][i] = conversion{code: code, ok: true}
				}
			}
		}
	}
}

// NeedsImplicitConversion reports whether a value of type from must be
// converted to be used as type to, and the conversion is a lossless
// widening the emitter may insert on its own.
func NeedsImplicitConversion(from, to Kind) bool {
	if from == to || !from.Valid() || !to.Valid() {
		return false
	}
	return implicitTable[from][to].ok
}

// ImplicitConversionOpcode returns the opcode for a lossless widening. Pairs
// outside the implicit table are an error.
func ImplicitConversionOpcode(from, to Kind) (op.Code, error) {
	if NeedsImplicitConversion(from, to) {
		return implicitTable[from][to].code, nil
	}
	return op.Nop, errz.New(errz.ErrUnsupportedConversion, errz.E4001,
		"no implicit conversion from %s to %s", from, to)
}

// ExplicitConversionOpcode returns the single conversion opcode for a cast
// from one kind to another. When checked is set, narrowing casts select the
// overflow-checked variant. Identical kinds need no conversion and yield
// op.Nop.
func ExplicitConversionOpcode(from, to Kind, checked bool) (op.Code, error) {
	if from == to && from.Valid() {
		return op.Nop, nil
	}
	if from.Valid() && to.Valid() {
		idx := 0
		if checked {
			idx = 1
		}
		if c := explicitTable[from][to][idx]; c.ok {
			return c.code, nil
		}
	}
	return op.Nop, errz.New(errz.ErrUnsupportedConversion, errz.E4001,
		"cannot convert %s to %s", from, to)
}

// ExplicitConversion returns the full instruction sequence for a cast.
// Unsigned 32 and 64-bit sources convert to float through conv.r.un, which
// yields a double; a float32 target needs a trailing conv.r4.
func ExplicitConversion(from, to Kind, checked bool) ([]op.Code, error) {
	code, err := ExplicitConversionOpcode(from, to, checked)
	if err != nil {
		return nil, err
	}
	if from == to {
		return nil, nil
	}
	if code == op.Conv_R_Un && to == Float32 {
		return []op.Code{code, op.Conv_R4}, nil
	}
	return []op.Code{code}, nil
}

// fits reports whether every value of integral kind from is representable
// in integral kind to.
func fits(from, to Kind) bool {
	switch {
	case IsSigned(from) && IsSigned(to), IsUnsigned(from) && IsUnsigned(to):
		return Size(to) >= Size(from)
	case IsUnsigned(from) && IsSigned(to):
		return Size(to) > Size(from)
	default:
		return false
	}
}

var (
	convSigned    = [9]op.Code{1: op.Conv_I1, 2: op.Conv_I2, 4: op.Conv_I4, 8: op.Conv_I8}
	convUnsigned  = [9]op.Code{1: op.Conv_U1, 2: op.Conv_U2, 4: op.Conv_U4, 8: op.Conv_U8}
	ovfSigned     = [9]op.Code{1: op.Conv_Ovf_I1, 2: op.Conv_Ovf_I2, 4: op.Conv_Ovf_I4, 8: op.Conv_Ovf_I8}
	ovfUnsigned   = [9]op.Code{1: op.Conv_Ovf_U1, 2: op.Conv_Ovf_U2, 4: op.Conv_Ovf_U4, 8: op.Conv_Ovf_U8}
	ovfSignedUn   = [9]op.Code{1: op.Conv_Ovf_I1_Un, 2: op.Conv_Ovf_I2_Un, 4: op.Conv_Ovf_I4_Un, 8: op.Conv_Ovf_I8_Un}
	ovfUnsignedUn = [9]op.Code{1: op.Conv_Ovf_U1_Un, 2: op.Conv_Ovf_U2_Un, 4: op.Conv_Ovf_U4_Un, 8: op.Conv_Ovf_U8_Un}
)

func explicitRule(from, to Kind, checked bool) (op.Code, bool) {
	switch {
	case to == Reference:
		switch from {
		case Int32:
			return op.Conv_I, true
		case UInt32:
			return op.Conv_U, true
		}
		return op.Nop, false
	case from == Reference:
		switch to {
		case Int32:
			return op.Conv_I4, true
		case UInt32:
			return op.Conv_U4, true
		}
		return op.Nop, false
	case !IsNumeric(from) || !IsNumeric(to):
		return op.Nop, false
	case IsFloat(to):
		return toFloat(from, to), true
	}

	size := Size(to)
	if IsIntegral(from) && fits(from, to) {
		// 64-bit widening extends according to the source's signedness.
		if size == 8 {
			if IsUnsigned(from) {
				return op.Conv_U8, true
			}
			return op.Conv_I8, true
		}
		if IsSigned(to) {
			return convSigned[size], true
		}
		return convUnsigned[size], true
	}

	if !checked {
		if size == 8 && IsIntegral(from) {
			if IsUnsigned(from) {
				return op.Conv_U8, true
			}
			return op.Conv_I8, true
		}
		if IsSigned(to) {
			return convSigned[size], true
		}
		return convUnsigned[size], true
	}

	if IsUnsigned(from) {
		if IsSigned(to) {
			return ovfSignedUn[size], true
		}
		return ovfUnsignedUn[size], true
	}
	if IsSigned(to) {
		return ovfSigned[size], true
	}
	return ovfUnsigned[size], true
}

func toFloat(from, to Kind) op.Code {
	if from == UInt32 || from == UInt64 {
		return op.Conv_R_Un
	}
	if to == Float32 {
		return op.Conv_R4
	}
	return op.Conv_R8
}
