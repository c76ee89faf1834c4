package op

import (
	"testing"

	"github.com/deepnoodle-ai/wonton/assert"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo(Add_Ovf_Un)
	assert.Equal(t, info.Name, "add.ovf.un")
	assert.Equal(t, info.Operand, OperandNone)
	assert.Equal(t, info.Code, Add_Ovf_Un)
	assert.Equal(t, info.Category, CategoryArithmetic)
}

func TestWireValues(t *testing.T) {
	tests := []struct {
		code  Code
		value uint8
		name  string
	}{
		{Nop, 0x00, "nop"},
		{ScopeOpen, 0x06, "scope.open"},
		{ScopeClose, 0x07, "scope.close"},
		{Ldarg_0, 0x14, "ldarg.0"},
		{Ldloc_S, 0x1A, "ldloc.s"},
		{Ldc_I4_0, 0x20, "ldc.i4.0"},
		{Ldc_I4_8, 0x28, "ldc.i4.8"},
		{Ldc_I4_M1, 0x2B, "ldc.i4.m1"},
		{Ldc_R8, 0x2F, "ldc.r8"},
		{Add, 0x30, "add"},
		{Add_Ovf, 0x31, "add.ovf"},
		{Sub_Ovf_Un, 0x36, "sub.ovf.un"},
		{Mul_Ovf, 0x39, "mul.ovf"},
		{Div_Un, 0x3D, "div.un"},
		{Rem_Un, 0x3F, "rem.un"},
		{Shr_Un, 0x42, "shr.un"},
		{Xor, 0x46, "xor"},
		{Neg, 0x48, "neg"},
		{Ceq, 0x58, "ceq"},
		{Clt_Un, 0x5D, "clt.un"},
		{Br, 0x74, "br"},
		{Ret, 0x77, "ret"},
		{Brfalse, 0x79, "brfalse"},
		{Call, 0x7C, "call"},
		{Conv_I4, 0x82, "conv.i4"},
		{Conv_Ovf_U8_Un, 0x97, "conv.ovf.u8.un"},
		{Conv_R_Un, 0xA0, "conv.r.un"},
		{Ldelem_Ref, 0xBB, "ldelem.ref"},
		{Ldind_Ref, 0xCB, "ldind.ref"},
		{Ldstr, 0xD6, "ldstr"},
		{Stloc_3, 0xDF, "stloc.3"},
		{Stelem, 0xE8, "stelem"},
		{Stind_Ref, 0xF3, "stind.ref"},
		{Stobj, 0xF8, "stobj"},
		{No_Typecheck, 0xFA, "no."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, uint8(tt.code), tt.value)
			assert.Equal(t, GetInfo(tt.code).Name, tt.name)
			assert.Equal(t, tt.code.String(), tt.name)
		})
	}
}

func TestAliases(t *testing.T) {
	assert.Equal(t, Brnull, Brfalse)
	assert.Equal(t, Brzero_S, Brfalse_S)
	assert.Equal(t, Brinst, Brtrue)
	assert.Equal(t, No_Nullcheck, No_Typecheck)
}

func TestUnknownOpcode(t *testing.T) {
	info := GetInfo(Code(0x0B))
	assert.False(t, info.Valid())
	assert.Equal(t, Code(0xFF).String(), "invalid")
}

func TestOperandSizes(t *testing.T) {
	tests := []struct {
		code Code
		size int
	}{
		{Ldc_I4_S, 2},
		{Ldc_I4, 5},
		{Ldc_I8, 9},
		{Ldc_R4, 5},
		{Ldc_R8, 9},
		{Ldloc, 3},
		{Ldloc_S, 2},
		{Br, 5},
		{Br_S, 2},
		{Call, 5},
		{ScopeOpen, 3},
		{Add, 1},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			assert.Equal(t, GetInfo(tt.code).Size(), tt.size)
		})
	}
}

func TestShortForm(t *testing.T) {
	tests := []struct {
		long  Code
		short Code
	}{
		{Br, Br_S},
		{Brtrue, Brtrue_S},
		{Brfalse, Brfalse_S},
		{Beq, Beq_S},
		{Bne_Un, Bne_Un_S},
		{Bge, Bge_S},
		{Blt, Blt_S},
		{Bgt_Un, Bgt_Un_S},
		{Ble_Un, Ble_Un_S},
		{Leave, Leave_S},
	}
	for _, tt := range tests {
		got, ok := ShortForm(tt.long)
		assert.True(t, ok)
		assert.Equal(t, got, tt.short)
		assert.Equal(t, GetInfo(got).Operand, OperandShortBranch)
	}
	_, ok := ShortForm(Add)
	assert.False(t, ok)
}

func TestLookup(t *testing.T) {
	code, ok := Lookup("conv.ovf.i4")
	assert.True(t, ok)
	assert.Equal(t, code, Conv_Ovf_I4)
	_, ok = Lookup("frobnicate")
	assert.False(t, ok)
}

func TestAllUniqueNames(t *testing.T) {
	seen := map[string]Code{}
	for _, info := range All() {
		prev, dup := seen[info.Name]
		assert.False(t, dup, "duplicate name %s for %d and %d", info.Name, prev, info.Code)
		seen[info.Name] = info.Code
	}
	assert.True(t, len(seen) > 200)
}

func TestTerminal(t *testing.T) {
	assert.True(t, GetInfo(Br).Terminal)
	assert.True(t, GetInfo(Ret).Terminal)
	assert.True(t, GetInfo(Throw).Terminal)
	assert.False(t, GetInfo(Brfalse).Terminal)
	assert.False(t, GetInfo(Call).Terminal)
}
