package types

import (
	"testing"

	"github.com/deepnoodle-ai/ilemit/op"
	"github.com/deepnoodle-ai/wonton/assert"
)

var signed = []Kind{Int8, Int16, Int32, Int64}
var unsigned = []Kind{UInt8, UInt16, UInt32, UInt64}

func TestClassify(t *testing.T) {
	tests := []struct {
		kind  Kind
		class Class
	}{
		{Bool, ClassOther},
		{Int8, ClassSigned},
		{Int64, ClassSigned},
		{UInt8, ClassUnsigned},
		{Char, ClassUnsigned},
		{Float32, ClassFloat},
		{Float64, ClassFloat},
		{Reference, ClassPointer},
		{Object, ClassPointer},
		{String, ClassPointer},
		{Array, ClassOther},
		{None, ClassOther},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, Classify(tt.kind), tt.class)
		})
	}
}

func TestPredicatesAreExclusive(t *testing.T) {
	for k := Kind(0); int(k) < Count; k++ {
		assert.False(t, IsIntegral(k) && IsFloat(k), "%s is both integral and float", k)
		assert.False(t, IsIntegral(k) && IsPointer(k), "%s is both integral and pointer", k)
		assert.Equal(t, IsNumeric(k), IsIntegral(k) || IsFloat(k))
	}
	assert.True(t, IsBoolean(Bool))
	assert.False(t, IsNumeric(Bool))
	assert.True(t, IsReference(Array))
	assert.False(t, IsReference(Reference))
}

func TestSize(t *testing.T) {
	tests := []struct {
		kind Kind
		size int
	}{
		{None, 0},
		{Bool, 1},
		{Int8, 1},
		{UInt8, 1},
		{Int16, 2},
		{UInt16, 2},
		{Int32, 4},
		{UInt32, 4},
		{Float32, 4},
		{Int64, 8},
		{UInt64, 8},
		{Float64, 8},
		{Array, 4},
		{Reference, 4},
		{Object, 4},
		{String, 4},
		{Kind(200), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, Size(tt.kind), tt.size, tt.kind.String())
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
	}{
		{"int32", Int32},
		{"int", Int32},
		{"UInt64", UInt64},
		{"ulong", UInt64},
		{"char", UInt16},
		{"double", Float64},
		{"float", Float32},
		{"void", None},
		{"string", String},
		{"ref", Reference},
		{"pointer", Reference},
	}
	for _, tt := range tests {
		k, ok := Parse(tt.name)
		assert.True(t, ok, tt.name)
		assert.Equal(t, k, tt.kind)
	}
	_, ok := Parse("decimal")
	assert.False(t, ok)
}

func TestPromoteSignedSymmetry(t *testing.T) {
	for _, a := range signed {
		for _, b := range signed {
			ab := Promote(a, b)
			assert.Equal(t, ab, Promote(b, a))
			want := a
			if Size(b) > Size(a) {
				want = b
			}
			assert.Equal(t, ab, want)
		}
	}
}

func TestPromoteUnsignedSymmetry(t *testing.T) {
	for _, a := range unsigned {
		for _, b := range unsigned {
			ab := Promote(a, b)
			assert.Equal(t, ab, Promote(b, a))
			assert.True(t, Size(ab) >= Size(a) && Size(ab) >= Size(b))
		}
	}
}

func TestPromoteRules(t *testing.T) {
	tests := []struct {
		name        string
		left, right Kind
		want        Kind
	}{
		{"int with float", Int32, Float32, Float32},
		{"float with int", Float64, Int8, Float64},
		{"unsigned with float", UInt64, Float32, Float32},
		{"float32 with float64", Float32, Float64, Float64},
		{"float64 with float32", Float64, Float32, Float64},
		{"int8 with int32", Int8, Int32, Int32},
		{"uint16 with uint8", UInt16, UInt8, UInt16},
		{"bool with bool", Bool, Bool, Bool},
		{"string with string", String, String, String},
		{"pointer with int", Reference, Int32, Reference},
		{"int with pointer", Int32, Reference, Reference},
		{"object with uint", Object, UInt32, Object},
		{"mixed sign falls back to left", Int32, UInt32, Int32},
		{"mixed sign other order", UInt8, Int64, UInt8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Promote(tt.left, tt.right), tt.want)
		})
	}
}

func TestStackKind(t *testing.T) {
	assert.Equal(t, StackKind(Int8), Int32)
	assert.Equal(t, StackKind(Bool), Int32)
	assert.Equal(t, StackKind(UInt16), UInt32)
	assert.Equal(t, StackKind(Int64), Int64)
	assert.Equal(t, StackKind(Float32), Float32)
}

func TestLoadStoreOpcodes(t *testing.T) {
	tests := []struct {
		kind           Kind
		ldelem, stelem op.Code
		ldind, stind   op.Code
	}{
		{Int8, op.Ldelem_I1, op.Stelem_I1, op.Ldind_I1, op.Stind_I1},
		{UInt8, op.Ldelem_U1, op.Stelem_I1, op.Ldind_U1, op.Stind_I1},
		{Int32, op.Ldelem_I4, op.Stelem_I4, op.Ldind_I4, op.Stind_I4},
		{UInt64, op.Ldelem_U8, op.Stelem_I8, op.Ldind_U8, op.Stind_I8},
		{Float64, op.Ldelem_R8, op.Stelem_R8, op.Ldind_R8, op.Stind_R8},
		{String, op.Ldelem_Ref, op.Stelem_Ref, op.Ldind_Ref, op.Stind_Ref},
		{Reference, op.Ldelem_I, op.Stelem_I, op.Ldind_I, op.Stind_I},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			code, ok := LoadElementOpcode(tt.kind)
			assert.True(t, ok)
			assert.Equal(t, code, tt.ldelem)
			code, _ = StoreElementOpcode(tt.kind)
			assert.Equal(t, code, tt.stelem)
			code, _ = LoadIndirectOpcode(tt.kind)
			assert.Equal(t, code, tt.ldind)
			code, _ = StoreIndirectOpcode(tt.kind)
			assert.Equal(t, code, tt.stind)
		})
	}
	_, ok := LoadElementOpcode(None)
	assert.False(t, ok)
}
