package types

import "github.com/deepnoodle-ai/ilemit/op"

type storageOps struct {
	ldelem, stelem op.Code
	ldind, stind   op.Code
}

var storage = [Count]storageOps{
	Bool:      {op.Ldelem_U1, op.Stelem_I1, op.Ldind_U1, op.Stind_I1},
	Int8:      {op.Ldelem_I1, op.Stelem_I1, op.Ldind_I1, op.Stind_I1},
	Int16:     {op.Ldelem_I2, op.Stelem_I2, op.Ldind_I2, op.Stind_I2},
	Int32:     {op.Ldelem_I4, op.Stelem_I4, op.Ldind_I4, op.Stind_I4},
	Int64:     {op.Ldelem_I8, op.Stelem_I8, op.Ldind_I8, op.Stind_I8},
	UInt8:     {op.Ldelem_U1, op.Stelem_I1, op.Ldind_U1, op.Stind_I1},
	UInt16:    {op.Ldelem_U2, op.Stelem_I2, op.Ldind_U2, op.Stind_I2},
	UInt32:    {op.Ldelem_U4, op.Stelem_I4, op.Ldind_U4, op.Stind_I4},
	UInt64:    {op.Ldelem_U8, op.Stelem_I8, op.Ldind_U8, op.Stind_I8},
	Float32:   {op.Ldelem_R4, op.Stelem_R4, op.Ldind_R4, op.Stind_R4},
	Float64:   {op.Ldelem_R8, op.Stelem_R8, op.Ldind_R8, op.Stind_R8},
	Array:     {op.Ldelem_Ref, op.Stelem_Ref, op.Ldind_Ref, op.Stind_Ref},
	Reference: {op.Ldelem_I, op.Stelem_I, op.Ldind_I, op.Stind_I},
	Object:    {op.Ldelem_Ref, op.Stelem_Ref, op.Ldind_Ref, op.Stind_Ref},
	String:    {op.Ldelem_Ref, op.Stelem_Ref, op.Ldind_Ref, op.Stind_Ref},
}

func storageFor(k Kind) (storageOps, bool) {
	if k == None || !k.Valid() {
		return storageOps{}, false
	}
	return storage[k], true
}

// LoadElementOpcode returns the ldelem variant for an array of k.
func LoadElementOpcode(k Kind) (op.Code, bool) {
	s, ok := storageFor(k)
	return s.ldelem, ok
}

// StoreElementOpcode returns the stelem variant for an array of k.
func StoreElementOpcode(k Kind) (op.Code, bool) {
	s, ok := storageFor(k)
	return s.stelem, ok
}

// LoadIndirectOpcode returns the ldind variant for a pointer to k.
func LoadIndirectOpcode(k Kind) (op.Code, bool) {
	s, ok := storageFor(k)
	return s.ldind, ok
}

// StoreIndirectOpcode returns the stind variant for a pointer to k.
func StoreIndirectOpcode(k Kind) (op.Code, bool) {
	s, ok := storageFor(k)
	return s.stind, ok
}
