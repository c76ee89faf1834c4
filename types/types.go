// Package types is the type lattice consulted by the emitter: the primitive
// and reference type categories, their classification, sizes, binary
// promotion and the implicit and explicit conversion tables.
package types

import "strings"

// Kind is a type category. The zero Kind is void.
type Kind uint8

const (
	None Kind = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	UInt8
	UInt16
	UInt32
	UInt64
	Float32
	Float64
	Array
	Reference
	Object
	String

	// Char is a UTF-16 code unit.
	Char = UInt16
)

// Count is the number of kinds. Kind values fit in five bits.
const Count = int(String) + 1

var kindNames = [Count]string{
	None:      "void",
	Bool:      "bool",
	Int8:      "int8",
	Int16:     "int16",
	Int32:     "int32",
	Int64:     "int64",
	UInt8:     "uint8",
	UInt16:    "uint16",
	UInt32:    "uint32",
	UInt64:    "uint64",
	Float32:   "float32",
	Float64:   "float64",
	Array:     "array",
	Reference: "ref",
	Object:    "object",
	String:    "string",
}

var kindAliases = map[string]Kind{
	"":        None,
	"none":    None,
	"char":    Char,
	"sbyte":   Int8,
	"byte":    UInt8,
	"short":   Int16,
	"ushort":  UInt16,
	"int":     Int32,
	"uint":    UInt32,
	"long":    Int64,
	"ulong":   UInt64,
	"float":   Float32,
	"double":  Float64,
	"ptr":     Reference,
	"pointer": Reference,
}

func (k Kind) String() string {
	if int(k) < Count {
		return kindNames[k]
	}
	return "invalid"
}

// Parse returns the kind with the given name. Both the canonical names and
// the common source-language spellings ("int", "ulong", "double") are
// accepted.
func Parse(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	k, ok := kindAliases[name]
	return k, ok
}

// Valid reports whether k is a declared kind.
func (k Kind) Valid() bool {
	return int(k) < Count
}

// Class is the coarse classification of a kind.
type Class uint8

const (
	ClassOther Class = iota
	ClassSigned
	ClassUnsigned
	ClassFloat
	ClassPointer
)

func (c Class) String() string {
	switch c {
	case ClassSigned:
		return "signed"
	case ClassUnsigned:
		return "unsigned"
	case ClassFloat:
		return "float"
	case ClassPointer:
		return "pointer"
	default:
		return "other"
	}
}

// Classify returns the classification of k.
func Classify(k Kind) Class {
	switch {
	case IsSigned(k):
		return ClassSigned
	case IsUnsigned(k):
		return ClassUnsigned
	case IsFloat(k):
		return ClassFloat
	case IsPointer(k):
		return ClassPointer
	default:
		return ClassOther
	}
}

// IsSigned reports whether k is a signed integer.
func IsSigned(k Kind) bool {
	return k >= Int8 && k <= Int64
}

// IsUnsigned reports whether k is an unsigned integer.
func IsUnsigned(k Kind) bool {
	return k >= UInt8 && k <= UInt64
}

// IsFloat reports whether k is a floating point type.
func IsFloat(k Kind) bool {
	return k == Float32 || k == Float64
}

// IsIntegral reports whether k is a signed or unsigned integer.
func IsIntegral(k Kind) bool {
	return IsSigned(k) || IsUnsigned(k)
}

// IsNumeric reports whether k is integral or floating point.
func IsNumeric(k Kind) bool {
	return IsIntegral(k) || IsFloat(k)
}

// IsBoolean reports whether k is bool.
func IsBoolean(k Kind) bool {
	return k == Bool
}

// IsPointer reports whether k takes part in pointer arithmetic.
func IsPointer(k Kind) bool {
	return k == Reference || k == Object || k == String
}

// IsReference reports whether values of k are object references that are
// loaded and stored with the .ref opcode forms.
func IsReference(k Kind) bool {
	return k == Array || k == Object || k == String
}

// Is64 reports whether k occupies a 64-bit evaluation stack slot.
func Is64(k Kind) bool {
	return k == Int64 || k == UInt64
}

var sizes = [Count]int{
	None:      0,
	Bool:      1,
	Int8:      1,
	Int16:     2,
	Int32:     4,
	Int64:     8,
	UInt8:     1,
	UInt16:    2,
	UInt32:    4,
	UInt64:    8,
	Float32:   4,
	Float64:   8,
	Array:     4,
	Reference: 4,
	Object:    4,
	String:    4,
}

// Size returns the size of k in bytes. References are 32 bits wide.
func Size(k Kind) int {
	if !k.Valid() {
		return 0
	}
	return sizes[k]
}

// Promote resolves the common type of a binary arithmetic or comparison
// operation. Rules apply in order:
//
//  1. integral with floating: the floating type (two floats: the wider)
//  2. signed with signed: the wider
//  3. unsigned with unsigned: the wider
//  4. identical types: that type
//  5. pointer with integral, in either order: the pointer
//  6. anything else: the left type
//
// Mixed signed and unsigned operands fall through to rule 6; the binder is
// expected to have inserted an explicit conversion.
func Promote(left, right Kind) Kind {
	switch {
	case IsFloat(left) && IsFloat(right):
		return wider(left, right)
	case IsFloat(left) && IsIntegral(right):
		return left
	case IsIntegral(left) && IsFloat(right):
		return right
	case IsSigned(left) && IsSigned(right):
		return wider(left, right)
	case IsUnsigned(left) && IsUnsigned(right):
		return wider(left, right)
	case left == right:
		return left
	case IsPointer(left) && IsIntegral(right):
		return left
	case IsIntegral(left) && IsPointer(right):
		return right
	default:
		return left
	}
}

func wider(a, b Kind) Kind {
	if Size(b) > Size(a) {
		return b
	}
	return a
}

// StackKind returns the kind a value of k has once loaded onto the
// evaluation stack. Small integers and bool widen to 32 bits.
func StackKind(k Kind) Kind {
	switch k {
	case Bool, Int8, Int16:
		return Int32
	case UInt8, UInt16:
		return UInt32
	default:
		return k
	}
}
