package operator

import "github.com/deepnoodle-ai/ilemit/types"

// Key packs an operator and its operand types into a dense table index.
// Operand types occupy five bits each; the operator sits above them.
//
//	binary: op<<10 | left<<5 | right
//	unary:  op<<5 | operand
type Key uint32

const (
	typeBits = 5
	typeMask = 1<<typeBits - 1
)

// BinaryKey packs a binary operation.
func BinaryKey(op Binary, left, right types.Kind) Key {
	return Key(op)<<(2*typeBits) | Key(left&typeMask)<<typeBits | Key(right&typeMask)
}

// UnaryKey packs a unary operation.
func UnaryKey(op Unary, operand types.Kind) Key {
	return Key(op)<<typeBits | Key(operand&typeMask)
}

// Binary unpacks a key produced by BinaryKey.
func (k Key) Binary() (Binary, types.Kind, types.Kind) {
	return Binary(k >> (2 * typeBits)), types.Kind(k >> typeBits & typeMask), types.Kind(k & typeMask)
}

// Unary unpacks a key produced by UnaryKey.
func (k Key) Unary() (Unary, types.Kind) {
	return Unary(k >> typeBits), types.Kind(k & typeMask)
}

const (
	binaryKeySpace = binaryCount << (2 * typeBits)
	unaryKeySpace  = unaryCount << typeBits
)
