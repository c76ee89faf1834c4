package il

import (
	"bytes"
	"fmt"
)

// Encode writes the body's instruction stream as little-endian bytes. The
// body must be resolved so branch operands hold offsets.
func Encode(b *Body) ([]byte, error) {
	if !b.resolved {
		return nil, fmt.Errorf("il: cannot encode unresolved body %s", b.name)
	}
	var buf bytes.Buffer
	buf.Grow(b.CodeSize())
	for _, instr := range b.instructions {
		buf.WriteByte(byte(instr.Opcode))
		buf.Write(instr.Operands)
	}
	return buf.Bytes(), nil
}
