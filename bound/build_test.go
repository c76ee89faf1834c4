package bound

import (
	"errors"
	"testing"

	"github.com/deepnoodle-ai/ilemit/errz"
	"github.com/deepnoodle-ai/ilemit/operator"
	"github.com/deepnoodle-ai/ilemit/types"
	"github.com/deepnoodle-ai/wonton/assert"
)

func TestNewBinaryResolvesType(t *testing.T) {
	small := &Local{Name: "s", LocalType: types.Int8}
	b, err := NewBinary(operator.Addition, &LocalRef{Local: small}, NewInt(types.Int32, 3))
	assert.Nil(t, err)
	assert.Equal(t, b.Type(), types.Int32)

	cmp, err := NewBinary(operator.LessThan, NewUint(types.UInt32, 1), NewUint(types.UInt32, 2))
	assert.Nil(t, err)
	assert.Equal(t, cmp.Type(), types.Bool)
}

func TestNewBinaryRejectsMixedSign(t *testing.T) {
	_, err := NewBinary(operator.Addition, NewInt(types.Int32, 1), NewUint(types.UInt32, 2))
	assert.True(t, errors.Is(err, errz.ErrUnresolvedOperation))
}

func TestNewUnary(t *testing.T) {
	u, err := NewUnary(operator.LogicalNegation, NewBool(true))
	assert.Nil(t, err)
	assert.Equal(t, u.Type(), types.Bool)

	_, err = NewUnary(operator.LogicalNegation, NewInt(types.Int32, 1))
	assert.NotNil(t, err)
}

func TestLiterals(t *testing.T) {
	assert.Equal(t, NewInt(types.UInt8, 7).Value, any(uint64(7)))
	assert.Equal(t, NewInt(types.Int16, -7).Value, any(int64(-7)))
	assert.Equal(t, NewString("hi").Type(), types.String)
	assert.Nil(t, NewNull(types.Object).Value)
	assert.Equal(t, NewFloat(types.Float32, 1.5).Type(), types.Float32)
}

func TestBlockHasLocals(t *testing.T) {
	assert.False(t, (&Block{}).HasLocals())
	assert.True(t, (&Block{Locals: []*Local{{Name: "x"}}}).HasLocals())
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, KindLocalDeclaration.String(), "local_declaration")
	assert.Equal(t, KindThis.String(), "this")
	assert.Equal(t, NodeKind(250).String(), "invalid")
	assert.Equal(t, ModeUnsafe.String(), "unsafe")
	assert.Equal(t, RefOut.String(), "out")
	assert.True(t, RefIn.ByRef())
	assert.False(t, RefNone.ByRef())
}
