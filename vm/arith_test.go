package vm

import (
	"errors"
	"math"
	"testing"

	"github.com/deepnoodle-ai/wonton/assert"

	"github.com/deepnoodle-ai/ilemit/op"
)

func TestConversions(t *testing.T) {
	tests := []struct {
		code    op.Code
		in      Value
		want    Value
		wantErr error
	}{
		{op.Conv_I1, Int32(200), Int32(-56), nil},
		{op.Conv_Ovf_I1, Int32(200), Void, ErrOverflow},
		{op.Conv_Ovf_I1, Int32(-128), Int32(-128), nil},
		{op.Conv_U1, Int32(-1), Int32(255), nil},
		{op.Conv_Ovf_U1, Int32(-1), Void, ErrOverflow},
		{op.Conv_Ovf_U1_Un, Int32(255), Int32(255), nil},
		{op.Conv_Ovf_I1_Un, Int32(-1), Void, ErrOverflow},
		{op.Conv_I2, Int32(40000), Int32(-25536), nil},
		{op.Conv_U2, Int32(-1), Int32(65535), nil},
		{op.Conv_I8, Int32(-1), Int64(-1), nil},
		{op.Conv_U8, Int32(-1), Int64(4294967295), nil},
		{op.Conv_Ovf_U8, Int32(-1), Void, ErrOverflow},
		{op.Conv_I4, Int64(1 << 32), Int32(0), nil},
		{op.Conv_Ovf_I4, Int64(1 << 32), Void, ErrOverflow},
		{op.Conv_Ovf_U4_Un, Int64(math.MaxUint32), Uint32(math.MaxUint32), nil},
		{op.Conv_R_Un, Int32(-1), Float(4294967295), nil},
		{op.Conv_R8, Int32(-1), Float(-1), nil},
		{op.Conv_R4, Float(0.1), Float(float64(float32(0.1))), nil},
		{op.Conv_I4, Float(-3.9), Int32(-3), nil},
		{op.Conv_U1, Float(255.5), Int32(255), nil},
		{op.Conv_Ovf_I4, Float(3e9), Void, ErrOverflow},
		{op.Conv_Ovf_I4, Float(math.NaN()), Void, ErrOverflow},
		{op.Conv_Ovf_U8, Float(-1), Void, ErrOverflow},
	}
	for _, tt := range tests {
		t.Run(op.GetInfo(tt.code).Name, func(t *testing.T) {
			c, ok := conversions[tt.code]
			assert.True(t, ok)
			got, err := convert(c, tt.in)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, got, tt.want)
		})
	}
}

func TestConversionOfReference(t *testing.T) {
	_, err := convert(conversions[op.Conv_I4], String("x"))
	assert.True(t, errors.Is(err, ErrInvalidProgram))
}

func TestInt32Arithmetic(t *testing.T) {
	tests := []struct {
		code    op.Code
		a, b    int32
		want    Value
		wantErr error
	}{
		{op.Add, math.MaxInt32, 1, Int32(math.MinInt32), nil},
		{op.Add_Ovf, math.MaxInt32, 1, Void, ErrOverflow},
		{op.Add_Ovf_Un, -1, 1, Void, ErrOverflow},
		{op.Sub_Ovf_Un, 0, 1, Void, ErrOverflow},
		{op.Mul_Ovf, 1 << 16, 1 << 16, Void, ErrOverflow},
		{op.Div, -7, 2, Int32(-3), nil},
		{op.Rem, -7, 2, Int32(-1), nil},
		{op.Div_Un, -2, 2, Uint32(math.MaxUint32 / 2), nil},
		{op.Div, 1, 0, Void, ErrDivideByZero},
		{op.Div, math.MinInt32, -1, Void, ErrOverflow},
		{op.Xor, 6, 3, Int32(5), nil},
	}
	for _, tt := range tests {
		got, err := arithmetic(tt.code, Int32(tt.a), Int32(tt.b))
		if tt.wantErr != nil {
			assert.True(t, errors.Is(err, tt.wantErr), "%s %d %d", op.GetInfo(tt.code).Name, tt.a, tt.b)
			continue
		}
		assert.Nil(t, err)
		assert.Equal(t, got, tt.want, "%s %d %d", op.GetInfo(tt.code).Name, tt.a, tt.b)
	}
}

func TestArithmeticKindMismatch(t *testing.T) {
	_, err := arithmetic(op.Add, Int32(1), Int64(1))
	assert.True(t, errors.Is(err, ErrInvalidProgram))
}

func TestShift(t *testing.T) {
	v, err := shift(op.Shr, Int32(-8), Int32(1))
	assert.Nil(t, err)
	assert.Equal(t, v, Int32(-4))
	v, err = shift(op.Shr_Un, Int32(-8), Int32(1))
	assert.Nil(t, err)
	assert.Equal(t, v, Int32(math.MaxInt32-3))
	v, err = shift(op.Shl, Int64(1), Int32(65))
	assert.Nil(t, err)
	assert.Equal(t, v, Int64(2))
}
