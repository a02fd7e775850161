package grover_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qramgrover/circuit"
	"qramgrover/grover"
)

func TestCodecWidths(t *testing.T) {
	tests := []struct {
		vector []int
		want   grover.Widths
	}{
		{[]int{10, 3, 5, 1}, grover.Widths{Address: 2, Data: 4}},
		{[]int{1, 2}, grover.Widths{Address: 2, Data: 2}},
		{[]int{1, 1, 1, 1}, grover.Widths{Address: 2, Data: 1}},
		{[]int{3, 10, 1, 7, 5}, grover.Widths{Address: 3, Data: 4}},
		{[]int{1, 2, 3, 4, 5, 6, 7, 8, 9}, grover.Widths{Address: 4, Data: 4}},
		{[]int{1, 2, 3, 4, 5, 6, 7, 8}, grover.Widths{Address: 3, Data: 4}},
		{make17(21), grover.Widths{Address: 5, Data: 5}},
		// A power-of-two maximum needs one bit more than log2 of it.
		{[]int{8, 1}, grover.Widths{Address: 2, Data: 4}},
		{[]int{16, 3, 2}, grover.Widths{Address: 2, Data: 5}},
		{[]int{1, 1}, grover.Widths{Address: 2, Data: 1}},
	}

	for _, tt := range tests {
		c, err := grover.NewCodec(tt.vector)
		require.NoError(t, err, "vector %v", tt.vector)
		assert.Equal(t, tt.want, c.Widths(), "vector %v", tt.vector)
		assert.Equal(t, tt.want.Address+tt.want.Data+1, c.Widths().NumQubits())
	}
}

func make17(v int) []int {
	out := make([]int, 17)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestCodecRegisterLayout(t *testing.T) {
	w := grover.Widths{Address: 3, Data: 4}
	assert.Equal(t, []int{0, 1, 2}, w.AddressQubits())
	assert.Equal(t, []int{3, 4, 5, 6}, w.DataQubits())
	assert.Equal(t, 7, w.Ancilla())
}

func TestCodecRejectsInput(t *testing.T) {
	tests := []struct {
		name   string
		vector []int
		index  int
	}{
		{"empty", nil, -1},
		{"single", []int{5}, -1},
		{"zero", []int{3, 0, 2}, 1},
		{"negative", []int{-1, 4}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := grover.NewCodec(tt.vector)
			require.ErrorIs(t, err, grover.ErrInvalidInput)

			var ie *grover.InputError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.index, ie.Index)
		})
	}
}

func TestCodecCopiesVector(t *testing.T) {
	v := []int{10, 3, 5, 1}
	c, err := grover.NewCodec(v)
	require.NoError(t, err)
	v[0] = 99
	assert.Equal(t, 10, c.Value(0))
	assert.Equal(t, []int{10, 3, 5, 1}, c.Vector())
	assert.Equal(t, 4, c.Len())
}

func TestEncodeIsLSBFirst(t *testing.T) {
	bits, err := grover.Encode(6, 4)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, true, false}, bits)

	bits, err = grover.Encode(1, 3)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, false}, bits)

	_, err = grover.Encode(8, 3)
	assert.ErrorIs(t, err, circuit.ErrConsistency)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for n := 1; n <= 8; n++ {
		for x := uint64(0); x < 1<<uint(n); x++ {
			bits, err := grover.Encode(x, n)
			require.NoError(t, err)
			require.Len(t, bits, n)
			require.Equal(t, x, grover.Decode(bits), "x=%d n=%d", x, n)
		}
	}
}

func TestMarkedValues(t *testing.T) {
	v1, v2 := grover.MarkedValues(4)
	assert.Equal(t, uint64(0b0101), v1)
	assert.Equal(t, uint64(0b1010), v2)

	v1, v2 = grover.MarkedValues(3)
	assert.Equal(t, uint64(0b101), v1)
	assert.Equal(t, uint64(0b010), v2)

	for dw := 1; dw <= 16; dw++ {
		v1, v2 := grover.MarkedValues(dw)
		assert.Equal(t, uint64(1)<<uint(dw)-1, v1+v2, "dw=%d", dw)
		assert.NotEqual(t, v1, v2, "dw=%d", dw)
		assert.Zero(t, v1&v2, "dw=%d", dw)
	}
}
