// Package grover builds the quantum search that finds the entries of an
// integer vector whose bits alternate (0101…, 1010…).
//
// The circuit has three registers laid out back to back: the address register
// on qubits [0, AddressWidth), the data register on
// [AddressWidth, AddressWidth+DataWidth) and one ancilla on the last qubit.
// Values are encoded least-significant bit first, so bit k of an address or
// data value sits on the k-th qubit of its register.
package grover

import (
	"math/bits"

	"qramgrover/circuit"
)

// minAddressWidth keeps the diffuser's multi-controlled step well formed.
const minAddressWidth = 2

// Widths are the register sizes derived from an input vector.
type Widths struct {
	Address int
	Data    int
}

// NumQubits is the total qubit count: address, data and the ancilla.
func (w Widths) NumQubits() int { return w.Address + w.Data + 1 }

// AddressQubits returns the address register's qubits, bit 0 first.
func (w Widths) AddressQubits() []int { return qubitRange(0, w.Address) }

// DataQubits returns the data register's qubits, bit 0 first.
func (w Widths) DataQubits() []int { return qubitRange(w.Address, w.Data) }

// Ancilla returns the ancilla qubit.
func (w Widths) Ancilla() int { return w.Address + w.Data }

func qubitRange(start, n int) []int {
	qs := make([]int, n)
	for i := range qs {
		qs[i] = start + i
	}
	return qs
}

// Codec derives register widths from a vector and encodes integers into
// fixed-width bit sequences.
type Codec struct {
	vector []int
	widths Widths
}

// NewCodec validates vector and derives its register widths. The vector needs
// at least two elements, all positive.
func NewCodec(vector []int) (*Codec, error) {
	if len(vector) < 2 {
		return nil, &InputError{Reason: "need at least 2 elements", Index: -1, Value: len(vector)}
	}
	largest := 0
	for i, v := range vector {
		if v <= 0 {
			return nil, &InputError{Reason: "elements must be positive", Index: i, Value: v}
		}
		largest = max(largest, v)
	}

	return &Codec{
		vector: append([]int(nil), vector...),
		widths: Widths{
			Address: max(ceilLog2(len(vector)), minAddressWidth),
			Data:    bits.Len(uint(largest)),
		},
	}, nil
}

// ceilLog2 returns ceil(log2(n)) for n >= 1.
func ceilLog2(n int) int { return bits.Len(uint(n - 1)) }

func (c *Codec) Widths() Widths { return c.widths }

// Len returns the vector length.
func (c *Codec) Len() int { return len(c.vector) }

// Value returns the i-th vector element.
func (c *Codec) Value(i int) int { return c.vector[i] }

// Vector returns a copy of the input vector.
func (c *Codec) Vector() []int { return append([]int(nil), c.vector...) }

// Encode returns x as width bits, least significant first, zero padded.
func Encode(x uint64, width int) ([]bool, error) {
	if width < 0 || width > 64 || (width < 64 && x>>uint(width) != 0) {
		return nil, circuit.Mismatch("encode", "bit width", bits.Len64(x), width)
	}
	out := make([]bool, width)
	for i := range out {
		out[i] = x>>uint(i)&1 == 1
	}
	return out, nil
}

// Decode inverts Encode.
func Decode(b []bool) uint64 {
	var x uint64
	for i, bit := range b {
		if bit {
			x |= 1 << uint(i)
		}
	}
	return x
}

// MarkedValues returns the two dataWidth-bit values whose bits alternate:
// v1 has ones on the even positions, v2 is its complement.
func MarkedValues(dataWidth int) (v1, v2 uint64) {
	for i := 0; i < dataWidth; i += 2 {
		v1 |= 1 << uint(i)
	}
	v2 = (1<<uint(dataWidth) - 1) - v1
	return v1, v2
}
