package grover

import (
	"qramgrover/circuit"
)

// WriteMode selects how the QRAM writes a value's one bits.
type WriteMode int

const (
	// FanOut writes all one bits of a value with a single multi-target gate.
	FanOut WriteMode = iota
	// PerTarget writes each one bit with its own multi-controlled gate.
	PerTarget
)

func (m WriteMode) String() string {
	if m == PerTarget {
		return "per-target"
	}
	return "fan-out"
}

func (w Widths) validate(op string) error {
	if w.Address < minAddressWidth {
		return circuit.Mismatch(op, "minimum address width", minAddressWidth, w.Address)
	}
	if w.Data < 1 {
		return circuit.Mismatch(op, "minimum data width", 1, w.Data)
	}
	return nil
}

// QRAM returns the circuit that loads vector into the data register: for
// every index i, under the condition "address register equals i", it flips
// the data qubits where vector[i] has a one bit.
//
// The write assumes a zeroed data register and is its own inverse, so a
// search applies it once before the oracle and once after to uncompute.
func QRAM(w Widths, vector []int, mode WriteMode) (circuit.Circuit, error) {
	if err := w.validate("qram"); err != nil {
		return circuit.Circuit{}, err
	}
	if len(vector) > 1<<uint(w.Address) {
		return circuit.Circuit{}, circuit.Mismatch("qram", "address capacity", 1<<uint(w.Address), len(vector))
	}

	address := w.AddressQubits()
	data := w.DataQubits()
	controls := circuit.Controls(address...)
	b := circuit.NewBuilder(w.NumQubits())

	for index, value := range vector {
		addrBits, err := Encode(uint64(index), w.Address)
		if err != nil {
			return circuit.Circuit{}, err
		}
		if value < 0 {
			return circuit.Circuit{}, &InputError{Reason: "elements must be positive", Index: index, Value: value}
		}
		dataBits, err := Encode(uint64(value), w.Data)
		if err != nil {
			return circuit.Circuit{}, err
		}

		var targets []int
		for k, bit := range dataBits {
			if bit {
				targets = append(targets, data[k])
			}
		}
		if len(targets) == 0 {
			continue
		}

		// Anti-controls: turn "address == index" into an all-ones condition.
		zeros := zeroQubits(address, addrBits)
		b.X(zeros...)
		if mode == PerTarget {
			for _, t := range targets {
				b.MCX(controls, t)
			}
		} else {
			b.MCX(controls, targets...)
		}
		b.X(zeros...)
	}

	return b.Build(LabelQRAM)
}

// zeroQubits returns the qubits whose bit is clear.
func zeroQubits(qubits []int, bits []bool) []int {
	var out []int
	for k, bit := range bits {
		if !bit {
			out = append(out, qubits[k])
		}
	}
	return out
}
