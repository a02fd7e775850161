package grover

import (
	"qramgrover/circuit"
)

// Oracle returns the circuit that flips the ancilla for every basis state
// whose data register holds one of the two alternating values. With the
// ancilla prepared in |−⟩ the flip shows up as a −1 phase on those states.
//
// Each pattern is matched by anti-controlling one parity class of data bits
// (even positions first, then odd) and controlling the ancilla flip on the
// whole data register.
func Oracle(w Widths) (circuit.Circuit, error) {
	if err := w.validate("oracle"); err != nil {
		return circuit.Circuit{}, err
	}

	data := w.DataQubits()
	controls := circuit.Controls(data...)
	b := circuit.NewBuilder(w.NumQubits())

	for parity := range 2 {
		var flips []int
		for k, q := range data {
			if k%2 == parity {
				flips = append(flips, q)
			}
		}
		b.X(flips...)
		b.MCX(controls, w.Ancilla())
		b.X(flips...)
	}

	return b.Build(LabelOracle)
}
