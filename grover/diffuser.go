package grover

import (
	"qramgrover/circuit"
)

// Diffuser returns the inversion about the mean on the address register.
// Data and ancilla qubits are left alone.
func Diffuser(w Widths) (circuit.Circuit, error) {
	if err := w.validate("diffuser"); err != nil {
		return circuit.Circuit{}, err
	}

	address := w.AddressQubits()
	last := address[len(address)-1]

	b := circuit.NewBuilder(w.NumQubits()).
		H(address...).
		X(address...).
		H(last).
		MCX(circuit.Controls(address[:len(address)-1]...), last).
		H(last).
		X(address...).
		H(address...)

	return b.Build(LabelDiffuser)
}
