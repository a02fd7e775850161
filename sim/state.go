// Package sim is a state-vector simulator for the gates in package circuit.
//
// Basis state i assigns qubit q the value of bit q of i, so qubit 0 is the
// least significant bit of every basis index.
package sim

import (
	"fmt"
	"math/cmplx"
	"slices"
)

// State is a pure state of NumQubits qubits.
type State struct {
	amps      []complex128
	numQubits int
}

func newState(numQubits int) *State {
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &State{amps: amps, numQubits: numQubits}
}

// NewState returns |0…0⟩ over numQubits qubits.
func NewState(numQubits int) (*State, error) {
	if numQubits <= 0 || numQubits > MaxQubits {
		return nil, fmt.Errorf("%w: %d qubits (limit %d)", ErrStateSize, numQubits, MaxQubits)
	}
	return newState(numQubits), nil
}

// BasisState returns the computational basis state |index⟩.
func BasisState(numQubits int, index uint64) (*State, error) {
	s, err := NewState(numQubits)
	if err != nil {
		return nil, err
	}
	if index >= uint64(len(s.amps)) {
		return nil, fmt.Errorf("%w: basis index %d for %d qubits", ErrQubitRange, index, numQubits)
	}
	s.amps[0] = 0
	s.amps[index] = 1
	return s, nil
}

func (s *State) NumQubits() int { return s.numQubits }

// Dim returns the number of amplitudes, 2^NumQubits.
func (s *State) Dim() int { return len(s.amps) }

// Amplitude returns the amplitude of basis state i.
func (s *State) Amplitude(i int) complex128 { return s.amps[i] }

// Amplitudes returns a copy of the amplitude vector.
func (s *State) Amplitudes() []complex128 { return slices.Clone(s.amps) }

// Clone returns an independent copy.
func (s *State) Clone() *State {
	return &State{amps: slices.Clone(s.amps), numQubits: s.numQubits}
}

// Probability returns |amplitude|² of basis state i.
func (s *State) Probability(i int) float64 {
	a := s.amps[i]
	return real(a * cmplx.Conj(a))
}

// Norm returns the sum of all probabilities.
func (s *State) Norm() float64 {
	total := 0.0
	for i := range s.amps {
		total += s.Probability(i)
	}
	return total
}

// Overlap returns ⟨s|o⟩.
func (s *State) Overlap(o *State) (complex128, error) {
	if s.numQubits != o.numQubits {
		return 0, fmt.Errorf("%w: %d vs %d qubits", ErrQubitCount, s.numQubits, o.numQubits)
	}
	var sum complex128
	for i, a := range s.amps {
		sum += cmplx.Conj(a) * o.amps[i]
	}
	return sum, nil
}
