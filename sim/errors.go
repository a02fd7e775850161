package sim

import "errors"

var (
	// ErrStateSize is returned when a state would exceed MaxQubits or has no qubits.
	ErrStateSize = errors.New("state size out of range")
	// ErrQubitCount is returned when a circuit or state has the wrong number of qubits.
	ErrQubitCount = errors.New("qubit count mismatch")
	// ErrQubitRange is returned when a gate or measurement names a missing qubit.
	ErrQubitRange = errors.New("qubit out of range")
	// ErrShots is returned when a non-positive number of shots is requested.
	ErrShots = errors.New("shots must be positive")
)
