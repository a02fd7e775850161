// Package circuit holds the gate and circuit values that the search builders
// emit and the simulator executes.
//
// Qubits are indexed from 0. A register's bit k lives on the register's k-th
// qubit, so a value is always laid out least-significant bit first.
package circuit

import (
	"fmt"
	"slices"
	"strings"
)

// Kind identifies the operation a gate performs.
type Kind uint8

const (
	KindX   Kind = iota + 1 // bit flip
	KindH                   // Hadamard
	KindMCX                 // multi-controlled bit flip, one or more targets
)

func (k Kind) String() string {
	switch k {
	case KindX:
		return "X"
	case KindH:
		return "H"
	case KindMCX:
		return "MCX"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Polarity selects the control value that activates a controlled gate.
type Polarity uint8

const (
	ActiveHigh Polarity = iota // fires on |1⟩
	ActiveLow                  // fires on |0⟩
)

// Control is one control qubit of a multi-controlled gate.
type Control struct {
	Qubit    int
	Polarity Polarity
}

// On returns an active-high control on q.
func On(q int) Control { return Control{Qubit: q, Polarity: ActiveHigh} }

// Off returns an active-low control on q.
func Off(q int) Control { return Control{Qubit: q, Polarity: ActiveLow} }

// Controls turns a list of qubits into active-high controls.
func Controls(qubits ...int) []Control {
	out := make([]Control, len(qubits))
	for i, q := range qubits {
		out[i] = On(q)
	}
	return out
}

// Gate is a single immutable operation. The zero value is not a valid gate;
// use X, H or MCX.
type Gate struct {
	kind     Kind
	controls []Control
	targets  []int
}

// X returns a bit flip on q.
func X(q int) Gate { return Gate{kind: KindX, targets: []int{q}} }

// H returns a Hadamard on q.
func H(q int) Gate { return Gate{kind: KindH, targets: []int{q}} }

// MCX returns a bit flip on every target, applied when all controls are
// satisfied. Both slices are copied.
func MCX(controls []Control, targets ...int) Gate {
	return Gate{
		kind:     KindMCX,
		controls: slices.Clone(controls),
		targets:  slices.Clone(targets),
	}
}

func (g Gate) Kind() Kind { return g.kind }

// Controls returns a copy of the gate's controls.
func (g Gate) Controls() []Control { return slices.Clone(g.controls) }

// Targets returns a copy of the gate's target qubits.
func (g Gate) Targets() []int { return slices.Clone(g.targets) }

// NumControls reports how many controls the gate has.
func (g Gate) NumControls() int { return len(g.controls) }

// Target returns the first target qubit, or -1 for the zero Gate.
func (g Gate) Target() int {
	if len(g.targets) == 0 {
		return -1
	}
	return g.targets[0]
}

// Qubits returns every qubit the gate touches, controls first.
func (g Gate) Qubits() []int {
	qs := make([]int, 0, len(g.controls)+len(g.targets))
	for _, c := range g.controls {
		qs = append(qs, c.Qubit)
	}
	return append(qs, g.targets...)
}

// references reports whether the gate touches the given qubit.
func (g Gate) references(qubit int) bool {
	return slices.Contains(g.targets, qubit) || slices.ContainsFunc(g.controls, func(c Control) bool {
		return c.Qubit == qubit
	})
}

// span returns the lowest and highest qubit the gate touches.
func (g Gate) span() (lo, hi int) {
	qs := g.Qubits()
	return slices.Min(qs), slices.Max(qs)
}

// Equal reports whether two gates are the same operation.
func (g Gate) Equal(o Gate) bool {
	return g.kind == o.kind && slices.Equal(g.controls, o.controls) && slices.Equal(g.targets, o.targets)
}

// String renders the gate in the canonical form used for fingerprints,
// e.g. "X(3)", "H(0)" or "MCX(0,~1;4,5)" where ~ marks an active-low control.
func (g Gate) String() string {
	var sb strings.Builder
	sb.WriteString(g.kind.String())
	sb.WriteByte('(')
	for i, c := range g.controls {
		if i > 0 {
			sb.WriteByte(',')
		}
		if c.Polarity == ActiveLow {
			sb.WriteByte('~')
		}
		fmt.Fprintf(&sb, "%d", c.Qubit)
	}
	if g.kind == KindMCX {
		sb.WriteByte(';')
	}
	for i, t := range g.targets {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", t)
	}
	sb.WriteByte(')')
	return sb.String()
}

// validate checks the gate against a circuit of numQubits qubits.
func (g Gate) validate(numQubits int) error {
	switch g.kind {
	case KindX, KindH:
		if len(g.targets) != 1 || len(g.controls) != 0 {
			return consistencyf("gate", "%s takes exactly one target and no controls", g.kind)
		}
	case KindMCX:
		if len(g.controls) == 0 {
			return consistencyf("gate", "MCX needs at least one control")
		}
		if len(g.targets) == 0 {
			return consistencyf("gate", "MCX needs at least one target")
		}
	default:
		return consistencyf("gate", "unknown gate kind %d", uint8(g.kind))
	}

	seen := make(map[int]bool, len(g.controls)+len(g.targets))
	for _, q := range g.Qubits() {
		if q < 0 || q >= numQubits {
			return consistencyf("gate", "%s: qubit %d out of range [0,%d)", g, q, numQubits)
		}
		if seen[q] {
			return consistencyf("gate", "%s: qubit %d used twice", g, q)
		}
		seen[q] = true
	}
	return nil
}
