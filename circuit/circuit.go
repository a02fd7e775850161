package circuit

import (
	"slices"
)

// Segment names a contiguous run of gates [Start, End) and the block that
// emitted it, e.g. "qram" or "diffuser".
type Segment struct {
	Label string
	Start int
	End   int
}

// Circuit is an ordered gate sequence over a fixed number of qubits.
// Circuits are values: nothing in this package mutates one after it is built.
type Circuit struct {
	numQubits int
	gates     []Gate
	segments  []Segment
}

// Empty returns a circuit with no gates.
func Empty(numQubits int) Circuit { return Circuit{numQubits: numQubits} }

func (c Circuit) NumQubits() int { return c.numQubits }

// Len returns the number of gates.
func (c Circuit) Len() int { return len(c.gates) }

// Gate returns the i-th gate.
func (c Circuit) Gate(i int) Gate { return c.gates[i] }

// Gates returns a copy of the gate sequence.
func (c Circuit) Gates() []Gate { return slices.Clone(c.gates) }

// Segments returns a copy of the labelled segments, in gate order.
func (c Circuit) Segments() []Segment { return slices.Clone(c.segments) }

// Labels returns the segment labels in order.
func (c Circuit) Labels() []string {
	out := make([]string, len(c.segments))
	for i, s := range c.segments {
		out[i] = s.Label
	}
	return out
}

// Labeled returns a copy of c whose segments are replaced by a single segment
// covering every gate.
func (c Circuit) Labeled(label string) Circuit {
	out := Circuit{numQubits: c.numQubits, gates: c.gates}
	if label != "" && len(c.gates) > 0 {
		out.segments = []Segment{{Label: label, Start: 0, End: len(c.gates)}}
	}
	return out
}

// Count returns how many gates of the given kind the circuit holds.
func (c Circuit) Count(kind Kind) int {
	n := 0
	for _, g := range c.gates {
		if g.kind == kind {
			n++
		}
	}
	return n
}

// Depth returns the number of time steps needed when gates that share no
// qubit run in the same step.
func (c Circuit) Depth() int {
	last := make([]int, c.numQubits)
	depth := 0
	for _, g := range c.gates {
		step := 0
		for _, q := range g.Qubits() {
			step = max(step, last[q])
		}
		step++
		for _, q := range g.Qubits() {
			last[q] = step
		}
		depth = max(depth, step)
	}
	return depth
}

// Compose returns a followed by b. Neither operand is modified. Both must have
// the same qubit count.
func Compose(a, b Circuit) (Circuit, error) {
	if a.numQubits != b.numQubits {
		return Circuit{}, Mismatch("compose", "qubit count", a.numQubits, b.numQubits)
	}
	gates := make([]Gate, 0, len(a.gates)+len(b.gates))
	gates = append(gates, a.gates...)
	gates = append(gates, b.gates...)

	segments := make([]Segment, 0, len(a.segments)+len(b.segments))
	segments = append(segments, a.segments...)
	offset := len(a.gates)
	for _, s := range b.segments {
		segments = append(segments, Segment{Label: s.Label, Start: s.Start + offset, End: s.End + offset})
	}
	return Circuit{numQubits: a.numQubits, gates: gates, segments: segments}, nil
}

// Concat composes the circuits left to right.
func Concat(first Circuit, rest ...Circuit) (Circuit, error) {
	out := first
	for _, c := range rest {
		var err error
		if out, err = Compose(out, c); err != nil {
			return Circuit{}, err
		}
	}
	return out, nil
}

// Repeat composes c with itself n times. n == 0 yields an empty circuit of the
// same width.
func Repeat(c Circuit, n int) (Circuit, error) {
	if n < 0 {
		return Circuit{}, consistencyf("repeat", "negative repetition count %d", n)
	}
	out := Empty(c.numQubits)
	for range n {
		var err error
		if out, err = Compose(out, c); err != nil {
			return Circuit{}, err
		}
	}
	return out, nil
}

// Builder accumulates gates for one circuit. The first invalid gate is
// remembered and reported by Build; later calls are ignored.
type Builder struct {
	numQubits int
	gates     []Gate
	err       error
}

// NewBuilder starts a circuit over numQubits qubits.
func NewBuilder(numQubits int) *Builder {
	b := &Builder{numQubits: numQubits}
	if numQubits <= 0 {
		b.err = consistencyf("builder", "qubit count must be positive, got %d", numQubits)
	}
	return b
}

// Add appends g after validating it.
func (b *Builder) Add(g Gate) *Builder {
	if b.err != nil {
		return b
	}
	if err := g.validate(b.numQubits); err != nil {
		b.err = err
		return b
	}
	b.gates = append(b.gates, g)
	return b
}

// X appends a bit flip on each qubit.
func (b *Builder) X(qubits ...int) *Builder {
	for _, q := range qubits {
		b.Add(X(q))
	}
	return b
}

// H appends a Hadamard on each qubit.
func (b *Builder) H(qubits ...int) *Builder {
	for _, q := range qubits {
		b.Add(H(q))
	}
	return b
}

// MCX appends one multi-controlled bit flip.
func (b *Builder) MCX(controls []Control, targets ...int) *Builder {
	return b.Add(MCX(controls, targets...))
}

// Build returns the accumulated circuit, labelled with label when it is not
// empty.
func (b *Builder) Build(label string) (Circuit, error) {
	if b.err != nil {
		return Circuit{}, b.err
	}
	c := Circuit{numQubits: b.numQubits, gates: slices.Clip(slices.Clone(b.gates))}
	return c.Labeled(label), nil
}
