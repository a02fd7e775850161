package circuit

// Schedule places every gate of a circuit in a time step for drawing. A gate
// occupies the whole qubit span between its lowest and highest qubit so that
// connector lines never cross another gate in the same step.
type Schedule struct {
	// Steps[s] lists the indices of the gates drawn in step s.
	Steps [][]int
	// Barriers maps a step to the label of the segment that starts there.
	Barriers map[int]string
}

// Schedule computes the drawing schedule of c. When barriers is set, a gate
// never moves in front of the start of its own segment.
func (c Circuit) Schedule(barriers bool) Schedule {
	sched := Schedule{Barriers: make(map[int]string)}
	if c.numQubits == 0 {
		return sched
	}

	// next[q] is the earliest step a new gate on qubit q may use.
	next := make([]int, c.numQubits)
	floor := 0
	seg := 0

	for i, g := range c.gates {
		if barriers {
			for seg < len(c.segments) && c.segments[seg].End <= i {
				seg++
			}
			if seg < len(c.segments) && c.segments[seg].Start == i {
				floor = 0
				for _, n := range next {
					floor = max(floor, n)
				}
				sched.Barriers[floor] = c.segments[seg].Label
			}
		}

		lo, hi := g.span()
		step := floor
		for q := lo; q <= hi; q++ {
			step = max(step, next[q])
		}
		for q := lo; q <= hi; q++ {
			next[q] = step + 1
		}
		for len(sched.Steps) <= step {
			sched.Steps = append(sched.Steps, nil)
		}
		sched.Steps[step] = append(sched.Steps[step], i)
	}
	return sched
}

// GateAt returns the index of the gate drawn at (step, qubit) and whether the
// qubit is one of that gate's operands, or -1 when the cell is empty. A qubit
// that lies inside a gate's span without being an operand is reported with
// operand == false so callers can draw a pass-through connector.
func (s Schedule) GateAt(c Circuit, step, qubit int) (index int, operand bool) {
	if step < 0 || step >= len(s.Steps) {
		return -1, false
	}
	for _, i := range s.Steps[step] {
		g := c.gates[i]
		if g.references(qubit) {
			return i, true
		}
		if lo, hi := g.span(); qubit > lo && qubit < hi {
			return i, false
		}
	}
	return -1, false
}
