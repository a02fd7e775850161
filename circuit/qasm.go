package circuit

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Pre-compiled regexps for QASM parsing.
var (
	qregRegex    = regexp.MustCompile(`^qreg\s+q\[(\d+)\];?$`)
	singleRegex  = regexp.MustCompile(`^(h|x)\s+q\[(\d+)\];?$`)
	multiRegex   = regexp.MustCompile(`^(cx|ccx|mcx)\s+(q\[\d+\](?:\s*,\s*q\[\d+\])+);?$`)
	operandRegex = regexp.MustCompile(`q\[(\d+)\]`)
	measureRegex = regexp.MustCompile(`^measure\s+q\[(\d+)\]\s*->\s*c\[(\d+)\];?$`)
	segmentRegex = regexp.MustCompile(`^//\s*segment\s+(\S+)$`)
)

// ToQASM renders c as OpenQASM 2.0, measuring the given qubits into a
// classical register of the same length (qubit measured[k] -> c[k]).
//
// Active-low controls are emitted as x-conjugations and fan-out gates as one
// line per target. Gates with more than two controls use the mcx gate that
// Qiskit's exporter defines. Segment starts are marked with a barrier and a
// "// segment <label>" comment that ParseQASM reads back.
func (c Circuit) ToQASM(measured []int) string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", c.numQubits)
	if len(measured) > 0 {
		fmt.Fprintf(&sb, "creg c[%d];\n", len(measured))
	}
	sb.WriteString("\n")

	starts := make(map[int]string, len(c.segments))
	for _, s := range c.segments {
		starts[s.Start] = s.Label
	}

	for i, g := range c.gates {
		if label, ok := starts[i]; ok {
			if i > 0 {
				writeBarrier(&sb, c.numQubits)
			}
			fmt.Fprintf(&sb, "// segment %s\n", label)
		}
		writeGateQASM(&sb, g)
	}

	for k, q := range measured {
		fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", q, k)
	}
	return sb.String()
}

func writeBarrier(sb *strings.Builder, numQubits int) {
	qubits := make([]string, numQubits)
	for q := range numQubits {
		qubits[q] = fmt.Sprintf("q[%d]", q)
	}
	fmt.Fprintf(sb, "barrier %s;\n", strings.Join(qubits, ", "))
}

func writeGateQASM(sb *strings.Builder, g Gate) {
	switch g.kind {
	case KindH:
		fmt.Fprintf(sb, "h q[%d];\n", g.Target())
		return
	case KindX:
		fmt.Fprintf(sb, "x q[%d];\n", g.Target())
		return
	}

	// Anti-controls
	for _, ctl := range g.controls {
		if ctl.Polarity == ActiveLow {
			fmt.Fprintf(sb, "x q[%d];\n", ctl.Qubit)
		}
	}

	operands := make([]string, 0, len(g.controls)+1)
	for _, ctl := range g.controls {
		operands = append(operands, fmt.Sprintf("q[%d]", ctl.Qubit))
	}
	name := "mcx"
	switch len(g.controls) {
	case 1:
		name = "cx"
	case 2:
		name = "ccx"
	}
	for _, t := range g.targets {
		fmt.Fprintf(sb, "%s %s, q[%d];\n", name, strings.Join(operands, ", "), t)
	}

	for _, ctl := range g.controls {
		if ctl.Polarity == ActiveLow {
			fmt.Fprintf(sb, "x q[%d];\n", ctl.Qubit)
		}
	}
}

// ParseQASM reads the OpenQASM subset written by ToQASM and returns the
// circuit and the measured qubits in classical-bit order.
func ParseQASM(src string) (Circuit, []int, error) {
	var (
		b        *Builder
		measured = map[int]int{}
		labels   []string
		starts   []int
	)

	scanner := bufio.NewScanner(strings.NewReader(src))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if m := segmentRegex.FindStringSubmatch(line); m != nil {
			if b == nil {
				return Circuit{}, nil, parseErr(lineNo, "segment before qreg")
			}
			labels = append(labels, m[1])
			starts = append(starts, len(b.gates))
			continue
		}
		if line == "" ||
			strings.HasPrefix(line, "//") ||
			strings.HasPrefix(line, "OPENQASM") ||
			strings.HasPrefix(line, "include") ||
			strings.HasPrefix(line, "creg") ||
			strings.HasPrefix(line, "barrier") {
			continue
		}

		if m := qregRegex.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[1])
			b = NewBuilder(n)
			continue
		}
		if b == nil {
			return Circuit{}, nil, parseErr(lineNo, "gate before qreg")
		}

		if m := measureRegex.FindStringSubmatch(line); m != nil {
			q, _ := strconv.Atoi(m[1])
			bit, _ := strconv.Atoi(m[2])
			measured[bit] = q
			continue
		}

		if m := singleRegex.FindStringSubmatch(line); m != nil {
			q, _ := strconv.Atoi(m[2])
			if m[1] == "h" {
				b.H(q)
			} else {
				b.X(q)
			}
			continue
		}

		if m := multiRegex.FindStringSubmatch(line); m != nil {
			var qs []int
			for _, op := range operandRegex.FindAllStringSubmatch(m[2], -1) {
				q, _ := strconv.Atoi(op[1])
				qs = append(qs, q)
			}
			want := map[string]int{"cx": 2, "ccx": 3}[m[1]]
			if want != 0 && len(qs) != want {
				return Circuit{}, nil, parseErr(lineNo, "%s takes %d operands, got %d", m[1], want, len(qs))
			}
			b.MCX(Controls(qs[:len(qs)-1]...), qs[len(qs)-1])
			continue
		}

		return Circuit{}, nil, parseErr(lineNo, "unsupported statement %q", line)
	}
	if err := scanner.Err(); err != nil {
		return Circuit{}, nil, err
	}
	if b == nil {
		return Circuit{}, nil, parseErr(lineNo, "missing qreg")
	}

	c, err := b.Build("")
	if err != nil {
		return Circuit{}, nil, err
	}
	for i, label := range labels {
		end := len(c.gates)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		if end > starts[i] {
			c.segments = append(c.segments, Segment{Label: label, Start: starts[i], End: end})
		}
	}

	qubits := make([]int, len(measured))
	for bit, q := range measured {
		if bit >= len(qubits) {
			return Circuit{}, nil, parseErr(lineNo, "classical bit %d is not contiguous", bit)
		}
		qubits[bit] = q
	}
	return c, qubits, nil
}

func parseErr(line int, format string, args ...any) error {
	return fmt.Errorf("qasm line %d: %s", line, fmt.Sprintf(format, args...))
}
