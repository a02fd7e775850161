package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"qramgrover/circuit"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	total := width - len(s)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// padRight left-aligns s in the given width, counted in runes, cutting it if
// it is longer.
func padRight(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}

// wireSymbol returns the symbol an MCX draws on one of its qubits: ● for an
// active-high control, ○ for an active-low one and ⊕ for a target.
func wireSymbol(g circuit.Gate, qubit int) string {
	for _, c := range g.Controls() {
		if c.Qubit == qubit {
			if c.Polarity == circuit.ActiveLow {
				return "○"
			}
			return "●"
		}
	}
	return "⊕"
}

// gridPos is a cursor position on the circuit grid.
type gridPos struct {
	step  int
	qubit int
}

// ──────────────────────────── Cell rendering ────────────────────────────

// cellInfo describes what the grid shows at one (step, qubit) cell.
type cellInfo struct {
	gate      circuit.Gate
	index     int  // gate index in the circuit, -1 for a bare wire
	operand   bool // false when the qubit only lies inside the gate's span
	vertAbove bool
	vertBelow bool
}

func (ci cellInfo) empty() bool { return ci.index < 0 }

// cellAt looks up the cell at (step, qubit) in a schedule of c.
func cellAt(c circuit.Circuit, sched circuit.Schedule, step, qubit int) cellInfo {
	i, operand := sched.GateAt(c, step, qubit)
	if i < 0 {
		return cellInfo{index: -1}
	}
	g := c.Gate(i)
	qs := g.Qubits()
	return cellInfo{
		gate:      g,
		index:     i,
		operand:   operand,
		vertAbove: qubit > slices.Min(qs),
		vertBelow: qubit < slices.Max(qs),
	}
}

// renderCell returns 3 lines (top, mid, bot) for a single cell.
// Each line is exactly cellW (11) visual characters wide.
func renderCell(info cellInfo, qubit int, highlighted bool) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)

	// ── Cursor cell ──
	if highlighted {
		innerW := cellW - 2
		dashL := (innerW - 1) / 2
		dashR := innerW - dashL - 1
		side := cursorBoxStyle.Render("║")

		top = cursorBoxStyle.Render("╔" + strings.Repeat("═", innerW) + "╗")
		bot = cursorBoxStyle.Render("╚" + strings.Repeat("═", innerW) + "╝")

		switch {
		case info.empty():
			mid = side + strings.Repeat("─", innerW) + side
		case !info.operand:
			mid = side + strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR) + side
		case info.gate.Kind() == circuit.KindMCX:
			mid = side + strings.Repeat("─", dashL) + gateStyle.Render(wireSymbol(info.gate, qubit)) + strings.Repeat("─", dashR) + side
		default:
			name := padCenter(info.gate.Kind().String(), gateNameW)
			mid = side + "─┤" + gateStyle.Render(name) + "├─" + side
		}
		return
	}

	// ── Normal cells ──
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	switch {
	case info.empty():
		top = emptyRow
		mid = strings.Repeat("─", cellW)
		bot = emptyRow

	case !info.operand:
		top = vertRow
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
		bot = vertRow

	case info.gate.Kind() == circuit.KindMCX:
		top = emptyRow
		if info.vertAbove {
			top = vertRow
		}
		mid = strings.Repeat("─", dashL) + gateStyle.Render(wireSymbol(info.gate, qubit)) + strings.Repeat("─", dashR)
		bot = emptyRow
		if info.vertBelow {
			bot = vertRow
		}

	default:
		top, mid, bot = boxCell(info.gate.Kind().String(), gateStyle)
	}
	return
}

// boxCell draws a boxed label on the wire.
func boxCell(label string, style lipgloss.Style) (top, mid, bot string) {
	margin := (cellW - gateBoxW) / 2
	rightMargin := cellW - margin - gateBoxW
	top = strings.Repeat(" ", margin) + style.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
	mid = strings.Repeat("─", margin) + style.Render("┤"+padCenter(label, gateNameW)+"├") + strings.Repeat("─", rightMargin)
	bot = strings.Repeat(" ", margin) + style.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)
	return
}

// barrierCell draws the separator placed in front of a segment.
func barrierCell() (top, mid, bot string) {
	return dimStyle.Render(" ┆ "), "─" + dimStyle.Render("┆") + "─", dimStyle.Render(" ┆ ")
}

// measureCell draws the measurement of qubit into classical bit k, or a bare
// wire when k is negative.
func measureCell(k int) (top, mid, bot string) {
	if k < 0 {
		empty := strings.Repeat(" ", cellW)
		return empty, strings.Repeat("─", cellW), empty
	}
	return boxCell(fmt.Sprintf("M%d", k), measureStyle)
}

// ──────────────────────────── Grid rendering ────────────────────────────

// renderGrid draws steps [from, to) of c. Segment starts get a barrier column
// and their label in the header. When to reaches the end of the schedule a
// measurement column is appended for the measured qubits. A non-nil cursor
// highlights one cell.
func renderGrid(c circuit.Circuit, sched circuit.Schedule, measured []int, from, to int, cursor *gridPos) string {
	var sb strings.Builder
	to = min(to, len(sched.Steps))
	withMeasure := to == len(sched.Steps) && len(measured) > 0

	bit := make(map[int]int, len(measured))
	for k, q := range measured {
		bit[q] = k
	}

	labels := strings.Repeat(" ", labelVisualW)
	numbers := strings.Repeat(" ", labelVisualW)
	for step := from; step < to; step++ {
		label, ok := sched.Barriers[step]
		if ok && step > 0 {
			labels += strings.Repeat(" ", barrierW)
			numbers += strings.Repeat(" ", barrierW)
		}
		labels += segmentStyle.Render(padRight(label, cellW))
		numbers += dimStyle.Render(padCenter(fmt.Sprintf("%d", step), cellW))
	}
	sb.WriteString(labels + "\n")
	sb.WriteString(numbers + "\n")

	for qubit := range c.NumQubits() {
		topLine := strings.Repeat(" ", labelVisualW)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", fmt.Sprintf("q[%d]", qubit))) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for step := from; step < to; step++ {
			if _, ok := sched.Barriers[step]; ok && step > 0 {
				t, m, b := barrierCell()
				topLine, midLine, botLine = topLine+t, midLine+m, botLine+b
			}
			hl := cursor != nil && cursor.step == step && cursor.qubit == qubit
			t, m, b := renderCell(cellAt(c, sched, step, qubit), qubit, hl)
			topLine, midLine, botLine = topLine+t, midLine+m, botLine+b
		}

		if withMeasure {
			k, ok := bit[qubit]
			if !ok {
				k = -1
			}
			t, m, b := measureCell(k)
			topLine, midLine, botLine = topLine+t, midLine+m, botLine+b
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}
	return sb.String()
}

// renderDiagram draws the whole circuit, wrapping the steps into blocks that
// fit in width columns.
func renderDiagram(c circuit.Circuit, measured []int, width int) string {
	sched := c.Schedule(true)
	perRow := max((width-labelVisualW)/(cellW+barrierW), 1)

	if len(sched.Steps) == 0 {
		return renderGrid(c, sched, measured, 0, 0, nil)
	}
	var blocks []string
	for from := 0; from < len(sched.Steps); from += perRow {
		blocks = append(blocks, renderGrid(c, sched, measured, from, from+perRow, nil))
	}
	return strings.Join(blocks, "\n")
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay string on top of the background at position (x, y).
// It handles ANSI escape sequences by tracking visible column positions.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	ovLines := strings.Split(overlay, "\n")

	for i, ovLine := range ovLines {
		bgIdx := y + i
		if bgIdx < 0 || bgIdx >= len(bgLines) {
			continue
		}
		bgLines[bgIdx] = spliceLineAt(bgLines[bgIdx], ovLine, x)
	}
	return strings.Join(bgLines, "\n")
}

// isEscEnd reports whether r terminates an ANSI escape sequence.
func isEscEnd(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

// spliceLineAt replaces visible columns starting at position x in bgLine with overlay content.
func spliceLineAt(bgLine, overlay string, x int) string {
	runes := []rune(bgLine)
	ovWidth := visibleLen(overlay)

	var prefix, suffix strings.Builder
	col, i := 0, 0

	// Everything up to visible column x, escapes included.
	for i < len(runes) && col < x {
		if runes[i] == '\x1b' {
			for i < len(runes) {
				r := runes[i]
				prefix.WriteRune(r)
				i++
				if r != '\x1b' && r != '[' && isEscEnd(r) {
					break
				}
			}
			continue
		}
		prefix.WriteRune(runes[i])
		col++
		i++
	}
	for ; col < x; col++ {
		prefix.WriteRune(' ')
	}

	// Drop the ovWidth visible columns the overlay covers.
	for skipped := 0; i < len(runes) && skipped < ovWidth; {
		if runes[i] == '\x1b' {
			for i < len(runes) {
				r := runes[i]
				i++
				if r != '\x1b' && r != '[' && isEscEnd(r) {
					break
				}
			}
			continue
		}
		skipped++
		i++
	}

	suffix.WriteString(string(runes[i:]))
	return prefix.String() + overlay + suffix.String()
}

// visibleLen returns the number of visible (non-ANSI-escape) characters in a string.
func visibleLen(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		if r == '\x1b' {
			inEsc = true
			continue
		}
		if inEsc {
			if isEscEnd(r) {
				inEsc = false
			}
			continue
		}
		n++
	}
	return n
}
