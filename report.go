package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"qramgrover/circuit"
	"qramgrover/grover"
	"qramgrover/sim"
)

// formatCounts prints counts as an address → count map in ascending address
// order, e.g. "{0: 52, 1: 48}".
func formatCounts(counts sim.Counts) string {
	keys := make([]uint64, 0, len(counts))
	for v := range counts {
		keys = append(keys, v)
	}
	slices.Sort(keys)

	parts := make([]string, len(keys))
	for i, v := range keys {
		parts[i] = fmt.Sprintf("%d: %d", v, counts[v])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// renderHistogram draws one bar per outcome, most frequent first, the longest
// barW cells wide. width is the outcome bit width. Outcomes in targets, when
// given, are highlighted.
func renderHistogram(counts sim.Counts, width, barW int, targets *roaring.Bitmap) string {
	outcomes := counts.Sorted()
	if len(outcomes) == 0 {
		return dimStyle.Render("no outcome seen more than once") + "\n"
	}
	total := counts.Total()
	peak := outcomes[0].Count

	var sb strings.Builder
	for _, o := range outcomes {
		n := max(o.Count*barW/peak, 1)
		bar := strings.Repeat("█", n)
		style := barStyle
		mark := ""
		if targets != nil && targets.Contains(uint32(o.Value)) {
			style = targetBarStyle
			mark = targetBarStyle.Render(" ◀ target")
		}
		fmt.Fprintf(&sb, "%4d %s  %s %d (%.1f%%)%s\n",
			o.Value,
			dimStyle.Render(sim.Bitstring(o.Value, width)),
			style.Render(padRight(bar, barW)),
			o.Count,
			100*float64(o.Count)/float64(total),
			mark,
		)
	}
	return sb.String()
}

// correctIndices lists the classically known answer, "0 (10), 2 (5)".
func correctIndices(vector []int, targets *roaring.Bitmap) string {
	if targets.IsEmpty() {
		return "none"
	}
	var parts []string
	it := targets.Iterator()
	for it.HasNext() {
		i := it.Next()
		parts = append(parts, fmt.Sprintf("%d (%d)", i, vector[i]))
	}
	return strings.Join(parts, ", ")
}

// renderReport renders the outcome of one search for the terminal.
func renderReport(res *grover.Result, width int) string {
	plan := res.Plan
	c := plan.Circuit
	var sb strings.Builder

	row := func(k, v string) {
		fmt.Fprintf(&sb, "%-17s%s\n", k, v)
	}

	sb.WriteString(titleStyle.Render("QRAM Grover search"))
	sb.WriteString("\n\n")
	row("Input vector:", fmt.Sprint(plan.Vector))
	row("Marked values:", fmt.Sprintf("%d (%s), %d (%s)",
		plan.Marked[0], sim.Bitstring(plan.Marked[0], plan.Widths.Data),
		plan.Marked[1], sim.Bitstring(plan.Marked[1], plan.Widths.Data)))
	row("Correct indices:", correctIndices(plan.Vector, res.Targets))
	row("Registers:", fmt.Sprintf("%d address + %d data + 1 ancilla = %d qubits",
		plan.Widths.Address, plan.Widths.Data, plan.Widths.NumQubits()))
	row("Strategy:", fmt.Sprintf("%s, %d rounds, %d gates, depth %d",
		plan.Strategy, plan.Iterations, c.Len(), c.Depth()))
	row("Fingerprint:", dimStyle.Render(c.Fingerprint()[:16]))
	sb.WriteString("\n")

	sb.WriteString(renderDiagram(c, plan.Measured, width))
	sb.WriteString("\n")

	processed := res.Counts.Above(1)
	row("Processed counts:", formatCounts(processed))
	sb.WriteString("\n")
	sb.WriteString(renderHistogram(processed, plan.Widths.Address, histBarW, res.Targets))
	sb.WriteString("\n")

	row("Found:", fmt.Sprint(res.Found()))
	row("Concentration:", fmt.Sprintf("%.1f%% on targets, uniform baseline %.1f%%",
		100*res.Concentration(), 100*res.Baseline()))

	for _, v := range res.Missing {
		sb.WriteString(warnStyle.Render(fmt.Sprintf("warning: value %d (%s) does not occur in the vector",
			v, sim.Bitstring(v, plan.Widths.Data))))
		sb.WriteString("\n")
	}
	if res.Weak() {
		sb.WriteString(warnStyle.Render("warning: weak concentration, the measured addresses are not a reliable answer"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderReplay renders the outcome of running a circuit loaded from QASM.
func renderReplay(c circuit.Circuit, measured []int, counts sim.Counts, width int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Circuit replay"))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "%-17s%d qubits, %d gates, depth %d\n", "Circuit:", c.NumQubits(), c.Len(), c.Depth())
	fmt.Fprintf(&sb, "%-17s%s\n", "Segments:", strings.Join(c.Labels(), " "))
	fmt.Fprintf(&sb, "%-17s%s\n\n", "Fingerprint:", dimStyle.Render(c.Fingerprint()[:16]))
	sb.WriteString(renderDiagram(c, measured, width))
	sb.WriteString("\n")

	processed := counts.Above(1)
	fmt.Fprintf(&sb, "%-17s%s\n\n", "Processed counts:", formatCounts(processed))
	sb.WriteString(renderHistogram(processed, len(measured), histBarW, nil))
	return sb.String()
}
