package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qramgrover/circuit"
)

func sampleCircuit(t *testing.T) circuit.Circuit {
	t.Helper()
	prep, err := circuit.NewBuilder(4).H(0, 1).Build("prep")
	require.NoError(t, err)
	body, err := circuit.NewBuilder(4).
		MCX([]circuit.Control{circuit.On(0), circuit.Off(1)}, 3).
		X(2).
		Build("body")
	require.NoError(t, err)
	c, err := circuit.Compose(prep, body)
	require.NoError(t, err)
	return c
}

func TestPadding(t *testing.T) {
	assert.Equal(t, "  H  ", padCenter("H", 5))
	assert.Equal(t, " MCX ", padCenter("MCX", 5))
	assert.Equal(t, "abcde", padCenter("abcdefg", 5))
	assert.Equal(t, "qram   ", padRight("qram", 7))
	assert.Equal(t, "diff", padRight("diffuser", 4))
	assert.Equal(t, "███  ", padRight("███", 5))
	assert.Equal(t, "██", padRight("████", 2))
}

func TestRenderCellWidths(t *testing.T) {
	c := sampleCircuit(t)
	sched := c.Schedule(true)

	for step := range sched.Steps {
		for q := range c.NumQubits() {
			for _, hl := range []bool{false, true} {
				top, mid, bot := renderCell(cellAt(c, sched, step, q), q, hl)
				assert.Equal(t, cellW, visibleLen(top), "step %d qubit %d", step, q)
				assert.Equal(t, cellW, visibleLen(mid), "step %d qubit %d", step, q)
				assert.Equal(t, cellW, visibleLen(bot), "step %d qubit %d", step, q)
			}
		}
	}
}

func TestCellAt(t *testing.T) {
	c := sampleCircuit(t)
	sched := c.Schedule(true)
	// Step 1 holds the MCX over qubits 0..3 and nothing else.
	mcx := cellAt(c, sched, 1, 0)
	require.False(t, mcx.empty())
	assert.True(t, mcx.operand)
	assert.False(t, mcx.vertAbove)
	assert.True(t, mcx.vertBelow)

	pass := cellAt(c, sched, 1, 2)
	assert.False(t, pass.empty())
	assert.False(t, pass.operand)

	target := cellAt(c, sched, 1, 3)
	assert.True(t, target.vertAbove)
	assert.False(t, target.vertBelow)

	assert.True(t, cellAt(c, sched, 0, 3).empty())
}

func TestRenderCellSymbols(t *testing.T) {
	c := sampleCircuit(t)
	sched := c.Schedule(true)

	_, mid, _ := renderCell(cellAt(c, sched, 1, 0), 0, false)
	assert.Contains(t, mid, "●")
	_, mid, _ = renderCell(cellAt(c, sched, 1, 1), 1, false)
	assert.Contains(t, mid, "○")
	_, mid, _ = renderCell(cellAt(c, sched, 1, 2), 2, false)
	assert.Contains(t, mid, "┼")
	_, mid, _ = renderCell(cellAt(c, sched, 1, 3), 3, false)
	assert.Contains(t, mid, "⊕")
	_, mid, _ = renderCell(cellAt(c, sched, 0, 0), 0, false)
	assert.Contains(t, mid, "H")
	top, _, _ := renderCell(cellAt(c, sched, 0, 0), 0, true)
	assert.Contains(t, top, "╔")
}

func TestRenderDiagram(t *testing.T) {
	c := sampleCircuit(t)
	out := renderDiagram(c, []int{0, 1}, 200)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// Two header rows and three rows per qubit.
	assert.Len(t, lines, 2+3*4)
	assert.Contains(t, lines[0], "prep")
	assert.Contains(t, lines[0], "body")
	assert.Contains(t, out, "┆")
	assert.Contains(t, out, "M0")
	assert.Contains(t, out, "M1")
	assert.Contains(t, out, "q[3]")

	// All qubit rows of one block share the same width.
	width := visibleLen(lines[2])
	for _, l := range lines[2:] {
		assert.Equal(t, width, visibleLen(l))
	}
}

func TestRenderDiagramWraps(t *testing.T) {
	c := sampleCircuit(t)
	narrow := renderDiagram(c, []int{0}, labelVisualW+cellW+barrierW)
	blocks := strings.Split(narrow, "\n\n")
	assert.Len(t, blocks, len(c.Schedule(true).Steps))
	// Only the last block carries the measurement column.
	assert.NotContains(t, blocks[0], "M0")
	assert.Contains(t, blocks[len(blocks)-1], "M0")
}

func TestOverlayAt(t *testing.T) {
	bg := "0123456789\nabcdefghij\nKLMNOPQRST"
	out := overlayAt(bg, "XX\nYY", 3, 1)
	assert.Equal(t, "0123456789\nabcXXfghij\nKLMYYPQRST", out)

	// Overlays past the end pad with spaces.
	assert.Equal(t, "ab  Z", spliceLineAt("ab", "Z", 4))

	styled := "\x1b[1mbold\x1b[0m tail"
	assert.Equal(t, 9, visibleLen(styled))
	assert.Equal(t, "\x1b[1mb##d\x1b[0m tail", spliceLineAt(styled, "##", 1))
}
