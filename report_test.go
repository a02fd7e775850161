package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qramgrover/grover"
	"qramgrover/sim"
)

func searchResult(t *testing.T, vector []int) *grover.Result {
	t.Helper()
	engine := sim.New(sim.WithSeed([]byte("report")))
	res, err := grover.NewController().Search(context.Background(), vector, engine, 100)
	require.NoError(t, err)
	return res
}

func TestFormatCounts(t *testing.T) {
	assert.Equal(t, "{}", formatCounts(sim.Counts{}))
	assert.Equal(t, "{0: 52, 1: 48}", formatCounts(sim.Counts{1: 48, 0: 52}))
	assert.Equal(t, "{2: 3, 4: 1, 10: 7}", formatCounts(sim.Counts{10: 7, 4: 1, 2: 3}))
}

func TestRenderHistogram(t *testing.T) {
	counts := sim.Counts{1: 60, 4: 30, 6: 10}
	targets := roaring.BitmapOf(1, 4)

	out := renderHistogram(counts, 3, histBarW, targets)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[0], "001")
	assert.Contains(t, lines[0], strings.Repeat("█", histBarW))
	assert.Contains(t, lines[0], "60 (60.0%)")
	assert.Contains(t, lines[0], "target")
	assert.Contains(t, lines[1], "100")
	assert.Contains(t, lines[1], "target")
	assert.Contains(t, lines[2], "110")
	assert.NotContains(t, lines[2], "target")
	assert.Contains(t, lines[1], strings.Repeat("█", histBarW/2)+strings.Repeat(" ", histBarW-histBarW/2))
	assert.Contains(t, lines[2], strings.Repeat("█", histBarW/6)+strings.Repeat(" ", histBarW-histBarW/6))
	for _, l := range lines {
		assert.True(t, utf8.ValidString(l), "line %q", l)
	}

	assert.Contains(t, renderHistogram(sim.Counts{}, 3, histBarW, nil), "no outcome")
}

func TestCorrectIndices(t *testing.T) {
	assert.Equal(t, "0 (10), 2 (5)", correctIndices([]int{10, 3, 5, 1}, roaring.BitmapOf(0, 2)))
	assert.Equal(t, "none", correctIndices([]int{7, 7}, roaring.New()))
}

func TestRenderReport(t *testing.T) {
	res := searchResult(t, []int{10, 3, 5, 1})
	out := renderReport(res, 120)

	assert.Contains(t, out, "[10 3 5 1]")
	assert.Contains(t, out, "5 (0101), 10 (1010)")
	assert.Contains(t, out, "2 address + 4 data + 1 ancilla = 7 qubits")
	assert.Contains(t, out, "direct, 0 rounds")
	assert.Contains(t, out, res.Plan.Circuit.Fingerprint()[:16])
	assert.Contains(t, out, "extract")
	assert.Contains(t, out, formatCounts(res.Counts.Above(1)))
	assert.Contains(t, out, "uniform baseline 50.0%")
	assert.Contains(t, out, "warning: weak concentration")
	assert.True(t, utf8.ValidString(out))
}

func TestWriteChart(t *testing.T) {
	res := searchResult(t, []int{3, 10, 1, 7, 5})
	var buf bytes.Buffer
	require.NoError(t, writeChart(&buf, res))

	html := buf.String()
	assert.Contains(t, html, "QRAM Grover search")
	assert.Contains(t, html, "4 (100)")
	assert.Contains(t, html, chartTargetColor)
	assert.Contains(t, html, chartOtherColor)
}
