package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRunAmplifiedReport(t *testing.T) {
	code, out, _ := runCmd(t, "-seed", "report", "3,10,1,7,5")
	require.Equal(t, 0, code)

	assert.Contains(t, out, "QRAM Grover search")
	assert.Contains(t, out, "[3 10 1 7 5]")
	assert.Contains(t, out, "1 (10), 4 (5)")
	assert.Contains(t, out, "amplified, 1 rounds")
	assert.Contains(t, out, "Processed counts:")
	assert.Contains(t, out, "[1 4]")
	assert.NotContains(t, out, "warning")
}

func TestRunDirectWarnsWeak(t *testing.T) {
	code, out, _ := runCmd(t, "-seed", "report", "10,3,5,1")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "0 (10), 2 (5)")
	assert.Contains(t, out, "warning: weak concentration")
}

func TestRunMissingValue(t *testing.T) {
	code, out, _ := runCmd(t, "-seed", "x", "1,2,3,4,5,6,7,8,9")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "value 10 (1010) does not occur")
}

func TestRunUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no vector", nil, "usage: qramgrover"},
		{"not a number", []string{"10,x"}, inputHint},
		{"single element", []string{"[5]"}, inputHint},
		{"zero element", []string{"0,1"}, inputHint},
		{"bad log level", []string{"-log-level", "loud", "1,2"}, "invalid -log-level"},
		{"unknown flag", []string{"-nope", "1,2"}, "flag provided but not defined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCmd(t, tt.args...)
			assert.Equal(t, 2, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestRunLogsJSON(t *testing.T) {
	code, _, stderr := runCmd(t, "-log-json", "-log-level", "info", "-seed", "s", "3,10,1,7,5")
	require.Equal(t, 0, code)
	assert.Contains(t, stderr, `"msg":"search circuit built"`)
	assert.Contains(t, stderr, `"msg":"search completed"`)
}

func TestRunExportsAndReplays(t *testing.T) {
	dir := t.TempDir()
	qasmPath := filepath.Join(dir, "search.qasm.zst")
	chartPath := filepath.Join(dir, "counts.html")

	code, _, stderr := runCmd(t, "-seed", "s", "-qasm", qasmPath, "-chart", chartPath, "3,10,1,7,5")
	require.Equal(t, 0, code, stderr)

	html, err := os.ReadFile(chartPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "QRAM Grover search")

	code, out, stderr := runCmd(t, "-seed", "s", "-replay", qasmPath)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "Circuit replay")
	assert.Contains(t, out, "prep qram oracle qram diffuser")
	assert.Contains(t, out, "Processed counts:")
}

func TestRunReplayMissingFile(t *testing.T) {
	code, _, stderr := runCmd(t, "-replay", filepath.Join(t.TempDir(), "absent.qasm"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "absent.qasm")
}
