package grover_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qramgrover/circuit"
	"qramgrover/grover"
	"qramgrover/sim"
)

// addressDistribution builds and runs the search for vector and returns the
// exact distribution over the measured address register.
func addressDistribution(t *testing.T, vector []int) ([]float64, *grover.Plan) {
	t.Helper()
	plan, err := grover.NewController().Build(context.Background(), vector)
	require.NoError(t, err)
	e := sim.New()
	s, err := e.Run(context.Background(), plan.Circuit)
	require.NoError(t, err)
	probs, err := e.Probabilities(s, plan.Measured)
	require.NoError(t, err)
	return probs, plan
}

func TestDirectDistribution(t *testing.T) {
	// Without diffusion the marking only survives as a relative phase
	// between address pairs, so the final Hadamards split it evenly over
	// addresses 0 and 1.
	probs, _ := addressDistribution(t, []int{10, 3, 5, 1})
	require.Len(t, probs, 4)
	assert.InDelta(t, 0.5, probs[0], tolerance)
	assert.InDelta(t, 0.5, probs[1], tolerance)
	assert.InDelta(t, 0, probs[2], tolerance)
	assert.InDelta(t, 0, probs[3], tolerance)
}

func TestAmplifiedDistribution(t *testing.T) {
	probs, plan := addressDistribution(t, []int{3, 10, 1, 7, 5})
	require.Len(t, probs, 8)
	assert.Equal(t, 1, plan.Iterations)
	assert.InDelta(t, 0.5, probs[1], 1e-6)
	assert.InDelta(t, 0.5, probs[4], 1e-6)
	assert.InDelta(t, 1, probs[1]+probs[4], 1e-6)
}

func TestAmplifiedSingleMatch(t *testing.T) {
	// Only 5 occurs, at index 4; two rounds over 16 addresses give
	// sin²(5·asin(1/4)).
	probs, plan := addressDistribution(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.Len(t, probs, 16)
	assert.Equal(t, 2, plan.Iterations)
	assert.InDelta(t, 0.908, probs[4], 2e-3)
	for i, p := range probs {
		if i != 4 {
			assert.Less(t, p, probs[4])
		}
	}
}

func TestMarkedIndices(t *testing.T) {
	targets, missing := grover.MarkedIndices([]int{10, 3, 5, 1}, 4)
	assert.Equal(t, []uint32{0, 2}, targets.ToArray())
	assert.Empty(t, missing)

	targets, missing = grover.MarkedIndices([]int{1, 2, 3, 4, 5, 6, 7, 8, 9}, 4)
	assert.Equal(t, []uint32{4}, targets.ToArray())
	assert.Equal(t, []uint64{10}, missing)

	targets, missing = grover.MarkedIndices([]int{7, 7}, 3)
	assert.True(t, targets.IsEmpty())
	assert.Equal(t, []uint64{5, 2}, missing)
}

func seededEngine() *sim.Engine {
	return sim.New(sim.WithSeed([]byte("alternating")))
}

func TestSearchAmplified(t *testing.T) {
	res, err := grover.NewController().Search(context.Background(), []int{3, 10, 1, 7, 5}, seededEngine(), 100)
	require.NoError(t, err)

	assert.Equal(t, 100, res.Shots)
	assert.Equal(t, 100, res.TargetShots)
	assert.InDelta(t, 1, res.Concentration(), tolerance)
	assert.InDelta(t, 0.25, res.Baseline(), tolerance)
	assert.False(t, res.Weak())
	assert.Equal(t, []uint32{1, 4}, res.Found())
	assert.Empty(t, res.Missing)
}

func TestSearchDirectIsWeak(t *testing.T) {
	res, err := grover.NewController().Search(context.Background(), []int{10, 3, 5, 1}, seededEngine(), 100)
	require.NoError(t, err)

	assert.Equal(t, []uint32{0, 2}, res.Targets.ToArray())
	assert.InDelta(t, 0.5, res.Baseline(), tolerance)
	assert.True(t, res.Weak())
	assert.Equal(t, []uint32{0}, res.Found())
	for v := range res.Counts {
		assert.Less(t, v, uint64(2))
	}
}

func TestSearchReportsMissingValue(t *testing.T) {
	res, err := grover.NewController().Search(context.Background(), []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, seededEngine(), 200)
	require.NoError(t, err)
	assert.Equal(t, []uint64{10}, res.Missing)
	assert.Equal(t, []uint32{4}, res.Found())
	assert.Greater(t, res.TargetShots, 150)
}

func TestSearchIsReproducible(t *testing.T) {
	vector := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
	a, err := grover.NewController().Search(context.Background(), vector, seededEngine(), 300)
	require.NoError(t, err)
	b, err := grover.NewController().Search(context.Background(), vector, seededEngine(), 300)
	require.NoError(t, err)
	assert.Equal(t, a.Counts, b.Counts)
}

type failingBackend struct{ err error }

func (f failingBackend) Sample(context.Context, circuit.Circuit, []int, int) (sim.Counts, error) {
	return nil, f.err
}

func TestSearchBackendError(t *testing.T) {
	boom := errors.New("backend offline")
	_, err := grover.NewController().Search(context.Background(), []int{10, 3, 5, 1}, failingBackend{boom}, 10)
	assert.ErrorIs(t, err, boom)

	_, err = grover.NewController().Search(context.Background(), []int{10, 3, 5, 1}, seededEngine(), 0)
	assert.ErrorIs(t, err, sim.ErrShots)
}

func TestSearchInputError(t *testing.T) {
	_, err := grover.NewController().Search(context.Background(), []int{0, 1}, seededEngine(), 10)
	assert.ErrorIs(t, err, grover.ErrInvalidInput)
}
