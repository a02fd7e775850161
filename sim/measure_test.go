package sim_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qramgrover/circuit"
	"qramgrover/sim"
)

func TestProbabilitiesFollowMeasuredOrder(t *testing.T) {
	// |q2 q1 q0⟩ = |1 0 1⟩ with q1 in superposition.
	c := build(t, circuit.NewBuilder(3).X(0, 2).H(1))
	e := sim.New()
	s, err := e.Run(context.Background(), c)
	require.NoError(t, err)

	probs, err := e.Probabilities(s, []int{0, 1})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0.5, 0, 0.5}, probs, 1e-12)

	// Reordering the measured qubits reorders the outcome bits.
	probs, err = e.Probabilities(s, []int{1, 2})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0, 0.5, 0.5}, probs, 1e-12)

	_, err = e.Probabilities(s, []int{0, 0})
	assert.ErrorIs(t, err, sim.ErrQubitRange)
	_, err = e.Probabilities(s, nil)
	assert.ErrorIs(t, err, sim.ErrQubitRange)
}

func TestMeasureDeterministicState(t *testing.T) {
	e := sim.New()
	counts, err := e.Sample(context.Background(), build(t, circuit.NewBuilder(3).X(1, 2)), []int{0, 1, 2}, 50)
	require.NoError(t, err)
	assert.Equal(t, sim.Counts{0b110: 50}, counts)
}

func TestMeasureSeededIsReproducible(t *testing.T) {
	c := build(t, circuit.NewBuilder(3).H(0, 1, 2))
	qubits := []int{0, 1, 2}

	e := sim.New(sim.WithSeed([]byte("grover")))
	first, err := e.Sample(context.Background(), c, qubits, 4000)
	require.NoError(t, err)
	second, err := e.Sample(context.Background(), c, qubits, 4000)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 4000, first.Total())
	for v := range uint64(8) {
		// 500 expected per outcome; 5 sigma is about 105.
		assert.InDelta(t, 500, first[v], 120, "outcome %03b", v)
	}
}

func TestMeasureRejectsShots(t *testing.T) {
	s, err := sim.NewState(1)
	require.NoError(t, err)
	_, err = sim.New().Measure(s, []int{0}, 0)
	assert.ErrorIs(t, err, sim.ErrShots)
}

func TestCountsHelpers(t *testing.T) {
	counts := sim.Counts{0: 3, 2: 40, 1: 1, 3: 40}

	assert.Equal(t, 84, counts.Total())
	assert.Equal(t, []sim.Outcome{
		{Value: 2, Count: 40},
		{Value: 3, Count: 40},
		{Value: 0, Count: 3},
		{Value: 1, Count: 1},
	}, counts.Sorted())
	assert.Equal(t, sim.Counts{0: 3, 2: 40, 3: 40}, counts.Above(1))

	assert.Equal(t, "0010", sim.Bitstring(2, 4))
	assert.Equal(t, "11", sim.Bitstring(3, 2))
}
