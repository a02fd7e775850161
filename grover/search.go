package grover

import (
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"qramgrover/circuit"
	"qramgrover/sim"
)

// Backend executes a circuit and samples the given qubits.
type Backend interface {
	Sample(ctx context.Context, c circuit.Circuit, qubits []int, shots int) (sim.Counts, error)
}

// Result is the outcome of one sampled search.
type Result struct {
	Plan   *Plan
	Shots  int
	Counts sim.Counts

	// Targets holds the vector indices whose value is one of the marked values.
	Targets *roaring.Bitmap
	// Missing lists the marked values that do not occur in the vector.
	Missing []uint64
	// Observed holds the addresses seen more than once.
	Observed *roaring.Bitmap

	// TargetShots is the number of shots that landed on a target index.
	TargetShots int
}

// Concentration is the fraction of shots that landed on a target index.
func (r *Result) Concentration() float64 {
	if r.Shots == 0 {
		return 0
	}
	return float64(r.TargetShots) / float64(r.Shots)
}

// Baseline is the fraction uniform sampling over the address register would
// put on the target indices.
func (r *Result) Baseline() float64 {
	return float64(r.Targets.GetCardinality()) / float64(uint64(1)<<uint(r.Plan.Widths.Address))
}

// Weak reports whether the target indices failed to collect more than the
// midpoint between the uniform baseline and certainty.
func (r *Result) Weak() bool {
	b := r.Baseline()
	return r.Concentration() <= b+(1-b)/2
}

// Found returns the target indices that were observed more than once.
func (r *Result) Found() []uint32 {
	return roaring.And(r.Targets, r.Observed).ToArray()
}

// MarkedIndices returns the positions in vector holding one of the two
// alternating dataWidth-bit values, and the values that never occur.
func MarkedIndices(vector []int, dataWidth int) (*roaring.Bitmap, []uint64) {
	v1, v2 := MarkedValues(dataWidth)
	found := map[uint64]bool{}
	targets := roaring.New()
	for i, v := range vector {
		if v <= 0 {
			continue
		}
		if u := uint64(v); u == v1 || u == v2 {
			targets.Add(uint32(i))
			found[u] = true
		}
	}

	var missing []uint64
	for _, v := range []uint64{v1, v2} {
		if !found[v] {
			missing = append(missing, v)
		}
	}
	return targets, missing
}

// Search builds the circuit for vector, samples its address register shots
// times on backend and scores the outcome against the classically known
// target indices.
func (c *Controller) Search(ctx context.Context, vector []int, backend Backend, shots int) (*Result, error) {
	plan, err := c.Build(ctx, vector)
	if err != nil {
		return nil, err
	}

	targets, missing := MarkedIndices(plan.Vector, plan.Widths.Data)
	for _, v := range missing {
		c.logger.WarnContext(ctx, "marked value not present in vector", "value", v)
	}

	counts, err := backend.Sample(ctx, plan.Circuit, plan.Measured, shots)
	if err != nil {
		return nil, fmt.Errorf("sample search circuit: %w", err)
	}

	res := &Result{
		Plan:     plan,
		Shots:    counts.Total(),
		Counts:   counts,
		Targets:  targets,
		Missing:  missing,
		Observed: roaring.New(),
	}
	for v, n := range counts {
		if targets.Contains(uint32(v)) {
			res.TargetShots += n
		}
		if n > 1 {
			res.Observed.Add(uint32(v))
		}
	}

	attrs := []any{
		"shots", res.Shots,
		"targets", targets.ToArray(),
		"concentration", res.Concentration(),
		"baseline", res.Baseline(),
	}
	if res.Weak() {
		c.logger.WarnContext(ctx, "weak concentration on target indices", attrs...)
	} else {
		c.logger.InfoContext(ctx, "search completed", attrs...)
	}
	return res, nil
}
