package sim

import (
	"encoding/binary"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/tuneinsight/lattigo/v4/utils"
)

// Counts maps a measured outcome to the number of shots that produced it.
// Outcome bit k holds the value of the k-th measured qubit.
type Counts map[uint64]int

// Outcome is one entry of a Counts histogram.
type Outcome struct {
	Value uint64
	Count int
}

// Total returns the number of shots.
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Sorted returns the outcomes by descending count, ties by ascending value.
func (c Counts) Sorted() []Outcome {
	out := make([]Outcome, 0, len(c))
	for v, n := range c {
		out = append(out, Outcome{Value: v, Count: n})
	}
	slices.SortFunc(out, func(a, b Outcome) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		if a.Value < b.Value {
			return -1
		}
		if a.Value > b.Value {
			return 1
		}
		return 0
	})
	return out
}

// Above returns the outcomes seen more than floor times.
func (c Counts) Above(floor int) Counts {
	out := make(Counts, len(c))
	for v, n := range c {
		if n > floor {
			out[v] = n
		}
	}
	return out
}

// Bitstring formats an outcome over width measured qubits, most significant
// (highest measured qubit) first, as Qiskit prints counts.
func Bitstring(value uint64, width int) string {
	var sb strings.Builder
	for k := width - 1; k >= 0; k-- {
		if value>>uint(k)&1 == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Probabilities returns the exact marginal distribution over qubits; entry v
// is the probability of outcome v.
func (e *Engine) Probabilities(s *State, qubits []int) ([]float64, error) {
	if len(qubits) == 0 || len(qubits) > s.numQubits {
		return nil, fmt.Errorf("%w: measuring %d of %d qubits", ErrQubitRange, len(qubits), s.numQubits)
	}
	seen := make(map[int]bool, len(qubits))
	for _, q := range qubits {
		if q < 0 || q >= s.numQubits || seen[q] {
			return nil, fmt.Errorf("%w: measured qubit %d", ErrQubitRange, q)
		}
		seen[q] = true
	}

	probs := make([]float64, 1<<len(qubits))
	for i := range s.amps {
		p := s.Probability(i)
		if p == 0 {
			continue
		}
		var v int
		for k, q := range qubits {
			v |= (i >> q & 1) << k
		}
		probs[v] += p
	}
	return probs, nil
}

// Measure samples qubits shots times from the same final state. The state is
// not collapsed.
func (e *Engine) Measure(s *State, qubits []int, shots int) (Counts, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrShots, shots)
	}
	probs, err := e.Probabilities(s, qubits)
	if err != nil {
		return nil, err
	}

	cdf := make([]float64, len(probs))
	acc := 0.0
	last := 0
	for v, p := range probs {
		acc += p
		cdf[v] = acc
		if p > 0 {
			last = v
		}
	}

	rng, err := e.sampler()
	if err != nil {
		return nil, err
	}
	counts := make(Counts)
	for range shots {
		u := rng.float64() * acc
		v := sort.Search(len(cdf), func(i int) bool { return cdf[i] > u })
		if v >= len(cdf) {
			v = last
		}
		counts[uint64(v)]++
	}
	return counts, nil
}

// sampler draws uniform floats from a lattigo keyed PRNG.
type sampler struct {
	prng utils.PRNG
	buf  [8]byte
}

func (e *Engine) sampler() (*sampler, error) {
	var (
		prng utils.PRNG
		err  error
	)
	if len(e.seed) > 0 {
		prng, err = utils.NewKeyedPRNG(e.seed)
	} else {
		prng, err = utils.NewPRNG()
	}
	if err != nil {
		return nil, fmt.Errorf("sim: sampler: %w", err)
	}
	return &sampler{prng: prng}, nil
}

// float64 returns a uniform value in [0, 1).
func (s *sampler) float64() float64 {
	if _, err := s.prng.Read(s.buf[:]); err != nil {
		panic(fmt.Sprintf("sim: prng read: %v", err))
	}
	return float64(binary.LittleEndian.Uint64(s.buf[:])>>11) / (1 << 53)
}
