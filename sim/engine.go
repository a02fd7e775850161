package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"qramgrover/circuit"
)

// MaxQubits bounds the state size (2^24 amplitudes, 256 MiB).
const MaxQubits = 24

// defaultParallelThreshold is the smallest state, in amplitudes, whose
// updates are split across workers.
const defaultParallelThreshold = 1 << 14

// Engine executes circuits on state vectors and samples measurements.
// An Engine holds no per-run state and is safe for concurrent use.
type Engine struct {
	workers   int
	threshold int
	seed      []byte
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets how many goroutines share one gate update on large states.
// Values below 1 fall back to 1.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = max(n, 1)
	}
}

// WithParallelThreshold sets the state size, in amplitudes, from which gate
// updates are sharded across workers.
func WithParallelThreshold(amplitudes int) Option {
	return func(e *Engine) {
		if amplitudes > 0 {
			e.threshold = amplitudes
		}
	}
}

// WithSeed makes measurement sampling reproducible: every Measure call with
// the same seed and distribution yields the same counts. Without a seed the
// sampler is keyed from crypto/rand.
func WithSeed(seed []byte) Option {
	return func(e *Engine) {
		e.seed = append([]byte(nil), seed...)
	}
}

// WithLogger sets the logger for the engine.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns an Engine. By default it uses one worker per CPU.
func New(opts ...Option) *Engine {
	e := &Engine{
		workers:   runtime.GOMAXPROCS(0),
		threshold: defaultParallelThreshold,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ApplyGate applies one gate to s.
func (e *Engine) ApplyGate(s *State, g circuit.Gate) error {
	for _, q := range g.Qubits() {
		if q < 0 || q >= s.numQubits {
			return fmt.Errorf("%w: %s on %d qubits", ErrQubitRange, g, s.numQubits)
		}
	}

	switch g.Kind() {
	case circuit.KindH:
		e.applyH(s, g.Target())
	case circuit.KindX:
		e.applyControlledX(s, 0, 0, 1<<g.Target())
	case circuit.KindMCX:
		var ctrlMask, ctrlWant, targetMask int
		for _, c := range g.Controls() {
			ctrlMask |= 1 << c.Qubit
			if c.Polarity == circuit.ActiveHigh {
				ctrlWant |= 1 << c.Qubit
			}
		}
		for _, t := range g.Targets() {
			targetMask |= 1 << t
		}
		e.applyControlledX(s, ctrlMask, ctrlWant, targetMask)
	default:
		return fmt.Errorf("sim: unsupported gate %s", g)
	}
	return nil
}

// Execute applies every gate of c to s in order. It stops between gates when
// ctx is cancelled.
func (e *Engine) Execute(ctx context.Context, s *State, c circuit.Circuit) error {
	if c.NumQubits() != s.numQubits {
		return fmt.Errorf("%w: circuit has %d qubits, state has %d", ErrQubitCount, c.NumQubits(), s.numQubits)
	}

	start := time.Now()
	for i := range c.Len() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.ApplyGate(s, c.Gate(i)); err != nil {
			return fmt.Errorf("gate %d: %w", i, err)
		}
	}

	e.logger.DebugContext(ctx, "circuit executed",
		"qubits", s.numQubits,
		"gates", c.Len(),
		"elapsed", time.Since(start),
	)
	return nil
}

// Run executes c on a fresh |0…0⟩ state and returns the final state.
func (e *Engine) Run(ctx context.Context, c circuit.Circuit) (*State, error) {
	s, err := NewState(c.NumQubits())
	if err != nil {
		return nil, err
	}
	if err := e.Execute(ctx, s, c); err != nil {
		return nil, err
	}
	return s, nil
}

// Sample runs c and measures qubits shots times.
func (e *Engine) Sample(ctx context.Context, c circuit.Circuit, qubits []int, shots int) (Counts, error) {
	s, err := e.Run(ctx, c)
	if err != nil {
		return nil, err
	}
	return e.Measure(s, qubits, shots)
}

func (e *Engine) applyH(s *State, q int) {
	bit := 1 << q
	h := complex(1/math.Sqrt2, 0)
	amps := s.amps
	e.shard(len(amps), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if i&bit != 0 {
				continue
			}
			j := i | bit
			a, b := amps[i], amps[j]
			amps[i] = h * (a + b)
			amps[j] = h * (a - b)
		}
	})
}

// applyControlledX flips every bit in targetMask on the basis states whose
// bits under ctrlMask equal ctrlWant. Each pair is swapped once, by the member
// whose lowest target bit is clear.
func (e *Engine) applyControlledX(s *State, ctrlMask, ctrlWant, targetMask int) {
	owner := targetMask & -targetMask
	amps := s.amps
	e.shard(len(amps), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if i&owner != 0 || i&ctrlMask != ctrlWant {
				continue
			}
			j := i ^ targetMask
			amps[i], amps[j] = amps[j], amps[i]
		}
	})
}

// shard runs fn over [0, n) split into contiguous ranges, in parallel when the
// state is large enough. Every caller writes only to pairs it owns, so ranges
// never race.
func (e *Engine) shard(n int, fn func(lo, hi int)) {
	if e.workers <= 1 || n < e.threshold {
		fn(0, n)
		return
	}

	var g errgroup.Group
	g.SetLimit(e.workers)
	size := (n + e.workers - 1) / e.workers
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}
