package grover

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"

	"qramgrover/circuit"
)

// Segment labels of the assembled circuit.
const (
	LabelPrep     = "prep"
	LabelQRAM     = "qram"
	LabelOracle   = "oracle"
	LabelDiffuser = "diffuser"
	LabelExtract  = "extract"
)

// directLimit is the largest vector searched without amplification.
const directLimit = 4

// Strategy is how the controller turns the marking into measurable output.
type Strategy int

const (
	// Direct marks once, uncomputes, and applies Hadamards to the address
	// register. No diffusion.
	Direct Strategy = iota
	// Amplified repeats QRAM, oracle, QRAM and diffuser Iterations(aw) times.
	Amplified
)

func (s Strategy) String() string {
	switch s {
	case Direct:
		return "direct"
	case Amplified:
		return "amplified"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// StrategyFor returns the strategy used for a vector of length n.
func StrategyFor(n int) Strategy {
	if n <= directLimit {
		return Direct
	}
	return Amplified
}

// Iterations returns floor(π/4 · sqrt(2^(addressWidth−1))), the number of
// Grover rounds that best amplifies two marked states out of 2^addressWidth.
func Iterations(addressWidth int) int {
	if addressWidth < 1 {
		return 0
	}
	return int(math.Floor(math.Pi / 4 * math.Sqrt(math.Ldexp(1, addressWidth-1))))
}

// Plan is an assembled search circuit together with what the caller needs to
// run and interpret it.
type Plan struct {
	Circuit    circuit.Circuit
	Measured   []int
	Strategy   Strategy
	Iterations int
	Widths     Widths
	// Marked holds the two alternating values, v1 then v2.
	Marked [2]uint64
	Vector []int
}

// Controller assembles search circuits.
type Controller struct {
	mode       WriteMode
	sequential bool
	logger     *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger that receives build progress.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithWriteMode selects how the QRAM writes values. The default is FanOut.
func WithWriteMode(m WriteMode) Option {
	return func(c *Controller) {
		c.mode = m
	}
}

// WithSequentialBuild builds the blocks one after another instead of
// concurrently.
func WithSequentialBuild() Option {
	return func(c *Controller) {
		c.sequential = true
	}
}

// NewController returns a Controller.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		mode:   FanOut,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BuildSearchCircuit assembles the search circuit for vector with default
// settings and returns it with the address qubits to measure.
func BuildSearchCircuit(vector []int) (circuit.Circuit, []int, error) {
	plan, err := NewController().Build(context.Background(), vector)
	if err != nil {
		return circuit.Circuit{}, nil, err
	}
	return plan.Circuit, plan.Measured, nil
}

// blocks are the independently built pieces of a search circuit.
type blocks struct {
	qram, oracle, diffuser circuit.Circuit
}

// Build validates vector and assembles its search circuit.
func (c *Controller) Build(ctx context.Context, vector []int) (*Plan, error) {
	codec, err := NewCodec(vector)
	if err != nil {
		return nil, err
	}
	w := codec.Widths()
	strategy := StrategyFor(codec.Len())
	v1, v2 := MarkedValues(w.Data)

	c.logger.DebugContext(ctx, "register widths derived",
		"length", codec.Len(),
		"address_width", w.Address,
		"data_width", w.Data,
		"qubits", w.NumQubits(),
		"strategy", strategy.String(),
	)

	blk, err := c.buildBlocks(ctx, w, codec.Vector(), strategy)
	if err != nil {
		return nil, err
	}

	prep, err := prepare(w, strategy)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Measured: w.AddressQubits(),
		Strategy: strategy,
		Widths:   w,
		Marked:   [2]uint64{v1, v2},
		Vector:   codec.Vector(),
	}

	switch strategy {
	case Direct:
		extract, err := circuit.NewBuilder(w.NumQubits()).H(w.AddressQubits()...).Build(LabelExtract)
		if err != nil {
			return nil, err
		}
		plan.Circuit, err = circuit.Concat(prep, blk.qram, blk.oracle, blk.qram, extract)
		if err != nil {
			return nil, err
		}
	case Amplified:
		plan.Iterations = Iterations(w.Address)
		if plan.Iterations == 0 {
			c.logger.WarnContext(ctx, "iteration count is zero, no amplification rounds emitted",
				"address_width", w.Address,
			)
		}
		round, err := circuit.Concat(blk.qram, blk.oracle, blk.qram, blk.diffuser)
		if err != nil {
			return nil, err
		}
		rounds, err := circuit.Repeat(round, plan.Iterations)
		if err != nil {
			return nil, err
		}
		if plan.Circuit, err = circuit.Compose(prep, rounds); err != nil {
			return nil, err
		}
	}

	c.logger.InfoContext(ctx, "search circuit built",
		"strategy", strategy.String(),
		"iterations", plan.Iterations,
		"gates", plan.Circuit.Len(),
		"depth", plan.Circuit.Depth(),
		"fingerprint", plan.Circuit.Fingerprint(),
	)
	return plan, nil
}

// buildBlocks builds the QRAM, oracle and, for the amplified strategy, the
// diffuser. The builders share nothing, so they run concurrently unless the
// controller is sequential.
func (c *Controller) buildBlocks(ctx context.Context, w Widths, vector []int, strategy Strategy) (blocks, error) {
	var blk blocks
	tasks := []func() error{
		func() (err error) {
			blk.qram, err = QRAM(w, vector, c.mode)
			return err
		},
		func() (err error) {
			blk.oracle, err = Oracle(w)
			return err
		},
	}
	if strategy == Amplified {
		tasks = append(tasks, func() (err error) {
			blk.diffuser, err = Diffuser(w)
			return err
		})
	}

	if c.sequential {
		for _, task := range tasks {
			if err := task(); err != nil {
				return blocks{}, err
			}
		}
		return blk, nil
	}

	g, _ := errgroup.WithContext(ctx)
	for _, task := range tasks {
		g.Go(task)
	}
	if err := g.Wait(); err != nil {
		return blocks{}, err
	}
	return blk, nil
}

// prepare puts the address register in uniform superposition and, for the
// amplified strategy, the ancilla in |−⟩ for phase kickback.
func prepare(w Widths, strategy Strategy) (circuit.Circuit, error) {
	b := circuit.NewBuilder(w.NumQubits()).H(w.AddressQubits()...)
	if strategy == Amplified {
		// Vectors longer than directLimit always need more than two address
		// qubits.
		if w.Address <= minAddressWidth {
			return circuit.Circuit{}, circuit.Mismatch("prepare", "amplified address width floor", minAddressWidth+1, w.Address)
		}
		b.X(w.Ancilla()).H(w.Ancilla())
	}
	return b.Build(LabelPrep)
}
