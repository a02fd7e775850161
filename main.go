// Command qramgrover searches an integer vector for the entries whose bits
// alternate (0101…, 1010…) with a QRAM-backed Grover circuit run on a state
// vector simulator.
//
//	qramgrover [flags] 10,3,5,1
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"

	"qramgrover/circuit"
	"qramgrover/grover"
	"qramgrover/sim"
)

// config holds the command-line settings.
type config struct {
	shots      int
	seed       string
	workers    int
	fanOut     bool
	sequential bool
	width      int
	tui        bool
	qasmPath   string
	chartPath  string
	replayPath string
	savePath   string
	logLevel   string
	logJSON    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command and returns its exit status: 0 on success, 1 on a
// failed run and 2 on bad usage.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("qramgrover", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var cfg config
	fs.IntVar(&cfg.shots, "shots", 100, "number of measurement shots")
	fs.StringVar(&cfg.seed, "seed", "", "seed for reproducible sampling (random when empty)")
	fs.IntVar(&cfg.workers, "workers", runtime.GOMAXPROCS(0), "goroutines sharing one gate update on large states")
	fs.BoolVar(&cfg.fanOut, "fanout", true, "write each QRAM value with one multi-target gate (false: one gate per bit)")
	fs.BoolVar(&cfg.sequential, "sequential", false, "build the circuit blocks one after another")
	fs.IntVar(&cfg.width, "width", 120, "terminal width the circuit diagram wraps to")
	fs.BoolVar(&cfg.tui, "tui", false, "open the interactive viewer instead of printing a report")
	fs.StringVar(&cfg.qasmPath, "qasm", "", "write the search circuit as OpenQASM 2.0 (zstd when the name ends in .zst)")
	fs.StringVar(&cfg.chartPath, "chart", "", "write an HTML bar chart of the counts")
	fs.StringVar(&cfg.replayPath, "replay", "", "run a QASM file written by -qasm instead of building a search")
	fs.StringVar(&cfg.savePath, "save", "search.qasm", "file the viewer saves QASM to")
	fs.StringVar(&cfg.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	fs.BoolVar(&cfg.logJSON, "log-json", false, "log as JSON instead of text")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: qramgrover [flags] <vector>\n\n%s\n\n", inputHint)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	logger, err := newLogger(stderr, cfg.logLevel, cfg.logJSON)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	engineOpts := []sim.Option{sim.WithWorkers(cfg.workers), sim.WithLogger(logger)}
	if cfg.seed != "" {
		engineOpts = append(engineOpts, sim.WithSeed([]byte(cfg.seed)))
	}
	engine := sim.New(engineOpts...)

	if cfg.replayPath != "" {
		if err := replay(ctx, cfg, engine, stdout); err != nil {
			logger.Error("replay failed", "path", cfg.replayPath, "error", err)
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	vector, err := parseVector(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if err := search(ctx, cfg, vector, engine, logger, stdout); err != nil {
		logger.Error("search failed", "error", err)
		fmt.Fprintln(stderr, err)
		if errors.Is(err, grover.ErrInvalidInput) {
			fmt.Fprintln(stderr, inputHint)
			return 2
		}
		return 1
	}
	return 0
}

// newLogger builds the slog logger the command logs to.
func newLogger(w io.Writer, level string, json bool) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid -log-level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// search builds and samples the search for vector, writes the requested
// exports and then shows the report or the viewer.
func search(ctx context.Context, cfg config, vector []int, engine *sim.Engine, logger *slog.Logger, stdout io.Writer) error {
	mode := grover.FanOut
	if !cfg.fanOut {
		mode = grover.PerTarget
	}
	opts := []grover.Option{grover.WithLogger(logger), grover.WithWriteMode(mode)}
	if cfg.sequential {
		opts = append(opts, grover.WithSequentialBuild())
	}

	res, err := grover.NewController(opts...).Search(ctx, vector, engine, cfg.shots)
	if err != nil {
		return err
	}

	if cfg.qasmPath != "" {
		if err := writeQASM(cfg.qasmPath, res.Plan.Circuit.ToQASM(res.Plan.Measured)); err != nil {
			return err
		}
		logger.Info("circuit exported", "path", cfg.qasmPath)
	}
	if cfg.chartPath != "" {
		if err := saveChart(cfg.chartPath, res); err != nil {
			return err
		}
		logger.Info("chart written", "path", cfg.chartPath)
	}

	if cfg.tui {
		// Quitting the viewer stops any sample still running.
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		p := tea.NewProgram(newModel(ctx, res, engine, cfg.shots, cfg.savePath), tea.WithAltScreen(), tea.WithContext(ctx))
		_, err := p.Run()
		return err
	}

	_, err = io.WriteString(stdout, renderReport(res, cfg.width))
	return err
}

// saveChart writes the HTML chart of res to path.
func saveChart(path string, res *grover.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return writeChart(f, res)
}

// replay runs a previously exported circuit and prints its counts.
func replay(ctx context.Context, cfg config, engine *sim.Engine, stdout io.Writer) error {
	src, err := readQASM(cfg.replayPath)
	if err != nil {
		return err
	}
	c, measured, err := circuit.ParseQASM(src)
	if err != nil {
		return err
	}
	if len(measured) == 0 {
		measured = make([]int, c.NumQubits())
		for i := range measured {
			measured[i] = i
		}
	}

	counts, err := engine.Sample(ctx, c, measured, cfg.shots)
	if err != nil {
		return err
	}
	_, err = io.WriteString(stdout, renderReplay(c, measured, counts, cfg.width))
	return err
}
