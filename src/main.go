package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/integrii/flaggy"
	"golang.org/x/term"

	"wireworld/src/config"
	"wireworld/src/logging"
	"wireworld/src/view"
)

func main() {
	o := initOptions()

	level, _ := o.Level()
	if err := os.MkdirAll(o.OutputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid output path provided: %q: %v\n", o.OutputDir, err)
		os.Exit(1)
	}
	logFile, err := os.OpenFile(filepath.Join(o.OutputDir, "run.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open run log: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := logging.New(level, logFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if o.Interactive {
		err = runInteractive(o)
	} else {
		console := view.NewConsoleOut(os.Stdout, term.IsTerminal(int(os.Stdout.Fd())), 10)
		err = runBatch(ctx, o, logger, console)
	}
	if err != nil {
		logger.Error("run failed", "error", err)
		logFile.Close()
		os.Exit(1)
	}
}

func runBatch(ctx context.Context, o config.Options, logger *slog.Logger, console *view.ConsoleOut) error {
	b, err := newBatch(o, logger, console)
	if err != nil {
		return err
	}
	defer b.Close()

	console.Register(o)
	console.Start()
	results, err := b.run(ctx)
	if err != nil {
		return err
	}
	console.Done(results)
	return b.Close()
}

func runInteractive(o config.Options) error {
	b, err := newBatch(o, logging.NewNop(), nil)
	if err != nil {
		return err
	}
	defer b.Close()

	e := o.Experiment(0)
	v, err := view.NewViewTerminal(o, e, b.sink())
	if err != nil {
		return err
	}
	err = v.Start()
	if b.frameLog != nil {
		if cerr := b.frameLog.CloseExperiment(e.Index); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func initOptions() (o config.Options) {
	o = config.DefaultOptions
	var configPath string

	flaggy.SetName("wireworld")
	flaggy.SetDescription("Run Wireworld Half-Adder Experiments")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.String(&configPath, "c", "config", "YAML file with options, flags given on the command line take precedence")
	flaggy.Int(&o.NumTests, "n", "num_tests", "Number of experiments to run")
	flaggy.Int(&o.Rows, "x", "rows", "Grid rows")
	flaggy.Int(&o.Cols, "y", "cols", "Grid columns")
	flaggy.Int(&o.NumAdders, "a", "num_adders", "Number of Half-Adders per test")
	flaggy.Int(&o.MaxSteps, "s", "max_steps", "Maximum simulation steps per test")
	flaggy.String(&o.OutputDir, "o", "output_dir", "Output directory")
	flaggy.UInt64(&o.Seed, "e", "seed", "PRNG seed (for repeatability)")
	flaggy.Int(&o.Workers, "w", "workers", "Experiments running in parallel")
	flaggy.Int(&o.Scale, "z", "scale", "Frame pixels per cell")
	flaggy.Bool(&o.Interactive, "i", "interactive", "Replay the first experiment in the terminal")
	flaggy.Duration(&o.Interval, "t", "interval", "Interactive run speed (interval between the steps), for example 150ms")
	flaggy.Bool(&o.FrameLog, "f", "frame_log", "Also write every frame to test{N}/frames.jsonl.zst")
	flaggy.Bool(&o.Index, "d", "index", "Record experiments in index.db")
	flaggy.Bool(&o.Metrics, "m", "metrics", "Write counters to metrics.prom")
	flaggy.String(&o.LogLevel, "l", "log_level", "Log level [debug|info|warn|error]")

	flaggy.Parse()

	if configPath != "" {
		file, err := config.Load(configPath)
		if err != nil {
			flaggy.ShowHelpAndExit(err.Error())
		}
		o.Merge(file)
	}
	if err := o.Validate(); err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}
	return
}
