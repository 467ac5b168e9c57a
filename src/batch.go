package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"wireworld/src/config"
	"wireworld/src/output"
	"wireworld/src/universe"
	"wireworld/src/view"
)

//batch wires the experiment runner to the configured outputs
type batch struct {
	opts     config.Options
	logger   *slog.Logger
	console  *view.ConsoleOut
	frames   *output.PNGSink
	frameLog *output.FrameLog
	index    *output.Index
	metrics  *output.Metrics
}

func newBatch(o config.Options, logger *slog.Logger, console *view.ConsoleOut) (*batch, error) {
	b := &batch{
		opts:    o,
		logger:  logger,
		console: console,
		frames:  output.NewPNGSink(o.OutputDir, o.Scale),
	}
	if o.FrameLog {
		b.frameLog = output.NewFrameLog(o.OutputDir)
	}
	if o.Metrics {
		b.metrics = output.NewMetrics()
	}
	if o.Index {
		ix, err := output.OpenIndex(filepath.Join(o.OutputDir, "index.db"))
		if err != nil {
			return nil, fmt.Errorf("open index: %w", err)
		}
		b.index = ix
	}
	return b, nil
}

//sink returns the outputs every frame is sent to, images first
func (b *batch) sink() universe.Sink {
	m := universe.MultiSink{b.frames}
	if b.frameLog != nil {
		m = append(m, b.frameLog)
	}
	if b.metrics != nil {
		m = append(m, b.metrics)
	}
	if b.console != nil {
		m = append(m, b.console)
	}
	return m
}

//run executes all experiments, at most opts.Workers at a time
//the first failure cancels the experiments still running
func (b *batch) run(ctx context.Context) ([]universe.Result, error) {
	results := make([]universe.Result, b.opts.NumTests)
	runner := universe.NewRunner(b.sink())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Workers)
	for i := 0; i < b.opts.NumTests; i++ {
		e := b.opts.Experiment(i)
		g.Go(func() error {
			res, err := b.runOne(ctx, runner, e)
			results[e.Index] = res
			return err
		})
	}
	err := g.Wait()
	if b.metrics != nil {
		path := filepath.Join(b.opts.OutputDir, "metrics.prom")
		if werr := b.metrics.WriteFile(path); werr != nil {
			err = errors.Join(err, fmt.Errorf("write metrics: %w", werr))
		}
	}
	return results, err
}

func (b *batch) runOne(ctx context.Context, runner *universe.Runner, e universe.Experiment) (universe.Result, error) {
	log := b.logger.With("experiment", e.Index)
	log.Debug("experiment started", "rows", e.Rows, "cols", e.Cols, "num_adders", e.NumAdders)

	res, err := runner.Run(ctx, e)
	if b.frameLog != nil {
		if cerr := b.frameLog.CloseExperiment(e.Index); cerr != nil && err == nil {
			err = fmt.Errorf("frame log: %w", cerr)
		}
	}
	if err != nil {
		if b.metrics != nil {
			b.metrics.ObserveFailure()
		}
		if b.console != nil && !errors.Is(err, context.Canceled) {
			b.console.Failed(e.Index, err)
		}
		return res, err
	}

	if b.metrics != nil {
		b.metrics.Observe(res)
	}
	if b.index != nil {
		if err := b.index.RecordExperiment(ctx, res); err != nil {
			return res, fmt.Errorf("experiment %d: index: %w", e.Index, err)
		}
	}
	if b.console != nil {
		b.console.Finished(res)
	}
	log.Info("experiment finished",
		"frames", res.Frames,
		"placed", len(res.Placements),
		"rejected", res.Rejected,
		"stabilized", res.Stabilized,
		"duration", res.Duration)
	return res, nil
}

//Close releases the outputs, calling it again is a no-op
func (b *batch) Close() error {
	var errs []error
	if b.frameLog != nil {
		errs = append(errs, b.frameLog.Close())
		b.frameLog = nil
	}
	if b.index != nil {
		errs = append(errs, b.index.Close())
		b.index = nil
	}
	return errors.Join(errs...)
}
