package universe

import (
	"context"
	"time"
)

//Experiment describes one independent run
type Experiment struct {
	Index     int
	Rows      int
	Cols      int
	NumAdders int
	MaxSteps  int
	Seed      uint64
}

//Validate checks the experiment parameters before any simulation work
func (e Experiment) Validate() error {
	if err := ValidateField(e.Rows, e.Cols, e.NumAdders); err != nil {
		return err
	}
	return ValidateMaxSteps(e.MaxSteps)
}

//RNG returns the random stream of the experiment, derived from the seed and the experiment index
func (e Experiment) RNG() *RNG {
	return NewRNG(e.Seed, uint64(e.Index))
}

//Result summarizes a finished (or aborted) experiment
type Result struct {
	Experiment Experiment
	Placements []Placement
	Rejected   int
	Frames     int
	Stabilized bool
	Duration   time.Duration
}

//Runner runs experiments and forwards every snapshot to its Sink
type Runner struct {
	Sink Sink
}

//NewRunner creates a Runner, a nil sink discards the snapshots
func NewRunner(sink Sink) *Runner {
	if sink == nil {
		sink = Discard
	}
	return &Runner{Sink: sink}
}

//Prepare generates the initial field of the experiment
func (r *Runner) Prepare(e Experiment) (Field, error) {
	if err := e.Validate(); err != nil {
		return Field{}, err
	}
	return GenerateField(e.Rows, e.Cols, e.NumAdders, e.RNG())
}

//Run generates the field, steps it until the bound or stabilization and emits each snapshot.
//A sink failure stops the experiment and is returned as *SinkError, a cancelled ctx stops pulling
//further snapshots. The result is filled in up to the point of failure.
func (r *Runner) Run(ctx context.Context, e Experiment) (Result, error) {
	start := time.Now()
	res := Result{Experiment: e}
	f, err := r.Prepare(e)
	if err != nil {
		return res, err
	}
	res.Placements = f.Placements
	res.Rejected = f.Rejected()

	sim := NewSimulation(f.Area, e.MaxSteps)
	for {
		if err := ctx.Err(); err != nil {
			res.Duration = time.Since(start)
			return res, err
		}
		step, snapshot, ok := sim.Next()
		if !ok {
			break
		}
		if err := r.Sink.Emit(e.Index, step, snapshot); err != nil {
			res.Duration = time.Since(start)
			return res, &SinkError{Experiment: e.Index, Step: step, Err: err}
		}
		res.Frames++
	}
	res.Stabilized = sim.Stabilized()
	res.Duration = time.Since(start)
	return res, nil
}
