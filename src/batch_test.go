package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wireworld/src/config"
	"wireworld/src/logging"
	"wireworld/src/output"
	"wireworld/src/universe"
	"wireworld/src/view"
)

func newTestOptions(t testing.TB, workers int) config.Options {
	o := config.DefaultOptions
	o.OutputDir = t.TempDir()
	o.NumTests = 3
	o.Rows = 48
	o.Cols = 60
	o.NumAdders = 4
	o.MaxSteps = 20
	o.Scale = 1
	o.Workers = workers
	o.FrameLog = true
	o.Index = true
	o.Metrics = true
	return o
}

func runTestBatch(t testing.TB, o config.Options, out *bytes.Buffer) ([]universe.Result, error) {
	b, err := newBatch(o, logging.NewNop(), view.NewConsoleOut(out, false, 10))
	require.NoError(t, err)
	defer b.Close()
	return b.run(context.Background())
}

func TestBatch_WritesOutputs(t *testing.T) {
	o := newTestOptions(t, 2)
	var out bytes.Buffer
	results, err := runTestBatch(t, o, &out)
	require.NoError(t, err)
	require.Len(t, results, o.NumTests)

	for i, res := range results {
		assert.Equal(t, i, res.Experiment.Index)
		require.Positive(t, res.Frames)
		for step := 0; step < res.Frames; step++ {
			assert.FileExists(t, output.FramePath(o.OutputDir, i, step))
		}
		assert.NoFileExists(t, output.FramePath(o.OutputDir, i, res.Frames))

		frames, err := output.ReadFrames(output.FrameLogPath(o.OutputDir, i))
		require.NoError(t, err)
		assert.Len(t, frames, res.Frames)
	}
	assert.FileExists(t, filepath.Join(o.OutputDir, "metrics.prom"))
	assert.Contains(t, out.String(), "Finished experiment #2")

	ix, err := output.OpenIndex(filepath.Join(o.OutputDir, "index.db"))
	require.NoError(t, err)
	defer ix.Close()
	rows, err := ix.Experiments(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, o.NumTests)
}

func TestBatch_IndependentOfWorkers(t *testing.T) {
	serial := newTestOptions(t, 1)
	parallel := newTestOptions(t, 3)
	_, err := runTestBatch(t, serial, &bytes.Buffer{})
	require.NoError(t, err)
	_, err = runTestBatch(t, parallel, &bytes.Buffer{})
	require.NoError(t, err)

	for i := 0; i < serial.NumTests; i++ {
		a, err := output.ReadFrames(output.FrameLogPath(serial.OutputDir, i))
		require.NoError(t, err)
		b, err := output.ReadFrames(output.FrameLogPath(parallel.OutputDir, i))
		require.NoError(t, err)
		assert.Equal(t, a, b, "experiment %d", i)
	}
}

func TestBatch_SinkFailure(t *testing.T) {
	o := newTestOptions(t, 1)
	o.FrameLog = false
	//a file where the frames of the second experiment should go
	require.NoError(t, os.WriteFile(filepath.Join(o.OutputDir, "test1"), nil, 0644))

	var out bytes.Buffer
	_, err := runTestBatch(t, o, &out)
	require.Error(t, err)
	var se *universe.SinkError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Experiment)
	assert.Equal(t, 0, se.Step)
	assert.Contains(t, out.String(), "Failed experiment #1")
}

func Benchmark_Batch(b *testing.B) {
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		o := newTestOptions(b, 4)
		o.FrameLog, o.Index = false, false
		b.StartTimer()
		_, err := runTestBatch(b, o, &bytes.Buffer{})
		require.NoError(b, err)
	}
}
