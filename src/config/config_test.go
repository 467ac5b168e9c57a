package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wireworld/src/universe"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wireworld.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
num_tests: 3
rows: 64
cols: 80
interval: 250ms
frame_log: true
`)
	o, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, o.NumTests)
	assert.Equal(t, 64, o.Rows)
	assert.Equal(t, 80, o.Cols)
	assert.Equal(t, 250*time.Millisecond, o.Interval)
	assert.True(t, o.FrameLog)
	//untouched fields keep their defaults
	assert.Equal(t, DefMaxSteps, o.MaxSteps)
	assert.Equal(t, uint64(DefSeed), o.Seed)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "rows: [1, 2"))
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	file := DefaultOptions
	file.Rows = 40
	file.Seed = 42
	file.Index = true

	flags := DefaultOptions
	flags.Seed = 7
	flags.Merge(file)

	assert.Equal(t, 40, flags.Rows, "file fills options left at default")
	assert.Equal(t, uint64(7), flags.Seed, "explicit flag wins")
	assert.True(t, flags.Index)
	assert.Equal(t, DefCols, flags.Cols)
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultOptions.Validate())

	cases := map[string]func(o *Options){
		"num_tests":  func(o *Options) { o.NumTests = 0 },
		"seed":       func(o *Options) { o.Seed = 0 },
		"output_dir": func(o *Options) { o.OutputDir = "" },
		"workers":    func(o *Options) { o.Workers = 0 },
		"scale":      func(o *Options) { o.Scale = -1 },
		"log_level":  func(o *Options) { o.LogLevel = "loud" },
		"rows":       func(o *Options) { o.Rows = 14 },
		"cols":       func(o *Options) { o.Cols = 19 },
		"num_adders": func(o *Options) { o.NumAdders = -2 },
		"max_steps":  func(o *Options) { o.MaxSteps = -1 },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			o := DefaultOptions
			mutate(&o)
			err := o.Validate()
			var ce *universe.ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, field, ce.Field)
		})
	}

	o := DefaultOptions
	o.Seed = MaxSeed + 1
	assert.True(t, universe.IsConfigError(o.Validate()))
}

func TestLevel(t *testing.T) {
	o := DefaultOptions
	o.LogLevel = "debug"
	l, err := o.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)
}

func TestExperiment(t *testing.T) {
	e := DefaultOptions.Experiment(4)
	assert.Equal(t, universe.Experiment{
		Index:     4,
		Rows:      DefRows,
		Cols:      DefCols,
		NumAdders: DefNumAdders,
		MaxSteps:  DefMaxSteps,
		Seed:      DefSeed,
	}, e)
}
