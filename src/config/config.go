package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"wireworld/src/universe"
)

//Options represents the configurable options of an experiment batch
type Options struct {
	NumTests    int           `yaml:"num_tests"`
	Rows        int           `yaml:"rows"`
	Cols        int           `yaml:"cols"`
	NumAdders   int           `yaml:"num_adders"`
	MaxSteps    int           `yaml:"max_steps"`
	OutputDir   string        `yaml:"output_dir"`
	Seed        uint64        `yaml:"seed"`
	Workers     int           `yaml:"workers"`
	Scale       int           `yaml:"scale"`
	Interactive bool          `yaml:"interactive"`
	Interval    time.Duration `yaml:"interval"`
	FrameLog    bool          `yaml:"frame_log"`
	Index       bool          `yaml:"index"`
	Metrics     bool          `yaml:"metrics"`
	LogLevel    string        `yaml:"log_level"`
}

//default options
const (
	DefNumTests  = 10
	DefRows      = 128
	DefCols      = 128
	DefNumAdders = 10
	DefMaxSteps  = 150
	DefOutputDir = "./wwca_experiment"
	DefSeed      = 13374269
	DefWorkers   = 1
	DefScale     = 20
	DefInterval  = time.Millisecond * 100
	DefLogLevel  = "info"

	//MaxSeed keeps seeds inside the 32 bit range accepted by earlier runs
	MaxSeed = 1<<32 - 2
)

var DefaultOptions = Options{
	NumTests:  DefNumTests,
	Rows:      DefRows,
	Cols:      DefCols,
	NumAdders: DefNumAdders,
	MaxSteps:  DefMaxSteps,
	OutputDir: DefOutputDir,
	Seed:      DefSeed,
	Workers:   DefWorkers,
	Scale:     DefScale,
	Interval:  DefInterval,
	LogLevel:  DefLogLevel,
}

//Load reads options from a yaml file, fields missing from the file keep their defaults
func Load(path string) (Options, error) {
	o := DefaultOptions
	raw, err := os.ReadFile(path)
	if err != nil {
		return o, err
	}
	if err := yaml.Unmarshal(raw, &o); err != nil {
		return o, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}

//Merge fills every option still at its default with the value from file
//so flags given on the command line win over the config file
func (o *Options) Merge(file Options) {
	d := DefaultOptions
	if o.NumTests == d.NumTests {
		o.NumTests = file.NumTests
	}
	if o.Rows == d.Rows {
		o.Rows = file.Rows
	}
	if o.Cols == d.Cols {
		o.Cols = file.Cols
	}
	if o.NumAdders == d.NumAdders {
		o.NumAdders = file.NumAdders
	}
	if o.MaxSteps == d.MaxSteps {
		o.MaxSteps = file.MaxSteps
	}
	if o.OutputDir == d.OutputDir {
		o.OutputDir = file.OutputDir
	}
	if o.Seed == d.Seed {
		o.Seed = file.Seed
	}
	if o.Workers == d.Workers {
		o.Workers = file.Workers
	}
	if o.Scale == d.Scale {
		o.Scale = file.Scale
	}
	if o.Interval == d.Interval {
		o.Interval = file.Interval
	}
	if o.LogLevel == d.LogLevel {
		o.LogLevel = file.LogLevel
	}
	o.Interactive = o.Interactive || file.Interactive
	o.FrameLog = o.FrameLog || file.FrameLog
	o.Index = o.Index || file.Index
	o.Metrics = o.Metrics || file.Metrics
}

//Validate checks the options before any experiment is started
func (o Options) Validate() error {
	if o.NumTests < 1 {
		return &universe.ConfigError{Field: "num_tests", Value: o.NumTests, Reason: "at least one experiment is required"}
	}
	if o.Seed < 1 || o.Seed > MaxSeed {
		return &universe.ConfigError{Field: "seed", Value: o.Seed, Reason: fmt.Sprintf("must be between 1 and %d", uint64(MaxSeed))}
	}
	if o.OutputDir == "" {
		return &universe.ConfigError{Field: "output_dir", Value: `""`, Reason: "must not be empty"}
	}
	if o.Workers < 1 {
		return &universe.ConfigError{Field: "workers", Value: o.Workers, Reason: "must be at least 1"}
	}
	if o.Scale < 1 {
		return &universe.ConfigError{Field: "scale", Value: o.Scale, Reason: "must be at least 1"}
	}
	if _, err := o.Level(); err != nil {
		return &universe.ConfigError{Field: "log_level", Value: o.LogLevel, Reason: err.Error()}
	}
	return o.Experiment(0).Validate()
}

//Experiment returns the parameters of the experiment with the given index
func (o Options) Experiment(index int) universe.Experiment {
	return universe.Experiment{
		Index:     index,
		Rows:      o.Rows,
		Cols:      o.Cols,
		NumAdders: o.NumAdders,
		MaxSteps:  o.MaxSteps,
		Seed:      o.Seed,
	}
}

//Level parses the log level name
func (o Options) Level() (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(o.LogLevel))
	return l, err
}
