package universe

import "fmt"

//ConfigError reports parameters that make an experiment impossible to start
type ConfigError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

//SinkError wraps a failure returned by a Sink, it aborts the rest of the experiment
type SinkError struct {
	Experiment int
	Step       int
	Err        error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("experiment %d step %d: sink: %v", e.Experiment, e.Step, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

//ValidateField checks the field generator parameters
func ValidateField(rows int, cols int, numAdders int) error {
	if rows < AdderRows {
		return &ConfigError{"rows", rows, fmt.Sprintf("must be at least %d to fit a half-adder", AdderRows)}
	}
	if cols < AdderCols {
		return &ConfigError{"cols", cols, fmt.Sprintf("must be at least %d to fit a half-adder", AdderCols)}
	}
	if numAdders < 0 {
		return &ConfigError{"num_adders", numAdders, "must not be negative"}
	}
	return nil
}

//ValidateMaxSteps checks the simulation bound
func ValidateMaxSteps(maxSteps int) error {
	if maxSteps < 0 {
		return &ConfigError{"max_steps", maxSteps, "must not be negative"}
	}
	return nil
}
