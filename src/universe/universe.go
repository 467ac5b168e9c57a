package universe

import "errors"

//Sink receives every snapshot of an experiment in step order
//the snapshot is only valid during the call
type Sink interface {
	Emit(experiment int, step int, snapshot Area) error
}

//SinkFunc adapts a function to the Sink interface
type SinkFunc func(experiment int, step int, snapshot Area) error

func (f SinkFunc) Emit(experiment int, step int, snapshot Area) error {
	return f(experiment, step, snapshot)
}

//MultiSink forwards each snapshot to all sinks in order and stops at the first failure
type MultiSink []Sink

func (m MultiSink) Emit(experiment int, step int, snapshot Area) error {
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Emit(experiment, step, snapshot); err != nil {
			return err
		}
	}
	return nil
}

//Discard is a Sink dropping all snapshots
var Discard Sink = SinkFunc(func(int, int, Area) error { return nil })

//IsConfigError reports whether err was caused by invalid experiment parameters
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
