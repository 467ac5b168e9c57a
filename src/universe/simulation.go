package universe

//Simulation is the lazy, finite snapshot sequence of one field
//step i yields the field before transition i is applied, the first snapshot is the initial field.
//The sequence ends after maxSteps snapshots or as soon as a transition leaves the field unchanged;
//the repeated field is not yielded. An exhausted Simulation stays exhausted.
type Simulation struct {
	engine   *Engine
	maxSteps int
	step     int
	done     bool
}

//NewSimulation starts a simulation over initial, which it takes ownership of
func NewSimulation(initial Area, maxSteps int) *Simulation {
	return &Simulation{engine: NewEngine(initial), maxSteps: maxSteps}
}

//Next returns the next snapshot and its step index, ok is false once the sequence is over.
//The snapshot is a view of the engine buffer: it must not be modified and is only valid
//until the following call to Next, Clone it to keep it.
func (s *Simulation) Next() (step int, snapshot Area, ok bool) {
	if s.done {
		return 0, Area{}, false
	}
	if s.step >= s.maxSteps {
		s.done = true
		return 0, Area{}, false
	}
	if s.step > 0 && !s.engine.Step() {
		s.done = true
		return 0, Area{}, false
	}
	step = s.step
	s.step++
	return step, s.engine.Area(), true
}

//Done reports whether the sequence is exhausted
func (s *Simulation) Done() bool {
	return s.done
}

//Stabilized reports whether the sequence ended because the field stopped changing
func (s *Simulation) Stabilized() bool {
	return s.done && s.step < s.maxSteps
}

//Status returns the status of the underlying engine
func (s *Simulation) Status() Status {
	return s.engine.Status()
}
