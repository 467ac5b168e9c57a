package universe

import "time"

/*
	Engine owns the field of one experiment and advances it with two buffers
	All cells state is calculated from the current buffer into the spare one and the buffers are swapped,
	so a cell is never read after it was advanced within the same step
*/
type Engine struct {
	area    Area
	tmpBuff Area
	state   Status
}

//Status represents the state of the Engine after the last step
type Status struct {
	IterationNum  int
	Heads         int
	Tails         int
	IterationTime time.Duration
}

//NewEngine takes ownership of the initial area, the caller must not mutate it afterwards
func NewEngine(initial Area) *Engine {
	e := &Engine{
		area:    initial,
		tmpBuff: createArea(initial.Rows, initial.Cols),
	}
	e.state.Heads = initial.Count(ElectronHead)
	e.state.Tails = initial.Count(ElectronTail)
	return e
}

//Area returns the current field, it is only valid until the next Step
func (e *Engine) Area() Area {
	return e.area
}

//Status returns the engine status
func (e *Engine) Status() Status {
	return e.state
}

//Step does one simultaneous update of the entire field
//changed reports whether the new field differs from the previous one
func (e *Engine) Step() (changed bool) {
	start := time.Now()
	heads, tails := 0, 0
	for x := range e.area.Entities {
		for y := range e.area.Entities[x] {
			nextState := NextState(e.area, x, y)
			switch nextState {
			case ElectronHead:
				heads++
			case ElectronTail:
				tails++
			}
			changed = changed || nextState != e.area.Entities[x][y]
			e.tmpBuff.Entities[x][y] = nextState
		}
	}
	e.area, e.tmpBuff = e.tmpBuff, e.area

	e.state.IterationNum++
	e.state.Heads = heads
	e.state.Tails = tails
	e.state.IterationTime = time.Since(start)
	return
}
