package universe

import "fmt"

//Cell is the state of one Wireworld cell
type Cell uint8

const (
	Empty Cell = iota
	Conductor
	ElectronHead
	ElectronTail
)

//NumStates is the number of distinct cell states
const NumStates = 4

var cellNames = [NumStates]string{"empty", "conductor", "head", "tail"}

func (c Cell) String() string {
	if int(c) < len(cellNames) {
		return cellNames[c]
	}
	return fmt.Sprintf("Cell(%d)", uint8(c))
}

//Area is the dense rows x cols field, Entities[x][y] holds the cell at row x, column y
type Area struct {
	Rows     int
	Cols     int
	Entities [][]Cell
}

//NewArea allocates an all-empty area
func NewArea(rows int, cols int) Area {
	return createArea(rows, cols)
}

//Valid reports whether x, y addresses a cell of the area
func (a Area) Valid(x int, y int) bool {
	return x >= 0 && y >= 0 && x < a.Rows && y < a.Cols
}

//At returns the cell at x, y, cells outside the area read as Empty
func (a Area) At(x int, y int) Cell {
	if !a.Valid(x, y) {
		return Empty
	}
	return a.Entities[x][y]
}

//Set places the cell at x, y, coordinates outside the area are ignored
func (a Area) Set(x int, y int, c Cell) {
	if !a.Valid(x, y) {
		return
	}
	a.Entities[x][y] = c
}

//Equal compares two areas cell by cell
func (a Area) Equal(b Area) bool {
	if a.Rows != b.Rows || a.Cols != b.Cols {
		return false
	}
	for x := range a.Entities {
		for y, c := range a.Entities[x] {
			if b.Entities[x][y] != c {
				return false
			}
		}
	}
	return true
}

//Clone returns a deep copy of the area
func (a Area) Clone() Area {
	c := createArea(a.Rows, a.Cols)
	c.copyFrom(a)
	return c
}

//Count returns the number of cells in the given state
func (a Area) Count(state Cell) int {
	n := 0
	a.walk(func(_ int, _ int, c Cell) {
		if c == state {
			n++
		}
	})
	return n
}

//String renders the area with one digit per cell, rows separated by newlines
func (a Area) String() string {
	b := make([]byte, 0, a.Rows*(a.Cols+1))
	for x := range a.Entities {
		if x != 0 {
			b = append(b, '\n')
		}
		for _, c := range a.Entities[x] {
			b = append(b, '0'+byte(c))
		}
	}
	return string(b)
}

func (a Area) copyFrom(src Area) {
	for x := range a.Entities {
		copy(a.Entities[x], src.Entities[x])
	}
}

//walk calls the cb function for each cell in row-major order
func (a Area) walk(cb func(x int, y int, c Cell)) {
	for x := range a.Entities {
		for y := range a.Entities[x] {
			cb(x, y, a.Entities[x][y])
		}
	}
}

//createArea allocates the rows over a single backing slice
func createArea(rows int, cols int) Area {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	area := Area{Rows: rows, Cols: cols, Entities: make([][]Cell, rows)}
	b := make([]Cell, rows*cols)
	for i := range area.Entities {
		start := cols * i
		area.Entities[i] = b[start : start+cols : start+cols]
	}
	return area
}
