package universe

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//areaFromRows builds an area from digit strings, one string per row
func areaFromRows(t testing.TB, rows ...string) Area {
	t.Helper()
	require.NotEmpty(t, rows)
	a := NewArea(len(rows), len(rows[0]))
	for x, r := range rows {
		require.Len(t, r, a.Cols)
		for y, ch := range r {
			c := Cell(ch - '0')
			require.Less(t, int(c), NumStates, "bad cell %q", ch)
			a.Entities[x][y] = c
		}
	}
	return a
}

func TestNextState_WorkedExample(t *testing.T) {
	a := NewArea(5, 5)
	a.Set(2, 2, Conductor)
	a.Set(1, 2, ElectronHead)
	a.Set(2, 1, ElectronHead)

	e := NewEngine(a.Clone())
	require.True(t, e.Step())
	next := e.Area()

	assert.Equal(t, ElectronHead, next.At(2, 2))
	assert.Equal(t, ElectronTail, next.At(1, 2))
	assert.Equal(t, ElectronTail, next.At(2, 1))
	next.walk(func(x int, y int, c Cell) {
		if (x == 2 && y == 2) || (x == 1 && y == 2) || (x == 2 && y == 1) {
			return
		}
		assert.Equal(t, Empty, c, "cell (%d,%d)", x, y)
	})
}

func TestNextState_Totality(t *testing.T) {
	neighbours := [][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 2}, {2, 0}, {2, 1}, {2, 2}}
	for state := Cell(0); state < NumStates; state++ {
		for heads := 0; heads <= 8; heads++ {
			t.Run(fmt.Sprintf("%v with %d heads", state, heads), func(t *testing.T) {
				a := NewArea(3, 3)
				for i, n := range neighbours {
					if i < heads {
						a.Set(n[0], n[1], ElectronHead)
					} else {
						a.Set(n[0], n[1], Conductor)
					}
				}
				a.Set(1, 1, state)

				want := map[Cell]Cell{
					Empty:        Empty,
					ElectronHead: ElectronTail,
					ElectronTail: Conductor,
					Conductor:    Conductor,
				}[state]
				if state == Conductor && (heads == 1 || heads == 2) {
					want = ElectronHead
				}
				assert.Equal(t, want, NextState(a, 1, 1))
			})
		}
	}
}

func TestNextState_NoWraparound(t *testing.T) {
	a := areaFromRows(t,
		"100",
		"000",
		"002",
	)
	assert.Equal(t, 0, countHeads(a, 0, 0))
	assert.Equal(t, Conductor, NextState(a, 0, 0))

	edge := areaFromRows(t,
		"12",
		"00",
	)
	assert.Equal(t, 1, countHeads(edge, 0, 0))
	assert.Equal(t, ElectronHead, NextState(edge, 0, 0))
}

func TestNextState_ThreeHeadsBlock(t *testing.T) {
	a := areaFromRows(t,
		"222",
		"010",
	)
	assert.Equal(t, 3, countHeads(a, 1, 1))
	assert.Equal(t, Conductor, NextState(a, 1, 1))
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "empty", Empty.String())
	assert.Equal(t, "conductor", Conductor.String())
	assert.Equal(t, "head", ElectronHead.String())
	assert.Equal(t, "tail", ElectronTail.String())
	assert.Equal(t, "Cell(9)", Cell(9).String())
}
