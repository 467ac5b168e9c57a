package universe

//NextState calculates the next state for the cell at x, y
//it reads only the given area, so a step must never pass an area it is writing to
func NextState(a Area, x int, y int) Cell {
	switch a.Entities[x][y] {
	case ElectronHead:
		return ElectronTail
	case ElectronTail:
		return Conductor
	case Conductor:
		if heads := countHeads(a, x, y); heads == 1 || heads == 2 {
			return ElectronHead
		}
		return Conductor
	}
	return Empty
}

//countHeads counts electron heads in the Moore neighbourhood of x, y
//neighbours outside the area do not contribute, there is no wraparound
func countHeads(a Area, x int, y int) int {
	heads := 0
	for i := -1; i < 2; i++ {
		for j := -1; j < 2; j++ {
			//skip my position
			if i == 0 && j == 0 {
				continue
			}
			nx := x + i
			ny := y + j
			//skip coordinates outside the area
			if nx < 0 || ny < 0 || nx >= a.Rows || ny >= a.Cols {
				continue
			}
			if a.Entities[nx][ny] == ElectronHead {
				heads++
			}
		}
	}
	return heads
}
