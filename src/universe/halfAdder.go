package universe

//footprint of a half-adder, also the minimum distance between two anchors
const (
	AdderRows = 15
	AdderCols = 20
)

//Offset is a cell position relative to the placement anchor
type Offset struct {
	DX int
	DY int
}

//HalfAdder is the wiring template stamped at every accepted placement
var HalfAdder = struct {
	Conductors [24]Offset
	InputA     Offset
	InputB     Offset
}{
	Conductors: [24]Offset{
		{2, 5}, {2, 6}, {2, 7}, {4, 5}, {4, 6}, {4, 7},
		{3, 8}, {3, 9}, {3, 10}, {3, 11}, {4, 8}, {4, 9}, {4, 10}, {4, 11},
		{5, 8}, {5, 9}, {5, 10}, {5, 11}, {6, 12}, {6, 13}, {6, 14},
		{7, 15}, {7, 16}, {7, 17},
	},
	InputA: Offset{2, 5},
	InputB: Offset{4, 5},
}

//Placement is the anchor of one stamped half-adder and its logical inputs
type Placement struct {
	X      int
	Y      int
	InputA bool
	InputB bool
}

//Overlaps reports whether the bounding boxes of two placements intersect
func (p Placement) Overlaps(o Placement) bool {
	return abs(p.X-o.X) < AdderRows && abs(p.Y-o.Y) < AdderCols
}

//Field is a generated initial area together with the placements it was built from
type Field struct {
	Area       Area
	Placements []Placement
	Attempts   int
}

//Rejected returns the number of placement attempts discarded for overlapping
func (f Field) Rejected() int {
	return f.Attempts - len(f.Placements)
}

//GenerateField builds a rows x cols field with up to numAdders half-adders
//every attempt draws one anchor; an anchor overlapping an accepted placement is dropped without retry,
//so numAdders is an upper bound and the outcome depends only on the rng draw order
func GenerateField(rows int, cols int, numAdders int, rng *RNG) (Field, error) {
	if err := ValidateField(rows, cols, numAdders); err != nil {
		return Field{}, err
	}
	f := Field{
		Area:       createArea(rows, cols),
		Placements: make([]Placement, 0, numAdders),
		Attempts:   numAdders,
	}
	for i := 0; i < numAdders; i++ {
		p := Placement{
			X: rng.IntRange(0, rows-AdderRows),
			Y: rng.IntRange(0, cols-AdderCols),
		}
		if f.overlaps(p) {
			continue
		}
		for _, o := range HalfAdder.Conductors {
			f.Area.Set(p.X+o.DX, p.Y+o.DY, Conductor)
		}
		if p.InputA = rng.Bool(); p.InputA {
			f.Area.Set(p.X+HalfAdder.InputA.DX, p.Y+HalfAdder.InputA.DY, ElectronHead)
		}
		if p.InputB = rng.Bool(); p.InputB {
			f.Area.Set(p.X+HalfAdder.InputB.DX, p.Y+HalfAdder.InputB.DY, ElectronHead)
		}
		f.Placements = append(f.Placements, p)
	}
	return f, nil
}

func (f Field) overlaps(p Placement) bool {
	for _, accepted := range f.Placements {
		if accepted.Overlaps(p) {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
