package battleship

// Candidate is the ship currently previewed under the pointer.
type Candidate struct {
	Origin      int
	Orientation Orientation
	Kind        ShipKind
}

func NewCandidate() Candidate {
	return Candidate{
		Origin:      0,
		Orientation: OrientationHorizontal,
		Kind:        ShipKindCarrier,
	}
}

// Cells the candidate would take. Nothing is clamped here so
// the result may fall off the board or wrap into the next row.
func OccupiedCells(c Candidate) []int {
	length := c.Kind.Length()
	stride := c.Orientation.stride()

	cells := make([]int, length)
	for i := 0; i < length; i++ {
		cells[i] = c.Origin + i*stride
	}
	return cells
}

// A vertical ship only has to stay on the board. A horizontal one must also
// stay on the origin's row, otherwise it would wrap into the next row.
func InBounds(c Candidate) bool {
	cells := OccupiedCells(c)

	if c.Orientation == OrientationVertical {
		for _, idx := range cells {
			if !IsOnBoard(idx) {
				return false
			}
		}
		return true
	}

	// Integer division truncates toward zero, so -1 would
	// report row 0 without the board check.
	originRow := Row(c.Origin)
	for _, idx := range cells {
		if !IsOnBoard(idx) || Row(idx) != originRow {
			return false
		}
	}
	return true
}

func OverlapsFleet(c Candidate, fleet Fleet) bool {
	occupied := fleet.OccupiedCells()
	for _, idx := range OccupiedCells(c) {
		if _, prs := occupied[idx]; prs {
			return true
		}
	}
	return false
}

func IsLegal(c Candidate, fleet Fleet) bool {
	return InBounds(c) && !OverlapsFleet(c, fleet)
}

// Cells that may be marked as an invalid preview. For horizontal
// candidates the wrapped part in the next row is dropped.
func SameRowCells(c Candidate) []int {
	cells := OccupiedCells(c)
	if c.Orientation == OrientationVertical {
		return cells
	}

	originRow := Row(c.Origin)
	sameRow := make([]int, 0, len(cells))
	for _, idx := range cells {
		if IsOnBoard(idx) && Row(idx) == originRow {
			sameRow = append(sameRow, idx)
		}
	}
	return sameRow
}
