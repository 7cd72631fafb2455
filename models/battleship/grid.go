package battleship

const (
	GridSize   int = 10
	BoardCells int = GridSize * GridSize

	// Origin used when the pointer is not over the board.
	// Every ship generated from it falls outside the grid.
	NoHoverIndex int = BoardCells
)

type Orientation bool

const (
	OrientationHorizontal Orientation = false
	OrientationVertical   Orientation = true
)

func (o Orientation) stride() int {
	if o == OrientationVertical {
		return GridSize
	}
	return 1
}

func (o Orientation) Toggle() Orientation {
	return !o
}

func (o Orientation) String() string {
	if o == OrientationVertical {
		return "Vertical"
	}
	return "Horizontal"
}

type CellState uint8

const (
	CellStateWater CellState = iota
	CellStateValidPreview
	CellStateInvalidPreview
	CellStateShip
)

func (c CellState) String() string {
	switch c {
	case CellStateValidPreview:
		return "validPreview"
	case CellStateInvalidPreview:
		return "invalidPreview"
	case CellStateShip:
		return "ship"
	default:
		return "water"
	}
}

func IsOnBoard(idx int) bool {
	return 0 <= idx && idx < BoardCells
}

// Row and Col are only meaningful for indexes on the board.
func Row(idx int) int {
	return idx / GridSize
}

func Col(idx int) int {
	return idx % GridSize
}

func CellIndex(row, col int) int {
	return row*GridSize + col
}
