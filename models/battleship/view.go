package battleship

const (
	ShipButtonResetLabel = "Reset"
)

type ShipStatus struct {
	Kind   ShipKind `json:"kind" msgpack:"kind"`
	Name   string   `json:"name" msgpack:"name"`
	Length int      `json:"length" msgpack:"length"`
	Placed bool     `json:"placed" msgpack:"placed"`
	Label  string   `json:"label" msgpack:"label"`
}

// View is everything a client needs to draw the placement screen.
// It is derived from the state and never stored.
type View struct {
	Cells             [BoardCells]CellState `json:"cells" msgpack:"cells"`
	SelectedKind      ShipKind              `json:"selected_kind" msgpack:"selected_kind"`
	Orientation       Orientation           `json:"vertical" msgpack:"vertical"`
	OrientationToggle string                `json:"orientation_toggle" msgpack:"orientation_toggle"`
	Ships             []ShipStatus          `json:"ships" msgpack:"ships"`
	FleetComplete     bool                  `json:"fleet_complete" msgpack:"fleet_complete"`
}

func DeriveView(fleet Fleet, candidate Candidate) View {
	view := View{
		SelectedKind:      candidate.Kind,
		Orientation:       candidate.Orientation,
		OrientationToggle: "Switch to " + candidate.Orientation.Toggle().String(),
		Ships:             make([]ShipStatus, 0, FleetSize),
		FleetComplete:     fleet.IsComplete(),
	}

	legal := IsLegal(candidate, fleet)
	highlighted := indexSet(OccupiedCells(candidate))
	sameRow := indexSet(SameRowCells(candidate))
	occupied := fleet.OccupiedCells()

	for idx := 0; idx < BoardCells; idx++ {
		_, isShip := occupied[idx]
		_, isHighlighted := highlighted[idx]
		_, isSameRow := sameRow[idx]

		switch {
		case isShip:
			view.Cells[idx] = CellStateShip
		case isHighlighted && legal:
			view.Cells[idx] = CellStateValidPreview
		case isSameRow && !legal:
			view.Cells[idx] = CellStateInvalidPreview
		default:
			view.Cells[idx] = CellStateWater
		}
	}

	for _, kind := range ShipKindOrder {
		status := ShipStatus{
			Kind:   kind,
			Name:   kind.String(),
			Length: kind.Length(),
			Placed: fleet.IsPlaced(kind),
			Label:  kind.String(),
		}
		if status.Placed {
			status.Label = ShipButtonResetLabel
		}
		view.Ships = append(view.Ships, status)
	}

	return view
}

func indexSet(cells []int) map[int]struct{} {
	set := make(map[int]struct{}, len(cells))
	for _, idx := range cells {
		set[idx] = struct{}{}
	}
	return set
}
