package battleship

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Fleet maps every ship kind to the cells it occupies.
// An empty slice means the ship is not placed yet.
type Fleet map[ShipKind][]int

func NewFleet() Fleet {
	fleet := make(Fleet, FleetSize)
	for _, kind := range ShipKindOrder {
		fleet[kind] = []int{}
	}
	return fleet
}

func (f Fleet) IsPlaced(kind ShipKind) bool {
	return len(f[kind]) != 0
}

func (f Fleet) IsComplete() bool {
	for _, kind := range ShipKindOrder {
		if !f.IsPlaced(kind) {
			return false
		}
	}
	return true
}

// Returns a set of every cell taken by a placed ship.
func (f Fleet) OccupiedCells() map[int]ShipKind {
	occupied := make(map[int]ShipKind, BoardCells)
	for kind, cells := range f {
		for _, idx := range cells {
			occupied[idx] = kind
		}
	}
	return occupied
}

// Deep copy so the receiver of a submitted fleet
// cannot mutate the session state.
func (f Fleet) Clone() Fleet {
	clone := make(Fleet, len(f))
	for kind, cells := range f {
		cp := make([]int, len(cells))
		copy(cp, cells)
		clone[kind] = cp
	}
	return clone
}

// Both codecs serialize the fleet with ship names as keys, e.g.
// {"Carrier":[0,1,2,3,4], ...}
func (f Fleet) named() map[string][]int {
	named := make(map[string][]int, len(f))
	for kind, cells := range f {
		named[kind.String()] = cells
	}
	return named
}

func fleetFromNamed(named map[string][]int) (Fleet, error) {
	fleet := NewFleet()
	for name, cells := range named {
		kind, err := ParseShipKind(name)
		if err != nil {
			return nil, err
		}
		if cells == nil {
			cells = []int{}
		}
		fleet[kind] = cells
	}
	return fleet, nil
}

func (f Fleet) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.named())
}

func (f *Fleet) UnmarshalJSON(data []byte) error {
	var named map[string][]int
	if err := json.Unmarshal(data, &named); err != nil {
		return err
	}

	fleet, err := fleetFromNamed(named)
	if err != nil {
		return err
	}
	*f = fleet
	return nil
}

func (f Fleet) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(f.named())
}

func (f *Fleet) DecodeMsgpack(dec *msgpack.Decoder) error {
	var named map[string][]int
	if err := dec.Decode(&named); err != nil {
		return err
	}

	fleet, err := fleetFromNamed(named)
	if err != nil {
		return err
	}
	*f = fleet
	return nil
}

var (
	_ msgpack.CustomEncoder = Fleet(nil)
	_ msgpack.CustomDecoder = (*Fleet)(nil)
)
