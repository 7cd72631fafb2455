package battleship

import (
	cerr "github.com/saeidalz13/battleship-placement/internal/error"
)

type ShipKind uint8

const (
	ShipKindCarrier ShipKind = iota
	ShipKindBattleship
	ShipKindCruiser
	ShipKindSubmarine
	ShipKindDestroyer
)

// Number of ships in a fleet
const FleetSize = 5

// The order in which ships are offered to the player.
// Auto-advance after a commit scans this order.
var ShipKindOrder = [FleetSize]ShipKind{
	ShipKindCarrier,
	ShipKindBattleship,
	ShipKindCruiser,
	ShipKindSubmarine,
	ShipKindDestroyer,
}

var shipLengths = [FleetSize]int{
	ShipKindCarrier:    5,
	ShipKindBattleship: 4,
	ShipKindCruiser:    3,
	ShipKindSubmarine:  3,
	ShipKindDestroyer:  2,
}

var shipNames = [FleetSize]string{
	ShipKindCarrier:    "Carrier",
	ShipKindBattleship: "Battleship",
	ShipKindCruiser:    "Cruiser",
	ShipKindSubmarine:  "Submarine",
	ShipKindDestroyer:  "Destroyer",
}

func (k ShipKind) IsValid() bool {
	return k < FleetSize
}

// Length panics for a kind outside the fixed five
// since no player input can produce one.
func (k ShipKind) Length() int {
	k.mustBeValid()
	return shipLengths[k]
}

func (k ShipKind) String() string {
	if !k.IsValid() {
		return "Unknown"
	}
	return shipNames[k]
}

func (k ShipKind) mustBeValid() {
	if !k.IsValid() {
		panic(cerr.ErrInvalidShipKind(int(k)))
	}
}

// Returns the kind matching the name, case sensitive.
func ParseShipKind(name string) (ShipKind, error) {
	for _, kind := range ShipKindOrder {
		if shipNames[kind] == name {
			return kind, nil
		}
	}
	return 0, cerr.ErrUnknownShipName(name)
}
