package battleship

import (
	"github.com/google/uuid"
	cerr "github.com/saeidalz13/battleship-placement/internal/error"
)

// Placement holds one player's fleet while ships are being positioned.
// It is not safe for concurrent use; a session processes its events
// one at a time.
type Placement struct {
	uuid      string
	sessionId string
	fleet     Fleet
	candidate Candidate
}

func NewPlacement(sessionId string) *Placement {
	return &Placement{
		uuid:      uuid.NewString()[:8],
		sessionId: sessionId,
		fleet:     NewFleet(),
		candidate: NewCandidate(),
	}
}

func (p *Placement) Uuid() string {
	p.mustBeInitialized()
	return p.uuid
}

func (p *Placement) SessionId() string {
	p.mustBeInitialized()
	return p.sessionId
}

func (p *Placement) Candidate() Candidate {
	p.mustBeInitialized()
	return p.candidate
}

// Returns a copy of the current fleet.
func (p *Placement) Fleet() Fleet {
	p.mustBeInitialized()
	return p.fleet.Clone()
}

func (p *Placement) IsFleetComplete() bool {
	p.mustBeInitialized()
	return p.fleet.IsComplete()
}

// Legality is not checked here; the view flags an illegal preview.
func (p *Placement) Hover(idx int) {
	p.mustBeInitialized()
	p.candidate.Origin = idx
}

func (p *Placement) LeaveBoard() {
	p.mustBeInitialized()
	p.candidate.Origin = NoHoverIndex
}

func (p *Placement) ToggleOrientation() {
	p.mustBeInitialized()
	p.candidate.Orientation = p.candidate.Orientation.Toggle()
}

// Commit records the candidate in the fleet if it is legal and
// moves on to the next unplaced ship. Reports whether anything changed.
func (p *Placement) Commit() bool {
	p.mustBeInitialized()

	if p.fleet.IsComplete() {
		return false
	}
	if !IsLegal(p.candidate, p.fleet) {
		return false
	}

	committed := p.candidate.Kind
	p.fleet[committed] = OccupiedCells(p.candidate)

	if next, ok := p.nextUnplacedKind(committed); ok {
		p.candidate.Kind = next
	}
	return true
}

// Scans the fixed order starting right after `after`, wrapping to the
// front, and returns the first kind with no cells.
func (p *Placement) nextUnplacedKind(after ShipKind) (ShipKind, bool) {
	start := 0
	for rank, kind := range ShipKindOrder {
		if kind == after {
			start = rank + 1
			break
		}
	}

	for scanned := 0; scanned < FleetSize; scanned++ {
		rank := start + scanned
		if rank >= FleetSize {
			rank -= FleetSize
		}

		kind := ShipKindOrder[rank]
		if !p.fleet.IsPlaced(kind) {
			return kind, true
		}
	}
	return after, false
}

// An unplaced kind becomes the candidate. A placed kind is
// taken off the board and the candidate stays as it is.
func (p *Placement) SelectShipKind(kind ShipKind) {
	p.mustBeInitialized()
	kind.mustBeValid()

	if !p.fleet.IsPlaced(kind) {
		p.candidate.Kind = kind
		return
	}
	p.fleet[kind] = []int{}
}

// Clears every ship and goes back to the carrier.
// Pointer position and orientation are kept.
func (p *Placement) ResetAll() {
	p.mustBeInitialized()
	p.fleet = NewFleet()
	p.candidate.Kind = ShipKindCarrier
}

// Submit hands out a copy of the finished fleet.
func (p *Placement) Submit() (Fleet, error) {
	p.mustBeInitialized()

	if !p.fleet.IsComplete() {
		return nil, cerr.ErrFleetIncomplete(p.uuid)
	}
	return p.fleet.Clone(), nil
}

func (p *Placement) View() View {
	p.mustBeInitialized()
	return DeriveView(p.fleet, p.candidate)
}

func (p *Placement) mustBeInitialized() {
	if p == nil || p.fleet == nil {
		panic(cerr.ErrPlacementNotInitialized())
	}
}
