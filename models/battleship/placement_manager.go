package battleship

import (
	"sync"

	cerr "github.com/saeidalz13/battleship-placement/internal/error"
)

type PlacementManager interface {
	CreatePlacement(sessionId string) *Placement
	FetchPlacement(placementUuid string) (*Placement, error)
	TerminatePlacement(placementUuid string)
	CountPlacements() int
}

// Keeps the placement of every live session.
type BattleshipPlacementManager struct {
	placements map[string]*Placement
	mu         sync.RWMutex
}

var _ PlacementManager = (*BattleshipPlacementManager)(nil)

func NewBattleshipPlacementManager() *BattleshipPlacementManager {
	return &BattleshipPlacementManager{
		placements: make(map[string]*Placement, 10),
	}
}

func (bpm *BattleshipPlacementManager) CreatePlacement(sessionId string) *Placement {
	placement := NewPlacement(sessionId)

	bpm.mu.Lock()
	bpm.placements[placement.uuid] = placement
	bpm.mu.Unlock()

	return placement
}

func (bpm *BattleshipPlacementManager) FetchPlacement(placementUuid string) (*Placement, error) {
	bpm.mu.RLock()
	placement, prs := bpm.placements[placementUuid]
	bpm.mu.RUnlock()

	if !prs {
		return nil, cerr.ErrPlacementNotExists(placementUuid)
	}
	return placement, nil
}

func (bpm *BattleshipPlacementManager) TerminatePlacement(placementUuid string) {
	bpm.mu.Lock()
	delete(bpm.placements, placementUuid)
	bpm.mu.Unlock()
}

func (bpm *BattleshipPlacementManager) CountPlacements() int {
	bpm.mu.RLock()
	defer bpm.mu.RUnlock()
	return len(bpm.placements)
}
