package api

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/saeidalz13/battleship-placement/db/sqlc"
	mb "github.com/saeidalz13/battleship-placement/models/battleship"
)

// FleetSubmitter receives finished fleets and starts the game with them.
type FleetSubmitter interface {
	SubmitFleet(ctx context.Context, placementUuid, sessionId string, fleet mb.Fleet) error
}

var (
	_ FleetSubmitter = (*sqlc.FleetManager)(nil)
	_ FleetSubmitter = (*MemoryFleetSubmitter)(nil)
)

// Used when no database is configured.
type MemoryFleetSubmitter struct {
	fleets map[string]mb.Fleet
	logger zerolog.Logger
	mu     sync.RWMutex
}

func NewMemoryFleetSubmitter(logger zerolog.Logger) *MemoryFleetSubmitter {
	return &MemoryFleetSubmitter{
		fleets: make(map[string]mb.Fleet),
		logger: logger,
	}
}

func (m *MemoryFleetSubmitter) SubmitFleet(ctx context.Context, placementUuid, sessionId string, fleet mb.Fleet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	m.fleets[placementUuid] = fleet.Clone()
	m.mu.Unlock()

	m.logger.Info().Str("placement_uuid", placementUuid).Str("session_id", sessionId).Msg("fleet submitted")
	return nil
}

func (m *MemoryFleetSubmitter) FetchFleet(placementUuid string) (mb.Fleet, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fleet, prs := m.fleets[placementUuid]
	if !prs {
		return nil, false
	}
	return fleet.Clone(), true
}
