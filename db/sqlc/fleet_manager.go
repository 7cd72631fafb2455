package sqlc

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/sqlc-dev/pqtype"

	mb "github.com/saeidalz13/battleship-placement/models/battleship"
)

const (
	QuerierCtxTimeout = time.Second * 10
)

// FleetManager hands finished fleets over to the game-start
// tables and keeps the per-server submission count.
type FleetManager struct {
	queries  Querier
	serverIp pqtype.Inet
	logger   zerolog.Logger
}

func NewFleetManager(queries Querier, serverIp pqtype.Inet, logger zerolog.Logger) *FleetManager {
	return &FleetManager{
		queries:  queries,
		serverIp: serverIp,
		logger:   logger,
	}
}

// Resubmitting a placement replaces its stored fleet.
func (fm *FleetManager) SubmitFleet(ctx context.Context, placementUuid, sessionId string, fleet mb.Fleet) error {
	raw, err := json.Marshal(fleet)
	if err != nil {
		return err
	}

	row, err := fm.queries.UpsertSubmittedFleet(ctx, UpsertSubmittedFleetParams{
		PlacementUuid: placementUuid,
		SessionID:     sessionId,
		Fleet:         pqtype.NullRawMessage{RawMessage: raw, Valid: true},
		ServerIp:      fm.serverIp,
	})
	if err != nil {
		return err
	}

	// for now not failing the submission for it
	if err := fm.queries.AnalyticsIncrementFleetsSubmittedCount(ctx, fm.serverIp); err != nil {
		fm.logger.Error().Err(err).Msg("failed to increment fleets submitted count")
	}

	fm.logger.Info().
		Int64("id", row.ID).
		Str("placement_uuid", placementUuid).
		Time("created_at", row.CreatedAt).
		Msg("fleet submitted")
	return nil
}

func (fm *FleetManager) FetchSubmittedFleet(ctx context.Context, placementUuid string) (mb.Fleet, error) {
	row, err := fm.queries.GetSubmittedFleet(ctx, placementUuid)
	if err != nil {
		return nil, err
	}

	fleet := mb.NewFleet()
	if !row.Fleet.Valid {
		return fleet, nil
	}
	if err := json.Unmarshal(row.Fleet.RawMessage, &fleet); err != nil {
		return nil, err
	}
	return fleet, nil
}

func (fm *FleetManager) FleetsSubmittedCount(ctx context.Context) (int64, error) {
	return fm.queries.AnalyticsGetFleetsSubmittedCount(ctx, fm.serverIp)
}
