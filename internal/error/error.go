package error

import (
	"errors"
	"fmt"
)

var (
	ErrSentinelPlacementNotInitialized = errors.New("placement used before initialization")
	ErrSentinelInvalidShipKind         = errors.New("invalid ship kind")
	ErrSentinelFleetIncomplete         = errors.New("fleet is not complete")
)

func ErrPlacementNotInitialized() error {
	return ErrSentinelPlacementNotInitialized
}

func ErrInvalidShipKind(kind int) error {
	return fmt.Errorf("%w: %d", ErrSentinelInvalidShipKind, kind)
}

func ErrUnknownShipName(name string) error {
	return fmt.Errorf("%w: unknown ship name %q", ErrSentinelInvalidShipKind, name)
}

func ErrFleetIncomplete(placementUuid string) error {
	return fmt.Errorf("%w, placement uuid: %s", ErrSentinelFleetIncomplete, placementUuid)
}

func ErrPlacementNotExists(placementUuid string) error {
	return fmt.Errorf("placement with this uuid does not exist, uuid: %s", placementUuid)
}

func ErrSessionNotFound(sessionId string) error {
	return fmt.Errorf("session not found, id: %s", sessionId)
}

func ErrSessionIsNil(sessionId string) error {
	return fmt.Errorf("session is nil, id: %s", sessionId)
}

func ErrSignalAbsent() error {
	return fmt.Errorf("incoming req payload must contain 'code' field")
}

func ErrShipKindMissing() error {
	return fmt.Errorf("select ship payload must contain 'ship_kind'")
}

func ErrCellIndexMissing() error {
	return fmt.Errorf("hover payload must contain 'cell_index'")
}

func ErrInvalidStage(stage string) error {
	return fmt.Errorf("invalid type of development stage: %s", stage)
}

func ErrSubmitFleetFailed(sessionId string, err error) error {
	return fmt.Errorf("failed to submit fleet for session %s: %w", sessionId, err)
}
