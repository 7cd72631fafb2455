package api

import (
	"context"
	"errors"

	cerr "github.com/saeidalz13/battleship-placement/internal/error"
	mb "github.com/saeidalz13/battleship-placement/models/battleship"
	mc "github.com/saeidalz13/battleship-placement/models/connection"
)

// Every incoming request that needs its payload decoded
// goes through Request. Validation happens here so the
// placement only ever sees well formed input.
type Request struct {
	payload []byte
}

func NewRequest(payload ...[]byte) Request {
	if len(payload) == 0 {
		return Request{}
	}
	return Request{payload: payload[0]}
}

func invalidPayload(err error) *mc.Message[mc.NoPayload] {
	msg := mc.NewMessage[mc.NoPayload](mc.CodeInvalidPayload)
	msg.AddError(err.Error(), "invalid payload")
	return &msg
}

func (r Request) HandleHover(placement *mb.Placement) *mc.Message[mc.NoPayload] {
	req, err := decodePayload[mc.ReqHover](r.payload)
	if err != nil {
		return invalidPayload(err)
	}
	if req.CellIndex == nil {
		return invalidPayload(cerr.ErrCellIndexMissing())
	}

	placement.Hover(*req.CellIndex)
	return nil
}

func (r Request) HandleSelectShip(placement *mb.Placement) *mc.Message[mc.NoPayload] {
	req, err := decodePayload[mc.ReqSelectShip](r.payload)
	if err != nil {
		return invalidPayload(err)
	}
	if req.ShipKind == nil {
		return invalidPayload(cerr.ErrShipKindMissing())
	}

	kind := mb.ShipKind(*req.ShipKind)
	if !kind.IsValid() {
		return invalidPayload(cerr.ErrInvalidShipKind(int(*req.ShipKind)))
	}

	placement.SelectShipKind(kind)
	return nil
}

// Returns the message to send back: the submitted fleet on success,
// otherwise an error message explaining why nothing was submitted.
func (r Request) HandleSubmit(ctx context.Context, submitter FleetSubmitter, placement *mb.Placement) interface{} {
	fleet, err := placement.Submit()
	if err != nil {
		msg := mc.NewMessage[mc.NoPayload](mc.CodeFleetIncomplete)
		if errors.Is(err, cerr.ErrSentinelFleetIncomplete) {
			msg.AddError(err.Error(), "place every ship before submitting")
		} else {
			msg.AddError(err.Error(), "")
		}
		return msg
	}

	if err := submitter.SubmitFleet(ctx, placement.Uuid(), placement.SessionId(), fleet); err != nil {
		msg := mc.NewMessage[mc.NoPayload](mc.CodeSubmitFailed)
		msg.AddError(cerr.ErrSubmitFleetFailed(placement.SessionId(), err).Error(), "could not start the game, try again")
		return msg
	}

	msg := mc.NewMessage[mc.RespSubmitted](mc.CodeSubmitted)
	msg.AddPayload(mc.RespSubmitted{PlacementUuid: placement.Uuid(), Fleet: fleet})
	return msg
}
