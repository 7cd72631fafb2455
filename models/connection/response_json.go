package connection

import (
	mb "github.com/saeidalz13/battleship-placement/models/battleship"
)

type RespSessionId struct {
	SessionID string `json:"session_id" msgpack:"session_id"`
}

type RespView struct {
	PlacementUuid string  `json:"placement_uuid" msgpack:"placement_uuid"`
	View          mb.View `json:"view" msgpack:"view"`
}

type RespSubmitted struct {
	PlacementUuid string   `json:"placement_uuid" msgpack:"placement_uuid"`
	Fleet         mb.Fleet `json:"fleet" msgpack:"fleet"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty" msgpack:"error_details,omitempty"`
	Message      string `json:"message,omitempty" msgpack:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
