package connection

const (
	CodeSessionID uint8 = iota
	CodeReceivedInvalidSessionID

	// Placement events sent by the client
	CodeHover
	CodeLeaveBoard
	CodeToggleOrientation
	CodeCommit
	CodeSelectShip
	CodeResetAll
	CodeSubmit

	// Ask for the current view without changing anything
	CodeView

	// Fleet accepted by the game-start service
	CodeSubmitted
	CodeFleetIncomplete
	CodeSubmitFailed

	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent
	CodeInvalidPayload
)

type Signal struct {
	Code uint8 `json:"code"`
}

func NewSignal(code uint8) Signal {
	return Signal{Code: code}
}
