package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/saeidalz13/battleship-placement/db/sqlc"
	mb "github.com/saeidalz13/battleship-placement/models/battleship"
	mc "github.com/saeidalz13/battleship-placement/models/connection"
)

const (
	URLQuerySessionIDKeyword string = "sessionID"
	URLQueryCodecKeyword     string = "codec"
)

type RequestProcessor struct {
	sessionManager   mc.SessionManager
	placementManager mb.PlacementManager
	submitter        FleetSubmitter
	upgrader         websocket.Upgrader
	logger           zerolog.Logger
}

type Option func(*RequestProcessor)

func NewRequestProcessor(
	sessionManager mc.SessionManager,
	placementManager mb.PlacementManager,
	optFuncs ...Option,
) *RequestProcessor {
	rp := &RequestProcessor{
		sessionManager:   sessionManager,
		placementManager: placementManager,
		logger:           zerolog.Nop(),
		upgrader: websocket.Upgrader{
			// good average time since this is not a high-latency operation such as video streaming
			HandshakeTimeout: time.Second * 5,

			// a view frame is well below this
			ReadBufferSize:  2048,
			WriteBufferSize: 2048,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	for _, opt := range optFuncs {
		opt(rp)
	}

	if rp.submitter == nil {
		rp.submitter = NewMemoryFleetSubmitter(rp.logger)
	}
	return rp
}

func WithFleetSubmitter(submitter FleetSubmitter) Option {
	return func(rp *RequestProcessor) {
		rp.submitter = submitter
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(rp *RequestProcessor) {
		rp.logger = logger
	}
}

// Only the listed origins may open a socket. An empty list accepts any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(rp *RequestProcessor) {
		if len(origins) == 0 {
			return
		}

		allowed := make(map[string]bool, len(origins))
		for _, origin := range origins {
			allowed[origin] = true
		}
		rp.upgrader.CheckOrigin = func(r *http.Request) bool {
			return allowed[r.Header.Get("Origin")]
		}
	}
}

func (rp *RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// use Upgrade method to make a websocket connection
	conn, err := rp.upgrader.Upgrade(w, r, nil)
	if err != nil {
		rp.logger.Error().Err(err).Msg("could not open websocket connection")
		return
	}

	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	switch sessionIdQuery {
	case "":
		session := rp.sessionManager.GenerateNewSession(conn, r.URL.Query().Get(URLQueryCodecKeyword))
		session.SetPlacement(rp.placementManager.CreatePlacement(session.Id()))

		rp.logger.Info().
			Str("remote_addr", conn.RemoteAddr().String()).
			Str("session_id", session.Id()).
			Msg("a new connection established")
		rp.processSessionRequests(session)

	default:
		// The loop of the original connection picks the new one up
		if _, err := rp.sessionManager.ReconnectSession(sessionIdQuery, conn); err != nil {
			// This either means an expired session or invalid session ID
			_ = conn.WriteJSON(mc.NewMessage[mc.NoPayload](mc.CodeReceivedInvalidSessionID))
			conn.Close()
		}
	}
}

func (rp *RequestProcessor) processSessionRequests(session *mc.Session) {
	placement := session.Placement()
	sessionId := session.Id()
	log := rp.logger.With().Str("session_id", sessionId).Str("placement_uuid", placement.Uuid()).Logger()

	defer func() {
		rp.placementManager.TerminatePlacement(placement.Uuid())
		if conn := session.Conn(); conn != nil {
			conn.Close()
		}
		rp.sessionManager.TerminateSession(sessionId)
		log.Info().Msg("session closed")
	}()

	respSessionId := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	respSessionId.AddPayload(mc.RespSessionId{SessionID: sessionId})
	if err := rp.respond(session, respSessionId); err != nil {
		return
	}
	if err := rp.respond(session, newViewMessage(placement)); err != nil {
		return
	}

sessionLoop:
	for {
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// Retries and the grace period are already spent
			break sessionLoop
		}

		code, err := mc.FetchCodeFromMsg(payload)
		if err != nil {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
			msg.AddError(err.Error(), "incoming req payload must contain 'code' field")
			if err := rp.respond(session, msg); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		var resp interface{}

		switch code {
		case mc.CodeHover:
			req := NewRequest(payload)
			if respErr := req.HandleHover(placement); respErr != nil {
				resp = *respErr
				break
			}
			resp = newViewMessage(placement)

		case mc.CodeLeaveBoard:
			placement.LeaveBoard()
			resp = newViewMessage(placement)

		case mc.CodeToggleOrientation:
			placement.ToggleOrientation()
			resp = newViewMessage(placement)

		case mc.CodeCommit:
			if placement.Commit() {
				log.Debug().Int("ships_left", shipsLeft(placement)).Msg("ship committed")
			}
			resp = newViewMessage(placement)

		case mc.CodeSelectShip:
			req := NewRequest(payload)
			if respErr := req.HandleSelectShip(placement); respErr != nil {
				resp = *respErr
				break
			}
			resp = newViewMessage(placement)

		case mc.CodeResetAll:
			placement.ResetAll()
			resp = newViewMessage(placement)

		case mc.CodeView:
			resp = newViewMessage(placement)

		case mc.CodeSubmit:
			ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
			resp = NewRequest(payload).HandleSubmit(ctx, rp.submitter, placement)
			cancel()

		default:
			respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
			respInvalidSignal.AddError("", "invalid code in the incoming payload")
			resp = respInvalidSignal
		}

		if err := rp.respond(session, resp); err != nil {
			break sessionLoop
		}
	}
}

func (rp *RequestProcessor) respond(session *mc.Session, msg interface{}) error {
	return rp.sessionManager.WriteToSessionConn(session, msg, session.ResponseMessageType())
}

func newViewMessage(placement *mb.Placement) mc.Message[mc.RespView] {
	msg := mc.NewMessage[mc.RespView](mc.CodeView)
	msg.AddPayload(mc.RespView{PlacementUuid: placement.Uuid(), View: placement.View()})
	return msg
}

func shipsLeft(placement *mb.Placement) int {
	fleet := placement.Fleet()
	left := 0
	for _, kind := range mb.ShipKindOrder {
		if !fleet.IsPlaced(kind) {
			left++
		}
	}
	return left
}

func decodePayload[T any](payload []byte) (T, error) {
	var msg mc.Message[T]
	err := json.Unmarshal(payload, &msg)
	return msg.Payload, err
}
