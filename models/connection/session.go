package connection

import (
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	mb "github.com/saeidalz13/battleship-placement/models/battleship"
)

const (
	maxWriteWsRetries uint8         = 2
	backOffFactor     uint8         = 2
	gracePeriod       time.Duration = time.Minute * 2
)

const (
	MessageTypeJSON uint8 = iota
	MessageTypeMsgpack
)

// Codec chosen by the client when connecting (?codec=...)
const (
	CodecJSON    = "json"
	CodecMsgpack = "msgpack"
)

type ConnectionHandler interface {
	reconnect(conn *websocket.Conn)
	handleReadFromConnErr(err error, retries uint8) uint8
	writeToConnWithRetry(msg interface{}, msgType uint8) error
	onConnErr(err error) uint8
}

// Session binds a websocket connection to the placement
// the player is building through it.
type Session struct {
	id                     string
	codec                  string
	placement              *mb.Placement
	lastSeen               time.Time
	logger                 zerolog.Logger
	backOffUnit            time.Duration
	gracePeriod            time.Duration
	mu                     sync.Mutex
	conn                   *websocket.Conn
	reconnectionSignalChan chan struct{}
}

func NewSession(id string, conn *websocket.Conn, codec string, logger zerolog.Logger) *Session {
	if codec != CodecMsgpack {
		codec = CodecJSON
	}

	return &Session{
		id:                     id,
		conn:                   conn,
		codec:                  codec,
		reconnectionSignalChan: make(chan struct{}),
		lastSeen:               time.Now(),
		backOffUnit:            time.Second,
		gracePeriod:            gracePeriod,
		logger:                 logger.With().Str("session_id", id).Logger(),
	}
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) Codec() string {
	return s.codec
}

func (s *Session) Conn() *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

// Refreshed on every read and reconnection.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// Reports whether conn has been replaced by a reconnection.
func (s *Session) isReplaced(conn *websocket.Conn) bool {
	return s.Conn() != conn
}

func (s *Session) Placement() *mb.Placement {
	return s.placement
}

func (s *Session) SetPlacement(placement *mb.Placement) {
	s.placement = placement
}

// Message type used for structured responses on this session.
func (s *Session) ResponseMessageType() uint8 {
	if s.codec == CodecMsgpack {
		return MessageTypeMsgpack
	}
	return MessageTypeJSON
}

func (s *Session) reconnectionSignal() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconnectionSignalChan
}

func (s *Session) onConnErr(err error) uint8 {
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		s.logger.Warn().Err(err).Msg("timeout error")
		return ConnLoopRetry
	}

	if websocket.IsCloseError(err, websocket.CloseTryAgainLater) {
		s.logger.Warn().Err(err).Msg("high server load/traffic error")
		return ConnLoopRetry
	}

	// Mobile browsers drop the socket when the tab goes to background
	if websocket.IsCloseError(err, websocket.CloseAbnormalClosure) {
		s.logger.Warn().Err(err).Msg("abnormal closure error")
		return ConnLoopAbnormalClosureRetry
	}

	if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
		s.logger.Info().Err(err).Msg("close error")
		return ConnLoopBreak
	}

	if websocket.IsCloseError(err, websocket.CloseProtocolError, websocket.CloseInternalServerErr, websocket.CloseTLSHandshake, websocket.CloseMandatoryExtension) {
		s.logger.Error().Err(err).Msg("critical error")
		return ConnLoopBreak
	}

	// Most likely not our client (e.g. binary or non utf-8 frames)
	if websocket.IsCloseError(err, websocket.CloseInvalidFramePayloadData, websocket.CloseUnsupportedData, websocket.CloseMessageTooBig, websocket.ClosePolicyViolation, websocket.CloseServiceRestart, websocket.CloseNoStatusReceived) {
		s.logger.Warn().Err(err).Msg("non-critical error")
		return ConnLoopBreak
	}

	s.logger.Error().Err(err).Msg("unexpected error")
	return ConnLoopBreak
}

func (s *Session) writeOnce(conn *websocket.Conn, msg interface{}, msgType uint8) error {
	switch msgType {
	case MessageTypeJSON:
		return conn.WriteJSON(msg)

	case MessageTypeMsgpack:
		encoded, err := msgpack.Marshal(msg)
		if err != nil {
			return NewConnErr(ConnEncodeFailed).AddDesc("msgpack encoding failed").WithCause(err)
		}
		return conn.WriteMessage(websocket.BinaryMessage, encoded)

	default:
		return NewConnErr(ConnInvalidMsgType).AddDesc("invalid message type to write with retry")
	}
}

// Writes to the connection of that session. It also
// handles the abnormal or other types of errors of
// writing to a websocket connection.
func (s *Session) writeToConnWithRetry(msg interface{}, msgType uint8) error {
	var retries uint8

	for {
		conn := s.Conn()
		err := s.writeOnce(conn, msg, msgType)
		if err == nil {
			return nil
		}
		if connErr, ok := err.(ConnErr); ok {
			return connErr
		}

		// The player came back on another socket mid-write
		if s.isReplaced(conn) {
			continue
		}

		switch s.onConnErr(err) {
		case ConnLoopRetry:
			if retries < maxWriteWsRetries {
				retries++
				s.logger.Warn().Uint8("retry", retries).Msg("writing to ws failed; retrying")
				time.Sleep(time.Duration(retries*backOffFactor) * s.backOffUnit)
				continue
			}
			s.logger.Error().Err(err).Msg("max retries reached for writing to ws")
			return NewConnErr(ConnLoopBreak).WithCause(err)

		case ConnLoopAbnormalClosureRetry:
			return NewConnErr(ConnLoopAbnormalClosureRetry).WithCause(err)

		default:
			return NewConnErr(ConnLoopBreak).AddDesc("breaking write loop").WithCause(err)
		}
	}
}

// Handles the errors that occurs when reading from
// ws connection.
func (s *Session) handleReadFromConnErr(err error, retries uint8) uint8 {
	switch s.onConnErr(err) {
	case ConnLoopAbnormalClosureRetry:
		return ConnLoopAbnormalClosureRetry

	case ConnLoopRetry:
		if retries < maxWriteWsRetries {
			s.logger.Warn().Uint8("retry", retries).Msg("failed to read from ws conn; retrying")
			time.Sleep(time.Duration((retries+1)*backOffFactor) * s.backOffUnit)
			return ConnLoopContinue
		}
		return ConnLoopBreak

	default:
		s.logger.Info().Err(err).Msg("break ws conn loop")
		return ConnLoopBreak
	}
}

// Swaps in the new connection and closes the previous one, which
// unblocks a loop still reading from it.
func (s *Session) reconnect(conn *websocket.Conn) {
	s.mu.Lock()

	// Signal for reconnection
	close(s.reconnectionSignalChan)

	prev := s.conn
	s.conn = conn
	s.lastSeen = time.Now()
	s.reconnectionSignalChan = make(chan struct{})
	s.mu.Unlock()

	if prev != nil && prev != conn {
		prev.Close()
	}
}

var _ ConnectionHandler = (*Session)(nil)
