package connection

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	cerr "github.com/saeidalz13/battleship-placement/internal/error"
)

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn, codec string) *Session
	FindSession(sessionId string) (*Session, error)
	TerminateSession(sessionId string)
	ReconnectSession(sessionId string, conn *websocket.Conn) (*Session, error)
	CountSessions() int

	WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error
	ReadFromSessionConn(session *Session) (int, []byte, error)
	CleanupPeriodically(ctx context.Context)
}

type BattleshipSessionManager struct {
	cleanupInterval time.Duration
	sessions        map[string]*Session
	logger          zerolog.Logger
	mu              sync.RWMutex
}

func NewBattleshipSessionManager(cleanupInterval time.Duration, logger zerolog.Logger) *BattleshipSessionManager {
	initMapSize := 10

	return &BattleshipSessionManager{
		sessions:        make(map[string]*Session, initMapSize),
		cleanupInterval: cleanupInterval,
		logger:          logger,
	}
}

var _ SessionManager = (*BattleshipSessionManager)(nil)

func (bsm *BattleshipSessionManager) GenerateNewSession(conn *websocket.Conn, codec string) *Session {
	sessionId := base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String()))
	session := NewSession(sessionId, conn, codec, bsm.logger)

	bsm.mu.Lock()
	bsm.sessions[sessionId] = session
	bsm.mu.Unlock()

	return session
}

func (bsm *BattleshipSessionManager) FindSession(sessionId string) (*Session, error) {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	session, prs := bsm.sessions[sessionId]
	if !prs {
		return nil, cerr.ErrSessionNotFound(sessionId)
	}

	if session == nil {
		return nil, cerr.ErrSessionIsNil(sessionId)
	}

	return session, nil
}

func (bsm *BattleshipSessionManager) TerminateSession(sessionId string) {
	bsm.mu.Lock()
	delete(bsm.sessions, sessionId)
	bsm.mu.Unlock()
}

func (bsm *BattleshipSessionManager) CountSessions() int {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()
	return len(bsm.sessions)
}

// Swaps in the new connection and wakes up the session loop
// if it is waiting in its grace period.
func (bsm *BattleshipSessionManager) ReconnectSession(sessionId string, conn *websocket.Conn) (*Session, error) {
	session, err := bsm.FindSession(sessionId)
	if err != nil {
		return nil, err
	}

	session.reconnect(conn)
	session.logger.Info().Msg("session reconnected")
	return session, nil
}

// To ensure that there is no dangling sessions, sessions
// idle for longer than the cleanup interval are dropped.
func (bsm *BattleshipSessionManager) CleanupPeriodically(ctx context.Context) {
	ticker := time.NewTicker(bsm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			bsm.cleanupStale(time.Now())
		}
	}
}

func (bsm *BattleshipSessionManager) cleanupStale(now time.Time) []string {
	bsm.mu.Lock()
	defer bsm.mu.Unlock()

	removed := make([]string, 0)
	for id, session := range bsm.sessions {
		if now.Sub(session.LastSeen()) > bsm.cleanupInterval {
			delete(bsm.sessions, id)
			removed = append(removed, id)
		}
	}

	if len(removed) > 0 {
		bsm.logger.Info().Strs("session_ids", removed).Msg("cleaned up stale sessions")
	}
	return removed
}

// Abnormal closures happen when a mobile browser backgrounds the tab.
// The session waits for the player to come back with its session id.
func (bsm *BattleshipSessionManager) handleAbnormalClosureSession(s *Session) error {
	reconnected := s.reconnectionSignal()

	timer := time.NewTimer(s.gracePeriod)
	defer timer.Stop()

	select {
	case <-timer.C:
		s.logger.Info().Msg("grace period is over; session terminated")
		return NewConnErr(ConnLoopBreak).AddDesc("grace period is over for session: " + s.id)

	case <-reconnected:
		s.logger.Info().Msg("player reconnected")
		return nil
	}
}

func (bsm *BattleshipSessionManager) WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error {
	err := session.writeToConnWithRetry(msg, msgType)
	if err == nil {
		return nil
	}

	var connErr ConnErr
	if !errors.As(err, &connErr) {
		return err
	}

	if connErr.Code() == ConnLoopAbnormalClosureRetry {
		if err := bsm.handleAbnormalClosureSession(session); err != nil {
			return connErr
		}
		// Send it again on the new connection
		return session.writeToConnWithRetry(msg, msgType)
	}
	return connErr
}

func (bsm *BattleshipSessionManager) ReadFromSessionConn(session *Session) (int, []byte, error) {
	var retries uint8

	for {
		conn := session.Conn()
		messageType, payload, err := conn.ReadMessage()
		if err == nil {
			session.touch()
			return messageType, payload, nil
		}

		// Closed by a reconnection; keep reading on the new socket
		if session.isReplaced(conn) {
			retries = 0
			continue
		}

		switch session.handleReadFromConnErr(err, retries) {
		case ConnLoopContinue:
			retries++
			continue

		case ConnLoopAbnormalClosureRetry:
			if err := bsm.handleAbnormalClosureSession(session); err != nil {
				return -1, []byte{}, err
			}
			retries = 0

		default:
			return -1, []byte{}, err
		}
	}
}

// Extracts the signal code, failing when the payload is not
// JSON or carries no "code" field.
func FetchCodeFromMsg(payload []byte) (uint8, error) {
	var codeField struct {
		Code *uint8 `json:"code"`
	}
	const randomInvalidCode uint8 = 255

	if err := json.Unmarshal(payload, &codeField); err != nil {
		return randomInvalidCode, err
	}
	if codeField.Code == nil {
		return randomInvalidCode, cerr.ErrSignalAbsent()
	}

	return *codeField.Code, nil
}
