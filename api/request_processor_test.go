package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	mb "github.com/saeidalz13/battleship-placement/models/battleship"
	mc "github.com/saeidalz13/battleship-placement/models/connection"
)

var dialer = websocket.Dialer{
	HandshakeTimeout: 5 * time.Second,
}

type failingSubmitter struct{}

func (failingSubmitter) SubmitFleet(ctx context.Context, placementUuid, sessionId string, fleet mb.Fleet) error {
	return errors.New("game service unavailable")
}

type testServer struct {
	url              string
	submitter        *MemoryFleetSubmitter
	sessionManager   *mc.BattleshipSessionManager
	placementManager *mb.BattleshipPlacementManager
}

func newTestServer(t *testing.T, opts ...Option) testServer {
	t.Helper()

	ts := testServer{
		submitter:        NewMemoryFleetSubmitter(zerolog.Nop()),
		sessionManager:   mc.NewBattleshipSessionManager(time.Minute, zerolog.Nop()),
		placementManager: mb.NewBattleshipPlacementManager(),
	}

	opts = append([]Option{WithFleetSubmitter(ts.submitter)}, opts...)
	rp := NewRequestProcessor(ts.sessionManager, ts.placementManager, opts...)

	mux := http.NewServeMux()
	mux.Handle("GET /placement", rp)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	ts.url = "ws" + strings.TrimPrefix(server.URL, "http") + "/placement"
	return ts
}

// Dials and consumes the session id and the initial view.
func (ts testServer) connect(t *testing.T) (*websocket.Conn, string, mb.View) {
	t.Helper()

	conn, _, err := dialer.Dial(ts.url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	var respSessionId mc.Message[mc.RespSessionId]
	require.NoError(t, conn.ReadJSON(&respSessionId))
	require.Equal(t, mc.CodeSessionID, respSessionId.Code)
	require.NotEmpty(t, respSessionId.Payload.SessionID)

	var respView mc.Message[mc.RespView]
	require.NoError(t, conn.ReadJSON(&respView))
	require.Equal(t, mc.CodeView, respView.Code)

	return conn, respSessionId.Payload.SessionID, respView.Payload.View
}

func send[T any](t *testing.T, conn *websocket.Conn, code uint8, payload T) {
	t.Helper()
	msg := mc.NewMessage[T](code)
	msg.AddPayload(payload)
	require.NoError(t, conn.WriteJSON(msg))
}

func sendView(t *testing.T, conn *websocket.Conn, code uint8) mb.View {
	t.Helper()
	require.NoError(t, conn.WriteJSON(mc.NewSignal(code)))

	var resp mc.Message[mc.RespView]
	require.NoError(t, conn.ReadJSON(&resp))
	require.Equal(t, mc.CodeView, resp.Code)
	require.Nil(t, resp.Error)
	return resp.Payload.View
}

func hover(t *testing.T, conn *websocket.Conn, idx int) mb.View {
	t.Helper()
	send(t, conn, mc.CodeHover, mc.ReqHover{CellIndex: &idx})

	var resp mc.Message[mc.RespView]
	require.NoError(t, conn.ReadJSON(&resp))
	require.Equal(t, mc.CodeView, resp.Code)
	return resp.Payload.View
}

func placeFleet(t *testing.T, conn *websocket.Conn) mb.View {
	t.Helper()
	var view mb.View
	for row := range mb.ShipKindOrder {
		hover(t, conn, mb.CellIndex(row, 0))
		view = sendView(t, conn, mc.CodeCommit)
	}
	return view
}

func TestInitialView(t *testing.T) {
	ts := newTestServer(t)
	_, sessionId, view := ts.connect(t)

	assert.Equal(t, mb.ShipKindCarrier, view.SelectedKind)
	assert.Equal(t, mb.CellStateValidPreview, view.Cells[0])
	assert.Equal(t, mb.CellStateWater, view.Cells[5])
	assert.False(t, view.FleetComplete)

	_, err := ts.sessionManager.FindSession(sessionId)
	assert.NoError(t, err)
	assert.Equal(t, 1, ts.placementManager.CountPlacements())
}

func TestInvalidSignals(t *testing.T) {
	ts := newTestServer(t)
	conn, _, _ := ts.connect(t)

	tests := []struct {
		name         string
		payload      string
		expectedCode uint8
	}{
		{"random invalid code", `{"code":200}`, mc.CodeInvalidSignal},
		{"code absent", `{"payload":{}}`, mc.CodeSignalAbsent},
		{"not json", `hello`, mc.CodeSignalAbsent},
		{"hover without index", `{"code":2,"payload":{}}`, mc.CodeInvalidPayload},
		{"select unknown ship", `{"code":6,"payload":{"ship_kind":9}}`, mc.CodeInvalidPayload},
		{"select without ship", `{"code":6}`, mc.CodeInvalidPayload},
		{"submit too early", `{"code":8}`, mc.CodeFleetIncomplete},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(test.payload)))

			var resp mc.Message[mc.NoPayload]
			require.NoError(t, conn.ReadJSON(&resp))
			assert.Equal(t, test.expectedCode, resp.Code)
			assert.NotNil(t, resp.Error)
		})
	}

	// The session survives bad input
	view := sendView(t, conn, mc.CodeView)
	assert.Equal(t, mb.ShipKindCarrier, view.SelectedKind)
}

func TestPlacementFlow(t *testing.T) {
	ts := newTestServer(t)
	conn, _, _ := ts.connect(t)

	// Wraps into the next row
	view := hover(t, conn, 7)
	assert.Equal(t, mb.CellStateInvalidPreview, view.Cells[9])
	assert.Equal(t, mb.CellStateWater, view.Cells[10])

	view = sendView(t, conn, mc.CodeCommit)
	assert.False(t, view.Ships[0].Placed)

	hover(t, conn, 0)
	view = sendView(t, conn, mc.CodeCommit)
	assert.True(t, view.Ships[0].Placed)
	assert.Equal(t, mb.ShipButtonResetLabel, view.Ships[0].Label)
	assert.Equal(t, mb.ShipKindBattleship, view.SelectedKind)

	view = sendView(t, conn, mc.CodeToggleOrientation)
	assert.Equal(t, mb.OrientationVertical, view.Orientation)

	view = hover(t, conn, 2)
	assert.Equal(t, mb.CellStateShip, view.Cells[2])
	assert.Equal(t, mb.CellStateInvalidPreview, view.Cells[12])

	view = sendView(t, conn, mc.CodeLeaveBoard)
	assert.Equal(t, mb.CellStateWater, view.Cells[12])

	kind := uint8(mb.ShipKindCarrier)
	send(t, conn, mc.CodeSelectShip, mc.ReqSelectShip{ShipKind: &kind})
	var resp mc.Message[mc.RespView]
	require.NoError(t, conn.ReadJSON(&resp))
	assert.False(t, resp.Payload.View.Ships[0].Placed)
	assert.Equal(t, mb.ShipKindBattleship, resp.Payload.View.SelectedKind)

	view = sendView(t, conn, mc.CodeResetAll)
	assert.Equal(t, mb.ShipKindCarrier, view.SelectedKind)
}

func TestSubmitFleet(t *testing.T) {
	ts := newTestServer(t)
	conn, _, _ := ts.connect(t)

	sendView(t, conn, mc.CodeToggleOrientation)
	sendView(t, conn, mc.CodeToggleOrientation)
	view := placeFleet(t, conn)
	require.True(t, view.FleetComplete)

	require.NoError(t, conn.WriteJSON(mc.NewSignal(mc.CodeSubmit)))
	var resp mc.Message[mc.RespSubmitted]
	require.NoError(t, conn.ReadJSON(&resp))
	require.Equal(t, mc.CodeSubmitted, resp.Code)
	require.Nil(t, resp.Error)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, resp.Payload.Fleet[mb.ShipKindCarrier])
	assert.Equal(t, []int{40, 41}, resp.Payload.Fleet[mb.ShipKindDestroyer])

	stored, ok := ts.submitter.FetchFleet(resp.Payload.PlacementUuid)
	require.True(t, ok)
	assert.Equal(t, resp.Payload.Fleet, stored)
}

func submit(t *testing.T, conn *websocket.Conn) mc.Message[mc.RespSubmitted] {
	t.Helper()
	require.NoError(t, conn.WriteJSON(mc.NewSignal(mc.CodeSubmit)))

	var resp mc.Message[mc.RespSubmitted]
	require.NoError(t, conn.ReadJSON(&resp))
	return resp
}

func TestResubmitAfterResetAll(t *testing.T) {
	ts := newTestServer(t)
	conn, _, _ := ts.connect(t)

	placeFleet(t, conn)
	first := submit(t, conn)
	require.Equal(t, mc.CodeSubmitted, first.Code)

	view := sendView(t, conn, mc.CodeResetAll)
	require.False(t, view.FleetComplete)

	sendView(t, conn, mc.CodeToggleOrientation)
	for col := range mb.ShipKindOrder {
		hover(t, conn, mb.CellIndex(0, col))
		sendView(t, conn, mc.CodeCommit)
	}

	second := submit(t, conn)
	require.Equal(t, mc.CodeSubmitted, second.Code)
	require.Nil(t, second.Error)
	assert.Equal(t, first.Payload.PlacementUuid, second.Payload.PlacementUuid)

	stored, ok := ts.submitter.FetchFleet(second.Payload.PlacementUuid)
	require.True(t, ok)
	assert.Equal(t, []int{0, 10, 20, 30, 40}, stored[mb.ShipKindCarrier])
}

func TestSubmitFleetFailure(t *testing.T) {
	ts := newTestServer(t, WithFleetSubmitter(failingSubmitter{}))
	conn, _, _ := ts.connect(t)

	placeFleet(t, conn)

	require.NoError(t, conn.WriteJSON(mc.NewSignal(mc.CodeSubmit)))
	var resp mc.Message[mc.NoPayload]
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, mc.CodeSubmitFailed, resp.Code)
	require.NotNil(t, resp.Error)

	// Still complete, the player may retry
	view := sendView(t, conn, mc.CodeView)
	assert.True(t, view.FleetComplete)
}

func TestMsgpackCodec(t *testing.T) {
	ts := newTestServer(t)

	conn, _, err := dialer.Dial(ts.url+"?codec=msgpack", nil)
	require.NoError(t, err)
	defer conn.Close()

	msgType, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, msgType)

	var respSessionId mc.Message[mc.RespSessionId]
	require.NoError(t, msgpack.Unmarshal(raw, &respSessionId))
	assert.Equal(t, mc.CodeSessionID, respSessionId.Code)
	assert.NotEmpty(t, respSessionId.Payload.SessionID)

	_, raw, err = conn.ReadMessage()
	require.NoError(t, err)

	var respView mc.Message[mc.RespView]
	require.NoError(t, msgpack.Unmarshal(raw, &respView))
	assert.Equal(t, mc.CodeView, respView.Code)
	assert.Equal(t, mb.CellStateValidPreview, respView.Payload.View.Cells[4])
}

func TestMsgpackSubmittedFleetUsesShipNames(t *testing.T) {
	ts := newTestServer(t)

	conn, _, err := dialer.Dial(ts.url+"?codec=msgpack", nil)
	require.NoError(t, err)
	defer conn.Close()

	readFrame := func() []byte {
		t.Helper()
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		return raw
	}

	// session id and initial view
	readFrame()
	readFrame()

	for row := range mb.ShipKindOrder {
		idx := mb.CellIndex(row, 0)
		send(t, conn, mc.CodeHover, mc.ReqHover{CellIndex: &idx})
		readFrame()
		require.NoError(t, conn.WriteJSON(mc.NewSignal(mc.CodeCommit)))
		readFrame()
	}

	require.NoError(t, conn.WriteJSON(mc.NewSignal(mc.CodeSubmit)))

	var resp mc.Message[struct {
		Fleet map[string][]int `msgpack:"fleet"`
	}]
	require.NoError(t, msgpack.Unmarshal(readFrame(), &resp))
	assert.Equal(t, mc.CodeSubmitted, resp.Code)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, resp.Payload.Fleet["Carrier"])
	assert.Equal(t, []int{40, 41}, resp.Payload.Fleet["Destroyer"])
}

func TestInvalidSessionIdOnReconnect(t *testing.T) {
	ts := newTestServer(t)

	conn, _, err := dialer.Dial(ts.url+"?sessionID=does-not-exist", nil)
	require.NoError(t, err)
	defer conn.Close()

	var resp mc.Message[mc.NoPayload]
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, mc.CodeReceivedInvalidSessionID, resp.Code)
}

func TestReconnectWhileFirstSocketOpen(t *testing.T) {
	ts := newTestServer(t)
	first, sessionId, _ := ts.connect(t)

	hover(t, first, 0)
	sendView(t, first, mc.CodeCommit)

	second, _, err := dialer.Dial(ts.url+"?sessionID="+sessionId, nil)
	require.NoError(t, err)
	t.Cleanup(func() { second.Close() })

	require.NoError(t, second.SetReadDeadline(time.Now().Add(2*time.Second)))
	view := sendView(t, second, mc.CodeView)
	assert.True(t, view.Ships[0].Placed)
	assert.Equal(t, mb.ShipKindBattleship, view.SelectedKind)

	// The replaced socket is closed by the server
	require.NoError(t, first.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = first.ReadMessage()
	require.Error(t, err)
	var netErr net.Error
	if errors.As(err, &netErr) {
		assert.False(t, netErr.Timeout())
	}

	_, err = ts.sessionManager.FindSession(sessionId)
	assert.NoError(t, err)
	assert.Equal(t, 1, ts.placementManager.CountPlacements())
}

func TestSessionTerminatedOnClose(t *testing.T) {
	ts := newTestServer(t)
	conn, sessionId, _ := ts.connect(t)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()

	assert.Eventually(t, func() bool {
		_, err := ts.sessionManager.FindSession(sessionId)
		return err != nil && ts.placementManager.CountPlacements() == 0
	}, 2*time.Second, 20*time.Millisecond)
}

func TestAllowedOrigins(t *testing.T) {
	ts := newTestServer(t, WithAllowedOrigins([]string{"https://play.example"}))

	_, resp, err := dialer.Dial(ts.url, http.Header{"Origin": []string{"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := dialer.Dial(ts.url, http.Header{"Origin": []string{"https://play.example"}})
	require.NoError(t, err)
	conn.Close()
}
