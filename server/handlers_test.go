package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lguibr/ringrace/bollywood"
	"github.com/lguibr/ringrace/game"
	"github.com/lguibr/ringrace/input"
	"github.com/lguibr/ringrace/strip"
	"github.com/lguibr/ringrace/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

type injectedEdge struct {
	pin   utils.Pin
	level utils.Level
	hold  time.Duration
}

type fakeEdges struct {
	mu    sync.Mutex
	edges []injectedEdge
	err   error
}

func (f *fakeEdges) OnEdge(pin utils.Pin, level utils.Level, timestampMs uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.edges = append(f.edges, injectedEdge{pin: pin, level: level})
	return nil
}

func (f *fakeEdges) Press(pin utils.Pin, hold time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.edges = append(f.edges, injectedEdge{pin: pin, level: utils.ActiveLevel, hold: hold})
	return nil
}

func (f *fakeEdges) Now() uint32 { return 1234 }

type fixedSnapshot game.Snapshot

func (f fixedSnapshot) Snapshot() game.Snapshot { return game.Snapshot(f) }

func setupTestServer(t *testing.T) (*Server, *fakeEdges, *bollywood.Engine) {
	t.Helper()
	engine := bollywood.NewEngine()
	t.Cleanup(func() { engine.Shutdown(time.Second) })

	broadcaster := engine.Spawn(bollywood.NewProps(NewBroadcasterProducer()).WithName("broadcaster"))
	require.NotNil(t, broadcaster)

	edges := &fakeEdges{}
	snap := fixedSnapshot{
		RoundID: "round-1",
		Game:    game.GameData{State: game.Running, Winner: game.NoWinner, Slot: game.SlotPlayer2},
		Players: [utils.NumPlayers]game.PlayerData{{Position: 3}, {Position: 5, LapCount: 1}},
		Ticks:   42,
	}
	s := New(Options{Engine: engine, Broadcaster: broadcaster, Snapshots: snap, Edges: edges})
	return s, edges, engine
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	return rr
}

func TestHandleHealth(t *testing.T) {
	s, _, _ := setupTestServer(t)
	rr := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestHandleGetState(t *testing.T) {
	s, _, _ := setupTestServer(t)
	rr := do(t, s, http.MethodGet, "/state", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "round-1", body["roundId"])
	assert.Equal(t, float64(42), body["ticks"])

	g := body["game"].(map[string]interface{})
	assert.Equal(t, "running", g["state"])
	assert.Equal(t, "none", g["winner"])
	assert.Equal(t, "player2", g["slot"])

	players := body["players"].([]interface{})
	require.Len(t, players, 2)
	assert.Equal(t, float64(1), players[1].(map[string]interface{})["lapCount"])
}

func TestHandlePostEdge(t *testing.T) {
	cases := []struct {
		name string
		body string
		code int
	}{
		{"valid press", `{"pin":6,"level":0}`, http.StatusAccepted},
		{"unknown pin still accepted", `{"pin":42,"level":1}`, http.StatusAccepted},
		{"missing pin", `{"level":0}`, http.StatusBadRequest},
		{"pin out of range", `{"pin":300,"level":0}`, http.StatusBadRequest},
		{"bad level", `{"pin":6,"level":2}`, http.StatusBadRequest},
		{"not json", `pin=6`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, edges, _ := setupTestServer(t)
			rr := do(t, s, http.MethodPost, "/edge", tc.body)
			assert.Equal(t, tc.code, rr.Code, rr.Body.String())
			if tc.code == http.StatusAccepted {
				assert.Len(t, edges.edges, 1)
				assert.JSONEq(t, `{"timestampMs":1234}`, rr.Body.String())
			} else {
				assert.Empty(t, edges.edges)
			}
		})
	}
}

func TestHandlePostEdgeQueueFull(t *testing.T) {
	s, edges, _ := setupTestServer(t)
	edges.err = input.ErrQueueFull
	rr := do(t, s, http.MethodPost, "/edge", `{"pin":6,"level":0}`)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	edges.err = errors.New("boom")
	rr = do(t, s, http.MethodPost, "/edge", `{"pin":6,"level":0}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestHandlePostPress(t *testing.T) {
	s, edges, _ := setupTestServer(t)

	rr := do(t, s, http.MethodPost, "/press/player1", "")
	assert.Equal(t, http.StatusAccepted, rr.Code)
	rr = do(t, s, http.MethodPost, "/press/game", `{"holdMs":900}`)
	assert.Equal(t, http.StatusAccepted, rr.Code)

	require.Len(t, edges.edges, 2)
	assert.Equal(t, injectedEdge{pin: utils.PinPlayer1, level: utils.ActiveLevel, hold: defaultPressHold}, edges.edges[0])
	assert.Equal(t, 900*time.Millisecond, edges.edges[1].hold)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodPost, "/press/player3", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/press/game", `{"holdMs":60000}`).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, s, http.MethodGet, "/press/game", "").Code)
}

func TestHandleMetrics(t *testing.T) {
	s, _, _ := setupTestServer(t)
	rr := do(t, s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ringrace_websocket_clients")
}

func TestSubscribeReceivesFrames(t *testing.T) {
	s, _, engine := setupTestServer(t)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/subscribe"
	ws, err := websocket.Dial(wsURL, "", ts.URL)
	require.NoError(t, err)
	defer ws.Close()

	frame := strip.Frame{Seq: 7}
	frame.Pixels[3] = strip.Green
	require.NoError(t, NewBroadcastSink(engine, s.broadcaster).Show(frame))

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got strip.Frame
	require.NoError(t, websocket.JSON.Receive(ws, &got))
	assert.Equal(t, uint64(7), got.Seq)
	assert.Equal(t, strip.Green, got.Pixels[3])
	assert.Equal(t, strip.Black, got.Pixels[0])
}
