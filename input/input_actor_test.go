package input

import (
	"sync"
	"testing"
	"time"

	"github.com/lguibr/ringrace/bollywood"
	"github.com/lguibr/ringrace/game"
	"github.com/lguibr/ringrace/metrics"
	"github.com/lguibr/ringrace/utils"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// actionRecorder stands in for the game actor.
type actionRecorder struct {
	mu      sync.Mutex
	actions []game.UserAction
}

func (r *actionRecorder) Receive(ctx bollywood.Context) {
	if a, ok := ctx.Message().(game.UserAction); ok {
		r.mu.Lock()
		r.actions = append(r.actions, a)
		r.mu.Unlock()
	}
}

func (r *actionRecorder) got() []game.UserAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]game.UserAction(nil), r.actions...)
}

type inputHarness struct {
	engine   *bollywood.Engine
	input    *bollywood.PID
	recorder *actionRecorder
	clock    *ManualClock
}

func newInputHarness(t *testing.T) *inputHarness {
	t.Helper()
	h := &inputHarness{
		engine:   bollywood.NewEngine(),
		recorder: &actionRecorder{},
		clock:    &ManualClock{},
	}
	gamePID := h.engine.Spawn(bollywood.NewProps(func() bollywood.Actor { return h.recorder }))
	require.NotNil(t, gamePID)
	h.input = h.engine.Spawn(bollywood.NewProps(NewInputActorProducer(utils.DefaultConfig(), gamePID, h.clock.Now)).WithName("input"))
	require.NotNil(t, h.input)
	t.Cleanup(func() { h.engine.Shutdown(time.Second) })
	return h
}

func (h *inputHarness) edge(pin utils.Pin, level utils.Level, ts uint32) {
	h.engine.Send(h.input, EdgeEvent{Pin: pin, Level: level, TimestampMs: ts}, nil)
}

func TestInputActorPlayerClick(t *testing.T) {
	h := newInputHarness(t)

	h.edge(utils.PinPlayer1, utils.Low, 100)
	h.edge(utils.PinPlayer1, utils.High, 130)
	h.edge(utils.PinPlayer2, utils.Low, 140)
	h.edge(utils.PinPlayer2, utils.High, 160)

	assert.Eventually(t, func() bool { return len(h.recorder.got()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []game.UserAction{
		{Kind: game.Click, Subject: game.Player1Button},
		{Kind: game.Click, Subject: game.Player2Button},
	}, h.recorder.got())
}

func TestInputActorSuppressesBounce(t *testing.T) {
	h := newInputHarness(t)
	before := testutil.ToFloat64(metrics.DebounceSuppressed.WithLabelValues(game.Player1Button.String()))

	h.edge(utils.PinPlayer1, utils.Low, 100)
	h.edge(utils.PinPlayer1, utils.High, 100)
	h.edge(utils.PinPlayer1, utils.High, 105) // no press recorded any more

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.DebounceSuppressed.WithLabelValues(game.Player1Button.String())) == before+1
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, h.recorder.got())
}

func TestInputActorGameButtonClickOnDeadline(t *testing.T) {
	h := newInputHarness(t)

	h.edge(utils.PinGame, utils.Low, 0)
	h.edge(utils.PinGame, utils.High, 100)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, h.recorder.got(), "a click waits out the double-click gap")

	h.clock.Set(600)
	h.engine.Send(h.input, ClassifierDeadline{}, nil)

	assert.Eventually(t, func() bool { return len(h.recorder.got()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, game.UserAction{Kind: game.Click, Subject: game.GameButton}, h.recorder.got()[0])
}

func TestInputActorGameButtonDoubleAndLong(t *testing.T) {
	h := newInputHarness(t)

	h.edge(utils.PinGame, utils.Low, 0)
	h.edge(utils.PinGame, utils.High, 100)
	h.edge(utils.PinGame, utils.Low, 250)
	h.edge(utils.PinGame, utils.High, 350)

	h.edge(utils.PinGame, utils.Low, 2000)
	h.edge(utils.PinGame, utils.High, 3000)

	assert.Eventually(t, func() bool { return len(h.recorder.got()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []game.UserAction{
		{Kind: game.DoubleClick, Subject: game.GameButton},
		{Kind: game.LongPress, Subject: game.GameButton},
	}, h.recorder.got())
}

func TestInputActorUnknownPinAndMessage(t *testing.T) {
	h := newInputHarness(t)
	before := testutil.ToFloat64(metrics.EdgesUnknownPin)

	h.edge(utils.Pin(42), utils.Low, 0)
	h.engine.Send(h.input, "noise", nil)

	assert.Eventually(t, func() bool { return testutil.ToFloat64(metrics.EdgesUnknownPin) == before+1 }, time.Second, 5*time.Millisecond)
	assert.True(t, h.engine.Alive(h.input))
	assert.Empty(t, h.recorder.got())
}
