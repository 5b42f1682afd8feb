package console

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/lguibr/ringrace/game"
	"github.com/lguibr/ringrace/input"
	"github.com/lguibr/ringrace/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type press struct {
	pin  utils.Pin
	hold time.Duration
}

type recordingPresser struct {
	presses []press
	err     error
}

func (r *recordingPresser) Press(pin utils.Pin, hold time.Duration) error {
	r.presses = append(r.presses, press{pin, hold})
	return r.err
}

func TestKeyboardMapsKeysToPresses(t *testing.T) {
	cfg := utils.DefaultConfig()
	p := &recordingPresser{}
	kb := NewKeyboard(strings.NewReader("aLx sq a"), p, DefaultBindings(cfg))

	err := kb.Run(context.Background())
	assert.ErrorIs(t, err, ErrQuit)

	require.Len(t, p.presses, 4, "keys after q are not read")
	assert.Equal(t, press{utils.PinPlayer1, tapHold}, p.presses[0])
	assert.Equal(t, press{utils.PinPlayer2, tapHold}, p.presses[1])
	assert.Equal(t, press{utils.PinGame, tapHold}, p.presses[2])
	assert.Equal(t, utils.PinGame, p.presses[3].pin)
	assert.Greater(t, p.presses[3].hold, cfg.LongPress)
}

func TestKeyboardEndOfInput(t *testing.T) {
	p := &recordingPresser{err: errors.New("queue full")}
	kb := NewKeyboard(strings.NewReader("al"), p, DefaultBindings(utils.DefaultConfig()))
	assert.NoError(t, kb.Run(context.Background()))
	assert.Len(t, p.presses, 2, "press errors are logged, not fatal")
}

func TestKeyboardCtrlCQuits(t *testing.T) {
	kb := NewKeyboard(strings.NewReader("\x03a"), &recordingPresser{}, DefaultBindings(utils.DefaultConfig()))
	assert.ErrorIs(t, kb.Run(context.Background()), ErrQuit)
}

func TestKeyboardReadError(t *testing.T) {
	kb := NewKeyboard(iotest.ErrReader(errors.New("tty gone")), &recordingPresser{}, nil)
	err := kb.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tty gone")
}

func TestKeyboardCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	kb := NewKeyboard(strings.NewReader("a"), &recordingPresser{}, DefaultBindings(utils.DefaultConfig()))
	assert.ErrorIs(t, kb.Run(ctx), context.Canceled)
}

func TestDefaultBindingsDriveTheGameButton(t *testing.T) {
	cfg := utils.DefaultConfig()
	bindings := DefaultBindings(cfg)

	classify := func(hold time.Duration) []game.ActionKind {
		c := input.NewButtonClassifier(cfg.ButtonDebounce, cfg.DoubleClickGap, cfg.LongPress)
		var got []game.ActionKind
		if kind, ok := c.OnEdge(utils.ActiveLevel, 1000); ok {
			got = append(got, kind)
		}
		if kind, ok := c.OnEdge(utils.High, 1000+uint32(hold.Milliseconds())); ok {
			got = append(got, kind)
		}
		for now := uint32(1000); now < 4000; now++ {
			if kind, ok := c.Expire(now); ok {
				got = append(got, kind)
			}
		}
		return got
	}

	assert.Equal(t, []game.ActionKind{game.Click}, classify(bindings[' '].Hold), "space starts and pauses")
	assert.Equal(t, []game.ActionKind{game.LongPress}, classify(bindings['s'].Hold), "s stops")
}
