// Package console turns key presses on a raw terminal into virtual button presses.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/lguibr/ringrace/log"
	"github.com/lguibr/ringrace/utils"
)

// ErrQuit is returned by Run when the user asked to leave.
var ErrQuit = errors.New("quit requested")

const (
	tapHold  = 30 * time.Millisecond
	ctrlC    = 0x03
	longSlop = 200 * time.Millisecond
)

// Presser presses a button for hold. input.EdgeSource implements it locally,
// the viewer implements it over HTTP.
type Presser interface {
	Press(pin utils.Pin, hold time.Duration) error
}

// Binding is what one key does.
type Binding struct {
	Pin  utils.Pin
	Hold time.Duration
}

// DefaultBindings: a/l race, space taps the game button, s holds it long enough to stop.
func DefaultBindings(cfg utils.Config) map[byte]Binding {
	long := Binding{Pin: utils.PinGame, Hold: cfg.LongPress + longSlop}
	return map[byte]Binding{
		'a': {Pin: utils.PinPlayer1, Hold: tapHold},
		'A': {Pin: utils.PinPlayer1, Hold: tapHold},
		'l': {Pin: utils.PinPlayer2, Hold: tapHold},
		'L': {Pin: utils.PinPlayer2, Hold: tapHold},
		' ': {Pin: utils.PinGame, Hold: tapHold},
		's': long,
		'S': long,
	}
}

// Help is a one-line legend for DefaultBindings.
const Help = "a: player 1 | l: player 2 | space: start/pause | s: stop | q: quit"

type Keyboard struct {
	in       io.Reader
	presser  Presser
	bindings map[byte]Binding
}

func NewKeyboard(in io.Reader, presser Presser, bindings map[byte]Binding) *Keyboard {
	return &Keyboard{in: in, presser: presser, bindings: bindings}
}

// Run reads one byte at a time until the input ends (nil), a quit key is hit
// (ErrQuit) or ctx is done. Reads are not interruptible, so cancellation is
// noticed at the next key.
func (k *Keyboard) Run(ctx context.Context) error {
	buf := make([]byte, 1)
	for {
		n, err := k.in.Read(buf)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if n == 1 {
			if quit := k.handleKey(buf[0]); quit {
				return ErrQuit
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read key: %w", err)
		}
	}
}

func (k *Keyboard) handleKey(key byte) bool {
	switch key {
	case 'q', 'Q', ctrlC:
		return true
	}
	b, ok := k.bindings[key]
	if !ok {
		log.Trace("Keyboard: unbound key %q", key)
		return false
	}
	if err := k.presser.Press(b.Pin, b.Hold); err != nil {
		log.Warn("Keyboard: press on pin %d failed: %v", b.Pin, err)
	}
	return false
}
