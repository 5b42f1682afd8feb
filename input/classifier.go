package input

import (
	"time"

	"github.com/lguibr/ringrace/game"
	"github.com/lguibr/ringrace/utils"
)

type classifierState uint8

const (
	classifierIdle classifierState = iota
	classifierDown                 // first press held
	classifierUp                   // released, a second press would make a double click
	classifierDownAgain            // second press held
	classifierHeld                 // long press already reported, waiting for release
)

// ButtonClassifier tells clicks, double clicks and long presses apart on the game
// button. It is driven by edges plus Expire calls at the instants Deadline names.
// All arithmetic is on uint32 milliseconds and tolerates wrap-around.
//
// Edges closer than the debounce window to the last accepted edge are not applied
// right away; the latest one is held and applied once the window closes, so the
// level the button settles on is never lost.
type ButtonClassifier struct {
	debounceMs uint32
	gapMs      uint32
	longMs     uint32

	state     classifierState
	lastEdge  uint32
	seenEdge  bool
	downAt    uint32
	releaseAt uint32

	settling  bool
	settleLvl utils.Level
	settleAt  uint32
}

func NewButtonClassifier(debounce, doubleClickGap, longPress time.Duration) *ButtonClassifier {
	return &ButtonClassifier{
		debounceMs: millis(debounce),
		gapMs:      millis(doubleClickGap),
		longMs:     millis(longPress),
	}
}

// OnEdge feeds one edge and reports the action it completes, if any.
func (c *ButtonClassifier) OnEdge(level utils.Level, ts uint32) (game.ActionKind, bool) {
	if c.seenEdge && ts-c.lastEdge < c.debounceMs {
		c.settling, c.settleLvl, c.settleAt = true, level, ts
		return 0, false
	}
	settledKind, settledOK := c.settle()
	kind, ok := c.step(level == utils.ActiveLevel, ts)
	if settledOK {
		return settledKind, true
	}
	return kind, ok
}

// Expire reports an action whose deadline has passed at now. Calling it early or
// twice is harmless.
func (c *ButtonClassifier) Expire(now uint32) (game.ActionKind, bool) {
	if c.settling && now-c.lastEdge >= c.debounceMs {
		if kind, ok := c.settle(); ok {
			return kind, true
		}
	}
	if c.settling {
		return 0, false
	}

	switch c.state {
	case classifierDown, classifierDownAgain:
		if now-c.downAt >= c.longMs {
			c.state = classifierHeld
			return game.LongPress, true
		}
	case classifierUp:
		if now-c.releaseAt > c.gapMs {
			c.state = classifierIdle
			return game.Click, true
		}
	}
	return 0, false
}

// Deadline is the next instant Expire could report something.
func (c *ButtonClassifier) Deadline() (uint32, bool) {
	if c.settling {
		return c.lastEdge + c.debounceMs, true
	}
	switch c.state {
	case classifierDown, classifierDownAgain:
		return c.downAt + c.longMs, true
	case classifierUp:
		return c.releaseAt + c.gapMs + 1, true
	}
	return 0, false
}

// Pending reports whether a gesture is in progress.
func (c *ButtonClassifier) Pending() bool {
	return c.settling || c.state != classifierIdle
}

// settle applies the held edge, if any, at the time it was seen.
func (c *ButtonClassifier) settle() (game.ActionKind, bool) {
	if !c.settling {
		return 0, false
	}
	c.settling = false
	return c.step(c.settleLvl == utils.ActiveLevel, c.settleAt)
}

// step moves the state machine. An edge repeating the current level is ignored.
func (c *ButtonClassifier) step(down bool, ts uint32) (game.ActionKind, bool) {
	switch c.state {
	case classifierIdle:
		if down {
			c.accept(ts)
			c.state, c.downAt = classifierDown, ts
		}

	case classifierDown:
		if !down {
			c.accept(ts)
			if ts-c.downAt >= c.longMs {
				c.state = classifierIdle
				return game.LongPress, true
			}
			c.state, c.releaseAt = classifierUp, ts
		}

	case classifierUp:
		if down {
			c.accept(ts)
			expired := ts-c.releaseAt > c.gapMs
			c.state, c.downAt = classifierDownAgain, ts
			if expired {
				// The pending click's deadline was missed; report it and treat this
				// press as the start of a new gesture.
				c.state = classifierDown
				return game.Click, true
			}
		}

	case classifierDownAgain:
		if !down {
			c.accept(ts)
			c.state = classifierIdle
			if ts-c.downAt >= c.longMs {
				return game.LongPress, true
			}
			return game.DoubleClick, true
		}

	case classifierHeld:
		if !down {
			c.accept(ts)
			c.state = classifierIdle
		}
	}
	return 0, false
}

func (c *ButtonClassifier) accept(ts uint32) {
	c.lastEdge, c.seenEdge = ts, true
}
