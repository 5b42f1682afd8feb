package input

import "github.com/lguibr/ringrace/utils"

type pressOutcome uint8

const (
	pressIgnored pressOutcome = iota // release without a recorded press, or a repeated level
	pressRecorded
	pressBounce
	pressClick
)

// pressDebouncer turns a player button's edges into clicks. A press records its
// timestamp (last writer wins); the release decides.
type pressDebouncer struct {
	minPressMs uint32
	pressedAt  uint32
	pressed    bool
}

func (d *pressDebouncer) onEdge(level utils.Level, ts uint32) pressOutcome {
	if level == utils.ActiveLevel {
		d.pressedAt = ts
		d.pressed = true
		return pressRecorded
	}
	if !d.pressed {
		return pressIgnored
	}
	d.pressed = false
	if ts-d.pressedAt < d.minPressMs {
		return pressBounce
	}
	return pressClick
}
