package game

import (
	"github.com/lguibr/ringrace/log"
	"github.com/lguibr/ringrace/strip"
)

// updateUi advances the display cursor and redraws the strip.
//
//	stopped, no winner   solid red idle pattern
//	stopped, winner N    solid pattern in player N's colour
//	paused               both markers steady
//	running              marker N only while the cursor is on slot N; the game slot is blank
func (a *GameActor) updateUi() {
	a.data.Slot = a.data.Slot.Next()

	if a.strip == nil {
		return
	}

	switch a.data.State {
	case Running:
		a.uiStateRunning()
	case Paused:
		a.uiStatePaused()
	case Stopped:
		a.uiStateStopped()
	default:
		log.Warn("GameActor %s: unsupported state %s", a.selfPID, a.data.State)
		a.uiStateUnknown()
	}
}

func (a *GameActor) uiStateRunning() {
	a.strip.Clear()
	if a.data.Slot == SlotPlayer1 {
		a.strip.SetMarker(a.players[Player1].Position, strip.ChannelPlayer1)
	}
	if a.data.Slot == SlotPlayer2 {
		a.strip.SetMarker(a.players[Player2].Position, strip.ChannelPlayer2)
	}
	a.show()
}

func (a *GameActor) uiStatePaused() {
	a.strip.Clear()
	a.strip.SetMarker(a.players[Player1].Position, strip.ChannelPlayer1)
	a.strip.SetMarker(a.players[Player2].Position, strip.ChannelPlayer2)
	a.show()
}

func (a *GameActor) uiStateStopped() {
	switch a.data.Winner {
	case NoWinner:
		a.strip.SetSolidPattern(strip.PatternGameIdle)
	case WinnerPlayer1:
		a.strip.SetSolidPattern(strip.PatternPlayer1Win)
	case WinnerPlayer2:
		a.strip.SetSolidPattern(strip.PatternPlayer2Win)
	default:
		log.Warn("GameActor %s: unsupported winner %s", a.selfPID, a.data.Winner)
		a.uiStateUnknown()
		return
	}
	a.show()
}

func (a *GameActor) uiStateUnknown() {
	a.strip.Clear()
	a.show()
}

func (a *GameActor) show() {
	if err := a.strip.Flush(); err != nil {
		log.Warn("GameActor %s: strip flush failed: %v", a.selfPID, err)
	}
}
