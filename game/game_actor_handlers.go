package game

import (
	"github.com/lguibr/ringrace/log"
	"github.com/lguibr/ringrace/metrics"
)

func (a *GameActor) handleUserAction(action UserAction) {
	switch action.Kind {
	case Click:
		log.Trace("GameActor %s: click from %s", a.selfPID, action.Subject)
		a.handleClick(action.Subject)
	case DoubleClick:
		// Reserved: no transition is bound to it yet.
		log.Trace("GameActor %s: double click from %s ignored", a.selfPID, action.Subject)
	case LongPress:
		a.handleLongPress(action.Subject)
	default:
		log.Warn("GameActor %s: unsupported action kind %s from %s", a.selfPID, action.Kind, action.Subject)
		return
	}
	a.publish()
}

func (a *GameActor) handleClick(subject Subject) {
	switch subject {
	case GameButton:
		switch a.data.State {
		case Stopped:
			a.startGame()
		case Running:
			a.pauseGame()
		case Paused:
			a.resumeGame()
		default:
			log.Warn("GameActor %s: click in unsupported state %s", a.selfPID, a.data.State)
		}
	case Player1Button:
		if a.data.State == Running {
			a.players[Player1].advance()
		}
	case Player2Button:
		if a.data.State == Running {
			a.players[Player2].advance()
		}
	default:
		log.Warn("GameActor %s: unsupported button %s", a.selfPID, subject)
	}
}

func (a *GameActor) handleLongPress(subject Subject) {
	if subject != GameButton {
		log.Debug("GameActor %s: long press on %s ignored", a.selfPID, subject)
		return
	}
	if a.data.State == Running || a.data.State == Paused {
		a.stopGame()
	}
}

func (a *GameActor) startGame() {
	a.resetPlayers()
	a.data.Winner = NoWinner
	a.roundID = a.newRound()
	a.setState(Running)
	log.Info("GameActor %s: round %s started", a.selfPID, a.roundID)
}

func (a *GameActor) stopGame() {
	a.setState(Stopped)
	log.Info("GameActor %s: round %s stopped", a.selfPID, a.roundID)
}

func (a *GameActor) pauseGame() { a.setState(Paused) }

func (a *GameActor) resumeGame() { a.setState(Running) }

func (a *GameActor) setState(next State) {
	if prev := a.data.State; prev != next {
		metrics.StateTransitions.WithLabelValues(prev.String(), next.String()).Inc()
	}
	a.data.State = next
}

func (a *GameActor) resetPlayers() {
	for i := range a.players {
		a.players[i] = PlayerData{}
	}
}
