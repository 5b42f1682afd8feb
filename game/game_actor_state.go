package game

import (
	"github.com/lguibr/ringrace/log"
	"github.com/lguibr/ringrace/metrics"
)

// updateState runs win detection. Only a coincidence with strictly more laps wins;
// both markers start on slot 0 with zero laps, so equal laps must never end the race.
func (a *GameActor) updateState() {
	if a.data.State != Running {
		return
	}
	p1, p2 := a.players[Player1], a.players[Player2]
	if p1.Position != p2.Position {
		return
	}
	switch {
	case p1.LapCount > p2.LapCount:
		a.declareWinner(WinnerPlayer1)
	case p2.LapCount > p1.LapCount:
		a.declareWinner(WinnerPlayer2)
	}
}

func (a *GameActor) declareWinner(w Winner) {
	a.data.Winner = w
	a.setState(Stopped)
	metrics.Wins.WithLabelValues(w.String()).Inc()
	log.Info("GameActor %s: round %s won by %s (p1=%+v p2=%+v)",
		a.selfPID, a.roundID, w, a.players[Player1], a.players[Player2])
}
