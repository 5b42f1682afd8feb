package input

import (
	"strconv"
	"time"

	"github.com/lguibr/ringrace/bollywood"
	"github.com/lguibr/ringrace/game"
	"github.com/lguibr/ringrace/log"
	"github.com/lguibr/ringrace/metrics"
	"github.com/lguibr/ringrace/utils"
)

type playerButton struct {
	subject  game.Subject
	debounce pressDebouncer
}

// InputActor classifies edges and posts at most one UserAction per edge to the game actor.
type InputActor struct {
	gamePID *bollywood.PID
	clock   Clock

	players    map[utils.Pin]*playerButton
	gameButton *ButtonClassifier

	selfPID  *bollywood.PID
	engine   *bollywood.Engine
	deadline *time.Timer
}

// NewInputActorProducer creates a producer for the InputActor. clock must be the
// clock the edges are stamped with.
func NewInputActorProducer(cfg utils.Config, gamePID *bollywood.PID, clock Clock) bollywood.Producer {
	return func() bollywood.Actor {
		return newInputActor(cfg, gamePID, clock)
	}
}

func newInputActor(cfg utils.Config, gamePID *bollywood.PID, clock Clock) *InputActor {
	if clock == nil {
		clock = MonotonicClock()
	}
	minPress := millis(cfg.MinPressDuration)
	return &InputActor{
		gamePID: gamePID,
		clock:   clock,
		players: map[utils.Pin]*playerButton{
			utils.PinPlayer1: {subject: game.Player1Button, debounce: pressDebouncer{minPressMs: minPress}},
			utils.PinPlayer2: {subject: game.Player2Button, debounce: pressDebouncer{minPressMs: minPress}},
		},
		gameButton: NewButtonClassifier(cfg.ButtonDebounce, cfg.DoubleClickGap, cfg.LongPress),
	}
}

func (a *InputActor) Receive(ctx bollywood.Context) {
	switch m := ctx.Message().(type) {
	case bollywood.Started:
		a.selfPID = ctx.Self()
		a.engine = ctx.Engine()
		log.Debug("InputActor %s: started, posting to %s", a.selfPID, a.gamePID)

	case EdgeEvent:
		a.handleEdge(m)

	case ClassifierDeadline:
		if kind, ok := a.gameButton.Expire(a.clock()); ok {
			a.post(kind, game.GameButton)
		}
		a.armDeadline()

	case bollywood.Stopping:
		if a.deadline != nil {
			a.deadline.Stop()
		}

	case bollywood.Stopped:
		log.Debug("InputActor %s: stopped", a.selfPID)

	default:
		log.Warn("InputActor %s: unsupported message type %T", a.selfPID, m)
	}
}

func (a *InputActor) handleEdge(e EdgeEvent) {
	metrics.EdgesReceived.WithLabelValues(strconv.Itoa(int(e.Pin))).Inc()

	if btn, ok := a.players[e.Pin]; ok {
		switch btn.debounce.onEdge(e.Level, e.TimestampMs) {
		case pressClick:
			a.post(game.Click, btn.subject)
		case pressBounce:
			metrics.DebounceSuppressed.WithLabelValues(btn.subject.String()).Inc()
			log.Trace("InputActor: %s release within %dms ignored", btn.subject, btn.debounce.minPressMs)
		}
		return
	}

	if e.Pin == utils.PinGame {
		if kind, ok := a.gameButton.OnEdge(e.Level, e.TimestampMs); ok {
			a.post(kind, game.GameButton)
		}
		a.armDeadline()
		return
	}

	metrics.EdgesUnknownPin.Inc()
	log.Warn("InputActor %s: edge on unknown pin %d dropped", a.selfPID, e.Pin)
}

func (a *InputActor) post(kind game.ActionKind, subject game.Subject) {
	metrics.ActionsPosted.WithLabelValues(kind.String(), subject.String()).Inc()
	log.Trace("InputActor: %s on %s", kind, subject)
	if !a.engine.Send(a.gamePID, game.UserAction{Kind: kind, Subject: subject}, a.selfPID) {
		log.Warn("InputActor %s: %s on %s not delivered to %s", a.selfPID, kind, subject, a.gamePID)
	}
}

// armDeadline schedules one ClassifierDeadline for the classifier's next instant,
// replacing any earlier one.
func (a *InputActor) armDeadline() {
	if a.deadline != nil {
		a.deadline.Stop()
		a.deadline = nil
	}
	at, ok := a.gameButton.Deadline()
	if !ok || a.engine == nil {
		return
	}
	wait := time.Duration(int32(at-a.clock())) * time.Millisecond
	if wait < 0 {
		wait = 0
	}
	engine, self := a.engine, a.selfPID
	a.deadline = time.AfterFunc(wait, func() {
		engine.Send(self, ClassifierDeadline{}, nil)
	})
}
