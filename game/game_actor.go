package game

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lguibr/ringrace/bollywood"
	"github.com/lguibr/ringrace/log"
	"github.com/lguibr/ringrace/metrics"
	"github.com/lguibr/ringrace/strip"
	"github.com/lguibr/ringrace/utils"
)

// Strip is the rendering collaborator the game actor draws on once per engine tick.
type Strip interface {
	Len() int
	Clear()
	SetMarker(position int, channel strip.Channel)
	SetSolidPattern(pattern strip.Pattern)
	Flush() error
}

// GameActor owns the race. Every field is touched only from Receive.
type GameActor struct {
	cfg       utils.Config
	strip     Strip
	snapshots *SnapshotStore
	newRound  func() string

	data    GameData
	players [utils.NumPlayers]PlayerData
	roundID string
	ticks   uint64

	selfPID  *bollywood.PID
	tickers  sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewGameActorProducer creates a producer for the GameActor. snapshots may be nil.
func NewGameActorProducer(cfg utils.Config, s Strip, snapshots *SnapshotStore) bollywood.Producer {
	return func() bollywood.Actor {
		return newGameActor(cfg, s, snapshots)
	}
}

func newGameActor(cfg utils.Config, s Strip, snapshots *SnapshotStore) *GameActor {
	if snapshots == nil {
		snapshots = NewSnapshotStore()
	}
	return &GameActor{
		cfg:       cfg,
		strip:     s,
		snapshots: snapshots,
		newRound:  uuid.NewString,
		data:      GameData{State: Stopped, Winner: NoWinner, Slot: SlotGame},
		stopCh:    make(chan struct{}),
	}
}

// Receive is the main message handler for the GameActor.
func (a *GameActor) Receive(ctx bollywood.Context) {
	switch m := ctx.Message().(type) {
	case bollywood.Started:
		a.selfPID = ctx.Self()
		a.warmUp()
		a.startTickers(ctx.Engine())
		a.publish()
		log.Debug("GameActor %s: started", a.selfPID)

	case Tick:
		a.handleTick(m)

	case UserAction:
		a.handleUserAction(m)

	case bollywood.Stopping:
		log.Debug("GameActor %s: stopping", a.selfPID)
		a.stopTickers()

	case bollywood.Stopped:
		log.Debug("GameActor %s: stopped", a.selfPID)

	default:
		log.Warn("GameActor %s: unsupported message type %T", a.selfPID, m)
	}
}

func (a *GameActor) handleTick(t Tick) {
	metrics.Ticks.WithLabelValues(t.Timer.String()).Inc()
	switch t.Timer {
	case TimerEngine:
		a.ticks++
		a.updateState()
		a.updateUi()
		a.publish()
	case TimerHeartbeat:
		log.Trace("GameActor %s: heartbeat state=%s winner=%s p1=%+v p2=%+v",
			a.selfPID, a.data.State, a.data.Winner, a.players[Player1], a.players[Player2])
	default:
		log.Warn("GameActor %s: unsupported timer %s", a.selfPID, t.Timer)
	}
}

// warmUp is the only place the actor suspends outside its mailbox.
func (a *GameActor) warmUp() {
	d := a.cfg.WarmUpDelay
	if d > utils.MaxWarmUpDelay {
		d = utils.MaxWarmUpDelay
	}
	if d > 0 {
		time.Sleep(d)
	}
}

// startTickers launches one goroutine per timer. Each only posts Tick messages to pid.
func (a *GameActor) startTickers(engine *bollywood.Engine) {
	if engine == nil || a.selfPID == nil {
		log.Error("GameActor: cannot start tickers without engine and self PID")
		return
	}
	a.runTicker(engine, a.selfPID, TimerEngine, a.cfg.EngineTickPeriod)
	a.runTicker(engine, a.selfPID, TimerHeartbeat, a.cfg.HeartbeatPeriod)
}

func (a *GameActor) runTicker(engine *bollywood.Engine, pid *bollywood.PID, id TimerID, period time.Duration) {
	if period <= 0 {
		return
	}
	stopCh := a.stopCh
	msg := Tick{Timer: id}

	a.tickers.Add(1)
	go func() {
		defer a.tickers.Done()
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				engine.Send(pid, msg, nil)
			}
		}
	}()
}

func (a *GameActor) stopTickers() {
	a.stopOnce.Do(func() { close(a.stopCh) })
	a.tickers.Wait()
}

func (a *GameActor) publish() {
	a.snapshots.publish(Snapshot{
		RoundID: a.roundID,
		Game:    a.data,
		Players: a.players,
		Ticks:   a.ticks,
		At:      time.Now(),
	})
}
