// Package app wires the engine, actors, edge pump, strip sinks and virtual strip server.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/lguibr/ringrace/bollywood"
	"github.com/lguibr/ringrace/game"
	"github.com/lguibr/ringrace/input"
	"github.com/lguibr/ringrace/log"
	"github.com/lguibr/ringrace/metrics"
	"github.com/lguibr/ringrace/server"
	"github.com/lguibr/ringrace/strip"
	"github.com/lguibr/ringrace/utils"
)

const defaultShutdownTimeout = 3 * time.Second

type Options struct {
	// Terminal receives the ANSI ring drawing; nil disables the terminal sink.
	Terminal    io.Writer
	ClearScreen bool
	// Clock stamps virtual edges and times the game button; nil uses a monotonic clock.
	Clock input.Clock
}

type App struct {
	cfg  utils.Config
	opts Options

	engine    *bollywood.Engine
	ring      *strip.Ring
	snapshots *game.SnapshotStore
	edges     *input.EdgeSource

	gamePID        *bollywood.PID
	inputPID       *bollywood.PID
	broadcasterPID *bollywood.PID
	server         *server.Server

	stopPump context.CancelFunc
	pumpDone chan struct{}
}

func New(cfg utils.Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Clock == nil {
		opts.Clock = input.MonotonicClock()
	}
	edges, err := input.NewEdgeSource(cfg.EdgeQueueSize, opts.Clock)
	if err != nil {
		return nil, fmt.Errorf("create edge source: %w", err)
	}
	return &App{
		cfg:       cfg,
		opts:      opts,
		engine:    bollywood.NewEngine(),
		ring:      strip.NewRing(),
		snapshots: game.NewSnapshotStore(),
		edges:     edges,
	}, nil
}

// Start spawns the actors and the edge pump, then brings up the server if configured.
func (a *App) Start() error {
	a.engine.OnDrop(func(pid *bollywood.PID, message interface{}) {
		metrics.MessagesDropped.Inc()
	})

	if a.opts.Terminal != nil {
		a.ring.AddSink(strip.NewTerminal(a.opts.Terminal, a.opts.ClearScreen))
	}
	if a.cfg.ListenAddr != "" {
		a.broadcasterPID = a.engine.Spawn(bollywood.NewProps(server.NewBroadcasterProducer()).WithName("broadcaster"))
		a.ring.AddSink(server.NewBroadcastSink(a.engine, a.broadcasterPID))
	}

	a.gamePID = a.engine.Spawn(bollywood.NewProps(game.NewGameActorProducer(a.cfg, a.ring, a.snapshots)).
		WithName("game").
		WithMailboxSize(a.cfg.GameMailboxSize))
	if a.gamePID == nil {
		return fmt.Errorf("spawn game actor: engine is shutting down")
	}
	a.inputPID = a.engine.Spawn(bollywood.NewProps(input.NewInputActorProducer(a.cfg, a.gamePID, a.opts.Clock)).
		WithName("input").
		WithMailboxSize(a.cfg.InputMailboxSize))
	if a.inputPID == nil {
		return fmt.Errorf("spawn input actor: engine is shutting down")
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.stopPump = cancel
	a.pumpDone = make(chan struct{})
	engine, inputPID := a.engine, a.inputPID
	go func() {
		defer close(a.pumpDone)
		a.edges.Run(ctx, func(e input.EdgeEvent) {
			engine.Send(inputPID, e, nil)
		})
	}()

	if a.cfg.ListenAddr != "" {
		a.server = server.New(server.Options{
			Addr:        a.cfg.ListenAddr,
			Engine:      a.engine,
			Broadcaster: a.broadcasterPID,
			Snapshots:   a.snapshots,
			Edges:       a.edges,
		})
		if err := a.server.Start(); err != nil {
			return err
		}
	}

	log.Info("Ring race started: game=%s input=%s tick=%s", a.gamePID, a.inputPID, a.cfg.EngineTickPeriod)
	return nil
}

// Edges is the interrupt-side entry point: OnEdge and Press.
func (a *App) Edges() *input.EdgeSource { return a.edges }

func (a *App) Snapshots() *game.SnapshotStore { return a.snapshots }

// ServerAddr is the bound address of the virtual strip server, or "" when disabled.
func (a *App) ServerAddr() string {
	if a.server == nil {
		return ""
	}
	return a.server.Addr()
}

// Shutdown stops the server, the pump and every actor. The engine gets whatever
// is left of ctx's deadline.
func (a *App) Shutdown(ctx context.Context) error {
	var err error
	if a.server != nil {
		if stopErr := a.server.Stop(ctx); stopErr != nil {
			err = fmt.Errorf("stop server: %w", stopErr)
		}
	}
	if a.stopPump != nil {
		a.stopPump()
		<-a.pumpDone
	}

	timeout := defaultShutdownTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	a.engine.Shutdown(timeout)
	log.Info("Ring race stopped")
	return err
}
