package bollywood

import (
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/lguibr/ringrace/log"
)

// process represents the running instance of an actor, including its state and mailbox.
type process struct {
	engine   *Engine
	pid      *PID
	actor    Actor
	mailbox  chan *messageEnvelope
	props    *Props
	stopCh   chan struct{}
	stopOnce sync.Once
	stopped  atomic.Bool
}

func newProcess(engine *Engine, pid *PID, props *Props) *process {
	return &process{
		engine:  engine,
		pid:     pid,
		props:   props,
		mailbox: make(chan *messageEnvelope, props.mailboxSize),
		stopCh:  make(chan struct{}),
	}
}

func (p *process) signalStop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
}

// sendMessage enqueues without blocking; a full mailbox drops the message.
func (p *process) sendMessage(message interface{}, sender *PID) bool {
	if p.stopped.Load() && !isSystemMessage(message) {
		return false
	}

	select {
	case p.mailbox <- &messageEnvelope{Sender: sender, Message: message}:
		return true
	default:
		log.Warn("Actor %s mailbox full, dropping message type %T", p.pid, message)
		p.engine.dropped(p.pid, message)
		return false
	}
}

// run is the main loop for the actor process.
func (p *process) run() {
	stoppingInvoked := false

	defer func() {
		p.stopped.Store(true)
		if p.actor != nil {
			if !stoppingInvoked {
				p.invokeReceive(Stopping{}, nil)
			}
			p.invokeReceive(Stopped{}, nil)
		}
		p.engine.remove(p.pid)
	}()

	p.actor = p.props.Produce()
	if p.actor == nil {
		log.Error("Actor %s producer returned nil actor", p.pid)
		return
	}

	for {
		select {
		case <-p.stopCh:
			// Drain a pending Stopping so the actor sees it exactly once.
		drain:
			for {
				select {
				case envelope := <-p.mailbox:
					if _, ok := envelope.Message.(Stopping); ok && !stoppingInvoked {
						p.invokeReceive(envelope.Message, envelope.Sender)
						stoppingInvoked = true
					}
				default:
					break drain
				}
			}
			return

		case envelope := <-p.mailbox:
			switch msg := envelope.Message.(type) {
			case Stopping:
				if !stoppingInvoked {
					p.invokeReceive(msg, envelope.Sender)
					stoppingInvoked = true
				}
				p.stopped.Store(true)
				p.signalStop()
			case Stopped:
				log.Warn("Actor %s received unexpected Stopped message via mailbox", p.pid)
			default:
				if p.stopped.Load() && !isSystemMessage(msg) {
					continue
				}
				p.invokeReceive(msg, envelope.Sender)
			}
		}
	}
}

// invokeReceive calls the actor's Receive method, recovering from panics within it.
func (p *process) invokeReceive(msg interface{}, sender *PID) {
	ctx := &messageContext{
		engine:  p.engine,
		self:    p.pid,
		sender:  sender,
		message: msg,
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("Actor %s panicked during Receive(%T): %v\n%s", p.pid, msg, r, string(debug.Stack()))
		}
	}()
	p.actor.Receive(ctx)
}
