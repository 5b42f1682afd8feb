package bollywood

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lguibr/ringrace/log"
)

// DropHandler is notified whenever a message cannot be delivered.
type DropHandler func(pid *PID, message interface{})

// Engine manages the lifecycle and message dispatching for actors.
type Engine struct {
	pidCounter uint64
	actors     map[string]*process
	mu         sync.RWMutex // Protects the actors map
	stopping   atomic.Bool  // Indicates if the engine is shutting down
	onDrop     atomic.Value // DropHandler
}

// NewEngine creates a new actor engine.
func NewEngine() *Engine {
	return &Engine{
		actors: make(map[string]*process),
	}
}

// OnDrop registers a handler invoked for every dropped message (full mailbox or unknown PID).
func (e *Engine) OnDrop(handler DropHandler) {
	e.onDrop.Store(handler)
}

func (e *Engine) dropped(pid *PID, message interface{}) {
	if h, ok := e.onDrop.Load().(DropHandler); ok && h != nil {
		h(pid, message)
	}
}

func (e *Engine) nextPID(name string) *PID {
	id := atomic.AddUint64(&e.pidCounter, 1)
	if name == "" {
		name = "actor"
	}
	return &PID{ID: fmt.Sprintf("%s-%d", name, id)}
}

// Spawn creates and starts a new actor based on the provided Props.
// It returns the PID of the newly created actor, or nil while the engine shuts down.
func (e *Engine) Spawn(props *Props) *PID {
	if e.stopping.Load() {
		log.Warn("Engine is stopping, cannot spawn new actors")
		return nil
	}

	pid := e.nextPID(props.name)
	proc := newProcess(e, pid, props)

	e.mu.Lock()
	e.actors[pid.ID] = proc
	e.mu.Unlock()

	go proc.run()

	e.Send(pid, Started{}, nil)

	return pid
}

// Send delivers a message to the actor identified by the PID without blocking.
// It reports whether the message was enqueued.
// sender can be nil if the message originates from outside the actor system.
func (e *Engine) Send(pid *PID, message interface{}, sender *PID) bool {
	if pid == nil {
		return false
	}
	if e.stopping.Load() && !isSystemMessage(message) {
		return false
	}

	e.mu.RLock()
	proc, ok := e.actors[pid.ID]
	e.mu.RUnlock()

	if !ok {
		e.dropped(pid, message)
		return false
	}
	return proc.sendMessage(message, sender)
}

// Stop requests an actor to stop processing messages and shut down.
// The actor processes Stopping, then Stopped once its goroutine exits.
func (e *Engine) Stop(pid *PID) {
	if pid == nil {
		return
	}
	e.mu.RLock()
	proc, ok := e.actors[pid.ID]
	e.mu.RUnlock()

	if ok {
		e.Send(pid, Stopping{}, nil)
		// Guarantees termination even when the mailbox is full.
		proc.signalStop()
	}
}

// Alive reports whether the PID still belongs to a running actor.
func (e *Engine) Alive(pid *PID) bool {
	if pid == nil {
		return false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.actors[pid.ID]
	return ok
}

func (e *Engine) remove(pid *PID) {
	e.mu.Lock()
	delete(e.actors, pid.ID)
	e.mu.Unlock()
}

// Shutdown stops all actors and waits for them to terminate, up to timeout.
func (e *Engine) Shutdown(timeout time.Duration) {
	if !e.stopping.CompareAndSwap(false, true) {
		log.Debug("Engine already shutting down")
		return
	}

	e.mu.RLock()
	pidsToStop := make([]*PID, 0, len(e.actors))
	for _, proc := range e.actors {
		pidsToStop = append(pidsToStop, proc.pid)
	}
	e.mu.RUnlock()

	log.Info("Engine shutdown: stopping %d actors", len(pidsToStop))
	for _, pid := range pidsToStop {
		e.Stop(pid)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		e.mu.RLock()
		remaining := len(e.actors)
		e.mu.RUnlock()
		if remaining == 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.actors) > 0 {
		remainingActors := make([]string, 0, len(e.actors))
		for id := range e.actors {
			remainingActors = append(remainingActors, id)
		}
		log.Warn("Engine shutdown timeout: actors did not stop gracefully: %v", remainingActors)
		e.actors = make(map[string]*process)
	}
}
