package bollywood

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingActor struct {
	mu       sync.Mutex
	received []interface{}
	block    chan struct{}
}

func (a *recordingActor) Receive(ctx Context) {
	if a.block != nil {
		if _, ok := ctx.Message().(int); ok {
			<-a.block
		}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.received = append(a.received, ctx.Message())
}

func (a *recordingActor) messages() []interface{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	msgs := make([]interface{}, len(a.received))
	copy(msgs, a.received)
	return msgs
}

func TestEngine_DeliversInOrderAfterStarted(t *testing.T) {
	engine := NewEngine()
	defer engine.Shutdown(time.Second)

	actor := &recordingActor{}
	pid := engine.Spawn(NewProps(func() Actor { return actor }).WithName("rec"))
	require.NotNil(t, pid)
	assert.Contains(t, pid.String(), "rec-")

	for i := 0; i < 50; i++ {
		assert.True(t, engine.Send(pid, "m", nil))
	}

	assert.Eventually(t, func() bool { return len(actor.messages()) == 51 }, time.Second, 5*time.Millisecond)
	msgs := actor.messages()
	assert.Equal(t, Started{}, msgs[0])
	for _, m := range msgs[1:] {
		assert.Equal(t, "m", m)
	}
}

func TestEngine_FullMailboxDropsAndReports(t *testing.T) {
	engine := NewEngine()
	defer engine.Shutdown(time.Second)

	var drops atomic.Int32
	engine.OnDrop(func(pid *PID, message interface{}) { drops.Add(1) })

	actor := &recordingActor{block: make(chan struct{})}
	pid := engine.Spawn(NewProps(func() Actor { return actor }).WithMailboxSize(2))

	// The first int parks the actor inside Receive; the mailbox then holds two more.
	assert.Eventually(t, func() bool { return len(actor.messages()) == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, engine.Send(pid, 1, nil))
	time.Sleep(20 * time.Millisecond)
	assert.True(t, engine.Send(pid, 2, nil))
	assert.True(t, engine.Send(pid, 3, nil))
	assert.False(t, engine.Send(pid, 4, nil))
	assert.Equal(t, int32(1), drops.Load())

	close(actor.block)
	assert.Eventually(t, func() bool { return len(actor.messages()) == 4 }, time.Second, 5*time.Millisecond)
}

func TestEngine_StopDeliversStoppingAndStopped(t *testing.T) {
	engine := NewEngine()
	actor := &recordingActor{}
	pid := engine.Spawn(NewProps(func() Actor { return actor }))

	assert.Eventually(t, func() bool { return len(actor.messages()) == 1 }, time.Second, 5*time.Millisecond)
	engine.Stop(pid)

	assert.Eventually(t, func() bool { return !engine.Alive(pid) }, time.Second, 5*time.Millisecond)
	msgs := actor.messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, Stopping{}, msgs[1])
	assert.Equal(t, Stopped{}, msgs[2])

	assert.False(t, engine.Send(pid, "late", nil))
}

type panickyActor struct{ calls atomic.Int32 }

func (a *panickyActor) Receive(ctx Context) {
	if ctx.Message() == "boom" {
		panic("boom")
	}
	a.calls.Add(1)
}

func TestEngine_RecoversFromReceivePanic(t *testing.T) {
	engine := NewEngine()
	defer engine.Shutdown(time.Second)

	actor := &panickyActor{}
	pid := engine.Spawn(NewProps(func() Actor { return actor }))
	engine.Send(pid, "boom", nil)
	engine.Send(pid, "fine", nil)

	assert.Eventually(t, func() bool { return actor.calls.Load() == 2 }, time.Second, 5*time.Millisecond)
	assert.True(t, engine.Alive(pid))
}

func TestEngine_ShutdownRejectsSpawn(t *testing.T) {
	engine := NewEngine()
	engine.Spawn(NewProps(func() Actor { return &recordingActor{} }))
	engine.Shutdown(time.Second)

	assert.Nil(t, engine.Spawn(NewProps(func() Actor { return &recordingActor{} })))
	assert.False(t, engine.Send(&PID{ID: "actor-1"}, "x", nil))
}
