package input

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/lguibr/ringrace/log"
	"github.com/lguibr/ringrace/metrics"
	"github.com/lguibr/ringrace/utils"
)

// EdgeSource is the interrupt-side entry point. OnEdge may be called from any
// goroutine; Run drains what it queued on a single pump goroutine.
type EdgeSource struct {
	queue   *EdgeQueue
	wake    chan struct{}
	dropped atomic.Uint64
	clock   Clock
}

// NewEdgeSource builds a source with a queue of the given capacity.
func NewEdgeSource(size int, clock Clock) (*EdgeSource, error) {
	q, err := NewEdgeQueue(size)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = MonotonicClock()
	}
	return &EdgeSource{
		queue: q,
		wake:  make(chan struct{}, 1),
		clock: clock,
	}, nil
}

// OnEdge records one transition. It never blocks or logs; when the queue is full
// the edge is dropped and counted, and ErrQueueFull is returned.
func (s *EdgeSource) OnEdge(pin utils.Pin, level utils.Level, timestampMs uint32) error {
	err := s.queue.Push(EdgeEvent{Pin: pin, Level: level, TimestampMs: timestampMs})
	if err != nil {
		s.dropped.Add(1)
	}
	select {
	case s.wake <- struct{}{}:
	default:
	}
	return err
}

// Now reads the clock edges are stamped with.
func (s *EdgeSource) Now() uint32 { return s.clock() }

// Press emits an active edge now and the matching release after hold. It stands
// in for a physical button on the keyboard and HTTP surfaces.
func (s *EdgeSource) Press(pin utils.Pin, hold time.Duration) error {
	if err := s.OnEdge(pin, utils.ActiveLevel, s.clock()); err != nil {
		return err
	}
	time.AfterFunc(hold, func() {
		_ = s.OnEdge(pin, inactive(utils.ActiveLevel), s.clock())
	})
	return nil
}

// Dropped is the number of edges lost to a full queue so far.
func (s *EdgeSource) Dropped() uint64 { return s.dropped.Load() }

// Run is the pump: it waits for a wake-up, drains the queue in FIFO order and
// hands each edge to deliver. It returns when ctx is cancelled.
func (s *EdgeSource) Run(ctx context.Context, deliver func(EdgeEvent)) {
	var reported uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		}

		for {
			e, ok := s.queue.Pop()
			if !ok {
				break
			}
			deliver(e)
		}

		if total := s.dropped.Load(); total != reported {
			lost := total - reported
			reported = total
			metrics.EdgesDropped.Add(float64(lost))
			log.Warn("EdgeSource: queue full, dropped %d edge(s) (%d total)", lost, total)
		}
	}
}

func inactive(level utils.Level) utils.Level {
	if level == utils.Low {
		return utils.High
	}
	return utils.Low
}
