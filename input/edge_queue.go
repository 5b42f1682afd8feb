package input

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrQueueFull is reported when an edge could not be enqueued.
var ErrQueueFull = errors.New("edge queue full")

type edgeCell struct {
	seq  atomic.Uint64
	edge EdgeEvent
}

// EdgeQueue is a fixed-capacity lock-free FIFO (bounded MPMC ring with per-cell
// sequence numbers). Push and Pop never block and never allocate.
type EdgeQueue struct {
	mask  uint64
	cells []edgeCell
	_     [56]byte
	head  atomic.Uint64 // next slot to write
	_     [56]byte
	tail  atomic.Uint64 // next slot to read
}

// NewEdgeQueue allocates a queue; size must be a power of two and at least 2.
func NewEdgeQueue(size int) (*EdgeQueue, error) {
	if size < 2 || size&(size-1) != 0 {
		return nil, fmt.Errorf("edge queue size %d is not a power of two >= 2", size)
	}
	q := &EdgeQueue{
		mask:  uint64(size - 1),
		cells: make([]edgeCell, size),
	}
	for i := range q.cells {
		q.cells[i].seq.Store(uint64(i))
	}
	return q, nil
}

func (q *EdgeQueue) Cap() int { return len(q.cells) }

// Push appends e, or returns ErrQueueFull leaving the queue untouched (drop newest).
func (q *EdgeQueue) Push(e EdgeEvent) error {
	pos := q.head.Load()
	for {
		cell := &q.cells[pos&q.mask]
		seq := cell.seq.Load()
		switch dif := int64(seq) - int64(pos); {
		case dif == 0:
			if q.head.CompareAndSwap(pos, pos+1) {
				cell.edge = e
				cell.seq.Store(pos + 1)
				return nil
			}
			pos = q.head.Load()
		case dif < 0:
			return ErrQueueFull
		default:
			pos = q.head.Load()
		}
	}
}

// Pop removes the oldest edge. ok is false when the queue is empty.
func (q *EdgeQueue) Pop() (e EdgeEvent, ok bool) {
	pos := q.tail.Load()
	for {
		cell := &q.cells[pos&q.mask]
		seq := cell.seq.Load()
		switch dif := int64(seq) - int64(pos+1); {
		case dif == 0:
			if q.tail.CompareAndSwap(pos, pos+1) {
				e = cell.edge
				cell.seq.Store(pos + q.mask + 1)
				return e, true
			}
			pos = q.tail.Load()
		case dif < 0:
			return EdgeEvent{}, false
		default:
			pos = q.tail.Load()
		}
	}
}
