// Package strip is the colour buffer behind the ring of indicators and the sinks that display it.
package strip

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lguibr/ringrace/log"
	"github.com/lguibr/ringrace/metrics"
	"github.com/lguibr/ringrace/utils"
)

// Frame is an immutable copy of the buffer taken at Flush.
type Frame struct {
	Seq    uint64                  `json:"seq"`
	At     time.Time               `json:"at"`
	Pixels [utils.RingLength]Color `json:"pixels"`
}

// Sink displays frames. Show must not retain the frame past the call unless it copies it.
type Sink interface {
	Show(frame Frame) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(frame Frame) error

func (f SinkFunc) Show(frame Frame) error { return f(frame) }

// Ring is the strip buffer. The game actor is its only writer; sinks only see Frames.
type Ring struct {
	buf   [utils.RingLength]Color
	seq   uint64
	mu    sync.RWMutex // guards sinks and last
	sinks []Sink
	last  Frame
}

func NewRing(sinks ...Sink) *Ring {
	return &Ring{sinks: sinks}
}

// AddSink registers another display for subsequent flushes.
func (r *Ring) AddSink(s Sink) {
	r.mu.Lock()
	r.sinks = append(r.sinks, s)
	r.mu.Unlock()
}

func (r *Ring) Len() int { return utils.RingLength }

func (r *Ring) Clear() {
	r.buf = [utils.RingLength]Color{}
}

// SetMarker lights position in the channel's colour, mixing with whatever is already there.
func (r *Ring) SetMarker(position int, channel Channel) {
	c, ok := channel.Color()
	if !ok {
		log.Warn("strip: unsupported channel %d", channel)
		return
	}
	if position < 0 || position >= utils.RingLength {
		log.Warn("strip: marker position %d out of range", position)
		return
	}
	r.buf[position] = r.buf[position].Add(c)
}

// SetSolidPattern replaces the whole buffer. Unknown patterns clear it.
func (r *Ring) SetSolidPattern(p Pattern) {
	layout, ok := patterns[p]
	if !ok {
		log.Warn("strip: unsupported pattern %d", p)
		layout = patterns[PatternClear]
	}
	r.buf = layout
}

// Flush hands a copy of the buffer to every sink. All sinks are tried; their errors are joined.
func (r *Ring) Flush() error {
	r.seq++
	frame := Frame{Seq: r.seq, At: time.Now(), Pixels: r.buf}

	r.mu.Lock()
	r.last = frame
	sinks := make([]Sink, len(r.sinks))
	copy(sinks, r.sinks)
	r.mu.Unlock()

	metrics.FramesFlushed.Inc()

	var errs []error
	for _, s := range sinks {
		if err := s.Show(frame); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("flush frame %d: %w", frame.Seq, errors.Join(errs...))
	}
	return nil
}

// LastFrame returns the most recently flushed frame. Safe from any goroutine.
func (r *Ring) LastFrame() Frame {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}
