// Package input turns raw button edges into user actions for the game actor.
package input

import (
	"sync/atomic"
	"time"

	"github.com/lguibr/ringrace/utils"
)

// EdgeEvent is one physical transition on a pin, stamped by the producer.
type EdgeEvent struct {
	Pin         utils.Pin
	Level       utils.Level
	TimestampMs uint32
}

// ClassifierDeadline asks the input actor to re-check the game button's hold/gap timers.
type ClassifierDeadline struct{}

// Clock returns milliseconds on the same timeline that stamps EdgeEvents.
// Differences are taken in uint32 arithmetic, so wrap-around is harmless.
type Clock func() uint32

// MonotonicClock counts milliseconds since it was created.
func MonotonicClock() Clock {
	start := time.Now()
	return func() uint32 {
		return uint32(time.Since(start) / time.Millisecond)
	}
}

// ManualClock is a Clock that only moves when told to.
type ManualClock struct {
	ms atomic.Uint32
}

func (c *ManualClock) Now() uint32 { return c.ms.Load() }

func (c *ManualClock) Set(ms uint32) { c.ms.Store(ms) }

func (c *ManualClock) Advance(d time.Duration) uint32 {
	return c.ms.Add(uint32(d / time.Millisecond))
}

func millis(d time.Duration) uint32 {
	return uint32(d / time.Millisecond)
}
