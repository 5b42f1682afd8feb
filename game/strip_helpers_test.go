package game

import (
	"fmt"
	"sync"

	"github.com/lguibr/ringrace/strip"
)

// recordingStrip is a Strip that remembers the calls of the last composed frame.
type recordingStrip struct {
	mu      sync.Mutex
	pending []string
	flushed [][]string
}

func (s *recordingStrip) Len() int { return 16 }

func (s *recordingStrip) Clear() { s.record("clear") }

func (s *recordingStrip) SetMarker(position int, channel strip.Channel) {
	s.record(fmt.Sprintf("marker %d ch%d", position, channel))
}

func (s *recordingStrip) SetSolidPattern(p strip.Pattern) { s.record("pattern " + p.String()) }

func (s *recordingStrip) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushed = append(s.flushed, s.pending)
	s.pending = nil
	return nil
}

func (s *recordingStrip) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, call)
}

func (s *recordingStrip) lastFrame() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.flushed) == 0 {
		return nil
	}
	return s.flushed[len(s.flushed)-1]
}

func (s *recordingStrip) frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.flushed)
}
