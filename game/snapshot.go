package game

import (
	"sync/atomic"
	"time"

	"github.com/lguibr/ringrace/utils"
)

// Snapshot is an immutable copy of the race published after every processed tick or action.
type Snapshot struct {
	RoundID string                       `json:"roundId,omitempty"`
	Game    GameData                     `json:"game"`
	Players [utils.NumPlayers]PlayerData `json:"players"`
	Ticks   uint64                       `json:"ticks"`
	At      time.Time                    `json:"at"`
}

// SnapshotStore hands snapshots from the game actor to readers on other goroutines.
type SnapshotStore struct {
	p atomic.Pointer[Snapshot]
}

func NewSnapshotStore() *SnapshotStore {
	s := &SnapshotStore{}
	s.p.Store(&Snapshot{})
	return s
}

func (s *SnapshotStore) publish(snap Snapshot) {
	s.p.Store(&snap)
}

// Snapshot returns the latest published copy.
func (s *SnapshotStore) Snapshot() Snapshot {
	return *s.p.Load()
}
