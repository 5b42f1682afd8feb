package game

import (
	"fmt"

	"github.com/lguibr/ringrace/utils"
)

type State uint8

const (
	Stopped State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Paused:
		return "paused"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

type Winner uint8

const (
	NoWinner Winner = iota
	WinnerPlayer1
	WinnerPlayer2
)

func (w Winner) String() string {
	switch w {
	case NoWinner:
		return "none"
	case WinnerPlayer1:
		return "player1"
	case WinnerPlayer2:
		return "player2"
	}
	return fmt.Sprintf("winner(%d)", uint8(w))
}

func (w Winner) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

// Slot is the display cursor. It only selects what is drawn, never what happens.
type Slot uint8

const (
	SlotGame Slot = iota
	SlotPlayer1
	SlotPlayer2
	numSlots
)

func (s Slot) Next() Slot { return (s + 1) % numSlots }

func (s Slot) String() string {
	switch s {
	case SlotGame:
		return "game"
	case SlotPlayer1:
		return "player1"
	case SlotPlayer2:
		return "player2"
	}
	return fmt.Sprintf("slot(%d)", uint8(s))
}

func (s Slot) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Player indexes the two PlayerData entries.
type Player int

const (
	Player1 Player = iota
	Player2
)

// PlayerData is one racer's progress around the ring.
type PlayerData struct {
	Position   int `json:"position"`
	ClickCount int `json:"clickCount"`
	LapCount   int `json:"lapCount"`
}

// advance counts a click and moves one slot every utils.ClicksPerStep clicks.
func (p *PlayerData) advance() {
	p.ClickCount++
	if p.ClickCount < utils.ClicksPerStep {
		return
	}
	p.ClickCount = 0
	if p.Position < utils.RingLength-1 {
		p.Position++
		return
	}
	p.Position = 0
	p.LapCount++
}

type GameData struct {
	State  State  `json:"state"`
	Winner Winner `json:"winner"`
	Slot   Slot   `json:"slot"`
}
