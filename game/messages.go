package game

import "fmt"

// ActionKind is what the button classifier decided a press was.
type ActionKind uint8

const (
	Click ActionKind = iota + 1
	DoubleClick
	LongPress
)

func (k ActionKind) String() string {
	switch k {
	case Click:
		return "click"
	case DoubleClick:
		return "double-click"
	case LongPress:
		return "long-press"
	}
	return fmt.Sprintf("action(%d)", uint8(k))
}

// Subject is the button an action came from.
type Subject uint8

const (
	GameButton Subject = iota + 1
	Player1Button
	Player2Button
)

func (s Subject) String() string {
	switch s {
	case GameButton:
		return "game"
	case Player1Button:
		return "player1"
	case Player2Button:
		return "player2"
	}
	return fmt.Sprintf("subject(%d)", uint8(s))
}

// UserAction is posted by the input actor, at most once per debounced transition.
type UserAction struct {
	Kind    ActionKind
	Subject Subject
}

// TimerID tells the game actor which of its timers produced a Tick.
type TimerID uint8

const (
	TimerEngine TimerID = iota + 1
	TimerHeartbeat
)

func (id TimerID) String() string {
	switch id {
	case TimerEngine:
		return "engine"
	case TimerHeartbeat:
		return "heartbeat"
	}
	return fmt.Sprintf("timer(%d)", uint8(id))
}

// Tick is sent by a timer goroutine into the game actor's own mailbox.
type Tick struct {
	Timer TimerID
}
