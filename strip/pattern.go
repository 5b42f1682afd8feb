package strip

import "github.com/lguibr/ringrace/utils"

// Channel selects which player's colour a marker is drawn with.
type Channel uint8

const (
	ChannelPlayer1 Channel = iota + 1
	ChannelPlayer2
)

func (c Channel) Color() (Color, bool) {
	switch c {
	case ChannelPlayer1:
		return Green, true
	case ChannelPlayer2:
		return Blue, true
	}
	return Black, false
}

// Pattern names one of the full-ring solid layouts.
type Pattern uint8

const (
	PatternClear Pattern = iota
	PatternGameIdle
	PatternPlayer1Win
	PatternPlayer2Win
)

func (p Pattern) String() string {
	switch p {
	case PatternClear:
		return "clear"
	case PatternGameIdle:
		return "game-idle"
	case PatternPlayer1Win:
		return "player1-win"
	case PatternPlayer2Win:
		return "player2-win"
	}
	return "unknown"
}

// Solid layouts light the even indices only.
var patterns = map[Pattern][utils.RingLength]Color{
	PatternClear:      {},
	PatternGameIdle:   alternating(Red),
	PatternPlayer1Win: alternating(Green),
	PatternPlayer2Win: alternating(Blue),
}

func alternating(c Color) [utils.RingLength]Color {
	var p [utils.RingLength]Color
	for i := 0; i < utils.RingLength; i += 2 {
		p[i] = c
	}
	return p
}
