package utils

import "time"

const (
	// RingLength is the number of addressable positions on the strip.
	RingLength = 16

	// ClicksPerStep is how many player clicks advance a marker by one slot.
	ClicksPerStep = 1

	// NumPlayers is fixed: the race is always one against one.
	NumPlayers = 2

	// MaxWarmUpDelay caps the game actor's one-off wait before its tickers start.
	MaxWarmUpDelay = 2 * time.Second
)

// Pin identifies a GPIO line. Values follow the ESP32-C3 board the race was built for.
type Pin uint8

const (
	PinPlayer1 Pin = 6
	PinPlayer2 Pin = 7
	PinGame    Pin = 9 // shared with BOOT
)

// Level is the logic level carried by an edge.
type Level uint8

const (
	Low  Level = 0
	High Level = 1
)

// ActiveLevel is the pressed level; the buttons are wired with pull-ups.
const ActiveLevel = Low
