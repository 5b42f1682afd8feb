package strip

import "fmt"

// Color is one 24-bit RGB indicator value.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

var (
	Black = Color{}
	Red   = Color{R: 255}
	Green = Color{G: 255}
	Blue  = Color{B: 255}
)

// Add mixes two colours the way overlapping LEDs do, saturating each channel.
func (c Color) Add(o Color) Color {
	return Color{R: addSat(c.R, o.R), G: addSat(c.G, o.G), B: addSat(c.B, o.B)}
}

func (c Color) IsOff() bool { return c == Black }

func (c Color) String() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

func addSat(a, b uint8) uint8 {
	if s := uint16(a) + uint16(b); s < 0xff {
		return uint8(s)
	}
	return 0xff
}
