package strip

import (
	"fmt"
	"io"
	"strings"

	"github.com/lguibr/asciiring/helpers"
	"github.com/lguibr/ringrace/utils"
)

const (
	boxSide = utils.RingLength/4 + 1 // the ring is drawn around the border of a square
	litCell = "●"
	offCell = "·"
)

// Terminal draws each frame as a square loop of coloured dots using ANSI true colour.
type Terminal struct {
	out   io.Writer
	clear func()
}

// NewTerminal writes frames to out. When out is the process stdout, pass clearScreen=true
// so each frame replaces the previous one.
func NewTerminal(out io.Writer, clearScreen bool) *Terminal {
	t := &Terminal{out: out}
	if clearScreen {
		t.clear = func() { helpers.ClearScreen() }
	}
	return t
}

func (t *Terminal) Show(frame Frame) error {
	if t.clear != nil {
		t.clear()
	}
	if _, err := io.WriteString(t.out, RenderToASCII(frame)); err != nil {
		return fmt.Errorf("terminal sink: %w", err)
	}
	return nil
}

// RenderToASCII lays the ring out clockwise from the top-left corner of a square.
func RenderToASCII(frame Frame) string {
	var grid [boxSide][boxSide]string
	for y := range grid {
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}
	for i, c := range frame.Pixels {
		x, y := ringToGrid(i)
		grid[y][x] = cell(c)
	}

	var ascii strings.Builder
	for _, row := range grid {
		ascii.WriteString(strings.Join(row[:], " "))
		ascii.WriteString("\r\n")
	}
	return ascii.String()
}

// ringToGrid maps a ring index to the square's border, clockwise from the top-left corner.
func ringToGrid(i int) (x, y int) {
	side := boxSide - 1
	switch {
	case i < side:
		return i, 0
	case i < 2*side:
		return side, i - side
	case i < 3*side:
		return side - (i - 2*side), side
	default:
		return 0, side - (i - 3*side)
	}
}

func rgbToAnsi(c Color) string {
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", c.R, c.G, c.B)
}

func cell(c Color) string {
	if c.IsOff() {
		return offCell
	}
	return rgbToAnsi(c) + litCell + "\033[0m"
}
