package griddle

import (
	"errors"
	"image/color"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidInput reports a rejected add request. Tracker state is unchanged.
	ErrInvalidInput = errors.New("griddle: invalid input")
	// ErrCorrupted reports a tracker invariant violation detected during a tick.
	ErrCorrupted = errors.New("griddle: tracker corrupted")
)

// PattyID identifies a patty for its whole lifetime. Two patties may share a
// position, so identity never derives from coordinates.
type PattyID = uuid.UUID

// Position is a point on the griddle display surface.
type Position struct {
	X, Y int
}

// Color enumerates the colors the renderer applies to a patty marker.
type Color int

const (
	Green Color = iota
	Orange
	Red
	Black
)

// String returns the Tk color name.
func (c Color) String() string {
	switch c {
	case Green:
		return "green"
	case Orange:
		return "orange"
	case Red:
		return "red"
	case Black:
		return "black"
	default:
		return "unknown"
	}
}

// RGBA returns the display color.
func (c Color) RGBA() color.RGBA {
	switch c {
	case Green:
		return color.RGBA{0x00, 0x80, 0x00, 0xFF}
	case Orange:
		return color.RGBA{0xFF, 0xA5, 0x00, 0xFF}
	case Red:
		return color.RGBA{0xFF, 0x00, 0x00, 0xFF}
	default:
		return color.RGBA{0x00, 0x00, 0x00, 0xFF}
	}
}

// TextColor returns the numeral color readable on c.
func (c Color) TextColor() color.RGBA {
	if c == Orange {
		return color.RGBA{0x00, 0x00, 0x00, 0xFF}
	}
	return color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
}

// Patty is a tracked cooking unit.
type Patty struct {
	ID          PattyID
	Position    Position
	Remaining   int
	AlarmActive bool
	BlinkPhase  bool
	AddedAt     time.Time
}

// RenderEntry is the per-patty render model emitted once per tick.
type RenderEntry struct {
	ID        PattyID
	Position  Position
	Remaining int
	Urgency   Color
	Blink     Color
	Blinking  bool
}

// Fill returns the color the marker should be drawn with.
func (e RenderEntry) Fill() Color {
	if e.Blinking {
		return e.Blink
	}
	return e.Urgency
}

// BlinkEntry is a single color override produced by a blink sub-tick.
type BlinkEntry struct {
	ID    PattyID
	Color Color
}

// ExpiredListener is called with the final state of each removed patty.
type ExpiredListener func(Patty)

// UrgencyColor maps remaining seconds to a color, evaluated high to low.
func UrgencyColor(remaining int) Color {
	switch {
	case remaining > 10:
		return Green
	case remaining >= 5:
		return Orange
	default:
		return Red
	}
}
