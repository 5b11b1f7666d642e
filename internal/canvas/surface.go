// Package canvas is the drawing surface the clock renders into and the sinks
// a finished frame is pushed to.
package canvas

import (
	"image"
	"image/color"
)

// Role picks the font and colour of a text element.
type Role int

const (
	Regular Role = iota
	Heading
	Selected
	Clock
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

type Style struct {
	Role  Role
	Align Align
}

// Surface is everything the state machine needs from a display.
type Surface interface {
	Clear()
	// DrawText places text with its top edge at pos.Y. With AlignCenter,
	// pos.X is the horizontal centre.
	DrawText(text string, pos image.Point, style Style)
	Bounds() image.Rectangle
	Present() error
}

// GaugeDrawer is implemented by surfaces that can show the brightness level.
type GaugeDrawer interface {
	DrawGauge(level uint8, at image.Point)
}

// Panel receives every presented frame.
type Panel interface {
	Show(frame *image.RGBA) error
}

var (
	White  = color.RGBA{255, 255, 255, 255}
	Green  = color.RGBA{0, 255, 0, 255}
	Red    = color.RGBA{255, 0, 0, 255}
	Yellow = color.RGBA{255, 229, 0, 255}
	Grey   = color.RGBA{98, 116, 130, 255}
	Black  = color.RGBA{0, 0, 0, 255}
)

var roleColors = map[Role]color.RGBA{
	Regular:  White,
	Heading:  Yellow,
	Selected: Green,
	Clock:    Red,
}
