// Package canvas provides the drawing surfaces the tree renderer paints on:
// a terminal cell grid, a raster image and a recording surface for tests.
//
// All surfaces share one pixel coordinate system:
//   - Origin (0,0) is top-left
//   - X increases rightward
//   - Y increases downward
//
// Cell-based surfaces map pixels onto character cells and approximate
// strokes, fills and text at cell resolution.
package canvas

import (
	"errors"

	"treeviz/geometry"
)

// Common errors
var (
	ErrInvalidSize = errors.New("invalid canvas size")
	ErrBadColor    = errors.New("invalid color")
)

// Align is the horizontal anchoring of drawn text.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Stroke describes how a line or outline is drawn.
type Stroke struct {
	Color Color
	Width float64
	Dash  []float64 // on/off lengths in pixels; empty means solid
}

// Dashed reports whether the stroke has a dash pattern.
func (s Stroke) Dashed() bool {
	return len(s.Dash) > 0
}

// Fill describes a filled shape. A non-zero GlowRadius adds a soft halo of
// GlowColor around the shape.
type Fill struct {
	Color      Color
	GlowColor  Color
	GlowRadius float64
}

// Font describes how text is drawn. The anchor point of DrawText is the
// vertical middle of the text line.
type Font struct {
	Color Color
	Size  float64
	Bold  bool
	Align Align
}

// Surface is the drawing target of the render pipeline.
type Surface interface {
	// Size returns the drawable area in pixels.
	Size() (width, height float64)
	Clear(bg Color)
	StrokeLine(a, b geometry.Vec, s Stroke)
	FillCircle(center geometry.Vec, r float64, f Fill)
	StrokeCircle(center geometry.Vec, r float64, s Stroke)
	// FillRect and StrokeRect round the corners by radius when it is positive.
	FillRect(r geometry.Rect, radius float64, f Fill)
	StrokeRect(r geometry.Rect, radius float64, s Stroke)
	DrawText(p geometry.Vec, text string, f Font)
}
