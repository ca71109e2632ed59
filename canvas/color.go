package canvas

import (
	"fmt"
	"image/color"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Color is an sRGB color with straight (non-premultiplied) alpha in [0, 1].
type Color struct {
	R, G, B uint8
	A       float64
}

// Common colors
var (
	White       = Color{R: 255, G: 255, B: 255, A: 1}
	Black       = Color{A: 1}
	Transparent = Color{}
)

// RGBA builds a color from 0–255 channels and a 0–1 alpha.
func RGBA(r, g, b uint8, a float64) Color {
	return Color{R: r, G: g, B: b, A: clampAlpha(a)}
}

// ParseHex parses "#rrggbb" or "#rgb" into an opaque color.
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q: %v", ErrBadColor, s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b, A: 1}, nil
}

// MustHex is ParseHex for package-level theme constants.
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = clampAlpha(a)
	return c
}

// Fade returns c with its alpha multiplied by k.
func (c Color) Fade(k float64) Color {
	return c.WithAlpha(c.A * k)
}

// IsZero reports whether c is fully transparent.
func (c Color) IsZero() bool {
	return c.A <= 0
}

// Hex formats the RGB channels as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String formats the color the way stylesheets do.
func (c Color) String() string {
	if c.A >= 1 {
		return c.Hex()
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%g)", c.R, c.G, c.B, c.A)
}

// Over composites c onto an opaque background and returns the opaque result.
func (c Color) Over(bg Color) Color {
	if c.A >= 1 {
		return c
	}
	if c.A <= 0 {
		return bg.WithAlpha(1)
	}
	base := colorful.Color{R: float64(bg.R) / 255, G: float64(bg.G) / 255, B: float64(bg.B) / 255}
	top := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	r, g, b := base.BlendRgb(top, c.A).Clamped().RGB255()
	return Color{R: r, G: g, B: b, A: 1}
}

// NRGBA converts c for the image packages.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(clampAlpha(c.A)*255 + 0.5)}
}

// Cell converts an opaque version of c into a terminal color.
func (c Color) Cell() tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func clampAlpha(a float64) float64 {
	if a != a || a < 0 { // NaN or negative
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}
