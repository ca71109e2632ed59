package canvas

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"treeviz/geometry"
)

// glowSteps is the number of translucent rings used to approximate a glow.
const glowSteps = 6

// ImageCanvas implements Surface on a raster image.
type ImageCanvas struct {
	dc      *gg.Context
	regular *truetype.Font
	bold    *truetype.Font
	faces   map[faceKey]font.Face
}

type faceKey struct {
	size float64
	bold bool
}

// NewImageCanvas creates a width × height pixel raster cleared to white.
func NewImageCanvas(width, height int) (*ImageCanvas, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	c := &ImageCanvas{
		dc:      gg.NewContext(width, height),
		regular: regular,
		bold:    bold,
		faces:   make(map[faceKey]font.Face),
	}
	c.Clear(White)
	return c, nil
}

// Size returns the image size in pixels.
func (c *ImageCanvas) Size() (width, height float64) {
	return float64(c.dc.Width()), float64(c.dc.Height())
}

// Clear fills the whole image with bg.
func (c *ImageCanvas) Clear(bg Color) {
	c.dc.SetColor(bg.NRGBA())
	c.dc.Clear()
}

// StrokeLine draws a straight segment.
func (c *ImageCanvas) StrokeLine(a, b geometry.Vec, s Stroke) {
	if s.Color.IsZero() || !a.Finite() || !b.Finite() {
		return
	}
	c.applyStroke(s)
	c.dc.DrawLine(a.X, a.Y, b.X, b.Y)
	c.dc.Stroke()
	c.dc.SetDash()
}

// FillCircle fills a disc, with an optional halo drawn first.
func (c *ImageCanvas) FillCircle(center geometry.Vec, r float64, f Fill) {
	if !center.Finite() || !geometry.Finite(r) || r < 0 {
		return
	}
	if f.GlowRadius > 0 && !f.GlowColor.IsZero() {
		for i := glowSteps; i >= 1; i-- {
			k := float64(i) / glowSteps
			c.dc.SetColor(f.GlowColor.Fade((1 - k) / 2).NRGBA())
			c.dc.DrawCircle(center.X, center.Y, r+f.GlowRadius*k)
			c.dc.Fill()
		}
	}
	if f.Color.IsZero() {
		return
	}
	c.dc.SetColor(f.Color.NRGBA())
	c.dc.DrawCircle(center.X, center.Y, r)
	c.dc.Fill()
}

// StrokeCircle outlines a circle.
func (c *ImageCanvas) StrokeCircle(center geometry.Vec, r float64, s Stroke) {
	if s.Color.IsZero() || !center.Finite() || !geometry.Finite(r) || r < 0 {
		return
	}
	c.applyStroke(s)
	c.dc.DrawCircle(center.X, center.Y, r)
	c.dc.Stroke()
	c.dc.SetDash()
}

// FillRect fills a rectangle, rounding the corners when radius > 0.
func (c *ImageCanvas) FillRect(r geometry.Rect, radius float64, f Fill) {
	if f.Color.IsZero() {
		return
	}
	c.rectPath(r, radius)
	c.dc.SetColor(f.Color.NRGBA())
	c.dc.Fill()
}

// StrokeRect outlines a rectangle, rounding the corners when radius > 0.
func (c *ImageCanvas) StrokeRect(r geometry.Rect, radius float64, s Stroke) {
	if s.Color.IsZero() {
		return
	}
	c.rectPath(r, radius)
	c.applyStroke(s)
	c.dc.Stroke()
	c.dc.SetDash()
}

func (c *ImageCanvas) rectPath(r geometry.Rect, radius float64) {
	if radius > 0 {
		c.dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, radius)
		return
	}
	c.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
}

func (c *ImageCanvas) applyStroke(s Stroke) {
	c.dc.SetColor(s.Color.NRGBA())
	c.dc.SetLineWidth(math.Max(s.Width, 0.5))
	c.dc.SetDash(s.Dash...)
}

// DrawText draws one line of text vertically centered on p.
func (c *ImageCanvas) DrawText(p geometry.Vec, text string, f Font) {
	if !p.Finite() || text == "" || f.Color.IsZero() {
		return
	}
	c.dc.SetFontFace(c.face(f.Size, f.Bold))
	c.dc.SetColor(f.Color.NRGBA())
	ax := 0.0
	switch f.Align {
	case AlignCenter:
		ax = 0.5
	case AlignRight:
		ax = 1
	}
	c.dc.DrawStringAnchored(text, p.X, p.Y, ax, 0.5)
}

func (c *ImageCanvas) face(size float64, bold bool) font.Face {
	if size <= 0 {
		size = 12
	}
	key := faceKey{size: size, bold: bold}
	if face, ok := c.faces[key]; ok {
		return face
	}
	ttf := c.regular
	if bold {
		ttf = c.bold
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	c.faces[key] = face
	return face
}

// Image returns the rendered image.
func (c *ImageCanvas) Image() image.Image {
	return c.dc.Image()
}

// EncodePNG writes the image as PNG.
func (c *ImageCanvas) EncodePNG(w io.Writer) error {
	if err := c.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
