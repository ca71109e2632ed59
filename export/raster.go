package export

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"treeviz/canvas"
	"treeviz/render"
)

// Option configures the exporters that draw the view.
type Option func(*options)

type options struct {
	theme      render.Theme
	cellWidth  float64
	cellHeight float64
	clock      func() time.Time
}

func defaultOptions() options {
	return options{
		theme:      render.DefaultTheme(),
		cellWidth:  6,
		cellHeight: 12,
		clock:      func() time.Time { return time.UnixMilli(0) },
	}
}

// WithTheme sets the palette.
func WithTheme(t render.Theme) Option {
	return func(o *options) { o.theme = t }
}

// WithCellSize sets the pixel size of one character cell for text output.
func WithCellSize(w, h float64) Option {
	return func(o *options) {
		if w > 0 && h > 0 {
			o.cellWidth, o.cellHeight = w, h
		}
	}
}

// WithClock sets the time the hover pulse is drawn at. Exports default to a
// fixed instant so repeated exports are identical.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

func (o options) renderer(s Scene) *render.Renderer {
	return render.NewRenderer(
		render.WithTheme(o.theme),
		render.WithPruning(s.Pruning),
		render.WithClock(o.clock),
	)
}

// CellExporter draws the view onto a character grid.
type CellExporter struct {
	opts  options
	color bool
}

// Export renders the scene as text, one line per cell row.
func (e *CellExporter) Export(s Scene) ([]byte, error) {
	cols := int(math.Ceil(s.Width / e.opts.cellWidth))
	rows := int(math.Ceil(s.Height / e.opts.cellHeight))
	c, err := canvas.NewCellCanvas(cols, rows, e.opts.cellWidth, e.opts.cellHeight)
	if err != nil {
		return nil, fmt.Errorf("text canvas: %w", err)
	}
	e.opts.renderer(s).Render(c, s.Nodes, s.State)
	if e.color {
		return []byte(c.ANSIString()), nil
	}
	return []byte(c.String()), nil
}

// GetFileExtension returns the recommended file extension
func (e *CellExporter) GetFileExtension() string {
	if e.color {
		return ".ans"
	}
	return ".txt"
}

// GetFormatName returns the format name
func (e *CellExporter) GetFormatName() string {
	if e.color {
		return "ANSI Cell Art"
	}
	return "Unicode Cell Art"
}

// PNGExporter draws the view onto a raster image.
type PNGExporter struct {
	opts options
}

// Export renders the scene as a PNG of the scene's canvas size.
func (e *PNGExporter) Export(s Scene) ([]byte, error) {
	c, err := canvas.NewImageCanvas(int(math.Round(s.Width)), int(math.Round(s.Height)))
	if err != nil {
		return nil, fmt.Errorf("image canvas: %w", err)
	}
	e.opts.renderer(s).Render(c, s.Nodes, s.State)

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// GetFileExtension returns the recommended file extension
func (e *PNGExporter) GetFileExtension() string {
	return ".png"
}

// GetFormatName returns the format name
func (e *PNGExporter) GetFormatName() string {
	return "PNG Image"
}
