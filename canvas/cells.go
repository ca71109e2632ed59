package canvas

import (
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"treeviz/geometry"
)

// continuation marks the cell to the right of a double-width rune.
const continuation = '\x00'

// Cell is one character cell of a CellCanvas.
type Cell struct {
	Rune rune
	FG   Color
	BG   Color
	Bold bool
}

// CellCanvas implements Surface on a grid of terminal character cells.
// Each cell covers CellWidth × CellHeight pixels of the surface.
//
// Thread Safety:
// CellCanvas is NOT thread-safe. The owning event loop draws and flushes it.
//
// Performance Characteristics:
//   - StrokeLine: O(length in cells) after clipping to the grid
//   - FillCircle/FillRect: O(covered cells)
//   - Draw/String: O(cols × rows)
type CellCanvas struct {
	cells [][]Cell
	cols  int
	rows  int
	cellW float64
	cellH float64
}

// NewCellCanvas creates a grid of cols × rows cells, each cellW × cellH pixels.
func NewCellCanvas(cols, rows int, cellW, cellH float64) (*CellCanvas, error) {
	if cols <= 0 || rows <= 0 || !(cellW > 0) || !(cellH > 0) {
		return nil, ErrInvalidSize
	}
	cells := make([][]Cell, rows)
	for y := range cells {
		cells[y] = make([]Cell, cols)
	}
	c := &CellCanvas{cells: cells, cols: cols, rows: rows, cellW: cellW, cellH: cellH}
	c.Clear(White)
	return c, nil
}

// Size returns the surface size in pixels.
func (c *CellCanvas) Size() (width, height float64) {
	return float64(c.cols) * c.cellW, float64(c.rows) * c.cellH
}

// Grid returns the number of columns and rows.
func (c *CellCanvas) Grid() (cols, rows int) {
	return c.cols, c.rows
}

// CellSize returns the pixel size of one cell.
func (c *CellCanvas) CellSize() (w, h float64) {
	return c.cellW, c.cellH
}

// At returns the cell at (col, row); out-of-range positions return a zero Cell.
func (c *CellCanvas) At(col, row int) Cell {
	if !c.inBounds(col, row) {
		return Cell{}
	}
	return c.cells[row][col]
}

// CellAt returns the cell containing pixel p.
func (c *CellCanvas) CellAt(p geometry.Vec) (col, row int) {
	return int(math.Floor(p.X / c.cellW)), int(math.Floor(p.Y / c.cellH))
}

// PixelAt returns the pixel at the center of cell (col, row).
func (c *CellCanvas) PixelAt(col, row int) geometry.Vec {
	return geometry.Vec{X: (float64(col) + 0.5) * c.cellW, Y: (float64(row) + 0.5) * c.cellH}
}

// Clear resets every cell to a blank on bg.
func (c *CellCanvas) Clear(bg Color) {
	bg = bg.Over(White)
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = Cell{Rune: ' ', FG: Black, BG: bg}
		}
	}
}

func (c *CellCanvas) inBounds(col, row int) bool {
	return col >= 0 && col < c.cols && row >= 0 && row < c.rows
}

func (c *CellCanvas) bounds() geometry.Rect {
	w, h := c.Size()
	return geometry.Rect{W: w, H: h}
}

// StrokeLine draws a line using Bresenham's algorithm over the cells the
// segment crosses. Dash lengths are measured in pixels along the segment.
func (c *CellCanvas) StrokeLine(a, b geometry.Vec, s Stroke) {
	if s.Color.IsZero() || !a.Finite() || !b.Finite() {
		return
	}
	ca, cb, ok := clipSegment(a, b, c.bounds())
	if !ok {
		return
	}

	glyph := lineGlyph(b.Sub(a), s)
	x1, y1 := c.CellAt(ca)
	x2, y2 := c.CellAt(cb)

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	x, y := x1, y1
	xInc, yInc := 1, 1
	if x1 > x2 {
		xInc = -1
	}
	if y1 > y2 {
		yInc = -1
	}

	plot := func(x, y int) {
		if s.Dashed() && !dashOn(s.Dash, geometry.Distance(a, c.PixelAt(x, y))) {
			return
		}
		c.setGlyph(x, y, glyph, s.Color)
	}

	if dx > dy {
		err := dx / 2
		for x != x2 {
			plot(x, y)
			err -= dy
			if err < 0 {
				y += yInc
				err += dx
			}
			x += xInc
		}
	} else {
		err := dy / 2
		for y != y2 {
			plot(x, y)
			err -= dx
			if err < 0 {
				x += xInc
				err += dy
			}
			y += yInc
		}
	}
	plot(x2, y2)
}

func (c *CellCanvas) setGlyph(col, row int, r rune, fg Color) {
	if !c.inBounds(col, row) {
		return
	}
	cell := &c.cells[row][col]
	cell.Rune = r
	cell.FG = fg.Over(cell.BG)
	cell.Bold = false
}

// FillCircle fills every cell whose center lies within r of center. A circle
// smaller than a cell still fills the cell containing its center.
func (c *CellCanvas) FillCircle(center geometry.Vec, r float64, f Fill) {
	if !center.Finite() || !geometry.Finite(r) || r < 0 {
		return
	}
	if f.GlowRadius > 0 && !f.GlowColor.IsZero() {
		outer := r + f.GlowRadius
		c.eachCellNear(center, outer, func(col, row int, d float64) {
			if d > r && d <= outer {
				c.tint(col, row, f.GlowColor.Fade(1-(d-r)/f.GlowRadius))
			}
		})
	}
	if f.Color.IsZero() {
		return
	}
	hit := false
	c.eachCellNear(center, r, func(col, row int, d float64) {
		if d <= r {
			c.cover(col, row, f.Color)
			hit = true
		}
	})
	if !hit {
		col, row := c.CellAt(center)
		c.cover(col, row, f.Color)
	}
}

// StrokeCircle tints the ring of cells whose centers lie within half a cell
// (or half the stroke width, when wider) of the circle.
func (c *CellCanvas) StrokeCircle(center geometry.Vec, r float64, s Stroke) {
	if s.Color.IsZero() || !center.Finite() || !geometry.Finite(r) || r < 0 {
		return
	}
	half := math.Max(s.Width/2, math.Min(c.cellW, c.cellH)/2)
	c.eachCellNear(center, r+half, func(col, row int, d float64) {
		if math.Abs(d-r) <= half {
			c.tint(col, row, s.Color)
		}
	})
}

func (c *CellCanvas) eachCellNear(center geometry.Vec, reach float64, fn func(col, row int, d float64)) {
	minCol, minRow := c.CellAt(geometry.Vec{X: center.X - reach, Y: center.Y - reach})
	maxCol, maxRow := c.CellAt(geometry.Vec{X: center.X + reach, Y: center.Y + reach})
	minCol, minRow = max(minCol, 0), max(minRow, 0)
	maxCol, maxRow = min(maxCol, c.cols-1), min(maxRow, c.rows-1)
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			fn(col, row, geometry.Distance(center, c.PixelAt(col, row)))
		}
	}
}

// cover paints the cell background and blanks its glyph.
func (c *CellCanvas) cover(col, row int, bg Color) {
	if !c.inBounds(col, row) {
		return
	}
	cell := &c.cells[row][col]
	cell.BG = bg.Over(cell.BG)
	cell.Rune = ' '
	cell.Bold = false
}

// tint blends into the cell background and keeps its glyph.
func (c *CellCanvas) tint(col, row int, bg Color) {
	if !c.inBounds(col, row) {
		return
	}
	cell := &c.cells[row][col]
	cell.BG = bg.Over(cell.BG)
}

// FillRect fills the cells whose centers lie inside r. Corner rounding is
// below cell resolution and ignored.
func (c *CellCanvas) FillRect(r geometry.Rect, radius float64, f Fill) {
	if f.Color.IsZero() {
		return
	}
	c.eachCellIn(r, func(col, row int) {
		c.cover(col, row, f.Color)
	})
}

// StrokeRect draws a box-drawing frame on the outermost cells covered by r.
func (c *CellCanvas) StrokeRect(r geometry.Rect, radius float64, s Stroke) {
	if s.Color.IsZero() {
		return
	}
	x1, y1 := c.CellAt(geometry.Vec{X: r.X, Y: r.Y})
	x2, y2 := c.CellAt(geometry.Vec{X: r.Right() - 0.01, Y: r.Bottom() - 0.01})
	if x2 < x1 || y2 < y1 {
		return
	}

	style := DefaultBoxStyle
	if radius > 0 {
		style = RoundedBoxStyle
	}
	for x := x1 + 1; x < x2; x++ {
		c.setGlyph(x, y1, style.Horizontal, s.Color)
		c.setGlyph(x, y2, style.Horizontal, s.Color)
	}
	for y := y1 + 1; y < y2; y++ {
		c.setGlyph(x1, y, style.Vertical, s.Color)
		c.setGlyph(x2, y, style.Vertical, s.Color)
	}
	c.setGlyph(x1, y1, style.TopLeft, s.Color)
	c.setGlyph(x2, y1, style.TopRight, s.Color)
	c.setGlyph(x1, y2, style.BottomLeft, s.Color)
	c.setGlyph(x2, y2, style.BottomRight, s.Color)
}

func (c *CellCanvas) eachCellIn(r geometry.Rect, fn func(col, row int)) {
	x1, y1 := c.CellAt(geometry.Vec{X: r.X, Y: r.Y})
	x2, y2 := c.CellAt(geometry.Vec{X: r.Right(), Y: r.Bottom()})
	x1, y1 = max(x1, 0), max(y1, 0)
	x2, y2 = min(x2, c.cols-1), min(y2, c.rows-1)
	for row := y1; row <= y2; row++ {
		for col := x1; col <= x2; col++ {
			if r.Contains(c.PixelAt(col, row)) {
				fn(col, row)
			}
		}
	}
}

// DrawText writes text on the row containing p. Font size is below cell
// resolution and ignored; bold is kept.
func (c *CellCanvas) DrawText(p geometry.Vec, text string, f Font) {
	if !p.Finite() || text == "" {
		return
	}
	col, row := c.CellAt(p)
	if row < 0 || row >= c.rows {
		return
	}
	width := runewidth.StringWidth(text)
	switch f.Align {
	case AlignCenter:
		col = int(math.Round(p.X/c.cellW - float64(width)/2))
	case AlignRight:
		col = int(math.Round(p.X/c.cellW)) - width
	}

	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if w == 2 && col+1 >= c.cols {
			break
		}
		if c.inBounds(col, row) {
			cell := &c.cells[row][col]
			cell.Rune = r
			cell.FG = f.Color.Over(cell.BG)
			cell.Bold = f.Bold
			if w == 2 && c.inBounds(col+1, row) {
				c.cells[row][col+1].Rune = continuation
			}
		}
		col += w
	}
}

// Draw copies the grid onto a terminal screen with its top-left cell at (x0, y0).
func (c *CellCanvas) Draw(screen tcell.Screen, x0, y0 int) {
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			cell := c.cells[row][col]
			if cell.Rune == continuation {
				continue
			}
			screen.SetContent(x0+col, y0+row, cell.Rune, nil, cell.Style())
		}
	}
}

// Style converts the cell colors into a terminal style.
func (cell Cell) Style() tcell.Style {
	return tcell.StyleDefault.
		Foreground(cell.FG.Cell()).
		Background(cell.BG.Cell()).
		Bold(cell.Bold)
}

// String returns the grid as plain text, one line per row.
func (c *CellCanvas) String() string {
	var sb strings.Builder
	for row := 0; row < c.rows; row++ {
		sb.WriteString(c.Row(row))
		if row < c.rows-1 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}

// Row returns the plain text of one row.
func (c *CellCanvas) Row(row int) string {
	if row < 0 || row >= c.rows {
		return ""
	}
	var sb strings.Builder
	for _, cell := range c.cells[row] {
		if cell.Rune == continuation {
			continue
		}
		sb.WriteRune(cell.Rune)
	}
	return sb.String()
}

// ANSIString returns the grid with 24-bit ANSI color escapes, merging runs
// of identically styled cells.
func (c *CellCanvas) ANSIString() string {
	var sb strings.Builder
	for row := 0; row < c.rows; row++ {
		var run strings.Builder
		var current Cell
		flush := func() {
			if run.Len() == 0 {
				return
			}
			sb.WriteString(ansiStyle(current).Sprint(run.String()))
			run.Reset()
		}
		for col, cell := range c.cells[row] {
			if cell.Rune == continuation {
				continue
			}
			if col == 0 || cell.FG != current.FG || cell.BG != current.BG || cell.Bold != current.Bold {
				flush()
				current = cell
			}
			run.WriteRune(cell.Rune)
		}
		flush()
		if row < c.rows-1 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}

func ansiStyle(cell Cell) *color.Color {
	style := color.RGB(int(cell.FG.R), int(cell.FG.G), int(cell.FG.B)).
		AddBgRGB(int(cell.BG.R), int(cell.BG.G), int(cell.BG.B))
	if cell.Bold {
		style.Add(color.Bold)
	}
	style.EnableColor()
	return style
}

// lineGlyph picks a box-drawing rune that follows the direction of d.
func lineGlyph(d geometry.Vec, s Stroke) rune {
	heavy := s.Width >= 3
	ax, ay := math.Abs(d.X), math.Abs(d.Y)
	switch {
	case ay <= ax*0.4:
		if s.Dashed() {
			return '╌'
		}
		if heavy {
			return '━'
		}
		return '─'
	case ax <= ay*0.4:
		if s.Dashed() {
			return '╎'
		}
		if heavy {
			return '┃'
		}
		return '│'
	case (d.X > 0) == (d.Y > 0):
		return '╲'
	default:
		return '╱'
	}
}

// dashOn reports whether distance t along a dashed stroke falls on an "on"
// segment of the pattern.
func dashOn(pattern []float64, t float64) bool {
	total := 0.0
	for _, v := range pattern {
		total += math.Abs(v)
	}
	if total == 0 {
		return true
	}
	phase := math.Mod(t, total)
	for i, v := range pattern {
		if phase < math.Abs(v) {
			return i%2 == 0
		}
		phase -= math.Abs(v)
	}
	return true
}

// clipSegment clips a–b to r (Liang–Barsky). It reports false when the
// segment lies entirely outside.
func clipSegment(a, b geometry.Vec, r geometry.Rect) (geometry.Vec, geometry.Vec, bool) {
	t0, t1 := 0.0, 1.0
	d := b.Sub(a)
	edges := [4][2]float64{
		{-d.X, a.X - r.X},
		{d.X, r.Right() - a.X},
		{-d.Y, a.Y - r.Y},
		{d.Y, r.Bottom() - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return a, b, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return a, b, false
			}
			t1 = math.Min(t1, t)
		}
	}
	return a.Add(d.Scale(t0)), a.Add(d.Scale(t1)), true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
