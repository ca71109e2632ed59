package canvas

import (
	"strings"
	"testing"
)

// TestValidator provides validation utilities for canvas tests.
type TestValidator struct {
	t *testing.T
}

// NewTestValidator creates a validator for canvas tests.
func NewTestValidator(t *testing.T) *TestValidator {
	return &TestValidator{t: t}
}

// ValidateGrid checks that every row has the expected width and that every
// double-width rune is followed by its continuation marker.
func (v *TestValidator) ValidateGrid(c *CellCanvas) {
	v.t.Helper()
	cols, rows := c.Grid()
	for row := 0; row < rows; row++ {
		if got := len(c.cells[row]); got != cols {
			v.t.Errorf("row %d has %d cells, want %d", row, got, cols)
		}
		for col := 0; col < cols-1; col++ {
			if MeasureText(string(c.cells[row][col].Rune)) == 2 && c.cells[row][col+1].Rune != continuation {
				v.t.Errorf("wide rune at (%d,%d) not followed by continuation", col, row)
			}
		}
	}
}

// ValidateContains checks that the plain-text rendering contains want.
func (v *TestValidator) ValidateContains(c *CellCanvas, want string) {
	v.t.Helper()
	if !strings.Contains(c.String(), want) {
		v.t.Errorf("canvas does not contain %q:\n%s", want, c.String())
	}
}

// CountRune counts the cells holding r.
func CountRune(c *CellCanvas, r rune) int {
	n := 0
	for _, row := range c.cells {
		for _, cell := range row {
			if cell.Rune == r {
				n++
			}
		}
	}
	return n
}

// CountBackground counts the cells whose background equals bg.
func CountBackground(c *CellCanvas, bg Color) int {
	n := 0
	for _, row := range c.cells {
		for _, cell := range row {
			if cell.BG == bg {
				n++
			}
		}
	}
	return n
}
