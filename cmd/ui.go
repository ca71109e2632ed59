package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"treeviz/canvas"
)

// Output colors
var (
	Brand  = color.New(color.FgHiCyan, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
	MaxCol = color.New(color.FgBlue)
	MinCol = color.New(color.FgRed)
	Best   = color.New(color.FgGreen, color.Bold)
)

// table prints an aligned table. Cell widths are measured before coloring,
// so color is applied per cell through paint.
func table(w io.Writer, headers []string, rows [][]string, paint func(row, col int, s string) string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = canvas.MeasureText(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], canvas.MeasureText(cell))
			}
		}
	}

	header, sep := "  ", "  "
	for i, h := range headers {
		header += canvas.PadRight(h, widths[i]) + "  "
		sep += strings.Repeat("─", widths[i]) + "  "
	}
	Subtle.Fprintln(w, strings.TrimRight(header, " "))
	Subtle.Fprintln(w, strings.TrimRight(sep, " "))

	for r, row := range rows {
		line := "  "
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			padded := canvas.PadRight(cell, widths[i])
			if paint != nil {
				padded = paint(r, i, padded)
			}
			line += padded + "  "
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}
