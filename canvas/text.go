package canvas

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// MeasureText returns the display width of a string in terminal cells.
func MeasureText(text string) int {
	return runewidth.StringWidth(text)
}

// FitText truncates text to fit within maxWidth, adding ellipsis if needed.
func FitText(text string, maxWidth int, ellipsis string) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= maxWidth {
		return text
	}
	if maxWidth <= runewidth.StringWidth(ellipsis) {
		return runewidth.Truncate(text, maxWidth, "")
	}
	return runewidth.Truncate(text, maxWidth, ellipsis)
}

// PadRight pads text with spaces to exactly width cells, truncating if longer.
func PadRight(text string, width int) string {
	text = FitText(text, width, "…")
	if pad := width - runewidth.StringWidth(text); pad > 0 {
		text += strings.Repeat(" ", pad)
	}
	return text
}
