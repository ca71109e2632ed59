package terminal

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"treeviz/canvas"
	"treeviz/layout"
	"treeviz/render"
)

var (
	chromeStyle = tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset)
	hintStyle   = chromeStyle.Foreground(tcell.ColorGray)
	statusStyle = chromeStyle.Reverse(true)
)

// StatusText is the left part of the status line: view settings, search
// statistics and the selected node.
func (s *Session) StatusText() string {
	st := s.view.State()
	parts := []string{
		"depth " + layout.FormatDepth(s.view.MaxDepth()),
		fmt.Sprintf("zoom %.1f", st.Zoom),
		fmt.Sprintf("%d nodes", len(s.view.Nodes())),
	}
	if s.stats != nil {
		parts = append(parts, fmt.Sprintf("%d explored in %.1f ms", s.stats.NodesExplored, s.stats.DecisionTimeMS))
	}
	if n, ok := s.view.Selected(); ok && n.Tree != nil {
		parts = append(parts, fmt.Sprintf("selected %s score %s", n.Tree.MoveText(), n.Tree.ScoreText()))
	}
	if !s.view.Pruning() {
		parts = append(parts, "pruning hidden")
	}
	return strings.Join(parts, " │ ")
}

func (s *Session) drawLegend(row, cols int) {
	if row < 0 {
		return
	}
	clearRow(s.screen, row, cols, chromeStyle)

	x := 1
	for _, item := range render.Legend(s.view.Renderer().Theme(), s.view.Pruning()) {
		style := chromeStyle
		if s.caps.Color() {
			style = style.Foreground(item.Color.Cell())
		}
		x = putText(s.screen, x, row, cols, item.Symbol, style)
		x = putText(s.screen, x, row, cols, " "+item.Label+"   ", chromeStyle)
	}

	hints := canvas.FitText(KeyHints, cols-x-1, "…")
	putText(s.screen, cols-runewidth.StringWidth(hints)-1, row, cols, hints, hintStyle)
}

func (s *Session) drawStatus(row, cols int) {
	if row < 0 {
		return
	}
	clearRow(s.screen, row, cols, statusStyle)

	left := " " + s.StatusText()
	right := s.status
	if right != "" {
		right += " "
	}
	room := cols - runewidth.StringWidth(right) - 1
	if room < 0 {
		room = 0
	}
	putText(s.screen, 0, row, cols, canvas.FitText(left, room, "…"), statusStyle)
	putText(s.screen, cols-runewidth.StringWidth(right), row, cols, right, statusStyle)
}

func clearRow(screen tcell.Screen, row, cols int, style tcell.Style) {
	for x := 0; x < cols; x++ {
		screen.SetContent(x, row, ' ', nil, style)
	}
}

// putText writes text starting at column x and returns the column after it.
// Runes that would cross maxX are dropped.
func putText(screen tcell.Screen, x, y, maxX int, text string, style tcell.Style) int {
	if x < 0 {
		x = 0
	}
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > maxX {
			break
		}
		screen.SetContent(x, y, r, nil, style)
		x += w
	}
	return x
}
