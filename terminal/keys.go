package terminal

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"treeviz/geometry"
	"treeviz/interaction"
	"treeviz/layout"
)

// PanStep is the distance, in canvas pixels, one arrow key press pans.
const PanStep = 40.0

// KeyHints is the control summary shown in the legend row.
const KeyHints = "+/- zoom  0 reset  1-4/a depth  p pruning  arrows pan  f fetch  q quit"

func (s *Session) handleKey(ctx context.Context, e *tcell.EventKey) {
	switch e.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		s.quit = true
		return
	case tcell.KeyLeft:
		s.dispatch(interaction.PanBy{D: geometry.Vec{X: PanStep}})
		return
	case tcell.KeyRight:
		s.dispatch(interaction.PanBy{D: geometry.Vec{X: -PanStep}})
		return
	case tcell.KeyUp:
		s.dispatch(interaction.PanBy{D: geometry.Vec{Y: PanStep}})
		return
	case tcell.KeyDown:
		s.dispatch(interaction.PanBy{D: geometry.Vec{Y: -PanStep}})
		return
	case tcell.KeyRune:
	default:
		return
	}

	switch r := e.Rune(); r {
	case 'q':
		s.quit = true
	case '+', '=':
		s.dispatch(interaction.ZoomIn{})
	case '-', '_':
		s.dispatch(interaction.ZoomOut{})
	case '0', 'r':
		s.dispatch(interaction.ResetView{})
	case '1', '2', '3', '4':
		s.setDepth(int(r - '0'))
	case 'a':
		s.setDepth(layout.Unlimited)
	case 'p':
		s.setAlphaBeta(ctx, !s.view.Pruning())
	case 'f':
		s.fetch(ctx)
	}
}

// setDepth relays out the tree. Pending ticks were scheduled against the old
// layout, so the scheduler moves to a new generation.
func (s *Session) setDepth(d int) {
	if d == s.view.MaxDepth() {
		return
	}
	s.view.SetMaxDepth(d)
	s.restart()
	s.status = "depth " + layout.FormatDepth(d)
}

// setAlphaBeta switches alpha-beta pruning for both the drawing of pruned
// branches and the next service request, then refetches the tree.
func (s *Session) setAlphaBeta(ctx context.Context, on bool) {
	s.view.SetPruning(on)
	s.request.UseAlphaBeta = on
	if s.fetcher != nil {
		s.fetch(ctx)
	}
}
