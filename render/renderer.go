// Package render paints a laid-out search tree and its view state onto a
// canvas.Surface.
//
// Every frame is drawn in the same layers, bottom to top:
//  1. connections off the selected path
//  2. nodes off the selected path
//  3. connections on the selected path
//  4. nodes on the selected path
//  5. hover overlay
//  6. selection overlay
//
// Rendering reads the node table and view state and never modifies either.
// The only input that varies between identical calls is the clock driving
// the hover pulse.
package render

import (
	"math"
	"time"

	"treeviz/canvas"
	"treeviz/core"
	"treeviz/geometry"
	"treeviz/interaction"
	"treeviz/layout"
	"treeviz/pathfinding"
)

// Renderer draws tree frames.
type Renderer struct {
	theme   Theme
	pruning bool
	now     func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTheme replaces the default palette.
func WithTheme(t Theme) Option {
	return func(r *Renderer) { r.theme = t }
}

// WithPruning turns pruned-branch visualization on or off.
func WithPruning(on bool) Option {
	return func(r *Renderer) { r.pruning = on }
}

// WithClock sets the time source of the hover pulse.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// NewRenderer creates a renderer with the default theme and pruning
// visualization on.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		theme:   DefaultTheme(),
		pruning: true,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetPruning turns pruned-branch visualization on or off.
func (r *Renderer) SetPruning(on bool) {
	r.pruning = on
}

// Pruning reports whether pruned branches are drawn distinctly.
func (r *Renderer) Pruning() bool {
	return r.pruning
}

// Theme returns the palette in use.
func (r *Renderer) Theme() Theme {
	return r.theme
}

// view maps tree space onto the surface: screen = pan + zoom·tree.
type view struct {
	pan  geometry.Vec
	zoom float64
}

func newView(st interaction.State) view {
	zoom := st.Zoom
	if !(zoom > 0) || !geometry.Finite(zoom) {
		zoom = 1
	}
	pan := st.Pan
	if !pan.Finite() {
		pan = geometry.Vec{}
	}
	return view{pan: pan, zoom: zoom}
}

func (v view) pt(p geometry.Vec) geometry.Vec {
	return v.pan.Add(p.Scale(v.zoom))
}

func (v view) len(l float64) float64 {
	return l * v.zoom
}

func (v view) rect(r geometry.Rect) geometry.Rect {
	p := v.pt(geometry.Vec{X: r.X, Y: r.Y})
	return geometry.Rect{X: p.X, Y: p.Y, W: v.len(r.W), H: v.len(r.H)}
}

// frame bundles the per-call inputs shared by the drawing helpers.
type frame struct {
	s     canvas.Surface
	v     view
	nodes []layout.Node
	st    interaction.State
	path  pathfinding.Set
}

// Render draws one frame of nodes under view state st.
func (r *Renderer) Render(s canvas.Surface, nodes []layout.Node, st interaction.State) {
	s.Clear(r.theme.Background)
	if len(nodes) == 0 {
		return
	}

	f := frame{s: s, v: newView(st), nodes: nodes, st: st, path: pathfinding.NewSet(st.SelectedPath)}

	r.drawConnections(f, false)
	r.drawNodes(f, false)
	r.drawConnections(f, true)
	r.drawNodes(f, true)

	if st.Hovered >= 0 && st.Hovered < len(nodes) {
		r.drawHover(f, nodes[st.Hovered])
	}
	if st.Selected >= 0 && st.Selected < len(nodes) {
		r.drawSelection(f, nodes[st.Selected])
	}
}

func (r *Renderer) drawConnections(f frame, onPath bool) {
	for i, n := range f.nodes {
		if n.IsRoot() || f.path.Contains(i) != onPath {
			continue
		}
		if n.ParentIndex < 0 || n.ParentIndex >= len(f.nodes) {
			continue
		}
		parent := f.nodes[n.ParentIndex]
		stroke := ConnectionStyle(r.theme, n.Tree, onPath, r.pruning)
		stroke.Width = f.v.len(stroke.Width)
		if stroke.Dashed() {
			dash := make([]float64, len(stroke.Dash))
			for j, d := range stroke.Dash {
				dash[j] = f.v.len(d)
			}
			stroke.Dash = dash
		}
		f.s.StrokeLine(f.v.pt(parent.Center()), f.v.pt(n.Center()), stroke)
	}
}

func (r *Renderer) drawNodes(f frame, onPath bool) {
	for i, n := range f.nodes {
		if f.path.Contains(i) != onPath || n.Tree == nil {
			continue
		}
		r.drawNode(f, n, onPath, i == f.st.Hovered, i == f.st.Selected)
	}
}

func (r *Renderer) drawNode(f frame, n layout.Node, onPath, hovered, selected bool) {
	alpha := NodeOpacity(n.Tree, onPath)
	radius := n.Radius
	border := canvas.Stroke{Color: r.theme.Border.Fade(alpha), Width: f.v.len(BorderWidth)}
	fill := canvas.Fill{Color: NodeFill(r.theme, n.Tree).WithAlpha(alpha)}
	if onPath {
		radius *= PathScale
		border = canvas.Stroke{Color: r.theme.PathAccent.Fade(alpha), Width: f.v.len(PathBorder)}
		fill.GlowColor = r.theme.PathAccent.Fade(alpha)
		fill.GlowRadius = f.v.len(GlowRadius)
	}

	center := f.v.pt(n.Center())
	f.s.FillCircle(center, f.v.len(radius), fill)
	f.s.StrokeCircle(center, f.v.len(radius), border)
	r.drawBoard(f, n.Tree.Board, n.Center(), radius, alpha)

	if ShowScore(n.Depth, onPath, hovered, selected) {
		size := LabelSize
		if onPath {
			size = PathLabelSize
		}
		at := geometry.Vec{X: n.X, Y: n.Y + radius + LabelOffset}
		f.s.DrawText(f.v.pt(at), ScoreLabel(n.Tree), canvas.Font{
			Color: r.theme.Label.Fade(alpha),
			Size:  f.v.len(size),
			Bold:  onPath,
			Align: canvas.AlignCenter,
		})
	}
}

// drawBoard draws the 3×3 position inside a node of the given tree-space radius.
func (r *Renderer) drawBoard(f frame, board *core.Board, center geometry.Vec, radius, alpha float64) {
	if board == nil {
		return
	}
	side := radius * BoardFraction
	cell := side / core.BoardSize
	origin := geometry.Vec{X: center.X - side/2, Y: center.Y - side/2}

	f.s.FillRect(f.v.rect(geometry.Rect{X: origin.X, Y: origin.Y, W: side, H: side}), 0,
		canvas.Fill{Color: r.theme.BoardBackground.Fade(alpha)})

	grid := canvas.Stroke{Color: r.theme.BoardGrid.Fade(alpha), Width: f.v.len(BoardGridWidth)}
	for i := 1; i < core.BoardSize; i++ {
		off := float64(i) * cell
		f.s.StrokeLine(f.v.pt(origin.Add(geometry.Vec{Y: off})), f.v.pt(origin.Add(geometry.Vec{X: side, Y: off})), grid)
		f.s.StrokeLine(f.v.pt(origin.Add(geometry.Vec{X: off})), f.v.pt(origin.Add(geometry.Vec{X: off, Y: side})), grid)
	}

	for row := 0; row < core.BoardSize; row++ {
		for col := 0; col < core.BoardSize; col++ {
			mark := board[row][col]
			if mark == core.Empty {
				continue
			}
			color := r.theme.MarkX
			if mark == core.O {
				color = r.theme.MarkO
			}
			at := origin.Add(geometry.Vec{X: (float64(col) + 0.5) * cell, Y: (float64(row) + 0.5) * cell})
			f.s.DrawText(f.v.pt(at), mark.String(), canvas.Font{
				Color: color.Fade(alpha),
				Size:  f.v.len(cell * 0.7),
				Bold:  true,
				Align: canvas.AlignCenter,
			})
		}
	}
}

func (r *Renderer) drawHover(f frame, n layout.Node) {
	if n.Tree == nil {
		return
	}
	center := f.v.pt(n.Center())
	ring := f.v.len(RingWidth)

	f.s.StrokeCircle(center, f.v.len(PulseRadius(n.Radius, r.now())), canvas.Stroke{Color: r.theme.HoverPulse, Width: ring})
	f.s.StrokeCircle(center, f.v.len(n.Radius*HoverScale), canvas.Stroke{Color: r.theme.HoverRing, Width: ring})
	f.s.FillCircle(center, f.v.len(n.Radius*HoverScale), canvas.Fill{Color: NodeFill(r.theme, n.Tree)})
	r.drawBoard(f, n.Tree.Board, n.Center(), n.Radius*HoverScale, 1)
	r.drawPanel(f, n)
}

func (r *Renderer) drawSelection(f frame, n layout.Node) {
	if n.Tree == nil {
		return
	}
	f.s.StrokeCircle(f.v.pt(n.Center()), f.v.len(n.Radius+SelectionOffset),
		canvas.Stroke{Color: r.theme.SelectionRing, Width: f.v.len(RingWidth)})
	r.drawPanel(f, n)
}

func (r *Renderer) drawPanel(f frame, n layout.Node) {
	width, height := f.s.Size()
	box := PanelRect(n, f.st, width, height)
	radius := f.v.len(PanelRadius)

	f.s.FillRect(f.v.rect(box), radius, canvas.Fill{Color: r.theme.PanelBackground})
	f.s.StrokeRect(f.v.rect(box), radius, canvas.Stroke{Color: r.theme.PanelBorder, Width: f.v.len(PanelBorderW)})
	f.s.FillRect(f.v.rect(geometry.Rect{X: box.X, Y: box.Y, W: box.W, H: PanelHeaderH}), radius,
		canvas.Fill{Color: r.theme.PanelHeader})

	f.s.DrawText(f.v.pt(geometry.Vec{X: box.X + box.W/2, Y: box.Y + PanelHeaderH/2}), PanelTitle, canvas.Font{
		Color: r.theme.PanelTitle,
		Size:  f.v.len(PanelFont),
		Bold:  true,
		Align: canvas.AlignCenter,
	})
	for i, line := range PanelLines(n.Tree) {
		at := geometry.Vec{X: box.X + PanelPadding, Y: box.Y + PanelHeaderH + 16 + float64(i)*20}
		f.s.DrawText(f.v.pt(at), line, canvas.Font{Color: r.theme.PanelText, Size: f.v.len(PanelFont)})
	}
}

// ConnectionStyle returns the stroke of the edge leading into child. A
// pruned child under pruning visualization overrides every other rule.
// Widths are in tree-space pixels.
func ConnectionStyle(t Theme, child *core.TreeNode, onPath, pruning bool) canvas.Stroke {
	switch {
	case pruning && child != nil && child.Pruned:
		return canvas.Stroke{Color: t.PrunedEdge, Width: EdgeWidth, Dash: EdgeDash}
	case onPath:
		return canvas.Stroke{Color: t.PathAccent, Width: PathEdgeWidth}
	}
	switch child.ScoreSign() {
	case 1:
		return canvas.Stroke{Color: t.PositiveEdge, Width: EdgeWidth}
	case -1:
		return canvas.Stroke{Color: t.NegativeEdge, Width: EdgeWidth}
	default:
		return canvas.Stroke{Color: t.NeutralEdge, Width: EdgeWidth}
	}
}

// NodeFill returns the opaque base fill of a node.
func NodeFill(t Theme, n *core.TreeNode) canvas.Color {
	switch {
	case n.IsBestMove:
		return t.BestMove
	case n.IsMaximizing:
		return t.Maximizing
	default:
		return t.Minimizing
	}
}

// NodeOpacity returns the opacity tier of a node.
func NodeOpacity(n *core.TreeNode, onPath bool) float64 {
	switch {
	case n != nil && n.Pruned:
		return PrunedAlpha
	case onPath:
		return PathAlpha
	default:
		return NormalAlpha
	}
}

// ShowScore reports whether a node's score label is drawn.
func ShowScore(depth int, onPath, hovered, selected bool) bool {
	return depth < 2 || onPath || hovered || selected
}

// ScoreLabel formats the label drawn beneath a node.
func ScoreLabel(n *core.TreeNode) string {
	return "Score: " + n.ScoreText()
}

// PulseRadius returns the hover ring radius at time t.
func PulseRadius(radius float64, t time.Time) float64 {
	ms := float64(t.UnixMilli())
	return radius + math.Sin(ms*PulseFrequency)*PulseAmplitude + PulseBase
}

// PanelTitle is the header text of the detail panel.
const PanelTitle = "Node Details"

// PanelLines returns the body lines of the detail panel.
func PanelLines(n *core.TreeNode) []string {
	move := "Root"
	if n.Move != nil {
		move = "Move: " + n.Move.String()
	}
	return []string{
		move,
		"Player: " + n.Role(),
		ScoreLabel(n),
	}
}

// PanelRect places the detail panel of node n in tree space. The panel sits
// to the right of the node, flips to the left when it would cross the
// visible right edge, and drops centered beneath the node when the left side
// overflows too. It is then clamped vertically into the visible area.
func PanelRect(n layout.Node, st interaction.State, width, height float64) geometry.Rect {
	v := newView(st)
	visLeft := -v.pan.X / v.zoom
	visRight := (width - v.pan.X) / v.zoom
	visTop := -v.pan.Y / v.zoom
	visBottom := (height - v.pan.Y) / v.zoom

	x := n.X + n.Radius + PanelGap
	y := n.Y - PanelHeight/2
	if x+PanelWidth > visRight {
		x = n.X - n.Radius - PanelGap - PanelWidth
		if x < visLeft {
			x = n.X - PanelWidth/2
			y = n.Y + n.Radius + PanelDrop
		}
	}

	if y+PanelHeight > visBottom {
		y = visBottom - PanelHeight
	}
	if y < visTop {
		y = visTop
	}
	return geometry.Rect{X: x, Y: y, W: PanelWidth, H: PanelHeight}
}
