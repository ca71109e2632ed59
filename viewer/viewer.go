// Package viewer ties a search tree to its layout, view state and renderer.
//
// A Viewer is one mounted tree view. It rebuilds the node table whenever the
// tree, the depth cutoff or the canvas width changes, and routes input events
// through the interaction controller. It is not safe for concurrent use.
package viewer

import (
	"treeviz/canvas"
	"treeviz/core"
	"treeviz/interaction"
	"treeviz/layout"
	"treeviz/render"
)

// DefaultMaxDepth is the initial depth cutoff.
const DefaultMaxDepth = 3

// Option configures a Viewer.
type Option func(*Viewer)

// WithMaxDepth sets the initial depth cutoff.
func WithMaxDepth(d int) Option {
	return func(v *Viewer) { v.maxDepth = d }
}

// WithRenderer replaces the default renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(v *Viewer) { v.renderer = r }
}

// WithEngine replaces the default layout engine.
func WithEngine(e *layout.Engine) Option {
	return func(v *Viewer) { v.engine = e }
}

// Viewer is one tree view.
type Viewer struct {
	root     *core.TreeNode
	maxDepth int
	width    float64
	height   float64

	engine   *layout.Engine
	ctrl     *interaction.Controller
	renderer *render.Renderer
	nodes    []layout.Node
}

// New creates an empty viewer for a canvas of the given size.
func New(width, height float64, opts ...Option) *Viewer {
	v := &Viewer{
		maxDepth: DefaultMaxDepth,
		width:    width,
		height:   height,
		engine:   layout.NewEngine(),
		ctrl:     interaction.NewController(),
		renderer: render.NewRenderer(),
		nodes:    []layout.Node{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// SetTree installs a new tree and resets the view. A nil root empties the view.
func (v *Viewer) SetTree(root *core.TreeNode) {
	v.root = root
	v.nodes = v.engine.Layout(root, v.width, v.maxDepth)
	v.ctrl.Load(v.nodes, v.width, v.height)
}

// SetMaxDepth changes the depth cutoff and relays out the current tree.
func (v *Viewer) SetMaxDepth(d int) {
	if d < 0 {
		d = 0
	}
	if d == v.maxDepth {
		return
	}
	v.maxDepth = d
	v.relayout()
}

// Resize changes the canvas size. The tree is relaid out when the width
// changes; a height change only moves the double-click anchor.
func (v *Viewer) Resize(width, height float64) {
	if width == v.width {
		v.height = height
		v.ctrl.SetHeight(height)
		return
	}
	v.width, v.height = width, height
	v.relayout()
}

func (v *Viewer) relayout() {
	v.nodes = v.engine.Layout(v.root, v.width, v.maxDepth)
	v.ctrl.SetLayout(v.nodes, v.width, v.height)
}

// SetPruning toggles pruned-branch visualization.
func (v *Viewer) SetPruning(on bool) {
	v.renderer.SetPruning(on)
}

// Pruning reports whether pruned branches are drawn distinctly.
func (v *Viewer) Pruning() bool {
	return v.renderer.Pruning()
}

// Dispatch applies ev and reports whether the view state changed.
func (v *Viewer) Dispatch(ev interaction.Event) bool {
	return v.ctrl.Handle(ev)
}

// Render draws the current frame onto s.
func (v *Viewer) Render(s canvas.Surface) {
	v.renderer.Render(s, v.nodes, v.ctrl.State())
}

// Root returns the current tree root.
func (v *Viewer) Root() *core.TreeNode {
	return v.root
}

// Nodes returns the current node table. Callers must not modify it.
func (v *Viewer) Nodes() []layout.Node {
	return v.nodes
}

// State returns the current view state.
func (v *Viewer) State() interaction.State {
	return v.ctrl.State()
}

// BestLine returns the best-move line of the current layout.
func (v *Viewer) BestLine() []int {
	return v.ctrl.Env().BestLine
}

// MaxDepth returns the depth cutoff.
func (v *Viewer) MaxDepth() int {
	return v.maxDepth
}

// Size returns the canvas size.
func (v *Viewer) Size() (width, height float64) {
	return v.width, v.height
}

// Selected returns the selected node, if any.
func (v *Viewer) Selected() (layout.Node, bool) {
	st := v.ctrl.State()
	if !st.HasSelection() {
		return layout.Node{}, false
	}
	return v.ctrl.Env().Node(st.Selected)
}

// Hovered returns the hovered node, if any.
func (v *Viewer) Hovered() (layout.Node, bool) {
	st := v.ctrl.State()
	if !st.IsHovering() {
		return layout.Node{}, false
	}
	return v.ctrl.Env().Node(st.Hovered)
}

// Renderer returns the renderer drawing this view.
func (v *Viewer) Renderer() *render.Renderer {
	return v.renderer
}
