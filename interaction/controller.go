package interaction

import (
	"treeviz/layout"
	"treeviz/pathfinding"
)

// Controller holds the state of one tree view and feeds events through Reduce.
// It is not safe for concurrent use; the owning event loop serializes calls.
type Controller struct {
	state State
	env   Env
}

// NewController creates a controller with an empty layout.
func NewController() *Controller {
	env := NewEnv(nil, 0, 0)
	return &Controller{state: Initial(env.BestLine), env: env}
}

// Load installs the layout of a new tree and resets the view.
func (c *Controller) Load(nodes []layout.Node, width, height float64) {
	c.env = NewEnv(nodes, width, height)
	c.state = Reduce(c.state, c.env, NewTree{})
}

// SetLayout installs a recomputed layout of the current tree. Pan, zoom and a
// still-valid selection survive; hover is cleared.
func (c *Controller) SetLayout(nodes []layout.Node, width, height float64) {
	c.env = NewEnv(nodes, width, height)
	c.state = Reduce(c.state, c.env, Relayout{})
}

// SetHeight changes the canvas height. Node positions do not depend on it, so
// hover and selection are kept.
func (c *Controller) SetHeight(height float64) {
	c.env.Height = height
}

// Handle applies ev and reports whether the state changed.
func (c *Controller) Handle(ev Event) bool {
	next := Reduce(c.state, c.env, ev)
	changed := !sameState(c.state, next)
	c.state = next
	return changed
}

// State returns the current view state.
func (c *Controller) State() State {
	return c.state
}

// Env returns the layout environment.
func (c *Controller) Env() Env {
	return c.env
}

func sameState(a, b State) bool {
	if a.Mode != b.Mode || a.Zoom != b.Zoom || a.Pan != b.Pan ||
		a.Hovered != b.Hovered || a.Selected != b.Selected ||
		a.DragLast != b.DragLast || a.Pressed != b.Pressed || a.Anchor != b.Anchor {
		return false
	}
	return pathfinding.Equal(a.SelectedPath, b.SelectedPath)
}
