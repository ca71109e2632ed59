// Package interaction maps pointer and keyboard events onto the view state
// of a tree view: hover, selection, pan and zoom.
//
// All transitions go through Reduce, a pure function of the previous state,
// the current layout environment and one event.
package interaction

import (
	"fmt"

	"treeviz/geometry"
	"treeviz/layout"
	"treeviz/pathfinding"
)

// Mode is the pointer mode of the view.
type Mode int

const (
	ModeIdle     Mode = iota // Pointer is over empty canvas
	ModeHovering             // Pointer is over a node
	ModeDragging             // Canvas is being panned
)

// String returns the mode name for display
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "IDLE"
	case ModeHovering:
		return "HOVER"
	case ModeDragging:
		return "DRAG"
	default:
		return "UNKNOWN"
	}
}

// None marks an absent hovered or selected index.
const None = -1

// Zoom limits and step.
const (
	MinZoom  = 0.5
	MaxZoom  = 3.0
	ZoomStep = 0.2
)

// Hit slop added to a node's radius when testing the pointer against it.
const (
	PathHitSlop  = 8.0
	OtherHitSlop = 5.0
)

// ClickTolerance is the largest press-to-click displacement, in screen
// pixels, that still counts as a click.
const ClickTolerance = 5.0

// State is the complete view state of one tree view.
type State struct {
	Mode         Mode
	Zoom         float64
	Pan          geometry.Vec
	Hovered      int
	Selected     int
	SelectedPath []int // root-first; read-only, may share storage with the layout

	DragOrigin geometry.Vec // where the current drag started
	DragLast   geometry.Vec // last pointer position seen while dragging

	// Press anchor of the current gesture, kept independently of dragging
	// so a click on a node can be told apart from a drag.
	Anchor  geometry.Vec
	Pressed bool
}

// Initial returns the reset state for a layout whose best line is bestLine.
func Initial(bestLine []int) State {
	return State{
		Mode:         ModeIdle,
		Zoom:         1,
		Hovered:      None,
		Selected:     None,
		SelectedPath: bestLine,
	}
}

// ToTree converts a screen point into tree space.
func (s State) ToTree(p geometry.Vec) geometry.Vec {
	return p.Sub(s.Pan).Scale(1 / s.Zoom)
}

// ToScreen converts a tree-space point into screen space.
func (s State) ToScreen(p geometry.Vec) geometry.Vec {
	return s.Pan.Add(p.Scale(s.Zoom))
}

// IsHovering reports whether a node is hovered.
func (s State) IsHovering() bool {
	return s.Hovered != None
}

// HasSelection reports whether a node is selected.
func (s State) HasSelection() bool {
	return s.Selected != None
}

// String renders a compact description for status lines and logs.
func (s State) String() string {
	return fmt.Sprintf("%s zoom=%.1f pan=(%.0f,%.0f) hover=%d selected=%d path=%v",
		s.Mode, s.Zoom, s.Pan.X, s.Pan.Y, s.Hovered, s.Selected, s.SelectedPath)
}

// Env is the read-only layout context a transition is evaluated against.
type Env struct {
	Nodes    []layout.Node
	BestLine []int
	Width    float64
	Height   float64
}

// NewEnv builds an Env and resolves the best line of nodes.
func NewEnv(nodes []layout.Node, width, height float64) Env {
	return Env{
		Nodes:    nodes,
		BestLine: pathfinding.BestLine(nodes),
		Width:    width,
		Height:   height,
	}
}

// Node returns the layout entry at i, if any.
func (e Env) Node(i int) (layout.Node, bool) {
	if i < 0 || i >= len(e.Nodes) {
		return layout.Node{}, false
	}
	return e.Nodes[i], true
}

// Anchor is the screen point a double-clicked node is moved to.
func (e Env) Anchor() geometry.Vec {
	return geometry.Vec{X: e.Width / 2, Y: e.Height / 3}
}
