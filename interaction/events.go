package interaction

import "treeviz/geometry"

// Event is one input to Reduce.
type Event interface {
	event()
}

// Pointer events carry screen coordinates.
type (
	PointerMove  struct{ P geometry.Vec }
	PointerDown  struct{ P geometry.Vec }
	PointerUp    struct{ P geometry.Vec }
	PointerLeave struct{}
	Click        struct{ P geometry.Vec }
	DoubleClick  struct{ P geometry.Vec }
)

// View commands.
type (
	ZoomIn    struct{}
	ZoomOut   struct{}
	SetZoom   struct{ Zoom float64 }
	PanBy     struct{ D geometry.Vec }
	ResetView struct{}
)

// Lifecycle events, raised by the owner of the layout after Env changes.
type (
	// Relayout follows a depth or canvas-size change of the same tree.
	Relayout struct{}
	// NewTree follows the arrival of a different tree.
	NewTree struct{}
)

func (PointerMove) event()  {}
func (PointerDown) event()  {}
func (PointerUp) event()    {}
func (PointerLeave) event() {}
func (Click) event()        {}
func (DoubleClick) event()  {}
func (ZoomIn) event()       {}
func (ZoomOut) event()      {}
func (SetZoom) event()      {}
func (PanBy) event()        {}
func (ResetView) event()    {}
func (Relayout) event()     {}
func (NewTree) event()      {}
