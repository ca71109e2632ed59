package interaction

import (
	"math"

	"treeviz/geometry"
	"treeviz/pathfinding"
)

// Reduce applies one event to s and returns the next state. It never fails:
// events with non-finite coordinates are ignored and out-of-range zoom
// requests are clamped.
func Reduce(s State, env Env, ev Event) State {
	switch e := ev.(type) {
	case PointerMove:
		if !e.P.Finite() {
			return s
		}
		if s.Mode == ModeDragging {
			s.Pan = s.Pan.Add(e.P.Sub(s.DragLast).Scale(1 / s.Zoom))
			s.DragLast = e.P
			s.Hovered = None
			return s
		}
		return hover(s, env, e.P)

	case PointerDown:
		if !e.P.Finite() {
			return s
		}
		s.Anchor = e.P
		s.Pressed = true
		if !s.IsHovering() {
			s.Mode = ModeDragging
			s.DragOrigin = e.P
			s.DragLast = e.P
		}
		return s

	case PointerUp:
		if s.Mode == ModeDragging {
			s.Mode = ModeIdle
		}
		if !e.P.Finite() {
			return s
		}
		return hover(s, env, e.P)

	case PointerLeave:
		s.Mode = ModeIdle
		s.Hovered = None
		s.Pressed = false
		return s

	case Click:
		if s.Pressed && geometry.Distance(e.P, s.Anchor) > ClickTolerance {
			s.Pressed = false
			return s
		}
		s.Pressed = false
		if !s.IsHovering() || s.Selected == s.Hovered {
			return deselect(s, env)
		}
		return selectNode(s, env, s.Hovered)

	case DoubleClick:
		n, ok := env.Node(s.Hovered)
		if !ok {
			return s
		}
		s.Zoom = clampZoom(math.Max(1, 1.5-0.2*float64(n.Depth)))
		s.Pan = env.Anchor().Sub(n.Center().Scale(s.Zoom))
		return selectNode(s, env, s.Hovered)

	case ZoomIn:
		s.Zoom = clampZoom(s.Zoom + ZoomStep)
		return s

	case ZoomOut:
		s.Zoom = clampZoom(s.Zoom - ZoomStep)
		return s

	case SetZoom:
		if geometry.Finite(e.Zoom) {
			s.Zoom = clampZoom(e.Zoom)
		}
		return s

	case PanBy:
		if e.D.Finite() {
			s.Pan = s.Pan.Add(e.D)
		}
		return s

	case ResetView, NewTree:
		return Initial(env.BestLine)

	case Relayout:
		s.Hovered = None
		if s.Mode == ModeHovering {
			s.Mode = ModeIdle
		}
		if path := pathfinding.PathTo(env.Nodes, s.Selected); path != nil {
			s.SelectedPath = path
			return s
		}
		s.Selected = None
		s.SelectedPath = env.BestLine
		return s
	}
	return s
}

// HitTest returns the index of the node under screen point p, or None.
// Nodes on the selected path are tested first with a wider slop so the
// highlighted line wins where it overlaps other nodes.
func HitTest(s State, env Env, p geometry.Vec) int {
	if s.Zoom == 0 || !p.Finite() {
		return None
	}
	t := s.ToTree(p)
	onPath := pathfinding.NewSet(s.SelectedPath)

	for _, i := range s.SelectedPath {
		n, ok := env.Node(i)
		if ok && geometry.Distance(t, n.Center()) <= n.Radius+PathHitSlop {
			return i
		}
	}
	for i, n := range env.Nodes {
		if onPath.Contains(i) {
			continue
		}
		if geometry.Distance(t, n.Center()) <= n.Radius+OtherHitSlop {
			return i
		}
	}
	return None
}

func hover(s State, env Env, p geometry.Vec) State {
	s.Hovered = HitTest(s, env, p)
	if s.IsHovering() {
		s.Mode = ModeHovering
	} else {
		s.Mode = ModeIdle
	}
	return s
}

func selectNode(s State, env Env, i int) State {
	path := pathfinding.PathTo(env.Nodes, i)
	if path == nil {
		return deselect(s, env)
	}
	s.Selected = i
	s.SelectedPath = path
	return s
}

func deselect(s State, env Env) State {
	s.Selected = None
	s.SelectedPath = env.BestLine
	return s
}

func clampZoom(z float64) float64 {
	z = math.Round(z*100) / 100
	return geometry.Clamp(z, MinZoom, MaxZoom)
}
