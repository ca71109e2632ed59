package export

import (
	"errors"
	"fmt"
	"strings"

	"treeviz/canvas"
	"treeviz/layout"
	"treeviz/pathfinding"
	"treeviz/render"
)

// ErrEmptyScene is returned by the graph exporters for a scene without nodes.
var ErrEmptyScene = errors.New("scene has no nodes")

// GraphvizExporter exports scenes to Graphviz DOT syntax
type GraphvizExporter struct {
	theme render.Theme
}

// NewGraphvizExporter creates a new Graphviz exporter
func NewGraphvizExporter(theme render.Theme) *GraphvizExporter {
	return &GraphvizExporter{theme: theme}
}

// Export converts the scene to Graphviz DOT syntax
func (e *GraphvizExporter) Export(s Scene) ([]byte, error) {
	if len(s.Nodes) == 0 {
		return nil, ErrEmptyScene
	}
	path := pathfinding.NewSet(s.State.SelectedPath)

	var sb strings.Builder
	sb.WriteString("digraph G {\n")
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [shape=circle, style=filled, fontname=\"Helvetica\"];\n")
	sb.WriteString("  edge [arrowhead=none];\n\n")

	for _, n := range s.Nodes {
		if n.Tree == nil {
			continue
		}
		attrs := []string{
			fmt.Sprintf("label=\"%s\"", e.escapeLabel(nodeLabel(n, "\\n"))),
			fmt.Sprintf("fillcolor=\"%s\"", dotColor(render.NodeFill(e.theme, n.Tree))),
		}
		if path.Contains(n.Index) {
			attrs = append(attrs, fmt.Sprintf("color=\"%s\"", dotColor(e.theme.PathAccent)), "penwidth=2.5")
		}
		fmt.Fprintf(&sb, "  %s [%s];\n", nodeID(n.Index), strings.Join(attrs, ", "))
	}

	if len(s.Nodes) > 1 {
		sb.WriteString("\n")
	}

	for _, n := range s.Nodes {
		if n.IsRoot() {
			continue
		}
		stroke := render.ConnectionStyle(e.theme, n.Tree, path.Contains(n.Index), s.Pruning)
		attrs := []string{
			fmt.Sprintf("color=\"%s\"", dotColor(stroke.Color)),
			fmt.Sprintf("penwidth=%g", stroke.Width),
		}
		if stroke.Dashed() {
			attrs = append(attrs, "style=dashed")
		}
		fmt.Fprintf(&sb, "  %s -> %s [%s];\n", nodeID(n.ParentIndex), nodeID(n.Index), strings.Join(attrs, ", "))
	}

	sb.WriteString("}\n")
	return []byte(sb.String()), nil
}

// escapeLabel escapes special characters in labels
func (e *GraphvizExporter) escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `"`, `\"`)
	return label
}

// GetFileExtension returns the recommended file extension
func (e *GraphvizExporter) GetFileExtension() string {
	return ".dot"
}

// GetFormatName returns the format name
func (e *GraphvizExporter) GetFormatName() string {
	return "Graphviz DOT"
}

func nodeID(i int) string {
	return fmt.Sprintf("N%d", i)
}

// nodeLabel is the move (or "Root") and the score, joined by sep.
func nodeLabel(n layout.Node, sep string) string {
	return n.Tree.MoveText() + sep + render.ScoreLabel(n.Tree)
}

// dotColor formats c as #rrggbb, or #rrggbbaa when translucent.
func dotColor(c canvas.Color) string {
	if c.A >= 1 {
		return c.Hex()
	}
	return fmt.Sprintf("%s%02x", c.Hex(), c.NRGBA().A)
}
