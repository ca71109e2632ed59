package export

import (
	"fmt"
	"strings"

	"treeviz/pathfinding"
	"treeviz/render"
)

// MermaidExporter exports scenes to Mermaid flowchart syntax
type MermaidExporter struct {
	theme render.Theme
}

// NewMermaidExporter creates a new Mermaid exporter
func NewMermaidExporter(theme render.Theme) *MermaidExporter {
	return &MermaidExporter{theme: theme}
}

// Export converts the scene to a top-down Mermaid flowchart
func (e *MermaidExporter) Export(s Scene) ([]byte, error) {
	if len(s.Nodes) == 0 {
		return nil, ErrEmptyScene
	}
	path := pathfinding.NewSet(s.State.SelectedPath)

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	classes := map[string][]string{}
	for _, n := range s.Nodes {
		if n.Tree == nil {
			continue
		}
		id := nodeID(n.Index)
		fmt.Fprintf(&sb, "    %s((\"%s\"))\n", id, e.escapeLabel(nodeLabel(n, "<br/>")))

		class := "min"
		switch {
		case n.Tree.IsBestMove:
			class = "best"
		case n.Tree.IsMaximizing:
			class = "max"
		}
		classes[class] = append(classes[class], id)
	}

	if len(s.Nodes) > 1 {
		sb.WriteString("\n")
	}

	var linkStyles []string
	link := 0
	for _, n := range s.Nodes {
		if n.IsRoot() {
			continue
		}
		onPath := path.Contains(n.Index)
		stroke := render.ConnectionStyle(e.theme, n.Tree, onPath, s.Pruning)

		arrow := "---"
		switch {
		case stroke.Dashed():
			arrow = "-.-"
		case onPath:
			arrow = "==="
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", nodeID(n.ParentIndex), arrow, nodeID(n.Index))
		linkStyles = append(linkStyles, fmt.Sprintf("    linkStyle %d stroke:%s,stroke-width:%gpx", link, stroke.Color.Hex(), stroke.Width))
		link++
	}

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "    classDef max fill:%s,color:#fff\n", e.theme.Maximizing.Hex())
	fmt.Fprintf(&sb, "    classDef min fill:%s,color:#fff\n", e.theme.Minimizing.Hex())
	fmt.Fprintf(&sb, "    classDef best fill:%s,color:#fff\n", e.theme.BestMove.Hex())
	for _, class := range []string{"max", "min", "best"} {
		if ids := classes[class]; len(ids) > 0 {
			fmt.Fprintf(&sb, "    class %s %s\n", strings.Join(ids, ","), class)
		}
	}
	for _, ls := range linkStyles {
		sb.WriteString(ls + "\n")
	}
	return []byte(sb.String()), nil
}

// escapeLabel escapes characters Mermaid treats specially inside quoted labels
func (e *MermaidExporter) escapeLabel(label string) string {
	return strings.ReplaceAll(label, `"`, "#quot;")
}

// GetFileExtension returns the recommended file extension
func (e *MermaidExporter) GetFileExtension() string {
	return ".mmd"
}

// GetFormatName returns the format name
func (e *MermaidExporter) GetFormatName() string {
	return "Mermaid"
}
