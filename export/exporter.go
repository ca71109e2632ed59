// Package export writes a laid-out search tree to files in text, data and image formats
package export

import (
	"fmt"
	"strings"

	"treeviz/core"
	"treeviz/interaction"
	"treeviz/layout"
	"treeviz/viewer"
)

// Format represents an export format
type Format string

const (
	// FormatText renders the view as plain Unicode cell art
	FormatText Format = "text"
	// FormatANSI renders the view as 24-bit colored cell art
	FormatANSI Format = "ansi"
	// FormatPNG renders the view as a raster image
	FormatPNG Format = "png"
	// FormatJSON dumps the layout table and view state as JSON
	FormatJSON Format = "json"
	// FormatTOML dumps the layout table and view state as TOML
	FormatTOML Format = "toml"
	// FormatDOT exports to Graphviz DOT syntax
	FormatDOT Format = "dot"
	// FormatMermaid exports to Mermaid flowchart syntax
	FormatMermaid Format = "mermaid"
)

// Scene is everything an exporter needs: the node table, the view state and
// the canvas it was laid out for.
type Scene struct {
	Nodes   []layout.Node
	State   interaction.State
	Width   float64
	Height  float64
	Pruning bool
	Stats   *core.Stats
}

// FromViewer captures the current scene of v.
func FromViewer(v *viewer.Viewer, stats *core.Stats) Scene {
	w, h := v.Size()
	return Scene{
		Nodes:   v.Nodes(),
		State:   v.State(),
		Width:   w,
		Height:  h,
		Pruning: v.Pruning(),
		Stats:   stats,
	}
}

// Exporter interface for different export formats
type Exporter interface {
	// Export converts a scene to the target format
	Export(s Scene) ([]byte, error)
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format, opts ...Option) (Exporter, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	switch format {
	case FormatText:
		return &CellExporter{opts: o}, nil
	case FormatANSI:
		return &CellExporter{opts: o, color: true}, nil
	case FormatPNG:
		return &PNGExporter{opts: o}, nil
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatTOML:
		return NewTOMLExporter(), nil
	case FormatDOT:
		return NewGraphvizExporter(o.theme), nil
	case FormatMermaid:
		return NewMermaidExporter(o.theme), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text", "txt", "ascii":
		return FormatText, nil
	case "ansi", "ans", "color":
		return FormatANSI, nil
	case "png", "image":
		return FormatPNG, nil
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	case "dot", "graphviz", "gv":
		return FormatDOT, nil
	case "mermaid", "mmd":
		return FormatMermaid, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return "", fmt.Errorf("no extension in %q", path)
	}
	return ParseFormat(path[i+1:])
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{
		FormatText,
		FormatANSI,
		FormatPNG,
		FormatJSON,
		FormatTOML,
		FormatDOT,
		FormatMermaid,
	}
}

// GetFormatDescriptions returns human-readable descriptions of all formats
func GetFormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatText:    "Unicode cell art of the current view",
		FormatANSI:    "Unicode cell art with 24-bit terminal colors",
		FormatPNG:     "PNG image of the current view",
		FormatJSON:    "Layout table and view state as JSON",
		FormatTOML:    "Layout table and view state as TOML",
		FormatDOT:     "Graphviz DOT syntax",
		FormatMermaid: "Mermaid flowchart syntax (for Markdown)",
	}
}
