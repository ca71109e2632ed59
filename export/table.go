package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"

	"treeviz/core"
	"treeviz/pathfinding"
)

// Record is one node of the exported layout table.
type Record struct {
	Index    int      `json:"index" toml:"index"`
	Parent   int      `json:"parent" toml:"parent"`
	Depth    int      `json:"depth" toml:"depth"`
	X        float64  `json:"x" toml:"x"`
	Y        float64  `json:"y" toml:"y"`
	Radius   float64  `json:"radius" toml:"radius"`
	Width    float64  `json:"width" toml:"width"`
	Move     string   `json:"move,omitempty" toml:"move,omitempty"`
	Player   string   `json:"player" toml:"player"`
	Score    *float64 `json:"score" toml:"score,omitempty"`
	BestMove bool     `json:"bestMove" toml:"best_move"`
	Pruned   bool     `json:"pruned" toml:"pruned"`
	OnPath   bool     `json:"onPath" toml:"on_path"`
}

// Table is the serializable form of a scene.
type Table struct {
	Width        float64     `json:"width" toml:"width"`
	Height       float64     `json:"height" toml:"height"`
	Zoom         float64     `json:"zoom" toml:"zoom"`
	Pan          [2]float64  `json:"pan" toml:"pan"`
	Selected     int         `json:"selected" toml:"selected"`
	SelectedPath []int       `json:"selectedPath" toml:"selected_path"`
	Stats        *core.Stats `json:"stats,omitempty" toml:"stats,omitempty"`
	Nodes        []Record    `json:"nodes" toml:"nodes"`
}

// NewTable flattens a scene.
func NewTable(s Scene) Table {
	path := pathfinding.NewSet(s.State.SelectedPath)
	t := Table{
		Width:        s.Width,
		Height:       s.Height,
		Zoom:         s.State.Zoom,
		Pan:          [2]float64{s.State.Pan.X, s.State.Pan.Y},
		Selected:     s.State.Selected,
		SelectedPath: append([]int{}, s.State.SelectedPath...),
		Stats:        s.Stats,
		Nodes:        make([]Record, 0, len(s.Nodes)),
	}
	for _, n := range s.Nodes {
		r := Record{
			Index:  n.Index,
			Parent: n.ParentIndex,
			Depth:  n.Depth,
			X:      n.X,
			Y:      n.Y,
			Radius: n.Radius,
			Width:  n.Width,
			OnPath: path.Contains(n.Index),
		}
		if tn := n.Tree; tn != nil {
			if tn.Move != nil {
				r.Move = tn.Move.String()
			}
			r.Player = "O"
			if tn.IsMaximizing {
				r.Player = "X"
			}
			r.Score = tn.Score
			r.BestMove = tn.IsBestMove
			r.Pruned = tn.Pruned
		}
		t.Nodes = append(t.Nodes, r)
	}
	return t
}

// JSONExporter exports scenes to JSON format
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export converts a scene to JSON
func (e *JSONExporter) Export(s Scene) ([]byte, error) {
	data, err := json.MarshalIndent(NewTable(s), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// GetFileExtension returns the file extension for JSON
func (e *JSONExporter) GetFileExtension() string {
	return ".json"
}

// GetFormatName returns the format name
func (e *JSONExporter) GetFormatName() string {
	return "JSON"
}

// TOMLExporter exports scenes to TOML format
type TOMLExporter struct{}

// NewTOMLExporter creates a new TOML exporter
func NewTOMLExporter() *TOMLExporter {
	return &TOMLExporter{}
}

// Export converts a scene to TOML
func (e *TOMLExporter) Export(s Scene) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(NewTable(s)); err != nil {
		return nil, fmt.Errorf("encode toml: %w", err)
	}
	return buf.Bytes(), nil
}

// GetFileExtension returns the file extension for TOML
func (e *TOMLExporter) GetFileExtension() string {
	return ".toml"
}

// GetFormatName returns the format name
func (e *TOMLExporter) GetFormatName() string {
	return "TOML"
}
