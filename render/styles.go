package render

import "treeviz/canvas"

// Theme holds every color the tree renderer uses.
type Theme struct {
	Background canvas.Color

	Maximizing canvas.Color
	Minimizing canvas.Color
	BestMove   canvas.Color
	Border     canvas.Color
	PathAccent canvas.Color
	Label      canvas.Color

	PrunedEdge   canvas.Color
	PositiveEdge canvas.Color
	NegativeEdge canvas.Color
	NeutralEdge  canvas.Color

	HoverPulse    canvas.Color
	HoverRing     canvas.Color
	SelectionRing canvas.Color

	BoardBackground canvas.Color
	BoardGrid       canvas.Color
	MarkX           canvas.Color
	MarkO           canvas.Color

	PanelBackground canvas.Color
	PanelBorder     canvas.Color
	PanelHeader     canvas.Color
	PanelTitle      canvas.Color
	PanelText       canvas.Color
}

// DefaultTheme returns the standard light palette.
func DefaultTheme() Theme {
	return Theme{
		Background: canvas.White,

		Maximizing: canvas.MustHex("#2196f3"),
		Minimizing: canvas.MustHex("#ff9800"),
		BestMove:   canvas.MustHex("#4caf50"),
		Border:     canvas.MustHex("#333333"),
		PathAccent: canvas.MustHex("#4caf50"),
		Label:      canvas.Black,

		PrunedEdge:   canvas.RGBA(255, 0, 0, 0.4),
		PositiveEdge: canvas.RGBA(76, 175, 80, 0.6),
		NegativeEdge: canvas.RGBA(244, 67, 54, 0.6),
		NeutralEdge:  canvas.RGBA(158, 158, 158, 0.5),

		HoverPulse:    canvas.RGBA(255, 255, 255, 0.7),
		HoverRing:     canvas.White,
		SelectionRing: canvas.MustHex("#4285f4"),

		BoardBackground: canvas.White,
		BoardGrid:       canvas.MustHex("#333333"),
		MarkX:           canvas.MustHex("#2196f3"),
		MarkO:           canvas.MustHex("#ff9800"),

		PanelBackground: canvas.RGBA(255, 255, 255, 0.95),
		PanelBorder:     canvas.MustHex("#cccccc"),
		PanelHeader:     canvas.MustHex("#3498db"),
		PanelTitle:      canvas.White,
		PanelText:       canvas.MustHex("#333333"),
	}
}

// Stroke widths, in tree-space pixels.
const (
	EdgeWidth      = 1.5
	PathEdgeWidth  = 4.0
	BorderWidth    = 2.0
	PathBorder     = 2.5
	RingWidth      = 3.0
	BoardGridWidth = 1.0
	PanelBorderW   = 1.0
)

// Node opacity tiers.
const (
	PrunedAlpha = 0.5
	PathAlpha   = 0.9
	NormalAlpha = 0.75
)

// Geometry of node decorations, in tree-space pixels.
const (
	PathScale       = 1.05
	GlowRadius      = 5.0
	HoverScale      = 1.15
	SelectionOffset = 7.0
	BoardFraction   = 1.6
	LabelOffset     = 20.0
	LabelSize       = 14.0
	PathLabelSize   = 16.0
)

// Detail panel geometry, in tree-space pixels.
const (
	PanelWidth   = 180.0
	PanelHeight  = 90.0
	PanelHeaderH = 25.0
	PanelRadius  = 8.0
	PanelGap     = 20.0
	PanelDrop    = 30.0
	PanelPadding = 10.0
	PanelFont    = 12.0
)

// Pulse parameters of the hover ring.
const (
	PulseFrequency = 0.005 // radians per millisecond
	PulseAmplitude = 5.0
	PulseBase      = 10.0
)

// EdgeDash is the dash pattern of pruned connections.
var EdgeDash = []float64{5, 3}
