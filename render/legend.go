package render

import "treeviz/canvas"

// LegendItem is one swatch of the color legend.
type LegendItem struct {
	Symbol string
	Label  string
	Color  canvas.Color
}

// Legend lists the node and edge encodings in display order. The pruned
// entry appears only while pruning visualization is on.
func Legend(t Theme, pruning bool) []LegendItem {
	items := []LegendItem{
		{Symbol: "●", Label: "Maximizing (X)", Color: t.Maximizing},
		{Symbol: "●", Label: "Minimizing (O)", Color: t.Minimizing},
		{Symbol: "●", Label: "Best move", Color: t.BestMove},
	}
	if pruning {
		items = append(items, LegendItem{Symbol: "╌", Label: "Pruned", Color: t.PrunedEdge.WithAlpha(1)})
	}
	return items
}
