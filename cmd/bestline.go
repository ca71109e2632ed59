package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"treeviz/core"
	"treeviz/layout"
	"treeviz/pathfinding"
)

// BestLineStep is one position on the best line.
type BestLineStep struct {
	Index      int
	Depth      int
	Move       string
	Player     string
	Score      string
	Maximizing bool
}

// BestLine follows best-move flags from the root through the whole tree,
// ignoring the depth cutoff.
func BestLine(root *core.TreeNode) []BestLineStep {
	nodes := layout.Layout(root, 1, layout.Unlimited)
	line := pathfinding.Steps(nodes, pathfinding.BestLine(nodes))
	steps := make([]BestLineStep, 0, len(line))
	for _, st := range line {
		steps = append(steps, BestLineStep{
			Index:      st.Index,
			Depth:      st.Depth,
			Move:       st.Node.MoveText(),
			Player:     st.Node.Role(),
			Score:      st.Node.ScoreText(),
			Maximizing: st.Node.IsMaximizing,
		})
	}
	return steps
}

func bestlineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bestline [tree.json]",
		Short: "List the moves of the best line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := argPath(args)
			doc, err := loadDocument(cmd.Context(), path)
			if err != nil {
				return err
			}
			if err := requireTree(doc); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			steps := BestLine(doc.Tree.Root)
			fmt.Fprintf(w, "%s %s\n", Brand.Sprint("best line"), Subtle.Sprintf("(%s)", source(path)))
			if doc.Stats != nil {
				Subtle.Fprintf(w, "  %d nodes explored in %.1f ms\n", doc.Stats.NodesExplored, doc.Stats.DecisionTimeMS)
			}
			fmt.Fprintln(w)

			rows := make([][]string, len(steps))
			for i, s := range steps {
				rows[i] = []string{strconv.Itoa(s.Depth), s.Move, s.Player, s.Score, strconv.Itoa(s.Index)}
			}
			table(w, []string{"DEPTH", "MOVE", "PLAYER", "SCORE", "NODE"}, rows, func(r, c int, cell string) string {
				switch c {
				case 1:
					if r > 0 {
						return Best.Sprint(cell)
					}
				case 2:
					if steps[r].Maximizing {
						return MaxCol.Sprint(cell)
					}
					return MinCol.Sprint(cell)
				}
				return cell
			})

			if len(steps) == 1 {
				Warn.Fprintln(w, "\n  no child is flagged as the best move")
			}
			return nil
		},
	}
}
