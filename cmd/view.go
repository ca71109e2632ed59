package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"treeviz/core"
	"treeviz/terminal"
)

func viewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view [tree.json]",
		Short: "Browse a search tree in the terminal",
		Long: "Browse a search tree in the terminal. Without a file the tree is fetched\n" +
			"from the search service; press f to fetch again.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc *core.Document
			if path := argPath(args); path != "" {
				d, err := loadDocument(cmd.Context(), path)
				if err != nil {
					return err
				}
				doc = d
			}

			v, err := newViewer(doc)
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}

			opts := []terminal.Option{
				terminal.WithFetcher(newClient(), treeRequest()),
				terminal.WithLogger(log),
				terminal.WithCellSize(cfg.View.CellWidth, cfg.View.CellHeight),
				terminal.WithAnimation(cfg.Animation.FPS, cfg.Animation.HoverTick),
			}
			if doc != nil {
				opts = append(opts, terminal.WithStats(doc.Stats))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return terminal.NewSession(screen, v, opts...).Run(ctx)
		},
	}
}
