// Package cmd implements the treeviz command line.
package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"treeviz/client"
	"treeviz/config"
	"treeviz/logging"
	"treeviz/terminal"
)

var version = "0.3.0"

var (
	cfgFile string
	cfg     *config.Config
	log     = zap.NewNop().Sugar()
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "treeviz",
		Short: "treeviz — minimax search-tree viewer",
		Long: Brand.Sprint("treeviz") + " — explore a tic-tac-toe minimax search tree\n" +
			Subtle.Sprint("Browse the tree interactively, render it, or export the layout"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			l, err := logging.New(c.Log.Level, c.Log.File)
			if err != nil {
				return err
			}
			cfg, log = c, l

			if !terminal.DetectCapabilities().Color() {
				color.NoColor = true
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = log.Sync()
		},
	}
	root.SetVersionTemplate("treeviz {{ .Version }}\n")

	f := root.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "Config file (TOML, YAML or JSON)")
	f.String("api-url", "http://localhost:5000/api", "Search service base URL")
	f.Duration("timeout", client.DefaultTimeout, "Search service request timeout")
	f.String("player", "", "Player to move, X or O (service default when empty)")
	f.Bool("alpha-beta", true, "Use alpha-beta pruning: request it and draw pruned branches")
	f.Float64("width", 1200, "Canvas width in pixels")
	f.Float64("height", 800, "Canvas height in pixels")
	f.String("depth", "3", "Depth cutoff: 1-4 or all")
	f.Float64("cell-width", 6, "Canvas pixels per terminal column")
	f.Float64("cell-height", 12, "Canvas pixels per terminal row")
	f.Int("fps", 30, "Redraw rate of the interactive view")
	f.String("log-level", "info", "Log level")
	f.String("log-file", "", "Log file (logging is off when empty)")

	root.AddCommand(
		viewCmd(),
		renderCmd(),
		exportCmd(),
		bestlineCmd(),
		fetchCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	root := newRootCmd()
	err := root.Execute()
	if err != nil {
		Bad.Fprintf(root.ErrOrStderr(), "treeviz: %v\n", err)
	}
	return err
}
