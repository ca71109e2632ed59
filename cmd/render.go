package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"treeviz/core"
	"treeviz/export"
	"treeviz/interaction"
	"treeviz/viewer"
)

// sceneFlags are the view-state flags shared by render and export.
type sceneFlags struct {
	selected int
	hovered  int
}

func (f *sceneFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.selected, "select", interaction.None, "Select the node with this layout index")
	cmd.Flags().IntVar(&f.hovered, "hover", interaction.None, "Hover the node with this layout index")
}

// scene lays out doc and replays the pointer events that select and hover
// the requested nodes.
func (f *sceneFlags) scene(doc *core.Document) (export.Scene, error) {
	if err := requireTree(doc); err != nil {
		return export.Scene{}, err
	}
	v, err := newViewer(doc)
	if err != nil {
		return export.Scene{}, err
	}
	if f.selected != interaction.None {
		if err := pointAt(v, f.selected); err != nil {
			return export.Scene{}, err
		}
		v.Dispatch(interaction.Click{P: v.Nodes()[f.selected].Center()})
	}
	if f.hovered != interaction.None {
		if err := pointAt(v, f.hovered); err != nil {
			return export.Scene{}, err
		}
	} else {
		v.Dispatch(interaction.PointerLeave{})
	}
	return export.FromViewer(v, doc.Stats), nil
}

// pointAt moves the pointer over node i of a view at its initial pan and zoom.
func pointAt(v *viewer.Viewer, i int) error {
	nodes := v.Nodes()
	if i < 0 || i >= len(nodes) {
		return fmt.Errorf("node index %d out of range [0, %d)", i, len(nodes))
	}
	v.Dispatch(interaction.PointerMove{P: nodes[i].Center()})
	return nil
}

func renderCmd() *cobra.Command {
	var flags sceneFlags
	var plain bool

	cmd := &cobra.Command{
		Use:   "render [tree.json]",
		Short: "Draw the tree view as cell art on stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd.Context(), argPath(args))
			if err != nil {
				return err
			}
			s, err := flags.scene(doc)
			if err != nil {
				return err
			}

			format := export.FormatANSI
			if plain || color.NoColor {
				format = export.FormatText
			}
			exp, err := export.NewExporter(format, export.WithCellSize(cfg.View.CellWidth, cfg.View.CellHeight))
			if err != nil {
				return err
			}
			out, err := exp.Export(s)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&plain, "plain", false, "Omit terminal colors")
	return cmd
}

func exportCmd() *cobra.Command {
	var flags sceneFlags
	var output, format string

	cmd := &cobra.Command{
		Use:   "export [tree.json]",
		Short: "Export the tree view to a file",
		Long:  "Export the tree view to a file. The format follows --format or the output\nfile extension.\n\n" + formatHelp(),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := exportFormat(format, output)
			if err != nil {
				return err
			}
			exp, err := export.NewExporter(f, export.WithCellSize(cfg.View.CellWidth, cfg.View.CellHeight))
			if err != nil {
				return err
			}

			path := argPath(args)
			doc, err := loadDocument(cmd.Context(), path)
			if err != nil {
				return err
			}
			s, err := flags.scene(doc)
			if err != nil {
				return err
			}
			out, err := exp.Export(s)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			log.Infow("tree exported", "source", source(path), "output", output, "format", f)
			Good.Fprintf(cmd.ErrOrStderr(), "  ✓ %s: %d nodes → %s\n", exp.GetFormatName(), len(s.Nodes), output)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout when empty)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Export format")
	return cmd
}

// exportFormat resolves the format flag, falling back to the output
// extension and then to JSON.
func exportFormat(flag, output string) (export.Format, error) {
	switch {
	case flag != "":
		return export.ParseFormat(flag)
	case output != "":
		return export.FormatFromPath(output)
	default:
		return export.FormatJSON, nil
	}
}

func formatHelp() string {
	desc := export.GetFormatDescriptions()
	s := "Formats:\n"
	for _, f := range export.GetAvailableFormats() {
		s += fmt.Sprintf("  %-8s %s\n", f, desc[f])
	}
	return s
}
