package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func fetchCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch a decision tree from the search service and save it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := newClient().DecisionTree(cmd.Context(), treeRequest())
			if err != nil {
				return err
			}
			if err := requireTree(doc); err != nil {
				return err
			}

			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("encode tree: %w", err)
			}
			data = append(data, '\n')

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			Good.Fprintf(cmd.ErrOrStderr(), "  ✓ saved %d nodes to %s\n", doc.Tree.Root.Count(), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout when empty)")
	return cmd
}
