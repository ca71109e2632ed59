package cmd

import (
	"context"
	"fmt"

	"treeviz/client"
	"treeviz/core"
	"treeviz/viewer"
)

func newClient() *client.Client {
	return client.New(cfg.API.BaseURL,
		client.WithTimeout(cfg.API.Timeout),
		client.WithLogger(log),
	)
}

func treeRequest() client.TreeRequest {
	return client.TreeRequest{UseAlphaBeta: cfg.API.AlphaBeta, Player: cfg.API.Player}
}

// loadDocument reads a saved payload when path is set and asks the search
// service otherwise.
func loadDocument(ctx context.Context, path string) (*core.Document, error) {
	if path != "" {
		doc, err := client.LoadFile(path)
		if err != nil {
			return nil, err
		}
		log.Infow("tree loaded", "path", path, "nodes", doc.Tree.Root.Count())
		return doc, nil
	}
	return newClient().DecisionTree(ctx, treeRequest())
}

func requireTree(doc *core.Document) error {
	if doc.Tree.Root == nil {
		return core.ErrNoTree
	}
	return nil
}

// newViewer builds a viewer sized from the configuration. A nil doc leaves
// the view empty.
func newViewer(doc *core.Document) (*viewer.Viewer, error) {
	depth, err := cfg.Depth()
	if err != nil {
		return nil, err
	}
	v := viewer.New(cfg.View.Width, cfg.View.Height, viewer.WithMaxDepth(depth))
	v.SetPruning(cfg.API.AlphaBeta)
	if doc != nil {
		v.SetTree(doc.Tree.Root)
	}
	return v, nil
}

func argPath(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func source(path string) string {
	if path == "" {
		return fmt.Sprintf("%s/decision_tree", cfg.API.BaseURL)
	}
	return path
}
