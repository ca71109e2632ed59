package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNoTree        = errors.New("document contains no tree")
	ErrUnknownFormat = errors.New("unrecognized tree document")
)

// MarshalJSON encodes X and O as strings and an empty square as null.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c == Empty {
		return []byte("null"), nil
	}
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts "X", "O", "", null and lowercase variants.
// Anything else decodes as an empty square.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil || s == nil {
		*c = Empty
		return nil
	}
	switch *s {
	case "X", "x":
		*c = X
	case "O", "o":
		*c = O
	default:
		*c = Empty
	}
	return nil
}

// MarshalJSON encodes the move as a [row, col] pair.
func (m Move) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{m.Row, m.Col})
}

// UnmarshalJSON decodes a [row, col] pair.
func (m *Move) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("move: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("move: want [row, col], got %d values", len(pair))
	}
	m.Row, m.Col = pair[0], pair[1]
	return nil
}

// UnmarshalJSON decodes a 3×3 array of cells. Rows or columns beyond the
// board are an error; short rows leave the remaining squares empty.
func (b *Board) UnmarshalJSON(data []byte) error {
	var rows [][]Cell
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("board: %w", err)
	}
	if len(rows) > BoardSize {
		return fmt.Errorf("board: %d rows", len(rows))
	}
	var out Board
	for r, row := range rows {
		if len(row) > BoardSize {
			return fmt.Errorf("board: row %d has %d cells", r, len(row))
		}
		copy(out[r][:], row)
	}
	*b = out
	return nil
}

// wireNode mirrors TreeNode with every field left raw so that a single bad
// field never discards the whole node.
type wireNode struct {
	Board        json.RawMessage   `json:"board"`
	Move         json.RawMessage   `json:"move"`
	Score        json.RawMessage   `json:"score"`
	IsMaximizing json.RawMessage   `json:"isMaximizing"`
	IsBestMove   json.RawMessage   `json:"isBestMove"`
	Pruned       json.RawMessage   `json:"pruned"`
	Children     []json.RawMessage `json:"children"`
}

// UnmarshalJSON decodes a node leniently: malformed optional fields are
// dropped (board, move and score become nil) and malformed children are
// skipped. Only a value that is not a JSON object is an error.
func (n *TreeNode) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("tree node: %w", err)
	}

	var out TreeNode
	if isPresent(w.Board) {
		var b Board
		if json.Unmarshal(w.Board, &b) == nil {
			out.Board = &b
		}
	}
	if isPresent(w.Move) {
		var m Move
		if json.Unmarshal(w.Move, &m) == nil {
			out.Move = &m
		}
	}
	if isPresent(w.Score) {
		var s float64
		if json.Unmarshal(w.Score, &s) == nil {
			out.Score = &s
		}
	}
	out.IsMaximizing = decodeFlag(w.IsMaximizing)
	out.IsBestMove = decodeFlag(w.IsBestMove)
	out.Pruned = decodeFlag(w.Pruned)

	for _, raw := range w.Children {
		child := &TreeNode{}
		if err := json.Unmarshal(raw, child); err != nil {
			continue
		}
		out.Children = append(out.Children, child)
	}

	*n = out
	return nil
}

func isPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeFlag(raw json.RawMessage) bool {
	var v bool
	if !isPresent(raw) || json.Unmarshal(raw, &v) != nil {
		return false
	}
	return v
}

// Document is a decoded tree payload, either the bare {root} form or the
// search service response that wraps it.
type Document struct {
	Status  string
	Message string
	Stats   *Stats
	Tree    Tree
}

type wireDocument struct {
	Root         json.RawMessage `json:"root"`
	MaxDepth     int             `json:"maxDepth"`
	Status       string          `json:"status"`
	Message      string          `json:"message"`
	Stats        *Stats          `json:"stats"`
	DecisionTree *struct {
		Root     json.RawMessage `json:"root"`
		MaxDepth int             `json:"maxDepth"`
	} `json:"decision_tree"`
	Children json.RawMessage `json:"children"`
	Board    json.RawMessage `json:"board"`
}

// ParseDocument decodes a tree payload. A document that is not a JSON object
// returns ErrUnknownFormat. A missing or malformed root yields a Document
// whose Tree.Root is nil and no error.
func ParseDocument(data []byte) (*Document, error) {
	var w wireDocument
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}

	doc := &Document{Status: w.Status, Message: w.Message, Stats: w.Stats}
	rootRaw := w.Root
	doc.Tree.MaxDepth = w.MaxDepth
	switch {
	case w.DecisionTree != nil:
		rootRaw = w.DecisionTree.Root
		doc.Tree.MaxDepth = w.DecisionTree.MaxDepth
	case !isPresent(rootRaw) && (isPresent(w.Children) || isPresent(w.Board)):
		// A bare node document.
		rootRaw = data
	}

	if isPresent(rootRaw) {
		root := &TreeNode{}
		if err := json.Unmarshal(rootRaw, root); err == nil {
			doc.Tree.Root = root
		}
	}
	return doc, nil
}

// ParseTree decodes a tree payload and returns just the tree.
func ParseTree(data []byte) (Tree, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return Tree{}, err
	}
	return doc.Tree, nil
}

// MarshalJSON encodes the document in the search service response form, so a
// saved document loads back through ParseDocument.
func (d *Document) MarshalJSON() ([]byte, error) {
	type wireTree struct {
		Root     *TreeNode `json:"root"`
		MaxDepth int       `json:"maxDepth,omitempty"`
	}
	status := d.Status
	if status == "" {
		status = "success"
	}
	return json.Marshal(struct {
		Status       string   `json:"status"`
		Message      string   `json:"message,omitempty"`
		Stats        *Stats   `json:"stats,omitempty"`
		DecisionTree wireTree `json:"decision_tree"`
	}{status, d.Message, d.Stats, wireTree{d.Tree.Root, d.Tree.MaxDepth}})
}
