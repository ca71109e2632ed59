// Package core contains the search-tree types shared throughout the treeviz viewer.
package core

import (
	"fmt"
	"strconv"
)

// Cell is the content of one board square.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

// String returns "X", "O" or "" for an empty square.
func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// BoardSize is the side length of the tic-tac-toe board.
const BoardSize = 3

// Board is a 3×3 grid indexed [row][col].
type Board [BoardSize][BoardSize]Cell

// Count returns how many squares hold the given cell value.
func (b *Board) Count(c Cell) int {
	n := 0
	for _, row := range b {
		for _, v := range row {
			if v == c {
				n++
			}
		}
	}
	return n
}

// Move is the (row, col) square played to reach a position.
type Move struct {
	Row int
	Col int
}

// String formats the move as "(row,col)".
func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}

// TreeNode is one position in the search tree as delivered by the search service.
// The viewer treats it as read-only.
type TreeNode struct {
	Board        *Board      `json:"board"` // nil when the payload omits it
	Move         *Move       `json:"move"`  // nil for the root
	Score        *float64    `json:"score"` // nil when the node was not evaluated
	IsMaximizing bool        `json:"isMaximizing"`
	IsBestMove   bool        `json:"isBestMove"`
	Pruned       bool        `json:"pruned"`
	Children     []*TreeNode `json:"children,omitempty"` // move-generation order
}

// HasScore reports whether the search produced a score for this node.
func (n *TreeNode) HasScore() bool {
	return n != nil && n.Score != nil
}

// ScoreText formats the score for display. An absent score is "unknown", never zero.
func (n *TreeNode) ScoreText() string {
	if !n.HasScore() {
		return "unknown"
	}
	return strconv.FormatFloat(*n.Score, 'f', -1, 64)
}

// ScoreSign returns 1, -1 or 0 for positive, negative and zero scores.
// Unknown scores report 0.
func (n *TreeNode) ScoreSign() int {
	if !n.HasScore() {
		return 0
	}
	switch s := *n.Score; {
	case s > 0:
		return 1
	case s < 0:
		return -1
	default:
		return 0
	}
}

// Role names the player whose perspective the node is evaluated from.
func (n *TreeNode) Role() string {
	if n.IsMaximizing {
		return "Maximizing (X)"
	}
	return "Minimizing (O)"
}

// MoveText returns the move label, or "Root" for the starting position.
func (n *TreeNode) MoveText() string {
	if n.Move == nil {
		return "Root"
	}
	return n.Move.String()
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *TreeNode) Count() int {
	if n == nil {
		return 0
	}
	total := 0
	stack := []*TreeNode{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == nil {
			continue
		}
		total++
		stack = append(stack, cur.Children...)
	}
	return total
}

// Tree is one search snapshot: the root position plus the depth the search reached.
type Tree struct {
	Root     *TreeNode `json:"root"`
	MaxDepth int       `json:"maxDepth,omitempty"`
}

// Stats are the search-engine counters reported alongside a tree.
type Stats struct {
	NodesExplored  int     `json:"nodes_explored" toml:"nodes_explored"`
	DecisionTimeMS float64 `json:"decision_time_ms" toml:"decision_time_ms"`
}
