// Package layout positions the nodes of a search tree on the canvas.
//
// The output is a flat, pre-order table of Node entries. Each entry refers to
// its parent by index, and parents always precede their children, so the table
// can be walked, serialized or hit-tested without touching the source tree.
package layout

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"treeviz/core"
	"treeviz/geometry"
)

// Geometry constants, in canvas pixels.
const (
	TopMargin     = 70.0
	LevelSpacing  = 150.0
	WidthFraction = 0.8
	BaseRadius    = 25.0
	BestRadius    = 30.0
)

// Unlimited is the depth cutoff that lays out the whole tree.
const Unlimited = math.MaxInt

// NoParent is the parent index of the root entry.
const NoParent = -1

// ErrInvalidDepth is returned by ParseDepth for values outside 1–4 and "all".
var ErrInvalidDepth = errors.New("invalid depth")

// Node is one positioned tree node.
type Node struct {
	Index       int     `json:"index" toml:"index"`
	ParentIndex int     `json:"parentIndex" toml:"parent_index"`
	X           float64 `json:"x" toml:"x"`
	Y           float64 `json:"y" toml:"y"`
	Radius      float64 `json:"radius" toml:"radius"`
	Depth       int     `json:"depth" toml:"depth"`
	Width       float64 `json:"width" toml:"width"` // horizontal allotment handed to this node's children
	PathIndices []int   `json:"pathIndices" toml:"path_indices"`

	Tree *core.TreeNode `json:"-" toml:"-"`
}

// Center returns the node position as a vector.
func (n Node) Center() geometry.Vec {
	return geometry.Vec{X: n.X, Y: n.Y}
}

// IsRoot reports whether n is the root entry.
func (n Node) IsRoot() bool {
	return n.ParentIndex == NoParent
}

// Band returns the horizontal span [x - W/2, x + W/2] the node owns.
func (n Node) Band() (left, right float64) {
	return n.X - n.Width/2, n.X + n.Width/2
}

// Engine lays out trees with configurable spacing.
type Engine struct {
	TopMargin     float64
	LevelSpacing  float64
	WidthFraction float64
	BaseRadius    float64
	BestRadius    float64
}

// NewEngine creates an Engine with the default spacing.
func NewEngine() *Engine {
	return &Engine{
		TopMargin:     TopMargin,
		LevelSpacing:  LevelSpacing,
		WidthFraction: WidthFraction,
		BaseRadius:    BaseRadius,
		BestRadius:    BestRadius,
	}
}

// Layout positions root and its descendants down to maxDepth using the default engine.
func Layout(root *core.TreeNode, canvasWidth float64, maxDepth int) []Node {
	return NewEngine().Layout(root, canvasWidth, maxDepth)
}

// frame is one pending visit on the traversal stack.
type frame struct {
	tree   *core.TreeNode
	parent int
	depth  int
	x, y   float64
	width  float64
}

// Layout walks the tree depth-first in pre-order and returns one Node per
// visited tree node. Each node's allotment is split into equal bands, one per
// child in child order, regardless of subtree size. A nil root yields an
// empty table.
func (e *Engine) Layout(root *core.TreeNode, canvasWidth float64, maxDepth int) []Node {
	if root == nil {
		return []Node{}
	}
	if !geometry.Finite(canvasWidth) || canvasWidth < 0 {
		canvasWidth = 0
	}
	if maxDepth < 0 {
		maxDepth = 0
	}

	nodes := make([]Node, 0, 16)
	stack := []frame{{
		tree:   root,
		parent: NoParent,
		x:      canvasWidth / 2,
		y:      e.TopMargin,
		width:  canvasWidth * e.WidthFraction,
	}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		idx := len(nodes)
		path := []int{idx}
		if f.parent != NoParent {
			parentPath := nodes[f.parent].PathIndices
			path = make([]int, len(parentPath), len(parentPath)+1)
			copy(path, parentPath)
			path = append(path, idx)
		}

		radius := e.BaseRadius
		if f.tree.IsBestMove {
			radius = e.BestRadius
		}

		nodes = append(nodes, Node{
			Index:       idx,
			ParentIndex: f.parent,
			X:           f.x,
			Y:           f.y,
			Radius:      radius,
			Depth:       f.depth,
			Width:       f.width,
			PathIndices: path,
			Tree:        f.tree,
		})

		children := liveChildren(f.tree)
		if len(children) == 0 || f.depth >= maxDepth {
			continue
		}

		band := f.width / float64(len(children))
		left := f.x - f.width/2
		// Push in reverse so the first child is visited next.
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{
				tree:   children[i],
				parent: idx,
				depth:  f.depth + 1,
				x:      left + band*float64(i) + band/2,
				y:      f.y + e.LevelSpacing,
				width:  band,
			})
		}
	}

	return nodes
}

func liveChildren(n *core.TreeNode) []*core.TreeNode {
	out := n.Children[:0:0]
	for _, c := range n.Children {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Children returns the indices of the direct children of parent, in table order.
func Children(nodes []Node, parent int) []int {
	var out []int
	for i := parent + 1; i < len(nodes); i++ {
		if nodes[i].ParentIndex == parent {
			out = append(out, i)
		}
	}
	return out
}

// ParseDepth converts a depth selector value ("1".."4" or "all") into a
// depth cutoff.
func ParseDepth(s string) (int, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "all" || s == "inf" || s == "∞" {
		return Unlimited, nil
	}
	d, err := strconv.Atoi(s)
	if err != nil || d < 1 || d > 4 {
		return 0, fmt.Errorf("%w: %q (want 1-4 or all)", ErrInvalidDepth, s)
	}
	return d, nil
}

// FormatDepth is the inverse of ParseDepth.
func FormatDepth(d int) string {
	if d == Unlimited {
		return "all"
	}
	return strconv.Itoa(d)
}
