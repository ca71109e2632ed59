package layout

import (
	"fmt"
	"math"
	"testing"
	"time"

	"treeviz/core"
)

const epsilon = 1e-9

// TestValidator provides structural validation for layout tests.
type TestValidator struct {
	t *testing.T
}

// NewTestValidator creates a validator for the given test.
func NewTestValidator(t *testing.T) *TestValidator {
	return &TestValidator{t: t}
}

// ValidateTable checks the table invariants: exactly one root at index 0,
// parents precede children, indices match positions and every path ends at
// its own node.
func (v *TestValidator) ValidateTable(nodes []Node) {
	v.t.Helper()
	roots := 0
	for i, n := range nodes {
		if n.Index != i {
			v.t.Errorf("node %d has Index %d", i, n.Index)
		}
		if n.IsRoot() {
			roots++
			continue
		}
		if n.ParentIndex < 0 || n.ParentIndex >= i {
			v.t.Errorf("node %d parent %d does not precede it", i, n.ParentIndex)
			continue
		}
		if n.Depth != nodes[n.ParentIndex].Depth+1 {
			v.t.Errorf("node %d depth %d, parent depth %d", i, n.Depth, nodes[n.ParentIndex].Depth)
		}
		if len(n.PathIndices) == 0 || n.PathIndices[len(n.PathIndices)-1] != i {
			v.t.Errorf("node %d path %v does not end at itself", i, n.PathIndices)
		}
	}
	if len(nodes) > 0 && roots != 1 {
		v.t.Errorf("expected exactly one root, got %d", roots)
	}
}

// ValidateWidthConservation checks that every parent's allotment is split
// into equal, contiguous bands with each child centered in its own band.
func (v *TestValidator) ValidateWidthConservation(nodes []Node) {
	v.t.Helper()
	for i, parent := range nodes {
		kids := Children(nodes, i)
		if len(kids) == 0 {
			continue
		}
		sum := 0.0
		left := parent.X - parent.Width/2
		band := parent.Width / float64(len(kids))
		for k, idx := range kids {
			child := nodes[idx]
			sum += child.Width
			wantLeft := left + float64(k)*band
			gotLeft, gotRight := child.Band()
			if math.Abs(gotLeft-wantLeft) > epsilon || math.Abs(gotRight-(wantLeft+band)) > epsilon {
				v.t.Errorf("node %d band [%.3f, %.3f], want [%.3f, %.3f]",
					idx, gotLeft, gotRight, wantLeft, wantLeft+band)
			}
		}
		if math.Abs(sum-parent.Width) > epsilon {
			v.t.Errorf("children of node %d sum to width %.3f, want %.3f", i, sum, parent.Width)
		}
	}
}

// ValidateDepthLimit ensures no node is deeper than maxDepth.
func (v *TestValidator) ValidateDepthLimit(nodes []Node, maxDepth int) {
	v.t.Helper()
	for _, n := range nodes {
		if n.Depth > maxDepth {
			v.t.Errorf("node %d at depth %d exceeds limit %d", n.Index, n.Depth, maxDepth)
		}
	}
}

// ValidateDeterminism ensures layout is identical across runs.
func (v *TestValidator) ValidateDeterminism(root *core.TreeNode, width float64, maxDepth, runs int) {
	v.t.Helper()
	first := Layout(root, width, maxDepth)
	for i := 1; i < runs; i++ {
		result := Layout(root, width, maxDepth)
		if !layoutsEqual(first, result) {
			v.t.Errorf("layout not deterministic: run %d differs from run 0", i)
		}
	}
}

// ValidatePerformance ensures layout completes within time limit.
func (v *TestValidator) ValidatePerformance(root *core.TreeNode, width float64, maxDuration time.Duration) {
	v.t.Helper()
	start := time.Now()
	Layout(root, width, Unlimited)
	if d := time.Since(start); d > maxDuration {
		v.t.Errorf("layout too slow: %v > %v", d, maxDuration)
	}
}

func layoutsEqual(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].X != b[i].X || a[i].Y != b[i].Y || a[i].ParentIndex != b[i].ParentIndex || a[i].Tree != b[i].Tree {
			return false
		}
	}
	return true
}

// GenerateChain creates a tree that is a single line of the given length.
func GenerateChain(length int) *core.TreeNode {
	if length <= 0 {
		return nil
	}
	root := &core.TreeNode{IsMaximizing: true}
	cur := root
	for i := 1; i < length; i++ {
		next := &core.TreeNode{
			Move:         &core.Move{Row: i % 3, Col: (i / 3) % 3},
			IsMaximizing: i%2 == 0,
			IsBestMove:   true,
		}
		cur.Children = []*core.TreeNode{next}
		cur = next
	}
	return root
}

// GenerateTree creates a complete tree with the given depth and branching
// factor. The first child of every node is flagged as the best move.
func GenerateTree(depth, branchingFactor int) *core.TreeNode {
	var build func(level int, maximizing bool) *core.TreeNode
	build = func(level int, maximizing bool) *core.TreeNode {
		n := &core.TreeNode{IsMaximizing: maximizing, Board: &core.Board{}}
		if level >= depth {
			return n
		}
		for i := 0; i < branchingFactor; i++ {
			score := float64(i - branchingFactor/2)
			child := build(level+1, !maximizing)
			child.Move = &core.Move{Row: i / 3, Col: i % 3}
			child.Score = &score
			child.IsBestMove = i == 0
			n.Children = append(n.Children, child)
		}
		return n
	}
	return build(0, true)
}

// describe renders a compact table for failure messages.
func describe(nodes []Node) string {
	s := ""
	for _, n := range nodes {
		s += fmt.Sprintf("#%d p=%d d=%d (%.1f, %.1f) w=%.1f\n", n.Index, n.ParentIndex, n.Depth, n.X, n.Y, n.Width)
	}
	return s
}
