// Package pathfinding resolves highlighted root-to-node lines over a layout table.
package pathfinding

import (
	"slices"

	"treeviz/core"
	"treeviz/layout"
)

// BestLine follows isBestMove children from the root entry and returns the
// visited indices, root first. When a sibling group flags more than one best
// move, the first in table order wins. An empty table yields an empty line.
func BestLine(nodes []layout.Node) []int {
	root := -1
	for i := range nodes {
		if nodes[i].IsRoot() {
			root = i
			break
		}
	}
	if root < 0 {
		return []int{}
	}

	line := []int{root}
	current := root
	for {
		next := -1
		// Children always follow their parent in the table.
		for i := current + 1; i < len(nodes); i++ {
			n := nodes[i]
			if n.ParentIndex == current && n.Tree != nil && n.Tree.IsBestMove {
				next = i
				break
			}
		}
		if next < 0 {
			return line
		}
		line = append(line, next)
		current = next
	}
}

// PathTo returns the stored root-to-target path. It returns nil when target
// is outside the table. The result shares storage with the table and must not
// be modified.
func PathTo(nodes []layout.Node, target int) []int {
	if target < 0 || target >= len(nodes) {
		return nil
	}
	return nodes[target].PathIndices
}

// Set answers "is this index on the path" in constant time.
type Set struct {
	members map[int]struct{}
}

// NewSet builds a Set from a path.
func NewSet(path []int) Set {
	m := make(map[int]struct{}, len(path))
	for _, i := range path {
		m[i] = struct{}{}
	}
	return Set{members: m}
}

// Contains reports whether index i is on the path.
func (s Set) Contains(i int) bool {
	_, ok := s.members[i]
	return ok
}

// ContainsEdge reports whether the parent→child connection lies on the path.
func (s Set) ContainsEdge(parent, child int) bool {
	return s.Contains(parent) && s.Contains(child)
}

// Len returns the number of indices on the path.
func (s Set) Len() int {
	return len(s.members)
}

// Step is one position along a resolved path.
type Step struct {
	Index int
	Depth int
	Node  *core.TreeNode
}

// Steps expands a path into its tree nodes, skipping indices outside the table.
func Steps(nodes []layout.Node, path []int) []Step {
	out := make([]Step, 0, len(path))
	for _, i := range path {
		if i < 0 || i >= len(nodes) {
			continue
		}
		out = append(out, Step{Index: i, Depth: nodes[i].Depth, Node: nodes[i].Tree})
	}
	return out
}

// Equal reports whether two paths visit the same indices in the same order.
func Equal(a, b []int) bool {
	return slices.Equal(a, b)
}
