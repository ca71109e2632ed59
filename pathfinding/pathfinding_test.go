package pathfinding

import (
	"testing"

	"github.com/stretchr/testify/require"

	"treeviz/core"
	"treeviz/layout"
)

func node(best bool, children ...*core.TreeNode) *core.TreeNode {
	return &core.TreeNode{IsBestMove: best, Children: children}
}

func TestBestLine(t *testing.T) {
	tests := []struct {
		name string
		root *core.TreeNode
		want []int
	}{
		{
			name: "empty",
			root: nil,
			want: []int{},
		},
		{
			name: "root only",
			root: node(false),
			want: []int{0},
		},
		{
			name: "first child best",
			root: node(false, node(true), node(false)),
			want: []int{0, 1},
		},
		{
			// Pre-order: 0 root, 1 a, 2 a.x, 3 a.y, 4 b, 5 b.x, 6 b.y
			name: "second branch then its second child",
			root: node(false,
				node(false, node(true), node(false)),
				node(true, node(false), node(true)),
			),
			want: []int{0, 4, 6},
		},
		{
			name: "duplicate flags take the first in table order",
			root: node(false, node(false), node(true), node(true)),
			want: []int{0, 2},
		},
		{
			name: "no best child stops at the root",
			root: node(false, node(false), node(false)),
			want: []int{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := layout.Layout(tt.root, 1000, layout.Unlimited)
			got := BestLine(nodes)
			require.Equal(t, tt.want, got)

			for k := 1; k < len(got); k++ {
				if nodes[got[k]].Depth != nodes[got[k-1]].Depth+1 {
					t.Errorf("line %v does not increase depth one step at a time", got)
				}
			}
			if len(got) > 0 {
				end := got[len(got)-1]
				for _, c := range layout.Children(nodes, end) {
					if nodes[c].Tree.IsBestMove {
						t.Errorf("line ends at %d but child %d is flagged best", end, c)
					}
				}
			}
		})
	}
}

func TestBestLineRespectsDepthCutoff(t *testing.T) {
	root := node(false, node(true, node(true, node(true))))
	require.Equal(t, []int{0, 1}, BestLine(layout.Layout(root, 1000, 1)))
	require.Equal(t, []int{0, 1, 2, 3}, BestLine(layout.Layout(root, 1000, layout.Unlimited)))
}

func TestPathTo(t *testing.T) {
	root := node(false, node(false, node(false)), node(true))
	nodes := layout.Layout(root, 1000, layout.Unlimited)

	require.Equal(t, []int{0, 1, 2}, PathTo(nodes, 2))
	require.Equal(t, []int{0, 3}, PathTo(nodes, 3))
	require.Nil(t, PathTo(nodes, -1))
	require.Nil(t, PathTo(nodes, len(nodes)))
}

func TestSet(t *testing.T) {
	s := NewSet([]int{0, 3, 7})
	require.True(t, s.Contains(3))
	require.False(t, s.Contains(4))
	require.True(t, s.ContainsEdge(3, 7))
	require.False(t, s.ContainsEdge(3, 4))
	require.Equal(t, 3, s.Len())

	var empty Set
	require.False(t, empty.Contains(0))
}

func TestSteps(t *testing.T) {
	root := node(false, node(true))
	nodes := layout.Layout(root, 1000, layout.Unlimited)

	steps := Steps(nodes, []int{0, 1, 9})
	require.Len(t, steps, 2)
	require.Same(t, root.Children[0], steps[1].Node)
	require.Equal(t, 1, steps[1].Depth)
	require.True(t, Equal([]int{1, 2}, []int{1, 2}))
	require.False(t, Equal([]int{1}, []int{1, 2}))
}
