// Package flattree converts a solved pegging.PlayState tree into a dense,
// cache-friendly breadth-first array of fixed-arity packed nodes.
//
// A pegging tree's branching factor is naturally bounded (at most four
// distinct ranks remain in a four-card hand), so rather than the teacher's
// pointer-linked TreeNode with a map[string]*TreeNode of children
// (pkg/tree/node.go, sized for poker's much larger action-dependent
// branching), a solved node becomes one fixed-size Node whose plays and
// child values live in [4]int8 arrays.
package flattree

import (
	"github.com/cribcfr/cribcfr/pkg/pegging"
)

// Node is one packed, breadth-first game-tree node.
type Node struct {
	N int8 // number of children, 0..4

	// Plays holds the rank laid (0 for Go) to reach each child, padded
	// with 0 beyond N.
	Plays [4]int8

	// ChildValues holds each child's minimax value, padded with 0
	// beyond N. Always populated, independent of IsLeaf.
	ChildValues [4]int8

	// FirstChild is the index in Tree.Nodes where this node's children
	// occupy the contiguous range [FirstChild, FirstChild+N). Unused
	// (and left 0) when IsLeaf is true.
	FirstChild int16

	// IsLeaf is set when this node's children have no children of
	// their own: their embedded values are everything a reader needs,
	// so no further nodes are materialized for them and FirstChild is
	// never consulted.
	IsLeaf bool
}

// Tree is a flattened pegging game tree, rooted at Nodes[0].
type Tree struct {
	Nodes []Node

	// Root is the root node's owner (always pegging.Pone: the pone
	// leads). Every other node's owner is derivable from its BFS depth
	// parity relative to Root, so it is not stored per node.
	Root pegging.Owner

	// RootValue is the root's own minimax value, which — unlike every
	// other node's value — is never embedded as someone else's child
	// value, so it must be carried separately.
	RootValue int8
}

// Flatten performs a breadth-first traversal of a solved pegging tree and
// packs it into a Tree.
func Flatten(root *pegging.PlayState) *Tree {
	t := &Tree{Root: root.Owner, RootValue: int8(root.Value)}

	queue := []*pegging.PlayState{root}
	nextIndex := 1

	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]

		var node Node
		node.N = int8(len(s.Children))

		isLeaf := true
		for _, c := range s.Children {
			if len(c.Children) > 0 {
				isLeaf = false
				break
			}
		}
		node.IsLeaf = isLeaf

		for i, c := range s.Children {
			node.Plays[i] = int8(c.Play)
			node.ChildValues[i] = int8(c.Value)
		}

		if !isLeaf {
			node.FirstChild = int16(nextIndex)
			queue = append(queue, s.Children...)
			nextIndex += len(s.Children)
		}

		t.Nodes = append(t.Nodes, node)
	}

	return t
}

// ValueAt walks the flat tree from the root by following play indices and
// returns the value found, for round-trip verification against the
// recursive tree's own Value field.
func (t *Tree) ValueAt(path []int) int8 {
	if len(path) == 0 {
		return t.RootValue
	}
	idx := 0
	for depth, childIdx := range path {
		n := t.Nodes[idx]
		if depth == len(path)-1 {
			return n.ChildValues[childIdx]
		}
		idx = int(n.FirstChild) + childIdx
	}
	return t.RootValue
}
