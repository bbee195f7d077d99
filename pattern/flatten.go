package pattern

import "github.com/chgroeling/decoder-forge/bitpattern"

// FlatRecord is one row of a flattened decode tree: a pre-order,
// depth-first walk that keeps enough sibling-position information to
// reconstruct indentation and box-drawing connectors without revisiting
// the tree.
type FlatRecord struct {
	Pat          bitpattern.Pattern
	UID          UID // NoUID for branch rows
	HasUID       bool
	Depth        int
	IsFirstChild bool
	IsLastChild  bool
}

type flattenFrame struct {
	node  DecodeNode
	depth int
	first bool
	last  bool
}

// Flatten walks root depth-first, pre-order, and returns one FlatRecord
// per node (the root itself is not recorded — only its children and
// below). Child order is preserved; iteration uses an explicit stack
// rather than recursion, pushing children in reverse so they pop in their
// original left-to-right order.
func Flatten(root *Branch) []FlatRecord {
	var out []FlatRecord

	stack := pushChildren(nil, root.Children, 0)
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch n := f.node.(type) {
		case *Leaf:
			out = append(out, FlatRecord{
				Pat: n.Pat, UID: n.UID, HasUID: true,
				Depth: f.depth, IsFirstChild: f.first, IsLastChild: f.last,
			})
		case *Branch:
			out = append(out, FlatRecord{
				Pat: *n.Pat, UID: NoUID, HasUID: false,
				Depth: f.depth, IsFirstChild: f.first, IsLastChild: f.last,
			})
			stack = pushChildren(stack, n.Children, f.depth+1)
		}
	}

	return out
}

func pushChildren(stack []flattenFrame, children []DecodeNode, depth int) []flattenFrame {
	n := len(children)
	for i := n - 1; i >= 0; i-- {
		stack = append(stack, flattenFrame{
			node: children[i], depth: depth,
			first: i == 0, last: i == n-1,
		})
	}
	return stack
}
