package pattern

import (
	"sort"

	"github.com/chgroeling/decoder-forge/bitpattern"
)

// UID is an opaque pattern-identity token: an index into an arena the
// caller owns, never a pointer. Branches carry no UID.
type UID int

// NoUID is the UID value carried by flattened branch records, which have
// no associated pattern identity of their own.
const NoUID UID = -1

// DecodeNode is the sum type of a decode tree: either a Leaf (a fully
// resolved pattern mapped to one UID) or a Branch (a disambiguation point
// with children). The isDecodeNode method is unexported so no other
// package can add third variants.
type DecodeNode interface {
	isDecodeNode()
}

// Leaf is a terminal decode-tree node: one fully specified pattern mapped
// to the identity of the input it came from.
type Leaf struct {
	Pat bitpattern.Pattern
	UID UID
}

func (*Leaf) isDecodeNode() {}

// Branch is an internal decode-tree node. Pat is nil only at the tree
// root, which carries no pattern of its own — every other branch's Pat is
// the shared-bits signature that distinguishes its children from their
// siblings.
type Branch struct {
	Pat      *bitpattern.Pattern
	Children []DecodeNode
}

func (*Branch) isDecodeNode() {}

// Entry is one input to BuildDecodeTree: a pattern paired with the UID of
// the operation it decodes to.
type Entry struct {
	Pat bitpattern.Pattern
	UID UID
}

// BuildDecodeTree builds a decode tree over entries, a flat list of
// (pattern, uid) pairs, widening every pattern to decoderWidth bits first.
// Construction is iterative, as in the original Python: an explicit
// worklist of branches-to-expand rather than recursion.
//
// Fails with KindWidthOverflow if any entry's pattern is wider than
// decoderWidth, and with KindConflicting if recombining a group's shared
// bits with a single residual fails. Entries whose patterns differ on a
// bit become separate leaves or branches, and identical patterns become
// sibling leaves (see AmbiguousSiblings); neither is an error.
func BuildDecodeTree(entries []Entry, decoderWidth int) (*Branch, error) {
	root := &Branch{Pat: nil}
	root.Children = make([]DecodeNode, 0, len(entries))

	for _, e := range entries {
		if e.Pat.BitLength > decoderWidth {
			return nil, newError(KindWidthOverflow, "pattern %s is %d bits, wider than decoder_width %d", e.Pat, e.Pat.BitLength, decoderWidth)
		}
		ext, err := e.Pat.ExtendAndShiftToMSB(decoderWidth)
		if err != nil {
			return nil, newError(KindWidthOverflow, "extending %s to %d bits: %v", e.Pat, decoderWidth, err)
		}
		root.Children = append(root.Children, &Leaf{Pat: ext, UID: e.UID})
	}

	stack := []*Branch{root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(cur.Children) == 0 {
			continue
		}

		items := make([]Item[UID], len(cur.Children))
		for i, c := range cur.Children {
			leaf := c.(*Leaf)
			items[i] = Item[UID]{Pat: leaf.Pat, Origin: leaf.UID}
		}

		groups, err := GroupByFixedBits(items)
		if err != nil {
			return nil, err
		}

		cur.Children = cur.Children[:0]
		for _, g := range groups {
			switch {
			case len(g.Items) == 1:
				combined, err := g.Inner.Combine(g.Items[0].Outer)
				if err != nil {
					return nil, newError(KindConflicting, "%v", err)
				}
				cur.Children = append(cur.Children, &Leaf{Pat: combined, UID: g.Items[0].Origin})

			case g.Inner.FixedMask == 0:
				// Catch-all group: nothing left to disambiguate on, so every
				// residual becomes a sibling leaf instead of a new branch.
				// This is also where genuinely ambiguous siblings (identical
				// patterns mapped to different operations) surface, since
				// they collapse here with no shared bits left to split on.
				for _, r := range g.Items {
					cur.Children = append(cur.Children, &Leaf{Pat: r.Outer, UID: r.Origin})
				}

			default:
				inner := g.Inner
				branch := &Branch{Pat: &inner}
				branch.Children = make([]DecodeNode, len(g.Items))
				for i, r := range g.Items {
					branch.Children[i] = &Leaf{Pat: r.Outer, UID: r.Origin}
				}
				cur.Children = append(cur.Children, branch)
				stack = append(stack, branch)
			}
		}

		sortBySpecificity(cur.Children)
	}

	return root, nil
}

// pattern returns the node's pattern, used only for sorting; the root
// branch (Pat == nil) never appears in a sibling list so this never sees it.
func pattern(n DecodeNode) bitpattern.Pattern {
	switch v := n.(type) {
	case *Leaf:
		return v.Pat
	case *Branch:
		return *v.Pat
	}
	panic("pattern: unreachable decode node variant")
}

// sortBySpecificity orders siblings by descending pattern specificity,
// most-specific first, with ties broken by original (insertion) order —
// Go's sort.SliceStable preserves this automatically.
func sortBySpecificity(children []DecodeNode) {
	sort.SliceStable(children, func(i, j int) bool {
		return pattern(children[i]).Specificity() > pattern(children[j]).Specificity()
	})
}

// AmbiguousSiblings reports every set of sibling leaves in root that share
// an identical pattern after tree construction — the caller's cue to
// surface a non-fatal warning rather than fail generation outright (see
// forge.Context.Warnings).
func AmbiguousSiblings(root *Branch) [][]UID {
	var out [][]UID
	var walk func(b *Branch)
	walk = func(b *Branch) {
		byPat := map[bitpattern.Pattern][]UID{}
		var order []bitpattern.Pattern
		for _, c := range b.Children {
			if leaf, ok := c.(*Leaf); ok {
				if _, seen := byPat[leaf.Pat]; !seen {
					order = append(order, leaf.Pat)
				}
				byPat[leaf.Pat] = append(byPat[leaf.Pat], leaf.UID)
			}
			if sub, ok := c.(*Branch); ok {
				walk(sub)
			}
		}
		for _, p := range order {
			if uids := byPat[p]; len(uids) > 1 {
				out = append(out, uids)
			}
		}
	}
	walk(root)
	return out
}
