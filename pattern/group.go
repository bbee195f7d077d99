// Package pattern implements the grouping primitives, decode-tree builder,
// flattener, size-tree minimizer, and tree printer described in spec.md §4.
package pattern

import (
	"fmt"

	"github.com/chgroeling/decoder-forge/bitpattern"
)

// Kind categorizes a pattern-package error.
type Kind int

const (
	// KindWidthOverflow marks an input pattern wider than the decoder width.
	KindWidthOverflow Kind = iota
	// KindConflicting marks two patterns that cannot be distinguished or combined.
	KindConflicting
)

// Error is the error type returned by the tree-building operations in this
// package.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// CommonFixedMask computes the bitwise AND of FixedMask across every pattern
// in pats — the bits fixed in every member of the set. Undefined (returns 0)
// for an empty slice, matching the original's reduce-over-empty-list
// behavior of never being called on an empty group.
func CommonFixedMask(pats []bitpattern.Pattern) uint64 {
	if len(pats) == 0 {
		return 0
	}
	mask := ^uint64(0)
	for _, p := range pats {
		mask &= p.FixedMask
	}
	return mask
}

// Item pairs a pattern with an opaque origin identity (typically a UID),
// carried through grouping so callers can recover which input pattern a
// residual came from.
type Item[T any] struct {
	Pat    bitpattern.Pattern
	Origin T
}

// Residual is the part of a pattern left over after splitting by the
// group's shared mask, together with the identity of its source item.
type Residual[T any] struct {
	Outer  bitpattern.Pattern
	Origin T
}

// Group is one bucket of GroupByFixedBits: Inner is the shared-bits
// signature (the part of every member selected by the common mask), and
// Items holds the residual (non-shared) part of every pattern that shares
// it, in first-seen insertion order.
type Group[T any] struct {
	Inner bitpattern.Pattern
	Items []Residual[T]
}

// GroupByFixedBits computes the common fixed mask of items and buckets them
// by the shared-bits signature that mask selects. Bucket order, and item
// order within a bucket, follow first-seen insertion order — this is what
// makes the decode-tree builder deterministic (spec.md §5).
func GroupByFixedBits[T any](items []Item[T]) ([]Group[T], error) {
	pats := make([]bitpattern.Pattern, len(items))
	for i, it := range items {
		pats[i] = it.Pat
	}
	mask := CommonFixedMask(pats)

	var groups []Group[T]
	index := make(map[bitpattern.Pattern]int, len(items))

	for _, it := range items {
		inner, outer, err := it.Pat.SplitByMask(mask)
		if err != nil {
			return nil, newError(KindConflicting, "group_by_fixed_bits: %v", err)
		}

		idx, ok := index[inner]
		if !ok {
			idx = len(groups)
			index[inner] = idx
			groups = append(groups, Group[T]{Inner: inner})
		}
		groups[idx].Items = append(groups[idx].Items, Residual[T]{Outer: outer, Origin: it.Origin})
	}

	return groups, nil
}
