// Package forge is decoder-forge's driver: it takes a plain-Go input value
// (pattern set, associated structs/operations, user-defined functions, and
// a free-form context payload), builds the decode tree and its associated
// repositories, and assembles the Context an emitter renders from.
//
// forge never parses YAML (that is yamlspec's job, a layer above) and never
// knows about TOML config (a layer above main wires config values into the
// parameters Build takes). It only knows bitpattern, pattern, assoc and
// transpile.
package forge

import (
	"fmt"
	"sort"

	"github.com/chgroeling/decoder-forge/assoc"
	"github.com/chgroeling/decoder-forge/bitpattern"
	"github.com/chgroeling/decoder-forge/pattern"
	"github.com/chgroeling/decoder-forge/transpile"
	"github.com/davecgh/go-spew/spew"
)

// Kind categorizes a forge-package error.
type Kind int

const (
	// KindMalformedPattern marks an input pattern string that failed to parse.
	KindMalformedPattern Kind = iota
)

// Error is the error type returned by Driver.Build.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// PatternEntry is one input pattern and the metadata attached to it: which
// struct it decodes into and which named operations populate that struct,
// in the order declared.
type PatternEntry struct {
	Pattern string
	To      string
	Ops     []string
	// Name is an optional human label for tree printing, taking priority
	// over the struct name when Context.Label resolves a UID.
	Name string
}

// Input is the plain-Go value a Driver builds from — the logical schema of
// spec.md §6, already reshaped out of whatever ingestion format produced it
// (yamlspec, in this repository). Patterns is a slice rather than a map so
// pattern order — and therefore UID assignment order — is caller-controlled
// and deterministic, matching the original's dict-insertion-order semantics.
type Input struct {
	Patterns   []PatternEntry
	StructDef  map[string]assoc.StructDef
	Operations map[string]assoc.OpsDef
	Deffun     map[string]*transpile.Node
	Context    map[string]any
}

// Printer is the narrow collaborator a generated artifact is written
// through, one line at a time — the same single-method shape as
// pattern.Printer, so a caller can satisfy both with one stdout adapter.
type Printer interface {
	Print(string)
}

// Context is everything an emitter needs to render a decoder: the pattern
// repository, the associated struct/ops repositories, the decode tree and
// its flattened form, the size tree (if one is needed), the transpiler
// wired to the input's user-defined functions, and the free-form context
// payload passed through unchanged from Input.
type Context struct {
	PatRepo      map[bitpattern.Pattern]PatternEntry
	StructRepo   *assoc.StructRepo
	OpsRepo      *assoc.OpsRepo
	UserContext  map[string]any
	Transpiler   *transpile.Transpiler
	DecodeTree   *pattern.Branch
	FlatDecodeTree []pattern.FlatRecord

	// HasSizeTree is false when every input pattern has the same bit
	// length, per spec.md's testable property 7 — no size tree is needed
	// to disambiguate instruction widths that never vary.
	HasSizeTree    bool
	SizeTree       *pattern.Branch
	FlatSizeTree   []pattern.FlatRecord
	SizeProbeBits  int

	UIDToPattern map[pattern.UID]bitpattern.Pattern
	BitMask      func(width int) uint64

	// Warnings holds one message per group of sibling leaves that share an
	// identical pattern after tree construction (pattern.AmbiguousSiblings)
	// — non-fatal, surfaced for a caller to log or reject on.
	Warnings []string
}

// Label resolves uid to a human-readable string for the tree printer: the
// pattern's declared Name if one was given, else the struct it decodes
// into, else its raw pattern string.
func (c *Context) Label(uid pattern.UID) string {
	pat, ok := c.UIDToPattern[uid]
	if !ok {
		return fmt.Sprintf("uid(%d)", uid)
	}
	if entry, ok := c.PatRepo[pat]; ok && entry.Name != "" {
		return entry.Name
	}
	if c.StructRepo != nil {
		if def, ok := c.StructRepo.PatToStruct[pat]; ok {
			return def.Name
		}
	}
	return pat.String()
}

// Driver builds a Context from an Input. Visitor selects the transpiler's
// target language (GoVisitor or PythonVisitor).
type Driver struct {
	Visitor transpile.Visitor
}

// NewDriver builds a Driver targeting visitor.
func NewDriver(visitor transpile.Visitor) *Driver {
	return &Driver{Visitor: visitor}
}

// Build assembles a Context from input. decoderWidth is the width every
// pattern is extended to before decode-tree construction, per spec.md §6.
func (d *Driver) Build(input Input, decoderWidth int) (*Context, error) {
	entries := make([]pattern.Entry, 0, len(input.Patterns))
	patRepo := make(map[bitpattern.Pattern]PatternEntry, len(input.Patterns))
	uidToPattern := make(map[pattern.UID]bitpattern.Pattern, len(input.Patterns))
	origLength := make(map[pattern.UID]int, len(input.Patterns))
	patData := make(map[bitpattern.Pattern]assoc.PatternData, len(input.Patterns))

	narrowest := -1
	for i, pe := range input.Patterns {
		p, err := bitpattern.Parse(pe.Pattern)
		if err != nil {
			return nil, newError(KindMalformedPattern, "pattern %d (%q): %v", i, pe.Pattern, err)
		}

		uid := pattern.UID(i)
		entries = append(entries, pattern.Entry{Pat: p, UID: uid})
		patRepo[p] = pe
		uidToPattern[uid] = p
		origLength[uid] = p.BitLength
		patData[p] = assoc.PatternData{To: pe.To, Ops: pe.Ops}

		if narrowest < 0 || p.BitLength < narrowest {
			narrowest = p.BitLength
		}
	}

	structRepo, err := assoc.BuildStructRepo(input.StructDef, patData)
	if err != nil {
		return nil, err
	}
	opsRepo, err := assoc.BuildOpsRepo(input.Operations, patData)
	if err != nil {
		return nil, err
	}

	decodeTree, err := pattern.BuildDecodeTree(entries, decoderWidth)
	if err != nil {
		return nil, err
	}
	flatDecodeTree := pattern.Flatten(decodeTree)

	sizeTree, hasSizeTree := pattern.BuildSizeTree(decodeTree, origLength)

	var flatSizeTree []pattern.FlatRecord
	sizeProbeBits := 0
	if hasSizeTree {
		flatSizeTree = pattern.Flatten(sizeTree)
		sizeProbeBits, err = pattern.ComputeSizeProbeBits(flatSizeTree, decoderWidth, narrowest)
		if err != nil {
			return nil, err
		}
	}

	tr := transpile.New(d.Visitor, input.Deffun)

	warnings := ambiguousWarnings(decodeTree, uidToPattern)

	return &Context{
		PatRepo:        patRepo,
		StructRepo:     structRepo,
		OpsRepo:        opsRepo,
		UserContext:    input.Context,
		Transpiler:     tr,
		DecodeTree:     decodeTree,
		FlatDecodeTree: flatDecodeTree,
		HasSizeTree:    hasSizeTree,
		SizeTree:       sizeTree,
		FlatSizeTree:   flatSizeTree,
		SizeProbeBits:  sizeProbeBits,
		UIDToPattern:   uidToPattern,
		BitMask:        bitpattern.Mask,
		Warnings:       warnings,
	}, nil
}

func ambiguousWarnings(root *pattern.Branch, uidToPattern map[pattern.UID]bitpattern.Pattern) []string {
	groups := pattern.AmbiguousSiblings(root)
	warnings := make([]string, 0, len(groups))
	for _, uids := range groups {
		sorted := append([]pattern.UID(nil), uids...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		pat := uidToPattern[sorted[0]]
		warnings = append(warnings, fmt.Sprintf("ambiguous pattern %s shared by uids %v", pat, sorted))
	}
	return warnings
}

// DumpContext renders ctx for diagnostics via go-spew, the same facility
// the teacher's metadata tooling uses to dump a fully-assembled model at
// the end of a generator pipeline.
func DumpContext(ctx *Context) string {
	return spew.Sdump(ctx)
}
