// Package assoc maps each input bit pattern to the structured record and
// operation sequence the generated decoder should produce for it, per
// spec.md §3's "Associated Repositories".
package assoc

import (
	"fmt"
	"sort"

	"github.com/chgroeling/decoder-forge/bitpattern"
)

// Kind categorizes an assoc-package error.
type Kind int

const (
	// KindReservedName marks a struct_def entry named Undef.
	KindReservedName Kind = iota
)

// Error is the error type returned by Build functions in this package.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// UndefName is the struct name reserved for patterns that don't name a
// target struct. It always exists in a StructRepo's Structs list, with a
// single member "code".
const UndefName = "Undef"

// StructDef is a named record type: a structure with an ordered list of
// member field names.
type StructDef struct {
	Name    string
	Members []string
}

// PatternData is the per-pattern metadata a yamlspec document attaches to
// each pattern string: which struct it decodes into and which operations
// run to populate it.
type PatternData struct {
	To  string   // struct name; empty means UndefName
	Ops []string // ops names, in order; empty means no operations
}

// StructRepo maps every input pattern to the StructDef it decodes into.
type StructRepo struct {
	Structs     []StructDef
	PatToStruct map[bitpattern.Pattern]StructDef
}

// BuildStructRepo builds a StructRepo from a name-to-definition map and a
// pattern-to-metadata map, adding the reserved Undef struct automatically.
// Fails with KindReservedName if structDefs already defines "Undef".
func BuildStructRepo(structDefs map[string]StructDef, patData map[bitpattern.Pattern]PatternData) (*StructRepo, error) {
	if _, exists := structDefs["Undef"]; exists {
		return nil, newError(KindReservedName, "struct name %q is reserved for internal use", UndefName)
	}

	named := make(map[string]StructDef, len(structDefs)+1)
	for name, def := range structDefs {
		def.Name = name
		named[name] = def
	}
	named[UndefName] = StructDef{Name: UndefName, Members: []string{"code"}}

	patToStruct := make(map[bitpattern.Pattern]StructDef, len(patData))
	for pat, data := range patData {
		target := data.To
		if target == "" {
			target = UndefName
		}
		def, ok := named[target]
		if !ok {
			return nil, fmt.Errorf("pattern %s refers to undefined struct %q", pat, target)
		}
		patToStruct[pat] = def
	}

	structs := make([]StructDef, 0, len(named))
	for _, name := range sortedKeys(named) {
		structs = append(structs, named[name])
	}

	return &StructRepo{Structs: structs, PatToStruct: patToStruct}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// OpsDef is a named operation: a destination field, an operator tag
// (resolved against the transpiler's dispatch table), and its arguments
// (constants or transpiler placeholder names).
type OpsDef struct {
	Name string
	Dest string
	Op   string
	Args []string
}

// OpsRepo maps every input pattern to the ordered list of operations that
// populate its decoded record.
type OpsRepo struct {
	Ops      []OpsDef
	PatToOps map[bitpattern.Pattern][]OpsDef
}

// BuildOpsRepo builds an OpsRepo from a name-to-definition map and a
// pattern-to-metadata map. Patterns with no Ops entry get an empty slice,
// not an error.
func BuildOpsRepo(opsDefs map[string]OpsDef, patData map[bitpattern.Pattern]PatternData) (*OpsRepo, error) {
	named := make(map[string]OpsDef, len(opsDefs))
	for name, def := range opsDefs {
		def.Name = name
		named[name] = def
	}

	patToOps := make(map[bitpattern.Pattern][]OpsDef, len(patData))
	for pat, data := range patData {
		ops := make([]OpsDef, 0, len(data.Ops))
		for _, name := range data.Ops {
			def, ok := named[name]
			if !ok {
				return nil, fmt.Errorf("pattern %s refers to undefined operation %q", pat, name)
			}
			ops = append(ops, def)
		}
		patToOps[pat] = ops
	}

	all := make([]OpsDef, 0, len(named))
	for _, name := range sortedKeys(named) {
		all = append(all, named[name])
	}

	return &OpsRepo{Ops: all, PatToOps: patToOps}, nil
}
