// Package yamlspec ingests the YAML-based input format described in
// spec.md §6 (patterns, struct_def, operations, deffun, context) and
// converts it into forge.Input. This is the only package in the module
// that imports gopkg.in/yaml.v3 — the core packages (bitpattern, pattern,
// assoc, transpile, forge) never see a YAML type.
package yamlspec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/chgroeling/decoder-forge/assoc"
	"github.com/chgroeling/decoder-forge/forge"
	"github.com/chgroeling/decoder-forge/transpile"
)

// ParseError wraps a YAML decoding failure or a malformed action-AST node
// encountered while converting a Document to forge.Input.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string { return e.Message }

// PatternSpec is the per-pattern metadata dict recognized keys from
// spec.md §6: "to" (struct name), "ops" (operation names, in order), and
// "name" (a human label for tree printing).
type PatternSpec struct {
	To   string   `yaml:"to"`
	Ops  []string `yaml:"ops"`
	Name string   `yaml:"name"`
}

// StructSpec is one struct_def entry.
type StructSpec struct {
	Members []string `yaml:"members"`
}

// OpsSpec is one operations entry. Args is untyped because spec.md §6
// allows arbitrary literal values there, not just strings; ToInput
// stringifies each element with fmt.Sprint.
type OpsSpec struct {
	Dest string `yaml:"dest"`
	Op   string `yaml:"op"`
	Args []any  `yaml:"args"`
}

// Document is the top-level YAML document, matching spec.md §6's logical
// schema. Patterns is kept as a raw yaml.Node (rather than a Go map) so
// ToInput can walk it in file order — a Go map would discard the
// declaration order that UID assignment, and therefore determinism,
// depends on.
type Document struct {
	Patterns   yaml.Node                 `yaml:"patterns"`
	StructDef  map[string]StructSpec     `yaml:"struct_def"`
	Operations map[string]OpsSpec        `yaml:"operations"`
	Deffun     map[string]map[string]any `yaml:"deffun"`
	Context    map[string]any            `yaml:"context"`
}

// Parse decodes one YAML document from r. An empty input yields a zero
// Document rather than an error, matching the original's "ast is None ->
// use {}" leniency.
func Parse(r io.Reader) (Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return Document{}, nil
		}
		return Document{}, &ParseError{Message: fmt.Sprintf("parsing yaml spec: %v", err)}
	}
	return doc, nil
}

// ToInput converts d into the core driver's plain-Go Input value.
func (d Document) ToInput() (forge.Input, error) {
	patterns, err := d.patternEntries()
	if err != nil {
		return forge.Input{}, err
	}

	structDef := make(map[string]assoc.StructDef, len(d.StructDef))
	for name, spec := range d.StructDef {
		structDef[name] = assoc.StructDef{Name: name, Members: spec.Members}
	}

	operations := make(map[string]assoc.OpsDef, len(d.Operations))
	for name, spec := range d.Operations {
		args := make([]string, len(spec.Args))
		for i, a := range spec.Args {
			args[i] = stringifyScalar(a)
		}
		operations[name] = assoc.OpsDef{Name: name, Dest: spec.Dest, Op: spec.Op, Args: args}
	}

	deffun := make(map[string]*transpile.Node, len(d.Deffun))
	for name, raw := range d.Deffun {
		node, err := astFromMap(raw)
		if err != nil {
			return forge.Input{}, &ParseError{Message: fmt.Sprintf("deffun %q: %v", name, err)}
		}
		deffun[name] = node
	}

	return forge.Input{
		Patterns:   patterns,
		StructDef:  structDef,
		Operations: operations,
		Deffun:     deffun,
		Context:    d.Context,
	}, nil
}

// patternEntries walks the raw patterns mapping node in document order.
func (d Document) patternEntries() ([]forge.PatternEntry, error) {
	if d.Patterns.Kind == 0 {
		return nil, nil
	}
	if d.Patterns.Kind != yaml.MappingNode {
		return nil, &ParseError{Message: "\"patterns\" must be a mapping"}
	}

	entries := make([]forge.PatternEntry, 0, len(d.Patterns.Content)/2)
	for i := 0; i+1 < len(d.Patterns.Content); i += 2 {
		keyNode := d.Patterns.Content[i]
		valNode := d.Patterns.Content[i+1]

		var spec PatternSpec
		if err := valNode.Decode(&spec); err != nil {
			return nil, &ParseError{Message: fmt.Sprintf("pattern %q: %v", keyNode.Value, err)}
		}

		entries = append(entries, forge.PatternEntry{
			Pattern: keyNode.Value,
			To:      spec.To,
			Ops:     spec.Ops,
			Name:    spec.Name,
		})
	}
	return entries, nil
}

// astFromMap converts one decoded YAML mapping into an action-AST node,
// dispatching on its "op" field the same way generate_code.py's deffun
// dicts are structured in the original.
func astFromMap(m map[string]any) (*transpile.Node, error) {
	if m == nil {
		return nil, nil
	}
	opVal, ok := m["op"]
	if !ok {
		return nil, &ParseError{Message: "ast node missing \"op\" field"}
	}
	op, ok := opVal.(string)
	if !ok {
		return nil, &ParseError{Message: "ast node \"op\" field must be a string"}
	}

	node := &transpile.Node{Op: op}

	switch op {
	case "add", "sub", "mul", "mod", "and", "or", "xor", "logical_and", "logical_or":
		args, err := toExprSlice(m["args"])
		if err != nil {
			return nil, err
		}
		node.Args = args

	case "is_equal", "is_not_equal", "is_less", "shiftleft", "shiftright":
		left, err := toExprValue(m["left"])
		if err != nil {
			return nil, err
		}
		right, err := toExprValue(m["right"])
		if err != nil {
			return nil, err
		}
		node.Left, node.Right = left, right

	case "braces", "not", "logical_not", "assert":
		expr, err := toExprValue(m["expr"])
		if err != nil {
			return nil, err
		}
		node.Expr = expr

	case "assign":
		expr, err := toExprValue(m["expr"])
		if err != nil {
			return nil, err
		}
		node.Expr = expr
		target, _ := m["target"].(string)
		node.Target = target
		node.Comment = optionalComment(m)

	case "return":
		expr, err := toExprValue(m["expr"])
		if err != nil {
			return nil, err
		}
		node.Expr = expr
		node.Comment = optionalComment(m)

	case "eval":
		expr, _ := m["expr"].(string)
		node.Expr = expr

	case "call":
		expr, _ := m["expr"].(string)
		node.Expr = expr
		node.Comment = optionalComment(m)

	case "seq":
		exprs, err := toExprSlice(m["exprs"])
		if err != nil {
			return nil, err
		}
		node.Exprs = exprs

	case "if":
		cond, err := toExprValue(m["cond"])
		if err != nil {
			return nil, err
		}
		then, err := toExprValue(m["then"])
		if err != nil {
			return nil, err
		}
		node.Cond, node.Then = cond, then
		if elseVal, ok := m["else"]; ok {
			els, err := toExprValue(elseVal)
			if err != nil {
				return nil, err
			}
			node.Else = els
		}

	case "switch":
		v, err := toExprValue(m["var"])
		if err != nil {
			return nil, err
		}
		node.Var = v

		rawCases, _ := m["case"].([]any)
		cases := make([]transpile.Case, 0, len(rawCases))
		for _, rc := range rawCases {
			cm, ok := rc.(map[string]any)
			if !ok {
				continue
			}
			when, err := toExprValue(cm["when"])
			if err != nil {
				return nil, err
			}
			then, err := toExprValue(cm["then"])
			if err != nil {
				return nil, err
			}
			cases = append(cases, transpile.Case{When: when, Then: then})
		}
		node.Cases = cases

	default:
		// Unknown op: the bare Node still reaches Transpile, whose own
		// default case renders it to nothing rather than failing.
	}

	return node, nil
}

func optionalComment(m map[string]any) *string {
	v, ok := m["comment"]
	if !ok || v == nil {
		return nil
	}
	s := stringifyScalar(v)
	return &s
}

// toExprSlice converts a YAML sequence of AST-leaf values (nested op maps
// or scalars) into the []any shape Node.Args/Node.Exprs expect.
func toExprSlice(v any) ([]any, error) {
	raw, ok := v.([]any)
	if !ok {
		return nil, nil
	}
	out := make([]any, len(raw))
	for i, e := range raw {
		val, err := toExprValue(e)
		if err != nil {
			return nil, err
		}
		out[i] = val
	}
	return out, nil
}

// toExprValue converts one AST-leaf value: a nested op map recurses into
// astFromMap, a string passes through unchanged (so $placeholder syntax
// survives), and any other scalar is stringified — transpile.Transpile's
// resolve helper only accepts *transpile.Node or string leaves.
func toExprValue(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return astFromMap(t)
	case string:
		return t, nil
	default:
		return stringifyScalar(t), nil
	}
}

func stringifyScalar(v any) string {
	return fmt.Sprint(v)
}
