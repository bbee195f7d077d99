// Package transpile implements the action mini-language described in
// spec.md §4.6: a tree-walk evaluator over a small typed AST that renders
// target-language source fragments through a pluggable Visitor.
package transpile

import "fmt"

// Node is one action-AST node. Op selects which family's fields are
// populated; unused fields for a given Op are left at their zero value.
// A tagged struct rather than a bare map gives each operator family named
// fields checked at compile time, unlike the dict-key lookups the original
// walks. Op itself is a plain string matched at run time: an unrecognized
// Op reaches Transpile's default case.
type Node struct {
	Op string

	// Variadic family (add, sub, mul, mod, and, or, xor, logical_and,
	// logical_or): each element is a string leaf or a nested *Node.
	Args []any

	// Binary family (is_equal, is_not_equal, is_less, shiftleft, shiftright).
	Left, Right any

	// Unary family (braces, not, logical_not, assert) and the single
	// sub-expression of assign/return/eval/call.
	Expr any

	// assign's destination placeholder.
	Target string
	// Optional trailing comment on assign/return/call.
	Comment *string

	// seq: expressions joined with newlines.
	Exprs []any

	// if: cond/then required, Else optional (nil means no else clause).
	Cond, Then, Else any

	// switch: Var is matched against each Case's When.
	Var   any
	Cases []Case
}

// Case is one arm of a switch node.
type Case struct {
	When, Then any
}

func (n *Node) String() string {
	return fmt.Sprintf("Node{Op: %q}", n.Op)
}
