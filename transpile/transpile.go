package transpile

import "strings"

// Transpiler walks an action AST and renders it through a Visitor.
// Deffun holds the user-defined functions the call operator dispatches
// to, keyed by name.
type Transpiler struct {
	Visitor Visitor
	Deffun  map[string]*Node
}

// New builds a Transpiler targeting visitor, with deffun as the registry
// the call operator dispatches into.
func New(visitor Visitor, deffun map[string]*Node) *Transpiler {
	return &Transpiler{Visitor: visitor, Deffun: deffun}
}

// Transpile renders node against bindings, the current placeholder
// binding map. An unpopulated node (nil, or an unrecognized Op) renders
// to an empty fragment rather than failing — spec.md §4.6 requires
// forward-compatible extension for unknown operators.
func (t *Transpiler) Transpile(node *Node, bindings map[string]string) (string, error) {
	if node == nil {
		return "", nil
	}

	switch node.Op {
	case "add":
		return t.variadic(node.Args, bindings, t.Visitor.Add)
	case "sub":
		return t.variadic(node.Args, bindings, t.Visitor.Sub)
	case "mul":
		return t.variadic(node.Args, bindings, t.Visitor.Mul)
	case "mod":
		return t.variadic(node.Args, bindings, t.Visitor.Mod)
	case "and":
		return t.variadic(node.Args, bindings, t.Visitor.And)
	case "or":
		return t.variadic(node.Args, bindings, t.Visitor.Or)
	case "xor":
		return t.variadic(node.Args, bindings, t.Visitor.Xor)
	case "logical_and":
		return t.variadic(node.Args, bindings, t.Visitor.LogicalAnd)
	case "logical_or":
		return t.variadic(node.Args, bindings, t.Visitor.LogicalOr)

	case "is_equal":
		return t.binary(node, bindings, t.Visitor.IsEqual)
	case "is_not_equal":
		return t.binary(node, bindings, t.Visitor.IsNotEqual)
	case "is_less":
		return t.binary(node, bindings, t.Visitor.IsLess)
	case "shiftleft":
		return t.binary(node, bindings, t.Visitor.ShiftLeft)
	case "shiftright":
		return t.binary(node, bindings, t.Visitor.ShiftRight)

	case "braces":
		return t.unary(node, bindings, t.Visitor.Braces)
	case "not":
		return t.unary(node, bindings, t.Visitor.Not)
	case "logical_not":
		return t.unary(node, bindings, t.Visitor.LogicalNot)
	case "assert":
		return t.unary(node, bindings, t.Visitor.Assert)

	case "assign":
		expr, err := t.resolve(node.Expr, bindings)
		if err != nil {
			return "", err
		}
		target := substitutePlaceholder(node.Target, bindings)
		return t.Visitor.Assign(target, expr, node.Comment), nil

	case "return":
		expr, err := t.resolve(node.Expr, bindings)
		if err != nil {
			return "", err
		}
		return t.Visitor.Return(expr, node.Comment), nil

	case "eval":
		exprStr, _ := node.Expr.(string)
		return evalArithmetic(exprStr, bindings)

	case "call":
		exprStr, _ := node.Expr.(string)
		rendered, err := t.dispatchCall(exprStr, bindings)
		if err != nil {
			return "", err
		}
		return t.Visitor.Call(rendered, node.Comment), nil

	case "seq":
		lines := make([]string, len(node.Exprs))
		for i, e := range node.Exprs {
			v, err := t.resolve(e, bindings)
			if err != nil {
				return "", err
			}
			lines[i] = v
		}
		return t.Visitor.Seq(lines), nil

	case "if":
		cond, err := t.resolve(node.Cond, bindings)
		if err != nil {
			return "", err
		}
		then, err := t.resolve(node.Then, bindings)
		if err != nil {
			return "", err
		}
		var elsePtr *string
		if node.Else != nil {
			els, err := t.resolve(node.Else, bindings)
			if err != nil {
				return "", err
			}
			elsePtr = &els
		}
		return t.Visitor.If(cond, then, elsePtr), nil

	case "switch":
		varExpr, err := t.resolve(node.Var, bindings)
		if err != nil {
			return "", err
		}
		cases := make([]RenderedCase, len(node.Cases))
		for i, c := range node.Cases {
			when, err := t.resolve(c.When, bindings)
			if err != nil {
				return "", err
			}
			then, err := t.resolve(c.Then, bindings)
			if err != nil {
				return "", err
			}
			cases[i] = RenderedCase{When: when, Then: then}
		}
		return t.Visitor.Switch(varExpr, cases), nil

	default:
		// Unknown operator: non-fatal, renders to nothing so forward
		// extensions to the action language degrade gracefully.
		return "", nil
	}
}

func (t *Transpiler) variadic(args []any, bindings map[string]string, render func(...string) string) (string, error) {
	rendered := make([]string, len(args))
	for i, a := range args {
		v, err := t.resolve(a, bindings)
		if err != nil {
			return "", err
		}
		rendered[i] = v
	}
	return render(rendered...), nil
}

func (t *Transpiler) binary(node *Node, bindings map[string]string, render func(left, right string) string) (string, error) {
	left, err := t.resolve(node.Left, bindings)
	if err != nil {
		return "", err
	}
	right, err := t.resolve(node.Right, bindings)
	if err != nil {
		return "", err
	}
	return render(left, right), nil
}

func (t *Transpiler) unary(node *Node, bindings map[string]string, render func(expr string) string) (string, error) {
	expr, err := t.resolve(node.Expr, bindings)
	if err != nil {
		return "", err
	}
	return render(expr), nil
}

// resolve renders a: a nested *Node transpiles recursively, a string leaf
// goes through placeholder substitution, anything else is stringified.
func (t *Transpiler) resolve(a any, bindings map[string]string) (string, error) {
	switch v := a.(type) {
	case nil:
		return "", nil
	case *Node:
		return t.Transpile(v, bindings)
	case string:
		return substitutePlaceholder(v, bindings), nil
	default:
		return "", newError(KindActionSyntax, "unsupported AST leaf value %v (%T)", v, v)
	}
}

// substitutePlaceholder resolves a single leaf value: if it names a
// placeholder ("$name"), look it up; an unknown placeholder passes
// through unchanged rather than failing.
func substitutePlaceholder(s string, bindings map[string]string) string {
	if !strings.HasPrefix(s, "$") {
		return s
	}
	name := strings.TrimPrefix(s, "$")
	if v, ok := bindings[name]; ok {
		return v
	}
	return s
}

type callArg struct{ Key, Val string }

// parseCallExpr parses "name(k1=v1, k2=v2, …)". Missing parentheses or a
// missing '=' in any argument is an ActionSyntax error, per spec.md §4.6.
func parseCallExpr(expr string) (name string, args []callArg, err error) {
	open := strings.IndexByte(expr, '(')
	if open < 0 || !strings.HasSuffix(strings.TrimSpace(expr), ")") {
		return "", nil, newError(KindActionSyntax, "malformed call expression %q: missing parentheses", expr)
	}
	name = strings.TrimSpace(expr[:open])

	trimmed := strings.TrimSpace(expr)
	inner := strings.TrimSpace(trimmed[open+1 : len(trimmed)-1])
	if inner == "" {
		return name, nil, nil
	}

	for _, part := range strings.Split(inner, ",") {
		eq := strings.IndexByte(part, '=')
		if eq < 0 {
			return "", nil, newError(KindActionSyntax, "malformed call argument %q: missing '='", strings.TrimSpace(part))
		}
		args = append(args, callArg{
			Key: strings.TrimSpace(part[:eq]),
			Val: strings.TrimSpace(part[eq+1:]),
		})
	}
	return name, args, nil
}

// dispatchCall implements the Dispatch family's call protocol: parse the
// "name(k=v, …)" expression, resolve each argument value against either
// the caller's bindings ($name), a recursive function invocation
// (&fname), or a literal, then transpile the named function's AST with
// the resulting binding map.
func (t *Transpiler) dispatchCall(expr string, callerBindings map[string]string) (string, error) {
	name, args, err := parseCallExpr(expr)
	if err != nil {
		return "", err
	}

	newBindings := make(map[string]string, len(args))
	for _, a := range args {
		switch {
		case strings.HasPrefix(a.Val, "$"):
			newBindings[a.Key] = substitutePlaceholder(a.Val, callerBindings)
		case strings.HasPrefix(a.Val, "&"):
			fname := strings.TrimPrefix(a.Val, "&")
			rendered, err := t.invokeFunction(fname, newBindings)
			if err != nil {
				return "", err
			}
			newBindings[a.Key] = rendered
		default:
			newBindings[a.Key] = a.Val
		}
	}

	return t.invokeFunction(name, newBindings)
}

func (t *Transpiler) invokeFunction(name string, bindings map[string]string) (string, error) {
	ast, ok := t.Deffun[name]
	if !ok {
		return "", newError(KindActionSyntax, "call to undefined function %q", name)
	}
	return t.Transpile(ast, bindings)
}
