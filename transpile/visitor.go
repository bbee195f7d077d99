package transpile

import "strings"

// Visitor renders one AST operator family into a target-language source
// fragment. Transpile dispatches to it by Node.Op; everything upstream of
// rendering (placeholder resolution, call dispatch, eval) is
// target-language-independent and lives in Transpile itself.
type Visitor interface {
	Add(args ...string) string
	Sub(args ...string) string
	Mul(args ...string) string
	Mod(args ...string) string
	And(args ...string) string
	Or(args ...string) string
	Xor(args ...string) string
	LogicalAnd(args ...string) string
	LogicalOr(args ...string) string

	IsEqual(left, right string) string
	IsNotEqual(left, right string) string
	IsLess(left, right string) string
	ShiftLeft(left, right string) string
	ShiftRight(left, right string) string

	Braces(expr string) string
	Not(expr string) string
	LogicalNot(expr string) string
	Assert(expr string) string

	Assign(target, expr string, comment *string) string
	Return(expr string, comment *string) string
	Call(rendered string, comment *string) string

	Seq(lines []string) string
	If(cond, then string, els *string) string
	Switch(varExpr string, cases []RenderedCase) string
}

// RenderedCase is one already-rendered switch arm.
type RenderedCase struct {
	When, Then string
}

func withComment(stmt string, comment *string, lineComment string) string {
	if comment == nil {
		return stmt
	}
	return stmt + " " + lineComment + " " + *comment
}

func indentBlock(body string) string {
	lines := strings.Split(body, "\n")
	for i, l := range lines {
		lines[i] = "\t" + l
	}
	return strings.Join(lines, "\n")
}

// GoVisitor renders fragments of Go source — the default target, since
// decoder-forge's own emitters and generated decoders are Go.
type GoVisitor struct{}

func (GoVisitor) Add(args ...string) string { return strings.Join(args, " + ") }
func (GoVisitor) Sub(args ...string) string { return strings.Join(args, " - ") }
func (GoVisitor) Mul(args ...string) string { return strings.Join(args, " * ") }
func (GoVisitor) Mod(args ...string) string { return strings.Join(args, " % ") }
func (GoVisitor) And(args ...string) string { return strings.Join(args, " & ") }
func (GoVisitor) Or(args ...string) string  { return strings.Join(args, " | ") }
func (GoVisitor) Xor(args ...string) string { return strings.Join(args, " ^ ") }
func (GoVisitor) LogicalAnd(args ...string) string { return strings.Join(args, " && ") }
func (GoVisitor) LogicalOr(args ...string) string  { return strings.Join(args, " || ") }

func (GoVisitor) IsEqual(left, right string) string    { return left + " == " + right }
func (GoVisitor) IsNotEqual(left, right string) string { return left + " != " + right }
func (GoVisitor) IsLess(left, right string) string     { return left + " < " + right }
func (GoVisitor) ShiftLeft(left, right string) string  { return left + " << " + right }
func (GoVisitor) ShiftRight(left, right string) string { return left + " >> " + right }

func (GoVisitor) Braces(expr string) string     { return "(" + expr + ")" }
func (GoVisitor) Not(expr string) string        { return "^" + expr }
func (GoVisitor) LogicalNot(expr string) string { return "!" + expr }
func (GoVisitor) Assert(expr string) string     { return "assertTrue(" + expr + ")" }

func (GoVisitor) Assign(target, expr string, comment *string) string {
	return withComment(target+" = "+expr, comment, "//")
}
func (GoVisitor) Return(expr string, comment *string) string {
	return withComment("return "+expr, comment, "//")
}
func (GoVisitor) Call(rendered string, comment *string) string {
	return withComment(rendered, comment, "//")
}

func (GoVisitor) Seq(lines []string) string { return strings.Join(lines, "\n") }

func (GoVisitor) If(cond, then string, els *string) string {
	out := "if " + cond + " {\n" + indentBlock(then) + "\n}"
	if els != nil {
		out += " else {\n" + indentBlock(*els) + "\n}"
	}
	return out
}

func (GoVisitor) Switch(varExpr string, cases []RenderedCase) string {
	var b strings.Builder
	b.WriteString("switch " + varExpr + " {\n")
	for _, c := range cases {
		b.WriteString("case " + c.When + ":\n")
		b.WriteString(indentBlock(c.Then) + "\n")
	}
	b.WriteString("}")
	return b.String()
}

// PythonVisitor renders fragments of Python source, the original target
// language, kept so output_format: python in the generation config still
// has a real visitor behind it.
type PythonVisitor struct{}

func (PythonVisitor) Add(args ...string) string { return strings.Join(args, " + ") }
func (PythonVisitor) Sub(args ...string) string { return strings.Join(args, " - ") }
func (PythonVisitor) Mul(args ...string) string { return strings.Join(args, " * ") }
func (PythonVisitor) Mod(args ...string) string { return strings.Join(args, " % ") }
func (PythonVisitor) And(args ...string) string { return strings.Join(args, " & ") }
func (PythonVisitor) Or(args ...string) string  { return strings.Join(args, " | ") }
func (PythonVisitor) Xor(args ...string) string { return strings.Join(args, " ^ ") }
func (PythonVisitor) LogicalAnd(args ...string) string { return strings.Join(args, " and ") }
func (PythonVisitor) LogicalOr(args ...string) string  { return strings.Join(args, " or ") }

func (PythonVisitor) IsEqual(left, right string) string    { return left + " == " + right }
func (PythonVisitor) IsNotEqual(left, right string) string { return left + " != " + right }
func (PythonVisitor) IsLess(left, right string) string     { return left + " < " + right }
func (PythonVisitor) ShiftLeft(left, right string) string  { return left + " << " + right }
func (PythonVisitor) ShiftRight(left, right string) string { return left + " >> " + right }

func (PythonVisitor) Braces(expr string) string     { return "(" + expr + ")" }
func (PythonVisitor) Not(expr string) string        { return "~" + expr }
func (PythonVisitor) LogicalNot(expr string) string { return "not " + expr }
func (PythonVisitor) Assert(expr string) string     { return "assert(" + expr + ")" }

func (PythonVisitor) Assign(target, expr string, comment *string) string {
	return withComment(target+" = "+expr, comment, "#")
}
func (PythonVisitor) Return(expr string, comment *string) string {
	return withComment("return "+expr, comment, "#")
}
func (PythonVisitor) Call(rendered string, comment *string) string {
	return withComment(rendered, comment, "#")
}

func (PythonVisitor) Seq(lines []string) string { return strings.Join(lines, "\n") }

func (PythonVisitor) If(cond, then string, els *string) string {
	out := "if " + cond + ":\n" + indentBlock(then)
	if els != nil {
		out += "\nelse:\n" + indentBlock(*els)
	}
	return out
}

func (PythonVisitor) Switch(varExpr string, cases []RenderedCase) string {
	var b strings.Builder
	for i, c := range cases {
		kw := "elif"
		if i == 0 {
			kw = "if"
		}
		b.WriteString(kw + " " + varExpr + " == " + c.When + ":\n")
		b.WriteString(indentBlock(c.Then))
		if i != len(cases)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
