package pattern

import (
	"fmt"
	"strings"
)

// Printer is the narrow collaborator the tree printer writes through —
// one method, so anything from a plain stdout writer to a tview text view
// can satisfy it without an adapter.
type Printer interface {
	Print(string)
}

// LabelFunc resolves a leaf's UID to the human-readable label the printer
// puts at the end of its line (an operation name, typically).
type LabelFunc func(UID) string

// indentWidth is the column the "| pattern | label" field starts at,
// matching the original print_tree.py layout. PrintTree always uses this
// constant; config.Tree.IndentWidth has the same default but is not read
// here.
const indentWidth = 20

// PrintTree renders root as a box-drawing tree, one line per node, in the
// same pre-order Flatten produces: an internal branch line ending in "┐",
// and leaf lines prefixed "├─" or "└─" depending on sibling position.
func PrintTree(p Printer, root *Branch, label LabelFunc) {
	for _, rec := range Flatten(root) {
		if rec.Depth == 0 {
			p.Print("")
		}

		indent := strings.Repeat("│ ", rec.Depth)

		if !rec.HasUID {
			node := indent + "├─┐"
			p.Print(fmt.Sprintf("%-*s| %s", indentWidth, node, rec.Pat))
			continue
		}

		connector := "├─"
		if rec.IsLastChild {
			connector = "└─"
		}
		node := indent + connector + " x"
		p.Print(fmt.Sprintf("%-*s| %s | %s", indentWidth, node, rec.Pat, label(rec.UID)))
	}
}
