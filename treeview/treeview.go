// Package treeview is a terminal browser over a flattened decode (or size)
// tree, built from tview and tcell the way debugger/tui.go composes its
// view panels: a tview.Application driving a Flex layout of named view
// widgets, with a detail pane kept in sync with the current selection.
// Unlike the debugger it adapts, treeview has nothing to step or refresh
// on a timer — the tree it displays is fixed for the lifetime of one
// generator invocation, so there is no RefreshAll/executeCommand loop.
package treeview

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/chgroeling/decoder-forge/assoc"
	"github.com/chgroeling/decoder-forge/pattern"
)

// Browser is a read-only terminal viewer over a flattened decode tree.
type Browser struct {
	App        *tview.Application
	Pages      *tview.Pages
	MainLayout *tview.Flex

	Tree   *tview.TreeView
	Detail *tview.TextView

	records    []pattern.FlatRecord
	label      pattern.LabelFunc
	structRepo *assoc.StructRepo
	opsRepo    map[pattern.UID][]assoc.OpsDef
}

// NewBrowser builds a Browser over records. label resolves a leaf's UID to
// its display name; structRepo and opsByUID (both optional — nil skips the
// corresponding detail section) back the detail pane shown for the
// currently selected leaf.
func NewBrowser(records []pattern.FlatRecord, label pattern.LabelFunc, structRepo *assoc.StructRepo, opsByUID map[pattern.UID][]assoc.OpsDef) *Browser {
	b := &Browser{
		App:        tview.NewApplication(),
		records:    records,
		label:      label,
		structRepo: structRepo,
		opsRepo:    opsByUID,
	}

	b.initializeViews()
	b.buildLayout()
	b.setupKeyBindings()

	return b
}

func (b *Browser) initializeViews() {
	root := tview.NewTreeNode("decode tree").SetColor(tcell.ColorYellow)
	b.populate(root)

	b.Tree = tview.NewTreeView().SetRoot(root).SetCurrentNode(root)
	b.Tree.SetBorder(true).SetTitle(" Tree ")
	b.Tree.SetSelectedFunc(b.onSelect)

	b.Detail = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	b.Detail.SetBorder(true).SetTitle(" Detail ")
	b.Detail.SetText("select a leaf to see its associated struct and operations")
}

// populate reconstructs the tree hierarchy under root from the flat
// record list, using each record's Depth the way pattern.Flatten encoded
// it: a record at depth d attaches under parents[d] and then becomes
// parents[d+1], so parents[d+1] always holds the most recently appended
// node at depth d (parents[0] is the synthetic root).
func (b *Browser) populate(root *tview.TreeNode) {
	parents := []*tview.TreeNode{root}

	for _, rec := range b.records {
		text := rec.Pat.String()
		if rec.HasUID {
			text += "  " + b.label(rec.UID)
		} else {
			text += "  ┐"
		}

		node := tview.NewTreeNode(text).SetReference(rec)
		if rec.HasUID {
			node.SetColor(tcell.ColorGreen)
		}

		parent := parents[rec.Depth]
		parent.AddChild(node)

		if rec.Depth+1 < len(parents) {
			parents[rec.Depth+1] = node
		} else {
			parents = append(parents, node)
		}
	}
}

func (b *Browser) buildLayout() {
	b.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(b.Tree, 0, 2, true).
		AddItem(b.Detail, 0, 1, false)

	b.Pages = tview.NewPages().AddPage("main", b.MainLayout, true, true)
}

func (b *Browser) setupKeyBindings() {
	b.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC, tcell.KeyEscape:
			b.App.Stop()
			return nil
		}
		return event
	})
}

func (b *Browser) onSelect(node *tview.TreeNode) {
	rec, ok := node.GetReference().(pattern.FlatRecord)
	if !ok || !rec.HasUID {
		b.Detail.SetText("(branch node, no associated struct)")
		return
	}

	var out strings.Builder
	fmt.Fprintf(&out, "pattern: %s\n", rec.Pat)
	fmt.Fprintf(&out, "label:   %s\n\n", b.label(rec.UID))

	if b.structRepo != nil {
		if def, ok := b.structRepo.PatToStruct[rec.Pat]; ok {
			fmt.Fprintf(&out, "struct %s {\n", def.Name)
			for _, m := range def.Members {
				fmt.Fprintf(&out, "  %s\n", m)
			}
			out.WriteString("}\n\n")
		}
	}

	if ops, ok := b.opsRepo[rec.UID]; ok {
		out.WriteString("operations:\n")
		for _, op := range ops {
			fmt.Fprintf(&out, "  %s = %s(%s)\n", op.Dest, op.Op, strings.Join(op.Args, ", "))
		}
	}

	b.Detail.SetText(out.String())
}

// Run starts the terminal event loop. It blocks until the user quits
// (Ctrl+C or Esc).
func (b *Browser) Run() error {
	return b.App.SetRoot(b.Pages, true).SetFocus(b.Tree).Run()
}
