// Package treegui is a desktop viewer over a flattened decode (or size)
// tree, built the way debugger/gui.go composes its panels: a fyne.App and
// Window, named view widgets assembled in initializeViews, a buildLayout
// step wiring them into a split container, and a newViewer-style
// constructor. Unlike the debugger it adapts, the tree it shows never
// changes after construction, so there is no console/register refresh
// loop — only a detail pane that updates on selection.
package treegui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/chgroeling/decoder-forge/assoc"
	"github.com/chgroeling/decoder-forge/pattern"
)

// Viewer is a read-only desktop viewer over a flattened decode tree.
type Viewer struct {
	App    fyne.App
	Window fyne.Window

	Tree       *widget.Tree
	Detail     *widget.TextGrid
	StatusLabel *widget.Label

	label      pattern.LabelFunc
	structRepo *assoc.StructRepo
	opsRepo    map[pattern.UID][]assoc.OpsDef

	childrenOf map[string][]string
	recordOf   map[string]pattern.FlatRecord
}

// NewViewer builds a Viewer over records, the same record list
// treeview.NewBrowser consumes. label, structRepo and opsByUID are
// optional (nil skips the corresponding detail section).
func NewViewer(records []pattern.FlatRecord, label pattern.LabelFunc, structRepo *assoc.StructRepo, opsByUID map[pattern.UID][]assoc.OpsDef) *Viewer {
	myApp := app.New()
	myWindow := myApp.NewWindow("decoder-forge tree viewer")

	v := &Viewer{
		App:        myApp,
		Window:     myWindow,
		label:      label,
		structRepo: structRepo,
		opsRepo:    opsByUID,
	}

	v.buildIndex(records)
	v.initializeViews()
	v.buildLayout()

	myWindow.Resize(fyne.NewSize(1000, 700))

	return v
}

// buildIndex reconstructs the tree's parent/child edges from the flat
// record list using synthetic string node IDs ("" for the root, the
// record's position in the slice otherwise), since widget.Tree keys
// nodes by string ID rather than by reference.
func (v *Viewer) buildIndex(records []pattern.FlatRecord) {
	v.childrenOf = map[string][]string{}
	v.recordOf = map[string]pattern.FlatRecord{}

	parents := []string{""}
	for i, rec := range records {
		id := strconv.Itoa(i)
		v.recordOf[id] = rec

		parentID := parents[rec.Depth]
		v.childrenOf[parentID] = append(v.childrenOf[parentID], id)

		if rec.Depth+1 < len(parents) {
			parents[rec.Depth+1] = id
		} else {
			parents = append(parents, id)
		}
	}
}

func (v *Viewer) initializeViews() {
	v.Tree = widget.NewTree(
		func(uid widget.TreeNodeID) []widget.TreeNodeID { return v.childrenOf[uid] },
		func(uid widget.TreeNodeID) bool { return len(v.childrenOf[uid]) > 0 },
		func(branch bool) fyne.CanvasObject { return widget.NewLabel("template") },
		func(uid widget.TreeNodeID, branch bool, obj fyne.CanvasObject) {
			rec, ok := v.recordOf[uid]
			if !ok {
				obj.(*widget.Label).SetText("decode tree")
				return
			}
			text := rec.Pat.String()
			if rec.HasUID {
				text += "  " + v.label(rec.UID)
			}
			obj.(*widget.Label).SetText(text)
		},
	)
	v.Tree.OnSelected = v.onSelect

	v.Detail = widget.NewTextGrid()
	v.Detail.SetText("select a leaf to see its associated struct and operations")

	v.StatusLabel = widget.NewLabel("Ready")
}

func (v *Viewer) buildLayout() {
	treePanel := container.NewBorder(
		widget.NewLabel("Tree"),
		nil, nil, nil,
		container.NewScroll(v.Tree),
	)
	detailPanel := container.NewBorder(
		widget.NewLabel("Detail"),
		nil, nil, nil,
		container.NewScroll(v.Detail),
	)

	split := container.NewHSplit(treePanel, detailPanel)
	split.SetOffset(0.4)

	content := container.NewBorder(nil, v.StatusLabel, nil, nil, split)
	v.Window.SetContent(content)
}

func (v *Viewer) onSelect(uid widget.TreeNodeID) {
	rec, ok := v.recordOf[uid]
	if !ok || !rec.HasUID {
		v.Detail.SetText("(branch node, no associated struct)")
		return
	}

	var out strings.Builder
	fmt.Fprintf(&out, "pattern: %s\n", rec.Pat)
	fmt.Fprintf(&out, "label:   %s\n\n", v.label(rec.UID))

	if v.structRepo != nil {
		if def, ok := v.structRepo.PatToStruct[rec.Pat]; ok {
			fmt.Fprintf(&out, "struct %s {\n", def.Name)
			for _, m := range def.Members {
				fmt.Fprintf(&out, "  %s\n", m)
			}
			out.WriteString("}\n\n")
		}
	}

	if ops, ok := v.opsRepo[rec.UID]; ok {
		out.WriteString("operations:\n")
		for _, op := range ops {
			fmt.Fprintf(&out, "  %s = %s(%s)\n", op.Dest, op.Op, strings.Join(op.Args, ", "))
		}
	}

	v.Detail.SetText(out.String())
	v.StatusLabel.SetText("selected " + rec.Pat.String())
}

// Run starts the desktop event loop; it blocks until the window closes.
func (v *Viewer) Run() {
	v.Window.ShowAndRun()
}
