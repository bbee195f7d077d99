package treegui

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chgroeling/decoder-forge/bitpattern"
	"github.com/chgroeling/decoder-forge/pattern"
)

func mustPat(t *testing.T, s string) bitpattern.Pattern {
	t.Helper()
	p, err := bitpattern.Parse(s)
	require.NoError(t, err)
	return p
}

// newTestViewer builds a Viewer against fyne's headless test app instead of
// a real one, the same substitution debugger/gui_test.go makes for GUI.
func newTestViewer(t *testing.T, records []pattern.FlatRecord, label pattern.LabelFunc) *Viewer {
	t.Helper()
	testApp := test.NewApp()
	t.Cleanup(testApp.Quit)

	v := &Viewer{
		App:    testApp,
		Window: testApp.NewWindow("test"),
		label:  label,
	}
	v.buildIndex(records)
	v.initializeViews()
	v.buildLayout()
	return v
}

func TestNewViewerBuildsIndexFromDepth(t *testing.T) {
	records := []pattern.FlatRecord{
		{Pat: mustPat(t, "11xxxxxx"), HasUID: false, Depth: 0},
		{Pat: mustPat(t, "11000000"), UID: 1, HasUID: true, Depth: 1},
		{Pat: mustPat(t, "11110000"), UID: 2, HasUID: true, Depth: 1},
		{Pat: mustPat(t, "00xxxxxx"), UID: 3, HasUID: true, Depth: 0},
	}
	label := func(u pattern.UID) string { return "op" }

	v := newTestViewer(t, records, label)

	require.Len(t, v.childrenOf[""], 2)
	branchID := v.childrenOf[""][0]
	assert.Len(t, v.childrenOf[branchID], 2)

	leafID := v.childrenOf[""][1]
	assert.Equal(t, pattern.UID(3), v.recordOf[leafID].UID)
}

func TestOnSelectBranchShowsPlaceholder(t *testing.T) {
	records := []pattern.FlatRecord{
		{Pat: mustPat(t, "11xx"), HasUID: false, Depth: 0},
	}
	label := func(pattern.UID) string { return "" }
	v := newTestViewer(t, records, label)

	v.onSelect(v.childrenOf[""][0])
	assert.Contains(t, v.Detail.Text(), "branch node")
}

func TestOnSelectLeafShowsStructAndOps(t *testing.T) {
	p := mustPat(t, "1010")
	records := []pattern.FlatRecord{
		{Pat: p, UID: 0, HasUID: true, Depth: 0},
	}
	label := func(pattern.UID) string { return "ADD" }
	v := newTestViewer(t, records, label)

	v.onSelect(v.childrenOf[""][0])
	assert.Contains(t, v.Detail.Text(), "ADD")
}
