package pattern

import "testing"

type recordingPrinter struct {
	lines []string
}

func (r *recordingPrinter) Print(s string) { r.lines = append(r.lines, s) }

func TestPrintTreeS2(t *testing.T) {
	entries := []Entry{
		{Pat: pat("11x00x11"), UID: 1},
		{Pat: pat("11xxx0xx"), UID: 2},
	}
	root, err := BuildDecodeTree(entries, 8)
	if err != nil {
		t.Fatal(err)
	}

	labels := map[UID]string{1: "op_a", 2: "op_b"}
	var p recordingPrinter
	PrintTree(&p, root, func(u UID) string { return labels[u] })

	// a blank line precedes the depth-0 entry, then one line per node
	if len(p.lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%v", len(p.lines), p.lines)
	}
	if p.lines[0] != "" {
		t.Errorf("first line = %q, want blank line before depth-0 entry", p.lines[0])
	}
	// the branch line carries no label, only its pattern
	if got := p.lines[1]; !contains(got, "11xxxxxx") {
		t.Errorf("branch line = %q, want it to contain 11xxxxxx", got)
	}
	if got := p.lines[2]; !contains(got, "op_a") || !contains(got, "xxx00x11") {
		t.Errorf("first leaf line = %q, want op_a and xxx00x11", got)
	}
	if got := p.lines[3]; !contains(got, "op_b") || !contains(got, "xxxxx0xx") {
		t.Errorf("second leaf line = %q, want op_b and xxxxx0xx", got)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
