package pattern

import "testing"

// TestFlattenS1 is scenario S1: the flat tree has exactly one leaf record.
func TestFlattenS1(t *testing.T) {
	root, err := BuildDecodeTree([]Entry{{Pat: pat("11x00x11"), UID: 0}}, 8)
	if err != nil {
		t.Fatal(err)
	}
	flat := Flatten(root)
	if len(flat) != 1 {
		t.Fatalf("got %d records, want 1", len(flat))
	}
	r := flat[0]
	if r.Pat.String() != "11x00x11" || !r.HasUID || r.Depth != 0 || !r.IsFirstChild || !r.IsLastChild {
		t.Errorf("record = %+v", r)
	}
}

// TestFlattenS2 is scenario S2: one branch record followed by two leaf
// records at depth 1, first/last flags set per sibling position.
func TestFlattenS2(t *testing.T) {
	entries := []Entry{
		{Pat: pat("11x00x11"), UID: 1},
		{Pat: pat("11xxx0xx"), UID: 2},
	}
	root, err := BuildDecodeTree(entries, 8)
	if err != nil {
		t.Fatal(err)
	}
	flat := Flatten(root)
	if len(flat) != 3 {
		t.Fatalf("got %d records, want 3", len(flat))
	}

	branch := flat[0]
	if branch.HasUID || branch.Pat.String() != "11xxxxxx" || branch.Depth != 0 || !branch.IsFirstChild || !branch.IsLastChild {
		t.Errorf("branch record = %+v", branch)
	}

	l1 := flat[1]
	if !l1.HasUID || l1.UID != 1 || l1.Pat.String() != "xxx00x11" || l1.Depth != 1 || !l1.IsFirstChild || l1.IsLastChild {
		t.Errorf("first leaf record = %+v", l1)
	}

	l2 := flat[2]
	if !l2.HasUID || l2.UID != 2 || l2.Pat.String() != "xxxxx0xx" || l2.Depth != 1 || l2.IsFirstChild || !l2.IsLastChild {
		t.Errorf("second leaf record = %+v", l2)
	}
}

// TestInvariantFlatLeafAgreesWithOriginal checks the bit-agreement half of
// invariant 4: every flat-tree leaf's residual bits agree with the
// original pattern on every position the leaf specifies. A leaf under a
// branch carries only its residual bits, so its mask is not compared
// against the original pattern's mask here.
func TestInvariantFlatLeafAgreesWithOriginal(t *testing.T) {
	entries := []Entry{
		{Pat: pat("11x00x11"), UID: 1},
		{Pat: pat("11xxx0xx"), UID: 2},
	}
	root, err := BuildDecodeTree(entries, 8)
	if err != nil {
		t.Fatal(err)
	}

	byUID := map[UID]int{1: 0, 2: 1}
	for _, r := range Flatten(root) {
		if !r.HasUID {
			continue
		}
		original := entries[byUID[r.UID]].Pat
		if original.FixedBits&r.Pat.FixedMask != r.Pat.FixedBits {
			t.Errorf("leaf uid %d: residual bits %s disagree with original %s on shared positions", r.UID, r.Pat, original)
		}
	}
}

// TestFlattenS4 is scenario S4: two siblings at depth 0, ordered by
// descending specificity.
func TestFlattenS4(t *testing.T) {
	entries := []Entry{
		{Pat: pat("0x"), UID: 1},
		{Pat: pat("11"), UID: 2},
	}
	root, err := BuildDecodeTree(entries, 4)
	if err != nil {
		t.Fatal(err)
	}
	flat := Flatten(root)
	if len(flat) != 2 {
		t.Fatalf("got %d records, want 2", len(flat))
	}
	if flat[0].Pat.String() != "11xx" || flat[1].Pat.String() != "0xxx" {
		t.Errorf("flat order = [%s, %s], want [11xx, 0xxx]", flat[0].Pat, flat[1].Pat)
	}
}
