package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildSizeTreeS5 is scenario S5: two 16-bit patterns and one 32-bit
// pattern, decoder_width 32. The size tree must distinguish only the two
// distinct lengths.
func TestBuildSizeTreeS5(t *testing.T) {
	entries := []Entry{
		{Pat: pat("11xxxxxxxxxxxxxx"), UID: 1}, // 16 bits
		{Pat: pat("10xxxxxxxxxxxxxx"), UID: 2}, // 16 bits
		{Pat: pat("111xxxxxxxxxxxxxxxxxxxxxxxxxxxxx"), UID: 3}, // 32 bits
	}
	root, err := BuildDecodeTree(entries, 32)
	if err != nil {
		t.Fatalf("BuildDecodeTree: %v", err)
	}

	origLength := map[UID]int{1: 16, 2: 16, 3: 32}
	sizeRoot, ok := BuildSizeTree(root, origLength)
	require.True(t, ok, "expected a size tree to be needed (two distinct lengths)")

	uids := map[UID]bool{}
	var walk func(n DecodeNode)
	walk = func(n DecodeNode) {
		switch v := n.(type) {
		case *Leaf:
			uids[v.UID] = true
		case *Branch:
			for _, c := range v.Children {
				walk(c)
			}
		}
	}
	for _, c := range sizeRoot.Children {
		walk(c)
	}

	assert.Len(t, uids, 2, "size tree should have one data-uid per distinct length")
	assert.True(t, uids[UID(16)] && uids[UID(32)], "data-uids = %v, want {16, 32}", uids)
}

// TestBuildSizeTreeNoneNeeded covers the "all patterns same length"
// collapse: BuildSizeTree must report that no size tree is needed.
func TestBuildSizeTreeNoneNeeded(t *testing.T) {
	entries := []Entry{
		{Pat: pat("11x00x11"), UID: 1},
		{Pat: pat("11xxx0xx"), UID: 2},
	}
	root, err := BuildDecodeTree(entries, 8)
	if err != nil {
		t.Fatal(err)
	}

	origLength := map[UID]int{1: 8, 2: 8}
	_, ok := BuildSizeTree(root, origLength)
	if ok {
		t.Error("expected no size tree needed when every pattern has the same length")
	}
}

// TestComputeSizeProbeBitsUsesSizeTreeNotDecodeTree builds a decode tree
// whose top branch collapses (both children share the same original
// length, so BuildSizeTree merges them into one less-specific leaf), and
// checks that ComputeSizeProbeBits gives a different, smaller answer on
// the size tree's flattened leaves than on the decode tree's. The decode
// leaves are fully specified (zero trailing wildcards each), so probing
// against them demands the full decoder width and overflows a narrow
// instruction; the collapsed size leaf has fourteen trailing wildcards,
// needing far fewer probe bits — the only one of the two that is correct
// per spec.md §4.5, which defines S over size-leaf patterns.
func TestComputeSizeProbeBitsUsesSizeTreeNotDecodeTree(t *testing.T) {
	branchPat := pat("11xxxxxxxxxxxxxx")
	root := &Branch{
		Children: []DecodeNode{
			&Branch{
				Pat: &branchPat,
				Children: []DecodeNode{
					&Leaf{Pat: pat("1100000000000000"), UID: 1},
					&Leaf{Pat: pat("1100000000000001"), UID: 2},
				},
			},
			&Leaf{Pat: pat("0100000000000000"), UID: 3},
		},
	}
	origLength := map[UID]int{1: 16, 2: 16, 3: 4}

	sizeRoot, ok := BuildSizeTree(root, origLength)
	require.True(t, ok, "expected a size tree to be needed (two distinct lengths)")

	flatSize := Flatten(sizeRoot)
	flatDecode := Flatten(root)

	const decoderWidth = 16
	const narrowestBits = 12

	gotSize, err := ComputeSizeProbeBits(flatSize, decoderWidth, narrowestBits)
	require.NoError(t, err, "size-tree probe bits should not overflow")
	assert.Equal(t, 8, gotSize, "size tree's collapsed leaf has 14 trailing wildcards, so only 8 probe bits are needed")

	_, err = ComputeSizeProbeBits(flatDecode, decoderWidth, narrowestBits)
	assert.Error(t, err, "decode tree's leaves are fully specified, so probing against them should overflow the 12-bit narrowest pattern")
}

// TestInvariantDataUIDBijection is invariant 7: size-tree data-uids are in
// bijection with the distinct bit_length values among the inputs.
func TestInvariantDataUIDBijection(t *testing.T) {
	entries := []Entry{
		{Pat: pat("11xxxxxx"), UID: 1},  // 8 bits
		{Pat: pat("1xxxxxxxxxxxxxxx"), UID: 2}, // 16 bits
		{Pat: pat("0xxxxxxxxxxxxxxx"), UID: 3}, // 16 bits
	}
	root, err := BuildDecodeTree(entries, 16)
	if err != nil {
		t.Fatal(err)
	}

	origLength := map[UID]int{1: 8, 2: 16, 3: 16}
	sizeRoot, ok := BuildSizeTree(root, origLength)
	if !ok {
		t.Fatal("expected size tree to be needed")
	}

	lengths := map[int]bool{}
	for _, e := range entries {
		lengths[origLength[e.UID]] = true
	}

	dataUIDs := map[UID]bool{}
	var walk func(n DecodeNode)
	walk = func(n DecodeNode) {
		switch v := n.(type) {
		case *Leaf:
			dataUIDs[v.UID] = true
		case *Branch:
			for _, c := range v.Children {
				walk(c)
			}
		}
	}
	for _, c := range sizeRoot.Children {
		walk(c)
	}

	if len(dataUIDs) != len(lengths) {
		t.Errorf("got %d data-uids, want %d (one per distinct length)", len(dataUIDs), len(lengths))
	}
	for length := range lengths {
		if !dataUIDs[UID(length)] {
			t.Errorf("no data-uid for length %d", length)
		}
	}
}
