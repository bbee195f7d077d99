package bitpattern

import "testing"

func TestParseRejectsEmpty(t *testing.T) {
	if _, err := Parse(""); err == nil {
		t.Fatal("expected error parsing empty pattern")
	}
}

func TestParseRejectsIllegalChar(t *testing.T) {
	if _, err := Parse("10a1"); err == nil {
		t.Fatal("expected error parsing pattern with illegal character")
	}
}

func TestParseAndStringRoundTrip(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10x1", "10x1"},
		{"11x00x11", "11x00x11"},
		{"0", "0"},
		{"XxOo..", "xxxxxx"},
		{"1", "1"},
	}

	for _, tt := range tests {
		p, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.in, err)
		}
		if got := p.String(); got != tt.want {
			t.Errorf("Parse(%q).String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseExample(t *testing.T) {
	p, err := Parse("10x1")
	if err != nil {
		t.Fatal(err)
	}
	if p.FixedMask != 0xD {
		t.Errorf("fixedmask = 0x%x, want 0xd", p.FixedMask)
	}
	if p.FixedBits != 0x9 {
		t.Errorf("fixedbits = 0x%x, want 0x9", p.FixedBits)
	}
	if p.BitLength != 4 {
		t.Errorf("bit_length = %d, want 4", p.BitLength)
	}
}

func TestInvariantParsePrintRoundTrip(t *testing.T) {
	patterns := []string{"11x00x11", "0x", "11", "xxxx", "000", "111xxx1"}
	for _, s := range patterns {
		p, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		back, err := Parse(p.String())
		if err != nil {
			t.Fatalf("Parse(String()): %v", err)
		}
		if back != p {
			t.Errorf("parse(print(p)) != p for %q: got %+v, want %+v", s, back, p)
		}
	}
}

func TestCombine(t *testing.T) {
	p1 := MustNew(0b111, 0b101, 3)
	p2 := MustNew(0b101, 0b101, 3)

	combined, err := p1.Combine(p2)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if combined.FixedMask != 0b111 || combined.FixedBits != 0b101 {
		t.Errorf("combined = %+v, want mask=0b111 bits=0b101", combined)
	}
}

func TestCombineConflict(t *testing.T) {
	p1 := MustNew(0b1, 0b1, 4) // fixes bit 0 to 1
	p2 := MustNew(0b1, 0b0, 4) // fixes bit 0 to 0

	if _, err := p1.Combine(p2); err == nil {
		t.Fatal("expected conflict error")
	}
}

func TestCombineDifferentLength(t *testing.T) {
	p1 := MustNew(0, 0, 4)
	p2 := MustNew(0, 0, 8)
	if _, err := p1.Combine(p2); err == nil {
		t.Fatal("expected width error combining different-length patterns")
	}
}

func TestSplitByMaskAndCombineRoundTrip(t *testing.T) {
	orig := MustNew(0b111, 0b101, 3)

	inner, outer, err := orig.SplitByMask(0b101)
	if err != nil {
		t.Fatalf("SplitByMask: %v", err)
	}
	if inner.FixedMask != 0b101 || inner.FixedBits != 0b101 {
		t.Errorf("inner = %+v", inner)
	}
	if outer.FixedMask != 0b010 || outer.FixedBits != 0 {
		t.Errorf("outer = %+v", outer)
	}

	recombined, err := inner.Combine(outer)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if recombined != orig {
		t.Errorf("recombined = %+v, want %+v", recombined, orig)
	}
}

func TestSplitByMaskRejectsUncontainedMask(t *testing.T) {
	p := MustNew(0b100, 0b100, 3)
	if _, _, err := p.SplitByMask(0b011); err == nil {
		t.Fatal("expected error for mask not contained in fixedmask")
	}
}

func TestExtendAndShiftToMSB(t *testing.T) {
	p, err := Parse("101x")
	if err != nil {
		t.Fatal(err)
	}
	ext, err := p.ExtendAndShiftToMSB(8)
	if err != nil {
		t.Fatalf("ExtendAndShiftToMSB: %v", err)
	}
	if got, want := ext.String(), "101xxxxx"; got != want {
		t.Errorf("extended = %q, want %q", got, want)
	}
}

func TestExtendAndShiftToMSBSameWidth(t *testing.T) {
	p := MustNew(0b1, 0b1, 4)
	ext, err := p.ExtendAndShiftToMSB(4)
	if err != nil {
		t.Fatal(err)
	}
	if ext != p {
		t.Errorf("extending to same width should be identity, got %+v", ext)
	}
}

func TestExtendAndShiftToMSBRejectsSmallerTarget(t *testing.T) {
	p := MustNew(0, 0, 8)
	if _, err := p.ExtendAndShiftToMSB(4); err == nil {
		t.Fatal("expected error extending to smaller width")
	}
}

func TestTrailingWildcardCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"11xx", 2},
		{"1111", 0},
		{"xxxx", 4},
		{"1x1x", 1},
	}
	for _, tt := range tests {
		p, err := Parse(tt.in)
		if err != nil {
			t.Fatal(err)
		}
		if got := p.TrailingWildcardCount(); got != tt.want {
			t.Errorf("TrailingWildcardCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestExtractFromMSB(t *testing.T) {
	p, err := Parse("1100xxxx")
	if err != nil {
		t.Fatal(err)
	}
	top, err := p.ExtractFromMSB(4)
	if err != nil {
		t.Fatalf("ExtractFromMSB: %v", err)
	}
	if got, want := top.String(), "1100"; got != want {
		t.Errorf("top 4 bits = %q, want %q", got, want)
	}
}

func TestExtractFromMSBRejectsOverflow(t *testing.T) {
	p := MustNew(0, 0, 4)
	if _, err := p.ExtractFromMSB(5); err == nil {
		t.Fatal("expected error extracting more bits than available")
	}
}

func TestSpecificity(t *testing.T) {
	p, err := Parse("11xxxxx0")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := p.Specificity(), 3; got != want {
		t.Errorf("Specificity() = %d, want %d", got, want)
	}
}

func TestMask(t *testing.T) {
	tests := []struct {
		width int
		want  uint64
	}{
		{0, 0},
		{3, 0b111},
		{8, 0xFF},
	}
	for _, tt := range tests {
		if got := Mask(tt.width); got != tt.want {
			t.Errorf("Mask(%d) = 0x%x, want 0x%x", tt.width, got, tt.want)
		}
	}
}
