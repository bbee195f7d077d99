// Package bitpattern implements the fundamental value type of decoder-forge:
// a fixed-width bit pattern made of fixed bits and wildcard ("don't care")
// bits, plus the small algebra of operations the decode-tree builder needs
// (combine, split, MSB alignment, slicing).
package bitpattern

import (
	"fmt"
	"math/bits"
	"strings"
)

// Kind categorizes a bitpattern error.
type Kind int

const (
	// KindMalformed marks an empty or illegal-character pattern string.
	KindMalformed Kind = iota
	// KindWidthOverflow marks a pattern or operation that exceeds a target width.
	KindWidthOverflow
	// KindConflicting marks a Combine call over incompatible fixed bits.
	KindConflicting
)

// Error is the error type returned by every fallible operation in this
// package. It carries a Kind so callers can distinguish failure categories
// with errors.As, in the style of parser.Error/encoder.EncodingError in the
// teacher codebase.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Pattern is an immutable fixed-width bit pattern. FixedMask has a 1 bit at
// every position whose value is specified; FixedBits holds the value of
// those positions (bits outside FixedMask are always zero). All operations
// return new values rather than mutating the receiver.
type Pattern struct {
	FixedMask uint64
	FixedBits uint64
	BitLength int
}

// New constructs a Pattern, enforcing the invariants of spec §3: bit_length
// must be positive, and both fixedMask and fixedBits must fit within it.
// Bits of fixedBits outside fixedMask are cleared rather than rejected, as
// in the original's BitPattern.__init__.
func New(fixedMask, fixedBits uint64, bitLength int) (Pattern, error) {
	if bitLength <= 0 {
		return Pattern{}, newError(KindWidthOverflow, "bit_length must be positive, got %d", bitLength)
	}
	if bitLength < 64 {
		limit := uint64(1) << uint(bitLength)
		if fixedMask >= limit {
			return Pattern{}, newError(KindWidthOverflow, "fixedmask 0x%x does not fit in %d bits", fixedMask, bitLength)
		}
		if fixedBits >= limit {
			return Pattern{}, newError(KindWidthOverflow, "fixedbits 0x%x does not fit in %d bits", fixedBits, bitLength)
		}
	}

	return Pattern{
		FixedMask: fixedMask,
		FixedBits: fixedBits & fixedMask,
		BitLength: bitLength,
	}, nil
}

// MustNew is like New but panics on error; useful for compile-time-known
// patterns in tests and tables.
func MustNew(fixedMask, fixedBits uint64, bitLength int) Pattern {
	p, err := New(fixedMask, fixedBits, bitLength)
	if err != nil {
		panic(err)
	}
	return p
}

func isUndefBit(ch byte) bool {
	return ch == 'o' || ch == 'O'
}

func isWildcardBit(ch byte) bool {
	return ch == 'x' || ch == 'X' || ch == '.' || isUndefBit(ch)
}

// Parse parses a pattern string. Each character must be '0' or '1' (fixed),
// or one of 'x','X','.','o','O' (wildcard; the 'o'/'O' spelling additionally
// flags the position as architecturally undefined, which this package does
// not otherwise distinguish from a plain wildcard). The string length
// becomes BitLength and must be at least 1.
func Parse(s string) (Pattern, error) {
	if len(s) == 0 {
		return Pattern{}, newError(KindMalformed, "no empty pattern string allowed")
	}

	var mask, fixedBits uint64
	for i := 0; i < len(s); i++ {
		ch := s[i]
		bitPos := uint(len(s) - 1 - i)

		switch {
		case isWildcardBit(ch):
			// mask bit stays 0
		case ch == '0':
			mask |= 1 << bitPos
		case ch == '1':
			mask |= 1 << bitPos
			fixedBits |= 1 << bitPos
		default:
			return Pattern{}, newError(KindMalformed, "illegal character %q in pattern %q at position %d", ch, s, i)
		}
	}

	return New(mask, fixedBits, len(s))
}

// String renders the pattern: one character per bit, wildcard positions as
// 'x', fixed positions as their value, most-significant bit first.
func (p Pattern) String() string {
	var b strings.Builder
	b.Grow(p.BitLength)
	for i := p.BitLength - 1; i >= 0; i-- {
		bit := uint64(1) << uint(i)
		if p.FixedMask&bit == 0 {
			b.WriteByte('x')
			continue
		}
		if p.FixedBits&bit != 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Specificity is the popcount of FixedMask — the number of specified
// (non-wildcard) bit positions. Used to order siblings in a decode tree.
func (p Pattern) Specificity() int {
	return bits.OnesCount64(p.FixedMask)
}

// Combine merges two patterns of equal BitLength. The result's FixedMask is
// the union of both masks and its FixedBits the union of both bit values.
// Fails if the patterns disagree on the value of any bit both specify.
func (p Pattern) Combine(other Pattern) (Pattern, error) {
	if p.BitLength != other.BitLength {
		return Pattern{}, newError(KindWidthOverflow, "cannot combine patterns of different bit length (%d vs %d)", p.BitLength, other.BitLength)
	}

	newMask := p.FixedMask | other.FixedMask
	newBits := p.FixedBits | other.FixedBits

	if newBits&p.FixedMask != p.FixedBits {
		return Pattern{}, newError(KindConflicting, "conflicting patterns %s and %s cannot be combined", p, other)
	}
	if newBits&other.FixedMask != other.FixedBits {
		return Pattern{}, newError(KindConflicting, "conflicting patterns %s and %s cannot be combined", p, other)
	}

	return Pattern{FixedMask: newMask, FixedBits: newBits, BitLength: p.BitLength}, nil
}

// SplitByMask splits the pattern into the part selected by mask (inner) and
// the remaining fixed bits (outer). mask must be a subset of FixedMask.
func (p Pattern) SplitByMask(mask uint64) (inner, outer Pattern, err error) {
	if (p.FixedMask | mask) != p.FixedMask {
		return Pattern{}, Pattern{}, newError(KindWidthOverflow, "mask 0x%x is not contained in fixedmask 0x%x of %s", mask, p.FixedMask, p)
	}

	inner = Pattern{FixedMask: mask, FixedBits: p.FixedBits & mask, BitLength: p.BitLength}
	outer = Pattern{FixedMask: p.FixedMask &^ mask, FixedBits: p.FixedBits &^ mask, BitLength: p.BitLength}
	return inner, outer, nil
}

// ExtendAndShiftToMSB extends the pattern to targetLen bits, shifting the
// existing fixed bits to occupy the most-significant positions of the wider
// pattern; the newly introduced low-order bits are wildcards.
func (p Pattern) ExtendAndShiftToMSB(targetLen int) (Pattern, error) {
	if targetLen < p.BitLength {
		return Pattern{}, newError(KindWidthOverflow, "target length %d is smaller than pattern's bit length %d", targetLen, p.BitLength)
	}
	if targetLen == p.BitLength {
		return p, nil
	}

	shift := uint(targetLen - p.BitLength)
	return Pattern{
		FixedMask: p.FixedMask << shift,
		FixedBits: p.FixedBits << shift,
		BitLength: targetLen,
	}, nil
}

// TrailingWildcardCount returns the number of contiguous wildcard positions
// at the low-order end of the pattern.
func (p Pattern) TrailingWildcardCount() int {
	count := 0
	for i := 0; i < p.BitLength; i++ {
		if p.FixedMask&(1<<uint(i)) != 0 {
			break
		}
		count++
	}
	return count
}

// ExtractFromMSB returns the top k bits of the pattern as a new, narrower
// pattern.
func (p Pattern) ExtractFromMSB(k int) (Pattern, error) {
	if k < 0 || k > p.BitLength {
		return Pattern{}, newError(KindWidthOverflow, "cannot extract %d bits from a %d-bit pattern", k, p.BitLength)
	}
	if k == 0 {
		return New(0, 0, 1)
	}

	shift := uint(p.BitLength - k)
	topMask := Mask(k)
	return Pattern{
		FixedMask: (p.FixedMask >> shift) & topMask,
		FixedBits: (p.FixedBits >> shift) & topMask,
		BitLength: k,
	}, nil
}

// Mask returns an integer with the low `width` bits set — the Go port of
// the original's bit_utils.create_bit_mask, kept around because emitters
// need a plain bitmask helper alongside the decode tree (see forge.Context).
func Mask(width int) uint64 {
	if width <= 0 {
		return 0
	}
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(width)) - 1
}
