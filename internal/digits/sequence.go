package digits

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

var (
	// ErrLengthOverflow is returned when an integer needs more decimal digits
	// than the sequence width allows.
	ErrLengthOverflow = errors.New("value exceeds sequence length")

	// ErrInvalidDigit is returned for digits outside [0,9].
	ErrInvalidDigit = errors.New("invalid digit")

	// ErrInvalidPosition is returned for positions outside [0, Len()).
	ErrInvalidPosition = errors.New("invalid position")

	// ErrInvalidModulus is returned when a pixel modulus is neither 9 nor 10.
	ErrInvalidModulus = errors.New("invalid modulus")

	// ErrNegative is returned when converting a negative integer.
	ErrNegative = errors.New("negative value")
)

// DefaultModulus maps pixel intensities onto true decimal digits.
const DefaultModulus = 10

// Sequence is a fixed-length run of decimal digits, most significant first.
type Sequence []uint8

// FromPixels maps each pixel intensity to intensity mod modulus, keeping the
// row-major order of the input.
//
// Parameters:
//   - pixels: Grayscale intensities (0-255), row-major, one per grid cell.
//   - modulus: 10 for the full digit range, or 9 to reproduce the older
//     0-8 extraction.
//
// Returns ErrInvalidModulus for any other modulus.
func FromPixels(pixels []uint8, modulus int) (Sequence, error) {
	if modulus != 9 && modulus != 10 {
		return nil, fmt.Errorf("%w: %d (want 9 or 10)", ErrInvalidModulus, modulus)
	}
	m := uint8(modulus)
	return lo.Map(pixels, func(p uint8, _ int) uint8 {
		return p % m
	}), nil
}

// Parse reads a decimal literal into a Sequence, keeping leading zeros.
func Parse(s string) (Sequence, error) {
	seq := make(Sequence, 0, len(s))
	for i, r := range s {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("%w: %q at offset %d", ErrInvalidDigit, r, i)
		}
		seq = append(seq, uint8(r-'0'))
	}
	return seq, nil
}

// Len returns the fixed width of the sequence.
func (s Sequence) Len() int {
	return len(s)
}

// Validate reports the first digit outside [0,9].
func (s Sequence) Validate() error {
	for i, d := range s {
		if d > 9 {
			return fmt.Errorf("%w: %d at position %d", ErrInvalidDigit, d, i)
		}
	}
	return nil
}

// Substitute replaces the digit at pos in place.
func (s Sequence) Substitute(pos int, d uint8) error {
	if pos < 0 || pos >= len(s) {
		return fmt.Errorf("%w: %d (length %d)", ErrInvalidPosition, pos, len(s))
	}
	if d > 9 {
		return fmt.Errorf("%w: %d", ErrInvalidDigit, d)
	}
	s[pos] = d
	return nil
}

// Clone returns an independent copy.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// Equal reports whether both sequences have the same width and digits.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Diff returns the positions where s and other differ, in ascending order.
// Sequences of different widths are compared over the shorter one, and the
// excess positions of the longer one are reported as differing.
func (s Sequence) Diff(other Sequence) []int {
	n := max(len(s), len(other))
	return lo.Filter(lo.Range(n), func(i, _ int) bool {
		if i >= len(s) || i >= len(other) {
			return true
		}
		return s[i] != other[i]
	})
}

// String renders the digits as a decimal literal, leading zeros included.
func (s Sequence) String() string {
	var b strings.Builder
	b.Grow(len(s))
	for _, d := range s {
		b.WriteByte('0' + d)
	}
	return b.String()
}
