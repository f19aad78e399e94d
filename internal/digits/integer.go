package digits

import (
	"fmt"
	"math/big"

	"github.com/remyoudompheng/bigfft"
)

// fftParseThreshold is the width above which parsing switches to bigfft's
// subquadratic decimal conversion.
const fftParseThreshold = 2000

// ToInteger returns the base-10 value of the sequence. An empty sequence is 0.
//
// The sequence must already be valid; digits above 9 produce a wrong value
// rather than an error. Use Validate first for untrusted input.
func ToInteger(s Sequence) *big.Int {
	if len(s) == 0 {
		return new(big.Int)
	}
	lit := s.String()
	if len(s) >= fftParseThreshold {
		return bigfft.FromDecimalString(lit)
	}
	v, ok := new(big.Int).SetString(lit, 10)
	if !ok {
		// Only reachable with digits above 9.
		return new(big.Int)
	}
	return v
}

// FromInteger renders v in base 10, left-padded with zeros to length.
//
// Returns:
//   - ErrNegative if v < 0.
//   - ErrLengthOverflow if the decimal form of v is wider than length.
func FromInteger(v *big.Int, length int) (Sequence, error) {
	if v.Sign() < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNegative, v.String())
	}
	lit := v.Text(10)
	if v.Sign() == 0 {
		lit = ""
	}
	if len(lit) > length {
		return nil, fmt.Errorf("%w: %d digits into %d", ErrLengthOverflow, len(lit), length)
	}

	seq := make(Sequence, length)
	offset := length - len(lit)
	for i := 0; i < len(lit); i++ {
		seq[offset+i] = lit[i] - '0'
	}
	return seq, nil
}

// Bytes returns the big-endian byte encoding of the sequence's value, matching
// big.Int.Bytes.
func Bytes(s Sequence) []byte {
	return ToInteger(s).Bytes()
}

// FromBytes interprets b as a big-endian unsigned integer and renders it as a
// sequence of the given length.
func FromBytes(b []byte, length int) (Sequence, error) {
	return FromInteger(new(big.Int).SetBytes(b), length)
}
