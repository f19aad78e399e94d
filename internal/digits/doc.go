// Package digits implements fixed-width decimal digit sequences and their exact
// mapping to arbitrary-precision integers.
//
// A Sequence is read most-significant digit first. Leading zeros are kept in the
// sequence but carry no weight in the integer value, so the width of a sequence
// is a property of the sequence, not of the number it encodes.
//
// # Round Trip
//
// For every valid Sequence s:
//
//	v := digits.ToInteger(s)
//	t, _ := digits.FromInteger(v, s.Len())
//	// t.Equal(s) == true
//
// FromInteger never truncates: a value whose decimal form is wider than the
// requested length yields ErrLengthOverflow.
//
// # Error Handling
//
// Errors are sentinel values tested with errors.Is:
//   - ErrLengthOverflow: the integer needs more digits than the sequence width
//   - ErrInvalidDigit: a digit outside [0,9] or a non-digit character
//   - ErrInvalidPosition: a position outside [0, Len())
//   - ErrInvalidModulus: a pixel modulus other than 9 or 10
//
// ErrInvalidDigit and ErrInvalidPosition indicate caller bugs and are never
// worth retrying.
package digits
