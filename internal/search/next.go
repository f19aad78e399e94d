package search

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ironsheep/prime-image/internal/digits"
	"github.com/ironsheep/prime-image/internal/primality"
)

// NextPrime returns the smallest probable prime that is at least the value of
// seq, rendered at the same width.
//
// Unlike Search, the walk is deterministic and usually rewrites the trailing
// digits of the picture. It fails with digits.ErrLengthOverflow when the next
// prime needs an extra digit, and honours opts.MaxIterations, opts.Rounds and
// ctx like Search. Other options are ignored.
func NextPrime(ctx context.Context, seq digits.Sequence, opts Options) (*Result, error) {
	if seq.Len() == 0 {
		return nil, ErrEmpty
	}
	if err := seq.Validate(); err != nil {
		return nil, err
	}
	opts.normalize()
	start := time.Now()

	oracle := primality.NewOracle(opts.Rounds, int64(opts.Seed))
	v := digits.ToInteger(seq)
	two := big.NewInt(2)

	switch {
	case v.Cmp(two) < 0:
		v.Set(two)
	case v.Bit(0) == 0 && v.Cmp(two) != 0:
		v.Add(v, big.NewInt(1))
	}

	// v is now 2 or odd, and 2 is prime, so odd steps cover every candidate.
	iterations := 0
	for !oracle.ProbablyPrime(v) {
		if err := ctx.Err(); err != nil {
			return nil, exhausted(err)
		}
		iterations++
		if opts.MaxIterations > 0 && iterations > opts.MaxIterations {
			return nil, fmt.Errorf("%w: no prime within %s odd successors", ErrSearchExhausted, humanize.Comma(int64(opts.MaxIterations)))
		}
		v.Add(v, two)
	}

	found, err := digits.FromInteger(v, seq.Len())
	if err != nil {
		return nil, fmt.Errorf("failed to fit next prime into %d digits: %w", seq.Len(), err)
	}
	return &Result{
		Digits:     found,
		Iterations: iterations,
		Changed:    seq.Diff(found),
		Elapsed:    time.Since(start),
	}, nil
}
