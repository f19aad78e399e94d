package search

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/big"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/prime-image/internal/digits"
	"github.com/ironsheep/prime-image/internal/primality"
)

var (
	// ErrSearchExhausted is returned when the iteration budget or the context
	// runs out before a prime is found.
	ErrSearchExhausted = errors.New("search exhausted")

	// ErrEmpty is returned for a zero-length sequence.
	ErrEmpty = errors.New("empty sequence")

	// ErrNoMutablePositions is returned when the leading-digit policy leaves
	// nothing to perturb and the input is not already prime.
	ErrNoMutablePositions = errors.New("no mutable positions")
)

// Options controls a proximity search.
type Options struct {
	// Positions is the number of digits rewritten per trial. Positions are
	// drawn with replacement. Default 1.
	Positions int

	// PreserveLeading keeps position 0 fixed so the magnitude of the number
	// and the top-left cell of the picture never change.
	PreserveLeading bool

	// Rounds is the Miller-Rabin witness count. Default primality.DefaultRounds.
	Rounds int

	// MaxIterations caps the number of trials across all workers.
	// Zero means unbounded.
	MaxIterations int

	// Workers is the number of goroutines running trials. Default 1.
	Workers int

	// Seed makes a single-worker search reproducible. Zero picks a random seed.
	Seed uint64

	// Logger receives progress lines every ProgressEvery trials. Nil disables
	// progress logging.
	Logger        *log.Logger
	ProgressEvery int
}

// DefaultOptions returns the settings used by the command line tool.
func DefaultOptions() Options {
	return Options{
		Positions:       1,
		PreserveLeading: true,
		Rounds:          primality.DefaultRounds,
		Workers:         1,
		ProgressEvery:   10000,
	}
}

func (o *Options) normalize() {
	if o.Positions < 1 {
		o.Positions = 1
	}
	if o.Rounds < 1 {
		o.Rounds = primality.DefaultRounds
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.MaxIterations < 0 {
		o.MaxIterations = 0
	}
	if o.ProgressEvery <= 0 {
		o.ProgressEvery = 10000
	}
	if o.Seed == 0 {
		o.Seed = rand.Uint64()
	}
}

// Result describes a successful search.
type Result struct {
	// Digits is the prime sequence, same width as the input.
	Digits digits.Sequence

	// Iterations is the number of perturbation trials performed. An input that
	// is already prime finishes with zero.
	Iterations int

	// Changed lists the positions where Digits differs from the input.
	Changed []int

	// Elapsed is the wall-clock duration of the search.
	Elapsed time.Duration
}

// Value returns the integer encoded by Digits.
func (r *Result) Value() *big.Int {
	return digits.ToInteger(r.Digits)
}

// Search looks for a probable prime of the same width as seq that differs
// from it in at most opts.Positions digits.
//
// The input is tested first; an input that is already prime is returned
// unchanged. seq itself is never modified.
//
// # Errors
//
//   - ErrEmpty for a zero-length sequence
//   - digits.ErrInvalidDigit if seq holds a digit above 9
//   - ErrNoMutablePositions when only the preserved leading digit exists
//   - ErrSearchExhausted when MaxIterations is reached; when ctx ends first the
//     error also wraps ctx.Err()
func Search(ctx context.Context, seq digits.Sequence, opts Options) (*Result, error) {
	if seq.Len() == 0 {
		return nil, ErrEmpty
	}
	if err := seq.Validate(); err != nil {
		return nil, err
	}
	opts.normalize()
	start := time.Now()

	if primality.NewOracle(opts.Rounds, int64(opts.Seed)).ProbablyPrime(digits.ToInteger(seq)) {
		return &Result{
			Digits:  seq.Clone(),
			Changed: []int{},
			Elapsed: time.Since(start),
		}, nil
	}

	low := 0
	if opts.PreserveLeading {
		low = 1
	}
	if low >= seq.Len() {
		return nil, fmt.Errorf("%w: length %d with leading digit preserved", ErrNoMutablePositions, seq.Len())
	}

	if opts.Logger != nil {
		opts.Logger.Printf("Searching %s-digit number with %d worker(s)", humanize.Comma(int64(seq.Len())), opts.Workers)
	}

	var (
		found digits.Sequence
		n     int
		err   error
	)
	if opts.Workers == 1 {
		found, n, err = searchSerial(ctx, seq, low, opts)
	} else {
		found, n, err = searchParallel(ctx, seq, low, opts)
	}
	if err != nil {
		return nil, err
	}

	return &Result{
		Digits:     found,
		Iterations: n,
		Changed:    seq.Diff(found),
		Elapsed:    time.Since(start),
	}, nil
}

func searchSerial(ctx context.Context, seq digits.Sequence, low int, opts Options) (digits.Sequence, int, error) {
	w := newWalker(seq, low, opts, 0)
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return nil, n - 1, exhausted(err)
		}
		if opts.MaxIterations > 0 && n > opts.MaxIterations {
			return nil, n - 1, fmt.Errorf("%w: no prime after %s trials", ErrSearchExhausted, humanize.Comma(int64(opts.MaxIterations)))
		}
		if w.trial() {
			return w.seq, n, nil
		}
		if opts.Logger != nil && n%opts.ProgressEvery == 0 {
			opts.Logger.Printf("Tested %s candidates", humanize.Comma(int64(n)))
		}
	}
}

func searchParallel(parent context.Context, seq digits.Sequence, low int, opts Options) (digits.Sequence, int, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var (
		once   sync.Once
		winner digits.Sequence
		total  atomic.Int64
		budget = int64(opts.MaxIterations)
	)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < opts.Workers; i++ {
		w := newWalker(seq, low, opts, uint64(i)+1)
		g.Go(func() error {
			for gctx.Err() == nil {
				n := total.Add(1)
				if budget > 0 && n > budget {
					total.Add(-1)
					return nil
				}
				if w.trial() {
					once.Do(func() {
						winner = w.seq
						cancel()
					})
					return nil
				}
				if opts.Logger != nil && n%int64(opts.ProgressEvery) == 0 {
					opts.Logger.Printf("Tested %s candidates", humanize.Comma(n))
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	n := int(total.Load())
	if winner != nil {
		return winner, n, nil
	}
	if err := parent.Err(); err != nil {
		return nil, n, exhausted(err)
	}
	return nil, n, fmt.Errorf("%w: no prime after %s trials", ErrSearchExhausted, humanize.Comma(int64(n)))
}

func exhausted(cause error) error {
	return fmt.Errorf("%w: %w", ErrSearchExhausted, cause)
}
