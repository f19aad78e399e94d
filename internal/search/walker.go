package search

import (
	"math/rand/v2"

	"github.com/ironsheep/prime-image/internal/digits"
	"github.com/ironsheep/prime-image/internal/primality"
)

// change records a position and the digit it held before a trial.
type change struct {
	pos int
	old uint8
}

// walker owns one private working copy of the sequence.
type walker struct {
	seq       digits.Sequence
	low       int
	positions int
	rng       *rand.Rand
	oracle    *primality.Oracle
	undo      []change
}

// newWalker clones seq; stream separates the random streams of parallel
// workers that share a seed.
func newWalker(seq digits.Sequence, low int, opts Options, stream uint64) *walker {
	return &walker{
		seq:       seq.Clone(),
		low:       low,
		positions: opts.Positions,
		rng:       rand.New(rand.NewPCG(opts.Seed, stream)),
		oracle:    primality.NewOracle(opts.Rounds, int64(opts.Seed^stream)|1),
		undo:      make([]change, 0, opts.Positions),
	}
}

// trial perturbs, tests, and rolls back on failure. It reports whether the
// working copy now holds a probable prime.
func (w *walker) trial() bool {
	w.perturb()
	if w.oracle.ProbablyPrime(digits.ToInteger(w.seq)) {
		w.undo = w.undo[:0]
		return true
	}
	w.rollback()
	return false
}

func (w *walker) perturb() {
	w.undo = w.undo[:0]
	span := len(w.seq) - w.low
	for i := 0; i < w.positions; i++ {
		pos := w.low + w.rng.IntN(span)
		w.undo = append(w.undo, change{pos: pos, old: w.seq[pos]})
		w.seq[pos] = uint8(w.rng.IntN(10))
	}
}

// rollback restores in reverse so a position drawn twice ends up with the
// digit it held before the first draw.
func (w *walker) rollback() {
	for i := len(w.undo) - 1; i >= 0; i-- {
		c := w.undo[i]
		w.seq[c.pos] = c.old
	}
	w.undo = w.undo[:0]
}
