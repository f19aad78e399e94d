package primality

import (
	"math"
	"math/big"
	"math/rand"

	"modernc.org/mathutil"
)

// DefaultRounds is the number of Miller-Rabin witnesses used when the caller
// does not ask for more.
const DefaultRounds = 2

// smallPrimeLimit bounds the trial-division table.
const smallPrimeLimit = 1000

var (
	bigTwo = big.NewInt(2)

	// smallPrimes holds the odd primes below smallPrimeLimit.
	smallPrimes []uint64

	// primeGroups partitions smallPrimes so that each group's product fits in a
	// uint64; one big-number reduction per group replaces one per prime.
	primeGroups []primeGroup
)

type primeGroup struct {
	product *big.Int
	primes  []uint64
}

func init() {
	for p := uint32(3); p < smallPrimeLimit; p += 2 {
		if mathutil.IsPrime(p) {
			smallPrimes = append(smallPrimes, uint64(p))
		}
	}

	var cur primeGroup
	prod := uint64(1)
	for _, p := range smallPrimes {
		if prod > math.MaxUint64/p {
			cur.product = new(big.Int).SetUint64(prod)
			primeGroups = append(primeGroups, cur)
			cur, prod = primeGroup{}, 1
		}
		prod *= p
		cur.primes = append(cur.primes, p)
	}
	if len(cur.primes) > 0 {
		cur.product = new(big.Int).SetUint64(prod)
		primeGroups = append(primeGroups, cur)
	}
}

// Oracle is a Miller-Rabin tester with a fixed round count and a private
// random source for witness selection.
type Oracle struct {
	rounds int
	rng    *rand.Rand
}

// NewOracle creates an Oracle. Rounds below 1 are raised to 1. A zero seed
// draws one from the global source.
func NewOracle(rounds int, seed int64) *Oracle {
	if rounds < 1 {
		rounds = 1
	}
	if seed == 0 {
		seed = rand.Int63()
	}
	return &Oracle{
		rounds: rounds,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Rounds returns the number of witness trials per test.
func (o *Oracle) Rounds() int {
	return o.rounds
}

// ProbablyPrime reports whether n is probably prime.
//
// The answer "false" is always correct. The answer "true" is exact for n
// below 2^64 and otherwise wrong with probability at most 4^-Rounds().
func (o *Oracle) ProbablyPrime(n *big.Int) bool {
	if n.Sign() <= 0 {
		return false
	}
	if n.IsUint64() {
		return mathutil.IsPrimeUint64(n.Uint64())
	}
	if n.Bit(0) == 0 {
		return false
	}
	if hasSmallFactor(n) {
		return false
	}

	// Witnesses are drawn from [2, n-2].
	span := new(big.Int).Sub(n, big.NewInt(3))
	a := new(big.Int)
	for i := 0; i < o.rounds; i++ {
		a.Rand(o.rng, span)
		a.Add(a, bigTwo)
		if !mathutil.ProbablyPrimeBigInt(n, a) {
			return false
		}
	}
	return true
}

// IsProbablyPrime tests n with the given number of rounds using a fresh
// Oracle. Values below 2 are rejected without drawing any witness.
func IsProbablyPrime(n *big.Int, rounds int) bool {
	if n.Cmp(bigTwo) < 0 {
		return false
	}
	return NewOracle(rounds, 0).ProbablyPrime(n)
}

// hasSmallFactor reports whether n is divisible by one of the table primes.
// n must exceed every table prime.
func hasSmallFactor(n *big.Int) bool {
	r := new(big.Int)
	for _, g := range primeGroups {
		rem := r.Mod(n, g.product).Uint64()
		for _, p := range g.primes {
			if rem%p == 0 {
				return true
			}
		}
	}
	return false
}
