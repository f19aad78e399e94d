// Package primality decides whether arbitrary-precision integers are probably
// prime.
//
// Values that fit in 64 bits are decided exactly. Larger values go through
// trial division by small primes and then a configurable number of
// Miller-Rabin rounds, each with an independently drawn random witness. A
// composite survives k rounds with probability at most 4^-k; the default of
// two rounds is meant for picture-making, not for key generation.
//
// # Thread Safety
//
// IsProbablyPrime is safe for concurrent use. An Oracle owns a random source
// and must not be shared between goroutines; give each worker its own.
package primality
