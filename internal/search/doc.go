// Package search finds a prime close to a given digit sequence.
//
// The search is a randomized hill climb over digit substitutions. Each trial
// overwrites a few random positions with random digits, tests the resulting
// integer with a Miller-Rabin oracle, and either stops (probable prime) or
// restores every touched position before the next trial. The working copy
// never accumulates rejected changes, so the result differs from the input in
// at most Options.Positions places.
//
// # Termination
//
// Primes near an n-digit number occur roughly once every 2.3*n integers, so
// most inputs terminate quickly, but some never can: with the leading digit
// fixed and one position per trial, "200" has no prime neighbour at all. Use
// Options.MaxIterations or a context deadline to bound the work; running out
// yields ErrSearchExhausted.
//
// # Workers
//
// With Options.Workers > 1 the trials run on several goroutines. Each worker
// owns a private copy of the sequence and its own oracle; the first worker to
// find a prime publishes its copy and the others are cancelled.
package search
