package domain

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Entry is one (value, weight) pair in a WeightedPool.
type Entry[T any] struct {
	Value  T
	Weight float64
}

// WeightedPool is an ordered table from which a value is drawn with
// probability proportional to its weight, indexed by cumulative-weight
// comparison against a uniform draw u in [0, 1).
//
// Invariant: the last entry's effective weight is inflated so that
// every u in [0, 1) terminates within the table even under
// floating-point drift in the running sum — see build().
type WeightedPool[T any] struct {
	entries   []Entry[T]
	prefix    []float64 // prefix[i] = sum of weights of entries[0..i]
	totalOrig float64   // sum of entries' own weights, before inflation
}

// NewWeightedPool builds an immutable pool from a static table. It
// panics on an empty table or a non-positive weight — both are
// construction-time bugs, not runtime conditions (the table is
// authored once at startup and never mutated).
func NewWeightedPool[T any](entries []Entry[T]) *WeightedPool[T] {
	if len(entries) == 0 {
		panic("domain: NewWeightedPool called with no entries")
	}
	p := &WeightedPool[T]{
		entries: append([]Entry[T]{}, entries...),
		prefix:  make([]float64, len(entries)),
	}
	sum := 0.0
	for i, e := range p.entries {
		if e.Weight <= 0 {
			panic(fmt.Sprintf("domain: pool entry %d has non-positive weight %v", i, e.Weight))
		}
		sum += e.Weight
		p.prefix[i] = sum
	}
	p.totalOrig = sum
	// Inflate the last prefix sum well past 1-scaled sum so a uniform
	// draw scaled by totalOrig always terminates inside the table even
	// if float64 rounding nudges the scaled value a hair past sum.
	p.prefix[len(p.prefix)-1] = sum * (1 + 1e-9) + 1e-9
	return p
}

// Sample binary-searches the prefix sums for u*sum(weights) and
// returns the first entry whose cumulative weight is >= the scaled
// draw. prefix is sorted non-decreasing by construction, so a
// search beats the linear scan this pool used before.
func (p *WeightedPool[T]) Sample(u float64) T {
	target := u * p.totalOrig
	// cmp never reports equality: it only locates the boundary between
	// cumulative weights below target and those at or above it.
	i, _ := slices.BinarySearchFunc(p.prefix, target, func(cum, target float64) int {
		if cum < target {
			return -1
		}
		return 1
	})
	if i >= len(p.entries) {
		// Unreachable given the inflated last prefix sum; kept as an
		// invariant violation rather than a silent wraparound.
		panic(fmt.Sprintf("domain: weighted pool walked past its end for u=%v", u))
	}
	return p.entries[i].Value
}

// Len reports the number of distinct entries in the pool.
func (p *WeightedPool[T]) Len() int { return len(p.entries) }

// SampleVec8 evaluates eight independent draws u in one pass, one
// result per lane — the SIMD-wide counterpart to Sample used by the
// hot loop so callers don't pay a function-call per lane.
func SampleVec8[T any](p *WeightedPool[T], u [8]float64) [8]T {
	var out [8]T
	for lane := 0; lane < 8; lane++ {
		out[lane] = p.Sample(u[lane])
	}
	return out
}

// equalPool builds a flat, equal-weight WeightedPool of n values,
// used by every closed domain set whose draw has no intrinsic skew
// (vouchers, tags, tarot/planet/spectral cards, boss blinds).
func equalPool[T any](n int, at func(int) T) *WeightedPool[T] {
	entries := make([]Entry[T], n)
	for i := range entries {
		entries[i] = Entry[T]{Value: at(i), Weight: 1}
	}
	return NewWeightedPool(entries)
}
