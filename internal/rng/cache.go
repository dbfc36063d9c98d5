package rng

import "fmt"

// Cache is a filter-creation context: clause evaluators declare the
// domain keys they will consume for one 8-lane seed batch, the cache
// builds each declared StreamSet exactly once, and evaluators then
// pull from the cache instead of re-mixing the same key repeatedly.
// This is mandatory for throughput — a naive re-mix-every-clause
// implementation runs 3-10x slower.
type Cache struct {
	seeds  [Lanes][]byte
	sets   map[string]StreamSet
	frozen bool
}

// NewCache starts a cache for the eight seeds of the current batch
// group. Seeds are raw bytes (the seed string's bytes); a nil entry
// marks a dead lane.
func NewCache(seeds [Lanes][]byte) *Cache {
	return &Cache{seeds: seeds, sets: make(map[string]StreamSet)}
}

// Declare builds the StreamSet for domainKey if it hasn't been built
// yet. Compiled evaluators call Declare for every key they will ever
// read from, during pipeline construction, before the batch's hot
// loop runs. Declaring after Freeze is an invariant violation: the
// pipeline is supposed to have declared every key it needs up front.
func (c *Cache) Declare(domainKey string) error {
	if c.frozen {
		panic(fmt.Sprintf("rng: Cache.Declare(%q) called after Freeze", domainKey))
	}
	if _, ok := c.sets[domainKey]; ok {
		return nil
	}
	set, err := NewStreamSet([]byte(domainKey), c.seeds)
	if err != nil {
		return err
	}
	c.sets[domainKey] = set
	return nil
}

// Freeze locks the cache: no further keys may be declared. Evaluators
// run only after Freeze, so any Get for an undeclared key below is a
// bug in pipeline construction, not a runtime condition to recover
// from — it panics rather than silently building (and therefore
// hiding a missing Declare call) on the hot path.
func (c *Cache) Freeze() { c.frozen = true }

// Get returns the StreamSet for a previously declared domain key.
func (c *Cache) Get(domainKey string) StreamSet {
	set, ok := c.sets[domainKey]
	if !ok {
		panic(fmt.Sprintf("rng: stream %q requested but never declared", domainKey))
	}
	return set
}

// Len reports how many distinct domain keys have been declared, used
// by tests asserting that clause-sharing actually dedupes stream
// construction across clauses with overlapping keys.
func (c *Cache) Len() int { return len(c.sets) }

// LiveMask reports which lanes have a real seed (as opposed to a dead
// tail lane in the batch's final, partial group). Evaluators consult
// this once per batch rather than re-deriving liveness from whichever
// StreamSet they happen to hold, since every StreamSet built from this
// cache shares the same dead-lane pattern.
func (c *Cache) LiveMask() Mask8 {
	var m Mask8
	for i := 0; i < Lanes; i++ {
		m = m.Set(i, c.seeds[i] != nil)
	}
	return m
}
