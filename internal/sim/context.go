package sim

import "github.com/MJE43/balatro-seed-search/internal/rng"

// MaxAnte is the highest ante the run simulator ever samples.
const MaxAnte = 8

// MaxShopSlots and MaxPackSlots are the per-ante slot caps before the
// ante-1 restriction is applied (filter.CapSlotsForAnte caps ante 1 to
// [0..3]; the sampler itself always offers the full range so a filter
// clause's slot list controls what is actually sampled).
const (
	MaxShopSlots = 6
	MaxPackSlots = 6
)

// Context pins the run-level parameters (deck, stake) that several
// kernels condition on, plus the frozen per-batch stream cache every
// kernel reads from. One Context is built per evaluated seed batch
// and discarded once the batch's evaluators finish.
type Context struct {
	Deck  int // domain.Deck, kept as int to avoid an import cycle with filter/evaluate consumers that pass raw ordinals
	Stake int // domain.Stake
	Cache *rng.Cache

	// bossHistory tracks, per lane, the bosses drawn on the most
	// recent antes up to bossHistoryWindow back — the boss sampler's
	// "no repeat within window" state.
	bossHistory [rng.Lanes][]int

	// cursors tracks per-event, per-lane draw progress for the
	// out-of-order event-roll index contract (see EventRoll).
	cursors map[string]*eventCursor
}

const bossHistoryWindow = 3

// NewContext wraps a frozen cache with the run parameters every
// kernel needs. Cache must already be frozen: kernels only run after
// the evaluator pipeline has declared every key it will need.
func NewContext(deck, stake int, cache *rng.Cache) *Context {
	return &Context{Deck: deck, Stake: stake, Cache: cache}
}

func (c *Context) drawVec(domainKey string) rng.Vec8 {
	return c.Cache.Get(domainKey).NextVec8()
}

// LiveMask reports which lanes carry a real seed for this batch.
func (c *Context) LiveMask() rng.Mask8 { return c.Cache.LiveMask() }

func (c *Context) recordBoss(lane int, boss int) {
	h := c.bossHistory[lane]
	h = append(h, boss)
	if len(h) > bossHistoryWindow {
		h = h[len(h)-bossHistoryWindow:]
	}
	c.bossHistory[lane] = h
}

func (c *Context) bossRecentlySeen(lane int, boss int) bool {
	for _, b := range c.bossHistory[lane] {
		if b == boss {
			return true
		}
	}
	return false
}
