package evaluate

import (
	"fmt"
	"sort"

	"github.com/MJE43/balatro-seed-search/internal/domain"
	"github.com/MJE43/balatro-seed-search/internal/filter"
	"github.com/MJE43/balatro-seed-search/internal/rng"
	"github.com/MJE43/balatro-seed-search/internal/sim"
)

// eventEvaluator counts how many of a clause's requested occurrences
// of a named mid-run event actually trigger. The wire clause schema
// has no dedicated occurrence-index list, so an Event clause's Antes
// field is repurposed here as that index list (already validated to
// [1,8] by filter.Normalize) — an event can fire at most eight times
// per tracked run, one slot per ante. Antes are sorted ascending,
// deduplicated, and shifted to 0-based roll indices before use, since
// sim.Context.EventRoll requires each lane's indices requested in
// non-decreasing order and a repeated index names the same occurrence.
type eventEvaluator struct {
	clause  *filter.NormalizedClause
	name    string
	indices []uint64
	wantEd  domain.Edition
	hasEd   bool
}

func newEventEvaluator(c *filter.NormalizedClause) (Evaluator, error) {
	name := c.Values[0]
	antes := append([]int(nil), c.Antes...)
	sort.Ints(antes)
	indices := make([]uint64, 0, len(antes))
	for _, a := range antes {
		idx := uint64(a - 1)
		if n := len(indices); n > 0 && indices[n-1] == idx {
			continue
		}
		indices = append(indices, idx)
	}
	e := &eventEvaluator{clause: c, name: name, indices: indices}
	if name == sim.EventWheelOfFortune {
		if ed, ok := parseEdition(c.Edition); ok {
			e.wantEd, e.hasEd = ed, true
		}
	}
	return e, nil
}

func (e *eventEvaluator) Evaluate(ctx *sim.Context) (rng.Mask8, Tally) {
	live := ctx.LiveMask()
	var counts [rng.Lanes]int
	switch e.name {
	case sim.EventLuckyMoney:
		for _, idx := range e.indices {
			outcomes := sim.LuckyCardRoll(ctx, idx)
			for lane := 0; lane < rng.Lanes; lane++ {
				if live.Lane(lane) && outcomes[lane].MoneyTriggered {
					counts[lane]++
				}
			}
		}
	case sim.EventLuckyMult:
		for _, idx := range e.indices {
			outcomes := sim.LuckyCardRoll(ctx, idx)
			for lane := 0; lane < rng.Lanes; lane++ {
				if live.Lane(lane) && outcomes[lane].MultTriggered {
					counts[lane]++
				}
			}
		}
	case sim.EventMisprintMult:
		// No numeric threshold field exists on the wire clause, so every
		// requested occurrence counts — this event only ever reports how
		// many times it was rolled, not whether any particular mult came up.
		for _, idx := range e.indices {
			sim.MisprintRoll(ctx, idx)
			for lane := 0; lane < rng.Lanes; lane++ {
				if live.Lane(lane) {
					counts[lane]++
				}
			}
		}
	case sim.EventWheelOfFortune:
		for _, idx := range e.indices {
			editions := sim.WheelOfFortuneRoll(ctx, idx)
			for lane := 0; lane < rng.Lanes; lane++ {
				if !live.Lane(lane) {
					continue
				}
				if e.hasEd {
					if editions[lane] == e.wantEd {
						counts[lane]++
					}
				} else if editions[lane] != domain.EditionNone {
					counts[lane]++
				}
			}
		}
	case sim.EventCavendish, sim.EventGrosMichel:
		for _, idx := range e.indices {
			fired := sim.ExtinctionRoll(ctx, e.name, idx)
			for lane := 0; lane < rng.Lanes; lane++ {
				if live.Lane(lane) && fired[lane] {
					counts[lane]++
				}
			}
		}
	default:
		panic(fmt.Sprintf("evaluate: unhandled event name %q", e.name))
	}
	return maskFromCounts(counts, e.clause.Min, live), tallyFromCounts(counts)
}
