package evaluate

import (
	"fmt"

	"github.com/MJE43/balatro-seed-search/internal/domain"
	"github.com/MJE43/balatro-seed-search/internal/filter"
	"github.com/MJE43/balatro-seed-search/internal/rng"
	"github.com/MJE43/balatro-seed-search/internal/sim"
)

// jokerEvaluator samples every declared (ante, source-slot) pair's
// joker composite and counts matches on identity (or "Any") plus an
// optional edition. soul restricts sampling to the soul-joker kernel
// (legendary pool, pack slots only — a shop never offers a legendary
// joker directly).
//
// requireMega on the clause is accepted but not enforced: the sampler
// has no notion of which pack slot was opened from a mega pack versus
// a normal one, so mega-gating cannot be observed from a joker draw
// alone (see DESIGN.md).
type jokerEvaluator struct {
	clause  *filter.NormalizedClause
	soul    bool
	wantAny bool
	want    domain.Joker
	wantEd  domain.Edition
	hasEd   bool
}

func newJokerEvaluator(c *filter.NormalizedClause, soul bool) (Evaluator, error) {
	e := &jokerEvaluator{clause: c, soul: soul}
	if c.Values[0] == filter.AnyValue {
		e.wantAny = true
	} else {
		want, ok := domain.ParseJoker(c.Values[0])
		if !ok {
			return nil, fmt.Errorf("evaluate: unknown joker %q", c.Values[0])
		}
		e.want = want
	}
	if ed, ok := parseEdition(c.Edition); ok {
		e.wantEd, e.hasEd = ed, true
	}
	return e, nil
}

func (e *jokerEvaluator) Evaluate(ctx *sim.Context) (rng.Mask8, Tally) {
	live := ctx.LiveMask()
	var counts [rng.Lanes]int
	for _, ante := range e.clause.Antes {
		if !e.soul {
			for _, slot := range filter.CapSlotsForAnte(ante, e.clause.ShopSlots, true) {
				draws := sim.JokerAppearance(ctx, ante, sim.Source{Shop: true, Slot: slot})
				e.accumulate(draws, live, &counts)
			}
		}
		for _, slot := range filter.CapSlotsForAnte(ante, e.clause.PackSlots, false) {
			var draws [rng.Lanes]sim.JokerDraw
			if e.soul {
				draws = sim.SoulJokerAppearance(ctx, ante, sim.Source{Shop: false, Slot: slot})
			} else {
				draws = sim.JokerAppearance(ctx, ante, sim.Source{Shop: false, Slot: slot})
			}
			e.accumulate(draws, live, &counts)
		}
	}
	return maskFromCounts(counts, e.clause.Min, live), tallyFromCounts(counts)
}

func (e *jokerEvaluator) accumulate(draws [rng.Lanes]sim.JokerDraw, live rng.Mask8, counts *[rng.Lanes]int) {
	for lane := 0; lane < rng.Lanes; lane++ {
		if !live.Lane(lane) {
			continue
		}
		if !e.wantAny && draws[lane].Joker != e.want {
			continue
		}
		if e.hasEd && draws[lane].Edition != e.wantEd {
			continue
		}
		counts[lane]++
	}
}

// soulJokerEditionOnlyEvaluator skips the identity check entirely: a
// lane passes once any legendary joker with the demanded edition is
// drawn within the clause's antes/pack slots — the cheapest possible
// check, which is why this category runs first when present.
type soulJokerEditionOnlyEvaluator struct {
	clause *filter.NormalizedClause
	wantEd domain.Edition
}

func newSoulJokerEditionOnlyEvaluator(c *filter.NormalizedClause) (Evaluator, error) {
	ed, ok := parseEdition(c.Edition)
	if !ok {
		return nil, fmt.Errorf("evaluate: SoulJokerEditionOnly clause has no edition constraint")
	}
	return &soulJokerEditionOnlyEvaluator{clause: c, wantEd: ed}, nil
}

func (e *soulJokerEditionOnlyEvaluator) Evaluate(ctx *sim.Context) (rng.Mask8, Tally) {
	live := ctx.LiveMask()
	var counts [rng.Lanes]int
	for _, ante := range e.clause.Antes {
		for _, slot := range filter.CapSlotsForAnte(ante, e.clause.PackSlots, false) {
			draws := sim.SoulJokerAppearance(ctx, ante, sim.Source{Shop: false, Slot: slot})
			for lane := 0; lane < rng.Lanes; lane++ {
				if live.Lane(lane) && draws[lane].Edition == e.wantEd {
					counts[lane]++
				}
			}
		}
	}
	return maskFromCounts(counts, e.clause.Min, live), tallyFromCounts(counts)
}
