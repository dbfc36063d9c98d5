package evaluate

import (
	"fmt"
	"strings"

	"github.com/MJE43/balatro-seed-search/internal/domain"
	"github.com/MJE43/balatro-seed-search/internal/filter"
	"github.com/MJE43/balatro-seed-search/internal/rng"
	"github.com/MJE43/balatro-seed-search/internal/sim"
)

// Tarot/planet/spectral clauses only ever enumerate pack slots — no
// shop sells consumable cards directly.

type tarotEvaluator struct {
	clause *filter.NormalizedClause
	want   domain.Tarot
	wantEd domain.Edition
	hasEd  bool
}

func newTarotEvaluator(c *filter.NormalizedClause) (Evaluator, error) {
	want, ok := domain.ParseTarot(c.Values[0])
	if !ok {
		return nil, fmt.Errorf("evaluate: unknown tarot %q", c.Values[0])
	}
	e := &tarotEvaluator{clause: c, want: want}
	if ed, ok := parseEdition(c.Edition); ok {
		e.wantEd, e.hasEd = ed, true
	}
	return e, nil
}

func (e *tarotEvaluator) Evaluate(ctx *sim.Context) (rng.Mask8, Tally) {
	live := ctx.LiveMask()
	var counts [rng.Lanes]int
	for _, ante := range e.clause.Antes {
		for _, slot := range filter.CapSlotsForAnte(ante, e.clause.PackSlots, false) {
			draws := sim.TarotPackDraw(ctx, ante, slot)
			for lane := 0; lane < rng.Lanes; lane++ {
				if !live.Lane(lane) || draws[lane].Card != e.want {
					continue
				}
				if e.hasEd && draws[lane].Edition != e.wantEd {
					continue
				}
				counts[lane]++
			}
		}
	}
	return maskFromCounts(counts, e.clause.Min, live), tallyFromCounts(counts)
}

type planetEvaluator struct {
	clause *filter.NormalizedClause
	want   domain.Planet
	wantEd domain.Edition
	hasEd  bool
}

func newPlanetEvaluator(c *filter.NormalizedClause) (Evaluator, error) {
	want, ok := domain.ParsePlanet(c.Values[0])
	if !ok {
		return nil, fmt.Errorf("evaluate: unknown planet %q", c.Values[0])
	}
	e := &planetEvaluator{clause: c, want: want}
	if ed, ok := parseEdition(c.Edition); ok {
		e.wantEd, e.hasEd = ed, true
	}
	return e, nil
}

func (e *planetEvaluator) Evaluate(ctx *sim.Context) (rng.Mask8, Tally) {
	live := ctx.LiveMask()
	var counts [rng.Lanes]int
	for _, ante := range e.clause.Antes {
		for _, slot := range filter.CapSlotsForAnte(ante, e.clause.PackSlots, false) {
			draws := sim.PlanetPackDraw(ctx, ante, slot)
			for lane := 0; lane < rng.Lanes; lane++ {
				if !live.Lane(lane) || draws[lane].Card != e.want {
					continue
				}
				if e.hasEd && draws[lane].Edition != e.wantEd {
					continue
				}
				counts[lane]++
			}
		}
	}
	return maskFromCounts(counts, e.clause.Min, live), tallyFromCounts(counts)
}

type spectralEvaluator struct {
	clause *filter.NormalizedClause
	want   domain.Spectral
	wantEd domain.Edition
	hasEd  bool
}

func newSpectralEvaluator(c *filter.NormalizedClause) (Evaluator, error) {
	want, ok := domain.ParseSpectral(c.Values[0])
	if !ok {
		return nil, fmt.Errorf("evaluate: unknown spectral %q", c.Values[0])
	}
	e := &spectralEvaluator{clause: c, want: want}
	if ed, ok := parseEdition(c.Edition); ok {
		e.wantEd, e.hasEd = ed, true
	}
	return e, nil
}

func (e *spectralEvaluator) Evaluate(ctx *sim.Context) (rng.Mask8, Tally) {
	live := ctx.LiveMask()
	var counts [rng.Lanes]int
	for _, ante := range e.clause.Antes {
		for _, slot := range filter.CapSlotsForAnte(ante, e.clause.PackSlots, false) {
			draws := sim.SpectralPackDraw(ctx, ante, slot)
			for lane := 0; lane < rng.Lanes; lane++ {
				if !live.Lane(lane) || draws[lane].Card != e.want {
					continue
				}
				if e.hasEd && draws[lane].Edition != e.wantEd {
					continue
				}
				counts[lane]++
			}
		}
	}
	return maskFromCounts(counts, e.clause.Min, live), tallyFromCounts(counts)
}

// playingCardEvaluator matches a standard pack card by rank and suit
// only. The wire clause schema has no enhancement/seal field, so a
// PlayingCard clause cannot additionally filter on those rolls — only
// identity.
type playingCardEvaluator struct {
	clause *filter.NormalizedClause
	want   domain.PlayingCard
}

func newPlayingCardEvaluator(c *filter.NormalizedClause) (Evaluator, error) {
	want, err := parsePlayingCard(c.Values[0])
	if err != nil {
		return nil, err
	}
	return &playingCardEvaluator{clause: c, want: want}, nil
}

func (e *playingCardEvaluator) Evaluate(ctx *sim.Context) (rng.Mask8, Tally) {
	live := ctx.LiveMask()
	var counts [rng.Lanes]int
	for _, ante := range e.clause.Antes {
		for _, slot := range filter.CapSlotsForAnte(ante, e.clause.PackSlots, false) {
			draws := sim.PlayingCardPackDraw(ctx, ante, slot)
			for lane := 0; lane < rng.Lanes; lane++ {
				if live.Lane(lane) && draws[lane].Card == e.want {
					counts[lane]++
				}
			}
		}
	}
	return maskFromCounts(counts, e.clause.Min, live), tallyFromCounts(counts)
}

// parsePlayingCard parses the canonical "<Rank> of <Suit>" form
// filter.Normalize already validated and reformatted.
func parsePlayingCard(value string) (domain.PlayingCard, error) {
	const sep = " of "
	idx := strings.Index(value, sep)
	if idx < 0 {
		return domain.PlayingCard{}, fmt.Errorf("evaluate: malformed playing card value %q", value)
	}
	rank, ok := domain.ParseRank(value[:idx])
	if !ok {
		return domain.PlayingCard{}, fmt.Errorf("evaluate: unknown rank in playing card value %q", value)
	}
	suit, ok := domain.ParseSuit(value[idx+len(sep):])
	if !ok {
		return domain.PlayingCard{}, fmt.Errorf("evaluate: unknown suit in playing card value %q", value)
	}
	return domain.PlayingCard{Rank: rank, Suit: suit}, nil
}
