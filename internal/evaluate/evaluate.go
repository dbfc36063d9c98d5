// Package evaluate turns a compiled filter.Pipeline into vectorized
// evaluators: one Evaluator per normalized clause, each producing an
// 8-lane pass mask plus a per-lane match tally against a sim.Context
// built from a previously declared, frozen stream cache.
package evaluate

import (
	"fmt"

	"github.com/MJE43/balatro-seed-search/internal/domain"
	"github.com/MJE43/balatro-seed-search/internal/filter"
	"github.com/MJE43/balatro-seed-search/internal/rng"
	"github.com/MJE43/balatro-seed-search/internal/sim"
)

// Tally is the per-lane match count an evaluator reports alongside its
// pass mask, consumed by should-clause scoring and min-threshold
// matching.
type Tally [rng.Lanes]uint16

// Evaluator is one compiled clause, narrowed to run against the
// already-built sim.Context for one seed batch.
type Evaluator interface {
	Evaluate(ctx *sim.Context) (rng.Mask8, Tally)
}

// Build compiles a single normalized clause into an Evaluator,
// recursing into And/Or/fused-erratic children. Build does not
// validate — filter.Normalize already rejected anything Build could
// not handle — so an unknown category here is a construction bug, not
// a data problem, and returns an error describing the broken
// invariant rather than panicking on the hot path.
func Build(c *filter.NormalizedClause) (Evaluator, error) {
	switch c.Category {
	case filter.CategoryAnd:
		children, err := buildChildren(c.Children)
		if err != nil {
			return nil, err
		}
		return &andEvaluator{children: children}, nil
	case filter.CategoryOr:
		children, err := buildChildren(c.Children)
		if err != nil {
			return nil, err
		}
		return &orEvaluator{children: children}, nil
	case filter.CategoryVoucher:
		return newVoucherEvaluator(c)
	case filter.CategoryJoker:
		return newJokerEvaluator(c, false)
	case filter.CategorySoulJoker:
		return newJokerEvaluator(c, true)
	case filter.CategorySoulJokerEditionOnly:
		return newSoulJokerEditionOnlyEvaluator(c)
	case filter.CategoryTarotCard:
		return newTarotEvaluator(c)
	case filter.CategoryPlanetCard:
		return newPlanetEvaluator(c)
	case filter.CategorySpectralCard:
		return newSpectralEvaluator(c)
	case filter.CategoryPlayingCard:
		return newPlayingCardEvaluator(c)
	case filter.CategoryTag:
		return newTagEvaluator(c)
	case filter.CategoryBoss:
		return newBossEvaluator(c)
	case filter.CategoryEvent:
		return newEventEvaluator(c)
	case filter.CategoryErraticRank:
		spec, err := erraticSpecFromClause(c)
		if err != nil {
			return nil, err
		}
		return &erraticEvaluator{specs: []erraticSpec{spec}}, nil
	case filter.CategoryErraticSuit:
		spec, err := erraticSpecFromClause(c)
		if err != nil {
			return nil, err
		}
		return &erraticEvaluator{specs: []erraticSpec{spec}}, nil
	case filter.CategoryErraticRankAndSuit:
		specs := make([]erraticSpec, 0, len(c.Children))
		for _, child := range c.Children {
			spec, err := erraticSpecFromClause(child)
			if err != nil {
				return nil, err
			}
			specs = append(specs, spec)
		}
		return &erraticEvaluator{specs: specs}, nil
	default:
		return nil, fmt.Errorf("evaluate: no evaluator for category %s", c.Category)
	}
}

func buildChildren(clauses []*filter.NormalizedClause) ([]Evaluator, error) {
	out := make([]Evaluator, 0, len(clauses))
	for _, c := range clauses {
		ev, err := Build(c)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

// maskFromCounts turns a per-lane match count into a pass mask: a live
// lane passes once its count meets min. Dead lanes never pass.
func maskFromCounts(counts [rng.Lanes]int, min int, live rng.Mask8) rng.Mask8 {
	var mask rng.Mask8
	for lane := 0; lane < rng.Lanes; lane++ {
		if !live.Lane(lane) {
			continue
		}
		mask = mask.Set(lane, counts[lane] >= min)
	}
	return mask
}

func tallyFromCounts(counts [rng.Lanes]int) Tally {
	var t Tally
	for lane, n := range counts {
		if n > 0xFFFF {
			n = 0xFFFF
		}
		t[lane] = uint16(n)
	}
	return t
}

// parseEdition resolves a clause's optional edition constraint.
// ok is false when the clause left edition unconstrained.
func parseEdition(name string) (domain.Edition, bool) {
	if name == "" {
		return domain.EditionNone, false
	}
	e, _ := domain.ParseEdition(name)
	return e, true
}
