package evaluate

import (
	"fmt"

	"github.com/MJE43/balatro-seed-search/internal/domain"
	"github.com/MJE43/balatro-seed-search/internal/filter"
	"github.com/MJE43/balatro-seed-search/internal/rng"
	"github.com/MJE43/balatro-seed-search/internal/sim"
)

// erraticSpec is one rank or suit count requirement against the
// starting Erratic deck.
type erraticSpec struct {
	min    int
	isRank bool
	rank   domain.Rank
	suit   domain.Suit
}

func erraticSpecFromClause(c *filter.NormalizedClause) (erraticSpec, error) {
	switch c.Category {
	case filter.CategoryErraticRank:
		rank, ok := domain.ParseRank(c.Values[0])
		if !ok {
			return erraticSpec{}, fmt.Errorf("evaluate: unknown rank %q", c.Values[0])
		}
		return erraticSpec{min: c.Min, isRank: true, rank: rank}, nil
	case filter.CategoryErraticSuit:
		suit, ok := domain.ParseSuit(c.Values[0])
		if !ok {
			return erraticSpec{}, fmt.Errorf("evaluate: unknown suit %q", c.Values[0])
		}
		return erraticSpec{min: c.Min, isRank: false, suit: suit}, nil
	default:
		return erraticSpec{}, fmt.Errorf("evaluate: %s is not an erratic category", c.Category)
	}
}

// erraticEvaluator walks each lane's 52-card starting deck once and
// checks every spec against that single walk — the fused
// ErraticRankAndSuit case requires every spec's count to clear its own
// min, a lane passing only when all specs pass (AND across specs); a
// lone rank or suit clause carries a single spec and behaves the same
// way trivially.
type erraticEvaluator struct {
	specs []erraticSpec
}

func (e *erraticEvaluator) Evaluate(ctx *sim.Context) (rng.Mask8, Tally) {
	live := ctx.LiveMask()
	decks := sim.GenerateErraticDecks(ctx)

	counts := make([][rng.Lanes]int, len(e.specs))
	for lane := 0; lane < rng.Lanes; lane++ {
		if !live.Lane(lane) {
			continue
		}
		for _, card := range decks[lane] {
			for si, spec := range e.specs {
				if spec.isRank {
					if card.Rank == spec.rank {
						counts[si][lane]++
					}
				} else if card.Suit == spec.suit {
					counts[si][lane]++
				}
			}
		}
	}

	var mask rng.Mask8
	var total Tally
	for lane := 0; lane < rng.Lanes; lane++ {
		if !live.Lane(lane) {
			continue
		}
		pass := true
		var sum int
		for si, spec := range e.specs {
			sum += counts[si][lane]
			if counts[si][lane] < spec.min {
				pass = false
			}
		}
		mask = mask.Set(lane, pass)
		if sum > 0xFFFF {
			sum = 0xFFFF
		}
		total[lane] = uint16(sum)
	}
	return mask, total
}
