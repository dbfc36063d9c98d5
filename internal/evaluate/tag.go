package evaluate

import (
	"fmt"

	"github.com/MJE43/balatro-seed-search/internal/domain"
	"github.com/MJE43/balatro-seed-search/internal/filter"
	"github.com/MJE43/balatro-seed-search/internal/rng"
	"github.com/MJE43/balatro-seed-search/internal/sim"
)

// tagEvaluator counts matches against both blind tags an ante offers:
// small-blind and big-blind are independent draws, both candidates for
// the same wanted tag.
type tagEvaluator struct {
	clause *filter.NormalizedClause
	want   domain.Tag
}

func newTagEvaluator(c *filter.NormalizedClause) (Evaluator, error) {
	want, ok := domain.ParseTag(c.Values[0])
	if !ok {
		return nil, fmt.Errorf("evaluate: unknown tag %q", c.Values[0])
	}
	return &tagEvaluator{clause: c, want: want}, nil
}

func (e *tagEvaluator) Evaluate(ctx *sim.Context) (rng.Mask8, Tally) {
	live := ctx.LiveMask()
	var counts [rng.Lanes]int
	for _, ante := range e.clause.Antes {
		draws := sim.AnteTagDraw(ctx, ante)
		for lane := 0; lane < rng.Lanes; lane++ {
			if !live.Lane(lane) {
				continue
			}
			if draws.SmallBlind[lane] == e.want {
				counts[lane]++
			}
			if draws.BigBlind[lane] == e.want {
				counts[lane]++
			}
		}
	}
	return maskFromCounts(counts, e.clause.Min, live), tallyFromCounts(counts)
}
