package evaluate

import (
	"fmt"

	"github.com/MJE43/balatro-seed-search/internal/domain"
	"github.com/MJE43/balatro-seed-search/internal/filter"
	"github.com/MJE43/balatro-seed-search/internal/rng"
	"github.com/MJE43/balatro-seed-search/internal/sim"
)

type bossEvaluator struct {
	clause *filter.NormalizedClause
	want   domain.Boss
}

func newBossEvaluator(c *filter.NormalizedClause) (Evaluator, error) {
	want, ok := domain.ParseBoss(c.Values[0])
	if !ok {
		return nil, fmt.Errorf("evaluate: unknown boss %q", c.Values[0])
	}
	return &bossEvaluator{clause: c, want: want}, nil
}

func (e *bossEvaluator) Evaluate(ctx *sim.Context) (rng.Mask8, Tally) {
	live := ctx.LiveMask()
	var counts [rng.Lanes]int
	for _, ante := range e.clause.Antes {
		draws := sim.AnteBossDraw(ctx, ante)
		for lane := 0; lane < rng.Lanes; lane++ {
			if live.Lane(lane) && draws[lane] == e.want {
				counts[lane]++
			}
		}
	}
	return maskFromCounts(counts, e.clause.Min, live), tallyFromCounts(counts)
}
