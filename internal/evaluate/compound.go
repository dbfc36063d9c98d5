package evaluate

import (
	"github.com/MJE43/balatro-seed-search/internal/rng"
	"github.com/MJE43/balatro-seed-search/internal/sim"
)

// andEvaluator passes a lane only when every child passes; its tally
// is the sum of its children's tallies, so a should-clause built from
// an And scores on total matches across every sub-condition.
type andEvaluator struct {
	children []Evaluator
}

func (e *andEvaluator) Evaluate(ctx *sim.Context) (rng.Mask8, Tally) {
	live := ctx.LiveMask()
	mask := live
	var total Tally
	for _, child := range e.children {
		childMask, childTally := child.Evaluate(ctx)
		mask = mask.And(childMask)
		for lane := 0; lane < rng.Lanes; lane++ {
			total[lane] += childTally[lane]
		}
	}
	return mask, total
}

// orEvaluator passes a lane once any child passes; its tally sums
// every child the same way andEvaluator does.
type orEvaluator struct {
	children []Evaluator
}

func (e *orEvaluator) Evaluate(ctx *sim.Context) (rng.Mask8, Tally) {
	live := ctx.LiveMask()
	var mask rng.Mask8
	var total Tally
	for _, child := range e.children {
		childMask, childTally := child.Evaluate(ctx)
		mask = mask.Or(childMask)
		for lane := 0; lane < rng.Lanes; lane++ {
			total[lane] += childTally[lane]
		}
	}
	return mask.And(live), total
}
