package evaluate

import (
	"fmt"

	"github.com/MJE43/balatro-seed-search/internal/domain"
	"github.com/MJE43/balatro-seed-search/internal/filter"
	"github.com/MJE43/balatro-seed-search/internal/rng"
	"github.com/MJE43/balatro-seed-search/internal/sim"
)

// voucherEvaluator draws each declared ante's single voucher offer and
// counts matches against the clause's wanted voucher. Vouchers never
// carry an edition, so a clause's Edition field is ignored here.
type voucherEvaluator struct {
	clause *filter.NormalizedClause
	want   domain.Voucher
}

func newVoucherEvaluator(c *filter.NormalizedClause) (Evaluator, error) {
	want, ok := domain.ParseVoucher(c.Values[0])
	if !ok {
		return nil, fmt.Errorf("evaluate: unknown voucher %q", c.Values[0])
	}
	return &voucherEvaluator{clause: c, want: want}, nil
}

func (e *voucherEvaluator) Evaluate(ctx *sim.Context) (rng.Mask8, Tally) {
	live := ctx.LiveMask()
	var counts [rng.Lanes]int
	for _, ante := range e.clause.Antes {
		draws := sim.VoucherDraw(ctx, ante)
		for lane := 0; lane < rng.Lanes; lane++ {
			if live.Lane(lane) && draws[lane] == e.want {
				counts[lane]++
			}
		}
	}
	return maskFromCounts(counts, e.clause.Min, live), tallyFromCounts(counts)
}
