package evaluate

import (
	"testing"

	"github.com/MJE43/balatro-seed-search/internal/domain"
	"github.com/MJE43/balatro-seed-search/internal/filter"
	"github.com/MJE43/balatro-seed-search/internal/rng"
	"github.com/MJE43/balatro-seed-search/internal/sim"
)

func testSeeds() [rng.Lanes][]byte {
	names := []string{"AAAAAAAA", "BBBBBBBB", "CCCCCCCC", "DDDDDDDD", "EEEEEEEE", "FFFFFFFF", "GGGGGGGG", "HHHHHHHH"}
	var out [rng.Lanes][]byte
	for i, n := range names {
		out[i] = []byte(n)
	}
	return out
}

// newTestContext builds a frozen Context from a NormalizedClause by
// routing through filter's own stream declaration so an evaluator test
// never has to hand-enumerate stream keys.
func newTestContext(t *testing.T, clauses ...*filter.NormalizedClause) *sim.Context {
	t.Helper()
	p := &filter.Pipeline{Must: clauses}
	cache := rng.NewCache(testSeeds())
	if err := p.DeclareStreams(cache); err != nil {
		t.Fatalf("declare streams: %v", err)
	}
	cache.Freeze()
	return sim.NewContext(int(domain.DeckRed), int(domain.StakeWhite), cache)
}

func allAntes() []int { return []int{1, 2, 3, 4, 5, 6, 7, 8} }
func allShopSlots() []int {
	out := make([]int, 0, filter.MaxShopSlot+1)
	for i := 0; i <= filter.MaxShopSlot; i++ {
		out = append(out, i)
	}
	return out
}
func allPackSlots() []int {
	out := make([]int, 0, filter.MaxPackSlot+1)
	for i := 0; i <= filter.MaxPackSlot; i++ {
		out = append(out, i)
	}
	return out
}

func TestVoucherEvaluatorDeterministic(t *testing.T) {
	clause := &filter.NormalizedClause{
		Category: filter.CategoryVoucher,
		Values:   []string{domain.VoucherOverstock.String()},
		Antes:    allAntes(),
		Min:      1,
	}
	ctx := newTestContext(t, clause)
	ev, err := Build(clause)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	mask1, tally1 := ev.Evaluate(ctx)

	ctx2 := newTestContext(t, clause)
	ev2, _ := Build(clause)
	mask2, tally2 := ev2.Evaluate(ctx2)

	if mask1 != mask2 || tally1 != tally2 {
		t.Fatalf("voucher evaluator not deterministic: (%v,%v) vs (%v,%v)", mask1, tally1, mask2, tally2)
	}
}

func TestVoucherEvaluatorMinThreshold(t *testing.T) {
	clause := &filter.NormalizedClause{
		Category: filter.CategoryVoucher,
		Values:   []string{domain.VoucherOverstock.String()},
		Antes:    allAntes(),
		Min:      1,
	}
	ctx := newTestContext(t, clause)
	ev, err := Build(clause)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	mask, tally := ev.Evaluate(ctx)
	for lane := 0; lane < rng.Lanes; lane++ {
		want := tally[lane] >= 1
		if mask.Lane(lane) != want {
			t.Errorf("lane %d: mask=%v tally=%d, want pass=%v", lane, mask.Lane(lane), tally[lane], want)
		}
	}
}

func TestJokerEvaluatorAnyIdentityMatchesEveryDraw(t *testing.T) {
	clause := &filter.NormalizedClause{
		Category:  filter.CategoryJoker,
		Values:    []string{filter.AnyValue},
		Antes:     []int{1},
		ShopSlots: allShopSlots(),
		PackSlots: allPackSlots(),
		Min:       1,
	}
	ctx := newTestContext(t, clause)
	ev, err := Build(clause)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	mask, _ := ev.Evaluate(ctx)
	if mask != rng.FullMask {
		t.Fatalf("Any-identity joker clause should match every lane, got mask %v", mask)
	}
}

func TestSoulJokerEditionOnlyEvaluator(t *testing.T) {
	clause := &filter.NormalizedClause{
		Category:  filter.CategorySoulJokerEditionOnly,
		Values:    []string{filter.AnyValue},
		Edition:   domain.EditionPolychrome.String(),
		Antes:     []int{1, 2, 3},
		PackSlots: allPackSlots(),
		Min:       1,
	}
	ctx := newTestContext(t, clause)
	ev, err := Build(clause)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	mask, tally := ev.Evaluate(ctx)
	for lane := 0; lane < rng.Lanes; lane++ {
		if mask.Lane(lane) && tally[lane] == 0 {
			t.Errorf("lane %d: passed with zero tally", lane)
		}
	}
}

func TestTagEvaluatorCountsBothBlinds(t *testing.T) {
	clause := &filter.NormalizedClause{
		Category: filter.CategoryTag,
		Values:   []string{domain.TagInvestment.String()},
		Antes:    allAntes(),
		Min:      1,
	}
	ctx := newTestContext(t, clause)
	ev, err := Build(clause)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	mask, tally := ev.Evaluate(ctx)
	for lane := 0; lane < rng.Lanes; lane++ {
		if mask.Lane(lane) != (tally[lane] >= 1) {
			t.Errorf("lane %d: mask/tally mismatch", lane)
		}
	}
}

func TestBossEvaluatorMatchesPool(t *testing.T) {
	clause := &filter.NormalizedClause{
		Category: filter.CategoryBoss,
		Values:   []string{domain.BossTheHook.String()},
		Antes:    []int{1},
		Min:      1,
	}
	ctx := newTestContext(t, clause)
	ev, err := Build(clause)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	mask, tally := ev.Evaluate(ctx)
	for lane := 0; lane < rng.Lanes; lane++ {
		if tally[lane] > 1 {
			t.Errorf("lane %d: a single ante's boss draw matched more than once (%d)", lane, tally[lane])
		}
		if mask.Lane(lane) != (tally[lane] >= 1) {
			t.Errorf("lane %d: mask/tally mismatch", lane)
		}
	}
}

func TestEventEvaluatorLuckyMoneyOutOfOrderAntes(t *testing.T) {
	clause := &filter.NormalizedClause{
		Category: filter.CategoryEvent,
		Values:   []string{sim.EventLuckyMoney},
		Antes:    []int{3, 1, 2},
		Min:      1,
	}
	ctx := newTestContext(t, clause)
	ev, err := Build(clause)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	mask, tally := ev.Evaluate(ctx)
	for lane := 0; lane < rng.Lanes; lane++ {
		if mask.Lane(lane) != (tally[lane] >= 1) {
			t.Errorf("lane %d: mask/tally mismatch", lane)
		}
	}
}

// TestEventEvaluatorLuckyMoneyDuplicateAnteDoesNotPanic exercises a
// literal repeated index (as opposed to merely out-of-order-but-unique
// indices, which the test above covers): the repeated index must
// neither panic nor be counted as a second occurrence.
func TestEventEvaluatorLuckyMoneyDuplicateAnteDoesNotPanic(t *testing.T) {
	clause := &filter.NormalizedClause{
		Category: filter.CategoryEvent,
		Values:   []string{sim.EventLuckyMoney},
		Antes:    []int{3, 3},
		Min:      1,
	}
	ctx := newTestContext(t, clause)
	ev, err := Build(clause)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	mask, tally := ev.Evaluate(ctx)
	for lane := 0; lane < rng.Lanes; lane++ {
		if mask.Lane(lane) != (tally[lane] >= 1) {
			t.Errorf("lane %d: mask/tally mismatch", lane)
		}
		// A duplicate index names the same draw, so the tally for a
		// repeated ante only ever reflects a single trigger.
		if tally[lane] > 1 {
			t.Errorf("lane %d: duplicate ante double-counted, tally=%d", lane, tally[lane])
		}
	}
}

func TestEventEvaluatorMisprintAlwaysTriggers(t *testing.T) {
	clause := &filter.NormalizedClause{
		Category: filter.CategoryEvent,
		Values:   []string{sim.EventMisprintMult},
		Antes:    []int{1, 2},
		Min:      2,
	}
	ctx := newTestContext(t, clause)
	ev, err := Build(clause)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	mask, tally := ev.Evaluate(ctx)
	for lane := 0; lane < rng.Lanes; lane++ {
		if tally[lane] != 2 {
			t.Errorf("lane %d: misprint tally = %d, want 2 (always triggers)", lane, tally[lane])
		}
		if !mask.Lane(lane) {
			t.Errorf("lane %d: expected pass with min=2 and tally=2", lane)
		}
	}
}

func TestErraticFusedEvaluatorAndsSpecs(t *testing.T) {
	rankClause := &filter.NormalizedClause{
		Category: filter.CategoryErraticRank,
		Values:   []string{domain.RankAce.String()},
		Min:      1,
	}
	suitClause := &filter.NormalizedClause{
		Category: filter.CategoryErraticSuit,
		Values:   []string{domain.SuitSpades.String()},
		Min:      1,
	}
	fused := &filter.NormalizedClause{
		Category: filter.CategoryErraticRankAndSuit,
		Children: []*filter.NormalizedClause{rankClause, suitClause},
	}
	ctx := newTestContext(t, fused)
	ev, err := Build(fused)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	mask, tally := ev.Evaluate(ctx)

	rankEv, _ := Build(rankClause)
	suitEv, _ := Build(suitClause)
	rankMask, rankTally := rankEv.Evaluate(ctx)
	suitMask, suitTally := suitEv.Evaluate(ctx)

	wantMask := rankMask.And(suitMask)
	if mask != wantMask {
		t.Fatalf("fused mask = %v, want AND of constituents %v", mask, wantMask)
	}
	for lane := 0; lane < rng.Lanes; lane++ {
		want := rankTally[lane] + suitTally[lane]
		if tally[lane] != want {
			t.Errorf("lane %d: fused tally = %d, want sum %d", lane, tally[lane], want)
		}
	}
}

func TestAndEvaluatorComposesChildren(t *testing.T) {
	a := &filter.NormalizedClause{
		Category: filter.CategoryVoucher,
		Values:   []string{domain.VoucherOverstock.String()},
		Antes:    []int{1},
		Min:      0,
	}
	b := &filter.NormalizedClause{
		Category: filter.CategoryVoucher,
		Values:   []string{domain.VoucherClearanceSale.String()},
		Antes:    []int{2},
		Min:      0,
	}
	and := &filter.NormalizedClause{Category: filter.CategoryAnd, Children: []*filter.NormalizedClause{a, b}}
	ctx := newTestContext(t, and)
	ev, err := Build(and)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	mask, _ := ev.Evaluate(ctx)
	if mask != rng.FullMask {
		t.Fatalf("min=0 children should always pass, got mask %v", mask)
	}
}

func TestOrEvaluatorPassesOnAnyChild(t *testing.T) {
	impossible := &filter.NormalizedClause{
		Category: filter.CategoryBoss,
		Values:   []string{domain.BossTheHook.String()},
		Antes:    []int{},
		Min:      1,
	}
	always := &filter.NormalizedClause{
		Category: filter.CategoryVoucher,
		Values:   []string{domain.VoucherOverstock.String()},
		Antes:    []int{1},
		Min:      0,
	}
	or := &filter.NormalizedClause{Category: filter.CategoryOr, Children: []*filter.NormalizedClause{impossible, always}}
	ctx := newTestContext(t, or)
	ev, err := Build(or)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	mask, _ := ev.Evaluate(ctx)
	if mask != rng.FullMask {
		t.Fatalf("Or with an always-passing child should match every lane, got mask %v", mask)
	}
}
