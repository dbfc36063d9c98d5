package sim

import "github.com/MJE43/balatro-seed-search/internal/domain"

// VoucherDraw samples the single voucher offer an ante's shop makes,
// one value per lane.
func VoucherDraw(ctx *Context, ante int) [8]domain.Voucher {
	u := ctx.drawVec(VoucherKey(ante))
	return domain.SampleVec8(domain.VoucherPool(), [8]float64(u))
}
