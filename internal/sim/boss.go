package sim

import "github.com/MJE43/balatro-seed-search/internal/domain"

// maxBossRerolls bounds the "no repeat within window" reroll loop.
// The standard boss pool (23 entries) comfortably exceeds the
// 3-ante history window, so this is a safety ceiling, not an expected
// path — hitting it is an invariant violation in the underlying pool
// sizing, not a condition callers need to handle.
const maxBossRerolls = 64

// AnteBossDraw samples one ante's boss blind per lane, rerolling any
// lane whose draw matches a boss seen in the last bossHistoryWindow
// antes (no repeat within window; history across antes
// matters"). The Context records each lane's final choice into its
// rolling history before returning.
func AnteBossDraw(ctx *Context, ante int) [8]domain.Boss {
	pool := domain.BossPool(ante)
	streamKey := BossKey(ante)

	var out [8]domain.Boss
	stream := ctx.Cache.Get(streamKey)
	for lane := 0; lane < 8; lane++ {
		if stream[lane] == nil {
			continue
		}
		boss := pool.Sample(stream[lane].Next())
		for attempt := 0; ctx.bossRecentlySeen(lane, int(boss)) && attempt < maxBossRerolls; attempt++ {
			boss = pool.Sample(stream[lane].Next())
		}
		out[lane] = boss
		ctx.recordBoss(lane, int(boss))
	}
	return out
}
