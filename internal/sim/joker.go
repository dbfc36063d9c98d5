package sim

import "github.com/MJE43/balatro-seed-search/internal/domain"

// JokerDraw is the full result of one joker composite sample: identity
// plus the edition and sticker rolled onto it.
type JokerDraw struct {
	Joker   domain.Joker
	Edition domain.Edition
	Sticker domain.Sticker
}

// JokerAppearance runs the four-stage joker composite sampler for one
// (ante, source) slot across all eight lanes: rarity roll, then an
// appearance roll against the rarity-conditioned roster, then an
// edition roll, then a sticker roll. Each stage draws from its own
// distinct stream key so the four sub-rolls stay independent.
//
// The appearance roll is conditioned on rarity only; deck/stake/ante
// reweighting of the roster itself is not modeled (see DESIGN.md).
// Ante and slot influence the outcome only because every (ante, slot)
// pair draws from its own stream key; deck and stake do not affect the
// draw at all, and the same roster is used for every run.
func JokerAppearance(ctx *Context, ante int, src Source) [8]JokerDraw {
	keys := JokerStreamKeys(ante, src)

	rarityU := ctx.drawVec(keys.Rarity)
	rarities := domain.SampleVec8(domain.RarityPool(), [8]float64(rarityU))

	appearanceU := ctx.drawVec(keys.Appearance)
	editionU := ctx.drawVec(keys.Edition)
	stickerU := ctx.drawVec(keys.Sticker)
	editions := domain.SampleVec8(domain.EditionPool(), [8]float64(editionU))
	stickers := domain.SampleVec8(domain.StickerPool(), [8]float64(stickerU))

	var out [8]JokerDraw
	for lane := 0; lane < 8; lane++ {
		joker := domain.JokerPool(rarities[lane]).Sample(appearanceU[lane])
		out[lane] = JokerDraw{Joker: joker, Edition: editions[lane], Sticker: stickers[lane]}
	}
	return out
}

// SoulJokerAppearance runs the three-stage soul-joker sampler: no
// rarity roll (the pool is pre-restricted to Legendary), then an
// appearance roll, edition roll, and sticker roll. A clause's
// requireMega option is not applied here or by any caller: every
// soul-joker appearance is returned whether or not a mega tag gated it.
func SoulJokerAppearance(ctx *Context, ante int, src Source) [8]JokerDraw {
	keys := SoulJokerStreamKeys(ante, src)

	appearanceU := ctx.drawVec(keys.Appearance)
	editionU := ctx.drawVec(keys.Edition)
	stickerU := ctx.drawVec(keys.Sticker)
	editions := domain.SampleVec8(domain.EditionPool(), [8]float64(editionU))
	stickers := domain.SampleVec8(domain.StickerPool(), [8]float64(stickerU))

	var out [8]JokerDraw
	for lane := 0; lane < 8; lane++ {
		joker := domain.JokerPool(domain.RarityLegendary).Sample(appearanceU[lane])
		out[lane] = JokerDraw{Joker: joker, Edition: editions[lane], Sticker: stickers[lane]}
	}
	return out
}
