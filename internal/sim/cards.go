package sim

import "github.com/MJE43/balatro-seed-search/internal/domain"

// TarotDraw, PlanetDraw, and SpectralDraw pair a consumable card's
// identity with its edition roll — each category has its own pool,
// stream key pair, and identical two-stage shape (identity, then
// edition).
type TarotDraw struct {
	Card    domain.Tarot
	Edition domain.Edition
}

type PlanetDraw struct {
	Card    domain.Planet
	Edition domain.Edition
}

type SpectralDraw struct {
	Card    domain.Spectral
	Edition domain.Edition
}

// PlayingCardDraw pairs a packed playing card's identity with the
// enhancement+seal roll packs apply instead of an edition roll.
type PlayingCardDraw struct {
	Card        domain.PlayingCard
	Enhancement domain.Enhancement
	Seal        domain.Seal
}

func TarotPackDraw(ctx *Context, ante, slot int) [8]TarotDraw {
	keys := TarotStreamKeys(ante, slot)
	idU := ctx.drawVec(keys.Identity)
	modU := ctx.drawVec(keys.Modifier)
	cards := domain.SampleVec8(domain.TarotPool(), [8]float64(idU))
	editions := domain.SampleVec8(domain.EditionPool(), [8]float64(modU))
	var out [8]TarotDraw
	for lane := 0; lane < 8; lane++ {
		out[lane] = TarotDraw{Card: cards[lane], Edition: editions[lane]}
	}
	return out
}

func PlanetPackDraw(ctx *Context, ante, slot int) [8]PlanetDraw {
	keys := PlanetStreamKeys(ante, slot)
	idU := ctx.drawVec(keys.Identity)
	modU := ctx.drawVec(keys.Modifier)
	cards := domain.SampleVec8(domain.PlanetPool(), [8]float64(idU))
	editions := domain.SampleVec8(domain.EditionPool(), [8]float64(modU))
	var out [8]PlanetDraw
	for lane := 0; lane < 8; lane++ {
		out[lane] = PlanetDraw{Card: cards[lane], Edition: editions[lane]}
	}
	return out
}

func SpectralPackDraw(ctx *Context, ante, slot int) [8]SpectralDraw {
	keys := SpectralStreamKeys(ante, slot)
	idU := ctx.drawVec(keys.Identity)
	modU := ctx.drawVec(keys.Modifier)
	cards := domain.SampleVec8(domain.SpectralPool(), [8]float64(idU))
	editions := domain.SampleVec8(domain.EditionPool(), [8]float64(modU))
	var out [8]SpectralDraw
	for lane := 0; lane < 8; lane++ {
		out[lane] = SpectralDraw{Card: cards[lane], Edition: editions[lane]}
	}
	return out
}

// PlayingCardPackDraw samples a standard-pack playing card: a rank roll
// and a suit roll over the 52-card deck, then an enhancement roll and a
// seal roll, each of the four from its own stream key.
func PlayingCardPackDraw(ctx *Context, ante, slot int) [8]PlayingCardDraw {
	keys := PlayingCardStreamKeys(ante, slot)
	rankU := ctx.drawVec(keys.Rank)
	suitU := ctx.drawVec(keys.Suit)
	enhU := ctx.drawVec(keys.Enhancement)
	sealU := ctx.drawVec(keys.Seal)

	ranks := domain.SampleVec8(domain.RankPool(), [8]float64(rankU))
	suits := domain.SampleVec8(domain.SuitPool(), [8]float64(suitU))
	enhancements := domain.SampleVec8(enhancementPool, [8]float64(enhU))
	seals := domain.SampleVec8(sealPool, [8]float64(sealU))

	var out [8]PlayingCardDraw
	for lane := 0; lane < 8; lane++ {
		out[lane] = PlayingCardDraw{
			Card:        domain.PlayingCard{Rank: ranks[lane], Suit: suits[lane]},
			Enhancement: enhancements[lane],
			Seal:        seals[lane],
		}
	}
	return out
}

// enhancementPool and sealPool are heavily skewed toward "no
// modifier," matching the rarity of enhanced/sealed cards showing up
// in a standard pack.
var enhancementPool = domain.NewWeightedPool([]domain.Entry[domain.Enhancement]{
	{Value: domain.EnhancementNone, Weight: 80},
	{Value: domain.EnhancementBonus, Weight: 4},
	{Value: domain.EnhancementMult, Weight: 4},
	{Value: domain.EnhancementWild, Weight: 2},
	{Value: domain.EnhancementGlass, Weight: 2},
	{Value: domain.EnhancementSteel, Weight: 2},
	{Value: domain.EnhancementStone, Weight: 2},
	{Value: domain.EnhancementGold, Weight: 2},
	{Value: domain.EnhancementLucky, Weight: 2},
})

var sealPool = domain.NewWeightedPool([]domain.Entry[domain.Seal]{
	{Value: domain.SealNone, Weight: 92},
	{Value: domain.SealGold, Weight: 3},
	{Value: domain.SealRed, Weight: 2},
	{Value: domain.SealBlue, Weight: 2},
	{Value: domain.SealPurple, Weight: 1},
})
