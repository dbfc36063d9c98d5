// Package sim reimplements the game's per-ante sampling kernels: the
// deterministic mapping from PRNG stream draws to domain values
// (vouchers, jokers, cards, tags, bosses, starting-deck composition,
// mid-run events). Every kernel is vectorized across the eight lanes
// of one seed batch and draws from an *rng.Cache the caller has
// already declared and frozen.
package sim

import "fmt"

// key builds a domain stream key: a tag, a per-ante digit, and — for
// multi-draw composites — a sub-draw label. The eight-character seed
// itself is folded in by the cache, not by this function.
func key(tag string, ante int, sub string) string {
	if sub == "" {
		return fmt.Sprintf("%s%d", tag, ante)
	}
	return fmt.Sprintf("%s%d_%s", tag, ante, sub)
}

// VoucherKey is the stream an ante's single voucher draw consumes.
func VoucherKey(ante int) string { return key("Voucher", ante, "") }

// TagKey is the stream for one of an ante's two tag draws (which is 0
// for the small-blind tag, 1 for the big-blind tag).
func TagKey(ante, which int) string { return key("Tag", ante, fmt.Sprintf("%d", which)) }

// BossKey is the stream an ante's boss-blind draw consumes.
func BossKey(ante int) string { return key("Boss", ante, "") }

// Source identifies where a joker or consumable card is drawn from
// within an ante: a shop slot or a booster-pack slot.
type Source struct {
	Shop bool
	Slot int
}

func (s Source) label() string {
	if s.Shop {
		return fmt.Sprintf("Shop%d", s.Slot)
	}
	return fmt.Sprintf("Pack%d", s.Slot)
}

// JokerKeys is the full set of distinct stream keys one joker
// composite draw consumes, in draw order: rarity roll, appearance
// roll (conditioned on the rarity just drawn), edition roll, sticker
// roll — each sub-draw gets its own key so the four rolls stay
// statistically independent.
type JokerKeys struct {
	Rarity, Appearance, Edition, Sticker string
}

// JokerStreamKeys builds the four-key set for one (ante, source) joker
// draw.
func JokerStreamKeys(ante int, src Source) JokerKeys {
	base := "Joker" + src.label()
	return JokerKeys{
		Rarity:     key(base, ante, "Rarity"),
		Appearance: key(base, ante, "Appearance"),
		Edition:    key(base, ante, "Edition"),
		Sticker:    key(base, ante, "Sticker"),
	}
}

// SoulJokerStreamKeys builds the three-key set for one soul-joker draw
// (no rarity roll: the pool is pre-restricted to Legendary).
func SoulJokerStreamKeys(ante int, src Source) JokerKeys {
	base := "SoulJoker" + src.label()
	return JokerKeys{
		Appearance: key(base, ante, "Appearance"),
		Edition:    key(base, ante, "Edition"),
		Sticker:    key(base, ante, "Sticker"),
	}
}

// CardKeys is the two-key set a tarot/planet/spectral pack draw
// consumes: identity roll then edition roll.
type CardKeys struct {
	Identity, Modifier string
}

// TarotStreamKeys, PlanetStreamKeys, and SpectralStreamKeys each build
// the key set for one pack-slot draw of their respective category,
// whose modifier roll is an edition. Playing cards use their own
// four-key set instead (see PlayingCardStreamKeys).
func TarotStreamKeys(ante int, slot int) CardKeys {
	return cardKeys("Tarot", ante, slot)
}

func PlanetStreamKeys(ante int, slot int) CardKeys {
	return cardKeys("Planet", ante, slot)
}

func SpectralStreamKeys(ante int, slot int) CardKeys {
	return cardKeys("Spectral", ante, slot)
}

func cardKeys(tag string, ante, slot int) CardKeys {
	base := fmt.Sprintf("%sPack%d", tag, slot)
	return CardKeys{
		Identity: key(base, ante, "Id"),
		Modifier: key(base, ante, "Mod"),
	}
}

// PlayingCardKeys is the four-key set a standard-pack playing-card
// draw consumes: rank, suit, enhancement, seal — each its own stream
// so the four sub-rolls are independent, unlike the single
// identity+modifier pair tarot/planet/spectral cards use.
type PlayingCardKeys struct {
	Rank, Suit, Enhancement, Seal string
}

func PlayingCardStreamKeys(ante int, slot int) PlayingCardKeys {
	base := fmt.Sprintf("PlayingCardPack%d", slot)
	return PlayingCardKeys{
		Rank:        key(base, ante, "Rank"),
		Suit:        key(base, ante, "Suit"),
		Enhancement: key(base, ante, "Enh"),
		Seal:        key(base, ante, "Seal"),
	}
}

// ErraticDeckKey is the single stream the 52-card erratic starting-deck
// walk draws from; each of the 52 positions takes two sequential
// draws (rank, then suit) from this one stream, so a rank-only and a
// suit-only evaluator can be fused into one walk over the same deck.
const ErraticDeckKey = "Erratic"

// EventKey builds the stream key for one named mid-run event; every
// roll index of that event is a position within this one stream.
// Roll indices need not be contiguous; the caller advances the stream
// to the requested index itself (see (*Context).EventRoll).
func EventKey(name string) string { return "Event_" + name }

// Event names recognized by the mid-run event sampler.
const (
	EventLuckyMoney       = "LuckyMoney"
	EventLuckyMult        = "LuckyMult"
	EventMisprintMult     = "MisprintMult"
	EventWheelOfFortune   = "WheelOfFortune"
	EventCavendish        = "Cavendish"
	EventGrosMichel       = "GrosMichel"
)
