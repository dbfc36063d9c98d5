package filter

import "strings"

// Category is the canonical clause type every normalized clause
// carries exactly one of. Order here fixes evaluation order —
// SoulJokerEditionOnly runs first because it is the cheapest
// early-exit.
type Category int

const (
	CategorySoulJokerEditionOnly Category = iota
	CategoryVoucher
	CategoryJoker
	CategorySoulJoker
	CategoryTarotCard
	CategoryPlanetCard
	CategorySpectralCard
	CategoryPlayingCard
	CategoryTag
	CategoryBoss
	CategoryEvent
	CategoryErraticRank
	CategoryErraticSuit
	CategoryErraticRankAndSuit
	CategoryAnd
	CategoryOr
)

var categoryNames = []string{
	"SoulJokerEditionOnly", "Voucher", "Joker", "SoulJoker", "TarotCard",
	"PlanetCard", "SpectralCard", "PlayingCard", "Tag", "Boss", "Event",
	"ErraticRank", "ErraticSuit", "ErraticRankAndSuit", "And", "Or",
}

func (c Category) String() string {
	if int(c) < 0 || int(c) >= len(categoryNames) {
		return "Unknown"
	}
	return categoryNames[c]
}

// categoryByTypeTag resolves a clause's raw "type" string (case
// insensitive) to a Category. SoulJokerEditionOnly is never spelled
// directly on input — it's derived during normalization from a
// SoulJoker clause whose value is "Any" and whose edition is set.
var categoryByTypeTag = map[string]Category{
	"voucher":      CategoryVoucher,
	"joker":        CategoryJoker,
	"souljoker":    CategorySoulJoker,
	"tarot":        CategoryTarotCard,
	"tarotcard":    CategoryTarotCard,
	"planet":       CategoryPlanetCard,
	"planetcard":   CategoryPlanetCard,
	"spectral":     CategorySpectralCard,
	"spectralcard": CategorySpectralCard,
	"playingcard":  CategoryPlayingCard,
	"tag":          CategoryTag,
	"boss":         CategoryBoss,
	"event":        CategoryEvent,
	"erraticrank":  CategoryErraticRank,
	"erraticsuit":  CategoryErraticSuit,
	"and":          CategoryAnd,
	"or":           CategoryOr,
}

func resolveCategory(typeTag string) (Category, bool) {
	cat, ok := categoryByTypeTag[strings.ToLower(typeTag)]
	return cat, ok
}

// shorthandField is one category-shorthand field name paired with the
// canonical type tag it expands to.
type shorthandField struct {
	value string
	tag   string
}

// shorthands extracts every non-empty category-shorthand field set on
// a raw clause, in a fixed field order, so resolveShorthand can detect
// "more than one shorthand set" as a document error.
func shorthands(c Clause) []shorthandField {
	var out []shorthandField
	add := func(v, tag string) {
		if v != "" {
			out = append(out, shorthandField{value: v, tag: tag})
		}
	}
	add(c.Joker, "Joker")
	add(c.Voucher, "Voucher")
	add(c.Tarot, "Tarot")
	add(c.Planet, "Planet")
	add(c.Spectral, "Spectral")
	add(c.Tag, "Tag")
	add(c.Boss, "Boss")
	add(c.Rank, "ErraticRank")
	add(c.Suit, "ErraticSuit")
	return out
}
