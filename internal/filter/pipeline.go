package filter

import (
	"fmt"
	"sort"

	"github.com/MJE43/balatro-seed-search/internal/rng"
	"github.com/MJE43/balatro-seed-search/internal/sim"
)

// Pipeline is the filter compiler's output: the three clause lists,
// grouped by category and with erratic-rank/erratic-suit fusion
// applied, plus the static result-table column list. Immutable once
// built.
type Pipeline struct {
	Name    string
	Deck    string
	Stake   string
	Must    []*NormalizedClause
	Should  []*NormalizedClause
	MustNot []*NormalizedClause
	Columns []string
}

// Compile normalizes doc and assembles the compiled pipeline: category
// grouping (step 2), erratic fusion (step 3) — stream declaration
// (step 4) happens separately via Pipeline.DeclareStreams once a
// batch's rng.Cache exists.
func Compile(doc *Document) (*Pipeline, error) {
	norm, err := Normalize(doc)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		Name:  doc.Name,
		Deck:  doc.Deck,
		Stake: doc.Stake,
	}
	p.Must = groupAndFuse(norm.Must)
	p.Should = groupAndFuse(norm.Should)
	p.MustNot = groupAndFuse(norm.MustNot)

	p.Columns = []string{"seed", "score"}
	for i, c := range p.Should {
		p.Columns = append(p.Columns, columnName(c, i))
	}
	return p, nil
}

func columnName(c *NormalizedClause, i int) string {
	if len(c.Values) == 1 {
		return fmt.Sprintf("%s_%s", c.Category, c.Values[0])
	}
	return fmt.Sprintf("%s_%d", c.Category, i)
}

// groupAndFuse stably sorts a clause list by category (so clauses
// that can share sampler work evaluate adjacently) and, if both
// ErraticRank and ErraticSuit are present, merges them into one
// ErraticRankAndSuit clause.
func groupAndFuse(clauses []*NormalizedClause) []*NormalizedClause {
	if len(clauses) == 0 {
		return clauses
	}

	sorted := append([]*NormalizedClause{}, clauses...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Category < sorted[j].Category })

	var ranks, suits, rest []*NormalizedClause
	for _, c := range sorted {
		switch c.Category {
		case CategoryErraticRank:
			ranks = append(ranks, c)
		case CategoryErraticSuit:
			suits = append(suits, c)
		default:
			rest = append(rest, c)
		}
	}
	if len(ranks) == 0 && len(suits) == 0 {
		return rest
	}
	if len(ranks) == 0 || len(suits) == 0 {
		return append(append(rest, ranks...), suits...)
	}
	fused := &NormalizedClause{
		Category: CategoryErraticRankAndSuit,
		Children: append(append([]*NormalizedClause{}, ranks...), suits...),
		Path:     "erratic-fusion",
	}
	return append(rest, fused)
}

// DeclareStreams walks every clause in the pipeline and declares the
// stream keys it will consume into cache, so the batch's evaluators
// run entirely against pre-built streams.
func (p *Pipeline) DeclareStreams(cache *rng.Cache) error {
	for _, list := range [][]*NormalizedClause{p.Must, p.Should, p.MustNot} {
		for _, c := range list {
			if err := declareClauseStreams(c, cache); err != nil {
				return err
			}
		}
	}
	return nil
}

func declareClauseStreams(c *NormalizedClause, cache *rng.Cache) error {
	switch c.Category {
	case CategoryAnd, CategoryOr, CategoryErraticRankAndSuit:
		for _, child := range c.Children {
			if err := declareClauseStreams(child, cache); err != nil {
				return err
			}
		}
		return nil
	case CategoryVoucher:
		return declareForAntes(cache, c.Antes, sim.VoucherKey)
	case CategoryTag:
		return declareForAntes(cache, c.Antes, func(a int) string { return sim.TagKey(a, 0) }, func(a int) string { return sim.TagKey(a, 1) })
	case CategoryBoss:
		return declareForAntes(cache, c.Antes, sim.BossKey)
	case CategoryJoker, CategorySoulJoker, CategorySoulJokerEditionOnly:
		return declareJokerFamily(c, cache)
	case CategoryTarotCard:
		return declareCardFamily(c, cache, sim.TarotStreamKeys)
	case CategoryPlanetCard:
		return declareCardFamily(c, cache, sim.PlanetStreamKeys)
	case CategorySpectralCard:
		return declareCardFamily(c, cache, sim.SpectralStreamKeys)
	case CategoryPlayingCard:
		return declarePlayingCardFamily(c, cache)
	case CategoryErraticRank, CategoryErraticSuit:
		return cache.Declare(sim.ErraticDeckKey)
	case CategoryEvent:
		// A Lucky-card roll reads both the money and the mult stream, so a
		// clause on either event needs both keys.
		if c.Values[0] == sim.EventLuckyMoney || c.Values[0] == sim.EventLuckyMult {
			if err := cache.Declare(sim.EventKey(sim.EventLuckyMoney)); err != nil {
				return err
			}
			return cache.Declare(sim.EventKey(sim.EventLuckyMult))
		}
		return cache.Declare(sim.EventKey(c.Values[0]))
	default:
		return fmt.Errorf("filter: no stream declaration rule for category %s", c.Category)
	}
}

func declareForAntes(cache *rng.Cache, antes []int, keyFns ...func(int) string) error {
	for _, a := range antes {
		for _, kf := range keyFns {
			if err := cache.Declare(kf(a)); err != nil {
				return err
			}
		}
	}
	return nil
}

// declareJokerFamily declares the stream keys a Joker/SoulJoker/
// SoulJokerEditionOnly clause consumes. Soul jokers only ever appear
// from pack slots (a shop never offers a legendary joker directly), so
// shop-slot enumeration is skipped for both soul-joker categories.
func declareJokerFamily(c *NormalizedClause, cache *rng.Cache) error {
	isSoul := c.Category == CategorySoulJoker || c.Category == CategorySoulJokerEditionOnly
	for _, a := range c.Antes {
		if !isSoul {
			for _, slot := range CapSlotsForAnte(a, c.ShopSlots, true) {
				keys := sim.JokerStreamKeys(a, sim.Source{Shop: true, Slot: slot})
				if err := declareJokerKeySet(cache, keys); err != nil {
					return err
				}
			}
		}
		for _, slot := range CapSlotsForAnte(a, c.PackSlots, false) {
			src := sim.Source{Shop: false, Slot: slot}
			var keys sim.JokerKeys
			if isSoul {
				keys = sim.SoulJokerStreamKeys(a, src)
			} else {
				keys = sim.JokerStreamKeys(a, src)
			}
			if err := declareJokerKeySet(cache, keys); err != nil {
				return err
			}
		}
	}
	return nil
}

func declareJokerKeySet(cache *rng.Cache, keys sim.JokerKeys) error {
	for _, k := range []string{keys.Rarity, keys.Appearance, keys.Edition, keys.Sticker} {
		if k == "" {
			continue
		}
		if err := cache.Declare(k); err != nil {
			return err
		}
	}
	return nil
}

func declareCardFamily(c *NormalizedClause, cache *rng.Cache, keyFn func(ante, slot int) sim.CardKeys) error {
	for _, a := range c.Antes {
		for _, slot := range CapSlotsForAnte(a, c.PackSlots, false) {
			keys := keyFn(a, slot)
			if err := cache.Declare(keys.Identity); err != nil {
				return err
			}
			if err := cache.Declare(keys.Modifier); err != nil {
				return err
			}
		}
	}
	return nil
}

func declarePlayingCardFamily(c *NormalizedClause, cache *rng.Cache) error {
	for _, a := range c.Antes {
		for _, slot := range CapSlotsForAnte(a, c.PackSlots, false) {
			keys := sim.PlayingCardStreamKeys(a, slot)
			for _, k := range []string{keys.Rank, keys.Suit, keys.Enhancement, keys.Seal} {
				if err := cache.Declare(k); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
