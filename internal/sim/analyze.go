package sim

import (
	"fmt"

	"github.com/MJE43/balatro-seed-search/internal/domain"
	"github.com/MJE43/balatro-seed-search/internal/rng"
	"github.com/MJE43/balatro-seed-search/internal/seedspace"
)

// AnteReport is the full sampled resource set for one ante: voucher
// offer, shop joker slots, pack contents, both tag draws, and the
// boss blind — the "dump everything" shape the analyze CLI/HTTP
// surface exposes (SPEC_FULL §3 supplemented feature, generalized
// from the debug-dump style of one-off evaluate-and-print tools).
type AnteReport struct {
	Ante        int
	Voucher     domain.Voucher
	ShopJokers  []JokerDraw
	PackJokers  []JokerDraw
	SoulJokers  []JokerDraw
	Tarots      []TarotDraw
	Planets     []PlanetDraw
	Spectrals   []SpectralDraw
	PlayingCards []PlayingCardDraw
	Tags        TagDraws
	Boss        domain.Boss
}

// RunReport is the complete single-seed analysis: one AnteReport per
// ante plus the starting-deck composition when the deck is Erratic.
type RunReport struct {
	Seed        string
	Deck        domain.Deck
	Stake       domain.Stake
	Antes       []AnteReport
	ErraticDeck *ErraticDeck
}

// analyzeShopSlots and analyzePackSlots bound how many source slots
// Analyze samples per ante — generous enough to cover every slot a
// filter clause could reference, since Analyze is a diagnostic dump,
// not a hot-path evaluator bound by a clause's declared slot list.
const (
	analyzeShopSlots = MaxShopSlots
	analyzePackSlots = MaxPackSlots
)

// Analyze runs every sampling kernel for one seed across antes 1..8
// and returns the full resource dump. It builds its own single-lane
// cache (the seed occupies lane 0; the other seven lanes are dead),
// so it pays the full 8-lane kernel cost for one seed — acceptable
// for a diagnostic operation invoked at human request rates, not at
// search throughput.
func Analyze(seed string, deck domain.Deck, stake domain.Stake) (*RunReport, error) {
	canonical, err := seedspace.Validate(seed)
	if err != nil {
		return nil, fmt.Errorf("sim: analyze: %w", err)
	}

	var seeds [rng.Lanes][]byte
	seeds[0] = []byte(canonical)

	cache := rng.NewCache(seeds)
	if err := declareAnalyzeKeys(cache, deck); err != nil {
		return nil, fmt.Errorf("sim: analyze: declare streams: %w", err)
	}
	cache.Freeze()

	ctx := NewContext(int(deck), int(stake), cache)

	report := &RunReport{Seed: string(canonical), Deck: deck, Stake: stake}
	for ante := 1; ante <= MaxAnte; ante++ {
		report.Antes = append(report.Antes, analyzeAnte(ctx, ante))
	}
	if deck == domain.DeckErratic {
		decks := GenerateErraticDecks(ctx)
		report.ErraticDeck = &decks[0]
	}
	return report, nil
}

func analyzeAnte(ctx *Context, ante int) AnteReport {
	r := AnteReport{Ante: ante, Boss: AnteBossDraw(ctx, ante)[0], Tags: AnteTagDraw(ctx, ante)}
	r.Voucher = VoucherDraw(ctx, ante)[0]

	for slot := 0; slot < analyzeShopSlots; slot++ {
		r.ShopJokers = append(r.ShopJokers, JokerAppearance(ctx, ante, Source{Shop: true, Slot: slot})[0])
	}
	for slot := 0; slot < analyzePackSlots; slot++ {
		r.PackJokers = append(r.PackJokers, JokerAppearance(ctx, ante, Source{Shop: false, Slot: slot})[0])
		r.SoulJokers = append(r.SoulJokers, SoulJokerAppearance(ctx, ante, Source{Shop: false, Slot: slot})[0])
		r.Tarots = append(r.Tarots, TarotPackDraw(ctx, ante, slot)[0])
		r.Planets = append(r.Planets, PlanetPackDraw(ctx, ante, slot)[0])
		r.Spectrals = append(r.Spectrals, SpectralPackDraw(ctx, ante, slot)[0])
		r.PlayingCards = append(r.PlayingCards, PlayingCardPackDraw(ctx, ante, slot)[0])
	}
	return r
}

func declareAnalyzeKeys(cache *rng.Cache, deck domain.Deck) error {
	for ante := 1; ante <= MaxAnte; ante++ {
		if err := cache.Declare(VoucherKey(ante)); err != nil {
			return err
		}
		if err := cache.Declare(TagKey(ante, 0)); err != nil {
			return err
		}
		if err := cache.Declare(TagKey(ante, 1)); err != nil {
			return err
		}
		if err := cache.Declare(BossKey(ante)); err != nil {
			return err
		}
		for slot := 0; slot < analyzeShopSlots; slot++ {
			if err := declareJokerKeys(cache, JokerStreamKeys(ante, Source{Shop: true, Slot: slot})); err != nil {
				return err
			}
		}
		for slot := 0; slot < analyzePackSlots; slot++ {
			src := Source{Shop: false, Slot: slot}
			if err := declareJokerKeys(cache, JokerStreamKeys(ante, src)); err != nil {
				return err
			}
			if err := declareJokerKeys(cache, SoulJokerStreamKeys(ante, src)); err != nil {
				return err
			}
			for _, ck := range []CardKeys{
				TarotStreamKeys(ante, slot),
				PlanetStreamKeys(ante, slot),
				SpectralStreamKeys(ante, slot),
			} {
				if err := cache.Declare(ck.Identity); err != nil {
					return err
				}
				if err := cache.Declare(ck.Modifier); err != nil {
					return err
				}
			}
			pck := PlayingCardStreamKeys(ante, slot)
			for _, k := range []string{pck.Rank, pck.Suit, pck.Enhancement, pck.Seal} {
				if err := cache.Declare(k); err != nil {
					return err
				}
			}
		}
	}
	if deck == domain.DeckErratic {
		if err := cache.Declare(ErraticDeckKey); err != nil {
			return err
		}
	}
	return nil
}

func declareJokerKeys(cache *rng.Cache, keys JokerKeys) error {
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
