package sim

import "github.com/MJE43/balatro-seed-search/internal/domain"

// ErraticDeck is one lane's full 52-card starting deck, built by 52
// independent rank/suit draws from a single shared stream at run
// start. The fused erratic-rank/erratic-suit evaluator walks this
// array once.
type ErraticDeck [52]domain.PlayingCard

// GenerateErraticDecks draws all eight lanes' starting decks from the
// single declared ErraticDeckKey stream, rank draw then suit draw per
// card position, matching the "share this single walk" requirement so
// the fused rank+suit evaluator never re-draws. Each call walks a copy
// of the cached stream from its start, so every caller sharing a
// Context sees the same deck.
func GenerateErraticDecks(ctx *Context) [8]ErraticDeck {
	stream := ctx.Cache.Get(ErraticDeckKey)

	var out [8]ErraticDeck
	for lane := 0; lane < 8; lane++ {
		if stream[lane] == nil {
			continue
		}
		walk := *stream[lane]
		s := &walk
		for i := 0; i < 52; i++ {
			rank := domain.RankPool().Sample(s.Next())
			suit := domain.SuitPool().Sample(s.Next())
			out[lane][i] = domain.PlayingCard{Rank: rank, Suit: suit}
		}
	}
	return out
}
