package sim

import (
	"fmt"

	"github.com/MJE43/balatro-seed-search/internal/domain"
	"github.com/MJE43/balatro-seed-search/internal/rng"
)

// eventCursor tracks, per named event stream and lane, the highest
// draw index already consumed plus the value that draw produced —
// events are requested by an out-of-order, non-contiguous index list
// but the underlying stream is strictly sequential, so reaching index
// i requires skipping past every index below it exactly once. A
// repeat of the most recently consumed index re-reads lastValue
// instead of drawing again.
type eventCursor struct {
	nextIndex [8]uint64
	lastValue [8]float64
	drawn     [8]bool
}

func (c *Context) cursorFor(name string) *eventCursor {
	if c.cursors == nil {
		c.cursors = make(map[string]*eventCursor)
	}
	cur, ok := c.cursors[name]
	if !ok {
		cur = &eventCursor{}
		c.cursors[name] = cur
	}
	return cur
}

// EventRoll advances the named event's stream to draw index (0-based)
// for every lane and returns that draw. Requesting an index below one
// already consumed on that lane is a contract violation: the clause
// compiler is required to request each event's indices in ascending
// order per lane (duplicates are fine and simply re-read the cursor
// without advancing).
func (c *Context) EventRoll(name string, index uint64) rng.Vec8 {
	cur := c.cursorFor(name)
	set := c.Cache.Get(EventKey(name))

	var out rng.Vec8
	for lane := 0; lane < 8; lane++ {
		s := set[lane]
		if s == nil {
			continue
		}
		next := cur.nextIndex[lane]
		if cur.drawn[lane] && index == next-1 {
			out[lane] = cur.lastValue[lane]
			continue
		}
		if index < next {
			panic(fmt.Sprintf("sim: event %q index %d requested after %d already consumed on lane %d", name, index, next, lane))
		}
		if index > next {
			s.Skip(index - next)
		}
		v := s.Next()
		out[lane] = v
		cur.nextIndex[lane] = index + 1
		cur.lastValue[lane] = v
		cur.drawn[lane] = true
	}
	return out
}

// LuckyOutcome is the result of one Lucky-card roll: a card so marked
// has an independent chance of paying out money and of granting mult,
// for the Lucky-card money/mult event.
type LuckyOutcome struct {
	MoneyTriggered bool
	MultTriggered  bool
}

// luckyMoneyChance and luckyMultChance match the source game's
// roughly 1-in-15 odds for each independent Lucky-card payout.
const (
	luckyMoneyChance = 1.0 / 15.0
	luckyMultChance  = 1.0 / 15.0
)

func LuckyCardRoll(ctx *Context, index uint64) [8]LuckyOutcome {
	moneyU := ctx.EventRoll(EventLuckyMoney, index)
	multU := ctx.EventRoll(EventLuckyMult, index)
	var out [8]LuckyOutcome
	for lane := 0; lane < 8; lane++ {
		out[lane] = LuckyOutcome{
			MoneyTriggered: moneyU[lane] < luckyMoneyChance,
			MultTriggered:  multU[lane] < luckyMultChance,
		}
	}
	return out
}

// misprintMin and misprintMax bound the Misprint joker's random mult
// roll.
const (
	misprintMin = 0.0
	misprintMax = 23.0
)

// MisprintRoll returns the mult a Misprint joker grants for the given
// roll index, uniform over [misprintMin, misprintMax).
func MisprintRoll(ctx *Context, index uint64) [8]float64 {
	u := ctx.EventRoll(EventMisprintMult, index)
	var out [8]float64
	for lane := 0; lane < 8; lane++ {
		out[lane] = misprintMin + u[lane]*(misprintMax-misprintMin)
	}
	return out
}

// WheelOfFortuneRoll returns the edition the Wheel of Fortune tarot
// assigns on the given roll index.
func WheelOfFortuneRoll(ctx *Context, index uint64) [8]domain.Edition {
	u := ctx.EventRoll(EventWheelOfFortune, index)
	return domain.SampleVec8(domain.EditionPool(), [8]float64(u))
}

// extinctionChance matches the source game's roughly 1-in-1000 chance
// per round that Cavendish or Gros Michel goes extinct.
const extinctionChance = 1.0 / 1000.0

// ExtinctionRoll reports whether the named extinction event (Cavendish
// or Gros Michel) fires on the given roll index, per lane.
func ExtinctionRoll(ctx *Context, name string, index uint64) [8]bool {
	u := ctx.EventRoll(name, index)
	var out [8]bool
	for lane := 0; lane < 8; lane++ {
		out[lane] = u[lane] < extinctionChance
	}
	return out
}
