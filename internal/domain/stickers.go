package domain

// Sticker is a joker modifier rolled as the joker composite sampler's
// final sub-draw, after edition.
// Like Edition, more than one sticker can never apply to the same
// joker in one draw — the sticker roll picks at most one from this
// closed set, heavily weighted toward None.
type Sticker int

const (
	StickerNone Sticker = iota
	StickerEternal
	StickerPerishable
	StickerRental
)

var stickerNames = []string{"None", "Eternal", "Perishable", "Rental"}
var stickerIndex = buildIndex[Sticker](stickerNames)

func (s Sticker) String() string {
	if int(s) < 0 || int(s) >= len(stickerNames) {
		return "Unknown"
	}
	return stickerNames[s]
}

// ParseSticker resolves a case-insensitive sticker name.
func ParseSticker(name string) (Sticker, bool) { return foldLookup(stickerIndex, name) }

// stickerPool is heavily skewed toward no sticker at all.
var stickerPool = NewWeightedPool([]Entry[Sticker]{
	{Value: StickerNone, Weight: 94},
	{Value: StickerEternal, Weight: 3},
	{Value: StickerPerishable, Weight: 2},
	{Value: StickerRental, Weight: 1},
})

// StickerPool returns the shared joker-sticker roll pool.
func StickerPool() *WeightedPool[Sticker] { return stickerPool }

// editionPool is the shared edition roll every joker/card draw makes
// after identity is resolved, heavily skewed toward None.
var editionPool = NewWeightedPool([]Entry[Edition]{
	{Value: EditionNone, Weight: 96},
	{Value: EditionFoil, Weight: 2},
	{Value: EditionHolo, Weight: 1},
	{Value: EditionPolychrome, Weight: 0.6},
	{Value: EditionNegative, Weight: 0.4},
})

// EditionPool returns the shared edition roll pool.
func EditionPool() *WeightedPool[Edition] { return editionPool }
