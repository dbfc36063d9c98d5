package domain

// Deck selects the starting deck composition and shop modifiers. The
// ordering below is part of the PRNG contract: changing it
// changes every seed's sampled values, so it is append-only.
type Deck int

const (
	DeckRed Deck = iota
	DeckBlue
	DeckYellow
	DeckGreen
	DeckBlack
	DeckMagic
	DeckNebula
	DeckGhost
	DeckAbandoned
	DeckCheckered
	DeckZodiac
	DeckPainted
	DeckAnaglyph
	DeckPlasma
	DeckErratic
)

var deckNames = []string{
	"Red", "Blue", "Yellow", "Green", "Black", "Magic", "Nebula", "Ghost",
	"Abandoned", "Checkered", "Zodiac", "Painted", "Anaglyph", "Plasma", "Erratic",
}

var deckIndex = buildIndex[Deck](deckNames)

func (d Deck) String() string {
	if int(d) < 0 || int(d) >= len(deckNames) {
		return "Unknown"
	}
	return deckNames[d]
}

// ParseDeck resolves a case-insensitive deck name.
func ParseDeck(name string) (Deck, bool) { return foldLookup(deckIndex, name) }

// NumDecks is the fixed deck count.
const NumDecks = 15

// Stake selects the run's difficulty modifiers.
type Stake int

const (
	StakeWhite Stake = iota
	StakeRed
	StakeGreen
	StakeBlack
	StakeBlue
	StakePurple
	StakeOrange
	StakeGold
)

var stakeNames = []string{"White", "Red", "Green", "Black", "Blue", "Purple", "Orange", "Gold"}
var stakeIndex = buildIndex[Stake](stakeNames)

func (s Stake) String() string {
	if int(s) < 0 || int(s) >= len(stakeNames) {
		return "Unknown"
	}
	return stakeNames[s]
}

// ParseStake resolves a case-insensitive stake name.
func ParseStake(name string) (Stake, bool) { return foldLookup(stakeIndex, name) }

// NumStakes is the fixed stake count.
const NumStakes = 8

// Edition is a cosmetic/mechanical modifier rolled onto a sampled item.
type Edition int

const (
	EditionNone Edition = iota
	EditionFoil
	EditionHolo
	EditionPolychrome
	EditionNegative
)

var editionNames = []string{"None", "Foil", "Holo", "Polychrome", "Negative"}
var editionIndex = buildIndex[Edition](editionNames)

func (e Edition) String() string {
	if int(e) < 0 || int(e) >= len(editionNames) {
		return "Unknown"
	}
	return editionNames[e]
}

// ParseEdition resolves a case-insensitive edition name.
func ParseEdition(name string) (Edition, bool) { return foldLookup(editionIndex, name) }

// Rarity partitions the joker appearance pool.
type Rarity int

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityLegendary
)

var rarityNames = []string{"Common", "Uncommon", "Rare", "Legendary"}

func (r Rarity) String() string {
	if int(r) < 0 || int(r) >= len(rarityNames) {
		return "Unknown"
	}
	return rarityNames[r]
}

// Enhancement is a playing-card modifier rolled independently of edition.
type Enhancement int

const (
	EnhancementNone Enhancement = iota
	EnhancementBonus
	EnhancementMult
	EnhancementWild
	EnhancementGlass
	EnhancementSteel
	EnhancementStone
	EnhancementGold
	EnhancementLucky
)

var enhancementNames = []string{
	"None", "Bonus", "Mult", "Wild", "Glass", "Steel", "Stone", "Gold", "Lucky",
}
var enhancementIndex = buildIndex[Enhancement](enhancementNames)

func (e Enhancement) String() string {
	if int(e) < 0 || int(e) >= len(enhancementNames) {
		return "Unknown"
	}
	return enhancementNames[e]
}

// ParseEnhancement resolves a case-insensitive enhancement name.
func ParseEnhancement(name string) (Enhancement, bool) { return foldLookup(enhancementIndex, name) }

// Seal is a playing-card modifier layered on top of an enhancement.
type Seal int

const (
	SealNone Seal = iota
	SealGold
	SealRed
	SealBlue
	SealPurple
)

var sealNames = []string{"None", "Gold", "Red", "Blue", "Purple"}
var sealIndex = buildIndex[Seal](sealNames)

func (s Seal) String() string {
	if int(s) < 0 || int(s) >= len(sealNames) {
		return "Unknown"
	}
	return sealNames[s]
}

// ParseSeal resolves a case-insensitive seal name.
func ParseSeal(name string) (Seal, bool) { return foldLookup(sealIndex, name) }

// Rank is a playing-card rank, ordered 2..10, J, Q, K, A.
type Rank int

const (
	RankTwo Rank = iota
	RankThree
	RankFour
	RankFive
	RankSix
	RankSeven
	RankEight
	RankNine
	RankTen
	RankJack
	RankQueen
	RankKing
	RankAce
)

var rankNames = []string{
	"2", "3", "4", "5", "6", "7", "8", "9", "10", "Jack", "Queen", "King", "Ace",
}
var rankIndex = buildIndex[Rank](rankNames)

func (r Rank) String() string {
	if int(r) < 0 || int(r) >= len(rankNames) {
		return "Unknown"
	}
	return rankNames[r]
}

// ParseRank resolves a case-insensitive rank name or numeral ("8", "Jack").
func ParseRank(name string) (Rank, bool) { return foldLookup(rankIndex, name) }

// NumRanks is the fixed rank count.
const NumRanks = 13

// Suit is a playing-card suit.
type Suit int

const (
	SuitSpades Suit = iota
	SuitHearts
	SuitClubs
	SuitDiamonds
)

var suitNames = []string{"Spades", "Hearts", "Clubs", "Diamonds"}
var suitIndex = buildIndex[Suit](suitNames)

func (s Suit) String() string {
	if int(s) < 0 || int(s) >= len(suitNames) {
		return "Unknown"
	}
	return suitNames[s]
}

// ParseSuit resolves a case-insensitive suit name.
func ParseSuit(name string) (Suit, bool) { return foldLookup(suitIndex, name) }

// NumSuits is the fixed suit count.
const NumSuits = 4
