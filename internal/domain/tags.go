package domain

// Tag is drawn twice per ante (small-blind tag, big-blind tag) from a
// flat equal-weight pool.
type Tag int

const (
	TagUncommon Tag = iota
	TagRare
	TagNegative
	TagFoil
	TagHolo
	TagPolychrome
	TagInvestment
	TagVoucher
	TagBoss
	TagStandard
	TagCharm
	TagMeteor
	TagBuffoon
	TagHandy
	TagGarbage
	TagEther
	TagCoupon
	TagDouble
	TagJuggle
	TagDSix
	TagTopup
	TagSpeed
	TagOrbital
	TagEconomy
)

var tagNames = []string{
	"Uncommon", "Rare", "Negative", "Foil", "Holo", "Polychrome",
	"Investment", "Voucher", "Boss", "Standard", "Charm", "Meteor",
	"Buffoon", "Handy", "Garbage", "Ether", "Coupon", "Double",
	"Juggle", "D6", "Topup", "Speed", "Orbital", "Economy",
}

var tagIndex = buildIndex[Tag](tagNames)

func (t Tag) String() string {
	if int(t) < 0 || int(t) >= len(tagNames) {
		return "Unknown"
	}
	return tagNames[t]
}

// ParseTag resolves a case-insensitive tag name.
func ParseTag(name string) (Tag, bool) { return foldLookup(tagIndex, name) }

// NumTags is the fixed tag count.
const NumTags = 24

var tagPool = equalPool(NumTags, func(i int) Tag { return Tag(i) })

// TagPool returns the shared immutable tag pool.
func TagPool() *WeightedPool[Tag] { return tagPool }
