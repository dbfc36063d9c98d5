package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MJE43/balatro-seed-search/internal/domain"
	"go.uber.org/multierr"
)

// AnyValue is the sentinel clause value meaning "any identity in this
// category" — used by Joker/SoulJoker clauses that only constrain
// edition.
const AnyValue = "Any"

// NormalizedClause is a fully resolved, validated clause: canonical
// category, canonical value strings, defaulted antes/slots/score/min,
// and (for And/Or) its resolved children. internal/evaluate builds
// one evaluator per NormalizedClause.
type NormalizedClause struct {
	Category Category
	Values   []string
	Edition  string // "" = unconstrained, otherwise a canonical domain.Edition name
	Antes    []int
	ShopSlots []int
	PackSlots []int
	Min       int
	Score     int
	RequireMega bool
	Sources     []string
	Children    []*NormalizedClause
	Path        string
}

// Normalized is a document's three clause lists after normalization.
type Normalized struct {
	Must    []*NormalizedClause
	Should  []*NormalizedClause
	MustNot []*NormalizedClause
}

// Normalize validates and normalizes doc, returning every broken
// clause path at once via multierr rather than stopping at the first.
func Normalize(doc *Document) (*Normalized, error) {
	var errs error
	must, err := normalizeList(doc.Must, "must", false, doc.Defaults)
	errs = multierr.Append(errs, err)
	should, err := normalizeList(doc.Should, "should", true, doc.Defaults)
	errs = multierr.Append(errs, err)
	mustNot, err := normalizeList(doc.MustNot, "mustNot", false, doc.Defaults)
	errs = multierr.Append(errs, err)
	if errs != nil {
		return nil, errs
	}
	return &Normalized{Must: must, Should: should, MustNot: mustNot}, nil
}

func normalizeList(raws []Clause, listName string, isShould bool, defaults Defaults) ([]*NormalizedClause, error) {
	var out []*NormalizedClause
	var errs error
	for i, raw := range raws {
		path := fmt.Sprintf("%s[%d]", listName, i)
		nc, err := normalizeClause(raw, path, isShould, defaults)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		out = append(out, nc)
	}
	return out, errs
}

func normalizeClause(raw Clause, path string, isShould bool, defaults Defaults) (*NormalizedClause, error) {
	typeTag, value, err := resolveShorthand(raw, path)
	if err != nil {
		return nil, err
	}

	cat, ok := resolveCategory(typeTag)
	if !ok {
		return nil, validationErrf(path, "unknown item type %q", typeTag)
	}

	if cat == CategoryAnd || cat == CategoryOr {
		return normalizeCompound(raw, cat, path, isShould, defaults)
	}

	values := raw.Values
	if len(values) == 0 {
		if value == "" {
			return nil, validationErrf(path, "clause has no value or values")
		}
		values = []string{value}
	}

	// Expand a multi-value clause into an Or-of-singletons: each
	// singleton keeps every other field, so defaulting
	// and validation happen identically whether the clause started as
	// one value or several.
	if len(values) > 1 {
		return expandValues(raw, cat, values, path, isShould, defaults)
	}

	nc, err := buildLeaf(raw, cat, values[0], path, isShould, defaults)
	if err != nil {
		return nil, err
	}
	return nc, nil
}

func expandValues(raw Clause, cat Category, values []string, path string, isShould bool, defaults Defaults) (*NormalizedClause, error) {
	var errs error
	children := make([]*NormalizedClause, 0, len(values))
	for i, v := range values {
		childPath := fmt.Sprintf("%s.values[%d]", path, i)
		single := raw
		single.Values = nil
		single.Value = v
		child, err := buildLeaf(single, cat, v, childPath, isShould, defaults)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		children = append(children, child)
	}
	if errs != nil {
		return nil, errs
	}
	return &NormalizedClause{Category: CategoryOr, Children: children, Path: path}, nil
}

func normalizeCompound(raw Clause, cat Category, path string, isShould bool, defaults Defaults) (*NormalizedClause, error) {
	if len(raw.Clauses) == 0 {
		return nil, validationErrf(path, "%s clause has no nested clauses", cat)
	}
	var errs error
	children := make([]*NormalizedClause, 0, len(raw.Clauses))
	for i, c := range raw.Clauses {
		childPath := fmt.Sprintf("%s.clauses[%d]", path, i)
		child, err := normalizeClause(c, childPath, isShould, defaults)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		children = append(children, child)
	}
	if errs != nil {
		return nil, errs
	}
	return &NormalizedClause{Category: cat, Children: children, Path: path}, nil
}

func buildLeaf(raw Clause, cat Category, value string, path string, isShould bool, defaults Defaults) (*NormalizedClause, error) {
	var errs error

	canonicalValue, err := canonicalizeValue(cat, value)
	if err != nil {
		errs = multierr.Append(errs, validationErrf(path, "%v", err))
	}

	edition := ""
	if raw.Edition != "" {
		e, ok := domain.ParseEdition(raw.Edition)
		if !ok {
			errs = multierr.Append(errs, validationErrf(path, "unknown edition %q", raw.Edition))
		} else {
			edition = e.String()
		}
	}

	// A SoulJoker clause with no identity constraint and an edition
	// demand never needs to check which legendary joker was drawn —
	// promote it to the cheaper edition-only category so it can run
	// first and early-exit a lane as soon as any match is found.
	if cat == CategorySoulJoker && canonicalValue == AnyValue && edition != "" {
		cat = CategorySoulJokerEditionOnly
	}

	antes := raw.Antes
	if len(antes) == 0 {
		antes = defaults.Antes
	}
	if len(antes) == 0 {
		antes = defaultAntes()
	}
	for _, a := range antes {
		if a < 1 || a > 8 {
			errs = multierr.Append(errs, validationErrf(path, "ante %d out of range [1,8]", a))
		}
	}
	antes = dedupeInts(antes)

	shopSlots := raw.ShopSlots
	if len(shopSlots) == 0 {
		shopSlots = defaults.ShopSlots
	}
	if len(shopSlots) == 0 {
		shopSlots = defaultSlotRange(MaxShopSlot)
	}

	packSlots := raw.PackSlots
	if len(packSlots) == 0 {
		packSlots = defaults.PackSlots
	}
	if len(packSlots) == 0 {
		packSlots = defaultSlotRange(MaxPackSlot)
	}

	score := 0
	if isShould {
		score = raw.Score
		if score == 0 {
			score = defaults.Score
		}
		if score == 0 {
			score = 1
		}
	} else if raw.Score != 0 {
		errs = multierr.Append(errs, validationErrf(path, "score set on a non-should clause"))
	}

	min := raw.Min
	if min == 0 {
		min = 1
	} else if min < 0 {
		errs = multierr.Append(errs, validationErrf(path, "min %d must be >= 1", min))
	}

	if errs != nil {
		return nil, errs
	}

	return &NormalizedClause{
		Category:    cat,
		Values:      []string{canonicalValue},
		Edition:     edition,
		Antes:       antes,
		ShopSlots:   shopSlots,
		PackSlots:   packSlots,
		Min:         min,
		Score:       score,
		RequireMega: raw.RequireMega,
		Sources:     raw.Sources,
		Path:        path,
	}, nil
}

func defaultAntes() []int {
	out := make([]int, 8)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// dedupeInts returns a sorted copy of vs with duplicates removed. A
// repeated ante is meaningless as a multi-occurrence request — an
// event evaluator indexes its draw stream by ante, so a duplicate
// would otherwise ask for the same index twice.
func dedupeInts(vs []int) []int {
	sorted := append([]int(nil), vs...)
	sort.Ints(sorted)
	out := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}

// resolveShorthand resolves a raw clause's type+value, whether given
// directly or via a category-shorthand field, and rejects a clause
// that sets more than one.
func resolveShorthand(raw Clause, path string) (typeTag, value string, err error) {
	short := shorthands(raw)
	if raw.Type != "" && len(short) > 0 {
		return "", "", validationErrf(path, "clause sets both \"type\" and a category shorthand field")
	}
	if len(short) > 1 {
		return "", "", validationErrf(path, "clause sets more than one category shorthand field")
	}
	if len(short) == 1 {
		return short[0].tag, short[0].value, nil
	}
	return raw.Type, raw.Value, nil
}

// canonicalizeValue lowercase-folds value against the enum table for
// cat and returns its canonical name. AnyValue passes through
// unchanged for categories that accept a wildcard identity.
func canonicalizeValue(cat Category, value string) (string, error) {
	if value == AnyValue {
		switch cat {
		case CategoryJoker, CategorySoulJoker:
			return AnyValue, nil
		default:
			return "", fmt.Errorf("%q is not a valid value for %s", AnyValue, cat)
		}
	}

	switch cat {
	case CategoryVoucher:
		return parseOrErr(cat, value, domain.ParseVoucher)
	case CategoryJoker, CategorySoulJoker:
		return parseOrErr(cat, value, domain.ParseJoker)
	case CategoryTarotCard:
		return parseOrErr(cat, value, domain.ParseTarot)
	case CategoryPlanetCard:
		return parseOrErr(cat, value, domain.ParsePlanet)
	case CategorySpectralCard:
		return parseOrErr(cat, value, domain.ParseSpectral)
	case CategoryPlayingCard:
		return parsePlayingCardValue(value)
	case CategoryTag:
		return parseOrErr(cat, value, domain.ParseTag)
	case CategoryBoss:
		return parseOrErr(cat, value, domain.ParseBoss)
	case CategoryErraticRank:
		return parseOrErr(cat, value, domain.ParseRank)
	case CategoryErraticSuit:
		return parseOrErr(cat, value, domain.ParseSuit)
	case CategoryEvent:
		if !isKnownEventName(value) {
			return "", fmt.Errorf("unknown event name %q", value)
		}
		return value, nil
	default:
		return "", fmt.Errorf("category %s does not accept a leaf value", cat)
	}
}

// stringer is any of the domain package's enum types, all of which
// implement fmt.Stringer via their own String method.
type stringer interface{ String() string }

func parseOrErr[T stringer](cat Category, value string, parse func(string) (T, bool)) (string, error) {
	v, ok := parse(value)
	if !ok {
		return "", fmt.Errorf("unknown %s value %q", cat, value)
	}
	return v.String(), nil
}

// parsePlayingCardValue accepts "<Rank> of <Suit>" (e.g. "Ace of
// Hearts"), the only format a PlayingCard clause's value takes.
func parsePlayingCardValue(value string) (string, error) {
	const sep = " of "
	idx := strings.Index(strings.ToLower(value), sep)
	if idx < 0 {
		return "", fmt.Errorf("playing card value %q must be \"<rank> of <suit>\"", value)
	}
	rankPart, suitPart := value[:idx], value[idx+len(sep):]
	rank, ok := domain.ParseRank(rankPart)
	if !ok {
		return "", fmt.Errorf("unknown rank %q in playing card value %q", rankPart, value)
	}
	suit, ok := domain.ParseSuit(suitPart)
	if !ok {
		return "", fmt.Errorf("unknown suit %q in playing card value %q", suitPart, value)
	}
	return rank.String() + sep + suit.String(), nil
}

func isKnownEventName(name string) bool {
	switch name {
	case "LuckyMoney", "LuckyMult", "MisprintMult", "WheelOfFortune", "Cavendish", "GrosMichel":
		return true
	default:
		return false
	}
}
