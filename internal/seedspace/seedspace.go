// Package seedspace addresses the 8-character seed lattice: encoding
// seed strings to and from the lattice index used by the search driver.
package seedspace

import (
	"fmt"
	"strings"
)

// Alphabet is the canonical 35-character seed alphabet: A-Z minus I,
// then 2-9 minus 0 and 1. Ordinal position in this string IS the digit
// value; changing it changes every seed's numeric index.
const Alphabet = "ABCDEFGHJKLMNOPQRSTUVWXYZ23456789"

// Length is the fixed width of a seed string.
const Length = 8

// Base is the lattice radix, len(Alphabet).
const Base = uint64(len(Alphabet))

// Total is the size of the full seed lattice, Base^Length.
var Total = pow(Base, Length)

var digitOf [256]int8

func init() {
	for i := range digitOf {
		digitOf[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		digitOf[Alphabet[i]] = int8(i)
	}
}

func pow(base uint64, exp int) uint64 {
	r := uint64(1)
	for i := 0; i < exp; i++ {
		r *= base
	}
	return r
}

// Seed is a validated, canonical (upper-case) 8-character seed string.
type Seed string

// Validate canonicalizes s (upper-casing it) and checks that it is
// exactly Length characters drawn from Alphabet.
func Validate(s string) (Seed, error) {
	if len(s) != Length {
		return "", fmt.Errorf("seed %q: want %d characters, got %d", s, Length, len(s))
	}
	upper := strings.ToUpper(s)
	for i := 0; i < Length; i++ {
		if digitOf[upper[i]] < 0 {
			return "", fmt.Errorf("seed %q: character %q at position %d is not in the seed alphabet %q", s, upper[i], i, Alphabet)
		}
	}
	return Seed(upper), nil
}

// Index returns the lattice index of a validated seed.
func Index(s Seed) uint64 {
	var idx uint64
	for i := 0; i < Length; i++ {
		idx = idx*Base + uint64(digitOf[s[i]])
	}
	return idx
}

// FromIndex renders the lattice index b as a Length-character seed
// string (zero-padded on the left with the alphabet's first symbol).
func FromIndex(b uint64) Seed {
	var buf [Length]byte
	for i := Length - 1; i >= 0; i-- {
		buf[i] = Alphabet[b%Base]
		b /= Base
	}
	return Seed(buf[:])
}

// PrefixSuffixCount returns the number of suffixes that complete a
// fixed prefix of length prefixLen into a full Length-character seed:
// Base^(Length-prefixLen).
func PrefixSuffixCount(prefixLen int) uint64 {
	if prefixLen < 0 || prefixLen > Length {
		panic(fmt.Sprintf("seedspace: prefix length %d out of range [0,%d]", prefixLen, Length))
	}
	return pow(Base, Length-prefixLen)
}

// PrefixCount returns the number of distinct prefixes of length
// prefixLen: Base^prefixLen.
func PrefixCount(prefixLen int) uint64 {
	if prefixLen < 0 || prefixLen > Length {
		panic(fmt.Sprintf("seedspace: prefix length %d out of range [0,%d]", prefixLen, Length))
	}
	return pow(Base, prefixLen)
}

// Prefix renders batch index b as a prefixLen-character string; it is
// the high-order digits of a FromIndex encoding at full Length.
func Prefix(b uint64, prefixLen int) string {
	full := FromIndex(b * PrefixSuffixCount(prefixLen))
	return string(full)[:prefixLen]
}

// Compose concatenates a fixed prefix with a suffix index (in
// [0, PrefixSuffixCount(len(prefix)))) to produce the full seed string
// for that lane, reconstructing the seed bit-exactly by concatenation
// as required by the batch enumeration contract.
func Compose(prefix string, suffixIndex uint64) Seed {
	suffixLen := Length - len(prefix)
	var buf [Length]byte
	copy(buf[:], prefix)
	s := suffixIndex
	for i := Length - 1; i >= len(prefix); i-- {
		buf[i] = Alphabet[s%Base]
		s /= Base
	}
	_ = suffixLen
	return Seed(buf[:])
}
