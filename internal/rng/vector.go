package rng

// Lanes is the SIMD width the engine commits to: eight independent
// seeds advanced in lockstep, one per lane of a (conceptual) 512-bit
// double vector, falling back to two 256-bit vectors on hardware that
// lacks native 512-bit support. In Go we emulate in plain scalar code
// across a fixed-size array so the scalar and "vector" code paths are,
// by construction, the same code — a portable fallback every vector
// op needs regardless of target hardware.
const Lanes = 8

// Vec8 holds one double per lane.
type Vec8 [Lanes]float64

// Mask8 is one bit per lane (bit i == lane i), used to drive lane-wise
// selection and early-exit checks the way a 512-bit double mask would
// convert to a 256-bit i32 mask on real SIMD hardware.
type Mask8 uint8

// FullMask has every lane set.
const FullMask Mask8 = 0xFF

// Lane reports whether bit i of m is set.
func (m Mask8) Lane(i int) bool { return m&(1<<uint(i)) != 0 }

// Set returns m with lane i forced to v.
func (m Mask8) Set(i int, v bool) Mask8 {
	if v {
		return m | (1 << uint(i))
	}
	return m &^ (1 << uint(i))
}

// And, Or, AndNot compose masks the way the fused And/Or clause
// evaluators compose child lane results.
func (m Mask8) And(n Mask8) Mask8    { return m & n }
func (m Mask8) Or(n Mask8) Mask8     { return m | n }
func (m Mask8) AndNot(n Mask8) Mask8 { return m &^ n }

// None reports whether every lane is unset — the "drop this batch"
// early-exit condition the search driver checks between evaluators.
func (m Mask8) None() bool { return m == 0 }

// StreamSet holds one Stream per lane, one per seed in the current
// 8-wide batch, all built from the same domain key but eight different
// seed bytes.
type StreamSet [Lanes]*Stream

// NewStreamSet builds eight independent streams from one domain key
// and eight seeds — the SIMD-wide counterpart to NewStream. Lanes
// whose seed bytes are nil are left as nil streams (used when a batch
// group runs with fewer than 8 live lanes, e.g. the tail of the seed
// lattice).
func NewStreamSet(key []byte, seeds [Lanes][]byte) (StreamSet, error) {
	var set StreamSet
	for i := 0; i < Lanes; i++ {
		if seeds[i] == nil {
			continue
		}
		s, err := NewStream(key, seeds[i])
		if err != nil {
			return StreamSet{}, err
		}
		set[i] = s
	}
	return set, nil
}

// NextVec8 draws the next double from every live lane of the set,
// lane i of the result coming from set[i].Next(). Dead lanes (nil
// stream) yield 0 and must not be read by callers — evaluators mask
// them off via Mask8 before trusting the value.
func (set StreamSet) NextVec8() Vec8 {
	var v Vec8
	for i := 0; i < Lanes; i++ {
		if set[i] != nil {
			v[i] = set[i].Next()
		}
	}
	return v
}

// ScalarReference takes draws values independently, lane by lane, from
// eight freshly built scalar Streams constructed with the same key and
// seed the SIMD path would use. Tests use this to assert scalar/vector
// equivalence: the SIMD batch draw and eight independent scalar draws
// over the same seeds must be bit-identical.
func ScalarReference(key []byte, seeds [Lanes][]byte, draws int) [Lanes][]float64 {
	var out [Lanes][]float64
	for i := 0; i < Lanes; i++ {
		if seeds[i] == nil {
			continue
		}
		s, err := NewStream(key, seeds[i])
		if err != nil {
			continue
		}
		vals := make([]float64, draws)
		for d := 0; d < draws; d++ {
			vals[d] = s.Next()
		}
		out[i] = vals
	}
	return out
}
