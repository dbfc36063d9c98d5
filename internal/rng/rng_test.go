package rng

import "testing"

func TestNextInRange(t *testing.T) {
	s, err := NewStream([]byte("Voucher1"), []byte("ABCDEFGH"))
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}
	for i := 0; i < 10000; i++ {
		f := s.Next()
		if f < 0 || f >= 1 {
			t.Fatalf("draw %d out of range [0,1): %v", i, f)
		}
	}
}

func TestDeterministic(t *testing.T) {
	key := []byte("Joker1")
	seed := []byte("A2B3C4D5")

	s1, _ := NewStream(key, seed)
	s2, _ := NewStream(key, seed)

	for i := 0; i < 64; i++ {
		a, b := s1.Next(), s2.Next()
		if a != b {
			t.Fatalf("draw %d diverged: %v != %v", i, a, b)
		}
	}
}

func TestDistinctKeysDiverge(t *testing.T) {
	seed := []byte("A2B3C4D5")
	s1, _ := NewStream([]byte("Tag1"), seed)
	s2, _ := NewStream([]byte("Tag2"), seed)

	same := true
	for i := 0; i < 8; i++ {
		if s1.Next() != s2.Next() {
			same = false
		}
	}
	if same {
		t.Fatal("streams with different keys produced identical sequences")
	}
}

func TestBadStreamKey(t *testing.T) {
	if _, err := NewStream(nil, []byte("A2B3C4D5")); err == nil {
		t.Fatal("expected error for empty key")
	}
	overlong := make([]byte, maxKeyLen+1)
	if _, err := NewStream(overlong, []byte("A2B3C4D5")); err == nil {
		t.Fatal("expected error for overlong key")
	}
}

func TestSkipAdvancesCounter(t *testing.T) {
	key := []byte("Event1")
	seed := []byte("A2B3C4D5")

	direct, _ := NewStream(key, seed)
	for i := 0; i < 5; i++ {
		direct.Next()
	}
	want := direct.Next()

	skipped, _ := NewStream(key, seed)
	skipped.Skip(5)
	got := skipped.Next()

	if got != want {
		t.Errorf("Skip(5) then Next() = %v, want %v", got, want)
	}
}

func TestScalarVectorEquivalence(t *testing.T) {
	key := []byte("Voucher1")
	var seeds [Lanes][]byte
	for i := 0; i < Lanes; i++ {
		seeds[i] = []byte{byte('A' + i), 'B', 'C', 'D', 'E', 'F', 'G', 'H'}
	}

	set, err := NewStreamSet(key, seeds)
	if err != nil {
		t.Fatalf("NewStreamSet: %v", err)
	}

	const draws = 16
	var vectorOut [draws]Vec8
	for d := 0; d < draws; d++ {
		vectorOut[d] = set.NextVec8()
	}

	scalarOut := ScalarReference(key, seeds, draws)
	for lane := 0; lane < Lanes; lane++ {
		for d := 0; d < draws; d++ {
			got := vectorOut[d][lane]
			want := scalarOut[lane][d]
			if got != want {
				t.Errorf("lane %d draw %d: vector=%v scalar=%v", lane, d, got, want)
			}
		}
	}
}

func TestCacheDedupesAndFreezes(t *testing.T) {
	var seeds [Lanes][]byte
	for i := 0; i < Lanes; i++ {
		seeds[i] = []byte("A2B3C4D5")
	}
	c := NewCache(seeds)

	if err := c.Declare("Voucher1"); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	if err := c.Declare("Voucher1"); err != nil {
		t.Fatalf("Declare (repeat): %v", err)
	}
	if err := c.Declare("Tag1"); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	if got := c.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2 (dedup across repeated Declare)", got)
	}

	c.Freeze()

	defer func() {
		if recover() == nil {
			t.Error("expected panic declaring after Freeze")
		}
	}()
	_ = c.Declare("Boss1")
}

func TestCacheGetUndeclaredPanics(t *testing.T) {
	var seeds [Lanes][]byte
	for i := 0; i < Lanes; i++ {
		seeds[i] = []byte("A2B3C4D5")
	}
	c := NewCache(seeds)
	c.Freeze()

	defer func() {
		if recover() == nil {
			t.Error("expected panic getting an undeclared key")
		}
	}()
	_ = c.Get("Voucher1")
}

func TestMask8(t *testing.T) {
	m := FullMask
	m = m.Set(3, false)
	if m.Lane(3) {
		t.Error("lane 3 should be cleared")
	}
	if !m.Lane(0) {
		t.Error("lane 0 should still be set")
	}
	if m.None() {
		t.Error("mask with 7 lanes set should not be None")
	}
	if Mask8(0).None() != true {
		t.Error("zero mask should be None")
	}

	a := Mask8(0b0000_1111)
	b := Mask8(0b0011_0011)
	if a.And(b) != Mask8(0b0000_0011) {
		t.Errorf("And = %08b, want %08b", a.And(b), Mask8(0b0000_0011))
	}
	if a.Or(b) != Mask8(0b0011_1111) {
		t.Errorf("Or = %08b, want %08b", a.Or(b), Mask8(0b0011_1111))
	}
}

func BenchmarkStreamNext(b *testing.B) {
	s, _ := NewStream([]byte("Joker1"), []byte("A2B3C4D5"))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Next()
	}
}

func BenchmarkNextVec8(b *testing.B) {
	var seeds [Lanes][]byte
	for i := 0; i < Lanes; i++ {
		seeds[i] = []byte("A2B3C4D5")
	}
	set, _ := NewStreamSet([]byte("Joker1"), seeds)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		set.NextVec8()
	}
}
