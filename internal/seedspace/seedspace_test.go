package seedspace

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"valid upper", "ABCDEFGH", false},
		{"valid lower folds to upper", "abcdefgh", false},
		{"too short", "ABCDEF", true},
		{"too long", "ABCDEFGHI", true},
		{"contains I", "ABCDEFGI", true},
		{"contains 0", "ABCDEFG0", true},
		{"contains 1", "ABCDEFG1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != Seed("ABCDEFGH") {
				t.Errorf("Validate(%q) = %q, want canonical upper-case", tt.in, got)
			}
		})
	}
}

func TestIndexRoundTrip(t *testing.T) {
	seeds := []string{"AAAAAAAA", "99999999", "A2B3C4D5", "ZZZZZZZZ"}
	for _, s := range seeds {
		seed, err := Validate(s)
		if err != nil {
			t.Fatalf("Validate(%q): %v", s, err)
		}
		idx := Index(seed)
		back := FromIndex(idx)
		if back != seed {
			t.Errorf("round trip %q -> %d -> %q, want %q", s, idx, back, s)
		}
	}
}

func TestTotalSize(t *testing.T) {
	want := uint64(1)
	for i := 0; i < Length; i++ {
		want *= Base
	}
	if Total != want {
		t.Errorf("Total = %d, want %d", Total, want)
	}
	if Total != 2251875390625 {
		t.Errorf("Total = %d, want 35^8 = 2251875390625", Total)
	}
}

func TestComposeMatchesFromIndex(t *testing.T) {
	const prefixLen = 3
	prefixIdx := uint64(12345)
	prefix := Prefix(prefixIdx, prefixLen)

	suffixCount := PrefixSuffixCount(prefixLen)
	for _, suffixIdx := range []uint64{0, 1, suffixCount - 1, suffixCount / 2} {
		got := Compose(prefix, suffixIdx)
		full := prefixIdx*suffixCount + suffixIdx
		want := FromIndex(full)
		if got != want {
			t.Errorf("Compose(%q, %d) = %q, want %q", prefix, suffixIdx, got, want)
		}
	}
}

func TestFromIndexAllDigitsInAlphabet(t *testing.T) {
	for _, idx := range []uint64{0, 1, Base - 1, Base, Total - 1} {
		s := FromIndex(idx)
		for i := 0; i < Length; i++ {
			if digitOf[s[i]] < 0 {
				t.Errorf("FromIndex(%d) = %q has out-of-alphabet char at %d", idx, s, i)
			}
		}
	}
}
