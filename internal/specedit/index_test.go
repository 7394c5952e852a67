package specedit

import "testing"

func TestDraftIndex_FindAnchor(t *testing.T) {
	draft := tok(1, 2, 3, 4, 5, 6, 3, 4, 7)
	idx := newDraftIndex(draft)

	tests := []struct {
		name       string
		pattern    []Token
		searchFrom int
		wantPos    int
		wantOK     bool
	}{
		{"first occurrence from zero", tok(3, 4), 0, 2, true},
		{"second occurrence when first excluded", tok(3, 4), 3, 6, true},
		{"no occurrence", tok(9, 9), 0, 0, false},
		{"pattern longer than remaining draft", tok(3, 4, 7, 8), 0, 0, false},
		{"empty pattern never matches", nil, 0, 0, false},
		{"single token pattern", tok(7), 0, 8, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, ok := idx.findAnchor(tc.pattern, tc.searchFrom)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && pos != tc.wantPos {
				t.Fatalf("pos = %d, want %d", pos, tc.wantPos)
			}
		})
	}
}

func TestDraftIndex_SubstringHashMatchesExactComparison(t *testing.T) {
	draft := tok(5, 6, 7, 8, 9, 6, 7, 10)
	idx := newDraftIndex(draft)

	for start := 0; start < len(draft); start++ {
		for length := 1; start+length <= len(draft); length++ {
			h := idx.substringHash(start, length)
			want := hashTokens(draft[start : start+length])
			if h != want {
				t.Fatalf("substringHash(%d,%d) = %d, want %d", start, length, h, want)
			}
		}
	}
}

func TestDraftIndex_TieBreakPicksSmallestPosition(t *testing.T) {
	draft := tok(1, 2, 1, 2, 1, 2)
	idx := newDraftIndex(draft)

	pos, ok := idx.findAnchor(tok(1, 2), 0)
	if !ok || pos != 0 {
		t.Fatalf("want smallest position 0, got pos=%d ok=%v", pos, ok)
	}
}
