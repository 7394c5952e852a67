package specedit

// draftIndex is the per-draft precomputed structure that makes re-anchor
// search sublinear in len(draft), per spec.md §4.B's complexity contract.
// It combines:
//
//   - an inverted index from token value to the sorted positions where it
//     occurs in the draft, used to generate anchor candidates without
//     scanning the whole draft, and
//   - a polynomial rolling hash over the draft with a prefix-hash/power
//     table, giving O(1) substring-hash queries so candidates can be
//     filtered cheaply before the final exact comparison.
//
// Built once per bind and reused for every NextChunk call on that request,
// matching the teacher's "precompute once per bind, query cheaply many
// times" shape (core/inference's KVCacheManager slot bookkeeping and
// memory_pool.go's arena preallocation follow the same principle, applied
// there to tensors rather than token positions).
type draftIndex struct {
	draft      Draft
	tokenPos   map[Token][]int32
	prefixHash []uint64
	pow        []uint64
}

const hashBase uint64 = 1000000007

func newDraftIndex(draft Draft) *draftIndex {
	n := len(draft)
	idx := &draftIndex{
		draft:      draft,
		tokenPos:   make(map[Token][]int32, n),
		prefixHash: make([]uint64, n+1),
		pow:        make([]uint64, n+1),
	}

	idx.pow[0] = 1
	for i := 0; i < n; i++ {
		idx.tokenPos[draft[i]] = append(idx.tokenPos[draft[i]], int32(i))
		idx.pow[i+1] = idx.pow[i] * hashBase
		idx.prefixHash[i+1] = idx.prefixHash[i]*hashBase + uint64(draft[i]) + 1
	}

	return idx
}

// substringHash returns the rolling hash of draft[start:start+length].
func (idx *draftIndex) substringHash(start, length int) uint64 {
	end := start + length
	return idx.prefixHash[end] - idx.prefixHash[start]*idx.pow[length]
}

func hashTokens(tokens []Token) uint64 {
	var h uint64
	for _, t := range tokens {
		h = h*hashBase + uint64(t) + 1
	}
	return h
}

// findAnchor returns the smallest position pos >= searchFrom such that
// draft[pos:pos+len(pattern)] == pattern, using the inverted index on
// pattern's first token to avoid scanning positions that cannot match.
func (idx *draftIndex) findAnchor(pattern []Token, searchFrom int) (int, bool) {
	if len(pattern) == 0 {
		return 0, false
	}

	candidates := idx.tokenPos[pattern[0]]
	patHash := hashTokens(pattern)

	for _, c := range candidates {
		pos := int(c)
		if pos < searchFrom {
			continue
		}
		end := pos + len(pattern)
		if end > len(idx.draft) {
			break // candidates are sorted ascending; end only grows from here
		}
		if idx.substringHash(pos, len(pattern)) != patHash {
			continue
		}
		if equalTokens(idx.draft[pos:end], pattern) {
			return pos, true
		}
	}

	return 0, false
}
