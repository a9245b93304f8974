package split

import "github.com/vippsas/chunkfmt/chunk"

// memo caches the best SplitSet found for a given LinePrefix. LinePrefix
// carries a map internally, so it cannot be a native Go map key; memo
// buckets by the prefix's precomputed hash and resolves collisions with
// LinePrefix.Equal, giving the structural-equality memoization spec.md
// requires without forcing LinePrefix itself to be comparable.
type memo struct {
	buckets map[uint64][]memoEntry
}

type memoEntry struct {
	prefix chunk.LinePrefix
	result result
}

// result is the private "SplitSet or NONE" outcome of a search. ok is false
// for NONE: a provably-inconsistent longer prefix, not a caller-visible
// error.
type result struct {
	splits chunk.SplitSet
	cost   int
	ok     bool
}

func none() result { return result{} }

func newMemo() *memo {
	return &memo{buckets: make(map[uint64][]memoEntry)}
}

func (m *memo) get(p chunk.LinePrefix) (result, bool) {
	for _, e := range m.buckets[p.Hash()] {
		if e.prefix.Equal(p) {
			return e.result, true
		}
	}
	return result{}, false
}

func (m *memo) put(p chunk.LinePrefix, r result) {
	h := p.Hash()
	bucket := m.buckets[h]
	for i, e := range bucket {
		if e.prefix.Equal(p) {
			bucket[i].result = r
			return
		}
	}
	m.buckets[h] = append(bucket, memoEntry{prefix: p, result: r})
}
