package chunk

import "sort"

// splitEntry is one chunk-index -> column binding inside a SplitSet.
type splitEntry struct {
	index  int
	column int
}

// SplitSet is an immutable, sparse map from chunk index to the column at
// which the line following that chunk begins. It is small (bounded by batch
// size) and shared by reference across memo entries, so a flat sorted slice
// with copy-on-write inserts is simpler and cheaper than a persistent tree.
type SplitSet struct {
	entries []splitEntry
}

// EmptySplitSet returns a SplitSet with no splits.
func EmptySplitSet() SplitSet {
	return SplitSet{}
}

// Add returns a new SplitSet identical to the receiver except that index now
// maps to column. index need not be contiguous with existing entries.
func (s SplitSet) Add(index, column int) SplitSet {
	pos := sort.Search(len(s.entries), func(i int) bool { return s.entries[i].index >= index })
	next := make([]splitEntry, 0, len(s.entries)+1)
	next = append(next, s.entries[:pos]...)
	next = append(next, splitEntry{index: index, column: column})
	if pos < len(s.entries) && s.entries[pos].index == index {
		pos++ // overwrite: drop the old entry for this index
	}
	next = append(next, s.entries[pos:]...)
	return SplitSet{entries: next}
}

// ShouldSplitAt reports whether i has a split entry.
func (s SplitSet) ShouldSplitAt(i int) bool {
	_, ok := s.lookup(i)
	return ok
}

// GetColumn returns the column recorded for i. Only valid when
// ShouldSplitAt(i) is true; panics otherwise, matching the spec's "assertion,
// not an error" stance on programmer misuse.
func (s SplitSet) GetColumn(i int) int {
	col, ok := s.lookup(i)
	if !ok {
		panic("chunk: GetColumn called for an index with no split")
	}
	return col
}

func (s SplitSet) lookup(i int) (int, bool) {
	pos := sort.Search(len(s.entries), func(k int) bool { return s.entries[k].index >= i })
	if pos < len(s.entries) && s.entries[pos].index == i {
		return s.entries[pos].column, true
	}
	return 0, false
}

// Len returns the number of split entries, mostly useful for tests.
func (s SplitSet) Len() int { return len(s.entries) }
