package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHardSplitRuleAlwaysSplits(t *testing.T) {
	r := NewHardSplitRule()
	assert.Equal(t, 1, r.NumValues())
	assert.True(t, r.IsSplit(0, &Chunk{}))
	_, ok := r.Constrain(0, NewHardSplitRule())
	assert.False(t, ok)
}

func TestSimpleRuleDefaultIsSplit(t *testing.T) {
	r := &SimpleRule{Values: 2}
	assert.False(t, r.IsSplit(0, &Chunk{}))
	assert.True(t, r.IsSplit(1, &Chunk{}))
}

func TestSimpleRuleCustomSplitAt(t *testing.T) {
	r := &SimpleRule{Values: 3, SplitAt: func(v int, c *Chunk) bool { return v == 2 }}
	assert.False(t, r.IsSplit(1, &Chunk{}))
	assert.True(t, r.IsSplit(2, &Chunk{}))
}

func TestSimpleRuleConstraints(t *testing.T) {
	other := &SimpleRule{Values: 2}
	r := &SimpleRule{
		Values:      2,
		Constraints: map[int]map[Rule]int{1: {other: 1}},
	}
	v, ok := r.Constrain(1, other)
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = r.Constrain(0, other)
	assert.False(t, ok)
}

func TestSimpleRuleRange(t *testing.T) {
	r := &SimpleRule{Values: 2}
	r.SetRange(3, 7)
	start, end := r.Range()
	assert.Equal(t, 3, start)
	assert.Equal(t, 7, end)
}
