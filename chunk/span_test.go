package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpanSetChargesEachSpanOnce(t *testing.T) {
	a := NewSpan(3)
	b := NewSpan(5)

	s := NewSpanSet()
	s.AddAll([]*Span{a, b})
	s.AddAll([]*Span{a})

	assert.Equal(t, 8, s.TotalCost())
}

func TestSpanSetEmpty(t *testing.T) {
	s := NewSpanSet()
	assert.Equal(t, 0, s.TotalCost())
}
