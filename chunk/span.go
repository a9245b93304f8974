package chunk

// Span is a cost contribution that spans a range of chunks. It is charged at
// most once per solution, if any chunk it covers ends up split.
type Span struct {
	Cost int
}

// NewSpan returns a Span owning the given cost, distinct from every other
// Span (pointer identity is the span's identity, exactly like Rule).
func NewSpan(cost int) *Span {
	return &Span{Cost: cost}
}

// SpanSet is an accumulator of distinct Spans, used by the cost evaluator to
// union in the spans of every chunk that ends up split before charging each
// span's cost once.
type SpanSet map[*Span]struct{}

// NewSpanSet returns an empty SpanSet.
func NewSpanSet() SpanSet { return make(SpanSet) }

// AddAll unions spans into the set.
func (s SpanSet) AddAll(spans []*Span) {
	for _, sp := range spans {
		s[sp] = struct{}{}
	}
}

// TotalCost sums Cost over every distinct span in the set.
func (s SpanSet) TotalCost() int {
	total := 0
	for sp := range s {
		total += sp.Cost
	}
	return total
}
