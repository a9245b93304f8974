// Package split implements the combinatorial search over rule-value
// assignments described in spec.md §4.3: a memoized depth-first search keyed
// on LinePrefix, a cost evaluator, and a per-batch nested-block cache.
package split

import (
	"bytes"
	"strings"

	"github.com/vippsas/chunkfmt/chunk"
)

// ruleSet is a small identity set of rules, used for the prefix/suffix rule
// precomputation that advancePrefix consults on every step.
type ruleSet map[chunk.Rule]struct{}

func (s ruleSet) clone() ruleSet {
	out := make(ruleSet, len(s))
	for r := range s {
		out[r] = struct{}{}
	}
	return out
}

// Result is what LineSplitter.Apply returns: the total cost of the chosen
// split and, if any chunk carried selection offsets, where they landed in
// the output buffer.
type Result struct {
	Cost           int
	SelectionStart *int
	SelectionEnd   *int
}

// LineSplitter is the search engine for one batch. It is created fresh per
// batch, used exactly once via Apply, and discarded; its memo and block
// cache live exactly as long as the instance, per spec.md's lifecycle
// invariant.
type LineSplitter struct {
	chunks     []chunk.Chunk
	lineEnding string
	pageWidth  int
	indent     int
	n          int // len(chunks); chunks[n-1] is the sentinel

	memo       *memo
	blockCache map[blockKey]blockResult

	prefixRules []ruleSet // prefixRules[i]: rules in chunks[0:i]
	suffixRules []ruleSet // suffixRules[i]: rules in chunks[i:n-1]
}

// New constructs a LineSplitter for one batch. chunks must be non-empty and
// end with a sentinel chunk (no rule, no text).
func New(lineEnding string, pageWidth int, chunks []chunk.Chunk, indent int) *LineSplitter {
	if len(chunks) == 0 {
		panic("split: chunks must be non-empty")
	}
	ls := &LineSplitter{
		chunks:     chunks,
		lineEnding: lineEnding,
		pageWidth:  pageWidth,
		indent:     indent,
		n:          len(chunks),
		memo:       newMemo(),
		blockCache: make(map[blockKey]blockResult),
	}
	ls.precompute()
	return ls
}

func (ls *LineSplitter) precompute() {
	ls.prefixRules = make([]ruleSet, ls.n+1)
	ls.suffixRules = make([]ruleSet, ls.n+1)

	ls.prefixRules[0] = ruleSet{}
	for i := 1; i <= ls.n; i++ {
		s := ls.prefixRules[i-1].clone()
		if r := ls.chunks[i-1].Rule; r != nil {
			s[r] = struct{}{}
		}
		ls.prefixRules[i] = s
	}

	ls.suffixRules[ls.n-1] = ruleSet{}
	ls.suffixRules[ls.n] = ruleSet{}
	for i := ls.n - 2; i >= 0; i-- {
		s := ls.suffixRules[i+1].clone()
		if r := ls.chunks[i].Rule; r != nil {
			s[r] = struct{}{}
		}
		ls.suffixRules[i] = s
	}
}

// Apply runs the search and writes the rendered result to out, returning the
// chosen cost and any forwarded selection offsets.
func (ls *LineSplitter) Apply(out *bytes.Buffer) Result {
	initial := chunk.Initial(ls.indent, chunk.SpacesPerIndent)
	res := ls.findBestSplits(initial)
	selStart, selEnd := ls.render(out, res.splits)
	return Result{Cost: res.cost, SelectionStart: selStart, SelectionEnd: selEnd}
}

// findBestSplits is the memoized search entry point: spec.md §4.3.
func (ls *LineSplitter) findBestSplits(prefix chunk.LinePrefix) result {
	if r, ok := ls.memo.get(prefix); ok {
		return r
	}
	rs := &runningSolution{prefix: prefix}
	ls.tryChunkRuleValues(prefix, rs)
	out := result{splits: rs.bestSplits, cost: rs.bestCost, ok: rs.found}
	ls.memo.put(prefix, out)
	return out
}

// runningSolution accumulates the best SplitSet found while exploring one
// LinePrefix's rule-value tree, evaluating cost from the fixed outer prefix
// regardless of how deep the unsplit recursion has advanced.
type runningSolution struct {
	prefix     chunk.LinePrefix
	bestSplits chunk.SplitSet
	bestCost   int
	found      bool
}

func (rs *runningSolution) update(ls *LineSplitter, candidate chunk.SplitSet) {
	cost := ls.evaluateCost(rs.prefix, candidate)
	if !rs.found || cost < rs.bestCost {
		rs.found = true
		rs.bestCost = cost
		rs.bestSplits = candidate
	}
}

// tryChunkRuleValues enumerates legal values for the rule governing the
// chunk at prefix.Length, per spec.md §4.3.
func (ls *LineSplitter) tryChunkRuleValues(prefix chunk.LinePrefix, rs *runningSolution) {
	if prefix.Length == ls.n-1 {
		rs.update(ls, chunk.EmptySplitSet())
		return
	}

	c := &ls.chunks[prefix.Length]
	rule := c.Rule
	binding, has := prefix.RuleValue(rule)

	switch {
	case !has:
		for v := 0; v < rule.NumValues(); v++ {
			ls.tryRuleValue(prefix, c, rule, v, rs)
		}
	case binding.IsMustSplit():
		for v := 1; v < rule.NumValues(); v++ {
			ls.tryRuleValue(prefix, c, rule, v, rs)
		}
	default:
		ls.tryRuleValue(prefix, c, rule, binding.Value(), rs)
	}
}

// tryRuleValue handles one candidate value for the current chunk's rule,
// per spec.md §4.3.
func (ls *LineSplitter) tryRuleValue(prefix chunk.LinePrefix, c *chunk.Chunk, rule chunk.Rule, v int, rs *runningSolution) {
	newBindings := ls.advancePrefix(prefix, c, v)

	if rule.IsSplit(v, c) {
		for _, longer := range prefix.Split(c, newBindings) {
			remaining := ls.findBestSplits(longer)
			if !remaining.ok {
				continue
			}
			candidate := remaining.splits.Add(prefix.Length, longer.Column)
			rs.update(ls, candidate)
		}
		return
	}

	ls.tryChunkRuleValues(prefix.Extend(newBindings), rs)
}

// advancePrefix computes the rule->value map for the prefix one chunk
// longer than prefix, per spec.md §4.3. The sentinel -1 denotes "must
// split, value not yet chosen" in the returned map, matching the convention
// chunk.LinePrefix.Extend/Split expect.
func (ls *LineSplitter) advancePrefix(prefix chunk.LinePrefix, c *chunk.Chunk, v int) map[chunk.Rule]int {
	next := prefix.Length + 1
	prefixSet := ls.prefixRules[next]
	suffixSet := ls.suffixRules[next]

	out := make(map[chunk.Rule]int)

	for r := range prefixSet {
		rv, hasRV := 0, false
		if r == c.Rule {
			rv, hasRV = v, true
		} else if b, ok := prefix.RuleValue(r); ok {
			rv, hasRV = bindingToInt(b)
		}

		if _, straddles := suffixSet[r]; straddles && hasRV {
			out[r] = rv
		}

		if !hasRV {
			continue
		}

		for s := range suffixSet {
			if s == r {
				continue
			}
			cv, ok := r.Constrain(rv, s)
			if !ok {
				cv, ok = s.ReverseConstrain(rv, r)
			}
			if ok {
				out[r] = rv
				out[s] = cv
			}
		}
	}

	return out
}

func bindingToInt(b chunk.RuleBinding) (int, bool) {
	switch b.Kind() {
	case chunk.BindingValue:
		return b.Value(), true
	case chunk.BindingMustSplit:
		return -1, true
	default:
		return 0, false
	}
}

// render walks the winning SplitSet linearly, emitting text, writing line
// breaks and indentation, and forwarding selection offsets, per spec.md
// §4.6.
func (ls *LineSplitter) render(out *bytes.Buffer, splits chunk.SplitSet) (selStart, selEnd *int) {
	out.WriteString(strings.Repeat(" ", ls.indent*chunk.SpacesPerIndent))

	for i := 0; i < ls.n-1; i++ {
		c := &ls.chunks[i]
		ls.emitChunkBody(out, c, &selStart, &selEnd)

		if splits.ShouldSplitAt(i) {
			if len(c.BlockChunks) > 0 {
				column := splits.GetColumn(i)
				blk := ls.formatBlock(i, c, column)
				out.WriteString(ls.lineEnding)
				base := out.Len()
				out.WriteString(blk.text)
				if blk.selectionStart != nil {
					v := base + *blk.selectionStart
					selStart = &v
				}
				if blk.selectionEnd != nil {
					v := base + *blk.selectionEnd
					selEnd = &v
				}
			}

			reps := 1
			if c.IsDouble {
				reps = 2
			}
			for k := 0; k < reps; k++ {
				out.WriteString(ls.lineEnding)
			}
			out.WriteString(strings.Repeat(" ", splits.GetColumn(i)))
		} else {
			if len(c.BlockChunks) > 0 {
				ls.renderInline(out, c.BlockChunks, &selStart, &selEnd)
			}
			if c.SpaceWhenUnsplit {
				out.WriteString(" ")
			}
		}
	}

	return selStart, selEnd
}

func (ls *LineSplitter) emitChunkBody(out *bytes.Buffer, c *chunk.Chunk, selStart, selEnd **int) {
	base := out.Len()
	out.WriteString(c.Text)
	if c.SelectionStart != nil {
		v := base + *c.SelectionStart
		*selStart = &v
	}
	if c.SelectionEnd != nil {
		v := base + *c.SelectionEnd
		*selEnd = &v
	}
}

// renderInline emits a block's chunks flattened onto the current line: no
// chunk inside an inlined block ever splits, since nothing offered the
// search a choice about it.
func (ls *LineSplitter) renderInline(out *bytes.Buffer, chunks []chunk.Chunk, selStart, selEnd **int) {
	for i := 0; i < len(chunks)-1; i++ {
		c := &chunks[i]
		ls.emitChunkBody(out, c, selStart, selEnd)
		if len(c.BlockChunks) > 0 {
			ls.renderInline(out, c.BlockChunks, selStart, selEnd)
		}
		if c.SpaceWhenUnsplit {
			out.WriteString(" ")
		}
	}
}
