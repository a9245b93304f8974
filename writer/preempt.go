package writer

import (
	"github.com/sirupsen/logrus"

	"github.com/vippsas/chunkfmt/chunk"
)

// preempt implements spec.md §4.7 items 3-4: if the product of NumValues
// across the batch's distinct non-hard rules reaches PreemptionThreshold,
// every such rule whose governed span is wider than the page gets hardened
// into an unconditional split, trading optimality for a search the engine
// can actually finish.
func (w *LineWriter) preempt(chunks []chunk.Chunk, batchID string) {
	rules := distinctRules(chunks)

	product := 1
	for _, r := range rules {
		n := r.NumValues()
		if n <= 0 {
			n = 1
		}
		if product > PreemptionThreshold/n {
			product = PreemptionThreshold + 1
			break
		}
		product *= n
	}
	if product < PreemptionThreshold {
		return
	}

	// Rebase every rule's start/end to this batch's own local indices.
	// cutBatches computed spans once over the whole, un-sliced document;
	// every batch after the first has since been copied into its own
	// independently-indexed slice (writer.go's appendSentinel), so the
	// global span recorded on each rule no longer lines up with chunks
	// here. Recomputing on chunks itself makes the span below correct
	// again — safe because cutBatches never cuts across an open rule, so
	// every rule is wholly contained in exactly one batch.
	spans := computeRuleSpans(chunks)

	hardened := make(map[chunk.Rule]struct{})
	for _, r := range rules {
		if _, ok := r.(RuleRange); !ok {
			continue
		}
		sp, ok := spans[r]
		if !ok {
			continue
		}
		width := 0
		for i := sp.start + 1; i <= sp.end && i < len(chunks); i++ {
			width += textWidth(chunks[i].Text) + chunks[i].UnsplitBlockLength
		}
		if width > w.PageWidth {
			w.hardenRule(chunks, r, hardened, batchID)
		}
	}
}

// distinctRules collects every non-HardSplitRule rule governing chunks, in
// first-occurrence order (so preemption's logging and traversal order is
// deterministic).
func distinctRules(chunks []chunk.Chunk) []chunk.Rule {
	seen := make(map[chunk.Rule]struct{})
	var rules []chunk.Rule
	for i := range chunks {
		r := chunks[i].Rule
		if r == nil {
			continue
		}
		if _, ok := r.(*chunk.HardSplitRule); ok {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		rules = append(rules, r)
	}
	return rules
}

// hardenRule replaces every chunk governed by r with a fresh HardSplitRule,
// then recursively hardens any other rule that r's own constraint table
// forces to its fully-split value once r itself is fully split. hardened
// guards against cycles and re-work, making the whole operation idempotent.
//
// The grammar-side half of spec.md §4.7's contract — "replace any open
// instance of the rule on the parser's rule stack" — has no counterpart
// here: that stack belongs to the external chunk-producing collaborator,
// out of scope per spec.md §1. Hardening the chunk stream itself is the
// only part of the contract this package can observe or enforce.
func (w *LineWriter) hardenRule(chunks []chunk.Chunk, r chunk.Rule, hardened map[chunk.Rule]struct{}, batchID string) {
	if _, done := hardened[r]; done {
		return
	}
	hardened[r] = struct{}{}

	fresh := chunk.NewHardSplitRule()
	for i := range chunks {
		if chunks[i].Rule == r {
			chunks[i].Rule = fresh
			chunks[i].IsHardSplit = true
		}
	}

	if w.Logger != nil {
		w.Logger.WithFields(logrus.Fields{"batch_id": batchID}).
			Warn("chunkfmt: preempted an oversized rule into a hard split")
	}

	for i := range chunks {
		other := chunks[i].Rule
		if other == nil || other == fresh {
			continue
		}
		if cv, ok := r.Constrain(r.FullySplitValue(), other); ok && cv == other.FullySplitValue() {
			w.hardenRule(chunks, other, hardened, batchID)
		}
	}
}
