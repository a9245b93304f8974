// Package writer implements the batch façade of spec.md §4.7: it owns the
// full chunk stream, cuts it into independent batches at safe hard-split
// points, flattens nesting per batch, preempts rules that would make the
// search intractable, and feeds each batch through a fresh
// split.LineSplitter.
package writer

import (
	"bytes"
	"sort"
	"unicode/utf8"

	"github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vippsas/chunkfmt/chunk"
	"github.com/vippsas/chunkfmt/split"
)

// RuleRange lets a concrete Rule opt into the mutable start/end bookkeeping
// spec.md §3 reserves for the batch façade alone. HardSplitRule does not
// need it — it is already forced — so it is not part of the chunk.Rule
// interface itself.
type RuleRange interface {
	SetRange(start, end int)
	Range() (start, end int)
}

// PreemptionThreshold is the rule-value-product trigger of spec.md §4.7
// item 3.
const PreemptionThreshold = 4096

// LineWriter is the batch façade. Unlike split.LineSplitter it is not a pure
// function: it logs batch boundaries and preemption decisions through
// Logger, the one place in the engine spec.md treats as having externally
// observable side effects worth recording.
type LineWriter struct {
	LineEnding string
	PageWidth  int

	// DisablePreemption forces full search even when the rule-value
	// product would normally trigger hardening, per SPEC_FULL.md's
	// decision on spec.md §9 open question 1.
	DisablePreemption bool

	Logger logrus.FieldLogger
}

// New returns a LineWriter configured with "\n" line endings and the given
// page width.
func New(pageWidth int) *LineWriter {
	return &LineWriter{
		LineEnding: "\n",
		PageWidth:  pageWidth,
		Logger:     logrus.StandardLogger(),
	}
}

// batch is one maximal contiguous subsequence between safe cut points, with
// its own sentinel appended so it satisfies split.LineSplitter's input
// contract. Each batch except possibly the last ends with a chunk whose
// split is unconditional (the cut point itself), so its own rendering
// already supplies the line ending(s) that separate it from the next batch;
// Format does not add any stitching of its own.
type batch struct {
	chunks []chunk.Chunk
}

// Format cuts chunks into batches and solves each independently, writing
// their rendered output back to back. chunks should not carry a trailing
// sentinel; Format appends one per batch itself.
func (w *LineWriter) Format(chunks []chunk.Chunk, indent int) (string, int) {
	var out bytes.Buffer
	totalCost := 0

	batches := w.cutBatches(chunks)
	for i, b := range batches {
		id := newBatchID()
		w.flattenNesting(b.chunks)
		if !w.DisablePreemption {
			w.preempt(b.chunks, id)
		}

		if w.Logger != nil {
			w.Logger.WithFields(logrus.Fields{
				"batch_id":    id,
				"batch_index": i,
				"chunks":      len(b.chunks),
			}).Debug("chunkfmt: formatting batch")
		}

		ls := split.New(w.lineEnding(), w.PageWidth, b.chunks, indent)
		res := ls.Apply(&out)
		totalCost += res.Cost
	}

	return out.String(), totalCost
}

func (w *LineWriter) lineEnding() string {
	if w.LineEnding == "" {
		return "\n"
	}
	return w.LineEnding
}

func newBatchID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return "unknown"
	}
	return id.String()
}

// cutBatches implements spec.md §4.7 item 1: a safe cut point is a hard
// split at nesting 0, outside any block, with no rule straddling across it.
func (w *LineWriter) cutBatches(chunks []chunk.Chunk) []batch {
	n := len(chunks)
	spans := computeRuleSpans(chunks)

	var batches []batch
	start := 0
	for i := 0; i < n; i++ {
		c := &chunks[i]
		safe := c.IsHardSplit && c.Nesting == 0 && len(c.BlockChunks) == 0 && !hasOpenRuleAcross(spans, i)
		if safe {
			batches = append(batches, batch{chunks: appendSentinel(chunks[start : i+1])})
			start = i + 1
		}
	}
	if start < n || len(batches) == 0 {
		batches = append(batches, batch{chunks: appendSentinel(chunks[start:n])})
	}
	return batches
}

func appendSentinel(chunks []chunk.Chunk) []chunk.Chunk {
	out := make([]chunk.Chunk, len(chunks), len(chunks)+1)
	copy(out, chunks)
	return append(out, chunk.Sentinel())
}

type ruleSpan struct{ start, end int }

// computeRuleSpans finds the first/last chunk index governed by each rule in
// the whole stream and records it on the rule itself, if the rule opts into
// RuleRange — the "façade sets start/end before splitting begins" clause of
// spec.md §5.
func computeRuleSpans(chunks []chunk.Chunk) map[chunk.Rule]ruleSpan {
	spans := make(map[chunk.Rule]ruleSpan)
	for i := range chunks {
		r := chunks[i].Rule
		if r == nil {
			continue
		}
		sp, ok := spans[r]
		if !ok {
			spans[r] = ruleSpan{start: i, end: i}
			continue
		}
		sp.end = i
		spans[r] = sp
	}
	for r, sp := range spans {
		if rr, ok := r.(RuleRange); ok {
			rr.SetRange(sp.start, sp.end)
		}
	}
	return spans
}

func hasOpenRuleAcross(spans map[chunk.Rule]ruleSpan, i int) bool {
	for _, sp := range spans {
		if sp.start <= i && sp.end > i {
			return true
		}
	}
	return false
}

// flattenNesting implements spec.md §4.7 item 2, recursively: each
// block's chunks form their own self-contained batch and are flattened
// independently.
func (w *LineWriter) flattenNesting(chunks []chunk.Chunk) {
	depths := map[int]struct{}{}
	for i := range chunks {
		if chunks[i].Nesting != 0 {
			depths[chunks[i].Nesting] = struct{}{}
		}
	}
	if len(depths) > 0 {
		sorted := make([]int, 0, len(depths))
		for d := range depths {
			sorted = append(sorted, d)
		}
		sort.Ints(sorted)
		rank := make(map[int]int, len(sorted))
		for i, d := range sorted {
			rank[d] = i + 1
		}
		for i := range chunks {
			if chunks[i].Nesting != 0 {
				chunks[i].Nesting = rank[chunks[i].Nesting]
			}
		}
	}
	for i := range chunks {
		if len(chunks[i].BlockChunks) > 0 {
			w.flattenNesting(chunks[i].BlockChunks)
		}
	}
}

func textWidth(s string) int {
	return utf8.RuneCountInString(s)
}
