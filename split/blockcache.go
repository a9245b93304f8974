package split

import (
	"bytes"
	"strings"

	"github.com/vippsas/chunkfmt/chunk"
)

// blockKey identifies one memoized nested-block rendering. column is the
// column at which the block's opening delimiter sits, per spec.md §4.5.
type blockKey struct {
	chunkIndex int
	column     int
}

// blockResult is a cached nested-block formatting: text already reindented
// by column spaces per non-empty line (but without the leading line ending
// spec.md requires every block rendering to start with; the caller, render,
// writes one line ending before it), its cost, and any selection offsets
// relative to the start of text.
type blockResult struct {
	text           string
	cost           int
	selectionStart *int
	selectionEnd   *int
}

// formatBlock runs (or reuses a cached run of) a fresh LineSplitter over
// c.BlockChunks, scoped to this LineSplitter instance per spec.md's "do not
// thread a global cache across batches" design note.
func (ls *LineSplitter) formatBlock(chunkIndex int, c *chunk.Chunk, column int) blockResult {
	key := blockKey{chunkIndex: chunkIndex, column: column}
	if cached, ok := ls.blockCache[key]; ok {
		return cached
	}

	indent := 1
	if c.FlushLeft {
		indent = 0
	}
	sub := New(ls.lineEnding, ls.pageWidth-column, c.BlockChunks, indent)

	var buf bytes.Buffer
	res := sub.Apply(&buf)

	text, shift := reindent(buf.String(), ls.lineEnding, column)

	out := blockResult{text: text, cost: res.Cost}
	if res.SelectionStart != nil {
		v := shift(*res.SelectionStart)
		out.selectionStart = &v
	}
	if res.SelectionEnd != nil {
		v := shift(*res.SelectionEnd)
		out.selectionEnd = &v
	}

	ls.blockCache[key] = out
	return out
}

// reindent prepends column spaces to every non-empty line of text and
// returns a function mapping a byte offset into the original text to the
// corresponding offset in the reindented text.
func reindent(text, lineEnding string, column int) (string, func(int) int) {
	if column <= 0 || text == "" {
		return text, func(off int) int { return off }
	}

	pad := strings.Repeat(" ", column)
	lines := strings.Split(text, lineEnding)

	// shiftAtLineStart[i] is the cumulative number of inserted padding
	// bytes before the start of original line i.
	shiftAtLineStart := make([]int, len(lines)+1)
	var out strings.Builder
	for i, line := range lines {
		shiftAtLineStart[i] = out.Len() - sumLens(lines[:i]) - i*len(lineEnding)
		if line != "" {
			out.WriteString(pad)
		}
		out.WriteString(line)
		if i != len(lines)-1 {
			out.WriteString(lineEnding)
		}
	}
	shiftAtLineStart[len(lines)] = out.Len() - len(text)

	shift := func(off int) int {
		// Find which original line off falls in by counting line-ending
		// boundaries consumed before off.
		consumed := 0
		for i, line := range lines {
			lineEndOff := consumed + len(line)
			if off <= lineEndOff {
				return off + shiftAtLineStart[i]
			}
			consumed = lineEndOff + len(lineEnding)
		}
		return off + shiftAtLineStart[len(lines)]
	}
	return out.String(), shift
}

func sumLens(lines []string) int {
	total := 0
	for _, l := range lines {
		total += len(l)
	}
	return total
}
