package split

import (
	"unicode/utf8"

	"github.com/vippsas/chunkfmt/chunk"
)

// evaluateCost walks chunks [prefix.Length, N) accumulating line length
// starting at prefix.Column, exactly as spec.md §4.4 describes. countedRules
// tracks which rules have already been charged within this evaluation so a
// rule spanning many split chunks is only charged once.
func (ls *LineSplitter) evaluateCost(prefix chunk.LinePrefix, splits chunk.SplitSet) int {
	n := len(ls.chunks)
	lineLength := prefix.Column
	spans := chunk.NewSpanSet()
	countedRules := make(map[chunk.Rule]struct{})
	total := 0

	for i := prefix.Length; i < n; i++ {
		c := &ls.chunks[i]
		lineLength += textWidth(c.Text)

		if i < n-1 {
			if splits.ShouldSplitAt(i) {
				if lineLength > ls.pageWidth {
					total += (lineLength - ls.pageWidth) * chunk.OverflowCharCost
				}
				spans.AddAll(c.Spans)
				if c.Rule != nil {
					if _, counted := countedRules[c.Rule]; !counted {
						countedRules[c.Rule] = struct{}{}
						total += c.Rule.Cost()
					}
				}
				if len(c.BlockChunks) > 0 {
					column := splits.GetColumn(i)
					total += ls.formatBlock(i, c, column).cost
				}
				lineLength = splits.GetColumn(i)
			} else {
				if c.SpaceWhenUnsplit {
					lineLength++
				}
				lineLength += c.UnsplitBlockLength
			}
		}
	}

	if lineLength > ls.pageWidth {
		total += (lineLength - ls.pageWidth) * chunk.OverflowCharCost
	}
	total += spans.TotalCost()
	return total
}

func textWidth(s string) int {
	return utf8.RuneCountInString(s)
}
