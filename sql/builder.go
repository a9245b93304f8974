// Package sql is the one concrete domain grammar built on top of chunk,
// split and writer: a deliberately small T-SQL-flavored formatter. It turns
// source text into a chunk stream (ChunkBuilder), then lets writer.LineWriter
// and split.LineSplitter do the actual line-breaking.
package sql

import (
	"strings"

	"github.com/vippsas/chunkfmt/chunk"
	"github.com/vippsas/chunkfmt/sql/sqltoken"
)

// tok is one significant (non-whitespace) token plus the layout information
// the whitespace around it carried.
type tok struct {
	typ             sqltoken.TokenType
	text            string
	pos             sqltoken.Pos
	spaceBefore     bool // a run of non-newline whitespace preceded this token
	blankLineBefore bool // two or more newlines preceded this token
}

// tokenize runs the scanner to completion, folding whitespace into the
// spaceBefore/blankLineBefore flags of the following significant token
// rather than keeping it as tokens of its own.
func tokenize(src string, file sqltoken.FileRef) ([]tok, []sqltoken.Error) {
	s := sqltoken.New(src, file)
	var out []tok
	var errs []sqltoken.Error

	space, blank := false, false
	for {
		tt := s.NextToken()
		if tt == sqltoken.EOFToken {
			break
		}
		if tt == sqltoken.WhitespaceToken {
			space = true
			if strings.Count(s.Token(), "\n") >= 2 {
				blank = true
			}
			continue
		}
		if tt.IsError() {
			errs = append(errs, sqltoken.Error{Pos: s.Start(), Message: "cannot scan token: " + tt.String() + " " + s.Token()})
		}
		out = append(out, tok{typ: tt, text: s.Token(), pos: s.Start(), spaceBefore: space, blankLineBefore: blank})
		space, blank = false, false
	}
	return out, errs
}

// ChunkBuilder turns a token stream into a chunk tree: parenthesized
// argument lists become flat, SimpleRule-governed split points (all
// wrapping together, since they share one Rule); begin/end procedure
// bodies become a HardSplitRule chunk with its own BlockChunks, reformatted
// independently at one deeper indent. Everything else (expression grammar,
// keyword-specific indentation) is out of scope for this minimal formatter.
type ChunkBuilder struct {
	toks []tok
	pos  int
	errs []sqltoken.Error
}

// Build tokenizes src and returns the resulting top-level chunk stream
// (without a trailing sentinel; callers such as writer.LineWriter.Format
// append their own per batch) plus any scan errors encountered.
func Build(src string, file sqltoken.FileRef) ([]chunk.Chunk, []sqltoken.Error) {
	toks, errs := tokenize(src, file)
	b := &ChunkBuilder{toks: toks, errs: errs}
	out := b.run(0, "")
	return out, b.errs
}

// run consumes tokens, building chunks at the given nesting depth, until
// input ends or a reserved word equal to stopWord is seen (stopWord == ""
// means run to end of input). The stop token itself is left unconsumed.
func (b *ChunkBuilder) run(depth int, stopWord string) []chunk.Chunk {
	var out []chunk.Chunk
	for b.pos < len(b.toks) {
		t := b.toks[b.pos]
		if stopWord != "" && t.typ == sqltoken.ReservedWordToken && lower(t.text) == stopWord {
			break
		}

		switch {
		case t.typ == sqltoken.LeftParenToken:
			out = b.setSpace(out, t)
			out = append(out, b.group(depth)...)
		case t.typ == sqltoken.ReservedWordToken && lower(t.text) == "begin":
			out = b.setSpace(out, t)
			out = append(out, b.beginEnd(depth)...)
		case t.typ == sqltoken.SemicolonToken:
			out = b.setSpace(out, t)
			out = append(out, chunk.Chunk{Text: ";", Rule: chunk.NewHardSplitRule(), IsHardSplit: true, Nesting: depth, AbsoluteIndent: depth})
			b.pos++
		case t.typ == sqltoken.BatchSeparatorToken:
			out = b.setSpace(out, t)
			out = append(out, chunk.Chunk{Text: "GO", Rule: chunk.NewHardSplitRule(), IsHardSplit: true, IsDouble: true, Nesting: depth, AbsoluteIndent: depth})
			b.pos++
		case t.typ == sqltoken.SinglelineCommentToken:
			out = b.setSpace(out, t)
			out = append(out, chunk.Chunk{Text: t.text, Rule: chunk.NewHardSplitRule(), IsHardSplit: true, Nesting: depth, AbsoluteIndent: depth})
			b.pos++
		case t.typ == sqltoken.MultilineCommentToken:
			out = b.setSpace(out, t)
			out = append(out, chunk.Chunk{Text: t.text, Rule: noSplit()})
			b.pos++
		default:
			out = b.setSpace(out, t)
			out = append(out, chunk.Chunk{Text: t.text, Rule: noSplit()})
			b.pos++
		}
	}
	return out
}

func lower(s string) string { return strings.ToLower(s) }

// noSplit returns a fresh Rule that never offers a choice: exactly one
// value, never a line break. Every chunk needs a non-nil Rule (nil marks
// the batch's sentinel), so plain text that introduces no split point of
// its own still needs one.
func noSplit() chunk.Rule {
	return &chunk.SimpleRule{Values: 1}
}

// setSpace records, on the previously built chunk, whether source
// whitespace separated it from t: a blank line turns a chunk that is
// already a hard split into a double one, and any preceding whitespace asks
// for one space when the chunk stays unsplit.
func (b *ChunkBuilder) setSpace(out []chunk.Chunk, t tok) []chunk.Chunk {
	if len(out) == 0 {
		return out
	}
	last := &out[len(out)-1]
	if t.blankLineBefore && last.IsHardSplit {
		last.IsDouble = true
	}
	if t.spaceBefore {
		last.SpaceWhenUnsplit = true
	}
	return out
}

// group builds a parenthesized argument list entirely as flat chunks in the
// caller's own stream: the opening paren and every argument separator share
// one SimpleRule, so the search either keeps the whole group on one line or
// wraps every argument onto its own line at depth+1, with the closing paren
// on a line of its own at depth — never a mix, and
// never out of step with what's rendered, since it is all one LineSplitter
// run rather than a recursively cached sub-problem.
func (b *ChunkBuilder) group(depth int) []chunk.Chunk {
	open := b.toks[b.pos]
	b.pos++

	rule := &chunk.SimpleRule{Values: 2, RuleCost: 1, FullySplit: 1}

	out := []chunk.Chunk{{Text: open.text, Rule: rule, Nesting: depth, AbsoluteIndent: depth + 1}}

	argHasContent := false
	flushArg := func(lastArg bool) {
		sep := ""
		if !lastArg {
			sep = ","
		}
		indent := depth + 1
		if lastArg {
			indent = depth
		}
		out = append(out, chunk.Chunk{Text: sep, Rule: rule, SpaceWhenUnsplit: !lastArg, Nesting: depth, AbsoluteIndent: indent})
	}

	for b.pos < len(b.toks) && b.toks[b.pos].typ != sqltoken.RightParenToken {
		t := b.toks[b.pos]
		switch t.typ {
		case sqltoken.CommaToken:
			flushArg(false)
			argHasContent = false
			b.pos++
		case sqltoken.LeftParenToken:
			out = b.setSpace(out, t)
			out = append(out, b.group(depth+1)...)
			argHasContent = true
		default:
			out = b.setSpace(out, t)
			out = append(out, chunk.Chunk{Text: t.text, Rule: noSplit()})
			b.pos++
			argHasContent = true
		}
	}

	if argHasContent || len(out) > 1 {
		flushArg(true)
	} else {
		// empty argument list: "()" never splits.
		out[0].Rule = noSplit()
		out = out[:1]
	}

	closed := b.pos < len(b.toks) && b.toks[b.pos].typ == sqltoken.RightParenToken
	closeText := ")"
	if closed {
		b.pos++
	} else {
		b.errs = append(b.errs, sqltoken.Error{Pos: open.pos, Message: "unterminated ("})
		closeText = ""
	}
	out = append(out, chunk.Chunk{Text: closeText, Rule: noSplit(), Nesting: depth, AbsoluteIndent: depth})
	return out
}

// beginEnd builds a begin/end procedure body as a single HardSplitRule
// chunk (the body always starts its own indented block) carrying the
// body's chunks as BlockChunks, followed by the "end" keyword at the
// original depth — exercising the recursive, per-batch nested-block cache
// rather than the flat-group mechanism group uses.
func (b *ChunkBuilder) beginEnd(depth int) []chunk.Chunk {
	beginTok := b.toks[b.pos]
	b.pos++

	body := b.run(depth+1, "end")
	body = append(body, chunk.Sentinel())

	beginChunk := chunk.Chunk{
		Text:           beginTok.text,
		Rule:           chunk.NewHardSplitRule(),
		IsHardSplit:    true,
		BlockChunks:    body,
		Nesting:        depth,
		AbsoluteIndent: depth,
	}

	endChunk := chunk.Chunk{Text: "", Rule: noSplit()}
	if b.pos < len(b.toks) && b.toks[b.pos].typ == sqltoken.ReservedWordToken && lower(b.toks[b.pos].text) == "end" {
		endChunk.Text = b.toks[b.pos].text
		b.pos++
	} else {
		b.errs = append(b.errs, sqltoken.Error{Pos: beginTok.pos, Message: "begin without matching end"})
	}

	return []chunk.Chunk{beginChunk, endChunk}
}
