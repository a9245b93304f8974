// Package sqltoken scans SQL source into a token stream. Unlike a
// parser-oriented scanner it keeps whitespace and comments as first-class
// tokens rather than discarding them: the chunk builder that sits on top of
// it needs every byte of the input accounted for so it can re-emit it,
// reformatted, without losing anything.
package sqltoken

import "strconv"

// TokenType identifies the lexical class of a scanned Token.
type TokenType int

const (
	WhitespaceToken TokenType = iota + 1

	LeftParenToken
	RightParenToken
	SemicolonToken
	EqualToken
	CommaToken
	DotToken

	VarcharLiteralToken
	NVarcharLiteralToken

	MultilineCommentToken
	SinglelineCommentToken

	NumberToken

	ReservedWordToken
	VariableIdentifierToken
	QuotedIdentifierToken
	UnquotedIdentifierToken
	OtherToken

	UnterminatedVarcharLiteralErrorToken
	UnterminatedQuotedIdentifierErrorToken
	DoubleQuoteErrorToken
	NonUTF8ErrorToken

	// BatchSeparatorToken is a line consisting of just "go" (case
	// insensitive, sqlcmd-style): a hard statement-group boundary distinct
	// from SemicolonToken.
	BatchSeparatorToken
	MalformedBatchSeparatorToken
	EOFToken
)

func (tt TokenType) String() string { return tokenToDescription[tt] }

var tokenToDescription = map[TokenType]string{
	WhitespaceToken: "WhitespaceToken",
	LeftParenToken:  "LeftParenToken",
	RightParenToken: "RightParenToken",
	SemicolonToken:  "SemicolonToken",
	EqualToken:      "EqualToken",
	CommaToken:      "CommaToken",
	DotToken:        "DotToken",

	VarcharLiteralToken:  "VarcharLiteralToken",
	NVarcharLiteralToken: "NVarcharLiteralToken",

	MultilineCommentToken:  "MultilineCommentToken",
	SinglelineCommentToken: "SinglelineCommentToken",

	NumberToken: "NumberToken",

	ReservedWordToken:       "ReservedWordToken",
	VariableIdentifierToken: "VariableIdentifierToken",
	QuotedIdentifierToken:   "QuotedIdentifierToken",
	UnquotedIdentifierToken: "UnquotedIdentifierToken",
	OtherToken:              "OtherToken",

	UnterminatedVarcharLiteralErrorToken:   "UnterminatedVarcharLiteralErrorToken",
	UnterminatedQuotedIdentifierErrorToken: "UnterminatedQuotedIdentifierErrorToken",
	DoubleQuoteErrorToken:                  "DoubleQuoteErrorToken",
	NonUTF8ErrorToken:                      "NonUTF8ErrorToken",

	BatchSeparatorToken:          "BatchSeparatorToken",
	MalformedBatchSeparatorToken: "MalformedBatchSeparatorToken",
	EOFToken:                     "EOFToken",
}

// IsError reports whether tt denotes a scan error rather than a legal token.
func (tt TokenType) IsError() bool {
	switch tt {
	case UnterminatedVarcharLiteralErrorToken, UnterminatedQuotedIdentifierErrorToken,
		DoubleQuoteErrorToken, NonUTF8ErrorToken, MalformedBatchSeparatorToken:
		return true
	}
	return false
}

// IsTrivia reports whether tt is whitespace or a comment.
func (tt TokenType) IsTrivia() bool {
	return tt == WhitespaceToken || tt == MultilineCommentToken || tt == SinglelineCommentToken
}

// FileRef names the source a Pos belongs to; a plain string is enough since
// this package never reads files itself (that is the caller's job).
type FileRef string

// Pos is a 1-based line/column location within one source.
type Pos struct {
	File      FileRef
	Line, Col int
}

// Error is a scan or build error at a specific position.
type Error struct {
	Pos     Pos
	Message string
}

func (e Error) Error() string {
	line, col := strconv.Itoa(e.Pos.Line), strconv.Itoa(e.Pos.Col)
	if e.Pos.File != "" {
		return string(e.Pos.File) + ":" + line + ":" + col + ": " + e.Message
	}
	return line + ":" + col + ": " + e.Message
}
