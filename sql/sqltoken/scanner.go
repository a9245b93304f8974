package sqltoken

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/smasher164/xid"
)

// Scanner is a cursor over a SQL source string. There is no separate lexer
// stage: the chunk builder drives NextToken directly and decides for itself
// what to do with trivia.
type Scanner struct {
	input string
	file  FileRef

	startIndex int
	curIndex   int
	tokenType  TokenType

	// startOfLine/afterBatchSeparator implement the small state machine
	// that recognizes a lone "go" line as a BatchSeparatorToken: it must
	// sit at the start of a line, and nothing but whitespace may follow it
	// on the same line.
	startOfLine         bool
	afterBatchSeparator bool

	startLine        int
	stopLine         int
	indexAtStartLine int
	indexAtStopLine  int

	reservedWord string
}

// New returns a Scanner positioned at the start of input. file is recorded
// on every Pos this scanner produces, purely for diagnostics.
func New(input string, file FileRef) *Scanner {
	return &Scanner{input: input, file: file, startOfLine: true}
}

func (s *Scanner) TokenType() TokenType { return s.tokenType }

func (s *Scanner) Token() string { return s.input[s.startIndex:s.curIndex] }

func (s *Scanner) TokenLower() string { return strings.ToLower(s.Token()) }

func (s *Scanner) ReservedWord() string { return s.reservedWord }

func (s *Scanner) Start() Pos {
	return Pos{File: s.file, Line: s.startLine + 1, Col: s.startIndex - s.indexAtStartLine + 1}
}

func (s *Scanner) Stop() Pos {
	return Pos{File: s.file, Line: s.stopLine + 1, Col: s.curIndex - s.indexAtStopLine + 1}
}

func (s *Scanner) bumpLine(offset int) {
	s.stopLine++
	s.indexAtStopLine = s.curIndex + offset + 1
}

// NextToken scans the next token and advances past it.
func (s *Scanner) NextToken() TokenType {
	s.tokenType = s.nextToken()

	// "go" batch separators: recognized only at start of line, case
	// insensitive, nothing but whitespace allowed on the rest of that line.
	if s.startOfLine && s.tokenType == UnquotedIdentifierToken && s.TokenLower() == "go" {
		s.tokenType = BatchSeparatorToken
		s.afterBatchSeparator = true
	} else if s.afterBatchSeparator && s.tokenType != WhitespaceToken && s.tokenType != EOFToken {
		s.tokenType = MalformedBatchSeparatorToken
	} else if s.tokenType == WhitespaceToken {
		if s.stopLine > s.startLine {
			s.startOfLine = true
			s.afterBatchSeparator = false
		}
	} else {
		s.startOfLine = false
	}
	return s.tokenType
}

func (s *Scanner) nextToken() TokenType {
	s.startIndex = s.curIndex
	s.reservedWord = ""
	s.startLine = s.stopLine
	s.indexAtStartLine = s.indexAtStopLine
	r, w := utf8.DecodeRuneInString(s.input[s.curIndex:])

	switch {
	case r == utf8.RuneError && w == 0:
		return EOFToken
	case r == utf8.RuneError && w == -1:
		return NonUTF8ErrorToken
	case r == '(':
		s.curIndex += w
		return LeftParenToken
	case r == ')':
		s.curIndex += w
		return RightParenToken
	case r == ';':
		s.curIndex += w
		return SemicolonToken
	case r == '=':
		s.curIndex += w
		return EqualToken
	case r == ',':
		s.curIndex += w
		return CommaToken
	case r == '.':
		s.curIndex += w
		return DotToken
	case r == '\'':
		s.curIndex += w
		return s.scanStringLiteral(VarcharLiteralToken)
	case r >= '0' && r <= '9':
		return s.scanNumber()
	case r == '[':
		s.curIndex += w
		return s.scanQuotedIdentifier()
	case r == '"':
		s.curIndex += w
		return DoubleQuoteErrorToken
	case unicode.IsSpace(r):
		return s.scanWhitespace()
	case r != 'N' && (xid.Start(r) || r == '@' || r == '_' || r == '#'):
		s.curIndex += w
		s.scanIdentifier()
		if r == '@' {
			return VariableIdentifierToken
		}
		return s.identifierOrReserved()
	}

	r2, w2 := utf8.DecodeRuneInString(s.input[s.curIndex+w:])

	switch {
	case r == 'N':
		s.curIndex += w
		if r2 == '\'' {
			s.curIndex += w2
			return s.scanStringLiteral(NVarcharLiteralToken)
		}
		s.scanIdentifier()
		return s.identifierOrReserved()
	case r == '/' && r2 == '*':
		s.curIndex += w + w2
		return s.scanMultilineComment()
	case r == '-' && r2 == '-':
		s.curIndex += w + w2
		return s.scanSinglelineComment()
	case (r == '-' || r == '+') && r2 >= '0' && r2 <= '9':
		return s.scanNumber()
	}

	s.curIndex += w
	return OtherToken
}

func (s *Scanner) identifierOrReserved() TokenType {
	rw := strings.ToLower(s.Token())
	if _, ok := reservedWords[rw]; ok {
		s.reservedWord = rw
		return ReservedWordToken
	}
	return UnquotedIdentifierToken
}

func (s *Scanner) scanMultilineComment() TokenType {
	prevWasStar := false
	for i, r := range s.input[s.curIndex:] {
		if r == '*' {
			prevWasStar = true
		} else if prevWasStar && r == '/' {
			s.curIndex += i + 1
			return MultilineCommentToken
		} else if r == '\n' {
			s.bumpLine(i)
			prevWasStar = false
		} else {
			prevWasStar = false
		}
	}
	s.curIndex = len(s.input)
	return MultilineCommentToken
}

func (s *Scanner) scanSinglelineComment() TokenType {
	end := strings.IndexByte(s.input[s.curIndex:], '\n')
	if end == -1 {
		s.curIndex = len(s.input)
	} else {
		s.curIndex += end
	}
	return SinglelineCommentToken
}

func (s *Scanner) scanStringLiteral(tokenType TokenType) TokenType {
	return s.scanUntilSingleDoubleEscapes('\'', tokenType, UnterminatedVarcharLiteralErrorToken)
}

func (s *Scanner) scanQuotedIdentifier() TokenType {
	return s.scanUntilSingleDoubleEscapes(']', QuotedIdentifierToken, UnterminatedQuotedIdentifierErrorToken)
}

func (s *Scanner) scanIdentifier() {
	for i, r := range s.input[s.curIndex:] {
		if !(xid.Continue(r) || r == '$' || r == '#' || r == '@' || unicode.Is(unicode.Cf, r)) {
			s.curIndex += i
			return
		}
	}
	s.curIndex = len(s.input)
}

func (s *Scanner) scanUntilSingleDoubleEscapes(endmarker rune, tokenType, unterminatedTokenType TokenType) TokenType {
	skipnext := false
	for i, r := range s.input[s.curIndex:] {
		if skipnext {
			skipnext = false
			continue
		}
		if r == '\n' {
			s.bumpLine(i)
		}
		if r == endmarker {
			r2, _ := utf8.DecodeRuneInString(s.input[s.curIndex+i+1:])
			if r2 == endmarker {
				skipnext = true
			} else {
				s.curIndex += i + 1
				return tokenType
			}
		}
	}
	s.curIndex = len(s.input)
	return unterminatedTokenType
}

var numberRegexp = regexp.MustCompile(`^[+-]?\d+\.?\d*([eE][+-]?\d*)?`)

func (s *Scanner) scanNumber() TokenType {
	loc := numberRegexp.FindStringIndex(s.input[s.curIndex:])
	if len(loc) == 0 {
		panic("sqltoken: numberRegexp did not match where caller expected a number")
	}
	s.curIndex += loc[1]
	return NumberToken
}

func (s *Scanner) scanWhitespace() TokenType {
	for i, r := range s.input[s.curIndex:] {
		if r == '\n' {
			s.bumpLine(i)
		}
		if !unicode.IsSpace(r) {
			s.curIndex += i
			return WhitespaceToken
		}
	}
	s.curIndex = len(s.input)
	return WhitespaceToken
}
