package tokenizer

import (
	"errors"

	"github.com/hippiehunter/sqlparser/keyword"
)

// Sentinel errors
var (
	ErrUnexpectedCharacter          = errors.New("unexpected character")
	ErrUnterminatedString           = errors.New("unterminated string literal")
	ErrUnterminatedQuotedIdentifier = errors.New("unterminated quoted identifier")
	ErrUnterminatedComment          = errors.New("unterminated block comment")
	ErrInvalidNumber                = errors.New("invalid number format")
)

// TokenType represents the type of a token
type TokenType int

const (
	// Basic tokens
	EOF TokenType = iota
	WHITESPACE
	IDENTIFIER        // unquoted identifiers
	QUOTED_IDENTIFIER // "name", `name`
	KEYWORD           // words found in the keyword table
	NUMBER            // numeric literals
	STRING            // 'text'
	OPENED_PARENS     // (
	CLOSED_PARENS     // )
	COMMA             // ,
	SEMICOLON         // ;
	DOT               // .

	// SQL operators
	EQUAL         // =
	NOT_EQUAL     // <>, !=
	LESS_THAN     // <
	GREATER_THAN  // >
	LESS_EQUAL    // <=
	GREATER_EQUAL // >=
	PLUS          // +
	MINUS         // -
	MULTIPLY      // *
	DIVIDE        // /
	MODULO        // %
	CONCAT        // ||
	DOUBLE_COLON  // ::

	// Comments
	LINE_COMMENT  // -- line comment
	BLOCK_COMMENT // /* block comment */
)

// String returns the string representation of TokenType
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case WHITESPACE:
		return "WHITESPACE"
	case IDENTIFIER:
		return "IDENTIFIER"
	case QUOTED_IDENTIFIER:
		return "QUOTED_IDENTIFIER"
	case KEYWORD:
		return "KEYWORD"
	case NUMBER:
		return "NUMBER"
	case STRING:
		return "STRING"
	case OPENED_PARENS:
		return "OPENED_PARENS"
	case CLOSED_PARENS:
		return "CLOSED_PARENS"
	case COMMA:
		return "COMMA"
	case SEMICOLON:
		return "SEMICOLON"
	case DOT:
		return "DOT"
	case EQUAL:
		return "EQUAL"
	case NOT_EQUAL:
		return "NOT_EQUAL"
	case LESS_THAN:
		return "LESS_THAN"
	case GREATER_THAN:
		return "GREATER_THAN"
	case LESS_EQUAL:
		return "LESS_EQUAL"
	case GREATER_EQUAL:
		return "GREATER_EQUAL"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case MULTIPLY:
		return "MULTIPLY"
	case DIVIDE:
		return "DIVIDE"
	case MODULO:
		return "MODULO"
	case CONCAT:
		return "CONCAT"
	case DOUBLE_COLON:
		return "DOUBLE_COLON"
	case LINE_COMMENT:
		return "LINE_COMMENT"
	case BLOCK_COMMENT:
		return "BLOCK_COMMENT"
	default:
		return "UNKNOWN"
	}
}

// Position represents a position in the source code
type Position struct {
	Line   int
	Column int
	Offset int
}

// Span is a half-open source range [Start, End). A zero Span marks a node
// with no concrete source text.
type Span struct {
	Start Position
	End   Position
}

// IsEmpty reports whether the span covers no source text.
func (s Span) IsEmpty() bool {
	return s == Span{}
}

// Union returns the smallest span covering both s and other. Empty spans
// contribute nothing.
func (s Span) Union(other Span) Span {
	if s.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return s
	}
	result := s
	if other.Start.Offset < result.Start.Offset {
		result.Start = other.Start
	}
	if other.End.Offset > result.End.Offset {
		result.End = other.End
	}
	return result
}

// Contains reports whether other lies fully inside s.
func (s Span) Contains(other Span) bool {
	return s.Start.Offset <= other.Start.Offset && other.End.Offset <= s.End.Offset
}

// Token represents a token
type Token struct {
	Type  TokenType
	Value string // semantic value: string contents unescaped, quoted identifiers unquoted
	Span  Span

	// Keyword identity resolved via the keyword table; keyword.None for
	// non-keyword tokens.
	Keyword keyword.Keyword

	// Quote is the opening quote rune for QUOTED_IDENTIFIER tokens, 0
	// otherwise. Kept so the renderer can reproduce the quoting style.
	Quote rune
}

// String returns the string representation of Token
func (t Token) String() string {
	if t.Keyword != keyword.None {
		return t.Type.String() + "(" + t.Keyword.String() + "): " + t.Value
	}
	return t.Type.String() + ": " + t.Value
}
