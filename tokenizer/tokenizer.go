package tokenizer

import (
	"fmt"
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hippiehunter/sqlparser/keyword"
)

// TokenIterator uses the Go iterator pattern
type TokenIterator iter.Seq2[Token, error]

// SqlTokenizer is a tokenizer that returns an iterator
type SqlTokenizer struct {
	input   string
	dialect Dialect
	options TokenizerOptions
}

// TokenizerOptions are options for the tokenizer
type TokenizerOptions struct {
	SkipWhitespace bool
	SkipComments   bool
}

// NewSqlTokenizer creates a new SqlTokenizer
func NewSqlTokenizer(input string, dialect Dialect, options ...TokenizerOptions) *SqlTokenizer {
	opts := TokenizerOptions{
		SkipWhitespace: false,
		SkipComments:   false,
	}
	if len(options) > 0 {
		opts = options[0]
	}

	return &SqlTokenizer{
		input:   input,
		dialect: dialect,
		options: opts,
	}
}

// Tokens returns an iterator of tokens
func (t *SqlTokenizer) Tokens() TokenIterator {
	return func(yield func(Token, error) bool) {
		s := &scanner{
			input:   t.input,
			line:    1,
			dialect: t.dialect,
		}

		s.readChar()

		for {
			token, err := s.nextToken()
			if err != nil {
				yield(Token{}, err)
				return
			}

			if token.Type == EOF {
				yield(token, nil)
				return
			}

			// Filtering based on options
			if t.options.SkipWhitespace && token.Type == WHITESPACE {
				continue
			}
			if t.options.SkipComments && (token.Type == LINE_COMMENT || token.Type == BLOCK_COMMENT) {
				continue
			}

			if !yield(token, nil) {
				return
			}
		}
	}
}

// AllTokens gets all tokens as a slice
func (t *SqlTokenizer) AllTokens() ([]Token, error) {
	tokens := make([]Token, 0, 64)

	for token, err := range t.Tokens() {
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
		if token.Type == EOF {
			break
		}
	}

	return tokens, nil
}

// Internal scanner implementation
type scanner struct {
	input      string
	offset     int // byte offset of current rune
	nextOffset int
	line       int
	column     int
	current    rune
	dialect    Dialect
}

// pos returns the position of the current (unconsumed) rune.
func (t *scanner) pos() Position {
	return Position{Line: t.line, Column: t.column, Offset: t.offset}
}

// nextToken gets the next token
func (t *scanner) nextToken() (Token, error) {
	switch {
	case t.current == 0:
		return t.newToken(EOF, "", t.pos()), nil
	case unicode.IsSpace(t.current):
		return t.readWhitespace(), nil
	case t.dialect.IsStringQuote(t.current):
		return t.readString()
	case t.dialect.IsIdentifierQuote(t.current):
		return t.readQuotedIdentifier()
	}

	switch t.current {
	case '(':
		return t.readSymbol(OPENED_PARENS), nil
	case ')':
		return t.readSymbol(CLOSED_PARENS), nil
	case ',':
		return t.readSymbol(COMMA), nil
	case ';':
		return t.readSymbol(SEMICOLON), nil
	case '.':
		return t.readSymbol(DOT), nil
	case '-':
		if t.peekChar() == '-' {
			return t.readLineComment(), nil
		}
		return t.readSymbol(MINUS), nil
	case '/':
		if t.peekChar() == '*' {
			return t.readBlockComment()
		}
		return t.readSymbol(DIVIDE), nil
	case '=':
		return t.readSymbol(EQUAL), nil
	case '<':
		if t.peekChar() == '=' {
			return t.readSymbol2(LESS_EQUAL), nil
		} else if t.peekChar() == '>' {
			return t.readSymbol2(NOT_EQUAL), nil
		}
		return t.readSymbol(LESS_THAN), nil
	case '>':
		if t.peekChar() == '=' {
			return t.readSymbol2(GREATER_EQUAL), nil
		}
		return t.readSymbol(GREATER_THAN), nil
	case '!':
		if t.peekChar() == '=' {
			return t.readSymbol2(NOT_EQUAL), nil
		}
		return Token{}, t.unexpectedCharacter()
	case '+':
		return t.readSymbol(PLUS), nil
	case '*':
		return t.readSymbol(MULTIPLY), nil
	case '%':
		return t.readSymbol(MODULO), nil
	case '|':
		if t.peekChar() == '|' {
			return t.readSymbol2(CONCAT), nil
		}
		return Token{}, t.unexpectedCharacter()
	case ':':
		if t.peekChar() == ':' {
			return t.readSymbol2(DOUBLE_COLON), nil
		}
		return Token{}, t.unexpectedCharacter()
	default:
		if unicode.IsLetter(t.current) || t.current == '_' {
			return t.readWord(), nil
		} else if unicode.IsDigit(t.current) {
			return t.readNumber()
		}
		return Token{}, t.unexpectedCharacter()
	}
}

// unexpectedCharacter reports the current rune as a lexical error.
func (t *scanner) unexpectedCharacter() error {
	return fmt.Errorf("%w: %q at line %d, column %d", ErrUnexpectedCharacter, t.current, t.line, t.column)
}

// readChar reads the next character
func (t *scanner) readChar() {
	if t.current == '\n' {
		t.line++
		t.column = 0
	}

	t.offset = t.nextOffset
	t.column++

	if t.offset >= len(t.input) {
		t.current = 0
		return
	}

	r, width := utf8.DecodeRuneInString(t.input[t.offset:])
	t.current = r
	t.nextOffset = t.offset + width
}

// peekChar looks ahead at the next character
func (t *scanner) peekChar() rune {
	if t.nextOffset >= len(t.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(t.input[t.nextOffset:])
	return r
}

func (t *scanner) newToken(tokenType TokenType, value string, start Position) Token {
	return Token{
		Type:  tokenType,
		Value: value,
		Span:  Span{Start: start, End: t.pos()},
	}
}

// readSymbol consumes a single-rune operator or punctuation token.
func (t *scanner) readSymbol(tokenType TokenType) Token {
	start := t.pos()
	value := string(t.current)
	t.readChar()
	return t.newToken(tokenType, value, start)
}

// readSymbol2 consumes a two-rune operator token.
func (t *scanner) readSymbol2(tokenType TokenType) Token {
	start := t.pos()
	value := string(t.current) + string(t.peekChar())
	t.readChar()
	t.readChar()
	return t.newToken(tokenType, value, start)
}

// readWhitespace reads whitespace characters
func (t *scanner) readWhitespace() Token {
	var builder strings.Builder
	start := t.pos()

	for unicode.IsSpace(t.current) {
		builder.WriteRune(t.current)
		t.readChar()
	}

	return t.newToken(WHITESPACE, builder.String(), start)
}

// readWord reads words (identifiers and keywords)
func (t *scanner) readWord() Token {
	var builder strings.Builder
	start := t.pos()

	for unicode.IsLetter(t.current) || unicode.IsDigit(t.current) || t.current == '_' {
		builder.WriteRune(t.current)
		t.readChar()
	}

	word := builder.String()

	// Keyword recognition is case-insensitive; reservation is the
	// parser's concern.
	if kw, ok := keyword.Lookup(word); ok {
		token := t.newToken(KEYWORD, word, start)
		token.Keyword = kw
		return token
	}

	return t.newToken(IDENTIFIER, word, start)
}

// readString reads string literals. The delimiter is escaped by doubling
// inside the literal; the token value carries the unescaped content.
func (t *scanner) readString() (Token, error) {
	var builder strings.Builder
	start := t.pos()
	delimiter := t.current

	t.readChar()

	for {
		if t.current == 0 {
			return Token{}, fmt.Errorf("%w: %c at line %d, column %d", ErrUnterminatedString, delimiter, start.Line, start.Column)
		}
		if t.current == delimiter {
			if t.peekChar() == delimiter {
				builder.WriteRune(delimiter)
				t.readChar()
				t.readChar()
				continue
			}
			break
		}
		builder.WriteRune(t.current)
		t.readChar()
	}

	t.readChar() // closing delimiter

	return t.newToken(STRING, builder.String(), start), nil
}

// readQuotedIdentifier reads a quoted identifier using the same doubling
// escape as string literals. Quoted identifiers are case-sensitive and
// never resolve to keywords.
func (t *scanner) readQuotedIdentifier() (Token, error) {
	var builder strings.Builder
	start := t.pos()
	delimiter := t.current

	t.readChar()

	for {
		if t.current == 0 {
			return Token{}, fmt.Errorf("%w: %c at line %d, column %d", ErrUnterminatedQuotedIdentifier, delimiter, start.Line, start.Column)
		}
		if t.current == delimiter {
			if t.peekChar() == delimiter {
				builder.WriteRune(delimiter)
				t.readChar()
				t.readChar()
				continue
			}
			break
		}
		builder.WriteRune(t.current)
		t.readChar()
	}

	t.readChar() // closing delimiter

	token := t.newToken(QUOTED_IDENTIFIER, builder.String(), start)
	token.Quote = delimiter
	return token, nil
}

// readNumber reads numeric literals
func (t *scanner) readNumber() (Token, error) {
	var builder strings.Builder
	start := t.pos()

	// Integer part
	for unicode.IsDigit(t.current) {
		builder.WriteRune(t.current)
		t.readChar()
	}

	// Decimal point
	if t.current == '.' && unicode.IsDigit(t.peekChar()) {
		builder.WriteRune(t.current)
		t.readChar()

		for unicode.IsDigit(t.current) {
			builder.WriteRune(t.current)
			t.readChar()
		}
	}

	// Exponential part
	if t.current == 'e' || t.current == 'E' {
		builder.WriteRune(t.current)
		t.readChar()

		if t.current == '+' || t.current == '-' {
			builder.WriteRune(t.current)
			t.readChar()
		}

		if !unicode.IsDigit(t.current) {
			return Token{}, fmt.Errorf("%w: invalid exponent at line %d, column %d", ErrInvalidNumber, start.Line, start.Column)
		}

		for unicode.IsDigit(t.current) {
			builder.WriteRune(t.current)
			t.readChar()
		}
	}

	return t.newToken(NUMBER, builder.String(), start), nil
}

// readLineComment reads line comments
func (t *scanner) readLineComment() Token {
	var builder strings.Builder
	start := t.pos()

	for t.current != 0 && t.current != '\n' {
		builder.WriteRune(t.current)
		t.readChar()
	}

	return t.newToken(LINE_COMMENT, builder.String(), start)
}

// readBlockComment reads block comments
func (t *scanner) readBlockComment() (Token, error) {
	var builder strings.Builder
	start := t.pos()

	// consume '/*'
	builder.WriteRune(t.current)
	t.readChar()
	builder.WriteRune(t.current)
	t.readChar()

	for t.current != 0 {
		if t.current == '*' && t.peekChar() == '/' {
			builder.WriteRune(t.current)
			t.readChar()
			builder.WriteRune(t.current)
			t.readChar()
			return t.newToken(BLOCK_COMMENT, builder.String(), start), nil
		}
		builder.WriteRune(t.current)
		t.readChar()
	}

	return Token{}, fmt.Errorf("%w at line %d, column %d", ErrUnterminatedComment, start.Line, start.Column)
}

