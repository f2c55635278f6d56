package tokenizer

import (
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/hippiehunter/sqlparser/keyword"
)

// testDialect is a minimal Dialect for exercising the scanner. Double
// quotes delimit identifiers and single quotes delimit strings; enabling
// backtick adds backtick identifier quoting.
type testDialect struct {
	backtick bool
}

func (d testDialect) Name() string { return "test" }
func (d testDialect) IsIdentifierQuote(r rune) bool {
	return r == '"' || (d.backtick && r == '`')
}
func (d testDialect) IsStringQuote(r rune) bool          { return r == '\'' }
func (d testDialect) IsReserved(kw keyword.Keyword) bool { return false }
func (d testDialect) Precedence(t Token) int             { return PrecNone }
func (d testDialect) Normalize(name string) string       { return strings.ToLower(name) }
func (d testDialect) Supports(f Feature) bool            { return false }

func TestTokenIterator(t *testing.T) {
	sql := "SELECT id, name FROM users WHERE active = true;"
	tokenizer := NewSqlTokenizer(sql, testDialect{})

	expectedTypes := []TokenType{
		KEYWORD, WHITESPACE, IDENTIFIER, COMMA, WHITESPACE, IDENTIFIER, WHITESPACE,
		KEYWORD, WHITESPACE, IDENTIFIER, WHITESPACE, KEYWORD, WHITESPACE, IDENTIFIER,
		WHITESPACE, EQUAL, WHITESPACE, KEYWORD, SEMICOLON, EOF,
	}

	var actualTypes []TokenType
	for token, err := range tokenizer.Tokens() {
		assert.NoError(t, err)

		actualTypes = append(actualTypes, token.Type)

		if token.Type == EOF {
			break
		}
	}

	assert.Equal(t, expectedTypes, actualTypes)
}

func TestTokenIteratorWithOptions(t *testing.T) {
	sql := "SELECT id -- trailing\nFROM users /* block */ WHERE x = 1"
	tokenizer := NewSqlTokenizer(sql, testDialect{}, TokenizerOptions{
		SkipWhitespace: true,
		SkipComments:   true,
	})

	expectedTypes := []TokenType{
		KEYWORD, IDENTIFIER, KEYWORD, IDENTIFIER, KEYWORD, IDENTIFIER, EQUAL, NUMBER, EOF,
	}

	var actualTypes []TokenType
	for token, err := range tokenizer.Tokens() {
		assert.NoError(t, err)

		actualTypes = append(actualTypes, token.Type)

		if token.Type == EOF {
			break
		}
	}

	assert.Equal(t, expectedTypes, actualTypes)
}

func TestIteratorEarlyTermination(t *testing.T) {
	sql := "SELECT id, name FROM users"
	tokenizer := NewSqlTokenizer(sql, testDialect{})

	count := 0
	for _, err := range tokenizer.Tokens() {
		assert.NoError(t, err)

		count++
		if count >= 5 {
			break
		}
	}

	assert.Equal(t, 5, count)
}

func TestBasicTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected TokenType
		value    string
	}{
		{name: "integer", input: "42", expected: NUMBER, value: "42"},
		{name: "decimal", input: "3.14", expected: NUMBER, value: "3.14"},
		{name: "exponent", input: "1e10", expected: NUMBER, value: "1e10"},
		{name: "signed exponent", input: "2.5E-3", expected: NUMBER, value: "2.5E-3"},
		{name: "string", input: "'hello'", expected: STRING, value: "hello"},
		{name: "string with doubled quote", input: "'it''s'", expected: STRING, value: "it's"},
		{name: "empty string", input: "''", expected: STRING, value: ""},
		{name: "quoted identifier", input: `"order"`, expected: QUOTED_IDENTIFIER, value: "order"},
		{name: "quoted identifier with doubled quote", input: `"a""b"`, expected: QUOTED_IDENTIFIER, value: `a"b`},
		{name: "identifier", input: "user_name", expected: IDENTIFIER, value: "user_name"},
		{name: "identifier with digits", input: "t1", expected: IDENTIFIER, value: "t1"},
		{name: "keyword", input: "select", expected: KEYWORD, value: "select"},
		{name: "not equal angle", input: "<>", expected: NOT_EQUAL, value: "<>"},
		{name: "not equal bang", input: "!=", expected: NOT_EQUAL, value: "!="},
		{name: "less equal", input: "<=", expected: LESS_EQUAL, value: "<="},
		{name: "greater equal", input: ">=", expected: GREATER_EQUAL, value: ">="},
		{name: "concat", input: "||", expected: CONCAT, value: "||"},
		{name: "double colon", input: "::", expected: DOUBLE_COLON, value: "::"},
		{name: "modulo", input: "%", expected: MODULO, value: "%"},
		{name: "line comment", input: "-- note", expected: LINE_COMMENT, value: "-- note"},
		{name: "block comment", input: "/* note */", expected: BLOCK_COMMENT, value: "/* note */"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := NewSqlTokenizer(tt.input, testDialect{}).AllTokens()
			assert.NoError(t, err)
			assert.Equal(t, 2, len(tokens))
			assert.Equal(t, tt.expected, tokens[0].Type)
			assert.Equal(t, tt.value, tokens[0].Value)
			assert.Equal(t, EOF, tokens[1].Type)
		})
	}
}

func TestKeywordResolution(t *testing.T) {
	tokens, err := NewSqlTokenizer("SeLeCt raise sqlstate", testDialect{}, TokenizerOptions{SkipWhitespace: true}).AllTokens()
	assert.NoError(t, err)

	assert.Equal(t, keyword.Select, tokens[0].Keyword)
	assert.Equal(t, keyword.Raise, tokens[1].Keyword)
	assert.Equal(t, keyword.Sqlstate, tokens[2].Keyword)
	// the spelling as written survives in Value
	assert.Equal(t, "SeLeCt", tokens[0].Value)
}

func TestSpans(t *testing.T) {
	sql := "SELECT x\nFROM t"
	tokens, err := NewSqlTokenizer(sql, testDialect{}, TokenizerOptions{SkipWhitespace: true}).AllTokens()
	assert.NoError(t, err)

	// SELECT covers [0,6) on line 1
	assert.Equal(t, Position{Line: 1, Column: 1, Offset: 0}, tokens[0].Span.Start)
	assert.Equal(t, Position{Line: 1, Column: 7, Offset: 6}, tokens[0].Span.End)

	// x covers [7,8)
	assert.Equal(t, Position{Line: 1, Column: 8, Offset: 7}, tokens[1].Span.Start)
	assert.Equal(t, Position{Line: 1, Column: 9, Offset: 8}, tokens[1].Span.End)

	// FROM starts line 2
	assert.Equal(t, Position{Line: 2, Column: 1, Offset: 9}, tokens[2].Span.Start)

	// the token text can be recovered from the span
	from := tokens[2].Span
	assert.Equal(t, "FROM", sql[from.Start.Offset:from.End.Offset])
}

func TestSpanUnion(t *testing.T) {
	a := Span{Start: Position{Line: 1, Column: 1, Offset: 0}, End: Position{Line: 1, Column: 7, Offset: 6}}
	b := Span{Start: Position{Line: 2, Column: 1, Offset: 9}, End: Position{Line: 2, Column: 5, Offset: 13}}
	var empty Span

	union := a.Union(b)
	assert.Equal(t, a.Start, union.Start)
	assert.Equal(t, b.End, union.End)

	// union is symmetric
	assert.Equal(t, union, b.Union(a))

	// empty spans contribute nothing
	assert.Equal(t, a, a.Union(empty))
	assert.Equal(t, a, empty.Union(a))
	assert.True(t, empty.IsEmpty())
	assert.False(t, a.IsEmpty())

	assert.True(t, union.Contains(b))
	assert.True(t, union.Contains(a))
	assert.False(t, a.Contains(b))
}

func TestDialectQuoting(t *testing.T) {
	// backtick quoting off: backtick is a lexical error
	_, err := NewSqlTokenizer("`x`", testDialect{}).AllTokens()
	assert.True(t, errors.Is(err, ErrUnexpectedCharacter))

	// backtick quoting on: a quoted identifier carrying its quote rune
	tokens, err := NewSqlTokenizer("`x`", testDialect{backtick: true}).AllTokens()
	assert.NoError(t, err)
	assert.Equal(t, QUOTED_IDENTIFIER, tokens[0].Type)
	assert.Equal(t, "x", tokens[0].Value)
	assert.Equal(t, '`', tokens[0].Quote)
}

func TestTokenizerErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected error
	}{
		{name: "unterminated string", input: "'abc", expected: ErrUnterminatedString},
		{name: "unterminated quoted identifier", input: `"abc`, expected: ErrUnterminatedQuotedIdentifier},
		{name: "unterminated block comment", input: "/* abc", expected: ErrUnterminatedComment},
		{name: "bare bang", input: "a ! b", expected: ErrUnexpectedCharacter},
		{name: "bare pipe", input: "a | b", expected: ErrUnexpectedCharacter},
		{name: "bare colon", input: "a : b", expected: ErrUnexpectedCharacter},
		{name: "stray at sign", input: "SELECT @x", expected: ErrUnexpectedCharacter},
		{name: "bad exponent", input: "1e+", expected: ErrInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSqlTokenizer(tt.input, testDialect{}).AllTokens()
			assert.Error(t, err)
			assert.True(t, errors.Is(err, tt.expected))
		})
	}
}

func TestMultibyteInput(t *testing.T) {
	// multibyte runes advance columns by one and offsets by byte width
	tokens, err := NewSqlTokenizer("'日本語' x", testDialect{}, TokenizerOptions{SkipWhitespace: true}).AllTokens()
	assert.NoError(t, err)

	assert.Equal(t, STRING, tokens[0].Type)
	assert.Equal(t, "日本語", tokens[0].Value)
	assert.Equal(t, 11, tokens[0].Span.End.Offset) // 2 quotes + 3*3 bytes
	assert.Equal(t, 6, tokens[0].Span.End.Column)

	assert.Equal(t, IDENTIFIER, tokens[1].Type)
	assert.Equal(t, 12, tokens[1].Span.Start.Offset)
}
