// Package dialect provides the built-in tokenizer.Dialect implementations.
//
// A dialect is a plain capability set: identifier quoting, reserved
// keywords, operator precedence and feature flags. The tokenizer and
// parser depend only on the tokenizer.Dialect interface, never on a
// concrete dialect identity.
package dialect

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hippiehunter/sqlparser/keyword"
	"github.com/hippiehunter/sqlparser/tokenizer"
)

// lower performs locale-independent Unicode case mapping for identifier
// normalization.
var lower = cases.Lower(language.Und)

// defaultPrecedence is the ANSI operator precedence table. Keys are
// canonical operator spellings: keyword spellings for word operators,
// the symbol text otherwise.
var defaultPrecedence = map[string]int{
	"OR":  tokenizer.PrecOr,
	"AND": tokenizer.PrecAnd,

	"=":       tokenizer.PrecComparison,
	"<>":      tokenizer.PrecComparison,
	"!=":      tokenizer.PrecComparison,
	"<":       tokenizer.PrecComparison,
	">":       tokenizer.PrecComparison,
	"<=":      tokenizer.PrecComparison,
	">=":      tokenizer.PrecComparison,
	"LIKE":    tokenizer.PrecComparison,
	"ILIKE":   tokenizer.PrecComparison,
	"IN":      tokenizer.PrecComparison,
	"BETWEEN": tokenizer.PrecComparison,
	"IS":      tokenizer.PrecComparison,
	"NOT":     tokenizer.PrecComparison, // infix NOT LIKE / NOT IN / NOT BETWEEN

	"+":  tokenizer.PrecAdditive,
	"-":  tokenizer.PrecAdditive,
	"||": tokenizer.PrecAdditive,

	"*": tokenizer.PrecMultiplicative,
	"/": tokenizer.PrecMultiplicative,
	"%": tokenizer.PrecMultiplicative,

	"::": tokenizer.PrecPostfix,
}

// commonReserved are keywords every built-in dialect reserves.
var commonReserved = []keyword.Keyword{
	keyword.Select, keyword.Insert, keyword.Update, keyword.Delete,
	keyword.Create, keyword.Drop, keyword.Table, keyword.Set,
	keyword.From, keyword.Where, keyword.Group, keyword.By, keyword.Having,
	keyword.Order, keyword.Into, keyword.Values, keyword.Using,
	keyword.Join, keyword.Inner, keyword.Left, keyword.Right, keyword.Full,
	keyword.Cross, keyword.Outer, keyword.On,
	keyword.And, keyword.Or, keyword.Not, keyword.In, keyword.Between,
	keyword.Like, keyword.Is, keyword.Null, keyword.True, keyword.False,
	keyword.Exists, keyword.Case, keyword.When, keyword.Then, keyword.Else,
	keyword.End, keyword.Cast, keyword.As, keyword.Distinct, keyword.All,
	keyword.Primary, keyword.Default,
}

// dialect implements tokenizer.Dialect as static tables. Instances are
// read-only after construction.
type dialect struct {
	name         string
	identQuotes  map[rune]bool
	stringQuotes map[rune]bool
	reserved     map[keyword.Keyword]bool
	precedence   map[string]int
	features     map[tokenizer.Feature]bool
	preserveCase bool
}

func (d *dialect) Name() string {
	return d.name
}

func (d *dialect) IsIdentifierQuote(r rune) bool {
	return d.identQuotes[r]
}

func (d *dialect) IsStringQuote(r rune) bool {
	return d.stringQuotes[r]
}

func (d *dialect) IsReserved(kw keyword.Keyword) bool {
	return d.reserved[kw]
}

func (d *dialect) Supports(f tokenizer.Feature) bool {
	return d.features[f]
}

func (d *dialect) Precedence(t tokenizer.Token) int {
	if key, ok := operatorKey(t); ok {
		return d.precedence[key]
	}
	return tokenizer.PrecNone
}

// Normalize applies the dialect's unquoted-identifier case rule.
func (d *dialect) Normalize(name string) string {
	if d.preserveCase {
		return name
	}
	return lower.String(name)
}

// operatorKey returns the canonical precedence-table key for a token.
func operatorKey(t tokenizer.Token) (string, bool) {
	if t.Keyword != keyword.None {
		return t.Keyword.String(), true
	}

	switch t.Type {
	case tokenizer.EQUAL, tokenizer.NOT_EQUAL, tokenizer.LESS_THAN,
		tokenizer.GREATER_THAN, tokenizer.LESS_EQUAL, tokenizer.GREATER_EQUAL,
		tokenizer.PLUS, tokenizer.MINUS, tokenizer.MULTIPLY, tokenizer.DIVIDE,
		tokenizer.MODULO, tokenizer.CONCAT, tokenizer.DOUBLE_COLON:
		return t.Value, true
	}

	return "", false
}

func reservedSet(extra ...keyword.Keyword) map[keyword.Keyword]bool {
	set := make(map[keyword.Keyword]bool, len(commonReserved)+len(extra))
	for _, kw := range commonReserved {
		set[kw] = true
	}
	for _, kw := range extra {
		set[kw] = true
	}
	return set
}

// NewGenericDialect returns the ANSI-flavored dialect. LIMIT and OFFSET
// are recognized clauses but stay usable as identifiers.
func NewGenericDialect() tokenizer.Dialect {
	return &dialect{
		name:         "generic",
		identQuotes:  map[rune]bool{'"': true},
		stringQuotes: map[rune]bool{'\'': true},
		reserved:     reservedSet(),
		precedence:   defaultPrecedence,
		features:     map[tokenizer.Feature]bool{},
	}
}

// NewPostgresDialect returns the PostgreSQL-flavored dialect.
func NewPostgresDialect() tokenizer.Dialect {
	return &dialect{
		name:         "postgres",
		identQuotes:  map[rune]bool{'"': true},
		stringQuotes: map[rune]bool{'\'': true},
		reserved: reservedSet(
			keyword.Limit, keyword.Offset, keyword.Returning,
			keyword.Ilike, keyword.Asc, keyword.Desc,
		),
		precedence: defaultPrecedence,
		features: map[tokenizer.Feature]bool{
			tokenizer.FeatureCastOperator: true,
			tokenizer.FeatureIlike:        true,
			tokenizer.FeatureReturning:    true,
		},
	}
}

// NewMySQLDialect returns the MySQL-flavored dialect. Identifiers are
// backtick-quoted and double quotes delimit strings; unquoted identifier
// case is preserved.
func NewMySQLDialect() tokenizer.Dialect {
	return &dialect{
		name:         "mysql",
		identQuotes:  map[rune]bool{'`': true},
		stringQuotes: map[rune]bool{'\'': true, '"': true},
		reserved: reservedSet(
			keyword.Limit, keyword.If, keyword.Key,
		),
		precedence: defaultPrecedence,
		features: map[tokenizer.Feature]bool{
			tokenizer.FeatureBacktickQuote: true,
		},
		preserveCase: true,
	}
}

// NewSQLiteDialect returns the SQLite-flavored dialect.
func NewSQLiteDialect() tokenizer.Dialect {
	return &dialect{
		name:         "sqlite",
		identQuotes:  map[rune]bool{'"': true, '`': true},
		stringQuotes: map[rune]bool{'\'': true},
		reserved: reservedSet(
			keyword.Limit, keyword.Offset,
		),
		precedence: defaultPrecedence,
		features: map[tokenizer.Feature]bool{
			tokenizer.FeatureBacktickQuote: true,
			tokenizer.FeatureReturning:     true,
		},
	}
}
