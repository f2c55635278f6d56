package tokenizer

import "github.com/hippiehunter/sqlparser/keyword"

// Feature identifies dialect-specific syntax extensions. Syntax behind a
// feature the active dialect does not enable is reported as an
// unsupported-construct error by the parser, not silently accepted.
type Feature int

const (
	// FeatureCastOperator enables the :: cast operator.
	FeatureCastOperator Feature = iota + 1
	// FeatureIlike enables the case-insensitive ILIKE operator.
	FeatureIlike
	// FeatureBacktickQuote enables backtick-quoted identifiers.
	FeatureBacktickQuote
	// FeatureReturning enables RETURNING clauses on DML statements.
	FeatureReturning
)

// Precedence levels for the expression engine. Dialects may remap
// individual operators but the levels themselves are shared vocabulary.
const (
	PrecNone           = 0
	PrecOr             = 1
	PrecAnd            = 2
	PrecNot            = 3
	PrecComparison     = 4 // =, <>, <, >, <=, >=, LIKE, IN, BETWEEN, IS
	PrecAdditive       = 5 // +, -, ||
	PrecMultiplicative = 6 // *, /, %
	PrecUnary          = 7 // unary -, +
	PrecPostfix        = 8 // ::
)

// Dialect is the capability set one SQL variant contributes to the shared
// grammar. One instance is shared by the tokenizer and every parser
// routine of a parse session; implementations must be read-only so that
// concurrent parses can share them safely.
//
// The engine never branches on a concrete dialect identity. All variance
// flows through these accessors.
type Dialect interface {
	// Name identifies the dialect for diagnostics.
	Name() string

	// IsIdentifierQuote reports whether r opens a quoted identifier.
	// The closing rune is always the same as the opening one, escaped by
	// doubling inside the identifier.
	IsIdentifierQuote(r rune) bool

	// IsStringQuote reports whether r opens a string literal.
	IsStringQuote(r rune) bool

	// IsReserved reports whether the keyword may not be used as a plain
	// identifier in this dialect.
	IsReserved(kw keyword.Keyword) bool

	// Precedence returns the infix/postfix binding power of the token, or
	// PrecNone if the token is not an operator in this dialect. The result
	// must be stable for the duration of a parse.
	Precedence(t Token) int

	// Normalize applies the dialect's unquoted-identifier case rule.
	// Quoted identifiers are never normalized.
	Normalize(name string) string

	// Supports reports whether the dialect enables the syntax extension.
	Supports(f Feature) bool
}
