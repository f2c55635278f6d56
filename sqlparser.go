// Package sqlparser is a multi-dialect SQL front end. It tokenizes SQL
// with full source spans, parses statements and expressions under a
// pluggable dialect capability descriptor, and produces an AST whose
// nodes render back to canonical SQL.
//
// The heavy lifting lives in the sub-packages: tokenizer (scanner, spans,
// the Dialect interface), dialect (built-in and configured dialects),
// and parser (statements, expressions, AST). This package ties them
// together with configuration and convenience entry points.
package sqlparser

import (
	"github.com/hippiehunter/sqlparser/dialect"
	"github.com/hippiehunter/sqlparser/parser"
)

// Parse parses src as a statement sequence using a built-in dialect name
// ("generic", "postgres", "mysql", "sqlite").
func Parse(src string, dialectName string) ([]parser.Statement, error) {
	d, err := dialect.FromName(dialectName)
	if err != nil {
		return nil, err
	}
	return parser.Parse(src, d)
}

// ParseStatement parses src as exactly one statement.
func ParseStatement(src string, dialectName string) (parser.Statement, error) {
	d, err := dialect.FromName(dialectName)
	if err != nil {
		return nil, err
	}
	return parser.ParseStatement(src, d)
}
