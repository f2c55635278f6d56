package parser

import (
	"errors"
	"fmt"

	"github.com/hippiehunter/sqlparser/tokenizer"
)

// Sentinel errors
var (
	// ErrUnexpectedToken is the category for every expected-vs-found failure.
	ErrUnexpectedToken = errors.New("unexpected token")
	// ErrUnsupportedConstruct marks syntax the active dialect does not enable.
	ErrUnsupportedConstruct = errors.New("construct not supported by dialect")
	// ErrNestingTooDeep marks expressions or subqueries beyond the recursion limit.
	ErrNestingTooDeep = errors.New("statement nesting too deep")
)

// ParseError is the structured parse failure: a human-readable message,
// what was valid at that point, the offending token's text and its span.
type ParseError struct {
	Expected string
	Found    string
	Span     tokenizer.Span

	category error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: expected %s, found %s at line %d, column %d",
		e.category, e.Expected, e.Found, e.Span.Start.Line, e.Span.Start.Column)
}

func (e *ParseError) Unwrap() error {
	return e.category
}

func describeToken(t tokenizer.Token) string {
	if t.Type == tokenizer.EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Value)
}

// unexpectedToken builds the dominant error category: expected-vs-found
// with the offending token's span.
func unexpectedToken(expected string, found tokenizer.Token) error {
	return &ParseError{
		Expected: expected,
		Found:    describeToken(found),
		Span:     found.Span,
		category: ErrUnexpectedToken,
	}
}

// unsupportedConstruct reports syntax the dialect's feature flags exclude.
func unsupportedConstruct(construct string, dialectName string, found tokenizer.Token) error {
	return &ParseError{
		Expected: fmt.Sprintf("%s is not enabled for dialect %s", construct, dialectName),
		Found:    describeToken(found),
		Span:     found.Span,
		category: ErrUnsupportedConstruct,
	}
}

func nestingTooDeep(found tokenizer.Token) error {
	return &ParseError{
		Expected: "shallower nesting",
		Found:    describeToken(found),
		Span:     found.Span,
		category: ErrNestingTooDeep,
	}
}
