package dialect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hippiehunter/sqlparser/keyword"
	"github.com/hippiehunter/sqlparser/tokenizer"
)

// Sentinel errors
var (
	ErrUnknownDialect = errors.New("unknown dialect")
	ErrUnknownFeature = errors.New("unknown feature")
	ErrUnknownKeyword = errors.New("unknown keyword")
)

// featureNames maps configuration names to feature flags.
var featureNames = map[string]tokenizer.Feature{
	"cast_operator":  tokenizer.FeatureCastOperator,
	"ilike":          tokenizer.FeatureIlike,
	"backtick_quote": tokenizer.FeatureBacktickQuote,
	"returning":      tokenizer.FeatureReturning,
}

// Options describes a dialect assembled from configuration. The result
// starts from a named base dialect and perturbs its tables; the grammar
// implementation itself is never forked.
type Options struct {
	Name       string         `yaml:"name"`
	Base       string         `yaml:"base"`
	Precedence map[string]int `yaml:"precedence"` // operator spelling -> level
	Reserved   []string       `yaml:"reserved"`   // extra reserved keywords
	Features   []string       `yaml:"features"`   // feature names to enable
}

// FromName returns a built-in dialect by name.
func FromName(name string) (tokenizer.Dialect, error) {
	switch strings.ToLower(name) {
	case "", "generic", "ansi":
		return NewGenericDialect(), nil
	case "postgres", "postgresql":
		return NewPostgresDialect(), nil
	case "mysql", "mariadb":
		return NewMySQLDialect(), nil
	case "sqlite":
		return NewSQLiteDialect(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDialect, name)
	}
}

// New builds a dialect from options. Unknown base names, features or
// reserved words are reported, never silently ignored.
func New(opts Options) (tokenizer.Dialect, error) {
	base, err := FromName(opts.Base)
	if err != nil {
		return nil, err
	}

	d := base.(*dialect)
	custom := &dialect{
		name:         opts.Name,
		identQuotes:  d.identQuotes,
		stringQuotes: d.stringQuotes,
		reserved:     d.reserved,
		precedence:   d.precedence,
		features:     d.features,
		preserveCase: d.preserveCase,
	}
	if custom.name == "" {
		custom.name = d.name
	}

	if len(opts.Precedence) > 0 {
		precedence := make(map[string]int, len(d.precedence)+len(opts.Precedence))
		for op, level := range d.precedence {
			precedence[op] = level
		}
		for op, level := range opts.Precedence {
			precedence[strings.ToUpper(op)] = level
		}
		custom.precedence = precedence
	}

	if len(opts.Reserved) > 0 {
		reserved := make(map[keyword.Keyword]bool, len(d.reserved)+len(opts.Reserved))
		for kw := range d.reserved {
			reserved[kw] = true
		}
		for _, word := range opts.Reserved {
			kw, ok := keyword.Lookup(word)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownKeyword, word)
			}
			reserved[kw] = true
		}
		custom.reserved = reserved
	}

	if len(opts.Features) > 0 {
		features := make(map[tokenizer.Feature]bool, len(d.features)+len(opts.Features))
		for f := range d.features {
			features[f] = true
		}
		for _, name := range opts.Features {
			f, ok := featureNames[strings.ToLower(name)]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownFeature, name)
			}
			features[f] = true
		}
		custom.features = features
	}

	// Enabling backtick quoting adds the quote rune the base may lack.
	if custom.features[tokenizer.FeatureBacktickQuote] && !custom.identQuotes['`'] {
		identQuotes := make(map[rune]bool, len(custom.identQuotes)+1)
		for r := range custom.identQuotes {
			identQuotes[r] = true
		}
		identQuotes['`'] = true
		custom.identQuotes = identQuotes
	}

	return custom, nil
}
