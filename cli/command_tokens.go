package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/hippiehunter/sqlparser/tokenizer"
)

// TokensCmd represents the tokens command: a raw token stream dump, one
// token per line with its span.
type TokensCmd struct {
	Input   string `arg:"" optional:"" help:"Input file (default: stdin)"`
	Dialect string `short:"d" help:"Dialect to tokenize with (default: from config)"`
	All     bool   `short:"a" help:"Include whitespace and comment tokens"`
}

// Run executes the tokens command
func (cmd *TokensCmd) Run(ctx *Context) error {
	config, err := LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	d, err := config.ResolveDialect(cmd.Dialect)
	if err != nil {
		return err
	}

	var src []byte
	filename := "<stdin>"
	if cmd.Input == "" {
		src, err = io.ReadAll(os.Stdin)
	} else {
		filename = cmd.Input
		src, err = os.ReadFile(cmd.Input)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	t := tokenizer.NewSqlTokenizer(string(src), d, tokenizer.TokenizerOptions{
		SkipWhitespace: !cmd.All,
		SkipComments:   !cmd.All,
	})

	for token, err := range t.Tokens() {
		if err != nil {
			writeDiagnostic(os.Stderr, filename, string(src), err)
			return err
		}
		fmt.Printf("%d:%d-%d:%d\t%s\n",
			token.Span.Start.Line, token.Span.Start.Column,
			token.Span.End.Line, token.Span.End.Column,
			token)
		if token.Type == tokenizer.EOF {
			break
		}
	}
	return nil
}
