package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var ErrFileNotFormatted = errors.New("file is not formatted")

// FormatCmd represents the format command: it reprints statements in
// their canonical rendering, one per line, semicolon-terminated.
type FormatCmd struct {
	Input   string `arg:"" optional:"" help:"Input file (default: stdin)"`
	Output  string `short:"o" help:"Output file (default: stdout, or overwrite input file)"`
	Check   bool   `short:"c" help:"Check if the input is formatted (exit 1 if not)"`
	Dialect string `short:"d" help:"Dialect to parse with (default: from config)"`
}

// Run executes the format command
func (cmd *FormatCmd) Run(ctx *Context) error {
	config, err := LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	p, err := config.NewParser(cmd.Dialect)
	if err != nil {
		return err
	}

	var (
		src      []byte
		filename string
	)
	if cmd.Input == "" {
		filename = "<stdin>"
		src, err = io.ReadAll(os.Stdin)
	} else {
		filename = cmd.Input
		src, err = os.ReadFile(cmd.Input)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	statements, err := p.Parse(string(src))
	if err != nil {
		writeDiagnostic(os.Stderr, filename, string(src), err)
		return err
	}

	var b strings.Builder
	for _, statement := range statements {
		b.WriteString(statement.String())
		b.WriteString(";\n")
	}
	formatted := b.String()

	if cmd.Check {
		if string(src) != formatted {
			return fmt.Errorf("%w: %s", ErrFileNotFormatted, filename)
		}
		return nil
	}

	switch {
	case cmd.Output != "":
		return os.WriteFile(cmd.Output, []byte(formatted), 0o644)
	case cmd.Input != "":
		return os.WriteFile(cmd.Input, []byte(formatted), 0o644)
	default:
		_, err = io.WriteString(os.Stdout, formatted)
		return err
	}
}
