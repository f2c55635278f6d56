package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// ErrValidationFailed is returned when any input failed to parse.
var ErrValidationFailed = errors.New("some files failed to parse")

// ValidateCmd represents the validate command
type ValidateCmd struct {
	Files   []string `arg:"" optional:"" help:"SQL files to validate (default: stdin)" type:"existingfile"`
	Dialect string   `short:"d" help:"Dialect to parse with (default: from config)"`
}

// Run executes the validate command
func (cmd *ValidateCmd) Run(ctx *Context) error {
	config, err := LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	p, err := config.NewParser(cmd.Dialect)
	if err != nil {
		return err
	}

	validate := func(filename, src string) bool {
		statements, err := p.Parse(src)
		if err != nil {
			writeDiagnostic(os.Stderr, filename, src, err)
			return false
		}
		if ctx.Verbose && !ctx.Quiet {
			color.Green("%s: %d statement(s)", filename, len(statements))
		}
		return true
	}

	if len(cmd.Files) == 0 {
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		if !validate("<stdin>", string(src)) {
			return ErrValidationFailed
		}
		return nil
	}

	failed := 0
	for _, file := range cmd.Files {
		src, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		if !validate(file, string(src)) {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrValidationFailed, failed, len(cmd.Files))
	}
	return nil
}
