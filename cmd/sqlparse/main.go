package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/hippiehunter/sqlparser/cli"
)

// CLI represents the command-line interface
var CLI struct {
	Config   string          `help:"Configuration file path" default:"sqlparser.yaml"`
	Verbose  bool            `help:"Enable verbose output" short:"v"`
	Quiet    bool            `help:"Suppress output" short:"q"`
	Validate cli.ValidateCmd `cmd:"" help:"Parse SQL files and report syntax errors"`
	Format   cli.FormatCmd   `cmd:"" help:"Rewrite SQL files in canonical form"`
	Tokens   cli.TokensCmd   `cmd:"" help:"Dump the token stream with source spans"`
	Version  VersionCmd      `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run() error {
	fmt.Println("sqlparse v0.1.0")
	return nil
}

func main() {
	ctx := kong.Parse(&CLI)

	appCtx := &cli.Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
