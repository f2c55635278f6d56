// Package cli implements the sqlparse command set shared by the binary
// entry point.
package cli

import (
	"github.com/hippiehunter/sqlparser"
)

// Context carries the global flags into command Run methods.
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*sqlparser.Config, error) {
	return sqlparser.LoadConfig(configPath)
}
