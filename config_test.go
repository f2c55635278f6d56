package sqlparser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/hippiehunter/sqlparser/dialect"
	"github.com/hippiehunter/sqlparser/keyword"
	"github.com/hippiehunter/sqlparser/parser"
	"github.com/hippiehunter/sqlparser/tokenizer"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sqlparser.yaml")
	err := os.WriteFile(path, []byte(content), 0o644)
	assert.NoError(t, err)
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	// a missing file yields the default configuration
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, "generic", config.Dialect)
	assert.Equal(t, parser.DefaultRecursionLimit, config.Parser.RecursionLimit)

	d, err := config.ResolveDialect("")
	assert.NoError(t, err)
	assert.Equal(t, "generic", d.Name())
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
dialect: postgres
parser:
  recursion_limit: 64
dialects:
  warehouse:
    base: generic
    features: [ilike, returning]
    reserved: [limit, offset]
    precedence:
      "||": 6
`)

	config, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "postgres", config.Dialect)
	assert.Equal(t, 64, config.Parser.RecursionLimit)

	// the custom dialect takes its map key as name
	d, err := config.ResolveDialect("warehouse")
	assert.NoError(t, err)
	assert.Equal(t, "warehouse", d.Name())
	assert.True(t, d.Supports(tokenizer.FeatureIlike))
	assert.True(t, d.IsReserved(keyword.Limit))

	// built-in names still resolve
	d, err = config.ResolveDialect("sqlite")
	assert.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	// and the default applies for the empty name
	d, err = config.ResolveDialect("")
	assert.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected error
	}{
		{
			name:     "unknown default dialect",
			content:  "dialect: oracle\n",
			expected: dialect.ErrUnknownDialect,
		},
		{
			name: "unknown feature in custom dialect",
			content: `
dialects:
  broken:
    base: generic
    features: [time_travel]
`,
			expected: dialect.ErrUnknownFeature,
		},
		{
			name: "unknown base in custom dialect",
			content: `
dialects:
  broken:
    base: oracle
`,
			expected: dialect.ErrUnknownDialect,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfigValidation))
			assert.True(t, errors.Is(err, tt.expected))
		})
	}

	// strict parsing rejects unknown fields
	_, err := LoadConfig(writeConfig(t, "dialekt: postgres\n"))
	assert.Error(t, err)
}

func TestConfigEnvExpansion(t *testing.T) {
	t.Setenv("SQL_DIALECT", "sqlite")

	config, err := LoadConfig(writeConfig(t, "dialect: ${SQL_DIALECT}\n"))
	assert.NoError(t, err)
	assert.Equal(t, "sqlite", config.Dialect)
}

func TestConfigNewParser(t *testing.T) {
	config := getDefaultConfig()

	p, err := config.NewParser("postgres")
	assert.NoError(t, err)

	statement, err := p.ParseStatement("SELECT id FROM t RETURNING_ALIAS")
	assert.NoError(t, err)
	assert.Equal(t, "SELECT id FROM t AS returning_alias", statement.String())

	_, err = config.NewParser("oracle")
	assert.True(t, errors.Is(err, dialect.ErrUnknownDialect))
}

func TestTopLevelParse(t *testing.T) {
	statements, err := Parse("SELECT 1; RAISE NOTICE 'hi'", "postgres")
	assert.NoError(t, err)
	assert.Equal(t, 2, len(statements))

	statement, err := ParseStatement("SELECT a::int FROM t", "postgres")
	assert.NoError(t, err)
	assert.Equal(t, "SELECT a::INT FROM t", statement.String())

	_, err = ParseStatement("SELECT 1", "oracle")
	assert.True(t, errors.Is(err, dialect.ErrUnknownDialect))
}
