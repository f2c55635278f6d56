package sqlparser

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/hippiehunter/sqlparser/dialect"
	"github.com/hippiehunter/sqlparser/parser"
	"github.com/hippiehunter/sqlparser/tokenizer"
)

// ErrConfigValidation is returned when configuration validation fails
var ErrConfigValidation = errors.New("configuration validation failed")

// Config represents the sqlparser configuration
type Config struct {
	// Dialect is the default dialect name used when none is requested
	// explicitly. Built-in names and keys of Dialects are both valid.
	Dialect string `yaml:"dialect"`

	// Dialects declares custom dialects derived from a built-in base.
	Dialects map[string]dialect.Options `yaml:"dialects"`

	Parser ParserConfig `yaml:"parser"`
}

// ParserConfig represents parser tuning settings
type ParserConfig struct {
	RecursionLimit int `yaml:"recursion_limit"`
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	// Return default configuration if the file doesn't exist
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML with strict mode to detect unknown fields
	var config Config

	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)
	expandConfigEnvVars(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}

	return &config, nil
}

func getDefaultConfig() *Config {
	return &Config{
		Dialect: "generic",
		Parser: ParserConfig{
			RecursionLimit: parser.DefaultRecursionLimit,
		},
	}
}

func applyDefaults(config *Config) {
	if config.Dialect == "" {
		config.Dialect = "generic"
	}
	if config.Parser.RecursionLimit == 0 {
		config.Parser.RecursionLimit = parser.DefaultRecursionLimit
	}

	// A custom dialect is named by its map key unless it names itself.
	for name, opts := range config.Dialects {
		if opts.Name == "" {
			opts.Name = name
			config.Dialects[name] = opts
		}
	}
}

func validateConfig(config *Config) error {
	if config.Parser.RecursionLimit < 0 {
		return fmt.Errorf("parser.recursion_limit must not be negative, got %d", config.Parser.RecursionLimit)
	}

	// Building each custom dialect surfaces unknown bases, features and
	// keywords at load time instead of first use.
	for name, opts := range config.Dialects {
		if _, err := dialect.New(opts); err != nil {
			return fmt.Errorf("dialect %q: %w", name, err)
		}
	}

	if _, ok := config.Dialects[config.Dialect]; ok {
		return nil
	}
	if _, err := dialect.FromName(config.Dialect); err != nil {
		return fmt.Errorf("default dialect: %w", err)
	}
	return nil
}

// ResolveDialect returns the dialect for name, checking custom dialects
// before the built-in ones. An empty name means the configured default.
func (c *Config) ResolveDialect(name string) (tokenizer.Dialect, error) {
	if name == "" {
		name = c.Dialect
	}
	if opts, ok := c.Dialects[name]; ok {
		return dialect.New(opts)
	}
	return dialect.FromName(name)
}

// NewParser builds a parser for the named dialect with the configured
// limits applied.
func (c *Config) NewParser(dialectName string) (*parser.Parser, error) {
	d, err := c.ResolveDialect(dialectName)
	if err != nil {
		return nil, err
	}
	return parser.NewParser(d, parser.Options{RecursionLimit: c.Parser.RecursionLimit}), nil
}

func loadEnvFiles() error {
	// Try to load .env file from current directory
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	re1 := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re1.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		return os.Getenv(varName)
	})

	return s
}

func expandConfigEnvVars(config *Config) {
	config.Dialect = expandEnvVars(config.Dialect)
	for name, opts := range config.Dialects {
		opts.Base = expandEnvVars(opts.Base)
		config.Dialects[name] = opts
	}
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
