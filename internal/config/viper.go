// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"fjacquet/ledger-import/internal/delimiter"
	"fjacquet/ledger-import/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Store struct {
		Driver   string `mapstructure:"driver" yaml:"driver"`
		Path     string `mapstructure:"path" yaml:"path"`
		DSN      string `mapstructure:"dsn" yaml:"-"` // Never serialize credentials
		MaxConns int    `mapstructure:"max_conns" yaml:"max_conns"`
	} `mapstructure:"store" yaml:"store"`

	Import struct {
		PreviewRows            int      `mapstructure:"preview_rows" yaml:"preview_rows"`
		PlaceholderDescription string   `mapstructure:"placeholder_description" yaml:"placeholder_description"`
		DescriptionPrefixLen   int      `mapstructure:"description_prefix_len" yaml:"description_prefix_len"`
		KeywordsFile           string   `mapstructure:"keywords_file" yaml:"keywords_file"`
		Delimiters             []string `mapstructure:"delimiters" yaml:"delimiters"`
	} `mapstructure:"import" yaml:"import"`

	Rules struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"rules" yaml:"rules"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.ledger-import")
	v.AddConfigPath(".ledger-import")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("LEDGER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// 5. The database URL is also accepted from the conventional variable
	if err := v.BindEnv("store.dsn", "LEDGER_STORE_DSN", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind store DSN environment variables: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Store defaults
	v.SetDefault("store.driver", DriverFile)
	v.SetDefault("store.path", "ledger.json")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.max_conns", 4)

	// Import defaults
	v.SetDefault("import.preview_rows", 10)
	v.SetDefault("import.placeholder_description", "Transaction importée")
	v.SetDefault("import.description_prefix_len", 20)
	v.SetDefault("import.keywords_file", "")
	v.SetDefault("import.delimiters", []string{",", ";", "tab", "|"})

	// Rules defaults
	v.SetDefault("rules.file", "")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	// Validate store
	switch config.Store.Driver {
	case DriverMemory:
	case DriverFile:
		if config.Store.Path == "" {
			return fmt.Errorf("store.path is required for the file driver")
		}
	case DriverPostgres:
		if config.Store.DSN == "" {
			return fmt.Errorf("store.dsn (or DATABASE_URL) is required for the postgres driver")
		}
	default:
		return fmt.Errorf("invalid store driver: %s (must be 'memory', 'file' or 'postgres')", config.Store.Driver)
	}
	if config.Store.MaxConns < 1 || config.Store.MaxConns > 100 {
		return fmt.Errorf("store.max_conns must be between 1 and 100, got: %d", config.Store.MaxConns)
	}

	// Validate import settings
	if config.Import.PreviewRows < 1 {
		return fmt.Errorf("import.preview_rows must be positive, got: %d", config.Import.PreviewRows)
	}
	if config.Import.DescriptionPrefixLen < 1 {
		return fmt.Errorf("import.description_prefix_len must be positive, got: %d", config.Import.DescriptionPrefixLen)
	}
	if strings.TrimSpace(config.Import.PlaceholderDescription) == "" {
		return fmt.Errorf("import.placeholder_description must not be empty")
	}
	if _, err := config.DelimiterCandidates(); err != nil {
		return err
	}

	return nil
}

// DelimiterCandidates returns the configured delimiter candidates in priority order.
func (c *Config) DelimiterCandidates() ([]rune, error) {
	if len(c.Import.Delimiters) == 0 {
		return delimiter.Default().Candidates, nil
	}
	out := make([]rune, 0, len(c.Import.Delimiters))
	for _, s := range c.Import.Delimiters {
		r, ok := delimiter.Parse(s)
		if !ok || r == 0 {
			return nil, fmt.Errorf("import.delimiters: invalid delimiter %q", s)
		}
		out = append(out, r)
	}
	return out, nil
}

// ConfigureLoggingFromConfig builds the logrus logger described by the log section.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	return logging.NewLogrus(config.Log.Level, config.Log.Format)
}
