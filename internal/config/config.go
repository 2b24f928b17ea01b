// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	// Timezone is the IANA name of the local zone every transaction
	// timestamp is normalized to.
	Timezone string `mapstructure:"timezone" yaml:"timezone"`

	// DefaultCategory is the sentinel assigned to transactions before
	// classification runs.
	DefaultCategory string `mapstructure:"default_category" yaml:"default_category"`

	// ServiceSignature is appended to every synthesized description.
	ServiceSignature string `mapstructure:"service_signature" yaml:"service_signature"`

	Rules struct {
		// CacheTTLMinutes bounds the age of the compiled rule cache.
		// Zero means the cache never expires.
		CacheTTLMinutes int `mapstructure:"cache_ttl_minutes" yaml:"cache_ttl_minutes"`
		// File is a YAML rule file used when no spreadsheet is configured.
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"rules" yaml:"rules"`

	Sheets struct {
		CredentialsJSON string `mapstructure:"credentials_json" yaml:"-"` // never serialized
		SpreadsheetID   string `mapstructure:"spreadsheet_id" yaml:"spreadsheet_id"`
		Worksheet       string `mapstructure:"worksheet" yaml:"worksheet"`
		RulesWorksheet  string `mapstructure:"rules_worksheet" yaml:"rules_worksheet"`
	} `mapstructure:"sheets" yaml:"sheets"`

	Ledger struct {
		CSVPath string `mapstructure:"csv_path" yaml:"csv_path"`
	} `mapstructure:"ledger" yaml:"ledger"`

	Server struct {
		Addr string `mapstructure:"addr" yaml:"addr"`
	} `mapstructure:"server" yaml:"server"`
}

// Load initializes Viper configuration with hierarchical loading:
// defaults, then an optional config file, then FINMAIL_* environment
// variables.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.finmail")
	v.AddConfigPath(".finmail")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FINMAIL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
		// Missing config file is fine, defaults and env vars apply.
	}

	// The service account key is always taken from an unprefixed variable
	// so the same key can be shared with other tooling.
	if err := v.BindEnv("sheets.credentials_json", "GOOGLE_JSON_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GOOGLE_JSON_KEY environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("timezone", "America/Bogota")
	v.SetDefault("default_category", "Pending Classification")
	v.SetDefault("service_signature", "Logged by finmail")

	v.SetDefault("rules.cache_ttl_minutes", 0)
	v.SetDefault("rules.file", "")

	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.worksheet", "Transactions")
	v.SetDefault("sheets.rules_worksheet", "Rules")

	v.SetDefault("ledger.csv_path", "")

	v.SetDefault("server.addr", ":8080")
}

func validate(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if _, err := time.LoadLocation(config.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", config.Timezone, err)
	}

	if config.DefaultCategory == "" {
		return fmt.Errorf("default_category must not be empty")
	}

	if config.Rules.CacheTTLMinutes < 0 {
		return fmt.Errorf("rules.cache_ttl_minutes must not be negative, got: %d", config.Rules.CacheTTLMinutes)
	}

	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// RuleCacheTTL returns the configured cache TTL as a duration. Zero means
// no expiry.
func (c *Config) RuleCacheTTL() time.Duration {
	return time.Duration(c.Rules.CacheTTLMinutes) * time.Minute
}
