// Package config loads runtime settings from flags, environment variables,
// and an optional .env file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for pr-stats settings.
const envPrefix = "PRSTATS"

// dotEnvFile is the optional config file read from the working directory.
const dotEnvFile = ".env"

// sinceLayout is the accepted format of the since date.
const sinceLayout = "2006-01-02"

// Config holds every runtime setting of the tool.
type Config struct {
	Repositories []string `mapstructure:"repositories"`
	Since        string   `mapstructure:"since"`
	Limit        int      `mapstructure:"limit"`
	DataDir      string   `mapstructure:"data_dir"`
	Output       string   `mapstructure:"output"`
	IgnoreFile   string   `mapstructure:"ignore_file"`
}

// Load resolves the configuration. Flags win over environment variables,
// which win over the .env file, which wins over defaults. A missing .env
// file is not an error.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("repositories", []string{})
	v.SetDefault("since", "")
	v.SetDefault("limit", 200)
	v.SetDefault("data_dir", "data")
	v.SetDefault("output", "report.md")
	v.SetDefault("ignore_file", "ignore.yaml")

	v.SetConfigFile(dotEnvFile)
	v.SetConfigType("env")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}

	if flags != nil {
		// Flag names use dashes, config keys use underscores; bind each
		// flag to its key explicitly.
		for key, name := range map[string]string{
			"repositories": "repositories",
			"since":        "since",
			"limit":        "limit",
			"data_dir":     "data-dir",
			"output":       "output",
			"ignore_file":  "ignore-file",
		} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// ValidateForFetch checks the settings the fetch step requires.
func (c *Config) ValidateForFetch() error {
	if len(c.Repositories) == 0 {
		return errors.New("at least one repository (owner/name) is required")
	}
	if c.Limit <= 0 {
		return errors.New("limit must be positive")
	}
	if _, err := c.ParseSince(); err != nil {
		return err
	}
	return nil
}

// ParseSince parses the since date; a zero time means "no lower bound".
func (c *Config) ParseSince() (time.Time, error) {
	if c.Since == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(sinceLayout, c.Since)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid since date %q, expected YYYY-MM-DD: %w", c.Since, err)
	}
	return t, nil
}
