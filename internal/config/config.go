// Package config handles loading and validating run configuration.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// Defaults for run configuration.
const (
	DefaultOutput        = "output/merged.pdf"
	DefaultSentences     = 3
	DefaultSummaryLength = 300
	DefaultMaxChars      = 20000
)

// Config is a validated run configuration. The pipeline consumes it as-is
// and never parses flags or files itself.
type Config struct {
	// Input is the directory to scan for source PDFs.
	Input string `mapstructure:"input"`

	// Output is the combined PDF path. A bare filename is placed under
	// the "output" directory.
	Output string `mapstructure:"output"`

	// Recursive walks subdirectories of Input.
	Recursive bool `mapstructure:"recursive"`

	// Sentences is the target summary sentence count.
	Sentences int `mapstructure:"sentences"`

	// SummaryLength bounds the truncation fallback, in characters.
	SummaryLength int `mapstructure:"summary_length"`

	// MaxChars bounds how much text per document is fed to the summarizer.
	MaxChars int `mapstructure:"max_chars"`

	// DetectLanguage enables the real language detector; when false the
	// default tokenizer is always used.
	DetectLanguage bool `mapstructure:"detect_language"`

	// Verbose enables debug logging.
	Verbose bool `mapstructure:"verbose"`
}

// Load reads configuration from defaults, an optional config file and
// BINDERY_-prefixed environment variables.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("input", "")
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("recursive", false)
	v.SetDefault("sentences", DefaultSentences)
	v.SetDefault("summary_length", DefaultSummaryLength)
	v.SetDefault("max_chars", DefaultMaxChars)
	v.SetDefault("detect_language", true)

	v.SetEnvPrefix("BINDERY")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.bindery")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.normalizeOutput()
	return &cfg, nil
}

// normalizeOutput places bare output filenames under the output directory.
func (c *Config) normalizeOutput() {
	if c.Output != "" && filepath.Dir(c.Output) == "." {
		c.Output = filepath.Join("output", c.Output)
	}
}

// Validate checks that the configuration is usable for a run.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.New("input directory is required")
	}
	if c.Output == "" {
		return errors.New("output path is required")
	}
	if c.Sentences < 1 {
		return fmt.Errorf("sentences must be at least 1, got %d", c.Sentences)
	}
	if c.SummaryLength < 1 {
		return fmt.Errorf("summary_length must be at least 1, got %d", c.SummaryLength)
	}
	if c.MaxChars < c.SummaryLength {
		return fmt.Errorf("max_chars (%d) must not be smaller than summary_length (%d)",
			c.MaxChars, c.SummaryLength)
	}
	return nil
}
