// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/osa030/speedreader/internal/app/pacing"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envPrefix:"SPEEDREADER_SERVER_"`
	Reader   ReaderConfig   `yaml:"reader" envPrefix:"SPEEDREADER_READER_"`
	Playback PlaybackConfig `yaml:"playback" envPrefix:"SPEEDREADER_PLAYBACK_"`
	Auth     AuthConfig     `yaml:"auth" envPrefix:"SPEEDREADER_AUTH_"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr  string      `yaml:"addr" env:"ADDR" default:":8080" validate:"required"`
	Hooks HooksConfig `yaml:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// ReaderConfig represents reading pace configuration.
type ReaderConfig struct {
	InitialRate   int      `yaml:"initial_rate" env:"INITIAL_RATE" default:"500" validate:"gte=50,lte=1500"`
	Abbreviations []string `yaml:"abbreviations" env:"ABBREVIATIONS" envSeparator:","`
	Preload       string   `yaml:"preload" env:"PRELOAD"`
	PreloadTitle  string   `yaml:"preload_title" env:"PRELOAD_TITLE"`
}

// PlaybackConfig represents playback scheduler configuration.
type PlaybackConfig struct {
	EventBuffer int `yaml:"event_buffer" env:"EVENT_BUFFER" default:"64" validate:"gte=1,lte=4096"`
}

// AuthConfig represents control API authentication.
type AuthConfig struct {
	Token string `yaml:"token" env:"TOKEN"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	return Parse(data)
}

// Parse parses configuration from YAML data, applies environment overrides
// and defaults, and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse environment")
	}

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// Default returns the configuration used when no file is given:
// defaults with environment overrides applied.
func Default() (*Config, error) {
	return Parse(nil)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	if c.Reader.InitialRate%pacing.RateStep != 0 {
		return errors.Newf("initial_rate (%d) must be a multiple of %d", c.Reader.InitialRate, pacing.RateStep)
	}

	return nil
}

// AbbreviationList returns the configured abbreviations, or nil to select the defaults.
func (c *Config) AbbreviationList() []string {
	if len(c.Reader.Abbreviations) == 0 {
		return nil
	}
	return c.Reader.Abbreviations
}

// IsAuthEnabled returns true if control requests require a token.
func (c *Config) IsAuthEnabled() bool {
	return c.Auth.Token != ""
}
