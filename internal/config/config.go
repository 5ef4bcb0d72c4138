// Package config reads zonedbm settings from the environment.
//
// Every setting has a ZONEDBM_ variable and a default. Command-line flags
// override what is loaded here.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, e.g. ZONEDBM_FORMAT.
const Prefix = "zonedbm"

// Config holds process-wide settings.
type Config struct {
	// Format selects text or json output.
	Format string `envconfig:"FORMAT" default:"text"`

	// Verbose enables debug logging.
	Verbose bool `envconfig:"VERBOSE" default:"false"`

	// Parallelism bounds how many scenarios run at once.
	Parallelism int `envconfig:"PARALLELISM" default:"4"`

	// MaxClocks bounds the clocks a single zone may track.
	MaxClocks int `envconfig:"MAX_CLOCKS" default:"64"`

	// MaxSteps bounds the steps in a single run.
	MaxSteps int `envconfig:"MAX_STEPS" default:"10000"`

	// DB is the SQLite run log. Empty disables run logging.
	DB string `envconfig:"DB"`
}

// Load reads the environment and validates the result.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process(Prefix, &c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: format must be 'text' or 'json', got %q", c.Format)
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("config: parallelism must be at least 1, got %d", c.Parallelism)
	}
	if c.MaxClocks < 1 {
		return fmt.Errorf("config: max clocks must be at least 1, got %d", c.MaxClocks)
	}
	if c.MaxSteps < 1 {
		return fmt.Errorf("config: max steps must be at least 1, got %d", c.MaxSteps)
	}
	return nil
}

// Usage prints the recognized variables to stdout.
func Usage() error {
	var c Config
	return envconfig.Usage(Prefix, &c)
}
