package trim

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/randalmurphal/tracetrim/width"
)

// Defaults match the nestest reference trace, whose first 73 columns cover
// the address, opcode bytes, disassembly and CPU registers.
const (
	DefaultMaxWidth    = 73
	DefaultSource      = "nestest.log"
	DefaultDestination = "modifiedtest.log"
)

// EnvPrefix prefixes every environment variable read by LoadFromEnv.
const EnvPrefix = "TRACETRIM_"

// Config holds the settings for one trim run.
type Config struct {
	// MaxWidth is the maximum width kept per line. Must be > 0.
	MaxWidth int `json:"max_width" yaml:"max_width" toml:"max_width" jsonschema:"minimum=1,default=73,description=Maximum width kept per line"`

	// Source is the input log path.
	Source string `json:"source" yaml:"source" toml:"source" jsonschema:"minLength=1,default=nestest.log,description=Input log path"`

	// Destination is the output log path. Created if absent and overwritten if present.
	Destination string `json:"destination" yaml:"destination" toml:"destination" jsonschema:"minLength=1,default=modifiedtest.log,description=Output log path"`

	// Unit selects how width is counted: "runes" (default) or "bytes".
	Unit string `json:"unit,omitempty" yaml:"unit,omitempty" toml:"unit,omitempty" jsonschema:"enum=runes,enum=bytes,default=runes,description=Width unit"`

	// Atomic writes to a temporary file and renames it over Destination on success.
	// Default: true.
	Atomic bool `json:"atomic" yaml:"atomic" toml:"atomic" jsonschema:"default=true,description=Write via temp file and rename"`
}

// DefaultConfig returns a Config with the nestest defaults.
func DefaultConfig() Config {
	return Config{
		MaxWidth:    DefaultMaxWidth,
		Source:      DefaultSource,
		Destination: DefaultDestination,
		Unit:        string(width.Runes),
		Atomic:      true,
	}
}

// LoadFromEnv populates config fields from environment variables.
// Environment variables use the TRACETRIM_ prefix and take precedence over existing values.
//
// Supported variables:
//   - TRACETRIM_MAX_WIDTH: Maximum width per line
//   - TRACETRIM_SOURCE: Input log path
//   - TRACETRIM_DESTINATION: Output log path
//   - TRACETRIM_UNIT: Width unit ("runes" or "bytes")
//   - TRACETRIM_ATOMIC: Atomic writes ("true"/"false")
//
// Unparseable numeric or boolean values are reported as ErrInvalidConfiguration.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv(EnvPrefix + "MAX_WIDTH"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return newError("load", EnvPrefix+"MAX_WIDTH", ErrInvalidConfiguration, err)
		}
		c.MaxWidth = n
	}
	if v := os.Getenv(EnvPrefix + "SOURCE"); v != "" {
		c.Source = v
	}
	if v := os.Getenv(EnvPrefix + "DESTINATION"); v != "" {
		c.Destination = v
	}
	if v := os.Getenv(EnvPrefix + "UNIT"); v != "" {
		c.Unit = v
	}
	if v := os.Getenv(EnvPrefix + "ATOMIC"); v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return newError("load", EnvPrefix+"ATOMIC", ErrInvalidConfiguration, err)
		}
		c.Atomic = b
	}
	return nil
}

// FromEnv creates a Config from environment variables with defaults.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()
	err := cfg.LoadFromEnv()
	return cfg, err
}

// Validate checks if the configuration is valid. All failures match
// ErrInvalidConfiguration.
func (c *Config) Validate() error {
	if c.MaxWidth <= 0 {
		return invalidConfig("max_width must be > 0, got %d", c.MaxWidth)
	}
	if strings.TrimSpace(c.Source) == "" {
		return invalidConfig("source is required")
	}
	if strings.TrimSpace(c.Destination) == "" {
		return invalidConfig("destination is required")
	}
	if _, err := width.Parse(c.Unit); err != nil {
		return invalidConfig("%v", err)
	}
	// Without a temp file the source would be truncated before it is read.
	if !c.Atomic && SamePath(c.Source, c.Destination) {
		return invalidConfig("source and destination are the same file; enable atomic writes to trim in place")
	}
	return nil
}

// Counter returns the width counter for the configured unit.
// Call Validate first; an unknown unit falls back to runes.
func (c Config) Counter() width.Counter {
	counter, err := width.Parse(c.Unit)
	if err != nil {
		return width.Default()
	}
	return counter
}

// WithMaxWidth returns a copy of the config with the specified width.
func (c Config) WithMaxWidth(n int) Config {
	c.MaxWidth = n
	return c
}

// WithSource returns a copy of the config with the specified source path.
func (c Config) WithSource(path string) Config {
	c.Source = path
	return c
}

// WithDestination returns a copy of the config with the specified destination path.
func (c Config) WithDestination(path string) Config {
	c.Destination = path
	return c
}

// WithUnit returns a copy of the config with the specified width unit.
func (c Config) WithUnit(unit width.Unit) Config {
	c.Unit = string(unit)
	return c
}

// WithAtomic returns a copy of the config with atomic writes toggled.
func (c Config) WithAtomic(atomic bool) Config {
	c.Atomic = atomic
	return c
}

// SamePath reports whether a and b name the same file, either by path or,
// when both exist, through a symlink or hard link.
func SamePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	if absA == absB {
		return true
	}
	infoA, errA := os.Stat(absA)
	infoB, errB := os.Stat(absB)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}
