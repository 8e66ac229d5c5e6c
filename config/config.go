// Package config loads the benchusb configuration file: transfer defaults
// and named instrument aliases, in TOML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Defaults applied by Load when the file omits a value.
const (
	DefaultTimeoutMS  = 10000
	DefaultReadBuffer = 512
)

// Instrument is a named vendor/product pair.
type Instrument struct {
	Vendor  uint16 `toml:"vendor"`
	Product uint16 `toml:"product"`
}

// Config is the benchusb configuration file.
type Config struct {
	TimeoutMS   int                   `toml:"timeout_ms"`
	ReadBuffer  int                   `toml:"read_buffer"`
	Instruments map[string]Instrument `toml:"instruments"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		TimeoutMS:  DefaultTimeoutMS,
		ReadBuffer: DefaultReadBuffer,
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "benchusb", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "benchusb", "config.toml")
}

// Load reads the file at path, fills defaults, and validates. A missing
// file is not an error: the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.TimeoutMS <= 0 {
		cfg.TimeoutMS = DefaultTimeoutMS
	}
	if cfg.ReadBuffer <= 0 {
		cfg.ReadBuffer = DefaultReadBuffer
	}
	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects instrument aliases with a zero vendor or product ID.
func Validate(cfg Config) error {
	for name, inst := range cfg.Instruments {
		if inst.Vendor == 0 || inst.Product == 0 {
			return fmt.Errorf("instrument %q: vendor and product must be nonzero", name)
		}
	}
	return nil
}

// Lookup resolves an instrument alias.
func (c Config) Lookup(name string) (Instrument, bool) {
	inst, ok := c.Instruments[name]
	return inst, ok
}
