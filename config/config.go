// Package config loads shim configuration from TOML or YAML files.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	gptshim "github.com/wippyai/gpt-shim"
	"github.com/wippyai/gpt-shim/errors"
	"github.com/wippyai/gpt-shim/mangle"
	"github.com/wippyai/gpt-shim/platform"
)

// Config is the complete shim configuration.
type Config struct {
	Bridge   BridgeConfig   `toml:"bridge" yaml:"bridge"`
	Engine   EngineConfig   `toml:"engine" yaml:"engine"`
	Platform PlatformConfig `toml:"platform" yaml:"platform"`
	Log      LogConfig      `toml:"log" yaml:"log"`
}

// BridgeConfig controls the exported routine set.
type BridgeConfig struct {
	// Module is the import module name callers link against.
	Module string `toml:"module" yaml:"module"`
	// Scheme overrides the scheme derived from the platform descriptor.
	Scheme   string `toml:"scheme" yaml:"scheme"`
	MaxChars int    `toml:"max_chars" yaml:"max_chars"`
}

// EngineConfig controls the wasm engine.
type EngineConfig struct {
	// MemoryLimitPages caps guest memory in 64KB pages. 0 means no cap.
	MemoryLimitPages uint32 `toml:"memory_limit_pages" yaml:"memory_limit_pages"`
}

// PlatformConfig selects the capability descriptor.
type PlatformConfig struct {
	// Preset is "detect" or "linux_gnupgf90".
	Preset       string                 `toml:"preset" yaml:"preset"`
	Capabilities *platform.Capabilities `toml:"capabilities" yaml:"capabilities"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Bridge: BridgeConfig{
			Module:   "env",
			MaxChars: gptshim.DefaultMaxChars,
		},
		Platform: PlatformConfig{
			Preset: "detect",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. The format is chosen by file extension.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := loadFromFile(&cfg, path); err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv returns the defaults with environment overrides applied.
func FromEnv() (Config, error) {
	cfg := Default()
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "read "+path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parse "+path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parse "+path)
		}
	default:
		return errors.Unsupported(errors.PhaseConfig, "config format "+filepath.Ext(path))
	}
	return nil
}

// applyEnvOverrides applies GPTSHIM_* environment variables
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GPTSHIM_MODULE"); v != "" {
		cfg.Bridge.Module = v
	}
	if v := os.Getenv("GPTSHIM_SCHEME"); v != "" {
		cfg.Bridge.Scheme = v
	}
	if v := os.Getenv("GPTSHIM_MAX_CHARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Bridge.MaxChars = n
		}
	}
	if v := os.Getenv("GPTSHIM_PLATFORM"); v != "" {
		cfg.Platform.Preset = v
	}
	if v := os.Getenv("GPTSHIM_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("GPTSHIM_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Bridge.Module == "" {
		return errors.Config("bridge.module", "must not be empty")
	}
	if c.Bridge.MaxChars <= 0 {
		return errors.Config("bridge.max_chars", "must be positive, got %d", c.Bridge.MaxChars)
	}
	if _, err := mangle.ParseScheme(c.Bridge.Scheme); err != nil {
		return errors.Config("bridge.scheme", "%v", err)
	}
	caps, err := c.Capabilities()
	if err != nil {
		return err
	}
	if err := caps.Validate(); err != nil {
		return err
	}
	if _, err := c.Log.zapLevel(); err != nil {
		return errors.Config("log.level", "%v", err)
	}
	return nil
}

// Capabilities resolves the platform descriptor.
func (c Config) Capabilities() (platform.Capabilities, error) {
	if c.Platform.Capabilities != nil {
		return *c.Platform.Capabilities, nil
	}
	switch strings.ToLower(c.Platform.Preset) {
	case "", "detect":
		return platform.Detect(), nil
	case "linux_gnupgf90":
		return platform.LinuxGNUPGF90(), nil
	}
	return platform.Capabilities{}, errors.Config("platform.preset", "unknown preset %q", c.Platform.Preset)
}

// Scheme resolves the decoration scheme: an explicit bridge.scheme wins,
// otherwise the platform descriptor decides.
func (c Config) Scheme() (mangle.Scheme, error) {
	if c.Bridge.Scheme != "" {
		return mangle.ParseScheme(c.Bridge.Scheme)
	}
	caps, err := c.Capabilities()
	if err != nil {
		return mangle.SchemeNone, err
	}
	return caps.Scheme(), nil
}
