package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	appenv "github.com/ostafen/chkrecover/internal/env"
)

// Config represents the optional chkrecover configuration file.
type Config struct {
	Recover RecoverConfig `toml:"recover"`
}

// RecoverConfig holds defaults for the recover command. Nil fields are
// unset and leave the flag default alone.
type RecoverConfig struct {
	GroupByYear *bool    `toml:"group_by_year" env:"CHKRECOVER_GROUP_BY_YEAR"`
	Dedupe      *bool    `toml:"dedupe"        env:"CHKRECOVER_DEDUPE"`
	OnlyCHK     *bool    `toml:"only_chk"      env:"CHKRECOVER_ONLY_CHK"`
	MinSize     *string  `toml:"min_size"      env:"CHKRECOVER_MIN_SIZE"`
	MaxSize     *string  `toml:"max_size"      env:"CHKRECOVER_MAX_SIZE"`
	LogLevel    *string  `toml:"log_level"     env:"CHKRECOVER_LOG_LEVEL"`
	Quiet       *bool    `toml:"quiet"         env:"CHKRECOVER_QUIET"`
	Signatures  []string `toml:"signatures"    env:"CHKRECOVER_SIGNATURES" envSeparator:","`
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appenv.AppName, "config.toml")
}

// Load reads the config file from the XDG path, then applies environment
// overrides. A missing file is not an error.
func Load() (Config, error) {
	cfg, err := LoadFile(Path())
	if err != nil {
		return Config{}, err
	}

	if err := ParseEnv(&cfg.Recover); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile decodes the config file at path. Returns a zero Config (no error)
// if the file does not exist.
func LoadFile(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}

	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
