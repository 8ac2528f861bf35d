package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort           = 8000
	DefaultPollIntervalMS = 10000
	DefaultTimeoutMS      = 5000
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
)

// ErrNoConfig is returned when none of DefaultPaths could be read
var ErrNoConfig = errors.New("no configuration file found")

// DefaultPaths are tried in order when a loader is called with an empty path
var DefaultPaths = []string{"config.yml", "config.yaml", "config.toml"}

// LoadAppConfig loads, validates and defaults the application configuration.
// An empty path tries DefaultPaths in order.
func LoadAppConfig(path string) (AppConfig, error) {
	cfg, err := ReadAppConfig(path)
	if err != nil {
		return AppConfig{}, err
	}
	return Finalize(cfg)
}

// ReadAppConfig decodes a configuration file without validating it, so that
// command-line overrides can be merged before Finalize.
func ReadAppConfig(path string) (AppConfig, error) {
	paths := DefaultPaths
	if path != "" {
		paths = []string{path}
	}
	var (
		data []byte
		used string
		err  error
	)
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			used = p
			break
		}
	}
	if used == "" {
		if path != "" {
			return AppConfig{}, fmt.Errorf("read config %s: %w", path, err)
		}
		return AppConfig{}, ErrNoConfig
	}
	cfg, err := Decode(data, filepath.Ext(used))
	if err != nil {
		return AppConfig{}, fmt.Errorf("decode config %s: %w", used, err)
	}
	return cfg, nil
}

// Decode parses configuration bytes. ext selects the decoder: ".toml" uses
// TOML, anything else YAML.
func Decode(data []byte, ext string) (AppConfig, error) {
	var cfg AppConfig
	if strings.EqualFold(ext, ".toml") {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return AppConfig{}, err
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Finalize validates cfg and returns it with defaults applied
func Finalize(cfg AppConfig) (AppConfig, error) {
	if err := Validate(cfg); err != nil {
		return AppConfig{}, err
	}
	ApplyDefaults(&cfg)
	return cfg, nil
}

// Validate checks struct tags on every section
func Validate(cfg AppConfig) error {
	v := validator.New()
	if err := v.Struct(cfg.Server); err != nil {
		return err
	}
	if err := v.Struct(cfg.GTFS); err != nil {
		return err
	}
	if err := v.Struct(cfg.GTFSRT); err != nil {
		return err
	}
	return v.Struct(cfg.Log)
}

// ApplyDefaults fills zero values with defaults
func ApplyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.GTFSRT.PollIntervalMS == 0 {
		cfg.GTFSRT.PollIntervalMS = DefaultPollIntervalMS
	}
	if cfg.GTFSRT.TimeoutMS == 0 {
		cfg.GTFSRT.TimeoutMS = DefaultTimeoutMS
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
