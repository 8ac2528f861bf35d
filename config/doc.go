// Package config handles application configuration loading and validation.
//
// Configuration is loaded from a YAML (config.yml) or TOML (config.toml) file
// and validated using struct tags. Defaults are applied after validation.
package config
