package config

import "time"

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `yaml:"port" toml:"port" validate:"gte=0,lte=65535"`
	// Metrics defaults to true when omitted.
	Metrics *bool `yaml:"metrics" toml:"metrics"`
}

// MetricsEnabled reports whether /metrics is served
func (c ServerConfig) MetricsEnabled() bool {
	return c.Metrics == nil || *c.Metrics
}

// GTFSConfig contains GTFS static schedule configuration.
// Exactly one of StaticURL or DataDir must be set.
type GTFSConfig struct {
	StaticURL string `yaml:"staticURL" toml:"staticURL" validate:"required_without=DataDir"`
	DataDir   string `yaml:"dataDir" toml:"dataDir" validate:"required_without=StaticURL,excluded_with=StaticURL"`
	CachePath string `yaml:"cachePath" toml:"cachePath"`
	Timezone  string `yaml:"timezone" toml:"timezone" validate:"omitempty,timezone"`
}

// GTFSRTConfig contains GTFS-Realtime feed configuration
type GTFSRTConfig struct {
	TripUpdatesURL      string `yaml:"tripUpdatesURL" toml:"tripUpdatesURL" validate:"required"`
	VehiclePositionsURL string `yaml:"vehiclePositionsURL" toml:"vehiclePositionsURL" validate:"required"`
	ServiceAlertsURL    string `yaml:"serviceAlertsURL" toml:"serviceAlertsURL" validate:"required"`
	PollIntervalMS      int    `yaml:"pollIntervalMS" toml:"pollIntervalMS" validate:"gte=0"`
	TimeoutMS           int    `yaml:"timeoutMS" toml:"timeoutMS" validate:"gte=0"`
	ConcurrentFetch     bool   `yaml:"concurrentFetch" toml:"concurrentFetch"`
	// CacheBust defaults to true when omitted.
	CacheBust *bool `yaml:"cacheBust" toml:"cacheBust"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level  string `yaml:"level" toml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format string `yaml:"format" toml:"format" validate:"omitempty,oneof=console json"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server ServerConfig `yaml:"server" toml:"server"`
	GTFS   GTFSConfig   `yaml:"gtfs" toml:"gtfs"`
	GTFSRT GTFSRTConfig `yaml:"gtfsrt" toml:"gtfsrt"`
	Log    LogConfig    `yaml:"log" toml:"log"`
}

// PollInterval returns the configured poll interval as a duration
func (c GTFSRTConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// Timeout returns the configured per-fetch timeout as a duration
func (c GTFSRTConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// CacheBustEnabled reports whether a changing query parameter is appended to feed requests
func (c GTFSRTConfig) CacheBustEnabled() bool {
	return c.CacheBust == nil || *c.CacheBust
}
