package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
server:
  port: 9090
gtfs:
  dataDir: ./data
  timezone: America/Vancouver
gtfsrt:
  tripUpdatesURL: https://example.com/tripupdates.pb
  vehiclePositionsURL: https://example.com/vehicleupdates.pb
  serviceAlertsURL: https://example.com/alerts.pb
  pollIntervalMS: 15000
log:
  level: debug
`

const validTOML = `
[gtfs]
staticURL = "https://example.com/google_transit.zip"

[gtfsrt]
tripUpdatesURL = "https://example.com/tripupdates.pb"
vehiclePositionsURL = "https://example.com/vehicleupdates.pb"
serviceAlertsURL = "https://example.com/alerts.pb"
cacheBust = false
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadAppConfig_YAML(t *testing.T) {
	cfg, err := LoadAppConfig(writeFile(t, "config.yml", validYAML))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Server.MetricsEnabled())
	assert.Equal(t, "./data", cfg.GTFS.DataDir)
	assert.Equal(t, "America/Vancouver", cfg.GTFS.Timezone)
	assert.Equal(t, 15000, cfg.GTFSRT.PollIntervalMS)
	assert.Equal(t, DefaultTimeoutMS, cfg.GTFSRT.TimeoutMS)
	assert.True(t, cfg.GTFSRT.CacheBustEnabled())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
}

func TestLoadAppConfig_TOML(t *testing.T) {
	cfg, err := LoadAppConfig(writeFile(t, "config.toml", validTOML))
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/google_transit.zip", cfg.GTFS.StaticURL)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultPollIntervalMS, cfg.GTFSRT.PollIntervalMS)
	assert.Equal(t, "10s", cfg.GTFSRT.PollInterval().String())
	assert.False(t, cfg.GTFSRT.CacheBustEnabled())
}

func TestLoadAppConfig_MissingFile(t *testing.T) {
	_, err := LoadAppConfig(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestLoadAppConfig_NoDefaultFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer func() { _ = os.Chdir(origDir) }()
	require.NoError(t, os.Chdir(t.TempDir()))

	_, err := LoadAppConfig("")
	require.ErrorIs(t, err, ErrNoConfig)
}

func TestLoadAppConfig_InvalidYAML(t *testing.T) {
	_, err := LoadAppConfig(writeFile(t, "config.yml", "invalid: yaml: content: [[["))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() AppConfig {
		return AppConfig{
			GTFS: GTFSConfig{DataDir: "data"},
			GTFSRT: GTFSRTConfig{
				TripUpdatesURL:      "tu.pb",
				VehiclePositionsURL: "vp.pb",
				ServiceAlertsURL:    "sa.pb",
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{name: "valid", mutate: func(*AppConfig) {}},
		{name: "missing static source", mutate: func(c *AppConfig) { c.GTFS.DataDir = "" }, wantErr: true},
		{name: "both static sources", mutate: func(c *AppConfig) { c.GTFS.StaticURL = "x.zip" }, wantErr: true},
		{name: "missing alerts url", mutate: func(c *AppConfig) { c.GTFSRT.ServiceAlertsURL = "" }, wantErr: true},
		{name: "negative interval", mutate: func(c *AppConfig) { c.GTFSRT.PollIntervalMS = -1 }, wantErr: true},
		{name: "bad timezone", mutate: func(c *AppConfig) { c.GTFS.Timezone = "Mars/Olympus" }, wantErr: true},
		{name: "bad log level", mutate: func(c *AppConfig) { c.Log.Level = "loud" }, wantErr: true},
		{name: "port out of range", mutate: func(c *AppConfig) { c.Server.Port = 70000 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFinalize_AppliesDefaults(t *testing.T) {
	cfg, err := Finalize(AppConfig{
		GTFS: GTFSConfig{StaticURL: "gtfs.zip"},
		GTFSRT: GTFSRTConfig{
			TripUpdatesURL:      "tu.pb",
			VehiclePositionsURL: "vp.pb",
			ServiceAlertsURL:    "sa.pb",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultPollIntervalMS, cfg.GTFSRT.PollIntervalMS)
	assert.Equal(t, DefaultTimeoutMS, cfg.GTFSRT.TimeoutMS)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}
