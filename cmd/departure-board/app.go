package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"google.golang.org/protobuf/encoding/protojson"

	departures "github.com/theoremus-urban-solutions/gtfsrt-departures"
	"github.com/theoremus-urban-solutions/gtfsrt-departures/config"
	"github.com/theoremus-urban-solutions/gtfsrt-departures/formatter"
	"github.com/theoremus-urban-solutions/gtfsrt-departures/gtfsrt"
)

func newApp() *cli.App {
	return &cli.App{
		Name:        "departure-board",
		Usage:       "live departures from a GTFS schedule and GTFS-Realtime feeds",
		Flags:       globalFlags(),
		Before:      setupLogging,
		HideVersion: true,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "poll the feeds and serve the HTTP API",
				Action: serve,
			},
			{
				Name:  "board",
				Usage: "poll once and print the departure board for a route and stop",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "route", Usage: "route_id", Required: true},
					&cli.StringFlag{Name: "stop", Usage: "stop_id", Required: true},
				},
				Action: board,
			},
			{
				Name:      "dump",
				Usage:     "fetch one realtime feed and print it as JSON",
				ArgsUsage: "tripupdates|vehicleupdates|alerts",
				Action:    dump,
			},
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML or TOML config file", EnvVars: []string{"DEPARTURES_CONFIG"}},
		&cli.StringFlag{Name: "static-url", Usage: "GTFS zip URL or path", EnvVars: []string{"DEPARTURES_STATIC_URL"}},
		&cli.StringFlag{Name: "data-dir", Usage: "directory of GTFS tables", EnvVars: []string{"DEPARTURES_DATA_DIR"}},
		&cli.StringFlag{Name: "trip-updates", Usage: "TripUpdates feed URL or path", EnvVars: []string{"DEPARTURES_TRIP_UPDATES_URL"}},
		&cli.StringFlag{Name: "vehicle-positions", Usage: "VehiclePositions feed URL or path", EnvVars: []string{"DEPARTURES_VEHICLE_POSITIONS_URL"}},
		&cli.StringFlag{Name: "service-alerts", Usage: "ServiceAlerts feed URL or path", EnvVars: []string{"DEPARTURES_SERVICE_ALERTS_URL"}},
		&cli.IntFlag{Name: "port", Usage: "HTTP port", EnvVars: []string{"DEPARTURES_PORT"}},
		&cli.StringFlag{Name: "log-level", Usage: "trace|debug|info|warn|error", EnvVars: []string{"DEPARTURES_LOG_LEVEL"}},
		&cli.StringFlag{Name: "log-format", Usage: "console|json", EnvVars: []string{"DEPARTURES_LOG_FORMAT"}},
	}
}

// loadConfig reads the config file, if any, and applies flag overrides
func loadConfig(c *cli.Context) (config.AppConfig, error) {
	cfg, err := config.ReadAppConfig(c.String("config"))
	if err != nil && !(errors.Is(err, config.ErrNoConfig) && c.String("config") == "") {
		return config.AppConfig{}, err
	}
	if v := c.String("static-url"); v != "" {
		cfg.GTFS.StaticURL = v
		cfg.GTFS.DataDir = ""
	}
	if v := c.String("data-dir"); v != "" {
		cfg.GTFS.DataDir = v
		cfg.GTFS.StaticURL = ""
	}
	if v := c.String("trip-updates"); v != "" {
		cfg.GTFSRT.TripUpdatesURL = v
	}
	if v := c.String("vehicle-positions"); v != "" {
		cfg.GTFSRT.VehiclePositionsURL = v
	}
	if v := c.String("service-alerts"); v != "" {
		cfg.GTFSRT.ServiceAlertsURL = v
	}
	if c.IsSet("port") {
		cfg.Server.Port = c.Int("port")
	}
	if v := c.String("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v := c.String("log-format"); v != "" {
		cfg.Log.Format = v
	}
	cfg, err = config.Finalize(cfg)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setupLogging(c *cli.Context) error {
	level, format := c.String("log-level"), c.String("log-format")
	if level == "" {
		level = config.DefaultLogLevel
	}
	return departures.InitLogging(level, format)
}

func newEngine(c *cli.Context) (*departures.Engine, config.AppConfig, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, cfg, err
	}
	if err := departures.InitLogging(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, cfg, err
	}
	engine := departures.New(cfg)
	if err := engine.Initialize(c.Context); err != nil {
		return nil, cfg, err
	}
	return engine, cfg, nil
}

func serve(c *cli.Context) error {
	engine, cfg, err := newEngine(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()
	go func() {
		if err := engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("Poller stopped")
		}
	}()

	server := departures.NewServer(engine, cfg.Server.Port)
	server.Start()
	departures.HandleGracefulShutdown(server, cancel)
	return nil
}

func board(c *cli.Context) error {
	engine, _, err := newEngine(c)
	if err != nil {
		return err
	}
	engine.Poll(c.Context)

	routeID, stopID := c.String("route"), c.String("stop")
	if _, ok := engine.Index().GetRoute(routeID); !ok {
		return fmt.Errorf("no such route: %s", routeID)
	}
	if _, ok := engine.Index().GetStop(stopID); !ok {
		return fmt.Errorf("no such stop: %s", stopID)
	}
	engine.SelectStop(routeID, stopID)

	out := c.App.Writer
	fmt.Fprintf(out, "Departures for route %s at stop %s\n", routeID, stopID)
	entries := engine.GetDepartureBoard()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No upcoming departures")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%-12s %s\n", e.TripID, formatter.DepartureText(e))
	}
	return nil
}

func dump(c *cli.Context) error {
	feed := gtfsrt.Feed(strings.ToLower(c.Args().First()))
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	source := map[gtfsrt.Feed]string{
		gtfsrt.FeedTripUpdates:      cfg.GTFSRT.TripUpdatesURL,
		gtfsrt.FeedVehiclePositions: cfg.GTFSRT.VehiclePositionsURL,
		gtfsrt.FeedAlerts:           cfg.GTFSRT.ServiceAlertsURL,
	}
	url, ok := source[feed]
	if !ok {
		return fmt.Errorf("unknown feed %q", feed)
	}

	client := gtfsrt.NewClient(
		gtfsrt.WithTimeout(cfg.GTFSRT.Timeout()),
		gtfsrt.WithCacheBust(cfg.GTFSRT.CacheBustEnabled()),
	)
	ctx, cancel := context.WithTimeout(c.Context, cfg.GTFSRT.Timeout()+time.Second)
	defer cancel()
	data, err := client.Fetch(ctx, feed, url)
	if err != nil {
		return err
	}
	fm, err := gtfsrt.Decode(data)
	if err != nil {
		return err
	}
	text, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(fm)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(text))
	return nil
}
