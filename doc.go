// Package departures is a realtime departure board engine for one GTFS
// agency.
//
// An Engine loads the static schedule once, polls the three GTFS-Realtime
// feeds on a fixed interval, and keeps three derived views current for the
// selected route and stop:
//
//   - the next five departures, with delays and cancellations applied
//   - vehicle markers, limited to the selected route
//   - service alerts that carry a real description
//
// Typical use:
//
//	cfg, _ := config.LoadAppConfig("config.yml")
//	engine := departures.New(cfg)
//	if err := engine.Initialize(ctx); err != nil {
//	    log.Fatal().Err(err).Msg("Failed to load static GTFS")
//	}
//	go engine.Run(ctx)
//
//	engine.SelectStop("R1", "S1")
//	board := engine.GetDepartureBoard()
//
// NewServer exposes the engine as a JSON API together with a no-cache proxy
// for the raw feeds and a Prometheus endpoint.
package departures
