// Package poller refreshes the realtime feeds on a fixed interval.
//
// Each cycle fetches, decodes and stores the three feeds independently. A
// failing feed is logged and counted, and its previous snapshot stays in the
// store. Cycles never overlap: Run polls from a single goroutine, and Poll
// skips a call made while another cycle is in flight.
package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/theoremus-urban-solutions/gtfsrt-departures/gtfsrt"
	"github.com/theoremus-urban-solutions/gtfsrt-departures/store"
	"github.com/theoremus-urban-solutions/gtfsrt-departures/tracking"
)

// DefaultInterval is the poll period when none is configured
const DefaultInterval = 10 * time.Second

// Fetcher returns the raw bytes of one feed
type Fetcher interface {
	Fetch(ctx context.Context, feed gtfsrt.Feed, urlOrPath string) ([]byte, error)
}

// Sources maps each feed to its URL or file path
type Sources map[gtfsrt.Feed]string

// Hooks are called from the polling goroutine. With concurrent fetching
// OnVehicles and OnAlerts may run concurrently with each other.
type Hooks struct {
	OnTripUpdates func()
	OnVehicles    func()
	OnAlerts      func()
	// OnCycle runs after all three feeds were attempted
	OnCycle func()
}

// Option configures a Poller
type Option func(*Poller)

func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithConcurrentFetch fetches the three feeds in parallel within a cycle
func WithConcurrentFetch(enabled bool) Option {
	return func(p *Poller) { p.concurrent = enabled }
}

func WithTracker(t *tracking.Tracker) Option {
	return func(p *Poller) { p.tracker = t }
}

func WithMetrics(m *gtfsrt.Metrics) Option {
	return func(p *Poller) { p.metrics = m }
}

func WithLogger(l zerolog.Logger) Option {
	return func(p *Poller) { p.log = l }
}

func WithHooks(h Hooks) Option {
	return func(p *Poller) { p.hooks = h }
}

// Poller drives the refresh cycles
type Poller struct {
	fetcher    Fetcher
	store      *store.FeedStore
	sources    Sources
	interval   time.Duration
	concurrent bool
	tracker    *tracking.Tracker
	metrics    *gtfsrt.Metrics
	log        zerolog.Logger
	hooks      Hooks

	inFlight atomic.Bool
	cycles   atomic.Int64
}

func New(fetcher Fetcher, st *store.FeedStore, sources Sources, opts ...Option) *Poller {
	p := &Poller{
		fetcher:  fetcher,
		store:    st,
		sources:  sources,
		interval: DefaultInterval,
		tracker:  tracking.NewTracker(),
		log:      log.Logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Interval returns the configured poll period
func (p *Poller) Interval() time.Duration { return p.interval }

// Tracker returns the feed health tracker
func (p *Poller) Tracker() *tracking.Tracker { return p.tracker }

// Cycles returns the number of completed cycles
func (p *Poller) Cycles() int64 { return p.cycles.Load() }

// Run polls immediately, then every interval, until ctx is done
func (p *Poller) Run(ctx context.Context) error {
	p.Poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !p.Poll(ctx) {
				p.log.Debug().Msg("Skipping tick, previous poll still running")
			}
		}
	}
}

// Poll runs one cycle. It returns false without doing anything if another
// cycle is in flight.
func (p *Poller) Poll(ctx context.Context) bool {
	if !p.inFlight.CompareAndSwap(false, true) {
		return false
	}
	defer p.inFlight.Store(false)

	start := time.Now()
	if p.concurrent {
		wp := pool.New().WithMaxGoroutines(len(gtfsrt.Feeds))
		for _, feed := range gtfsrt.Feeds {
			feed := feed
			wp.Go(func() { p.refresh(ctx, feed) })
		}
		wp.Wait()
	} else {
		for _, feed := range gtfsrt.Feeds {
			p.refresh(ctx, feed)
		}
	}
	if p.hooks.OnCycle != nil {
		p.hooks.OnCycle()
	}
	p.cycles.Add(1)
	p.log.Debug().Dur("elapsed", time.Since(start)).Msg("Poll cycle complete")
	return true
}

var errNoSource = errors.New("no source configured")

// refresh fetches, decodes and stores one feed. Failures leave the store
// untouched.
func (p *Poller) refresh(ctx context.Context, feed gtfsrt.Feed) {
	src := p.sources[feed]
	if src == "" {
		p.fail(feed, gtfsrt.ResultFetchError, errNoSource)
		return
	}
	data, err := p.fetcher.Fetch(ctx, feed, src)
	if err != nil {
		p.fail(feed, gtfsrt.ResultFetchError, err)
		return
	}
	fm, err := gtfsrt.Decode(data)
	if err != nil {
		p.fail(feed, gtfsrt.ResultDecodeError, err)
		return
	}

	var (
		n    int
		hook func()
	)
	switch feed {
	case gtfsrt.FeedTripUpdates:
		updates := gtfsrt.ParseTripUpdates(fm)
		p.store.ReplaceTripUpdates(updates)
		n, hook = len(updates), p.hooks.OnTripUpdates
	case gtfsrt.FeedVehiclePositions:
		vehicles := gtfsrt.ParseVehiclePositions(fm)
		p.store.ReplaceVehiclePositions(vehicles)
		n, hook = len(vehicles), p.hooks.OnVehicles
	case gtfsrt.FeedAlerts:
		alerts := gtfsrt.ParseAlerts(fm)
		p.store.ReplaceAlerts(alerts)
		n, hook = len(alerts), p.hooks.OnAlerts
	}

	p.metrics.RecordResult(feed, gtfsrt.ResultOK)
	p.metrics.SetEntities(feed, n)
	p.tracker.RecordSuccess(feed, n)
	p.log.Debug().Str("feed", string(feed)).Int("entities", n).Int("bytes", len(data)).Msg("Feed refreshed")
	if hook != nil {
		hook()
	}
}

func (p *Poller) fail(feed gtfsrt.Feed, result string, err error) {
	p.metrics.RecordResult(feed, result)
	p.tracker.RecordFailure(feed, err)
	p.log.Error().Err(err).Str("feed", string(feed)).Str("url", p.sources[feed]).Str("result", result).Msg("Failed to refresh feed, keeping previous snapshot")
}
