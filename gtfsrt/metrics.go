package gtfsrt

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result labels for departures_feed_fetch_total
const (
	ResultOK          = "ok"
	ResultFetchError  = "fetch_error"
	ResultDecodeError = "decode_error"
)

// Metrics holds the per-feed collectors. A nil *Metrics records nothing.
type Metrics struct {
	FetchTotal   *prometheus.CounterVec
	FetchSeconds *prometheus.HistogramVec
	BytesTotal   *prometheus.CounterVec
	Entities     *prometheus.GaugeVec
}

func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		FetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "departures_feed_fetch_total",
				Help: "Realtime feed refresh attempts by outcome",
			},
			[]string{"feed", "result"},
		),
		FetchSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "departures_feed_fetch_seconds",
				Help:    "Time to fetch a realtime feed body",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"feed"},
		),
		BytesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "departures_feed_bytes_total",
				Help: "Bytes downloaded per realtime feed",
			},
			[]string{"feed"},
		),
		Entities: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "departures_feed_entities",
				Help: "Entities held in the feed store after the last successful refresh",
			},
			[]string{"feed"},
		),
	}
	registry.MustRegister(m.FetchTotal, m.FetchSeconds, m.BytesTotal, m.Entities)
	return m
}

func (m *Metrics) observeFetch(feed Feed, elapsed time.Duration, n int) {
	if m == nil {
		return
	}
	m.FetchSeconds.WithLabelValues(string(feed)).Observe(elapsed.Seconds())
	m.BytesTotal.WithLabelValues(string(feed)).Add(float64(n))
}

// RecordResult counts one refresh attempt of feed
func (m *Metrics) RecordResult(feed Feed, result string) {
	if m == nil {
		return
	}
	m.FetchTotal.WithLabelValues(string(feed), result).Inc()
}

// SetEntities sets the entity gauge for feed
func (m *Metrics) SetEntities(feed Feed, n int) {
	if m == nil {
		return
	}
	m.Entities.WithLabelValues(string(feed)).Set(float64(n))
}
