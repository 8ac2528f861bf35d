package tracking

import (
	"sort"
	"sync"
	"time"

	"github.com/theoremus-urban-solutions/gtfsrt-departures/gtfsrt"
)

// FeedHealth is the refresh state of one feed
type FeedHealth struct {
	Feed                gtfsrt.Feed `json:"feed"`
	LastAttempt         time.Time   `json:"lastAttempt"`
	LastSuccess         time.Time   `json:"lastSuccess"`
	LastError           string      `json:"lastError,omitempty"`
	ConsecutiveFailures int         `json:"consecutiveFailures"`
	Entities            int         `json:"entities"`
}

// Healthy reports whether the last attempt succeeded
func (h FeedHealth) Healthy() bool {
	return !h.LastSuccess.IsZero() && h.ConsecutiveFailures == 0
}

// Stale reports whether the last success is older than maxAge at now
func (h FeedHealth) Stale(now time.Time, maxAge time.Duration) bool {
	return h.LastSuccess.IsZero() || now.Sub(h.LastSuccess) > maxAge
}

// Tracker is safe for concurrent use
type Tracker struct {
	mu    sync.Mutex
	feeds map[gtfsrt.Feed]*FeedHealth
	now   func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{feeds: map[gtfsrt.Feed]*FeedHealth{}, now: time.Now}
}

func (t *Tracker) entry(feed gtfsrt.Feed) *FeedHealth {
	h := t.feeds[feed]
	if h == nil {
		h = &FeedHealth{Feed: feed}
		t.feeds[feed] = h
	}
	return h
}

// RecordSuccess marks feed refreshed with n entities
func (t *Tracker) RecordSuccess(feed gtfsrt.Feed, n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	h := t.entry(feed)
	now := t.now()
	h.LastAttempt = now
	h.LastSuccess = now
	h.LastError = ""
	h.ConsecutiveFailures = 0
	h.Entities = n
}

// RecordFailure keeps the previous success and entity count
func (t *Tracker) RecordFailure(feed gtfsrt.Feed, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	h := t.entry(feed)
	h.LastAttempt = t.now()
	if err != nil {
		h.LastError = err.Error()
	}
	h.ConsecutiveFailures++
}

// Status returns the health of feed; the zero value if never attempted
func (t *Tracker) Status(feed gtfsrt.Feed) FeedHealth {
	t.mu.Lock()
	defer t.mu.Unlock()
	if h := t.feeds[feed]; h != nil {
		return *h
	}
	return FeedHealth{Feed: feed}
}

// All returns every attempted feed, ordered by name
func (t *Tracker) All() []FeedHealth {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]FeedHealth, 0, len(t.feeds))
	for _, h := range t.feeds {
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Feed < out[j].Feed })
	return out
}
