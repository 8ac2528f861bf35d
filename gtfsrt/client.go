package gtfsrt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrUnexpectedStatus matches any *StatusError via errors.Is
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// StatusError is returned when a feed endpoint answers with a non-200 status
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

func (e *StatusError) Is(target error) bool { return target == ErrUnexpectedStatus }

// ClientOption configures a Client
type ClientOption func(*Client)

// WithTimeout bounds each HTTP request
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithCacheBust toggles the t=<unix millis> query parameter
func WithCacheBust(enabled bool) ClientOption {
	return func(c *Client) { c.cacheBust = enabled }
}

// WithMetrics records fetch timings and byte counts
func WithMetrics(m *Metrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithClock overrides the time source used for cache-busting
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) { c.now = now }
}

// Client fetches GTFS-RT feeds from URLs or local files
type Client struct {
	httpClient *http.Client
	cacheBust  bool
	metrics    *Metrics
	now        func() time.Time
}

// NewClient creates a new GTFS-RT client. Cache-busting is on by default.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		cacheBust:  true,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the raw feed bytes from an http(s) URL or a local file path.
// Returns nil if urlOrPath is empty.
func (c *Client) Fetch(ctx context.Context, feed Feed, urlOrPath string) ([]byte, error) {
	if urlOrPath == "" {
		return nil, nil
	}
	if !isHTTP(urlOrPath) {
		return os.ReadFile(urlOrPath)
	}

	target := urlOrPath
	if c.cacheBust {
		target = CacheBust(urlOrPath, c.now())
	}
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", urlOrPath, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: urlOrPath}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body from %s: %w", urlOrPath, err)
	}
	c.metrics.observeFetch(feed, time.Since(start), len(body))
	return body, nil
}

// CacheBust appends t=<unix millis> to rawURL, keeping existing parameters
func CacheBust(rawURL string, now time.Time) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(now.UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}

func isHTTP(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
