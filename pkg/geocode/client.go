// Package geocode provides a rate-limited client for free-text address
// lookups against a Nominatim-style geocoding service.
package geocode

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client resolves a free-text query to geographic coordinates.
type Client interface {
	// Lookup geocodes a single free-text query. It returns ErrNoResult
	// when the service responds successfully but finds nothing.
	Lookup(ctx context.Context, query string) (*Location, error)
}

// Location is a resolved position. Coordinates may legitimately be zero;
// presence of the Location itself is what signals success.
type Location struct {
	Latitude    float64
	Longitude   float64
	DisplayName string
}

// ErrNoResult indicates the provider answered but matched no location.
var ErrNoResult = eris.New("geocode: no result")

// IsNoResult reports whether err indicates an empty (but successful) lookup.
func IsNoResult(err error) bool {
	return errors.Is(err, ErrNoResult)
}

// Option configures the client.
type Option func(*client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithMinDelay sets the mandatory delay between the starts of successive
// lookups. The gate is shared across all callers of this client.
func WithMinDelay(d time.Duration) Option {
	return func(c *client) {
		if d > 0 {
			c.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// WithBaseURL overrides the service base URL.
func WithBaseURL(u string) Option {
	return func(c *client) {
		c.baseURL = u
	}
}

// WithUserAgent sets the descriptive client identifier the service requires.
func WithUserAgent(ua string) Option {
	return func(c *client) {
		c.userAgent = ua
	}
}

type client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

// NewClient creates a geocoding Client with the given options. Defaults
// follow the public Nominatim usage policy: one request per second and a
// ten second timeout.
func NewClient(opts ...Option) Client {
	c := &client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://nominatim.openstreetmap.org",
		userAgent:  "medical_providers_panel",
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
