// Package google provides clients for the Google Maps Platform APIs used by
// the highlights pipeline: Distance Matrix and Places Text Search.
package google

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultMatrixBaseURL = "https://maps.googleapis.com/maps/api/distancematrix/json"
	defaultPlacesBaseURL = "https://maps.googleapis.com/maps/api/place/textsearch/json"
)

// LatLng is a coordinate pair in decimal degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Client calls the Google Maps Platform. A client constructed without an API
// key reports Available() == false and callers are expected to skip it.
type Client struct {
	apiKey        string
	matrixBaseURL string
	placesBaseURL string
	http          *http.Client
	limiter       *rate.Limiter
}

// Option configures the client.
type Option func(*Client)

// WithMatrixBaseURL overrides the Distance Matrix endpoint.
func WithMatrixBaseURL(url string) Option {
	return func(c *Client) {
		c.matrixBaseURL = url
	}
}

// WithPlacesBaseURL overrides the Places Text Search endpoint.
func WithPlacesBaseURL(url string) Option {
	return func(c *Client) {
		c.placesBaseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout overrides the request timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit overrides the default request rate limit.
func WithRateLimit(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewClient creates a Google Maps client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:        apiKey,
		matrixBaseURL: defaultMatrixBaseURL,
		placesBaseURL: defaultPlacesBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(10, 10),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Available reports whether the client has a credential.
func (c *Client) Available() bool {
	return c.apiKey != ""
}
