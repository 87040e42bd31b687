// Package places is a client for the Algolia Places API.
// It exposes forward place search and reverse geocoding.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	// SearchURL is the Algolia Places search endpoint.
	SearchURL = "https://places-dsn.algolia.net/1/places/query"
	// ReverseURL is the Algolia Places reverse geocoding endpoint.
	ReverseURL = "https://places-dsn.algolia.net/1/places/reverse"

	// DefaultTimeout is the request timeout of the default HTTP client.
	DefaultTimeout = 10 * time.Second

	headerAppID  = "X-Algolia-Application-Id"
	headerAPIKey = "X-Algolia-API-Key"

	opSearch  = "search"
	opReverse = "reverse"
)

// HTTPClient defines the interface for making HTTP requests.
// *http.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Recorder receives one observation per API call. statusCode is 0 when the
// request failed before a response was received.
type Recorder interface {
	ObserveRequest(operation string, statusCode int, elapsed time.Duration)
}

// Client talks to the Algolia Places API. It keeps the credentials, a reusable
// HTTP client and a set of default parameters merged into every call.
//
// A Client is safe for concurrent use.
type Client struct {
	appID      string
	apiKey     string
	client     HTTPClient
	timeout    time.Duration
	searchURL  string
	reverseURL string
	log        *slog.Logger
	recorder   Recorder

	mu       sync.RWMutex
	defaults Params
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. WithTimeout has no effect when it is used.
func WithHTTPClient(hc HTTPClient) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout sets the request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithSearchURL overrides the search endpoint.
func WithSearchURL(u string) Option {
	return func(c *Client) { c.searchURL = u }
}

// WithReverseURL overrides the reverse geocoding endpoint.
func WithReverseURL(u string) Option {
	return func(c *Client) { c.reverseURL = u }
}

// WithLogger sets the logger used for request tracing. The client is silent by default.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithRecorder sets a Recorder that observes every call.
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// NewClient creates a client for the given Algolia application id and API key.
func NewClient(appID, apiKey string, opts ...Option) *Client {
	c := &Client{
		appID:      appID,
		apiKey:     apiKey,
		timeout:    DefaultTimeout,
		searchURL:  SearchURL,
		reverseURL: ReverseURL,
		log:        slog.New(slog.DiscardHandler),
		defaults:   Params{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
	}
	if c.log == nil {
		c.log = slog.New(slog.DiscardHandler)
	}

	return c
}

// Defaults merges params into the default parameter set. Keys already present
// are overwritten.
func (c *Client) Defaults(params Params) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, v := range params {
		c.defaults[k] = v
	}
}

// DefaultParams returns a copy of the current default parameter set.
func (c *Client) DefaultParams() Params {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return merge(c.defaults)
}

// Search looks up places matching query. params take precedence over the
// client defaults; query always wins over a "query" key in either.
func (c *Client) Search(ctx context.Context, query string, params Params) (*Response, error) {
	body := merge(c.DefaultParams(), params, Params{ParamQuery: query})

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search body: %w", err)
	}

	c.log.DebugContext(ctx, "Places search", "query", query, "params", len(body))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.searchURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req, opSearch)
}

// Reverse finds places around lat,lon. Only aroundLatLng, hitsPerPage and
// language are forwarded; other keys from the defaults or params are dropped.
func (c *Client) Reverse(ctx context.Context, lat, lon float64, params Params) (*Response, error) {
	merged := merge(c.DefaultParams(), Params{ParamAroundLatLng: FormatLatLng(lat, lon)}, params)
	query := reverseQuery(merged)

	reqURL, err := url.Parse(c.reverseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reverse URL: %w", err)
	}
	reqURL.RawQuery = query.Encode()

	c.log.DebugContext(ctx, "Places reverse", "url", reqURL.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req, opReverse)
}

func (c *Client) do(req *http.Request, operation string) (*Response, error) {
	ctx := req.Context()

	req.Header.Set(headerAppID, c.appID)
	req.Header.Set(headerAPIKey, c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.observe(operation, 0, start)
		return nil, fmt.Errorf("failed to execute places request: %w", err)
	}
	defer resp.Body.Close()
	c.observe(operation, resp.StatusCode, start)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.log.DebugContext(ctx, "Places API error", "status", resp.StatusCode, "body", string(body))
		return nil, &HTTPError{
			Method:     req.Method,
			URL:        req.URL.Redacted(),
			StatusCode: resp.StatusCode,
			Body:       body,
		}
	}

	return newResponse(body)
}

func (c *Client) observe(operation string, statusCode int, start time.Time) {
	if c.recorder == nil {
		return
	}
	c.recorder.ObserveRequest(operation, statusCode, time.Since(start))
}
