package transport

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultEndpoint is the public ASRank GraphQL API.
	DefaultEndpoint = "https://api.asrank.caida.org/v2/graphql"

	defaultRetryMax     = 5
	defaultRetryWaitMin = time.Second
	defaultRetryWaitMax = 30 * time.Second
)

type config struct {
	httpClient   *http.Client
	header       http.Header
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	limit        rate.Limit
	burst        int
}

// Option is a function that sets a value in a config.
type Option func(*config) error

// getOpts creates a config and applies Options to it.
func getOpts(opts []Option) (config, error) {
	cfg := config{
		httpClient:   &http.Client{},
		retryMax:     defaultRetryMax,
		retryWaitMin: defaultRetryWaitMin,
		retryWaitMax: defaultRetryWaitMax,
		limit:        rate.Inf,
	}
	for i, opt := range opts {
		if err := opt(&cfg); err != nil {
			return config{}, fmt.Errorf("option %d failed: %s", i, err)
		}
	}
	return cfg, nil
}

// WithClient allows creation of the http client using an underlying network
// round tripper / client.
func WithClient(c *http.Client) Option {
	return func(cfg *config) error {
		if c != nil {
			cfg.httpClient = c
		}
		return nil
	}
}

// WithHeader adds a header that is sent with every query.
func WithHeader(key, value string) Option {
	return func(cfg *config) error {
		if cfg.header == nil {
			cfg.header = make(http.Header)
		}
		cfg.header.Add(key, value)
		return nil
	}
}

// WithRetry configures retrying of queries that fail with a connection error
// or a transient server error (500, 502, 503, 504). Queries rejected with any
// other status are never retried. Setting max to 0 disables retries.
//
// Default is 5 retries, waiting between 1 and 30 seconds.
func WithRetry(max int, waitMin, waitMax time.Duration) Option {
	return func(cfg *config) error {
		if max < 0 {
			return errors.New("retry max cannot be negative")
		}
		if waitMax < waitMin {
			return errors.New("retry max wait is less than min wait")
		}
		cfg.retryMax = max
		cfg.retryWaitMin = waitMin
		cfg.retryWaitMax = waitMax
		return nil
	}
}

// WithRateLimit limits the rate at which queries are sent to the endpoint.
// Sending a query waits until the limiter allows it.
//
// Default is no limit.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(cfg *config) error {
		if limit <= 0 {
			return errors.New("rate limit must be positive")
		}
		if burst < 1 {
			burst = 1
		}
		cfg.limit = limit
		cfg.burst = burst
		return nil
	}
}
