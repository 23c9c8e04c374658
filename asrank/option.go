package asrank

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/digizeph/go-asrank/transport"
	"golang.org/x/time/rate"
)

// DefaultChunkSize is the maximum number of ASNs requested in one query.
const DefaultChunkSize = 100

type config struct {
	chunkSize     int
	endpoint      string
	sender        transport.Sender
	target        time.Time
	transportOpts []transport.Option
}

// Option is a function that sets a value in a config.
type Option func(*config) error

// getOpts creates a config and applies Options to it.
func getOpts(opts []Option) (config, error) {
	cfg := config{
		chunkSize: DefaultChunkSize,
		endpoint:  transport.DefaultEndpoint,
	}
	for i, opt := range opts {
		if err := opt(&cfg); err != nil {
			return config{}, fmt.Errorf("option %d failed: %s", i, err)
		}
	}
	if cfg.target.IsZero() {
		cfg.target = time.Now()
	}
	return cfg, nil
}

// WithChunkSize sets the maximum number of ASNs fetched by a single query
// when filling the cache.
//
// Default is 100.
func WithChunkSize(size int) Option {
	return func(cfg *config) error {
		if size < 1 {
			return errors.New("chunk size must be positive")
		}
		cfg.chunkSize = size
		return nil
	}
}

// WithEndpoint sets the URL of the ASRank GraphQL API. Ignored if WithSender
// is used.
func WithEndpoint(url string) Option {
	return func(cfg *config) error {
		cfg.endpoint = url
		return nil
	}
}

// WithHTTPClient sets the http client used to reach the endpoint. Ignored if
// WithSender is used.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *config) error {
		cfg.transportOpts = append(cfg.transportOpts, transport.WithClient(c))
		return nil
	}
}

// WithRetry configures retrying of transient server failures. Ignored if
// WithSender is used.
func WithRetry(max int, waitMin, waitMax time.Duration) Option {
	return func(cfg *config) error {
		cfg.transportOpts = append(cfg.transportOpts, transport.WithRetry(max, waitMin, waitMax))
		return nil
	}
}

// WithRateLimit limits the rate of queries sent to the endpoint. Ignored if
// WithSender is used.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(cfg *config) error {
		cfg.transportOpts = append(cfg.transportOpts, transport.WithRateLimit(limit, burst))
		return nil
	}
}

// WithSender sets the transport used to send queries. The session does not
// close a Sender given this way.
func WithSender(s transport.Sender) Option {
	return func(cfg *config) error {
		cfg.sender = s
		return nil
	}
}

// WithTime sets the time whose dataset the session is pinned to. The most
// recent dataset on or before that day is used.
//
// Default is the current time.
func WithTime(t time.Time) Option {
	return func(cfg *config) error {
		cfg.target = t
		return nil
	}
}
