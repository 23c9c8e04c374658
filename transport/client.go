package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/digizeph/go-asrank/apierror"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/go-retryablehttp"
	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/time/rate"
)

var log = logging.Logger("asrank/transport")

// ErrInvalidResponse is returned when the endpoint answers with a body that
// is not a GraphQL response.
var ErrInvalidResponse = errors.New("invalid graphql response")

// Sender sends GraphQL queries to an ASRank endpoint.
type Sender interface {
	// Send executes the query and returns the raw "data" member of the
	// response. Transient server failures are retried before an error is
	// returned.
	Send(ctx context.Context, query string) (json.RawMessage, error)
	// QueriesSent returns the number of calls to Send.
	QueriesSent() uint64
	// Close releases network resources held by the Sender.
	Close()
}

// Client is an HTTP client for the ASRank GraphQL API.
type Client struct {
	endpoint string
	header   http.Header
	rclient  *retryablehttp.Client
	limiter  *rate.Limiter
	queries  atomic.Uint64
}

// Client must implement Sender.
var _ Sender = (*Client)(nil)

type request struct {
	Query string `json:"query"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// GraphQLError is one entry of the errors list in a GraphQL response.
type GraphQLError struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
}

func (e GraphQLError) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (path %v)", e.Message, e.Path)
}

// New creates a new ASRank GraphQL client that sends queries to endpoint.
func New(endpoint string, options ...Option) (*Client, error) {
	opts, err := getOpts(options)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("url must have http or https scheme: %s", endpoint)
	}

	rclient := &retryablehttp.Client{
		HTTPClient:   opts.httpClient,
		Logger:       retryLogger{},
		RetryWaitMin: opts.retryWaitMin,
		RetryWaitMax: opts.retryWaitMax,
		RetryMax:     opts.retryMax,
		CheckRetry:   retryPolicy,
		Backoff:      retryablehttp.DefaultBackoff,
		// Return the last response when retries are exhausted so that its
		// status can be reported.
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
	}

	return &Client{
		endpoint: u.String(),
		header:   opts.header,
		rclient:  rclient,
		limiter:  rate.NewLimiter(opts.limit, opts.burst),
	}, nil
}

// Send posts the query to the endpoint and returns the data member of the
// GraphQL response. If the response carries errors and no data, all errors
// are returned combined.
func (c *Client) Send(ctx context.Context, query string) (json.RawMessage, error) {
	c.queries.Add(1)

	start := time.Now()
	data, outcome, err := c.send(ctx, query)
	queryDuration.Observe(time.Since(start).Seconds())
	queriesTotal.WithLabelValues(outcome).Inc()
	return data, err
}

func (c *Client) send(ctx context.Context, query string) (json.RawMessage, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, outcomeError, err
	}

	body, err := json.Marshal(request{Query: query})
	if err != nil {
		return nil, outcomeError, err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, outcomeError, err
	}
	for key, vals := range c.header {
		for _, val := range vals {
			req.Header.Add(key, val)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.rclient.Do(req)
	if err != nil {
		return nil, outcomeError, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, outcomeError, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, outcomeHTTPError, apierror.FromResponse(resp.StatusCode, respBody)
	}

	var r response
	if err = json.Unmarshal(respBody, &r); err != nil {
		log.Errorw("Cannot decode response", "err", err, "response", string(respBody), "query", query)
		return nil, outcomeError, fmt.Errorf("%w: %s", ErrInvalidResponse, err)
	}

	if len(r.Errors) != 0 {
		var errs *multierror.Error
		for _, gqlErr := range r.Errors {
			errs = multierror.Append(errs, gqlErr)
		}
		if isNull(r.Data) {
			return nil, outcomeGraphQLError, fmt.Errorf("graphql query failed: %w", errs.ErrorOrNil())
		}
		log.Warnw("Partial graphql response", "errors", errs.Error(), "query", query)
	}

	return r.Data, outcomeOK, nil
}

// QueriesSent returns the number of queries sent since the client was created.
func (c *Client) QueriesSent() uint64 {
	return c.queries.Load()
}

// Close closes idle connections.
func (c *Client) Close() {
	c.rclient.HTTPClient.CloseIdleConnections()
}

func isNull(data json.RawMessage) bool {
	data = bytes.TrimSpace(data)
	return len(data) == 0 || bytes.Equal(data, []byte("null"))
}

// retryPolicy retries connection errors and transient server failures only.
// Client errors, including 429, are returned to the caller immediately.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	return apierror.Retryable(resp.StatusCode), nil
}

// retryLogger sends retryablehttp log output to the package logger.
type retryLogger struct{}

func (retryLogger) Error(msg string, keysAndValues ...interface{}) {
	log.Errorw(msg, keysAndValues...)
}

func (retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	log.Warnw(msg, keysAndValues...)
}

func (retryLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debugw(msg, keysAndValues...)
}

func (retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	log.Debugw(msg, keysAndValues...)
}
