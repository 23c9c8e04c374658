package transport

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK           = "ok"
	outcomeHTTPError    = "http_error"
	outcomeGraphQLError = "graphql_error"
	outcomeError        = "error"
)

var (
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "asrank_transport_queries_total",
		Help: "Total GraphQL queries sent to the ASRank endpoint, by outcome",
	}, []string{"outcome"})

	queryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "asrank_transport_query_duration_seconds",
		Help:    "Time to complete a GraphQL query, including retries",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
	})
)
