// Package asrank is a caching client for the CAIDA ASRank GraphQL API. It
// answers questions about the AS-level topology of the Internet at a single
// point in time: which organization owns an AS, what its degree is, how two
// ASes are related, whether one AS is in another's customer cone, and which
// ASes are siblings.
//
// ## Dataset Pinning
//
// ASRank publishes dated datasets. A Session is pinned to exactly one of them
// when it is created: the most recent dataset on or before the requested day.
// If there is no such dataset, the earliest dataset after the requested day is
// used and a warning is logged, since answers then describe a later time than
// the one asked for. Session creation fails with ErrNoDataset only if there
// are no datasets at all.
//
// A session can be pinned to a different dataset with Reset, which discards
// everything cached for the previous dataset.
//
// ## Caching
//
// Each session caches AS info, customer cones, neighbor lists, organization
// memberships, and computed sibling sets for its dataset. Nothing is ever
// fetched twice. ASes, cone roots, and organizations that the dataset does not
// know about are cached as negative entries, so asking again costs nothing.
// Caches live in memory for the lifetime of the session.
//
// AS info is fetched in batches. Operations that take many ASNs fetch all
// uncached ones in queries of up to the configured chunk size (default 100).
// Preload can be used to warm the cache before many single-AS lookups.
//
// Relationships between two ASes are the exception: they are per pair, and
// each call to Relationship sends a query.
//
// ## Errors
//
// Unknown ASes produce nil, false, or empty results rather than errors. Errors
// are returned when the transport fails after retrying, or when a response
// does not have the expected structure. In the latter case a
// MalformedResponseError holding the query and response is returned, and both
// are logged.
//
// ## Concurrency
//
// A Session may be used from multiple goroutines. Operations are serialized by
// a single session lock, which waits can abandon by canceling their context.
package asrank
