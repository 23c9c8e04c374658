package asrank

import (
	"context"
	"time"

	"github.com/digizeph/go-asrank/model"
	"github.com/digizeph/go-asrank/transport"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("asrank")

// Session answers questions about the AS topology of one ASRank dataset and
// caches everything it fetches. A Session is safe for concurrent use, but
// operations are serialized.
type Session struct {
	sender    transport.Sender
	ownSender bool
	chunkSize int

	// lock is held for the duration of each operation. It is a channel so
	// that waiting for it can be canceled.
	lock     chan struct{}
	closed   bool
	dataDate string
	cache    *caches
}

// caches holds everything fetched for one dataset. It is replaced as a whole
// when the session is pinned to another dataset.
type caches struct {
	// entities maps an ASN to its info. A nil value means the dataset has no
	// data for the ASN.
	entities  map[model.ASN]*model.ASNInfo
	cones     map[model.ASN]map[model.ASN]struct{}
	neighbors map[model.ASN]*model.Neighbors
	// orgs maps an organization ID to its members. A nil value means the
	// organization is unknown.
	orgs     map[string]*model.OrgMembers
	siblings map[model.ASN]model.Siblings
}

func newCaches() *caches {
	return &caches{
		entities:  make(map[model.ASN]*model.ASNInfo),
		cones:     make(map[model.ASN]map[model.ASN]struct{}),
		neighbors: make(map[model.ASN]*model.Neighbors),
		orgs:      make(map[string]*model.OrgMembers),
		siblings:  make(map[model.ASN]model.Siblings),
	}
}

// CacheStats is the number of entries in each session cache.
type CacheStats struct {
	Entities      int
	Cones         int
	Neighbors     int
	Organizations int
	Siblings      int
}

// New creates a session pinned to the dataset for the configured time. An
// error is returned if no dataset can be resolved.
func New(ctx context.Context, options ...Option) (*Session, error) {
	opts, err := getOpts(options)
	if err != nil {
		return nil, err
	}

	sender := opts.sender
	var ownSender bool
	if sender == nil {
		sender, err = transport.New(opts.endpoint, opts.transportOpts...)
		if err != nil {
			return nil, err
		}
		ownSender = true
	}

	date, err := ResolveDataset(ctx, sender, opts.target)
	if err != nil {
		if ownSender {
			sender.Close()
		}
		return nil, err
	}
	log.Infow("Resolved dataset", "target", DateOf(opts.target), "dataset", date)

	return &Session{
		sender:    sender,
		ownSender: ownSender,
		chunkSize: opts.chunkSize,
		lock:      make(chan struct{}, 1),
		dataDate:  date,
		cache:     newCaches(),
	}, nil
}

// Reset pins the session to the dataset for time t and clears all cached
// data. If no dataset can be resolved, the session is left unchanged.
func (s *Session) Reset(ctx context.Context, t time.Time) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	date, err := ResolveDataset(ctx, s.sender, t)
	if err != nil {
		return err
	}
	log.Infow("Reset session", "previous", s.dataDate, "dataset", date)
	s.dataDate = date
	s.cache = newCaches()
	return nil
}

// Close releases the transport, if it was created by the session. Operations
// on a closed session return ErrClosed.
func (s *Session) Close() error {
	s.lock <- struct{}{}
	defer s.release()

	if s.closed {
		return nil
	}
	s.closed = true
	s.cache = newCaches()
	if s.ownSender {
		s.sender.Close()
	}
	return nil
}

// DataDate returns the date identifying the dataset the session is pinned
// to.
func (s *Session) DataDate() string {
	s.lock <- struct{}{}
	defer s.release()
	return s.dataDate
}

// QueriesSent returns the number of queries sent by the session's transport.
// The count is not reset by Reset.
func (s *Session) QueriesSent() uint64 {
	return s.sender.QueriesSent()
}

// CacheStats returns the number of entries in each cache.
func (s *Session) CacheStats() CacheStats {
	s.lock <- struct{}{}
	defer s.release()
	return CacheStats{
		Entities:      len(s.cache.entities),
		Cones:         len(s.cache.cones),
		Neighbors:     len(s.cache.neighbors),
		Organizations: len(s.cache.orgs),
		Siblings:      len(s.cache.siblings),
	}
}

// acquire takes the session lock, and checks that the session is usable.
func (s *Session) acquire(ctx context.Context) error {
	select {
	case s.lock <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	// The lock may have been free when ctx was already done.
	if err := ctx.Err(); err != nil {
		s.release()
		return err
	}
	if s.closed {
		s.release()
		return ErrClosed
	}
	return nil
}

func (s *Session) release() {
	<-s.lock
}
