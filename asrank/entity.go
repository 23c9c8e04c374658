package asrank

import (
	"context"
	"errors"
	"fmt"

	"github.com/digizeph/go-asrank/model"
)

// Preload fetches info for all asns that are not yet cached, using queries
// of at most chunkSize ASNs. If chunkSize is not positive, the session chunk
// size is used. Loading many ASNs up front is much faster than looking them
// up one at a time.
func (s *Session) Preload(ctx context.Context, asns []model.ASN, chunkSize int) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	if chunkSize < 1 {
		chunkSize = s.chunkSize
	}
	return s.ensureCached(ctx, asns, chunkSize)
}

// Info returns the info for an AS, or nil if the dataset has no data for it.
//
// Do not modify the returned ASNInfo.
func (s *Session) Info(ctx context.Context, asn model.ASN) (*model.ASNInfo, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()
	return s.info(ctx, asn)
}

// Facts returns the info of each of the asns. ASNs that are unknown in the
// dataset map to nil.
//
// Do not modify the returned ASNInfo values.
func (s *Session) Facts(ctx context.Context, asns []model.ASN) (map[model.ASN]*model.ASNInfo, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	if err := s.ensureCached(ctx, asns, s.chunkSize); err != nil {
		return nil, err
	}
	facts := make(map[model.ASN]*model.ASNInfo, len(asns))
	for _, asn := range asns {
		facts[asn] = s.cache.entities[asn]
	}
	return facts, nil
}

// Organization returns the organization that owns the AS, or nil if either
// the AS or its organization is unknown.
func (s *Session) Organization(ctx context.Context, asn model.ASN) (*model.Organization, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	info, err := s.info(ctx, asn)
	if err != nil || info == nil {
		return nil, err
	}
	return info.Organization, nil
}

// RegisteredCountry returns the ISO code of the country that the AS
// organization is registered in, such as "US". An empty string is returned
// if the AS, its organization, or the country is unknown.
func (s *Session) RegisteredCountry(ctx context.Context, asn model.ASN) (string, error) {
	if err := s.acquire(ctx); err != nil {
		return "", err
	}
	defer s.release()

	info, err := s.info(ctx, asn)
	if err != nil || info == nil {
		return "", err
	}
	if info.Organization == nil || info.Organization.Country == nil {
		return "", nil
	}
	return info.Organization.Country.ISO, nil
}

// Degree returns the relationship counts of the AS, or nil if the AS is
// unknown.
func (s *Session) Degree(ctx context.Context, asn model.ASN) (*model.Degree, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	info, err := s.info(ctx, asn)
	if err != nil || info == nil {
		return nil, err
	}
	degree := info.Degree
	return &degree, nil
}

func (s *Session) info(ctx context.Context, asn model.ASN) (*model.ASNInfo, error) {
	if err := s.ensureCached(ctx, []model.ASN{asn}, s.chunkSize); err != nil {
		return nil, err
	}
	return s.cache.entities[asn], nil
}

// ensureCached fetches every ASN in asns that is not in the entity cache.
// When it returns without error, every ASN is cached, either with its info or
// as unknown. Cached ASNs are never fetched again.
func (s *Session) ensureCached(ctx context.Context, asns []model.ASN, chunkSize int) error {
	var needed []model.ASN
	seen := make(map[model.ASN]struct{}, len(asns))
	for _, asn := range asns {
		if _, ok := s.cache.entities[asn]; ok {
			cacheHit(entityCache)
			continue
		}
		if _, ok := seen[asn]; ok {
			continue
		}
		seen[asn] = struct{}{}
		cacheMiss(entityCache)
		needed = append(needed, asn)
	}

	for start := 0; start < len(needed); start += chunkSize {
		end := min(start+chunkSize, len(needed))
		if err := s.fetchEntities(ctx, needed[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// fetchEntities queries the info of one chunk of ASNs and caches it. Any
// requested ASN missing from the response is cached as unknown.
func (s *Session) fetchEntities(ctx context.Context, asns []model.ASN) error {
	query := asnsQuery(asns, s.dataDate)
	data, err := s.sender.Send(ctx, query)
	if err != nil {
		return fmt.Errorf("cannot query asns: %w", err)
	}

	var conn asnConnection
	ok, err := decodeField(data, "asns", &conn)
	if err == nil && (!ok || conn.Edges == nil) {
		err = errors.New("missing asn edges")
	}
	if err == nil {
		for _, edge := range conn.Edges {
			if edge.Node == nil || edge.Node.ASN == "" {
				err = errors.New("asn edge without asn")
				break
			}
		}
	}
	if err != nil {
		return malformed(query, data, err)
	}

	entities := s.cache.entities
	for _, edge := range conn.Edges {
		asn := model.ASN(edge.Node.ASN)
		// Results are sorted newest first, so keep the first one.
		if _, ok := entities[asn]; ok {
			continue
		}
		entities[asn] = edge.Node.toInfo()
	}
	for _, asn := range asns {
		if _, ok := entities[asn]; !ok {
			log.Debugw("ASN not found in dataset", "asn", asn, "dataset", s.dataDate)
			entities[asn] = nil
		}
	}
	return nil
}
