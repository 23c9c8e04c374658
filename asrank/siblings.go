package asrank

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/digizeph/go-asrank/model"
)

// Siblings returns the other ASes owned by the organization of asn. The
// returned count is the organization member count from the source, less one
// for asn itself. Organization membership is not paginated by the source, so
// the count may exceed the number of listed ASNs for large organizations. An
// AS with unknown organization has no siblings. The result is memoized per
// AS and the caller gets its own copy of the list.
func (s *Session) Siblings(ctx context.Context, asn model.ASN) (model.Siblings, error) {
	if err := s.acquire(ctx); err != nil {
		return model.Siblings{}, err
	}
	defer s.release()

	sibs, err := s.siblings(ctx, asn)
	if err != nil {
		return model.Siblings{}, err
	}
	return cloneSiblings(sibs), nil
}

// SiblingsBulk returns the siblings of each of the asns. Info for all asns is
// fetched in batches before siblings are computed.
func (s *Session) SiblingsBulk(ctx context.Context, asns []model.ASN) (map[model.ASN]model.Siblings, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	if err := s.ensureCached(ctx, asns, s.chunkSize); err != nil {
		return nil, err
	}
	result := make(map[model.ASN]model.Siblings, len(asns))
	for _, asn := range asns {
		sibs, err := s.siblings(ctx, asn)
		if err != nil {
			return nil, err
		}
		result[asn] = cloneSiblings(sibs)
	}
	return result, nil
}

func (s *Session) siblings(ctx context.Context, asn model.ASN) (model.Siblings, error) {
	if sibs, ok := s.cache.siblings[asn]; ok {
		cacheHit(siblingCache)
		return sibs, nil
	}
	cacheMiss(siblingCache)

	info, err := s.info(ctx, asn)
	if err != nil {
		return model.Siblings{}, err
	}
	if info == nil || info.Organization == nil {
		s.cache.siblings[asn] = noSiblings()
		return s.cache.siblings[asn], nil
	}

	org, err := s.orgMembers(ctx, info.Organization.OrgID)
	if err != nil {
		return model.Siblings{}, err
	}
	if org == nil {
		s.cache.siblings[asn] = noSiblings()
		return s.cache.siblings[asn], nil
	}

	total := org.TotalCount
	asns := make([]model.ASN, 0, len(org.ASNs))
	seen := make(map[model.ASN]struct{}, len(org.ASNs))
	var self bool
	for _, member := range org.ASNs {
		if member.ASN == asn {
			self = true
			continue
		}
		if _, ok := seen[member.ASN]; ok {
			continue
		}
		seen[member.ASN] = struct{}{}
		asns = append(asns, member.ASN)
	}
	if self {
		total--
	}

	sibs := model.Siblings{
		TotalCount: total,
		ASNs:       asns,
	}
	s.cache.siblings[asn] = sibs
	return sibs, nil
}

func noSiblings() model.Siblings {
	return model.Siblings{ASNs: []model.ASN{}}
}

// cloneSiblings copies a memoized result so callers cannot change the cache.
func cloneSiblings(sibs model.Siblings) model.Siblings {
	sibs.ASNs = slices.Clone(sibs.ASNs)
	return sibs
}

// orgMembers returns the members of an organization, fetching them once per
// organization. Nil is returned for an unknown organization.
func (s *Session) orgMembers(ctx context.Context, orgID string) (*model.OrgMembers, error) {
	if org, ok := s.cache.orgs[orgID]; ok {
		cacheHit(orgCache)
		return org, nil
	}
	cacheMiss(orgCache)

	query := organizationQuery(orgID)
	data, err := s.sender.Send(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("cannot query organization: %w", err)
	}

	var node organizationNode
	ok, err := decodeField(data, "organization", &node)
	if err == nil && ok && (node.Members == nil || node.Members.ASNs == nil) {
		err = errors.New("missing organization members")
	}
	if err != nil {
		return nil, malformed(query, data, err)
	}
	if !ok {
		log.Debugw("Organization not found", "orgId", orgID)
		s.cache.orgs[orgID] = nil
		return nil, nil
	}

	org := &model.OrgMembers{
		OrgID:      node.OrgID,
		OrgName:    node.OrgName,
		TotalCount: node.Members.ASNs.TotalCount,
		ASNs:       make([]model.OrgMember, len(node.Members.ASNs.Edges)),
	}
	for i, edge := range node.Members.ASNs.Edges {
		org.ASNs[i] = model.OrgMember{
			ASN:  model.ASN(edge.Node.ASN),
			Name: edge.Node.ASNName,
		}
	}
	if len(org.ASNs) < org.TotalCount {
		log.Debugw("Organization membership truncated", "orgId", orgID, "totalCount", org.TotalCount, "listed", len(org.ASNs))
	}
	s.cache.orgs[orgID] = org
	return org, nil
}
