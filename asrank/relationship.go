package asrank

import (
	"context"
	"errors"
	"fmt"

	"github.com/digizeph/go-asrank/model"
)

// AreSiblings returns true if both ASes belong to the same organization. It
// returns false if either AS or its organization is unknown.
func (s *Session) AreSiblings(ctx context.Context, asn1, asn2 model.ASN) (bool, error) {
	if err := s.acquire(ctx); err != nil {
		return false, err
	}
	defer s.release()

	if err := s.ensureCached(ctx, []model.ASN{asn1, asn2}, s.chunkSize); err != nil {
		return false, err
	}
	info1, info2 := s.cache.entities[asn1], s.cache.entities[asn2]
	if info1 == nil || info2 == nil || info1.Organization == nil || info2.Organization == nil {
		return false, nil
	}
	return info1.Organization.OrgID == info2.Organization.OrgID, nil
}

// Relationship returns the relationship of asn0 toward asn1:
// ProviderToCustomer if asn0 is the provider of asn1, CustomerToProvider if
// asn0 is a customer of asn1, PeerToPeer if they peer. RelUnknown is returned
// if there is no link between them.
//
// Links are looked up per pair and are not cached.
func (s *Session) Relationship(ctx context.Context, asn0, asn1 model.ASN) (model.Relationship, error) {
	if err := s.acquire(ctx); err != nil {
		return model.RelUnknown, err
	}
	defer s.release()
	return s.relationship(ctx, asn0, asn1)
}

func (s *Session) relationship(ctx context.Context, asn0, asn1 model.ASN) (model.Relationship, error) {
	query := linkQuery(asn0, asn1, s.dataDate)
	data, err := s.sender.Send(ctx, query)
	if err != nil {
		return model.RelUnknown, fmt.Errorf("cannot query asn link: %w", err)
	}

	var link linkNode
	ok, err := decodeField(data, "asnLink", &link)
	if err != nil {
		return model.RelUnknown, malformed(query, data, err)
	}
	if !ok {
		return model.RelUnknown, nil
	}

	// The link describes what asn1 is to asn0.
	switch link.Relationship {
	case "provider":
		return model.CustomerToProvider, nil
	case "customer":
		return model.ProviderToCustomer, nil
	case "peer":
		return model.PeerToPeer, nil
	}
	return model.RelUnknown, nil
}

// IsSoleProvider returns true if provider is the only upstream of customer:
// customer has exactly one provider and no peers, and provider is its
// provider. Missing data for customer yields false.
func (s *Session) IsSoleProvider(ctx context.Context, provider, customer model.ASN) (bool, error) {
	if err := s.acquire(ctx); err != nil {
		return false, err
	}
	defer s.release()

	info, err := s.info(ctx, customer)
	if err != nil || info == nil {
		return false, err
	}
	if info.Degree.Provider != 1 || info.Degree.Peer != 0 {
		return false, nil
	}
	rel, err := s.relationship(ctx, provider, customer)
	if err != nil {
		return false, err
	}
	return rel == model.ProviderToCustomer, nil
}

// InCustomerCone returns true if member is in the customer cone of root. An
// AS is in its own cone. The cone of each root is fetched once.
func (s *Session) InCustomerCone(ctx context.Context, member, root model.ASN) (bool, error) {
	if err := s.acquire(ctx); err != nil {
		return false, err
	}
	defer s.release()

	cone, ok := s.cache.cones[root]
	if ok {
		cacheHit(coneCache)
	} else {
		cacheMiss(coneCache)
		var err error
		cone, err = s.fetchCone(ctx, root)
		if err != nil {
			return false, err
		}
		s.cache.cones[root] = cone
	}
	_, ok = cone[member]
	return ok, nil
}

// fetchCone returns the set of ASes in the customer cone of root. The set is
// empty if root is unknown.
func (s *Session) fetchCone(ctx context.Context, root model.ASN) (map[model.ASN]struct{}, error) {
	query := coneQuery(root, s.dataDate)
	data, err := s.sender.Send(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("cannot query asn cone: %w", err)
	}

	var cone coneNode
	ok, err := decodeField(data, "asnCone", &cone)
	if err == nil && ok && (cone.ASNs == nil || cone.ASNs.Edges == nil) {
		err = errors.New("missing cone edges")
	}
	if err != nil {
		return nil, malformed(query, data, err)
	}
	if !ok {
		log.Debugw("No customer cone for asn", "asn", root, "dataset", s.dataDate)
		return map[model.ASN]struct{}{}, nil
	}

	members := make(map[model.ASN]struct{}, len(cone.ASNs.Edges)+1)
	members[root] = struct{}{}
	for _, edge := range cone.ASNs.Edges {
		members[model.ASN(edge.Node.ASN)] = struct{}{}
	}
	return members, nil
}

// Neighbors returns the ASes directly linked to asn, bucketed by the role
// they play for asn. Neighbors of each AS are fetched once. An unknown AS has
// no neighbors.
//
// Do not modify the returned Neighbors.
func (s *Session) Neighbors(ctx context.Context, asn model.ASN) (*model.Neighbors, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	if nbrs, ok := s.cache.neighbors[asn]; ok {
		cacheHit(neighborCache)
		return nbrs, nil
	}
	cacheMiss(neighborCache)

	query := neighborsQuery(asn)
	data, err := s.sender.Send(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("cannot query asn links: %w", err)
	}

	var node neighborNode
	ok, err := decodeField(data, "asn", &node)
	if err == nil && ok && (node.ASNLinks == nil || node.ASNLinks.Edges == nil) {
		err = errors.New("missing asn link edges")
	}
	if err == nil && ok {
		for _, edge := range node.ASNLinks.Edges {
			if edge.Node == nil || edge.Node.ASN1 == nil {
				err = errors.New("asn link without neighbor")
				break
			}
		}
	}
	if err != nil {
		return nil, malformed(query, data, err)
	}

	nbrs := &model.Neighbors{
		Providers: []model.ASN{},
		Customers: []model.ASN{},
		Peers:     []model.ASN{},
	}
	if ok {
		for _, edge := range node.ASNLinks.Edges {
			nbr := model.ASN(edge.Node.ASN1.ASN)
			switch edge.Node.Relationship {
			case "provider":
				nbrs.Providers = append(nbrs.Providers, nbr)
			case "customer":
				nbrs.Customers = append(nbrs.Customers, nbr)
			case "peer":
				nbrs.Peers = append(nbrs.Peers, nbr)
			default:
				log.Debugw("Skipping link with unknown relationship", "asn", asn, "neighbor", nbr, "relationship", edge.Node.Relationship)
			}
		}
	}
	s.cache.neighbors[asn] = nbrs
	return nbrs, nil
}
