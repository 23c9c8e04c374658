package asrank_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/digizeph/go-asrank/asrank"
	"github.com/digizeph/go-asrank/model"
	"github.com/stretchr/testify/require"
)

func TestAreSiblings(t *testing.T) {
	s, _ := newSession(t)
	ctx := context.Background()

	ok, err := s.AreSiblings(ctx, "701", "702")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.AreSiblings(ctx, "701", "15169")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, uint64(3), s.QueriesSent())

	for _, asn := range []model.ASN{"701", "15169", "36040", "131565"} {
		ok, err = s.AreSiblings(ctx, asn, asn)
		require.NoError(t, err)
		require.True(t, ok, "asn %s is its own sibling", asn)
	}

	// No organization.
	ok, err = s.AreSiblings(ctx, "64512", "64512")
	require.NoError(t, err)
	require.False(t, ok)

	// Unknown AS.
	ok, err = s.AreSiblings(ctx, "1111701", "701")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRelationship(t *testing.T) {
	s, sender := newSession(t)
	ctx := context.Background()

	rel, err := s.Relationship(ctx, "15169", "36040")
	require.NoError(t, err)
	require.Equal(t, model.ProviderToCustomer, rel)
	require.Contains(t, sender.Queries()[1], `asnLink(asn0:"15169", asn1:"36040", date:"2020-07-01")`)

	rel, err = s.Relationship(ctx, "36040", "15169")
	require.NoError(t, err)
	require.Equal(t, model.CustomerToProvider, rel)

	rel, err = s.Relationship(ctx, "15169", "11136040")
	require.NoError(t, err)
	require.Equal(t, model.RelUnknown, rel)

	// Links are not cached.
	sent := s.QueriesSent()
	_, err = s.Relationship(ctx, "15169", "36040")
	require.NoError(t, err)
	require.Equal(t, sent+1, s.QueriesSent())
}

func TestRelationshipComplementary(t *testing.T) {
	s, _ := newSession(t)
	ctx := context.Background()

	pairs := [][2]model.ASN{
		{"15169", "36040"},
		{"3356", "3"},
		{"36416", "3933"},
		{"15169", "2914"},
		{"15169", "11136040"},
		{"3356", "701"}, // unrecognized relationship
	}
	want := []model.Relationship{
		model.ProviderToCustomer,
		model.ProviderToCustomer,
		model.ProviderToCustomer,
		model.PeerToPeer,
		model.RelUnknown,
		model.RelUnknown,
	}
	for i, pair := range pairs {
		fwd, err := s.Relationship(ctx, pair[0], pair[1])
		require.NoError(t, err)
		rev, err := s.Relationship(ctx, pair[1], pair[0])
		require.NoError(t, err)
		require.Equal(t, want[i], fwd, "%s -> %s", pair[0], pair[1])
		require.Equal(t, fwd.Reverse(), rev, "%s -> %s", pair[1], pair[0])
	}
}

func TestRelationshipMalformed(t *testing.T) {
	s, sender := newSession(t)
	sender.Override = func(query string) (json.RawMessage, bool, error) {
		return json.RawMessage(`{"asnLinks":null}`), true, nil
	}

	_, err := s.Relationship(context.Background(), "15169", "36040")
	require.ErrorIs(t, err, asrank.ErrMalformedResponse)
}

func TestIsSoleProvider(t *testing.T) {
	s, sender := newSession(t)
	ctx := context.Background()

	ok, err := s.IsSoleProvider(ctx, "12008", "397231")
	require.NoError(t, err)
	require.True(t, ok)

	// One of two providers.
	sent := s.QueriesSent()
	ok, err = s.IsSoleProvider(ctx, "3701", "3582")
	require.NoError(t, err)
	require.False(t, ok)
	// Degree rules it out without a link query.
	require.Equal(t, sent+1, s.QueriesSent())
	require.False(t, strings.Contains(sender.Queries()[len(sender.Queries())-1], "asnLink"))

	// Not a provider.
	ok, err = s.IsSoleProvider(ctx, "15169", "3582")
	require.NoError(t, err)
	require.False(t, ok)

	// Customer has one provider, but it is someone else.
	ok, err = s.IsSoleProvider(ctx, "2914", "36040")
	require.NoError(t, err)
	require.False(t, ok)

	// Unknown customer.
	ok, err = s.IsSoleProvider(ctx, "12008", "1111701")
	require.NoError(t, err)
	require.False(t, ok)
	degree, err := s.Degree(ctx, "1111701")
	require.NoError(t, err)
	require.Nil(t, degree)

	// All provider degrees zero.
	ok, err = s.IsSoleProvider(ctx, "3356", "64512")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestInCustomerCone(t *testing.T) {
	s, sender := newSession(t)
	ctx := context.Background()

	checks := []struct {
		member, root model.ASN
		want         bool
	}{
		{"36040", "36040", true},
		{"36040", "15169", true},
		{"43515", "15169", true},
		{"15169", "36040", false},
		{"15169", "111136040", false},
		{"111136040", "111136040", false},
		{"12008", "12008", true},
		{"397231", "12008", true},
	}
	for _, c := range checks {
		in, err := s.InCustomerCone(ctx, c.member, c.root)
		require.NoError(t, err)
		require.Equal(t, c.want, in, "%s in cone of %s", c.member, c.root)
	}
	// One query per root after resolving.
	require.Equal(t, uint64(5), s.QueriesSent())
	require.Contains(t, sender.Queries()[2], `asnCone(asn:"15169", date:"2020-07-01")`)

	for _, c := range checks {
		in, err := s.InCustomerCone(ctx, c.member, c.root)
		require.NoError(t, err)
		require.Equal(t, c.want, in)
	}
	require.Equal(t, uint64(5), s.QueriesSent())
	require.Equal(t, 4, s.CacheStats().Cones)
}

func TestInCustomerConeMalformed(t *testing.T) {
	s, sender := newSession(t)
	sender.Override = func(query string) (json.RawMessage, bool, error) {
		return json.RawMessage(`{"asnCone":{"asns":null}}`), true, nil
	}

	_, err := s.InCustomerCone(context.Background(), "36040", "15169")
	require.ErrorIs(t, err, asrank.ErrMalformedResponse)
	require.Zero(t, s.CacheStats().Cones)
}

func TestNeighbors(t *testing.T) {
	s, sender := newSession(t)
	ctx := context.Background()

	nbrs, err := s.Neighbors(ctx, "131565")
	require.NoError(t, err)
	require.Equal(t, &model.Neighbors{
		Providers: []model.ASN{},
		Customers: []model.ASN{},
		Peers:     []model.ASN{},
	}, nbrs)
	require.Contains(t, sender.Queries()[1], `asn(asn:"131565")`)

	nbrs, err = s.Neighbors(ctx, "15169")
	require.NoError(t, err)
	require.Equal(t, []model.ASN{"36040", "43515"}, nbrs.Customers)
	require.Equal(t, []model.ASN{"2914"}, nbrs.Peers)
	require.Empty(t, nbrs.Providers)

	// Duplicates are kept and unknown relationships are skipped.
	nbrs, err = s.Neighbors(ctx, "3356")
	require.NoError(t, err)
	require.Equal(t, []model.ASN{"3"}, nbrs.Customers)
	require.Equal(t, []model.ASN{"2914", "2914"}, nbrs.Peers)
	require.Equal(t, 3, nbrs.Len())

	nbrs, err = s.Neighbors(ctx, "3")
	require.NoError(t, err)
	require.Equal(t, []model.ASN{"3356", "2914"}, nbrs.Providers)

	// Unknown AS has no neighbors.
	nbrs, err = s.Neighbors(ctx, "999999")
	require.NoError(t, err)
	require.Zero(t, nbrs.Len())

	sent := s.QueriesSent()
	for _, asn := range []model.ASN{"131565", "15169", "3356", "3", "999999"} {
		_, err = s.Neighbors(ctx, asn)
		require.NoError(t, err)
	}
	require.Equal(t, sent, s.QueriesSent())
	require.Equal(t, 5, s.CacheStats().Neighbors)
}
