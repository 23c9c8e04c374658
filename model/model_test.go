package model_test

import (
	"testing"

	"github.com/digizeph/go-asrank/model"
	"github.com/stretchr/testify/require"
)

func TestParseASN(t *testing.T) {
	asn, err := model.ParseASN("701")
	require.NoError(t, err)
	require.Equal(t, model.ASN("701"), asn)

	asn, err = model.ParseASN(" AS15169 ")
	require.NoError(t, err)
	require.Equal(t, model.ASN("15169"), asn)

	asn, err = model.ParseASN("as0036040")
	require.NoError(t, err)
	require.Equal(t, model.ASN("36040"), asn)

	_, err = model.ParseASN("AS")
	require.Error(t, err)
	_, err = model.ParseASN("-1")
	require.Error(t, err)
	_, err = model.ParseASN("4294967296")
	require.Error(t, err)

	asns, err := model.ParseASNs([]string{"3356", "AS3"})
	require.NoError(t, err)
	require.Equal(t, []model.ASN{"3356", "3"}, asns)

	_, err = model.ParseASNs([]string{"3356", "x"})
	require.Error(t, err)
}

func TestRelationshipReverse(t *testing.T) {
	require.Equal(t, model.CustomerToProvider, model.ProviderToCustomer.Reverse())
	require.Equal(t, model.ProviderToCustomer, model.CustomerToProvider.Reverse())
	require.Equal(t, model.PeerToPeer, model.PeerToPeer.Reverse())
	require.Equal(t, model.RelUnknown, model.RelUnknown.Reverse())
	require.Equal(t, model.RelUnknown, model.Relationship("s-s").Reverse())

	require.True(t, model.PeerToPeer.Known())
	require.False(t, model.RelUnknown.Known())
}
