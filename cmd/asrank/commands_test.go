package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/digizeph/go-asrank/internal/test"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	server := httptest.NewServer(test.NewDataset().Handler())
	t.Cleanup(server.Close)

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(append([]string{"--endpoint", server.URL, "--date", "2020-07-02", "--retry-max", "0"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDatasetCmd(t *testing.T) {
	out, err := execute(t, "dataset")
	require.NoError(t, err)
	require.JSONEq(t, `{"dataset":"2020-07-01"}`, out)
}

func TestInfoCmd(t *testing.T) {
	out, err := execute(t, "info", "AS701", "1111701")
	require.NoError(t, err)

	var facts map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &facts))
	require.Len(t, facts, 2)
	require.Equal(t, "null", string(facts["1111701"]))

	var info struct {
		Name         string `json:"name"`
		Organization struct {
			OrgID string `json:"orgId"`
		} `json:"organization"`
	}
	require.NoError(t, json.Unmarshal(facts["701"], &info))
	require.Equal(t, "UUNET", info.Name)
	require.Equal(t, "ORG-VZ", info.Organization.OrgID)
}

func TestRelCmd(t *testing.T) {
	out, err := execute(t, "rel", "15169", "36040")
	require.NoError(t, err)
	require.JSONEq(t, `{"from":"15169","to":"36040","relationship":"p-c"}`, out)

	out, err = execute(t, "rel", "15169", "11136040")
	require.NoError(t, err)
	require.JSONEq(t, `{"from":"15169","to":"11136040","relationship":"unknown"}`, out)
}

func TestConeCmd(t *testing.T) {
	out, err := execute(t, "cone", "36040", "15169")
	require.NoError(t, err)
	require.JSONEq(t, `{"inCone":true}`, out)
}

func TestSiblingsCmd(t *testing.T) {
	out, err := execute(t, "siblings", "12008")
	require.NoError(t, err)
	require.JSONEq(t, `{"12008":{"totalCount":2,"asns":["397231"]}}`, out)
}

func TestNeighborsCmd(t *testing.T) {
	out, err := execute(t, "neighbors", "131565")
	require.NoError(t, err)
	require.JSONEq(t, `{"providers":[],"customers":[],"peers":[]}`, out)
}

func TestLookupCmds(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "org",
			args: []string{"org", "15169"},
			want: `{"orgId":"f7b8c6de69","orgName":"Google LLC","country":{"iso":"US","name":"United States"}}`,
		},
		{
			name: "org unknown",
			args: []string{"org", "64512"},
			want: `null`,
		},
		{
			name: "country",
			args: []string{"country", "AS43515"},
			want: `{"asn":"43515","country":"IE"}`,
		},
		{
			name: "country unknown",
			args: []string{"country", "1111701"},
			want: `{"asn":"1111701","country":""}`,
		},
		{
			name: "degree",
			args: []string{"degree", "64512"},
			want: `{"provider":0,"peer":2,"customer":0,"total":2,"transit":0,"sibling":0}`,
		},
		{
			name: "degree unknown",
			args: []string{"degree", "1111701"},
			want: `null`,
		},
		{
			name: "sole provider",
			args: []string{"sole-provider", "12008", "397231"},
			want: `{"soleProvider":true}`,
		},
		{
			name: "one of two providers",
			args: []string{"sole-provider", "3701", "3582"},
			want: `{"soleProvider":false}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			require.JSONEq(t, tt.want, out)
		})
	}
}

func TestBadArgs(t *testing.T) {
	_, err := execute(t, "degree", "ASX")
	require.ErrorContains(t, err, "invalid asn")

	_, err = execute(t, "--date", "07/02/2020", "dataset")
	require.ErrorContains(t, err, "invalid date")

	_, err = execute(t, "rel", "15169")
	require.Error(t, err)

	_, err = execute(t, "--log-level", "loud", "dataset")
	require.Error(t, err)
}
