package asrank

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/digizeph/go-asrank/model"
)

// decodeField decodes the named member of a GraphQL data object into v. It
// returns false, leaving v untouched, when the member is null. A missing
// member is an error.
func decodeField(data json.RawMessage, name string, v interface{}) (bool, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return false, fmt.Errorf("cannot decode data: %w", err)
	}
	if fields == nil {
		return false, errors.New("no data in response")
	}
	raw, ok := fields[name]
	if !ok {
		return false, fmt.Errorf("missing %q in response", name)
	}
	if isNull(raw) {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("cannot decode %q: %w", name, err)
	}
	return true, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

type datasetConnection struct {
	Edges []struct {
		Node struct {
			Date string `json:"date"`
		} `json:"node"`
	} `json:"edges"`
}

type asnConnection struct {
	Edges []struct {
		Node *asnNode `json:"node"`
	} `json:"edges"`
}

type asnNode struct {
	ASN          string   `json:"asn"`
	ASNName      string   `json:"asnName"`
	Rank         *int     `json:"rank"`
	Organization *orgNode `json:"organization"`
	ASNDegree    *struct {
		Provider *int `json:"provider"`
		Peer     *int `json:"peer"`
		Customer *int `json:"customer"`
		Total    *int `json:"total"`
		Transit  *int `json:"transit"`
		Sibling  *int `json:"sibling"`
	} `json:"asnDegree"`
}

type orgNode struct {
	OrgID   string `json:"orgId"`
	OrgName string `json:"orgName"`
	Country *struct {
		ISO  string `json:"iso"`
		Name string `json:"name"`
	} `json:"country"`
}

// toInfo converts a node to a cache entry. Missing numeric values become 0.
func (n *asnNode) toInfo() *model.ASNInfo {
	info := &model.ASNInfo{
		ASN:  model.ASN(n.ASN),
		Name: n.ASNName,
		Rank: intOrZero(n.Rank),
	}
	if n.Organization != nil && n.Organization.OrgID != "" {
		org := &model.Organization{
			OrgID:   n.Organization.OrgID,
			OrgName: n.Organization.OrgName,
		}
		if c := n.Organization.Country; c != nil {
			org.Country = &model.Country{
				ISO:  c.ISO,
				Name: c.Name,
			}
		}
		info.Organization = org
	}
	if d := n.ASNDegree; d != nil {
		info.Degree = model.Degree{
			Provider: intOrZero(d.Provider),
			Peer:     intOrZero(d.Peer),
			Customer: intOrZero(d.Customer),
			Total:    intOrZero(d.Total),
			Transit:  intOrZero(d.Transit),
			Sibling:  intOrZero(d.Sibling),
		}
	}
	return info
}

func intOrZero(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

type linkNode struct {
	Relationship string `json:"relationship"`
}

type coneNode struct {
	ASNs *struct {
		Edges []struct {
			Node struct {
				ASN string `json:"asn"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"asns"`
}

type neighborNode struct {
	ASN      string `json:"asn"`
	ASNLinks *struct {
		Edges []struct {
			Node *struct {
				ASN1 *struct {
					ASN string `json:"asn"`
				} `json:"asn1"`
				Relationship string `json:"relationship"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"asnLinks"`
}

type organizationNode struct {
	OrgID   string `json:"orgId"`
	OrgName string `json:"orgName"`
	Members *struct {
		NumberASNs     *int `json:"numberAsns"`
		NumberASNsSeen *int `json:"numberAsnsSeen"`
		ASNs           *struct {
			TotalCount int `json:"totalCount"`
			Edges      []struct {
				Node struct {
					ASN     string `json:"asn"`
					ASNName string `json:"asnName"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"asns"`
	} `json:"members"`
}
