package model

// Relationship is the direction of a link between two ASes, expressed from
// the perspective of the first AS toward the second.
type Relationship string

const (
	// RelUnknown means there is no known link between the ASes.
	RelUnknown Relationship = ""
	// ProviderToCustomer means the first AS is the provider of the second.
	ProviderToCustomer Relationship = "p-c"
	// CustomerToProvider means the first AS is a customer of the second.
	CustomerToProvider Relationship = "c-p"
	// PeerToPeer means the ASes peer with each other.
	PeerToPeer Relationship = "p-p"
)

// Reverse returns the relationship as seen from the other end of the link.
func (r Relationship) Reverse() Relationship {
	switch r {
	case ProviderToCustomer:
		return CustomerToProvider
	case CustomerToProvider:
		return ProviderToCustomer
	case PeerToPeer:
		return PeerToPeer
	}
	return RelUnknown
}

func (r Relationship) Known() bool {
	return r.Reverse() != RelUnknown
}

// Neighbors lists the directly linked ASes of an AS, bucketed by the role
// the neighbor plays. Lists keep the order returned by the source and may
// contain duplicates.
type Neighbors struct {
	Providers []ASN `json:"providers"`
	Customers []ASN `json:"customers"`
	Peers     []ASN `json:"peers"`
}

// Len returns the total number of neighbor entries.
func (n *Neighbors) Len() int {
	return len(n.Providers) + len(n.Customers) + len(n.Peers)
}
