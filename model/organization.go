package model

// OrgMembers is an organization together with the ASes it owns.
type OrgMembers struct {
	OrgID   string `json:"orgId"`
	OrgName string `json:"orgName"`
	// TotalCount is the number of member ASes reported by the source. The
	// source does not paginate membership, so TotalCount may exceed
	// len(ASNs) for very large organizations.
	TotalCount int `json:"totalCount"`
	// ASNs lists the enumerated member ASes.
	ASNs []OrgMember `json:"asns"`
}

// OrgMember is one AS belonging to an organization.
type OrgMember struct {
	ASN  ASN    `json:"asn"`
	Name string `json:"name,omitempty"`
}

// Siblings are the other ASes owned by the same organization as some AS.
type Siblings struct {
	// TotalCount is the organization member count, excluding the AS itself
	// when it was listed. It is reported as given by the source and is not
	// reconciled with the length of ASNs.
	TotalCount int   `json:"totalCount"`
	ASNs       []ASN `json:"asns"`
}
