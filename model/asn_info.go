package model

// ASNInfo describes an autonomous system as seen in one ASRank dataset.
type ASNInfo struct {
	// ASN is the autonomous system number.
	ASN ASN `json:"asn"`
	// Name is the registered AS name.
	Name string `json:"name,omitempty"`
	// Rank is the position of the AS in the customer cone ranking.
	Rank int `json:"rank"`
	// Organization is the organization that owns the AS. Nil when the
	// dataset has no organization for the AS.
	Organization *Organization `json:"organization,omitempty"`
	// Degree summarizes the AS relationships. Fields absent from the source
	// are zero.
	Degree Degree `json:"degree"`
}

// Organization identifies the owner of one or more autonomous systems.
type Organization struct {
	OrgID   string `json:"orgId"`
	OrgName string `json:"orgName"`
	// Country is the registration country. Nil when unknown.
	Country *Country `json:"country,omitempty"`
}

// Country is a registration country.
type Country struct {
	// ISO is the ISO 3166-1 alpha-2 code, such as "US".
	ISO  string `json:"iso"`
	Name string `json:"name"`
}

// Degree counts the relationships of an AS.
type Degree struct {
	Provider int `json:"provider"`
	Peer     int `json:"peer"`
	Customer int `json:"customer"`
	Total    int `json:"total"`
	Transit  int `json:"transit"`
	Sibling  int `json:"sibling"`
}
