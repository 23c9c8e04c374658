package test

// Degree returns a degree record with every field set.
func Degree(provider, peer, customer, total, transit, sibling int) map[string]interface{} {
	return map[string]interface{}{
		"provider": provider,
		"peer":     peer,
		"customer": customer,
		"total":    total,
		"transit":  transit,
		"sibling":  sibling,
	}
}

// NewDataset returns a small dataset modeled on real ASRank data from July
// 2020.
//
//   - 701 and 702 are siblings in a US organization.
//   - 15169 is the provider of 36040; 15169's cone holds 36040 and 43515.
//     Its organization has 5 member ASes.
//   - 12008 is the only upstream of 397231.
//   - 3582 has two providers, 3701 and 2914.
//   - 64512 has null degree fields and no organization.
//   - 3356 belongs to an organization that lists fewer members than it counts.
//   - 131565 is known and has no links.
func NewDataset() *Dataset {
	return &Dataset{
		Dates: []string{"2019-01-01", "2020-06-01", "2020-07-01", "2020-08-01"},
		ASNs: []ASN{
			{ASN: "701", Name: "UUNET", Rank: 20, OrgID: "ORG-VZ", OrgName: "Verizon Business", Country: "US", CountryName: "United States",
				Degree: Degree(0, 33, 1376, 1409, 1358, 22)},
			{ASN: "702", Name: "UUNET-EMEA", Rank: 110, OrgID: "ORG-VZ", OrgName: "Verizon Business", Country: "US", CountryName: "United States",
				Degree: Degree(1, 40, 300, 341, 320, 22)},
			{ASN: "15169", Name: "GOOGLE", Rank: 1009, OrgID: "f7b8c6de69", OrgName: "Google LLC", Country: "US", CountryName: "United States",
				Degree: Degree(0, 980, 3, 983, 2, 4)},
			{ASN: "36040", Name: "YOUTUBE", Rank: 40000, OrgID: "f7b8c6de69", OrgName: "Google LLC", Country: "US", CountryName: "United States",
				Degree: Degree(1, 0, 0, 1, 0, 4)},
			{ASN: "43515", Name: "YOUTUBE-EU", Rank: 40001, OrgID: "f7b8c6de69", OrgName: "Google LLC", Country: "IE", CountryName: "Ireland",
				Degree: Degree(1, 0, 0, 1, 0, 4)},
			{ASN: "3356", Name: "LEVEL3", Rank: 1, OrgID: "ORG-LVLT", OrgName: "Level 3 Parent, LLC", Country: "US", CountryName: "United States",
				Degree: Degree(0, 70, 6000, 6070, 6000, 34)},
			{ASN: "3", Name: "MIT-GATEWAYS", Rank: 6000, OrgID: "ORG-MIT", OrgName: "Massachusetts Institute of Technology", Country: "US", CountryName: "United States",
				Degree: Degree(2, 0, 1, 3, 1, 0)},
			{ASN: "12008", Name: "NEUSTAR", Rank: 900, OrgID: "ORG-NEU", OrgName: "Neustar", Country: "US", CountryName: "United States",
				Degree: Degree(3, 10, 12, 25, 12, 0)},
			{ASN: "397231", Name: "NEUSTAR-AS6", Rank: 50000, OrgID: "ORG-NEU", OrgName: "Neustar", Country: "US", CountryName: "United States",
				Degree: Degree(1, 0, 0, 1, 0, 0)},
			{ASN: "3582", Name: "UONET", Rank: 3000, OrgID: "ORG-UO", OrgName: "University of Oregon", Country: "US", CountryName: "United States",
				Degree: Degree(2, 0, 1, 3, 1, 0)},
			{ASN: "3701", Name: "NERONET", Rank: 800, OrgID: "ORG-NERO", OrgName: "Network for Education and Research in Oregon", Country: "US", CountryName: "United States",
				Degree: Degree(2, 5, 30, 37, 30, 0)},
			{ASN: "2914", Name: "NTT-LTD-2914", Rank: 8, OrgID: "ORG-NTT", OrgName: "NTT America, Inc.", Country: "US", CountryName: "United States",
				Degree: Degree(0, 100, 1500, 1600, 1500, 3)},
			{ASN: "64512", Name: "PRIVATE", Rank: 70000,
				Degree: map[string]interface{}{"provider": nil, "peer": 2, "customer": nil, "total": 2, "transit": nil, "sibling": nil}},
			{ASN: "64513", Name: "NOCOUNTRY", Rank: 70001, OrgID: "ORG-NC", OrgName: "No Country"},
			{ASN: "131565", Name: "QUIET", Rank: 80000, OrgID: "ORG-Q", OrgName: "Quiet Net", Country: "JP", CountryName: "Japan",
				Degree: Degree(0, 0, 0, 0, 0, 0)},
		},
		Links: []Link{
			{From: "15169", To: "36040", Rel: "customer"},
			{From: "15169", To: "43515", Rel: "customer"},
			{From: "3", To: "3356", Rel: "provider"},
			{From: "3", To: "2914", Rel: "provider"},
			{From: "36416", To: "3933", Rel: "customer"},
			{From: "12008", To: "397231", Rel: "customer"},
			{From: "3582", To: "3701", Rel: "provider"},
			{From: "3582", To: "2914", Rel: "provider"},
			{From: "15169", To: "2914", Rel: "peer"},
			{From: "3356", To: "2914", Rel: "peer"},
			{From: "3356", To: "2914", Rel: "peer"},
			{From: "3356", To: "701", Rel: "sibling"},
		},
		Cones: map[string][]string{
			"15169": {"15169", "36040", "43515"},
			"36040": {"36040"},
			// Served without the root itself.
			"12008": {"397231"},
		},
		Orgs: []Org{
			{ID: "ORG-VZ", Name: "Verizon Business", Members: []string{"701", "702"}},
			{ID: "f7b8c6de69", Name: "Google LLC", Members: []string{"15169", "36040", "43515", "36492", "19527"}},
			{ID: "ORG-LVLT", Name: "Level 3 Parent, LLC", Members: []string{"3356", "3549", "209"}, TotalCount: 35},
			{ID: "ORG-NEU", Name: "Neustar", Members: []string{"12008", "397231", "397231"}},
		},
	}
}
