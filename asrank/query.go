package asrank

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/digizeph/go-asrank/model"
)

// earliestDate bounds searches for datasets before a date.
const earliestDate = "2000-01-01"

func datasetBeforeQuery(date string) string {
	return fmt.Sprintf(`{
  datasets(dateStart:%s, dateEnd:%s, sort:"-date", first:1) {
    edges { node { date } }
  }
}`, quote(earliestDate), quote(date))
}

func datasetAfterQuery(date string) string {
	return fmt.Sprintf(`{
  datasets(dateStart:%s, sort:"date", first:1) {
    edges { node { date } }
  }
}`, quote(date))
}

func asnsQuery(asns []model.ASN, date string) string {
	list := make([]string, len(asns))
	for i, asn := range asns {
		list[i] = quote(string(asn))
	}
	return fmt.Sprintf(`{
  asns(asns: [%s], dateStart: %s, dateEnd: %s, first: %d, sort: "-date") {
    edges {
      node {
        date
        asn
        asnName
        rank
        organization { orgId orgName country { iso name } }
        asnDegree { provider peer customer total transit sibling }
      }
    }
  }
}`, strings.Join(list, ","), quote(date), quote(date), len(asns))
}

func linkQuery(asn0, asn1 model.ASN, date string) string {
	return fmt.Sprintf(`{
  asnLink(asn0:%s, asn1:%s, date:%s) { relationship }
}`, quote(string(asn0)), quote(string(asn1)), quote(date))
}

func coneQuery(asn model.ASN, date string) string {
	return fmt.Sprintf(`{
  asnCone(asn:%s, date:%s) {
    asns { edges { node { asn } } }
  }
}`, quote(string(asn)), quote(date))
}

func organizationQuery(orgID string) string {
	return fmt.Sprintf(`{
  organization(orgId:%s) {
    orgId
    orgName
    members {
      numberAsns
      numberAsnsSeen
      asns { totalCount edges { node { asn asnName } } }
    }
  }
}`, quote(orgID))
}

func neighborsQuery(asn model.ASN) string {
	return fmt.Sprintf(`{
  asn(asn:%s) {
    asn
    asnLinks { edges { node { asn1 { asn } relationship } } }
  }
}`, quote(string(asn)))
}

// quote returns s as a GraphQL string literal.
func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
