package test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"sync"
	"sync/atomic"
)

var (
	datasetsRe = regexp.MustCompile(`datasets\(dateStart:"([^"]*)"(?:, dateEnd:"([^"]*)")?, sort:"(-?date)"`)
	asnsRe     = regexp.MustCompile(`asns\(asns: (\[[^\]]*\])`)
	linkRe     = regexp.MustCompile(`asnLink\(asn0:"([^"]*)", asn1:"([^"]*)"`)
	coneRe     = regexp.MustCompile(`asnCone\(asn:"([^"]*)"`)
	orgRe      = regexp.MustCompile(`organization\(orgId:"([^"]*)"`)
	asnRe      = regexp.MustCompile(`\basn\(asn:"([^"]*)"\)`)
)

// ASN is an AS record served by a Dataset.
type ASN struct {
	ASN  string
	Name string
	Rank int
	// OrgID is empty for an AS without organization.
	OrgID   string
	OrgName string
	// Country is the ISO code, empty for no country.
	Country     string
	CountryName string
	// Degree is served as is; nil values are served as null. A nil map is
	// served as a null degree.
	Degree map[string]interface{}
}

// Link is a relationship between two ASes. Rel is what To is to From:
// "provider", "customer", or "peer".
type Link struct {
	From string
	To   string
	Rel  string
}

// Org is an organization served by a Dataset.
type Org struct {
	ID      string
	Name    string
	Members []string
	// TotalCount overrides the member count when non-zero.
	TotalCount int
}

// Dataset is a fake ASRank service. It answers the queries sent by the
// asrank package from its records.
type Dataset struct {
	// Dates are the available dataset dates.
	Dates []string
	ASNs  []ASN
	Links []Link
	// Cones maps a root ASN to the ASNs returned as its cone.
	Cones map[string][]string
	Orgs  []Org
}

// Answer returns the data member of the response to query.
func (d *Dataset) Answer(query string) (json.RawMessage, error) {
	var data map[string]interface{}
	switch {
	case datasetsRe.MatchString(query):
		m := datasetsRe.FindStringSubmatch(query)
		data = map[string]interface{}{"datasets": d.datasets(m[1], m[2], m[3] == "-date")}
	case asnsRe.MatchString(query):
		var asns []string
		if err := json.Unmarshal([]byte(asnsRe.FindStringSubmatch(query)[1]), &asns); err != nil {
			return nil, err
		}
		data = map[string]interface{}{"asns": d.asns(asns)}
	case linkRe.MatchString(query):
		m := linkRe.FindStringSubmatch(query)
		data = map[string]interface{}{"asnLink": d.link(m[1], m[2])}
	case coneRe.MatchString(query):
		data = map[string]interface{}{"asnCone": d.cone(coneRe.FindStringSubmatch(query)[1])}
	case orgRe.MatchString(query):
		data = map[string]interface{}{"organization": d.organization(orgRe.FindStringSubmatch(query)[1])}
	case asnRe.MatchString(query):
		data = map[string]interface{}{"asn": d.neighbors(asnRe.FindStringSubmatch(query)[1])}
	default:
		return nil, fmt.Errorf("unsupported query: %s", query)
	}
	return json.Marshal(data)
}

func (d *Dataset) datasets(start, end string, desc bool) interface{} {
	dates := append([]string(nil), d.Dates...)
	sort.Strings(dates)
	if desc {
		sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	}
	edges := []interface{}{}
	for _, date := range dates {
		if date < start || (end != "" && date > end) {
			continue
		}
		edges = append(edges, map[string]interface{}{"node": map[string]interface{}{"date": date}})
		break
	}
	return map[string]interface{}{"edges": edges}
}

func (d *Dataset) asns(asns []string) interface{} {
	edges := []interface{}{}
	for _, asn := range asns {
		rec := d.findASN(asn)
		if rec == nil {
			continue
		}
		node := map[string]interface{}{
			"asn":          rec.ASN,
			"asnName":      rec.Name,
			"rank":         rec.Rank,
			"organization": nil,
			"asnDegree":    nil,
		}
		if rec.OrgID != "" {
			org := map[string]interface{}{
				"orgId":   rec.OrgID,
				"orgName": rec.OrgName,
				"country": nil,
			}
			if rec.Country != "" {
				org["country"] = map[string]interface{}{"iso": rec.Country, "name": rec.CountryName}
			}
			node["organization"] = org
		}
		if rec.Degree != nil {
			node["asnDegree"] = rec.Degree
		}
		edges = append(edges, map[string]interface{}{"node": node})
	}
	return map[string]interface{}{"edges": edges}
}

func (d *Dataset) link(asn0, asn1 string) interface{} {
	for _, l := range d.Links {
		if l.From == asn0 && l.To == asn1 {
			return map[string]interface{}{"relationship": l.Rel}
		}
		if l.From == asn1 && l.To == asn0 {
			return map[string]interface{}{"relationship": invert(l.Rel)}
		}
	}
	return nil
}

func (d *Dataset) cone(root string) interface{} {
	members, ok := d.Cones[root]
	if !ok {
		return nil
	}
	edges := make([]interface{}, len(members))
	for i, asn := range members {
		edges[i] = map[string]interface{}{"node": map[string]interface{}{"asn": asn}}
	}
	return map[string]interface{}{"asns": map[string]interface{}{"edges": edges}}
}

func (d *Dataset) organization(orgID string) interface{} {
	for _, org := range d.Orgs {
		if org.ID != orgID {
			continue
		}
		total := org.TotalCount
		if total == 0 {
			total = len(org.Members)
		}
		edges := make([]interface{}, len(org.Members))
		for i, asn := range org.Members {
			var name string
			if rec := d.findASN(asn); rec != nil {
				name = rec.Name
			}
			edges[i] = map[string]interface{}{"node": map[string]interface{}{"asn": asn, "asnName": name}}
		}
		return map[string]interface{}{
			"orgId":   org.ID,
			"orgName": org.Name,
			"members": map[string]interface{}{
				"numberAsns":     total,
				"numberAsnsSeen": len(org.Members),
				"asns": map[string]interface{}{
					"totalCount": total,
					"edges":      edges,
				},
			},
		}
	}
	return nil
}

func (d *Dataset) neighbors(asn string) interface{} {
	if d.findASN(asn) == nil {
		return nil
	}
	edges := []interface{}{}
	add := func(nbr, rel string) {
		edges = append(edges, map[string]interface{}{"node": map[string]interface{}{
			"asn1":         map[string]interface{}{"asn": nbr},
			"relationship": rel,
		}})
	}
	for _, l := range d.Links {
		if l.From == asn {
			add(l.To, l.Rel)
		} else if l.To == asn {
			add(l.From, invert(l.Rel))
		}
	}
	return map[string]interface{}{"asn": asn, "asnLinks": map[string]interface{}{"edges": edges}}
}

func (d *Dataset) findASN(asn string) *ASN {
	for i := range d.ASNs {
		if d.ASNs[i].ASN == asn {
			return &d.ASNs[i]
		}
	}
	return nil
}

func invert(rel string) string {
	switch rel {
	case "provider":
		return "customer"
	case "customer":
		return "provider"
	}
	return rel
}

// Sender answers queries from a Dataset in process. It satisfies
// transport.Sender.
type Sender struct {
	Dataset *Dataset
	// Override, if set, is consulted first. If it returns handled, its answer
	// is used instead of the dataset's.
	Override func(query string) (data json.RawMessage, handled bool, err error)

	count   atomic.Uint64
	closed  atomic.Bool
	lock    sync.Mutex
	queries []string
}

func NewSender(d *Dataset) *Sender {
	return &Sender{Dataset: d}
}

func (s *Sender) Send(ctx context.Context, query string) (json.RawMessage, error) {
	s.count.Add(1)
	s.lock.Lock()
	s.queries = append(s.queries, query)
	s.lock.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Override != nil {
		if data, ok, err := s.Override(query); ok {
			return data, err
		}
	}
	return s.Dataset.Answer(query)
}

func (s *Sender) QueriesSent() uint64 {
	return s.count.Load()
}

func (s *Sender) Close() {
	s.closed.Store(true)
}

// Closed returns true if Close was called.
func (s *Sender) Closed() bool {
	return s.closed.Load()
}

// Queries returns all queries sent so far.
func (s *Sender) Queries() []string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]string(nil), s.queries...)
}

// Handler serves the Dataset as a GraphQL HTTP endpoint.
func (d *Dataset) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var req struct {
			Query string `json:"query"`
		}
		if err = json.Unmarshal(body, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		data, err := d.Answer(req.Query)
		if err != nil {
			resp, _ := json.Marshal(map[string]interface{}{
				"data":   nil,
				"errors": []interface{}{map[string]interface{}{"message": err.Error()}},
			})
			_, _ = w.Write(resp)
			return
		}
		resp, _ := json.Marshal(map[string]json.RawMessage{"data": data})
		_, _ = w.Write(resp)
	})
}
