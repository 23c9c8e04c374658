package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ASN is the canonical identifier of an autonomous system. The ASRank API
// accepts and returns AS numbers as decimal strings, so that is the form used
// for all cache keys.
type ASN string

// ParseASN parses a decimal AS number, optionally prefixed with "AS" in any
// case, and returns its canonical form.
func ParseASN(s string) (ASN, error) {
	s = strings.TrimSpace(s)
	if len(s) > 2 && strings.EqualFold(s[:2], "as") {
		s = s[2:]
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return "", fmt.Errorf("invalid asn %q: %w", s, err)
	}
	return ASNFromUint32(uint32(n)), nil
}

// ParseASNs parses each string with ParseASN.
func ParseASNs(ss []string) ([]ASN, error) {
	asns := make([]ASN, len(ss))
	for i, s := range ss {
		asn, err := ParseASN(s)
		if err != nil {
			return nil, err
		}
		asns[i] = asn
	}
	return asns, nil
}

func ASNFromUint32(n uint32) ASN {
	return ASN(strconv.FormatUint(uint64(n), 10))
}

func (a ASN) String() string {
	return string(a)
}
