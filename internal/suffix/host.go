// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package suffix

import (
	"strings"

	"golang.org/x/net/idna"
)

// HostParts is the lossless decomposition of a host into subdomain labels,
// the registrable label, and the suffix labels. Joining the three groups in
// order reconstructs the case-normalized host.
type HostParts struct {
	Subdomains  []string
	Registrable string
	Suffix      []string
}

// SuffixString returns the suffix labels joined with dots. The suffix slice
// is empty only for single-label hosts; an unrecognized trailing label still
// occupies the suffix position.
func (p HostParts) SuffixString() string {
	return strings.Join(p.Suffix, ".")
}

// RegistrableDomain returns registrable label plus suffix, e.g. "kotak.bank.in".
func (p HostParts) RegistrableDomain() string {
	if len(p.Suffix) == 0 {
		return p.Registrable
	}
	return p.Registrable + "." + p.SuffixString()
}

// NormalizeHost lowercases and trims a host and maps IDNA forms to ASCII
// where possible. Hosts that fail IDNA mapping are returned lowercased
// rather than rejected; the caller decides what an unparseable host means.
func NormalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.Trim(host, ".")
	p := idna.New(idna.MapForLookup(), idna.Transitional(false))
	if ascii, err := p.ToASCII(host); err == nil && ascii != "" {
		return ascii
	}
	return host
}

// Parse splits a host into HostParts. The trailing label always occupies the
// suffix position, registered or not; a second label is also consumed when it
// is registered (bank.in) or is a conventional second-level label (co.uk,
// ac.in). At least one label is always left as the registrable label, so an
// unknown trailing label never shifts it and never inflates subdomain depth.
func (r *Registry) Parse(host string) HostParts {
	host = strings.ToLower(strings.Trim(strings.TrimSpace(host), "."))
	if host == "" {
		return HostParts{}
	}
	parts := strings.Split(host, ".")
	n := len(parts)
	if n == 1 {
		return HostParts{Registrable: parts[0]}
	}

	consumed := 1
	if r.Known(parts[n-1]) && n >= 3 {
		second := parts[n-2]
		if r.Known(second) {
			consumed = 2
		} else if _, ok := commonSecondLevel[second]; ok {
			consumed = 2
		}
	}
	if consumed > n-1 {
		consumed = n - 1
	}

	return HostParts{
		Subdomains:  parts[:n-consumed-1],
		Registrable: parts[n-consumed-1],
		Suffix:      parts[n-consumed:],
	}
}

// SubdomainDepth counts the labels to the left of the registrable label,
// ignoring labels consumed as suffix. Never negative.
func (r *Registry) SubdomainDepth(host string) int {
	return len(r.Parse(host).Subdomains)
}
