// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package typosquat

import (
	"fmt"
	"net/url"
	"strings"

	"phishguard/internal/brand"
	"phishguard/internal/suffix"
)

// Common misspellings of real suffixes seen in the wild. Checked before
// generic suffix validation so the message can name the intended suffix.
var suffixTypos = map[string]string{
	"corn": "com",
	"con":  "com",
	"cm":   "com",
	"om":   "com",
	"vom":  "com",
	"xom":  "com",
	"pom":  "com",
	"comm": "com",
	"cpm":  "com",
	"ner":  "net",
	"nte":  "net",
	"met":  "net",
	"ogr":  "org",
	"orgg": "org",
	"ord":  "org",
	"ln":   "in",
}

// closestSuffixThreshold is the minimum edit similarity for naming a likely
// intended suffix in an unknown-suffix verdict.
const closestSuffixThreshold = 0.75

// Detector flags brand impersonation and structural host defects. It is a
// total function over its input: absence of a signal is a non-match verdict,
// never an error.
type Detector struct {
	suffixes *suffix.Registry
	brands   *brand.Registry
}

func New(suffixes *suffix.Registry, brands *brand.Registry) *Detector {
	return &Detector{suffixes: suffixes, brands: brands}
}

// Analyze evaluates a URL against the ordered rule set. The first matching
// rule wins. Rules 1-3 are structural and terminal; rules 4-5 are brand
// comparisons whose verdicts may later be overridden by content verification.
func (d *Detector) Analyze(rawURL string) Verdict {
	host := extractHost(rawURL)
	if host == "" {
		return Verdict{
			IsMatch:    true,
			Method:     MethodInvalidHostStructure,
			Similarity: 1.0,
			RiskWeight: 80,
			Rationale:  []string{"URL has no recognizable host"},
		}
	}

	// Rule 1: a host with no separator at all cannot be a registered domain.
	if !strings.Contains(host, ".") {
		if host == "localhost" {
			return Verdict{}
		}
		return Verdict{
			IsMatch:    true,
			Method:     MethodInvalidHostStructure,
			Similarity: 1.0,
			RiskWeight: 80,
			Rationale:  []string{fmt.Sprintf("Host '%s' has no domain separator", host)},
		}
	}

	asciiHost := suffix.NormalizeHost(host)
	parts := d.suffixes.Parse(asciiHost)

	// Candidate suffix: the parsed suffix, or the last label when nothing
	// was recognized as a suffix.
	candidate := parts.SuffixString()
	if candidate == "" {
		labels := strings.Split(asciiHost, ".")
		candidate = labels[len(labels)-1]
	}

	// Rule 2: known suffix misspellings.
	if intended, ok := suffixTypos[candidate]; ok {
		return Verdict{
			IsMatch:    true,
			Method:     MethodInvalidSuffix,
			Similarity: 0.9,
			RiskWeight: 55,
			Rationale: []string{fmt.Sprintf(
				"Suffix '.%s' appears to be a misspelling of '.%s'", candidate, intended)},
		}
	}

	// Rule 3: the suffix must exist at all.
	if !d.suffixes.IsValidSuffix(candidate) {
		msg := fmt.Sprintf("Suffix '.%s' is not a recognized domain suffix", candidate)
		if closest, sim := d.closestSuffix(candidate); closest != "" && sim >= closestSuffixThreshold {
			msg = fmt.Sprintf("Suffix '.%s' is not recognized; likely a typo of '.%s'", candidate, closest)
		}
		return Verdict{
			IsMatch:    true,
			Method:     MethodInvalidSuffix,
			Similarity: 1.0,
			RiskWeight: 75,
			Rationale:  []string{msg},
		}
	}

	// Hosts operated by a protected brand are never impersonation.
	lowerHost := strings.ToLower(strings.Trim(host, "."))
	for _, entry := range d.brands.Entries() {
		if entry.IsCanonicalHost(lowerHost) || entry.IsCanonicalHost(asciiHost) {
			return Verdict{}
		}
	}

	// Brand comparisons run on the Unicode form of the host so homoglyph
	// characters survive until normalization.
	uniParts := d.suffixes.Parse(lowerHost)
	label := uniParts.Registrable

	// Rule 4: brand scan over the registrable label.
	for _, entry := range d.brands.Entries() {
		if v, ok := d.matchBrandLabel(label, entry); ok {
			return v
		}
	}

	// Rule 5: brand keyword hidden in a subdomain label.
	for _, sub := range uniParts.Subdomains {
		for _, entry := range d.brands.Entries() {
			if strings.Contains(sub, entry.Key) {
				return Verdict{
					IsMatch:                  true,
					Brand:                    entry.Key,
					Method:                   MethodSubdomainAttack,
					Similarity:               0.85,
					RiskWeight:               45,
					NeedsContentVerification: true,
					Rationale: []string{fmt.Sprintf(
						"Subdomain '%s' uses '%s' to appear legitimate", sub, entry.Key)},
				}
			}
		}
	}

	return Verdict{}
}

func (d *Detector) matchBrandLabel(label string, entry brand.Entry) (Verdict, bool) {
	key := entry.Key

	if strings.Contains(label, key) {
		return Verdict{
			IsMatch:                  true,
			Brand:                    key,
			Method:                   MethodBrandInLabel,
			Similarity:               0.9,
			RiskWeight:               50,
			NeedsContentVerification: true,
			Rationale: []string{fmt.Sprintf(
				"Label '%s' contains '%s' but host is not a %s domain", label, key, key)},
		}, true
	}

	if sim := Similarity(label, key); sim > 0.7 && sim < 1.0 {
		return Verdict{
			IsMatch:                  true,
			Brand:                    key,
			Method:                   MethodSimilarityMatch,
			Similarity:               sim,
			RiskWeight:               int(sim * 50),
			NeedsContentVerification: true,
			Rationale: []string{fmt.Sprintf(
				"Label '%s' is %.1f%% similar to '%s'", label, sim*100, key)},
		}, true
	}

	// Homoglyph substitution has no legitimate use, so this match is not
	// subject to content verification.
	if norm := NormalizeHomoglyphs(label); norm == key || strings.Contains(norm, key) {
		return Verdict{
			IsMatch:    true,
			Brand:      key,
			Method:     MethodHomoglyphMatch,
			Similarity: 0.95,
			RiskWeight: 60,
			Rationale: []string{fmt.Sprintf(
				"Label '%s' uses character substitution to mimic '%s'", label, key)},
		}, true
	}

	return Verdict{}, false
}

func (d *Detector) closestSuffix(candidate string) (string, float64) {
	best := ""
	bestSim := 0.0
	for _, s := range d.suffixes.All() {
		if sim := Similarity(candidate, s); sim > bestSim {
			best, bestSim = s, sim
		}
	}
	return best, bestSim
}

// extractHost pulls the hostname out of a raw URL, tolerating a missing
// scheme. Returns "" when no host can be recovered.
func extractHost(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	candidate := rawURL
	if !strings.Contains(candidate, "://") {
		candidate = "http://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
