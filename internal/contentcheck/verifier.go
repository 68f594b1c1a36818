// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package contentcheck

import (
	"fmt"
	"strings"

	"phishguard/internal/brand"
	"phishguard/internal/typosquat"
)

type businessIndicator struct {
	word  string
	label string
}

// Businesses that legitimately carry a brand-like word in their name without
// impersonating anyone: a school named after a donor, a hospital wing, a
// local club. Ordered so repeated verification of the same page always
// reports the same business type.
var businessIndicators = []businessIndicator{
	{"school", "school"},
	{"kindergarten", "school"},
	{"academy", "school"},
	{"college", "college"},
	{"university", "university"},
	{"hospital", "hospital"},
	{"clinic", "clinic"},
	{"church", "church"},
	{"parish", "church"},
	{"temple", "temple"},
	{"municipal", "government office"},
	{"ministry", "government office"},
	{"county", "government office"},
	{"newspaper", "news outlet"},
	{"news", "news outlet"},
	{"magazine", "news outlet"},
	{"club", "club"},
	{"society", "club"},
	{"restaurant", "restaurant"},
	{"cafe", "restaurant"},
	{"bakery", "restaurant"},
	{"hotel", "hotel"},
	{"museum", "museum"},
	{"library", "library"},
	{"charity", "charity"},
	{"foundation", "charity"},
}

// Verifier downgrades content-verifiable typosquat matches when the fetched
// page clearly belongs to an unrelated legitimate business.
type Verifier struct {
	brands *brand.Registry
}

func New(brands *brand.Registry) *Verifier {
	return &Verifier{brands: brands}
}

// Verify inspects page title and text against the matched brand's expected
// content. No-op unless the verdict is a match flagged for verification.
//
// Downgrade: an unrelated-business indicator is present and none of the
// brand's content keywords are. Confirm: brand content keywords are present;
// the verdict stays matched and is annotated as content-confirmed.
func (v *Verifier) Verify(verdict typosquat.Verdict, pageTitle, pageText string) typosquat.Verdict {
	if !verdict.IsMatch || !verdict.NeedsContentVerification {
		return verdict
	}

	content := strings.ToLower(pageTitle + " " + pageText)
	if strings.TrimSpace(content) == "" {
		return verdict
	}

	var expected []string
	if entry := v.brands.Get(verdict.Brand); entry != nil {
		expected = entry.ContentKeywords
	}

	brandContent := false
	for _, kw := range expected {
		if kw != "" && strings.Contains(content, kw) {
			brandContent = true
			break
		}
	}

	if brandContent {
		verdict.ContentVerified = true
		verdict.Rationale = append(verdict.Rationale, fmt.Sprintf(
			"Page content matches %s-industry keywords, impersonation confirmed", verdict.Brand))
		return verdict
	}

	for _, ind := range businessIndicators {
		if strings.Contains(content, ind.word) {
			return typosquat.Verdict{
				IsMatch:         false,
				Brand:           verdict.Brand,
				Method:          verdict.Method,
				Similarity:      verdict.Similarity,
				RiskWeight:      0,
				ContentVerified: true,
				Rationale: []string{fmt.Sprintf(
					"Content identifies an unrelated legitimate business (%s); '%s' match downgraded",
					ind.label, verdict.Brand)},
			}
		}
	}

	return verdict
}
