// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package contentcheck

import (
	"strings"
	"testing"

	"phishguard/internal/brand"
	"phishguard/internal/typosquat"
)

func testVerifier() *Verifier {
	return New(brand.New([]brand.Entry{
		{Key: "kotak", CanonicalDomains: []string{"kotak.com"}, Industry: "banking", ContentKeywords: []string{"bank", "loan", "netbanking"}},
		{Key: "paypal", CanonicalDomains: []string{"paypal.com"}, Industry: "payments", ContentKeywords: []string{"payment", "pay"}},
	}))
}

func matchVerdict(brandKey string) typosquat.Verdict {
	return typosquat.Verdict{
		IsMatch:                  true,
		Brand:                    brandKey,
		Method:                   typosquat.MethodBrandInLabel,
		Similarity:               0.9,
		RiskWeight:               50,
		NeedsContentVerification: true,
		Rationale:                []string{"contains brand keyword"},
	}
}

func TestVerify_DowngradesUnrelatedBusiness(t *testing.T) {
	v := testVerifier()
	got := v.Verify(matchVerdict("kotak"),
		"St. Kotak Salesian School",
		"Admissions open for the 2026 academic year. Visit our campus in Vizag.")

	if got.IsMatch {
		t.Fatalf("expected downgrade, got %+v", got)
	}
	if got.RiskWeight != 0 || !got.ContentVerified {
		t.Errorf("expected zero weight and content_verified, got %+v", got)
	}
	if len(got.Rationale) == 0 || !strings.Contains(got.Rationale[0], "school") {
		t.Errorf("rationale should name the business type: %v", got.Rationale)
	}
}

func TestVerify_BrandKeywordsBlockDowngrade(t *testing.T) {
	v := testVerifier()
	got := v.Verify(matchVerdict("kotak"),
		"Kotak School of Netbanking",
		"Log in to your bank account to continue.")

	if !got.IsMatch {
		t.Fatalf("verdict with brand content keywords must stay matched: %+v", got)
	}
	if !got.ContentVerified {
		t.Error("confirmed verdict should be annotated content-verified")
	}
	if got.RiskWeight != 50 {
		t.Errorf("confirmation must not change risk weight, got %d", got.RiskWeight)
	}
}

func TestVerify_NoOpCases(t *testing.T) {
	v := testVerifier()

	clean := typosquat.Verdict{}
	if got := v.Verify(clean, "A School Site", "hospital church"); got.IsMatch || got.ContentVerified {
		t.Errorf("non-match verdict must pass through: %+v", got)
	}

	homoglyph := typosquat.Verdict{
		IsMatch:    true,
		Brand:      "paypal",
		Method:     typosquat.MethodHomoglyphMatch,
		Similarity: 0.95,
		RiskWeight: 60,
	}
	if got := v.Verify(homoglyph, "Community School", "school news"); !got.IsMatch || got.RiskWeight != 60 {
		t.Errorf("homoglyph verdict must never be downgraded: %+v", got)
	}

	flagged := matchVerdict("paypal")
	if got := v.Verify(flagged, "", ""); !got.IsMatch {
		t.Errorf("empty content must not downgrade: %+v", got)
	}
}

func TestVerify_NoIndicatorNoChange(t *testing.T) {
	v := testVerifier()
	got := v.Verify(matchVerdict("paypal"), "Welcome", "Enter your details to continue.")
	if !got.IsMatch || got.RiskWeight != 50 || got.ContentVerified {
		t.Errorf("no indicators should leave verdict untouched: %+v", got)
	}
}
