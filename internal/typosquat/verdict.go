// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package typosquat

// Method identifies which rule produced a typosquatting verdict.
type Method string

const (
	MethodInvalidSuffix        Method = "invalid_suffix"
	MethodInvalidHostStructure Method = "invalid_host_structure"
	MethodBrandInLabel         Method = "brand_in_label"
	MethodSimilarityMatch      Method = "similarity_match"
	MethodHomoglyphMatch       Method = "homoglyph_match"
	MethodSubdomainAttack      Method = "subdomain_attack"
)

// Structural reports whether the method is terminal and structural: no
// legitimate business can operate a host with an invalid suffix or no
// suffix at all, so these verdicts are never subject to content override.
func (m Method) Structural() bool {
	return m == MethodInvalidSuffix || m == MethodInvalidHostStructure
}

// Verdict is the detector's structured result for one URL.
type Verdict struct {
	IsMatch                  bool     `json:"is_match"`
	Brand                    string   `json:"brand,omitempty"`
	Method                   Method   `json:"method,omitempty"`
	Similarity               float64  `json:"similarity"`
	RiskWeight               int      `json:"risk_weight"`
	NeedsContentVerification bool     `json:"needs_content_verification"`
	ContentVerified          bool     `json:"content_verified"`
	Rationale                []string `json:"rationale,omitempty"`
}
