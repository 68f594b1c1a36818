// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package toolkit

import (
	"net/url"
	"strings"

	"phishguard/internal/suffix"
)

// Verdict reports which known phishing toolkit, if any, produced a page.
type Verdict struct {
	Detected        bool     `json:"detected"`
	Toolkit         string   `json:"toolkit,omitempty"`
	Confidence      float64  `json:"confidence"`
	SignaturesFound []string `json:"signatures_found,omitempty"`
}

// FormInfo is the structural summary of one HTML form.
type FormInfo struct {
	Action     string
	Method     string
	InputNames []string
	InputTypes []string
}

// Weights holds every tunable constant of the scanner. Detection code never
// embeds these numbers directly; behavioral tuning happens here.
type Weights struct {
	DetectionThreshold float64

	GophishParam  float64
	GophishHeader float64
	GophishHTML   float64
	GophishJS     float64
	GophishForm   float64

	HiddenEyeURL  float64
	HiddenEyeHTML float64
	HiddenEyeMeta float64
	HiddenEyeJS   float64

	KingPhisherParam  float64
	KingPhisherHeader float64
	KingPhisherHTML   float64
	KingPhisherJS     float64

	SocialFishURL  float64
	SocialFishJS   float64
	SocialFishForm float64

	EvilginxDepth         float64
	EvilginxRedirect      float64
	EvilginxURL           float64
	EvilginxLoneCap       float64
	EvilginxMinSignatures int
	DeepSubdomainDepth    int

	GenericHost float64
	GenericHTML float64
	GenericJS   float64
	GenericForm float64
}

func DefaultWeights() Weights {
	return Weights{
		DetectionThreshold: 0.3,

		GophishParam:  0.5,
		GophishHeader: 0.6,
		GophishHTML:   0.3,
		GophishJS:     0.2,
		GophishForm:   0.4,

		HiddenEyeURL:  0.3,
		HiddenEyeHTML: 0.3,
		HiddenEyeMeta: 0.5,
		HiddenEyeJS:   0.4,

		KingPhisherParam:  0.2,
		KingPhisherHeader: 0.6,
		KingPhisherHTML:   0.5,
		KingPhisherJS:     0.3,

		SocialFishURL:  0.3,
		SocialFishJS:   0.4,
		SocialFishForm: 0.3,

		EvilginxDepth:         0.15,
		EvilginxRedirect:      0.25,
		EvilginxURL:           0.15,
		EvilginxLoneCap:       0.25,
		EvilginxMinSignatures: 2,
		DeepSubdomainDepth:    3,

		GenericHost: 0.3,
		GenericHTML: 0.15,
		GenericJS:   0.2,
		GenericForm: 0.2,
	}
}

// Scanner fingerprints known phishing frameworks from fetched page content.
// Subdomain depth is computed through the suffix registry so multi-part
// suffixes like bank.in never inflate the count.
type Scanner struct {
	suffixes *suffix.Registry
	weights  Weights
}

func New(suffixes *suffix.Registry, weights Weights) *Scanner {
	return &Scanner{suffixes: suffixes, weights: weights}
}

type familyResult struct {
	name       string
	score      float64
	signatures []string
}

// Scan accumulates a weighted score per toolkit family and reports the
// highest-scoring family when it clears the detection threshold.
func (s *Scanner) Scan(rawURL, html string, headers map[string]string, forms []FormInfo) Verdict {
	if html == "" && len(headers) == 0 && len(forms) == 0 {
		return Verdict{}
	}

	page := pageInput{
		rawURL:  rawURL,
		html:    html,
		headers: lowerKeys(headers),
		forms:   forms,
	}
	if u, err := url.Parse(rawURL); err == nil {
		page.host = strings.ToLower(u.Hostname())
		page.path = u.Path
		page.query = u.Query()
	}

	results := []familyResult{
		s.checkGophish(page),
		s.checkHiddenEye(page),
		s.checkKingPhisher(page),
		s.checkSocialFish(page),
		s.checkEvilginx(page),
		s.checkGenericKit(page),
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.score > best.score {
			best = r
		}
	}

	if best.score < s.weights.DetectionThreshold {
		return Verdict{}
	}
	confidence := best.score
	if confidence > 1.0 {
		confidence = 1.0
	}
	return Verdict{
		Detected:        true,
		Toolkit:         best.name,
		Confidence:      confidence,
		SignaturesFound: best.signatures,
	}
}

type pageInput struct {
	rawURL  string
	host    string
	path    string
	query   url.Values
	html    string
	headers map[string]string
	forms   []FormInfo
}

func (p pageInput) hasQueryParam(name string) bool {
	if p.query == nil {
		return false
	}
	_, ok := p.query[name]
	return ok
}

func (p pageInput) hasHeader(name string) bool {
	_, ok := p.headers[strings.ToLower(name)]
	return ok
}

func lowerKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

func formInputNames(f FormInfo) map[string]bool {
	names := make(map[string]bool, len(f.InputNames))
	for _, n := range f.InputNames {
		names[strings.ToLower(n)] = true
	}
	return names
}

func formInputTypes(f FormInfo) map[string]bool {
	types := make(map[string]bool, len(f.InputTypes))
	for _, t := range f.InputTypes {
		types[strings.ToLower(t)] = true
	}
	return types
}
