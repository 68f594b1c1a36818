// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// Package features extracts lexical statistics from raw URLs. Extraction is
// pure and total: any string yields a feature set, malformed URLs included.
package features

import (
	"math"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"phishguard/internal/suffix"
)

// Set is the lexical feature vector for one URL.
type Set struct {
	URLLength    int `json:"url_length"`
	DomainLength int `json:"domain_length"`
	PathLength   int `json:"path_length"`

	NumDots          int `json:"num_dots"`
	NumHyphens       int `json:"num_hyphens"`
	NumUnderscores   int `json:"num_underscores"`
	NumSlashes       int `json:"num_slashes"`
	NumQuestionMarks int `json:"num_question_marks"`
	NumEquals        int `json:"num_equals"`
	NumAt            int `json:"num_at"`
	NumAmpersand     int `json:"num_ampersand"`
	NumDigits        int `json:"num_digits"`

	IsHTTPS        bool `json:"is_https"`
	HasPort        bool `json:"has_port"`
	IsIPAddress    bool `json:"is_ip_address"`
	SubdomainCount int  `json:"subdomain_count"`

	SuspiciousWords int     `json:"suspicious_words"`
	Entropy         float64 `json:"entropy"`
	DomainEntropy   float64 `json:"domain_entropy"`
	IsRandomDomain  bool    `json:"is_random_domain"`
}

var suspiciousWords = []string{
	"login", "signin", "account", "update", "verify", "secure",
	"banking", "paypal", "ebay", "amazon", "confirm",
}

var ipv4Pattern = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)

// Extractor derives feature sets. The suffix registry separates registrable
// domain from suffix so subdomain counts and domain entropy are computed on
// the right labels.
type Extractor struct {
	suffixes *suffix.Registry
}

func New(suffixes *suffix.Registry) *Extractor {
	return &Extractor{suffixes: suffixes}
}

// Extract computes the feature set for rawURL. Never fails; an unparseable
// URL still yields character counts and whole-string entropy.
func (e *Extractor) Extract(rawURL string) Set {
	s := Set{
		URLLength:        len(rawURL),
		NumDots:          strings.Count(rawURL, "."),
		NumHyphens:       strings.Count(rawURL, "-"),
		NumUnderscores:   strings.Count(rawURL, "_"),
		NumSlashes:       strings.Count(rawURL, "/"),
		NumQuestionMarks: strings.Count(rawURL, "?"),
		NumEquals:        strings.Count(rawURL, "="),
		NumAt:            strings.Count(rawURL, "@"),
		NumAmpersand:     strings.Count(rawURL, "&"),
		Entropy:          shannonEntropy(rawURL),
	}
	for _, r := range rawURL {
		if unicode.IsDigit(r) {
			s.NumDigits++
		}
	}

	lower := strings.ToLower(rawURL)
	for _, w := range suspiciousWords {
		if strings.Contains(lower, w) {
			s.SuspiciousWords++
		}
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		// Retry with an assumed scheme so bare hosts still parse.
		u, err = url.Parse("http://" + rawURL)
		if err != nil || u.Hostname() == "" {
			return s
		}
	} else {
		s.IsHTTPS = u.Scheme == "https"
	}
	s.PathLength = len(u.Path)
	s.HasPort = u.Port() != ""

	host := strings.ToLower(u.Hostname())
	if ipv4Pattern.MatchString(host) {
		s.IsIPAddress = true
		s.DomainLength = len(host)
		return s
	}

	parts := e.suffixes.Parse(host)
	s.SubdomainCount = len(parts.Subdomains)
	s.DomainLength = len(parts.Registrable)
	s.DomainEntropy = shannonEntropy(parts.Registrable)
	s.IsRandomDomain = looksRandom(parts.Registrable, s.DomainEntropy)
	return s
}

// looksRandom flags registrable labels with the vowel starvation, long
// consonant runs, or digit-heavy high entropy typical of generated domains.
func looksRandom(domain string, entropy float64) bool {
	if len(domain) < 8 {
		return false
	}
	var letters, vowels, digits, run, maxRun int
	for _, r := range domain {
		switch {
		case unicode.IsDigit(r):
			digits++
			run = 0
		case unicode.IsLetter(r):
			letters++
			if isVowel(r) {
				vowels++
				run = 0
			} else {
				run++
				if run > maxRun {
					maxRun = run
				}
			}
		default:
			run = 0
		}
	}
	if letters == 0 {
		return digits > 0
	}
	vowelRatio := float64(vowels) / float64(letters)
	if vowelRatio < 0.2 || maxRun >= 5 {
		return true
	}
	return digits >= 3 && entropy > 3.0
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

func shannonEntropy(text string) float64 {
	if text == "" {
		return 0
	}
	counts := make(map[rune]int)
	total := 0
	for _, r := range text {
		counts[r]++
		total++
	}
	var entropy float64
	for _, c := range counts {
		p := float64(c) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}
