// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package engine

import (
	"fmt"
	"regexp"
	"strings"

	"phishguard/internal/fetch"
)

// Machine-written phishing copy has a recognizable register: filler
// transitions, templated threats, generic salutations, urgency stacking.
var aiPhrases = []string{
	"as an ai", "i cannot", "i am unable", "it is important to",
	"please note that", "in conclusion", "furthermore", "moreover",
	"it is worth noting", "in order to", "at the end of the day",
	"in the event that", "with that being said", "needless to say",
}

var aiPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)dear\s+valued?\s+customer`),
	regexp.MustCompile(`(?i)your\s+account\s+has\s+been\s+(?:suspended|locked|compromised)`),
	regexp.MustCompile(`(?i)verify\s+your\s+(?:identity|account|information)\s+immediately`),
	regexp.MustCompile(`(?i)failure\s+to\s+(?:verify|respond|confirm)\s+will\s+result`),
	regexp.MustCompile(`(?i)we\s+(?:have\s+)?noticed\s+(?:some\s+)?(?:suspicious|unusual)\s+activity`),
	regexp.MustCompile(`(?i)click\s+(?:the\s+)?(?:link|button)\s+(?:below|here)\s+to\s+(?:verify|confirm|secure)`),
}

var urgencyWords = []string{
	"immediately", "urgent", "expires", "suspended", "locked", "verify now", "act now",
}

var genericGreetings = []string{
	"dear customer", "dear user", "dear valued", "dear member", "dear account holder",
}

const (
	aiPhraseWeight       = 0.1
	aiPatternWeight      = 0.15
	aiUrgencyWeight      = 0.2
	aiGreetingWeight     = 0.15
	aiMinimalLoginWeight = 0.2
)

// scoreAIContent rates how strongly the page text reads like generated
// phishing copy. Returns a score in [0,1] and the indicators that fired.
func scoreAIContent(title string, dom fetch.Summary) (float64, []string) {
	content := title + " " + dom.Text
	if strings.TrimSpace(content) == "" {
		return 0, nil
	}

	lower := strings.ToLower(content)
	var indicators []string
	score := 0.0

	for _, phrase := range aiPhrases {
		if strings.Contains(lower, phrase) {
			indicators = append(indicators, fmt.Sprintf("AI phrase: %q", phrase))
			score += aiPhraseWeight
		}
	}

	for _, re := range aiPatterns {
		if m := re.FindString(content); m != "" {
			if len(m) > 50 {
				m = m[:50]
			}
			indicators = append(indicators, fmt.Sprintf("Suspicious pattern: %q", m))
			score += aiPatternWeight
		}
	}

	urgency := 0
	for _, w := range urgencyWords {
		if strings.Contains(lower, w) {
			urgency++
		}
	}
	if urgency >= 2 {
		indicators = append(indicators, fmt.Sprintf("Multiple urgency words (%d)", urgency))
		score += aiUrgencyWeight
	}

	for _, g := range genericGreetings {
		if strings.Contains(lower, g) {
			indicators = append(indicators, fmt.Sprintf("Generic greeting: %q", g))
			score += aiGreetingWeight
			break
		}
	}

	if dom.HasLoginForm && dom.NumLinks < 5 && dom.NumForms <= 2 {
		indicators = append(indicators, "Minimal page with login form")
		score += aiMinimalLoginWeight
	}

	if score > 1.0 {
		score = 1.0
	}
	return score, indicators
}
