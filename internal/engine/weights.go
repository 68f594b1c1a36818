// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package engine

// Weights holds every tunable threshold and scoring constant of the decision
// chain. The values are hand-tuned and load-bearing; change them through
// configuration, not in scoring code.
type Weights struct {
	// Online content-based scoring.
	ImpersonationWeight      float64
	LoginWithImpersonation   float64
	MinimalContentWeight     float64
	ExcessiveInputsWeight    float64
	ExcessiveIframesWeight   float64
	ClassifierMaxWeight      float64
	ClassifierMinConfidence  float64
	CredibilityBonus         float64
	CredibilityMinLinks      int
	CredibilityMinTitleChars int

	PhishingThreshold float64
	BlockThreshold    float64

	// AI-generated content detection.
	AIContentThreshold float64

	// Fetch-failure degraded scoring.
	UnreachableBase          float64
	UnreachableRandomPenalty float64
	UnreachableIPPenalty     float64
	UnreachableBlockScore    float64
	UnreachableUnknownScore  float64

	// Offline static scoring.
	OfflineClassifierWeight float64
	OfflineRandomPenalty    float64
	OfflineConfidenceScale  float64
}

func DefaultWeights() Weights {
	return Weights{
		ImpersonationWeight:      60,
		LoginWithImpersonation:   30,
		MinimalContentWeight:     20,
		ExcessiveInputsWeight:    15,
		ExcessiveIframesWeight:   10,
		ClassifierMaxWeight:      30,
		ClassifierMinConfidence:  0.9,
		CredibilityBonus:         40,
		CredibilityMinLinks:      10,
		CredibilityMinTitleChars: 3,

		PhishingThreshold: 40,
		BlockThreshold:    70,

		AIContentThreshold: 0.5,

		UnreachableBase:          30,
		UnreachableRandomPenalty: 25,
		UnreachableIPPenalty:     15,
		UnreachableBlockScore:    60,
		UnreachableUnknownScore:  35,

		OfflineClassifierWeight: 50,
		OfflineRandomPenalty:    45,
		OfflineConfidenceScale:  0.9,
	}
}

// DefaultWhitelist covers infrastructure and marketing domains whose URLs
// look messy but are always legitimate.
var DefaultWhitelist = []string{
	"customeriomail.com", "sendgrid.net", "mailchimp.com", "google.com",
	"github.com", "microsoft.com", "cursor.com", "cursor.sh",
	"amazonaws.com", "azure.com", "googleapis.com", "gstatic.com",
	"slack.com", "zoom.us", "atlassian.com", "linear.app", "stripe.com",
}
