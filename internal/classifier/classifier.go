// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// Package classifier scores lexical feature sets for phishing likelihood.
// The scorer is a calibrated heuristic over the same feature vector a
// trained model would consume, so the engine's contract does not change
// when a learned model is swapped in.
package classifier

import "phishguard/internal/features"

// Label values returned by Predict.
const (
	LabelLegitimate = 0
	LabelPhishing   = 1
)

// Heuristic weighs the strongest lexical phishing indicators. Pure, no I/O.
type Heuristic struct{}

func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Predict returns a binary label and the confidence in that label.
func (h *Heuristic) Predict(f features.Set) (label int, confidence float64) {
	score := 0.0

	if f.IsRandomDomain {
		score += 0.30
	}
	if f.IsIPAddress {
		score += 0.20
	}
	if f.NumAt > 0 {
		score += 0.15
	}
	if n := f.SuspiciousWords; n > 0 {
		w := float64(n) * 0.08
		if w > 0.24 {
			w = 0.24
		}
		score += w
	}
	if !f.IsHTTPS {
		score += 0.10
	}
	if f.Entropy > 4.5 {
		score += 0.10
	}
	if f.DomainEntropy > 3.5 {
		score += 0.10
	}
	if f.NumHyphens > 3 {
		score += 0.05
	}
	if f.SubdomainCount > 2 {
		score += 0.05
	}

	if score > 1.0 {
		score = 1.0
	}
	if score >= 0.5 {
		return LabelPhishing, score
	}
	return LabelLegitimate, 1.0 - score
}
