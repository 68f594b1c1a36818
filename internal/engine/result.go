// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package engine

import (
	"phishguard/internal/toolkit"
	"phishguard/internal/typosquat"
)

// Category is the final verdict for a URL.
type Category string

const (
	CategoryLegitimate Category = "legitimate"
	CategoryPhishing   Category = "phishing"
	CategoryAIPhishing Category = "ai_generated_phishing"
	CategoryToolkit    Category = "toolkit_phishing"
	CategoryUnknown    Category = "unknown"
)

// Mode records which analysis path produced the result.
type Mode string

const (
	ModeWhitelist    Mode = "whitelist"
	ModeOnline       Mode = "online"
	ModeOnlineFailed Mode = "online_failed"
	ModeOffline      Mode = "offline"
)

// Action is the recommended handling for the URL.
type Action string

const (
	ActionAllow Action = "allow"
	ActionWarn  Action = "warn"
	ActionBlock Action = "block"
)

// Result is the full classification output for one URL.
type Result struct {
	URL          string           `json:"url"`
	Category     Category         `json:"classification"`
	Confidence   float64          `json:"confidence"`
	RiskScore    float64          `json:"risk_score"`
	Rationale    string           `json:"rationale"`
	AnalysisMode Mode             `json:"analysis_mode"`
	Action       Action           `json:"recommended_action"`
	Typosquat    typosquat.Verdict `json:"typosquat"`
	Toolkit      *toolkit.Verdict `json:"toolkit,omitempty"`
	AIIndicators []string         `json:"ai_indicators,omitempty"`
	Technologies []string         `json:"technologies,omitempty"`
	Scraped      bool             `json:"scraped"`
}
