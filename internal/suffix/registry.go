// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package suffix

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// Registry holds the set of valid domain suffixes. It is immutable after
// construction; reloads build a new Registry and swap it atomically at a
// higher layer.
type Registry struct {
	set map[string]struct{}
}

// Second-level labels that are conventionally part of the suffix under a
// ccTLD (co.uk, ac.in, nic.in) even when not listed in the registry file.
var commonSecondLevel = map[string]struct{}{
	"co":  {},
	"com": {},
	"org": {},
	"net": {},
	"gov": {},
	"ac":  {},
	"edu": {},
	"nic": {},
	"res": {},
}

// Minimal fallback used when the suffix file cannot be loaded. Startup must
// not fail on a missing data file.
var fallbackSuffixes = []string{
	"com", "org", "net", "edu", "gov", "mil", "int", "io", "co",
	"in", "uk", "us", "de", "fr", "jp", "cn", "au", "ca", "br",
	"ru", "it", "es", "nl", "ch", "se", "bank",
}

func NewFromList(suffixes []string) *Registry {
	set := make(map[string]struct{}, len(suffixes))
	for _, s := range suffixes {
		s = strings.ToLower(strings.Trim(strings.TrimSpace(s), "."))
		if s != "" {
			set[s] = struct{}{}
		}
	}
	return &Registry{set: set}
}

// Load reads a JSON array of suffixes from path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suffix file: %w", err)
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse suffix file %s: %w", path, err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("suffix file %s is empty", path)
	}
	return NewFromList(list), nil
}

// LoadOrFallback loads the suffix file, falling back to the built-in minimal
// set when the file is missing or malformed.
func LoadOrFallback(path string) *Registry {
	reg, err := Load(path)
	if err != nil {
		slog.Warn("Suffix registry load failed, using fallback set", "path", path, "error", err)
		return NewFromList(fallbackSuffixes)
	}
	slog.Info("Suffix registry loaded", "path", path, "suffixes", len(reg.set))
	return reg
}

// Known reports whether a single label is a registered suffix.
func (r *Registry) Known(label string) bool {
	_, ok := r.set[strings.ToLower(label)]
	return ok
}

// IsValidSuffix reports whether a suffix string such as "com", "co.uk" or
// "bank.in" is valid. A two-label suffix is accepted when either label alone
// is a known suffix (co.uk, ac.in) or when both labels are independently
// known (bank.in). Hosts like netbanking.kotak.bank.in depend on this rule.
func (r *Registry) IsValidSuffix(s string) bool {
	s = strings.ToLower(strings.Trim(s, "."))
	if s == "" {
		return false
	}
	if r.Known(s) {
		return true
	}
	parts := strings.Split(s, ".")
	if len(parts) == 2 {
		return r.Known(parts[0]) || r.Known(parts[1])
	}
	return false
}

// All returns the registered suffixes in sorted order.
func (r *Registry) All() []string {
	out := make([]string, 0, len(r.set))
	for s := range r.set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) Len() int {
	return len(r.set)
}
