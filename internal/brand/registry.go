// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package brand

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// Entry describes one protected brand: the keyword attackers imitate, the
// domains the brand actually operates, its industry, and the content words a
// genuine page for that brand is expected to contain.
type Entry struct {
	Key              string   `json:"key"`
	CanonicalDomains []string `json:"canonical_domains"`
	Industry         string   `json:"industry"`
	ContentKeywords  []string `json:"content_keywords"`
}

// Registry is an immutable brand lookup built once at load time.
type Registry struct {
	entries []Entry
	byKey   map[string]*Entry
}

func New(entries []Entry) *Registry {
	reg := &Registry{byKey: make(map[string]*Entry, len(entries))}
	for _, e := range entries {
		e.Key = strings.ToLower(strings.TrimSpace(e.Key))
		if e.Key == "" {
			continue
		}
		for i, d := range e.CanonicalDomains {
			e.CanonicalDomains[i] = strings.ToLower(strings.TrimSpace(d))
		}
		for i, k := range e.ContentKeywords {
			e.ContentKeywords[i] = strings.ToLower(strings.TrimSpace(k))
		}
		reg.entries = append(reg.entries, e)
	}
	// Longer keywords first so "bankofamerica" wins over "bank"-like prefixes,
	// then alphabetical for deterministic scan order.
	sort.SliceStable(reg.entries, func(i, j int) bool {
		if len(reg.entries[i].Key) != len(reg.entries[j].Key) {
			return len(reg.entries[i].Key) > len(reg.entries[j].Key)
		}
		return reg.entries[i].Key < reg.entries[j].Key
	})
	for i := range reg.entries {
		reg.byKey[reg.entries[i].Key] = &reg.entries[i]
	}
	return reg
}

// Load reads a JSON array of entries from path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read brand file: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse brand file %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("brand file %s is empty", path)
	}
	return New(entries), nil
}

// LoadOrFallback loads the brand file, falling back to the built-in defaults
// when the file is missing or malformed.
func LoadOrFallback(path string) *Registry {
	reg, err := Load(path)
	if err != nil {
		slog.Warn("Brand registry load failed, using built-in set", "path", path, "error", err)
		return New(defaultEntries())
	}
	slog.Info("Brand registry loaded", "path", path, "brands", len(reg.entries))
	return reg
}

// Entries returns the entries in scan order. Callers must not mutate.
func (r *Registry) Entries() []Entry {
	return r.entries
}

// Get returns the entry for a brand keyword, or nil.
func (r *Registry) Get(key string) *Entry {
	return r.byKey[strings.ToLower(key)]
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// IsCanonicalHost reports whether host belongs to the brand's own domains:
// either the canonical domain itself or a subdomain of it.
func (e *Entry) IsCanonicalHost(host string) bool {
	host = strings.ToLower(host)
	for _, d := range e.CanonicalDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
