// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package brand

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsScanOrder(t *testing.T) {
	reg := New(defaultEntries())
	entries := reg.Entries()
	for i := 1; i < len(entries); i++ {
		if len(entries[i].Key) > len(entries[i-1].Key) {
			t.Fatalf("entries not sorted longest-first: %q before %q", entries[i-1].Key, entries[i].Key)
		}
	}
	if reg.Get("paypal") == nil {
		t.Error("expected paypal in default set")
	}
	if reg.Get("kotak") == nil {
		t.Error("expected kotak in default set")
	}
}

func TestIsCanonicalHost(t *testing.T) {
	e := Entry{Key: "paypal", CanonicalDomains: []string{"paypal.com"}}
	for _, h := range []string{"paypal.com", "www.paypal.com", "checkout.paypal.com"} {
		if !e.IsCanonicalHost(h) {
			t.Errorf("expected canonical: %s", h)
		}
	}
	for _, h := range []string{"paypa1.com", "paypal.com.evil.xyz", "notpaypal.com"} {
		if e.IsCanonicalHost(h) {
			t.Errorf("expected non-canonical: %s", h)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brands.json")
	content := `[{"key":"acme","canonical_domains":["acme.com"],"industry":"tech","content_keywords":["widgets"]}]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	reg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if reg.Len() != 1 || reg.Get("acme") == nil {
		t.Error("expected single acme entry")
	}
}

func TestLoadOrFallback_BadFile(t *testing.T) {
	reg := LoadOrFallback(filepath.Join(t.TempDir(), "missing.json"))
	if reg.Len() == 0 {
		t.Error("fallback registry should not be empty")
	}
}
