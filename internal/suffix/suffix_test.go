// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package suffix

import (
	"path/filepath"
	"strings"
	"testing"
)

func testRegistry() *Registry {
	return NewFromList([]string{
		"com", "org", "net", "edu", "gov", "io", "co",
		"in", "uk", "us", "de", "au", "xyz", "bank", "app",
	})
}

func TestIsValidSuffix(t *testing.T) {
	reg := testRegistry()

	valid := []string{"com", "co.uk", "bank.in", "com.au", "ac.in", "COM", "co.in"}
	for _, s := range valid {
		if !reg.IsValidSuffix(s) {
			t.Errorf("expected valid suffix: %s", s)
		}
	}

	invalid := []string{"pom", "corn", "ner", "", "lol.wat"}
	for _, s := range invalid {
		if reg.IsValidSuffix(s) {
			t.Errorf("expected invalid suffix: %s", s)
		}
	}
}

func TestParse(t *testing.T) {
	reg := testRegistry()

	cases := []struct {
		host        string
		subdomains  int
		registrable string
		suffix      string
	}{
		{"google.com", 0, "google", "com"},
		{"www.google.com", 1, "google", "com"},
		{"netbanking.kotak.bank.in", 1, "kotak", "bank.in"},
		{"www.bbc.co.uk", 1, "bbc", "co.uk"},
		{"evil.login.secure.example.com.attacker.xyz", 5, "attacker", "xyz"},
		{"blinkit.pom", 0, "blinkit", "pom"},
		{"cdn.blinkit.pom", 1, "blinkit", "pom"},
		{"localhost", 0, "localhost", ""},
	}

	for _, tc := range cases {
		parts := reg.Parse(tc.host)
		if len(parts.Subdomains) != tc.subdomains {
			t.Errorf("%s: expected %d subdomains, got %d (%v)", tc.host, tc.subdomains, len(parts.Subdomains), parts.Subdomains)
		}
		if parts.Registrable != tc.registrable {
			t.Errorf("%s: expected registrable %q, got %q", tc.host, tc.registrable, parts.Registrable)
		}
		if parts.SuffixString() != tc.suffix {
			t.Errorf("%s: expected suffix %q, got %q", tc.host, tc.suffix, parts.SuffixString())
		}
	}
}

func TestParseReconstructsHost(t *testing.T) {
	reg := testRegistry()
	hosts := []string{
		"netbanking.kotak.bank.in",
		"www.bbc.co.uk",
		"mail.google.com",
		"blinkit.pom",
	}
	for _, h := range hosts {
		p := reg.Parse(h)
		labels := append(append([]string{}, p.Subdomains...), p.Registrable)
		labels = append(labels, p.Suffix...)
		if got := strings.Join(labels, "."); got != h {
			t.Errorf("parse of %s does not reconstruct: got %s", h, got)
		}
	}
}

func TestSubdomainDepthNeverNegative(t *testing.T) {
	reg := testRegistry()
	for _, h := range []string{"com", "co.uk", "bank.in", "", "a.b"} {
		if d := reg.SubdomainDepth(h); d < 0 {
			t.Errorf("negative depth for %s: %d", h, d)
		}
	}
}

func TestLoadOrFallback_MissingFile(t *testing.T) {
	reg := LoadOrFallback(filepath.Join(t.TempDir(), "nope.json"))
	if !reg.Known("com") || !reg.Known("in") {
		t.Error("fallback registry should contain common suffixes")
	}
	if reg.Known("pom") {
		t.Error("fallback registry should not contain bogus suffixes")
	}
}

func TestNormalizeHost(t *testing.T) {
	if got := NormalizeHost("  Example.COM. "); got != "example.com" {
		t.Errorf("expected example.com, got %s", got)
	}
	if got := NormalizeHost("münchen.de"); got != "xn--mnchen-3ya.de" {
		t.Errorf("expected punycode, got %s", got)
	}
}
