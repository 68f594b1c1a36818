// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package features

import (
	"testing"

	"phishguard/internal/suffix"
)

func testExtractor() *Extractor {
	return New(suffix.NewFromList([]string{"com", "net", "org", "in", "uk", "xyz"}))
}

func TestExtract_Counts(t *testing.T) {
	e := testExtractor()
	s := e.Extract("https://www.paypal.com/login?id=1&ref=a")

	if !s.IsHTTPS {
		t.Error("expected is_https")
	}
	if s.SubdomainCount != 1 {
		t.Errorf("subdomain count = %d, want 1", s.SubdomainCount)
	}
	if s.DomainLength != len("paypal") {
		t.Errorf("domain length = %d, want 6", s.DomainLength)
	}
	if s.NumQuestionMarks != 1 || s.NumEquals != 2 || s.NumAmpersand != 1 {
		t.Errorf("query character counts wrong: %+v", s)
	}
	// "login", "paypal"
	if s.SuspiciousWords != 2 {
		t.Errorf("suspicious words = %d, want 2", s.SuspiciousWords)
	}
	if s.IsRandomDomain {
		t.Error("paypal should not look random")
	}
}

func TestExtract_IPAddressHost(t *testing.T) {
	e := testExtractor()
	s := e.Extract("http://192.168.4.21/secure/update.php")
	if !s.IsIPAddress {
		t.Errorf("expected IP address host: %+v", s)
	}
	if s.IsHTTPS {
		t.Error("http URL flagged as https")
	}
}

func TestExtract_RandomDomain(t *testing.T) {
	e := testExtractor()
	cases := []struct {
		url  string
		want bool
	}{
		{"http://xjqzkvwqtr.com/", true},     // no vowels
		{"http://bcdfghjklm.net/", true},     // long consonant run
		{"http://a1b2c3d4e5.xyz/", true},     // digit-heavy, high entropy
		{"https://google.com/", false},       // short, pronounceable
		{"https://microsoft.com/", false},    // normal vowel ratio
		{"https://secure-mail.org/", false},  // hyphenated but pronounceable
	}
	for _, tc := range cases {
		if got := e.Extract(tc.url).IsRandomDomain; got != tc.want {
			t.Errorf("Extract(%q).IsRandomDomain = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestExtract_NeverFails(t *testing.T) {
	e := testExtractor()
	for _, raw := range []string{"", "://broken", "not a url at all", "%%%"} {
		s := e.Extract(raw)
		if s.URLLength != len(raw) {
			t.Errorf("Extract(%q) lost the input length", raw)
		}
	}
}

func TestExtract_SchemelessHost(t *testing.T) {
	e := testExtractor()
	s := e.Extract("paypal.com/account")
	if s.DomainLength != len("paypal") {
		t.Errorf("schemeless parse failed: %+v", s)
	}
}

func TestShannonEntropy(t *testing.T) {
	if got := shannonEntropy(""); got != 0 {
		t.Errorf("entropy of empty string = %f", got)
	}
	if got := shannonEntropy("aaaa"); got != 0 {
		t.Errorf("entropy of uniform string = %f", got)
	}
	low := shannonEntropy("aabbaabb")
	high := shannonEntropy("a8Xq2Zk9")
	if low >= high {
		t.Errorf("expected mixed string entropy %f > repeated string entropy %f", high, low)
	}
}
