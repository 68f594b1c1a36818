// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"phishguard/internal/brand"
	"phishguard/internal/features"
	"phishguard/internal/fetch"
	"phishguard/internal/suffix"
)

type fakeFetcher struct {
	calls  atomic.Int64
	result *fetch.Result
	err    error
}

func (f *fakeFetcher) Fetch(ctx context.Context, rawURL string) (*fetch.Result, error) {
	f.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	r := *f.result
	r.FinalURL = rawURL
	return &r, nil
}

type stubClassifier struct {
	label int
	conf  float64
}

func (s stubClassifier) Predict(features.Set) (int, float64) { return s.label, s.conf }

type stubConnectivity struct{ online bool }

func (s stubConnectivity) IsOnline(context.Context) bool { return s.online }

func pageFromHTML(html string, headers map[string]string) *fetch.Result {
	return &fetch.Result{
		StatusCode: 200,
		Headers:    headers,
		HTML:       html,
		DOM:        fetch.Summarize(html),
		Latency:    20 * time.Millisecond,
	}
}

func testSuffixes() *suffix.Registry {
	return suffix.NewFromList([]string{"com", "net", "org", "io", "in", "uk", "us", "xyz", "bank", "app", "sh"})
}

func testEngine(f Fetcher, online bool, cls Classifier) *Engine {
	suffixes := testSuffixes()
	return New(Config{
		Suffixes:     suffixes,
		Brands:       brand.LoadOrFallback(""),
		Fetcher:      f,
		Features:     features.New(suffixes),
		Classifier:   cls,
		Connectivity: stubConnectivity{online: online},
	})
}

func TestAnalyzeURL_Whitelist(t *testing.T) {
	f := &fakeFetcher{result: pageFromHTML("<html></html>", nil)}
	e := testEngine(f, true, stubClassifier{})

	r, err := e.AnalyzeURL(context.Background(), "https://google.com/some/messy/path?x=1", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if r.Category != CategoryLegitimate || r.AnalysisMode != ModeWhitelist {
		t.Fatalf("whitelisted domain: %+v", r)
	}
	if r.Confidence != 1.0 || r.RiskScore != 0 {
		t.Errorf("whitelist confidence/risk = %f/%f", r.Confidence, r.RiskScore)
	}
	if f.calls.Load() != 0 {
		t.Error("whitelist hit must not fetch")
	}
}

func TestAnalyzeURL_StructuralTyposquatSkipsFetch(t *testing.T) {
	f := &fakeFetcher{result: pageFromHTML("<html></html>", nil)}
	e := testEngine(f, true, stubClassifier{})

	r, err := e.AnalyzeURL(context.Background(), "https://blinkit.pom", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if r.Category != CategoryPhishing || r.Confidence != 0.95 || r.RiskScore != 90 {
		t.Fatalf("structural verdict: %+v", r)
	}
	if r.AnalysisMode != ModeOnline || r.Action != ActionBlock {
		t.Errorf("mode/action = %s/%s", r.AnalysisMode, r.Action)
	}
	if !strings.Contains(r.Rationale, ".com") {
		t.Errorf("rationale should name the intended suffix: %q", r.Rationale)
	}
	if f.calls.Load() != 0 {
		t.Error("invalid host must not be fetched")
	}
}

func TestAnalyzeURL_ToolkitDetection(t *testing.T) {
	html := `<html><body><form method="post" action="/track?rid=a1">
		<input name="username"><input name="password" type="password"></form></body></html>`
	f := &fakeFetcher{result: pageFromHTML(html, map[string]string{"x-gophish-contact": "x@y.z"})}
	e := testEngine(f, true, stubClassifier{})

	r, err := e.AnalyzeURL(context.Background(), "https://landing.example-mail.com/?rid=b2", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if r.Category != CategoryToolkit {
		t.Fatalf("expected toolkit phishing, got %+v", r)
	}
	if r.RiskScore < 85 || r.Action != ActionBlock {
		t.Errorf("toolkit risk/action = %f/%s", r.RiskScore, r.Action)
	}
	if r.Toolkit == nil || r.Toolkit.Toolkit == "" {
		t.Error("toolkit verdict missing from result")
	}
}

func TestAnalyzeURL_ContentVerifierDowngrade(t *testing.T) {
	html := `<html><head><title>St. Kotak Salesian School</title></head><body>
		<p>Admissions open for the 2026 academic year at our Vizag campus.</p>
		<a href="/about">About</a></body></html>`
	f := &fakeFetcher{result: pageFromHTML(html, nil)}
	e := testEngine(f, true, stubClassifier{})

	r, err := e.AnalyzeURL(context.Background(), "https://kotaksalesianschool-vizag.com/", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if r.Category != CategoryLegitimate {
		t.Fatalf("downgraded verdict should be legitimate: %+v", r)
	}
	if r.Confidence != 0.85 || r.RiskScore != 10 {
		t.Errorf("confidence/risk = %f/%f, want 0.85/10", r.Confidence, r.RiskScore)
	}
	if r.Typosquat.IsMatch || !r.Typosquat.ContentVerified {
		t.Errorf("typosquat verdict not downgraded: %+v", r.Typosquat)
	}
}

func TestAnalyzeURL_ImpersonationWithLoginForm(t *testing.T) {
	html := `<html><head><title>Sign in</title></head><body>
		<form method="post" action="/session"><input name="email"><input name="password" type="password"></form>
		</body></html>`
	f := &fakeFetcher{result: pageFromHTML(html, nil)}
	e := testEngine(f, true, stubClassifier{})

	r, err := e.AnalyzeURL(context.Background(), "https://paypal-secure-login.com/", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if r.Category != CategoryPhishing {
		t.Fatalf("expected phishing: %+v", r)
	}
	if r.RiskScore < 90 {
		t.Errorf("impersonation plus login form should score >= 90, got %f", r.RiskScore)
	}
	if r.Action != ActionBlock {
		t.Errorf("action = %s, want block", r.Action)
	}
	if r.AnalysisMode != ModeOnline || !r.Scraped {
		t.Errorf("mode/scraped = %s/%v", r.AnalysisMode, r.Scraped)
	}
}

func TestAnalyzeURL_CredibleContentIsLegitimate(t *testing.T) {
	var links strings.Builder
	links.WriteString(`<html><head><title>Acme Widget Emporium</title></head><body>`)
	for i := 0; i < 12; i++ {
		links.WriteString(`<a href="/p">product</a>`)
	}
	links.WriteString(`</body></html>`)

	f := &fakeFetcher{result: pageFromHTML(links.String(), nil)}
	e := testEngine(f, true, stubClassifier{})

	r, err := e.AnalyzeURL(context.Background(), "https://acme-widget-emporium.com/", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if r.Category != CategoryLegitimate || r.RiskScore != 0 {
		t.Fatalf("content-rich page: %+v", r)
	}
}

func TestAnalyzeURL_AIGeneratedContent(t *testing.T) {
	html := `<html><head><title>Account Verification</title></head><body>
		<p>Dear valued customer, we have noticed some suspicious activity on your profile.
		Your account has been suspended. It is important to verify your identity immediately.
		Failure to verify will result in permanent closure. Please note that this is urgent
		and expires today. Click the link below to verify.</p>
		<form method="post"><input name="user"><input name="password" type="password"></form>
		</body></html>`
	f := &fakeFetcher{result: pageFromHTML(html, nil)}
	e := testEngine(f, true, stubClassifier{})

	r, err := e.AnalyzeURL(context.Background(), "https://account-services-portal.com/", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if r.Category != CategoryAIPhishing {
		t.Fatalf("expected AI-generated phishing, got %+v", r)
	}
	if r.Confidence < 0.7 {
		t.Errorf("AI verdict confidence %f below floor", r.Confidence)
	}
	if len(r.AIIndicators) == 0 {
		t.Error("indicators missing")
	}
}

func TestAnalyzeURL_FetchFailureDegrades(t *testing.T) {
	f := &fakeFetcher{err: errors.New("connection refused")}
	e := testEngine(f, true, stubClassifier{})

	r, err := e.AnalyzeURL(context.Background(), "http://paypa1.com/login", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if r.AnalysisMode != ModeOnlineFailed {
		t.Fatalf("mode = %s, want online_failed", r.AnalysisMode)
	}
	if r.Category != CategoryPhishing {
		t.Errorf("typosquat plus unreachable should classify phishing: %+v", r)
	}
	if r.Confidence > 0.7 {
		t.Errorf("unverified confidence %f above 0.7", r.Confidence)
	}
}

func TestAnalyzeURL_FetchFailureCleanURL(t *testing.T) {
	f := &fakeFetcher{err: errors.New("timeout")}
	e := testEngine(f, true, stubClassifier{})

	r, err := e.AnalyzeURL(context.Background(), "https://ordinary-site.com/", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if r.Category != CategoryLegitimate || r.Confidence != 0.5 {
		t.Errorf("clean unreachable URL: %+v", r)
	}
}

func TestAnalyzeURL_OfflineMode(t *testing.T) {
	f := &fakeFetcher{result: pageFromHTML("<html></html>", nil)}
	e := testEngine(f, false, stubClassifier{label: 0, conf: 0.8})

	r, err := e.AnalyzeURL(context.Background(), "https://ordinary-site.com/", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if r.AnalysisMode != ModeOffline {
		t.Fatalf("mode = %s, want offline", r.AnalysisMode)
	}
	if r.Category != CategoryLegitimate {
		t.Errorf("category = %s", r.Category)
	}
	// 0.8 scaled by the offline factor.
	if r.Confidence != 0.72 {
		t.Errorf("offline confidence = %f, want 0.72", r.Confidence)
	}
	if f.calls.Load() != 0 {
		t.Error("offline mode must not fetch")
	}
}

func TestAnalyzeURL_InvalidInput(t *testing.T) {
	e := testEngine(&fakeFetcher{}, true, stubClassifier{})
	for _, raw := range []string{"", "   ", "http://"} {
		if _, err := e.AnalyzeURL(context.Background(), raw, Options{}); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("AnalyzeURL(%q) err = %v, want ErrInvalidInput", raw, err)
		}
	}
}

func TestAnalyzeBatch_OrderPreserved(t *testing.T) {
	f := &fakeFetcher{result: pageFromHTML("<html></html>", nil)}
	e := testEngine(f, false, stubClassifier{conf: 0.8})

	urls := []string{
		"https://google.com/",
		"https://blinkit.pom/",
		"https://ordinary-site.com/",
		"https://github.com/",
	}
	results := e.AnalyzeBatch(context.Background(), urls, Options{Workers: 2, ForceOffline: true})

	if len(results) != len(urls) {
		t.Fatalf("got %d results for %d urls", len(results), len(urls))
	}
	for i, r := range results {
		if r.URL != urls[i] {
			t.Errorf("result %d is for %q, want %q", i, r.URL, urls[i])
		}
	}
	if results[0].AnalysisMode != ModeWhitelist || results[1].Category != CategoryPhishing {
		t.Errorf("batch verdicts wrong: %+v", results[:2])
	}
}

func TestAnalyzeBatch_CancelledContext(t *testing.T) {
	e := testEngine(&fakeFetcher{}, true, stubClassifier{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := e.AnalyzeBatch(ctx, []string{"https://a.com/", "https://b.com/"}, Options{})
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	for _, r := range results {
		if r.Category != CategoryUnknown {
			t.Errorf("cancelled entry classified as %s", r.Category)
		}
	}
}

func TestAnalyzeBatch_InvalidEntryDoesNotFailBatch(t *testing.T) {
	f := &fakeFetcher{result: pageFromHTML("<html></html>", nil)}
	e := testEngine(f, false, stubClassifier{conf: 0.8})

	results := e.AnalyzeBatch(context.Background(),
		[]string{"https://google.com/", ""}, Options{ForceOffline: true})
	if results[0].AnalysisMode != ModeWhitelist {
		t.Errorf("valid entry mangled: %+v", results[0])
	}
	if results[1].Category != CategoryUnknown {
		t.Errorf("invalid entry should come back unknown: %+v", results[1])
	}
}

func TestReloadRegistries(t *testing.T) {
	dir := t.TempDir()
	suffixPath := filepath.Join(dir, "suffixes.json")
	brandPath := filepath.Join(dir, "brands.json")
	if err := os.WriteFile(suffixPath, []byte(`["com","net","dev"]`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(brandPath, []byte(`[{"key":"paypal","canonical_domains":["paypal.com"],"industry":"payments","content_keywords":["payment"]}]`), 0o600); err != nil {
		t.Fatal(err)
	}

	f := &fakeFetcher{err: errors.New("down")}
	e := testEngine(f, false, stubClassifier{conf: 0.8})

	// The starting registry does not know .dev.
	r, err := e.AnalyzeURL(context.Background(), "https://tool.dev/", Options{ForceOffline: true, BypassCache: true})
	if err != nil {
		t.Fatal(err)
	}
	if r.Category != CategoryPhishing {
		t.Fatalf("unknown suffix should classify phishing before reload: %+v", r)
	}

	if err := e.ReloadRegistries(suffixPath, brandPath); err != nil {
		t.Fatal(err)
	}
	r, err = e.AnalyzeURL(context.Background(), "https://tool.dev/", Options{ForceOffline: true, BypassCache: true})
	if err != nil {
		t.Fatal(err)
	}
	if r.Category == CategoryPhishing {
		t.Errorf("suffix added by reload still flagged: %+v", r)
	}

	if err := e.ReloadRegistries(filepath.Join(dir, "missing.json"), brandPath); err == nil {
		t.Error("reload with missing file should fail")
	}
}

func TestAnalyzeURL_CachesResults(t *testing.T) {
	f := &fakeFetcher{result: pageFromHTML("<html><head><title>Acme</title></head></html>", nil)}
	e := testEngine(f, true, stubClassifier{})

	for i := 0; i < 3; i++ {
		if _, err := e.AnalyzeURL(context.Background(), "https://cache-me.com/", Options{}); err != nil {
			t.Fatal(err)
		}
	}
	if f.calls.Load() != 1 {
		t.Errorf("fetch called %d times, want 1 (cached)", f.calls.Load())
	}
}

func TestScoreAIContent_CleanPage(t *testing.T) {
	dom := fetch.Summarize(`<html><head><title>Acme</title></head><body>
		<p>We sell widgets. Browse our catalog.</p></body></html>`)
	score, indicators := scoreAIContent("Acme", dom)
	if score >= 0.5 {
		t.Errorf("clean page scored %f", score)
	}
	if len(indicators) != 0 {
		t.Errorf("unexpected indicators: %v", indicators)
	}
}

type stubReputation struct{ listed map[string]bool }

func (s stubReputation) CheckHost(_ context.Context, host string) bool { return s.listed[host] }

func TestAnalyzeURL_ReputationFeedHit(t *testing.T) {
	f := &fakeFetcher{result: pageFromHTML("<html><head><title>Shop</title></head></html>", nil)}
	suffixes := testSuffixes()
	e := New(Config{
		Suffixes:     suffixes,
		Brands:       brand.LoadOrFallback(""),
		Fetcher:      f,
		Features:     features.New(suffixes),
		Classifier:   stubClassifier{},
		Connectivity: stubConnectivity{online: true},
		Reputation:   stubReputation{listed: map[string]bool{"confirmed-bad.com": true}},
	})

	r, err := e.AnalyzeURL(context.Background(), "https://confirmed-bad.com/login", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if r.Category != CategoryPhishing || r.Action != ActionBlock {
		t.Errorf("feed hit should block as phishing, got %s/%s", r.Category, r.Action)
	}
	if r.RiskScore != 100 {
		t.Errorf("feed hit risk = %f, want 100", r.RiskScore)
	}
	if f.calls.Load() != 0 {
		t.Error("feed hit should short-circuit before fetching")
	}

	r, err = e.AnalyzeURL(context.Background(), "https://ordinary-site.com/", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if r.Category != CategoryLegitimate {
		t.Errorf("unlisted host should fall through to content scoring, got %s", r.Category)
	}
}
