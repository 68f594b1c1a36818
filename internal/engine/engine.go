// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// Package engine orchestrates the signal detectors into one prioritized
// decision. The chain is ordered by signal strength: whitelist, structural
// typosquat verdicts, toolkit fingerprints, AI-content heuristics, then
// weighted risk aggregation, with degraded branches when the page cannot be
// fetched or the host is offline.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/net/publicsuffix"

	"phishguard/internal/brand"
	"phishguard/internal/contentcheck"
	"phishguard/internal/features"
	"phishguard/internal/fetch"
	"phishguard/internal/suffix"
	"phishguard/internal/telemetry"
	"phishguard/internal/toolkit"
	"phishguard/internal/typosquat"
)

// ErrInvalidInput marks URLs that cannot be parsed into a host at all. It is
// the only error AnalyzeURL returns; everything else degrades into a
// lower-confidence result.
var ErrInvalidInput = errors.New("invalid input")

const fetcherSource = "fetcher"

// Fetcher retrieves a page. The only blocking collaborator.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetch.Result, error)
}

// FeatureExtractor computes lexical URL features. Pure, never fails.
type FeatureExtractor interface {
	Extract(rawURL string) features.Set
}

// Classifier predicts phishing probability from lexical features.
type Classifier interface {
	Predict(f features.Set) (label int, confidence float64)
}

// ConnectivityChecker answers cheaply whether the network is reachable.
type ConnectivityChecker interface {
	IsOnline(ctx context.Context) bool
}

// ReputationChecker consults a known-phishing feed. Optional.
type ReputationChecker interface {
	CheckHost(ctx context.Context, host string) bool
}

// snapshot bundles the registries and the detectors built on them. Reload
// swaps the whole snapshot atomically; in-flight analyses keep the one they
// started with.
type snapshot struct {
	suffixes *suffix.Registry
	brands   *brand.Registry
	detector *typosquat.Detector
	verifier *contentcheck.Verifier
	scanner  *toolkit.Scanner
}

// Config wires an Engine. Registries and collaborators are required; zero
// weights fall back to defaults.
type Config struct {
	Suffixes     *suffix.Registry
	Brands       *brand.Registry
	Fetcher      Fetcher
	Features     FeatureExtractor
	Classifier   Classifier
	Connectivity ConnectivityChecker
	Reputation   ReputationChecker
	Weights      Weights
	Toolkit      toolkit.Weights
	Whitelist    []string
	Logger       *slog.Logger
	Health       *telemetry.Registry
	CacheSize    int
	CacheTTL     time.Duration
}

// Options adjusts a single analysis call.
type Options struct {
	ForceOffline bool
	FetchTimeout time.Duration
	Workers      int
	BypassCache  bool
}

const (
	defaultFetchTimeout = 15 * time.Second
	defaultWorkers      = 4
)

type Engine struct {
	snap           atomic.Pointer[snapshot]
	fetcher        Fetcher
	extractor      FeatureExtractor
	classifier     Classifier
	connectivity   ConnectivityChecker
	reputation     ReputationChecker
	weights        Weights
	toolkitWeights toolkit.Weights
	whitelist      map[string]struct{}
	logger         *slog.Logger
	health         *telemetry.Registry
	cache          *telemetry.TTLCache[Result]
}

func New(cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Weights == (Weights{}) {
		cfg.Weights = DefaultWeights()
	}
	if cfg.Toolkit == (toolkit.Weights{}) {
		cfg.Toolkit = toolkit.DefaultWeights()
	}
	if len(cfg.Whitelist) == 0 {
		cfg.Whitelist = DefaultWhitelist
	}
	if cfg.Health == nil {
		cfg.Health = telemetry.NewRegistry()
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 1024
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	e := &Engine{
		fetcher:        cfg.Fetcher,
		extractor:      cfg.Features,
		classifier:     cfg.Classifier,
		connectivity:   cfg.Connectivity,
		reputation:     cfg.Reputation,
		weights:        cfg.Weights,
		toolkitWeights: cfg.Toolkit,
		whitelist:      make(map[string]struct{}, len(cfg.Whitelist)),
		logger:         cfg.Logger,
		health:         cfg.Health,
		cache:          telemetry.NewTTLCache[Result]("scan_results", cfg.CacheSize, cfg.CacheTTL),
	}
	for _, d := range cfg.Whitelist {
		e.whitelist[strings.ToLower(d)] = struct{}{}
	}
	e.snap.Store(buildSnapshot(cfg.Suffixes, cfg.Brands, cfg.Toolkit))
	return e
}

func buildSnapshot(suffixes *suffix.Registry, brands *brand.Registry, tw toolkit.Weights) *snapshot {
	return &snapshot{
		suffixes: suffixes,
		brands:   brands,
		detector: typosquat.New(suffixes, brands),
		verifier: contentcheck.New(brands),
		scanner:  toolkit.New(suffixes, tw),
	}
}

// ReloadRegistries loads fresh registries from the given files and swaps the
// detector snapshot atomically. On any load error nothing changes.
func (e *Engine) ReloadRegistries(suffixPath, brandPath string) error {
	suffixes, err := suffix.Load(suffixPath)
	if err != nil {
		return fmt.Errorf("reload suffixes: %w", err)
	}
	brands, err := brand.Load(brandPath)
	if err != nil {
		return fmt.Errorf("reload brands: %w", err)
	}
	e.snap.Store(buildSnapshot(suffixes, brands, e.toolkitWeights))
	e.logger.Info("registries reloaded",
		"suffixes", suffixes.Len(), "brands", brands.Len())
	return nil
}

// Health exposes the telemetry registry for the HTTP health handler.
func (e *Engine) Health() *telemetry.Registry { return e.health }

// CacheStats exposes the result cache snapshot.
func (e *Engine) CacheStats() telemetry.CacheStats { return e.cache.Stats() }

// AnalyzeURL classifies one URL. The returned error is non-nil only for
// input that cannot be parsed into a host; fetch failures and offline
// operation degrade into lower-confidence results instead.
func (e *Engine) AnalyzeURL(ctx context.Context, rawURL string, opts Options) (Result, error) {
	host := hostOf(rawURL)
	if host == "" {
		return Result{}, fmt.Errorf("%w: no parseable host in %q", ErrInvalidInput, rawURL)
	}

	online := !opts.ForceOffline && e.connectivity.IsOnline(ctx)
	cacheKey := rawURL
	if !online {
		cacheKey += "|offline"
	}
	if !opts.BypassCache {
		if r, ok := e.cache.Get(cacheKey); ok {
			return r, nil
		}
	}

	r := e.analyze(ctx, rawURL, host, online, opts)
	e.cache.Set(cacheKey, r)
	e.logger.Info("url analyzed",
		"url", rawURL,
		"classification", r.Category,
		"risk_score", r.RiskScore,
		"mode", r.AnalysisMode)
	return r, nil
}

func (e *Engine) analyze(ctx context.Context, rawURL, host string, online bool, opts Options) Result {
	snap := e.snap.Load()

	if domain := registrableDomain(snap, host); domain != "" {
		if _, ok := e.whitelist[domain]; ok {
			return Result{
				URL:          rawURL,
				Category:     CategoryLegitimate,
				Confidence:   1.0,
				RiskScore:    0,
				Rationale:    fmt.Sprintf("Domain %q is in the trusted whitelist.", domain),
				AnalysisMode: ModeWhitelist,
				Action:       ActionAllow,
			}
		}
	}

	if online && e.reputation != nil && e.reputation.CheckHost(ctx, host) {
		return Result{
			URL:          rawURL,
			Category:     CategoryPhishing,
			Confidence:   0.98,
			RiskScore:    100,
			Rationale:    fmt.Sprintf("Host %q is listed in the OpenPhish feed of confirmed phishing URLs.", host),
			AnalysisMode: ModeOnline,
			Action:       ActionBlock,
		}
	}

	ts := snap.detector.Analyze(rawURL)

	// Structural verdicts are terminal. An invalid suffix cannot belong to
	// a legitimate business, so scraping would only add latency.
	if ts.IsMatch && ts.Method.Structural() {
		mode := ModeOnline
		if !online {
			mode = ModeOffline
		}
		return Result{
			URL:          rawURL,
			Category:     CategoryPhishing,
			Confidence:   0.95,
			RiskScore:    90,
			Rationale:    "Invalid domain: " + strings.Join(ts.Rationale, "; "),
			AnalysisMode: mode,
			Action:       ActionBlock,
			Typosquat:    ts,
		}
	}

	if !online {
		return e.scoreOffline(rawURL, ts)
	}

	if e.health.InCooldown(fetcherSource) {
		e.logger.Warn("fetcher in cooldown, using degraded scoring", "url", rawURL)
		return e.scoreUnreachable(rawURL, ts)
	}

	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	fctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	page, err := e.fetcher.Fetch(fctx, rawURL)
	if err != nil {
		e.health.RecordFailure(fetcherSource, err.Error())
		e.logger.Debug("fetch failed", "url", rawURL, "error", err)
		return e.scoreUnreachable(rawURL, ts)
	}
	e.health.RecordSuccess(fetcherSource, page.Latency)

	return e.scoreFetchedPage(rawURL, snap, ts, page)
}

// scoreFetchedPage is the online path over real page content. Static URL
// heuristics are deliberately ignored here; a page that loads with
// substantial content outranks whatever its URL shape suggests.
func (e *Engine) scoreFetchedPage(rawURL string, snap *snapshot, ts typosquat.Verdict, page *fetch.Result) Result {
	w := e.weights

	tk := snap.scanner.Scan(rawURL, page.HTML, page.Headers, page.DOM.Forms)
	if tk.Detected {
		return Result{
			URL:          rawURL,
			Category:     CategoryToolkit,
			Confidence:   tk.Confidence,
			RiskScore:    clamp(85 + tk.Confidence*15),
			Rationale:    fmt.Sprintf("Known phishing toolkit fingerprint: %s (%s)", tk.Toolkit, strings.Join(tk.SignaturesFound, "; ")),
			AnalysisMode: ModeOnline,
			Action:       ActionBlock,
			Typosquat:    ts,
			Toolkit:      &tk,
			Technologies: page.Technologies,
			Scraped:      true,
		}
	}

	ts = snap.verifier.Verify(ts, page.DOM.Title, page.DOM.Text)

	if aiScore, aiIndicators := scoreAIContent(page.DOM.Title, page.DOM); aiScore >= w.AIContentThreshold {
		return Result{
			URL:          rawURL,
			Category:     CategoryAIPhishing,
			Confidence:   round3(math.Max(0.7, aiScore)),
			RiskScore:    clamp(65 + aiScore*30),
			Rationale:    "Page text reads machine-generated: " + strings.Join(aiIndicators, "; "),
			AnalysisMode: ModeOnline,
			Action:       ActionBlock,
			Typosquat:    ts,
			AIIndicators: aiIndicators,
			Technologies: page.Technologies,
			Scraped:      true,
		}
	}

	if ts.ContentVerified && !ts.IsMatch {
		return Result{
			URL:          rawURL,
			Category:     CategoryLegitimate,
			Confidence:   0.85,
			RiskScore:    10,
			Rationale:    strings.Join(ts.Rationale, "; "),
			AnalysisMode: ModeOnline,
			Action:       ActionAllow,
			Typosquat:    ts,
			Technologies: page.Technologies,
			Scraped:      true,
		}
	}

	var risk float64
	var factors []string

	if ts.IsMatch {
		risk += w.ImpersonationWeight
		factors = append(factors, fmt.Sprintf("Brand impersonation detected: %s", ts.Brand))
		if page.DOM.HasLoginForm {
			risk += w.LoginWithImpersonation
			factors = append(factors, "Login form on suspected impersonation site")
		}
	}

	if page.DOM.NumLinks < 3 && page.DOM.NumImages < 2 && page.DOM.Title == "" {
		risk += w.MinimalContentWeight
		factors = append(factors, "Minimal page content")
	}
	if page.DOM.NumForms > 3 || page.DOM.NumInputs > 10 {
		risk += w.ExcessiveInputsWeight
		factors = append(factors, "Excessive form inputs")
	}
	if page.DOM.NumIframes > 2 {
		risk += w.ExcessiveIframesWeight
		factors = append(factors, "Multiple iframes")
	}

	label, mlConf := e.classifier.Predict(e.extractor.Extract(rawURL))
	if label == 1 && mlConf >= w.ClassifierMinConfidence {
		risk += mlConf * w.ClassifierMaxWeight
		factors = append(factors, fmt.Sprintf("Classifier predicts phishing (%.1f%% confidence)", mlConf*100))
	}

	// Substantial, titled pages earn credibility back. This is the key
	// difference between content-based and static scoring.
	if page.DOM.NumLinks >= w.CredibilityMinLinks && len(page.DOM.Title) > w.CredibilityMinTitleChars {
		if risk > 0 {
			factors = append(factors, "Content validation bonus applied")
		}
		risk -= w.CredibilityBonus
	}
	risk = clamp(risk)

	var category Category
	var confidence float64
	var action Action
	switch {
	case ts.IsMatch && ts.Method != typosquat.MethodSubdomainAttack:
		category, confidence = CategoryPhishing, 0.85
		action = ActionWarn
		if risk >= 50 {
			action = ActionBlock
		}
	case risk >= w.BlockThreshold:
		category, confidence, action = CategoryPhishing, 0.9, ActionBlock
	case risk >= w.PhishingThreshold:
		category, confidence, action = CategoryPhishing, 0.7, ActionWarn
	default:
		category, confidence, action = CategoryLegitimate, 0.85, ActionAllow
	}

	rationale := "Website content validated. No suspicious indicators found."
	if len(factors) > 0 {
		rationale = "Content-based analysis: " + strings.Join(factors, "; ")
	}

	return Result{
		URL:          rawURL,
		Category:     category,
		Confidence:   round3(confidence),
		RiskScore:    risk,
		Rationale:    rationale,
		AnalysisMode: ModeOnline,
		Action:       action,
		Typosquat:    ts,
		Technologies: page.Technologies,
		Scraped:      true,
	}
}

// scoreUnreachable handles fetch failure. The site could be a taken-down
// phishing page or a legitimate host that is briefly down, so confidence
// stays low either way.
func (e *Engine) scoreUnreachable(rawURL string, ts typosquat.Verdict) Result {
	w := e.weights
	feats := e.extractor.Extract(rawURL)

	risk := w.UnreachableBase
	if ts.IsMatch {
		risk += float64(ts.RiskWeight)
	}
	if feats.IsRandomDomain {
		risk += w.UnreachableRandomPenalty
	}
	if feats.IsIPAddress {
		risk += w.UnreachableIPPenalty
	}
	risk = clamp(risk)

	var category Category
	var confidence float64
	var action Action
	switch {
	case risk >= w.UnreachableBlockScore:
		category, confidence, action = CategoryPhishing, 0.7, ActionBlock
	case risk >= w.UnreachableUnknownScore:
		category, confidence, action = CategoryUnknown, 0.6, ActionWarn
	default:
		category, confidence, action = CategoryLegitimate, 0.5, ActionAllow
	}

	rationale := "Website is unreachable. "
	if ts.IsMatch {
		rationale += fmt.Sprintf("Suspicious URL pattern detected: %s. ", ts.Method)
	}
	rationale += "Could be a taken-down phishing site or temporarily offline."

	return Result{
		URL:          rawURL,
		Category:     category,
		Confidence:   confidence,
		RiskScore:    risk,
		Rationale:    rationale,
		AnalysisMode: ModeOnlineFailed,
		Action:       action,
		Typosquat:    ts,
	}
}

// scoreOffline is pure static analysis: typosquat verdict, lexical features,
// classifier. Confidence is scaled down because nothing was verified.
func (e *Engine) scoreOffline(rawURL string, ts typosquat.Verdict) Result {
	w := e.weights
	feats := e.extractor.Extract(rawURL)
	label, mlConf := e.classifier.Predict(feats)

	risk := e.staticRisk(feats, ts, label, mlConf)

	var category Category
	var confidence float64
	var action Action
	switch {
	case ts.IsMatch:
		category = CategoryPhishing
		confidence = 0.85
		if label == 1 && mlConf > confidence {
			confidence = mlConf
		}
		action = ActionWarn
		if risk >= 50 {
			action = ActionBlock
		}
	case risk >= w.PhishingThreshold:
		category, confidence = CategoryPhishing, 0.75
		action = ActionWarn
		if risk >= 60 {
			action = ActionBlock
		}
	case label == 1:
		category, confidence = CategoryPhishing, mlConf
		action = ActionWarn
		if mlConf >= 0.8 {
			action = ActionBlock
		}
	default:
		category, confidence, action = CategoryLegitimate, mlConf, ActionAllow
	}

	var issues []string
	if ts.IsMatch {
		issues = append(issues, fmt.Sprintf("Brand impersonation: mimics %q (%s)", ts.Brand, ts.Method))
	}
	if feats.IsRandomDomain {
		issues = append(issues, "High-entropy domain name with no recognizable pattern")
	}
	if feats.IsIPAddress {
		issues = append(issues, "URL uses an IP address instead of a domain name")
	}
	if !feats.IsHTTPS {
		issues = append(issues, "Connection is not secure")
	}
	if feats.SuspiciousWords > 0 {
		issues = append(issues, "URL contains suspicious keywords")
	}
	rationale := "Static URL analysis found no suspicious indicators."
	if len(issues) > 0 {
		rationale = "Static URL analysis: " + strings.Join(issues, "; ")
	}

	return Result{
		URL:          rawURL,
		Category:     category,
		Confidence:   round3(confidence * w.OfflineConfidenceScale),
		RiskScore:    risk,
		Rationale:    rationale,
		AnalysisMode: ModeOffline,
		Action:       action,
		Typosquat:    ts,
	}
}

func (e *Engine) staticRisk(feats features.Set, ts typosquat.Verdict, label int, mlConf float64) float64 {
	w := e.weights
	var score float64

	if label == 1 {
		score += mlConf * w.OfflineClassifierWeight
	}
	if ts.IsMatch {
		score += float64(ts.RiskWeight)
	}
	if feats.SuspiciousWords > 0 {
		score += math.Min(20, float64(feats.SuspiciousWords)*5)
	}
	if !feats.IsHTTPS {
		score += 10
	}
	if feats.Entropy > 4.5 {
		score += 10
	}
	if feats.IsRandomDomain {
		score += w.OfflineRandomPenalty
	}
	if feats.DomainEntropy > 3.5 {
		score += 15
	}
	if feats.NumHyphens > 3 {
		score += 10
	}
	if feats.SubdomainCount > 2 {
		score += 10
	}
	if feats.NumAt > 0 {
		score += 15
	}
	return clamp(score)
}

// AnalyzeBatch classifies urls concurrently. The output always has the same
// length and order as the input. Cancellation stops new work promptly;
// results already computed are kept, and unstarted entries come back as
// Unknown.
func (e *Engine) AnalyzeBatch(ctx context.Context, urls []string, opts Options) []Result {
	results := make([]Result, len(urls))
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := range urls {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = skippedResult(urls[i], "analysis cancelled before start")
				return
			}
			if ctx.Err() != nil {
				results[i] = skippedResult(urls[i], "analysis cancelled before start")
				return
			}
			r, err := e.AnalyzeURL(ctx, urls[i], opts)
			if err != nil {
				results[i] = skippedResult(urls[i], err.Error())
				return
			}
			results[i] = r
		}(i)
	}
	wg.Wait()
	return results
}

func skippedResult(rawURL, reason string) Result {
	return Result{
		URL:          rawURL,
		Category:     CategoryUnknown,
		Rationale:    reason,
		AnalysisMode: ModeOffline,
		Action:       ActionWarn,
	}
}

// registrableDomain prefers the public suffix list and falls back to the
// local registry parse for hosts the list does not know.
func registrableDomain(snap *snapshot, host string) string {
	host = suffix.NormalizeHost(host)
	if d, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return d
	}
	return snap.suffixes.Parse(host).RegistrableDomain()
}

func hostOf(rawURL string) string {
	candidate := strings.TrimSpace(rawURL)
	if candidate == "" {
		return ""
	}
	if !strings.Contains(candidate, "://") {
		candidate = "http://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
