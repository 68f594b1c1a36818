// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// Package fetch retrieves candidate pages and reduces them to the structural
// summary the detectors consume. It never follows more than a handful of
// redirects and never reads more than maxBodyBytes of any response.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
	wappalyzer "github.com/projectdiscovery/wappalyzergo"

	"phishguard/internal/toolkit"
)

const (
	maxBodyBytes    = 2 << 20
	defaultTimeout  = 15 * time.Second
	defaultRetryMax = 2
	userAgent       = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// Result is everything the engine needs from one page fetch.
type Result struct {
	FinalURL     string            `json:"final_url"`
	StatusCode   int               `json:"status_code"`
	Headers      map[string]string `json:"headers"`
	DOM          Summary           `json:"dom"`
	Technologies []string          `json:"technologies,omitempty"`
	Latency      time.Duration     `json:"latency"`
	HTML         string            `json:"-"`
}

// Summary is the flattened DOM structure of a fetched page.
type Summary struct {
	Title        string             `json:"title"`
	Text         string             `json:"-"`
	NumForms     int                `json:"num_forms"`
	NumInputs    int                `json:"num_inputs"`
	NumLinks     int                `json:"num_links"`
	NumImages    int                `json:"num_images"`
	NumIframes   int                `json:"num_iframes"`
	NumScripts   int                `json:"num_scripts"`
	HasLoginForm bool               `json:"has_login_form"`
	Forms        []toolkit.FormInfo `json:"-"`
}

type fingerprinter interface {
	Fingerprint(headers map[string][]string, data []byte) map[string]struct{}
}

// Fetcher wraps a retrying HTTP client plus a technology fingerprinter.
type Fetcher struct {
	client *retryablehttp.Client
	wapp   fingerprinter
	logger *slog.Logger
}

func New(timeout time.Duration, logger *slog.Logger) (*Fetcher, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := retryablehttp.NewClient()
	client.RetryMax = defaultRetryMax
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = timeout
	client.Logger = nil

	wapp, err := wappalyzer.New()
	if err != nil {
		return nil, fmt.Errorf("init fingerprinter: %w", err)
	}
	return &Fetcher{client: client, wapp: wapp, logger: logger}, nil
}

// Fetch retrieves rawURL and summarizes the response. The context bounds the
// whole request including retries.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", rawURL, err)
	}

	result := &Result{
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Latency:    time.Since(start),
		HTML:       string(body),
	}

	result.DOM = Summarize(result.HTML)

	for tech := range f.wapp.Fingerprint(resp.Header, body) {
		result.Technologies = append(result.Technologies, tech)
	}
	sort.Strings(result.Technologies)

	f.logger.Debug("page fetched",
		"url", rawURL,
		"status", resp.StatusCode,
		"bytes", len(body),
		"forms", result.DOM.NumForms,
		"latency_ms", result.Latency.Milliseconds())
	return result, nil
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vals := range h {
		out[strings.ToLower(k)] = strings.Join(vals, ", ")
	}
	return out
}
