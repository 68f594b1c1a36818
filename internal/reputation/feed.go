// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// Package reputation checks hosts against the OpenPhish public feed, a
// community-maintained list of confirmed phishing URLs. A feed hit is the
// strongest signal the engine has; it outranks every heuristic.
package reputation

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	defaultFeedURL = "https://raw.githubusercontent.com/openphish/public_feed/refs/heads/main/feed.txt"
	defaultTTL     = 12 * time.Hour
	fetchTimeout   = 15 * time.Second
)

type Feed struct {
	feedURL string
	ttl     time.Duration
	client  *retryablehttp.Client
	logger  *slog.Logger

	mu        sync.RWMutex
	hosts     map[string]struct{}
	fetchedAt time.Time
}

type Option func(*Feed)

func WithFeedURL(u string) Option {
	return func(f *Feed) { f.feedURL = u }
}

func WithTTL(d time.Duration) Option {
	return func(f *Feed) { f.ttl = d }
}

func NewFeed(logger *slog.Logger, opts ...Option) *Feed {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.HTTPClient.Timeout = fetchTimeout
	client.Logger = nil

	f := &Feed{
		feedURL: defaultFeedURL,
		ttl:     defaultTTL,
		client:  client,
		logger:  logger,
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// CheckHost reports whether host appears in the feed. A stale feed is
// refreshed first; on refresh failure the previous snapshot keeps serving,
// and an empty feed never matches.
func (f *Feed) CheckHost(ctx context.Context, host string) bool {
	hosts := f.snapshot(ctx)
	if len(hosts) == 0 {
		return false
	}
	_, ok := hosts[strings.ToLower(host)]
	return ok
}

func (f *Feed) snapshot(ctx context.Context) map[string]struct{} {
	f.mu.RLock()
	if f.hosts != nil && time.Since(f.fetchedAt) < f.ttl {
		defer f.mu.RUnlock()
		return f.hosts
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.hosts != nil && time.Since(f.fetchedAt) < f.ttl {
		return f.hosts
	}

	fresh, err := f.fetch(ctx)
	if err != nil {
		f.logger.Warn("phishing feed refresh failed", "url", f.feedURL, "error", err)
		return f.hosts
	}
	if len(fresh) > 0 {
		f.hosts = fresh
		f.fetchedAt = time.Now()
		f.logger.Info("phishing feed refreshed", "hosts", len(fresh))
	}
	return f.hosts
}

func (f *Feed) fetch(ctx context.Context) (map[string]struct{}, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, "GET", f.feedURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	hosts := make(map[string]struct{})
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parsed, err := url.Parse(line)
		if err != nil || parsed.Host == "" {
			continue
		}
		hosts[strings.ToLower(parsed.Hostname())] = struct{}{}
	}
	return hosts, scanner.Err()
}
