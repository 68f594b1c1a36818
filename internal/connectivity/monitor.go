// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// Package connectivity senses whether the host has a working network path.
// Online, the engine scrapes pages; offline it falls back to static scoring,
// so the answer must be fast and cached rather than perfectly fresh.
package connectivity

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"codeberg.org/miekg/dns"
	"codeberg.org/miekg/dns/dnsutil"
)

// Public resolvers probed in order until one answers.
var probeResolvers = []string{"1.1.1.1", "8.8.8.8", "208.67.222.222"}

const probeName = "cloudflare.com"

// Status is the monitor snapshot exposed on /health.
type Status struct {
	Online    bool      `json:"online"`
	Mode      string    `json:"mode"`
	LastCheck time.Time `json:"last_check"`
	CacheAge  string    `json:"cache_age"`
}

type probeFunc func(ctx context.Context) bool

// Monitor caches the online/offline answer and refreshes it no more often
// than the configured interval.
type Monitor struct {
	interval time.Duration
	timeout  time.Duration
	probe    probeFunc
	logger   *slog.Logger

	mu        sync.Mutex
	online    bool
	lastCheck time.Time
}

type Option func(*Monitor)

func WithInterval(d time.Duration) Option {
	return func(m *Monitor) { m.interval = d }
}

func WithProbe(p probeFunc) Option {
	return func(m *Monitor) { m.probe = p }
}

func NewMonitor(logger *slog.Logger, opts ...Option) *Monitor {
	m := &Monitor{
		interval: 30 * time.Second,
		timeout:  2 * time.Second,
		logger:   logger,
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	m.probe = m.dnsProbe
	for _, o := range opts {
		o(m)
	}
	return m
}

// IsOnline returns the cached status, refreshing first when it is stale.
func (m *Monitor) IsOnline(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastCheck.IsZero() || time.Since(m.lastCheck) >= m.interval {
		m.refreshLocked(ctx)
	}
	return m.online
}

// ForceRefresh bypasses the cache.
func (m *Monitor) ForceRefresh(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshLocked(ctx)
	return m.online
}

func (m *Monitor) refreshLocked(ctx context.Context) {
	was, first := m.online, m.lastCheck.IsZero()
	m.online = m.probe(ctx)
	m.lastCheck = time.Now()
	if !first && was != m.online {
		m.logger.Info("connectivity changed", "online", m.online)
	}
}

func (m *Monitor) Status(ctx context.Context) Status {
	online := m.IsOnline(ctx)
	m.mu.Lock()
	defer m.mu.Unlock()
	mode := "offline"
	if online {
		mode = "online"
	}
	return Status{
		Online:    online,
		Mode:      mode,
		LastCheck: m.lastCheck,
		CacheAge:  time.Since(m.lastCheck).Truncate(time.Millisecond).String(),
	}
}

// dnsProbe queries an A record against each public resolver until one
// answers. DNS is used because resolvers stay up and respond in one round
// trip.
func (m *Monitor) dnsProbe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, m.timeout*time.Duration(len(probeResolvers)))
	defer cancel()

	msg := dns.NewMsg(dnsutil.Fqdn(probeName), dns.TypeA)
	msg.RecursionDesired = true

	client := &dns.Client{
		Transport: &dns.Transport{
			Dialer:       &net.Dialer{Timeout: m.timeout},
			ReadTimeout:  m.timeout,
			WriteTimeout: m.timeout,
		},
	}

	for _, ip := range probeResolvers {
		r, _, err := client.Exchange(ctx, msg, "udp", net.JoinHostPort(ip, "53"))
		if err == nil && r != nil {
			return true
		}
		m.logger.Debug("connectivity probe failed", "resolver", ip, "error", err)
	}
	return false
}
