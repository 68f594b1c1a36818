// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// Package telemetry tracks the health of the engine's external touchpoints,
// the page fetcher above all. A fetcher that keeps failing pushes analyses
// onto the degraded path, so its failure streaks and latency are worth
// watching from /health.
package telemetry

import (
	"math"
	"sort"
	"sync"
	"time"
)

type HealthState string

const (
	Healthy   HealthState = "healthy"
	Degraded  HealthState = "degraded"
	Unhealthy HealthState = "unhealthy"

	degradedThreshold  = 3
	unhealthyThreshold = 5
	cooldownBase       = 5 * time.Second
	cooldownMax        = 5 * time.Minute
	latencyWindowSize  = 100
)

// SourceStats is the exported health snapshot for one tracked source.
type SourceStats struct {
	Name            string      `json:"name"`
	State           HealthState `json:"state"`
	TotalRequests   int64       `json:"total_requests"`
	SuccessCount    int64       `json:"success_count"`
	FailureCount    int64       `json:"failure_count"`
	ConsecFailures  int         `json:"consecutive_failures"`
	LastError       string      `json:"last_error,omitempty"`
	LastErrorTime   *time.Time  `json:"last_error_time,omitempty"`
	LastSuccessTime *time.Time  `json:"last_success_time,omitempty"`
	AvgLatencyMs    float64     `json:"avg_latency_ms"`
	P95LatencyMs    float64     `json:"p95_latency_ms"`
	InCooldown      bool        `json:"in_cooldown"`
	CooldownUntil   *time.Time  `json:"cooldown_until,omitempty"`
}

type source struct {
	mu             sync.RWMutex
	name           string
	totalRequests  int64
	successCount   int64
	failureCount   int64
	consecFailures int
	lastError      string
	lastErrorTime  time.Time
	lastSuccess    time.Time
	latencies      []float64
	latencyIdx     int
	latencyFull    bool
	cooldownUntil  time.Time
}

// Registry is a concurrency-safe collection of tracked sources.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]*source
}

func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]*source)}
}

func (r *Registry) getOrCreate(name string) *source {
	r.mu.RLock()
	s, ok := r.sources[name]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok = r.sources[name]; ok {
		return s
	}
	s = &source{
		name:      name,
		latencies: make([]float64, latencyWindowSize),
	}
	r.sources[name] = s
	return s
}

// RecordSuccess resets the failure streak and folds the latency into the
// rolling window.
func (r *Registry) RecordSuccess(name string, latency time.Duration) {
	s := r.getOrCreate(name)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalRequests++
	s.successCount++
	s.consecFailures = 0
	s.lastSuccess = time.Now()
	s.cooldownUntil = time.Time{}

	ms := float64(latency.Microseconds()) / 1000.0
	s.latencies[s.latencyIdx] = ms
	s.latencyIdx++
	if s.latencyIdx >= latencyWindowSize {
		s.latencyIdx = 0
		s.latencyFull = true
	}
}

// RecordFailure extends the failure streak. Three consecutive failures start
// an exponentially growing cooldown, capped at five minutes.
func (r *Registry) RecordFailure(name, errMsg string) {
	s := r.getOrCreate(name)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.totalRequests++
	s.failureCount++
	s.consecFailures++
	s.lastError = errMsg
	s.lastErrorTime = now

	if s.consecFailures >= degradedThreshold {
		backoff := time.Duration(math.Min(
			float64(cooldownBase)*math.Pow(2, float64(s.consecFailures-degradedThreshold)),
			float64(cooldownMax),
		))
		s.cooldownUntil = now.Add(backoff)
	}
}

// InCooldown reports whether the source should be skipped for now.
func (r *Registry) InCooldown(name string) bool {
	r.mu.RLock()
	s, ok := r.sources[name]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.cooldownUntil.IsZero() && time.Now().Before(s.cooldownUntil)
}

func (r *Registry) GetStats(name string) SourceStats {
	s := r.getOrCreate(name)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats()
}

func (r *Registry) AllStats() []SourceStats {
	r.mu.RLock()
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	stats := make([]SourceStats, 0, len(names))
	for _, name := range names {
		stats = append(stats, r.GetStats(name))
	}
	return stats
}

func (s *source) stats() SourceStats {
	out := SourceStats{
		Name:           s.name,
		TotalRequests:  s.totalRequests,
		SuccessCount:   s.successCount,
		FailureCount:   s.failureCount,
		ConsecFailures: s.consecFailures,
		LastError:      s.lastError,
	}

	if !s.lastErrorTime.IsZero() {
		t := s.lastErrorTime
		out.LastErrorTime = &t
	}
	if !s.lastSuccess.IsZero() {
		t := s.lastSuccess
		out.LastSuccessTime = &t
	}

	switch {
	case s.consecFailures >= unhealthyThreshold:
		out.State = Unhealthy
	case s.consecFailures >= degradedThreshold:
		out.State = Degraded
	default:
		out.State = Healthy
	}

	if !s.cooldownUntil.IsZero() && time.Now().Before(s.cooldownUntil) {
		out.InCooldown = true
		t := s.cooldownUntil
		out.CooldownUntil = &t
	}

	count := s.latencyIdx
	if s.latencyFull {
		count = latencyWindowSize
	}
	if count > 0 {
		window := make([]float64, count)
		copy(window, s.latencies[:count])
		sort.Float64s(window)
		sum := 0.0
		for _, v := range window {
			sum += v
		}
		out.AvgLatencyMs = sum / float64(count)
		out.P95LatencyMs = window[int(float64(count-1)*0.95)]
	}

	return out
}
