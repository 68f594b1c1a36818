// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const rateLimitWindow = 60

type RateLimitResult struct {
	Allowed     bool
	Reason      string
	WaitSeconds int
}

type RateLimiter interface {
	CheckAndRecord(ip string) RateLimitResult
}

// InMemoryRateLimiter caps scan submissions per client IP over a sliding
// window. Scans are expensive (live fetch per URL), so the window is tight.
type InMemoryRateLimiter struct {
	mu          sync.Mutex
	maxRequests int
	requests    map[string][]float64
}

func NewInMemoryRateLimiter(maxPerMinute int) *InMemoryRateLimiter {
	limiter := &InMemoryRateLimiter{
		maxRequests: maxPerMinute,
		requests:    make(map[string][]float64),
	}

	go limiter.cleanupLoop()

	return limiter
}

func (l *InMemoryRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		l.mu.Lock()
		now := float64(time.Now().Unix())
		for ip, stamps := range l.requests {
			l.requests[ip] = pruneOld(stamps, now)
			if len(l.requests[ip]) == 0 {
				delete(l.requests, ip)
			}
		}
		l.mu.Unlock()
	}
}

func pruneOld(stamps []float64, now float64) []float64 {
	cutoff := now - rateLimitWindow
	result := stamps[:0]
	for _, ts := range stamps {
		if ts >= cutoff {
			result = append(result, ts)
		}
	}
	return result
}

func (l *InMemoryRateLimiter) CheckAndRecord(ip string) RateLimitResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := float64(time.Now().Unix())

	l.requests[ip] = pruneOld(l.requests[ip], now)
	stamps := l.requests[ip]

	if len(stamps) >= l.maxRequests {
		oldest := stamps[0]
		waitSeconds := int(oldest+rateLimitWindow-now) + 1
		if waitSeconds < 1 {
			waitSeconds = 1
		}
		return RateLimitResult{
			Allowed:     false,
			Reason:      "rate_limit",
			WaitSeconds: waitSeconds,
		}
	}

	l.requests[ip] = append(stamps, now)

	return RateLimitResult{
		Allowed: true,
		Reason:  "ok",
	}
}

// ScanRateLimit guards the scan endpoints. Read-only endpoints pass through.
func ScanRateLimit(limiter RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		result := limiter.CheckAndRecord(clientIP)

		if !result.Allowed {
			traceID, _ := c.Get("trace_id")
			slog.Info("Rate limit triggered",
				"trace_id", traceID,
				"ip", clientIP,
				"reason", result.Reason,
				"wait_seconds", result.WaitSeconds,
			)

			c.Header("Retry-After", fmt.Sprintf("%d", result.WaitSeconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":        fmt.Sprintf("Rate limit reached. Please wait %d seconds before trying again.", result.WaitSeconds),
				"reason":       result.Reason,
				"wait_seconds": result.WaitSeconds,
			})
			return
		}

		c.Next()
	}
}
