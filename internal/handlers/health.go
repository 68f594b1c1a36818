// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package handlers

import (
	"net/http"
	"runtime"
	"time"

	"phishguard/internal/connectivity"
	"phishguard/internal/engine"
	"phishguard/internal/telemetry"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	Engine       *engine.Engine
	Connectivity *connectivity.Monitor
	StartTime    time.Time
	Version      string
}

func NewHealthHandler(e *engine.Engine, mon *connectivity.Monitor, version string) *HealthHandler {
	return &HealthHandler{
		Engine:       e,
		Connectivity: mon,
		StartTime:    time.Now(),
		Version:      version,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	response := gin.H{
		"status":  "ok",
		"version": h.Version,
		"uptime":  time.Since(h.StartTime).String(),
		"memory": gin.H{
			"alloc_mb":       memStats.Alloc / 1024 / 1024,
			"sys_mb":         memStats.Sys / 1024 / 1024,
			"num_goroutines": runtime.NumGoroutine(),
		},
	}

	if h.Connectivity != nil {
		response["connectivity"] = h.Connectivity.Status(c.Request.Context())
	}

	sourceStats := h.Engine.Health().AllStats()
	sources := make([]gin.H, 0, len(sourceStats))
	for _, ss := range sourceStats {
		s := gin.H{
			"name":                 ss.Name,
			"state":                string(ss.State),
			"total_requests":       ss.TotalRequests,
			"success_count":        ss.SuccessCount,
			"failure_count":        ss.FailureCount,
			"consecutive_failures": ss.ConsecFailures,
			"avg_latency_ms":       ss.AvgLatencyMs,
			"p95_latency_ms":       ss.P95LatencyMs,
			"in_cooldown":          ss.InCooldown,
		}
		if ss.LastError != "" {
			s["last_error"] = ss.LastError
		}
		if ss.LastErrorTime != nil {
			s["last_error_time"] = ss.LastErrorTime.Format(time.RFC3339)
		}
		if ss.LastSuccessTime != nil {
			s["last_success_time"] = ss.LastSuccessTime.Format(time.RFC3339)
		}
		sources = append(sources, s)
	}
	response["sources"] = sources

	cs := h.Engine.CacheStats()
	response["caches"] = []gin.H{{
		"name":     cs.Name,
		"size":     cs.Size,
		"max_size": cs.MaxSize,
		"hits":     cs.Hits,
		"misses":   cs.Misses,
		"hit_rate": cs.HitRate,
	}}

	overallState := telemetry.Healthy
	for _, ss := range sourceStats {
		if ss.State == telemetry.Unhealthy {
			overallState = telemetry.Unhealthy
			break
		}
		if ss.State == telemetry.Degraded {
			overallState = telemetry.Degraded
		}
	}
	response["overall_source_health"] = string(overallState)

	c.JSON(http.StatusOK, response)
}
