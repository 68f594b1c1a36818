// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"phishguard/internal/engine"

	"github.com/gin-gonic/gin"
)

// maxBatchSize bounds one batch request. Larger lists should be split by the
// caller; each URL may cost a live fetch.
const maxBatchSize = 100

type ScanHandler struct {
	Engine       *engine.Engine
	FetchTimeout time.Duration
	Workers      int

	// ForceOffline is the server-wide default. A request can opt into offline
	// analysis on top of it but can never force an online scan past it.
	ForceOffline bool
}

func NewScanHandler(e *engine.Engine, fetchTimeout time.Duration, workers int, forceOffline bool) *ScanHandler {
	return &ScanHandler{Engine: e, FetchTimeout: fetchTimeout, Workers: workers, ForceOffline: forceOffline}
}

type scanRequest struct {
	URL          string `json:"url" binding:"required"`
	ForceOffline bool   `json:"force_offline"`
	BypassCache  bool   `json:"bypass_cache"`
}

type batchRequest struct {
	URLs         []string `json:"urls" binding:"required"`
	ForceOffline bool     `json:"force_offline"`
	Workers      int      `json:"workers"`
}

func (h *ScanHandler) Scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must be JSON with a 'url' field"})
		return
	}

	result, err := h.Engine.AnalyzeURL(c.Request.Context(), req.URL, engine.Options{
		ForceOffline: req.ForceOffline || h.ForceOffline,
		FetchTimeout: h.FetchTimeout,
		BypassCache:  req.BypassCache,
	})
	if err != nil {
		if errors.Is(err, engine.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ScanHandler) ScanBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must be JSON with a 'urls' array"})
		return
	}
	if len(req.URLs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'urls' must not be empty"})
		return
	}
	if len(req.URLs) > maxBatchSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":    "Too many URLs in one batch",
			"max_urls": maxBatchSize,
		})
		return
	}

	workers := req.Workers
	if workers <= 0 || workers > h.Workers {
		workers = h.Workers
	}

	results := h.Engine.AnalyzeBatch(c.Request.Context(), req.URLs, engine.Options{
		ForceOffline: req.ForceOffline || h.ForceOffline,
		FetchTimeout: h.FetchTimeout,
		Workers:      workers,
	})

	c.JSON(http.StatusOK, gin.H{
		"count":   len(results),
		"results": results,
	})
}
