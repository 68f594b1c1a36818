// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package handlers

import (
	"log/slog"
	"net/http"

	"phishguard/internal/engine"

	"github.com/gin-gonic/gin"
)

// ReloadHandler re-reads the suffix and brand registries from disk and swaps
// them in without a restart. Registry files are updated out of band.
type ReloadHandler struct {
	Engine     *engine.Engine
	SuffixFile string
	BrandFile  string
}

func NewReloadHandler(e *engine.Engine, suffixFile, brandFile string) *ReloadHandler {
	return &ReloadHandler{Engine: e, SuffixFile: suffixFile, BrandFile: brandFile}
}

func (h *ReloadHandler) Reload(c *gin.Context) {
	if err := h.Engine.ReloadRegistries(h.SuffixFile, h.BrandFile); err != nil {
		traceID, _ := c.Get("trace_id")
		slog.Error("Registry reload failed", "trace_id", traceID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "reloaded"})
}
