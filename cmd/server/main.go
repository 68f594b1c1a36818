// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"phishguard/internal/brand"
	"phishguard/internal/classifier"
	"phishguard/internal/config"
	"phishguard/internal/connectivity"
	"phishguard/internal/engine"
	"phishguard/internal/features"
	"phishguard/internal/fetch"
	"phishguard/internal/handlers"
	"phishguard/internal/middleware"
	"phishguard/internal/reputation"
	"phishguard/internal/suffix"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	})))
	logger := slog.Default()

	suffixes := suffix.LoadOrFallback(cfg.SuffixFile)
	brands := brand.LoadOrFallback(cfg.BrandFile)
	slog.Info("Registries loaded",
		"suffixes", suffixes.Len(), "brands", brands.Len(),
		"suffix_file", cfg.SuffixFile, "brand_file", cfg.BrandFile)

	fetcher, err := fetch.New(cfg.FetchTimeout, logger)
	if err != nil {
		slog.Error("Failed to initialize fetcher", "error", err)
		os.Exit(1)
	}

	monitor := connectivity.NewMonitor(logger, connectivity.WithInterval(cfg.ConnectivityInterval))
	feed := reputation.NewFeed(logger)

	eng := engine.New(engine.Config{
		Suffixes:     suffixes,
		Brands:       brands,
		Fetcher:      fetcher,
		Features:     features.New(suffixes),
		Classifier:   classifier.NewHeuristic(),
		Connectivity: monitor,
		Reputation:   feed,
		Logger:       logger,
		CacheSize:    cfg.CacheSize,
		CacheTTL:     cfg.CacheTTL,
	})
	slog.Info("Classification engine initialized")

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestContext())
	router.Use(middleware.Recovery())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(middleware.SecurityHeaders())

	rateLimiter := middleware.NewInMemoryRateLimiter(cfg.RateLimitPerMinute)
	slog.Info("Rate limiter initialized", "backend", "in-memory", "max_per_minute", cfg.RateLimitPerMinute)

	scanHandler := handlers.NewScanHandler(eng, cfg.FetchTimeout, cfg.BatchWorkers, cfg.ForceOffline)
	healthHandler := handlers.NewHealthHandler(eng, monitor, cfg.AppVersion)
	reloadHandler := handlers.NewReloadHandler(eng, cfg.SuffixFile, cfg.BrandFile)

	v1 := router.Group("/v1")
	v1.GET("/health", healthHandler.HealthCheck)
	v1.POST("/scan", middleware.ScanRateLimit(rateLimiter), scanHandler.Scan)
	v1.POST("/scan/batch", middleware.ScanRateLimit(rateLimiter), scanHandler.ScanBatch)
	v1.POST("/reload", reloadHandler.Reload)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	addr := fmt.Sprintf("0.0.0.0:%s", cfg.Port)
	slog.Info("Starting phishguard server", "address", addr, "version", cfg.AppVersion)

	if err := router.Run(addr); err != nil {
		slog.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
