// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Version is the release tag reported by the health endpoint and the CLI.
const Version = "1.4.2"

type Config struct {
	Port       string
	AppVersion string

	SuffixFile string
	BrandFile  string

	FetchTimeout         time.Duration
	BatchWorkers         int
	CacheSize            int
	CacheTTL             time.Duration
	ConnectivityInterval time.Duration

	ForceOffline bool
	LogLevel     string

	RateLimitPerMinute int
}

// Load reads configuration from the environment. Every knob has a default;
// only malformed values are errors.
func Load() (*Config, error) {
	cfg := &Config{
		Port:       envString("PORT", "8080"),
		AppVersion: Version,
		SuffixFile: envString("SUFFIX_FILE", "data/suffixes.json"),
		BrandFile:  envString("BRAND_FILE", "data/brands.json"),
		LogLevel:   envString("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.FetchTimeout, err = envDuration("FETCH_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.BatchWorkers, err = envInt("BATCH_WORKERS", 8); err != nil {
		return nil, err
	}
	if cfg.CacheSize, err = envInt("CACHE_SIZE", 1024); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = envDuration("CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ConnectivityInterval, err = envDuration("CONNECTIVITY_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ForceOffline, err = envBool("FORCE_OFFLINE", false); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = envInt("RATE_LIMIT_PER_MINUTE", 60); err != nil {
		return nil, err
	}

	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %d", key, n)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %s", key, d)
	}
	return d, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return b, nil
}
