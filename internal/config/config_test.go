// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("FETCH_TIMEOUT", "")
	t.Setenv("BATCH_WORKERS", "")
	t.Setenv("FORCE_OFFLINE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.FetchTimeout != 15*time.Second {
		t.Errorf("expected default fetch timeout 15s, got %s", cfg.FetchTimeout)
	}
	if cfg.BatchWorkers != 8 {
		t.Errorf("expected default workers 8, got %d", cfg.BatchWorkers)
	}
	if cfg.ForceOffline {
		t.Error("expected ForceOffline=false by default")
	}
	if cfg.SuffixFile != "data/suffixes.json" {
		t.Errorf("expected default suffix file, got %s", cfg.SuffixFile)
	}
}

func TestLoad_CustomPort(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
}

func TestLoad_Durations(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "30s")
	t.Setenv("CACHE_TTL", "10m")
	t.Setenv("CONNECTIVITY_INTERVAL", "1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.FetchTimeout != 30*time.Second {
		t.Errorf("expected 30s fetch timeout, got %s", cfg.FetchTimeout)
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Errorf("expected 10m cache TTL, got %s", cfg.CacheTTL)
	}
	if cfg.ConnectivityInterval != time.Minute {
		t.Errorf("expected 1m connectivity interval, got %s", cfg.ConnectivityInterval)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "fifteen")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed duration")
	}
}

func TestLoad_NegativeDuration(t *testing.T) {
	t.Setenv("CACHE_TTL", "-5m")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative duration")
	}
}

func TestLoad_InvalidWorkers(t *testing.T) {
	t.Setenv("BATCH_WORKERS", "lots")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed integer")
	}
}

func TestLoad_ZeroWorkers(t *testing.T) {
	t.Setenv("BATCH_WORKERS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero workers")
	}
}

func TestLoad_ForceOffline(t *testing.T) {
	t.Setenv("FORCE_OFFLINE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.ForceOffline {
		t.Error("expected ForceOffline=true")
	}
}

func TestLoad_InvalidBool(t *testing.T) {
	t.Setenv("FORCE_OFFLINE", "maybe")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed boolean")
	}
}

func TestLoad_DataFileOverrides(t *testing.T) {
	t.Setenv("SUFFIX_FILE", "/etc/phishguard/suffixes.json")
	t.Setenv("BRAND_FILE", "/etc/phishguard/brands.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SuffixFile != "/etc/phishguard/suffixes.json" {
		t.Errorf("unexpected suffix file: %s", cfg.SuffixFile)
	}
	if cfg.BrandFile != "/etc/phishguard/brands.json" {
		t.Errorf("unexpected brand file: %s", cfg.BrandFile)
	}
}

func TestLoad_AppVersion(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AppVersion != Version {
		t.Errorf("expected AppVersion=%s, got %s", Version, cfg.AppVersion)
	}
}
