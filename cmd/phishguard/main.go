// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"phishguard/internal/brand"
	"phishguard/internal/classifier"
	"phishguard/internal/config"
	"phishguard/internal/connectivity"
	"phishguard/internal/engine"
	"phishguard/internal/features"
	"phishguard/internal/fetch"
	"phishguard/internal/suffix"

	"github.com/spf13/cobra"
)

var (
	inputFile    string
	suffixFile   string
	brandFile    string
	forceOffline bool
	jsonOutput   bool
	workers      int
	timeoutSecs  int
	verbose      bool
	showVersion  bool
)

var rootCmd = &cobra.Command{
	Use:   "phishguard [url]...",
	Short: "Classify URLs as phishing or legitimate",
	Long: `phishguard scores URLs with layered detectors: typosquat analysis
against a brand registry, phishing toolkit fingerprints, AI-content
heuristics over the live page, and static lexical scoring when the
target cannot be fetched.

URLs are read from arguments, from --file, or from a pipe.`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if showVersion {
		fmt.Printf("phishguard %s\n", config.Version)
		return nil
	}

	urls, err := collectURLs(args)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs given: pass arguments, --file, or pipe input")
	}

	suffixes := suffix.LoadOrFallback(suffixFile)
	brands := brand.LoadOrFallback(brandFile)

	timeout := time.Duration(timeoutSecs) * time.Second
	fetcher, err := fetch.New(timeout, logger)
	if err != nil {
		return fmt.Errorf("initialize fetcher: %w", err)
	}

	eng := engine.New(engine.Config{
		Suffixes:     suffixes,
		Brands:       brands,
		Fetcher:      fetcher,
		Features:     features.New(suffixes),
		Classifier:   classifier.NewHeuristic(),
		Connectivity: connectivity.NewMonitor(logger),
		Logger:       logger,
	})

	opts := engine.Options{
		ForceOffline: forceOffline,
		FetchTimeout: timeout,
		Workers:      workers,
	}

	results := eng.AnalyzeBatch(cmd.Context(), urls, opts)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for _, r := range results {
		printResult(r)
	}
	return nil
}

func printResult(r engine.Result) {
	fmt.Printf("%s\n", r.URL)
	fmt.Printf("  verdict:    %s (%.0f%% confidence)\n", r.Category, r.Confidence*100)
	fmt.Printf("  risk:       %.0f/100  action: %s  mode: %s\n", r.RiskScore, r.Action, r.AnalysisMode)
	if r.Typosquat.IsMatch {
		fmt.Printf("  typosquat:  %s (brand: %s)\n", r.Typosquat.Method, r.Typosquat.Brand)
	}
	if r.Toolkit != nil && r.Toolkit.Detected {
		fmt.Printf("  toolkit:    %s\n", r.Toolkit.Toolkit)
	}
	if len(r.Technologies) > 0 {
		fmt.Printf("  tech:       %s\n", strings.Join(r.Technologies, ", "))
	}
	fmt.Printf("  rationale:  %s\n\n", r.Rationale)
}

func collectURLs(args []string) ([]string, error) {
	var urls []string
	urls = append(urls, args...)

	if inputFile != "" {
		f, err := os.Open(inputFile)
		if err != nil {
			return nil, fmt.Errorf("open url list: %w", err)
		}
		defer f.Close()
		urls = append(urls, readLines(f)...)
	}

	if len(urls) == 0 && isInputFromPipe() {
		urls = append(urls, readLines(os.Stdin)...)
	}

	return urls, nil
}

func readLines(f *os.File) []string {
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func isInputFromPipe() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) == 0
}

func init() {
	rootCmd.Flags().StringVarP(&inputFile, "file", "f", "", "Read URLs from a file, one per line")
	rootCmd.Flags().StringVar(&suffixFile, "suffixes", "data/suffixes.json", "Suffix registry file")
	rootCmd.Flags().StringVar(&brandFile, "brands", "data/brands.json", "Brand registry file")
	rootCmd.Flags().BoolVar(&forceOffline, "offline", false, "Skip live fetching, static analysis only")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit results as JSON")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 4, "Concurrent analyses for batch input")
	rootCmd.Flags().IntVar(&timeoutSecs, "timeout", 15, "Fetch timeout in seconds")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
