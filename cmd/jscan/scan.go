package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jscan-dev/jscan/pkg/jscan/cache"
	"github.com/jscan-dev/jscan/pkg/jscan/config"
	"github.com/jscan-dev/jscan/pkg/jscan/heuristics"
	"github.com/jscan-dev/jscan/pkg/jscan/manifest"
	"github.com/jscan-dev/jscan/pkg/jscan/output"
	"github.com/jscan-dev/jscan/pkg/jscan/scan"
	"github.com/jscan-dev/jscan/pkg/jscan/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runScan is the main scan command handler.
func runScan(_ *cobra.Command, _ []string) error {
	opts, err := buildScanOptions()
	if err != nil {
		return err
	}

	// Open the probe cache unless bypassed
	store, err := openCache()
	if err != nil {
		printVerbose("Probe cache unavailable, scanning without it: %v", err)
	}
	if store != nil {
		opts.Cache = store
		defer store.Close()
	}

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		printInfo("\nInterrupted, stopping scan...")
		cancel()
	}()

	if !getQuiet() {
		if len(opts.Roots) > 0 {
			printInfo("Scanning %d root(s) for Java runtimes...", len(opts.Roots))
		} else {
			printInfo("Scanning local volumes for Java runtimes...")
		}
	}

	result := scan.New(opts).Scan(ctx)

	if err := renderResult(result); err != nil {
		return err
	}

	recordScan(result)
	return nil
}

// buildScanOptions assembles scan options from flags and config.
func buildScanOptions() (scan.Options, error) {
	keywords := heuristics.Default().Extend(
		viper.GetStringSlice("scan.include_keywords"),
		viper.GetStringSlice("scan.exclude_keywords"),
	)

	roots := viper.GetStringSlice("scan.roots")
	for i, root := range roots {
		expanded, err := config.ExpandPath(root)
		if err != nil {
			return scan.Options{}, fmt.Errorf("failed to expand root %q: %w", root, err)
		}
		roots[i] = expanded
	}

	timeout := viper.GetDuration("timeout")
	if timeout == 0 {
		timeout = time.Duration(viper.GetInt("scan.probe_timeout_seconds")) * time.Second
	}

	return scan.Options{
		Keywords:     keywords,
		Roots:        roots,
		SkipPathScan: viper.GetBool("scan.skip_path_scan"),
		ProbeTimeout: timeout,
	}, nil
}

// openCache opens the probe cache, honoring --no-cache and the config.
// Returns (nil, nil) when caching is disabled.
func openCache() (*cache.Store, error) {
	if viper.GetBool("no_cache") || !viper.GetBool("cache.enabled") {
		printVerbose("Probe cache disabled")
		return nil, nil
	}

	path := viper.GetString("cache.path")
	if path == "" {
		path = cache.DefaultPath()
	}

	return cache.Open(path)
}

// renderResult formats and prints a scan result using the selected format.
func renderResult(result *types.ScanResult) error {
	outFormat := viper.GetString("output")
	if outFormat == "" {
		outFormat = config.DefaultOutput
	}

	rendered, err := output.Render(outFormat, result)
	if err != nil {
		return fmt.Errorf("unknown output format %q: available formats are %v", outFormat, output.Available())
	}

	fmt.Print(rendered)
	return nil
}

// recordScan appends the result to the scan manifest. Failures are logged
// and ignored; history is a convenience, not part of the scan contract.
func recordScan(result *types.ScanResult) {
	if !viper.GetBool("manifest.enabled") {
		return
	}

	dir := viper.GetString("manifest.path")
	if dir == "" {
		dir = config.DefaultManifestDir()
	}

	m, err := manifest.New(dir)
	if err != nil {
		printVerbose("Manifest disabled: %v", err)
		return
	}
	if err := m.EnsureDir(); err != nil {
		printVerbose("Failed to create manifest directory: %v", err)
		return
	}

	entry, err := m.LogScan(result)
	if err != nil {
		printVerbose("Failed to record scan: %v", err)
		return
	}
	printVerbose("Recorded scan %s", entry.ID)

	retention := viper.GetInt("manifest.retention_days")
	if retention <= 0 {
		retention = config.DefaultRetentionDays
	}
	if err := m.Cleanup(retention); err != nil {
		printVerbose("Manifest cleanup failed: %v", err)
	}
}
