package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jscan-dev/jscan/pkg/jscan/scan"
	"github.com/jscan-dev/jscan/pkg/jscan/types"
	"github.com/jscan-dev/jscan/pkg/jscan/watch"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously watch for runtime changes",
	Long: `Scan once, then keep watching the discovered runtime locations and
PATH directories for changes. When a java launcher is installed, updated,
or removed, the scan re-runs and the new result is printed.

Press Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// runWatch performs an initial scan and rescans on filesystem changes.
func runWatch(_ *cobra.Command, _ []string) error {
	opts, err := buildScanOptions()
	if err != nil {
		return err
	}

	store, err := openCache()
	if err != nil {
		printVerbose("Probe cache unavailable, scanning without it: %v", err)
	}
	if store != nil {
		opts.Cache = store
		defer store.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		printInfo("\nStopping watch...")
		cancel()
	}()

	debounce := time.Duration(viper.GetInt("watch.debounce_ms")) * time.Millisecond
	w, err := watch.New(debounce)
	if err != nil {
		return err
	}
	defer w.Close()

	var previous map[types.JavaInfo]struct{}

	rescan := func() *types.ScanResult {
		result := scan.New(opts).Scan(ctx)
		if err := renderResult(result); err != nil {
			printError("%v", err)
		}
		recordScan(result)
		previous = printDeltas(previous, result.Runtimes)

		// New runtime locations need watches too
		w.WatchResult(result)
		return result
	}

	printInfo("Scanning local volumes for Java runtimes...")
	rescan()

	if !opts.SkipPathScan {
		w.WatchPathDirs()
	}
	printInfo("\nWatching %d location(s) for changes. Press Ctrl+C to stop.", w.Watched())

	w.Run(ctx, func() {
		printInfo("\nChange detected, rescanning...")
		rescan()
	})

	return nil
}

// printDeltas reports runtimes added or removed since the previous scan and
// returns the new set. The first scan establishes the baseline silently.
func printDeltas(previous map[types.JavaInfo]struct{}, runtimes []types.JavaInfo) map[types.JavaInfo]struct{} {
	current := make(map[types.JavaInfo]struct{}, len(runtimes))
	for _, rt := range runtimes {
		current[rt] = struct{}{}
	}
	if previous == nil {
		return current
	}

	for _, rt := range runtimes {
		if _, ok := previous[rt]; !ok {
			printInfo("+ %s %s (%s)", rt.Version, rt.Architecture, rt.Path)
		}
	}
	for rt := range previous {
		if _, ok := current[rt]; !ok {
			printInfo("- %s %s (%s)", rt.Version, rt.Architecture, rt.Path)
		}
	}
	return current
}
