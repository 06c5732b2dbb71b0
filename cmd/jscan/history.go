package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jscan-dev/jscan/pkg/jscan/config"
	"github.com/jscan-dev/jscan/pkg/jscan/manifest"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View previous scan results",
	Long: `View the history of completed scans.

Each scan is recorded in the manifest with the runtimes it found, so
earlier results can be inspected without rescanning.`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show details of a specific scan",
	Long:  `Display the full runtime list recorded for a scan by its ID.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean up old history entries",
	Long:  `Remove history entries older than the retention period.`,
	RunE:  runHistoryClean,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of entries to show")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// getManifest returns a manifest instance with the configured directory.
func getManifest() (*manifest.Manifest, error) {
	dir := viper.GetString("manifest.path")
	if dir == "" {
		dir = config.DefaultManifestDir()
	}
	return manifest.New(dir)
}

// runHistory lists recent scans.
func runHistory(cmd *cobra.Command, args []string) error {
	m, err := getManifest()
	if err != nil {
		return fmt.Errorf("failed to initialize manifest: %w", err)
	}

	entries, err := m.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		printInfo("No history entries found.")
		printInfo("Run 'jscan' to scan for Java runtimes.")
		return nil
	}

	// Print header
	fmt.Printf("\n%-40s  %-14s  %-10s  %-8s  %-10s\n", "ID", "AGE", "RUNTIMES", "ERRORS", "ELAPSED")
	fmt.Println(strings.Repeat("-", 92))

	for _, entry := range entries {
		fmt.Printf("%-40s  %-14s  %-10d  %-8d  %-10s\n",
			truncateString(entry.ID, 40),
			humanize.Time(entry.Timestamp),
			entry.Summary.TotalRuntimes,
			entry.Summary.TotalErrors,
			entry.Stats.Elapsed.Round(10*time.Millisecond).String(),
		)
	}

	fmt.Println(strings.Repeat("-", 92))
	fmt.Printf("\nShowing %d entries. Use --limit to see more.\n", len(entries))
	fmt.Println("Use 'jscan history show <id>' for details on a specific scan.")

	return nil
}

// runHistoryShow displays details of a specific scan.
func runHistoryShow(cmd *cobra.Command, args []string) error {
	id := args[0]

	m, err := getManifest()
	if err != nil {
		return fmt.Errorf("failed to initialize manifest: %w", err)
	}

	entry, err := m.Get(id)
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	// Display entry details
	fmt.Println("\nScan Details")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("ID:         %s\n", entry.ID)
	fmt.Printf("Timestamp:  %s\n", entry.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Runtimes:   %d\n", entry.Summary.TotalRuntimes)
	fmt.Printf("Dirs:       %d\n", entry.Stats.DirsScanned)
	fmt.Printf("Probed:     %d of %d candidates\n", entry.Stats.CandidatesProbed, entry.Stats.CandidatesFound)
	fmt.Printf("Elapsed:    %s\n", entry.Stats.Elapsed)

	if len(entry.Runtimes) > 0 {
		fmt.Println("\nRuntimes:")
		fmt.Println(strings.Repeat("-", 60))
		fmt.Printf("%-12s  %-5s  %s\n", "VERSION", "ARCH", "PATH")
		fmt.Println(strings.Repeat("-", 60))
		for _, rt := range entry.Runtimes {
			fmt.Printf("%-12s  %-5s  %s\n", rt.Version, rt.Architecture, rt.Path)
		}
	}

	if len(entry.Errors) > 0 {
		fmt.Println("\nErrors:")
		for _, e := range entry.Errors {
			fmt.Printf("  %s: %s\n", e.Path, e.Error)
		}
	}

	return nil
}

// runHistoryClean removes old history entries.
func runHistoryClean(cmd *cobra.Command, args []string) error {
	m, err := getManifest()
	if err != nil {
		return fmt.Errorf("failed to initialize manifest: %w", err)
	}

	retentionDays := viper.GetInt("manifest.retention_days")
	if retentionDays <= 0 {
		retentionDays = config.DefaultRetentionDays
	}

	printInfo("Cleaning history entries older than %d days...", retentionDays)

	if err := m.Cleanup(retentionDays); err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}

	printInfo("History cleanup complete.")
	return nil
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
