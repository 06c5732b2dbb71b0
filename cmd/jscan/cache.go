package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jscan-dev/jscan/pkg/jscan/cache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the probe cache",
	Long: `Commands for managing the probe-outcome cache.

The cache remembers the version and architecture reported by each probed
binary, keyed by path, size, and modification time, so unchanged binaries
are not re-spawned on repeat scans. Cache data is stored in the XDG cache
directory (typically ~/.cache/jscan/probes).`,
}

// cachePath returns the configured or default cache directory.
func cachePath() string {
	if path := viper.GetString("cache.path"); path != "" {
		return path
	}
	return cache.DefaultPath()
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all cached probe outcomes",
	Long:  `Removes all cached probe outcomes. The next scan will re-probe every candidate.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cachePath()

		// Check if cache exists
		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Println("Cache is already empty.")
			return nil
		}

		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}

		fmt.Println("Cache cleared.")
		return nil
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Long:  `Displays information about the cache including its location, size, and last modified time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cachePath()

		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			fmt.Println("Cache: empty (no cache directory)")
			fmt.Printf("Cache location: %s\n", path)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to stat cache: %w", err)
		}

		// Get directory size
		var size int64
		var fileCount int
		err = filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() {
				size += info.Size()
				fileCount++
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to calculate cache size: %w", err)
		}

		fmt.Printf("Cache location: %s\n", path)
		fmt.Printf("Cache size: %.2f MB\n", float64(size)/1024/1024)
		fmt.Printf("Cache files: %d\n", fileCount)
		fmt.Printf("Last modified: %s\n", info.ModTime().Format("2006-01-02 15:04:05"))

		return nil
	},
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show cache location",
	Long:  `Prints the path to the cache directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(cachePath())
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cachePathCmd)
	rootCmd.AddCommand(cacheCmd)
}
