package main

import (
	"context"
	"fmt"

	"github.com/jscan-dev/jscan/pkg/jscan/updater"
	"github.com/spf13/cobra"
)

var updateCheckOnly bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update jscan to the latest release",
	Long: `Check GitHub for a newer jscan release and install it in place.

The downloaded asset is verified against the release checksums, and the
current binary is backed up and restored if the update fails.`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&updateCheckOnly, "check", false, "check for updates without installing")
	rootCmd.AddCommand(updateCmd)
}

// runUpdate checks for and optionally applies the latest release.
func runUpdate(cmd *cobra.Command, args []string) error {
	u, err := updater.New(version)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), updater.UpdateTimeout)
	defer cancel()

	release, err := u.CheckForUpdate(ctx)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}

	if release == nil {
		printInfo("jscan %s is up to date.", version)
		return nil
	}

	printInfo("New version available: %s (current: %s)", release.Version(), version)

	if updateCheckOnly {
		printInfo("Run 'jscan update' to install.")
		return nil
	}

	printInfo("Downloading and installing...")
	if err := u.PerformUpdate(ctx, release); err != nil {
		return err
	}

	printInfo("Updated to %s.", release.Version())
	return nil
}
