// Package updater handles checking for and applying jscan releases.
package updater

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/jscan-dev/jscan/pkg/jscan/logging"
)

var logger = logging.Get("updater")

const (
	// GitHubRepo is the repository jscan releases are published from.
	GitHubRepo = "jscan-dev/jscan"

	// UpdateTimeout is the maximum time for update operations.
	UpdateTimeout = 5 * time.Minute
)

// Updater checks for and applies new releases.
type Updater struct {
	currentVersion string
	selfUpdater    *selfupdate.Updater
}

// New creates an Updater for the given running version.
func New(version string) (*Updater, error) {
	// Release assets are validated against the published checksum file.
	su, err := selfupdate.NewUpdater(selfupdate.Config{
		Validator: &selfupdate.ChecksumValidator{
			UniqueFilename: "SHA256SUMS.txt",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create updater: %w", err)
	}

	return &Updater{
		currentVersion: cleanVersion(version),
		selfUpdater:    su,
	}, nil
}

// CheckForUpdate queries GitHub for the latest release.
// It returns nil when the running version is already current.
func (u *Updater) CheckForUpdate(ctx context.Context) (*selfupdate.Release, error) {
	latest, found, err := u.selfUpdater.DetectLatest(ctx, selfupdate.ParseSlug(GitHubRepo))
	if err != nil {
		return nil, fmt.Errorf("failed to check for updates: %w", err)
	}

	if !found {
		return nil, fmt.Errorf("no releases found")
	}

	if latest.LessOrEqual(u.currentVersion) {
		logger.Debug("already up to date", "version", u.currentVersion)
		return nil, nil
	}

	logger.Info("update available", "current", u.currentVersion, "latest", latest.Version())
	return latest, nil
}

// PerformUpdate downloads and installs the given release.
// The current binary is backed up first and restored on failure.
func (u *Updater) PerformUpdate(ctx context.Context, release *selfupdate.Release) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to determine executable path: %w", err)
	}

	backup := exe + ".backup"
	if err := copyFile(exe, backup); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}

	if err := selfupdate.UpdateTo(ctx, release.AssetURL, release.AssetName, exe); err != nil {
		if rollbackErr := os.Rename(backup, exe); rollbackErr != nil {
			return fmt.Errorf("update failed and rollback failed: update error: %w, rollback error: %v", err, rollbackErr)
		}
		return fmt.Errorf("update failed (rolled back): %w", err)
	}

	logger.Info("updated", "from", u.currentVersion, "to", release.Version())

	// Clean up backup after a delay (async)
	go func() {
		time.Sleep(10 * time.Second)
		os.Remove(backup)
	}()

	return nil
}

// copyFile creates a copy of the file for backup purposes.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o755)
}

// cleanVersion removes the 'v' prefix if present for consistent comparison.
func cleanVersion(version string) string {
	return strings.TrimPrefix(version, "v")
}
