// Package manifest provides scan-history recording for the runtime scanner.
// Each completed scan is persisted as a JSON entry, so previous discovery
// results can be listed and compared without rescanning.
package manifest

import (
	"time"

	"github.com/jscan-dev/jscan/pkg/jscan/types"
)

// Entry represents a single recorded scan.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	// Runtimes is the deduplicated runtime set the scan produced.
	Runtimes []types.JavaInfo `json:"runtimes"`

	Stats   types.ScanStats   `json:"stats"`
	Errors  []types.ScanError `json:"errors,omitempty"`
	Summary Summary           `json:"summary"`
}

// Summary contains scan summary counts.
type Summary struct {
	TotalRuntimes int64 `json:"total_runtimes"`
	TotalErrors   int64 `json:"total_errors"`
}
