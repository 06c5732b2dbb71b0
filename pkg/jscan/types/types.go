// Package types provides core data types for the jscan Java runtime scanner.
// It includes the discovered-runtime value type, aggregate scan results, and
// the error records collected during a best-effort scan.
package types

import (
	"encoding/json"
	"time"
)

// Architecture values reported for discovered runtimes.
const (
	// ArchX64 is reported when the version banner advertises a 64-bit VM.
	ArchX64 = "x64"

	// ArchX86 is reported for everything else. The banner check is a
	// substring heuristic, so a small misclassification rate is expected.
	ArchX86 = "x86"
)

// JavaInfo describes a single confirmed Java runtime.
//
// It is a comparable value type: two JavaInfo values are equal iff all three
// fields are equal, and the scanner's result set is deduplicated on that full
// tuple. The fields intentionally carry no json tags; the serialized field
// names Path, Version and Architecture are the external contract.
type JavaInfo struct {
	// Path is the absolute path to the java executable.
	Path string

	// Version is the version string extracted from the runtime's banner,
	// e.g. "17.0.2" or "1.8.0_322".
	Version string

	// Architecture is either ArchX64 or ArchX86.
	Architecture string
}

// String returns a compact single-line representation for logging.
func (j JavaInfo) String() string {
	return j.Path + " (" + j.Version + ", " + j.Architecture + ")"
}

// ScanError represents an error encountered during traversal.
// It pairs a path with the error message for debugging and reporting.
type ScanError struct {
	// Path is the directory where the error occurred.
	Path string `json:"path"`

	// Error is the error message describing what went wrong.
	Error string `json:"error"`
}

// ScanStats contains statistics about a scan operation.
type ScanStats struct {
	// RootsScanned is the number of top-level roots that were walked
	// (volume roots plus PATH directories).
	RootsScanned int64 `json:"roots_scanned"`

	// DirsScanned is the total number of directories traversed.
	DirsScanned int64 `json:"dirs_scanned"`

	// CandidatesFound is the number of files whose name matched the
	// launcher heuristic.
	CandidatesFound int64 `json:"candidates_found"`

	// CandidatesProbed is the number of candidates actually spawned.
	// It is lower than CandidatesFound when the probe cache answers.
	CandidatesProbed int64 `json:"candidates_probed"`

	// CacheHits is the number of candidates answered from the probe cache.
	CacheHits int64 `json:"cache_hits"`

	// BytesProbed is the combined on-disk size of all probed binaries.
	BytesProbed int64 `json:"bytes_probed"`

	// Elapsed is the total time taken to complete the scan.
	Elapsed time.Duration `json:"elapsed"`
}

// ScanResult contains the aggregated outcome of a scan.
// The contract is best-effort: a result is always produced, and traversal
// failures are reported through Errors rather than aborting the scan.
type ScanResult struct {
	// Runtimes contains the deduplicated set of confirmed Java runtimes,
	// in first-discovery order.
	Runtimes []JavaInfo `json:"runtimes"`

	// Stats contains scan statistics.
	Stats ScanStats `json:"stats"`

	// Errors contains non-fatal traversal errors. Permission-denied
	// conditions are skipped silently and never appear here.
	Errors []ScanError `json:"errors,omitempty"`
}

// Count returns the number of confirmed runtimes.
func (r *ScanResult) Count() int {
	return len(r.Runtimes)
}

// MarshalRuntimes renders the runtime set as an indented JSON array using
// the contract field names (Path, Version, Architecture).
func (r *ScanResult) MarshalRuntimes() ([]byte, error) {
	return json.MarshalIndent(r.Runtimes, "", "  ")
}
