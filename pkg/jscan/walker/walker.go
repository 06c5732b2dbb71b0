// Package walker performs heuristic directory traversal for the jscan
// runtime scanner. It descends only into directories whose names pass the
// heuristic keyword filter and emits launcher candidates as it finds them,
// so probing overlaps with the remaining traversal.
package walker

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
	"github.com/jscan-dev/jscan/pkg/jscan/heuristics"
	"github.com/jscan-dev/jscan/pkg/jscan/logging"
	"github.com/jscan-dev/jscan/pkg/jscan/types"
)

var logger = logging.Get("walker")

// CandidateFunc is invoked for every file whose name matches the launcher
// heuristic. It is called from multiple goroutines during a recursive walk
// and must be safe for concurrent use.
type CandidateFunc func(path string, info fs.FileInfo)

// Walker traverses scan roots, pruning branches with the heuristic matcher
// and collecting candidates.
//
// Traversal is error-tolerant: permission-denied conditions are skipped
// silently (far too common across a whole volume to log), any other
// enumeration error is logged as a warning and recorded, and that branch is
// abandoned while the rest of the walk continues. No error aborts a scan.
type Walker struct {
	matcher *heuristics.Matcher

	dirsScanned atomic.Int64

	errors   []types.ScanError
	errorsMu sync.Mutex
}

// New creates a Walker using the given matcher.
func New(m *heuristics.Matcher) *Walker {
	return &Walker{matcher: m}
}

// Walk traverses root, emitting candidates through onCandidate.
//
// With recursive set, subdirectories are descended without depth limit but
// only when their name passes the heuristic filter; the root itself is
// never filtered. Without recursive only the immediate entries of root are
// examined (PATH directories are assumed specific enough already).
//
// A root that denotes a file yields nothing. Directory symlinks are not
// followed, which also guards against symlink cycles; symlinked launcher
// files are resolved to their targets (see emit).
func (w *Walker) Walk(ctx context.Context, root string, recursive bool, onCandidate CandidateFunc) {
	info, err := os.Stat(root)
	if err != nil {
		w.recordError(root, err)
		return
	}
	if !info.IsDir() {
		return
	}

	if !recursive {
		w.walkShallow(root, onCandidate)
		return
	}

	conf := fastwalk.Config{
		Follow: false,
	}
	err = fastwalk.Walk(&conf, root, w.walkCallback(ctx, root, onCandidate))
	if err != nil && !errors.Is(err, context.Canceled) {
		w.recordError(root, err)
	}
}

// walkCallback returns the fastwalk callback implementing pruning, the
// candidate check, and the failure policy.
func (w *Walker) walkCallback(ctx context.Context, root string, onCandidate CandidateFunc) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err != nil {
			w.recordError(path, err)
			return nil
		}

		if d.IsDir() {
			// The root was chosen deliberately; only subdirectories
			// are subject to the heuristic filter.
			if path != root && !w.matcher.IsHeuristicDir(d.Name()) {
				return fastwalk.SkipDir
			}
			w.dirsScanned.Add(1)
			return nil
		}

		if w.matcher.IsCandidateBinary(d.Name()) {
			w.emit(path, d, onCandidate)
		}
		return nil
	}
}

// walkShallow examines only the immediate entries of root.
func (w *Walker) walkShallow(root string, onCandidate CandidateFunc) {
	entries, err := os.ReadDir(root)
	if err != nil {
		w.recordError(root, err)
		return
	}
	w.dirsScanned.Add(1)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if w.matcher.IsCandidateBinary(entry.Name()) {
			w.emit(filepath.Join(root, entry.Name()), entry, onCandidate)
		}
	}
}

// emit resolves the entry's file info and hands the candidate off.
//
// A symlinked launcher is resolved to its target, since on most Linux
// systems /usr/bin/java is an alternatives symlink; the emitted info then
// describes the target binary, which is what cache freshness must track.
// Entries that do not resolve to a regular file (dangling links, sockets,
// devices) are dropped, as is a candidate that vanished since discovery.
func (w *Walker) emit(path string, d fs.DirEntry, onCandidate CandidateFunc) {
	var info fs.FileInfo
	var err error

	switch {
	case d.Type().IsRegular():
		info, err = d.Info()
	case d.Type()&fs.ModeSymlink != 0:
		info, err = os.Stat(path)
	default:
		return
	}
	if err != nil || !info.Mode().IsRegular() {
		return
	}

	logger.Debug("candidate found", "path", path)
	onCandidate(path, info)
}

// recordError applies the failure policy: permission denied is silently
// swallowed, everything else is logged and recorded.
func (w *Walker) recordError(path string, err error) {
	if errors.Is(err, fs.ErrPermission) {
		return
	}
	logger.Warn("traversal error", "path", path, "error", err)

	w.errorsMu.Lock()
	w.errors = append(w.errors, types.ScanError{Path: path, Error: err.Error()})
	w.errorsMu.Unlock()
}

// DirsScanned returns the number of directories entered so far.
func (w *Walker) DirsScanned() int64 {
	return w.dirsScanned.Load()
}

// Errors returns the traversal errors recorded so far.
func (w *Walker) Errors() []types.ScanError {
	w.errorsMu.Lock()
	defer w.errorsMu.Unlock()
	return append([]types.ScanError(nil), w.errors...)
}
