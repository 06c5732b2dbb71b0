// Package scan orchestrates the discovery pipeline: root enumeration,
// heuristic traversal, concurrent probing, and collection into a
// deduplicated runtime set.
//
// Data flows one direction: roots -> candidates -> probes -> parsed
// results. Probes are launched the moment the walker finds a candidate, so
// process execution overlaps with the remaining traversal; collection then
// awaits the probes in discovery order.
package scan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jscan-dev/jscan/pkg/jscan/cache"
	"github.com/jscan-dev/jscan/pkg/jscan/collector"
	"github.com/jscan-dev/jscan/pkg/jscan/heuristics"
	"github.com/jscan-dev/jscan/pkg/jscan/logging"
	"github.com/jscan-dev/jscan/pkg/jscan/probe"
	"github.com/jscan-dev/jscan/pkg/jscan/types"
	"github.com/jscan-dev/jscan/pkg/jscan/walker"
)

var logger = logging.Get("scan")

// Options configures the scanner behavior.
type Options struct {
	// Keywords drives directory pruning. Zero value means Default().
	Keywords heuristics.Keywords

	// Roots overrides volume-root enumeration when non-empty. Each root
	// is scanned recursively. Tests point this at fixture trees.
	Roots []string

	// SkipPathScan disables the shallow scan of PATH directories.
	SkipPathScan bool

	// ProbeTimeout bounds each probe; zero uses probe.DefaultTimeout,
	// negative disables the bound.
	ProbeTimeout time.Duration

	// Cache is an optional probe-outcome cache. If nil, every candidate
	// is spawned.
	Cache *cache.Store

	// OnRuntime is called once per newly confirmed runtime, in discovery
	// order. Used by the asynchronous entry point to stream results.
	OnRuntime func(types.JavaInfo)
}

// applyDefaults fills zero values in place.
func (o *Options) applyDefaults() {
	if len(o.Keywords.Include) == 0 && len(o.Keywords.Exclude) == 0 {
		o.Keywords = heuristics.Default()
	}
	switch {
	case o.ProbeTimeout == 0:
		o.ProbeTimeout = probe.DefaultTimeout
	case o.ProbeTimeout < 0:
		o.ProbeTimeout = 0
	}
}

// Scanner drives a scan. A Scanner is single-use; create a new one per scan.
type Scanner struct {
	opts Options

	candidatesFound  atomic.Int64
	candidatesProbed atomic.Int64
	cacheHits        atomic.Int64
	bytesProbed      atomic.Int64
}

// New creates a Scanner with the given options.
func New(opts Options) *Scanner {
	opts.applyDefaults()
	return &Scanner{opts: opts}
}

// Scan performs the scan and blocks until every probe has been collected.
//
// The contract is best-effort: Scan always returns a result. Traversal
// failures are recorded in the result's Errors, spawn failures drop the
// candidate, and unparseable probe output is silently discarded.
func (s *Scanner) Scan(ctx context.Context) *types.ScanResult {
	start := time.Now()

	matcher := heuristics.NewMatcher(s.opts.Keywords)
	w := walker.New(matcher)
	runner := &probe.Runner{Timeout: s.opts.ProbeTimeout}

	coll := collector.New()
	coll.OnRuntime = s.opts.OnRuntime

	var handlesMu sync.Mutex
	var handles []*probe.Handle

	onCandidate := func(path string, info os.FileInfo) {
		s.candidatesFound.Add(1)

		if s.answerFromCache(path, info, coll) {
			return
		}

		h, err := runner.Launch(path, info)
		if err != nil {
			// Not executable, or gone since discovery. Dropped.
			return
		}
		s.candidatesProbed.Add(1)
		s.bytesProbed.Add(info.Size())

		handlesMu.Lock()
		handles = append(handles, h)
		handlesMu.Unlock()
	}

	roots := s.roots()
	pathDirs := s.pathDirs()
	logger.Info("scan started", "roots", len(roots), "path_dirs", len(pathDirs))

	for _, root := range roots {
		logger.Debug("walking volume root", "root", root)
		w.Walk(ctx, root, true, onCandidate)
	}
	for _, dir := range pathDirs {
		logger.Debug("walking PATH directory", "dir", dir)
		w.Walk(ctx, dir, false, onCandidate)
	}

	logger.Debug("traversal complete, collecting probes",
		"candidates", s.candidatesFound.Load(),
		"probes", len(handles))

	outcomes := coll.Collect(ctx, handles)
	s.storeOutcomes(outcomes)

	result := &types.ScanResult{
		Runtimes: coll.Runtimes(),
		Stats: types.ScanStats{
			RootsScanned:     int64(len(roots) + len(pathDirs)),
			DirsScanned:      w.DirsScanned(),
			CandidatesFound:  s.candidatesFound.Load(),
			CandidatesProbed: s.candidatesProbed.Load(),
			CacheHits:        s.cacheHits.Load(),
			BytesProbed:      s.bytesProbed.Load(),
			Elapsed:          time.Since(start),
		},
		Errors: w.Errors(),
	}

	logger.Info("scan complete",
		"runtimes", result.Count(),
		"dirs", result.Stats.DirsScanned,
		"elapsed", result.Stats.Elapsed)
	return result
}

// ScanAsync runs the scan in a background goroutine and delivers the final
// result on the returned channel. Confirmed runtimes stream through
// Options.OnRuntime as they are collected, so callers stay responsive while
// probes complete.
func (s *Scanner) ScanAsync(ctx context.Context) <-chan *types.ScanResult {
	ch := make(chan *types.ScanResult, 1)
	go func() {
		defer close(ch)
		ch <- s.Scan(ctx)
	}()
	return ch
}

// answerFromCache resolves a candidate from the probe cache when the cached
// outcome still matches the binary's size and mtime. Returns true when the
// candidate is fully handled (positively or negatively) without spawning.
func (s *Scanner) answerFromCache(path string, info os.FileInfo, coll *collector.Collector) bool {
	if s.opts.Cache == nil {
		return false
	}

	entry, err := s.opts.Cache.Get(path)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			logger.Warn("cache read failed", "path", path, "error", err)
		}
		return false
	}
	if !entry.Matches(info.Size(), info.ModTime().UnixNano()) {
		return false
	}

	s.cacheHits.Add(1)
	if entry.NotJava {
		return true
	}

	runtime := types.JavaInfo{
		Path:         path,
		Version:      entry.Version,
		Architecture: entry.Arch,
	}
	if coll.Add(runtime) {
		logger.Info("runtime confirmed", "path", runtime.Path,
			"version", runtime.Version, "arch", runtime.Architecture, "cached", true)
	}
	return true
}

// storeOutcomes writes this scan's probe outcomes back to the cache.
func (s *Scanner) storeOutcomes(outcomes []collector.ProbeOutcome) {
	if s.opts.Cache == nil || len(outcomes) == 0 {
		return
	}

	now := time.Now().UnixNano()
	entries := make(map[string]*cache.Entry, len(outcomes))
	for _, o := range outcomes {
		entries[o.Path] = &cache.Entry{
			Size:     o.Size,
			Mtime:    o.Mtime,
			NotJava:  o.NotJava,
			Version:  o.Version,
			Arch:     o.Arch,
			CachedAt: now,
		}
	}

	if err := s.opts.Cache.PutBatch(entries); err != nil {
		logger.Warn("cache update failed", "error", err)
	}
}

// roots returns the recursive scan roots.
func (s *Scanner) roots() []string {
	if len(s.opts.Roots) > 0 {
		return s.opts.Roots
	}
	return volumeRoots()
}

// pathDirs returns the existing directories named in PATH, scanned
// shallowly on the assumption they are already specific enough.
func (s *Scanner) pathDirs() []string {
	if s.opts.SkipPathScan {
		return nil
	}

	var dirs []string
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			continue
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		dirs = append(dirs, dir)
	}
	return dirs
}

// ScanJava discovers Java runtimes on all local volumes and PATH,
// blocking until complete, and returns the deduplicated set.
func ScanJava(ctx context.Context) []types.JavaInfo {
	return New(Options{}).Scan(ctx).Runtimes
}

// ScanJavaAsync is the non-blocking counterpart of ScanJava; the final
// result arrives on the returned channel.
func ScanJavaAsync(ctx context.Context) <-chan *types.ScanResult {
	return New(Options{}).ScanAsync(ctx)
}
