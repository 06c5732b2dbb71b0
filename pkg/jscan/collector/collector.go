// Package collector awaits launched probes, parses their banners, and
// aggregates confirmed runtimes into a deduplicated set.
package collector

import (
	"context"
	"sync"

	"github.com/jscan-dev/jscan/pkg/jscan/logging"
	"github.com/jscan-dev/jscan/pkg/jscan/probe"
	"github.com/jscan-dev/jscan/pkg/jscan/types"
)

var logger = logging.Get("collector")

// ProbeOutcome records what one awaited probe revealed about its binary,
// positive or negative. Outcomes feed the probe cache.
type ProbeOutcome struct {
	Path    string
	Size    int64
	Mtime   int64
	Version string
	Arch    string
	NotJava bool
}

// Collector accumulates confirmed runtimes.
//
// The result set is keyed by full structural equality of (Path, Version,
// Architecture): the same install discovered by both the volume scan and
// the PATH scan collapses to one entry. Insertion is mutex-guarded because
// the asynchronous entry point can interleave completions with streaming
// consumers.
type Collector struct {
	// OnRuntime, when set, is invoked once per newly confirmed runtime,
	// in discovery order. It is called with the collector lock released.
	OnRuntime func(types.JavaInfo)

	mu       sync.Mutex
	seen     map[types.JavaInfo]struct{}
	runtimes []types.JavaInfo
}

// New creates an empty Collector.
func New() *Collector {
	return &Collector{seen: make(map[types.JavaInfo]struct{})}
}

// Add inserts a runtime into the set, reporting whether it was new.
func (c *Collector) Add(info types.JavaInfo) bool {
	c.mu.Lock()
	if _, dup := c.seen[info]; dup {
		c.mu.Unlock()
		return false
	}
	c.seen[info] = struct{}{}
	c.runtimes = append(c.runtimes, info)
	c.mu.Unlock()

	if c.OnRuntime != nil {
		c.OnRuntime(info)
	}
	return true
}

// Collect awaits every handle in discovery order and returns the probe
// outcomes. Confirmed runtimes are added to the set as each probe
// completes; candidates with no parseable version banner are recorded as
// NotJava, and probes that failed outright (killed on timeout or
// cancellation) produce no outcome at all.
func (c *Collector) Collect(ctx context.Context, handles []*probe.Handle) []ProbeOutcome {
	outcomes := make([]ProbeOutcome, 0, len(handles))

	for _, h := range handles {
		out, err := h.Wait(ctx)
		if err != nil {
			logger.Debug("probe did not complete", "path", h.Path, "error", err)
			continue
		}

		outcome := ProbeOutcome{
			Path:  h.Path,
			Size:  h.Size,
			Mtime: h.Mtime,
		}

		text := out.Text()
		version := probe.ExtractVersion(text)
		if version == "" {
			// Not a Java runtime, or unparseable output. Not an error.
			outcome.NotJava = true
			outcomes = append(outcomes, outcome)
			continue
		}

		outcome.Version = version
		outcome.Arch = probe.DetectArch(text)
		outcomes = append(outcomes, outcome)

		info := types.JavaInfo{
			Path:         h.Path,
			Version:      version,
			Architecture: outcome.Arch,
		}
		if c.Add(info) {
			logger.Info("runtime confirmed", "path", info.Path, "version", info.Version, "arch", info.Architecture)
		}
	}

	return outcomes
}

// Runtimes returns the deduplicated set in first-discovery order.
func (c *Collector) Runtimes() []types.JavaInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.JavaInfo(nil), c.runtimes...)
}
