package scan

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jscan-dev/jscan/pkg/jscan/cache"
	"github.com/jscan-dev/jscan/pkg/jscan/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	banner32 = `echo 'java version "17.0.2" 2022-01-18' >&2`
	banner64 = `echo 'openjdk version "17.0.2" 2022-01-18' >&2
echo 'OpenJDK 64-Bit Server VM (build 17.0.2+8-86, mixed mode)' >&2`
)

// fakeJava writes an executable named java that prints the given banner
// to stderr, creating parent directories as needed.
func fakeJava(t *testing.T, dir, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-script fixtures are not runnable on windows")
	}

	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "java")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

// scanFixture scans the given roots with PATH scanning disabled.
func scanFixture(t *testing.T, opts Options) *types.ScanResult {
	t.Helper()
	opts.SkipPathScan = true
	return New(opts).Scan(context.Background())
}

// TestScanDiscoversRuntime verifies a fixture with one banner-printing
// executable yields exactly one runtime, classified x86 without the
// 64-Bit marker.
func TestScanDiscoversRuntime(t *testing.T) {
	root := t.TempDir()
	path := fakeJava(t, filepath.Join(root, "jdk-17"), banner32)

	result := scanFixture(t, Options{Roots: []string{root}})

	require.Len(t, result.Runtimes, 1)
	assert.Equal(t, types.JavaInfo{
		Path:         path,
		Version:      "17.0.2",
		Architecture: types.ArchX86,
	}, result.Runtimes[0])
	assert.Equal(t, int64(1), result.Stats.CandidatesFound)
	assert.Equal(t, int64(1), result.Stats.CandidatesProbed)
	assert.Empty(t, result.Errors)
}

// TestScanDetects64Bit verifies the 64-Bit marker flips the architecture.
func TestScanDetects64Bit(t *testing.T) {
	root := t.TempDir()
	fakeJava(t, filepath.Join(root, "jdk-17"), banner64)

	result := scanFixture(t, Options{Roots: []string{root}})

	require.Len(t, result.Runtimes, 1)
	assert.Equal(t, types.ArchX64, result.Runtimes[0].Architecture)
}

// TestScanIdempotent verifies two scans of an unchanged fixture yield
// equal sets.
func TestScanIdempotent(t *testing.T) {
	root := t.TempDir()
	fakeJava(t, filepath.Join(root, "jdk-17"), banner32)
	fakeJava(t, filepath.Join(root, "zulu-jdk8"), banner64)

	first := scanFixture(t, Options{Roots: []string{root}})
	second := scanFixture(t, Options{Roots: []string{root}})

	assert.ElementsMatch(t, first.Runtimes, second.Runtimes)
	assert.Len(t, first.Runtimes, 2)
}

// TestScanDedupByFullTuple verifies two installs with identical banners at
// different paths stay distinct (dedup keys on the full tuple, not version
// alone), while rediscovering the same path collapses.
func TestScanDedupByFullTuple(t *testing.T) {
	root := t.TempDir()
	fakeJava(t, filepath.Join(root, "jdk-a"), banner32)
	fakeJava(t, filepath.Join(root, "jdk-b"), banner32)

	// The same root listed twice rediscovers every candidate.
	result := scanFixture(t, Options{Roots: []string{root, root}})

	assert.Len(t, result.Runtimes, 2)
	assert.Equal(t, int64(4), result.Stats.CandidatesFound)
}

// TestScanPathDirsShallow verifies PATH directories are scanned without
// descending and results dedup against the volume scan.
func TestScanPathDirsShallow(t *testing.T) {
	pathDir := t.TempDir()
	fakeJava(t, pathDir, banner32)
	fakeJava(t, filepath.Join(pathDir, "jdk-nested"), banner64) // below a PATH dir, must not be found

	t.Setenv("PATH", pathDir)

	empty := t.TempDir()
	result := New(Options{Roots: []string{empty}}).Scan(context.Background())

	require.Len(t, result.Runtimes, 1)
	assert.Equal(t, filepath.Join(pathDir, "java"), result.Runtimes[0].Path)
}

// TestScanCache verifies a second scan answers from the cache without
// spawning, and still reports the identical runtime set.
func TestScanCache(t *testing.T) {
	root := t.TempDir()
	fakeJava(t, filepath.Join(root, "jdk-17"), banner32)
	fakeJava(t, filepath.Join(root, "jdk-other"), `echo 'not java at all'`)

	store, err := cache.Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	first := scanFixture(t, Options{Roots: []string{root}, Cache: store})
	require.Len(t, first.Runtimes, 1)
	assert.Equal(t, int64(2), first.Stats.CandidatesProbed)

	second := scanFixture(t, Options{Roots: []string{root}, Cache: store})
	assert.Equal(t, first.Runtimes, second.Runtimes)
	assert.Equal(t, int64(0), second.Stats.CandidatesProbed)
	assert.Equal(t, int64(2), second.Stats.CacheHits)
}

// TestScanAsyncStreams verifies the asynchronous entry point streams
// runtimes through OnRuntime and delivers the same final result.
func TestScanAsyncStreams(t *testing.T) {
	root := t.TempDir()
	fakeJava(t, filepath.Join(root, "jdk-17"), banner32)

	var streamed []types.JavaInfo
	s := New(Options{
		Roots:        []string{root},
		SkipPathScan: true,
		OnRuntime:    func(info types.JavaInfo) { streamed = append(streamed, info) },
	})

	result := <-s.ScanAsync(context.Background())
	require.NotNil(t, result)
	assert.Equal(t, result.Runtimes, streamed)
}

// TestScanFileRootYieldsNothing verifies a root that is a file is not a
// traversal root.
func TestScanFileRootYieldsNothing(t *testing.T) {
	root := t.TempDir()
	path := fakeJava(t, root, banner32)

	result := scanFixture(t, Options{Roots: []string{path}})
	assert.Empty(t, result.Runtimes)
}

// TestPathDirsSkipsMissing verifies nonexistent PATH entries are ignored.
func TestPathDirsSkipsMissing(t *testing.T) {
	real := t.TempDir()
	t.Setenv("PATH", real+string(os.PathListSeparator)+filepath.Join(real, "missing"))

	s := New(Options{})
	dirs := s.pathDirs()
	assert.Equal(t, []string{real}, dirs)
}
