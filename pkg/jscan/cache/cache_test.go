package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// TestPutGet verifies round-tripping both positive and negative outcomes.
func TestPutGet(t *testing.T) {
	s := openTestStore(t)

	hit := &Entry{Size: 1234, Mtime: 99, Version: "17.0.2", Arch: "x64"}
	miss := &Entry{Size: 10, Mtime: 5, NotJava: true}

	require.NoError(t, s.Put("/usr/lib/jvm/jdk-17/bin/java", hit))
	require.NoError(t, s.Put("/usr/bin/java", miss))

	got, err := s.Get("/usr/lib/jvm/jdk-17/bin/java")
	require.NoError(t, err)
	assert.Equal(t, hit, got)

	got, err = s.Get("/usr/bin/java")
	require.NoError(t, err)
	assert.True(t, got.NotJava)
	assert.Empty(t, got.Version)
}

// TestGetMissing verifies ErrNotFound for unknown paths.
func TestGetMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get("/no/such/java")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestPutBatch verifies batched writes are all readable.
func TestPutBatch(t *testing.T) {
	s := openTestStore(t)

	entries := map[string]*Entry{
		"/a/java": {Size: 1, Mtime: 1, Version: "11.0.1", Arch: "x64"},
		"/b/java": {Size: 2, Mtime: 2, NotJava: true},
		"/c/java": {Size: 3, Mtime: 3, Version: "1.8.0_322", Arch: "x86"},
	}
	require.NoError(t, s.PutBatch(entries))

	for path, want := range entries {
		got, err := s.Get(path)
		require.NoError(t, err)
		assert.Equal(t, want, got, path)
	}
}

// TestClear verifies DropAll removes everything.
func TestClear(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Put("/a/java", &Entry{Size: 1, Mtime: 1, NotJava: true}))
	require.NoError(t, s.Clear())

	_, err := s.Get("/a/java")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestMatches pins the freshness check on both fields.
func TestMatches(t *testing.T) {
	e := &Entry{Size: 100, Mtime: 200}

	assert.True(t, e.Matches(100, 200))
	assert.False(t, e.Matches(101, 200))
	assert.False(t, e.Matches(100, 201))
}
