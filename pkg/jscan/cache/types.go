// Package cache persists probe outcomes between scans. Spawning a process
// per candidate is the expensive part of a scan; a cached outcome that still
// matches the binary's size and mtime answers without spawning anything.
package cache

import (
	"bytes"
	"encoding/gob"
)

// Version is incremented when the entry format changes.
const Version = 1

// Entry is the cached outcome of probing one binary.
type Entry struct {
	// Size and Mtime identify the binary revision the outcome belongs to.
	// Mtime is UnixNano.
	Size  int64
	Mtime int64

	// NotJava is set when the probe produced no parseable version banner.
	// Negative outcomes are worth caching too: most candidates on a full
	// volume scan are not Java runtimes.
	NotJava bool

	// Version and Arch hold the parsed banner fields when NotJava is false.
	Version string
	Arch    string

	// CachedAt is when the outcome was recorded, UnixNano.
	CachedAt int64
}

// Matches reports whether the cached outcome still describes a binary with
// the given size and mtime.
func (e *Entry) Matches(size, mtime int64) bool {
	return e.Size == size && e.Mtime == mtime
}

// Encode serializes the entry to bytes using gob.
func (e *Entry) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode deserializes bytes into the entry using gob.
func (e *Entry) Decode(data []byte) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(e)
}
