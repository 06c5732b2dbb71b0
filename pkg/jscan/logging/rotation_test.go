package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jscan-dev/jscan/pkg/jscan/logging"
)

// backupFiles returns the rotated log files next to path.
func backupFiles(t *testing.T, path string) []string {
	t.Helper()

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("failed to read log directory: %v", err)
	}

	base := filepath.Base(path)
	var backups []string
	for _, entry := range entries {
		if name := entry.Name(); name != base && strings.HasPrefix(name, "jscan.") {
			backups = append(backups, name)
		}
	}
	return backups
}

func TestRotatingWriterAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jscan.log")

	w, err := logging.NewRotatingWriter(path, logging.RotationConfig{})
	if err != nil {
		t.Fatalf("NewRotatingWriter() error = %v", err)
	}

	if _, err := w.Write([]byte("first\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := w.Write([]byte("second\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if string(content) != "first\nsecond\n" {
		t.Errorf("log content = %q, want both writes in order", content)
	}
}

func TestRotatingWriterRotatesAtMaxSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jscan.log")

	w, err := logging.NewRotatingWriter(path, logging.RotationConfig{MaxSize: 32})
	if err != nil {
		t.Fatalf("NewRotatingWriter() error = %v", err)
	}
	defer w.Close()

	line := bytes.Repeat([]byte("x"), 24)
	if _, err := w.Write(append(line, '\n')); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	// Crosses the threshold: the first line moves to a backup
	if _, err := w.Write(append(line, '\n')); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if got := backupFiles(t, path); len(got) != 1 {
		t.Errorf("backups = %v, want exactly one rotated file", got)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat log file: %v", err)
	}
	if info.Size() != 25 {
		t.Errorf("active file size = %d, want only the second write", info.Size())
	}
}

func TestRotatingWriterPrunesBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jscan.log")

	// Pre-seed more backups than the limit allows
	for _, stamp := range []string{"2024-01-01-000000", "2024-01-02-000000", "2024-01-03-000000"} {
		name := filepath.Join(filepath.Dir(path), "jscan."+stamp+".log")
		if err := os.WriteFile(name, []byte("old\n"), 0o644); err != nil {
			t.Fatalf("failed to seed backup: %v", err)
		}
	}

	w, err := logging.NewRotatingWriter(path, logging.RotationConfig{MaxBackups: 1})
	if err != nil {
		t.Fatalf("NewRotatingWriter() error = %v", err)
	}
	defer w.Close()

	got := backupFiles(t, path)
	if len(got) != 1 || got[0] != "jscan.2024-01-03-000000.log" {
		t.Errorf("backups = %v, want only the newest kept", got)
	}
}
