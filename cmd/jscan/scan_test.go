package main

import (
	"testing"
	"time"

	"github.com/jscan-dev/jscan/pkg/jscan/types"
	"github.com/spf13/viper"
)

func resetViper(t *testing.T) {
	t.Helper()
	reset := func() {
		viper.Reset()
		bindFlags()
	}
	reset()
	t.Cleanup(reset)
}

func TestBuildScanOptionsDefaults(t *testing.T) {
	resetViper(t)
	viper.Set("scan.probe_timeout_seconds", 10)

	opts, err := buildScanOptions()
	if err != nil {
		t.Fatalf("buildScanOptions() error = %v", err)
	}

	if opts.ProbeTimeout != 10*time.Second {
		t.Errorf("ProbeTimeout = %v, want 10s", opts.ProbeTimeout)
	}
	if opts.SkipPathScan {
		t.Error("SkipPathScan = true, want false")
	}
	if len(opts.Roots) != 0 {
		t.Errorf("Roots = %v, want empty", opts.Roots)
	}
	if len(opts.Keywords.Include) == 0 {
		t.Error("Keywords.Include is empty, want built-in defaults")
	}
}

func TestBuildScanOptionsFlagTimeoutWins(t *testing.T) {
	resetViper(t)
	viper.Set("scan.probe_timeout_seconds", 10)
	viper.Set("timeout", 3*time.Second)

	opts, err := buildScanOptions()
	if err != nil {
		t.Fatalf("buildScanOptions() error = %v", err)
	}

	if opts.ProbeTimeout != 3*time.Second {
		t.Errorf("ProbeTimeout = %v, want 3s", opts.ProbeTimeout)
	}
}

func TestTimeoutFlagReachesScanOptions(t *testing.T) {
	resetViper(t)
	viper.Set("scan.probe_timeout_seconds", 10)

	if err := rootCmd.PersistentFlags().Set("timeout", "3s"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}
	t.Cleanup(func() { _ = rootCmd.PersistentFlags().Set("timeout", "0s") })

	opts, err := buildScanOptions()
	if err != nil {
		t.Fatalf("buildScanOptions() error = %v", err)
	}

	if opts.ProbeTimeout != 3*time.Second {
		t.Errorf("ProbeTimeout = %v, want 3s from the flag binding", opts.ProbeTimeout)
	}
}

func TestBuildScanOptionsExtendsKeywords(t *testing.T) {
	resetViper(t)
	viper.Set("scan.include_keywords", []string{"Corretto"})
	viper.Set("scan.exclude_keywords", []string{"Backup"})

	opts, err := buildScanOptions()
	if err != nil {
		t.Fatalf("buildScanOptions() error = %v", err)
	}

	found := false
	for _, kw := range opts.Keywords.Include {
		if kw == "corretto" {
			found = true
		}
	}
	if !found {
		t.Error("extra include keyword not lowercased into matcher set")
	}

	found = false
	for _, kw := range opts.Keywords.Exclude {
		if kw == "backup" {
			found = true
		}
	}
	if !found {
		t.Error("extra exclude keyword not lowercased into matcher set")
	}
}

func TestBuildScanOptionsExpandsRoots(t *testing.T) {
	resetViper(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	viper.Set("scan.roots", []string{"~/sdks"})

	opts, err := buildScanOptions()
	if err != nil {
		t.Fatalf("buildScanOptions() error = %v", err)
	}

	if len(opts.Roots) != 1 || opts.Roots[0] == "~/sdks" {
		t.Errorf("Roots = %v, want tilde expanded", opts.Roots)
	}
}

func TestRotationConfigFromViper(t *testing.T) {
	resetViper(t)
	viper.Set("logging.rotation.max_size", "1MB")
	viper.Set("logging.rotation.max_backups", 3)

	cfg := rotationConfig()
	if cfg.MaxSize != 1000*1000 {
		t.Errorf("MaxSize = %d, want 1MB parsed", cfg.MaxSize)
	}
	if cfg.MaxBackups != 3 {
		t.Errorf("MaxBackups = %d, want 3", cfg.MaxBackups)
	}
}

func TestRotationConfigBadSizeFallsBack(t *testing.T) {
	resetViper(t)
	viper.Set("logging.rotation.max_size", "enormous")

	if cfg := rotationConfig(); cfg.MaxSize != 0 {
		t.Errorf("MaxSize = %d, want 0 so the writer default applies", cfg.MaxSize)
	}
}

func TestPrintDeltasTracksSet(t *testing.T) {
	resetViper(t)
	viper.Set("quiet", true)

	a := types.JavaInfo{Path: "/usr/bin/java", Version: "17.0.2", Architecture: "x64"}
	b := types.JavaInfo{Path: "/opt/jdk/bin/java", Version: "21", Architecture: "x64"}

	// First call establishes the baseline
	set := printDeltas(nil, []types.JavaInfo{a})
	if _, ok := set[a]; !ok || len(set) != 1 {
		t.Fatalf("baseline set = %v, want {a}", set)
	}

	// Replacement: a removed, b added
	set = printDeltas(set, []types.JavaInfo{b})
	if _, ok := set[b]; !ok || len(set) != 1 {
		t.Errorf("updated set = %v, want {b}", set)
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"this-is-a-long-identifier", 10, "this-is..."},
		{"abc", 2, "ab"},
	}

	for _, tt := range tests {
		if got := truncateString(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}
