package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	// MaxSize is a human-readable size ("10MB") at which the log rotates.
	MaxSize string `mapstructure:"max_size"`

	// MaxBackups is how many rotated files to keep.
	MaxBackups int `mapstructure:"max_backups"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// ScanConfig configures the discovery pipeline.
type ScanConfig struct {
	// Roots overrides volume-root enumeration. Empty means all local volumes.
	Roots []string `mapstructure:"roots"`

	// SkipPathScan disables the shallow scan of PATH directories.
	SkipPathScan bool `mapstructure:"skip_path_scan"`

	// ProbeTimeoutSeconds bounds each java -version probe.
	ProbeTimeoutSeconds int `mapstructure:"probe_timeout_seconds"`

	// IncludeKeywords and ExcludeKeywords extend the built-in directory
	// heuristics; they never replace them.
	IncludeKeywords []string `mapstructure:"include_keywords"`
	ExcludeKeywords []string `mapstructure:"exclude_keywords"`
}

// CacheConfig configures the probe-outcome cache.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // Empty means use default XDG path
}

// ManifestConfig configures scan-history recording.
type ManifestConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	// DebounceMS is the quiet period after a filesystem event before the
	// rescan fires.
	DebounceMS int `mapstructure:"debounce_ms"`
}

// Config represents the application configuration.
type Config struct {
	Output   string         `mapstructure:"output"`
	Scan     ScanConfig     `mapstructure:"scan"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Manifest ManifestConfig `mapstructure:"manifest"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/jscan/config.yaml
//   - $HOME/.config/jscan/config.yaml
//
// Environment variables are prefixed with JSCAN_ (e.g., JSCAN_OUTPUT).
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and type
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "jscan"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "jscan"))

	// Set environment variable prefix and enable auto env binding
	v.SetEnvPrefix("JSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is acceptable; we use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Expand ~ in configured paths
	for i, root := range cfg.Scan.Roots {
		if strings.HasPrefix(root, "~") {
			cfg.Scan.Roots[i] = filepath.Join(homeDir, root[1:])
		}
	}
	if strings.HasPrefix(cfg.Manifest.Path, "~") {
		cfg.Manifest.Path = filepath.Join(homeDir, cfg.Manifest.Path[1:])
	}

	return &cfg, nil
}

// setDefaults installs the built-in defaults on the given viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("output", DefaultOutput)

	v.SetDefault("scan.roots", []string{})
	v.SetDefault("scan.skip_path_scan", false)
	v.SetDefault("scan.probe_timeout_seconds", DefaultProbeTimeout)
	v.SetDefault("scan.include_keywords", []string{})
	v.SetDefault("scan.exclude_keywords", []string{})

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.path", "") // Empty means use default XDG path

	v.SetDefault("manifest.enabled", true)
	v.SetDefault("manifest.path", "") // Empty means use default XDG path
	v.SetDefault("manifest.retention_days", DefaultRetentionDays)

	v.SetDefault("watch.debounce_ms", DefaultWatchDebounceMS)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means use DefaultLogPath
	v.SetDefault("logging.rotation.max_size", "10MB")
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.components", map[string]string{
		"walker":    "info",
		"probe":     "warn",
		"collector": "info",
		"watch":     "info",
	})
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	// Check XDG_CONFIG_HOME first
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "jscan"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "jscan"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// WriteDefault writes a default config file if none exists.
// Returns nil if a config file already exists.
func WriteDefault() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configDir, err := ConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.yaml")

	// Check if config file already exists
	if _, err := os.Stat(configPath); err == nil {
		// Config file exists, do nothing
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# jscan Java Runtime Scanner Configuration

# Output format: pretty, plain, json, jsonl, tsv, csv, markdown
output: %s

# Scan settings
scan:
  # Roots to scan recursively (empty means all local volumes)
  roots: []
  # Skip the shallow scan of PATH directories
  skip_path_scan: false
  # Per-probe timeout in seconds
  probe_timeout_seconds: %d
  # Extra directory-name keywords (added to the built-in sets)
  include_keywords: []
  exclude_keywords: []

# Probe-outcome cache (avoids re-spawning unchanged binaries)
cache:
  enabled: true
  # Cache path (empty means use default: $XDG_CACHE_HOME/jscan/probes)
  path: ""

# Manifest settings for tracking scan history
manifest:
  enabled: true
  # Manifest directory (empty means use default: $XDG_DATA_HOME/jscan/manifests)
  path: ""
  retention_days: %d

# Watch mode
watch:
  # Quiet period after a filesystem event before rescanning (milliseconds)
  debounce_ms: %d

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means use default: $XDG_STATE_HOME/jscan/jscan.log)
  path: ""
  # Log rotation settings
  rotation:
    max_size: 10MB
    max_backups: 5
  # Per-component log levels
  components:
    walker: info
    probe: warn
    collector: info
    watch: info
`, DefaultOutput, DefaultProbeTimeout, DefaultRetentionDays, DefaultWatchDebounceMS)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}

// DataDir returns $XDG_DATA_HOME/jscan/ for manifest storage.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "jscan")
}

// StateDir returns $XDG_STATE_HOME/jscan/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "jscan")
}

// CacheDir returns $XDG_CACHE_HOME/jscan/ for the probe cache.
func CacheDir() string {
	return filepath.Join(xdg.CacheHome, "jscan")
}

// DefaultManifestDir returns the default manifest directory.
func DefaultManifestDir() string {
	return filepath.Join(DataDir(), "manifests")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), "jscan.log")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	if err := os.MkdirAll(DataDir(), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}

// EnsureStateDir creates the state directory if it doesn't exist.
func EnsureStateDir() error {
	if err := os.MkdirAll(StateDir(), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}

// EnsureCacheDir creates the cache directory if it doesn't exist.
func EnsureCacheDir() error {
	if err := os.MkdirAll(CacheDir(), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	return nil
}
