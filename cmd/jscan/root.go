package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jscan-dev/jscan/pkg/jscan/config"
	"github.com/jscan-dev/jscan/pkg/jscan/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "jscan",
		Short: "Discover installed Java runtimes",
		Long: `jscan finds every Java runtime installed on this machine.

It walks local volumes using directory-name heuristics, probes each java
launcher it finds with -version, and reports the deduplicated set of
runtimes with their version and architecture.

Examples:
  jscan                       # Scan all volumes and PATH
  jscan -o json               # Machine-readable output
  jscan --root /opt/java      # Scan a specific tree only
  jscan --no-cache            # Re-probe every candidate
  jscan watch                 # Keep scanning as installs change
  jscan history               # View previous scan results`,
		Args:              cobra.NoArgs,
		PersistentPreRunE: setupLogging,
		RunE:              runScan,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/jscan/config.yaml)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	// Scan flags (root command and watch share these)
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (pretty, plain, json, jsonl, tsv, csv, markdown)")
	rootCmd.PersistentFlags().StringSliceP("root", "r", nil, "scan root (can be specified multiple times; default: all volumes)")
	rootCmd.PersistentFlags().Bool("no-path-scan", false, "skip scanning PATH directories")
	rootCmd.PersistentFlags().Duration("timeout", 0, "per-probe timeout (e.g. 5s; 0 uses the configured default)")
	rootCmd.PersistentFlags().Bool("no-cache", false, "bypass the probe cache, re-probe every candidate")
	rootCmd.PersistentFlags().StringSlice("include-keyword", nil, "extra directory-name keywords to descend into")
	rootCmd.PersistentFlags().StringSlice("exclude-keyword", nil, "extra directory-name keywords to prune")

	bindFlags()
}

// bindFlags registers the persistent flags with viper. Tests call it again
// after viper.Reset, which discards the bindings along with everything else.
func bindFlags() {
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("scan.roots", rootCmd.PersistentFlags().Lookup("root"))
	_ = viper.BindPFlag("scan.skip_path_scan", rootCmd.PersistentFlags().Lookup("no-path-scan"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("no_cache", rootCmd.PersistentFlags().Lookup("no-cache"))
	_ = viper.BindPFlag("scan.include_keywords", rootCmd.PersistentFlags().Lookup("include-keyword"))
	_ = viper.BindPFlag("scan.exclude_keywords", rootCmd.PersistentFlags().Lookup("exclude-keyword"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Set config name and type
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		// Add config paths in order of precedence
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "jscan"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "jscan"))
		}
	}

	// Set environment variable prefix and enable auto env binding
	viper.SetEnvPrefix("JSCAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Set defaults from config package
	viper.SetDefault("output", config.DefaultOutput)
	viper.SetDefault("scan.probe_timeout_seconds", config.DefaultProbeTimeout)
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("manifest.enabled", true)
	viper.SetDefault("manifest.retention_days", config.DefaultRetentionDays)
	viper.SetDefault("watch.debounce_ms", config.DefaultWatchDebounceMS)
	viper.SetDefault("logging.level", "info")

	// Read config file (ignore if not found)
	_ = viper.ReadInConfig()
}

// setupLogging initializes file logging before any command runs.
func setupLogging(_ *cobra.Command, _ []string) error {
	level := viper.GetString("logging.level")
	if getVerbose() {
		level = "debug"
	}

	cfg := logging.Config{
		Level:      level,
		Path:       viper.GetString("logging.path"),
		Rotation:   rotationConfig(),
		Components: viper.GetStringMapString("logging.components"),
	}
	if cfg.Path == "" {
		cfg.Path = logging.DefaultLogPath()
	}
	if getVerbose() {
		// Mirror debug logs onto stderr while troubleshooting
		cfg.ConsoleLevel = "debug"
		cfg.Components = nil
	}

	if err := logging.Init(cfg); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

// rotationConfig reads the log rotation settings. The size is configured
// human-readable ("10MB"); an unparseable value falls back to the default.
func rotationConfig() logging.RotationConfig {
	cfg := logging.RotationConfig{
		MaxBackups: viper.GetInt("logging.rotation.max_backups"),
	}
	if s := viper.GetString("logging.rotation.max_size"); s != "" {
		if size, err := humanize.ParseBytes(s); err == nil {
			cfg.MaxSize = int64(size)
		}
	}
	return cfg
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
