// Package logging writes structured logs to a rotating file, with a
// charmbracelet/log logger per component.
//
// Loggers are cheap to obtain and safe to hold before Init; they stay
// silent until the package is initialized:
//
//	logger := logging.Get("walker")
//	logger.Info("scan started", "root", "/")
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// Level is a log severity, least to most severe.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
}

var charmLevels = map[Level]log.Level{
	LevelDebug: log.DebugLevel,
	LevelInfo:  log.InfoLevel,
	LevelWarn:  log.WarnLevel,
	LevelError: log.ErrorLevel,
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "unknown"
}

// ErrInvalidLevel is returned for level strings ParseLevel does not know.
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel converts a level name to a Level. "warning" is accepted as an
// alias for "warn".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("%w: %s", ErrInvalidLevel, s)
}

// Config configures the logging system.
type Config struct {
	// Level is the default level name (debug, info, warn, error).
	Level string

	// Path is the log file location. Empty means DefaultLogPath.
	Path string

	// Rotation bounds the log file's disk footprint.
	Rotation RotationConfig

	// Components overrides the level per component name, so one noisy
	// component can be turned up or down without touching the rest.
	Components map[string]string

	// ConsoleLevel, when non-empty, mirrors messages at that level and
	// above onto stderr in addition to the file.
	ConsoleLevel string
}

// Logger carries a component name and fans each message out to its sinks:
// always the log file (io.Discard before Init), plus stderr when a console
// level is configured. Each sink filters by its own level.
type Logger struct {
	sinks     []*log.Logger
	component string
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.emit(log.DebugLevel, msg, args...) }
func (l *Logger) Info(msg string, args ...interface{})  { l.emit(log.InfoLevel, msg, args...) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.emit(log.WarnLevel, msg, args...) }
func (l *Logger) Error(msg string, args ...interface{}) { l.emit(log.ErrorLevel, msg, args...) }

func (l *Logger) emit(level log.Level, msg string, args ...interface{}) {
	for _, sink := range l.sinks {
		sink.Log(level, msg, args...)
	}
}

// With returns a Logger that attaches the given key-value context to every
// message.
func (l *Logger) With(args ...interface{}) *Logger {
	out := &Logger{component: l.component, sinks: make([]*log.Logger, len(l.sinks))}
	for i, sink := range l.sinks {
		out.sinks[i] = sink.With(args...)
	}
	return out
}

type registry struct {
	mu          sync.RWMutex
	initialized bool
	writer      *RotatingWriter
	level       Level
	components  map[string]Level
	console     Level
	consoleOn   bool
	loggers     map[string]*Logger
}

var reg = &registry{
	loggers:    make(map[string]*Logger),
	components: make(map[string]Level),
}

// Init configures the package from cfg, replacing any earlier
// initialization. Loggers handed out before Init are rebuilt in place, so
// package-level `var logger = logging.Get(...)` declarations pick up the
// configuration without being re-fetched.
func Init(cfg Config) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.initialized && reg.writer != nil {
		if err := reg.writer.Close(); err != nil {
			return fmt.Errorf("closing existing writer: %w", err)
		}
	}
	reg.components = make(map[string]Level)

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	reg.level = level

	for comp, name := range cfg.Components {
		lvl, err := ParseLevel(name)
		if err != nil {
			return fmt.Errorf("parsing level for component %s: %w", comp, err)
		}
		reg.components[comp] = lvl
	}

	reg.consoleOn = cfg.ConsoleLevel != ""
	if reg.consoleOn {
		if reg.console, err = ParseLevel(cfg.ConsoleLevel); err != nil {
			return fmt.Errorf("parsing console level: %w", err)
		}
	}

	path := cfg.Path
	if path == "" {
		path = DefaultLogPath()
	}
	writer, err := NewRotatingWriter(path, cfg.Rotation)
	if err != nil {
		return fmt.Errorf("creating log writer: %w", err)
	}
	reg.writer = writer
	reg.initialized = true

	for component, logger := range reg.loggers {
		logger.sinks = buildSinks(component)
	}
	return nil
}

// Get returns the logger for a component, creating it on first use.
func Get(component string) *Logger {
	reg.mu.RLock()
	if logger, ok := reg.loggers[component]; ok {
		reg.mu.RUnlock()
		return logger
	}
	reg.mu.RUnlock()

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if logger, ok := reg.loggers[component]; ok {
		return logger
	}

	logger := &Logger{component: component, sinks: buildSinks(component)}
	reg.loggers[component] = logger
	return logger
}

// buildSinks assembles a component's sinks from the current registry
// state. Called with reg.mu held.
func buildSinks(component string) []*log.Logger {
	level := reg.level
	if override, ok := reg.components[component]; ok {
		level = override
	}

	if !reg.initialized {
		return []*log.Logger{log.NewWithOptions(io.Discard, log.Options{
			Level:  charmLevels[level],
			Prefix: component,
		})}
	}

	sinks := []*log.Logger{log.NewWithOptions(reg.writer, log.Options{
		Level:           charmLevels[level],
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          component,
	})}

	if reg.consoleOn {
		sinks = append(sinks, log.NewWithOptions(os.Stderr, log.Options{
			Level:           charmLevels[reg.console],
			ReportTimestamp: true,
			TimeFormat:      "15:04:05",
			Prefix:          component,
		}))
	}
	return sinks
}

// Close flushes and closes the log file. Loggers already handed out go
// silent again rather than panicking.
func Close() error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if !reg.initialized {
		return nil
	}
	if reg.writer != nil {
		if err := reg.writer.Close(); err != nil {
			return fmt.Errorf("closing log writer: %w", err)
		}
		reg.writer = nil
	}
	reg.initialized = false

	for component, logger := range reg.loggers {
		logger.sinks = buildSinks(component)
	}
	return nil
}

// DefaultLogPath is $XDG_STATE_HOME/jscan/jscan.log.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, "jscan", "jscan.log")
}
