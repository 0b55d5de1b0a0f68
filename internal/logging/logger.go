// Package logging provides categorized structured logging for bladesplit.
// Loggers are backed by a single zap core installed by Initialize; before
// that every category logs to a no-op core, so library packages can log
// unconditionally and tests stay quiet.
package logging

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup, flag and workspace resolution
	CategoryConfig  Category = "config"  // Plan file loading
	CategoryExtract Category = "extract" // Section extraction (strict, tolerant, between)
	CategoryCompose Category = "compose" // Include splicing
	CategoryLint    Category = "lint"    // Marker tokenizer and lint findings
	CategoryFiles   Category = "files"   // Reads, writes, backups
	CategoryRun     Category = "run"     // Refactor runner steps
)

// Options controls how Initialize builds the zap logger.
type Options struct {
	Level      string          // debug, info, warn, error
	JSONFormat bool            // production JSON encoder instead of console
	Categories map[string]bool // per-category toggles; missing means enabled
}

// Logger is a category-scoped printf-style facade over zap.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	mu         sync.RWMutex
	base       = zap.NewNop()
	loggers    = make(map[Category]*Logger)
	categories map[string]bool
)

// Initialize installs a zap logger built from opts and resets the
// per-category cache. It may be called again to reconfigure.
func Initialize(opts Options) (*zap.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	if opts.JSONFormat {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	Use(logger, opts.Categories)
	return logger, nil
}

// Use installs an already-built zap logger. Tests pass zap.NewNop() or an
// observer core here.
func Use(logger *zap.Logger, cats map[string]bool) {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = zap.NewNop()
	}
	base = logger
	categories = cats
	loggers = make(map[Category]*Logger)
}

// Reset restores the no-op state.
func Reset() {
	Use(nil, nil)
}

// ParseLevel maps a config level string to a zap level. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return categoryEnabled(category)
}

func categoryEnabled(category Category) bool {
	if categories == nil {
		return true
	}
	enabled, exists := categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
func Get(category Category) *Logger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	z := base
	if !categoryEnabled(category) {
		z = zap.NewNop()
	}
	l := &Logger{
		category: category,
		sugar:    z.Named(string(category)).Sugar(),
	}
	loggers[category] = l
	return l
}

// With returns a child logger carrying structured key/value pairs.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{category: l.category, sugar: l.sugar.With(keysAndValues...)}
}

func (l *Logger) Debug(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// Sync flushes the installed zap logger.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	return base.Sync()
}

// =============================================================================
// Category shorthands
// =============================================================================

func Boot(format string, args ...interface{})         { Get(CategoryBoot).Info(format, args...) }
func BootDebug(format string, args ...interface{})    { Get(CategoryBoot).Debug(format, args...) }
func Config(format string, args ...interface{})       { Get(CategoryConfig).Info(format, args...) }
func ConfigDebug(format string, args ...interface{})  { Get(CategoryConfig).Debug(format, args...) }
func Extract(format string, args ...interface{})      { Get(CategoryExtract).Info(format, args...) }
func ExtractDebug(format string, args ...interface{}) { Get(CategoryExtract).Debug(format, args...) }
func Compose(format string, args ...interface{})      { Get(CategoryCompose).Info(format, args...) }
func ComposeDebug(format string, args ...interface{}) { Get(CategoryCompose).Debug(format, args...) }
func Lint(format string, args ...interface{})         { Get(CategoryLint).Info(format, args...) }
func LintDebug(format string, args ...interface{})    { Get(CategoryLint).Debug(format, args...) }
func Files(format string, args ...interface{})        { Get(CategoryFiles).Info(format, args...) }
func FilesDebug(format string, args ...interface{})   { Get(CategoryFiles).Debug(format, args...) }
func Run(format string, args ...interface{})          { Get(CategoryRun).Info(format, args...) }
func RunDebug(format string, args ...interface{})     { Get(CategoryRun).Debug(format, args...) }
