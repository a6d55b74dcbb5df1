// Package logging builds the zap logger used across deckgen and hands out
// category-named child loggers. Categories can be silenced individually
// through the logging.categories map in the config file.
package logging

import (
	"fmt"
	"strings"
	"time"

	"deckgen/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot     Category = "boot"     // CLI startup, config loading
	CategoryParser   Category = "parser"   // Source loading and anchor extraction
	CategoryRanker   Category = "ranker"   // Priority ranking
	CategoryDeps     Category = "deps"     // Dependency mapping and ordering
	CategoryCluster  Category = "cluster"  // Cluster detection and merging
	CategoryOutline  Category = "outline"  // Section math
	CategoryPacing   Category = "pacing"   // Word counts, duration, suggestions
	CategoryValidate Category = "validate" // Completeness and layout checks
	CategoryVerify   Category = "verify"   // Requirement runner
)

// Logger wraps the root zap logger with per-category toggles.
type Logger struct {
	root *zap.Logger
	cfg  config.LoggingConfig
}

// New builds a Logger from config. verbose forces debug level.
func New(cfg config.LoggingConfig, verbose bool) (*Logger, error) {
	var zc zap.Config
	switch strings.ToLower(cfg.Format) {
	case "json":
		zc = zap.NewProductionConfig()
	default:
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	// Reports go to stdout; logs stay on stderr.
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	root, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &Logger{root: root, cfg: cfg}, nil
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{root: zap.NewNop()}
}

// Root returns the underlying zap logger.
func (l *Logger) Root() *zap.Logger {
	if l == nil || l.root == nil {
		return zap.NewNop()
	}
	return l.root
}

// For returns a child logger named after the category, or a no-op logger if
// the category is disabled.
func (l *Logger) For(category Category) *zap.Logger {
	if l == nil || l.root == nil {
		return zap.NewNop()
	}
	if !l.cfg.IsCategoryEnabled(string(category)) {
		return zap.NewNop()
	}
	return l.root.Named(string(category))
}

// Sync flushes buffered entries.
func (l *Logger) Sync() {
	if l == nil || l.root == nil {
		return
	}
	_ = l.root.Sync()
}

func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// =============================================================================
// TIMING HELPERS - For performance logging
// =============================================================================

// Timer helps measure operation duration
type Timer struct {
	logger *zap.Logger
	op     string
	start  time.Time
}

// StartTimer begins timing an operation
func StartTimer(logger *zap.Logger, operation string) *Timer {
	return &Timer{
		logger: OrNop(logger),
		op:     operation,
		start:  time.Now(),
	}
}

// Stop ends the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	t.logger.Debug("operation completed", zap.String("op", t.op), zap.Duration("elapsed", elapsed))
	return elapsed
}

// StopWithThreshold logs a warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		t.logger.Warn("operation slow",
			zap.String("op", t.op),
			zap.Duration("elapsed", elapsed),
			zap.Duration("threshold", threshold))
	} else {
		t.logger.Debug("operation completed", zap.String("op", t.op), zap.Duration("elapsed", elapsed))
	}
	return elapsed
}
