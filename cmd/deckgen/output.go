package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"deckgen/internal/config"
	"deckgen/internal/logging"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

// exitError carries a process exit status without an error message; the
// report has already been printed.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// colorEnabled reports whether w is a terminal.
func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// currentConfig returns the loaded config, or defaults when a command runs
// without the root pre-run (tests).
func currentConfig() *config.Config {
	if cfg == nil {
		return config.DefaultConfig()
	}
	return cfg
}

// categoryLogger returns the logger for a category, or a no-op logger.
func categoryLogger(c logging.Category) *zap.Logger {
	if logs != nil {
		return logs.For(c)
	}
	if logger != nil {
		return logger.Named(string(c))
	}
	return zap.NewNop()
}
