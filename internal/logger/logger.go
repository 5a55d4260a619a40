// Package logger provides structured logging for the gsc CLI.
// Warnings and errors always reach stderr; enabling verbose mode via the
// --verbose flag lowers the level to debug so users can watch credential
// resolution and query pagination as they happen.
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/hashicorp/go-hclog"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	root    hclog.Logger
)

func init() {
	root = build()
}

func build() hclog.Logger {
	level := hclog.Warn
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "gsc",
		Level:  level,
		Output: output,
	})
}

// SetVerbose enables or disables verbose (debug-level) logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	root = build()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	root = build()
}

// Default returns the shared root logger.
func Default() hclog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// Named returns a child of the root logger for a component.
func Named(name string) hclog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root.Named(name)
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	Default().Debug(msg, args...)
}

// Info logs an informational message with optional key-value pairs.
func Info(msg string, args ...any) {
	Default().Info(msg, args...)
}

// Warn logs a warning with optional key-value pairs.
func Warn(msg string, args ...any) {
	Default().Warn(msg, args...)
}

// Error logs an error with optional key-value pairs.
func Error(msg string, args ...any) {
	Default().Error(msg, args...)
}
