// Package logger prints pipeline progress to stderr when the --verbose
// flag is set. All functions are no-ops otherwise, so services log
// freely without gating call sites.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var state = struct {
	mu      sync.RWMutex
	verbose bool
	out     io.Writer
}{out: os.Stderr}

// SetVerbose toggles verbose output.
func SetVerbose(v bool) {
	state.mu.Lock()
	state.verbose = v
	state.mu.Unlock()
}

// IsVerbose reports whether verbose output is enabled.
func IsVerbose() bool {
	state.mu.RLock()
	defer state.mu.RUnlock()
	return state.verbose
}

// SetOutput redirects log output away from stderr, for tests.
func SetOutput(w io.Writer) {
	state.mu.Lock()
	state.out = w
	state.mu.Unlock()
}

// Debug logs fine-grained pipeline detail.
func Debug(format string, args ...any) {
	logf("[DEBUG] "+format+"\n", args...)
}

// Info logs a notable pipeline milestone.
func Info(format string, args ...any) {
	logf("[INFO] "+format+"\n", args...)
}

// Warn logs a recoverable problem.
func Warn(format string, args ...any) {
	logf("[WARN] "+format+"\n", args...)
}

// Section marks the start of a pipeline stage in the log.
func Section(name string) {
	logf("\n=== %s ===\n", name)
}

func logf(format string, args ...any) {
	state.mu.RLock()
	defer state.mu.RUnlock()
	if state.verbose {
		fmt.Fprintf(state.out, format, args...)
	}
}
