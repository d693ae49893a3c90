// Package logger provides verbose logging for yuque-export.
// Output is silent unless --verbose is set, in which case pipeline stage
// transitions and per-request details go to stderr.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	started           = time.Now()
	elapsed bool
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetElapsed prefixes every line with the time since the process started.
// Useful when diagnosing slow pages or detail chunks.
func SetElapsed(on bool) {
	mu.Lock()
	defer mu.Unlock()
	elapsed = on
	started = time.Now()
}

func logf(prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	line := fmt.Sprintf(format, args...)
	if elapsed {
		fmt.Fprintf(output, "%s +%s %s\n", prefix, time.Since(started).Truncate(time.Millisecond), line)
		return
	}
	fmt.Fprintf(output, "%s %s\n", prefix, line)
}

// Debug prints a per-request or per-note detail.
func Debug(format string, args ...any) {
	logf("[DEBUG]", format, args...)
}

// Info prints a pipeline stage transition.
func Info(format string, args ...any) {
	logf("[INFO]", format, args...)
}

// Warn prints a degraded condition the run recovered from.
func Warn(format string, args ...any) {
	logf("[WARN]", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
