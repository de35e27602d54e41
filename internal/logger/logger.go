// Package logger prints pipeline progress to stderr. Debug, Info and
// Section are gated behind the --verbose flag; warnings always print.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

var (
	verbose atomic.Bool

	mu  sync.Mutex
	out io.Writer = os.Stderr
)

// SetVerbose toggles verbose output.
func SetVerbose(v bool) {
	verbose.Store(v)
}

// IsVerbose reports whether verbose output is enabled.
func IsVerbose() bool {
	return verbose.Load()
}

// SetOutput redirects log output. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

func write(prefix, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, prefix+format+"\n", args...)
}

// Debug prints a debug message when verbose output is enabled.
func Debug(format string, args ...any) {
	if verbose.Load() {
		write("[debug] ", format, args...)
	}
}

// Info prints a progress message when verbose output is enabled.
func Info(format string, args ...any) {
	if verbose.Load() {
		write("[info] ", format, args...)
	}
}

// Section marks the start of a pipeline stage in verbose output.
func Section(name string) {
	if verbose.Load() {
		write("", "\n--- %s ---", name)
	}
}

// Warn prints a warning regardless of the verbose flag.
func Warn(format string, args ...any) {
	write("[warn] ", format, args...)
}
