// Package logger provides verbose logging for docproof.
// Nothing is printed unless verbose mode is enabled via the --verbose flag,
// in which case messages go to stderr to trace pinning and ledger calls.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level tags a message.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
)

// String returns the tag printed in front of a message.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	now               = time.Now
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

// Debug traces a single call.
func Debug(format string, args ...any) {
	logf(LevelDebug, format, args...)
}

// Info reports a step of a user-visible operation.
func Info(format string, args ...any) {
	logf(LevelInfo, format, args...)
}

// Warn reports a problem that did not stop the operation.
func Warn(format string, args ...any) {
	logf(LevelWarn, format, args...)
}

// Timed logs the start of a call at debug level and returns a function that
// logs how long it took. Typical use:
//
//	defer logger.Timed("pin %s", name)()
func Timed(format string, args ...any) func() {
	if !IsVerbose() {
		return func() {}
	}
	label := fmt.Sprintf(format, args...)
	start := now()
	logf(LevelDebug, "%s: started", label)
	return func() {
		logf(LevelDebug, "%s: done in %s", label, now().Sub(start).Round(time.Millisecond))
	}
}

func logf(level Level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, "["+level.String()+"] "+format+"\n", args...)
}
