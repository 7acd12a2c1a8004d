// Package logging writes the client's error log and JSON trace to a file.
// Nothing here writes to the terminal: the TUI owns it while running.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const defaultLogFile = "sims-client.log"

var (
	mu           sync.Mutex
	traceEnabled bool
	logPath      = defaultLogFile
	// failed remembers the first write failure so it can be reported after
	// the program exits. Later failures are dropped.
	failed error
)

type traceEntry struct {
	Time    time.Time   `json:"time"`
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// Error appends a plain, timestamped line for err.
func Error(err error) {
	if err == nil {
		return
	}
	write(func(w io.Writer) error {
		_, werr := fmt.Fprintf(w, "%s ERROR %v\n", time.Now().UTC().Format(time.RFC3339), err)
		return werr
	})
}

// Errorf formats and logs an error line.
func Errorf(format string, args ...interface{}) {
	Error(fmt.Errorf(format, args...))
}

// SetTraceEnabled toggles emission of structured trace entries.
func SetTraceEnabled(enabled bool) {
	mu.Lock()
	traceEnabled = enabled
	mu.Unlock()
}

// TraceEnabled reports whether Trace writes anything.
func TraceEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return traceEnabled
}

// Trace appends a structured JSON entry to the shared log when tracing is enabled.
func Trace(event string, payload interface{}) {
	if !TraceEnabled() {
		return
	}
	entry := traceEntry{Time: time.Now().UTC(), Event: event, Payload: payload}
	write(func(w io.Writer) error {
		return json.NewEncoder(w).Encode(entry)
	})
}

// Configure sets the log destination. Empty values fall back to the default
// path. Directories are created automatically when missing.
func Configure(path string) {
	mu.Lock()
	defer mu.Unlock()
	failed = nil
	if strings.TrimSpace(path) == "" {
		logPath = defaultLogFile
		return
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			failed = fmt.Errorf("create log directory %s: %w", dir, err)
			logPath = defaultLogFile
			return
		}
	}
	logPath = path
}

// Path returns the current log destination.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Failure returns the first error hit while writing the log, if any.
func Failure() error {
	mu.Lock()
	defer mu.Unlock()
	return failed
}

func write(fn func(io.Writer) error) {
	mu.Lock()
	defer mu.Unlock()
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		if failed == nil {
			failed = fmt.Errorf("open log %s: %w", logPath, err)
		}
		return
	}
	defer f.Close()
	if err := fn(f); err != nil && failed == nil {
		failed = fmt.Errorf("write log %s: %w", logPath, err)
	}
}
