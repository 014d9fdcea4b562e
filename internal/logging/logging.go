// Package logging writes errors and optional JSON trace entries to a file.
// The terminal belongs to the picker, so nothing here prints to it except a
// single notice the first time the log file cannot be written.
package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const defaultLogFile = "pijul-channel-picker.log"

var (
	mu           sync.Mutex
	traceEnabled bool
	logPath      = defaultLogFile
	traceSeq     uint64
	warned       bool
	pid          = os.Getpid()
)

type traceEntry struct {
	Time    time.Time   `json:"time"`
	PID     int         `json:"pid"`
	Seq     uint64      `json:"seq"`
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// Error appends err to the shared log file. Nil errors are ignored.
func Error(err error) {
	if err == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()

	f, ferr := openLog()
	if ferr != nil {
		warnOnce("logging failed: %v", ferr)
		return
	}
	defer f.Close()

	logger := log.New(f, fmt.Sprintf("[%d] ", pid), log.LstdFlags)
	logger.Println(err)
}

// SetTraceEnabled toggles emission of structured trace entries.
func SetTraceEnabled(enabled bool) {
	mu.Lock()
	traceEnabled = enabled
	mu.Unlock()
}

// TraceEnabled reports whether Trace currently writes entries.
func TraceEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return traceEnabled
}

// Trace appends a JSON entry when tracing is enabled. Entries carry the
// process id and a per-process sequence number so runs sharing a log file can
// be separated.
func Trace(event string, payload interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if !traceEnabled {
		return
	}
	traceSeq++
	entry := traceEntry{
		Time:    time.Now().UTC(),
		PID:     pid,
		Seq:     traceSeq,
		Event:   event,
		Payload: payload,
	}

	f, err := openLog()
	if err != nil {
		warnOnce("trace logging failed: %v", err)
		return
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(entry); err != nil {
		warnOnce("trace encoding failed: %v", err)
	}
}

// Configure sets the log destination. Empty values fall back to the default
// path. Directories are created automatically when missing.
func Configure(path string) {
	mu.Lock()
	defer mu.Unlock()
	warned = false
	if strings.TrimSpace(path) == "" {
		logPath = defaultLogFile
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		warnOnce("unable to create log directory: %v", err)
		logPath = defaultLogFile
		return
	}
	logPath = path
}

// Path returns the file currently receiving log output.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// openLog and warnOnce must be called with mu held.
func openLog() (*os.File, error) {
	return os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

func warnOnce(format string, args ...interface{}) {
	if warned {
		return
	}
	warned = true
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
