// Package logging provides the file-backed run log for JSGenerator.
// The log doubles as the stream sink for subprocess output, so npm
// installs and candidate executions are observable while they run.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// RunLog writes timestamped messages to a log file.
// A RunLog created without a path is a no-op, which keeps tests and
// callers free of nil checks.
type RunLog struct {
	mu   sync.Mutex
	file *os.File
}

// New creates a RunLog writing to the specified path.
// If the path is empty, returns a no-op log.
// Creates parent directories if they don't exist.
func New(logPath string) (*RunLog, error) {
	if logPath == "" {
		return &RunLog{}, nil
	}

	dir := filepath.Dir(logPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	log := &RunLog{file: f}
	log.Logf("=== JSGenerator run started at %s ===", time.Now().Format(time.RFC3339))

	return log, nil
}

// NewForWorkDir creates a run log under the work directory's logs/
// subdirectory. Returns a no-op log if the directory cannot be created.
func NewForWorkDir(workDir string) *RunLog {
	log, err := New(filepath.Join(workDir, "logs", "jsgen.log"))
	if err != nil {
		return &RunLog{}
	}
	return log
}

// Nop returns a no-op log for testing or when logging is disabled.
func Nop() *RunLog {
	return &RunLog{}
}

// Logf writes a timestamped message to the log.
// Safe to call on a nil or pathless log.
func (l *RunLog) Logf(format string, args ...interface{}) {
	if l == nil || l.file == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(l.file, "[%s] %s\n", timestamp, msg)
	l.file.Sync()
}

// Section writes a visually separated heading, used between pipeline phases.
func (l *RunLog) Section(name string) {
	l.Logf("--- %s ---", name)
}

// Sink returns a writer that appends raw, untimestamped bytes to the log.
// Subprocess output is mirrored here as it is produced.
func (l *RunLog) Sink() io.Writer {
	if l == nil || l.file == nil {
		return io.Discard
	}
	return rawWriter{l}
}

type rawWriter struct {
	l *RunLog
}

func (w rawWriter) Write(p []byte) (int, error) {
	w.l.mu.Lock()
	defer w.l.mu.Unlock()
	return w.l.file.Write(p)
}

// Close closes the log file.
// Safe to call on a nil or pathless log.
func (l *RunLog) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Close()
}
