package pipeline

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// StopWatcher observes the work directory's signals/ subdirectory for a
// "stop" file, letting a long-running generation be aborted cleanly
// between phases from outside the process.
type StopWatcher struct {
	signalsDir string

	mu      sync.RWMutex
	stopped bool

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewStopWatcher creates the signals directory under workDir and starts
// watching it. A pre-existing stop file counts as an immediate stop.
// Watcher setup failures degrade to stat-based polling in Stopped.
func NewStopWatcher(workDir string) (*StopWatcher, error) {
	signalsDir := filepath.Join(workDir, "signals")
	if err := os.MkdirAll(signalsDir, 0755); err != nil {
		return nil, err
	}

	sw := &StopWatcher{
		signalsDir: signalsDir,
		done:       make(chan struct{}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return sw, nil
	}
	if err := watcher.Add(signalsDir); err != nil {
		watcher.Close()
		return sw, nil
	}
	sw.watcher = watcher

	go sw.watch()

	return sw, nil
}

func (sw *StopWatcher) watch() {
	for {
		select {
		case <-sw.done:
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) == "stop" && event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				sw.mu.Lock()
				sw.stopped = true
				sw.mu.Unlock()
			}
		case <-sw.watcher.Errors:
			// Ignore errors, keep watching
		}
	}
}

// Stopped reports whether a stop signal has been observed.
func (sw *StopWatcher) Stopped() bool {
	if sw == nil {
		return false
	}

	sw.mu.RLock()
	stopped := sw.stopped
	sw.mu.RUnlock()
	if stopped {
		return true
	}

	// Polling fallback for the no-watcher case, and for stop files that
	// existed before the watcher was added.
	if _, err := os.Stat(filepath.Join(sw.signalsDir, "stop")); err == nil {
		sw.mu.Lock()
		sw.stopped = true
		sw.mu.Unlock()
		return true
	}
	return false
}

// Close stops watching. Safe to call on a nil watcher.
func (sw *StopWatcher) Close() error {
	if sw == nil {
		return nil
	}
	close(sw.done)
	if sw.watcher != nil {
		return sw.watcher.Close()
	}
	return nil
}
