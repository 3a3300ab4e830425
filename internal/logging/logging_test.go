package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogfWritesTimestampedLines(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "logs", "jsgen.log")

	log, err := New(logPath)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	log.Logf("hello %s", "world")
	log.Section("validation")
	if err := log.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "hello world") {
		t.Errorf("expected logged message, got %q", content)
	}
	if !strings.Contains(content, "--- validation ---") {
		t.Errorf("expected section heading, got %q", content)
	}
}

func TestSinkAppendsRawBytes(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "out.log")

	log, err := New(logPath)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := log.Sink().Write([]byte("raw output\n")); err != nil {
		t.Fatalf("Sink write failed: %v", err)
	}
	log.Close()

	data, _ := os.ReadFile(logPath)
	if !strings.Contains(string(data), "raw output") {
		t.Errorf("expected raw output in log, got %q", string(data))
	}
}

func TestNopLogIsSafe(t *testing.T) {
	log := Nop()
	log.Logf("ignored")
	log.Section("ignored")
	if _, err := log.Sink().Write([]byte("ignored")); err != nil {
		t.Errorf("nop sink write failed: %v", err)
	}
	if err := log.Close(); err != nil {
		t.Errorf("nop close failed: %v", err)
	}

	var nilLog *RunLog
	nilLog.Logf("also ignored")
	if err := nilLog.Close(); err != nil {
		t.Errorf("nil close failed: %v", err)
	}
}
