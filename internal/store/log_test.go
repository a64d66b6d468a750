package store

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func readLogLines(t *testing.T, dir string) []string {
	t.Helper()
	f, err := os.Open(filepath.Join(dir, logFileName))
	if err != nil {
		t.Fatalf("opening log: %v", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("reading log: %v", err)
	}
	return lines
}

func TestAppendLog(t *testing.T) {
	dir := t.TempDir()

	entry := LogEntry{
		Timestamp: time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC),
		Action:    "create",
		TaskID:    "abc-123",
		Detail:    "Ship release",
	}
	if err := AppendLog(dir, entry); err != nil {
		t.Fatalf("AppendLog: %v", err)
	}
	if err := AppendLog(dir, LogEntry{Action: "delete", TaskID: "abc-123"}); err != nil {
		t.Fatalf("AppendLog: %v", err)
	}

	lines := readLogLines(t, dir)
	if len(lines) != 2 {
		t.Fatalf("log has %d lines, want 2", len(lines))
	}

	var got LogEntry
	if err := json.Unmarshal([]byte(lines[0]), &got); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if got.Action != "create" || got.TaskID != "abc-123" || got.Detail != "Ship release" {
		t.Errorf("entry = %+v", got)
	}
}

func TestLogMutationNeverFails(t *testing.T) {
	// Unwritable directory; LogMutation must swallow the error.
	LogMutation(filepath.Join(t.TempDir(), "missing", "nested"), "create", "id", "detail")
}
