package config

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// keepDebugState restores the package-level logger after a test swaps it.
func keepDebugState(t *testing.T) {
	t.Helper()
	prevDebug, prevLog := Debug, DebugLog
	t.Cleanup(func() {
		Debug, DebugLog = prevDebug, prevLog
	})
}

func TestDebugLogIsNoopByDefault(t *testing.T) {
	if Debug {
		t.Fatal("Debug should be off until InitDebugLog runs")
	}
	if DebugLog.Core().Enabled(zapcore.DebugLevel) {
		t.Error("default DebugLog should discard every level")
	}
}

func TestInitDebugLog(t *testing.T) {
	keepDebugState(t)
	dir := filepath.Join(t.TempDir(), "data")

	InitDebugLog(dir)
	if !Debug {
		t.Fatal("InitDebugLog did not turn Debug on")
	}

	DebugLog.With(zap.String("session_id", "abc-123")).Debug("turn started", zap.Int("sent", 3))
	SyncDebugLog()

	logPath := filepath.Join(dir, "debug.log")
	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("debug log not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("debug log mode = %o, want 600", perm)
	}

	f, err := os.Open(logPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var entries []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("log line is not JSON: %v\n%s", err, scanner.Text())
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}

	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want start marker plus one", len(entries))
	}
	last := entries[1]
	if last["msg"] != "turn started" {
		t.Errorf("msg = %v, want turn started", last["msg"])
	}
	if last["session_id"] != "abc-123" {
		t.Errorf("session_id = %v, want abc-123", last["session_id"])
	}
	if last["sent"] != float64(3) {
		t.Errorf("sent = %v, want 3", last["sent"])
	}
	if last["level"] != "debug" {
		t.Errorf("level = %v, want debug", last["level"])
	}
}

func TestInitDebugLogUnwritableDirLeavesLoggingOff(t *testing.T) {
	keepDebugState(t)

	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	writeFile(t, blocker, "x")

	InitDebugLog(filepath.Join(blocker, "data"))
	if Debug {
		t.Error("Debug turned on although the log could not be opened")
	}
	if DebugLog.Core().Enabled(zapcore.DebugLevel) {
		t.Error("DebugLog should stay a no-op")
	}
}
