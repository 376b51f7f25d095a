package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Debug = false

// DebugLog is a no-op until InitDebugLog turns debug logging on.
var DebugLog = zap.NewNop()

// InitDebugLog opens <dataDir>/debug.log and routes DebugLog to it. Failures
// are reported on stderr and leave logging off; the chat still works.
func InitDebugLog(dataDir string) {
	if err := EnsureDir(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not create data directory %s: %v\n", dataDir, err)
		return
	}

	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: the log holds full prompts and replies.
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(f), zapcore.DebugLevel)

	Debug = true
	DebugLog = zap.New(core, zap.AddCaller())
	DebugLog.Debug("=== Debug logging started ===",
		zap.String("path", logPath),
		zap.String(envDebug, os.Getenv(envDebug)),
	)
}

// SyncDebugLog flushes buffered log entries. Call before exit.
func SyncDebugLog() {
	_ = DebugLog.Sync()
}
