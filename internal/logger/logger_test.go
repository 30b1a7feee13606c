package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestFileLoggerWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	log, err := New(&Config{LogFile: path, MaxSize: 1, Development: true})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	log.WithOperation("fetch_holders").Info("page fetched", zap.Int("page", 1))
	if err := log.Sync(); err != nil {
		t.Fatalf("Failed to sync logger: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	text := string(content)
	for _, want := range []string{`"operation":"fetch_holders"`, `"correlation_id"`, `"page":1`} {
		if !strings.Contains(text, want) {
			t.Errorf("Log output missing %s: %s", want, text)
		}
	}
}

func TestNoCoresGivesNop(t *testing.T) {
	log, err := New(&Config{})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	log.Info("discarded")
	if err := log.Sync(); err != nil {
		t.Errorf("Sync on nop logger returned %v", err)
	}
}

func TestTrackPerformance(t *testing.T) {
	end := TrackPerformance(zap.NewNop(), "noop")
	end()
}

func TestPrettyEncoderLevels(t *testing.T) {
	enc := PrettyEncoder()
	entry := zapcore.Entry{
		Level:      zapcore.WarnLevel,
		Time:       time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC),
		LoggerName: "holders",
		Message:    "page failed",
	}
	buf, err := enc.EncodeEntry(entry, []zapcore.Field{zap.Int("page", 2)})
	if err != nil {
		t.Fatalf("Failed to encode entry: %v", err)
	}
	line := buf.String()
	for _, want := range []string{"15:04:05", "[WARN]", "holders", "page failed", `"page": 2`} {
		if !strings.Contains(line, want) {
			t.Errorf("Encoded line missing %q: %s", want, line)
		}
	}
}
