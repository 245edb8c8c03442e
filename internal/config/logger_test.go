package config

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLogger_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, "info", "json")
	logger.Debug("hidden")
	logger.Info("shown", slog.String("k", "v"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 record, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	if rec["msg"] != "shown" || rec["k"] != "v" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestNewLogger_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewLogger(&buf, "debug", "text").Debug("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("expected text record, got %q", buf.String())
	}
}

func TestSetupLogger_WritesFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "app.log")
	logger := SetupLogger(AppConfig{LogLevel: "info", LogFormat: "json", LogFile: path})
	logger.Info("to file")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"to file"`) {
		t.Errorf("log file missing record: %q", data)
	}
	if slog.Default() != logger {
		t.Error("SetupLogger should install the logger as default")
	}
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	if _, ok := ContextLogger(context.Background()); ok {
		t.Error("empty context should carry no logger")
	}
	if LoggerFromContext(context.Background()) == nil {
		t.Error("LoggerFromContext must fall back to the default logger")
	}

	var buf bytes.Buffer
	logger := NewLogger(&buf, "info", "text")
	ctx := ContextWithLogger(context.Background(), logger)

	got, ok := ContextLogger(ctx)
	if !ok || got != logger {
		t.Error("expected the stored logger")
	}
	LoggerFromContext(ctx).Info("via context")
	if !strings.Contains(buf.String(), "via context") {
		t.Errorf("record not written through context logger: %q", buf.String())
	}
}
