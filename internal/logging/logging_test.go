package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, _, err := New(Options{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quadbench.log")
	log, closer, err := New(Options{Level: "debug", Format: "json", File: path})
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	log.Debug("integrated", "func", "cos", "value", 1.0)
	if err := closer.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &rec); err != nil {
		t.Fatalf("expected one json record, got %q: %v", data, err)
	}
	if rec["msg"] != "integrated" || rec["func"] != "cos" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestTextFileHasNoColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quadbench.log")
	log, closer, err := New(Options{File: path})
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	log.Info("hello")
	closer.Close()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "\x1b[") {
		t.Errorf("file output should not carry ANSI escapes: %q", data)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("missing message: %q", data)
	}
}
