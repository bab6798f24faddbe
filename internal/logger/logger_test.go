package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"err", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := New(Config{Level: "warn"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()

	log.Info("quiet")
	log.Warn("loud", "cell", 3)
	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Error("Expected info message to be filtered")
	}
	if !strings.Contains(out, "loud") || !strings.Contains(out, "cell=3") {
		t.Errorf("Expected warn message in output, got %q", out)
	}
}

func TestNew_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nbconcat.log")
	log, closer, err := New(Config{Level: "info", File: path, Format: "json"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	log.Info("reloaded", "version", 4)
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &rec); err != nil {
		t.Fatalf("Expected one JSON record, got %q: %v", data, err)
	}
	if rec["msg"] != "reloaded" || rec["version"] != float64(4) {
		t.Errorf("Unexpected record %v", rec)
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, _, err := New(Config{Level: "loud"}, &bytes.Buffer{}); err == nil {
		t.Error("Expected error for unknown level")
	}
}
