package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"WARNING", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"unknown", zapcore.InfoLevel}, // Default
		{"", zapcore.InfoLevel},        // Default
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Level = "warn"
	cfg.Writer = &buf

	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l.Info("hidden")
	l.Warn("shown", zap.Int("line", 3))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "WARN") {
		t.Errorf("warn message missing: %q", out)
	}
	if !strings.Contains(out, "linebuf") || !strings.Contains(out, `"line": 3`) {
		t.Errorf("expected name and field in %q", out)
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linebuf.log")
	l, err := New(Config{Level: "debug", Output: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l.Debug("to file")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file = %q", data)
	}
}

func TestNew_BadOutput(t *testing.T) {
	_, err := New(Config{Output: filepath.Join(t.TempDir(), "missing", "x.log")})
	if err == nil {
		t.Error("expected error for unwritable output")
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "info", Writer: &buf})
	WithComponent(l, "config").Info("loaded")
	if !strings.Contains(buf.String(), `"component": "config"`) {
		t.Errorf("component field missing: %q", buf.String())
	}
}

func TestContext(t *testing.T) {
	if L(context.Background()) == nil {
		t.Fatal("L() should never return nil")
	}

	l := Nop()
	ctx := NewContext(context.Background(), l)
	if L(ctx) != l {
		t.Error("L() should return the stored logger")
	}
}
