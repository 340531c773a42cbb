package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"trace":   LevelTrace,
		"debug":   LevelDebug,
		"info":    LevelInfo,
		"WARN":    LevelWarn,
		"warning": LevelWarn,
		" error ": LevelError,
		"fatal":   LevelFatal,
		"panic":   LevelPanic,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestLevelGating(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetLevel(LevelWarn)
	defer SetLevel(LevelInfo)

	Debug("hidden %d", 1)
	Info("also hidden")
	Warn("visible %s", "warning")
	Error("visible error")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("low-severity lines leaked through: %q", out)
	}
	if !strings.Contains(out, "[WARN] visible warning") {
		t.Fatalf("missing warn line: %q", out)
	}
	if !strings.Contains(out, "[ERROR] visible error") {
		t.Fatalf("missing error line: %q", out)
	}
}

func TestInitLevelAndFile(t *testing.T) {
	defer SetLevel(LevelInfo)
	defer SetOutput(os.Stderr)

	path := t.TempDir() + "/pf.log"
	if err := Init("debug", path); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Debug("file target %d", 42)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "file target 42") {
		t.Fatalf("log file missing line: %q", data)
	}

	if err := Init("bogus", ""); err == nil {
		t.Fatal("expected error for bad level name")
	}
}
