package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetLogger(t *testing.T, buf *bytes.Buffer) {
	t.Helper()
	SetWriter(buf)
	SetLevel("INFO")
	SetFormat("text")
	t.Cleanup(func() {
		SetWriter(os.Stdout)
		SetLevel("INFO")
		SetFormat("text")
	})
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	resetLogger(t, &buf)

	Debug("hidden %d", 1)
	Info("visible %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged at INFO level: %q", out)
	}
	if !strings.Contains(out, "[INFO] visible 2") {
		t.Errorf("expected info line, got %q", out)
	}

	buf.Reset()
	SetLevel("debug")
	Debug("now shown")
	if !strings.Contains(buf.String(), "[DEBUG] now shown") {
		t.Errorf("expected debug line after SetLevel, got %q", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	resetLogger(t, &buf)

	SetFormat("json")
	Warn("disk %s", "low")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "disk low" {
		t.Errorf("expected msg 'disk low', got %v", entry["msg"])
	}
	if entry["level"] != "WARN" {
		t.Errorf("expected level WARN, got %v", entry["level"])
	}
}

func TestSetOutputFile(t *testing.T) {
	var buf bytes.Buffer
	resetLogger(t, &buf)

	path := filepath.Join(t.TempDir(), "sandboxfs.log")
	if err := SetOutput(path); err != nil {
		t.Fatalf("SetOutput failed: %v", err)
	}
	Error("boom")
	SetWriter(&buf)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "[ERROR] boom") {
		t.Errorf("log file missing entry: %q", string(data))
	}
}
