package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("dataset built", "tag", "v1", "train", 104)
	line := buf.String()
	if !strings.Contains(line, "INFO ") {
		t.Fatalf("missing level label: %q", line)
	}
	if !strings.Contains(line, "dataset built") {
		t.Fatalf("missing message: %q", line)
	}
	if !strings.Contains(line, "tag=v1") || !strings.Contains(line, "train=104") {
		t.Fatalf("missing attrs: %q", line)
	}
	if !strings.HasSuffix(line, "\n") {
		t.Fatalf("line not newline terminated: %q", line)
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("dataset built", "tag", "v1")
	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if payload["msg"] != "dataset built" || payload["tag"] != "v1" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("hidden")
	logger.Debug("also hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("filtered records leaked: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestConsoleHandlerWithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.WithGroup("run").With("id", "abc").Info("started", "phase", "hashing")
	line := buf.String()
	if !strings.Contains(line, "run.id=abc") {
		t.Fatalf("group-prefixed attr missing: %q", line)
	}
	if !strings.Contains(line, "run.phase=hashing") {
		t.Fatalf("record attr missing group prefix: %q", line)
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if parseLevel("chatty") != slog.LevelInfo {
		t.Fatal("unknown level must fall back to info")
	}
	if parseLevel("") != slog.LevelInfo {
		t.Fatal("empty level must fall back to info")
	}
	if parseLevel("DEBUG") != slog.LevelDebug {
		t.Fatal("level parsing must be case-insensitive")
	}
}
