package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"cinepress/internal/logging"
)

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("frame written", logging.Int(logging.FieldFrame, 42), logging.String(logging.FieldEyes, "left"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if record["msg"] != "frame written" {
		t.Fatalf("unexpected message: %v", record["msg"])
	}
	if record["level"] != "info" {
		t.Fatalf("unexpected level: %v", record["level"])
	}
	if record[logging.FieldFrame] != float64(42) {
		t.Fatalf("unexpected frame attr: %v", record[logging.FieldFrame])
	}
}

func TestNewConsoleLoggerIncludesAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("queue drained", logging.Int(logging.FieldQueue, 3))
	line := buf.String()
	if !strings.Contains(line, "queue drained") || !strings.Contains(line, "queue=3") {
		t.Fatalf("unexpected console line: %q", line)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestProgressSampler(t *testing.T) {
	s := logging.NewProgressSampler(0.25)
	seen := 0
	for _, p := range []float64{0.01, 0.02, 0.26, 0.27, 0.51, 0.99, 1.0} {
		if s.ShouldLog(p) {
			seen++
		}
	}
	if seen != 4 {
		t.Fatalf("expected 4 emitted samples, got %d", seen)
	}
	s.Reset()
	if !s.ShouldLog(0.0) {
		t.Fatal("expected emission after reset")
	}
}
