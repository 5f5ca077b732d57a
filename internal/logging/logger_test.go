package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"slidesmith/internal/logging"
)

func TestConsoleOutputIncludesComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, logging.Options{Level: "debug", Format: "console"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logging.WithComponent(logger, "pushchan").Info("connected", slog.String("job_id", "job-1"))

	line := buf.String()
	if !strings.Contains(line, "[pushchan]") {
		t.Errorf("missing component tag: %q", line)
	}
	if !strings.Contains(line, "connected") || !strings.Contains(line, "job_id=job-1") {
		t.Errorf("unexpected line: %q", line)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, logging.Options{Level: "warn", Format: "console"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("quiet")
	logger.Warn("loud")
	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Error("info line should be filtered at warn level")
	}
	if !strings.Contains(out, "loud") {
		t.Error("warn line should pass")
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, logging.Options{Level: "info", Format: "json"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("poll tick", slog.Int("attempt", 2))

	var record map[string]any
	if jsonErr := json.Unmarshal(buf.Bytes(), &record); jsonErr != nil {
		t.Fatalf("output is not JSON: %v (%q)", jsonErr, buf.String())
	}
	if record["msg"] != "poll tick" {
		t.Errorf("msg = %v", record["msg"])
	}
}

func TestUnsupportedFormatRejected(t *testing.T) {
	if _, err := logging.New(&bytes.Buffer{}, logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
