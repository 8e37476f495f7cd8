package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func TestLogLevelString(t *testing.T) {
	cases := []struct {
		level    LogLevel
		expected string
	}{
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARN, "WARN"},
		{ERROR, "ERROR"},
		{FATAL, "FATAL"},
		{LogLevel(99), "UNKNOWN"},
	}
	for _, c := range cases {
		if got := c.level.String(); got != c.expected {
			t.Errorf("LogLevel(%d).String() = %v, want %v", c.level, got, c.expected)
		}
	}
}

func TestNewLoggerStdout(t *testing.T) {
	l, err := New(&Config{Level: DEBUG, Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if l == nil {
		t.Fatal("New() returned nil logger")
	}
}

func TestLoggerWithFileOutputWritesJSON(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "test.log")

	l, err := New(&Config{Level: DEBUG, Format: "json", Output: logFile})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l.Info("universe", "generated pattern universe", map[string]interface{}{"count": 42})
	l.Flush()
	l.Close()

	data, err := readFile(logFile)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	var entry LogEntry
	line := bytes.TrimSpace(bytes.Split(data, []byte("\n"))[0])
	if err := json.Unmarshal(line, &entry); err != nil {
		t.Fatalf("unmarshaling log entry: %v, line=%s", err, line)
	}
	if entry.Component != "universe" || entry.Message != "generated pattern universe" {
		t.Errorf("unexpected entry: %+v", entry)
	}
}

func TestLoggerRespectsMinimumLevel(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "test.log")

	l, err := New(&Config{Level: WARN, Format: "text", Output: logFile})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l.Debug("bootstrap", "this should be suppressed")
	l.Warn("bootstrap", "this should appear")
	l.Flush()
	l.Close()

	data, err := readFile(logFile)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if strings.Contains(string(data), "suppressed") {
		t.Error("expected debug message below the configured level to be suppressed")
	}
	if !strings.Contains(string(data), "this should appear") {
		t.Error("expected warn message at or above the configured level to appear")
	}
}

func TestLogEventWritesAuditTrail(t *testing.T) {
	dir := t.TempDir()
	l, err := New(&Config{
		Level:       INFO,
		Format:      "json",
		Output:      "stdout",
		EnableAudit: true,
		AuditFile:   filepath.Join(dir, "audit.log"),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l.LogSurvivorsChosen("EXTENDED", 3, map[string]interface{}{"alpha": 0.05})
	l.Flush()
	l.Close()

	data, err := readFile(filepath.Join(dir, "audit.log"))
	if err != nil {
		t.Fatalf("reading audit file: %v", err)
	}
	var entry AuditEntry
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("unmarshaling audit entry: %v", err)
	}
	if entry.EventType != CorrectionSurvivorsChosen || entry.SurvivorCount != 3 {
		t.Errorf("unexpected audit entry: %+v", entry)
	}
}

func TestWithTraceCarriesTraceID(t *testing.T) {
	l, err := New(&Config{Level: DEBUG, Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	traced := l.WithTrace("trace-123").(*PALLogger)
	if traced.GetTraceID() != "trace-123" {
		t.Errorf("expected trace ID to propagate, got %q", traced.GetTraceID())
	}
	if l.GetTraceID() != "" {
		t.Error("expected the original logger's trace ID to remain empty")
	}
}

func TestValidateConfigRejectsUnsupportedFormat(t *testing.T) {
	cfg := GetDefaultLoggingConfig()
	cfg.Global.Format = "xml"
	if err := ValidateConfig(cfg); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestValidateConfigRejectsAuditWithoutFile(t *testing.T) {
	cfg := GetDefaultLoggingConfig()
	cfg.Global.EnableAudit = true
	cfg.Global.AuditFile = ""
	if err := ValidateConfig(cfg); err == nil {
		t.Error("expected an error for audit enabled without a file")
	}
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("warn")
	if err != nil || level != WARN {
		t.Errorf("ParseLogLevel(warn) = %v, %v", level, err)
	}
	if _, err := ParseLogLevel("nonsense"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestGetComponentConfigOverridesOutput(t *testing.T) {
	cfg := GetDefaultLoggingConfig()
	cfg.Components["universe"] = ComponentConfig{Level: DEBUG, Output: "stdout"}
	resolved := cfg.GetComponentConfig("universe")
	if resolved.Level != DEBUG || resolved.Output != "stdout" {
		t.Errorf("unexpected resolved component config: %+v", resolved)
	}
	fallback := cfg.GetComponentConfig("unknown-component")
	if fallback.Output != cfg.Global.Output {
		t.Errorf("expected fallback to global output, got %q", fallback.Output)
	}
}
