package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

// TestLoggerInterface tests the TestLogger implementation
func TestLoggerInterface(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationPredict)
	testLogger.Warn("warning message", "warning_code", "TEST_WARNING")
	testLogger.Error("error message", fmt.Errorf("test error"), "error_code", "TEST_ERROR")

	if buffer.String() == "" {
		t.Fatal("Expected log output, got empty string")
	}

	for _, msg := range []string{"debug message", "info message", "warning message", "error message"} {
		if !testLogger.ContainsMessage(msg) {
			t.Errorf("%q not found in output", msg)
		}
	}

	if !testLogger.ContainsField("key1", "value1") {
		t.Error("Expected field key1=value1 not found")
	}
	if !testLogger.ContainsField("number", 42.0) {
		t.Error("Expected field number=42 not found")
	}
	if !testLogger.ContainsField(ErrorKey, "test error") {
		t.Error("Expected error field not found")
	}
	if !testLogger.ContainsField("error_code", "TEST_ERROR") {
		t.Error("Expected fields after the error value to be kept")
	}
}

// TestLoggerWith tests the With method for context-aware logging
func TestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)

	contextLogger := testLogger.With(ModelNameKey, "Classifier", EstimatorIDKey, "abc")
	contextLogger.Info("scored")
	testLogger.Info("plain")

	entries, err := testLogger.GetLogEntries()
	if err != nil {
		t.Fatalf("GetLogEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0][ModelNameKey] != "Classifier" {
		t.Errorf("Expected context field on first entry, got %v", entries[0])
	}
	if _, ok := entries[1][ModelNameKey]; ok {
		t.Error("With must not mutate the parent logger")
	}
}

func TestLoggerLevels(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelWarn)

	testLogger.Debug("hidden debug")
	testLogger.Info("hidden info")
	testLogger.Warn("visible warn")

	if strings.Contains(buffer.String(), "hidden") {
		t.Error("Messages below the level must be dropped")
	}
	if !testLogger.Enabled(context.Background(), LevelError) {
		t.Error("Error level should be enabled")
	}
	if testLogger.Enabled(context.Background(), LevelDebug) {
		t.Error("Debug level should be disabled")
	}

	testLogger.Clear()
	if buffer.Len() != 0 {
		t.Error("Clear should empty the buffer")
	}
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug).With(ModelNameKey, "Regressor")

	logger.Info("predicted", SamplesKey, 3)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("zerolog output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["message"] != "predicted" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry[ModelNameKey] != "Regressor" {
		t.Errorf("%s = %v", ModelNameKey, entry[ModelNameKey])
	}
	if entry[SamplesKey] != 3.0 {
		t.Errorf("%s = %v", SamplesKey, entry[SamplesKey])
	}
}

func TestZerologLoggerError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	logger.Error("failed", errors.New("boom"), OperationKey, OperationPredictProba)

	out := buf.String()
	if !strings.Contains(out, `"error":"boom"`) {
		t.Errorf("expected error field, got %s", out)
	}
	if !strings.Contains(out, OperationPredictProba) {
		t.Errorf("expected operation field, got %s", out)
	}
}

func TestZerologLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn, got %q", buf.String())
	}
	if logger.Enabled(context.Background(), LevelInfo) {
		t.Error("info should be disabled")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestProviderSwap(t *testing.T) {
	p, logger := NewTestLoggerProvider(LevelDebug)
	SetProvider(p)
	defer SetOutput(&bytes.Buffer{}, LevelInfo)

	GetLoggerWithName("linear").Debug("through provider")

	if !logger.ContainsField(ComponentKey, "linear") {
		t.Error("GetLoggerWithName should tag the component")
	}
}
