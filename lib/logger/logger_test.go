package logger

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// TestNewWritesToWriter tests that log output lands on the given writer
func TestNewWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf)

	log.Info("hello", zap.String("key", "value"))
	if err := log.Sync(); err != nil {
		t.Logf("Sync: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "hello") {
		t.Errorf("output %q does not contain the message", out)
	}
	if !strings.Contains(out, "value") {
		t.Errorf("output %q does not contain the field value", out)
	}
}

// TestNewTimestampFormat tests that timestamps render as RFC3339 UTC
func TestNewTimestampFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf)

	log.Info("ts")

	out := buf.String()
	if !strings.Contains(out, "Z\t") {
		t.Errorf("output %q does not start with a UTC RFC3339 timestamp", out)
	}
}

// TestNewDebugEnabled tests that debug-level messages are not filtered
func TestNewDebugEnabled(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf)

	log.Debug("visible")

	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("debug message missing from output %q", buf.String())
	}
}
