package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleHandlerIncludesComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar, false))

	logger = NewComponentLogger(logger, "orchestrator")
	logger.Info("stage started", String(FieldStage, "keyword-research"), Float64("progress", 12.5))

	line := buf.String()
	if !strings.Contains(line, "orchestrator: stage started") {
		t.Fatalf("expected component prefix, got %q", line)
	}
	if !strings.Contains(line, "stage=keyword-research") {
		t.Fatalf("expected stage field, got %q", line)
	}
	if !strings.Contains(line, "progress=12.5") {
		t.Fatalf("expected progress field, got %q", line)
	}
}

func TestWithContextAddsSessionFields(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar, false))

	ctx := WithSessionID(context.Background(), "sess-1")
	ctx = WithStage(ctx, "serp-analysis")

	WithContext(ctx, logger).Info("update")

	line := buf.String()
	if !strings.Contains(line, "session_id=sess-1") {
		t.Fatalf("expected session id field, got %q", line)
	}
	if !strings.Contains(line, "stage=serp-analysis") {
		t.Fatalf("expected stage field, got %q", line)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should not be enabled at any level")
	}
}
