package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/oklog/ulid/v2"
)

func TestWithLogger_FromContext(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := WithLogger(context.Background(), l)
	FromContext(ctx).Info("test message")

	if buf.Len() == 0 {
		t.Error("Logger from context should produce output")
	}
}

func TestFromContext_Default(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Error("FromContext should return default logger, got nil")
	}
}

func TestNewRunID(t *testing.T) {
	a := NewRunID()
	b := NewRunID()

	if a == b {
		t.Errorf("run ids should differ: %s", a)
	}
	if _, err := ulid.Parse(a); err != nil {
		t.Errorf("run id %q is not a ULID: %v", a, err)
	}
}

func TestRunID_Context(t *testing.T) {
	if got := RunIDFromContext(context.Background()); got != "" {
		t.Errorf("RunIDFromContext(empty) = %q", got)
	}

	ctx := WithRunID(context.Background(), "01HZX")
	if got := RunIDFromContext(ctx); got != "01HZX" {
		t.Errorf("RunIDFromContext() = %q, want 01HZX", got)
	}
}

func TestL_AddsRunID(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "info", Format: "json", Output: &buf})

	ctx := WithLogger(context.Background(), l)
	ctx = WithRunID(ctx, "run-1")
	L(ctx).Info("snapshot started")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("parse log: %v", err)
	}
	if entry["run_id"] != "run-1" {
		t.Errorf("run_id = %v, want run-1", entry["run_id"])
	}
}

func TestL_WithoutRunID(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "info", Format: "json", Output: &buf})

	L(WithLogger(context.Background(), l)).Info("no id")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("parse log: %v", err)
	}
	if _, ok := entry["run_id"]; ok {
		t.Error("run_id should be absent")
	}
}
