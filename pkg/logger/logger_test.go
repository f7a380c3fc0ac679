package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoggerInit(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil after initialization")
	}
}

// Basic logging test (slog-backed; no Sugar)
func TestLoggerBasic(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	Get().Info(ctx, "test message", String("k", "v"), Bool("ok", true), Duration("took", time.Second))

	line := buf.String()
	for _, want := range []string{"test message", "k=v", "ok=true", "took=1s", "source=logger_test.go:"} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %q", line, want)
		}
	}
}

func TestLoggerNamed(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	namedLogger := Named("clock")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}
	namedLogger.Info(context.Background(), "tick", Int("elapsed", 3))

	if !strings.Contains(buf.String(), "clock.elapsed=3") {
		t.Errorf("expected grouped attribute, got %q", buf.String())
	}
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Get().Debug(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Errorf("debug written at info level: %q", buf.String())
	}

	if err := SetLevelString("debug"); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = SetLevelString("info") }()
	Get().Debug(context.Background(), "shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug not written at debug level")
	}

	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	if err := SetFormat("json"); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = SetFormat("text") }()

	// A logger obtained before the switch follows it.
	named := Named("store")
	named.Warn(context.Background(), "slow save", Float64("ms", 12.5))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not json: %v: %q", err, buf.String())
	}
	if rec["msg"] != "slow save" || rec["level"] != "WARN" {
		t.Errorf("unexpected record %v", rec)
	}
	group, ok := rec["store"].(map[string]any)
	if !ok || group["ms"] != 12.5 {
		t.Errorf("expected store group with ms, got %v", rec)
	}

	if err := SetFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
