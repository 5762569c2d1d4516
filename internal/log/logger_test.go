package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Format: FormatJSON, Output: &buf})

	logger.WithComponent(ComponentStore).Info("expense added", FieldExpenseID, "e1")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if rec[FieldComponent] != ComponentStore {
		t.Fatalf("component = %v, want %s", rec[FieldComponent], ComponentStore)
	}
	if rec[FieldExpenseID] != "e1" {
		t.Fatalf("expense_id = %v", rec[FieldExpenseID])
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Format: FormatText, Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record leaked at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "component=app") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestContextRoundTrip(t *testing.T) {
	logger := Nop().WithComponent(ComponentExport)
	ctx := NewContext(context.Background(), logger)

	if got := FromContext(ctx); got != logger {
		t.Fatalf("FromContext returned a different logger")
	}
	if got := FromContext(context.Background()); got.Component() != ComponentApp {
		t.Fatalf("fallback component = %s", got.Component())
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().WithOperation(OpAdd).WithErrorType(ErrorTypeValidation)
	if len(f.ToSlice()) != 4 {
		t.Fatalf("unexpected slice: %v", f.ToSlice())
	}
	if f[FieldOperation] != OpAdd {
		t.Fatalf("operation = %v", f[FieldOperation])
	}
}
