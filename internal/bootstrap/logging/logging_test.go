package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "", want: slog.LevelInfo},
		{in: " WARN ", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseLevel(%q) error = nil, want error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestContextAttrsReachJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "debug", "json")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := WithLogger(context.Background(), logger)
	ctx = WithAttrs(ctx, slog.String("component", "test"), slog.String("op", "first"))
	ctx = WithAttrs(ctx, slog.String("op", "second"))
	Debug(ctx, "hello", slog.Int("n", 3))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v; raw=%s", err, buf.String())
	}
	if line["msg"] != "hello" || line["component"] != "test" || line["op"] != "second" || line["n"] != float64(3) {
		t.Fatalf("log line = %v", line)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "info", "xml"); err == nil {
		t.Fatal("New(xml) error = nil, want error")
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info", "text")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	Debug(WithLogger(context.Background(), logger), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line written at info level: %s", buf.String())
	}
}
