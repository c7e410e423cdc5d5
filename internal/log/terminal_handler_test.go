package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestTerminalHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(h)

	ts := time.Date(2026, 1, 15, 10, 30, 45, 123000000, time.UTC)
	r := slog.NewRecord(ts, slog.LevelInfo, "server started", 0)
	r.AddAttrs(slog.String("port", "8080"))

	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "10:30:45.123") {
		t.Errorf("expected timestamp, got: %s", output)
	}
	if !strings.Contains(output, "INF") {
		t.Errorf("expected INF level, got: %s", output)
	}
	if !strings.Contains(output, "server started") {
		t.Errorf("expected message, got: %s", output)
	}
	if !strings.Contains(output, "port=") {
		t.Errorf("expected port attr, got: %s", output)
	}
	if !strings.Contains(output, "8080") {
		t.Errorf("expected port value, got: %s", output)
	}

	// Verify it uses the logger interface correctly
	buf.Reset()
	logger.Info("test")
	if buf.Len() == 0 {
		t.Error("expected output from logger")
	}
}

func TestTerminalHandler_Levels(t *testing.T) {
	tests := []struct {
		level    slog.Level
		expected string
	}{
		{slog.LevelDebug, "DBG"},
		{slog.LevelInfo, "INF"},
		{slog.LevelWarn, "WRN"},
		{slog.LevelError, "ERR"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			var buf bytes.Buffer
			h := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

			r := slog.NewRecord(time.Now(), tt.level, "msg", 0)
			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error: %v", err)
			}

			if !strings.Contains(buf.String(), tt.expected) {
				t.Errorf("expected %s in output, got: %s", tt.expected, buf.String())
			}
		})
	}
}

func TestTerminalHandler_ColourCodes(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	r := slog.NewRecord(time.Now(), slog.LevelError, "fail", 0)
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, ansiRed) {
		t.Error("expected red colour for ERROR level")
	}
	if !strings.Contains(output, ansiReset) {
		t.Error("expected reset code")
	}
	if !strings.Contains(output, ansiBold) {
		t.Error("expected bold for message")
	}
}

func TestTerminalHandler_Enabled(t *testing.T) {
	h := newTerminalHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	ctx := context.Background()
	if h.Enabled(ctx, slog.LevelDebug) {
		t.Error("DEBUG should be disabled at WARN level")
	}
	if h.Enabled(ctx, slog.LevelInfo) {
		t.Error("INFO should be disabled at WARN level")
	}
	if !h.Enabled(ctx, slog.LevelWarn) {
		t.Error("WARN should be enabled at WARN level")
	}
	if !h.Enabled(ctx, slog.LevelError) {
		t.Error("ERROR should be enabled at WARN level")
	}
}

func TestTerminalHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	withAttrs := h.WithAttrs([]slog.Attr{slog.String("component", "ingest")})

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "msg", 0)
	if err := withAttrs.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	if !strings.Contains(buf.String(), "component=") {
		t.Errorf("expected carried attr in output, got: %s", buf.String())
	}

	// The original handler is unchanged
	buf.Reset()
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if strings.Contains(buf.String(), "component=") {
		t.Error("original handler should not carry the attr")
	}
}

func TestTerminalHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	grouped := h.WithGroup("http")

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "msg", 0)
	r.AddAttrs(slog.String("status", "200"))
	if err := grouped.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	if !strings.Contains(buf.String(), "http.status=") {
		t.Errorf("expected group-prefixed attr, got: %s", buf.String())
	}
}

func TestTerminalHandler_QuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "msg", 0)
	r.AddAttrs(slog.String("filename", "annual report.pdf"))
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	if !strings.Contains(buf.String(), "\"annual report.pdf\"") {
		t.Errorf("expected quoted value, got: %s", buf.String())
	}
}
