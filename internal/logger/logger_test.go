package logger

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"ERR", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"something", zerolog.InfoLevel},
	}
	for _, c := range cases {
		if got := parseLevel(c.in); got != c.want {
			t.Fatalf("parseLevel(%q)=%v, want %v", c.in, got, c.want)
		}
	}
}

func TestInitAndL(t *testing.T) {
	Init("info", false)
	if L() == nil {
		t.Fatalf("L() returned nil")
	}
	if L().GetLevel() != zerolog.InfoLevel {
		t.Fatalf("expected info level, got %v", L().GetLevel())
	}

	Init("debug", true)
	if L().GetLevel() != zerolog.DebugLevel {
		t.Fatalf("expected debug level, got %v", L().GetLevel())
	}
}

func TestFromContext(t *testing.T) {
	Init("info", false)

	// no logger attached: falls back to the global logger
	if got := FromContext(context.Background()); got != L() {
		t.Fatalf("expected global logger for bare context")
	}

	ctx := WithRequestID(context.Background(), "rid-1")
	got := FromContext(ctx)
	if got == nil || got == L() {
		t.Fatalf("expected request-scoped logger")
	}
	if got.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("request logger should inherit level, got %v", got.GetLevel())
	}
}
