package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewTagsComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(Config{Level: slog.LevelInfo, Component: ComponentStorage, Output: buf})
	l.Info("hello", FieldAmount, 12.5)

	out := buf.String()
	if !strings.Contains(out, "component=storage") {
		t.Fatalf("missing component: %s", out)
	}
	if !strings.Contains(out, "amount=12.5") {
		t.Fatalf("missing field: %s", out)
	}
	if l.Component() != ComponentStorage {
		t.Fatalf("component = %q", l.Component())
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(Config{Level: ParseLevel("warn"), Output: buf})
	l.Info("dropped")
	l.Warn("kept")
	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), "kept") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogError(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(Config{Output: buf})
	l.LogError(context.Background(), "insert failed", errors.New("disk full"), OpCreate, NewFields().WithRental(1, "2024-03-01", 10, "Cash"))
	out := buf.String()
	for _, want := range []string{"error=\"disk full\"", "operation=create", "payment_method=Cash", "rental_date=2024-03-01"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %s", want, out)
		}
	}
}

func TestMiddlewareInjectsLogger(t *testing.T) {
	l := New(Config{Component: ComponentHTTP, Output: &bytes.Buffer{}})
	var got *Logger
	h := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if got == nil || got.Component() != ComponentHTTP {
		t.Fatalf("logger not propagated: %+v", got)
	}
}

func TestFromContextFallback(t *testing.T) {
	if FromContext(context.Background()).Logger == nil {
		t.Fatal("expected default logger")
	}
}
