package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf, Format: FormatJSON})

	ctx := context.Background()
	ctx = log.WithRequestID(ctx, "req-123")
	ctx = log.WithCartID(ctx, "cart-9")

	log.Error(ctx, "boom", errors.New("boom"))

	if !bytes.Contains(buf.Bytes(), []byte("\"request_id\":\"req-123\"")) {
		t.Fatalf("expected request_id to be preserved; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("\"cart_id\":\"cart-9\"")) {
		t.Fatalf("expected cart_id to be preserved; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("\"stack\"")) {
		t.Fatalf("expected stack trace on error; entry=%s", buf.String())
	}
}

func TestLoggerWarnStackToggle(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf, WarnStack: true})
	log.Warn(context.Background(), "warny")
	if !bytes.Contains(buf.Bytes(), []byte("\"stack\"")) {
		t.Fatalf("expected stack when warn stack enabled")
	}

	buf.Reset()
	quiet := New(Options{ServiceName: "test", Output: buf})
	quiet.Warn(context.Background(), "warny")
	if bytes.Contains(buf.Bytes(), []byte("\"stack\"")) {
		t.Fatalf("expected no stack when warn stack disabled")
	}
}

func TestLoggerFiltersBelowLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: zerolog.WarnLevel, Output: buf})
	log.Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %s", buf.String())
	}
}

func TestParseLevelDefaults(t *testing.T) {
	if lvl := ParseLevel(""); lvl != zerolog.InfoLevel {
		t.Fatalf("expected default info level, got %v", lvl)
	}
	if lvl := ParseLevel("invalid"); lvl != zerolog.InfoLevel {
		t.Fatalf("invalid level should fallback to info, got %v", lvl)
	}
	if lvl := ParseLevel(" DEBUG "); lvl != zerolog.DebugLevel {
		t.Fatalf("expected debug, got %v", lvl)
	}
}

func TestLoggerCarriesServiceAndInstance(t *testing.T) {
	t.Setenv("CARPENTER_INSTANCE_ID", "web-7")
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "api", Output: buf, Format: FormatJSON})

	ctx := log.WithFields(context.Background(), map[string]any{"b": 2, "a": 1})
	log.Info(ctx, "hello")

	for _, want := range []string{`"service":"api"`, `"instance":"web-7"`, `"a":1,"b":2`, `"message":"hello"`} {
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Fatalf("missing %s in %s", want, buf.String())
		}
	}
}

func TestLoggerContextFromOtherScopesIsIndependent(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "api", Output: buf, Format: FormatJSON})

	base := context.Background()
	withCart := log.WithCartID(base, "c1")
	log.Info(base, "plain")

	if bytes.Contains(buf.Bytes(), []byte("cart_id")) {
		t.Fatalf("parent context must not see child fields: %s", buf.String())
	}
	buf.Reset()
	log.Info(withCart, "scoped")
	if !bytes.Contains(buf.Bytes(), []byte(`"cart_id":"c1"`)) {
		t.Fatalf("expected cart_id: %s", buf.String())
	}
}
