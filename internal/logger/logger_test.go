package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"go.uber.org/zap/zapcore"
)

const mockLogLevel int8 = 0

func TestGetReturnsSameInstanceOnSubsequentCalls(t *testing.T) {
	logger1 := Get(mockLogLevel)
	logger2 := Get(mockLogLevel)
	if logger1 == nil {
		t.Fatal("Get should return a non-nil logger")
	}
	if logger1 != logger2 {
		t.Error("Get should return the same logger instance on subsequent calls")
	}
}

func TestWithLoggerAndFromContext(t *testing.T) {
	ctx := context.Background()
	lgr := Get(mockLogLevel)

	ctxWithLogger := WithLogger(ctx, lgr)
	if FromContext(ctxWithLogger) != lgr {
		t.Error("FromContext should return the logger stored in context")
	}
	if WithLogger(ctxWithLogger, lgr) != ctxWithLogger {
		t.Error("WithLogger should return the same context if logger is already set")
	}

	other := logr.Discard()
	if FromContext(WithLogger(ctxWithLogger, &other)) != &other {
		t.Error("WithLogger should replace a different logger")
	}
}

func TestFromContextReturnsNoopLoggerIfNothingConfigured(t *testing.T) {
	orig := globalLogrLogger
	globalLogrLogger = nil
	defer func() { globalLogrLogger = orig }()

	if FromContext(context.Background()) != &defaultNoopLogger {
		t.Error("FromContext should return defaultNoopLogger if no logger is set")
	}
}

func TestSyncDoesNotPanicWhenGlobalZapLoggerIsNil(t *testing.T) {
	orig := globalZapLogger
	globalZapLogger = nil
	defer func() { globalZapLogger = orig }()

	Sync()
}

func TestNewWritesJSONToSink(t *testing.T) {
	var buf bytes.Buffer
	lgr := New(mockLogLevel, zapcore.AddSync(&buf))

	lgr.Info("dropped entry", "file", "menu.json")

	out := buf.String()
	if !strings.Contains(out, `"message":"dropped entry"`) {
		t.Errorf("expected message key in output, got %q", out)
	}
	if !strings.Contains(out, `"file":"menu.json"`) {
		t.Errorf("expected structured field in output, got %q", out)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lgr := New(ParseLevel("error"), zapcore.AddSync(&buf))

	lgr.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info entry should be filtered at error level, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARNING": zapcore.WarnLevel,
		" error ": zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != int8(want) {
			t.Errorf("ParseLevel(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestWithValuesReturnsNewLogger(t *testing.T) {
	lgr := Get(mockLogLevel)
	if WithValues(lgr, "key", "value") == lgr {
		t.Error("WithValues should return a new logger instance")
	}
}
