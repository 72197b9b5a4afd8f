package logging

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// newObservedLogger builds a Logger capturing entries for assertions.
func newObservedLogger() (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &zapLogger{z: zap.New(core)}, logs
}

func TestNewLogger_Defaults(t *testing.T) {
	l, err := NewLogger(LogConfig{})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_BadOutputPath(t *testing.T) {
	_, err := NewLogger(LogConfig{OutputPaths: []string{"scheme://nope"}})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestZapLogger_Levels(t *testing.T) {
	l, logs := newObservedLogger()

	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestZapLogger_With_AddsFieldsToChild(t *testing.T) {
	l, logs := newObservedLogger()

	child := l.With(String("component", "ingestion"))
	child.Info("msg")
	l.Info("parent msg")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "ingestion", entries[0].ContextMap()["component"])
	assert.NotContains(t, entries[1].ContextMap(), "component", "parent is not mutated")
}

func TestZapLogger_Named(t *testing.T) {
	l, logs := newObservedLogger()
	l.Named("http").Info("msg")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "http", entries[0].LoggerName)
}

func TestToZapFields_TypedValues(t *testing.T) {
	l, logs := newObservedLogger()

	l.Info("msg",
		String("s", "v"),
		Int("i", 3),
		Int64("i64", int64(9)),
		Float64("f", 1.5),
		Bool("b", true),
		Duration("d", time.Second),
		Strings("ss", []string{"a", "b"}),
		Err(stderrors.New("boom")),
	)

	m := logs.All()[0].ContextMap()
	assert.Equal(t, "v", m["s"])
	assert.Equal(t, int64(3), m["i"])
	assert.Equal(t, int64(9), m["i64"])
	assert.Equal(t, 1.5, m["f"])
	assert.Equal(t, true, m["b"])
	assert.Equal(t, time.Second, m["d"])
	assert.Equal(t, []interface{}{"a", "b"}, m["ss"])
	assert.Equal(t, "boom", m["error"])
}

func TestErr_NilError(t *testing.T) {
	f := Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestNopLogger_AllMethodsAreSafe(t *testing.T) {
	l := NewNopLogger()
	l.Debug("msg")
	l.Info("msg")
	l.Warn("msg")
	l.Error("msg")
	assert.Equal(t, l, l.With(String("k", "v")))
	assert.Equal(t, l, l.Named("x"))
}

func TestSetDefault_ReplacesAndIgnoresNil(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l := NewNopLogger()
	SetDefault(l)
	assert.Equal(t, l, Default())

	SetDefault(nil)
	assert.Equal(t, l, Default(), "nil logger is ignored")
}

func TestNewLoggerFromCore(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewLoggerFromCore(core)
	l.Info("hello")
	assert.Equal(t, 1, logs.Len())
}
