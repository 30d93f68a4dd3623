// Package logging provides the zap-backed structured loggers used by the odometry and CLI code.
package logging

import (
	"io"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// Logger writes structured key/value log lines.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})

	// Sublogger returns a logger named "<name>.<subname>" writing to the same outputs. It
	// starts at the parent's level; later level changes are not shared.
	Sublogger(subname string) Logger
	SetLevel(level Level)
}

type zapLogger struct {
	*zap.SugaredLogger

	sinks zapcore.Core
	level zap.AtomicLevel
}

// leveledCore gates a core behind a level that can change at runtime.
type leveledCore struct {
	zapcore.Core
	level zapcore.LevelEnabler
}

func (c leveledCore) Enabled(l zapcore.Level) bool {
	return c.level.Enabled(l) && c.Core.Enabled(l)
}

func (c leveledCore) With(fields []zapcore.Field) zapcore.Core {
	return leveledCore{c.Core.With(fields), c.level}
}

func (c leveledCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.level.Enabled(entry.Level) {
		return checked
	}
	return c.Core.Check(entry, checked)
}

func newZapLogger(name string, sinks zapcore.Core, level Level) *zapLogger {
	atomicLevel := zap.NewAtomicLevelAt(level.AsZap())
	base := zap.New(leveledCore{sinks, atomicLevel}, zap.AddCaller())
	return &zapLogger{
		SugaredLogger: base.Named(name).Sugar(),
		sinks:         sinks,
		level:         atomicLevel,
	}
}

func (l *zapLogger) Sublogger(subname string) Logger {
	level := zap.NewAtomicLevelAt(l.level.Level())
	base := zap.New(leveledCore{l.sinks, level}, zap.AddCaller()).Named(l.Desugar().Name()).Named(subname)
	return &zapLogger{SugaredLogger: base.Sugar(), sinks: l.sinks, level: level}
}

func (l *zapLogger) SetLevel(level Level) {
	l.level.SetLevel(level.AsZap())
}

func consoleEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	})
}

// NewWriterLogger returns an INFO level logger writing console lines to w.
func NewWriterLogger(name string, w io.Writer) Logger {
	sink := zapcore.NewCore(consoleEncoder(), zapcore.Lock(zapcore.AddSync(w)), zapcore.DebugLevel)
	return newZapLogger(name, sink, INFO)
}

// NewBlankLogger returns a logger with no outputs.
func NewBlankLogger(name string) Logger {
	return newZapLogger(name, zapcore.NewNopCore(), DEBUG)
}

// NewObservedTestLogger returns a DEBUG logger that writes to tb and also records every entry
// in memory.
func NewObservedTestLogger(tb testing.TB) (Logger, *observer.ObservedLogs) {
	observerCore, observedLogs := observer.New(zapcore.DebugLevel)
	sinks := zapcore.NewTee(zaptest.NewLogger(tb).Core(), observerCore)
	return newZapLogger("", sinks, DEBUG), observedLogs
}
