// Package zaplog adapts zap loggers to the diagnostics interfaces of the
// core params package.
package zaplog

import (
	"sort"

	params "github.com/goliatone/go-params"
	"go.uber.org/zap"
)

// Logger implements params.Logger over a *zap.Logger.
type Logger struct {
	base *zap.Logger
}

// New wraps base; a nil base falls back to a no-op zap logger.
func New(base *zap.Logger) *Logger {
	if base == nil {
		base = zap.NewNop()
	}
	return &Logger{base: base}
}

func (l *Logger) Debug(msg string, fields map[string]any) {
	l.base.Debug(msg, toZapFields(fields)...)
}

func (l *Logger) Warn(msg string, fields map[string]any) {
	l.base.Warn(msg, toZapFields(fields)...)
}

func (l *Logger) Error(msg string, fields map[string]any) {
	l.base.Error(msg, toZapFields(fields)...)
}

// RuleLogger implements params.RuleLogger over a *zap.Logger, recording one
// entry per constraint-rule evaluation.
type RuleLogger struct {
	base *zap.Logger
}

// NewRuleLogger wraps base; a nil base falls back to a no-op zap logger.
func NewRuleLogger(base *zap.Logger) *RuleLogger {
	if base == nil {
		base = zap.NewNop()
	}
	return &RuleLogger{base: base}
}

func (l *RuleLogger) LogRule(event params.RuleLogEvent) {
	fields := []zap.Field{
		zap.String("engine", event.Engine),
		zap.String("rule", event.Rule),
		zap.String("param", event.Param),
		zap.Duration("duration", event.Duration),
	}
	if event.Err != nil {
		l.base.Warn("rule evaluation failed", append(fields, zap.Error(event.Err))...)
		return
	}
	l.base.Debug("rule evaluated", fields...)
}

// toZapFields renders the field map in sorted key order so log output is
// stable.
func toZapFields(fields map[string]any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(keys))
	for _, key := range keys {
		out = append(out, zap.Any(key, fields[key]))
	}
	return out
}
