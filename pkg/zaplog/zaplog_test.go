package zaplog

import (
	"errors"
	"testing"
	"time"

	params "github.com/goliatone/go-params"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestLoggerForwardsLevels(t *testing.T) {
	base, logs := observedLogger()
	logger := New(base)

	logger.Debug("compiled spec registry", map[string]any{"spec": "Model"})
	logger.Warn("value outside declared bounds", map[string]any{"param": "beta"})
	logger.Error("boom", nil)

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Level != zapcore.DebugLevel || entries[1].Level != zapcore.WarnLevel || entries[2].Level != zapcore.ErrorLevel {
		t.Fatalf("level mismatch: %+v", entries)
	}
	if entries[1].ContextMap()["param"] != "beta" {
		t.Fatalf("fields lost: %v", entries[1].ContextMap())
	}
}

func TestLoggerFieldOrderIsStable(t *testing.T) {
	base, logs := observedLogger()
	logger := New(base)

	logger.Debug("msg", map[string]any{"zeta": 1, "alpha": 2, "mid": 3})

	fields := logs.All()[0].Context
	want := []string{"alpha", "mid", "zeta"}
	for i, name := range want {
		if fields[i].Key != name {
			t.Fatalf("field order mismatch: got %q want %q", fields[i].Key, name)
		}
	}
}

func TestNilBaseFallsBackToNop(t *testing.T) {
	logger := New(nil)
	logger.Debug("silent", nil)

	ruleLogger := NewRuleLogger(nil)
	ruleLogger.LogRule(params.RuleLogEvent{})
}

func TestRuleLoggerRecordsEvaluations(t *testing.T) {
	base, logs := observedLogger()
	ruleLogger := NewRuleLogger(base)

	ruleLogger.LogRule(params.RuleLogEvent{
		Engine:   "expr",
		Rule:     "value <= end",
		Param:    "beta",
		Duration: 5 * time.Millisecond,
	})
	ruleLogger.LogRule(params.RuleLogEvent{
		Engine: "expr",
		Rule:   "value <= end",
		Param:  "beta",
		Err:    errors.New("rejected"),
	})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != zapcore.DebugLevel || entries[1].Level != zapcore.WarnLevel {
		t.Fatalf("failed evaluation must log at warn: %+v", entries)
	}
	if entries[0].ContextMap()["engine"] != "expr" {
		t.Fatalf("fields lost: %v", entries[0].ContextMap())
	}
}

func TestLoggerSatisfiesParamsInterface(t *testing.T) {
	var _ params.Logger = New(nil)
	var _ params.RuleLogger = NewRuleLogger(nil)
}
