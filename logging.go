package params

import "time"

// Logger records engine diagnostics at three severities. The core never
// depends on output; the error severity exists so adapters can escalate,
// while the engine itself surfaces fatal conditions as returned errors.
type Logger interface {
	Debug(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

// LoggerFunc adapts a single function to Logger; level carries the
// severity name ("debug", "warn", "error").
type LoggerFunc func(level, msg string, fields map[string]any)

func (f LoggerFunc) Debug(msg string, fields map[string]any) { f.log("debug", msg, fields) }
func (f LoggerFunc) Warn(msg string, fields map[string]any)  { f.log("warn", msg, fields) }
func (f LoggerFunc) Error(msg string, fields map[string]any) { f.log("error", msg, fields) }

func (f LoggerFunc) log(level, msg string, fields map[string]any) {
	if f != nil {
		f(level, msg, fields)
	}
}

type noopLogger struct{}

func (noopLogger) Debug(string, map[string]any) {}
func (noopLogger) Warn(string, map[string]any)  {}
func (noopLogger) Error(string, map[string]any) {}

// RuleLogEvent describes one constraint-rule evaluation for logging.
type RuleLogEvent struct {
	Engine   string
	Rule     string
	Param    string
	Duration time.Duration
	Err      error
}

// RuleLogger records rule evaluation events.
type RuleLogger interface {
	LogRule(RuleLogEvent)
}

// RuleLoggerFunc adapts a function to RuleLogger.
type RuleLoggerFunc func(RuleLogEvent)

// LogRule implements RuleLogger.
func (f RuleLoggerFunc) LogRule(event RuleLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopRuleLogger struct{}

func (noopRuleLogger) LogRule(RuleLogEvent) {}
