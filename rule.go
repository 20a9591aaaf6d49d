package params

import "time"

// RuleContext carries the inputs a constraint rule sees when a parameter
// write is validated.
type RuleContext struct {
	// Param is the name of the parameter being written.
	Param string
	// Value is the candidate value, Old the currently stored one.
	Value any
	Old   any
	// Snapshot exposes the instance's current values by name.
	Snapshot map[string]any
	// Bounds mirror the descriptor's range metadata when set.
	Start *float64
	End   *float64
	Now   *time.Time
	Args  map[string]any
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.Snapshot == nil {
		ctx.Snapshot = map[string]any{}
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	return ctx
}

// environment flattens the context into the binding map shared by all rule
// engines.
func (ctx RuleContext) environment() map[string]any {
	ctx = ctx.withDefaultMaps()
	env := map[string]any{
		"param": ctx.Param,
		"value": ctx.Value,
		"old":   ctx.Old,
		"now":   ctx.timestamp(),
		"args":  ctx.Args,
		"self":  ctx.Snapshot,
	}
	if ctx.Start != nil {
		env["start"] = *ctx.Start
	}
	if ctx.End != nil {
		env["end"] = *ctx.End
	}
	return env
}

// Evaluator executes constraint expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}
