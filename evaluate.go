package params

import (
	"errors"
	"fmt"
	"time"
)

var ErrNoEvaluator = errors.New("params: evaluator not configured")

// AvailableEngines lists the rule engines compiled into this build.
func AvailableEngines() []string {
	engines := []string{"expr", "cel"}
	if jsEvaluatorAvailable() {
		engines = append(engines, "js")
	}
	return engines
}

// Evaluate executes a rule expression against the instance's current values
// without writing anything. Useful for probing rules from tooling.
func (inst *Instance) Evaluate(expr string) (any, error) {
	if expr == "" {
		return nil, fmt.Errorf("params: expression must not be empty")
	}
	evaluator, err := inst.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	ctx := RuleContext{Snapshot: inst.CurrentValues()}.withDefaultNow().withDefaultMaps()
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, expr)
	duration := time.Since(start)
	evalErr = wrapEvaluationError(engine, expr, "", evalErr)
	inst.ruleLogger().LogRule(RuleLogEvent{
		Engine:   engine,
		Rule:     expr,
		Duration: duration,
		Err:      evalErr,
	})
	if evalErr != nil {
		return nil, evalErr
	}
	return value, nil
}

// checkRule runs the descriptor's constraint rule against a candidate write.
// A boolean false result rejects the value; non-boolean results are treated
// as accepting.
func (inst *Instance) checkRule(p *Param, old, value any) error {
	evaluator, err := inst.resolveEvaluator()
	if err != nil {
		return err
	}
	ctx := RuleContext{
		Param:    p.Name(),
		Value:    value,
		Old:      old,
		Snapshot: inst.CurrentValues(),
		Start:    p.Start,
		End:      p.End,
	}
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	result, evalErr := evaluator.Evaluate(ctx, p.Rule)
	duration := time.Since(start)
	evalErr = wrapEvaluationError(engine, p.Rule, p.Name(), evalErr)
	if evalErr == nil {
		if accepted, ok := result.(bool); ok && !accepted {
			evalErr = fmt.Errorf("%w: %s rejected %v for %q",
				ErrRuleRejected, describeRule(p.Rule), value, p.Name())
		}
	}
	inst.ruleLogger().LogRule(RuleLogEvent{
		Engine:   engine,
		Rule:     p.Rule,
		Param:    p.Name(),
		Duration: duration,
		Err:      evalErr,
	})
	return evalErr
}

func (inst *Instance) resolveEvaluator() (Evaluator, error) {
	if inst.cfg.evaluator != nil {
		return inst.cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cache := inst.cfg.programCache; cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cache))
	}
	if registry := inst.cfg.functions; registry != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(registry))
	}
	evaluator := NewExprEvaluator(exprOpts...)
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	inst.cfg.evaluator = evaluator
	return evaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*params.exprEvaluator":
		return "expr"
	case "*params.celEvaluator":
		return "cel"
	case "*params.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
