package params

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/google/uuid"

	"github.com/goliatone/go-params/internal/clone"
	"github.com/goliatone/go-params/pkg/activity"
)

// Values holds parameter values keyed by public name, the currency of
// construction, bulk updates, and export.
type Values map[string]any

// NamedValue pairs a parameter name with a value, preserving registry order
// in bulk listings.
type NamedValue struct {
	Name  string
	Value any
}

// ChangeHook is invoked inline after a committed value change on an
// initialized instance.
type ChangeHook func(p *Param, oldValue, newValue any)

// Unsubscribe severs one change-hook registration without touching stored
// values.
type Unsubscribe func()

type instanceState int

const (
	stateUninitialized instanceState = iota
	stateInitializing
	stateInitialized
)

// Instance binds per-instance storage to a compiled Spec. Values live in a
// private map keyed by descriptor storage keys; descriptors themselves stay
// shared with the spec until AddParam introduces instance-local ones.
type Instance struct {
	id      uuid.UUID
	name    string
	spec    *Spec
	local   *Registry
	storage map[string]any
	state   instanceState

	hooks      map[string][]hookEntry
	nextHookID int

	cfg     buildConfig
	emitter *activity.Emitter
}

type hookEntry struct {
	id int
	fn ChangeHook
}

type buildConfig struct {
	logger       Logger
	ruleLogger   RuleLogger
	evaluator    Evaluator
	programCache ProgramCache
	functions    *FunctionRegistry
	hooks        activity.Hooks
	strictKeys   bool
	strictBounds bool
	strictRules  bool
	actorID      string
}

// BuildOption configures instance construction.
type BuildOption func(*buildConfig)

// BuildWithLogger overrides the spec's logger for this instance.
func BuildWithLogger(logger Logger) BuildOption {
	return func(cfg *buildConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

// BuildWithRuleLogger records constraint-rule evaluations.
func BuildWithRuleLogger(logger RuleLogger) BuildOption {
	return func(cfg *buildConfig) {
		if logger == nil {
			cfg.ruleLogger = noopRuleLogger{}
			return
		}
		cfg.ruleLogger = logger
	}
}

// BuildWithEvaluator overrides the rule engine for this instance.
func BuildWithEvaluator(e Evaluator) BuildOption {
	return func(cfg *buildConfig) { cfg.evaluator = e }
}

// BuildWithActivityHooks attaches change-event hooks for this instance,
// replacing any spec-level hooks.
func BuildWithActivityHooks(hooks activity.Hooks) BuildOption {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *buildConfig) { cfg.hooks = normalized }
}

// BuildWithActor tags emitted activity events with an actor identifier.
func BuildWithActor(actorID string) BuildOption {
	return func(cfg *buildConfig) { cfg.actorID = actorID }
}

// BuildStrictKeys makes unknown constructor keywords fatal instead of
// warn-and-ignore.
func BuildStrictKeys() BuildOption {
	return func(cfg *buildConfig) { cfg.strictKeys = true }
}

// BuildStrictBounds makes out-of-range writes fatal instead of advisory.
func BuildStrictBounds() BuildOption {
	return func(cfg *buildConfig) { cfg.strictBounds = true }
}

// BuildStrictRules makes constraint-rule rejections fatal instead of
// advisory. Rule engine failures stay advisory either way.
func BuildStrictRules() BuildOption {
	return func(cfg *buildConfig) { cfg.strictRules = true }
}

// Build constructs an instance: defaults are deep-copied into storage in
// registry order, keyword values validated and written, and only then does
// the instance flip to initialized, activating constant enforcement and
// change-hook dispatch.
func (s *Spec) Build(values Values, opts ...BuildOption) (*Instance, error) {
	cfg := buildConfig{
		logger:       s.cfg.logger,
		evaluator:    s.cfg.evaluator,
		programCache: s.cfg.programCache,
		functions:    s.cfg.functions,
		hooks:        s.cfg.hooks,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return s.build(values, cfg)
}

func (s *Spec) build(values Values, cfg buildConfig) (*Instance, error) {
	id := uuid.New()
	inst := &Instance{
		id:      id,
		name:    fmt.Sprintf("%s-%s", s.name, id.String()[:8]),
		spec:    s,
		local:   newRegistry(),
		storage: make(map[string]any, s.registry.Len()),
		state:   stateInitializing,
		hooks:   make(map[string][]hookEntry),
		cfg:     cfg,
	}
	inst.emitter = activity.NewEmitter(cfg.hooks, activity.Config{
		Enabled: len(cfg.hooks) > 0,
	})

	for _, name := range s.registry.Names() {
		p, _ := s.registry.Get(name)
		inst.storage[p.StorageKey()] = clone.Value(p.Default)
	}

	// Known keywords in registry order for deterministic diagnostics, then
	// unknown keywords sorted.
	for _, name := range s.registry.Names() {
		value, ok := values[name]
		if !ok {
			continue
		}
		if err := inst.set(name, value); err != nil {
			return nil, err
		}
	}
	var unknown []string
	for key := range values {
		if !s.registry.Has(key) {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		if key == ClassKey {
			if tag, ok := values[key].(string); !ok || tag != s.name {
				if cfg.strictKeys {
					return nil, fmt.Errorf("%w: tag %v on spec %q", ErrClassMismatch, values[key], s.name)
				}
				inst.logger().Warn("serialized class tag does not match spec", map[string]any{
					"spec": s.name, "tag": values[key],
				})
			}
			continue
		}
		if cfg.strictKeys {
			return nil, fmt.Errorf("%w: keyword %q on spec %q", ErrUnknownParameter, key, s.name)
		}
		inst.logger().Warn("ignoring unknown keyword", map[string]any{
			"spec": s.name, "keyword": key,
		})
	}

	inst.state = stateInitialized
	inst.emit(activity.BuildInstanceCreatedEvent(activity.ParamEventInput{
		ActorID:  cfg.actorID,
		Spec:     s.name,
		Instance: inst.name,
	}))
	return inst, nil
}

// ID returns the instance's stable identifier.
func (inst *Instance) ID() uuid.UUID { return inst.id }

// Name returns the instance's display name.
func (inst *Instance) Name() string { return inst.name }

// Klass returns the label of the spec the instance was built from.
func (inst *Instance) Klass() string { return inst.spec.name }

// Spec returns the compiled spec the instance reads.
func (inst *Instance) Spec() *Spec { return inst.spec }

// Initialized reports whether construction has completed.
func (inst *Instance) Initialized() bool { return inst.state == stateInitialized }

// Has reports whether name resolves through the class or instance-local
// registry.
func (inst *Instance) Has(name string) bool {
	return inst.spec.registry.Has(name) || inst.local.Has(name)
}

// lookup resolves name against the class registry first, then the
// instance-local registry.
func (inst *Instance) lookup(name string) (*Param, bool) {
	if p, ok := inst.spec.registry.Get(name); ok {
		return p, true
	}
	return inst.local.Get(name)
}

// Param returns the descriptor governing name for this instance.
func (inst *Instance) Param(name string) (*Param, bool) {
	return inst.lookup(name)
}

// Get returns the current value of name, falling back to the descriptor's
// default when never set.
func (inst *Instance) Get(name string) (any, error) {
	p, ok := inst.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q on %s", ErrUnknownParameter, name, inst.name)
	}
	return p.ReadValue(inst)
}

// MustGet is Get, panicking on unknown names.
func (inst *Instance) MustGet(name string) any {
	value, err := inst.Get(name)
	if err != nil {
		panic(err)
	}
	return value
}

// Set validates and writes a new value for name. Constant parameters reject
// writes once the instance initialized; a value equal to the current one is
// a no-op that neither touches storage nor dispatches hooks.
func (inst *Instance) Set(name string, value any) error {
	return inst.set(name, value)
}

func (inst *Instance) set(name string, value any) error {
	p, ok := inst.lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q on %s", ErrUnknownParameter, name, inst.name)
	}
	if p.Constant && inst.state == stateInitialized {
		return fmt.Errorf("%w: %q on %s", ErrImmutableParameter, name, inst.name)
	}

	old, _ := p.ReadValue(inst)
	if reflect.DeepEqual(old, value) {
		return nil
	}

	if !p.CheckRange(value) {
		if inst.cfg.strictBounds {
			return fmt.Errorf("%w: %q value %v outside [%v, %v]",
				ErrOutOfRange, name, value, derefOrUnset(p.Start), derefOrUnset(p.End))
		}
		inst.logger().Warn("value outside declared bounds", map[string]any{
			"instance": inst.name,
			"param":    name,
			"value":    value,
			"start":    derefOrUnset(p.Start),
			"end":      derefOrUnset(p.End),
		})
	}

	if p.Rule != "" {
		if err := inst.checkRule(p, old, value); err != nil {
			if errors.Is(err, ErrRuleRejected) && inst.cfg.strictRules {
				return err
			}
			inst.logger().Warn("constraint rule did not accept value", map[string]any{
				"instance": inst.name,
				"param":    name,
				"value":    value,
				"error":    err.Error(),
			})
		}
	}

	inst.storage[p.StorageKey()] = value
	inst.logger().Debug("set parameter", map[string]any{
		"instance": inst.name, "param": name, "value": value,
	})

	if inst.state == stateInitialized {
		inst.dispatch(p, old, value)
		inst.emit(activity.BuildParamChangedEvent(activity.ParamEventInput{
			ActorID:  inst.cfg.actorID,
			Spec:     inst.spec.name,
			Instance: inst.name,
			Param:    name,
			OldValue: old,
			NewValue: value,
		}))
	}
	return nil
}

// OnChange registers a hook invoked after committed changes to name. The
// returned Unsubscribe severs just this registration.
func (inst *Instance) OnChange(name string, hook ChangeHook) (Unsubscribe, error) {
	p, ok := inst.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q on %s", ErrUnknownParameter, name, inst.name)
	}
	if hook == nil {
		return func() {}, nil
	}
	inst.nextHookID++
	id := inst.nextHookID
	key := p.HookKey()
	inst.hooks[key] = append(inst.hooks[key], hookEntry{id: id, fn: hook})
	return func() {
		entries := inst.hooks[key]
		for i, entry := range entries {
			if entry.id == id {
				inst.hooks[key] = append(entries[:i], entries[i+1:]...)
				return
			}
		}
	}, nil
}

// Unlink severs every change-hook registration without touching stored
// values.
func (inst *Instance) Unlink() {
	inst.hooks = make(map[string][]hookEntry)
}

// dispatch invokes hooks inline. Re-entrant writes during dispatch are
// bounded by the no-op-if-equal rule in set.
func (inst *Instance) dispatch(p *Param, old, value any) {
	entries := inst.hooks[p.HookKey()]
	if len(entries) == 0 {
		return
	}
	snapshot := make([]hookEntry, len(entries))
	copy(snapshot, entries)
	for _, entry := range snapshot {
		entry.fn(p, old, value)
	}
}

// AddParam attaches a descriptor to this instance only; the class registry
// is never consulted for storage and never mutated. Colliding with an
// existing class-level or instance-level name bound to a different
// descriptor fails with ErrNameConflict.
func (inst *Instance) AddParam(name string, p *Param) error {
	if p == nil {
		return fmt.Errorf("params: descriptor for %q must not be nil", name)
	}
	if existing, ok := inst.lookup(name); ok {
		if existing == p {
			return nil
		}
		return fmt.Errorf("%w: %q already declared on %s", ErrNameConflict, name, inst.name)
	}
	if err := p.describe(name, inst.name); err != nil {
		return err
	}
	inst.local.set(name, p, inst.name)
	inst.storage[p.StorageKey()] = clone.Value(p.Default)
	inst.logger().Debug("added instance-local parameter", map[string]any{
		"instance": inst.name, "param": name,
	})
	inst.emit(activity.BuildParamAddedEvent(activity.ParamEventInput{
		ActorID:  inst.cfg.actorID,
		Spec:     inst.spec.name,
		Instance: inst.name,
		Param:    name,
		NewValue: p.Default,
	}))
	return nil
}

// Names returns every reachable parameter name, class registry first, in
// registry order.
func (inst *Instance) Names() []string {
	names := inst.spec.registry.Names()
	return append(names, inst.local.Names()...)
}

// Items returns every reachable descriptor in display order.
func (inst *Instance) Items() []NamedParam {
	names := inst.Names()
	out := make([]NamedParam, 0, len(names))
	for _, name := range names {
		p, _ := inst.lookup(name)
		out = append(out, NamedParam{Name: name, Param: p})
	}
	return out
}

// Defaults returns the declared default for every reachable descriptor.
func (inst *Instance) Defaults() []NamedValue {
	names := inst.Names()
	out := make([]NamedValue, 0, len(names))
	for _, name := range names {
		p, _ := inst.lookup(name)
		out = append(out, NamedValue{Name: name, Value: p.Default})
	}
	return out
}

// CurrentValues returns a deep copy of every reachable current value.
func (inst *Instance) CurrentValues() Values {
	out := make(Values, len(inst.storage))
	for _, name := range inst.Names() {
		p, _ := inst.lookup(name)
		value, _ := p.ReadValue(inst)
		out[name] = clone.Value(value)
	}
	return out
}

// Update writes each value through the normal validation path.
func (inst *Instance) Update(values Values) error {
	var errs []error
	for _, name := range inst.Names() {
		value, ok := values[name]
		if !ok {
			continue
		}
		if err := inst.set(name, value); err != nil {
			errs = append(errs, err)
		}
	}
	for key := range values {
		if !inst.Has(key) {
			errs = append(errs, fmt.Errorf("%w: %q on %s", ErrUnknownParameter, key, inst.name))
		}
	}
	return errors.Join(errs...)
}

// Reset rewrites every current value back to its declared default. Each
// write goes through the same validation path as Set, so constant
// parameters reject reset after initialization.
func (inst *Instance) Reset() error {
	var errs []error
	for _, name := range inst.Names() {
		p, _ := inst.lookup(name)
		if err := inst.set(name, clone.Value(p.Default)); err != nil {
			errs = append(errs, err)
		}
	}
	inst.emit(activity.BuildInstanceResetEvent(activity.ParamEventInput{
		ActorID:  inst.cfg.actorID,
		Spec:     inst.spec.name,
		Instance: inst.name,
	}))
	return errors.Join(errs...)
}

// Copy builds a new instance seeded with this instance's current values,
// overridden by overrides. Instance-local descriptors are cloned onto the
// copy.
func (inst *Instance) Copy(overrides Values) (*Instance, error) {
	current := inst.CurrentValues()
	localValues := make(Values, inst.local.Len())
	for _, name := range inst.local.Names() {
		if value, ok := current[name]; ok {
			localValues[name] = value
		}
		delete(current, name)
	}
	merged := clone.MergeValues(map[string]any(overrides), map[string]any(current))
	for _, name := range inst.local.Names() {
		if value, ok := merged[name]; ok {
			localValues[name] = value
			delete(merged, name)
		}
	}

	out, err := inst.spec.build(Values(merged), inst.cfg)
	if err != nil {
		return nil, err
	}
	for _, name := range inst.local.Names() {
		p, _ := inst.local.Get(name)
		if err := out.AddParam(name, p.Clone()); err != nil {
			return nil, err
		}
		if value, ok := localValues[name]; ok {
			if err := out.set(name, value); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func (inst *Instance) logger() Logger {
	if inst.cfg.logger != nil {
		return inst.cfg.logger
	}
	return noopLogger{}
}

func (inst *Instance) ruleLogger() RuleLogger {
	if inst.cfg.ruleLogger != nil {
		return inst.cfg.ruleLogger
	}
	return noopRuleLogger{}
}

func (inst *Instance) emit(event activity.Event) {
	if inst.emitter == nil || !inst.emitter.Enabled() {
		return
	}
	if err := inst.emitter.Emit(context.Background(), event); err != nil {
		inst.logger().Warn("activity hook failed", map[string]any{
			"instance": inst.name,
			"verb":     event.Verb,
			"error":    err.Error(),
		})
	}
}

// String renders the instance with its current values in display order.
func (inst *Instance) String() string {
	out := inst.name + "("
	for i, name := range inst.Names() {
		if i > 0 {
			out += ", "
		}
		value, _ := inst.Get(name)
		out += fmt.Sprintf("%s=%v", name, value)
	}
	return out + ")"
}
