package params

import (
	"fmt"

	"github.com/goliatone/go-params/internal/clone"
	"github.com/goliatone/go-params/pkg/activity"
)

// Spec is a compiled parameter specification: an immutable-by-convention
// registry built once when the spec is defined, merging the registries of
// all ancestor specs with the spec's own declarations. Instances are built
// from a Spec and read it for validation; they never write back into it.
type Spec struct {
	name     string
	parents  []*Spec
	mro      []*Spec // derived-first linearization, self included
	registry *Registry
	traces   map[string]Trace
	cfg      specConfig
}

type specConfig struct {
	logger       Logger
	evaluator    Evaluator
	programCache ProgramCache
	functions    *FunctionRegistry
	hooks        activity.Hooks
}

// SpecOption configures a spec definition.
type SpecOption func(*specBuilder)

type specBuilder struct {
	parents []*Spec
	decls   []declaration
	cfg     specConfig
}

// declaration records one name declared in the spec body, either as a
// descriptor object or as a plain default-value override.
type declaration struct {
	name  string
	param *Param
	value any
	plain bool
}

// Extend lists the parent specs this spec inherits descriptors from.
func Extend(parents ...*Spec) SpecOption {
	return func(b *specBuilder) {
		for _, parent := range parents {
			if parent != nil {
				b.parents = append(b.parents, parent)
			}
		}
	}
}

// Declare adds a descriptor declaration to the spec body.
func Declare(name string, p *Param) SpecOption {
	return func(b *specBuilder) {
		if p != nil {
			b.decls = append(b.decls, declaration{name: name, param: p})
		}
	}
}

// DeclareValue re-declares an inherited name with a plain value: the
// nearest ancestor's descriptor is cloned with its metadata intact and the
// clone's default replaced, so a child spec can override just a default
// while keeping bounds, units, and docs. A name with no ancestor descriptor
// gets a fresh base descriptor whose default is the value.
func DeclareValue(name string, value any) SpecOption {
	return func(b *specBuilder) {
		b.decls = append(b.decls, declaration{name: name, value: value, plain: true})
	}
}

// WithLogger attaches a diagnostics logger to the spec and, by default, to
// instances built from it.
func WithLogger(logger Logger) SpecOption {
	return func(b *specBuilder) {
		if logger == nil {
			b.cfg.logger = noopLogger{}
			return
		}
		b.cfg.logger = logger
	}
}

// WithEvaluator configures the rule engine used to check descriptor
// constraint expressions on writes.
func WithEvaluator(e Evaluator) SpecOption {
	return func(b *specBuilder) { b.cfg.evaluator = e }
}

// WithProgramCache registers a compiled-program cache shared by the default
// rule evaluator.
func WithProgramCache(cache ProgramCache) SpecOption {
	return func(b *specBuilder) { b.cfg.programCache = cache }
}

// WithRuleFunctions registers custom functions available to constraint
// rules. The registry is cloned to keep the spec self-contained.
func WithRuleFunctions(registry *FunctionRegistry) SpecOption {
	return func(b *specBuilder) {
		if registry == nil {
			return
		}
		b.cfg.functions = registry.Clone()
	}
}

// WithActivityHooks attaches change-event hooks inherited by every instance
// built from this spec. Hooks are cloned and nil entries dropped.
func WithActivityHooks(hooks activity.Hooks) SpecOption {
	normalized := cloneActivityHooks(hooks)
	return func(b *specBuilder) { b.cfg.hooks = normalized }
}

// New compiles a spec definition. Registry construction happens here, once,
// as a non-reentrant setup step: ancestors are linearized, their
// declarations merged most-derived-wins, plain-value overrides cloned, and
// the spec's own descriptors bound and resolved against the ancestry.
func New(name string, opts ...SpecOption) (*Spec, error) {
	if name == "" {
		return nil, fmt.Errorf("params: spec name must not be empty")
	}
	builder := specBuilder{}
	for _, opt := range opts {
		if opt != nil {
			opt(&builder)
		}
	}

	spec := &Spec{
		name:     name,
		parents:  builder.parents,
		registry: newRegistry(),
		traces:   make(map[string]Trace),
		cfg:      builder.cfg,
	}
	mro, err := linearize(spec, builder.parents)
	if err != nil {
		return nil, err
	}
	spec.mro = mro

	ownDescriptors := make(map[string]bool, len(builder.decls))
	plainOverrides := make(map[string]bool, len(builder.decls))
	for _, decl := range builder.decls {
		if decl.plain {
			plainOverrides[decl.name] = true
		} else {
			ownDescriptors[decl.name] = true
		}
	}

	// Seed from ancestors, root-most first so the most derived declaration
	// wins on conflict. Names the spec body does not touch share the
	// ancestor's descriptor object by reference.
	plainBase := make(map[string]*Param)
	for _, ancestor := range spec.ancestors() {
		for _, pname := range ancestor.registry.Names() {
			declared, ok := ancestor.declaredParam(pname)
			if !ok {
				continue
			}
			switch {
			case ownDescriptors[pname]:
				// Processed below once the declaration is bound.
			case plainOverrides[pname]:
				plainBase[pname] = declared
			default:
				spec.registry.set(pname, declared, ancestor.name)
			}
		}
	}

	for _, decl := range builder.decls {
		if decl.plain {
			base := plainBase[decl.name]
			var override *Param
			if base != nil {
				override = base.Clone()
			} else {
				override = NewParam(nil)
			}
			if err := override.describe(decl.name, spec.name); err != nil {
				return nil, err
			}
			override.Default = clone.Value(decl.value)
			spec.registry.set(decl.name, override, spec.name)
			continue
		}
		if err := decl.param.describe(decl.name, spec.name); err != nil {
			return nil, err
		}
		spec.traces[decl.name] = resolveInheritance(spec, decl.name, decl.param)
		spec.registry.set(decl.name, decl.param, spec.name)
	}

	spec.logger().Debug("compiled spec registry", map[string]any{
		"spec":   spec.name,
		"params": spec.registry.Len(),
	})
	return spec, nil
}

// MustNew is New, panicking on definition errors. Spec definitions are
// program structure; a failure here is a programming error.
func MustNew(name string, opts ...SpecOption) *Spec {
	spec, err := New(name, opts...)
	if err != nil {
		panic(err)
	}
	return spec
}

// Name returns the spec's class label.
func (s *Spec) Name() string { return s.name }

// Parents returns the direct parent specs.
func (s *Spec) Parents() []*Spec {
	out := make([]*Spec, len(s.parents))
	copy(out, s.parents)
	return out
}

// Param returns the descriptor governing name, class registry only.
func (s *Spec) Param(name string) (*Param, bool) {
	return s.registry.Get(name)
}

// NamedParam pairs a parameter name with its governing descriptor.
type NamedParam struct {
	Name  string
	Param *Param
}

// Params returns every reachable descriptor in registry order.
func (s *Spec) Params() []NamedParam {
	out := make([]NamedParam, 0, s.registry.Len())
	for _, name := range s.registry.Names() {
		p, _ := s.registry.Get(name)
		out = append(out, NamedParam{Name: name, Param: p})
	}
	return out
}

// Has reports whether name resolves through the class registry.
func (s *Spec) Has(name string) bool { return s.registry.Has(name) }

// Default performs a class-level read of name's default value.
func (s *Spec) Default(name string) (any, error) {
	p, ok := s.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q on spec %q", ErrUnknownParameter, name, s.name)
	}
	return p.ReadValue(nil)
}

// SetDefault rebinds name's default after spec compilation. Writing through
// a descriptor the spec does not own first clones it (copy-on-override), so
// sibling specs sharing the ancestor descriptor are never perturbed.
func (s *Spec) SetDefault(name string, value any) error {
	entry, ok := s.registry.entries[name]
	if !ok {
		return fmt.Errorf("%w: %q on spec %q", ErrUnknownParameter, name, s.name)
	}
	if entry.owner != s.name {
		override := entry.param.Clone()
		if err := override.describe(name, s.name); err != nil {
			return err
		}
		override.Default = clone.Value(value)
		s.registry.set(name, override, s.name)
		s.logger().Debug("cloned inherited descriptor for default override", map[string]any{
			"spec": s.name, "param": name, "from": entry.owner,
		})
		return nil
	}
	entry.param.Default = clone.Value(value)
	return nil
}

// SetParam replaces name's registry entry with a new descriptor and re-runs
// the inheritance resolver against it.
func (s *Spec) SetParam(name string, p *Param) error {
	if p == nil {
		return fmt.Errorf("params: descriptor for %q must not be nil", name)
	}
	if err := p.describe(name, s.name); err != nil {
		return err
	}
	s.traces[name] = resolveInheritance(s, name, p)
	s.registry.set(name, p, s.name)
	return nil
}

// Trace returns the resolution provenance recorded for name when the spec
// was compiled.
func (s *Spec) Trace(name string) (Trace, bool) {
	trace, ok := s.traces[name]
	return trace, ok
}

// ancestors returns the linearized ancestry root-most first, excluding the
// spec itself.
func (s *Spec) ancestors() []*Spec {
	if len(s.mro) <= 1 {
		return nil
	}
	out := make([]*Spec, 0, len(s.mro)-1)
	for i := len(s.mro) - 1; i >= 1; i-- {
		out = append(out, s.mro[i])
	}
	return out
}

// declaredParam returns the descriptor only if this spec itself owns it.
func (s *Spec) declaredParam(name string) (*Param, bool) {
	entry, ok := s.registry.entries[name]
	if !ok || entry.owner != s.name {
		return nil, false
	}
	return entry.param, true
}

func (s *Spec) logger() Logger {
	if s.cfg.logger != nil {
		return s.cfg.logger
	}
	return noopLogger{}
}

// linearize computes the C3 linearization (derived-first, self included) of
// spec over its parents.
func linearize(spec *Spec, parents []*Spec) ([]*Spec, error) {
	result := []*Spec{spec}
	if len(parents) == 0 {
		return result, nil
	}

	sequences := make([][]*Spec, 0, len(parents)+1)
	for _, parent := range parents {
		seq := make([]*Spec, len(parent.mro))
		copy(seq, parent.mro)
		sequences = append(sequences, seq)
	}
	order := make([]*Spec, len(parents))
	copy(order, parents)
	sequences = append(sequences, order)

	for {
		sequences = pruneEmpty(sequences)
		if len(sequences) == 0 {
			return result, nil
		}
		candidate := pickHead(sequences)
		if candidate == nil {
			return nil, fmt.Errorf("%w: cannot order parents of %q",
				ErrInconsistentHierarchy, spec.name)
		}
		result = append(result, candidate)
		for i := range sequences {
			if len(sequences[i]) > 0 && sequences[i][0] == candidate {
				sequences[i] = sequences[i][1:]
			}
		}
	}
}

// pickHead returns the first sequence head that appears in no other
// sequence's tail, nil when the hierarchy is inconsistent.
func pickHead(sequences [][]*Spec) *Spec {
	for _, seq := range sequences {
		head := seq[0]
		if inAnyTail(head, sequences) {
			continue
		}
		return head
	}
	return nil
}

func inAnyTail(candidate *Spec, sequences [][]*Spec) bool {
	for _, seq := range sequences {
		for _, other := range seq[1:] {
			if other == candidate {
				return true
			}
		}
	}
	return false
}

func pruneEmpty(sequences [][]*Spec) [][]*Spec {
	out := sequences[:0]
	for _, seq := range sequences {
		if len(seq) > 0 {
			out = append(out, seq)
		}
	}
	return out
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.Hook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}
