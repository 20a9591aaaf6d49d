package params

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/goliatone/go-params/internal/clone"
)

// Param is the metadata record for one named parameter: default value,
// bounds, docs, constancy, and the storage key under which instances hold
// the current value. A descriptor has exactly one owner (a spec or an
// instance) at any time; inheriting it into a new owner requires Clone.
type Param struct {
	kind       Kind
	name       string
	storageKey string
	hookKey    string
	owner      string

	// Default is the value materialized into instance storage at
	// construction. It is deep-copied on every materialization and never
	// aliased into storage.
	Default any
	// Units annotates the physical units of the value.
	Units string
	// Doc documents the parameter for display collaborators.
	Doc string
	// Constant freezes the parameter once the owning instance initializes.
	Constant bool
	// Dtype names the exact runtime type expected by CheckType (KindTyped).
	Dtype string
	// Start and End bound the value for range-like variants. Nil means unset.
	Start *float64
	End   *float64
	// Step quantizes slider widgets. Metadata only, not enforced on writes.
	Step *float64
	// Widget names the control a display collaborator should build.
	Widget WidgetKind
	// Rule is an optional constraint expression checked on writes.
	Rule string
}

// Kind reports the descriptor variant.
func (p *Param) Kind() Kind { return p.kind }

// Name reports the public attribute name the descriptor is bound to, or ""
// before binding.
func (p *Param) Name() string { return p.name }

// Owner reports the label of the spec or instance holding this descriptor.
func (p *Param) Owner() string { return p.owner }

// StorageKey reports the internal key instances use to hold the current
// value. Derived deterministically from the name by describe.
func (p *Param) StorageKey() string { return p.storageKey }

// HookKey reports the conventional key change hooks register under.
func (p *Param) HookKey() string { return p.hookKey }

// describe binds the descriptor to a public name under the given owner.
// Binding is one-shot: a descriptor already bound to a different name by a
// different owner cannot be renamed.
func (p *Param) describe(name, owner string) error {
	if p.name != "" && p.name != name && p.owner != "" {
		return fmt.Errorf("%w: cannot rename %q (owned by %q) to %q",
			ErrNameConflict, p.name, p.owner, name)
	}
	p.name = name
	p.owner = owner
	p.storageKey = "_" + name + "_value"
	p.hookKey = "on_" + name + "_change"
	return nil
}

// Clone returns an independent descriptor with identical metadata and owner
// unset. Mutable metadata (the default, bound pointers) is deep-copied so
// the clone can migrate to a new owner without aliasing the original.
func (p *Param) Clone() *Param {
	out := &Param{
		kind:       p.kind,
		name:       p.name,
		storageKey: p.storageKey,
		hookKey:    p.hookKey,
		Default:    clone.Value(p.Default),
		Units:      p.Units,
		Doc:        p.Doc,
		Constant:   p.Constant,
		Dtype:      p.Dtype,
		Widget:     p.Widget,
		Rule:       p.Rule,
	}
	if p.Start != nil {
		out.Start = ptr(*p.Start)
	}
	if p.End != nil {
		out.End = ptr(*p.End)
	}
	if p.Step != nil {
		out.Step = ptr(*p.Step)
	}
	return out
}

// ReadValue returns the instance's stored value for this descriptor,
// falling back to the default when never set. With a nil instance it
// performs a class-level read of the default, failing with
// ErrMissingDefault when none is set.
func (p *Param) ReadValue(inst *Instance) (any, error) {
	if inst == nil {
		if p.Default == nil {
			return nil, fmt.Errorf("%w: %q", ErrMissingDefault, p.name)
		}
		return p.Default, nil
	}
	if value, ok := inst.storage[p.storageKey]; ok {
		return value, nil
	}
	return p.Default, nil
}

// CheckType reports whether value's runtime type matches Dtype exactly.
// Diagnostic only; writes are not gated on it.
func (p *Param) CheckType(value any) bool {
	if p.Dtype == "" {
		return true
	}
	if value == nil {
		return false
	}
	return reflect.TypeOf(value).String() == p.Dtype
}

// CheckRange reports whether value falls inside the declared bounds. Values
// that are not numeric pass vacuously.
func (p *Param) CheckRange(value any) bool {
	number, ok := asFloat(value)
	if !ok {
		return true
	}
	if p.Start != nil && number < *p.Start {
		return false
	}
	if p.End != nil && number > *p.End {
		return false
	}
	return true
}

// String renders the descriptor showing only set metadata fields.
func (p *Param) String() string {
	parts := make([]string, 0, 8)
	if p.Default != nil {
		parts = append(parts, fmt.Sprintf("default=%v", p.Default))
	}
	if p.Units != "" {
		parts = append(parts, fmt.Sprintf("units=%q", p.Units))
	}
	if p.Doc != "" {
		parts = append(parts, fmt.Sprintf("doc=%q", p.Doc))
	}
	if p.Constant {
		parts = append(parts, "constant")
	}
	if p.Dtype != "" {
		parts = append(parts, fmt.Sprintf("dtype=%s", p.Dtype))
	}
	if p.Start != nil {
		parts = append(parts, fmt.Sprintf("start=%v", *p.Start))
	}
	if p.End != nil {
		parts = append(parts, fmt.Sprintf("end=%v", *p.End))
	}
	if p.Step != nil {
		parts = append(parts, fmt.Sprintf("step=%v", *p.Step))
	}
	if p.Widget != WidgetNone {
		parts = append(parts, fmt.Sprintf("widget=%s", p.Widget))
	}
	if p.Rule != "" {
		parts = append(parts, fmt.Sprintf("rule=%q", p.Rule))
	}
	return fmt.Sprintf("Param<%s>(%s)", p.kind, strings.Join(parts, ", "))
}

// Pretty returns an aligned listing of all metadata fields, set or not.
func (p *Param) Pretty() string {
	fields := map[string]any{
		"name":     orUnset(p.name),
		"kind":     p.kind.String(),
		"owner":    orUnset(p.owner),
		"default":  p.Default,
		"units":    orUnset(p.Units),
		"doc":      orUnset(p.Doc),
		"constant": p.Constant,
		"dtype":    orUnset(p.Dtype),
		"start":    derefOrUnset(p.Start),
		"end":      derefOrUnset(p.End),
		"step":     derefOrUnset(p.Step),
		"widget":   orUnset(string(p.Widget)),
		"rule":     orUnset(p.Rule),
	}
	names := make([]string, 0, len(fields))
	width := 0
	for name := range fields {
		names = append(names, name)
		if len(name) > width {
			width = len(name)
		}
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "  - %-*s = %v\n", width, name, fields[name])
	}
	return b.String()
}

func orUnset(s string) any {
	if s == "" {
		return "<unset>"
	}
	return s
}

func derefOrUnset(f *float64) any {
	if f == nil {
		return "<unset>"
	}
	return *f
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
