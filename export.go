package params

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-params/internal/clone"
	"github.com/goliatone/go-params/internal/hydrate"
)

// ClassKey is the reserved export key carrying the spec label. It is never
// a parameter name; constructors treat it as a class tag and skip it.
const ClassKey = "_spec_class"

// ToMap exports every reachable current value plus the class tag, recursing
// into nested instances.
func (inst *Instance) ToMap() map[string]any {
	out := make(map[string]any, inst.spec.registry.Len()+inst.local.Len()+1)
	for _, name := range inst.Names() {
		value, _ := inst.Get(name)
		if nested, ok := value.(*Instance); ok && nested != nil {
			out[name] = nested.ToMap()
			continue
		}
		out[name] = clone.Value(value)
	}
	out[ClassKey] = inst.spec.name
	return out
}

// OrderedItems exports current values in registry order without the class
// tag.
func (inst *Instance) OrderedItems() []NamedValue {
	names := inst.Names()
	out := make([]NamedValue, 0, len(names))
	for _, name := range names {
		value, _ := inst.Get(name)
		out = append(out, NamedValue{Name: name, Value: clone.Value(value)})
	}
	return out
}

// ToJSON renders the exported value map as JSON.
func (inst *Instance) ToJSON() ([]byte, error) {
	data, err := json.Marshal(inst.ToMap())
	if err != nil {
		return nil, fmt.Errorf("params: marshal %s: %w", inst.name, err)
	}
	return data, nil
}

// BuildFromJSON constructs an instance from a JSON object produced by
// ToJSON. A class tag naming a different spec is diagnosed, not fatal,
// unless BuildStrictKeys is set and the payload carries unknown keys.
func (s *Spec) BuildFromJSON(data []byte, opts ...BuildOption) (*Instance, error) {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("params: unmarshal for spec %q: %w", s.name, err)
	}
	return s.Build(Values(payload), opts...)
}

// DecodeValues hydrates the instance's exported values into a typed struct
// using JSON field mapping. The class tag is stripped before decoding.
func DecodeValues[T any](inst *Instance) (T, error) {
	payload := inst.ToMap()
	delete(payload, ClassKey)
	decoder := hydrate.NewDecoder[T]()
	return decoder.Decode(hydrate.Context{
		Spec:     inst.Klass(),
		Instance: inst.Name(),
	}, payload)
}
