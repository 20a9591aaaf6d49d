package params

import (
	"encoding/json"
	"fmt"
)

// FieldDescriptor describes one parameter for schema export: the descriptor
// metadata a form builder or documentation generator needs, without the
// descriptor object itself.
type FieldDescriptor struct {
	Name     string     `json:"name"`
	Kind     string     `json:"kind"`
	Type     string     `json:"type,omitempty"`
	Units    string     `json:"units,omitempty"`
	Doc      string     `json:"doc,omitempty"`
	Constant bool       `json:"constant,omitempty"`
	Start    *float64   `json:"start,omitempty"`
	End      *float64   `json:"end,omitempty"`
	Step     *float64   `json:"step,omitempty"`
	Widget   WidgetKind `json:"widget,omitempty"`
	Rule     string     `json:"rule,omitempty"`
	Default  any        `json:"default"`
	Owner    string     `json:"owner,omitempty"`
}

// Document is the schema rendering of a compiled spec.
type Document struct {
	Spec    string            `json:"spec"`
	Parents []string          `json:"parents,omitempty"`
	Fields  []FieldDescriptor `json:"fields"`
}

// Describe renders the spec's effective registry as a schema document,
// fields in registry order.
func Describe(s *Spec) Document {
	doc := Document{
		Spec:   s.Name(),
		Fields: make([]FieldDescriptor, 0, s.registry.Len()),
	}
	for _, parent := range s.Parents() {
		doc.Parents = append(doc.Parents, parent.Name())
	}
	for _, np := range s.Params() {
		doc.Fields = append(doc.Fields, describeField(np.Name, np.Param, s.registry))
	}
	return doc
}

// DescribeInstance renders the instance's reachable registry, class fields
// first, then instance-local ones.
func DescribeInstance(inst *Instance) Document {
	doc := Describe(inst.spec)
	for _, name := range inst.local.Names() {
		p, _ := inst.local.Get(name)
		doc.Fields = append(doc.Fields, describeField(name, p, inst.local))
	}
	return doc
}

func describeField(name string, p *Param, reg *Registry) FieldDescriptor {
	field := FieldDescriptor{
		Name:     name,
		Kind:     p.Kind().String(),
		Type:     p.Dtype,
		Units:    p.Units,
		Doc:      p.Doc,
		Constant: p.Constant,
		Start:    p.Start,
		End:      p.End,
		Step:     p.Step,
		Widget:   p.Widget,
		Rule:     p.Rule,
		Default:  p.Default,
	}
	if owner, ok := reg.OwnerOf(name); ok {
		field.Owner = owner
	}
	if field.Type == "" && p.Default != nil {
		field.Type = fmt.Sprintf("%T", p.Default)
	}
	return field
}

// JSON renders the document as a stable JSON object.
func (d Document) JSON() ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("params: marshal schema for %q: %w", d.Spec, err)
	}
	return data, nil
}
