package params

import "github.com/goliatone/go-params/internal/clone"

// metaField abstracts one inheritable descriptor field so the resolver can
// fill unset fields generically. Constant is excluded: it defaults to false
// rather than an unset sentinel, matching descriptor construction.
type metaField struct {
	name  string
	unset func(*Param) bool
	read  func(*Param) (any, bool)
	write func(*Param, any)
}

var metaFields = []metaField{
	{
		name:  "default",
		unset: func(p *Param) bool { return p.Default == nil },
		read: func(p *Param) (any, bool) {
			if p.Default == nil {
				return nil, false
			}
			return p.Default, true
		},
		write: func(p *Param, v any) { p.Default = clone.Value(v) },
	},
	{
		name:  "units",
		unset: func(p *Param) bool { return p.Units == "" },
		read: func(p *Param) (any, bool) {
			if p.Units == "" {
				return nil, false
			}
			return p.Units, true
		},
		write: func(p *Param, v any) { p.Units = v.(string) },
	},
	{
		name:  "doc",
		unset: func(p *Param) bool { return p.Doc == "" },
		read: func(p *Param) (any, bool) {
			if p.Doc == "" {
				return nil, false
			}
			return p.Doc, true
		},
		write: func(p *Param, v any) { p.Doc = v.(string) },
	},
	{
		name:  "dtype",
		unset: func(p *Param) bool { return p.Dtype == "" },
		read: func(p *Param) (any, bool) {
			if p.Dtype == "" {
				return nil, false
			}
			return p.Dtype, true
		},
		write: func(p *Param, v any) { p.Dtype = v.(string) },
	},
	{
		name:  "start",
		unset: func(p *Param) bool { return p.Start == nil },
		read: func(p *Param) (any, bool) {
			if p.Start == nil {
				return nil, false
			}
			return *p.Start, true
		},
		write: func(p *Param, v any) { p.Start = ptr(v.(float64)) },
	},
	{
		name:  "end",
		unset: func(p *Param) bool { return p.End == nil },
		read: func(p *Param) (any, bool) {
			if p.End == nil {
				return nil, false
			}
			return *p.End, true
		},
		write: func(p *Param, v any) { p.End = ptr(v.(float64)) },
	},
	{
		name:  "step",
		unset: func(p *Param) bool { return p.Step == nil },
		read: func(p *Param) (any, bool) {
			if p.Step == nil {
				return nil, false
			}
			return *p.Step, true
		},
		write: func(p *Param, v any) { p.Step = ptr(v.(float64)) },
	},
	{
		name:  "widget",
		unset: func(p *Param) bool { return p.Widget == WidgetNone },
		read: func(p *Param) (any, bool) {
			if p.Widget == WidgetNone {
				return nil, false
			}
			return p.Widget, true
		},
		write: func(p *Param, v any) { p.Widget = v.(WidgetKind) },
	},
	{
		name:  "rule",
		unset: func(p *Param) bool { return p.Rule == "" },
		read: func(p *Param) (any, bool) {
			if p.Rule == "" {
				return nil, false
			}
			return p.Rule, true
		},
		write: func(p *Param, v any) { p.Rule = v.(string) },
	},
}

// resolveInheritance fills unset metadata fields of p from same-named
// descriptors declared on ancestors of spec. Ancestors are searched from
// most distant to nearest and the search continues past matches, so the
// value closest to spec wins. Returns provenance for every filled field.
func resolveInheritance(spec *Spec, name string, p *Param) Trace {
	trace := Trace{Name: name}
	ancestors := spec.ancestors()

	for _, field := range metaFields {
		if !field.unset(p) {
			continue
		}
		var (
			found  bool
			source string
			value  any
		)
		for _, ancestor := range ancestors {
			declared, ok := ancestor.declaredParam(name)
			if !ok {
				continue
			}
			if v, set := field.read(declared); set {
				found = true
				source = ancestor.name
				value = v
			}
		}
		if found {
			field.write(p, value)
			trace.Fields = append(trace.Fields, Provenance{
				Field:  field.name,
				Source: source,
				Value:  value,
			})
		}
	}
	return trace
}
