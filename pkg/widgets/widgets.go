// Package widgets mirrors parameter values into UI controls. The core engine
// knows nothing about display; this package observes an instance through its
// change hooks and pushes committed values into controls built by a caller
// supplied factory, while control edits flow back through the normal
// validated write path.
package widgets

import (
	"errors"
	"fmt"

	params "github.com/goliatone/go-params"
)

// Control is one UI control bound to a parameter. SetValue pushes a
// committed parameter value into the control; OnEdit registers the callback
// invoked when the user edits the control.
type Control interface {
	SetValue(value any) error
	OnEdit(func(value any))
	Close() error
}

// Config describes the control a parameter wants built.
type Config struct {
	Name  string
	Kind  params.WidgetKind
	Value any
	Start *float64
	End   *float64
	Step  *float64
	Units string
	Doc   string
}

// Factory builds controls from configs. Returning a nil control skips the
// parameter without error.
type Factory interface {
	Build(cfg Config) (Control, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(cfg Config) (Control, error)

func (f FactoryFunc) Build(cfg Config) (Control, error) { return f(cfg) }

// Binder wires an instance's widget-bearing parameters to controls in both
// directions. Echo loops between the two directions terminate because a
// write of an equal value is a no-op that dispatches no hooks.
type Binder struct {
	factory  Factory
	bindings []binding
}

type binding struct {
	name        string
	control     Control
	unsubscribe params.Unsubscribe
}

// NewBinder constructs a binder over factory.
func NewBinder(factory Factory) *Binder {
	return &Binder{factory: factory}
}

// Bind builds a control for every parameter with a widget association and
// wires both directions. A factory failure unwinds controls already built.
func (b *Binder) Bind(inst *params.Instance) error {
	if b.factory == nil {
		return fmt.Errorf("widgets: factory is required")
	}
	if inst == nil {
		return fmt.Errorf("widgets: instance is required")
	}

	for _, item := range inst.Items() {
		p := item.Param
		if p.Widget == params.WidgetNone {
			continue
		}
		value, err := inst.Get(item.Name)
		if err != nil {
			b.unwind()
			return err
		}
		control, err := b.factory.Build(Config{
			Name:  item.Name,
			Kind:  p.Widget,
			Value: value,
			Start: p.Start,
			End:   p.End,
			Step:  p.Step,
			Units: p.Units,
			Doc:   p.Doc,
		})
		if err != nil {
			b.unwind()
			return fmt.Errorf("widgets: build control for %q: %w", item.Name, err)
		}
		if control == nil {
			continue
		}

		name := item.Name
		control.OnEdit(func(value any) {
			// Rejections surface through the instance's logger; a control
			// edit has no error channel of its own.
			_ = inst.Set(name, value)
		})
		unsubscribe, err := inst.OnChange(name, func(_ *params.Param, _, newValue any) {
			_ = control.SetValue(newValue)
		})
		if err != nil {
			_ = control.Close()
			b.unwind()
			return err
		}
		b.bindings = append(b.bindings, binding{
			name:        name,
			control:     control,
			unsubscribe: unsubscribe,
		})
	}
	return nil
}

// Controls returns the bound controls keyed by parameter name.
func (b *Binder) Controls() map[string]Control {
	out := make(map[string]Control, len(b.bindings))
	for _, bound := range b.bindings {
		out[bound.name] = bound.control
	}
	return out
}

// Unlink severs every subscription and closes every control. Parameter
// values are untouched.
func (b *Binder) Unlink() error {
	var errs []error
	for _, bound := range b.bindings {
		if bound.unsubscribe != nil {
			bound.unsubscribe()
		}
		if err := bound.control.Close(); err != nil {
			errs = append(errs, fmt.Errorf("widgets: close control for %q: %w", bound.name, err))
		}
	}
	b.bindings = nil
	return errors.Join(errs...)
}

func (b *Binder) unwind() {
	for _, bound := range b.bindings {
		if bound.unsubscribe != nil {
			bound.unsubscribe()
		}
		_ = bound.control.Close()
	}
	b.bindings = nil
}
