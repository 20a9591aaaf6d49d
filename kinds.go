package params

// Kind identifies the descriptor variant. Variants are a closed set so call
// sites can switch on behaviour instead of probing for optional fields.
type Kind int

const (
	// KindValue is the base variant carrying only default/units/doc/constant.
	KindValue Kind = iota
	// KindTyped adds an expected runtime type used for diagnostics.
	KindTyped
	// KindRange adds advisory lower/upper bounds.
	KindRange
	// KindSlider adds a step size on top of a range, for slider widgets.
	KindSlider
	// KindLogSlider marks a slider whose value is the base-10 exponent of the
	// underlying quantity. Purely a semantic tag for display collaborators.
	KindLogSlider
	// KindCheckbox marks a boolean parameter intended for toggle widgets.
	KindCheckbox
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindTyped:
		return "typed"
	case KindRange:
		return "range"
	case KindSlider:
		return "slider"
	case KindLogSlider:
		return "logslider"
	case KindCheckbox:
		return "checkbox"
	default:
		return "unknown"
	}
}

// WidgetKind names the control type a display collaborator should build for
// a parameter. Empty means the parameter has no widget association.
type WidgetKind string

const (
	WidgetNone      WidgetKind = ""
	WidgetSlider    WidgetKind = "slider"
	WidgetLogSlider WidgetKind = "logslider"
	WidgetCheckbox  WidgetKind = "checkbox"
)

// NewParam constructs a base descriptor with the supplied default value.
func NewParam(def any, opts ...ParamOption) *Param {
	p := &Param{kind: KindValue, Default: def}
	applyParamOptions(p, opts)
	return p
}

// NewTyped constructs a descriptor whose value type can be checked against
// dtype (an exact runtime type name, e.g. "float64").
func NewTyped(def any, dtype string, opts ...ParamOption) *Param {
	p := &Param{kind: KindTyped, Default: def, Dtype: dtype}
	applyParamOptions(p, opts)
	return p
}

// NewRange constructs a descriptor with advisory [start, end] bounds.
func NewRange(def any, start, end float64, opts ...ParamOption) *Param {
	p := &Param{kind: KindRange, Default: def, Start: ptr(start), End: ptr(end)}
	applyParamOptions(p, opts)
	return p
}

// NewSlider constructs a stepped-range descriptor bound to a slider widget.
func NewSlider(def any, start, end, step float64, opts ...ParamOption) *Param {
	p := &Param{
		kind:    KindSlider,
		Default: def,
		Start:   ptr(start),
		End:     ptr(end),
		Step:    ptr(step),
		Widget:  WidgetSlider,
	}
	applyParamOptions(p, opts)
	return p
}

// NewLogSlider constructs a slider descriptor whose value represents the
// base-10 exponent of the underlying quantity.
func NewLogSlider(def any, start, end, step float64, opts ...ParamOption) *Param {
	p := NewSlider(def, start, end, step, opts...)
	p.kind = KindLogSlider
	p.Widget = WidgetLogSlider
	return p
}

// NewCheckbox constructs a boolean descriptor bound to a checkbox widget.
func NewCheckbox(def bool, opts ...ParamOption) *Param {
	p := &Param{kind: KindCheckbox, Default: def, Widget: WidgetCheckbox}
	applyParamOptions(p, opts)
	return p
}

// ParamOption configures optional descriptor metadata at construction.
type ParamOption func(*Param)

// WithUnits sets the physical units annotation.
func WithUnits(units string) ParamOption {
	return func(p *Param) { p.Units = units }
}

// WithDoc sets the descriptor docstring.
func WithDoc(doc string) ParamOption {
	return func(p *Param) { p.Doc = doc }
}

// WithConstant marks the parameter writable only before an instance
// finishes construction.
func WithConstant() ParamOption {
	return func(p *Param) { p.Constant = true }
}

// WithRule attaches a constraint expression evaluated on every write. The
// expression sees `value`, `old`, bound metadata, and the instance snapshot.
func WithRule(rule string) ParamOption {
	return func(p *Param) { p.Rule = rule }
}

// WithWidget overrides the widget association.
func WithWidget(kind WidgetKind) ParamOption {
	return func(p *Param) { p.Widget = kind }
}

func applyParamOptions(p *Param, opts []ParamOption) {
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
}

func ptr(v float64) *float64 { return &v }
