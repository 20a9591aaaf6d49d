package params

import "errors"

// Sentinel errors for spec declaration and instance mutation. Structural
// violations (name conflicts, missing defaults, constant writes) are always
// fatal; data-quality issues degrade to warnings through the configured
// Logger instead of surfacing here.
var (
	// ErrNameConflict indicates a descriptor was declared under a name that
	// is already bound to a different descriptor with a different owner.
	ErrNameConflict = errors.New("params: name already bound to another descriptor")

	// ErrMissingDefault indicates a class-level read of a descriptor that has
	// no default value.
	ErrMissingDefault = errors.New("params: no default value set")

	// ErrImmutableParameter indicates a write to a constant parameter after
	// the owning instance finished construction.
	ErrImmutableParameter = errors.New("params: cannot modify constant parameter")

	// ErrUnknownParameter indicates a read or write of a name absent from
	// every reachable registry.
	ErrUnknownParameter = errors.New("params: unknown parameter")

	// ErrOutOfRange indicates a value outside the declared bounds. Only
	// returned when strict bounds are enabled; the default policy logs a
	// warning and commits the value.
	ErrOutOfRange = errors.New("params: value outside declared bounds")

	// ErrRuleRejected indicates a constraint rule evaluated to false. Only
	// returned when strict rules are enabled.
	ErrRuleRejected = errors.New("params: constraint rule rejected value")

	// ErrClassMismatch indicates an imported mapping whose class tag does not
	// match the target spec. The default policy logs a warning and ignores
	// the tag; strict keys make the mismatch fatal.
	ErrClassMismatch = errors.New("params: serialized class tag does not match spec")

	// ErrInconsistentHierarchy indicates parent specs that cannot be
	// linearized into a single resolution order.
	ErrInconsistentHierarchy = errors.New("params: inconsistent spec hierarchy")
)
