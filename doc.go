// Package params implements declarative, inheritable parameter
// specifications. A Spec declares named, typed, bounded parameters as
// descriptors; child specs inherit descriptors from their ancestors with
// unset metadata filled in from the nearest ancestor that provides it.
// Instances built from a spec materialize defaults into per-instance
// storage, validate writes, and dispatch change hooks to optional
// subscribers such as widget binders or activity sinks.
package params
