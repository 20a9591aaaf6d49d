// Package state defines persistence-facing contracts for loading and saving
// named value presets for a parameter spec, plus a small resolver that
// orchestrates preset loading and delegates merging and validation to the
// core params primitives.
//
// Responsibilities:
//   - Store only loads/saves a single Values snapshot for a single Ref.
//   - Resolver loads presets in precedence order, merges them later-wins,
//     and builds a validated instance through the spec.
//   - The core params package remains persistence-agnostic; all persistence
//     logic stays behind Store implementations supplied by consumers.
//
// Data flow:
//
//	Store -> Resolver -> spec.Build(mergedValues) -> *params.Instance
//
// Deterministic keys:
//
//	Ref.Identifier() provides a canonical storage key of the form
//	"<spec>/<preset>", so adapters backed by key-value stores need no extra
//	key derivation.
package state
