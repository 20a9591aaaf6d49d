package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	params "github.com/goliatone/go-params"
	"github.com/goliatone/go-params/internal/clone"
)

var ErrETagMismatch = errors.New("state: etag mismatch")

// Ref identifies one persisted value preset for one spec.
type Ref struct {
	Spec   string
	Preset string
}

// Identifier returns the canonical storage key for the preset.
func (r Ref) Identifier() (string, error) {
	spec := strings.TrimSpace(r.Spec)
	preset := strings.TrimSpace(r.Preset)
	if spec == "" {
		return "", fmt.Errorf("state: spec is required")
	}
	if preset == "" {
		return "", fmt.Errorf("state: preset is required")
	}
	return spec + "/" + preset, nil
}

// Meta is storage-owned metadata used for audit and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads/saves one Values snapshot for a single preset reference.
type Store interface {
	Load(ctx context.Context, ref Ref) (snapshot params.Values, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, snapshot params.Values, meta Meta) (Meta, error)
}

// Mutator edits a loaded snapshot in place before it is validated and saved.
type Mutator func(params.Values) error

// Resolver orchestrates preset loads and merges them into one validated
// instance.
type Resolver struct {
	Store Store
}

// Resolve loads each named preset for spec, merges them with later presets
// taking precedence, and builds an instance from the merged values. Missing
// presets are skipped; at least one must exist.
func (r Resolver) Resolve(ctx context.Context, spec *params.Spec, presets []string, opts ...params.BuildOption) (*params.Instance, error) {
	if r.Store == nil {
		return nil, fmt.Errorf("state: store is required")
	}
	if spec == nil {
		return nil, fmt.Errorf("state: spec is required")
	}
	if len(presets) == 0 {
		return nil, fmt.Errorf("state: at least one preset is required")
	}

	merged := map[string]any{}
	found := 0
	for _, preset := range presets {
		snapshot, _, ok, err := r.Store.Load(ctx, Ref{Spec: spec.Name(), Preset: preset})
		if err != nil {
			return nil, fmt.Errorf("state: load %q for spec %q: %w", preset, spec.Name(), err)
		}
		if !ok {
			continue
		}
		found++
		merged = clone.MergeValues(map[string]any(snapshot), merged)
	}
	if found == 0 {
		return nil, fmt.Errorf("state: no presets found for spec %q", spec.Name())
	}
	return spec.Build(params.Values(merged), opts...)
}

// Mutate loads one preset, applies fn, validates the result by building an
// instance from it, then saves. The meta argument's ETag, when set, must
// match the stored one.
func (r Resolver) Mutate(ctx context.Context, spec *params.Spec, ref Ref, meta Meta, fn Mutator) (*params.Instance, Meta, error) {
	if r.Store == nil {
		return nil, Meta{}, fmt.Errorf("state: store is required")
	}
	if spec == nil {
		return nil, Meta{}, fmt.Errorf("state: spec is required")
	}
	if ref.Spec == "" {
		ref.Spec = spec.Name()
	}
	if fn == nil {
		return nil, Meta{}, fmt.Errorf("state: mutator is required")
	}

	snapshot, loadedMeta, ok, err := r.Store.Load(ctx, ref)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("state: load %q for spec %q: %w", ref.Preset, ref.Spec, err)
	}
	if !ok {
		snapshot = params.Values{}
		loadedMeta = Meta{}
	}
	if snapshot == nil {
		snapshot = params.Values{}
	}

	if meta.ETag != "" && loadedMeta.ETag != "" && meta.ETag != loadedMeta.ETag {
		return nil, loadedMeta, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, loadedMeta.ETag)
	}

	if err := fn(snapshot); err != nil {
		return nil, loadedMeta, err
	}

	instance, err := spec.Build(snapshot)
	if err != nil {
		return nil, loadedMeta, err
	}

	saveMeta := mergeMeta(loadedMeta, meta)
	if saveMeta.UpdatedAt.IsZero() {
		saveMeta.UpdatedAt = time.Now()
	}
	savedMeta, err := r.Store.Save(ctx, ref, snapshot, saveMeta)
	if err != nil {
		return nil, loadedMeta, fmt.Errorf("state: save %q for spec %q: %w", ref.Preset, ref.Spec, err)
	}
	return instance, savedMeta, nil
}

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.SnapshotID != "" {
		out.SnapshotID = override.SnapshotID
	}
	if override.ETag != "" {
		out.ETag = override.ETag
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}
