package hydrate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	Alpha float64 `json:"alpha"`
	Label string  `json:"label"`
}

func TestDecodeBasic(t *testing.T) {
	decoder := NewDecoder[sampleConfig]()
	result, err := decoder.Decode(Context{Spec: "Model"}, map[string]any{
		"alpha": 2.5,
		"label": "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, 2.5, result.Alpha)
	assert.Equal(t, "hello", result.Label)
}

func TestDecodeNilPayloadFails(t *testing.T) {
	decoder := NewDecoder[sampleConfig]()
	_, err := decoder.Decode(Context{Spec: "Model"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Model")
}

func TestPreHookMutatesPayload(t *testing.T) {
	decoder := NewDecoder[sampleConfig](
		WithPreHook[sampleConfig](func(_ Context, payload map[string]any) (map[string]any, error) {
			payload["label"] = "rewritten"
			return payload, nil
		}),
	)
	result, err := decoder.Decode(Context{Spec: "Model"}, map[string]any{"label": "original"})
	require.NoError(t, err)
	assert.Equal(t, "rewritten", result.Label)
}

func TestPreHookDoesNotMutateCallerPayload(t *testing.T) {
	payload := map[string]any{"label": "original"}
	decoder := NewDecoder[sampleConfig](
		WithPreHook[sampleConfig](func(_ Context, current map[string]any) (map[string]any, error) {
			current["label"] = "rewritten"
			return current, nil
		}),
	)
	_, err := decoder.Decode(Context{Spec: "Model"}, payload)
	require.NoError(t, err)
	assert.Equal(t, "original", payload["label"])
}

func TestPostHookValidates(t *testing.T) {
	decoder := NewDecoder[sampleConfig](
		WithPostHook[sampleConfig](func(ctx Context, result *sampleConfig) error {
			if result.Alpha < 0 {
				return fmt.Errorf("alpha must be non-negative for %s", ctx.Spec)
			}
			return nil
		}),
	)
	_, err := decoder.Decode(Context{Spec: "Model"}, map[string]any{"alpha": -1.0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "post-hook")
}

func TestDisallowUnknownFields(t *testing.T) {
	decoder := NewDecoder[sampleConfig](WithDisallowUnknownFields[sampleConfig]())
	_, err := decoder.Decode(Context{Spec: "Model"}, map[string]any{"mystery": 1})
	require.Error(t, err)
}

func TestCustomDecoderReplacesJSONPath(t *testing.T) {
	decoder := NewDecoder[sampleConfig](
		WithCustomDecoder[sampleConfig](func(_ Context, payload map[string]any) (sampleConfig, error) {
			return sampleConfig{Label: fmt.Sprintf("custom:%v", payload["label"])}, nil
		}),
	)
	result, err := decoder.Decode(Context{Spec: "Model"}, map[string]any{"label": "x"})
	require.NoError(t, err)
	assert.Equal(t, "custom:x", result.Label)
}
