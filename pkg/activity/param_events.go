package activity

import (
	"strings"
	"time"
)

// ParamEventInput describes the common fields for parameter lifecycle
// events.
type ParamEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	Spec       string
	Instance   string
	Param      string
	Channel    string
	Metadata   map[string]any
	OldValue   any
	NewValue   any
	OccurredAt time.Time
}

// BuildInstanceCreatedEvent constructs a normalized event for instance
// construction.
func BuildInstanceCreatedEvent(input ParamEventInput) Event {
	return buildParamEvent("params.instance.created", "instance", input)
}

// BuildInstanceResetEvent constructs a normalized event for a bulk reset.
func BuildInstanceResetEvent(input ParamEventInput) Event {
	return buildParamEvent("params.instance.reset", "instance", input)
}

// BuildParamChangedEvent constructs a normalized event for a committed
// parameter write.
func BuildParamChangedEvent(input ParamEventInput) Event {
	return buildParamEvent("params.param.changed", "param", input)
}

// BuildParamAddedEvent constructs a normalized event for an instance-local
// parameter addition.
func BuildParamAddedEvent(input ParamEventInput) Event {
	return buildParamEvent("params.param.added", "param", input)
}

func buildParamEvent(verb, objectType string, input ParamEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Spec != "" {
		metadata = ensureMetadata(metadata)
		metadata["spec"] = input.Spec
	}
	if input.Param != "" {
		metadata = ensureMetadata(metadata)
		metadata["param"] = input.Param
	}
	if input.OldValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["old_value"] = input.OldValue
	}
	if input.NewValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["new_value"] = input.NewValue
	}

	objectID := strings.TrimSpace(input.Instance)
	if objectType == "param" && input.Param != "" && objectID != "" {
		objectID = objectID + "/" + strings.TrimSpace(input.Param)
	}
	if objectID == "" {
		objectID = strings.TrimSpace(input.Param)
	}
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
