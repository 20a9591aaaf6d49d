package activity

import "testing"

func TestBuildParamChangedEvent(t *testing.T) {
	event := BuildParamChangedEvent(ParamEventInput{
		ActorID:  "actor-1",
		Spec:     "Model",
		Instance: "Model-1234",
		Param:    "alpha",
		OldValue: 1.0,
		NewValue: 2.0,
	})

	if event.Verb != "params.param.changed" {
		t.Fatalf("verb mismatch: %q", event.Verb)
	}
	if event.ObjectType != "param" || event.ObjectID != "Model-1234/alpha" {
		t.Fatalf("object mismatch: %q %q", event.ObjectType, event.ObjectID)
	}
	if event.Metadata["spec"] != "Model" || event.Metadata["param"] != "alpha" {
		t.Fatalf("metadata mismatch: %v", event.Metadata)
	}
	if event.Metadata["old_value"] != 1.0 || event.Metadata["new_value"] != 2.0 {
		t.Fatalf("value metadata mismatch: %v", event.Metadata)
	}
}

func TestBuildInstanceCreatedEvent(t *testing.T) {
	event := BuildInstanceCreatedEvent(ParamEventInput{
		Spec:     "Model",
		Instance: "Model-1234",
	})
	if event.Verb != "params.instance.created" {
		t.Fatalf("verb mismatch: %q", event.Verb)
	}
	if event.ObjectType != "instance" || event.ObjectID != "Model-1234" {
		t.Fatalf("object mismatch: %q %q", event.ObjectType, event.ObjectID)
	}
}

func TestBuildParamAddedEventFallsBackToParamID(t *testing.T) {
	event := BuildParamAddedEvent(ParamEventInput{Param: "gamma"})
	if event.ObjectID != "gamma" {
		t.Fatalf("expected param fallback object id, got %q", event.ObjectID)
	}
}

func TestBuildEventPreservesCallerMetadata(t *testing.T) {
	meta := map[string]any{"request_id": "r-1"}
	event := BuildInstanceResetEvent(ParamEventInput{
		Spec:     "Model",
		Instance: "Model-1234",
		Metadata: meta,
	})
	if event.Metadata["request_id"] != "r-1" || event.Metadata["spec"] != "Model" {
		t.Fatalf("metadata mismatch: %v", event.Metadata)
	}
	meta["request_id"] = "mutated"
	if event.Metadata["request_id"] != "r-1" {
		t.Fatal("caller metadata must be cloned")
	}
}
