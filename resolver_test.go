package params

import "testing"

func TestResolverFillsUnsetMetadata(t *testing.T) {
	parent := MustNew("Parent",
		Declare("freq", NewRange(1.0, 0, 100, WithUnits("Hz"), WithDoc("carrier frequency"))),
	)
	child := MustNew("Child", Extend(parent),
		Declare("freq", NewParam(5.0)),
	)

	p, _ := child.Param("freq")
	if p.Default != 5.0 {
		t.Fatalf("declared default must not be overwritten, got %v", p.Default)
	}
	if p.Units != "Hz" || p.Doc != "carrier frequency" {
		t.Fatalf("unset metadata not filled: units=%q doc=%q", p.Units, p.Doc)
	}
	if p.Start == nil || p.End == nil || *p.Start != 0 || *p.End != 100 {
		t.Fatalf("bounds not filled: %+v", p)
	}
}

func TestResolverNearestAncestorWins(t *testing.T) {
	grand := MustNew("Grand",
		Declare("freq", NewParam(1.0, WithUnits("Hz"), WithDoc("from grand"))),
	)
	parent := MustNew("Parent", Extend(grand),
		Declare("freq", NewParam(2.0, WithUnits("kHz"))),
	)
	child := MustNew("Child", Extend(parent),
		Declare("freq", NewParam(3.0)),
	)

	p, _ := child.Param("freq")
	if p.Units != "kHz" {
		t.Fatalf("expected nearest ancestor units, got %q", p.Units)
	}
	if p.Doc != "from grand" {
		t.Fatalf("doc only set on grand should fill from grand, got %q", p.Doc)
	}
}

func TestResolverSetFieldsAreLeftAlone(t *testing.T) {
	parent := MustNew("Parent",
		Declare("freq", NewParam(1.0, WithUnits("Hz"))),
	)
	child := MustNew("Child", Extend(parent),
		Declare("freq", NewParam(2.0, WithUnits("MHz"))),
	)

	p, _ := child.Param("freq")
	if p.Units != "MHz" {
		t.Fatalf("explicitly set units must win, got %q", p.Units)
	}
}

func TestResolverRecordsProvenance(t *testing.T) {
	parent := MustNew("Parent",
		Declare("freq", NewParam(1.0, WithUnits("Hz"))),
	)
	child := MustNew("Child", Extend(parent),
		Declare("freq", NewParam(2.0)),
	)

	trace, ok := child.Trace("freq")
	if !ok {
		t.Fatal("expected a trace for freq")
	}
	if trace.Name != "freq" {
		t.Fatalf("trace name mismatch: %q", trace.Name)
	}
	var sawUnits bool
	for _, entry := range trace.Fields {
		if entry.Field == "units" {
			sawUnits = true
			if entry.Source != "Parent" || entry.Value != "Hz" {
				t.Fatalf("wrong provenance: %+v", entry)
			}
		}
		if entry.Field == "default" {
			t.Fatal("default was set on the child, should not appear in trace")
		}
	}
	if !sawUnits {
		t.Fatalf("units provenance missing: %+v", trace.Fields)
	}
}

func TestResolverDeepCopiesFilledDefaults(t *testing.T) {
	parent := MustNew("Parent",
		Declare("tags", NewParam(map[string]any{"env": "prod"})),
	)
	child := MustNew("Child", Extend(parent),
		Declare("tags", NewTyped(nil, "map[string]interface {}")),
	)

	childParam, _ := child.Param("tags")
	filled, ok := childParam.Default.(map[string]any)
	if !ok {
		t.Fatalf("default not filled, got %T", childParam.Default)
	}
	filled["env"] = "mutated"

	parentParam, _ := parent.Param("tags")
	if parentParam.Default.(map[string]any)["env"] != "prod" {
		t.Fatal("filled default must be a deep copy of the ancestor's")
	}
}
