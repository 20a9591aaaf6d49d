package params

import (
	"errors"
	"testing"
)

func TestNewCompilesDeclarations(t *testing.T) {
	spec, err := New("Gaussian",
		Declare("sigma", NewRange(1.0, 0, 10, WithUnits("m"))),
		Declare("mu", NewParam(0.0)),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := spec.registry.Names()
	want := []string{"sigma", "mu"}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("expected registry order %v, got %v", want, names)
		}
	}

	p, ok := spec.Param("sigma")
	if !ok {
		t.Fatal("sigma not registered")
	}
	if p.Name() != "sigma" || p.Owner() != "Gaussian" {
		t.Fatalf("descriptor not bound: name=%q owner=%q", p.Name(), p.Owner())
	}
	if p.Units != "m" || *p.Start != 0 || *p.End != 10 {
		t.Fatalf("metadata lost: %+v", p)
	}
}

func TestDeclareSameDescriptorTwiceConflicts(t *testing.T) {
	shared := NewParam(1.0)
	_, err := New("Broken",
		Declare("alpha", shared),
		Declare("beta", shared),
	)
	if !errors.Is(err, ErrNameConflict) {
		t.Fatalf("expected ErrNameConflict, got %v", err)
	}
}

func TestInheritanceSharesDescriptorsByReference(t *testing.T) {
	parent := MustNew("Parent", Declare("alpha", NewParam(1.0)))
	child := MustNew("Child", Extend(parent))

	parentParam, _ := parent.Param("alpha")
	childParam, _ := child.Param("alpha")
	if parentParam != childParam {
		t.Fatal("untouched inherited name should share the ancestor descriptor")
	}
	owner, _ := child.registry.OwnerOf("alpha")
	if owner != "Parent" {
		t.Fatalf("expected owner Parent, got %q", owner)
	}
}

func TestInheritancePrecedenceNearestWins(t *testing.T) {
	grand := MustNew("Grand", Declare("alpha", NewParam("grand")))
	parent := MustNew("Parent", Extend(grand), Declare("alpha", NewParam("parent")))
	child := MustNew("Child", Extend(parent))

	value, err := child.Default("alpha")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "parent" {
		t.Fatalf("expected nearest ancestor to win, got %v", value)
	}
}

func TestSetDefaultCopiesOnOverride(t *testing.T) {
	parent := MustNew("Parent", Declare("alpha", NewParam(1.0, WithUnits("Hz"))))
	left := MustNew("Left", Extend(parent))
	right := MustNew("Right", Extend(parent))

	if err := left.SetDefault("alpha", 2.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	leftValue, _ := left.Default("alpha")
	rightValue, _ := right.Default("alpha")
	parentValue, _ := parent.Default("alpha")
	if leftValue != 2.0 {
		t.Fatalf("override lost, got %v", leftValue)
	}
	if rightValue != 1.0 || parentValue != 1.0 {
		t.Fatalf("override leaked to siblings: right=%v parent=%v", rightValue, parentValue)
	}

	leftParam, _ := left.Param("alpha")
	parentParam, _ := parent.Param("alpha")
	if leftParam == parentParam {
		t.Fatal("override should have cloned the descriptor")
	}
	if leftParam.Units != "Hz" {
		t.Fatalf("clone dropped metadata, units=%q", leftParam.Units)
	}
	if owner, _ := left.registry.OwnerOf("alpha"); owner != "Left" {
		t.Fatalf("expected owner Left after override, got %q", owner)
	}
}

func TestDeclareValueKeepsAncestorMetadata(t *testing.T) {
	parent := MustNew("Parent",
		Declare("rate", NewSlider(0.5, 0, 10, 1, WithUnits("Hz"), WithDoc("update rate"))),
	)
	child := MustNew("Child", Extend(parent), DeclareValue("rate", 2.5))

	p, ok := child.Param("rate")
	if !ok {
		t.Fatal("rate not registered")
	}
	if p.Default != 2.5 {
		t.Fatalf("override lost, got %v", p.Default)
	}
	if p.Units != "Hz" || p.Doc != "update rate" {
		t.Fatalf("metadata lost: units=%q doc=%q", p.Units, p.Doc)
	}
	if *p.Start != 0 || *p.End != 10 || *p.Step != 1 {
		t.Fatalf("bounds lost: %+v", p)
	}

	parentParam, _ := parent.Param("rate")
	if parentParam.Default != 0.5 {
		t.Fatalf("parent perturbed: %v", parentParam.Default)
	}
}

func TestDeclareValueWithoutAncestor(t *testing.T) {
	spec := MustNew("Fresh", DeclareValue("label", "hello"))
	value, err := spec.Default("label")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "hello" {
		t.Fatalf("expected plain value declaration, got %v", value)
	}
}

func TestDiamondLinearization(t *testing.T) {
	root := MustNew("Root", Declare("alpha", NewParam("root")))
	left := MustNew("Left", Extend(root), Declare("alpha", NewParam("left")))
	right := MustNew("Right", Extend(root), Declare("alpha", NewParam("right")))
	merged := MustNew("Merged", Extend(left, right))

	value, _ := merged.Default("alpha")
	if value != "left" {
		t.Fatalf("expected first parent to win in diamond, got %v", value)
	}

	order := make([]string, 0, len(merged.mro))
	for _, s := range merged.mro {
		order = append(order, s.name)
	}
	want := []string{"Merged", "Left", "Right", "Root"}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("expected linearization %v, got %v", want, order)
		}
	}
}

func TestInconsistentHierarchyRejected(t *testing.T) {
	a := MustNew("A")
	b := MustNew("B", Extend(a))
	_, err := New("C", Extend(a, b))
	if !errors.Is(err, ErrInconsistentHierarchy) {
		t.Fatalf("expected ErrInconsistentHierarchy, got %v", err)
	}
}

func TestUnknownParameterOnSpecReads(t *testing.T) {
	spec := MustNew("Empty")
	if _, err := spec.Default("missing"); !errors.Is(err, ErrUnknownParameter) {
		t.Fatalf("expected ErrUnknownParameter, got %v", err)
	}
	if err := spec.SetDefault("missing", 1); !errors.Is(err, ErrUnknownParameter) {
		t.Fatalf("expected ErrUnknownParameter, got %v", err)
	}
}

func TestSetParamReplacesAndResolves(t *testing.T) {
	parent := MustNew("Parent", Declare("gain", NewParam(1.0, WithUnits("dB"))))
	child := MustNew("Child", Extend(parent))

	if err := child.SetParam("gain", NewParam(3.0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, _ := child.Param("gain")
	if p.Default != 3.0 {
		t.Fatalf("replacement lost, got %v", p.Default)
	}
	if p.Units != "dB" {
		t.Fatalf("resolver should fill units from ancestor, got %q", p.Units)
	}
	parentParam, _ := parent.Param("gain")
	if parentParam.Default != 1.0 {
		t.Fatalf("parent perturbed: %v", parentParam.Default)
	}
}
