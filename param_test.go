package params

import (
	"errors"
	"strings"
	"testing"
)

func TestDescribeBindsKeys(t *testing.T) {
	p := NewParam(1.0)
	if err := p.describe("sigma", "Gaussian"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.StorageKey() != "_sigma_value" {
		t.Fatalf("storage key mismatch: %q", p.StorageKey())
	}
	if p.HookKey() != "on_sigma_change" {
		t.Fatalf("hook key mismatch: %q", p.HookKey())
	}
	if p.Owner() != "Gaussian" {
		t.Fatalf("owner mismatch: %q", p.Owner())
	}
}

func TestDescribeRejectsRename(t *testing.T) {
	p := NewParam(1.0)
	if err := p.describe("sigma", "Gaussian"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.describe("mu", "Gaussian"); !errors.Is(err, ErrNameConflict) {
		t.Fatalf("expected ErrNameConflict, got %v", err)
	}
}

func TestCloneIsolatesMutableMetadata(t *testing.T) {
	p := NewRange(map[string]any{"level": 1}, 0, 10)
	if err := p.describe("cfg", "Spec"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	copied := p.Clone()
	if copied.Owner() != "" {
		t.Fatalf("clone must be ownerless, got %q", copied.Owner())
	}

	copied.Default.(map[string]any)["level"] = 99
	if p.Default.(map[string]any)["level"] != 1 {
		t.Fatal("clone default aliases the original")
	}

	*copied.Start = -5
	if *p.Start != 0 {
		t.Fatal("clone bounds alias the original")
	}
}

func TestReadValueClassLevel(t *testing.T) {
	p := NewParam(42)
	value, err := p.ReadValue(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != 42 {
		t.Fatalf("expected default, got %v", value)
	}

	missing := NewParam(nil)
	if _, err := missing.ReadValue(nil); !errors.Is(err, ErrMissingDefault) {
		t.Fatalf("expected ErrMissingDefault, got %v", err)
	}
}

func TestCheckType(t *testing.T) {
	p := NewTyped(1.5, "float64")
	if !p.CheckType(2.5) {
		t.Fatal("matching type rejected")
	}
	if p.CheckType("nope") {
		t.Fatal("mismatched type accepted")
	}
	if p.CheckType(nil) {
		t.Fatal("nil accepted for typed descriptor")
	}

	untyped := NewParam("anything")
	if !untyped.CheckType(123) {
		t.Fatal("untyped descriptor must accept everything")
	}
}

func TestCheckRange(t *testing.T) {
	p := NewRange(5.0, 0, 10)
	cases := []struct {
		value any
		want  bool
	}{
		{5.0, true},
		{0.0, true},
		{10.0, true},
		{-0.1, false},
		{10.1, false},
		{int64(7), true},
		{uint8(200), false},
		{"not numeric", true},
		{nil, true},
	}
	for _, tc := range cases {
		if got := p.CheckRange(tc.value); got != tc.want {
			t.Fatalf("CheckRange(%v) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestCheckRangeOpenEnded(t *testing.T) {
	p := NewParam(1.0)
	p.Start = ptr(0)
	if p.CheckRange(-1.0) {
		t.Fatal("lower bound not enforced")
	}
	if !p.CheckRange(1e12) {
		t.Fatal("missing upper bound must not reject")
	}
}

func TestParamStringShowsOnlySetFields(t *testing.T) {
	p := NewSlider(0.5, 0, 10, 1, WithUnits("Hz"))
	s := p.String()
	for _, want := range []string{"default=0.5", `units="Hz"`, "start=0", "end=10", "step=1", "widget=slider"} {
		if !strings.Contains(s, want) {
			t.Fatalf("String() missing %q: %s", want, s)
		}
	}
	if strings.Contains(s, "doc=") || strings.Contains(s, "rule=") {
		t.Fatalf("String() shows unset fields: %s", s)
	}
}

func TestParamPrettyShowsAllFields(t *testing.T) {
	p := NewCheckbox(true)
	pretty := p.Pretty()
	for _, want := range []string{"name", "kind", "units", "start", "<unset>", "checkbox"} {
		if !strings.Contains(pretty, want) {
			t.Fatalf("Pretty() missing %q:\n%s", want, pretty)
		}
	}
}
