package nutrition

import (
	"errors"
	"testing"
)

func TestParseUnit(t *testing.T) {
	for _, u := range AllUnits {
		got, err := ParseUnit(string(u))
		if err != nil || got != u {
			t.Errorf("ParseUnit(%q) = %q, %v", u, got, err)
		}
	}
	for _, s := range []string{"", "gram", "HANDFUL"} {
		if _, err := ParseUnit(s); !errors.Is(err, ErrUnsupportedCategory) {
			t.Errorf("ParseUnit(%q) error = %v, want ErrUnsupportedCategory", s, err)
		}
	}
}

func TestAllUnits_Distinct(t *testing.T) {
	if len(AllUnits) != 16 {
		t.Fatalf("expected 16 units, got %d", len(AllUnits))
	}
	seen := map[Unit]bool{}
	for _, u := range AllUnits {
		if seen[u] {
			t.Errorf("duplicate unit %s", u)
		}
		seen[u] = true
	}
}

func TestMealTypeLabels(t *testing.T) {
	if len(AllMealTypes) != 10 {
		t.Fatalf("expected 10 meal types, got %d", len(AllMealTypes))
	}
	for _, m := range AllMealTypes {
		if m.Label() == "" {
			t.Errorf("meal type %s has no label", m)
		}
	}
}

func TestParseGoalTypeAndGender(t *testing.T) {
	if _, err := ParseGoalType("BULK"); !errors.Is(err, ErrUnsupportedCategory) {
		t.Errorf("ParseGoalType(BULK) error = %v", err)
	}
	if g, err := ParseGoalType("GAIN_WEIGHT"); err != nil || g != GainWeight {
		t.Errorf("ParseGoalType(GAIN_WEIGHT) = %q, %v", g, err)
	}
	if _, err := ParseGender("male"); !errors.Is(err, ErrUnsupportedCategory) {
		t.Errorf("ParseGender(male) error = %v", err)
	}
	if g, err := ParseGender("FEMALE"); err != nil || g != Female {
		t.Errorf("ParseGender(FEMALE) = %q, %v", g, err)
	}
}
