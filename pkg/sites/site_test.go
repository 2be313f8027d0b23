package sites

import (
	"errors"
	"testing"
)

func TestCheckUnique(t *testing.T) {
	set := []Site{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	if err := CheckUnique(set); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	set = append(set, Site{ID: "a", Name: "A again"})
	err := CheckUnique(set)
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	if err := CheckUnique([]Site{{Name: "nameless"}}); err == nil {
		t.Error("expected error for empty id")
	}
}

func TestIndexKeepsFirstOccurrence(t *testing.T) {
	idx := Index([]Site{{ID: "x"}, {ID: "y"}, {ID: "x"}})
	if len(idx) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(idx))
	}
	if idx["x"] != 0 {
		t.Errorf("expected x at 0, got %d", idx["x"])
	}
}

func TestSiteHelpers(t *testing.T) {
	s := Site{
		Chronology: []Period{PeriodIronAge},
		Artifacts:  []Artifact{{Material: "Iron"}, {Material: "Carnelian"}},
	}
	if got := s.Materials(); len(got) != 2 || got[1] != "Carnelian" {
		t.Errorf("unexpected materials %v", got)
	}
	if !s.HasPeriod(PeriodIronAge) || s.HasPeriod(PeriodMedieval) {
		t.Error("HasPeriod mismatch")
	}
}
