package sites

import (
	"errors"
	"fmt"
)

// Period is a canonical chronology category
type Period string

const (
	PeriodMegalithic    Period = "MEGALITHIC"
	PeriodPaleolithic   Period = "PALEOLITHIC"
	PeriodMesolithic    Period = "MESOLITHIC"
	PeriodNeolithic     Period = "NEOLITHIC"
	PeriodChalcolithic  Period = "CHALCOLITHIC"
	PeriodIronAge       Period = "IRON_AGE"
	PeriodEarlyHistoric Period = "EARLY_HISTORIC"
	PeriodMedieval      Period = "MEDIEVAL"
	PeriodUnknown       Period = "UNKNOWN"
)

// ErrDuplicateID is returned when two sites in a working set share an identifier
var ErrDuplicateID = errors.New("duplicate site id")

// Location places a site geographically.
// Verified is false when the coordinates were not present in the source record;
// Lat and Lng are then zero and must not be plotted as real positions.
type Location struct {
	Lat      float64 `json:"lat" yaml:"lat"`
	Lng      float64 `json:"lng" yaml:"lng"`
	District string  `json:"district" yaml:"district"`
	Verified bool    `json:"verified" yaml:"verified"`
}

// Artifact is a recovered find
type Artifact struct {
	Material string `json:"material" yaml:"material"`
	Category string `json:"category" yaml:"category"`
}

// Site is a canonical archaeological site record
type Site struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Location   Location   `json:"location" yaml:"location"`
	Chronology []Period   `json:"chronology" yaml:"chronology"`
	Artifacts  []Artifact `json:"artifacts" yaml:"artifacts"`
	Structures []string   `json:"structures" yaml:"structures"`
}

// Materials returns the raw material strings of the site's artifacts in order
func (s Site) Materials() []string {
	out := make([]string, 0, len(s.Artifacts))
	for _, a := range s.Artifacts {
		out = append(out, a.Material)
	}
	return out
}

// HasPeriod reports whether the site carries the given chronology category
func (s Site) HasPeriod(p Period) bool {
	for _, c := range s.Chronology {
		if c == p {
			return true
		}
	}
	return false
}

// CheckUnique verifies that every site in the working set has a distinct, non-empty ID.
func CheckUnique(set []Site) error {
	seen := make(map[string]int, len(set))
	for i, s := range set {
		if s.ID == "" {
			return fmt.Errorf("site at index %d (%q): empty id", i, s.Name)
		}
		if j, ok := seen[s.ID]; ok {
			return fmt.Errorf("%w: %q at index %d and %d", ErrDuplicateID, s.ID, j, i)
		}
		seen[s.ID] = i
	}
	return nil
}

// Index maps site IDs to their position in the working set. Later duplicates are ignored.
func Index(set []Site) map[string]int {
	idx := make(map[string]int, len(set))
	for i, s := range set {
		if _, ok := idx[s.ID]; !ok {
			idx[s.ID] = i
		}
	}
	return idx
}
