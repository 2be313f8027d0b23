package normalize

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Keeladi":             "keeladi",
		"  Adichanallur  ":    "adichanallur",
		"Sivaganga District!": "sivaganga-district",
		"Kodumanal -- Erode":  "kodumanal-erode",
		"":                    "",
		"***":                 "",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHashSuffixKnownValues(t *testing.T) {
	// h("a") = 97, h("ab") = 97*31 + 98 = 3105
	if got := HashSuffix("a"); got != "2p" {
		t.Errorf("HashSuffix(a) = %q, want 2p", got)
	}
	if got := HashSuffix("ab"); got != "2e9" {
		t.Errorf("HashSuffix(ab) = %q, want 2e9", got)
	}
	if got := HashSuffix(""); got != "0" {
		t.Errorf("HashSuffix(\"\") = %q, want 0", got)
	}
}

func TestHashSuffixWrapsUnsigned(t *testing.T) {
	long := strings.Repeat("zebra", 40)
	got := HashSuffix(long)
	if strings.HasPrefix(got, "-") {
		t.Fatalf("expected unsigned output, got %q", got)
	}
}

func TestDeriveID(t *testing.T) {
	salt := SaltFromTime(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	id := DeriveID("Keeladi", "Sivaganga", salt)
	if !strings.HasPrefix(id, "keeladi-sivaganga-") {
		t.Fatalf("unexpected id %q", id)
	}
	if id != DeriveID("Keeladi", "Sivaganga", salt) {
		t.Error("derivation is not deterministic")
	}
	if id == DeriveID("Keeladi", "Sivaganga", salt+"x") {
		t.Error("different salts produced the same id")
	}
	if got := DeriveID("", "", "s"); !strings.HasPrefix(got, "site-unknown-") {
		t.Errorf("expected placeholder segments, got %q", got)
	}
}

func TestUniqueIDResalts(t *testing.T) {
	first := DeriveID("Arikamedu", "Puducherry", "1")
	taken := map[string]bool{first: true}

	id, err := UniqueID("Arikamedu", "Puducherry", "1", func(s string) bool { return taken[s] })
	if err != nil {
		t.Fatalf("UniqueID failed: %v", err)
	}
	if id == first {
		t.Fatal("expected a re-salted id")
	}
	if !strings.HasPrefix(id, "arikamedu-puducherry-") {
		t.Errorf("unexpected id %q", id)
	}

	free, err := UniqueID("Arikamedu", "Puducherry", "2", nil)
	if err != nil || free != DeriveID("Arikamedu", "Puducherry", "2") {
		t.Errorf("expected plain derivation without collision check, got %q, %v", free, err)
	}
}

func TestUniqueIDExhausted(t *testing.T) {
	_, err := UniqueID("a", "b", "c", func(string) bool { return true })
	if !errors.Is(err, ErrIDSpaceExhausted) {
		t.Fatalf("expected ErrIDSpaceExhausted, got %v", err)
	}
}

// TestIdentifierProperties checks purity and shape of derived identifiers
func TestIdentifierProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("derivation is pure", prop.ForAll(
		func(name, district, salt string) bool {
			return DeriveID(name, district, salt) == DeriveID(name, district, salt)
		},
		gen.AnyString(),
		gen.AnyString(),
		gen.AlphaString(),
	))

	properties.Property("ids contain only slug characters", prop.ForAll(
		func(name, district, salt string) bool {
			for _, r := range DeriveID(name, district, salt) {
				if !isAlnum(r) && r != '-' {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
