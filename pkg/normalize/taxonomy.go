package normalize

import (
	"strings"

	"github.com/dd0wney/cluso-affinity/pkg/sites"
)

// KeywordGroup associates compacted keywords with one canonical period.
// Keywords are lowercase alphanumerics with no separators, since labels are
// compacted the same way before matching.
type KeywordGroup struct {
	Period   sites.Period
	Keywords []string
}

// Taxonomy is an ordered list of keyword groups. The first group with a
// matching keyword wins, so the order is part of the classification.
type Taxonomy []KeywordGroup

// DefaultTaxonomy is the chronology taxonomy used for site records.
// Megalithic burial terms come first: reports routinely describe
// "Iron Age megalithic" contexts and the burial tradition is the stronger signal.
var DefaultTaxonomy = Taxonomy{
	{Period: sites.PeriodMegalithic, Keywords: []string{"megalith", "urnburial", "dolmen", "cairn", "cistburial", "menhir", "sarcophag"}},
	{Period: sites.PeriodPaleolithic, Keywords: []string{"paleolithic", "palaeolithic", "oldstone", "handaxe"}},
	{Period: sites.PeriodMesolithic, Keywords: []string{"mesolithic", "microlith"}},
	{Period: sites.PeriodNeolithic, Keywords: []string{"neolithic", "newstone", "ashmound"}},
	{Period: sites.PeriodChalcolithic, Keywords: []string{"chalcolithic", "copperage", "bronzeage"}},
	{Period: sites.PeriodIronAge, Keywords: []string{"ironage", "ironsmelting", "earlyiron"}},
	{Period: sites.PeriodEarlyHistoric, Keywords: []string{"earlyhistoric", "sangam", "tamilbrahmi", "mauryan", "roman"}},
	{Period: sites.PeriodMedieval, Keywords: []string{"medieval", "chola", "pandya", "pallava", "vijayanagar", "nayak"}},
}

// Compact lowercases s and strips everything that is not a letter or digit.
func Compact(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if isAlnum(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Classify maps one raw label to a period, or PeriodUnknown when no group matches.
func (t Taxonomy) Classify(raw string) sites.Period {
	compact := Compact(raw)
	if compact == "" {
		return sites.PeriodUnknown
	}
	for _, g := range t {
		for _, kw := range g.Keywords {
			if strings.Contains(compact, kw) {
				return g.Period
			}
		}
	}
	return sites.PeriodUnknown
}

// ClassifyAll maps raw labels to a deduplicated period list in first-seen order.
// Unknown is dropped when any other period is present; an empty result becomes {Unknown}.
func (t Taxonomy) ClassifyAll(raws []string) []sites.Period {
	seen := make(map[sites.Period]bool, len(raws))
	out := make([]sites.Period, 0, len(raws))
	for _, raw := range raws {
		p := t.Classify(raw)
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}

	if len(out) > 1 && seen[sites.PeriodUnknown] {
		filtered := out[:0]
		for _, p := range out {
			if p != sites.PeriodUnknown {
				filtered = append(filtered, p)
			}
		}
		out = filtered
	}

	if len(out) == 0 {
		return []sites.Period{sites.PeriodUnknown}
	}
	return out
}

// ClassifyLabel classifies with DefaultTaxonomy
func ClassifyLabel(raw string) sites.Period {
	return DefaultTaxonomy.Classify(raw)
}

// ClassifyLabels classifies with DefaultTaxonomy
func ClassifyLabels(raws []string) []sites.Period {
	return DefaultTaxonomy.ClassifyAll(raws)
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
