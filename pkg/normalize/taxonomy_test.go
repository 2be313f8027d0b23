package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dd0wney/cluso-affinity/pkg/sites"
)

func TestClassifyLabel(t *testing.T) {
	cases := []struct {
		raw  string
		want sites.Period
	}{
		{"Megalithic Age burial", sites.PeriodMegalithic},
		{"completely unrelated text", sites.PeriodUnknown},
		{"", sites.PeriodUnknown},
		{"---", sites.PeriodUnknown},
		{"Iron Age", sites.PeriodIronAge},
		{"Iron Age megalithic urn burials", sites.PeriodMegalithic},
		{"Urn-burial site", sites.PeriodMegalithic},
		{"Sangam period (300 BCE)", sites.PeriodEarlyHistoric},
		{"Early Historic", sites.PeriodEarlyHistoric},
		{"Late Chola temple phase", sites.PeriodMedieval},
		{"NEOLITHIC ash-mound", sites.PeriodNeolithic},
		{"Palaeolithic hand-axe", sites.PeriodPaleolithic},
		{"microlithic industry", sites.PeriodMesolithic},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyLabel(tc.raw), "label %q", tc.raw)
	}
}

func TestClassifyLabelsDropsUnknownWhenOthersPresent(t *testing.T) {
	got := ClassifyLabels([]string{"Megalithic", "some noise", "megalithic burial"})
	assert.Equal(t, []sites.Period{sites.PeriodMegalithic}, got)
}

func TestClassifyLabelsEmptyDefaultsToUnknown(t *testing.T) {
	assert.Equal(t, []sites.Period{sites.PeriodUnknown}, ClassifyLabels(nil))
	assert.Equal(t, []sites.Period{sites.PeriodUnknown}, ClassifyLabels([]string{"??", "nothing known"}))
}

func TestClassifyLabelsKeepsFirstSeenOrder(t *testing.T) {
	got := ClassifyLabels([]string{"Sangam age", "Iron Age", "sangam"})
	assert.Equal(t, []sites.Period{sites.PeriodEarlyHistoric, sites.PeriodIronAge}, got)
}

func TestTaxonomyOrderDecidesTies(t *testing.T) {
	first := Taxonomy{
		{Period: sites.PeriodIronAge, Keywords: []string{"ironage"}},
		{Period: sites.PeriodMegalithic, Keywords: []string{"megalith"}},
	}
	assert.Equal(t, sites.PeriodIronAge, first.Classify("Iron Age megalith"))

	swapped := Taxonomy{first[1], first[0]}
	assert.Equal(t, sites.PeriodMegalithic, swapped.Classify("Iron Age megalith"))
}

func TestCompact(t *testing.T) {
	assert.Equal(t, "ironage300bce", Compact("Iron Age (300 BCE)"))
	assert.Equal(t, "", Compact("  --  "))
}
