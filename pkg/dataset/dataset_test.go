package dataset

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-affinity/pkg/logging"
	"github.com/dd0wney/cluso-affinity/pkg/normalize"
	"github.com/dd0wney/cluso-affinity/pkg/sites"
)

var fixedNow = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

func TestLoadFile(t *testing.T) {
	var buf bytes.Buffer
	set, err := LoadFile("testdata/sites.yaml", Options{
		Now:    fixedNow,
		Logger: logging.NewJSONLogger(&buf, logging.DebugLevel),
	})
	require.NoError(t, err)
	require.Len(t, set, 4)

	keeladi := set[0]
	assert.Equal(t, "keeladi", keeladi.ID)
	assert.True(t, keeladi.Location.Verified)
	assert.Equal(t, []sites.Period{sites.PeriodEarlyHistoric}, keeladi.Chronology)
	assert.Equal(t, []string{"Terracotta", "Iron", "Gold"}, keeladi.Materials())

	assert.Equal(t, []sites.Period{sites.PeriodMegalithic, sites.PeriodIronAge}, set[1].Chronology)

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, normalize.DeriveID("Adichanallur", "Thoothukudi", normalize.SaltFromTime(created)), set[2].ID,
		"created_at salts the derived id")

	porunthal := set[3]
	assert.Equal(t, normalize.DeriveID("Porunthal", "Dindigul", normalize.SaltFromTime(fixedNow())), porunthal.ID)
	assert.False(t, porunthal.Location.Verified)
	assert.Zero(t, porunthal.Location.Lat)
	assert.Zero(t, porunthal.Location.Lng)
	assert.Equal(t, []sites.Period{sites.PeriodUnknown}, porunthal.Chronology)

	assert.Contains(t, buf.String(), "location unverified")
	assert.Contains(t, buf.String(), porunthal.ID)
	assert.NoError(t, sites.CheckUnique(set))
}

func TestDecodeRejectsDuplicateIDs(t *testing.T) {
	doc := `
sites:
  - {id: a, name: First}
  - {id: a, name: Second}
`
	_, err := Decode(strings.NewReader(doc), Options{})
	assert.ErrorIs(t, err, sites.ErrDuplicateID)
}

func TestDecodeResaltsDerivedCollision(t *testing.T) {
	// Two records with the same name, district and load time derive the same id.
	doc := `
sites:
  - {name: Mound, district: Salem}
  - {name: Mound, district: Salem}
`
	set, err := Decode(strings.NewReader(doc), Options{Now: fixedNow})
	require.NoError(t, err)
	require.Len(t, set, 2)
	assert.NotEqual(t, set[0].ID, set[1].ID)
	assert.True(t, strings.HasPrefix(set[1].ID, "mound-salem-"))
}

func TestDecodeDerivedIDAvoidsExplicitID(t *testing.T) {
	taken := normalize.DeriveID("Mound", "Salem", normalize.SaltFromTime(fixedNow()))
	doc := "sites:\n  - {name: Mound, district: Salem}\n  - {id: " + taken + ", name: Other}\n"

	set, err := Decode(strings.NewReader(doc), Options{Now: fixedNow})
	require.NoError(t, err)
	assert.NotEqual(t, taken, set[0].ID)
	assert.Equal(t, taken, set[1].ID)
}

func TestDecodeValidation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"blank name", "sites:\n  - {name: '  '}\n"},
		{"latitude out of range", "sites:\n  - {name: x, lat: 91, lng: 0}\n"},
		{"longitude out of range", "sites:\n  - {name: x, lat: 0, lng: -181}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc), Options{})
			assert.True(t, errors.Is(err, ErrInvalidRecord), "got %v", err)
		})
	}
}

func TestDecodeJSONAndEmpty(t *testing.T) {
	set, err := Decode(strings.NewReader(`{"sites": [{"id": "j", "name": "Json", "lat": 0, "lng": 0}]}`), Options{})
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.True(t, set[0].Location.Verified, "explicit zero coordinates are real coordinates")

	set, err = Decode(strings.NewReader(""), Options{})
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode(strings.NewReader("sites: [unclosed"), Options{})
	assert.Error(t, err)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("testdata/missing.yaml", Options{})
	assert.Error(t, err)
}
