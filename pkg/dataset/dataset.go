// Package dataset loads site records from YAML (or JSON) documents and turns
// them into canonical sites.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-affinity/pkg/logging"
	"github.com/dd0wney/cluso-affinity/pkg/normalize"
	"github.com/dd0wney/cluso-affinity/pkg/sites"
	"github.com/dd0wney/cluso-affinity/pkg/validation"
)

var ErrInvalidRecord = errors.New("invalid site record")

// Document is the top-level file shape
type Document struct {
	Sites []Record `yaml:"sites"`
}

// Record is a site as written in a dataset file, before normalization.
// Coordinates are pointers so an absent value can be told apart from zero.
type Record struct {
	ID         string           `yaml:"id" validate:"omitempty,max=128"`
	Name       string           `yaml:"name" validate:"notblank,max=200"`
	District   string           `yaml:"district" validate:"max=100"`
	Lat        *float64         `yaml:"lat" validate:"omitempty,min=-90,max=90"`
	Lng        *float64         `yaml:"lng" validate:"omitempty,min=-180,max=180"`
	Chronology []string         `yaml:"chronology"`
	Artifacts  []ArtifactRecord `yaml:"artifacts" validate:"dive"`
	Structures []string         `yaml:"structures"`
	CreatedAt  *time.Time       `yaml:"created_at"`
}

// ArtifactRecord is a single find in a Record
type ArtifactRecord struct {
	Material string `yaml:"material" validate:"max=100"`
	Category string `yaml:"category" validate:"max=100"`
}

// Options configures normalization.
type Options struct {
	Taxonomy normalize.Taxonomy
	Now      func() time.Time // salt source for records without created_at
	Logger   logging.Logger
}

func (o Options) withDefaults() Options {
	if o.Taxonomy == nil {
		o.Taxonomy = normalize.DefaultTaxonomy
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	o.Logger = logging.OrNop(o.Logger)
	return o
}

// LoadFile reads and normalizes the dataset at path.
func LoadFile(path string, opts Options) ([]sites.Site, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	set, err := Decode(f, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return set, nil
}

// Decode parses a dataset document and normalizes every record.
func Decode(r io.Reader, opts Options) ([]sites.Site, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return Normalize(doc.Sites, opts)
}

// Normalize validates records and converts them into canonical sites.
// Explicit identifiers must be unique; derived ones are re-salted on collision.
func Normalize(records []Record, opts Options) ([]sites.Site, error) {
	opts = opts.withDefaults()
	timer := logging.StartTimer(opts.Logger, "normalized dataset", logging.Component("dataset"))

	taken := make(map[string]bool, len(records))
	for i := range records {
		if err := validation.Struct(&records[i]); err != nil {
			return nil, fmt.Errorf("%w: sites[%d]: %w", ErrInvalidRecord, i, err)
		}
		id := strings.TrimSpace(records[i].ID)
		if id == "" {
			continue
		}
		if taken[id] {
			return nil, fmt.Errorf("sites[%d]: %w: %s", i, sites.ErrDuplicateID, id)
		}
		taken[id] = true
	}

	loadSalt := normalize.SaltFromTime(opts.Now())
	out := make([]sites.Site, 0, len(records))
	for i, rec := range records {
		site := convert(rec, opts.Taxonomy)

		if site.ID == "" {
			salt := loadSalt
			if rec.CreatedAt != nil {
				salt = normalize.SaltFromTime(*rec.CreatedAt)
			}
			id, err := normalize.UniqueID(site.Name, site.Location.District, salt, func(id string) bool { return taken[id] })
			if err != nil {
				return nil, fmt.Errorf("sites[%d]: %w", i, err)
			}
			site.ID = id
			taken[id] = true
		}

		if !site.Location.Verified {
			opts.Logger.Warn("site coordinates missing, location unverified",
				logging.SiteID(site.ID), logging.String("name", site.Name))
		}
		out = append(out, site)
	}

	timer.End(logging.Count(len(out)))
	return out, nil
}

func convert(rec Record, taxonomy normalize.Taxonomy) sites.Site {
	site := sites.Site{
		ID:   strings.TrimSpace(rec.ID),
		Name: strings.TrimSpace(rec.Name),
		Location: sites.Location{
			District: strings.TrimSpace(rec.District),
		},
		Chronology: taxonomy.ClassifyAll(rec.Chronology),
		Structures: rec.Structures,
	}
	if rec.Lat != nil && rec.Lng != nil {
		site.Location.Lat = *rec.Lat
		site.Location.Lng = *rec.Lng
		site.Location.Verified = true
	}
	for _, a := range rec.Artifacts {
		site.Artifacts = append(site.Artifacts, sites.Artifact{
			Material: strings.TrimSpace(a.Material),
			Category: strings.TrimSpace(a.Category),
		})
	}
	return site
}
