// Package taxonomy holds the fixed tag categories for tracks and events and
// validates tag lists against them.
//
// A Taxonomy is built once at startup (Default or Load) and is read-only
// afterwards, so a single value can be shared by every request goroutine.
package taxonomy

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/pkordes/trackday/internal/domain"
)

// Category names referenced by the validation rules.
const (
	TrackType       = "trackType"
	RoadType        = "roadType"
	CarType         = "carType"
	EventType       = "eventType"
	SpecialFeatures = "specialFeatures"
	CarRequirements = "carRequirements"
)

// None is what CategoryOf returns for a tag outside the taxonomy.
const None = "none"

// Track tag list limits.
const (
	MaxTrackTags     = 5
	MaxTrackTypeTags = 2
)

var kinds = []domain.TagKind{domain.TagKindTrack, domain.TagKindEvent}

var requiredCategories = map[domain.TagKind][]string{
	domain.TagKindTrack: {TrackType, RoadType, CarType},
	domain.TagKindEvent: {EventType, SpecialFeatures, CarRequirements},
}

//go:embed taxonomy.yaml
var defaultDocument []byte

// Category is a named, closed set of allowed tag values.
type Category struct {
	Name   string   `yaml:"category"`
	Values []string `yaml:"values"`
}

// Taxonomy maps each record kind to its ordered categories.
type Taxonomy struct {
	categories map[domain.TagKind][]Category
	// owner[kind][tag] is the category name that tag belongs to.
	owner map[domain.TagKind]map[string]string
}

type document struct {
	Track []Category `yaml:"track"`
	Event []Category `yaml:"event"`
}

// Default returns the taxonomy compiled into the binary.
// It panics if the embedded document is malformed, which is a build defect.
func Default() *Taxonomy {
	t, err := Parse(defaultDocument)
	if err != nil {
		panic("taxonomy: embedded taxonomy.yaml: " + err.Error())
	}
	return t
}

// Load reads a taxonomy document from path.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("taxonomy.Load: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("taxonomy.Load: %s: %w", path, err)
	}
	return t, nil
}

// Parse builds a Taxonomy from a YAML document.
// Every required category must be present and non-empty, and no tag may
// belong to two categories of the same kind.
func Parse(data []byte) (*Taxonomy, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return New(map[domain.TagKind][]Category{
		domain.TagKindTrack: doc.Track,
		domain.TagKindEvent: doc.Event,
	})
}

// New builds a Taxonomy from in-memory category tables. The input is copied.
func New(tables map[domain.TagKind][]Category) (*Taxonomy, error) {
	t := &Taxonomy{
		categories: make(map[domain.TagKind][]Category, len(tables)),
		owner:      make(map[domain.TagKind]map[string]string, len(tables)),
	}
	for _, kind := range kinds {
		cats := tables[kind]
		owner := make(map[string]string)
		copied := make([]Category, 0, len(cats))
		for _, c := range cats {
			if len(c.Values) == 0 {
				return nil, fmt.Errorf("%s category %q has no values", kind, c.Name)
			}
			for _, v := range c.Values {
				if prev, dup := owner[v]; dup {
					return nil, fmt.Errorf("%s tag %q is in both %q and %q", kind, v, prev, c.Name)
				}
				owner[v] = c.Name
			}
			copied = append(copied, Category{Name: c.Name, Values: slices.Clone(c.Values)})
		}
		for _, name := range requiredCategories[kind] {
			if !slices.ContainsFunc(copied, func(c Category) bool { return c.Name == name }) {
				return nil, fmt.Errorf("%s category %q is missing", kind, name)
			}
		}
		t.categories[kind] = copied
		t.owner[kind] = owner
	}
	return t, nil
}

// Categories returns the categories for kind in document order.
// The returned slice is a copy.
func (t *Taxonomy) Categories(kind domain.TagKind) []Category {
	cats := t.categories[kind]
	out := make([]Category, len(cats))
	for i, c := range cats {
		out[i] = Category{Name: c.Name, Values: slices.Clone(c.Values)}
	}
	return out
}

// ValidTags returns every allowed tag for kind, flattened in category order.
func (t *Taxonomy) ValidTags(kind domain.TagKind) []string {
	var out []string
	for _, c := range t.categories[kind] {
		out = append(out, c.Values...)
	}
	return out
}

// CategoryOf returns the category tag belongs to, or None.
func (t *Taxonomy) CategoryOf(kind domain.TagKind, tag string) string {
	if name, ok := t.owner[kind][tag]; ok {
		return name
	}
	return None
}

func (t *Taxonomy) countIn(kind domain.TagKind, tags []string, category string) int {
	n := 0
	for _, tag := range tags {
		if t.owner[kind][tag] == category {
			n++
		}
	}
	return n
}

func (t *Taxonomy) unknown(kind domain.TagKind, tags []string) []string {
	var out []string
	for _, tag := range tags {
		if _, ok := t.owner[kind][tag]; !ok {
			out = append(out, tag)
		}
	}
	return out
}
