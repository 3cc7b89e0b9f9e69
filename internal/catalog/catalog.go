// Package catalog loads the lesson catalog: which lessons exist, their
// sections, and each section's completion requirements.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tkaraca/lingotrack/internal/section"
)

// Section describes one trackable chunk of lesson content.
type Section struct {
	ID           string               `yaml:"id"`
	Title        string               `yaml:"title"`
	Requirements section.Requirements `yaml:"requirements"`
}

// Lesson describes one lesson and its sections.
type Lesson struct {
	ID       string    `yaml:"id"`
	Title    string    `yaml:"title"`
	Sections []Section `yaml:"sections"`
}

// Catalog is the full lesson listing.
type Catalog struct {
	Lessons []Lesson `yaml:"lessons"`
}

// Load reads a catalog YAML file.
func Load(path string) (*Catalog, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(contents, &catalog); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal > %w", err)
	}

	seen := make(map[string]struct{}, len(catalog.Lessons))
	for _, lesson := range catalog.Lessons {
		if lesson.ID == "" {
			return nil, fmt.Errorf("lesson with empty id in %s", path)
		}
		if _, ok := seen[lesson.ID]; ok {
			return nil, fmt.Errorf("duplicate lesson id %q in %s", lesson.ID, path)
		}
		seen[lesson.ID] = struct{}{}
	}
	return &catalog, nil
}

// Lesson returns the lesson with the given id.
func (c *Catalog) Lesson(id string) (Lesson, bool) {
	for _, lesson := range c.Lessons {
		if lesson.ID == id {
			return lesson, true
		}
	}
	return Lesson{}, false
}

// TrackerSections converts a lesson's sections to the tracker's
// configuration, applying default requirements where none are set.
func (l Lesson) TrackerSections() []section.SectionConfig {
	configs := make([]section.SectionConfig, 0, len(l.Sections))
	for _, s := range l.Sections {
		configs = append(configs, section.SectionConfig{
			ID:           s.ID,
			Requirements: s.Requirements,
		})
	}
	return configs
}
