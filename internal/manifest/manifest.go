// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest reads and writes selection manifests: YAML files holding
// a student's details, books, and recommendation so a list can be exported
// without an interactive session.
package manifest

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/book-selection/internal/isbn"
	"github.com/pdiddy/book-selection/internal/selection"
	"github.com/pdiddy/book-selection/pkg/types"
)

// Manifest is the on-disk form of a selection list.
type Manifest struct {
	Student        types.StudentInfo  `yaml:"student"`
	Recommendation string             `yaml:"recommendation,omitempty"`
	Books          []types.BookRecord `yaml:"books"`
}

// Load reads a manifest from path.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a manifest from YAML.
func Parse(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parsing manifest: %w", err)
	}
	return m, nil
}

// List rebuilds a selection list from the manifest's books in file order.
// IDs and numbers in the file are ignored and reassigned.
func (m Manifest) List(newID func() string) *selection.List {
	l := &selection.List{NewID: newID}
	for _, b := range m.Books {
		b.ISBN = isbn.Clean(b.ISBN)
		l.Append(b)
	}
	return l
}

// Save writes m to path as YAML.
func Save(path string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
