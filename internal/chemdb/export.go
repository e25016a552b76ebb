// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chemdb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// ExportEntry holds one compound with its composition for export.
type ExportEntry struct {
	ID       string         `json:"id" yaml:"id"`
	Formula  string         `json:"formula" yaml:"formula"`
	Charge   int            `json:"charge" yaml:"charge"`
	Name     string         `json:"name,omitempty" yaml:"name,omitempty"`
	Mass     *float64       `json:"monoisotopic_mass,omitempty" yaml:"monoisotopic_mass,omitempty"`
	Elements map[string]int `json:"elements" yaml:"elements"`
}

// ExportFile is the on-disk shape of a database export.
type ExportFile struct {
	Organism  string        `json:"organism" yaml:"organism"`
	Compounds []ExportEntry `json:"compounds" yaml:"compounds"`
}

// ExportYAML writes the full database to a YAML file next to the database
// (same base name, .yaml extension) and returns the path written.
func (s *Store) ExportYAML(ctx context.Context) (string, error) {
	export, err := s.exportFile(ctx)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(export)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	path := s.exportPath("yaml")
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the full database to a JSON file next to the database
// and returns the path written.
func (s *Store) ExportJSON(ctx context.Context) (string, error) {
	export, err := s.exportFile(ctx)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	path := s.exportPath("json")
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportPath(ext string) string {
	base := strings.TrimSuffix(s.path, filepath.Ext(s.path))
	return base + "." + ext
}

func (s *Store) exportFile(ctx context.Context) (ExportFile, error) {
	compounds, err := s.All(ctx)
	if err != nil {
		return ExportFile{}, fmt.Errorf("reading compounds for export: %w", err)
	}

	export := ExportFile{
		Organism:  s.organism,
		Compounds: make([]ExportEntry, 0, len(compounds)),
	}
	for _, c := range compounds {
		elems, err := s.Elements(ctx, c.ID)
		if err != nil {
			return ExportFile{}, err
		}
		entry := ExportEntry{
			ID:       c.ID,
			Formula:  c.Formula,
			Charge:   c.Charge,
			Name:     c.Name,
			Elements: elems,
		}
		if c.HasMass {
			mass := c.Mass
			entry.Mass = &mass
		}
		export.Compounds = append(export.Compounds, entry)
	}
	return export, nil
}
