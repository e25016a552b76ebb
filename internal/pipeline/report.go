// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/metlabtools/chemref/internal/chemdb"
	"github.com/metlabtools/chemref/internal/compartment"
	"github.com/metlabtools/chemref/internal/normalize"
	"github.com/metlabtools/chemref/pkg/types"
)

// Report is the on-disk record of one organism build: what was loaded,
// which rules applied, and what every row became. It replaces eyeballing
// intermediate counts by hand after each step.
type Report struct {
	Organism   string                         `yaml:"organism"`
	Source     types.SourceConfig             `yaml:"source"`
	Rules      types.NormalizeConfig          `yaml:"rules"`
	Loaded     int                            `yaml:"loaded"`
	Normalize  normalize.Summary              `yaml:"normalize"`
	Supplement *compartment.SupplementSummary `yaml:"supplement,omitempty"`
	Databases  map[string]chemdb.BuildSummary `yaml:"databases,omitempty"`
	Timestamp  time.Time                      `yaml:"timestamp"`
}

// NewReport assembles a report from a pipeline result.
func NewReport(org types.OrganismConfig, res Result) Report {
	return Report{
		Organism:   org.Name,
		Source:     org.Source,
		Rules:      org.Rules,
		Loaded:     res.Loaded,
		Normalize:  res.Normalize,
		Supplement: res.Supplement,
		Databases:  res.Built,
		Timestamp:  time.Now().UTC(),
	}
}

// WriteReport saves the report as YAML to path.
func WriteReport(path string, report Report) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// ReportPath returns the default report location for an organism build.
func ReportPath(destDir, organism string) string {
	return filepath.Join(destDir, organism+"_build.yaml")
}
