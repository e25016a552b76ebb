// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/metlabtools/chemref/internal/chemdb"
	"github.com/metlabtools/chemref/pkg/types"
)

const modelJSON = `{
  "id": "test-model",
  "metabolites": [
    {"id": "glc[c]", "name": "D-Glucose", "formula": "C6H12O6", "charge": 0},
    {"id": "glc[e]", "name": "D-Glucose ext", "formula": "C6H12O6", "charge": 0},
    {"id": "atp[c]", "name": "ATP", "formula": "C10H12N5O13P3", "charge": -4},
    {"id": "acyl[c]", "name": "Generic acyl", "formula": "C10H18O2R", "charge": 0},
    {"id": "bm[c]", "name": "Biomass", "formula": "C100H200O50", "charge": 0}
  ]
}`

const supplementaryJSON = `{
  "id": "secondary",
  "metabolites": [
    {"id": "", "name": "Foo Bar", "formula": "C2H5OH"},
    {"id": "", "name": "Mass bleed", "formula": "218.09"}
  ]
}`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestRunSingleDatabase(t *testing.T) {
	dir := t.TempDir()
	modelPath := writeFixture(t, dir, "model.json", modelJSON)

	org := types.OrganismConfig{
		Name:   "testorg",
		Source: types.SourceConfig{Format: types.FormatJSONModel, Path: modelPath},
	}

	var buf bytes.Buffer
	res, err := Run(context.Background(), org, dir, &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Loaded != 5 {
		t.Errorf("Loaded = %d, want 5", res.Loaded)
	}
	// One placeholder formula and one biomass entry drop out.
	if res.Normalize.Kept != 3 || res.Normalize.Placeholder != 1 || res.Normalize.Biomass != 1 {
		t.Errorf("Normalize = %+v", res.Normalize)
	}
	if built, ok := res.Built["testorg"]; !ok || built.Stored != 3 {
		t.Errorf("Built = %+v, want 3 compounds under testorg", res.Built)
	}

	store, err := chemdb.Open(chemdb.DatabasePath(dir, "testorg"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()
	n, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}

	if !strings.Contains(buf.String(), "loaded 5 rows") {
		t.Errorf("progress output missing load line: %q", buf.String())
	}
}

func TestRunPartitioned(t *testing.T) {
	dir := t.TempDir()
	modelPath := writeFixture(t, dir, "model.json", modelJSON)
	suppPath := writeFixture(t, dir, "secondary.json", supplementaryJSON)

	org := types.OrganismConfig{
		Name:   "yeast",
		Source: types.SourceConfig{Format: types.FormatJSONModel, Path: modelPath},
		Compartments: &types.CompartmentConfig{
			Marker:        "[e]",
			Supplementary: &types.SourceConfig{Format: types.FormatJSONModel, Path: suppPath},
		},
	}

	var buf bytes.Buffer
	res, err := Run(context.Background(), org, dir, &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Supplement == nil || res.Supplement.Added != 1 || res.Supplement.Discarded != 1 {
		t.Fatalf("Supplement = %+v", res.Supplement)
	}

	// 2 intracellular + 1 supplementary, 1 extracellular + 1 supplementary.
	intra := res.Built["yeast_intracellular"]
	extra := res.Built["yeast_extracellular"]
	if intra.Stored != 3 {
		t.Errorf("intracellular Stored = %d, want 3", intra.Stored)
	}
	if extra.Stored != 2 {
		t.Errorf("extracellular Stored = %d, want 2", extra.Stored)
	}

	// The supplementary metabolite is queryable in both databases.
	for _, label := range []string{"yeast_intracellular", "yeast_extracellular"} {
		store, err := chemdb.Open(chemdb.DatabasePath(dir, label))
		if err != nil {
			t.Fatalf("Open %s: %v", label, err)
		}
		matches, err := store.LookupName(context.Background(), "FooBar")
		store.Close()
		if err != nil {
			t.Fatalf("LookupName in %s: %v", label, err)
		}
		if len(matches) != 1 {
			t.Errorf("%s: FooBar matches = %d, want 1", label, len(matches))
		}
	}
}

func TestRunMissingSource(t *testing.T) {
	org := types.OrganismConfig{
		Name:   "ghost",
		Source: types.SourceConfig{Format: types.FormatJSONModel, Path: filepath.Join(t.TempDir(), "nope.json")},
	}
	var buf bytes.Buffer
	_, err := Run(context.Background(), org, t.TempDir(), &buf)
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("expected a source-not-found error, got %v", err)
	}
}

func TestRunUnnamedOrganism(t *testing.T) {
	var buf bytes.Buffer
	_, err := Run(context.Background(), types.OrganismConfig{}, t.TempDir(), &buf)
	if err == nil {
		t.Error("expected error for unnamed organism")
	}
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	modelPath := writeFixture(t, dir, "model.json", modelJSON)

	org := types.OrganismConfig{
		Name:   "testorg",
		Source: types.SourceConfig{Format: types.FormatJSONModel, Path: modelPath},
		Rules:  types.NormalizeConfig{DedupeByName: true},
	}

	var buf bytes.Buffer
	res, err := Run(context.Background(), org, dir, &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	path := ReportPath(dir, org.Name)
	if err := WriteReport(path, NewReport(org, res)); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	var report Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		t.Fatalf("parsing report: %v", err)
	}
	if report.Organism != "testorg" || report.Loaded != 5 {
		t.Errorf("report = %+v", report)
	}
	if !report.Rules.DedupeByName {
		t.Error("report should record the rules that applied")
	}
	if report.Timestamp.IsZero() {
		t.Error("report timestamp should be set")
	}
}
