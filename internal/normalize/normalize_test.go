// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"reflect"
	"testing"

	"github.com/metlabtools/chemref/pkg/types"
)

func row(id, name, formula string) types.RawMetabolite {
	return types.RawMetabolite{ID: id, Name: name, Formula: formula}
}

func chargedRow(id, name, formula string, charge int) types.RawMetabolite {
	return types.RawMetabolite{ID: id, Name: name, Formula: formula, Charge: charge, HasCharge: true}
}

func TestNormalizeDropsBadFormulas(t *testing.T) {
	tests := []struct {
		name string
		rows []types.RawMetabolite
		want Summary
	}{
		{
			"missing formula",
			[]types.RawMetabolite{row("a", "A", ""), row("b", "B", "  ")},
			Summary{MissingFormula: 2},
		},
		{
			"placeholder atoms",
			[]types.RawMetabolite{
				row("acyl", "A generic acyl", "C10H18O2R"),
				row("halide", "A halide", "C2H5X"),
			},
			Summary{Placeholder: 2},
		},
		{
			"fractional stoichiometry",
			[]types.RawMetabolite{row("lipid", "Average lipid", "C40.94H73.4O10")},
			Summary{Fractional: 1},
		},
		{
			"malformed",
			[]types.RawMetabolite{row("junk", "Junk", "not a formula")},
			Summary{Malformed: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, summary := Normalize(tt.rows, Options{})
			if len(records) != 0 {
				t.Errorf("records = %v, want none", records)
			}
			if summary != tt.want {
				t.Errorf("summary = %+v, want %+v", summary, tt.want)
			}
		})
	}
}

func TestNormalizeDedupeByNameKeepsFirst(t *testing.T) {
	rows := []types.RawMetabolite{
		chargedRow("glc_c", "D-Glucose", "C6H12O6", 0),
		chargedRow("glc_e", "D-Glucose", "C6H12O6", 0),
		chargedRow("glc_p", "d-glucose", "C6H12O6", 0),
		chargedRow("atp_c", "ATP", "C10H12N5O13P3", -4),
	}

	records, summary := Normalize(rows, Options{DedupeByName: true})
	if summary.Kept != 2 || summary.Duplicates != 2 {
		t.Fatalf("summary = %+v, want Kept 2, Duplicates 2", summary)
	}
	// First occurrence wins.
	if records[0].ID != "glc_c" {
		t.Errorf("records[0].ID = %q, want %q", records[0].ID, "glc_c")
	}
	if records[1].ID != "atp_c" {
		t.Errorf("records[1].ID = %q, want %q", records[1].ID, "atp_c")
	}
}

func TestNormalizeDedupeOffKeepsDistinctIDs(t *testing.T) {
	rows := []types.RawMetabolite{
		row("glc_c", "D-Glucose", "C6H12O6"),
		row("glc_e", "D-Glucose", "C6H12O6"),
	}
	records, _ := Normalize(rows, Options{})
	if len(records) != 2 {
		t.Errorf("len(records) = %d, want 2 (name dedup is opt-in)", len(records))
	}
}

func TestNormalizeAlwaysDedupesByID(t *testing.T) {
	rows := []types.RawMetabolite{
		row("glc_c", "D-Glucose", "C6H12O6"),
		row("glc_c", "Glucose again", "C6H12O6"),
	}
	records, summary := Normalize(rows, Options{})
	if len(records) != 1 || summary.Duplicates != 1 {
		t.Errorf("records = %v, summary = %+v; no two output records may share an id", records, summary)
	}
}

func TestNormalizeBiomassAndExclusions(t *testing.T) {
	rows := []types.RawMetabolite{
		row("bm", "Biomass pseudo-reaction substrate", "C100H200O50"),
		row("Biomass_c", "", "C100H200O50"),
		row("lip", "Lipid backbone", "C3H8O3"),
		row("wat", "Water", "H2O"),
	}
	records, summary := Normalize(rows, Options{ExcludeNames: []string{"Lipid backbone"}})
	if summary.Biomass != 2 {
		t.Errorf("Biomass = %d, want 2", summary.Biomass)
	}
	if summary.Excluded != 1 {
		t.Errorf("Excluded = %d, want 1", summary.Excluded)
	}
	if len(records) != 1 || records[0].ID != "wat" {
		t.Errorf("records = %v, want only water", records)
	}
}

func TestNormalizeChargeDefaultsToZero(t *testing.T) {
	rows := []types.RawMetabolite{
		row("wat", "Water", "H2O"),
		chargedRow("atp", "ATP", "C10H12N5O13P3", -4),
	}
	records, _ := Normalize(rows, Options{})
	if records[0].Charge != 0 {
		t.Errorf("records[0].Charge = %d, want 0 for a source without charge", records[0].Charge)
	}
	if records[1].Charge != -4 {
		t.Errorf("records[1].Charge = %d, want -4", records[1].Charge)
	}
}

func TestNormalizeIDFallsBackToName(t *testing.T) {
	rows := []types.RawMetabolite{{Name: "Water", Formula: "H2O"}}
	records, _ := Normalize(rows, Options{})
	if len(records) != 1 || records[0].ID != "Water" {
		t.Errorf("records = %v, want id fallback to name", records)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	rows := []types.RawMetabolite{
		chargedRow("glc_c", "D-Glucose", "C6H12O6", 0),
		chargedRow("glc_e", "D-Glucose", "C6H12O6", 0),
		row("bad", "Generic", "RX"),
		row("wat", "Water", "H2O"),
	}
	opts := Options{DedupeByName: true}

	first, firstSummary := Normalize(rows, opts)
	second, secondSummary := Normalize(rows, opts)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Normalize is not idempotent: %v vs %v", first, second)
	}
	if firstSummary != secondSummary {
		t.Errorf("summaries differ: %+v vs %+v", firstSummary, secondSummary)
	}
}

// The walkthrough scenario: two identical rows for A and a placeholder
// formula for B yield exactly one record.
func TestNormalizeScenario(t *testing.T) {
	rows := []types.RawMetabolite{
		chargedRow("", "A", "C6H12O6", 0),
		chargedRow("", "A", "C6H12O6", 0),
		chargedRow("", "B", "RX", -1),
	}
	records, summary := Normalize(rows, Options{DedupeByName: true})
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0].Name != "A" || records[0].Formula != "C6H12O6" {
		t.Errorf("records[0] = %+v", records[0])
	}
	if summary.Duplicates != 1 || summary.Placeholder != 1 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestSummaryTotal(t *testing.T) {
	s := Summary{Kept: 3, Duplicates: 2, MissingFormula: 1, Placeholder: 1, Fractional: 1, Malformed: 1, Biomass: 1, Excluded: 1}
	if s.Total() != 11 {
		t.Errorf("Total() = %d, want 11", s.Total())
	}
}
