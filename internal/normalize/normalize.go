// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize maps raw source rows onto canonical metabolite records
// and discards entries that cannot feed the database builder. Every drop is
// deliberate and counted, never an error.
package normalize

import (
	"errors"
	"strings"

	"github.com/metlabtools/chemref/internal/formula"
	"github.com/metlabtools/chemref/pkg/types"
)

// Options holds the organism-specific cleaning rules.
type Options struct {
	// DedupeByName drops rows repeating a natural-name key, keeping the
	// first occurrence. Sources that list one metabolite per compartment
	// repeat names.
	DedupeByName bool

	// ExcludeNames lists descriptions dropped by exact match.
	ExcludeNames []string
}

// Summary counts the fate of every input row.
type Summary struct {
	Kept           int `json:"kept" yaml:"kept"`
	Duplicates     int `json:"duplicates" yaml:"duplicates"`
	MissingFormula int `json:"missing_formula" yaml:"missing_formula"`
	Placeholder    int `json:"placeholder" yaml:"placeholder"`
	Fractional     int `json:"fractional" yaml:"fractional"`
	Malformed      int `json:"malformed" yaml:"malformed"`
	Biomass        int `json:"biomass" yaml:"biomass"`
	Excluded       int `json:"excluded" yaml:"excluded"`
}

// Total returns the number of input rows processed.
func (s Summary) Total() int {
	return s.Kept + s.Duplicates + s.MissingFormula + s.Placeholder +
		s.Fractional + s.Malformed + s.Biomass + s.Excluded
}

// Normalize maps rows to MetaboliteRecords in input order. It is a pure
// function of its arguments: running it twice on the same input yields the
// same output. Records always dedupe by ID so the builder never sees two
// records sharing one identifier; name-key dedup is opt-in per source.
func Normalize(rows []types.RawMetabolite, opts Options) ([]types.MetaboliteRecord, Summary) {
	var (
		records   []types.MetaboliteRecord
		summary   Summary
		seenIDs   = make(map[string]bool, len(rows))
		seenNames = make(map[string]bool, len(rows))
		excluded  = make(map[string]bool, len(opts.ExcludeNames))
	)
	for _, name := range opts.ExcludeNames {
		excluded[strings.TrimSpace(name)] = true
	}

	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		id := strings.TrimSpace(row.ID)
		if id == "" {
			id = name
		}

		if excluded[name] {
			summary.Excluded++
			continue
		}
		if isBiomass(id) || isBiomass(name) {
			summary.Biomass++
			continue
		}
		if strings.TrimSpace(row.Formula) == "" {
			summary.MissingFormula++
			continue
		}
		if opts.DedupeByName {
			key := strings.ToLower(name)
			if key != "" && seenNames[key] {
				summary.Duplicates++
				continue
			}
		}
		if seenIDs[id] {
			summary.Duplicates++
			continue
		}

		charge := 0
		if row.HasCharge {
			charge = row.Charge
		}
		rec, err := types.NewMetaboliteRecord(id, row.Formula, charge, name)
		if err != nil {
			switch {
			case errors.Is(err, formula.ErrPlaceholder):
				summary.Placeholder++
			case errors.Is(err, formula.ErrFractional):
				summary.Fractional++
			default:
				summary.Malformed++
			}
			continue
		}

		seenIDs[id] = true
		if opts.DedupeByName && name != "" {
			seenNames[strings.ToLower(name)] = true
		}
		records = append(records, rec)
		summary.Kept++
	}
	return records, summary
}

// isBiomass reports whether a description marks a biomass pseudo-metabolite,
// the synthetic growth aggregate metabolic models carry.
func isBiomass(s string) bool {
	return strings.Contains(strings.ToLower(s), "biomass")
}
