// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one organism's database build end to end: load the
// source, normalize the rows, partition by compartment when configured, and
// hand each output list to the database builder. Organism runs are
// independent; a failure aborts only the current organism.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/metlabtools/chemref/internal/chemdb"
	"github.com/metlabtools/chemref/internal/compartment"
	"github.com/metlabtools/chemref/internal/normalize"
	"github.com/metlabtools/chemref/internal/source"
	"github.com/metlabtools/chemref/pkg/types"
)

// Partition labels used to name the output databases of a
// compartment-split organism.
const (
	intracellularSuffix = "_intracellular"
	extracellularSuffix = "_extracellular"
)

// Result holds the outcome of one organism run.
type Result struct {
	Organism  string
	Loaded    int
	Normalize normalize.Summary

	// Supplement is set when a supplementary source was merged.
	Supplement *compartment.SupplementSummary

	// Built maps each output database label to its build summary. A
	// compartment-split organism has two entries, others one.
	Built map[string]chemdb.BuildSummary
}

// Run executes the pipeline for one organism, writing databases under
// destDir and progress lines to w.
func Run(ctx context.Context, org types.OrganismConfig, destDir string, w io.Writer) (Result, error) {
	res := Result{Organism: org.Name, Built: make(map[string]chemdb.BuildSummary)}
	if org.Name == "" {
		return res, fmt.Errorf("organism has no name")
	}

	adapter, err := source.New(org.Source)
	if err != nil {
		return res, err
	}
	rows, err := adapter.Load()
	if err != nil {
		return res, fmt.Errorf("loading %s source for %s: %w", adapter.Name(), org.Name, err)
	}
	res.Loaded = len(rows)
	fmt.Fprintf(w, "%s: loaded %d rows from %s\n", org.Name, len(rows), org.Source.Path)

	records, summary := normalize.Normalize(rows, normalize.Options{
		DedupeByName: org.Rules.DedupeByName,
		ExcludeNames: org.Rules.ExcludeNames,
	})
	res.Normalize = summary
	fmt.Fprintf(w, "%s: %d of %d rows normalized (%d duplicates, %d missing formula, %d placeholder, %d fractional, %d malformed, %d biomass, %d excluded)\n",
		org.Name, summary.Kept, summary.Total(), summary.Duplicates, summary.MissingFormula,
		summary.Placeholder, summary.Fractional, summary.Malformed, summary.Biomass, summary.Excluded)

	if org.Compartments == nil {
		built, err := chemdb.Build(ctx, records, org.Name, destDir, w)
		if err != nil {
			return res, fmt.Errorf("building database for %s: %w", org.Name, err)
		}
		res.Built[org.Name] = built
		return res, nil
	}

	intra, extra := compartment.Partition(records, org.Compartments.Marker)
	fmt.Fprintf(w, "%s: partitioned into %d intracellular, %d extracellular\n", org.Name, len(intra), len(extra))

	if org.Compartments.Supplementary != nil {
		suppAdapter, err := source.New(*org.Compartments.Supplementary)
		if err != nil {
			return res, err
		}
		suppRows, err := suppAdapter.Load()
		if err != nil {
			return res, fmt.Errorf("loading supplementary source for %s: %w", org.Name, err)
		}
		var supp compartment.SupplementSummary
		intra, extra, supp = compartment.AppendSupplementary(intra, extra, suppRows)
		res.Supplement = &supp
		fmt.Fprintf(w, "%s: %d supplementary metabolites added to both partitions (%d discarded)\n",
			org.Name, supp.Added, supp.Discarded)
	}

	for _, part := range []struct {
		label   string
		records []types.MetaboliteRecord
	}{
		{org.Name + intracellularSuffix, intra},
		{org.Name + extracellularSuffix, extra},
	} {
		built, err := chemdb.Build(ctx, part.records, part.label, destDir, w)
		if err != nil {
			return res, fmt.Errorf("building database %s: %w", part.label, err)
		}
		res.Built[part.label] = built
	}
	return res, nil
}
