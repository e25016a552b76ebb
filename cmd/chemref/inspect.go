// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/metlabtools/chemref/internal/normalize"
	"github.com/metlabtools/chemref/internal/pipeline"
	"github.com/metlabtools/chemref/internal/source"
	"github.com/metlabtools/chemref/pkg/types"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Load and normalize a source without building a database",
	Long: `Inspect runs the loader and normalizer for one organism and prints what
every row became: the kept records and the per-rule drop counts. Use it to
check a new source or rule set before building.

The organism comes from a config preset (--organism with a preset name) or
from the same ad-hoc flags build accepts.`,
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	org, err := inspectOrganism(cmd)
	if err != nil {
		return err
	}

	adapter, err := source.New(org.Source)
	if err != nil {
		return err
	}
	rows, err := adapter.Load()
	if err != nil {
		return fmt.Errorf("loading %s source: %w", adapter.Name(), err)
	}

	records, summary := normalize.Normalize(rows, normalize.Options{
		DedupeByName: org.Rules.DedupeByName,
		ExcludeNames: org.Rules.ExcludeNames,
	})

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return err
		}
	} else {
		limit, _ := cmd.Flags().GetInt("limit")
		printRecordTable(records, limit)
	}

	fmt.Printf("\n%d rows loaded, %d records kept\n", len(rows), summary.Kept)
	printDropCounts(summary)

	if reportPath, _ := cmd.Flags().GetString("report"); reportPath != "" {
		report := pipeline.NewReport(org, pipeline.Result{
			Organism:  org.Name,
			Loaded:    len(rows),
			Normalize: summary,
		})
		if err := pipeline.WriteReport(reportPath, report); err != nil {
			return err
		}
		fmt.Printf("report written to %s\n", reportPath)
	}
	return nil
}

// inspectOrganism resolves the organism to inspect: a named preset when no
// --source is given, an ad-hoc flag organism otherwise.
func inspectOrganism(cmd *cobra.Command) (types.OrganismConfig, error) {
	if sourcePath, _ := cmd.Flags().GetString("source"); sourcePath != "" {
		return organismFromFlags(cmd)
	}

	name, _ := cmd.Flags().GetString("organism")
	if name == "" {
		return types.OrganismConfig{}, fmt.Errorf("provide --source or name a config preset with --organism")
	}
	presets, err := presetOrganisms()
	if err != nil {
		return types.OrganismConfig{}, err
	}
	for _, p := range presets {
		if p.Name == name {
			return p, nil
		}
	}
	return types.OrganismConfig{}, fmt.Errorf("organism %q is not defined in config", name)
}

func printRecordTable(records []types.MetaboliteRecord, limit int) {
	if len(records) == 0 {
		fmt.Println("No records.")
		return
	}

	shown := records
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	rows := make([][]string, 0, len(shown))
	for _, rec := range shown {
		rows = append(rows, []string{rec.ID, rec.Formula, strconv.Itoa(rec.Charge), rec.Name})
	}
	fmt.Println(renderTable(
		[]string{"ID", "Formula", "Charge", "Name"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	))
	if len(shown) < len(records) {
		fmt.Printf("(%d of %d records shown)\n", len(shown), len(records))
	}
}

func printDropCounts(s normalize.Summary) {
	drops := []struct {
		label string
		count int
	}{
		{"duplicates", s.Duplicates},
		{"missing formula", s.MissingFormula},
		{"placeholder formula", s.Placeholder},
		{"fractional formula", s.Fractional},
		{"malformed formula", s.Malformed},
		{"biomass", s.Biomass},
		{"excluded by name", s.Excluded},
	}
	for _, d := range drops {
		if d.count > 0 {
			fmt.Printf("  dropped %d (%s)\n", d.count, d.label)
		}
	}
}

func init() {
	inspectCmd.Flags().String("organism", "", "config preset name or label for an ad-hoc source")
	inspectCmd.Flags().String("source", "", "source file for an ad-hoc inspection")
	inspectCmd.Flags().String("format", "xlsx", "source format: xlsx, json, or sbml")
	inspectCmd.Flags().String("sheet", "", "workbook sheet name (xlsx)")
	inspectCmd.Flags().Int("skip-rows", 0, "rows to skip before the header row (xlsx)")
	inspectCmd.Flags().String("id-column", "", "identifier column name (xlsx)")
	inspectCmd.Flags().String("name-column", "", "description column name (xlsx)")
	inspectCmd.Flags().String("formula-column", "", "formula column name (xlsx)")
	inspectCmd.Flags().String("charge-column", "", "charge column name (xlsx)")
	inspectCmd.Flags().Bool("dedupe", false, "drop repeated metabolites by name, keeping the first")
	inspectCmd.Flags().String("exclude", "", "descriptions to exclude, comma-separated")
	inspectCmd.Flags().String("marker", "", "extracellular identifier suffix (unused by inspect, accepted for flag parity)")
	inspectCmd.Flags().Int("limit", 20, "maximum records to print (0 = all)")
	inspectCmd.Flags().Bool("json", false, "output records as JSON")
	inspectCmd.Flags().String("report", "", "write a YAML report to this path")

	rootCmd.AddCommand(inspectCmd)
}
