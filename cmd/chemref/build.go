// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/metlabtools/chemref/internal/pipeline"
	"github.com/metlabtools/chemref/pkg/types"
)

var buildCmd = &cobra.Command{
	Use:   "build [organism...]",
	Short: "Build reference databases for one or more organisms",
	Long: `Build runs the full pipeline for each named organism: load the source,
normalize the metabolite list, partition by compartment when configured, and
persist the reference database(s) plus a build report.

Organisms are config presets named as arguments (or all presets with --all),
or a single ad-hoc organism described entirely by flags with --source.
Organisms are processed one at a time; a failing organism does not stop the
remaining ones.`,
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	organisms, err := selectOrganisms(cmd, args)
	if err != nil {
		return err
	}

	destDir := outputDir(cmd)
	ctx := context.Background()
	failed := 0

	for _, org := range organisms {
		res, err := pipeline.Run(ctx, org, destDir, os.Stdout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %s: %v\n", org.Name, err)
			failed++
			continue
		}
		report := pipeline.NewReport(org, res)
		if err := pipeline.WriteReport(pipeline.ReportPath(destDir, org.Name), report); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %s: writing report: %v\n", org.Name, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d organism(s) failed", failed)
	}
	return nil
}

// selectOrganisms resolves the set of organism configurations to build:
// an ad-hoc one from flags, all config presets, or the named presets.
func selectOrganisms(cmd *cobra.Command, args []string) ([]types.OrganismConfig, error) {
	if sourcePath, _ := cmd.Flags().GetString("source"); sourcePath != "" {
		org, err := organismFromFlags(cmd)
		if err != nil {
			return nil, err
		}
		return []types.OrganismConfig{org}, nil
	}

	presets, err := presetOrganisms()
	if err != nil {
		return nil, err
	}

	if all, _ := cmd.Flags().GetBool("all"); all {
		if len(presets) == 0 {
			return nil, fmt.Errorf("no organisms defined in config (see the organisms: section)")
		}
		return presets, nil
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("name an organism preset, use --all, or describe one with --source")
	}

	byName := make(map[string]types.OrganismConfig, len(presets))
	for _, p := range presets {
		byName[p.Name] = p
	}
	var out []types.OrganismConfig
	for _, name := range args {
		org, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("organism %q is not defined in config", name)
		}
		out = append(out, org)
	}
	return out, nil
}

// presetOrganisms reads the organisms: section of the config file.
func presetOrganisms() ([]types.OrganismConfig, error) {
	var organisms []types.OrganismConfig
	if err := viper.UnmarshalKey("organisms", &organisms); err != nil {
		return nil, fmt.Errorf("reading organisms from config: %w", err)
	}
	return organisms, nil
}

// organismFromFlags assembles a single ad-hoc organism configuration.
func organismFromFlags(cmd *cobra.Command) (types.OrganismConfig, error) {
	name, _ := cmd.Flags().GetString("organism")
	if name == "" {
		return types.OrganismConfig{}, fmt.Errorf("--organism is required with --source")
	}

	sourcePath, _ := cmd.Flags().GetString("source")
	format, _ := cmd.Flags().GetString("format")
	sheet, _ := cmd.Flags().GetString("sheet")
	skipRows, _ := cmd.Flags().GetInt("skip-rows")
	idCol, _ := cmd.Flags().GetString("id-column")
	nameCol, _ := cmd.Flags().GetString("name-column")
	formulaCol, _ := cmd.Flags().GetString("formula-column")
	chargeCol, _ := cmd.Flags().GetString("charge-column")
	dedupe, _ := cmd.Flags().GetBool("dedupe")
	exclude, _ := cmd.Flags().GetString("exclude")
	marker, _ := cmd.Flags().GetString("marker")

	org := types.OrganismConfig{
		Name: name,
		Source: types.SourceConfig{
			Format:   types.SourceFormat(format),
			Path:     sourcePath,
			Sheet:    sheet,
			SkipRows: skipRows,
			Columns: types.ColumnConfig{
				ID:      idCol,
				Name:    nameCol,
				Formula: formulaCol,
				Charge:  chargeCol,
			},
		},
		Rules: types.NormalizeConfig{
			DedupeByName: dedupe,
		},
	}
	if exclude != "" {
		org.Rules.ExcludeNames = splitList(exclude)
	}
	if marker != "" {
		org.Compartments = &types.CompartmentConfig{Marker: marker}
	}
	return org, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// outputDir resolves the destination directory: flag first, then config,
// then the default.
func outputDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" && cmd.Flags().Changed("output-dir") {
		return dir
	}
	if dir := viper.GetString("database.output_dir"); dir != "" {
		return dir
	}
	dir, _ := cmd.Flags().GetString("output-dir")
	if dir == "" {
		dir = "db"
	}
	return dir
}

func init() {
	buildCmd.Flags().Bool("all", false, "build every organism defined in config")
	buildCmd.Flags().String("organism", "", "organism label for an ad-hoc build")
	buildCmd.Flags().String("source", "", "source file for an ad-hoc build")
	buildCmd.Flags().String("format", "xlsx", "source format: xlsx, json, or sbml")
	buildCmd.Flags().String("sheet", "", "workbook sheet name (xlsx)")
	buildCmd.Flags().Int("skip-rows", 0, "rows to skip before the header row (xlsx)")
	buildCmd.Flags().String("id-column", "", "identifier column name (xlsx)")
	buildCmd.Flags().String("name-column", "", "description column name (xlsx)")
	buildCmd.Flags().String("formula-column", "", "formula column name (xlsx)")
	buildCmd.Flags().String("charge-column", "", "charge column name (xlsx)")
	buildCmd.Flags().Bool("dedupe", false, "drop repeated metabolites by name, keeping the first")
	buildCmd.Flags().String("exclude", "", "descriptions to exclude, comma-separated")
	buildCmd.Flags().String("marker", "", "extracellular identifier suffix (e.g. \"[e]\") to split compartments")

	rootCmd.AddCommand(buildCmd)
}
