// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a built reference database to YAML or JSON",
	Long: `Export dumps one organism's reference database — compounds, charges,
compositions, and monoisotopic masses — to a YAML or JSON file next to the
database.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	format, _ := cmd.Flags().GetString("format")
	ctx := context.Background()

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(ctx)
	case "json":
		path, err = store.ExportJSON(ctx)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported to %s\n", path)
	return nil
}

func init() {
	exportCmd.Flags().String("db", "", "database file to export")
	exportCmd.Flags().String("organism", "", "organism label (database under the output directory)")
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	rootCmd.AddCommand(exportCmd)
}
