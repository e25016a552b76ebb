// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/metlabtools/chemref/internal/chemdb"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Query a built reference database by mass or name",
	Long: `Lookup searches one organism's reference database. A mass query returns
compounds whose monoisotopic mass falls within --tolerance of --mass,
nearest first; a name query matches compound names and identifiers by
substring.`,
	RunE: runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	var compounds []chemdb.Compound

	massQuery := cmd.Flags().Changed("mass")
	nameQuery, _ := cmd.Flags().GetString("name")
	switch {
	case massQuery && nameQuery != "":
		return fmt.Errorf("use either --mass or --name, not both")
	case massQuery:
		mass, _ := cmd.Flags().GetFloat64("mass")
		tolerance, _ := cmd.Flags().GetFloat64("tolerance")
		compounds, err = store.LookupMass(ctx, mass, tolerance)
	case nameQuery != "":
		compounds, err = store.LookupName(ctx, nameQuery)
	default:
		return fmt.Errorf("provide --mass or --name")
	}
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(compounds)
	}

	printCompoundTable(store.Organism(), compounds)
	return nil
}

// openStore resolves the database location from --db, or from
// --organism plus the output directory.
func openStore(cmd *cobra.Command) (*chemdb.Store, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		organism, _ := cmd.Flags().GetString("organism")
		if organism == "" {
			return nil, fmt.Errorf("provide --db or --organism")
		}
		dbPath = chemdb.DatabasePath(outputDir(cmd), organism)
	}
	return chemdb.Open(dbPath)
}

func printCompoundTable(organism string, compounds []chemdb.Compound) {
	if len(compounds) == 0 {
		fmt.Println("No matches.")
		return
	}

	rows := make([][]string, 0, len(compounds))
	for _, c := range compounds {
		mass := ""
		if c.HasMass {
			mass = strconv.FormatFloat(c.Mass, 'f', 4, 64)
		}
		rows = append(rows, []string{c.ID, c.Formula, strconv.Itoa(c.Charge), mass, c.Name})
	}
	fmt.Println(renderTable(
		[]string{"ID", "Formula", "Charge", "Mass", "Name"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	))
	fmt.Printf("%d match(es) in %s\n", len(compounds), organism)
}

func init() {
	lookupCmd.Flags().String("db", "", "database file to query")
	lookupCmd.Flags().String("organism", "", "organism label (database under the output directory)")
	lookupCmd.Flags().Float64("mass", 0, "monoisotopic mass to match")
	lookupCmd.Flags().Float64("tolerance", 0.005, "mass window half-width in Da")
	lookupCmd.Flags().String("name", "", "name or identifier substring to match")
	lookupCmd.Flags().Bool("json", false, "output matches as JSON")

	rootCmd.AddCommand(lookupCmd)
}
