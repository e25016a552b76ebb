// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compartment splits metabolite records into intracellular and
// extracellular partitions based on a trailing identifier marker, and
// merges compartment-less supplementary sources into both partitions.
package compartment

import (
	"strconv"
	"strings"

	"github.com/metlabtools/chemref/pkg/types"
)

// Partition routes records whose ID ends with marker to the extracellular
// list and everything else to the intracellular list. Order is preserved
// within each partition.
func Partition(records []types.MetaboliteRecord, marker string) (intra, extra []types.MetaboliteRecord) {
	for _, rec := range records {
		if marker != "" && strings.HasSuffix(rec.ID, marker) {
			extra = append(extra, rec)
		} else {
			intra = append(intra, rec)
		}
	}
	return intra, extra
}

// SupplementSummary counts the fate of supplementary rows.
type SupplementSummary struct {
	Added     int `json:"added" yaml:"added"`
	Discarded int `json:"discarded" yaml:"discarded"`
}

// AppendSupplementary merges secondary-metabolite rows into both
// partitions. These sources carry no compartment tag; the metabolites are
// assumed able to exist in either compartment. A row whose formula field is
// purely numeric is source noise (a spreadsheet mass column bleeding into
// the formula column) and is discarded, as is any row whose formula fails
// validation. The record ID is the name with whitespace removed. Rows whose
// derived ID already exists in a partition are skipped there, keeping IDs
// unique per output list.
func AppendSupplementary(intra, extra []types.MetaboliteRecord, rows []types.RawMetabolite) ([]types.MetaboliteRecord, []types.MetaboliteRecord, SupplementSummary) {
	var summary SupplementSummary

	intraIDs := idSet(intra)
	extraIDs := idSet(extra)

	for _, row := range rows {
		f := strings.TrimSpace(row.Formula)
		if _, err := strconv.ParseFloat(f, 64); err == nil {
			summary.Discarded++
			continue
		}

		id := strings.Join(strings.Fields(row.Name), "")
		charge := 0
		if row.HasCharge {
			charge = row.Charge
		}
		rec, err := types.NewMetaboliteRecord(id, f, charge, row.Name)
		if err != nil {
			summary.Discarded++
			continue
		}

		added := false
		if !intraIDs[rec.ID] {
			intra = append(intra, rec)
			intraIDs[rec.ID] = true
			added = true
		}
		if !extraIDs[rec.ID] {
			extra = append(extra, rec)
			extraIDs[rec.ID] = true
			added = true
		}
		if added {
			summary.Added++
		} else {
			summary.Discarded++
		}
	}
	return intra, extra, summary
}

func idSet(records []types.MetaboliteRecord) map[string]bool {
	ids := make(map[string]bool, len(records))
	for _, rec := range records {
		ids[rec.ID] = true
	}
	return ids
}
