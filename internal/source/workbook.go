// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/metlabtools/chemref/pkg/types"
)

// WorkbookAdapter reads a named sheet of an .xlsx workbook. The first row
// after SkipRows is the header; Columns maps record fields to header names.
type WorkbookAdapter struct {
	Path     string
	Sheet    string
	SkipRows int
	Columns  types.ColumnConfig
}

// Name returns the adapter identifier.
func (a *WorkbookAdapter) Name() string { return "workbook" }

// Load reads the sheet and yields one RawMetabolite per data row. Rows
// that are entirely empty are skipped; a charge cell that does not parse
// as an integer is treated as absent.
func (a *WorkbookAdapter) Load() ([]types.RawMetabolite, error) {
	if err := statSource(a.Path); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(a.Path)
	if err != nil {
		return nil, &ParseError{Source: a.Path, Err: err}
	}
	defer f.Close()

	rows, err := f.GetRows(a.Sheet)
	if err != nil {
		return nil, &SchemaError{Source: a.Path, Missing: fmt.Sprintf("sheet %q", a.Sheet)}
	}
	if len(rows) <= a.SkipRows {
		return nil, &SchemaError{Source: a.Path, Missing: "header row"}
	}

	header := rows[a.SkipRows]
	cols, err := a.resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var out []types.RawMetabolite
	for _, row := range rows[a.SkipRows+1:] {
		m := types.RawMetabolite{
			ID:          cell(row, cols.id),
			Name:        cell(row, cols.name),
			Formula:     cell(row, cols.formula),
			Compartment: cell(row, cols.compartment),
		}
		if m.ID == "" && m.Name == "" && m.Formula == "" {
			continue
		}
		if cols.charge >= 0 {
			if n, err := strconv.Atoi(cell(row, cols.charge)); err == nil {
				m.Charge = n
				m.HasCharge = true
			}
		}
		out = append(out, m)
	}
	return out, nil
}

// columnIndexes holds the resolved zero-based column positions; -1 means
// the field has no column.
type columnIndexes struct {
	id, name, formula, charge, compartment int
}

func (a *WorkbookAdapter) resolveColumns(header []string) (columnIndexes, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}

	find := func(name string, required bool) (int, error) {
		if name == "" {
			return -1, nil
		}
		i, ok := index[name]
		if !ok {
			if required {
				return -1, &SchemaError{
					Source:  a.Path,
					Missing: fmt.Sprintf("column %q in sheet %q", name, a.Sheet),
				}
			}
			return -1, nil
		}
		return i, nil
	}

	var (
		cols columnIndexes
		err  error
	)
	if cols.name, err = find(a.Columns.Name, true); err != nil {
		return cols, err
	}
	if cols.formula, err = find(a.Columns.Formula, true); err != nil {
		return cols, err
	}
	if cols.name < 0 {
		return cols, &SchemaError{Source: a.Path, Missing: "name column mapping"}
	}
	if cols.formula < 0 {
		return cols, &SchemaError{Source: a.Path, Missing: "formula column mapping"}
	}
	if cols.id, err = find(a.Columns.ID, true); err != nil {
		return cols, err
	}
	if cols.charge, err = find(a.Columns.Charge, true); err != nil {
		return cols, err
	}
	if cols.compartment, err = find(a.Columns.Compartment, true); err != nil {
		return cols, err
	}
	return cols, nil
}

// cell returns the trimmed cell value at index i, or "" past the row end.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
