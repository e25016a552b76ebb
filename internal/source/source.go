// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source loads raw metabolite rows from heterogeneous organism
// sources. Each source kind (workbook sheet, JSON metabolic model, SBML
// model) implements the Adapter interface per the Strategy pattern, so the
// normalizer never sees format-specific structure.
package source

import (
	"errors"
	"fmt"
	"os"

	"github.com/metlabtools/chemref/pkg/types"
)

// Adapter loads one organism source into the uniform raw-row shape.
type Adapter interface {
	Name() string
	Load() ([]types.RawMetabolite, error)
}

// New builds the adapter for a source configuration.
func New(cfg types.SourceConfig) (Adapter, error) {
	switch cfg.Format {
	case types.FormatWorkbook:
		return &WorkbookAdapter{
			Path:     cfg.Path,
			Sheet:    cfg.Sheet,
			SkipRows: cfg.SkipRows,
			Columns:  cfg.Columns,
		}, nil
	case types.FormatJSONModel:
		return &JSONModelAdapter{Path: cfg.Path}, nil
	case types.FormatSBML:
		return &SBMLAdapter{Path: cfg.Path}, nil
	default:
		return nil, fmt.Errorf("unsupported source format %q: use xlsx, json, or sbml", cfg.Format)
	}
}

// NotFoundError reports a source path that does not resolve to a file.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("source file %s does not exist", e.Path)
}

// SchemaError reports an expected sheet, column, or element missing from
// an otherwise readable source.
type SchemaError struct {
	Source  string
	Missing string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing %s", e.Source, e.Missing)
}

// ParseError reports a source file that cannot be parsed at all.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// statSource maps a stat failure on the source path to the error taxonomy.
func statSource(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &NotFoundError{Path: path}
		}
		return fmt.Errorf("checking source %s: %w", path, err)
	}
	return nil
}
