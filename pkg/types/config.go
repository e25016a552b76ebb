// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SourceFormat identifies the kind of metabolite source file.
type SourceFormat string

const (
	FormatWorkbook  SourceFormat = "xlsx"
	FormatJSONModel SourceFormat = "json"
	FormatSBML      SourceFormat = "sbml"
)

// ColumnConfig names the workbook columns each record field is read from.
// Only Name and Formula are required; the rest default when empty.
type ColumnConfig struct {
	// ID is the identifier column. When empty, the normalizer derives the
	// identifier from the name.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Name is the description column (required for workbooks).
	Name string `json:"name" yaml:"name"`

	// Formula is the elemental composition column (required for workbooks).
	Formula string `json:"formula" yaml:"formula"`

	// Charge is the net charge column. When empty, charge defaults to 0.
	Charge string `json:"charge,omitempty" yaml:"charge,omitempty"`

	// Compartment is the cellular location column, when the sheet has one.
	Compartment string `json:"compartment,omitempty" yaml:"compartment,omitempty"`
}

// SourceConfig describes one metabolite source file.
type SourceConfig struct {
	// Format selects the adapter: xlsx, json, or sbml.
	Format SourceFormat `json:"format" yaml:"format"`

	// Path is the source file location.
	Path string `json:"path" yaml:"path"`

	// Sheet is the workbook sheet name (xlsx only).
	Sheet string `json:"sheet,omitempty" yaml:"sheet,omitempty"`

	// SkipRows is the number of leading rows to skip before the header
	// row (xlsx only).
	SkipRows int `json:"skip_rows,omitempty" yaml:"skip_rows,omitempty"`

	// Columns maps record fields to sheet columns (xlsx only).
	Columns ColumnConfig `json:"columns,omitempty" yaml:"columns,omitempty"`
}

// NormalizeConfig holds the organism-specific cleaning rules.
type NormalizeConfig struct {
	// DedupeByName drops repeated metabolites sharing a natural-name key,
	// keeping the first occurrence. Used for sources that repeat one
	// metabolite across compartments.
	DedupeByName bool `json:"dedupe_by_name" yaml:"dedupe_by_name"`

	// ExcludeNames lists descriptions excluded by exact match.
	ExcludeNames []string `json:"exclude_names,omitempty" yaml:"exclude_names,omitempty"`
}

// CompartmentConfig controls intracellular/extracellular partitioning.
type CompartmentConfig struct {
	// Marker is the trailing identifier tag denoting the extracellular
	// compartment (e.g. "[e]").
	Marker string `json:"marker" yaml:"marker"`

	// Supplementary is an optional secondary-metabolite source without
	// compartment tags; its records are appended to both partitions.
	Supplementary *SourceConfig `json:"supplementary,omitempty" yaml:"supplementary,omitempty"`
}

// OrganismConfig describes one organism's database build.
type OrganismConfig struct {
	// Name is the organism label; it names the output database.
	Name string `json:"name" yaml:"name"`

	// Source is the metabolite list to load.
	Source SourceConfig `json:"source" yaml:"source"`

	// Rules holds the organism's normalization rules.
	Rules NormalizeConfig `json:"rules,omitempty" yaml:"rules,omitempty"`

	// Compartments enables compartment partitioning for this organism.
	// Nil means a single undivided output database.
	Compartments *CompartmentConfig `json:"compartments,omitempty" yaml:"compartments,omitempty"`
}

// DatabaseConfig holds settings for the database build stage.
type DatabaseConfig struct {
	// OutputDir is the destination directory for per-organism databases
	// and build reports.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}
