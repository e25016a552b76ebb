// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the record and configuration structs shared across
// pipeline stages.
package types

import (
	"fmt"
	"strings"

	"github.com/metlabtools/chemref/internal/formula"
)

// RawMetabolite is the uniform raw-row shape every source adapter produces.
// Fields the source does not carry stay zero; HasCharge distinguishes a
// genuine zero charge from an absent charge column.
type RawMetabolite struct {
	// ID is the source-local metabolite identifier. Adapters that read
	// sources without an identifier column leave it empty and the
	// normalizer falls back to the name.
	ID string `json:"id" yaml:"id"`

	// Name is the human-readable description.
	Name string `json:"name" yaml:"name"`

	// Formula is the elemental composition string as found in the source.
	Formula string `json:"formula" yaml:"formula"`

	// Charge is the net ionic charge, valid only when HasCharge is true.
	Charge int `json:"charge" yaml:"charge"`

	// HasCharge reports whether the source carried charge information.
	HasCharge bool `json:"has_charge" yaml:"has_charge"`

	// Compartment is the cellular location tag, when the source carries one.
	Compartment string `json:"compartment,omitempty" yaml:"compartment,omitempty"`
}

// MetaboliteRecord is the canonical unit handed to the database builder:
// a metabolite with a concrete elemental composition. Construct through
// NewMetaboliteRecord so an invalid formula can never reach the builder.
type MetaboliteRecord struct {
	// ID is a stable organism-local identifier, unique within one
	// organism's output list.
	ID string `json:"id" yaml:"id"`

	// Formula is the elemental composition (e.g. "C6H12O6"). It parses
	// to integer atom counts with no placeholder atoms.
	Formula string `json:"formula" yaml:"formula"`

	// Charge is the net ionic charge; zero when the source had none.
	Charge int `json:"charge" yaml:"charge"`

	// Name is the human-readable description; may be empty or repeated
	// across records.
	Name string `json:"name" yaml:"name"`
}

// NewMetaboliteRecord validates the formula and returns a record. The
// formula must resolve to a concrete elemental composition: placeholder
// atoms (R, X) and non-integer stoichiometry are rejected here rather
// than at the call sites that consume the record.
func NewMetaboliteRecord(id, formulaStr string, charge int, name string) (MetaboliteRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return MetaboliteRecord{}, fmt.Errorf("metabolite record needs a non-empty id")
	}
	formulaStr = strings.TrimSpace(formulaStr)
	if _, err := formula.Parse(formulaStr); err != nil {
		return MetaboliteRecord{}, fmt.Errorf("metabolite %s: %w", id, err)
	}
	return MetaboliteRecord{
		ID:      id,
		Formula: formulaStr,
		Charge:  charge,
		Name:    strings.TrimSpace(name),
	}, nil
}
