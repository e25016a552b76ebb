// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"encoding/json"
	"os"

	"github.com/metlabtools/chemref/pkg/types"
)

// JSONModelAdapter reads a COBRA-style JSON metabolic model and yields its
// metabolite collection.
type JSONModelAdapter struct {
	Path string
}

// Name returns the adapter identifier.
func (a *JSONModelAdapter) Name() string { return "json-model" }

// JSON model structures. Charge is a pointer so a model without charge
// annotations is distinguishable from an explicit zero.
type jsonModel struct {
	ID          string           `json:"id"`
	Metabolites []jsonMetabolite `json:"metabolites"`
}

type jsonMetabolite struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Formula     string `json:"formula"`
	Charge      *int   `json:"charge"`
	Compartment string `json:"compartment"`
}

// Load parses the model file and returns its metabolites in model order.
func (a *JSONModelAdapter) Load() ([]types.RawMetabolite, error) {
	if err := statSource(a.Path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, &ParseError{Source: a.Path, Err: err}
	}

	var model jsonModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, &ParseError{Source: a.Path, Err: err}
	}
	if model.Metabolites == nil {
		return nil, &SchemaError{Source: a.Path, Missing: "metabolites collection"}
	}

	out := make([]types.RawMetabolite, 0, len(model.Metabolites))
	for _, met := range model.Metabolites {
		m := types.RawMetabolite{
			ID:          met.ID,
			Name:        met.Name,
			Formula:     met.Formula,
			Compartment: met.Compartment,
		}
		if met.Charge != nil {
			m.Charge = *met.Charge
			m.HasCharge = true
		}
		out = append(out, m)
	}
	return out, nil
}
