// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"encoding/xml"
	"os"
	"strconv"

	"github.com/metlabtools/chemref/pkg/types"
)

// fbcNS is the SBML fbc extension namespace that carries chemical formula
// and charge annotations on species.
const fbcNS = "http://www.sbml.org/sbml/level3/version1/fbc/version2"

// SBMLAdapter reads an SBML model file and yields its species list.
type SBMLAdapter struct {
	Path string
}

// Name returns the adapter identifier.
func (a *SBMLAdapter) Name() string { return "sbml" }

// SBML XML structures. Charge appears either as the fbc:charge attribute
// (level 3) or the plain charge attribute (level 2), so both are decoded.
type sbmlDocument struct {
	XMLName xml.Name  `xml:"sbml"`
	Model   sbmlModel `xml:"model"`
}

type sbmlModel struct {
	ID      string        `xml:"id,attr"`
	Species []sbmlSpecies `xml:"listOfSpecies>species"`
}

type sbmlSpecies struct {
	ID          string `xml:"id,attr"`
	Name        string `xml:"name,attr"`
	Compartment string `xml:"compartment,attr"`
	Formula     string `xml:"http://www.sbml.org/sbml/level3/version1/fbc/version2 chemicalFormula,attr"`
	FBCCharge   string `xml:"http://www.sbml.org/sbml/level3/version1/fbc/version2 charge,attr"`
	Charge      string `xml:"charge,attr"`
}

// Load parses the model file and returns its species in document order.
func (a *SBMLAdapter) Load() ([]types.RawMetabolite, error) {
	if err := statSource(a.Path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, &ParseError{Source: a.Path, Err: err}
	}

	var doc sbmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Source: a.Path, Err: err}
	}
	if len(doc.Model.Species) == 0 {
		return nil, &SchemaError{Source: a.Path, Missing: "listOfSpecies"}
	}

	out := make([]types.RawMetabolite, 0, len(doc.Model.Species))
	for _, sp := range doc.Model.Species {
		m := types.RawMetabolite{
			ID:          sp.ID,
			Name:        sp.Name,
			Formula:     sp.Formula,
			Compartment: sp.Compartment,
		}
		chargeAttr := sp.FBCCharge
		if chargeAttr == "" {
			chargeAttr = sp.Charge
		}
		if chargeAttr != "" {
			if n, err := strconv.Atoi(chargeAttr); err == nil {
				m.Charge = n
				m.HasCharge = true
			}
		}
		out = append(out, m)
	}
	return out, nil
}
