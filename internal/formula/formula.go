// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package formula parses elemental composition strings and computes
// monoisotopic masses. Formulas that cannot resolve to a concrete
// composition (placeholder atoms, fractional stoichiometry) are rejected
// here, which is what keeps them out of every downstream stage.
package formula

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Validation failures, matched by callers with errors.Is.
var (
	// ErrEmpty marks a missing or blank formula.
	ErrEmpty = errors.New("formula is empty")

	// ErrPlaceholder marks a formula with a generic rest-of-molecule (R)
	// or halogen (X) placeholder atom.
	ErrPlaceholder = errors.New("formula contains a placeholder atom")

	// ErrFractional marks non-integer stoichiometry (a decimal point in
	// an atom count). Averaged compositions cannot be used for
	// exact-mass matching.
	ErrFractional = errors.New("formula has non-integer stoichiometry")

	// ErrMalformed marks a formula that does not scan as a sequence of
	// element symbols and counts.
	ErrMalformed = errors.New("formula is malformed")
)

// placeholderAtoms are symbols metabolic models use for unspecified
// substituents. They scan like element symbols but have no composition.
var placeholderAtoms = map[string]bool{
	"R": true,
	"X": true,
}

// Composition maps element symbols to atom counts.
type Composition map[string]int

// Elements returns the element symbols in lexical order.
func (c Composition) Elements() []string {
	elems := make([]string, 0, len(c))
	for e := range c {
		elems = append(elems, e)
	}
	sort.Strings(elems)
	return elems
}

// Parse resolves a formula string like "C6H12O6" into a Composition.
// A symbol is an uppercase letter followed by optional lowercase letters;
// a missing count means 1. Placeholder atoms and decimal counts fail with
// ErrPlaceholder and ErrFractional respectively.
func Parse(s string) (Composition, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmpty
	}
	if strings.Contains(s, ".") {
		return nil, fmt.Errorf("%q: %w", s, ErrFractional)
	}

	comp := make(Composition)
	i := 0
	for i < len(s) {
		if s[i] < 'A' || s[i] > 'Z' {
			return nil, fmt.Errorf("%q: unexpected %q at position %d: %w", s, s[i], i, ErrMalformed)
		}
		j := i + 1
		for j < len(s) && s[j] >= 'a' && s[j] <= 'z' {
			j++
		}
		symbol := s[i:j]
		if placeholderAtoms[symbol] {
			return nil, fmt.Errorf("%q: atom %s: %w", s, symbol, ErrPlaceholder)
		}

		k := j
		for k < len(s) && s[k] >= '0' && s[k] <= '9' {
			k++
		}
		count := 1
		if k > j {
			n, err := strconv.Atoi(s[j:k])
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("%q: bad count for %s: %w", s, symbol, ErrMalformed)
			}
			count = n
		}

		comp[symbol] += count
		i = k
	}
	return comp, nil
}

// monoisotopicMasses lists the mass of the most abundant isotope for the
// elements that occur in biological metabolite formulas.
var monoisotopicMasses = map[string]float64{
	"H":  1.0078250319,
	"B":  11.0093055,
	"C":  12.0,
	"N":  14.0030740052,
	"O":  15.9949146221,
	"F":  18.9984032,
	"Na": 22.98976928,
	"Mg": 23.9850419,
	"Al": 26.9815386,
	"Si": 27.9769265,
	"P":  30.97376151,
	"S":  31.97207069,
	"Cl": 34.96885271,
	"K":  38.9637069,
	"Ca": 39.9625912,
	"Mn": 54.9380496,
	"Fe": 55.9349421,
	"Ni": 57.9353479,
	"Co": 58.9332002,
	"Cu": 62.9296011,
	"Zn": 63.9291466,
	"As": 74.9215964,
	"Se": 79.9165218,
	"Br": 78.9183376,
	"Mo": 97.9054078,
	"Ag": 106.905093,
	"Cd": 113.9033581,
	"I":  126.904468,
	"W":  183.9509326,
	"Hg": 201.970626,
}

// MonoisotopicMass sums the most-abundant-isotope masses of a composition.
// It fails when an element is outside the mass table; the composition is
// still concrete, so callers treat this as a missing mass, not a bad record.
func MonoisotopicMass(comp Composition) (float64, error) {
	var mass float64
	for elem, count := range comp {
		m, ok := monoisotopicMasses[elem]
		if !ok {
			return 0, fmt.Errorf("no monoisotopic mass for element %s", elem)
		}
		mass += m * float64(count)
	}
	return mass, nil
}
