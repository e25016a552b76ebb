// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chemdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
)

// Compound is one stored reference-database entry.
type Compound struct {
	ID      string  `json:"id" yaml:"id"`
	Formula string  `json:"formula" yaml:"formula"`
	Charge  int     `json:"charge" yaml:"charge"`
	Name    string  `json:"name,omitempty" yaml:"name,omitempty"`
	Mass    float64 `json:"monoisotopic_mass,omitempty" yaml:"monoisotopic_mass,omitempty"`
	HasMass bool    `json:"-" yaml:"-"`
}

// Open opens an existing organism database for querying. The database must
// have been built first.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("database %s does not exist (run build first)", path)
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	var organism string
	err = db.QueryRow(`SELECT value FROM meta WHERE key = 'organism'`).Scan(&organism)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%s is not a chemref database: %w", path, err)
	}

	return &Store{db: db, path: path, organism: organism}, nil
}

// Count returns the number of stored compounds.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM compounds`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting compounds: %w", err)
	}
	return n, nil
}

// LookupMass returns compounds whose monoisotopic mass lies within
// tolerance of mass, nearest first. Compounds without a stored mass never
// match.
func (s *Store) LookupMass(ctx context.Context, mass, tolerance float64) ([]Compound, error) {
	if tolerance < 0 {
		return nil, fmt.Errorf("tolerance must not be negative")
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, formula, charge, name, monoisotopic_mass
		 FROM compounds
		 WHERE monoisotopic_mass BETWEEN ? AND ?
		 ORDER BY ABS(monoisotopic_mass - ?), id`,
		mass-tolerance, mass+tolerance, mass,
	)
	if err != nil {
		return nil, fmt.Errorf("querying by mass: %w", err)
	}
	defer rows.Close()
	return scanCompounds(rows)
}

// LookupName returns compounds whose name or identifier contains the query
// substring, case-insensitively, ordered by identifier.
func (s *Store) LookupName(ctx context.Context, query string) ([]Compound, error) {
	if query == "" {
		return nil, fmt.Errorf("name query is empty")
	}
	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, formula, charge, name, monoisotopic_mass
		 FROM compounds
		 WHERE name LIKE ? OR id LIKE ?
		 ORDER BY id`,
		pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("querying by name: %w", err)
	}
	defer rows.Close()
	return scanCompounds(rows)
}

// All returns every stored compound ordered by identifier.
func (s *Store) All(ctx context.Context) ([]Compound, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, formula, charge, name, monoisotopic_mass
		 FROM compounds ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying compounds: %w", err)
	}
	defer rows.Close()
	return scanCompounds(rows)
}

// Elements returns the stored composition mapping for one compound.
func (s *Store) Elements(ctx context.Context, compoundID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT element, count FROM compound_elements WHERE compound_id = ? ORDER BY element`,
		compoundID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying elements for %s: %w", compoundID, err)
	}
	defer rows.Close()

	comp := make(map[string]int)
	for rows.Next() {
		var (
			elem  string
			count int
		)
		if err := rows.Scan(&elem, &count); err != nil {
			return nil, fmt.Errorf("scanning element row: %w", err)
		}
		comp[elem] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading element rows: %w", err)
	}
	if len(comp) == 0 {
		return nil, fmt.Errorf("no compound %s", compoundID)
	}
	return comp, nil
}

func scanCompounds(rows *sql.Rows) ([]Compound, error) {
	var out []Compound
	for rows.Next() {
		var (
			c    Compound
			name sql.NullString
			mass sql.NullFloat64
		)
		if err := rows.Scan(&c.ID, &c.Formula, &c.Charge, &name, &mass); err != nil {
			return nil, fmt.Errorf("scanning compound row: %w", err)
		}
		c.Name = name.String
		if mass.Valid {
			c.Mass = mass.Float64
			c.HasMass = true
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading compound rows: %w", err)
	}
	return out, nil
}
