// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chemdb builds and queries per-organism chemistry reference
// databases. A database holds the organism's metabolites with parsed
// elemental compositions and monoisotopic masses, the numbers a
// mass-spectrometry annotation workflow matches against.
package chemdb

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/metlabtools/chemref/internal/formula"
	"github.com/metlabtools/chemref/pkg/types"
)

// Store manages one organism's reference database.
type Store struct {
	db       *sql.DB
	path     string
	organism string
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Organism returns the organism label the database was built for.
func (s *Store) Organism() string { return s.organism }

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DatabasePath returns the database file location for an organism label
// under a destination directory.
func DatabasePath(destDir, organism string) string {
	return filepath.Join(destDir, organism+".db")
}

// BuildSummary holds counts from one database build.
type BuildSummary struct {
	Stored int `json:"stored" yaml:"stored"`

	// NoMass counts compounds stored without a monoisotopic mass because
	// an element falls outside the mass table. Their compositions are
	// still concrete and queryable by name.
	NoMass int `json:"no_mass" yaml:"no_mass"`
}

// Build creates (or replaces) the reference database for organism under
// destDir and persists the records. Each compound row carries the parsed
// composition in the compound_elements mapping table and, where every
// element has a tabulated mass, the monoisotopic mass. Progress lines go
// to w.
func Build(ctx context.Context, records []types.MetaboliteRecord, organism, destDir string, w io.Writer) (BuildSummary, error) {
	if organism == "" {
		return BuildSummary{}, fmt.Errorf("organism label is empty")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return BuildSummary{}, fmt.Errorf("creating destination directory %s: %w", destDir, err)
	}

	dbPath := DatabasePath(destDir, organism)
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return BuildSummary{}, fmt.Errorf("replacing existing database %s: %w", dbPath, err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return BuildSummary{}, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := createSchema(ctx, db); err != nil {
		return BuildSummary{}, fmt.Errorf("creating schema: %w", err)
	}

	summary, err := insertCompounds(ctx, db, records, w)
	if err != nil {
		return summary, err
	}

	if err := writeMeta(ctx, db, organism, summary); err != nil {
		return summary, err
	}

	fmt.Fprintf(w, "built %s: %d compounds (%d without mass)\n", dbPath, summary.Stored, summary.NoMass)
	return summary, nil
}

func createSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS compounds (
			id TEXT PRIMARY KEY,
			formula TEXT NOT NULL,
			charge INTEGER NOT NULL,
			name TEXT,
			monoisotopic_mass REAL
		)`,
		`CREATE TABLE IF NOT EXISTS compound_elements (
			compound_id TEXT NOT NULL REFERENCES compounds(id),
			element TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (compound_id, element)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_compounds_mass ON compounds(monoisotopic_mass)`,
		`CREATE INDEX IF NOT EXISTS idx_compounds_name ON compounds(name)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func insertCompounds(ctx context.Context, db *sql.DB, records []types.MetaboliteRecord, w io.Writer) (BuildSummary, error) {
	var summary BuildSummary

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	compoundStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO compounds (id, formula, charge, name, monoisotopic_mass)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return summary, fmt.Errorf("preparing compound insert: %w", err)
	}
	defer compoundStmt.Close()

	elementStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO compound_elements (compound_id, element, count) VALUES (?, ?, ?)`)
	if err != nil {
		return summary, fmt.Errorf("preparing element insert: %w", err)
	}
	defer elementStmt.Close()

	for _, rec := range records {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		// Records reach the builder validated, so Parse cannot fail here.
		comp, err := formula.Parse(rec.Formula)
		if err != nil {
			return summary, fmt.Errorf("compound %s: %w", rec.ID, err)
		}

		var mass sql.NullFloat64
		if m, err := formula.MonoisotopicMass(comp); err == nil {
			mass = sql.NullFloat64{Float64: m, Valid: true}
		} else {
			fmt.Fprintf(w, "warning: %s: %v\n", rec.ID, err)
			summary.NoMass++
		}

		if _, err := compoundStmt.ExecContext(ctx, rec.ID, rec.Formula, rec.Charge, rec.Name, mass); err != nil {
			return summary, fmt.Errorf("inserting compound %s: %w", rec.ID, err)
		}
		for _, elem := range comp.Elements() {
			if _, err := elementStmt.ExecContext(ctx, rec.ID, elem, comp[elem]); err != nil {
				return summary, fmt.Errorf("inserting elements for %s: %w", rec.ID, err)
			}
		}
		summary.Stored++
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing build: %w", err)
	}
	return summary, nil
}

func writeMeta(ctx context.Context, db *sql.DB, organism string, summary BuildSummary) error {
	meta := [][2]string{
		{"organism", organism},
		{"built_at", time.Now().UTC().Format(time.RFC3339)},
		{"compounds", fmt.Sprintf("%d", summary.Stored)},
	}
	for _, kv := range meta {
		_, err := db.ExecContext(ctx,
			`INSERT INTO meta (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
			kv[0], kv[1],
		)
		if err != nil {
			return fmt.Errorf("writing metadata %s: %w", kv[0], err)
		}
	}
	return nil
}
