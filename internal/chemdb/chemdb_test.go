// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chemdb

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/metlabtools/chemref/pkg/types"
)

func testRecords(t *testing.T) []types.MetaboliteRecord {
	t.Helper()
	specs := []struct {
		id, formula, name string
		charge            int
	}{
		{"glc", "C6H12O6", "D-Glucose", 0},
		{"atp", "C10H12N5O13P3", "ATP", -4},
		{"wat", "H2O", "Water", 0},
		{"gal", "C6H12O6", "D-Galactose", 0},
	}
	records := make([]types.MetaboliteRecord, 0, len(specs))
	for _, s := range specs {
		rec, err := types.NewMetaboliteRecord(s.id, s.formula, s.charge, s.name)
		require.NoError(t, err)
		records = append(records, rec)
	}
	return records
}

func buildTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	var buf bytes.Buffer
	summary, err := Build(context.Background(), testRecords(t), "ecoli", dir, &buf)
	require.NoError(t, err)
	require.Equal(t, 4, summary.Stored)
	require.Equal(t, 0, summary.NoMass)

	store, err := Open(DatabasePath(dir, "ecoli"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBuildAndOpen(t *testing.T) {
	store := buildTestStore(t)
	assert.Equal(t, "ecoli", store.Organism())

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestBuildReplacesExistingDatabase(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	var buf bytes.Buffer

	_, err := Build(ctx, testRecords(t), "ecoli", dir, &buf)
	require.NoError(t, err)

	one := testRecords(t)[:1]
	_, err = Build(ctx, one, "ecoli", dir, &buf)
	require.NoError(t, err)

	store, err := Open(DatabasePath(dir, "ecoli"))
	require.NoError(t, err)
	defer store.Close()

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "rebuild should replace, not append")
}

func TestBuildUnmappableElement(t *testing.T) {
	rec, err := types.NewMetaboliteRecord("ruthenium-complex", "C6H12O6Ru", 0, "Odd compound")
	require.NoError(t, err)

	dir := t.TempDir()
	var buf bytes.Buffer
	summary, err := Build(context.Background(), []types.MetaboliteRecord{rec}, "weird", dir, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Stored)
	assert.Equal(t, 1, summary.NoMass)
	assert.Contains(t, buf.String(), "warning:")

	store, err := Open(DatabasePath(dir, "weird"))
	require.NoError(t, err)
	defer store.Close()

	// Massless compounds never match a mass query but stay name-addressable.
	matches, err := store.LookupMass(context.Background(), 240.0, 100.0)
	require.NoError(t, err)
	assert.Empty(t, matches)

	matches, err = store.LookupName(context.Background(), "Odd")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.False(t, matches[0].HasMass)
}

func TestLookupMass(t *testing.T) {
	store := buildTestStore(t)

	// Glucose and galactose are isomers: one mass, two compounds.
	matches, err := store.LookupMass(context.Background(), 180.0634, 0.005)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "gal", matches[0].ID)
	assert.Equal(t, "glc", matches[1].ID)
	for _, m := range matches {
		assert.Equal(t, "C6H12O6", m.Formula)
		assert.True(t, m.HasMass)
		assert.InDelta(t, 180.0634, m.Mass, 0.005)
	}

	matches, err = store.LookupMass(context.Background(), 180.0634, 1e-9)
	require.NoError(t, err)
	assert.Empty(t, matches, "window too narrow to match")

	_, err = store.LookupMass(context.Background(), 180.0, -1)
	assert.Error(t, err)
}

func TestLookupName(t *testing.T) {
	store := buildTestStore(t)

	matches, err := store.LookupName(context.Background(), "glucose")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "glc", matches[0].ID)

	// Identifier substrings match too.
	matches, err = store.LookupName(context.Background(), "atp")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	_, err = store.LookupName(context.Background(), "")
	assert.Error(t, err)
}

func TestElements(t *testing.T) {
	store := buildTestStore(t)

	comp, err := store.Elements(context.Background(), "glc")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"C": 6, "H": 12, "O": 6}, comp)

	_, err = store.Elements(context.Background(), "nope")
	assert.Error(t, err)
}

func TestExportYAML(t *testing.T) {
	store := buildTestStore(t)

	path, err := store.ExportYAML(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ".yaml", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var export ExportFile
	require.NoError(t, yaml.Unmarshal(data, &export))
	assert.Equal(t, "ecoli", export.Organism)
	require.Len(t, export.Compounds, 4)
	assert.Equal(t, map[string]int{"C": 10, "H": 12, "N": 5, "O": 13, "P": 3}, export.Compounds[0].Elements)
}

func TestExportJSON(t *testing.T) {
	store := buildTestStore(t)

	path, err := store.ExportJSON(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var export ExportFile
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Equal(t, "ecoli", export.Organism)
	assert.Len(t, export.Compounds, 4)
}

func TestOpenMissingDatabase(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.db"))
	assert.Error(t, err)
}

func TestBuildEmptyOrganism(t *testing.T) {
	var buf bytes.Buffer
	_, err := Build(context.Background(), nil, "", t.TempDir(), &buf)
	assert.Error(t, err)
}
