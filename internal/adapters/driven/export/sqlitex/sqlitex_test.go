package sqlitex

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTable struct {
	dimensions []string
	metrics    []string
	records    []map[string]any
}

func (f *fakeTable) Dimensions() []string      { return f.dimensions }
func (f *fakeTable) Metrics() []string         { return f.metrics }
func (f *fakeTable) Records() []map[string]any { return f.records }

func sampleReport() *fakeTable {
	return &fakeTable{
		dimensions: []string{"date", "query"},
		metrics:    []string{"clicks", "impressions", "ctr", "position"},
		records: []map[string]any{
			{"date": "2025-01-01", "query": "go sqlite", "clicks": 12.0, "impressions": 240.0, "ctr": 0.05, "position": 3.7},
			{"date": "2025-01-02", "query": "go excel", "clicks": 4.0, "impressions": 80.0, "ctr": 0.05, "position": 9.1},
		},
	}
}

// TestExport_WritesRows tests that an export creates the table and writes
// every record with dimension and metric values intact.
func TestExport_WritesRows(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reports", "out.db")

	count, err := Export(context.Background(), dbPath, "analytics", sampleReport())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(`SELECT date, query, clicks, position FROM "analytics" ORDER BY date`)
	require.NoError(t, err)
	defer rows.Close()

	type row struct {
		date, query      string
		clicks, position float64
	}

	var got []row
	for rows.Next() {
		var r row
		require.NoError(t, rows.Scan(&r.date, &r.query, &r.clicks, &r.position))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())

	require.Len(t, got, 2)
	assert.Equal(t, row{date: "2025-01-01", query: "go sqlite", clicks: 12, position: 3.7}, got[0])
	assert.Equal(t, row{date: "2025-01-02", query: "go excel", clicks: 4, position: 9.1}, got[1])
}

// TestExport_DefaultTable tests that an empty table name falls back to the
// default.
func TestExport_DefaultTable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "out.db")

	count, err := Export(context.Background(), dbPath, "", sampleReport())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM "`+DefaultTable+`"`).Scan(&n))
	assert.Equal(t, 2, n)
}

// TestExport_ReplacesPreviousTable tests that re-exporting under the same
// name replaces the old contents instead of appending to them.
func TestExport_ReplacesPreviousTable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "out.db")
	ctx := context.Background()

	_, err := Export(ctx, dbPath, "analytics", sampleReport())
	require.NoError(t, err)

	second := &fakeTable{
		dimensions: []string{"page"},
		metrics:    []string{"clicks", "impressions", "ctr"},
		records: []map[string]any{
			{"page": "/pricing", "clicks": 1.0, "impressions": 10.0, "ctr": 0.1},
		},
	}

	count, err := Export(ctx, dbPath, "analytics", second)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var page string
	require.NoError(t, db.QueryRow(`SELECT page FROM "analytics"`).Scan(&page))
	assert.Equal(t, "/pricing", page)
}

// TestExport_QuotesTableName tests that table names needing quoting are
// handled rather than spliced raw into the DDL.
func TestExport_QuotesTableName(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "out.db")

	count, err := Export(context.Background(), dbPath, `weird "table" name`, sampleReport())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM "weird ""table"" name"`).Scan(&n))
	assert.Equal(t, 2, n)
}

// TestExport_EmptyReport tests that a report with no rows still creates
// the table and reports zero rows written.
func TestExport_EmptyReport(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "out.db")

	report := &fakeTable{
		dimensions: []string{"date"},
		metrics:    []string{"clicks", "impressions", "ctr", "position"},
	}

	count, err := Export(context.Background(), dbPath, "analytics", report)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM "analytics"`).Scan(&n))
	assert.Equal(t, 0, n)
}
