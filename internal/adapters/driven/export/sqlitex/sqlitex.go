// Package sqlitex exports reports into a SQLite database so they can be
// joined and analyzed with plain SQL. The package name avoids clashing
// with the driver's package name.
package sqlitex

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver
)

// DefaultTable is used when the caller does not name a target table.
const DefaultTable = "searchanalytics"

// Table is the projection of a report the exporter consumes. Dimension
// columns are stored as TEXT, metric columns as REAL.
type Table interface {
	Dimensions() []string
	Metrics() []string
	Records() []map[string]any
}

// Export writes the report into table at dbPath, replacing any previous
// table of the same name. All DDL and inserts run in one transaction, so
// a failed export leaves an existing table untouched. Returns the number
// of rows written.
func Export(ctx context.Context, dbPath, table string, report Table) (int, error) {
	if table == "" {
		table = DefaultTable
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("creating export directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return 0, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	dimensions := report.Dimensions()
	metrics := report.Metrics()

	columns := make([]string, 0, len(dimensions)+len(metrics))
	placeholders := make([]string, 0, cap(columns))
	ddl := make([]string, 0, cap(columns))
	for _, d := range dimensions {
		columns = append(columns, quoteIdentifier(d))
		ddl = append(ddl, quoteIdentifier(d)+" TEXT")
		placeholders = append(placeholders, "?")
	}
	for _, m := range metrics {
		columns = append(columns, quoteIdentifier(m))
		ddl = append(ddl, quoteIdentifier(m)+" REAL")
		placeholders = append(placeholders, "?")
	}

	quoted := quoteIdentifier(table)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoted); err != nil {
		return 0, fmt.Errorf("dropping previous table: %w", err)
	}

	createStmt := fmt.Sprintf("CREATE TABLE %s (%s)", quoted, strings.Join(ddl, ", "))
	if _, err := tx.ExecContext(ctx, createStmt); err != nil {
		return 0, fmt.Errorf("creating table: %w", err)
	}

	insertStmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoted, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	stmt, err := tx.PrepareContext(ctx, insertStmt)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, record := range report.Records() {
		args := make([]any, 0, len(columns))
		for _, d := range dimensions {
			args = append(args, record[d])
		}
		for _, m := range metrics {
			args = append(args, record[m])
		}

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("inserting row %d: %w", count, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}

	return count, nil
}

// quoteIdentifier makes a dimension or table name safe to splice into
// DDL. Dimension names come from the API but the table name is caller
// input.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
