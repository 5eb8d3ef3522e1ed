package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/cognicore/relief/pkg/relief/dataset"
	"github.com/cognicore/relief/pkg/relief/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database file with WAL mode enabled
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// ReplaceDataset drops the table and rewrites it inside one transaction
func (s *sqliteStore) ReplaceDataset(ctx context.Context, table string, ds *dataset.Dataset) error {
	frame := store.FromDataset(ds)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quote(table)); err != nil {
		return fmt.Errorf("drop %s: %w", table, err)
	}

	defs := make([]string, len(frame.Columns))
	for i, c := range frame.Columns {
		defs[i] = quote(c) + " " + frame.Types[i].SQL()
	}
	create := fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", quote(table), strings.Join(defs, ",\n\t"))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}

	if len(frame.Rows) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(frame.Columns)), ",")
		stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", quote(table), placeholders))
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, row := range frame.Rows {
			if _, err := stmt.ExecContext(ctx, row...); err != nil {
				return fmt.Errorf("insert row %d: %w", i, err)
			}
		}
	}

	return tx.Commit()
}

// LoadTable reads every row of a table
func (s *sqliteStore) LoadTable(ctx context.Context, table string) (*store.Frame, error) {
	exists, err := s.tableExists(ctx, table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", store.ErrTableNotFound, table)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+quote(table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	frame := &store.Frame{Columns: cols, Types: make([]store.ColumnType, len(cols))}

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	for i, ct := range colTypes {
		if strings.EqualFold(ct.DatabaseTypeName(), "INTEGER") {
			frame.Types[i] = store.Integer
		}
	}

	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		frame.Rows = append(frame.Rows, vals)
	}
	return frame, rows.Err()
}

// Tables lists user tables in name order
func (s *sqliteStore) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT name FROM sqlite_master
WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
ORDER BY name;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *sqliteStore) tableExists(ctx context.Context, table string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// quote renders an SQL identifier
func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
