package repository

import (
	"bytes"
	"context"
	"database/sql"
)

const (
	insertLineSQL  = `INSERT INTO probe_log (line) VALUES (?)`
	selectLinesSQL = `SELECT line FROM probe_log ORDER BY seq ASC`
)

// SQLiteStore keeps the log as rows of an append-only table ordered by seq.
type SQLiteStore struct {
	db *sql.DB
}

// Ensure implementation of LogStore interface at compile time.
var _ LogStore = (*SQLiteStore)(nil)

func NewSQLiteStore(db *sql.DB) *SQLiteStore { return &SQLiteStore{db: db} }

// Append inserts one line; seq is assigned by SQLite.
func (r *SQLiteStore) Append(ctx context.Context, line []byte) error {
	if bytes.ContainsAny(line, "\r\n") {
		return ErrInvalidLine
	}
	if _, err := r.db.ExecContext(ctx, insertLineSQL, string(line)); err != nil {
		return unavailable("insert line", err)
	}
	return nil
}

// ReadAll returns every non-blank line in insertion order.
func (r *SQLiteStore) ReadAll(ctx context.Context) ([][]byte, error) {
	rows, err := r.db.QueryContext(ctx, selectLinesSQL)
	if err != nil {
		return nil, unavailable("select lines", err)
	}
	defer rows.Close()

	out := make([][]byte, 0, 64)
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, unavailable("scan line", err)
		}
		if len(bytes.TrimSpace([]byte(line))) == 0 {
			continue
		}
		out = append(out, []byte(line))
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate lines", err)
	}
	return out, nil
}

// Close closes the database handle.
func (r *SQLiteStore) Close() error {
	if err := r.db.Close(); err != nil {
		return unavailable("close", err)
	}
	return nil
}
