package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteLog implements Log using a local SQLite database. It is the
// default sink when no spreadsheet is configured, and doubles as an
// on-disk mirror for environments without network access to Sheets.
type SQLiteLog struct {
	db *sql.DB
}

// NewSQLiteLog opens (and if needed creates) the audit database at dsn.
func NewSQLiteLog(dsn string) (*SQLiteLog, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	l := &SQLiteLog{db: db}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate audit database: %w", err)
	}
	return l, nil
}

func (l *SQLiteLog) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS audit_rows (
			row_id TEXT PRIMARY KEY,
			ts DATETIME NOT NULL,
			user_id TEXT NOT NULL,
			speaker TEXT NOT NULL,
			text TEXT NOT NULL,
			tag TEXT,
			display_name TEXT,
			language TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_user ON audit_rows(user_id, ts)`,
	}
	for _, m := range migrations {
		if _, err := l.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (l *SQLiteLog) Close() error {
	return l.db.Close()
}

// AppendRow inserts one audit entry.
func (l *SQLiteLog) AppendRow(ctx context.Context, row Row) error {
	rowID := "row_" + uuid.New().String()[:8]
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO audit_rows (row_id, ts, user_id, speaker, text, tag, display_name, language)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rowID, row.Timestamp, row.UserID, row.Speaker, row.Text, row.Tag, row.DisplayName, row.Language)
	if err != nil {
		return fmt.Errorf("failed to insert audit row: %w", err)
	}
	return nil
}

// RowsForUser returns the entries for one user in append order.
func (l *SQLiteLog) RowsForUser(ctx context.Context, userID string) ([]Row, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT ts, user_id, speaker, text, tag, display_name, language
		 FROM audit_rows WHERE user_id = ? ORDER BY ts, row_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit rows: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var ts time.Time
		var tag, displayName, language sql.NullString
		if err := rows.Scan(&ts, &r.UserID, &r.Speaker, &r.Text, &tag, &displayName, &language); err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		r.Timestamp = ts
		r.Tag = tag.String
		r.DisplayName = displayName.String
		r.Language = language.String
		out = append(out, r)
	}
	return out, rows.Err()
}
