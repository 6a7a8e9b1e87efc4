package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
)

// DefaultJournalSize entries kept by the SQLite journal
const DefaultJournalSize = 500

// SQLiteJournal action journal persisted in a SQLite file
type SQLiteJournal struct {
	db      *sql.DB
	maxSize int
}

// NewSQLiteJournal opens (or creates) the journal database at dbPath
func NewSQLiteJournal(dbPath string, maxSize int) (*SQLiteJournal, error) {
	if dbPath == "" {
		return nil, errors.New("journal db path must not be empty")
	}
	if maxSize <= 0 {
		maxSize = DefaultJournalSize
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("could not create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("could not open sqlite: %w", err)
	}

	if err := createJournalSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db, maxSize: maxSize}, nil
}

func createJournalSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS journal (
	id TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL,
	action TEXT NOT NULL,
	order_id TEXT,
	details TEXT,
	ts TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_journal_ts ON journal (ts);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("could not create journal schema: %w", err)
	}
	return nil
}

// Record stores the entry and trims the table to the newest maxSize rows
func (s *SQLiteJournal) Record(ctx context.Context, entry entity.JournalEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO journal (id, user_id, action, order_id, details, ts) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, string(entry.Action), entry.OrderID, entry.Details, entry.Timestamp.UTC())
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("insert journal entry: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
DELETE FROM journal
WHERE id IN (
  SELECT id FROM journal
  ORDER BY ts DESC, rowid DESC
  LIMIT -1 OFFSET ?
)`, s.maxSize)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("trim journal: %w", err)
	}

	return tx.Commit()
}

// Recent newest first; limit <= 0 returns everything
func (s *SQLiteJournal) Recent(ctx context.Context, limit int) ([]entity.JournalEntry, error) {
	query := `SELECT id, user_id, action, order_id, details, ts FROM journal ORDER BY ts DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []entity.JournalEntry
	for rows.Next() {
		var (
			e      entity.JournalEntry
			action string
			ts     time.Time
		)
		if err := rows.Scan(&e.ID, &e.UserID, &action, &e.OrderID, &e.Details, &ts); err != nil {
			return nil, err
		}
		e.Action = entity.JournalAction(action)
		e.Timestamp = ts
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database
func (s *SQLiteJournal) Close() error {
	return s.db.Close()
}
