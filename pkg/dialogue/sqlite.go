package dialogue

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/matzehuels/graphbot/pkg/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS dialogues (
	session_id TEXT PRIMARY KEY,
	step       TEXT NOT NULL,
	text       TEXT NOT NULL DEFAULT '',
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_dialogues_updated ON dialogues(updated_at);
`

// SQLiteStore keeps dialogue state in a SQLite database file.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
}

// NewSQLiteStore opens (or creates) the database at path and applies the
// schema.
func NewSQLiteStore(path string, ttl time.Duration) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db, ttl: ttl}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, sessionID string) (State, error) {
	if err := errors.ValidateSessionID(sessionID); err != nil {
		return State{}, err
	}
	var (
		st      State
		updated int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT step, text, updated_at FROM dialogues WHERE session_id = ?", sessionID,
	).Scan(&st.Step, &st.Text, &updated)
	if err == sql.ErrNoRows {
		return StartState(), nil
	}
	if err != nil {
		return State{}, fmt.Errorf("query session: %w", err)
	}
	st.UpdatedAt = time.UnixMilli(updated)

	if st.expired(s.ttl, time.Now()) {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM dialogues WHERE session_id = ?", sessionID); err != nil {
			return State{}, fmt.Errorf("delete expired session: %w", err)
		}
		return StartState(), nil
	}
	return st.normalize(), nil
}

func (s *SQLiteStore) Set(ctx context.Context, sessionID string, st State) error {
	if err := errors.ValidateSessionID(sessionID); err != nil {
		return err
	}
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dialogues (session_id, step, text, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			step = excluded.step,
			text = excluded.text,
			updated_at = excluded.updated_at
	`, sessionID, string(st.Step), st.Text, st.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, sessionID string) error {
	if err := errors.ValidateSessionID(sessionID); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM dialogues WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Cleanup removes expired sessions.
func (s *SQLiteStore) Cleanup(ctx context.Context) error {
	if s.ttl <= 0 {
		return nil
	}
	cutoff := time.Now().Add(-s.ttl).UnixMilli()
	if _, err := s.db.ExecContext(ctx, "DELETE FROM dialogues WHERE updated_at < ?", cutoff); err != nil {
		return fmt.Errorf("cleanup sessions: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
