package thread

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS threads (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	character_id TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMP NOT NULL,
	updated_at   TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id           TEXT PRIMARY KEY,
	thread_id    TEXT NOT NULL REFERENCES threads(id) ON DELETE CASCADE,
	seq          INTEGER NOT NULL,
	role         TEXT NOT NULL,
	text         TEXT NOT NULL,
	timestamp    TIMESTAMP NOT NULL,
	hidden       INTEGER NOT NULL DEFAULT 0,
	character_id TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_messages_thread ON messages(thread_id, seq);
`

// Store persists threads in SQLite. The orchestration engine never
// touches it; the chat surface saves the thread after each turn.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if missing) the thread database at path and
// applies the schema.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open thread db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping thread db: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts the thread and rewrites its message rows. Message lists
// are small (one conversation) so full replacement is simpler and safer
// than diffing against placeholder removals and system-message edits.
func (s *Store) Save(ctx context.Context, t *Thread) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO threads (id, name, character_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			character_id = excluded.character_id,
			updated_at = excluded.updated_at`,
		t.ID, t.Name, t.CharacterID, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save thread: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE thread_id = ?`, t.ID); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}

	for seq, msg := range t.Messages {
		// Transient placeholders are never persisted.
		if msg.Role == RoleThinking {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO messages (id, thread_id, seq, role, text, timestamp, hidden, character_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			msg.ID, t.ID, seq, string(msg.Role), msg.Text, msg.Timestamp,
			boolToInt(msg.Hidden), msg.CharacterID)
		if err != nil {
			return fmt.Errorf("failed to save message: %w", err)
		}
	}

	return tx.Commit()
}

// Get loads one thread with its messages in order.
func (s *Store) Get(ctx context.Context, id string) (*Thread, error) {
	t := &Thread{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, character_id, created_at, updated_at
		FROM threads WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.CharacterID, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("thread %q not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load thread: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, text, timestamp, hidden, character_id
		FROM messages WHERE thread_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var msg Message
		var hidden int
		if err := rows.Scan(&msg.ID, &msg.Role, &msg.Text, &msg.Timestamp, &hidden, &msg.CharacterID); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Hidden = hidden != 0
		t.Messages = append(t.Messages, msg)
	}
	return t, rows.Err()
}

// ThreadSummary is one row of the thread listing.
type ThreadSummary struct {
	ID          string
	Name        string
	CharacterID string
	UpdatedAt   time.Time
}

// List returns thread summaries, most recently updated first.
func (s *Store) List(ctx context.Context) ([]ThreadSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, character_id, updated_at
		FROM threads ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	defer rows.Close()

	var out []ThreadSummary
	for rows.Next() {
		var t ThreadSummary
		if err := rows.Scan(&t.ID, &t.Name, &t.CharacterID, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Delete removes a thread and, via the foreign key, its messages.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM threads WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete thread: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("thread %q not found", id)
	}
	return nil
}

// Rename updates a thread's display name.
func (s *Store) Rename(ctx context.Context, id, name string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE threads SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to rename thread: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("thread %q not found", id)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
