package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no translation is stored for a text
var ErrNotFound = errors.New("translation not found in history")

// DefaultLimit is the number of entries Recent returns when asked for none
const DefaultLimit = 20

// MaxLimit caps the number of entries Recent returns
const MaxLimit = 200

const schema = `
CREATE TABLE IF NOT EXISTS translations (
	id         TEXT PRIMARY KEY,
	english    TEXT NOT NULL,
	kannada    TEXT NOT NULL,
	provider   TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_translations_english ON translations (english, created_at);
`

// Entry is one stored translation
type Entry struct {
	ID        string    `json:"id"`
	English   string    `json:"english"`
	Kannada   string    `json:"kannada"`
	Provider  string    `json:"provider,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is a translation history backed by SQLite
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// SQLite allows one writer at a time
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores e, filling in the ID and timestamp when unset
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	e.English = strings.TrimSpace(e.English)
	if e.English == "" || e.Kannada == "" {
		return Entry{}, fmt.Errorf("history entry needs both english and kannada text")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO translations (id, english, kannada, provider, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.English, e.Kannada, e.Provider, e.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to record translation: %w", err)
	}
	return e, nil
}

// LookupTranslation returns the most recent Kannada text stored for english
func (s *Store) LookupTranslation(ctx context.Context, english string) (string, error) {
	var kannada string
	err := s.db.QueryRowContext(ctx,
		`SELECT kannada FROM translations
		 WHERE english = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT 1`,
		strings.TrimSpace(english),
	).Scan(&kannada)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up translation: %w", err)
	}
	return kannada, nil
}

// Recent returns up to limit entries, newest first. A limit of zero or
// less means DefaultLimit; larger limits are capped at MaxLimit.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, english, kannada, provider, created_at FROM translations
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ID, &e.English, &e.Kannada, &e.Provider, &created); err != nil {
			return nil, err
		}
		e.CreatedAt = time.UnixMilli(created)
		out = append(out, e)
	}
	return out, rows.Err()
}
