package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists definitions to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// SQLiteOption configures NewSQLiteStore.
type SQLiteOption func(*sqliteOptions)

type sqliteOptions struct {
	busyTimeout time.Duration
}

// WithBusyTimeout sets how long a connection waits on a locked database.
func WithBusyTimeout(d time.Duration) SQLiteOption {
	return func(o *sqliteOptions) {
		o.busyTimeout = d
	}
}

// NewSQLiteStore opens or creates a SQLite store.
// The path should be a file path (e.g., "./routes.db") or ":memory:" for testing.
func NewSQLiteStore(path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	o := sqliteOptions{busyTimeout: 5 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	// busy_timeout is per connection, so it goes in the DSN for the pool.
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	dsn := fmt.Sprintf("%s%s_pragma=busy_timeout(%d)", path, sep, o.busyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// Every connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS templates (
			name TEXT PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			source TEXT NOT NULL,
			level INTEGER NOT NULL,
			sequence INTEGER NOT NULL,
			created TEXT NOT NULL,
			updated TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_templates_sequence
		ON templates(sequence)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(name, source string) (Definition, error) {
	level, err := validate(name, source)
	if err != nil {
		return Definition{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Definition{}, ErrStoreClosed
	}

	now := time.Now().UTC()
	d := Definition{Name: name, Source: source, Level: level, Updated: now}
	var created string
	err = s.db.QueryRow(`
		INSERT INTO templates (name, id, source, level, sequence, created, updated)
		VALUES (
			?, ?, ?, ?,
			COALESCE((SELECT MAX(sequence) FROM templates), 0) + 1,
			?, ?
		)
		ON CONFLICT(name) DO UPDATE SET
			source = excluded.source,
			level = excluded.level,
			updated = excluded.updated
		RETURNING id, sequence, created
	`, name, uuid.New().String(), source, level, formatTime(now), formatTime(now)).
		Scan(&d.ID, &d.Sequence, &created)
	if err != nil {
		return Definition{}, fmt.Errorf("save template: %w", err)
	}
	d.Created = parseTime(created)
	return d, nil
}

// Load implements Store.
func (s *SQLiteStore) Load(name string) (Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Definition{}, ErrStoreClosed
	}

	d, err := scanDefinition(s.db.QueryRow(`
		SELECT name, id, source, level, sequence, created, updated
		FROM templates
		WHERE name = ?
	`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return Definition{}, ErrNotFound
	}
	if err != nil {
		return Definition{}, fmt.Errorf("load template: %w", err)
	}
	return d, nil
}

// List implements Store.
func (s *SQLiteStore) List() ([]Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT name, id, source, level, sequence, created, updated
		FROM templates
		ORDER BY sequence
	`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	defs := []Definition{}
	for rows.Next() {
		d, err := scanDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		defs = append(defs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return defs, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.Exec(`DELETE FROM templates WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDefinition(row scanner) (Definition, error) {
	var d Definition
	var created, updated string
	if err := row.Scan(&d.Name, &d.ID, &d.Source, &d.Level, &d.Sequence, &created, &updated); err != nil {
		return Definition{}, err
	}
	d.Created = parseTime(created)
	d.Updated = parseTime(updated)
	return d, nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
