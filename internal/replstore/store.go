// Package replstore persists the REPL's line history in a local SQLite
// database (spec.md §6's history.txt, additively backed by
// modernc.org/sqlite + database/sql instead of a flat file), so the
// `undo` command can query prior stack states by row rather than just by
// re-parsing a text log.
package replstore

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one REPL line and the stack dump it produced.
type Entry struct {
	ID        int64
	Line      string
	StackDump string
	CreatedAt time.Time
}

// Store wraps a *sql.DB open against a SQLite file (or ":memory:").
type Store struct {
	db *sql.DB
}

// Open creates or opens the history database at path and ensures its
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("replstore: opening %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	line TEXT NOT NULL,
	stack_dump TEXT NOT NULL,
	created_at DATETIME NOT NULL
);`
	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("replstore: migrating schema: %w", err)
	}
	return nil
}

// Append records one REPL line and its resulting stack dump.
func (s *Store) Append(line, stackDump string, at time.Time) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO history (line, stack_dump, created_at) VALUES (?, ?, ?)`,
		line, stackDump, at,
	)
	if err != nil {
		return 0, fmt.Errorf("replstore: appending entry: %w", err)
	}
	return res.LastInsertId()
}

// Last returns the n most recent entries, oldest first.
func (s *Store) Last(n int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, line, stack_dump, created_at FROM history ORDER BY id DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("replstore: querying history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Line, &e.StackDump, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("replstore: scanning history row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("replstore: iterating history: %w", err)
	}
	// Reverse: the query above is newest-first for LIMIT to bound correctly.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// PopLast removes and returns the single most recent entry, for `undo`.
func (s *Store) PopLast() (Entry, bool, error) {
	entries, err := s.Last(1)
	if err != nil {
		return Entry{}, false, err
	}
	if len(entries) == 0 {
		return Entry{}, false, nil
	}
	e := entries[0]
	if _, err := s.db.Exec(`DELETE FROM history WHERE id = ?`, e.ID); err != nil {
		return Entry{}, false, fmt.Errorf("replstore: deleting entry %d: %w", e.ID, err)
	}
	return e, true, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }
