// Package store persists a summary of every parsed replay to a local
// SQLite database, so the CLI's history subcommand can list past parses
// without re-reading the replay files themselves. Grounded on
// ernie-trinity-tools' use of modernc.org/sqlite as a cgo-free embedded
// driver reached through the standard database/sql interface.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/harrowgate/fnrep/replay"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	build_id       TEXT NOT NULL,
	friendly_name  TEXT NOT NULL,
	length_ms      INTEGER NOT NULL,
	won            BOOLEAN NOT NULL,
	eliminations   INTEGER NOT NULL,
	parsed_at      DATETIME NOT NULL
);
`

// Session is one row of replay history.
type Session struct {
	ID           int64
	BuildID      string
	FriendlyName string
	LengthMS     uint32
	Won          bool
	Eliminations int
	ParsedAt     time.Time
}

// Store wraps a database/sql handle opened against a SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens (and creates, if necessary) a SQLite database at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a summary row for a successfully parsed replay.
func (s *Store) Record(ctx context.Context, r *replay.Replay) (Session, error) {
	sess := Session{
		FriendlyName: r.Meta.FriendlyName,
		LengthMS:     r.Meta.LengthInMS,
		ParsedAt:     time.Now(),
	}
	if r.Header != nil {
		sess.BuildID = fmt.Sprintf("%d.%d.%d-%d", r.Header.Major, r.Header.Minor, r.Header.Patch, r.Header.Changelist)
	}
	if r.Computed != nil {
		sess.Won = r.Computed.Won
	}
	sess.Eliminations = len(r.Eliminations)

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (build_id, friendly_name, length_ms, won, eliminations, parsed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sess.BuildID, sess.FriendlyName, sess.LengthMS, sess.Won, sess.Eliminations, sess.ParsedAt,
	)
	if err != nil {
		return Session{}, fmt.Errorf("store: recording session: %w", err)
	}
	sess.ID, _ = res.LastInsertId()
	return sess, nil
}

// List returns the most recent n sessions, newest first. n<=0 means no
// limit.
func (s *Store) List(ctx context.Context, n int) ([]Session, error) {
	query := `SELECT id, build_id, friendly_name, length_ms, won, eliminations, parsed_at
	          FROM sessions ORDER BY parsed_at DESC`
	args := []any{}
	if n > 0 {
		query += ` LIMIT ?`
		args = append(args, n)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: listing sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.BuildID, &sess.FriendlyName, &sess.LengthMS,
			&sess.Won, &sess.Eliminations, &sess.ParsedAt); err != nil {
			return nil, fmt.Errorf("store: scanning session row: %w", err)
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}
