// Package store persists session and intervention records in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/actapipe/core"
	_ "modernc.org/sqlite"
)

// Schema creates the two tables mirroring the CSV exports.
const Schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id                 INTEGER PRIMARY KEY,
	name               TEXT NOT NULL,
	date               TEXT,
	chamber            TEXT NOT NULL,
	type               TEXT NOT NULL,
	raw_text           TEXT NOT NULL,
	clean_text         TEXT NOT NULL,
	intervention_pairs TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS interventions (
	intervention_id   INTEGER PRIMARY KEY,
	session_id        INTEGER NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	speaker_text      TEXT NOT NULL,
	intervention_text TEXT NOT NULL,
	tokens            TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_interventions_session ON interventions(session_id);
`

// ErrNotFound is returned when a session id has no row.
var ErrNotFound = errors.New("store: not found")

// Store wraps a SQLite database.
type Store struct {
	DB *sql.DB
}

// Open opens (or creates) the database at path. ":memory:" gives a
// private in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection: SQLite has a single writer, and every connection to
	// ":memory:" would otherwise see its own database.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=10000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}
	return NewStore(db), nil
}

// NewStore wraps an open database.
func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// Init creates the tables if missing.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Replace swaps the stored batch for records and their flattened rows in
// one transaction. Ids restart at every run, so rows from an earlier, larger
// batch are deleted rather than left behind.
func (s *Store) Replace(ctx context.Context, records []*core.SessionRecord, rows []core.InterventionRecord) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"interventions", "sessions"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	if err := insertSessions(ctx, tx, records); err != nil {
		return err
	}
	if err := insertInterventions(ctx, tx, rows); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertSessions(ctx context.Context, tx *sql.Tx, records []*core.SessionRecord) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO sessions
		(id, name, date, chamber, type, raw_text, clean_text, intervention_pairs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare sessions: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var date sql.NullString
		if rec.Date != nil {
			date = sql.NullString{String: rec.Date.String(), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, rec.Name, date, string(rec.Chamber),
			string(rec.Instance), rec.RawText, rec.CleanText, rec.Pairs.String()); err != nil {
			return fmt.Errorf("session %d: %w", rec.ID, err)
		}
	}
	return nil
}

func insertInterventions(ctx context.Context, tx *sql.Tx, rows []core.InterventionRecord) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO interventions
		(intervention_id, session_id, speaker_text, intervention_text, tokens)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare interventions: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.InterventionID, r.SessionID, r.Speaker, r.Text,
			strings.Join(r.Tokens, " ")); err != nil {
			return fmt.Errorf("intervention %d: %w", r.InterventionID, err)
		}
	}
	return nil
}

// Session loads one session by id.
func (s *Store) Session(ctx context.Context, id int) (*core.SessionRecord, error) {
	var (
		rec   core.SessionRecord
		date  sql.NullString
		pairs string
	)
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, name, date, chamber, type, raw_text, clean_text, intervention_pairs FROM sessions WHERE id = ?`, id).
		Scan(&rec.ID, &rec.Name, &date, &rec.Chamber, &rec.Instance, &rec.RawText, &rec.CleanText, &pairs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading session %d: %w", id, err)
	}
	if date.Valid {
		rec.Date = new(core.Date)
		if err := rec.Date.UnmarshalText([]byte(date.String)); err != nil {
			return nil, fmt.Errorf("session %d: %w", id, err)
		}
	}
	if rec.Pairs, err = core.ParsePairs(pairs); err != nil {
		return nil, fmt.Errorf("session %d: %w", id, err)
	}
	return &rec, nil
}

// Interventions lists a session's interventions in id order.
func (s *Store) Interventions(ctx context.Context, sessionID int) ([]core.InterventionRecord, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT session_id, intervention_id, speaker_text, intervention_text, tokens
		 FROM interventions WHERE session_id = ? ORDER BY intervention_id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying interventions: %w", err)
	}
	defer rows.Close()

	var out []core.InterventionRecord
	for rows.Next() {
		var (
			r      core.InterventionRecord
			tokens string
		)
		if err := rows.Scan(&r.SessionID, &r.InterventionID, &r.Speaker, &r.Text, &tokens); err != nil {
			return nil, fmt.Errorf("scanning intervention: %w", err)
		}
		r.Tokens = strings.Fields(tokens)
		out = append(out, r)
	}
	return out, rows.Err()
}
