// Package weighlog keeps a history of scale readings in a local SQLite
// database.
package weighlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // driver: sqlite

	"github.com/suykerbuyk/touch-scale/internal/estimator"
	"github.com/suykerbuyk/touch-scale/internal/trace"
)

const schema = `
CREATE TABLE IF NOT EXISTS readings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  session_id TEXT NOT NULL,
  at_ms INTEGER NOT NULL,
  event TEXT NOT NULL,
  mode TEXT NOT NULL,
  gross REAL NOT NULL,
  net REAL NOT NULL,
  grams REAL NOT NULL,
  display TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS readings_session ON readings(session_id);
CREATE INDEX IF NOT EXISTS readings_at ON readings(at_ms);
`

// Entry is one logged reading.
type Entry struct {
	ID        int64
	SessionID string
	At        time.Time
	Event     trace.Type
	Mode      string
	Gross     float64
	Net       float64
	Grams     float64
	Display   string
}

// Log is an open weigh log.
type Log struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the weigh log at path.
func Open(ctx context.Context, path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open weigh log: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("open weigh log: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create weigh log schema: %w", err)
	}
	return &Log{db: db, now: time.Now}, nil
}

// Close closes the database.
func (l *Log) Close() error {
	return l.db.Close()
}

// Record stores the reading produced by ev.
func (l *Log) Record(ctx context.Context, sessionID string, ev trace.Event, r estimator.Reading) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO readings (session_id, at_ms, event, mode, gross, net, grams, display)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, l.now().UnixMilli(), string(ev.Type), r.Mode.String(),
		r.Gross, r.Net, r.Grams, r.Display)
	if err != nil {
		return fmt.Errorf("record reading: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns everything.
func (l *Log) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, session_id, at_ms, event, mode, gross, net, grams, display
		 FROM readings ORDER BY at_ms DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query readings: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var atMs int64
		var event string
		if err := rows.Scan(&e.ID, &e.SessionID, &atMs, &event, &e.Mode, &e.Gross, &e.Net, &e.Grams, &e.Display); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		e.At = time.UnixMilli(atMs)
		e.Event = trace.Type(event)
		out = append(out, e)
	}
	return out, rows.Err()
}

// SessionStats summarizes one session's readings.
type SessionStats struct {
	ID       string
	Readings int
	MaxGrams float64
	First    time.Time
	Last     time.Time
}

// Summary aggregates the whole log.
type Summary struct {
	Readings int
	Sessions int
	Tares    int
	MaxGrams float64
	First    time.Time
	Last     time.Time
	// Busiest sessions first.
	PerSession []SessionStats
}

// Summary computes totals over every logged reading.
func (l *Log) Summary(ctx context.Context) (Summary, error) {
	var s Summary
	var first, last sql.NullInt64
	var maxGrams sql.NullFloat64
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT session_id),
		        COALESCE(SUM(CASE WHEN event = 'tare' THEN 1 ELSE 0 END), 0),
		        MAX(grams), MIN(at_ms), MAX(at_ms)
		 FROM readings`).Scan(&s.Readings, &s.Sessions, &s.Tares, &maxGrams, &first, &last)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize readings: %w", err)
	}
	if s.Readings == 0 {
		return s, nil
	}
	s.MaxGrams = maxGrams.Float64
	s.First = time.UnixMilli(first.Int64)
	s.Last = time.UnixMilli(last.Int64)

	rows, err := l.db.QueryContext(ctx,
		`SELECT session_id, COUNT(*), MAX(grams), MIN(at_ms), MAX(at_ms)
		 FROM readings GROUP BY session_id
		 ORDER BY COUNT(*) DESC, MAX(at_ms) DESC`)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize sessions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ss SessionStats
		var f, la int64
		if err := rows.Scan(&ss.ID, &ss.Readings, &ss.MaxGrams, &f, &la); err != nil {
			return Summary{}, fmt.Errorf("scan session: %w", err)
		}
		ss.First = time.UnixMilli(f)
		ss.Last = time.UnixMilli(la)
		s.PerSession = append(s.PerSession, ss)
	}
	return s, rows.Err()
}
