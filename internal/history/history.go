// Package history keeps a SQLite ledger of every measured integration call.
package history

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
CREATE TABLE IF NOT EXISTS measurements (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT    NOT NULL DEFAULT '',
	recorded_at INTEGER NOT NULL,
	func        TEXT    NOT NULL,
	mode        TEXT    NOT NULL,
	a           REAL    NOT NULL,
	b           REAL    NOT NULL,
	n_iter      INTEGER NOT NULL,
	jobs        INTEGER NOT NULL,
	mean_ns     INTEGER NOT NULL,
	value       REAL    NOT NULL,
	abs_error   REAL
);
CREATE INDEX IF NOT EXISTS measurements_func ON measurements(func, mode, n_iter);
`

type Entry struct {
	RunID      string
	RecordedAt time.Time
	Func       string
	Mode       string
	A, B       float64
	NIter      int
	Jobs       int
	Mean       time.Duration
	Value      float64
	// AbsError is nil when the integrand has no known closed form.
	AbsError *float64
}

type Ledger struct {
	db *sql.DB
}

// Open opens (or creates) the ledger at path in WAL mode.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) Record(ctx context.Context, entries ...Entry) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO measurements (run_id, recorded_at, func, mode, a, b, n_iter, jobs, mean_ns, value, abs_error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		at := e.RecordedAt
		if at.IsZero() {
			at = time.Now()
		}
		var absErr sql.NullFloat64
		if e.AbsError != nil {
			absErr = sql.NullFloat64{Float64: *e.AbsError, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, e.RunID, at.UnixNano(), e.Func, e.Mode, e.A, e.B, e.NIter, e.Jobs, int64(e.Mean), e.Value, absErr); err != nil {
			return fmt.Errorf("history: insert: %w", err)
		}
	}
	return tx.Commit()
}

// Recent returns the latest entries, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT run_id, recorded_at, func, mode, a, b, n_iter, jobs, mean_ns, value, abs_error
		FROM measurements ORDER BY recorded_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Best returns the fastest recorded mean for every (mode, n_iter) of fn,
// ordered by n_iter then mode.
func (l *Ledger) Best(ctx context.Context, fn string) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT m.run_id, m.recorded_at, m.func, m.mode, m.a, m.b, m.n_iter, m.jobs, m.mean_ns, m.value, m.abs_error
		FROM measurements m
		JOIN (
			SELECT mode, n_iter, MIN(mean_ns) AS best
			FROM measurements WHERE func = ?
			GROUP BY mode, n_iter
		) b ON m.mode = b.mode AND m.n_iter = b.n_iter AND m.mean_ns = b.best
		WHERE m.func = ?
		GROUP BY m.mode, m.n_iter
		ORDER BY m.n_iter, m.mode`, fn, fn)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var (
			e      Entry
			at     int64
			meanNs int64
			absErr sql.NullFloat64
		)
		if err := rows.Scan(&e.RunID, &at, &e.Func, &e.Mode, &e.A, &e.B, &e.NIter, &e.Jobs, &meanNs, &e.Value, &absErr); err != nil {
			return nil, err
		}
		e.RecordedAt = time.Unix(0, at)
		e.Mean = time.Duration(meanNs)
		if absErr.Valid {
			v := absErr.Float64
			e.AbsError = &v
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
