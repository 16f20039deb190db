package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"ValueScope/internal/currency"
)

// SQLiteRecorder persists the audit trail to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS rate_snapshots (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			source    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rate_snapshots_ts ON rate_snapshots(timestamp)`,

		`CREATE TABLE IF NOT EXISTS rate_values (
			snapshot_id INTEGER NOT NULL REFERENCES rate_snapshots(id),
			currency    TEXT NOT NULL,
			rate        REAL NOT NULL,
			PRIMARY KEY (snapshot_id, currency)
		)`,

		`CREATE TABLE IF NOT EXISTS digest_runs (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			tickers   INTEGER,
			failures  INTEGER,
			sent      INTEGER,
			note      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_digest_ts ON digest_runs(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRates stores every rate of t under one snapshot row.
func (r *SQLiteRecorder) RecordRates(ctx context.Context, t *currency.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	ts := t.FetchedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO rate_snapshots (timestamp, source) VALUES (?, ?)`, ts.Unix(), t.Source)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("snapshot id: %w", err)
	}
	for _, code := range t.Rates.Codes() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO rate_values (snapshot_id, currency, rate) VALUES (?, ?, ?)`,
			id, code, t.Rates[code]); err != nil {
			return fmt.Errorf("insert rate %s: %w", code, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordDigest(ctx context.Context, evt *DigestEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sent := 0
	if evt.Sent {
		sent = 1
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO digest_runs
		(timestamp, tickers, failures, sent, note)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), evt.Tickers, evt.Failures, sent, evt.Note,
	)
	return err
}

// RecentRates returns the newest observations for code, newest first.
func (r *SQLiteRecorder) RecentRates(ctx context.Context, code string, limit int) ([]RatePoint, error) {
	if limit <= 0 {
		limit = 24
	}
	rows, err := r.db.QueryContext(ctx, `SELECT s.timestamp, v.currency, v.rate, s.source
		FROM rate_values v JOIN rate_snapshots s ON s.id = v.snapshot_id
		WHERE v.currency = ?
		ORDER BY s.timestamp DESC, s.id DESC
		LIMIT ?`, strings.ToUpper(code), limit)
	if err != nil {
		return nil, fmt.Errorf("query rates: %w", err)
	}
	defer rows.Close()

	var out []RatePoint
	for rows.Next() {
		var (
			ts int64
			p  RatePoint
		)
		if err := rows.Scan(&ts, &p.Currency, &p.Rate, &p.Source); err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		p.Time = time.Unix(ts, 0)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}
