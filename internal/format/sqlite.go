package format

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"rpminspect/internal/results"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id          TEXT PRIMARY KEY,
	product_release TEXT NOT NULL,
	before_build    TEXT,
	after_build     TEXT NOT NULL,
	started_at      TEXT NOT NULL,
	worst           TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	run_id      TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
	seq         INTEGER NOT NULL,
	header      TEXT NOT NULL,
	severity    TEXT NOT NULL,
	waiver_auth TEXT NOT NULL,
	message     TEXT,
	screendump  TEXT,
	remedy      TEXT,
	PRIMARY KEY (run_id, seq)
);
CREATE INDEX IF NOT EXISTS idx_results_header ON results(header);
`

func renderSQLite(res *results.Results, dest Destination) error {
	if dest.Path == "" {
		return ErrDestinationRequired
	}
	db, err := sql.Open("sqlite", dest.Path)
	if err != nil {
		return fmt.Errorf("open sqlite db: %w", err)
	}
	defer db.Close()

	for _, pragma := range []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000"} {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	meta := res.Meta()
	var before any
	if meta.Before != "" {
		before = meta.Before
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, product_release, before_build, after_build, started_at, worst) VALUES (?, ?, ?, ?, ?, ?)`,
		meta.RunID, meta.ProductRelease, before, meta.After, meta.Started.UTC().Format(time.RFC3339), res.Worst().String(),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO results (run_id, seq, header, severity, waiver_auth, message, screendump, remedy) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, e := range res.Entries() {
		if _, err := stmt.ExecContext(ctx, meta.RunID, i+1, e.Header, e.Severity.String(), e.WaiverAuth.String(), e.Message, e.Screendump, e.Remedy); err != nil {
			return fmt.Errorf("insert result %d: %w", i+1, err)
		}
	}
	return tx.Commit()
}
