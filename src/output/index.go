package output

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"wireworld/src/universe"
)

//Index is a sqlite catalogue of finished experiments and their placements
type Index struct {
	db *sql.DB
}

//ExperimentRow is one row of the experiments table
type ExperimentRow struct {
	Seed       uint64
	Experiment int
	Rows       int
	Cols       int
	NumAdders  int
	MaxSteps   int
	Placed     int
	Rejected   int
	Frames     int
	Stabilized bool
	Duration   time.Duration
	RecordedAt string
}

//OpenIndex opens (or creates) the index database at path
func OpenIndex(path string) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Index{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS experiments (
			seed INTEGER NOT NULL,
			experiment INTEGER NOT NULL,
			grid_rows INTEGER NOT NULL,
			grid_cols INTEGER NOT NULL,
			num_adders INTEGER NOT NULL,
			max_steps INTEGER NOT NULL,
			placed INTEGER NOT NULL,
			rejected INTEGER NOT NULL,
			frames INTEGER NOT NULL,
			stabilized INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			recorded_at TEXT NOT NULL,
			PRIMARY KEY (seed, experiment)
		);`,
		`CREATE TABLE IF NOT EXISTS placements (
			seed INTEGER NOT NULL,
			experiment INTEGER NOT NULL,
			ord INTEGER NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			input_a INTEGER NOT NULL,
			input_b INTEGER NOT NULL,
			PRIMARY KEY (seed, experiment, ord),
			FOREIGN KEY (seed, experiment) REFERENCES experiments(seed, experiment) ON DELETE CASCADE
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

//RecordExperiment stores a result, replacing an earlier run of the same seed and experiment
func (ix *Index) RecordExperiment(ctx context.Context, res universe.Result) (err error) {
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	e := res.Experiment
	seed := int64(e.Seed)
	for _, table := range []string{"placements", "experiments"} {
		if _, err = tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE seed = ? AND experiment = ?`, seed, e.Index); err != nil {
			return err
		}
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO experiments
		(seed, experiment, grid_rows, grid_cols, num_adders, max_steps, placed, rejected, frames, stabilized, duration_ms, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seed, e.Index, e.Rows, e.Cols, e.NumAdders, e.MaxSteps,
		len(res.Placements), res.Rejected, res.Frames, boolToInt(res.Stabilized),
		res.Duration.Milliseconds(), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}
	for i, p := range res.Placements {
		_, err = tx.ExecContext(ctx, `INSERT INTO placements (seed, experiment, ord, x, y, input_a, input_b) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			seed, e.Index, i, p.X, p.Y, boolToInt(p.InputA), boolToInt(p.InputB))
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

//Experiments lists the recorded experiments ordered by seed and index
func (ix *Index) Experiments(ctx context.Context) ([]ExperimentRow, error) {
	rows, err := ix.db.QueryContext(ctx, `SELECT seed, experiment, grid_rows, grid_cols, num_adders, max_steps,
		placed, rejected, frames, stabilized, duration_ms, recorded_at
		FROM experiments ORDER BY seed, experiment`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExperimentRow
	for rows.Next() {
		var (
			r          ExperimentRow
			seed       int64
			stabilized int
			durationMs int64
		)
		if err := rows.Scan(&seed, &r.Experiment, &r.Rows, &r.Cols, &r.NumAdders, &r.MaxSteps,
			&r.Placed, &r.Rejected, &r.Frames, &stabilized, &durationMs, &r.RecordedAt); err != nil {
			return nil, err
		}
		r.Seed = uint64(seed)
		r.Stabilized = stabilized != 0
		r.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, r)
	}
	return out, rows.Err()
}

//Placements returns the accepted placements of one experiment in generation order
func (ix *Index) Placements(ctx context.Context, seed uint64, experiment int) ([]universe.Placement, error) {
	rows, err := ix.db.QueryContext(ctx, `SELECT x, y, input_a, input_b FROM placements
		WHERE seed = ? AND experiment = ? ORDER BY ord`, int64(seed), experiment)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []universe.Placement
	for rows.Next() {
		var (
			p    universe.Placement
			a, b int
		)
		if err := rows.Scan(&p.X, &p.Y, &a, &b); err != nil {
			return nil, err
		}
		p.InputA, p.InputB = a != 0, b != 0
		out = append(out, p)
	}
	return out, rows.Err()
}

func (ix *Index) Close() error {
	return ix.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
