// Package store handles SQLite persistence of run history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/soilwb/internal/balance"
	"github.com/verte-zerg/soilwb/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for run data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			created_at TEXT NOT NULL,
			soil TEXT NOT NULL,
			source TEXT NOT NULL,
			output TEXT NOT NULL,
			days INTEGER NOT NULL,
			rainfall REAL NOT NULL,
			runoff_excess REAL NOT NULL,
			uptake REAL NOT NULL,
			percolation REAL NOT NULL,
			final_soil_moisture REAL NOT NULL,
			peak_soil_moisture REAL NOT NULL,
			stress_days INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_days (
			run_id INTEGER NOT NULL,
			day INTEGER NOT NULL,
			rainfall REAL NOT NULL,
			runoff_excess REAL NOT NULL,
			uptake REAL NOT NULL,
			soil_moisture REAL NOT NULL,
			percolation REAL NOT NULL,
			PRIMARY KEY (run_id, day)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_soil ON runs(soil);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a completed run and its daily records.
func (s *Store) InsertRun(ctx context.Context, stats model.RunStats, days []balance.DailyRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	sum := stats.Summary
	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (created_at, soil, source, output, days, rainfall, runoff_excess, uptake, percolation, final_soil_moisture, peak_soil_moisture, stress_days)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.CreatedAt.UTC().Format(time.RFC3339Nano),
		string(stats.Soil),
		stats.Source,
		stats.Output,
		sum.Days,
		sum.Rainfall,
		sum.RunoffExcess,
		sum.Uptake,
		sum.Percolation,
		sum.FinalSoilMoisture,
		sum.PeakSoilMoisture,
		sum.StressDays,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(days) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO run_days (run_id, day, rainfall, runoff_excess, uptake, soil_moisture, percolation)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, d := range days {
			if _, err = stmt.ExecContext(ctx, id, d.Day, d.Rainfall, d.RunoffExcess, d.Uptake, d.SoilMoisture, d.Percolation); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListRuns returns runs matching cfg ordered by creation time.
func (s *Store) ListRuns(ctx context.Context, cfg model.HistoryConfig) ([]model.RunAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Soil != "" {
		clauses = append(clauses, "soil = ?")
		args = append(args, strings.ToLower(cfg.Soil))
	}
	if cfg.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, cfg.Since.UTC().Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, created_at, soil, source, output, days, rainfall, runoff_excess, uptake, percolation, final_soil_moisture, peak_soil_moisture, stress_days
		FROM runs
		WHERE %s
		ORDER BY created_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.RunAggregate
	for rows.Next() {
		var agg model.RunAggregate
		var createdAt, soil string
		sum := &agg.Summary
		if err := rows.Scan(&agg.RunID, &createdAt, &soil, &agg.Source, &agg.Output, &sum.Days,
			&sum.Rainfall, &sum.RunoffExcess, &sum.Uptake, &sum.Percolation,
			&sum.FinalSoilMoisture, &sum.PeakSoilMoisture, &sum.StressDays); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		agg.CreatedAt = parsed
		agg.Soil = balance.Soil(soil)
		runs = append(runs, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(runs) > cfg.Last {
		runs = runs[len(runs)-cfg.Last:]
	}
	return runs, nil
}

// ListRunDays returns the daily records of a run in day order.
func (s *Store) ListRunDays(ctx context.Context, runID int64) ([]balance.DailyRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT day, rainfall, runoff_excess, uptake, soil_moisture, percolation
		 FROM run_days
		 WHERE run_id = ?
		 ORDER BY day ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var days []balance.DailyRecord
	for rows.Next() {
		var d balance.DailyRecord
		if err := rows.Scan(&d.Day, &d.Rainfall, &d.RunoffExcess, &d.Uptake, &d.SoilMoisture, &d.Percolation); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return days, nil
}

// DeleteRun removes a run and its daily records.
func (s *Store) DeleteRun(ctx context.Context, runID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM run_days WHERE run_id = ?`, runID); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
