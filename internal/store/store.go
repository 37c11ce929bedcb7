// Package store persists benchmark runs in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/stayask/internal/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrRunNotFound is returned by Run for an unknown id.
var ErrRunNotFound = errors.New("store: benchmark run not found")

// Store is a SQLite-backed benchmark history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores a run and its per-question results. A run without an ID is
// assigned one, which is returned.
func (s *Store) SaveRun(run model.BenchmarkRun) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	sum := run.Summary
	_, err = tx.Exec(`INSERT OR REPLACE INTO benchmark_runs
		(run_id, started_at, model, total_queries, input_tokens, output_tokens,
		 total_cost, avg_cost_per_query, avg_tokens_per_query)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC().Format(time.RFC3339Nano), run.Model, sum.TotalQueries,
		sum.TotalTokens.Input, sum.TotalTokens.Output,
		sum.TotalCost, sum.AverageCostPerQuery, sum.AverageTokensPerQuery,
	)
	if err != nil {
		return "", fmt.Errorf("saving run: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM benchmark_results WHERE run_id = ?", run.ID); err != nil {
		return "", err
	}

	for _, r := range run.Results {
		var errText sql.NullString
		if r.Error != "" {
			errText = sql.NullString{String: r.Error, Valid: true}
		}
		_, err = tx.Exec(`INSERT INTO benchmark_results
			(run_id, question_number, question, response_time_ms,
			 input_tokens, output_tokens, total_cost, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, r.QuestionNumber, r.Question, r.ResponseTimeMs,
			r.InputTokens, r.OutputTokens, r.TotalCost, errText,
		)
		if err != nil {
			return "", fmt.Errorf("saving result %d: %w", r.QuestionNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return run.ID, nil
}

// Runs returns the most recent runs, newest first, with their results.
// limit <= 0 returns all runs.
func (s *Store) Runs(limit int) ([]model.BenchmarkRun, error) {
	query := `SELECT
		run_id, started_at, model, total_queries, input_tokens, output_tokens,
		total_cost, avg_cost_per_query, avg_tokens_per_query
		FROM benchmark_runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []model.BenchmarkRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		results, err := s.results(runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Results = results
	}
	return runs, nil
}

// Run loads a single run by id.
func (s *Store) Run(id string) (model.BenchmarkRun, error) {
	row := s.db.QueryRow(`SELECT
		run_id, started_at, model, total_queries, input_tokens, output_tokens,
		total_cost, avg_cost_per_query, avg_tokens_per_query
		FROM benchmark_runs WHERE run_id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return run, ErrRunNotFound
	}
	if err != nil {
		return run, err
	}

	run.Results, err = s.results(id)
	return run, err
}

// DeleteRun removes a run and its results.
func (s *Store) DeleteRun(id string) error {
	_, err := s.db.Exec("DELETE FROM benchmark_runs WHERE run_id = ?", id)
	return err
}

// RunCount returns the number of stored runs.
func (s *Store) RunCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM benchmark_runs").Scan(&count)
	return count, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (model.BenchmarkRun, error) {
	var run model.BenchmarkRun
	var started string
	sum := &run.Summary

	err := sc.Scan(&run.ID, &started, &run.Model, &sum.TotalQueries,
		&sum.TotalTokens.Input, &sum.TotalTokens.Output,
		&sum.TotalCost, &sum.AverageCostPerQuery, &sum.AverageTokensPerQuery)
	if err != nil {
		return run, err
	}
	sum.TotalTokens.Total = sum.TotalTokens.Input + sum.TotalTokens.Output
	run.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
	return run, nil
}

func (s *Store) results(runID string) ([]model.BenchmarkResult, error) {
	rows, err := s.db.Query(`SELECT
		question_number, question, response_time_ms, input_tokens, output_tokens, total_cost, error
		FROM benchmark_results WHERE run_id = ? ORDER BY question_number`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []model.BenchmarkResult
	for rows.Next() {
		var r model.BenchmarkResult
		var errText sql.NullString
		if err := rows.Scan(&r.QuestionNumber, &r.Question, &r.ResponseTimeMs,
			&r.InputTokens, &r.OutputTokens, &r.TotalCost, &errText); err != nil {
			return nil, err
		}
		if errText.Valid {
			r.Error = errText.String
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
