// Package db provides PostgreSQL storage for generation runs and their artifacts.
package db

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the run tables if they do not exist yet
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// CreateRun inserts a running generation run under the caller's run ID
func (db *DB) CreateRun(ctx context.Context, runID uuid.UUID, contentPath, selection string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO generation_runs (id, content_path, selection, status)
		 VALUES ($1, $2, $3, $4)`,
		runID, contentPath, selection, RunStatusRunning,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// RecordStep stores the outcome of one step, replacing an earlier record of
// the same step
func (db *DB) RecordStep(ctx context.Context, runID uuid.UUID, step, category, status string, duration time.Duration, errMsg string) error {
	durationMs := int(duration.Milliseconds())
	var errorMessage *string
	if errMsg != "" {
		errorMessage = &errMsg
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO run_steps (id, run_id, step, category, status, duration_ms, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (run_id, step) DO UPDATE
		 SET category = $4, status = $5, duration_ms = $6, error_message = $7, created_at = NOW()`,
		uuid.New(), runID, step, category, status, durationMs, errorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to record step %s: %w", step, err)
	}
	return nil
}

// CompleteRun marks a generation run as finished
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status, artifactPath string) error {
	var artifact *string
	if artifactPath != "" {
		artifact = &artifactPath
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE generation_runs SET status = $1, artifact_path = $2, completed_at = NOW() WHERE id = $3`,
		status, artifact, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("run not found: %s", runID)
	}
	return nil
}

// SaveArtifact stores a JSON artifact for a generation run
func (db *DB) SaveArtifact(ctx context.Context, runID uuid.UUID, step, category string, content any) error {
	jsonBytes, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO artifacts (id, run_id, step, category, content)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (run_id, step) DO UPDATE SET category = $4, content = $5, created_at = NOW()`,
		uuid.New(), runID, step, category, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", step, err)
	}
	return nil
}

// SaveTextArtifact stores a text artifact (like the .tex source) for a generation run
func (db *DB) SaveTextArtifact(ctx context.Context, runID uuid.UUID, step, category, text string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO artifacts (id, run_id, step, category, text_content)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (run_id, step) DO UPDATE SET category = $4, text_content = $5, created_at = NOW()`,
		uuid.New(), runID, step, category, text,
	)
	if err != nil {
		return fmt.Errorf("failed to save text artifact %s: %w", step, err)
	}
	return nil
}

// GetArtifact retrieves a JSON artifact by run ID and step. It returns nil
// when the artifact does not exist.
func (db *DB) GetArtifact(ctx context.Context, runID uuid.UUID, step string) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact %s: %w", step, err)
	}
	return content, nil
}

// GetTextArtifact retrieves a text artifact by run ID and step
func (db *DB) GetTextArtifact(ctx context.Context, runID uuid.UUID, step string) (string, error) {
	var text *string
	err := db.pool.QueryRow(ctx,
		`SELECT text_content FROM artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&text)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get text artifact %s: %w", step, err)
	}
	if text == nil {
		return "", nil
	}
	return *text, nil
}

const runColumns = `id, content_path, selection, status, COALESCE(artifact_path, ''), created_at, completed_at`

func scanRun(row pgx.Row) (*Run, error) {
	var run Run
	if err := row.Scan(&run.ID, &run.ContentPath, &run.Selection, &run.Status, &run.ArtifactPath, &run.CreatedAt, &run.CompletedAt); err != nil {
		return nil, err
	}
	return &run, nil
}

// GetRun retrieves a generation run by ID. It returns nil when the run does
// not exist.
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	run, err := scanRun(db.pool.QueryRow(ctx,
		`SELECT `+runColumns+` FROM generation_runs WHERE id = $1`,
		runID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns retrieves the most recent generation runs
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+runColumns+` FROM generation_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// ListRunSteps retrieves the recorded steps of a run in the order they ran
func (db *DB) ListRunSteps(ctx context.Context, runID uuid.UUID) ([]RunStep, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, run_id, step, category, status, duration_ms, error_message, created_at
		 FROM run_steps WHERE run_id = $1 ORDER BY created_at, step`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list run steps: %w", err)
	}
	defer rows.Close()

	var steps []RunStep
	for rows.Next() {
		var step RunStep
		if err := rows.Scan(&step.ID, &step.RunID, &step.Step, &step.Category, &step.Status,
			&step.DurationMs, &step.ErrorMessage, &step.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run step: %w", err)
		}
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list run steps: %w", err)
	}
	return steps, nil
}

// DeleteRun deletes a generation run and all its steps and artifacts (via cascade)
func (db *DB) DeleteRun(ctx context.Context, runID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM generation_runs WHERE id = $1`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("run not found: %s", runID)
	}
	return nil
}
