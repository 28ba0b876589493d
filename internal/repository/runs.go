package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sfdrtools/sfdr-validator/constants"
	"github.com/sfdrtools/sfdr-validator/internal/pipeline"
)

// Run is one row in validation_run.
type Run struct {
	ID         uuid.UUID
	SourcePath string
	Status     constants.RunStatus
	Templates  int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RunRepository stores validation runs and their per-template results.
type RunRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewRunRepository(pool *pgxpool.Pool, logger *slog.Logger) *RunRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunRepository{pool: pool, logger: logger}
}

// CreateRun inserts a new run in RUNNING state and returns its ID.
func (r *RunRepository) CreateRun(ctx context.Context, sourcePath string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO validation_run (id, source_path, status, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())`,
		id, sourcePath, constants.RunStatusRunning)
	if err != nil {
		r.logger.Error("run.create.fail", "error", err)
		return uuid.Nil, fmt.Errorf("create run: %w", err)
	}
	r.logger.Info("run.create.ok", "run_id", id, "source_path", sourcePath)
	return id, nil
}

// UpdateStatus moves a run to the given status.
func (r *RunRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status constants.RunStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE validation_run SET status = $2, updated_at = now() WHERE id = $1`,
		id, status)
	if err != nil {
		return fmt.Errorf("update run status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update run status: run %s not found", id)
	}
	return nil
}

// SaveResults writes one validation_result row per template, with the merged
// field map and the condition list stored as JSONB, inside one transaction.
func (r *RunRepository) SaveResults(ctx context.Context, runID uuid.UUID, results []pipeline.Result) error {
	start := time.Now()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, res := range results {
		t := res.Template
		fields := make(map[string]string, len(t.Fields))
		for k, f := range t.Fields {
			fields[k] = f.Text()
		}
		fieldsJSON, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("marshal fields: %w", err)
		}
		condsJSON, err := json.Marshal(res.Conditions)
		if err != nil {
			return fmt.Errorf("marshal conditions: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO validation_result
				(id, run_id, legal_entity_id, product_name, article,
				 start_page, end_page, fields, conditions, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())`,
			uuid.New(), runID, t.LegalEntityID, t.ProductName, t.Article,
			t.StartPage, t.EndPage, fieldsJSON, condsJSON)
		if err != nil {
			return fmt.Errorf("insert result: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit results: %w", err)
	}

	r.logger.Info("run.results.saved",
		"run_id", runID,
		"templates", len(results),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetRun loads a single run header row.
func (r *RunRepository) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, source_path, status,
		       (SELECT count(*) FROM validation_result WHERE run_id = vr.id),
		       created_at, updated_at
		FROM validation_run vr WHERE id = $1`, id)

	var run Run
	err := row.Scan(&run.ID, &run.SourcePath, &run.Status, &run.Templates, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("run %s not found", id)
		}
		return nil, fmt.Errorf("get run: %w", err)
	}
	return &run, nil
}
