package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/BerylCAtieno/requirements-testgen/internal/models"
)

type Repository interface {
	Create(ctx context.Context, run *models.GenerationRun) error
	GetByID(ctx context.Context, id string) (*models.GenerationRun, error)
	ListRecent(ctx context.Context, limit int) ([]models.GenerationRun, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, run *models.GenerationRun) error {
	query := `
		INSERT INTO generation_runs (id, filename, model, requirements, raw_response, cleaned_json, parsed, case_count, created_at)
		VALUES (:id, :filename, :model, :requirements, :raw_response, :cleaned_json, :parsed, :case_count, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, run)
	return err
}

// GetByID returns nil, nil when no run has the given id.
func (r *repository) GetByID(ctx context.Context, id string) (*models.GenerationRun, error) {
	var run models.GenerationRun

	query := `
		SELECT id, filename, model, requirements, raw_response, cleaned_json, parsed, case_count, created_at
		FROM generation_runs
		WHERE id = ?
	`

	err := r.db.GetContext(ctx, &run, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &run, nil
}

// ListRecent returns the newest runs first, without their requirement text.
func (r *repository) ListRecent(ctx context.Context, limit int) ([]models.GenerationRun, error) {
	query := `
		SELECT id, filename, model, '' AS requirements, '' AS raw_response, '' AS cleaned_json, parsed, case_count, created_at
		FROM generation_runs
		ORDER BY created_at DESC
		LIMIT ?
	`

	runs := []models.GenerationRun{}
	if err := r.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, err
	}

	return runs, nil
}
