package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rockodragon/wonderwall-backend/internal/models"
)

// ErrJobNotFound возвращается, когда объявление не найдено.
var ErrJobNotFound = errors.New("job not found")

// JobRepository отвечает за доску объявлений о работе.
type JobRepository struct {
	db *sqlx.DB
}

func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create создаёт объявление.
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (poster_id, title, description, location, compensation, contact_email, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		job.PosterID,
		job.Title,
		job.Description,
		job.Location,
		job.Compensation,
		job.ContactEmail,
		models.JobStatusOpen,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt); err != nil {
		return fmt.Errorf("job repository: create %w", err)
	}

	job.Status = models.JobStatusOpen

	return nil
}

// GetByID возвращает объявление по идентификатору.
func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := r.db.GetContext(ctx, &job, `SELECT * FROM jobs WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("job repository: get by id %w", err)
	}
	return &job, nil
}

// ListOpen возвращает открытые объявления, новые первыми.
// Непустой search фильтрует по названию и описанию.
func (r *JobRepository) ListOpen(ctx context.Context, search string, limit, offset int) ([]models.Job, error) {
	var jobs []models.Job

	if search != "" {
		query := `
			SELECT * FROM jobs
			WHERE status = $1 AND (title ILIKE $2 OR description ILIKE $2)
			ORDER BY created_at DESC
			LIMIT $3 OFFSET $4
		`
		pattern := "%" + search + "%"
		if err := r.db.SelectContext(ctx, &jobs, query, models.JobStatusOpen, pattern, limit, offset); err != nil {
			return nil, fmt.Errorf("job repository: search open %w", err)
		}
		return jobs, nil
	}

	query := `
		SELECT * FROM jobs
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &jobs, query, models.JobStatusOpen, limit, offset); err != nil {
		return nil, fmt.Errorf("job repository: list open %w", err)
	}
	return jobs, nil
}

// ListByPoster возвращает объявления автора, включая закрытые.
func (r *JobRepository) ListByPoster(ctx context.Context, posterID uuid.UUID) ([]models.Job, error) {
	var jobs []models.Job
	query := `SELECT * FROM jobs WHERE poster_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &jobs, query, posterID); err != nil {
		return nil, fmt.Errorf("job repository: list by poster %w", err)
	}
	return jobs, nil
}

// Update обновляет объявление.
func (r *JobRepository) Update(ctx context.Context, job *models.Job) error {
	query := `
		UPDATE jobs
		SET title = $1, description = $2, location = $3, compensation = $4, contact_email = $5, updated_at = NOW()
		WHERE id = $6
	`

	res, err := r.db.ExecContext(
		ctx, query,
		job.Title, job.Description, job.Location, job.Compensation, job.ContactEmail, job.ID,
	)
	if err != nil {
		return fmt.Errorf("job repository: update %w", err)
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrJobNotFound
	}

	return nil
}

// Close переводит объявление в статус closed.
func (r *JobRepository) Close(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE jobs SET status = $1, closed_at = NOW(), updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, models.JobStatusClosed, id, models.JobStatusOpen)
	if err != nil {
		return fmt.Errorf("job repository: close %w", err)
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrJobNotFound
	}

	return nil
}

// Delete удаляет объявление.
func (r *JobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("job repository: delete %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrJobNotFound
	}
	return nil
}
