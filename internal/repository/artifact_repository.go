package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/rockodragon/wonderwall-backend/internal/models"
)

// ErrArtifactNotFound возвращается, когда работа не найдена.
var ErrArtifactNotFound = errors.New("artifact not found")

// ArtifactRepository отвечает за работы в портфолио.
type ArtifactRepository struct {
	db *sqlx.DB
}

func NewArtifactRepository(db *sqlx.DB) *ArtifactRepository {
	return &ArtifactRepository{db: db}
}

// Create создаёт работу в портфолио.
func (r *ArtifactRepository) Create(ctx context.Context, artifact *models.Artifact) error {
	query := `
		INSERT INTO artifacts (user_id, title, description, cover_media_id, tags, external_link)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		artifact.UserID,
		artifact.Title,
		artifact.Description,
		artifact.CoverMediaID,
		pq.Array(artifact.Tags),
		artifact.ExternalLink,
	).Scan(&artifact.ID, &artifact.CreatedAt); err != nil {
		return fmt.Errorf("artifact repository: create %w", err)
	}

	return nil
}

// GetByID возвращает работу по идентификатору.
func (r *ArtifactRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Artifact, error) {
	query := `
		SELECT id, user_id, title, description, cover_media_id, tags, external_link, created_at
		FROM artifacts
		WHERE id = $1
	`

	var artifact models.Artifact
	var tags pq.StringArray

	if err := r.db.QueryRowxContext(ctx, query, id).Scan(
		&artifact.ID,
		&artifact.UserID,
		&artifact.Title,
		&artifact.Description,
		&artifact.CoverMediaID,
		&tags,
		&artifact.ExternalLink,
		&artifact.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArtifactNotFound
		}
		return nil, fmt.Errorf("artifact repository: get by id %w", err)
	}

	artifact.Tags = []string(tags)

	return &artifact, nil
}

// ListByUser возвращает работы пользователя, новые первыми.
func (r *ArtifactRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Artifact, error) {
	query := `
		SELECT id, user_id, title, description, cover_media_id, tags, external_link, created_at
		FROM artifacts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("artifact repository: list by user %w", err)
	}
	defer rows.Close()

	var artifacts []models.Artifact
	for rows.Next() {
		var artifact models.Artifact
		var tags pq.StringArray

		if err := rows.Scan(
			&artifact.ID,
			&artifact.UserID,
			&artifact.Title,
			&artifact.Description,
			&artifact.CoverMediaID,
			&tags,
			&artifact.ExternalLink,
			&artifact.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("artifact repository: list scan %w", err)
		}

		artifact.Tags = []string(tags)
		artifacts = append(artifacts, artifact)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("artifact repository: list rows %w", err)
	}

	return artifacts, nil
}

// Update обновляет работу.
func (r *ArtifactRepository) Update(ctx context.Context, artifact *models.Artifact) error {
	query := `
		UPDATE artifacts
		SET title = $1, description = $2, cover_media_id = $3, tags = $4, external_link = $5
		WHERE id = $6
	`

	res, err := r.db.ExecContext(
		ctx, query,
		artifact.Title,
		artifact.Description,
		artifact.CoverMediaID,
		pq.Array(artifact.Tags),
		artifact.ExternalLink,
		artifact.ID,
	)
	if err != nil {
		return fmt.Errorf("artifact repository: update %w", err)
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrArtifactNotFound
	}

	return nil
}

// Delete удаляет работу.
func (r *ArtifactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM artifacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("artifact repository: delete %w", err)
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrArtifactNotFound
	}

	return nil
}

// AttachMedia привязывает файл к работе.
func (r *ArtifactRepository) AttachMedia(ctx context.Context, am *models.ArtifactMedia) error {
	query := `
		INSERT INTO artifact_media (artifact_id, media_id, position)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(ctx, query, am.ArtifactID, am.MediaID, am.Position).
		Scan(&am.ID, &am.CreatedAt); err != nil {
		return fmt.Errorf("artifact repository: attach media %w", err)
	}

	return nil
}

// ListMedia возвращает файлы работы в порядке позиций.
func (r *ArtifactRepository) ListMedia(ctx context.Context, artifactID uuid.UUID) ([]models.ArtifactMedia, error) {
	var media []models.ArtifactMedia
	query := `SELECT * FROM artifact_media WHERE artifact_id = $1 ORDER BY position ASC`
	if err := r.db.SelectContext(ctx, &media, query, artifactID); err != nil {
		return nil, fmt.Errorf("artifact repository: list media %w", err)
	}
	return media, nil
}
