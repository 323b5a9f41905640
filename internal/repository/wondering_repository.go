package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rockodragon/wonderwall-backend/internal/models"
)

// ErrWonderingNotFound возвращается, когда запись не найдена или истекла.
var ErrWonderingNotFound = errors.New("wondering not found")

// WonderingRepository отвечает за короткоживущие записи-размышления.
// Истёкшие записи фильтруются по expires_at на стороне базы,
// физическое удаление выполняется фоновой задачей.
type WonderingRepository struct {
	db *sqlx.DB
}

func NewWonderingRepository(db *sqlx.DB) *WonderingRepository {
	return &WonderingRepository{db: db}
}

// Create создаёт запись со сроком жизни ttl.
func (r *WonderingRepository) Create(ctx context.Context, wondering *models.Wondering, ttl time.Duration) error {
	query := `
		INSERT INTO wonderings (user_id, text, expires_at)
		VALUES ($1, $2, NOW() + $3::interval)
		RETURNING id, created_at, expires_at
	`

	interval := fmt.Sprintf("%d seconds", int64(ttl.Seconds()))

	if err := r.db.QueryRowxContext(ctx, query, wondering.UserID, wondering.Text, interval).
		Scan(&wondering.ID, &wondering.CreatedAt, &wondering.ExpiresAt); err != nil {
		return fmt.Errorf("wondering repository: create %w", err)
	}

	return nil
}

// GetByID возвращает живую запись по идентификатору.
func (r *WonderingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Wondering, error) {
	var wondering models.Wondering
	query := `SELECT * FROM wonderings WHERE id = $1 AND expires_at > NOW()`
	if err := r.db.GetContext(ctx, &wondering, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWonderingNotFound
		}
		return nil, fmt.Errorf("wondering repository: get by id %w", err)
	}
	return &wondering, nil
}

// ListActive возвращает живые записи, новые первыми.
func (r *WonderingRepository) ListActive(ctx context.Context, limit, offset int) ([]models.Wondering, error) {
	var wonderings []models.Wondering
	query := `
		SELECT * FROM wonderings
		WHERE expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	if err := r.db.SelectContext(ctx, &wonderings, query, limit, offset); err != nil {
		return nil, fmt.Errorf("wondering repository: list active %w", err)
	}
	return wonderings, nil
}

// ListByUser возвращает живые записи пользователя.
func (r *WonderingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Wondering, error) {
	var wonderings []models.Wondering
	query := `
		SELECT * FROM wonderings
		WHERE user_id = $1 AND expires_at > NOW()
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &wonderings, query, userID); err != nil {
		return nil, fmt.Errorf("wondering repository: list by user %w", err)
	}
	return wonderings, nil
}

// Delete удаляет запись.
func (r *WonderingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM wonderings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("wondering repository: delete %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrWonderingNotFound
	}
	return nil
}

// PurgeExpired удаляет истёкшие записи и возвращает их количество.
func (r *WonderingRepository) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM wonderings WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("wondering repository: purge expired %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
