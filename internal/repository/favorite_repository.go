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

type FavoriteRepository struct {
	db *sqlx.DB
}

func NewFavoriteRepository(db *sqlx.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Toggle атомарно переключает наличие записи избранного для тройки
// (user_id, target_type, target_id). Проверка и запись выполняются в одной
// транзакции; уникальный индекс гарантирует не более одной записи на тройку,
// поэтому два одновременных вызова не могут создать дубликат. Удаление
// исчезнувшей записи затрагивает ноль строк и не считается ошибкой.
func (r *FavoriteRepository) Toggle(ctx context.Context, userID uuid.UUID, targetType string, targetID uuid.UUID) (favorited bool, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("favorite repository: begin tx %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var id uuid.UUID
	err = tx.GetContext(ctx, &id, `
		INSERT INTO favorites (user_id, target_type, target_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, target_type, target_id) DO NOTHING
		RETURNING id
	`, userID, targetType, targetID)

	switch {
	case err == nil:
		favorited = true
	case errors.Is(err, sql.ErrNoRows):
		// Запись уже существовала — вторая половина переключателя.
		if _, err = tx.ExecContext(ctx, `
			DELETE FROM favorites WHERE user_id = $1 AND target_type = $2 AND target_id = $3
		`, userID, targetType, targetID); err != nil {
			return false, fmt.Errorf("favorite repository: delete %w", err)
		}
		favorited = false
	default:
		return false, fmt.Errorf("favorite repository: insert %w", err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("favorite repository: commit %w", err)
	}

	return favorited, nil
}

// Exists проверяет наличие записи избранного для тройки.
func (r *FavoriteRepository) Exists(ctx context.Context, userID uuid.UUID, targetType string, targetID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND target_type = $2 AND target_id = $3)
	`, userID, targetType, targetID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return exists, err
}

// CountByTarget возвращает точное количество записей избранного для цели.
func (r *FavoriteRepository) CountByTarget(ctx context.Context, targetType string, targetID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM favorites WHERE target_type = $1 AND target_id = $2
	`, targetType, targetID)
	return count, err
}

// ListByUser возвращает избранное пользователя, новые записи первыми.
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := r.db.SelectContext(ctx, &favorites, `
		SELECT * FROM favorites WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	return favorites, err
}
