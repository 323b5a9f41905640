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

var (
	// ErrInviteNotFound возвращается, когда код приглашения не найден.
	ErrInviteNotFound = errors.New("invite not found")
	// ErrInviteAlreadyUsed возвращается, когда код уже погашен.
	ErrInviteAlreadyUsed = errors.New("invite already used")
)

// InviteRepository отвечает за одноразовые коды приглашений.
type InviteRepository struct {
	db *sqlx.DB
}

func NewInviteRepository(db *sqlx.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

// Create сохраняет новый код приглашения.
func (r *InviteRepository) Create(ctx context.Context, invite *models.Invite) error {
	query := `
		INSERT INTO invites (code, created_by)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(ctx, query, invite.Code, invite.CreatedBy).
		Scan(&invite.ID, &invite.CreatedAt); err != nil {
		return fmt.Errorf("invite repository: create %w", err)
	}

	return nil
}

// GetByCode возвращает приглашение по коду.
func (r *InviteRepository) GetByCode(ctx context.Context, code string) (*models.Invite, error) {
	var invite models.Invite
	if err := r.db.GetContext(ctx, &invite, `SELECT * FROM invites WHERE code = $1`, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("invite repository: get by code %w", err)
	}
	return &invite, nil
}

// ListByCreator возвращает коды, выданные пользователю.
func (r *InviteRepository) ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]models.Invite, error) {
	var invites []models.Invite
	query := `SELECT * FROM invites WHERE created_by = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &invites, query, createdBy); err != nil {
		return nil, fmt.Errorf("invite repository: list by creator %w", err)
	}
	return invites, nil
}

// CountUnused возвращает число свободных кодов пользователя.
func (r *InviteRepository) CountUnused(ctx context.Context, createdBy uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM invites WHERE created_by = $1 AND used_by IS NULL`
	if err := r.db.GetContext(ctx, &count, query, createdBy); err != nil {
		return 0, fmt.Errorf("invite repository: count unused %w", err)
	}
	return count, nil
}
