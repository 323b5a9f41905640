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

// ErrReportNotFound возвращается, когда жалоба не найдена.
var ErrReportNotFound = errors.New("report not found")

// ModerationRepository отвечает за жалобы и блокировки.
type ModerationRepository struct {
	db *sqlx.DB
}

func NewModerationRepository(db *sqlx.DB) *ModerationRepository {
	return &ModerationRepository{db: db}
}

// CreateReport сохраняет жалобу.
func (r *ModerationRepository) CreateReport(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (reporter_id, target_type, target_id, reason, description, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		report.ReporterID,
		report.TargetType,
		report.TargetID,
		report.Reason,
		report.Description,
		models.ReportStatusPending,
	).Scan(&report.ID, &report.CreatedAt); err != nil {
		return fmt.Errorf("moderation repository: create report %w", err)
	}

	report.Status = models.ReportStatusPending

	return nil
}

// GetReport возвращает жалобу по идентификатору.
func (r *ModerationRepository) GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := r.db.GetContext(ctx, &report, `SELECT * FROM reports WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("moderation repository: get report %w", err)
	}
	return &report, nil
}

// ListReportsByReporter возвращает жалобы пользователя.
func (r *ModerationRepository) ListReportsByReporter(ctx context.Context, reporterID uuid.UUID) ([]models.Report, error) {
	var reports []models.Report
	query := `SELECT * FROM reports WHERE reporter_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &reports, query, reporterID); err != nil {
		return nil, fmt.Errorf("moderation repository: list reports %w", err)
	}
	return reports, nil
}

// CreateBlock сохраняет блокировку. Повторная блокировка не ошибка.
func (r *ModerationRepository) CreateBlock(ctx context.Context, block *models.Block) error {
	query := `
		INSERT INTO blocks (blocker_id, blocked_id)
		VALUES ($1, $2)
		ON CONFLICT (blocker_id, blocked_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, block.BlockerID, block.BlockedID); err != nil {
		return fmt.Errorf("moderation repository: create block %w", err)
	}
	return nil
}

// DeleteBlock снимает блокировку.
func (r *ModerationRepository) DeleteBlock(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `
		DELETE FROM blocks WHERE blocker_id = $1 AND blocked_id = $2
	`, blockerID, blockedID); err != nil {
		return fmt.Errorf("moderation repository: delete block %w", err)
	}
	return nil
}

// IsBlocked проверяет блокировку между двумя пользователями в любую сторону.
func (r *ModerationRepository) IsBlocked(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	var blocked bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM blocks
			WHERE (blocker_id = $1 AND blocked_id = $2)
			   OR (blocker_id = $2 AND blocked_id = $1)
		)
	`
	if err := r.db.GetContext(ctx, &blocked, query, userA, userB); err != nil {
		return false, fmt.Errorf("moderation repository: is blocked %w", err)
	}
	return blocked, nil
}

// ListBlocks возвращает блокировки, созданные пользователем.
func (r *ModerationRepository) ListBlocks(ctx context.Context, blockerID uuid.UUID) ([]models.Block, error) {
	var blocks []models.Block
	query := `SELECT * FROM blocks WHERE blocker_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &blocks, query, blockerID); err != nil {
		return nil, fmt.Errorf("moderation repository: list blocks %w", err)
	}
	return blocks, nil
}
