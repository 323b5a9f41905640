package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rockodragon/wonderwall-backend/internal/models"
	"github.com/rockodragon/wonderwall-backend/internal/validation"
)

// Допустимые типы целей жалоб.
var validReportTargets = map[string]struct{}{
	models.ReportTargetUser:     {},
	models.ReportTargetArtifact: {},
	models.ReportTargetEvent:    {},
	models.ReportTargetJob:      {},
	models.ReportTargetMessage:  {},
}

// ModerationRepository описывает зависимости ModerationService от слоя хранилища.
type ModerationRepository interface {
	CreateReport(ctx context.Context, report *models.Report) error
	GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error)
	ListReportsByReporter(ctx context.Context, reporterID uuid.UUID) ([]models.Report, error)
	CreateBlock(ctx context.Context, block *models.Block) error
	DeleteBlock(ctx context.Context, blockerID, blockedID uuid.UUID) error
	IsBlocked(ctx context.Context, userA, userB uuid.UUID) (bool, error)
	ListBlocks(ctx context.Context, blockerID uuid.UUID) ([]models.Block, error)
}

// ModerationService отвечает за жалобы и блокировки пользователей.
type ModerationService struct {
	repo ModerationRepository
}

// NewModerationService создаёт сервис модерации.
func NewModerationService(repo ModerationRepository) *ModerationService {
	return &ModerationService{repo: repo}
}

// ReportInput содержит данные жалобы.
type ReportInput struct {
	TargetType  string
	TargetID    uuid.UUID
	Reason      string
	Description *string
}

// Report создаёт жалобу на контент или пользователя.
func (s *ModerationService) Report(ctx context.Context, reporterID uuid.UUID, in ReportInput) (*models.Report, error) {
	if _, ok := validReportTargets[in.TargetType]; !ok {
		return nil, fmt.Errorf("moderation service: недопустимый тип цели: %q", in.TargetType)
	}

	if in.TargetID == uuid.Nil {
		return nil, fmt.Errorf("moderation service: идентификатор цели обязателен")
	}

	if err := validation.ValidateNonEmpty("причина", in.Reason); err != nil {
		return nil, fmt.Errorf("moderation service: %w", err)
	}

	if err := validation.ValidateLength("причина", in.Reason, 0, validation.MaxReasonLength); err != nil {
		return nil, fmt.Errorf("moderation service: %w", err)
	}

	if in.Description != nil {
		if err := validation.ValidateLength("описание", *in.Description, 0, validation.MaxDescriptionLength); err != nil {
			return nil, fmt.Errorf("moderation service: %w", err)
		}
	}

	report := &models.Report{
		ReporterID:  reporterID,
		TargetType:  in.TargetType,
		TargetID:    in.TargetID,
		Reason:      in.Reason,
		Description: in.Description,
	}

	if err := s.repo.CreateReport(ctx, report); err != nil {
		return nil, err
	}

	return report, nil
}

// ListMyReports возвращает жалобы пользователя.
func (s *ModerationService) ListMyReports(ctx context.Context, reporterID uuid.UUID) ([]models.Report, error) {
	return s.repo.ListReportsByReporter(ctx, reporterID)
}

// Block блокирует пользователя.
func (s *ModerationService) Block(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if blockerID == blockedID {
		return fmt.Errorf("moderation service: нельзя заблокировать самого себя")
	}

	return s.repo.CreateBlock(ctx, &models.Block{
		BlockerID: blockerID,
		BlockedID: blockedID,
	})
}

// Unblock снимает блокировку.
func (s *ModerationService) Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	return s.repo.DeleteBlock(ctx, blockerID, blockedID)
}

// IsBlocked проверяет блокировку между пользователями в любую сторону.
func (s *ModerationService) IsBlocked(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	return s.repo.IsBlocked(ctx, userA, userB)
}

// ListBlocks возвращает блокировки пользователя.
func (s *ModerationService) ListBlocks(ctx context.Context, blockerID uuid.UUID) ([]models.Block, error) {
	return s.repo.ListBlocks(ctx, blockerID)
}
