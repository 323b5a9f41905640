package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rockodragon/wonderwall-backend/internal/models"
	"github.com/rockodragon/wonderwall-backend/internal/pkg/apperror"
	"github.com/rockodragon/wonderwall-backend/internal/validation"
)

// WonderingRepository описывает зависимости WonderingService от слоя хранилища.
type WonderingRepository interface {
	Create(ctx context.Context, wondering *models.Wondering, ttl time.Duration) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Wondering, error)
	ListActive(ctx context.Context, limit, offset int) ([]models.Wondering, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Wondering, error)
	Delete(ctx context.Context, id uuid.UUID) error
	PurgeExpired(ctx context.Context) (int64, error)
}

// WonderingService отвечает за короткоживущие записи-размышления.
type WonderingService struct {
	repo WonderingRepository
	ttl  time.Duration
}

// NewWonderingService создаёт сервис размышлений.
func NewWonderingService(repo WonderingRepository, ttl time.Duration) *WonderingService {
	return &WonderingService{repo: repo, ttl: ttl}
}

// Create публикует новое размышление со сроком жизни из конфигурации.
func (s *WonderingService) Create(ctx context.Context, userID uuid.UUID, text string) (*models.Wondering, error) {
	if err := validation.ValidateWonderingText(text); err != nil {
		return nil, fmt.Errorf("wondering service: %w", err)
	}

	wondering := &models.Wondering{
		UserID: userID,
		Text:   text,
	}

	if err := s.repo.Create(ctx, wondering, s.ttl); err != nil {
		return nil, err
	}

	return wondering, nil
}

// GetByID возвращает живое размышление.
func (s *WonderingService) GetByID(ctx context.Context, id uuid.UUID) (*models.Wondering, error) {
	return s.repo.GetByID(ctx, id)
}

// ListActive возвращает ленту живых размышлений.
func (s *WonderingService) ListActive(ctx context.Context, limit, offset int) ([]models.Wondering, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListActive(ctx, limit, offset)
}

// ListByUser возвращает живые размышления пользователя.
func (s *WonderingService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Wondering, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Delete удаляет размышление. Разрешено только автору.
func (s *WonderingService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	wondering, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if wondering.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}

// PurgeExpired удаляет истёкшие записи. Вызывается фоновой задачей.
func (s *WonderingService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.PurgeExpired(ctx)
}
