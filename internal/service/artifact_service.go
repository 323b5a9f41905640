package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rockodragon/wonderwall-backend/internal/models"
	"github.com/rockodragon/wonderwall-backend/internal/pkg/apperror"
	"github.com/rockodragon/wonderwall-backend/internal/validation"
)

// ArtifactRepository описывает зависимости ArtifactService от слоя хранилища.
type ArtifactRepository interface {
	Create(ctx context.Context, artifact *models.Artifact) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Artifact, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Artifact, error)
	Update(ctx context.Context, artifact *models.Artifact) error
	Delete(ctx context.Context, id uuid.UUID) error
	AttachMedia(ctx context.Context, am *models.ArtifactMedia) error
	ListMedia(ctx context.Context, artifactID uuid.UUID) ([]models.ArtifactMedia, error)
}

const artifactListCacheTTL = 5 * time.Minute

// ArtifactService отвечает за портфолио пользователей.
type ArtifactService struct {
	repo  ArtifactRepository
	cache *CacheService
}

// NewArtifactService создаёт сервис портфолио.
func NewArtifactService(repo ArtifactRepository, cache *CacheService) *ArtifactService {
	return &ArtifactService{repo: repo, cache: cache}
}

// ArtifactInput содержит поля работы при создании и обновлении.
type ArtifactInput struct {
	Title        string
	Description  *string
	CoverMediaID *uuid.UUID
	Tags         []string
	ExternalLink *string
}

// Create добавляет работу в портфолио.
func (s *ArtifactService) Create(ctx context.Context, userID uuid.UUID, in ArtifactInput) (*models.Artifact, error) {
	if err := validateArtifactInput(in); err != nil {
		return nil, err
	}

	artifact := &models.Artifact{
		UserID:       userID,
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		CoverMediaID: in.CoverMediaID,
		Tags:         normalizeDisciplines(in.Tags),
		ExternalLink: in.ExternalLink,
	}

	if err := s.repo.Create(ctx, artifact); err != nil {
		return nil, err
	}

	s.invalidate(userID)

	return artifact, nil
}

// GetByID возвращает работу.
func (s *ArtifactService) GetByID(ctx context.Context, id uuid.UUID) (*models.Artifact, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByUser возвращает портфолио пользователя.
func (s *ArtifactService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Artifact, error) {
	key := ArtifactsCacheKey(userID)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if artifacts, ok := cached.([]models.Artifact); ok {
				return artifacts, nil
			}
		}
	}

	artifacts, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(key, artifacts, artifactListCacheTTL)
	}

	return artifacts, nil
}

// Update обновляет работу. Разрешено только автору.
func (s *ArtifactService) Update(ctx context.Context, id, userID uuid.UUID, in ArtifactInput) (*models.Artifact, error) {
	artifact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if artifact.UserID != userID {
		return nil, apperror.ErrForbidden
	}

	if err := validateArtifactInput(in); err != nil {
		return nil, err
	}

	artifact.Title = strings.TrimSpace(in.Title)
	artifact.Description = in.Description
	artifact.CoverMediaID = in.CoverMediaID
	artifact.Tags = normalizeDisciplines(in.Tags)
	artifact.ExternalLink = in.ExternalLink

	if err := s.repo.Update(ctx, artifact); err != nil {
		return nil, err
	}

	s.invalidate(userID)

	return artifact, nil
}

// Delete удаляет работу. Разрешено только автору.
func (s *ArtifactService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	artifact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if artifact.UserID != userID {
		return apperror.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(userID)

	return nil
}

// AttachMedia привязывает файл к работе. Разрешено только автору.
func (s *ArtifactService) AttachMedia(ctx context.Context, artifactID, userID, mediaID uuid.UUID, position int) (*models.ArtifactMedia, error) {
	artifact, err := s.repo.GetByID(ctx, artifactID)
	if err != nil {
		return nil, err
	}

	if artifact.UserID != userID {
		return nil, apperror.ErrForbidden
	}

	am := &models.ArtifactMedia{
		ArtifactID: artifactID,
		MediaID:    mediaID,
		Position:   position,
	}

	if err := s.repo.AttachMedia(ctx, am); err != nil {
		return nil, err
	}

	s.invalidate(userID)

	return am, nil
}

func (s *ArtifactService) invalidate(userID uuid.UUID) {
	if s.cache != nil {
		s.cache.InvalidateByPrefix(ArtifactsCacheKey(userID))
	}
}

// ListMedia возвращает файлы работы.
func (s *ArtifactService) ListMedia(ctx context.Context, artifactID uuid.UUID) ([]models.ArtifactMedia, error) {
	return s.repo.ListMedia(ctx, artifactID)
}

func validateArtifactInput(in ArtifactInput) error {
	if err := validation.ValidateTitle("название работы", in.Title); err != nil {
		return fmt.Errorf("artifact service: %w", err)
	}

	if in.Description != nil {
		if err := validation.ValidateLength("описание", *in.Description, 0, validation.MaxDescriptionLength); err != nil {
			return fmt.Errorf("artifact service: %w", err)
		}
	}

	if in.ExternalLink != nil {
		if err := validation.ValidateLength("ссылка", *in.ExternalLink, 0, validation.MaxExternalLinkLength); err != nil {
			return fmt.Errorf("artifact service: %w", err)
		}
	}

	return nil
}
