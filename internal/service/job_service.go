package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rockodragon/wonderwall-backend/internal/models"
	"github.com/rockodragon/wonderwall-backend/internal/pkg/apperror"
	"github.com/rockodragon/wonderwall-backend/internal/validation"
)

// JobRepository описывает зависимости JobService от слоя хранилища.
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	ListOpen(ctx context.Context, search string, limit, offset int) ([]models.Job, error)
	ListByPoster(ctx context.Context, posterID uuid.UUID) ([]models.Job, error)
	Update(ctx context.Context, job *models.Job) error
	Close(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// JobService отвечает за доску объявлений о работе.
type JobService struct {
	repo JobRepository
}

// NewJobService создаёт сервис объявлений.
func NewJobService(repo JobRepository) *JobService {
	return &JobService{repo: repo}
}

// JobInput содержит поля объявления при создании и обновлении.
type JobInput struct {
	Title        string
	Description  string
	Location     *string
	Compensation *string
	ContactEmail string
}

// Create публикует объявление.
func (s *JobService) Create(ctx context.Context, posterID uuid.UUID, in JobInput) (*models.Job, error) {
	if err := validateJobInput(in); err != nil {
		return nil, err
	}

	job := &models.Job{
		PosterID:     posterID,
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		Location:     in.Location,
		Compensation: in.Compensation,
		ContactEmail: strings.ToLower(strings.TrimSpace(in.ContactEmail)),
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}

	return job, nil
}

// GetByID возвращает объявление.
func (s *JobService) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	return s.repo.GetByID(ctx, id)
}

// ListOpen возвращает открытые объявления, при необходимости с поиском по ключевым словам.
func (s *JobService) ListOpen(ctx context.Context, search string, limit, offset int) ([]models.Job, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListOpen(ctx, strings.TrimSpace(search), limit, offset)
}

// ListByPoster возвращает объявления автора.
func (s *JobService) ListByPoster(ctx context.Context, posterID uuid.UUID) ([]models.Job, error) {
	return s.repo.ListByPoster(ctx, posterID)
}

// Update обновляет объявление. Разрешено только автору и только для открытых.
func (s *JobService) Update(ctx context.Context, id, userID uuid.UUID, in JobInput) (*models.Job, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if job.PosterID != userID {
		return nil, apperror.ErrForbidden
	}

	if job.Status != models.JobStatusOpen {
		return nil, fmt.Errorf("job service: закрытое объявление нельзя редактировать")
	}

	if err := validateJobInput(in); err != nil {
		return nil, err
	}

	job.Title = strings.TrimSpace(in.Title)
	job.Description = in.Description
	job.Location = in.Location
	job.Compensation = in.Compensation
	job.ContactEmail = strings.ToLower(strings.TrimSpace(in.ContactEmail))

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}

	return job, nil
}

// Close закрывает объявление. Разрешено только автору.
func (s *JobService) Close(ctx context.Context, id, userID uuid.UUID) error {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if job.PosterID != userID {
		return apperror.ErrForbidden
	}

	return s.repo.Close(ctx, id)
}

// Delete удаляет объявление. Разрешено только автору.
func (s *JobService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if job.PosterID != userID {
		return apperror.ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}

func validateJobInput(in JobInput) error {
	if err := validation.ValidateTitle("название объявления", in.Title); err != nil {
		return fmt.Errorf("job service: %w", err)
	}

	if err := validation.ValidateNonEmpty("описание", in.Description); err != nil {
		return fmt.Errorf("job service: %w", err)
	}

	if err := validation.ValidateLength("описание", in.Description, 0, validation.MaxDescriptionLength); err != nil {
		return fmt.Errorf("job service: %w", err)
	}

	if err := validation.ValidateEmail(in.ContactEmail); err != nil {
		return fmt.Errorf("job service: %w", err)
	}

	return nil
}
