package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rockodragon/wonderwall-backend/internal/models"
	"github.com/rockodragon/wonderwall-backend/internal/pkg/apperror"
	"github.com/rockodragon/wonderwall-backend/internal/repository"
	"github.com/rockodragon/wonderwall-backend/internal/validation"
)

// EventRepository описывает зависимости EventService от слоя хранилища.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	ListUpcoming(ctx context.Context, limit, offset int) ([]models.Event, error)
	ListByHost(ctx context.Context, hostID uuid.UUID) ([]models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpsertRSVP(ctx context.Context, rsvp *models.EventRSVP, capacity *int) error
	GetRSVP(ctx context.Context, eventID, userID uuid.UUID) (*models.EventRSVP, error)
	UpdateRSVPStatus(ctx context.Context, eventID, userID uuid.UUID, status string, capacity *int) error
	ListRSVPs(ctx context.Context, eventID uuid.UUID) ([]models.EventRSVP, error)
	CountApproved(ctx context.Context, eventID uuid.UUID) (int, error)
}

// EventNotifier отправляет уведомления участникам событий.
type EventNotifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind string, data map[string]interface{})
}

// EventService отвечает за события и заявки на участие.
//
// Жизненный цикл заявки: pending -> approved/declined (решает организатор),
// любая заявка может быть отменена самим участником (cancelled). Для событий
// без модерации заявка сразу получает approved, если есть свободные места.
type EventService struct {
	repo     EventRepository
	notifier EventNotifier
}

// NewEventService создаёт сервис событий.
func NewEventService(repo EventRepository, notifier EventNotifier) *EventService {
	return &EventService{repo: repo, notifier: notifier}
}

// EventInput содержит поля события при создании и обновлении.
type EventInput struct {
	Title            string
	Description      *string
	Location         *string
	Latitude         *float64
	Longitude        *float64
	StartsAt         time.Time
	EndsAt           *time.Time
	Capacity         *int
	RequiresApproval bool
	CoverMediaID     *uuid.UUID
}

// Create создаёт событие.
func (s *EventService) Create(ctx context.Context, hostID uuid.UUID, in EventInput) (*models.Event, error) {
	if err := validateEventInput(in); err != nil {
		return nil, err
	}

	event := &models.Event{
		HostID:           hostID,
		Title:            in.Title,
		Description:      in.Description,
		Location:         in.Location,
		Latitude:         in.Latitude,
		Longitude:        in.Longitude,
		StartsAt:         in.StartsAt,
		EndsAt:           in.EndsAt,
		Capacity:         in.Capacity,
		RequiresApproval: in.RequiresApproval,
		CoverMediaID:     in.CoverMediaID,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// GetByID возвращает событие.
func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return s.repo.GetByID(ctx, id)
}

// ListUpcoming возвращает предстоящие события.
func (s *EventService) ListUpcoming(ctx context.Context, limit, offset int) ([]models.Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListUpcoming(ctx, limit, offset)
}

// ListByHost возвращает события организатора.
func (s *EventService) ListByHost(ctx context.Context, hostID uuid.UUID) ([]models.Event, error) {
	return s.repo.ListByHost(ctx, hostID)
}

// Update обновляет событие. Разрешено только организатору.
func (s *EventService) Update(ctx context.Context, id, userID uuid.UUID, in EventInput) (*models.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if event.HostID != userID {
		return nil, apperror.ErrForbidden
	}

	if err := validateEventInput(in); err != nil {
		return nil, err
	}

	event.Title = in.Title
	event.Description = in.Description
	event.Location = in.Location
	event.Latitude = in.Latitude
	event.Longitude = in.Longitude
	event.StartsAt = in.StartsAt
	event.EndsAt = in.EndsAt
	event.Capacity = in.Capacity
	event.RequiresApproval = in.RequiresApproval
	event.CoverMediaID = in.CoverMediaID

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// Delete удаляет событие. Разрешено только организатору.
func (s *EventService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if event.HostID != userID {
		return apperror.ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}

// RSVP подаёт заявку на участие в событии.
func (s *EventService) RSVP(ctx context.Context, eventID, userID uuid.UUID) (*models.EventRSVP, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.HostID == userID {
		return nil, fmt.Errorf("event service: организатор не подаёт заявку на своё событие")
	}

	status := models.RSVPStatusPending
	if !event.RequiresApproval {
		status = models.RSVPStatusApproved
	}

	rsvp := &models.EventRSVP{
		EventID: eventID,
		UserID:  userID,
		Status:  status,
	}

	// Проверка вместимости живёт в хранилище, внутри той же транзакции,
	// что и запись заявки.
	if err := s.repo.UpsertRSVP(ctx, rsvp, event.Capacity); err != nil {
		if errors.Is(err, repository.ErrEventFull) {
			return nil, fmt.Errorf("event service: свободных мест не осталось")
		}
		return nil, err
	}

	if status == models.RSVPStatusPending && s.notifier != nil {
		s.notifier.Notify(ctx, event.HostID, "event_rsvp_requested", map[string]interface{}{
			"event_id": eventID.String(),
			"user_id":  userID.String(),
		})
	}

	return rsvp, nil
}

// CancelRSVP отменяет заявку участника.
func (s *EventService) CancelRSVP(ctx context.Context, eventID, userID uuid.UUID) error {
	if _, err := s.repo.GetRSVP(ctx, eventID, userID); err != nil {
		return err
	}
	return s.repo.UpdateRSVPStatus(ctx, eventID, userID, models.RSVPStatusCancelled, nil)
}

// DecideRSVP утверждает или отклоняет заявку. Разрешено только организатору.
func (s *EventService) DecideRSVP(ctx context.Context, eventID, hostID, participantID uuid.UUID, approve bool) error {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}

	if event.HostID != hostID {
		return apperror.ErrForbidden
	}

	rsvp, err := s.repo.GetRSVP(ctx, eventID, participantID)
	if err != nil {
		return err
	}

	if rsvp.Status != models.RSVPStatusPending {
		return fmt.Errorf("event service: заявка уже рассмотрена")
	}

	status := models.RSVPStatusDeclined
	var capacity *int
	if approve {
		status = models.RSVPStatusApproved
		capacity = event.Capacity
	}

	if err := s.repo.UpdateRSVPStatus(ctx, eventID, participantID, status, capacity); err != nil {
		if errors.Is(err, repository.ErrEventFull) {
			return fmt.Errorf("event service: свободных мест не осталось")
		}
		return err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, participantID, "event_rsvp_decided", map[string]interface{}{
			"event_id": eventID.String(),
			"status":   status,
		})
	}

	return nil
}

// ListRSVPs возвращает заявки события. Разрешено только организатору.
func (s *EventService) ListRSVPs(ctx context.Context, eventID, userID uuid.UUID) ([]models.EventRSVP, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.HostID != userID {
		return nil, apperror.ErrForbidden
	}

	return s.repo.ListRSVPs(ctx, eventID)
}

// GetMyRSVP возвращает заявку пользователя либо nil, если её нет.
func (s *EventService) GetMyRSVP(ctx context.Context, eventID, userID uuid.UUID) (*models.EventRSVP, error) {
	rsvp, err := s.repo.GetRSVP(ctx, eventID, userID)
	if errors.Is(err, repository.ErrRSVPNotFound) {
		return nil, nil
	}
	return rsvp, err
}

// CountApproved возвращает число подтверждённых участников события.
func (s *EventService) CountApproved(ctx context.Context, eventID uuid.UUID) (int, error) {
	return s.repo.CountApproved(ctx, eventID)
}

func validateEventInput(in EventInput) error {
	if err := validation.ValidateTitle("название события", in.Title); err != nil {
		return fmt.Errorf("event service: %w", err)
	}

	if in.Description != nil {
		if err := validation.ValidateLength("описание", *in.Description, 0, validation.MaxDescriptionLength); err != nil {
			return fmt.Errorf("event service: %w", err)
		}
	}

	if in.StartsAt.IsZero() {
		return fmt.Errorf("event service: время начала обязательно")
	}

	if in.EndsAt != nil && !in.EndsAt.After(in.StartsAt) {
		return fmt.Errorf("event service: время окончания должно быть позже начала")
	}

	if in.Capacity != nil && *in.Capacity <= 0 {
		return fmt.Errorf("event service: вместимость должна быть положительной")
	}

	return nil
}
