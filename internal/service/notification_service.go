package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/rockodragon/wonderwall-backend/internal/logger"
	"github.com/rockodragon/wonderwall-backend/internal/models"
)

// NotificationRepository описывает зависимости NotificationService от слоя хранилища.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

// NotificationPusher доставляет уведомление в реальном времени.
type NotificationPusher interface {
	Push(userID uuid.UUID, payload []byte)
}

// NotificationService отвечает за уведомления: сохранение в базу и
// доставку онлайн-пользователям через websocket.
type NotificationService struct {
	repo   NotificationRepository
	pusher NotificationPusher
}

// NewNotificationService создаёт сервис уведомлений.
func NewNotificationService(repo NotificationRepository, pusher NotificationPusher) *NotificationService {
	return &NotificationService{repo: repo, pusher: pusher}
}

// Notify сохраняет уведомление и отправляет его онлайн-получателю.
// Ошибки не прерывают вызывающий сценарий: уведомления вторичны.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, kind string, data map[string]interface{}) {
	payload := map[string]interface{}{"type": kind}
	for k, v := range data {
		payload[k] = v
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		if logger.Log != nil {
			logger.Log.WithField("error", err.Error()).Warn("notification service: не удалось сериализовать payload")
		}
		return
	}

	notification := &models.Notification{
		UserID:  userID,
		Payload: raw,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		if logger.Log != nil {
			logger.Log.WithFields(map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			}).Warn("notification service: не удалось сохранить уведомление")
		}
		return
	}

	if s.pusher != nil {
		s.pusher.Push(userID, raw)
	}
}

// List возвращает уведомления пользователя.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// CountUnread возвращает число непрочитанных уведомлений.
func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead помечает уведомление прочитанным.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	return s.repo.MarkRead(ctx, notificationID, userID)
}

// MarkAllRead помечает все уведомления пользователя прочитанными.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}
