package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rockodragon/wonderwall-backend/internal/models"
	"github.com/rockodragon/wonderwall-backend/internal/pkg/apperror"
	"github.com/rockodragon/wonderwall-backend/internal/repository"
	"github.com/rockodragon/wonderwall-backend/internal/validation"
)

// ConversationRepository описывает зависимости MessageService от слоя хранилища.
type ConversationRepository interface {
	GetOrCreate(ctx context.Context, userA, userB uuid.UUID) (*models.Conversation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error)
	CreateMessage(ctx context.Context, message *models.Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]models.Message, error)
	GetLastMessage(ctx context.Context, conversationID uuid.UUID) (*models.Message, error)
	MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) error
	CountUnread(ctx context.Context, conversationID, readerID uuid.UUID) (int, error)
}

// BlockChecker проверяет блокировку между пользователями.
type BlockChecker interface {
	IsBlocked(ctx context.Context, userA, userB uuid.UUID) (bool, error)
}

// MessageProfileReader возвращает карточку собеседника для списка диалогов.
type MessageProfileReader interface {
	GetProfileCard(ctx context.Context, userID uuid.UUID) (*models.ProfileCard, error)
}

// MessagePusher доставляет сообщение онлайн-получателю.
type MessagePusher interface {
	Push(userID uuid.UUID, payload []byte)
}

// MessageService отвечает за личные переписки.
// Блокировка в любую сторону закрывает переписку для обоих.
type MessageService struct {
	repo     ConversationRepository
	blocks   BlockChecker
	profiles MessageProfileReader
	notifier EventNotifier
}

// NewMessageService создаёт сервис личных сообщений.
func NewMessageService(repo ConversationRepository, blocks BlockChecker, profiles MessageProfileReader, notifier EventNotifier) *MessageService {
	return &MessageService{
		repo:     repo,
		blocks:   blocks,
		profiles: profiles,
		notifier: notifier,
	}
}

// Send отправляет сообщение пользователю, создавая переписку при необходимости.
func (s *MessageService) Send(ctx context.Context, senderID, recipientID uuid.UUID, body string) (*models.Message, error) {
	if senderID == recipientID {
		return nil, fmt.Errorf("message service: нельзя написать самому себе")
	}

	if err := validation.ValidateMessageBody(body); err != nil {
		return nil, fmt.Errorf("message service: %w", err)
	}

	blocked, err := s.blocks.IsBlocked(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, apperror.ErrForbidden
	}

	conv, err := s.repo.GetOrCreate(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}

	message := &models.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Body:           body,
	}

	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, recipientID, "message_received", map[string]interface{}{
			"conversation_id": conv.ID.String(),
			"message_id":      message.ID.String(),
			"sender_id":       senderID.String(),
		})
	}

	return message, nil
}

// ListConversations возвращает диалоги пользователя с карточкой собеседника,
// последним сообщением и числом непрочитанных.
func (s *MessageService) ListConversations(ctx context.Context, userID uuid.UUID) ([]models.ConversationPreview, error) {
	convs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	previews := make([]models.ConversationPreview, 0, len(convs))
	for _, conv := range convs {
		preview := models.ConversationPreview{Conversation: conv}

		if last, err := s.repo.GetLastMessage(ctx, conv.ID); err == nil {
			preview.LastMessage = last
		} else if !errors.Is(err, repository.ErrMessageNotFound) {
			return nil, err
		}

		if card, err := s.profiles.GetProfileCard(ctx, conv.OtherParticipant(userID)); err == nil {
			preview.Companion = card
		}

		unread, err := s.repo.CountUnread(ctx, conv.ID, userID)
		if err != nil {
			return nil, err
		}
		preview.UnreadCount = unread

		previews = append(previews, preview)
	}

	return previews, nil
}

// ListMessages возвращает сообщения переписки. Разрешено только участникам.
func (s *MessageService) ListMessages(ctx context.Context, conversationID, userID uuid.UUID, limit, offset int) ([]models.Message, error) {
	conv, err := s.repo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if !conv.HasParticipant(userID) {
		return nil, apperror.ErrForbidden
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.ListMessages(ctx, conversationID, limit, offset)
}

// MarkRead помечает входящие сообщения прочитанными. Разрешено только участникам.
func (s *MessageService) MarkRead(ctx context.Context, conversationID, userID uuid.UUID) error {
	conv, err := s.repo.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}

	if !conv.HasParticipant(userID) {
		return apperror.ErrForbidden
	}

	return s.repo.MarkRead(ctx, conversationID, userID)
}
