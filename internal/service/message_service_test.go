package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rockodragon/wonderwall-backend/internal/models"
	"github.com/rockodragon/wonderwall-backend/internal/pkg/apperror"
)

type mockConversationRepo struct {
	mock.Mock
}

func (m *mockConversationRepo) GetOrCreate(ctx context.Context, userA, userB uuid.UUID) (*models.Conversation, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *mockConversationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *mockConversationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Conversation), args.Error(1)
}

func (m *mockConversationRepo) CreateMessage(ctx context.Context, message *models.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *mockConversationRepo) ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]models.Message, error) {
	args := m.Called(ctx, conversationID, limit, offset)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *mockConversationRepo) GetLastMessage(ctx context.Context, conversationID uuid.UUID) (*models.Message, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *mockConversationRepo) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	args := m.Called(ctx, conversationID, readerID)
	return args.Error(0)
}

func (m *mockConversationRepo) CountUnread(ctx context.Context, conversationID, readerID uuid.UUID) (int, error) {
	args := m.Called(ctx, conversationID, readerID)
	return args.Int(0), args.Error(1)
}

type mockBlockChecker struct {
	mock.Mock
}

func (m *mockBlockChecker) IsBlocked(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	args := m.Called(ctx, userA, userB)
	return args.Bool(0), args.Error(1)
}

func normalizedConversation(a, b uuid.UUID) *models.Conversation {
	if a.String() > b.String() {
		a, b = b, a
	}
	return &models.Conversation{
		ID:        uuid.New(),
		UserAID:   a,
		UserBID:   b,
		CreatedAt: time.Now(),
	}
}

func TestMessageService_SendCreatesConversation(t *testing.T) {
	repo := new(mockConversationRepo)
	blocks := new(mockBlockChecker)
	profiles := &mockProfileReader{cards: map[uuid.UUID]*models.ProfileCard{}}
	notifier := new(mockNotifier)
	svc := NewMessageService(repo, blocks, profiles, notifier)
	ctx := context.Background()

	sender := uuid.New()
	recipient := uuid.New()
	conv := normalizedConversation(sender, recipient)

	blocks.On("IsBlocked", ctx, sender, recipient).Return(false, nil)
	repo.On("GetOrCreate", ctx, sender, recipient).Return(conv, nil)
	repo.On("CreateMessage", ctx, mock.AnythingOfType("*models.Message")).Return(nil)
	notifier.On("Notify", ctx, recipient, "message_received", mock.Anything).Return()

	message, err := svc.Send(ctx, sender, recipient, "Привет! Видел твою выставку.")
	assert.NoError(t, err)
	assert.Equal(t, conv.ID, message.ConversationID)
	assert.Equal(t, sender, message.SenderID)
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestMessageService_SendBlockedEitherDirection(t *testing.T) {
	repo := new(mockConversationRepo)
	blocks := new(mockBlockChecker)
	svc := NewMessageService(repo, blocks, &mockProfileReader{}, nil)
	ctx := context.Background()

	sender := uuid.New()
	recipient := uuid.New()

	blocks.On("IsBlocked", ctx, sender, recipient).Return(true, nil)

	_, err := svc.Send(ctx, sender, recipient, "Привет")
	assert.True(t, apperror.IsForbidden(err))
	repo.AssertNotCalled(t, "GetOrCreate")
}

func TestMessageService_SendRejectsSelfAndEmptyBody(t *testing.T) {
	svc := NewMessageService(new(mockConversationRepo), new(mockBlockChecker), &mockProfileReader{}, nil)
	ctx := context.Background()

	userID := uuid.New()
	_, err := svc.Send(ctx, userID, userID, "Привет")
	assert.Error(t, err)

	_, err = svc.Send(ctx, userID, uuid.New(), "   ")
	assert.Error(t, err)
}

func TestMessageService_ListMessagesOnlyParticipants(t *testing.T) {
	repo := new(mockConversationRepo)
	svc := NewMessageService(repo, new(mockBlockChecker), &mockProfileReader{}, nil)
	ctx := context.Background()

	conv := normalizedConversation(uuid.New(), uuid.New())
	repo.On("GetByID", ctx, conv.ID).Return(conv, nil)

	_, err := svc.ListMessages(ctx, conv.ID, uuid.New(), 50, 0)
	assert.True(t, apperror.IsForbidden(err))
}

func TestMessageService_MarkReadOnlyParticipants(t *testing.T) {
	repo := new(mockConversationRepo)
	svc := NewMessageService(repo, new(mockBlockChecker), &mockProfileReader{}, nil)
	ctx := context.Background()

	conv := normalizedConversation(uuid.New(), uuid.New())
	repo.On("GetByID", ctx, conv.ID).Return(conv, nil)
	repo.On("MarkRead", ctx, conv.ID, conv.UserAID).Return(nil)

	assert.NoError(t, svc.MarkRead(ctx, conv.ID, conv.UserAID))
	assert.True(t, apperror.IsForbidden(svc.MarkRead(ctx, conv.ID, uuid.New())))
}

func TestMessageService_ListConversationsBuildsPreviews(t *testing.T) {
	repo := new(mockConversationRepo)
	profiles := &mockProfileReader{cards: map[uuid.UUID]*models.ProfileCard{}}
	svc := NewMessageService(repo, new(mockBlockChecker), profiles, nil)
	ctx := context.Background()

	userID := uuid.New()
	companion := uuid.New()
	profiles.cards[companion] = &models.ProfileCard{UserID: companion, Username: "companion"}

	conv := normalizedConversation(userID, companion)
	last := &models.Message{ID: uuid.New(), ConversationID: conv.ID, SenderID: companion, Body: "Жду ответа"}

	repo.On("ListByUser", ctx, userID).Return([]models.Conversation{*conv}, nil)
	repo.On("GetLastMessage", ctx, conv.ID).Return(last, nil)
	repo.On("CountUnread", ctx, conv.ID, userID).Return(2, nil)

	previews, err := svc.ListConversations(ctx, userID)
	assert.NoError(t, err)
	assert.Len(t, previews, 1)
	assert.Equal(t, last.ID, previews[0].LastMessage.ID)
	assert.Equal(t, "companion", previews[0].Companion.Username)
	assert.Equal(t, 2, previews[0].UnreadCount)
}
