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
	"github.com/rockodragon/wonderwall-backend/internal/repository"
)

type mockEventRepo struct {
	mock.Mock
}

func (m *mockEventRepo) Create(ctx context.Context, event *models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockEventRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *mockEventRepo) ListUpcoming(ctx context.Context, limit, offset int) ([]models.Event, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *mockEventRepo) ListByHost(ctx context.Context, hostID uuid.UUID) ([]models.Event, error) {
	args := m.Called(ctx, hostID)
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *mockEventRepo) Update(ctx context.Context, event *models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockEventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockEventRepo) UpsertRSVP(ctx context.Context, rsvp *models.EventRSVP, capacity *int) error {
	args := m.Called(ctx, rsvp, capacity)
	return args.Error(0)
}

func (m *mockEventRepo) GetRSVP(ctx context.Context, eventID, userID uuid.UUID) (*models.EventRSVP, error) {
	args := m.Called(ctx, eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventRSVP), args.Error(1)
}

func (m *mockEventRepo) UpdateRSVPStatus(ctx context.Context, eventID, userID uuid.UUID, status string, capacity *int) error {
	args := m.Called(ctx, eventID, userID, status, capacity)
	return args.Error(0)
}

func (m *mockEventRepo) ListRSVPs(ctx context.Context, eventID uuid.UUID) ([]models.EventRSVP, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]models.EventRSVP), args.Error(1)
}

func (m *mockEventRepo) CountApproved(ctx context.Context, eventID uuid.UUID) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, userID uuid.UUID, kind string, data map[string]interface{}) {
	m.Called(ctx, userID, kind, data)
}

func testEvent(hostID uuid.UUID, requiresApproval bool, capacity *int) *models.Event {
	return &models.Event{
		ID:               uuid.New(),
		HostID:           hostID,
		Title:            "Открытая репетиция",
		StartsAt:         time.Now().Add(24 * time.Hour),
		Capacity:         capacity,
		RequiresApproval: requiresApproval,
	}
}

func TestEventService_RSVPAutoApprovesWithoutModeration(t *testing.T) {
	repo := new(mockEventRepo)
	svc := NewEventService(repo, nil)
	ctx := context.Background()

	hostID := uuid.New()
	userID := uuid.New()
	capacity := 10
	event := testEvent(hostID, false, &capacity)

	repo.On("GetByID", ctx, event.ID).Return(event, nil)
	repo.On("UpsertRSVP", ctx, mock.AnythingOfType("*models.EventRSVP"), &capacity).Return(nil)

	rsvp, err := svc.RSVP(ctx, event.ID, userID)
	assert.NoError(t, err)
	assert.Equal(t, models.RSVPStatusApproved, rsvp.Status)
	repo.AssertExpectations(t)
}

func TestEventService_RSVPStaysPendingWithModeration(t *testing.T) {
	repo := new(mockEventRepo)
	notifier := new(mockNotifier)
	svc := NewEventService(repo, notifier)
	ctx := context.Background()

	hostID := uuid.New()
	userID := uuid.New()
	event := testEvent(hostID, true, nil)

	repo.On("GetByID", ctx, event.ID).Return(event, nil)
	repo.On("UpsertRSVP", ctx, mock.AnythingOfType("*models.EventRSVP"), (*int)(nil)).Return(nil)
	notifier.On("Notify", ctx, hostID, "event_rsvp_requested", mock.Anything).Return()

	rsvp, err := svc.RSVP(ctx, event.ID, userID)
	assert.NoError(t, err)
	assert.Equal(t, models.RSVPStatusPending, rsvp.Status)
	notifier.AssertExpectations(t)
}

func TestEventService_RSVPRejectsHost(t *testing.T) {
	repo := new(mockEventRepo)
	svc := NewEventService(repo, nil)
	ctx := context.Background()

	hostID := uuid.New()
	event := testEvent(hostID, false, nil)

	repo.On("GetByID", ctx, event.ID).Return(event, nil)

	_, err := svc.RSVP(ctx, event.ID, hostID)
	assert.Error(t, err)
}

func TestEventService_RSVPRejectsWhenFull(t *testing.T) {
	repo := new(mockEventRepo)
	svc := NewEventService(repo, nil)
	ctx := context.Background()

	capacity := 3
	event := testEvent(uuid.New(), false, &capacity)

	// Отказ по вместимости приходит из хранилища: проверка мест и запись
	// заявки выполняются там одной транзакцией.
	repo.On("GetByID", ctx, event.ID).Return(event, nil)
	repo.On("UpsertRSVP", ctx, mock.AnythingOfType("*models.EventRSVP"), &capacity).
		Return(repository.ErrEventFull)

	_, err := svc.RSVP(ctx, event.ID, uuid.New())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "свободных мест")
}

func TestEventService_DecideRSVPApprove(t *testing.T) {
	repo := new(mockEventRepo)
	notifier := new(mockNotifier)
	svc := NewEventService(repo, notifier)
	ctx := context.Background()

	hostID := uuid.New()
	participantID := uuid.New()
	event := testEvent(hostID, true, nil)

	repo.On("GetByID", ctx, event.ID).Return(event, nil)
	repo.On("GetRSVP", ctx, event.ID, participantID).Return(&models.EventRSVP{
		EventID: event.ID,
		UserID:  participantID,
		Status:  models.RSVPStatusPending,
	}, nil)
	repo.On("UpdateRSVPStatus", ctx, event.ID, participantID, models.RSVPStatusApproved, (*int)(nil)).Return(nil)
	notifier.On("Notify", ctx, participantID, "event_rsvp_decided", mock.Anything).Return()

	err := svc.DecideRSVP(ctx, event.ID, hostID, participantID, true)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestEventService_DecideRSVPRejectsWhenFull(t *testing.T) {
	repo := new(mockEventRepo)
	notifier := new(mockNotifier)
	svc := NewEventService(repo, notifier)
	ctx := context.Background()

	hostID := uuid.New()
	participantID := uuid.New()
	capacity := 1
	event := testEvent(hostID, true, &capacity)

	repo.On("GetByID", ctx, event.ID).Return(event, nil)
	repo.On("GetRSVP", ctx, event.ID, participantID).Return(&models.EventRSVP{
		EventID: event.ID,
		UserID:  participantID,
		Status:  models.RSVPStatusPending,
	}, nil)
	repo.On("UpdateRSVPStatus", ctx, event.ID, participantID, models.RSVPStatusApproved, &capacity).
		Return(repository.ErrEventFull)

	err := svc.DecideRSVP(ctx, event.ID, hostID, participantID, true)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "свободных мест")
	notifier.AssertNotCalled(t, "Notify")
}

func TestEventService_DecideRSVPOnlyHost(t *testing.T) {
	repo := new(mockEventRepo)
	svc := NewEventService(repo, nil)
	ctx := context.Background()

	event := testEvent(uuid.New(), true, nil)
	repo.On("GetByID", ctx, event.ID).Return(event, nil)

	err := svc.DecideRSVP(ctx, event.ID, uuid.New(), uuid.New(), true)
	assert.True(t, apperror.IsForbidden(err))
}

func TestEventService_DecideRSVPRejectsDecidedRequest(t *testing.T) {
	repo := new(mockEventRepo)
	svc := NewEventService(repo, nil)
	ctx := context.Background()

	hostID := uuid.New()
	participantID := uuid.New()
	event := testEvent(hostID, true, nil)

	repo.On("GetByID", ctx, event.ID).Return(event, nil)
	repo.On("GetRSVP", ctx, event.ID, participantID).Return(&models.EventRSVP{
		Status: models.RSVPStatusApproved,
	}, nil)

	err := svc.DecideRSVP(ctx, event.ID, hostID, participantID, false)
	assert.Error(t, err)
	repo.AssertNotCalled(t, "UpdateRSVPStatus")
}

func TestEventService_UpdateOnlyHost(t *testing.T) {
	repo := new(mockEventRepo)
	svc := NewEventService(repo, nil)
	ctx := context.Background()

	event := testEvent(uuid.New(), false, nil)
	repo.On("GetByID", ctx, event.ID).Return(event, nil)

	_, err := svc.Update(ctx, event.ID, uuid.New(), EventInput{
		Title:    "Новое название",
		StartsAt: time.Now().Add(time.Hour),
	})
	assert.True(t, apperror.IsForbidden(err))
}

func TestEventService_CreateValidatesInput(t *testing.T) {
	repo := new(mockEventRepo)
	svc := NewEventService(repo, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, uuid.New(), EventInput{Title: ""})
	assert.Error(t, err)

	badCapacity := 0
	_, err = svc.Create(ctx, uuid.New(), EventInput{
		Title:    "Квартирник",
		StartsAt: time.Now().Add(time.Hour),
		Capacity: &badCapacity,
	})
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Create")
}
