package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rockodragon/wonderwall-backend/internal/models"
	"github.com/rockodragon/wonderwall-backend/internal/pkg/apperror"
	"github.com/rockodragon/wonderwall-backend/internal/repository"
)

// mockFavoriteStore реализует FavoriteStore поверх памяти.
type mockFavoriteStore struct {
	favorites []models.Favorite
	failWith  error
}

func newMockFavoriteStore() *mockFavoriteStore {
	return &mockFavoriteStore{}
}

func (m *mockFavoriteStore) find(userID uuid.UUID, targetType string, targetID uuid.UUID) int {
	for i, f := range m.favorites {
		if f.UserID == userID && f.TargetType == targetType && f.TargetID == targetID {
			return i
		}
	}
	return -1
}

func (m *mockFavoriteStore) Toggle(ctx context.Context, userID uuid.UUID, targetType string, targetID uuid.UUID) (bool, error) {
	if m.failWith != nil {
		return false, m.failWith
	}
	if i := m.find(userID, targetType, targetID); i >= 0 {
		m.favorites = append(m.favorites[:i], m.favorites[i+1:]...)
		return false, nil
	}
	m.favorites = append(m.favorites, models.Favorite{
		ID:         uuid.New(),
		UserID:     userID,
		TargetType: targetType,
		TargetID:   targetID,
		CreatedAt:  time.Now(),
	})
	return true, nil
}

func (m *mockFavoriteStore) Exists(ctx context.Context, userID uuid.UUID, targetType string, targetID uuid.UUID) (bool, error) {
	if m.failWith != nil {
		return false, m.failWith
	}
	return m.find(userID, targetType, targetID) >= 0, nil
}

func (m *mockFavoriteStore) CountByTarget(ctx context.Context, targetType string, targetID uuid.UUID) (int, error) {
	if m.failWith != nil {
		return 0, m.failWith
	}
	count := 0
	for _, f := range m.favorites {
		if f.TargetType == targetType && f.TargetID == targetID {
			count++
		}
	}
	return count, nil
}

func (m *mockFavoriteStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	// Новые записи первыми, как в репозитории.
	var result []models.Favorite
	for i := len(m.favorites) - 1; i >= 0; i-- {
		if m.favorites[i].UserID == userID {
			result = append(result, m.favorites[i])
		}
	}
	return result, nil
}

// mockProfileReader возвращает карточки для заранее известных пользователей.
type mockProfileReader struct {
	cards map[uuid.UUID]*models.ProfileCard
}

func (m *mockProfileReader) GetProfileCard(ctx context.Context, userID uuid.UUID) (*models.ProfileCard, error) {
	if card, ok := m.cards[userID]; ok {
		return card, nil
	}
	return nil, repository.ErrUserNotFound
}

type mockEventReader struct {
	cards map[uuid.UUID]*models.EventCard
}

func (m *mockEventReader) GetCard(ctx context.Context, id uuid.UUID) (*models.EventCard, error) {
	if card, ok := m.cards[id]; ok {
		return card, nil
	}
	return nil, repository.ErrEventNotFound
}

func newFavoriteServiceForTest(store FavoriteStore) *FavoriteService {
	return NewFavoriteService(store,
		&mockProfileReader{cards: map[uuid.UUID]*models.ProfileCard{}},
		&mockEventReader{cards: map[uuid.UUID]*models.EventCard{}},
	)
}

func TestFavoriteService_ToggleTwiceReturnsToOriginalState(t *testing.T) {
	store := newMockFavoriteStore()
	svc := newFavoriteServiceForTest(store)
	ctx := context.Background()

	userID := uuid.New()
	targetID := uuid.New()

	res, err := svc.Toggle(ctx, userID, models.FavoriteTargetProfile, targetID)
	if err != nil {
		t.Fatalf("toggle вернул ошибку: %v", err)
	}
	if !res.Favorited {
		t.Fatalf("первый toggle должен добавить закладку")
	}

	count, err := svc.GetFavoriteCount(ctx, models.FavoriteTargetProfile, targetID)
	if err != nil || count != 1 {
		t.Fatalf("ожидался счётчик 1, получили %d (err: %v)", count, err)
	}

	res, err = svc.Toggle(ctx, userID, models.FavoriteTargetProfile, targetID)
	if err != nil {
		t.Fatalf("повторный toggle вернул ошибку: %v", err)
	}
	if res.Favorited {
		t.Fatalf("повторный toggle должен снять закладку")
	}

	count, err = svc.GetFavoriteCount(ctx, models.FavoriteTargetProfile, targetID)
	if err != nil || count != 0 {
		t.Fatalf("после пары toggle счётчик должен вернуться к 0, получили %d (err: %v)", count, err)
	}
	if len(store.favorites) != 0 {
		t.Fatalf("в хранилище не должно остаться записей")
	}
}

func TestFavoriteService_CountsEachUserOnce(t *testing.T) {
	store := newMockFavoriteStore()
	svc := newFavoriteServiceForTest(store)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()
	targetID := uuid.New()

	if _, err := svc.Toggle(ctx, alice, models.FavoriteTargetEvent, targetID); err != nil {
		t.Fatalf("toggle alice: %v", err)
	}
	if _, err := svc.Toggle(ctx, bob, models.FavoriteTargetEvent, targetID); err != nil {
		t.Fatalf("toggle bob: %v", err)
	}

	count, err := svc.GetFavoriteCount(ctx, models.FavoriteTargetEvent, targetID)
	if err != nil || count != 2 {
		t.Fatalf("ожидался счётчик 2, получили %d (err: %v)", count, err)
	}

	// Снятие закладки одним пользователем не трогает чужую.
	if _, err := svc.Toggle(ctx, alice, models.FavoriteTargetEvent, targetID); err != nil {
		t.Fatalf("повторный toggle alice: %v", err)
	}

	count, err = svc.GetFavoriteCount(ctx, models.FavoriteTargetEvent, targetID)
	if err != nil || count != 1 {
		t.Fatalf("ожидался счётчик 1, получили %d (err: %v)", count, err)
	}

	favorited, err := svc.IsFavorited(ctx, bob, models.FavoriteTargetEvent, targetID)
	if err != nil || !favorited {
		t.Fatalf("закладка bob должна остаться (favorited=%v, err=%v)", favorited, err)
	}
}

func TestFavoriteService_ToggleRequiresAuth(t *testing.T) {
	svc := newFavoriteServiceForTest(newMockFavoriteStore())

	_, err := svc.Toggle(context.Background(), uuid.Nil, models.FavoriteTargetProfile, uuid.New())
	if !apperror.IsUnauthorized(err) {
		t.Fatalf("ожидалась ошибка авторизации, получили %v", err)
	}
}

func TestFavoriteService_ToggleRejectsInvalidTarget(t *testing.T) {
	svc := newFavoriteServiceForTest(newMockFavoriteStore())
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.Toggle(ctx, userID, "artifact", uuid.New()); !apperror.IsValidation(err) {
		t.Fatalf("ожидалась ошибка валидации для неизвестного типа, получили %v", err)
	}
	if _, err := svc.Toggle(ctx, userID, models.FavoriteTargetProfile, uuid.Nil); !apperror.IsValidation(err) {
		t.Fatalf("ожидалась ошибка валидации для нулевого идентификатора, получили %v", err)
	}
}

func TestFavoriteService_ReadsDegradeSoftly(t *testing.T) {
	store := newMockFavoriteStore()
	svc := newFavoriteServiceForTest(store)
	ctx := context.Background()

	targetID := uuid.New()
	if _, err := svc.Toggle(ctx, uuid.New(), models.FavoriteTargetProfile, targetID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	// Аноним всегда получает false, а не ошибку.
	favorited, err := svc.IsFavorited(ctx, uuid.Nil, models.FavoriteTargetProfile, targetID)
	if err != nil || favorited {
		t.Fatalf("для анонима ожидалось false без ошибки (favorited=%v, err=%v)", favorited, err)
	}

	// Некорректная цель даёт false и ноль, а не ошибку.
	favorited, err = svc.IsFavorited(ctx, uuid.New(), "bogus", targetID)
	if err != nil || favorited {
		t.Fatalf("для некорректного типа ожидалось false без ошибки (favorited=%v, err=%v)", favorited, err)
	}

	count, err := svc.GetFavoriteCount(ctx, "bogus", targetID)
	if err != nil || count != 0 {
		t.Fatalf("для некорректного типа ожидался 0 без ошибки (count=%d, err=%v)", count, err)
	}

	// Избранное анонима — пустые списки.
	my, err := svc.GetMyFavorites(ctx, uuid.Nil)
	if err != nil {
		t.Fatalf("GetMyFavorites для анонима: %v", err)
	}
	if len(my.Profiles) != 0 || len(my.Events) != 0 {
		t.Fatalf("для анонима ожидались пустые списки")
	}
}

func TestFavoriteService_ToggleWrapsStoreError(t *testing.T) {
	store := newMockFavoriteStore()
	store.failWith = errors.New("connection refused")
	svc := newFavoriteServiceForTest(store)

	_, err := svc.Toggle(context.Background(), uuid.New(), models.FavoriteTargetProfile, uuid.New())
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperror.ErrCodeDatabaseError {
		t.Fatalf("ожидалась ошибка хранилища, получили %v", err)
	}
	if !errors.Is(err, store.failWith) {
		t.Fatalf("исходная ошибка должна сохраняться в цепочке")
	}
}

func TestFavoriteService_GetMyFavoritesEnrichesAndKeepsOrder(t *testing.T) {
	store := newMockFavoriteStore()
	profiles := &mockProfileReader{cards: map[uuid.UUID]*models.ProfileCard{}}
	events := &mockEventReader{cards: map[uuid.UUID]*models.EventCard{}}
	svc := NewFavoriteService(store, profiles, events)
	ctx := context.Background()

	userID := uuid.New()

	firstProfile := uuid.New()
	secondProfile := uuid.New()
	profiles.cards[firstProfile] = &models.ProfileCard{UserID: firstProfile, Username: "first", DisplayName: "First"}
	profiles.cards[secondProfile] = &models.ProfileCard{UserID: secondProfile, Username: "second", DisplayName: "Second"}

	eventID := uuid.New()
	events.cards[eventID] = &models.EventCard{ID: eventID, Title: "Вернисаж"}

	for _, target := range []uuid.UUID{firstProfile, secondProfile} {
		if _, err := svc.Toggle(ctx, userID, models.FavoriteTargetProfile, target); err != nil {
			t.Fatalf("toggle профиля: %v", err)
		}
	}
	if _, err := svc.Toggle(ctx, userID, models.FavoriteTargetEvent, eventID); err != nil {
		t.Fatalf("toggle события: %v", err)
	}

	my, err := svc.GetMyFavorites(ctx, userID)
	if err != nil {
		t.Fatalf("GetMyFavorites: %v", err)
	}

	if len(my.Profiles) != 2 {
		t.Fatalf("ожидалось 2 профиля, получили %d", len(my.Profiles))
	}
	// Новые записи первыми.
	if my.Profiles[0].TargetID != secondProfile || my.Profiles[1].TargetID != firstProfile {
		t.Fatalf("профили должны идти от новых к старым")
	}
	if my.Profiles[0].Profile == nil || my.Profiles[0].Profile.Username != "second" {
		t.Fatalf("профиль должен быть обогащён карточкой")
	}

	if len(my.Events) != 1 || my.Events[0].Event == nil || my.Events[0].Event.Title != "Вернисаж" {
		t.Fatalf("событие должно быть обогащено карточкой")
	}
}

func TestFavoriteService_GetMyFavoritesMarksMissingTargets(t *testing.T) {
	store := newMockFavoriteStore()
	profiles := &mockProfileReader{cards: map[uuid.UUID]*models.ProfileCard{}}
	events := &mockEventReader{cards: map[uuid.UUID]*models.EventCard{}}
	svc := NewFavoriteService(store, profiles, events)
	ctx := context.Background()

	userID := uuid.New()
	deletedProfile := uuid.New()
	deletedEvent := uuid.New()

	if _, err := svc.Toggle(ctx, userID, models.FavoriteTargetProfile, deletedProfile); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := svc.Toggle(ctx, userID, models.FavoriteTargetEvent, deletedEvent); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	my, err := svc.GetMyFavorites(ctx, userID)
	if err != nil {
		t.Fatalf("GetMyFavorites: %v", err)
	}

	if len(my.Profiles) != 1 || !my.Profiles[0].TargetMissing || my.Profiles[0].Profile != nil {
		t.Fatalf("удалённый профиль должен остаться в списке с пометкой target_missing")
	}
	if len(my.Events) != 1 || !my.Events[0].TargetMissing || my.Events[0].Event != nil {
		t.Fatalf("удалённое событие должно остаться в списке с пометкой target_missing")
	}
}
