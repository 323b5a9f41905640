package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rockodragon/wonderwall-backend/internal/models"
	"github.com/rockodragon/wonderwall-backend/internal/repository"
)

// mockProfileRepository реализует ProfileRepository для тестов.
type mockProfileRepository struct {
	profiles  map[uuid.UUID]*models.Profile
	cards     map[uuid.UUID]*models.ProfileCard
	cardCalls int
}

func newMockProfileRepository() *mockProfileRepository {
	return &mockProfileRepository{
		profiles: make(map[uuid.UUID]*models.Profile),
		cards:    make(map[uuid.UUID]*models.ProfileCard),
	}
}

func (m *mockProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return nil, repository.ErrUserNotFound
}

func (m *mockProfileRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if profile, ok := m.profiles[userID]; ok {
		return profile, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockProfileRepository) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *mockProfileRepository) GetProfileCard(ctx context.Context, userID uuid.UUID) (*models.ProfileCard, error) {
	m.cardCalls++
	if card, ok := m.cards[userID]; ok {
		return card, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockProfileRepository) SearchProfiles(ctx context.Context, params repository.ProfileSearchParams) ([]models.ProfileSearchResult, error) {
	return nil, nil
}

func TestProfileService_CardCachedAndInvalidatedOnUpdate(t *testing.T) {
	repo := newMockProfileRepository()
	cache := NewCacheService()
	svc := NewProfileService(repo, cache)
	ctx := context.Background()

	userID := uuid.New()
	repo.cards[userID] = &models.ProfileCard{UserID: userID, Username: "mara", DisplayName: "Мара"}

	for i := 0; i < 3; i++ {
		card, err := svc.GetProfileCard(ctx, userID)
		if err != nil {
			t.Fatalf("получение карточки: %v", err)
		}
		if card.DisplayName != "Мара" {
			t.Fatalf("неожиданная карточка: %+v", card)
		}
	}
	if repo.cardCalls != 1 {
		t.Fatalf("повторные чтения должны идти из кэша, обращений к хранилищу: %d", repo.cardCalls)
	}

	// Обновление профиля сбрасывает кэш, следующее чтение видит новые данные.
	repo.cards[userID].DisplayName = "Марина"
	if _, err := svc.UpdateProfile(ctx, userID, UpdateProfileInput{DisplayName: "Марина"}); err != nil {
		t.Fatalf("обновление профиля: %v", err)
	}

	card, err := svc.GetProfileCard(ctx, userID)
	if err != nil {
		t.Fatalf("получение карточки после обновления: %v", err)
	}
	if card.DisplayName != "Марина" {
		t.Fatalf("после обновления ожидалась свежая карточка, получили %q", card.DisplayName)
	}
	if repo.cardCalls != 2 {
		t.Fatalf("после инвалидации ожидалось повторное чтение из хранилища, обращений: %d", repo.cardCalls)
	}
}

func TestCacheService_InvalidateUserCacheScopedToUser(t *testing.T) {
	cache := NewCacheService()

	first := uuid.New()
	second := uuid.New()

	cache.Set(ProfileCacheKey(first), "card", time.Minute)
	cache.Set(ArtifactsCacheKey(first), "list", time.Minute)
	cache.Set(ProfileCacheKey(second), "card", time.Minute)
	cache.Set(GeocodeCacheKey("москва"), "coords", time.Minute)

	cache.InvalidateUserCache(first)

	if _, ok := cache.Get(ProfileCacheKey(first)); ok {
		t.Fatalf("карточка пользователя должна быть сброшена")
	}
	if _, ok := cache.Get(ArtifactsCacheKey(first)); ok {
		t.Fatalf("портфолио пользователя должно быть сброшено")
	}
	if _, ok := cache.Get(ProfileCacheKey(second)); !ok {
		t.Fatalf("кэш другого пользователя не должен затрагиваться")
	}
	if _, ok := cache.Get(GeocodeCacheKey("москва")); !ok {
		t.Fatalf("геокэш не должен затрагиваться")
	}
}
