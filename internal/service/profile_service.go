package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rockodragon/wonderwall-backend/internal/models"
	"github.com/rockodragon/wonderwall-backend/internal/repository"
	"github.com/rockodragon/wonderwall-backend/internal/validation"
)

// ProfileRepository описывает зависимости ProfileService от слоя хранилища.
type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpsertProfile(ctx context.Context, profile *models.Profile) error
	GetProfileCard(ctx context.Context, userID uuid.UUID) (*models.ProfileCard, error)
	SearchProfiles(ctx context.Context, params repository.ProfileSearchParams) ([]models.ProfileSearchResult, error)
}

// Карточки профилей запрашиваются на каждую страницу поиска и избранного,
// поэтому кэшируются с коротким TTL.
const profileCardCacheTTL = 5 * time.Minute

// ProfileService отвечает за публичные профили пользователей.
type ProfileService struct {
	repo  ProfileRepository
	cache *CacheService
}

// NewProfileService создаёт сервис профилей.
func NewProfileService(repo ProfileRepository, cache *CacheService) *ProfileService {
	return &ProfileService{repo: repo, cache: cache}
}

// UpdateProfileInput содержит изменяемые поля профиля.
type UpdateProfileInput struct {
	DisplayName      string
	Bio              *string
	Disciplines      []string
	Location         *string
	Latitude         *float64
	Longitude        *float64
	Website          *string
	Instagram        *string
	PhotoID          *uuid.UUID
	AvailableForWork bool
}

// GetProfile возвращает профиль пользователя.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

// GetProfileCard возвращает компактную карточку профиля.
func (s *ProfileService) GetProfileCard(ctx context.Context, userID uuid.UUID) (*models.ProfileCard, error) {
	key := ProfileCacheKey(userID)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if card, ok := cached.(*models.ProfileCard); ok {
				return card, nil
			}
		}
	}

	card, err := s.repo.GetProfileCard(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(key, card, profileCardCacheTTL)
	}

	return card, nil
}

// UpdateProfile обновляет профиль пользователя.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*models.Profile, error) {
	if err := validation.ValidateDisplayName(in.DisplayName); err != nil {
		return nil, fmt.Errorf("profile service: %w", err)
	}

	if in.Bio != nil {
		if err := validation.ValidateLength("о себе", *in.Bio, 0, validation.MaxBioLength); err != nil {
			return nil, fmt.Errorf("profile service: %w", err)
		}
	}

	if in.Location != nil {
		if err := validation.ValidateLength("локация", *in.Location, 0, validation.MaxLocationLength); err != nil {
			return nil, fmt.Errorf("profile service: %w", err)
		}
	}

	disciplines := normalizeDisciplines(in.Disciplines)
	if err := validation.ValidateDisciplines(disciplines); err != nil {
		return nil, fmt.Errorf("profile service: %w", err)
	}

	profile := &models.Profile{
		UserID:           userID,
		DisplayName:      strings.TrimSpace(in.DisplayName),
		Bio:              in.Bio,
		Disciplines:      disciplines,
		Location:         in.Location,
		Latitude:         in.Latitude,
		Longitude:        in.Longitude,
		Website:          in.Website,
		Instagram:        in.Instagram,
		PhotoID:          in.PhotoID,
		AvailableForWork: in.AvailableForWork,
	}

	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.InvalidateUserCache(userID)
	}

	return profile, nil
}

// Search выполняет поиск профилей по фильтрам.
func (s *ProfileService) Search(ctx context.Context, params repository.ProfileSearchParams) ([]models.ProfileSearchResult, error) {
	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 20
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	return s.repo.SearchProfiles(ctx, params)
}

// normalizeDisciplines приводит дисциплины к нижнему регистру и убирает дубли.
func normalizeDisciplines(disciplines []string) []string {
	seen := make(map[string]struct{}, len(disciplines))
	result := make([]string, 0, len(disciplines))

	for _, d := range disciplines {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		result = append(result, d)
	}

	return result
}
