package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rockodragon/wonderwall-backend/internal/models"
	"github.com/rockodragon/wonderwall-backend/internal/pkg/apperror"
	"github.com/rockodragon/wonderwall-backend/internal/repository"
)

// FavoriteStore описывает зависимости FavoriteService от слоя хранилища.
type FavoriteStore interface {
	Toggle(ctx context.Context, userID uuid.UUID, targetType string, targetID uuid.UUID) (bool, error)
	Exists(ctx context.Context, userID uuid.UUID, targetType string, targetID uuid.UUID) (bool, error)
	CountByTarget(ctx context.Context, targetType string, targetID uuid.UUID) (int, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error)
}

// FavoriteProfileReader возвращает карточки профилей для обогащения избранного.
type FavoriteProfileReader interface {
	GetProfileCard(ctx context.Context, userID uuid.UUID) (*models.ProfileCard, error)
}

// FavoriteEventReader возвращает карточки событий для обогащения избранного.
type FavoriteEventReader interface {
	GetCard(ctx context.Context, id uuid.UUID) (*models.EventCard, error)
}

// FavoriteService реализует закладки на профили и события.
//
// Запись (Toggle) требует авторизации и валидной цели, ошибки хранилища
// отдаются вызывающему как есть — без повторов. Чтение ведёт себя мягко:
// неавторизованный или некорректный запрос получает нейтральный ответ
// (false, ноль, пустой список), а не ошибку.
type FavoriteService struct {
	store    FavoriteStore
	profiles FavoriteProfileReader
	events   FavoriteEventReader
}

// NewFavoriteService создаёт сервис избранного.
func NewFavoriteService(store FavoriteStore, profiles FavoriteProfileReader, events FavoriteEventReader) *FavoriteService {
	return &FavoriteService{
		store:    store,
		profiles: profiles,
		events:   events,
	}
}

// ToggleResult — итог переключения закладки.
type ToggleResult struct {
	Favorited bool `json:"favorited"`
}

// Toggle переключает закладку пользователя на цель.
// Повторный вызов возвращает состояние в исходное: пара вызовов — тождество.
func (s *FavoriteService) Toggle(ctx context.Context, userID uuid.UUID, targetType string, targetID uuid.UUID) (*ToggleResult, error) {
	if userID == uuid.Nil {
		return nil, apperror.ErrUnauthorized
	}

	if err := validateFavoriteTarget(targetType, targetID); err != nil {
		return nil, err
	}

	favorited, err := s.store.Toggle(ctx, userID, targetType, targetID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось переключить избранное")
	}

	return &ToggleResult{Favorited: favorited}, nil
}

// IsFavorited сообщает, добавлена ли цель в избранное пользователя.
// Для неавторизованного пользователя и некорректной цели всегда false.
func (s *FavoriteService) IsFavorited(ctx context.Context, userID uuid.UUID, targetType string, targetID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, nil
	}
	if validateFavoriteTarget(targetType, targetID) != nil {
		return false, nil
	}

	exists, err := s.store.Exists(ctx, userID, targetType, targetID)
	if err != nil {
		return false, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить избранное")
	}

	return exists, nil
}

// GetFavoriteCount возвращает число пользователей, добавивших цель в избранное.
// Счётчик публичный и точный; для некорректной цели — ноль.
func (s *FavoriteService) GetFavoriteCount(ctx context.Context, targetType string, targetID uuid.UUID) (int, error) {
	if validateFavoriteTarget(targetType, targetID) != nil {
		return 0, nil
	}

	count, err := s.store.CountByTarget(ctx, targetType, targetID)
	if err != nil {
		return 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось посчитать избранное")
	}

	return count, nil
}

// GetMyFavorites возвращает избранное пользователя, разбитое по типу цели,
// новые записи первыми. Каждая запись обогащается данными цели; если цель
// удалена, запись остаётся в списке с пометкой target_missing.
func (s *FavoriteService) GetMyFavorites(ctx context.Context, userID uuid.UUID) (*models.MyFavorites, error) {
	result := &models.MyFavorites{
		Profiles: []models.EnrichedFavorite{},
		Events:   []models.EnrichedFavorite{},
	}

	if userID == uuid.Nil {
		return result, nil
	}

	favorites, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось загрузить избранное")
	}

	for _, fav := range favorites {
		enriched := models.EnrichedFavorite{Favorite: fav}

		switch fav.TargetType {
		case models.FavoriteTargetProfile:
			card, err := s.profiles.GetProfileCard(ctx, fav.TargetID)
			switch {
			case err == nil:
				enriched.Profile = card
			case isMissingTarget(err):
				enriched.TargetMissing = true
			default:
				return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось загрузить профиль из избранного")
			}
			result.Profiles = append(result.Profiles, enriched)

		case models.FavoriteTargetEvent:
			card, err := s.events.GetCard(ctx, fav.TargetID)
			switch {
			case err == nil:
				enriched.Event = card
			case isMissingTarget(err):
				enriched.TargetMissing = true
			default:
				return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось загрузить событие из избранного")
			}
			result.Events = append(result.Events, enriched)
		}
	}

	return result, nil
}

// validateFavoriteTarget проверяет тип и идентификатор цели.
func validateFavoriteTarget(targetType string, targetID uuid.UUID) error {
	if _, ok := models.ValidFavoriteTargets[targetType]; !ok {
		return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("недопустимый тип цели: %q", targetType))
	}
	if targetID == uuid.Nil {
		return apperror.New(apperror.ErrCodeValidation, "идентификатор цели обязателен")
	}
	return nil
}

// isMissingTarget распознаёт удалённую цель по ошибкам репозиториев.
func isMissingTarget(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrEventNotFound):
		return true
	default:
		return apperror.IsNotFound(err)
	}
}
