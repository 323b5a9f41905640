package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	FavoriteTargetProfile = "profile"
	FavoriteTargetEvent   = "event"
)

// ValidFavoriteTargets список допустимых типов целей избранного.
var ValidFavoriteTargets = map[string]struct{}{
	FavoriteTargetProfile: {},
	FavoriteTargetEvent:   {},
}

// Favorite — закладка пользователя на профиль или событие.
// На тройку (user_id, target_type, target_id) существует не более одной записи.
type Favorite struct {
	ID         uuid.UUID `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	TargetType string    `db:"target_type" json:"target_type"`
	TargetID   uuid.UUID `db:"target_id" json:"target_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// EnrichedFavorite — запись избранного вместе с данными цели.
// Если цель была удалена после добавления в избранное, TargetMissing = true,
// а Profile/Event остаются пустыми; запись при этом не выбрасывается из списка.
type EnrichedFavorite struct {
	Favorite
	Profile       *ProfileCard `json:"profile,omitempty"`
	Event         *EventCard   `json:"event,omitempty"`
	TargetMissing bool         `json:"target_missing"`
}

// MyFavorites — избранное пользователя, разбитое по типу цели, новые записи первыми.
type MyFavorites struct {
	Profiles []EnrichedFavorite `json:"profiles"`
	Events   []EnrichedFavorite `json:"events"`
}
